package utils

// Downloader is implemented by each job type (http, s3).
type Downloader interface {
	ValidateJob(job *Job) error
	BuildJob(job *Job) error
	Download(job *Job) error
}

// Job statuses, in pipeline order.
const (
	StatusPending      = "pending"
	StatusProbing      = "probing"
	StatusPartitioning = "partitioning"
	StatusFetching     = "fetching"
	StatusAssembling   = "assembling"
	StatusDone         = "done"
	StatusFailed       = "failed"
)

type Job struct {
	ID               string
	JobType          string
	URL              string
	OutputPath       string
	Connections      int
	BufferSize       int
	FetchMode        string
	Metadata         map[string]any
	HTTPClientConfig HTTPClientConfig
	ProgressFunc     func(downloaded, total int64)
	StatusFunc       func(status string)
}

// SetStatus reports a pipeline phase transition if a callback is wired.
func (j *Job) SetStatus(status string) {
	if j.StatusFunc != nil {
		j.StatusFunc(status)
	}
}

type DownloadConfig struct {
	JobID            string
	URL              string
	OutputPath       string
	Connections      int
	BufferSize       int
	FetchMode        string
	HTTPClientConfig HTTPClientConfig
}

type DownloadEntry struct {
	OutputPath string `yaml:"op,omitempty"`
	URL        string `yaml:"link"`
}
