package scheduler

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	splithttp "github.com/tanq16/splitfetch/internal/downloaders/http"
	"github.com/tanq16/splitfetch/internal/downloaders/s3"
	"github.com/tanq16/splitfetch/internal/output"
	"github.com/tanq16/splitfetch/internal/utils"
)

// downloaderRegistry maps job types to their respective downloader implementations
var downloaderRegistry = map[string]utils.Downloader{
	"http": &splithttp.HTTPDownloader{},
	"s3":   &s3.S3Downloader{},
}

// Run drives every job through its pipeline. Jobs fan out across numWorkers;
// numWorkers <= 0 runs all jobs concurrently. Each job succeeds or fails on
// its own; the batch never aborts early.
func Run(jobs []utils.Job, numWorkers int, showProgress bool) error {
	if len(jobs) == 0 {
		return fmt.Errorf("no jobs to run")
	}
	outputMgr := output.NewManager()
	if !showProgress {
		outputMgr.DisableDisplay()
	}
	outputMgr.StartDisplay()

	if numWorkers <= 0 || numWorkers > len(jobs) {
		numWorkers = len(jobs)
	}
	jobCh := make(chan utils.Job, len(jobs))
	for _, job := range jobs {
		jobCh <- job
	}
	close(jobCh)

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			processJobs(jobCh, outputMgr)
		}()
	}
	wg.Wait()

	outputMgr.StopDisplay()
	outputMgr.ShowSummary()
	if errs := outputMgr.Errors(); len(errs) > 0 {
		return fmt.Errorf("%d of %d downloads failed", len(errs), len(jobs))
	}
	return nil
}

// processJobs handles job processing for a worker
func processJobs(jobCh <-chan utils.Job, outputMgr *output.Manager) {
	log := utils.GetLogger("scheduler")
	for job := range jobCh {
		if job.ID == "" {
			job.ID = uuid.NewString()
		}
		if job.Metadata == nil {
			job.Metadata = make(map[string]any)
		}
		name := job.OutputPath
		if name == "" {
			name = job.URL
		}
		outputMgr.Register(job.ID, name)
		logger := log.With().Str("jobID", job.ID).Str("url", job.URL).Logger()

		downloader, exists := downloaderRegistry[job.JobType]
		if !exists {
			outputMgr.ReportError(job.ID, fmt.Errorf("unknown job type: %s", job.JobType))
			continue
		}

		id := job.ID
		job.StatusFunc = func(status string) {
			outputMgr.SetStatus(id, status)
		}
		job.ProgressFunc = func(downloaded, total int64) {
			outputMgr.SetProgress(id, downloaded, total)
		}

		if err := downloader.ValidateJob(&job); err != nil {
			logger.Error().Err(err).Msg("Validation failed")
			outputMgr.ReportError(job.ID, err)
			continue
		}
		if err := downloader.BuildJob(&job); err != nil {
			logger.Error().Err(err).Msg("Probe failed")
			outputMgr.ReportError(job.ID, err)
			continue
		}
		outputMgr.SetName(job.ID, filepath.Base(job.OutputPath))

		err := downloader.Download(&job)
		utils.ReleaseOutputPath(job.OutputPath)
		if err != nil {
			logger.Error().Err(err).Msg("Download failed")
			outputMgr.ReportError(job.ID, err)
			continue
		}
		logger.Debug().Str("output", job.OutputPath).Msg("Download completed")
		outputMgr.Complete(job.ID, job.OutputPath)
	}
}
