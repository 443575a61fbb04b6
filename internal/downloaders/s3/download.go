package s3

import (
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	splithttp "github.com/tanq16/splitfetch/internal/downloaders/http"
	"github.com/tanq16/splitfetch/internal/utils"
)

// Download runs the segmented pipeline against an S3 object using ranged
// GetObject calls. Chunk fan-out always runs in-process; the isolated-worker
// mode only applies to HTTP jobs.
func (d *S3Downloader) Download(job *utils.Job) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	bucket := job.Metadata["bucket"].(string)
	key := job.Metadata["key"].(string)
	profile, _ := job.Metadata["profile"].(string)
	fileSize, _ := job.Metadata["fileSize"].(int64)

	s3Client, err := getS3Client(profile)
	if err != nil {
		return fmt.Errorf("error creating S3 client: %v", err)
	}

	progressCh := make(chan int64, 100)
	progressDone := make(chan struct{})
	go func() {
		defer close(progressDone)
		var totalDownloaded int64
		for bytes := range progressCh {
			totalDownloaded += bytes
			if job.ProgressFunc != nil {
				job.ProgressFunc(totalDownloaded, fileSize)
			}
		}
	}()

	job.SetStatus(utils.StatusPartitioning)
	chunks := splithttp.PartitionChunks(fileSize, job.Connections)

	tempDir := utils.TempDirFor(job.OutputPath, job.ID)
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		close(progressCh)
		<-progressDone
		return fmt.Errorf("error creating temp directory: %v", err)
	}

	job.SetStatus(utils.StatusFetching)
	log.Debug().Str("op", "s3/download").Int("chunks", len(chunks)).Msgf("Fetching s3://%s/%s", bucket, key)
	errs := make([]error, len(chunks))
	var wg sync.WaitGroup
	for i, chunk := range chunks {
		wg.Add(1)
		go func(i int, chunk splithttp.Chunk) {
			defer wg.Done()
			partPath := utils.PartFilePath(job.OutputPath, job.ID, chunk.Index)
			if err := fetchS3Chunk(bucket, key, chunk, partPath, job.BufferSize, s3Client, progressCh); err != nil {
				errs[i] = &splithttp.ChunkError{Index: chunk.Index, Err: err}
			}
		}(i, chunk)
	}
	wg.Wait()
	close(progressCh)
	<-progressDone

	var failed []error
	for _, err := range errs {
		if err != nil {
			failed = append(failed, err)
		}
	}
	if len(failed) > 0 {
		if cleanErr := utils.Clean(job.OutputPath, job.ID); cleanErr != nil {
			log.Debug().Err(cleanErr).Str("op", "s3/download").Msg("Interim cleanup failed")
		}
		return fmt.Errorf("%d of %d chunks failed: %w", len(failed), len(chunks), failed[0])
	}

	job.SetStatus(utils.StatusAssembling)
	partPaths := make([]string, len(chunks))
	for i, chunk := range chunks {
		partPaths[i] = utils.PartFilePath(job.OutputPath, job.ID, chunk.Index)
	}
	if err := splithttp.AssembleParts(job.OutputPath, partPaths, fileSize); err != nil {
		return fmt.Errorf("error assembling %s: %w", job.OutputPath, err)
	}
	if cleanErr := utils.Clean(job.OutputPath, job.ID); cleanErr != nil {
		log.Debug().Err(cleanErr).Str("op", "s3/download").Msg("Interim cleanup failed")
	}
	log.Info().Str("op", "s3/download").Msgf("Download complete for %s", job.OutputPath)
	return nil
}
