package splithttp

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/tanq16/splitfetch/internal/utils"
)

// PerformMultiDownload runs the segmented pipeline for one resource:
// partition, fetch all chunks concurrently, then assemble in chunk order.
// Any failed chunk aborts assembly so a truncated file can never be reported
// as a success.
func PerformMultiDownload(job *utils.Job, fileSize int64, progressCh chan<- int64) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	job.SetStatus(utils.StatusPartitioning)
	chunks := PartitionChunks(fileSize, job.Connections)

	tempDir := utils.TempDirFor(job.OutputPath, job.ID)
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return fmt.Errorf("error creating temp directory: %v", err)
	}

	job.SetStatus(utils.StatusFetching)
	log.Debug().Str("op", "http/multi-down").Int("chunks", len(chunks)).Int64("fileSize", fileSize).Msgf("Fetching %s", job.URL)
	config := utils.DownloadConfig{
		JobID:            job.ID,
		URL:              job.URL,
		OutputPath:       job.OutputPath,
		Connections:      job.Connections,
		BufferSize:       job.BufferSize,
		FetchMode:        job.FetchMode,
		HTTPClientConfig: job.HTTPClientConfig,
	}
	runner := NewChunkRunner(job.FetchMode)
	errs := runner.FetchAll(config, chunks, progressCh)

	var failed []error
	for _, err := range errs {
		if err != nil {
			failed = append(failed, err)
		}
	}
	if len(failed) > 0 {
		if cleanErr := utils.Clean(job.OutputPath, job.ID); cleanErr != nil {
			log.Debug().Err(cleanErr).Str("op", "http/multi-down").Msg("Interim cleanup failed")
		}
		return fmt.Errorf("%d of %d chunks failed: %w", len(failed), len(chunks), failed[0])
	}

	job.SetStatus(utils.StatusAssembling)
	partPaths := make([]string, len(chunks))
	for i, chunk := range chunks {
		partPaths[i] = utils.PartFilePath(job.OutputPath, job.ID, chunk.Index)
	}
	if err := AssembleParts(job.OutputPath, partPaths, fileSize); err != nil {
		return fmt.Errorf("error assembling %s: %w", job.OutputPath, err)
	}
	if cleanErr := utils.Clean(job.OutputPath, job.ID); cleanErr != nil {
		log.Debug().Err(cleanErr).Str("op", "http/multi-down").Msg("Interim cleanup failed")
	}
	log.Info().Str("op", "http/multi-down").Msgf("Download complete for %s", job.OutputPath)
	return nil
}
