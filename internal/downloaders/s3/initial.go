package s3

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tanq16/splitfetch/internal/utils"
)

type S3Downloader struct{}

func (d *S3Downloader) ValidateJob(job *utils.Job) error {
	bucket, key, err := parseS3URL(job.URL)
	if err != nil {
		return err
	}
	if key == "" || strings.HasSuffix(key, "/") {
		return fmt.Errorf("S3 URL must point to an object, not a prefix")
	}
	job.Metadata["bucket"] = bucket
	job.Metadata["key"] = key
	log.Debug().Str("op", "s3/initial").Msgf("job validated for s3://%s/%s", bucket, key)
	return nil
}

func (d *S3Downloader) BuildJob(job *utils.Job) error {
	job.SetStatus(utils.StatusProbing)
	bucket := job.Metadata["bucket"].(string)
	key := job.Metadata["key"].(string)
	profile, _ := job.Metadata["profile"].(string)
	s3Client, err := getS3Client(profile)
	if err != nil {
		return fmt.Errorf("error creating S3 client: %v", err)
	}

	size, err := getS3ObjectSize(bucket, key, s3Client)
	if err != nil {
		return fmt.Errorf("error getting S3 object info: %w", err)
	}
	job.Metadata["fileSize"] = size

	if job.OutputPath == "" {
		parts := strings.Split(key, "/")
		outputDir, _ := job.Metadata["outputDir"].(string)
		job.OutputPath = filepath.Join(outputDir, parts[len(parts)-1])
	}
	if existingFile, err := os.Stat(job.OutputPath); err == nil {
		if size > 0 && existingFile.Size() == size {
			return fmt.Errorf("file already exists with same size")
		}
	}
	job.OutputPath = utils.ReserveOutputPath(job.OutputPath)
	log.Debug().Str("op", "s3/initial").Msgf("job built for s3://%s/%s (%d bytes)", bucket, key, size)
	return nil
}

func parseS3URL(url string) (string, string, error) {
	url = strings.TrimPrefix(url, "s3://")
	parts := strings.SplitN(url, "/", 2)
	if len(parts) < 1 || parts[0] == "" {
		return "", "", fmt.Errorf("invalid S3 URL format")
	}
	bucket := parts[0]
	key := ""
	if len(parts) > 1 {
		key = parts[1]
	}
	return bucket, key, nil
}
