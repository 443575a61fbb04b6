package s3

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	splithttp "github.com/tanq16/splitfetch/internal/downloaders/http"
	"github.com/tanq16/splitfetch/internal/utils"
)

type S3Client struct {
	client *awss3.Client
}

func getS3Client(profile string) (*S3Client, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRetryMode("adaptive"),
	}
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}
	cfg, err := config.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config: %v", err)
	}
	return &S3Client{
		client: awss3.NewFromConfig(cfg),
	}, nil
}

func getS3ObjectSize(bucket, key string, client *S3Client) (int64, error) {
	headObj, err := client.client.HeadObject(context.Background(), &awss3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return 0, fmt.Errorf("error accessing S3 object: %v", err)
	}
	if headObj.ContentLength == nil {
		return 0, fmt.Errorf("S3 object reported no content length")
	}
	return *headObj.ContentLength, nil
}

// fetchS3Chunk downloads one byte range of the object into partPath.
func fetchS3Chunk(bucket, key string, chunk splithttp.Chunk, partPath string, bufferSize int, client *S3Client, progressCh chan<- int64) error {
	if bufferSize <= 0 {
		bufferSize = utils.DefaultBufferSize
	}
	partFile, err := os.OpenFile(partPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("error opening part file: %v", err)
	}
	defer partFile.Close()

	if chunk.EndByte < chunk.StartByte {
		return nil
	}

	result, err := client.client.GetObject(context.Background(), &awss3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Range:  aws.String(fmt.Sprintf("bytes=%d-%d", chunk.StartByte, chunk.EndByte)),
	})
	if err != nil {
		os.Remove(partPath)
		return fmt.Errorf("error getting object range: %v", err)
	}
	defer result.Body.Close()

	buffer := make([]byte, bufferSize)
	var written int64
	for {
		n, readErr := result.Body.Read(buffer)
		if n > 0 {
			if _, writeErr := partFile.Write(buffer[:n]); writeErr != nil {
				os.Remove(partPath)
				return fmt.Errorf("error writing part file: %v", writeErr)
			}
			written += int64(n)
			if progressCh != nil {
				progressCh <- int64(n)
			}
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			os.Remove(partPath)
			return fmt.Errorf("error reading object: %v", readErr)
		}
	}
	if written != chunk.Length() {
		os.Remove(partPath)
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", chunk.Length(), written)
	}
	return nil
}
