package splithttp

import (
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tanq16/splitfetch/internal/utils"
)

type HTTPDownloader struct{}

func (d *HTTPDownloader) ValidateJob(job *utils.Job) error {
	parsedURL, err := url.Parse(job.URL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	return nil
}

func (d *HTTPDownloader) BuildJob(job *utils.Job) error {
	job.SetStatus(utils.StatusProbing)
	job.HTTPClientConfig.HighThreadMode = job.Connections > 5
	client := utils.NewSplitHTTPClient(job.HTTPClientConfig)

	fileSize, fileName, err := getFileInfo(job.URL, client)
	if err != nil {
		return fmt.Errorf("error getting file info: %w", err)
	}

	if job.OutputPath == "" {
		if fileName == "" {
			fileName = utils.URLFilename(job.URL)
		}
		outputDir, _ := job.Metadata["outputDir"].(string)
		job.OutputPath = filepath.Join(outputDir, fileName)
	}
	if existingFile, err := os.Stat(job.OutputPath); err == nil {
		if fileSize > 0 && existingFile.Size() == fileSize {
			return fmt.Errorf("file already exists with same size")
		}
	}
	job.OutputPath = utils.ReserveOutputPath(job.OutputPath)

	job.Metadata["fileSize"] = fileSize
	return nil
}

func (d *HTTPDownloader) Download(job *utils.Job) error {
	fileSize, _ := job.Metadata["fileSize"].(int64)

	progressCh := make(chan int64, 100)
	progressDone := make(chan struct{})
	startTime := time.Now()

	go func() {
		defer close(progressDone)
		var totalDownloaded int64
		for bytes := range progressCh {
			totalDownloaded += bytes
			if job.ProgressFunc != nil {
				job.ProgressFunc(totalDownloaded, fileSize)
			}
		}
		if job.ProgressFunc != nil {
			job.ProgressFunc(totalDownloaded, fileSize)
		}
	}()

	err := PerformMultiDownload(job, fileSize, progressCh)

	close(progressCh)
	<-progressDone

	job.Metadata["totalTime"] = time.Since(startTime).Seconds()
	return err
}

// getFileInfo probes the resource with a HEAD request and returns its declared
// size plus any filename from Content-Disposition. No body is transferred.
func getFileInfo(link string, client utils.HTTPDoer) (int64, string, error) {
	req, err := http.NewRequest("HEAD", link, nil)
	if err != nil {
		return 0, "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()
	filename := ""
	filenameRegex := regexp.MustCompile(`[^a-zA-Z0-9_\-\. ]+`)
	if contentDisposition := resp.Header.Get("Content-Disposition"); contentDisposition != "" {
		if _, params, err := mime.ParseMediaType(contentDisposition); err == nil {
			if fn, ok := params["filename"]; ok && fn != "" {
				filename = filenameRegex.ReplaceAllString(fn, "_")
			} else if fn, ok := params["filename*"]; ok && fn != "" {
				if strings.HasPrefix(fn, "UTF-8''") {
					unescaped, _ := url.PathUnescape(strings.TrimPrefix(fn, "UTF-8''"))
					filename = filenameRegex.ReplaceAllString(unescaped, "_")
				}
			}
		}
	}
	if resp.StatusCode >= 400 {
		return 0, filename, fmt.Errorf("server returned error: %d", resp.StatusCode)
	}
	if resp.Header.Get("Accept-Ranges") != "bytes" {
		return 0, filename, utils.ErrRangeRequestsNotSupported
	}
	contentLength := resp.Header.Get("Content-Length")
	if contentLength == "" {
		return 0, filename, ErrMissingLength
	}
	size, err := strconv.ParseInt(contentLength, 10, 64)
	if err != nil {
		return 0, filename, fmt.Errorf("%w: %v", ErrMissingLength, err)
	}
	if size < 0 {
		return 0, filename, fmt.Errorf("%w: negative size reported", ErrMissingLength)
	}
	return size, filename, nil
}
