package splithttp

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/tanq16/splitfetch/internal/utils"
)

// FetchChunk downloads exactly one byte range into partPath, streaming the
// body through a bufferSize read buffer. On any failure the partial part file
// is removed so it can never reach assembly.
func FetchChunk(link string, chunk Chunk, partPath string, bufferSize int, client utils.HTTPDoer, progressCh chan<- int64) error {
	if bufferSize <= 0 {
		bufferSize = utils.DefaultBufferSize
	}
	partFile, err := os.OpenFile(partPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("error opening part file: %v", err)
	}
	defer partFile.Close()

	// Zero-length range rounds to an empty part with no network request.
	if chunk.EndByte < chunk.StartByte {
		return nil
	}

	err = fetchChunkBody(link, chunk, partFile, bufferSize, client, progressCh)
	if err != nil {
		os.Remove(partPath)
		return err
	}
	return nil
}

func fetchChunkBody(link string, chunk Chunk, partFile *os.File, bufferSize int, client utils.HTTPDoer, progressCh chan<- int64) error {
	req, err := http.NewRequest("GET", link, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", chunk.StartByte, chunk.EndByte))
	req.Header.Set("Connection", "keep-alive")
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusPartialContent {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	if resp.Header.Get("Content-Range") == "" {
		return errors.New("missing Content-Range header")
	}

	buffer := make([]byte, bufferSize)
	var written int64
	for {
		bytesRead, readErr := resp.Body.Read(buffer)
		if bytesRead > 0 {
			if _, writeErr := partFile.Write(buffer[:bytesRead]); writeErr != nil {
				return writeErr
			}
			written += int64(bytesRead)
			if progressCh != nil {
				progressCh <- int64(bytesRead)
			}
		}
		if readErr != nil {
			if readErr == io.EOF {
				break
			}
			return readErr
		}
	}
	if written != chunk.Length() {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", chunk.Length(), written)
	}
	return nil
}
