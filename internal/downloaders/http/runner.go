package splithttp

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"

	"github.com/tanq16/splitfetch/internal/utils"
)

// ChunkRunner fans range fetches out concurrently and reports one result slot
// per chunk. Implementations differ only in where the fetches execute; the
// observable semantics are identical.
type ChunkRunner interface {
	FetchAll(config utils.DownloadConfig, chunks []Chunk, progressCh chan<- int64) []error
}

func NewChunkRunner(mode string) ChunkRunner {
	if mode == utils.FetchModeIsolatedWorker {
		return &processRunner{}
	}
	return &goroutineRunner{}
}

// goroutineRunner fetches every chunk on its own goroutine within the process.
type goroutineRunner struct{}

func (r *goroutineRunner) FetchAll(config utils.DownloadConfig, chunks []Chunk, progressCh chan<- int64) []error {
	client := utils.NewSplitHTTPClient(config.HTTPClientConfig)
	errs := make([]error, len(chunks))
	var wg sync.WaitGroup
	for i, chunk := range chunks {
		wg.Add(1)
		go func(i int, chunk Chunk) {
			defer wg.Done()
			partPath := utils.PartFilePath(config.OutputPath, config.JobID, chunk.Index)
			if err := FetchChunk(config.URL, chunk, partPath, config.BufferSize, client, progressCh); err != nil {
				errs[i] = &ChunkError{Index: chunk.Index, Err: err}
			}
		}(i, chunk)
	}
	wg.Wait()
	return errs
}

// workerArgs serializes one chunk plus the full client configuration into the
// hidden part command's argument list. Every knob the in-process client honors
// must be forwarded so both fetch modes behave identically.
func workerArgs(config utils.DownloadConfig, chunk Chunk, partPath string) []string {
	args := []string{
		"part",
		"--url", config.URL,
		"--start", strconv.FormatInt(chunk.StartByte, 10),
		"--end", strconv.FormatInt(chunk.EndByte, 10),
		"--output", partPath,
		"--buffer", strconv.Itoa(config.BufferSize),
	}
	cc := config.HTTPClientConfig
	if cc.Timeout != 0 {
		args = append(args, "--timeout", cc.Timeout.String())
	}
	if cc.KATimeout != 0 {
		args = append(args, "--keep-alive-timeout", cc.KATimeout.String())
	}
	if cc.UserAgent != "" {
		args = append(args, "--user-agent", cc.UserAgent)
	}
	if cc.ProxyURL != "" {
		args = append(args, "--proxy", cc.ProxyURL)
	}
	if cc.ProxyUsername != "" {
		args = append(args, "--proxy-username", cc.ProxyUsername)
	}
	if cc.ProxyPassword != "" {
		args = append(args, "--proxy-password", cc.ProxyPassword)
	}
	for key, value := range cc.Headers {
		args = append(args, "--header", fmt.Sprintf("%s: %s", key, value))
	}
	return args
}

// processRunner spawns one worker process per chunk, re-invoking the current
// executable's hidden part command. Progress is reported per completed chunk
// since worker output is the part file itself.
type processRunner struct{}

func (r *processRunner) FetchAll(config utils.DownloadConfig, chunks []Chunk, progressCh chan<- int64) []error {
	errs := make([]error, len(chunks))
	exe, err := os.Executable()
	if err != nil {
		for i, chunk := range chunks {
			errs[i] = &ChunkError{Index: chunk.Index, Err: fmt.Errorf("resolving executable: %v", err)}
		}
		return errs
	}
	var wg sync.WaitGroup
	for i, chunk := range chunks {
		wg.Add(1)
		go func(i int, chunk Chunk) {
			defer wg.Done()
			partPath := utils.PartFilePath(config.OutputPath, config.JobID, chunk.Index)
			cmd := exec.Command(exe, workerArgs(config, chunk, partPath)...)
			var stderr bytes.Buffer
			cmd.Stderr = &stderr
			if err := cmd.Run(); err != nil {
				detail := strings.TrimSpace(stderr.String())
				if detail != "" {
					err = fmt.Errorf("worker process: %v: %s", err, detail)
				} else {
					err = fmt.Errorf("worker process: %v", err)
				}
				errs[i] = &ChunkError{Index: chunk.Index, Err: err}
				return
			}
			if progressCh != nil && chunk.Length() > 0 {
				progressCh <- chunk.Length()
			}
		}(i, chunk)
	}
	wg.Wait()
	return errs
}
