package splithttp

import (
	"slices"
	"testing"
	"time"

	"github.com/tanq16/splitfetch/internal/utils"
)

func hasFlagPair(args []string, flag, value string) bool {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag && args[i+1] == value {
			return true
		}
	}
	return false
}

func TestWorkerArgsForwardsClientConfig(t *testing.T) {
	config := utils.DownloadConfig{
		JobID:      "job-x",
		URL:        "http://example.com/file.bin",
		OutputPath: "file.bin",
		BufferSize: 1024,
		HTTPClientConfig: utils.HTTPClientConfig{
			Timeout:       90 * time.Second,
			KATimeout:     30 * time.Second,
			UserAgent:     "agent/1.0",
			ProxyURL:      "http://proxy.local:8080",
			ProxyUsername: "user",
			ProxyPassword: "pass",
			Headers:       map[string]string{"Authorization": "Bearer token"},
		},
	}
	chunk := Chunk{Index: 2, StartByte: 100, EndByte: 199}
	args := workerArgs(config, chunk, "file.bin.part2")

	if args[0] != "part" {
		t.Fatalf("first arg must be the worker command, got %q", args[0])
	}
	pairs := map[string]string{
		"--url":                "http://example.com/file.bin",
		"--start":              "100",
		"--end":                "199",
		"--output":             "file.bin.part2",
		"--buffer":             "1024",
		"--timeout":            "1m30s",
		"--keep-alive-timeout": "30s",
		"--user-agent":         "agent/1.0",
		"--proxy":              "http://proxy.local:8080",
		"--proxy-username":     "user",
		"--proxy-password":     "pass",
		"--header":             "Authorization: Bearer token",
	}
	for flag, value := range pairs {
		if !hasFlagPair(args, flag, value) {
			t.Errorf("worker args missing %s %q: %v", flag, value, args)
		}
	}
}

func TestWorkerArgsOmitsUnsetFlags(t *testing.T) {
	config := utils.DownloadConfig{
		URL:        "http://example.com/file.bin",
		BufferSize: 512,
	}
	args := workerArgs(config, Chunk{Index: 1, StartByte: 0, EndByte: 9}, "file.bin.part1")
	for _, flag := range []string{"--proxy", "--proxy-username", "--proxy-password", "--user-agent", "--header"} {
		if slices.Contains(args, flag) {
			t.Errorf("unset option %s should not be forwarded: %v", flag, args)
		}
	}
}
