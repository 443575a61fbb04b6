package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tanq16/splitfetch/internal/scheduler"
	"github.com/tanq16/splitfetch/internal/utils"
	"gopkg.in/yaml.v3"
)

// BatchFile maps a job type section (http, s3) to its download entries.
type BatchFile map[string][]utils.DownloadEntry

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [YAML_FILE]",
		Short: "Process multiple downloads from a YAML file",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			data, err := os.ReadFile(args[0])
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error reading YAML file: %v\n", err)
				os.Exit(1)
			}
			var batchFile BatchFile
			if err := yaml.Unmarshal(data, &batchFile); err != nil {
				fmt.Fprintf(os.Stderr, "Error parsing YAML file: %v\n", err)
				os.Exit(1)
			}
			if err := checkFlags(); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			jobs := buildJobsFromBatch(batchFile)
			if len(jobs) == 0 {
				fmt.Fprintf(os.Stderr, "No valid jobs found in the batch file\n")
				os.Exit(1)
			}
			if err := scheduler.Run(jobs, workers, !noProgress && !debug); err != nil {
				os.Exit(1)
			}
		},
	}
	return cmd
}

func buildJobsFromBatch(batchFile BatchFile) []utils.Job {
	var jobs []utils.Job
	for jobType, entries := range batchFile {
		normalizedType := normalizeJobType(jobType)
		if normalizedType == "" {
			fmt.Fprintf(os.Stderr, "Warning: Unknown job type '%s', skipping...\n", jobType)
			continue
		}
		for _, entry := range entries {
			if entry.URL == "" {
				fmt.Fprintf(os.Stderr, "Warning: Empty link found in %s section, skipping...\n", jobType)
				continue
			}
			job := buildJob(entry.URL)
			job.JobType = normalizedType
			job.OutputPath = entry.OutputPath
			jobs = append(jobs, job)
		}
	}
	return jobs
}

func normalizeJobType(jobType string) string {
	switch strings.ToLower(jobType) {
	case "http", "https":
		return "http"
	case "s3":
		return "s3"
	}
	return ""
}
