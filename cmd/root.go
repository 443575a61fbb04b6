package cmd

import (
	"fmt"
	u "net/url"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/tanq16/splitfetch/internal/output"
	"github.com/tanq16/splitfetch/internal/scheduler"
	"github.com/tanq16/splitfetch/internal/utils"
)

var (
	outputPath    string
	outputDir     string
	connections   int
	bufferSize    int
	workers       int
	fetchMode     string
	timeout       time.Duration
	kaTimeout     time.Duration
	userAgent     string
	proxyURL      string
	proxyUsername string
	proxyPassword string
	s3Profile     string
	headers       []string
	debug         bool
	noProgress    bool
)

var SplitfetchVersion = "dev"

var rootCmd = &cobra.Command{
	Use:     "splitfetch [URLS...]",
	Short:   "Splitfetch downloads files over multiple concurrent ranged streams",
	Version: SplitfetchVersion,
	Args:    cobra.ArbitraryArgs,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		utils.InitLogger(debug)
	},
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			output.PrintError("No URL provided")
			cmd.Usage()
			os.Exit(1)
		}
		if outputPath != "" && len(args) > 1 {
			output.PrintError("Cannot use --output with multiple URLs, use --dir instead")
			os.Exit(1)
		}
		if err := checkFlags(); err != nil {
			output.PrintError(err.Error())
			os.Exit(1)
		}
		var jobs []utils.Job
		for _, link := range args {
			job := buildJob(link)
			if len(args) == 1 {
				job.OutputPath = outputPath
			}
			jobs = append(jobs, job)
		}
		if err := scheduler.Run(jobs, workers, !noProgress && !debug); err != nil {
			os.Exit(1)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func checkFlags() error {
	if connections < 1 {
		return fmt.Errorf("connections must be at least 1")
	}
	if bufferSize < 1 {
		return fmt.Errorf("buffer size must be at least 1 byte")
	}
	if fetchMode != utils.FetchModeInProcess && fetchMode != utils.FetchModeIsolatedWorker {
		return fmt.Errorf("fetch mode must be %q or %q", utils.FetchModeInProcess, utils.FetchModeIsolatedWorker)
	}
	return nil
}

func buildJob(link string) utils.Job {
	return utils.Job{
		JobType:          utils.DetermineJobType(link),
		URL:              link,
		Connections:      connections,
		BufferSize:       bufferSize,
		FetchMode:        fetchMode,
		Metadata:         map[string]any{"outputDir": outputDir, "profile": s3Profile},
		HTTPClientConfig: globalHTTPConfig(),
	}
}

func globalHTTPConfig() utils.HTTPClientConfig {
	ua := userAgent
	if ua == "randomize" {
		ua = utils.GetRandomUserAgent()
	}
	proxy := proxyURL
	// Pull auth out of the proxy URL if embedded there
	if parsedProxy, err := u.Parse(proxy); err == nil && parsedProxy.User != nil && proxyUsername == "" {
		proxyUsername = parsedProxy.User.Username()
		if password, set := parsedProxy.User.Password(); set {
			proxyPassword = password
		}
		parsedProxy.User = nil
		proxy = parsedProxy.String()
	}
	return utils.HTTPClientConfig{
		Timeout:       timeout,
		KATimeout:     kaTimeout,
		ProxyURL:      proxy,
		ProxyUsername: proxyUsername,
		ProxyPassword: proxyPassword,
		UserAgent:     ua,
		Headers:       utils.ParseHeaderArgs(headers),
	}
}

func init() {
	rootCmd.PersistentFlags().IntVarP(&connections, "connections", "c", utils.DefaultConnections, "Number of ranged streams per download")
	rootCmd.PersistentFlags().IntVarP(&bufferSize, "buffer", "b", utils.DefaultBufferSize, "Per-stream buffer size in bytes")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "dir", "d", ".", "Directory where downloaded files are saved")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "w", 0, "Number of downloads to run in parallel (0 = all)")
	rootCmd.PersistentFlags().StringVar(&fetchMode, "fetch-mode", utils.FetchModeInProcess, "Range fetch execution: in-process or isolated-worker")
	rootCmd.PersistentFlags().DurationVarP(&timeout, "timeout", "t", 3*time.Minute, "Connection timeout (eg. 5s, 10m)")
	rootCmd.PersistentFlags().DurationVarP(&kaTimeout, "keep-alive-timeout", "k", 90*time.Second, "Keep-alive timeout for client (eg. 10s, 1m)")
	rootCmd.PersistentFlags().StringVarP(&userAgent, "user-agent", "a", "", "User agent ('randomize' picks one)")
	rootCmd.PersistentFlags().StringVarP(&proxyURL, "proxy", "p", "", "HTTP/HTTPS proxy URL")
	rootCmd.PersistentFlags().StringVar(&proxyUsername, "proxy-username", "", "Proxy username (if not provided in proxy URL)")
	rootCmd.PersistentFlags().StringVar(&proxyPassword, "proxy-password", "", "Proxy password (if not provided in proxy URL)")
	rootCmd.PersistentFlags().StringVar(&s3Profile, "aws-profile", "", "AWS shared config profile for s3:// downloads")
	rootCmd.PersistentFlags().StringArrayVarP(&headers, "header", "H", []string{}, "Custom headers; can be specified multiple times")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "Disable the live progress display")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (inferred if not provided; single URL only)")

	rootCmd.AddCommand(newBatchCmd())
	rootCmd.AddCommand(newCleanCmd())
	rootCmd.AddCommand(newPartCmd())
}
