package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	splithttp "github.com/tanq16/splitfetch/internal/downloaders/http"
	"github.com/tanq16/splitfetch/internal/utils"
)

// newPartCmd is the hidden worker entrypoint for the isolated-worker fetch
// mode: it downloads exactly one byte range into the given part file and
// exits non-zero on failure.
func newPartCmd() *cobra.Command {
	var (
		partURL    string
		startByte  int64
		endByte    int64
		partOutput string
	)

	cmd := &cobra.Command{
		Use:    "part",
		Short:  "Download a single byte range (internal worker command)",
		Hidden: true,
		Args:   cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if partURL == "" || partOutput == "" {
				fmt.Fprintln(os.Stderr, "part: --url and --output are required")
				os.Exit(1)
			}
			index := 1
			if matches := utils.PartIndexRegex.FindStringSubmatch(partOutput); len(matches) == 2 {
				index, _ = strconv.Atoi(matches[1])
			}
			chunk := splithttp.Chunk{Index: index, StartByte: startByte, EndByte: endByte}
			client := utils.NewSplitHTTPClient(partClientConfig())
			if err := splithttp.FetchChunk(partURL, chunk, partOutput, bufferSize, client, nil); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringVar(&partURL, "url", "", "URL to fetch the range from")
	cmd.Flags().Int64Var(&startByte, "start", 0, "First byte of the range (inclusive)")
	cmd.Flags().Int64Var(&endByte, "end", 0, "Last byte of the range (inclusive)")
	cmd.Flags().StringVar(&partOutput, "output", "", "Interim part file path")
	return cmd
}

// partClientConfig rebuilds the worker's client from the inherited persistent
// flags so an isolated-worker fetch sends exactly the same request shape as
// the in-process one.
func partClientConfig() utils.HTTPClientConfig {
	return utils.HTTPClientConfig{
		Timeout:       timeout,
		KATimeout:     kaTimeout,
		UserAgent:     userAgent,
		ProxyURL:      proxyURL,
		ProxyUsername: proxyUsername,
		ProxyPassword: proxyPassword,
		Headers:       utils.ParseHeaderArgs(headers),
	}
}
