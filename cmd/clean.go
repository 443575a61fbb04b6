package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tanq16/splitfetch/internal/output"
	"github.com/tanq16/splitfetch/internal/utils"
)

func newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean [DIR]",
		Short: "Remove leftover interim part files",
		Args:  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			if err := utils.CleanDir(dir); err != nil {
				output.PrintError("Error cleaning up temporary files")
				os.Exit(1)
			}
			output.PrintSuccess("Temporary files cleaned up")
		},
	}
	return cmd
}
