package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sw360sync",
	Short: "sw360sync is a CLI tool for synchronizing dependency analysis results with SW360",
	Long:  `sw360sync reconciles the dependency trees of an analysis result with an SW360 catalog and attaches source archives, CLIXML and notice files to the releases.`,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
