package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "e2esuite",
	Short: "Tooling for the end-to-end UI test suite",
	Long: `Tooling for the end-to-end UI test suite.

The tests themselves run with "go test -tags acceptance ./acceptance". This
command installs browsers, shows the resolved configuration and serves the
HTML report of the last run.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(showReportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
