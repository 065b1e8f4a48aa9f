package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	host    string
	dryRun  bool
	confirm bool
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "kendo-cli",
	Short: "A CLI to interact with the kendo-tally server",
	Long: `A command-line interface for recording kendo matches and reading
statistics from a running kendo-tally server.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&host, "host", "http://localhost:8080", "The host address of the server")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Log notifications instead of posting them")
	rootCmd.PersistentFlags().BoolVar(&confirm, "confirm", false, "Confirm destructive actions")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging on the server for this request")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Whoops. There was an error while executing your command '%s'\n", err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
