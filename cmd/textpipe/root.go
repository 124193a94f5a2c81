package main

import (
	"github.com/spf13/cobra"

	"github.com/tsawler/textpipe/internal/logger"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "textpipe",
	Short: "Topic modeling and sentiment pipeline for CSV text",
	Long: `Reads a CSV with id and text columns, cleans each text, scores its
sentiment, fits an LDA topic model and writes the labeled records, the
model and a topic frequency chart.

Without a subcommand textpipe runs the full pipeline with the defaults
below, adjusted by --config and any flags given.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.Configure()
		if verbose {
			logger.SetVerbose(true)
		}
	},
	RunE: runPipeline,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "TOML file with pipeline settings")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	bindRunFlags(rootCmd)
}
