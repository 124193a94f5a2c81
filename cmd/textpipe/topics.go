package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tsawler/textpipe"
)

var (
	topicsModel    string
	topicsTopWords int
)

var topicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "Print the keywords of a saved model",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		model, err := textpipe.LoadTopicModel(topicsModel)
		if err != nil {
			return err
		}
		topics, err := model.Topics(topicsTopWords)
		if err != nil {
			return err
		}
		textpipe.PrintTopics(cmd.OutOrStdout(), topics)
		return nil
	},
}

func init() {
	topicsCmd.Flags().StringVar(&topicsModel, "model", filepath.Join("models", "lda_model.gob"), "saved topic model")
	topicsCmd.Flags().IntVarP(&topicsTopWords, "top-words", "n", 8, "keywords shown per topic")
	rootCmd.AddCommand(topicsCmd)
}
