package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tsawler/textpipe"
	"github.com/tsawler/textpipe/internal/logger"
)

var (
	assignModel   string
	assignInput   string
	assignOutput  string
	assignLexicon string
)

var assignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Label a CSV with a saved model",
	Long: `Cleans and scores every record of --input, assigns topics with the
model saved by a previous run, and writes id,text,clean_text,topic,sentiment
to --output.`,
	Args: cobra.NoArgs,
	RunE: runAssign,
}

func init() {
	assignCmd.Flags().StringVar(&assignModel, "model", filepath.Join("models", "lda_model.gob"), "saved topic model")
	assignCmd.Flags().StringVar(&assignInput, "input", "", "CSV with id and text columns")
	assignCmd.Flags().StringVar(&assignOutput, "output", "", "where to write the labeled CSV")
	assignCmd.Flags().StringVar(&assignLexicon, "lexicon", "", "external JSON sentiment lexicon")
	_ = assignCmd.MarkFlagRequired("input")
	_ = assignCmd.MarkFlagRequired("output")
	rootCmd.AddCommand(assignCmd)
}

func runAssign(cmd *cobra.Command, _ []string) error {
	model, err := textpipe.LoadTopicModel(assignModel)
	if err != nil {
		return err
	}
	ds, err := textpipe.ReadRecordsFile(assignInput)
	if err != nil {
		return err
	}

	res, err := textpipe.LoadResources()
	if err != nil {
		return err
	}
	analyzer, err := textpipe.NewSentimentAnalyzerWithExternal(textpipe.DefaultSentimentConfig(), assignLexicon)
	if err != nil {
		return err
	}

	if err := textpipe.Label(ds, textpipe.NewNormalizer(res), analyzer, model, assignOutput); err != nil {
		return err
	}
	logger.Info("labeled records", "count", len(ds.Records), "output", assignOutput)
	fmt.Fprintf(cmd.OutOrStdout(), "Labeled %d records -> %s\n", len(ds.Records), assignOutput)
	return nil
}
