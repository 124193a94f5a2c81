package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsawler/textpipe"
	"github.com/tsawler/textpipe/internal/logger"
	"github.com/tsawler/textpipe/internal/store"
)

// runFlags holds the pipeline flags shared by the root and run commands.
type runFlags struct {
	input       string
	processed   string
	outputs     string
	model       string
	lexicon     string
	database    string
	topics      int
	maxFeatures int
	seed        int64
	topWords    int
	iterations  int
}

var runOpts runFlags

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full pipeline",
	Long: `Loads the input CSV, cleans and scores every record, fits the topic
model, and writes the processed CSV, topic assignments, model and chart.
Settings come from the defaults, then --config, then flags.`,
	Args: cobra.NoArgs,
	RunE: runPipeline,
}

func init() {
	bindRunFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}

func bindRunFlags(cmd *cobra.Command) {
	def := textpipe.DefaultConfig()
	f := cmd.Flags()
	f.StringVar(&runOpts.input, "input", def.InputPath, "raw CSV with id and text columns")
	f.StringVar(&runOpts.processed, "processed", def.ProcessedPath, "where to write the id,clean_text CSV")
	f.StringVar(&runOpts.outputs, "outputs", def.OutputDir, "directory for assignments and chart")
	f.StringVar(&runOpts.model, "model", def.ModelPath, "where to save the topic model")
	f.StringVar(&runOpts.lexicon, "lexicon", "", "external JSON sentiment lexicon")
	f.StringVar(&runOpts.database, "db", "", "SQLite database that archives each run")
	f.IntVarP(&runOpts.topics, "topics", "k", def.Topic.Topics, "number of topics")
	f.IntVar(&runOpts.maxFeatures, "max-features", def.Topic.MaxFeatures, "vocabulary size cap")
	f.Int64Var(&runOpts.seed, "seed", def.Topic.Seed, "topic model seed")
	f.IntVarP(&runOpts.topWords, "top-words", "n", def.TopWords, "keywords shown per topic")
	f.IntVar(&runOpts.iterations, "iterations", def.Topic.Iterations, "LDA passes (0 keeps the library default)")
}

// resolveSettings layers the config file and explicitly set flags over the
// defaults.
func resolveSettings(cmd *cobra.Command) (settings, error) {
	s := defaultSettings()
	if configPath != "" {
		fc, err := loadConfigFile(configPath)
		if err != nil {
			return s, err
		}
		fc.apply(&s)
	}

	f := cmd.Flags()
	if f.Changed("input") {
		s.Pipeline.InputPath = runOpts.input
	}
	if f.Changed("processed") {
		s.Pipeline.ProcessedPath = runOpts.processed
	}
	if f.Changed("outputs") {
		s.Pipeline.OutputDir = runOpts.outputs
	}
	if f.Changed("model") {
		s.Pipeline.ModelPath = runOpts.model
	}
	if f.Changed("lexicon") {
		s.Pipeline.LexiconPath = runOpts.lexicon
	}
	if f.Changed("db") {
		s.Database = runOpts.database
	}
	if f.Changed("topics") {
		s.Pipeline.Topic.Topics = runOpts.topics
	}
	if f.Changed("max-features") {
		s.Pipeline.Topic.MaxFeatures = runOpts.maxFeatures
	}
	if f.Changed("seed") {
		s.Pipeline.Topic.Seed = runOpts.seed
	}
	if f.Changed("top-words") {
		s.Pipeline.TopWords = runOpts.topWords
	}
	if f.Changed("iterations") {
		s.Pipeline.Topic.Iterations = runOpts.iterations
	}

	if err := s.Pipeline.Validate(); err != nil {
		return s, fmt.Errorf("invalid settings: %w", err)
	}
	return s, nil
}

func runPipeline(cmd *cobra.Command, _ []string) error {
	s, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	logger.Debug("resolved settings", "input", s.Pipeline.InputPath, "topics", s.Pipeline.Topic.Topics,
		"max_features", s.Pipeline.Topic.MaxFeatures, "seed", s.Pipeline.Topic.Seed)

	opts := []textpipe.Option{textpipe.WithOutput(cmd.OutOrStdout())}
	if s.Database != "" {
		st, err := store.Open(s.Database)
		if err != nil {
			return err
		}
		defer st.Close()
		opts = append(opts, textpipe.WithSink(st))
	}

	p, err := textpipe.New(s.Pipeline, opts...)
	if err != nil {
		return err
	}
	_, err = p.Run(cmd.Context())
	return err
}
