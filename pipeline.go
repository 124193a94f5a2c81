package textpipe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tsawler/textpipe/internal/logger"
)

// Config holds the pipeline's paths and parameters.
type Config struct {
	InputPath     string // Raw CSV with id and text columns.
	ProcessedPath string // Intermediate id,clean_text CSV.
	OutputDir     string // Receives topic_assignments.csv and topic_frequency.png.
	ModelPath     string // Saved topic model.
	LexiconPath   string // Optional external sentiment lexicon (JSON).

	Topic    TopicConfig
	TopWords int // Keywords reported per topic.
}

// Output file names inside OutputDir.
const (
	AssignmentsFile = "topic_assignments.csv"
	ChartFile       = "topic_frequency.png"
)

// DefaultConfig returns the standard layout relative to the working
// directory.
func DefaultConfig() Config {
	return Config{
		InputPath:     filepath.Join("data", "raw_data", "sample_raw_data.csv"),
		ProcessedPath: filepath.Join("data", "processed", "sample_clean_data.csv"),
		OutputDir:     "outputs",
		ModelPath:     filepath.Join("models", "lda_model.gob"),
		Topic:         DefaultTopicConfig(),
		TopWords:      8,
	}
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	switch {
	case c.InputPath == "":
		return errors.New("input path is required")
	case c.ProcessedPath == "":
		return errors.New("processed path is required")
	case c.OutputDir == "":
		return errors.New("output directory is required")
	case c.ModelPath == "":
		return errors.New("model path is required")
	case c.TopWords < 1:
		return fmt.Errorf("top words must be at least 1, got %d", c.TopWords)
	}
	return c.Topic.Validate()
}

// AssignmentsPath is where the labeled output CSV is written.
func (c Config) AssignmentsPath() string {
	return filepath.Join(c.OutputDir, AssignmentsFile)
}

// ChartPath is where the topic frequency chart is written.
func (c Config) ChartPath() string {
	return filepath.Join(c.OutputDir, ChartFile)
}

// Result is everything a completed run produced.
type Result struct {
	Config  Config
	Records []Record
	Topics  []TopicKeywords
	Counts  []TopicCount
}

// A RunSink receives each completed run, for example to archive it.
type RunSink interface {
	SaveRun(ctx context.Context, result *Result) error
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithOutput sets the writer for progress and summary lines.
func WithOutput(w io.Writer) Option {
	return func(p *Pipeline) {
		p.out = w
	}
}

// WithNormalizer replaces the text normalizer.
func WithNormalizer(n *Normalizer) Option {
	return func(p *Pipeline) {
		p.normalizer = n
	}
}

// WithEstimator replaces the sentiment estimator.
func WithEstimator(e PolarityEstimator) Option {
	return func(p *Pipeline) {
		p.estimator = e
	}
}

// WithTopicModel replaces the topic model. It is refitted by Run.
func WithTopicModel(m *TopicModel) Option {
	return func(p *Pipeline) {
		p.model = m
	}
}

// WithSink adds a destination that receives the run result.
func WithSink(s RunSink) Option {
	return func(p *Pipeline) {
		p.sinks = append(p.sinks, s)
	}
}

// Pipeline runs normalization, sentiment scoring and topic modeling over
// one input file.
type Pipeline struct {
	config     Config
	out        io.Writer
	normalizer *Normalizer
	estimator  PolarityEstimator
	model      *TopicModel
	sinks      []RunSink
}

// New builds a Pipeline. Components not supplied through options are
// created from config: English resources for the normalizer, the lexicon
// analyzer (merged with config.LexiconPath) and an LDA topic model.
func New(config Config, opts ...Option) (*Pipeline, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	p := &Pipeline{config: config, out: os.Stdout}
	for _, applyOpt := range opts {
		applyOpt(p)
	}

	if p.normalizer == nil {
		res, err := LoadResources()
		if err != nil {
			return nil, err
		}
		p.normalizer = NewNormalizer(res)
	}
	if p.estimator == nil {
		analyzer, err := NewSentimentAnalyzerWithExternal(DefaultSentimentConfig(), config.LexiconPath)
		if err != nil {
			return nil, err
		}
		p.estimator = analyzer
	}
	if p.model == nil {
		model, err := NewTopicModel(WithTopicConfig(config.Topic))
		if err != nil {
			return nil, err
		}
		p.model = model
	}
	return p, nil
}

// Model returns the pipeline's topic model.
func (p *Pipeline) Model() *TopicModel {
	return p.model
}

// Run executes every stage in order and stops at the first error. Files
// written before a failing stage are left in place. ctx is checked between
// stages.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	cfg := p.config
	p.println("Starting NLP Topic Modelling Pipeline...")
	p.println()

	p.println("Loading raw data...")
	logger.Section("load")
	ds, err := ReadRecordsFile(cfg.InputPath)
	if err != nil {
		return nil, err
	}
	logger.Debug("loaded records", "path", cfg.InputPath, "count", len(ds.Records))

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.println("Preprocessing text...")
	logger.Section("normalize")
	p.Normalize(ds.Records)

	p.println("Calculating sentiment scores...")
	logger.Section("sentiment")
	p.Score(ds.Records)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.println("Saving processed data...")
	if err := writeCSVFile(cfg.ProcessedPath, ds, WriteProcessed); err != nil {
		return nil, fmt.Errorf("saving processed data: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.println("Training topic model...")
	logger.Section("fit")
	corpus := Corpus(ds.Records)
	if err := p.model.Fit(corpus); err != nil {
		return nil, fmt.Errorf("training topic model: %w", err)
	}
	logger.Debug("fitted topic model", "topics", p.model.Config().Topics, "vocabulary", len(p.model.Vocabulary()))

	p.println("Assigning topics...")
	if err := p.Assign(ds.Records); err != nil {
		return nil, fmt.Errorf("assigning topics: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.println("Saving topic assignments...")
	if err := writeCSVFile(cfg.AssignmentsPath(), ds, WriteAssignments); err != nil {
		return nil, fmt.Errorf("saving topic assignments: %w", err)
	}

	p.println("Saving trained model...")
	if err := p.model.Save(cfg.ModelPath); err != nil {
		return nil, fmt.Errorf("saving model: %w", err)
	}

	topics, err := p.model.Topics(cfg.TopWords)
	if err != nil {
		return nil, err
	}
	p.println()
	p.println("--- Topic Keywords ---")
	PrintTopics(p.out, topics)

	counts := CountTopics(ds.Records)
	p.println()
	p.println("--- Topic Distribution ---")
	PrintCounts(p.out, counts)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.println("Generating topic frequency chart...")
	if err := WriteTopicChart(cfg.ChartPath(), counts); err != nil {
		return nil, err
	}

	result := &Result{
		Config:  cfg,
		Records: ds.Records,
		Topics:  topics,
		Counts:  counts,
	}
	for _, sink := range p.sinks {
		if err := sink.SaveRun(ctx, result); err != nil {
			return nil, fmt.Errorf("recording run: %w", err)
		}
	}

	p.println()
	p.println("Pipeline completed successfully.")
	return result, nil
}

// Normalize fills CleanText for every record.
func (p *Pipeline) Normalize(records []Record) {
	texts := make([]string, len(records))
	for i := range records {
		texts[i] = records[i].Text
	}
	for i, clean := range p.normalizer.CleanAll(texts) {
		records[i].CleanText = clean
		if clean == "" {
			logger.Debug("record cleaned to empty text", "id", records[i].ID)
		}
	}
}

// Score fills Sentiment for every record from its cleaned text.
func (p *Pipeline) Score(records []Record) {
	for i := range records {
		records[i].Sentiment = ScoreSentiment(p.estimator, records[i].CleanText)
	}
}

// Assign fills Topic for every record using the fitted model.
func (p *Pipeline) Assign(records []Record) error {
	topics, err := p.model.Transform(Corpus(records))
	if err != nil {
		return err
	}
	for i := range records {
		records[i].Topic = topics[i]
	}
	return nil
}

// Label normalizes, scores and assigns topics to the records in ds with an
// already fitted model, and writes the labeled CSV to outputPath.
func Label(ds *Dataset, normalizer *Normalizer, estimator PolarityEstimator, model *TopicModel, outputPath string) error {
	p := &Pipeline{normalizer: normalizer, estimator: estimator, model: model}
	p.Normalize(ds.Records)
	p.Score(ds.Records)
	if err := p.Assign(ds.Records); err != nil {
		return fmt.Errorf("assigning topics: %w", err)
	}
	return writeCSVFile(outputPath, ds, WriteAssignments)
}

// PrintTopics writes one "Topic <id>: w1, w2, ..." line per topic.
func PrintTopics(w io.Writer, topics []TopicKeywords) {
	for _, t := range topics {
		fmt.Fprintf(w, "Topic %d: %s\n", t.Topic, strings.Join(t.Words, ", "))
	}
}

// PrintCounts writes the per-topic record counts as a two-column table.
func PrintCounts(w io.Writer, counts []TopicCount) {
	fmt.Fprintf(w, "%-6s %s\n", ColumnTopic, "count")
	for _, c := range counts {
		fmt.Fprintf(w, "%-6d %d\n", c.Topic, c.Count)
	}
}

func (p *Pipeline) println(a ...any) {
	fmt.Fprintln(p.out, a...)
}
