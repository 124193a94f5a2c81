package textpipe

import (
	"errors"
	"fmt"
	"sort"

	"github.com/james-bowman/nlp"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrNotFitted is returned when a TopicModel is queried before Fit.
	ErrNotFitted = errors.New("topic model is not fitted")
	// ErrEmptyCorpus is returned when Fit receives no documents.
	ErrEmptyCorpus = errors.New("empty corpus")
	// ErrEmptyVocabulary is returned when no term survives vectorization.
	ErrEmptyVocabulary = errors.New("empty vocabulary: documents contain only stop words or nothing")
)

// TopicConfig holds the topic model's fitting parameters.
type TopicConfig struct {
	Topics      int     // Number of topics.
	MaxFeatures int     // Vocabulary cap; 0 means unbounded.
	Seed        int64   // Seed for the decomposition.
	Alpha       float64 // Document-topic Dirichlet prior.
	Iterations  int     // Decomposition passes; 0 keeps the library default.

	InferenceIterations int     // Fold-in iterations per document.
	Tolerance           float64 // Fold-in mean change tolerance.
}

// DefaultTopicConfig returns the standard configuration: 5 topics, a 1000
// term vocabulary and seed 42.
func DefaultTopicConfig() TopicConfig {
	return TopicConfig{
		Topics:              5,
		MaxFeatures:         1000,
		Seed:                42,
		Alpha:               0.1,
		InferenceIterations: defaultInferenceIterations,
		Tolerance:           defaultMeanChangeTolerance,
	}
}

// Validate reports the first invalid field.
func (c TopicConfig) Validate() error {
	switch {
	case c.Topics < 1:
		return fmt.Errorf("topics must be at least 1, got %d", c.Topics)
	case c.MaxFeatures < 0:
		return fmt.Errorf("max features must not be negative, got %d", c.MaxFeatures)
	case c.Alpha <= 0:
		return fmt.Errorf("alpha must be positive, got %g", c.Alpha)
	case c.Iterations < 0:
		return fmt.Errorf("iterations must not be negative, got %d", c.Iterations)
	case c.InferenceIterations < 1:
		return fmt.Errorf("inference iterations must be at least 1, got %d", c.InferenceIterations)
	case c.Tolerance < 0:
		return fmt.Errorf("tolerance must not be negative, got %g", c.Tolerance)
	}
	return nil
}

// TopicOpt configures a TopicModel.
type TopicOpt func(*TopicModel)

// WithTopics sets the number of topics.
func WithTopics(k int) TopicOpt {
	return func(m *TopicModel) {
		m.config.Topics = k
	}
}

// WithMaxFeatures caps the vocabulary size.
func WithMaxFeatures(n int) TopicOpt {
	return func(m *TopicModel) {
		m.config.MaxFeatures = n
	}
}

// WithSeed sets the decomposition seed.
func WithSeed(seed int64) TopicOpt {
	return func(m *TopicModel) {
		m.config.Seed = seed
	}
}

// WithIterations sets the number of decomposition passes.
func WithIterations(n int) TopicOpt {
	return func(m *TopicModel) {
		m.config.Iterations = n
	}
}

// WithTopicConfig replaces the whole configuration.
func WithTopicConfig(config TopicConfig) TopicOpt {
	return func(m *TopicModel) {
		m.config = config
	}
}

// UsingDecomposer replaces the topic decomposition.
func UsingDecomposer(d Decomposer) TopicOpt {
	return func(m *TopicModel) {
		m.decomposer = d
	}
}

// A Decomposer factors a terms x docs count matrix into k topics and returns
// the k x terms topic-term weights. Rows need not be normalized.
type Decomposer interface {
	Decompose(counts mat.Matrix, config TopicConfig) (mat.Matrix, error)
}

// ldaDecomposer fits latent Dirichlet allocation.
type ldaDecomposer struct{}

// Decompose runs a single-process LDA with a seeded source so that the same
// counts and config always produce the same weights.
func (ldaDecomposer) Decompose(counts mat.Matrix, config TopicConfig) (mat.Matrix, error) {
	lda := nlp.NewLatentDirichletAllocation(config.Topics)
	lda.Processes = 1
	lda.Alpha = config.Alpha
	lda.Rnd = rand.New(rand.NewSource(uint64(config.Seed)))
	if config.Iterations > 0 {
		lda.Iterations = config.Iterations
	}

	if _, err := lda.FitTransform(counts); err != nil {
		return nil, err
	}
	return lda.Components(), nil
}

// TopicModel assigns documents to topics. It starts unfitted; Fit (or
// LoadTopicModel) moves it to the fitted state, after which Transform and
// Topics may be called and Save may be called any number of times.
//
// A TopicModel is not safe for concurrent use.
type TopicModel struct {
	config     TopicConfig
	decomposer Decomposer

	vectoriser *nlp.CountVectoriser
	terms      []string
	topicTerm  *mat.Dense // Topics x len(terms), rows sum to one.
}

// NewTopicModel creates an unfitted model.
func NewTopicModel(opts ...TopicOpt) (*TopicModel, error) {
	m := &TopicModel{
		config:     DefaultTopicConfig(),
		decomposer: ldaDecomposer{},
	}
	for _, applyOpt := range opts {
		applyOpt(m)
	}
	if err := m.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid topic config: %w", err)
	}
	if m.decomposer == nil {
		m.decomposer = ldaDecomposer{}
	}
	return m, nil
}

// Config returns the model's configuration.
func (m *TopicModel) Config() TopicConfig {
	return m.config
}

// Fitted reports whether the model can transform documents.
func (m *TopicModel) Fitted() bool {
	return m.topicTerm != nil
}

// Fit builds the vocabulary from texts and fits the topic decomposition.
// A second Fit replaces the first.
func (m *TopicModel) Fit(texts []string) error {
	if len(texts) == 0 {
		return ErrEmptyCorpus
	}
	docs := vectorStopFilterAll(texts)

	vectoriser := nlp.NewCountVectoriser()
	terms, err := buildVocabulary(vectoriser, docs, m.config.MaxFeatures)
	if err != nil {
		return fmt.Errorf("building vocabulary: %w", err)
	}
	if len(terms) == 0 {
		return ErrEmptyVocabulary
	}

	counts, err := vectoriser.Transform(docs...)
	if err != nil {
		return fmt.Errorf("vectorizing corpus: %w", err)
	}

	weights, err := m.decomposer.Decompose(counts, m.config)
	if err != nil {
		return fmt.Errorf("fitting topics: %w", err)
	}
	rows, cols := weights.Dims()
	if rows != m.config.Topics || cols != len(terms) {
		return fmt.Errorf("fitting topics: decomposer returned %dx%d weights, want %dx%d",
			rows, cols, m.config.Topics, len(terms))
	}

	topicTerm := mat.DenseCopyOf(weights)
	normalizeRows(topicTerm)

	m.vectoriser = vectoriser
	m.terms = terms
	m.topicTerm = topicTerm
	return nil
}

// Transform returns the dominant topic of each text. Terms outside the
// fitted vocabulary are ignored; a text with no known terms gets topic 0.
func (m *TopicModel) Transform(texts []string) ([]int, error) {
	if !m.Fitted() {
		return nil, ErrNotFitted
	}
	assignments := make([]int, len(texts))
	if len(texts) == 0 {
		return assignments, nil
	}

	counts, err := m.vectoriser.Transform(vectorStopFilterAll(texts)...)
	if err != nil {
		return nil, fmt.Errorf("vectorizing documents: %w", err)
	}
	for i := range texts {
		gamma := inferTopics(m.topicTerm, columnCounts(counts, i),
			m.config.Alpha, m.config.InferenceIterations, m.config.Tolerance)
		assignments[i] = dominantTopic(gamma)
	}
	return assignments, nil
}

// FitTransform fits the model to texts and returns their topics.
func (m *TopicModel) FitTransform(texts []string) ([]int, error) {
	if err := m.Fit(texts); err != nil {
		return nil, err
	}
	return m.Transform(texts)
}

// Topics returns the nWords highest-weight terms of every topic, heaviest
// first. Equal weights keep vocabulary order. nWords is capped at the
// vocabulary size.
func (m *TopicModel) Topics(nWords int) ([]TopicKeywords, error) {
	if !m.Fitted() {
		return nil, ErrNotFitted
	}
	if nWords < 0 {
		return nil, fmt.Errorf("word count must not be negative, got %d", nWords)
	}
	nWords = min(nWords, len(m.terms))

	k, _ := m.topicTerm.Dims()
	topics := make([]TopicKeywords, k)
	for t := 0; t < k; t++ {
		row := m.topicTerm.RawRowView(t)
		order := make([]int, len(row))
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(i, j int) bool {
			return row[order[i]] > row[order[j]]
		})

		words := make([]string, nWords)
		for i := 0; i < nWords; i++ {
			words[i] = m.terms[order[i]]
		}
		topics[t] = TopicKeywords{Topic: t, Words: words}
	}
	return topics, nil
}

// Vocabulary returns a copy of the fitted terms in column order.
func (m *TopicModel) Vocabulary() []string {
	return append([]string(nil), m.terms...)
}

// TopicTerms returns a copy of the normalized topic-term weights, or nil
// before Fit.
func (m *TopicModel) TopicTerms() *mat.Dense {
	if !m.Fitted() {
		return nil
	}
	return mat.DenseCopyOf(m.topicTerm)
}
