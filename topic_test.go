package textpipe

import (
	"bytes"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// fixedDecomposer returns preset topic-term weights.
type fixedDecomposer struct {
	weights *mat.Dense
	err     error
}

func (f fixedDecomposer) Decompose(mat.Matrix, TopicConfig) (mat.Matrix, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.weights, nil
}

var clusteredCorpus = []string{
	"apple banana fruit juice apple",
	"banana apple fruit smoothie",
	"fruit juice apple banana orchard",
	"engine wheel car garage engine",
	"car engine wheel mechanic",
	"garage car wheel engine tyre",
	"guitar piano drum melody guitar",
	"piano melody drum concert",
	"drum guitar melody piano band",
}

func fitClustered(t *testing.T, opts ...TopicOpt) *TopicModel {
	t.Helper()
	opts = append([]TopicOpt{WithTopics(3), WithIterations(200)}, opts...)
	model, err := NewTopicModel(opts...)
	if err != nil {
		t.Fatalf("NewTopicModel: %v", err)
	}
	if err := model.Fit(clusteredCorpus); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	return model
}

func TestTopicConfigValidate(t *testing.T) {
	tests := []struct {
		mutate func(*TopicConfig)
		valid  bool
		desc   string
	}{
		{func(*TopicConfig) {}, true, "Defaults"},
		{func(c *TopicConfig) { c.Topics = 0 }, false, "No topics"},
		{func(c *TopicConfig) { c.MaxFeatures = -1 }, false, "Negative max features"},
		{func(c *TopicConfig) { c.MaxFeatures = 0 }, true, "Unbounded vocabulary"},
		{func(c *TopicConfig) { c.Alpha = 0 }, false, "Zero alpha"},
		{func(c *TopicConfig) { c.Iterations = -5 }, false, "Negative iterations"},
		{func(c *TopicConfig) { c.InferenceIterations = 0 }, false, "No inference iterations"},
		{func(c *TopicConfig) { c.Tolerance = -1 }, false, "Negative tolerance"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			config := DefaultTopicConfig()
			tt.mutate(&config)
			if err := config.Validate(); (err == nil) != tt.valid {
				t.Errorf("Validate() = %v, want valid=%v", err, tt.valid)
			}
		})
	}
}

func TestDefaultTopicConfig(t *testing.T) {
	config := DefaultTopicConfig()
	if config.Topics != 5 || config.MaxFeatures != 1000 || config.Seed != 42 {
		t.Errorf("unexpected defaults: %+v", config)
	}
}

func TestNewTopicModelRejectsInvalidConfig(t *testing.T) {
	if _, err := NewTopicModel(WithTopics(0)); err == nil {
		t.Error("expected error for zero topics")
	}
}

func TestTopicModelNotFitted(t *testing.T) {
	model, err := NewTopicModel()
	if err != nil {
		t.Fatal(err)
	}
	if model.Fitted() {
		t.Error("new model should not be fitted")
	}
	if _, err := model.Transform([]string{"apple"}); !errors.Is(err, ErrNotFitted) {
		t.Errorf("Transform before Fit: got %v, want ErrNotFitted", err)
	}
	if _, err := model.Topics(3); !errors.Is(err, ErrNotFitted) {
		t.Errorf("Topics before Fit: got %v, want ErrNotFitted", err)
	}
	if err := model.Save(filepath.Join(t.TempDir(), "m.gob")); !errors.Is(err, ErrNotFitted) {
		t.Errorf("Save before Fit: got %v, want ErrNotFitted", err)
	}
	if model.TopicTerms() != nil {
		t.Error("TopicTerms before Fit should be nil")
	}
}

func TestTopicModelDegenerateCorpus(t *testing.T) {
	model, err := NewTopicModel()
	if err != nil {
		t.Fatal(err)
	}
	if err := model.Fit(nil); !errors.Is(err, ErrEmptyCorpus) {
		t.Errorf("Fit(nil): got %v, want ErrEmptyCorpus", err)
	}
	if err := model.Fit([]string{"", "   ", "the a"}); !errors.Is(err, ErrEmptyVocabulary) {
		t.Errorf("Fit on empty documents: got %v, want ErrEmptyVocabulary", err)
	}
	if model.Fitted() {
		t.Error("failed Fit must leave the model unfitted")
	}
}

func TestTopicModelFixedWeights(t *testing.T) {
	weights := mat.NewDense(2, 3, []float64{
		1, 1, 0,
		0, 0, 2,
	})
	model, err := NewTopicModel(WithTopics(2), UsingDecomposer(fixedDecomposer{weights: weights}))
	if err != nil {
		t.Fatal(err)
	}
	if err := model.Fit([]string{"apple banana", "cherry"}); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	if got := model.Vocabulary(); !reflect.DeepEqual(got, []string{"apple", "banana", "cherry"}) {
		t.Errorf("Vocabulary() = %v", got)
	}

	topics, err := model.Topics(2)
	if err != nil {
		t.Fatal(err)
	}
	want := []TopicKeywords{
		{Topic: 0, Words: []string{"apple", "banana"}},
		{Topic: 1, Words: []string{"cherry", "apple"}},
	}
	if !reflect.DeepEqual(topics, want) {
		t.Errorf("Topics(2) = %+v, want %+v", topics, want)
	}

	assignments, err := model.Transform([]string{"apple", "cherry cherry", "durian", "", "banana cherry cherry cherry"})
	if err != nil {
		t.Fatal(err)
	}
	if want := []int{0, 1, 0, 0, 1}; !reflect.DeepEqual(assignments, want) {
		t.Errorf("Transform() = %v, want %v", assignments, want)
	}

	row := model.TopicTerms().RawRowView(0)
	if row[0] != 0.5 || row[1] != 0.5 || row[2] != 0 {
		t.Errorf("topic 0 weights not normalized: %v", row)
	}
}

func TestTopicModelDecomposerErrors(t *testing.T) {
	boom := errors.New("boom")
	model, _ := NewTopicModel(WithTopics(2), UsingDecomposer(fixedDecomposer{err: boom}))
	if err := model.Fit([]string{"apple banana"}); !errors.Is(err, boom) {
		t.Errorf("expected decomposer error, got %v", err)
	}

	wrongShape := mat.NewDense(3, 2, nil)
	model, _ = NewTopicModel(WithTopics(2), UsingDecomposer(fixedDecomposer{weights: wrongShape}))
	if err := model.Fit([]string{"apple banana"}); err == nil {
		t.Error("expected error for mis-shaped weights")
	}
}

func TestTopicModelMaxFeatures(t *testing.T) {
	docs := []string{
		"apple banana",
		"apple cherry",
		"apple banana durian",
	}
	model, err := NewTopicModel(
		WithTopics(1),
		WithMaxFeatures(3),
		UsingDecomposer(fixedDecomposer{weights: mat.NewDense(1, 3, []float64{3, 2, 1})}),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := model.Fit(docs); err != nil {
		t.Fatal(err)
	}

	// cherry and durian share a document frequency; cherry was seen first.
	if got := model.Vocabulary(); !reflect.DeepEqual(got, []string{"apple", "banana", "cherry"}) {
		t.Errorf("Vocabulary() = %v", got)
	}
}

func TestTopicModelSkipsSingleLetters(t *testing.T) {
	model, _ := NewTopicModel(
		WithTopics(1),
		UsingDecomposer(fixedDecomposer{weights: mat.NewDense(1, 1, []float64{1})}),
	)
	if err := model.Fit([]string{"x banana y"}); err != nil {
		t.Fatal(err)
	}
	if got := model.Vocabulary(); !reflect.DeepEqual(got, []string{"banana"}) {
		t.Errorf("Vocabulary() = %v", got)
	}
}

func TestTopicModelDeterminism(t *testing.T) {
	first := fitClustered(t)
	second := fitClustered(t)

	topicsA, err := first.Topics(5)
	if err != nil {
		t.Fatal(err)
	}
	topicsB, _ := second.Topics(5)
	if !reflect.DeepEqual(topicsA, topicsB) {
		t.Errorf("topics differ between identical fits:\n%v\n%v", topicsA, topicsB)
	}

	assignA, err := first.Transform(clusteredCorpus)
	if err != nil {
		t.Fatal(err)
	}
	assignB, _ := second.Transform(clusteredCorpus)
	if !reflect.DeepEqual(assignA, assignB) {
		t.Errorf("assignments differ between identical fits: %v vs %v", assignA, assignB)
	}
}

func TestTopicModelClusters(t *testing.T) {
	model := fitClustered(t)

	assignments, err := model.FitTransform(clusteredCorpus)
	if err != nil {
		t.Fatal(err)
	}
	if len(assignments) != len(clusteredCorpus) {
		t.Fatalf("expected %d assignments, got %d", len(clusteredCorpus), len(assignments))
	}

	distinct := make(map[int]bool)
	for _, topic := range assignments {
		if topic < 0 || topic >= 3 {
			t.Errorf("topic %d out of range", topic)
		}
		distinct[topic] = true
	}
	if len(distinct) < 2 {
		t.Errorf("expected at least 2 distinct topics, got %v", assignments)
	}
}

func TestTopicModelTopWords(t *testing.T) {
	model := fitClustered(t)

	topics, err := model.Topics(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(topics) != 3 {
		t.Fatalf("expected 3 topics, got %d", len(topics))
	}

	index := make(map[string]int)
	for i, term := range model.Vocabulary() {
		index[term] = i
	}
	weights := model.TopicTerms()

	for _, topic := range topics {
		if len(topic.Words) != 3 {
			t.Errorf("topic %d: expected 3 words, got %v", topic.Topic, topic.Words)
			continue
		}
		prev := 2.0
		for _, word := range topic.Words {
			col, ok := index[word]
			if !ok {
				t.Errorf("topic %d: %q is not in the vocabulary", topic.Topic, word)
				continue
			}
			w := weights.At(topic.Topic, col)
			if w > prev {
				t.Errorf("topic %d: words not in descending weight order: %v", topic.Topic, topic.Words)
			}
			prev = w
		}
	}

	if _, err := model.Topics(-1); err == nil {
		t.Error("expected error for negative word count")
	}
	all, _ := model.Topics(1000)
	if len(all[0].Words) != len(model.Vocabulary()) {
		t.Errorf("word count should be capped at the vocabulary size")
	}
}

func TestTopicModelSaveLoad(t *testing.T) {
	model := fitClustered(t)
	path := filepath.Join(t.TempDir(), "nested", "models", "lda_model.gob")

	if err := model.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	// Saving again is allowed and keeps the model fitted.
	if err := model.Save(path); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	loaded, err := LoadTopicModel(path)
	if err != nil {
		t.Fatalf("LoadTopicModel: %v", err)
	}
	if !loaded.Fitted() {
		t.Fatal("loaded model should be fitted")
	}
	if !reflect.DeepEqual(loaded.Vocabulary(), model.Vocabulary()) {
		t.Error("vocabulary changed across save/load")
	}
	if !mat.Equal(loaded.TopicTerms(), model.TopicTerms()) {
		t.Error("topic-term weights changed across save/load")
	}
	if loaded.Config() != model.Config() {
		t.Errorf("config changed across save/load: %+v vs %+v", loaded.Config(), model.Config())
	}

	topicsA, _ := model.Topics(4)
	topicsB, _ := loaded.Topics(4)
	if !reflect.DeepEqual(topicsA, topicsB) {
		t.Error("topics changed across save/load")
	}

	docs := append([]string{"apple engine piano", "unknown words only"}, clusteredCorpus...)
	assignA, _ := model.Transform(docs)
	assignB, err := loaded.Transform(docs)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(assignA, assignB) {
		t.Errorf("assignments changed across save/load: %v vs %v", assignA, assignB)
	}
}

func TestDecodeTopicModelErrors(t *testing.T) {
	if _, err := DecodeTopicModel(bytes.NewReader([]byte("not a model"))); err == nil {
		t.Error("expected error decoding garbage")
	}
	if _, err := LoadTopicModel(filepath.Join(t.TempDir(), "missing.gob")); err == nil {
		t.Error("expected error loading a missing file")
	}
}
