package textpipe

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/mat"
)

// artifactVersion is bumped whenever modelArtifact changes shape.
const artifactVersion = 1

// modelArtifact is the persisted form of a fitted TopicModel: the vectoriser
// vocabulary and the topic-term weights, plus the configuration used to fit
// them.
type modelArtifact struct {
	Version   int
	Config    TopicConfig
	Terms     []string
	TopicTerm []byte // mat.Dense binary encoding.
}

// Save writes the fitted model to path, creating parent directories as
// needed. The model stays fitted and may be saved again.
func (m *TopicModel) Save(path string) error {
	if !m.Fitted() {
		return ErrNotFitted
	}
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return fmt.Errorf("creating model directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating model file: %w", err)
	}
	if err := m.Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Encode writes the fitted model to w.
func (m *TopicModel) Encode(w io.Writer) error {
	if !m.Fitted() {
		return ErrNotFitted
	}
	weights, err := m.topicTerm.MarshalBinary()
	if err != nil {
		return fmt.Errorf("encoding topic weights: %w", err)
	}
	artifact := modelArtifact{
		Version:   artifactVersion,
		Config:    m.config,
		Terms:     m.terms,
		TopicTerm: weights,
	}
	if err := gob.NewEncoder(w).Encode(&artifact); err != nil {
		return fmt.Errorf("encoding model: %w", err)
	}
	return nil
}

// LoadTopicModel reads a model written by Save. The result is fitted and
// transforms documents exactly as the saved model did.
func LoadTopicModel(path string) (*TopicModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening model file: %w", err)
	}
	defer f.Close()
	return DecodeTopicModel(f)
}

// DecodeTopicModel reads a model written by Encode.
func DecodeTopicModel(r io.Reader) (*TopicModel, error) {
	var artifact modelArtifact
	if err := gob.NewDecoder(r).Decode(&artifact); err != nil {
		return nil, fmt.Errorf("decoding model: %w", err)
	}
	if artifact.Version != artifactVersion {
		return nil, fmt.Errorf("unsupported model version %d", artifact.Version)
	}
	if err := artifact.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model config: %w", err)
	}
	if len(artifact.Terms) == 0 {
		return nil, ErrEmptyVocabulary
	}

	var topicTerm mat.Dense
	if err := topicTerm.UnmarshalBinary(artifact.TopicTerm); err != nil {
		return nil, fmt.Errorf("decoding topic weights: %w", err)
	}
	rows, cols := topicTerm.Dims()
	if rows != artifact.Config.Topics || cols != len(artifact.Terms) {
		return nil, errors.New("decoding model: weight matrix does not match vocabulary")
	}

	return &TopicModel{
		config:     artifact.Config,
		decomposer: ldaDecomposer{},
		vectoriser: newVectoriser(artifact.Terms),
		terms:      artifact.Terms,
		topicTerm:  &topicTerm,
	}, nil
}
