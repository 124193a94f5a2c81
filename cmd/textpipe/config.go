package main

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/tsawler/textpipe"
)

// fileConfig is the TOML layout accepted by --config. Absent keys keep
// their defaults.
type fileConfig struct {
	Input     string `toml:"input"`
	Processed string `toml:"processed"`
	Outputs   string `toml:"outputs"`
	Model     string `toml:"model"`
	Lexicon   string `toml:"lexicon"`
	Database  string `toml:"database"`

	Topics      *int   `toml:"topics"`
	MaxFeatures *int   `toml:"max_features"`
	Seed        *int64 `toml:"seed"`
	TopWords    *int   `toml:"top_words"`
	Iterations  *int   `toml:"iterations"`
}

// settings is the resolved CLI configuration.
type settings struct {
	Pipeline textpipe.Config
	Database string
}

// defaultSettings returns the pipeline defaults and no database.
func defaultSettings() settings {
	return settings{Pipeline: textpipe.DefaultConfig()}
}

// loadConfigFile reads a TOML config file.
func loadConfigFile(path string) (fileConfig, error) {
	var fc fileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return fc, fmt.Errorf("reading config: %w", err)
	}
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fc, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return fc, nil
}

// apply overlays the keys present in fc onto s.
func (fc fileConfig) apply(s *settings) {
	setString(&s.Pipeline.InputPath, fc.Input)
	setString(&s.Pipeline.ProcessedPath, fc.Processed)
	setString(&s.Pipeline.OutputDir, fc.Outputs)
	setString(&s.Pipeline.ModelPath, fc.Model)
	setString(&s.Pipeline.LexiconPath, fc.Lexicon)
	setString(&s.Database, fc.Database)

	if fc.Topics != nil {
		s.Pipeline.Topic.Topics = *fc.Topics
	}
	if fc.MaxFeatures != nil {
		s.Pipeline.Topic.MaxFeatures = *fc.MaxFeatures
	}
	if fc.Seed != nil {
		s.Pipeline.Topic.Seed = *fc.Seed
	}
	if fc.TopWords != nil {
		s.Pipeline.TopWords = *fc.TopWords
	}
	if fc.Iterations != nil {
		s.Pipeline.Topic.Iterations = *fc.Iterations
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
