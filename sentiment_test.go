package textpipe

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func newTestAnalyzer(t *testing.T) *SentimentAnalyzer {
	t.Helper()
	analyzer, err := NewSentimentAnalyzer(DefaultSentimentConfig())
	if err != nil {
		t.Fatalf("Failed to create analyzer: %v", err)
	}
	return analyzer
}

func TestSentimentPolarity(t *testing.T) {
	tests := []struct {
		text     string
		expected float64
		delta    float64
		desc     string
	}{
		{"I love this product!", 0.9, 0.15, "Strong positive sentiment"},
		{"This is terrible.", -0.9, 0.15, "Strong negative sentiment"},
		{"Not bad at all.", 0.4, 0.3, "Negation of negative"},
		{"I don't like it.", -0.4, 0.3, "Negation of positive"},
		{"This movie is absolutely fantastic!", 0.9, 0.15, "Intensified positive"},
		{"The service was slightly disappointing.", -0.7, 0.3, "Diminished negative"},
		{"This is good but not great.", 0.25, 0.25, "Mixed sentiment"},
		{"The table has four legs.", 0.0, 0.01, "No sentiment words"},
		{"", 0.0, 0.01, "Empty text"},
	}

	analyzer := newTestAnalyzer(t)
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			polarity := analyzer.Polarity(tt.text)
			if math.Abs(polarity-tt.expected) > tt.delta {
				t.Errorf("Text: %q\nExpected polarity: %.2f ± %.2f\nGot: %.2f",
					tt.text, tt.expected, tt.delta, polarity)
			}
		})
	}
}

func TestSentimentCleanedText(t *testing.T) {
	tests := []struct {
		text     string
		positive bool
	}{
		{"great product love", true},
		{"terrible service never", false},
		{"love product amaze", true},
		{"service bad slow", false},
		{"disappoint annoy", false},
	}

	analyzer := newTestAnalyzer(t)
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			polarity := analyzer.Polarity(tt.text)
			if tt.positive && polarity <= 0 {
				t.Errorf("expected positive polarity for %q, got %.2f", tt.text, polarity)
			}
			if !tt.positive && polarity >= 0 {
				t.Errorf("expected negative polarity for %q, got %.2f", tt.text, polarity)
			}
		})
	}
}

func TestSentimentIntensity(t *testing.T) {
	tests := []struct {
		text         string
		minIntensity float64
		desc         string
	}{
		{"This is absolutely amazing!", 0.7, "High intensity with intensifier"},
		{"good", 0.5, "Single positive word"},
		{"This is the worst thing ever!", 0.7, "Superlative negative"},
		{"Perfect! Absolutely perfect!", 0.8, "Repeated strong positive"},
	}

	analyzer := newTestAnalyzer(t)
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			sentiment := analyzer.Analyze(tt.text)
			if sentiment.Intensity < tt.minIntensity {
				t.Errorf("Text: %q\nExpected intensity >= %.2f\nGot: %.2f",
					tt.text, tt.minIntensity, sentiment.Intensity)
			}
		})
	}
}

func TestNegationHandling(t *testing.T) {
	pairs := []struct {
		positive string
		negated  string
		desc     string
	}{
		{"This is good.", "This is not good.", "Simple negation"},
		{"I like it.", "I don't like it.", "Contraction negation"},
		{"Happy with the service.", "Not happy with the service.", "Beginning negation"},
		{"The food is excellent.", "The food isn't excellent.", "Negation with contraction"},
		{"I love this.", "I never loved this.", "Never negation"},
	}

	analyzer := newTestAnalyzer(t)
	for _, pair := range pairs {
		t.Run(pair.desc, func(t *testing.T) {
			pos := analyzer.Polarity(pair.positive)
			neg := analyzer.Polarity(pair.negated)
			if pos <= 0.1 || neg >= 0 {
				t.Errorf("Negation not handled properly:\n%s: %.2f\n%s: %.2f",
					pair.positive, pos, pair.negated, neg)
			}
		})
	}
}

func TestNegationClauseBoundary(t *testing.T) {
	analyzer := newTestAnalyzer(t)

	// The comma closes the negated clause before "good".
	if p := analyzer.Polarity("No, good."); p <= 0 {
		t.Errorf("expected clause boundary to stop negation, got %.2f", p)
	}
}

func TestModifierEffects(t *testing.T) {
	config := DefaultSentimentConfig()
	analyzer, err := NewSentimentAnalyzer(config)
	if err != nil {
		t.Fatal(err)
	}

	base := analyzer.Analyze("This is decent.")
	intensified := analyzer.Analyze("This is very decent.")
	diminished := analyzer.Analyze("This is slightly decent.")

	if intensified.Polarity <= base.Polarity {
		t.Errorf("Intensifier should increase polarity: base %.2f, intensified %.2f",
			base.Polarity, intensified.Polarity)
	}
	if diminished.Polarity >= base.Polarity {
		t.Errorf("Diminisher should decrease polarity: base %.2f, diminished %.2f",
			base.Polarity, diminished.Polarity)
	}
}

func TestSentimentClassification(t *testing.T) {
	tests := []struct {
		text     string
		expected SentimentClass
	}{
		{"This is absolutely perfect!", StrongPositive},
		{"It is fine.", Positive},
		{"The table has four legs.", Neutral},
		{"The wait was slow.", Negative},
		{"This is abysmal.", StrongNegative},
		{"Good food, bad service.", Mixed},
	}

	analyzer := newTestAnalyzer(t)
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := analyzer.Analyze(tt.text).Dominant; got != tt.expected {
				t.Errorf("Text: %q\nExpected class: %s\nGot: %s", tt.text, tt.expected, got)
			}
		})
	}
}

func TestSentimentFeatures(t *testing.T) {
	analyzer := newTestAnalyzer(t)
	score := analyzer.Analyze("The food is not good but the view is wonderful.")

	if len(score.Features.PositiveWords) != 1 || score.Features.PositiveWords[0].Word != "wonderful" {
		t.Errorf("expected wonderful as the only positive word, got %+v", score.Features.PositiveWords)
	}
	if len(score.Features.NegativeWords) != 1 || score.Features.NegativeWords[0].Word != "good" {
		t.Errorf("expected negated good as the only negative word, got %+v", score.Features.NegativeWords)
	}
	if len(score.Features.Negations) != 1 {
		t.Errorf("expected one negation scope, got %d", len(score.Features.Negations))
	}
}

func TestPolarityBounds(t *testing.T) {
	analyzer := newTestAnalyzer(t)
	texts := []string{
		"extremely extremely perfect perfect perfect",
		"utterly abysmal atrocious appalling",
		"good bad good bad",
		"Really? Amazing.",
	}
	for _, text := range texts {
		p := analyzer.Polarity(text)
		if p < -1 || p > 1 {
			t.Errorf("Polarity(%q) = %.3f outside [-1, 1]", text, p)
		}
	}
}

type constantEstimator float64

func (c constantEstimator) Polarity(string) float64 { return float64(c) }

func TestScoreSentiment(t *testing.T) {
	text := "wonderful"
	tests := []struct {
		value    any
		est      PolarityEstimator
		expected float64
		desc     string
	}{
		{nil, constantEstimator(0.5), 0.0, "Nil"},
		{17, constantEstimator(0.5), 0.0, "Integer"},
		{"   \t", constantEstimator(0.5), 0.0, "Blank"},
		{(*string)(nil), constantEstimator(0.5), 0.0, "Nil pointer"},
		{&text, constantEstimator(0.5), 0.5, "String pointer"},
		{"ok", constantEstimator(0.5), 0.5, "Delegates"},
		{"ok", constantEstimator(3), 1.0, "Clamped high"},
		{"ok", constantEstimator(-3), -1.0, "Clamped low"},
		{"ok", constantEstimator(math.NaN()), 0.0, "NaN"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if got := ScoreSentiment(tt.est, tt.value); got != tt.expected {
				t.Errorf("ScoreSentiment(%v) = %v, want %v", tt.value, got, tt.expected)
			}
		})
	}
}

func TestExternalLexicon(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lexicon.json")
	data := `{
		"languages": {
			"english": {
				"positive": [{"word": "stellar", "sentiment": 0.8, "confidence": 0.9}],
				"negative": [{"word": "meh", "sentiment": -0.4, "confidence": 0.7}],
				"intensifiers": ["mega"],
				"negations": ["nae"]
			},
			"spanish": {
				"positive": [{"word": "bueno", "sentiment": 0.6, "confidence": 0.9}]
			}
		}
	}`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	analyzer, err := NewSentimentAnalyzerWithExternal(DefaultSentimentConfig(), path)
	if err != nil {
		t.Fatalf("Failed to load external lexicon: %v", err)
	}

	if p := analyzer.Polarity("stellar"); p <= 0 {
		t.Errorf("expected external positive word to score positive, got %.2f", p)
	}
	if p := analyzer.Polarity("meh"); p >= 0 {
		t.Errorf("expected external negative word to score negative, got %.2f", p)
	}
	if p := analyzer.Polarity("nae stellar"); p >= 0 {
		t.Errorf("expected external negation to flip polarity, got %.2f", p)
	}
	if analyzer.Lexicon().GetModifierStrength("mega") <= 0 {
		t.Error("expected external intensifier to be registered")
	}
	if analyzer.Lexicon().HasWord("bueno") {
		t.Error("only the english section should be merged")
	}
}

func TestExternalLexiconErrors(t *testing.T) {
	if _, err := NewSentimentAnalyzerWithExternal(DefaultSentimentConfig(), filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing lexicon file")
	}

	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewSentimentAnalyzerWithExternal(DefaultSentimentConfig(), path); err == nil {
		t.Error("expected error for malformed lexicon file")
	}
}

func TestLexiconCustomWords(t *testing.T) {
	lexicon := LoadSentimentLexicon()
	size := lexicon.Size()

	lexicon.AddCustomWord("Blazing", 0.7, 0.8)
	lexicon.AddCustomNegation("nary")

	if lexicon.Size() != size+1 {
		t.Errorf("expected size %d, got %d", size+1, lexicon.Size())
	}
	if !lexicon.HasWord("blazing") || lexicon.GetSentiment("BLAZING") != 0.7 {
		t.Error("custom word lookup should be case-insensitive")
	}
	if lexicon.GetConfidence("blazing") != 0.8 {
		t.Errorf("unexpected confidence %.2f", lexicon.GetConfidence("blazing"))
	}
	if !lexicon.IsNegation("Nary") {
		t.Error("expected custom negation")
	}
	if lexicon.GetSentiment("unknownword") != 0 {
		t.Error("unknown words should score 0")
	}
}
