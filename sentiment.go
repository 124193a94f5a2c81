package textpipe

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"gopkg.in/neurosnap/sentences.v1"
	"gopkg.in/neurosnap/sentences.v1/english"
)

// A PolarityEstimator scores text on [-1, 1], negative to positive.
type PolarityEstimator interface {
	Polarity(text string) float64
}

// SentimentAnalyzer performs lexicon-based sentiment analysis
type SentimentAnalyzer struct {
	lexicon   *SentimentLexicon
	segmenter *sentences.DefaultSentenceTokenizer
	config    SentimentConfig
}

// SentimentConfig configures sentiment analysis
type SentimentConfig struct {
	UseContext     bool
	NegationWindow int // Words to check for negation
}

// DefaultSentimentConfig returns standard configuration
func DefaultSentimentConfig() SentimentConfig {
	return SentimentConfig{
		UseContext:     true,
		NegationWindow: 3,
	}
}

// NewSentimentAnalyzer creates a sentiment analyzer over the built-in lexicon.
func NewSentimentAnalyzer(config SentimentConfig) (*SentimentAnalyzer, error) {
	return newSentimentAnalyzer(LoadSentimentLexicon(), config)
}

// NewSentimentAnalyzerWithExternal creates a sentiment analyzer with external lexicon support
func NewSentimentAnalyzerWithExternal(config SentimentConfig, externalLexiconPath string) (*SentimentAnalyzer, error) {
	lexicon, err := LoadSentimentLexiconWithExternal(externalLexiconPath)
	if err != nil {
		return nil, err
	}
	return newSentimentAnalyzer(lexicon, config)
}

func newSentimentAnalyzer(lexicon *SentimentLexicon, config SentimentConfig) (*SentimentAnalyzer, error) {
	segmenter, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		return nil, fmt.Errorf("loading sentence tokenizer: %w", err)
	}
	if config.NegationWindow < 0 {
		config.NegationWindow = 0
	}
	return &SentimentAnalyzer{
		lexicon:   lexicon,
		segmenter: segmenter,
		config:    config,
	}, nil
}

// Lexicon exposes the analyzer's word list for customization.
func (sa *SentimentAnalyzer) Lexicon() *SentimentLexicon {
	return sa.lexicon
}

// Polarity implements PolarityEstimator. Blank text scores 0.
func (sa *SentimentAnalyzer) Polarity(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	return clampPolarity(sa.Analyze(text).Polarity)
}

// Analyze performs document-level sentiment analysis: each sentence is
// scored on its own and the results are aggregated.
func (sa *SentimentAnalyzer) Analyze(text string) SentimentScore {
	var sentenceScores []SentimentScore
	for _, sent := range sa.segmenter.Tokenize(text) {
		if strings.TrimSpace(sent.Text) == "" {
			continue
		}
		sentenceScores = append(sentenceScores, sa.AnalyzeSentence(sent.Text))
	}
	return sa.aggregateSentiments(sentenceScores)
}

// AnalyzeSentence performs sentence-level analysis
func (sa *SentimentAnalyzer) AnalyzeSentence(sentence string) SentimentScore {
	tokens := splitWords(sentence)

	score := sa.analyzeLexicon(tokens)
	if sa.config.UseContext {
		score = sa.applyContextualRules(score, tokens)
	}
	return score
}

// ScoreSentiment scores v with est when v is non-blank text (a string or
// non-nil *string) and returns 0 for anything else.
func ScoreSentiment(est PolarityEstimator, v any) float64 {
	text, ok := textValue(v)
	if !ok || strings.TrimSpace(text) == "" {
		return 0
	}
	return clampPolarity(est.Polarity(text))
}

// word is a token inside one sentence.
type word struct {
	Text  string
	Start int
}

var wordRE = regexp.MustCompile(`[\p{L}\p{N}]+(?:'[\p{L}]+)?|[^\p{L}\p{N}\s]`)

// splitWords breaks a sentence into words and single punctuation marks.
func splitWords(sentence string) []word {
	locs := wordRE.FindAllStringIndex(sentence, -1)
	words := make([]word, len(locs))
	for i, loc := range locs {
		words[i] = word{Text: sentence[loc[0]:loc[1]], Start: loc[0]}
	}
	return words
}

// analyzeLexicon performs lexicon-based sentiment analysis
func (sa *SentimentAnalyzer) analyzeLexicon(tokens []word) SentimentScore {
	var (
		posScore  float64
		negScore  float64
		wordCount int
		features  SentimentFeatures
	)

	for i, token := range tokens {
		if !isContentWord(token) {
			continue
		}

		sentiment := sa.lexicon.GetSentiment(token.Text)
		modified := sa.applyModifiers(sentiment, tokens, i)

		if modified != 0 && sa.checkNegation(tokens, i) {
			modified = -modified * 0.5 // Negation reverses but weakens
			features.Negations = append(features.Negations, NegationScope{
				Position: i,
				Scope:    sa.config.NegationWindow,
			})
		}

		if modified == 0 {
			continue
		}
		contrib := WordContribution{
			Word:          token.Text,
			Position:      token.Start,
			BaseScore:     sentiment,
			AdjustedScore: modified,
			Confidence:    sa.lexicon.GetConfidence(token.Text),
		}
		if modified > 0 {
			posScore += modified
			features.PositiveWords = append(features.PositiveWords, contrib)
		} else {
			negScore += math.Abs(modified)
			features.NegativeWords = append(features.NegativeWords, contrib)
		}
		wordCount++
	}

	if wordCount == 0 {
		return SentimentScore{Dominant: Neutral, Features: features}
	}

	posScore = posScore / float64(wordCount)
	negScore = negScore / float64(wordCount)

	var polarity float64
	switch {
	case negScore == 0:
		polarity = math.Min(1.0, posScore*1.5)
	case posScore == 0:
		polarity = math.Max(-1.0, -negScore*1.5)
	default:
		polarity = (posScore - negScore) / (posScore + negScore)
	}

	maxScore := math.Max(posScore, negScore)
	intensity := math.Min(1.0, maxScore*1.5)

	// Confidence follows lexicon coverage of the sentence.
	coverage := float64(wordCount) / float64(len(tokens))
	confidence := math.Min(1.0, coverage*2) * 0.7

	return SentimentScore{
		Polarity:   polarity,
		Intensity:  intensity,
		Confidence: confidence,
		Dominant:   classifyPolarity(polarity, intensity),
		Features:   features,
	}
}

// checkNegation detects negation in the words preceding position. A clause
// boundary between the negation and the target cancels it.
func (sa *SentimentAnalyzer) checkNegation(tokens []word, position int) bool {
	start := max(0, position-sa.config.NegationWindow)

	for i := start; i < position; i++ {
		text := strings.ToLower(tokens[i].Text)
		if !sa.lexicon.IsNegation(text) && !strings.HasSuffix(text, "n't") {
			continue
		}
		for j := i + 1; j < position; j++ {
			if isClauseBoundary(tokens[j]) {
				return false
			}
		}
		return true
	}
	return false
}

// applyModifiers adjusts sentiment based on intensifiers/diminishers in the
// two preceding words.
func (sa *SentimentAnalyzer) applyModifiers(baseSentiment float64, tokens []word, position int) float64 {
	if position == 0 || baseSentiment == 0 {
		return baseSentiment
	}

	for i := max(0, position-2); i < position; i++ {
		if modifier := sa.lexicon.GetModifierStrength(tokens[i].Text); modifier != 0 {
			return baseSentiment * (1 + modifier)
		}
	}
	return baseSentiment
}

// applyContextualRules applies context-based adjustments
func (sa *SentimentAnalyzer) applyContextualRules(score SentimentScore, tokens []word) SentimentScore {
	if len(score.Features.PositiveWords) > 0 && len(score.Features.NegativeWords) > 0 {
		posStrength := 0.0
		negStrength := 0.0
		for _, w := range score.Features.PositiveWords {
			posStrength += math.Abs(w.AdjustedScore)
		}
		for _, w := range score.Features.NegativeWords {
			negStrength += math.Abs(w.AdjustedScore)
		}

		// Similar strengths on both sides read as mixed.
		ratio := math.Min(posStrength, negStrength) / math.Max(posStrength, negStrength)
		if ratio > 0.7 {
			score.Dominant = Mixed
			score.Confidence *= 0.8
		}
	}

	for _, token := range tokens {
		if token.Text == "?" {
			score.Confidence *= 0.9
			score.Intensity *= 0.9
			break
		}
	}
	return score
}

// aggregateSentiments combines sentence-level sentiments, weighting each by
// its confidence.
func (sa *SentimentAnalyzer) aggregateSentiments(sentenceScores []SentimentScore) SentimentScore {
	if len(sentenceScores) == 0 {
		return SentimentScore{Dominant: Neutral}
	}

	var (
		totalPolarity   float64
		totalIntensity  float64
		totalConfidence float64
		weights         float64
		features        SentimentFeatures
		mixed           bool
	)

	for _, score := range sentenceScores {
		weight := score.Confidence
		totalPolarity += score.Polarity * weight
		totalIntensity += score.Intensity * weight
		totalConfidence += score.Confidence
		weights += weight

		features.PositiveWords = append(features.PositiveWords, score.Features.PositiveWords...)
		features.NegativeWords = append(features.NegativeWords, score.Features.NegativeWords...)
		features.Negations = append(features.Negations, score.Features.Negations...)
		mixed = mixed || score.Dominant == Mixed
	}

	if weights == 0 {
		weights = 1
	}

	avgPolarity := totalPolarity / weights
	avgIntensity := totalIntensity / weights

	dominant := classifyPolarity(avgPolarity, avgIntensity)
	if mixed && len(sentenceScores) == 1 {
		dominant = Mixed
	}

	return SentimentScore{
		Polarity:   avgPolarity,
		Intensity:  avgIntensity,
		Confidence: totalConfidence / float64(len(sentenceScores)),
		Dominant:   dominant,
		Features:   features,
	}
}

// isContentWord skips punctuation, single characters and tokens without
// letters.
func isContentWord(token word) bool {
	if len(token.Text) <= 1 {
		return false
	}
	for _, r := range token.Text {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}

var clauseBoundaries = map[string]bool{
	",":        true,
	";":        true,
	":":        true,
	".":        true,
	"!":        true,
	"?":        true,
	"but":      true,
	"however":  true,
	"although": true,
}

// isClauseBoundary checks if a token represents a clause boundary
func isClauseBoundary(token word) bool {
	return clauseBoundaries[strings.ToLower(token.Text)]
}

// classifyPolarity determines the sentiment class from polarity and intensity
func classifyPolarity(polarity, intensity float64) SentimentClass {
	if math.Abs(polarity) < 0.1 {
		return Neutral
	}

	if polarity > 0 {
		if intensity > 0.6 && polarity > 0.5 {
			return StrongPositive
		}
		return Positive
	}

	if intensity > 0.6 && polarity < -0.5 {
		return StrongNegative
	}
	return Negative
}

func clampPolarity(p float64) float64 {
	if math.IsNaN(p) {
		return 0
	}
	return math.Max(-1, math.Min(1, p))
}
