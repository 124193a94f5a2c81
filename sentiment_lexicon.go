package textpipe

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
)

// SentimentLexicon manages sentiment word lists
type SentimentLexicon struct {
	words     map[string]LexiconEntry
	modifiers map[string]float64
	negations map[string]bool
	mutex     sync.RWMutex
}

// LexiconEntry represents a word's sentiment information
type LexiconEntry struct {
	Word       string
	Sentiment  float64 // -1 to 1
	Confidence float64 // 0 to 1
	Domain     string  // Domain specificity
}

// ExternalLexicon represents the JSON structure for external lexicon files
type ExternalLexicon struct {
	Languages map[string]LanguageLexicon `json:"languages"`
}

// LanguageLexicon contains all word categories for a specific language
type LanguageLexicon struct {
	Words        []WordEntry     `json:"words,omitempty"`
	Modifiers    []ModifierEntry `json:"modifiers,omitempty"`
	Negations    []string        `json:"negations,omitempty"`
	Positive     []WordEntry     `json:"positive,omitempty"`
	Negative     []WordEntry     `json:"negative,omitempty"`
	Intensifiers []string        `json:"intensifiers,omitempty"`
	Diminishers  []string        `json:"diminishers,omitempty"`
}

// WordEntry represents a sentiment word in JSON format
type WordEntry struct {
	Word       string  `json:"word"`
	Sentiment  float64 `json:"sentiment"`
	Confidence float64 `json:"confidence"`
	Domain     string  `json:"domain,omitempty"`
}

// ModifierEntry represents a modifier word in JSON format
type ModifierEntry struct {
	Word   string  `json:"word"`
	Factor float64 `json:"factor"`
}

// externalLanguageKey selects the section of an external lexicon file that
// is merged.
const externalLanguageKey = "english"

// Default factors for bare intensifier/diminisher lists in external files.
const (
	defaultIntensifierFactor = 0.3
	defaultDiminisherFactor  = -0.3
)

// LoadSentimentLexicon loads the built-in English lexicon.
func LoadSentimentLexicon() *SentimentLexicon {
	lexicon := &SentimentLexicon{
		words:     englishLexicon(),
		modifiers: englishModifiers(),
		negations: englishNegations(),
	}
	return lexicon
}

// LoadSentimentLexiconWithExternal loads the built-in lexicon and merges the
// file at externalPath over it. An empty path skips the merge.
func LoadSentimentLexiconWithExternal(externalPath string) (*SentimentLexicon, error) {
	lexicon := LoadSentimentLexicon()
	if externalPath != "" {
		if err := lexicon.LoadExternalLexicon(externalPath); err != nil {
			return nil, fmt.Errorf("failed to load external lexicon: %w", err)
		}
	}
	return lexicon, nil
}

// LoadExternalLexicon loads and merges external lexicon data
func (sl *SentimentLexicon) LoadExternalLexicon(filepath string) error {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return fmt.Errorf("error reading lexicon file: %w", err)
	}

	var external ExternalLexicon
	if err := json.Unmarshal(data, &external); err != nil {
		return fmt.Errorf("error parsing lexicon JSON: %w", err)
	}

	sl.mutex.Lock()
	defer sl.mutex.Unlock()

	if langData, exists := external.Languages[externalLanguageKey]; exists {
		sl.mergeLanguageData(langData)
	}
	return nil
}

// mergeLanguageData merges external language data with existing lexicon
func (sl *SentimentLexicon) mergeLanguageData(data LanguageLexicon) {
	entries := make([]WordEntry, 0, len(data.Words)+len(data.Positive)+len(data.Negative))
	entries = append(entries, data.Words...)
	entries = append(entries, data.Positive...)
	entries = append(entries, data.Negative...)
	for _, entry := range entries {
		sl.words[strings.ToLower(entry.Word)] = LexiconEntry{
			Word:       entry.Word,
			Sentiment:  entry.Sentiment,
			Confidence: entry.Confidence,
			Domain:     entry.Domain,
		}
	}

	for _, modifier := range data.Modifiers {
		sl.modifiers[strings.ToLower(modifier.Word)] = modifier.Factor
	}
	for _, intensifier := range data.Intensifiers {
		sl.modifiers[strings.ToLower(intensifier)] = defaultIntensifierFactor
	}
	for _, diminisher := range data.Diminishers {
		sl.modifiers[strings.ToLower(diminisher)] = defaultDiminisherFactor
	}

	for _, negation := range data.Negations {
		sl.negations[strings.ToLower(negation)] = true
	}
}

// englishLexicon returns the built-in English sentiment words. Cleaned text
// arrives lemmatized, so base forms ("love", "disappoint") are listed next to
// the inflected forms raw text would contain.
func englishLexicon() map[string]LexiconEntry {
	words := map[string]LexiconEntry{
		// Strong positive words
		"excellent":   {Word: "excellent", Sentiment: 0.9, Confidence: 0.95},
		"amazing":     {Word: "amazing", Sentiment: 0.85, Confidence: 0.95},
		"amaze":       {Word: "amaze", Sentiment: 0.8, Confidence: 0.9},
		"wonderful":   {Word: "wonderful", Sentiment: 0.85, Confidence: 0.95},
		"fantastic":   {Word: "fantastic", Sentiment: 0.85, Confidence: 0.95},
		"outstanding": {Word: "outstanding", Sentiment: 0.9, Confidence: 0.95},
		"perfect":     {Word: "perfect", Sentiment: 0.95, Confidence: 0.95},
		"brilliant":   {Word: "brilliant", Sentiment: 0.85, Confidence: 0.95},
		"superb":      {Word: "superb", Sentiment: 0.85, Confidence: 0.95},
		"magnificent": {Word: "magnificent", Sentiment: 0.9, Confidence: 0.95},

		// Moderate positive words
		"good":        {Word: "good", Sentiment: 0.6, Confidence: 0.9},
		"great":       {Word: "great", Sentiment: 0.75, Confidence: 0.9},
		"nice":        {Word: "nice", Sentiment: 0.5, Confidence: 0.85},
		"love":        {Word: "love", Sentiment: 0.8, Confidence: 0.9},
		"loved":       {Word: "loved", Sentiment: 0.8, Confidence: 0.9},
		"happy":       {Word: "happy", Sentiment: 0.7, Confidence: 0.9},
		"beautiful":   {Word: "beautiful", Sentiment: 0.75, Confidence: 0.9},
		"enjoy":       {Word: "enjoy", Sentiment: 0.65, Confidence: 0.9},
		"like":        {Word: "like", Sentiment: 0.5, Confidence: 0.85},
		"pleasant":    {Word: "pleasant", Sentiment: 0.6, Confidence: 0.9},
		"positive":    {Word: "positive", Sentiment: 0.6, Confidence: 0.9},
		"best":        {Word: "best", Sentiment: 0.85, Confidence: 0.95},
		"better":      {Word: "better", Sentiment: 0.5, Confidence: 0.85},
		"fun":         {Word: "fun", Sentiment: 0.65, Confidence: 0.9},
		"interesting": {Word: "interesting", Sentiment: 0.5, Confidence: 0.85},
		"awesome":     {Word: "awesome", Sentiment: 0.8, Confidence: 0.9},
		"helpful":     {Word: "helpful", Sentiment: 0.6, Confidence: 0.85},
		"recommend":   {Word: "recommend", Sentiment: 0.5, Confidence: 0.8},
		"thank":       {Word: "thank", Sentiment: 0.4, Confidence: 0.75},

		// Mild positive words
		"okay":         {Word: "okay", Sentiment: 0.2, Confidence: 0.7},
		"fine":         {Word: "fine", Sentiment: 0.3, Confidence: 0.75},
		"decent":       {Word: "decent", Sentiment: 0.4, Confidence: 0.8},
		"satisfactory": {Word: "satisfactory", Sentiment: 0.4, Confidence: 0.85},

		// Strong negative words
		"terrible":   {Word: "terrible", Sentiment: -0.9, Confidence: 0.95},
		"awful":      {Word: "awful", Sentiment: -0.85, Confidence: 0.95},
		"horrible":   {Word: "horrible", Sentiment: -0.85, Confidence: 0.95},
		"disgusting": {Word: "disgusting", Sentiment: -0.9, Confidence: 0.95},
		"appalling":  {Word: "appalling", Sentiment: -0.9, Confidence: 0.95},
		"dreadful":   {Word: "dreadful", Sentiment: -0.85, Confidence: 0.95},
		"atrocious":  {Word: "atrocious", Sentiment: -0.9, Confidence: 0.95},
		"abysmal":    {Word: "abysmal", Sentiment: -0.95, Confidence: 0.95},

		// Moderate negative words
		"bad":           {Word: "bad", Sentiment: -0.6, Confidence: 0.9},
		"hate":          {Word: "hate", Sentiment: -0.8, Confidence: 0.9},
		"sad":           {Word: "sad", Sentiment: -0.7, Confidence: 0.9},
		"ugly":          {Word: "ugly", Sentiment: -0.75, Confidence: 0.9},
		"disappointing": {Word: "disappointing", Sentiment: -0.7, Confidence: 0.9},
		"disappoint":    {Word: "disappoint", Sentiment: -0.65, Confidence: 0.85},
		"poor":          {Word: "poor", Sentiment: -0.65, Confidence: 0.9},
		"wrong":         {Word: "wrong", Sentiment: -0.6, Confidence: 0.85},
		"worst":         {Word: "worst", Sentiment: -0.85, Confidence: 0.95},
		"worse":         {Word: "worse", Sentiment: -0.5, Confidence: 0.85},
		"dislike":       {Word: "dislike", Sentiment: -0.5, Confidence: 0.85},
		"negative":      {Word: "negative", Sentiment: -0.6, Confidence: 0.9},
		"annoying":      {Word: "annoying", Sentiment: -0.65, Confidence: 0.9},
		"annoy":         {Word: "annoy", Sentiment: -0.6, Confidence: 0.85},
		"boring":        {Word: "boring", Sentiment: -0.6, Confidence: 0.85},
		"fail":          {Word: "fail", Sentiment: -0.7, Confidence: 0.9},
		"failure":       {Word: "failure", Sentiment: -0.75, Confidence: 0.9},
		"broken":        {Word: "broken", Sentiment: -0.6, Confidence: 0.85},
		"rude":          {Word: "rude", Sentiment: -0.7, Confidence: 0.9},
		"useless":       {Word: "useless", Sentiment: -0.75, Confidence: 0.9},

		// Context-dependent words
		"cheap":   {Word: "cheap", Sentiment: -0.3, Confidence: 0.6},
		"simple":  {Word: "simple", Sentiment: 0.1, Confidence: 0.5},
		"fast":    {Word: "fast", Sentiment: 0.3, Confidence: 0.6},
		"slow":    {Word: "slow", Sentiment: -0.3, Confidence: 0.6},
		"hard":    {Word: "hard", Sentiment: -0.2, Confidence: 0.5},
		"easy":    {Word: "easy", Sentiment: 0.3, Confidence: 0.6},
		"complex": {Word: "complex", Sentiment: -0.1, Confidence: 0.4},
		"new":     {Word: "new", Sentiment: 0.2, Confidence: 0.5},
		"old":     {Word: "old", Sentiment: -0.2, Confidence: 0.5},
	}
	return words
}

// englishModifiers returns intensifiers (positive) and diminishers (negative).
func englishModifiers() map[string]float64 {
	return map[string]float64{
		// Intensifiers (increase by factor)
		"very":         0.3,
		"extremely":    0.5,
		"absolutely":   0.5,
		"totally":      0.4,
		"really":       0.3,
		"so":           0.3,
		"quite":        0.2,
		"incredibly":   0.5,
		"remarkably":   0.4,
		"particularly": 0.3,
		"especially":   0.3,
		"super":        0.4,
		"utterly":      0.5,
		"completely":   0.4,
		"thoroughly":   0.4,

		// Diminishers (decrease by factor)
		"slightly":   -0.3,
		"somewhat":   -0.3,
		"rather":     -0.2,
		"fairly":     -0.1,
		"marginally": -0.4,
		"barely":     -0.5,
		"hardly":     -0.5,
		"scarcely":   -0.5,
	}
}

// englishNegations returns English negation words
func englishNegations() map[string]bool {
	return map[string]bool{
		"not":       true,
		"no":        true,
		"never":     true,
		"neither":   true,
		"nor":       true,
		"cannot":    true,
		"can't":     true,
		"won't":     true,
		"don't":     true,
		"doesn't":   true,
		"didn't":    true,
		"isn't":     true,
		"aren't":    true,
		"wasn't":    true,
		"weren't":   true,
		"hasn't":    true,
		"haven't":   true,
		"hadn't":    true,
		"wouldn't":  true,
		"shouldn't": true,
		"couldn't":  true,
		"without":   true,
		"nobody":    true,
		"nothing":   true,
		"nowhere":   true,
		"none":      true,
	}
}

// GetSentiment returns sentiment score for a word
func (sl *SentimentLexicon) GetSentiment(word string) float64 {
	if entry, ok := sl.lookup(word); ok {
		return entry.Sentiment
	}
	return 0.0
}

// GetConfidence returns confidence for a word's sentiment
func (sl *SentimentLexicon) GetConfidence(word string) float64 {
	if entry, ok := sl.lookup(word); ok {
		return entry.Confidence
	}
	return 0.0
}

func (sl *SentimentLexicon) lookup(word string) (LexiconEntry, bool) {
	sl.mutex.RLock()
	defer sl.mutex.RUnlock()

	if entry, exists := sl.words[word]; exists {
		return entry, true
	}
	entry, exists := sl.words[strings.ToLower(word)]
	return entry, exists
}

// IsNegation checks if word is a negation
func (sl *SentimentLexicon) IsNegation(word string) bool {
	sl.mutex.RLock()
	defer sl.mutex.RUnlock()

	return sl.negations[word] || sl.negations[strings.ToLower(word)]
}

// GetModifierStrength returns modifier strength
func (sl *SentimentLexicon) GetModifierStrength(word string) float64 {
	sl.mutex.RLock()
	defer sl.mutex.RUnlock()

	if strength, exists := sl.modifiers[word]; exists {
		return strength
	}
	return sl.modifiers[strings.ToLower(word)]
}

// AddCustomWord allows adding domain-specific words
func (sl *SentimentLexicon) AddCustomWord(word string, sentiment, confidence float64) {
	sl.mutex.Lock()
	defer sl.mutex.Unlock()

	sl.words[strings.ToLower(word)] = LexiconEntry{
		Word:       word,
		Sentiment:  sentiment,
		Confidence: confidence,
		Domain:     "custom",
	}
}

// AddCustomNegation adds a custom negation word
func (sl *SentimentLexicon) AddCustomNegation(word string) {
	sl.mutex.Lock()
	defer sl.mutex.Unlock()

	sl.negations[strings.ToLower(word)] = true
}

// Size returns the number of words in the lexicon
func (sl *SentimentLexicon) Size() int {
	sl.mutex.RLock()
	defer sl.mutex.RUnlock()

	return len(sl.words)
}

// HasWord checks if a word exists in the lexicon
func (sl *SentimentLexicon) HasWord(word string) bool {
	_, exists := sl.lookup(word)
	return exists
}
