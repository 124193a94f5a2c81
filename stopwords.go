package textpipe

import (
	"bufio"
	"bytes"
	_ "embed"
	"strings"

	"github.com/bbalet/stopwords"
)

// stopwordsEN is the fixed English stopword list applied by the Normalizer.
//
//go:embed stopwords_en.txt
var stopwordsEN []byte

// vectorLangCode is the ISO 639-1 code the stopwords library uses for English.
const vectorLangCode = "en"

// parseStopwords reads one word per line, skipping blanks.
func parseStopwords(raw []byte) map[string]struct{} {
	set := make(map[string]struct{}, 200)
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word == "" {
			continue
		}
		set[word] = struct{}{}
	}
	return set
}

// vectorStopFilter removes English stop words from text before it reaches
// the count vectoriser. This is a second filter on top of the Normalizer's
// own list and uses the stopwords library's English set.
func vectorStopFilter(text string) string {
	return strings.TrimSpace(stopwords.CleanString(text, vectorLangCode, false))
}

// vectorStopFilterAll applies vectorStopFilter to every text, in order.
func vectorStopFilterAll(texts []string) []string {
	filtered := make([]string, len(texts))
	for i, text := range texts {
		filtered[i] = vectorStopFilter(text)
	}
	return filtered
}
