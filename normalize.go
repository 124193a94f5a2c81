package textpipe

import (
	"regexp"
	"strings"
	"unicode"
)

// Normalizer maps raw text to a cleaned token string: lowercase, best-effort
// PII scrub, letters only, stopwords dropped, tokens lemmatized.
//
// The PII scrub runs before the letter filter. A standalone number is removed
// as a whole word first; digits embedded in other tokens only disappear
// later when the letter filter strips them ("abc123" -> "abc").
type Normalizer struct {
	emailRE    *regexp.Regexp
	numberRE   *regexp.Regexp
	nonLetters *regexp.Regexp
	stopwords  map[string]struct{}
	lemmatizer Lemmatizer
}

// NormalizerOpt configures a Normalizer.
type NormalizerOpt func(*Normalizer)

// UsingStopwords replaces the stopword set.
func UsingStopwords(set map[string]struct{}) NormalizerOpt {
	return func(n *Normalizer) {
		n.stopwords = set
	}
}

// UsingLemmatizer replaces the lemmatizer.
func UsingLemmatizer(l Lemmatizer) NormalizerOpt {
	return func(n *Normalizer) {
		n.lemmatizer = l
	}
}

// NewNormalizer builds a Normalizer from the shared English resources. Options
// override individual resources.
func NewNormalizer(res *Resources, opts ...NormalizerOpt) *Normalizer {
	n := &Normalizer{
		emailRE:    emailRE,
		numberRE:   numberRE,
		nonLetters: nonLetterRE,
	}
	if res != nil {
		n.stopwords = res.Stopwords
		n.lemmatizer = res.Lemmatizer
	}

	for _, applyOpt := range opts {
		applyOpt(n)
	}

	if n.stopwords == nil {
		n.stopwords = map[string]struct{}{}
	}
	if n.lemmatizer == nil {
		n.lemmatizer = identityLemmatizer{}
	}
	return n
}

// Clean normalizes text.
func (n *Normalizer) Clean(text string) string {
	text = strings.ToLower(text)
	text = n.removePII(text)
	text = n.nonLetters.ReplaceAllString(text, "")

	tokens := strings.FieldsFunc(text, isSeparator)
	kept := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if _, stop := n.stopwords[token]; stop {
			continue
		}
		kept = append(kept, n.lemma(token))
	}
	return strings.Join(kept, " ")
}

// CleanValue normalizes v when it is a string (or non-nil *string) and
// returns "" for anything else.
func (n *Normalizer) CleanValue(v any) string {
	text, ok := textValue(v)
	if !ok {
		return ""
	}
	return n.Clean(text)
}

// CleanAll normalizes each text in order.
func (n *Normalizer) CleanAll(texts []string) []string {
	cleaned := make([]string, len(texts))
	for i, text := range texts {
		cleaned[i] = n.Clean(text)
	}
	return cleaned
}

// removePII drops email-like substrings and standalone numbers.
func (n *Normalizer) removePII(text string) string {
	text = n.emailRE.ReplaceAllString(text, "")
	return n.numberRE.ReplaceAllString(text, "")
}

// lemma keeps the output alphabet to [a-z]; a dictionary form with any
// other character falls back to the token itself.
func (n *Normalizer) lemma(token string) string {
	lemma := n.lemmatizer.Lemma(token)
	if lemma == "" || !isLowerASCII(lemma) {
		return token
	}
	return lemma
}

// textValue unwraps the string forms a record field may arrive in.
func textValue(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case *string:
		if t == nil {
			return "", false
		}
		return *t, true
	default:
		return "", false
	}
}

func isLowerASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return true
}

// isSeparator matches the characters the letter filter keeps besides a-z.
func isSeparator(r rune) bool {
	return unicode.IsSpace(r) || unicode.Is(unicode.Z, r) || (r >= 0x1c && r <= 0x1f)
}

type identityLemmatizer struct{}

func (identityLemmatizer) Lemma(word string) string { return word }

// separatorClass lists the characters isSeparator splits on.
const separatorClass = `\s\x0b\x1c-\x1f\x{85}\p{Z}`

var emailRE = regexp.MustCompile(`[^` + separatorClass + `]+@[^` + separatorClass + `]+`)
var numberRE = regexp.MustCompile(`\b\d+\b`)
var nonLetterRE = regexp.MustCompile(`[^a-z` + separatorClass + `]`)
