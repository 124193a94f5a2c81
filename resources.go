package textpipe

import (
	"fmt"
	"sync"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
)

// A Lemmatizer reduces a lowercase token to its dictionary base form.
// Unknown words are returned unchanged.
type Lemmatizer interface {
	Lemma(word string) string
}

// Resources holds the language data the Normalizer needs: the stopword set
// and the lemma dictionary. Both are read-only once loaded.
type Resources struct {
	Stopwords  map[string]struct{}
	Lemmatizer Lemmatizer
}

var (
	resourcesOnce sync.Once
	resources     *Resources
	errResources  error
)

// LoadResources loads the English stopword list and lemma dictionary. The
// first call does the work; later calls return the same value. There is
// nothing to release.
func LoadResources() (*Resources, error) {
	resourcesOnce.Do(func() {
		lemmatizer, err := newGolemLemmatizer()
		if err != nil {
			errResources = fmt.Errorf("loading lemma dictionary: %w", err)
			return
		}
		resources = &Resources{
			Stopwords:  parseStopwords(stopwordsEN),
			Lemmatizer: lemmatizer,
		}
	})
	return resources, errResources
}

// golemLemmatizer looks words up in golem's English dictionary.
type golemLemmatizer struct {
	lemmatizer *golem.Lemmatizer
}

func newGolemLemmatizer() (*golemLemmatizer, error) {
	lemmatizer, err := golem.New(en.New())
	if err != nil {
		return nil, err
	}
	return &golemLemmatizer{lemmatizer: lemmatizer}, nil
}

// Lemma returns the base form of word, or word itself when the dictionary
// has no entry.
func (g *golemLemmatizer) Lemma(word string) string {
	return g.lemmatizer.Lemma(word)
}
