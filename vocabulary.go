package textpipe

import (
	"sort"
	"strings"

	"github.com/james-bowman/nlp"
	"gonum.org/v1/gonum/mat"
)

// minTermLength drops single-letter terms from the vocabulary.
const minTermLength = 2

// nonZeroDoer is implemented by the sparse matrices the vectoriser returns.
type nonZeroDoer interface {
	DoNonZero(fn func(i, j int, v float64))
}

// buildVocabulary fits vectoriser to docs and prunes its vocabulary to the
// maxFeatures terms with the highest document frequency. Ties keep the term
// seen first. The surviving terms keep their first-seen order and are
// returned indexed by their new column.
func buildVocabulary(vectoriser *nlp.CountVectoriser, docs []string, maxFeatures int) ([]string, error) {
	if !hasTerms(docs) {
		return nil, nil
	}
	counts, err := vectoriser.FitTransform(docs...)
	if err != nil {
		return nil, err
	}

	terms := make([]string, len(vectoriser.Vocabulary))
	for term, idx := range vectoriser.Vocabulary {
		terms[idx] = term
	}

	df := documentFrequency(counts)

	candidates := make([]int, 0, len(terms))
	for idx, term := range terms {
		if len(term) >= minTermLength {
			candidates = append(candidates, idx)
		}
	}
	if maxFeatures > 0 && len(candidates) > maxFeatures {
		sort.SliceStable(candidates, func(i, j int) bool {
			return df[candidates[i]] > df[candidates[j]]
		})
		candidates = candidates[:maxFeatures]
		sort.Ints(candidates)
	}

	kept := make([]string, len(candidates))
	vocabulary := make(map[string]int, len(candidates))
	for i, idx := range candidates {
		kept[i] = terms[idx]
		vocabulary[terms[idx]] = i
	}
	vectoriser.Vocabulary = vocabulary
	return kept, nil
}

// hasTerms reports whether any document holds a token long enough to enter
// the vocabulary.
func hasTerms(docs []string) bool {
	for _, doc := range docs {
		for _, token := range strings.Fields(doc) {
			if len(token) >= minTermLength {
				return true
			}
		}
	}
	return false
}

// documentFrequency counts, per term row of a terms x docs count matrix, the
// number of documents the term occurs in.
func documentFrequency(counts mat.Matrix) []int {
	rows, cols := counts.Dims()
	df := make([]int, rows)

	if nz, ok := counts.(nonZeroDoer); ok {
		nz.DoNonZero(func(i, _ int, v float64) {
			if v > 0 {
				df[i]++
			}
		})
		return df
	}

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if counts.At(i, j) > 0 {
				df[i]++
			}
		}
	}
	return df
}

// newVectoriser returns a count vectoriser restricted to terms.
func newVectoriser(terms []string) *nlp.CountVectoriser {
	vectoriser := nlp.NewCountVectoriser()
	vectoriser.Vocabulary = make(map[string]int, len(terms))
	for i, term := range terms {
		vectoriser.Vocabulary[term] = i
	}
	return vectoriser
}
