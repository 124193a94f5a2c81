package textpipe

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/mathext"
)

// Fold-in defaults.
const (
	defaultInferenceIterations = 100
	defaultMeanChangeTolerance = 1e-4
)

// termCount is the count of vocabulary column Term in one document.
type termCount struct {
	Term  int
	Count float64
}

// inferTopics estimates the topic proportions of one document from its term
// counts, holding the topic-term weights beta fixed. It runs the
// variational E-step used by online LDA, starting from a uniform Dirichlet.
func inferTopics(beta *mat.Dense, counts []termCount, alpha float64, iterations int, tolerance float64) []float64 {
	k, _ := beta.Dims()

	total := 0.0
	for _, c := range counts {
		total += c.Count
	}

	gamma := make([]float64, k)
	for t := range gamma {
		gamma[t] = alpha + total/float64(k)
	}
	if total == 0 {
		return gamma
	}

	expElogTheta := make([]float64, k)
	next := make([]float64, k)
	for iter := 0; iter < iterations; iter++ {
		sum := mathext.Digamma(floats.Sum(gamma))
		for t := range gamma {
			expElogTheta[t] = math.Exp(mathext.Digamma(gamma[t]) - sum)
		}

		for t := range next {
			next[t] = 0
		}
		for _, c := range counts {
			norm := 1e-100
			for t := 0; t < k; t++ {
				norm += expElogTheta[t] * beta.At(t, c.Term)
			}
			for t := 0; t < k; t++ {
				next[t] += c.Count * beta.At(t, c.Term) / norm
			}
		}

		change := 0.0
		for t := range gamma {
			updated := alpha + expElogTheta[t]*next[t]
			change += math.Abs(updated - gamma[t])
			gamma[t] = updated
		}
		if change/float64(k) < tolerance {
			break
		}
	}
	return gamma
}

// dominantTopic returns the index of the largest proportion. Ties go to
// the lowest index.
func dominantTopic(proportions []float64) int {
	if len(proportions) == 0 {
		return 0
	}
	return floats.MaxIdx(proportions)
}

// columnCounts extracts the non-zero entries of column doc from a
// terms x docs count matrix, in term order.
func columnCounts(m mat.Matrix, doc int) []termCount {
	rows, _ := m.Dims()
	var counts []termCount
	for w := 0; w < rows; w++ {
		if v := m.At(w, doc); v != 0 {
			counts = append(counts, termCount{Term: w, Count: v})
		}
	}
	return counts
}

// normalizeRows scales each row of m to sum to one. An all-zero row becomes
// uniform.
func normalizeRows(m *mat.Dense) {
	rows, cols := m.Dims()
	for i := 0; i < rows; i++ {
		row := m.RawRowView(i)
		sum := floats.Sum(row)
		if sum <= 0 {
			for j := range row {
				row[j] = 1 / float64(cols)
			}
			continue
		}
		floats.Scale(1/sum, row)
	}
}
