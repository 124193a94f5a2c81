package textpipe

// A Record is one row of input text moving through the pipeline. Each stage
// fills in one derived field; records are never dropped.
type Record struct {
	ID        string  // The row identifier, copied verbatim from the input.
	Text      string  // The raw text.
	CleanText string  // The normalized token string.
	Sentiment float64 // Polarity of CleanText in [-1, 1].
	Topic     int     // Dominant topic id in [0, n_topics).
}

// Corpus returns the cleaned texts of records in input order.
func Corpus(records []Record) []string {
	texts := make([]string, len(records))
	for i := range records {
		texts[i] = records[i].CleanText
	}
	return texts
}

// TopicKeywords pairs a topic id with its highest-weight vocabulary terms.
type TopicKeywords struct {
	Topic int
	Words []string
}

// SentimentScore represents the sentiment analysis results
type SentimentScore struct {
	Polarity   float64 // -1.0 (negative) to 1.0 (positive)
	Intensity  float64 // 0.0 (neutral) to 1.0 (strong)
	Confidence float64 // 0.0 to 1.0 reliability score

	Dominant SentimentClass

	// Contributing factors
	Features SentimentFeatures
}

// SentimentClass represents sentiment categories
type SentimentClass string

const (
	StrongPositive SentimentClass = "strong_positive"
	Positive       SentimentClass = "positive"
	Neutral        SentimentClass = "neutral"
	Negative       SentimentClass = "negative"
	StrongNegative SentimentClass = "strong_negative"
	Mixed          SentimentClass = "mixed" // For conflicting sentiments
)

// SentimentFeatures tracks contributing factors
type SentimentFeatures struct {
	PositiveWords []WordContribution
	NegativeWords []WordContribution
	Negations     []NegationScope
}

// WordContribution represents a word's sentiment contribution
type WordContribution struct {
	Word          string
	Position      int
	BaseScore     float64
	AdjustedScore float64
	Confidence    float64
}

// NegationScope represents the scope of a negation
type NegationScope struct {
	Position int
	Scope    int
}
