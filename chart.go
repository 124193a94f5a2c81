package textpipe

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// TopicCount is the number of records assigned to one topic.
type TopicCount struct {
	Topic int
	Count int
}

// CountTopics tallies records per topic. Only topics with at least one
// record appear, in ascending topic order.
func CountTopics(records []Record) []TopicCount {
	tally := make(map[int]int)
	for _, rec := range records {
		tally[rec.Topic]++
	}
	counts := make([]TopicCount, 0, len(tally))
	for topic, n := range tally {
		counts = append(counts, TopicCount{Topic: topic, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		return counts[i].Topic < counts[j].Topic
	})
	return counts
}

// Chart dimensions.
const (
	chartWidth    = 8 * vg.Inch
	chartHeight   = 5 * vg.Inch
	chartBarWidth = 20
)

// WriteTopicChart draws a bar chart of counts and saves it to path. The
// image format follows the file extension.
func WriteTopicChart(path string, counts []TopicCount) error {
	p := plot.New()
	p.Title.Text = "Topic Frequency Distribution"
	p.X.Label.Text = "Topic"
	p.Y.Label.Text = "Number of Records"

	values := make(plotter.Values, len(counts))
	names := make([]string, len(counts))
	for i, c := range counts {
		values[i] = float64(c.Count)
		names[i] = strconv.Itoa(c.Topic)
	}

	if len(values) > 0 {
		bars, err := plotter.NewBarChart(values, vg.Points(chartBarWidth))
		if err != nil {
			return fmt.Errorf("building bar chart: %w", err)
		}
		bars.LineStyle.Width = vg.Length(0)
		p.Add(bars)
		p.NominalX(names...)
	}
	p.Y.Min = 0

	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return fmt.Errorf("creating chart directory: %w", err)
	}
	if err := p.Save(chartWidth, chartHeight, path); err != nil {
		return fmt.Errorf("saving chart: %w", err)
	}
	return nil
}
