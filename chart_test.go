package textpipe

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestCountTopics(t *testing.T) {
	records := []Record{{Topic: 3}, {Topic: 0}, {Topic: 3}, {Topic: 1}, {Topic: 3}}
	want := []TopicCount{{Topic: 0, Count: 1}, {Topic: 1, Count: 1}, {Topic: 3, Count: 3}}
	if got := CountTopics(records); !reflect.DeepEqual(got, want) {
		t.Errorf("CountTopics() = %v, want %v", got, want)
	}
	if got := CountTopics(nil); len(got) != 0 {
		t.Errorf("CountTopics(nil) = %v, want empty", got)
	}
}

func TestWriteTopicChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charts", "topic_frequency.png")
	counts := []TopicCount{{Topic: 0, Count: 2}, {Topic: 2, Count: 5}}

	if err := WriteTopicChart(path, counts); err != nil {
		t.Fatalf("WriteTopicChart: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")) {
		t.Error("chart is not a PNG file")
	}
}
