package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/textpipe"
)

func saveTestModel(t *testing.T) string {
	t.Helper()
	model, err := textpipe.NewTopicModel(textpipe.WithTopics(2), textpipe.WithIterations(50))
	require.NoError(t, err)
	require.NoError(t, model.Fit([]string{
		"apple banana fruit apple",
		"banana fruit smoothie",
		"engine wheel car engine",
		"car wheel garage",
	}))
	path := filepath.Join(t.TempDir(), "models", "lda_model.gob")
	require.NoError(t, model.Save(path))
	return path
}

func TestTopicsCmd_PrintsKeywords(t *testing.T) {
	path := saveTestModel(t)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"topics", "--model", path, "--top-words", "3"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Topic 0: "))
	assert.True(t, strings.HasPrefix(lines[1], "Topic 1: "))
	assert.Len(t, strings.Split(strings.TrimPrefix(lines[0], "Topic 0: "), ", "), 3)
}

func TestTopicsCmd_MissingModel(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"topics", "--model", filepath.Join(t.TempDir(), "none.gob")})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	assert.Error(t, rootCmd.Execute())
}

func TestAssignCmd_LabelsCSV(t *testing.T) {
	path := saveTestModel(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "new.csv")
	output := filepath.Join(dir, "labeled", "out.csv")
	require.NoError(t, os.WriteFile(input, []byte("id,text\na,Apple and banana smoothie\nb,The car engine is great\n"), 0o600))

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"assign", "--model", path, "--input", input, "--output", output})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "Labeled 2 records")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,text,clean_text,topic,sentiment", lines[0])
}
