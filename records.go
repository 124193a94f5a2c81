package textpipe

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Column names.
const (
	ColumnID        = "id"
	ColumnText      = "text"
	ColumnCleanText = "clean_text"
	ColumnTopic     = "topic"
	ColumnSentiment = "sentiment"
)

var (
	// ErrMissingTextColumn is returned when the input has no text column.
	ErrMissingTextColumn = errors.New(`input CSV has no "text" column`)
	// ErrMissingColumn is returned when an output needs a column the input
	// did not have.
	ErrMissingColumn = errors.New("missing column")
)

// A Dataset is the parsed input: its header and one Record per row.
type Dataset struct {
	Columns []string
	Records []Record
}

// HasColumn reports whether the input header contained name.
func (d *Dataset) HasColumn(name string) bool {
	return columnIndex(d.Columns, name) >= 0
}

// ReadRecords parses a CSV with a header row. The text column is required;
// the id column is carried when present. Short rows leave missing cells
// empty.
func ReadRecords(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrMissingTextColumn
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if len(header) > 0 {
		header[0] = trimBOM(header[0])
	}

	idCol, textCol := columnIndex(header, ColumnID), columnIndex(header, ColumnText)
	if textCol < 0 {
		return nil, ErrMissingTextColumn
	}

	ds := &Dataset{Columns: header}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}
		ds.Records = append(ds.Records, Record{
			ID:   cell(row, idCol),
			Text: cell(row, textCol),
		})
	}
	return ds, nil
}

// ReadRecordsFile opens path and parses it with ReadRecords.
func ReadRecordsFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()
	return ReadRecords(f)
}

// WriteProcessed writes the id and clean_text columns.
func WriteProcessed(w io.Writer, ds *Dataset) error {
	if !ds.HasColumn(ColumnID) {
		return fmt.Errorf("%w: %q", ErrMissingColumn, ColumnID)
	}
	rows := make([][]string, 0, len(ds.Records)+1)
	rows = append(rows, []string{ColumnID, ColumnCleanText})
	for _, rec := range ds.Records {
		rows = append(rows, []string{rec.ID, rec.CleanText})
	}
	return writeRows(w, rows)
}

// WriteAssignments writes id, text, clean_text, topic and sentiment.
func WriteAssignments(w io.Writer, ds *Dataset) error {
	if !ds.HasColumn(ColumnID) {
		return fmt.Errorf("%w: %q", ErrMissingColumn, ColumnID)
	}
	rows := make([][]string, 0, len(ds.Records)+1)
	rows = append(rows, []string{ColumnID, ColumnText, ColumnCleanText, ColumnTopic, ColumnSentiment})
	for _, rec := range ds.Records {
		rows = append(rows, []string{
			rec.ID,
			rec.Text,
			rec.CleanText,
			strconv.Itoa(rec.Topic),
			strconv.FormatFloat(rec.Sentiment, 'g', -1, 64),
		})
	}
	return writeRows(w, rows)
}

// writeCSVFile renders ds with write and stores the result at path,
// creating parent directories. Nothing is created when write fails.
func writeCSVFile(path string, ds *Dataset, write func(io.Writer, *Dataset) error) error {
	var buf bytes.Buffer
	if err := write(&buf, ds); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

func writeRows(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

// columnIndex returns the first column called name, or -1.
func columnIndex(header []string, name string) int {
	for i, c := range header {
		if c == name {
			return i
		}
	}
	return -1
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

func trimBOM(s string) string {
	return strings.TrimPrefix(s, "\ufeff")
}
