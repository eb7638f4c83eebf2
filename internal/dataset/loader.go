package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Column names the loader requires in the CSV header.
const (
	urlColumn   = "url"
	labelColumn = "label"
)

// ErrMissingColumn is returned when the CSV header lacks the url or label
// column. This is a dataset-level failure, not a row-level one: without the
// header there is nothing to retain.
var ErrMissingColumn = errors.New("dataset: header must contain url and label columns")

// Row is one labeled example: a raw URL string and its class label.
// Label 0 means legitimate, 1 means phishing. The loader does not validate
// the label range; any numeric label passes through verbatim.
type Row struct {
	URL   string
	Label float64
}

// Load reads labeled rows from a CSV file.
//
// The first record is a header and must name the url and label columns
// (case-insensitive, any column order, extra columns ignored). Rows that
// cannot be parsed into the expected shape are dropped: too few fields,
// empty url, or a label that is not numeric.
func Load(path string) ([]Row, error) {
	f, err := os.Open(path) //nolint:gosec // dataset path is operator input
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	return Read(f)
}

// Read reads labeled rows from CSV data. See Load for row semantics.
func Read(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	// Rows with the wrong field count are a row-level problem, handled
	// below, not a reason to abort the whole read.
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset header: %w", err)
	}

	urlIdx, labelIdx := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case urlColumn:
			urlIdx = i
		case labelColumn:
			labelIdx = i
		}
	}
	if urlIdx < 0 || labelIdx < 0 {
		return nil, ErrMissingColumn
	}

	var rows []Row
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Structurally broken line: drop it and keep going.
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				continue
			}
			return nil, fmt.Errorf("failed to read dataset row: %w", err)
		}

		if urlIdx >= len(record) || labelIdx >= len(record) {
			continue
		}
		rawURL := strings.TrimSpace(record[urlIdx])
		if rawURL == "" {
			continue
		}
		label, err := strconv.ParseFloat(strings.TrimSpace(record[labelIdx]), 64)
		if err != nil {
			continue
		}
		rows = append(rows, Row{URL: rawURL, Label: label})
	}
	return rows, nil
}
