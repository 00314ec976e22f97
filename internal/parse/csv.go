package parse

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSVParser parses comma-delimited result files.
type CSVParser struct{}

// Parse reads the CSV bytes into flat rows. Rows are allowed to have
// different lengths (FieldsPerRecord = -1) because flexible exports often
// have a short header row over wider data rows, or vice versa.
func (p *CSVParser) Parse(data []byte) ([][]string, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV: %w", err)
		}
		rows = append(rows, trimCells(record))
	}

	return dropBlankRows(rows), nil
}
