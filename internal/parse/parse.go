// Package parse turns uploaded result files into a single flat shape:
// a slice of rows, each row a slice of trimmed cell strings. Both supported
// file types (CSV text and XLSX workbooks) reduce to this shape before any
// pipeline code runs, so the normalization logic never needs to know which
// kind of file the upload came from.
package parse

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Parser reads one file format into flat rows.
type Parser interface {
	Parse(data []byte) ([][]string, error)
}

// ForFilename picks a parser based on the uploaded file's extension.
// .xls is routed to the XLSX parser too — modern scoring apps that emit
// "xls" files are almost always emitting renamed xlsx content.
func ForFilename(filename string) (Parser, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return &CSVParser{}, nil
	case ".xlsx", ".xls":
		return &XLSXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file type %q (expected .csv or .xlsx)", filepath.Ext(filename))
	}
}

// dropBlankRows removes rows whose cells are all empty after trimming.
// Fully blank rows are common padding at the bottom of exported sheets and
// carry no information.
func dropBlankRows(rows [][]string) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		blank := true
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				blank = false
				break
			}
		}
		if !blank {
			out = append(out, row)
		}
	}
	return out
}

// trimCells trims whitespace on every cell in place and returns the row.
func trimCells(row []string) []string {
	for i := range row {
		row[i] = strings.TrimSpace(row[i])
	}
	return row
}
