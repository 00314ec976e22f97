package parse

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// XLSXParser parses spreadsheet workbooks. Only the first sheet is read.
type XLSXParser struct{}

// Parse opens the workbook from memory and flattens the first sheet into
// rows of trimmed strings.
func (p *XLSXParser) Parse(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		if strings.Contains(err.Error(), "zip: not a valid zip file") {
			return nil, fmt.Errorf("failed to open workbook: %w (hint: if this is a CSV file, upload it with a .csv extension)", err)
		}
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	for i := range rows {
		rows[i] = trimCells(rows[i])
	}
	return dropBlankRows(rows), nil
}
