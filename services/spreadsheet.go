package services

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/xuri/excelize/v2"
)

// XLSXContentType is the media type of .xlsx workbooks
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// maxSheetName is the sheet title limit imposed by Excel
const maxSheetName = 31

// SheetRow is one data row of an imported workbook keyed by header
type SheetRow struct {
	Number int // 1-based row number in the sheet
	Values map[string]string
}

// ImportResult contains the summary of an import
type ImportResult struct {
	Imported int
	Failed   int
	Empty    int
	Errors   []string
}

// IsSpreadsheet sniffs data for an OOXML workbook. Some writers order zip entries
// so that only the generic zip signature is visible; excelize rejects those that
// are not workbooks when they are opened.
func IsSpreadsheet(data []byte) bool {
	mt := mimetype.Detect(data)
	return mt.Is(XLSXContentType) || mt.Is("application/zip")
}

// WriteWorkbook builds a single-sheet workbook with a bold header row
func WriteWorkbook(sheet string, headers []string, rows [][]string) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet = sheetName(sheet)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headerRow := make([]interface{}, len(headers))
	for i, h := range headers {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return nil, fmt.Errorf("failed to write headers: %w", err)
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if len(headers) > 0 {
		lastCell, _ := excelize.CoordinatesToCellName(len(headers), 1)
		f.SetCellStyle(sheet, "A1", lastCell, headerStyle)
		lastCol, _ := excelize.ColumnNumberToName(len(headers))
		f.SetColWidth(sheet, "A", lastCol, 25)
	}

	for i, row := range rows {
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}

// ReadWorkbook reads the first sheet of a workbook. The first row holds the
// headers; fully blank rows are skipped and counted.
func ReadWorkbook(r io.Reader) ([]SheetRow, int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, 0, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, 0, nil
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	var out []SheetRow
	empty := 0
	for i, row := range rows[1:] {
		values := make(map[string]string, len(headers))
		blank := true
		for j, h := range headers {
			if h == "" {
				continue
			}
			v := ""
			if j < len(row) {
				v = strings.TrimSpace(row[j])
			}
			if v != "" {
				blank = false
			}
			values[h] = v
		}
		if blank {
			empty++
			continue
		}
		out = append(out, SheetRow{Number: i + 2, Values: values})
	}
	return out, empty, nil
}

// sheetName strips characters Excel refuses and truncates to the sheet title limit
func sheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return -1
		}
		return r
	}, name)
	if name == "" {
		return "Sheet1"
	}
	if runes := []rune(name); len(runes) > maxSheetName {
		name = string(runes[:maxSheetName])
	}
	return name
}
