package importers

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

var (
	zipMagic = []byte("PK\x03\x04")
	oleMagic = []byte("\xD0\xCF\x11\xE0\xA1\xB1\x1A\xE1")
	utf8BOM  = []byte("\xEF\xBB\xBF")
)

// SheetRow is one data row. Ordinal counts data rows from 1, skipping blank
// rows; Line is the row number as shown in the spreadsheet application.
type SheetRow struct {
	Ordinal int
	Line    int
	Cells   RawRow
}

type Sheet struct {
	Name    string
	Headers []string
	Rows    []SheetRow
}

// ReadSpreadsheet parses the first worksheet of an xlsx workbook, or CSV
// text when the payload is not a zip container. The first non-blank row is
// the header.
func ReadSpreadsheet(data []byte) (*Sheet, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrUnreadableSpreadsheet)
	}

	var (
		name    string
		records []record
		err     error
	)
	switch {
	case bytes.HasPrefix(data, zipMagic):
		name, records, err = readWorkbook(data)
	case bytes.HasPrefix(data, oleMagic):
		return nil, fmt.Errorf("%w: legacy .xls workbooks are not supported, save as .xlsx or .csv", ErrUnreadableSpreadsheet)
	default:
		name, records, err = readCSV(data)
	}
	if err != nil {
		return nil, err
	}

	return buildSheet(name, records)
}

// record is one spreadsheet line with its 1-based line number.
type record struct {
	line  int
	cells []string
}

func readWorkbook(data []byte) (string, []record, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrUnreadableSpreadsheet, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", nil, fmt.Errorf("%w: workbook has no sheets", ErrUnreadableSpreadsheet)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrUnreadableSpreadsheet, err)
	}

	records := make([]record, len(rows))
	for i, row := range rows {
		records[i] = record{line: i + 1, cells: row}
	}
	return sheets[0], records, nil
}

func readCSV(data []byte) (string, []record, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if !utf8.Valid(data) {
		return "", nil, fmt.Errorf("%w: not an xlsx workbook or UTF-8 CSV", ErrUnreadableSpreadsheet)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	var records []record
	for {
		cells, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", nil, fmt.Errorf("%w: %v", ErrUnreadableSpreadsheet, err)
		}
		line, _ := reader.FieldPos(0)
		records = append(records, record{line: line, cells: cells})
	}
	return "csv", records, nil
}

func buildSheet(name string, records []record) (*Sheet, error) {
	header := -1
	for i, rec := range records {
		if !blankRecord(rec.cells) {
			header = i
			break
		}
	}
	if header < 0 {
		return nil, fmt.Errorf("%w: no header row", ErrUnreadableSpreadsheet)
	}

	headers := make([]string, len(records[header].cells))
	for i, h := range records[header].cells {
		headers[i] = NormalizeKey(h)
	}

	sheet := &Sheet{Name: name, Headers: headers}
	ordinal := 0
	for _, rec := range records[header+1:] {
		if blankRecord(rec.cells) {
			continue
		}

		cells := make(RawRow, len(headers))
		for col, key := range headers {
			if key == "" || col >= len(rec.cells) {
				continue
			}
			cells.set(key, rec.cells[col])
		}
		if cells.Blank() {
			// data only in columns without a header
			continue
		}

		ordinal++
		sheet.Rows = append(sheet.Rows, SheetRow{Ordinal: ordinal, Line: rec.line, Cells: cells})
	}
	return sheet, nil
}

func blankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
