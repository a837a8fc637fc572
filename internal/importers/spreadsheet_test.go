package importers

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadSpreadsheet_XLSX(t *testing.T) {
	data := buildXLSX(t,
		[]any{"Title", "City", "Price Range", "", "Gallery"},
		[]any{"Palm Grove", "Pune", "85L", "ignored", "a.jpg, b.jpg"},
		[]any{},
		[]any{"Sea Breeze", "Goa"},
		[]any{"", "", "", "orphan"},
	)

	sheet, err := ReadSpreadsheet(data)
	require.NoError(t, err)

	assert.Equal(t, "Sheet1", sheet.Name)
	assert.Equal(t, []string{"title", "city", "price_range", "", "gallery"}, sheet.Headers)
	require.Len(t, sheet.Rows, 2)

	assert.Equal(t, 1, sheet.Rows[0].Ordinal)
	assert.Equal(t, 2, sheet.Rows[0].Line)
	assert.Equal(t, "Palm Grove", sheet.Rows[0].Cells["title"])
	assert.Equal(t, "85L", sheet.Rows[0].Cells["price_range"])
	assert.Equal(t, "a.jpg, b.jpg", sheet.Rows[0].Cells["gallery"])

	assert.Equal(t, 2, sheet.Rows[1].Ordinal)
	assert.Equal(t, 4, sheet.Rows[1].Line)
	assert.Equal(t, "Goa", sheet.Rows[1].Cells["city"])
}

func TestReadSpreadsheet_UsesFirstSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", "Projects"))
	_, err := f.NewSheet("Other")
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Projects", "A1", "title"))
	require.NoError(t, f.SetCellValue("Projects", "A2", "From first"))
	require.NoError(t, f.SetCellValue("Other", "A1", "title"))
	require.NoError(t, f.SetCellValue("Other", "A2", "From second"))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	sheet, err := ReadSpreadsheet(buf.Bytes())
	require.NoError(t, err)

	assert.Equal(t, "Projects", sheet.Name)
	require.Len(t, sheet.Rows, 1)
	assert.Equal(t, "From first", sheet.Rows[0].Cells["title"])
}

func TestReadSpreadsheet_CSV(t *testing.T) {
	data := []byte("\xEF\xBB\xBFName,City,Amenities\n" +
		"Palm Grove,Pune,\"Pool, Gym\"\n" +
		",,\n" +
		"Short row\n")

	sheet, err := ReadSpreadsheet(data)
	require.NoError(t, err)

	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, "Palm Grove", sheet.Rows[0].Cells["name"])
	assert.Equal(t, "Pool, Gym", sheet.Rows[0].Cells["amenities"])
	assert.Equal(t, 4, sheet.Rows[1].Line)
	assert.Equal(t, "Short row", sheet.Rows[1].Cells["name"])
	_, hasCity := sheet.Rows[1].Cells["city"]
	assert.False(t, hasCity)
}

func TestReadSpreadsheet_HeaderAfterBlankLines(t *testing.T) {
	sheet, err := ReadSpreadsheet([]byte("\n,,\ntitle,city\nA,B\n"))
	require.NoError(t, err)

	require.Len(t, sheet.Rows, 1)
	assert.Equal(t, 4, sheet.Rows[0].Line)
}

func TestReadSpreadsheet_DuplicateHeaders(t *testing.T) {
	sheet, err := ReadSpreadsheet([]byte("Title,title,City\n,Second,Pune\nFirst,Second,Pune\n"))
	require.NoError(t, err)

	require.Len(t, sheet.Rows, 2)
	assert.Equal(t, "Second", sheet.Rows[0].Cells["title"])
	assert.Equal(t, "First", sheet.Rows[1].Cells["title"])
}

func TestReadSpreadsheet_Unreadable(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"whitespace", []byte("  \n ")},
		{"blank rows only", []byte(",,\n,,\n")},
		{"broken zip", []byte("PK\x03\x04not really a workbook")},
		{"legacy xls", []byte("\xD0\xCF\x11\xE0\xA1\xB1\x1A\xE1rest")},
		{"binary", []byte{0xff, 0xfe, 0x00, 0x01, 0x80}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadSpreadsheet(tt.data)
			assert.True(t, errors.Is(err, ErrUnreadableSpreadsheet), "got %v", err)
		})
	}
}

func TestReadSpreadsheet_Template(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTemplate(&buf))

	sheet, err := ReadSpreadsheet(buf.Bytes())
	require.NoError(t, err)

	assert.Equal(t, "Projects", sheet.Name)
	assert.Len(t, sheet.Headers, len(TemplateColumns))
	require.Len(t, sheet.Rows, 1)

	d, err := Normalize(1, sheet.Rows[0].Cells)
	require.NoError(t, err)
	assert.Equal(t, "Palm Grove Residency", d.Title)
	assert.Equal(t, "palm-grove-residency", AssignSlug(d))
	assert.Len(t, d.GalleryRefs, 3)
	assert.Len(t, d.Configurations.Units, 2)
}
