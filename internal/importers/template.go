package importers

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// TemplateColumn documents one column of the import template.
type TemplateColumn struct {
	Header   string
	Required bool
	Example  string
	Notes    string
}

// TemplateColumns lists the columns the importer understands, in template order.
var TemplateColumns = []TemplateColumn{
	{Header: "Title", Required: true, Example: "Palm Grove Residency", Notes: "Also accepted as Name"},
	{Header: "City", Required: true, Example: "Pune"},
	{Header: "Slug", Example: "palm-grove-residency", Notes: "Derived from the title when empty; must be unique"},
	{Header: "Location", Example: "Baner"},
	{Header: "Address", Example: "Survey 42, Baner Road"},
	{Header: "Description", Example: "Low-rise gated community with a central palm court."},
	{Header: "Category", Example: "Residential"},
	{Header: "Status", Example: "Under construction"},
	{Header: "Developer", Example: "Greenline Builders"},
	{Header: "Price Range", Example: "85L - 1.6Cr"},
	{Header: "Area", Example: "4 acres"},
	{Header: "Possession", Example: "Dec 2027"},
	{Header: "RERA Number", Example: "P52100012345"},
	{Header: "Brochure", Example: "https://example.com/brochure.pdf"},
	{Header: "Map URL", Example: "https://maps.example.com/?q=palm+grove"},
	{Header: "Thumbnail", Example: "front.jpg", Notes: "Defaults to the first gallery image"},
	{Header: "Gallery", Example: "front.jpg, lobby.jpg, https://example.com/pool.png", Notes: "URLs, file names from the zip archive, or storage paths; separated by comma, pipe or newline"},
	{Header: "Videos", Example: "https://youtu.be/abc123"},
	{Header: "Highlights", Example: "Clubhouse | Rooftop garden"},
	{Header: "Amenities", Example: "Pool, Gym, Power backup"},
	{Header: "Configurations", Example: `[{"type":"2 BHK","size":"950 sqft","price":"85L"},{"type":"3 BHK","size":"1300 sqft","price":"1.2Cr"}]`, Notes: "JSON list of {type, size, price}; plain text is kept as a simple list"},
}

const (
	templateSheet = "Projects"
	notesSheet    = "Notes"
)

// WriteTemplate writes an xlsx workbook with the header row, one example
// row and a sheet describing each column.
func WriteTemplate(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", templateSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}
	if _, err := f.NewSheet(notesSheet); err != nil {
		return fmt.Errorf("failed to create notes sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create style: %w", err)
	}

	for i, col := range TemplateColumns {
		header, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		example, err := excelize.CoordinatesToCellName(i+1, 2)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(templateSheet, header, col.Header); err != nil {
			return err
		}
		if err := f.SetCellValue(templateSheet, example, col.Example); err != nil {
			return err
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(TemplateColumns), 1)
	if err := f.SetCellStyle(templateSheet, "A1", lastHeader, bold); err != nil {
		return err
	}

	notes := [][]any{{"Column", "Required", "Notes"}}
	for _, col := range TemplateColumns {
		required := "no"
		if col.Required {
			required = "yes"
		}
		notes = append(notes, []any{col.Header, required, col.Notes})
	}
	for i, row := range notes {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(notesSheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(notesSheet, "A1", "C1", bold); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write template: %w", err)
	}
	return nil
}
