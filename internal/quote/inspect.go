package quote

import (
	"errors"

	"quoteGen/internal/excel"
)

// AnchorReport tells where a header field would be written.
type AnchorReport struct {
	Field    Field
	Found    bool
	Label    excel.Cell
	Adjacent bool // value goes to the cell on the right of the label
}

// InspectReport describes how a template sheet resolves against the anchors.
type InspectReport struct {
	Sheet     string
	Anchors   []AnchorReport
	Title     *excel.Cell
	HeaderRow int
	Columns   excel.ColumnMap
	HeaderErr error
	DataRows  int
}

// Inspect resolves every anchor of the sheet without modifying it. A missing
// table header is reported in HeaderErr rather than returned.
func Inspect(editor *excel.Editor, sheet string, anchors *Anchors, minRecognizedColumns int) (*InspectReport, error) {
	if !editor.HasSheet(sheet) {
		return nil, &SchemaError{
			Missing: "sheet \"" + sheet + "\" not found",
			Options: editor.GetSheetNames(),
		}
	}

	report := &InspectReport{Sheet: sheet}

	for _, spec := range HeaderFields {
		entry := AnchorReport{Field: spec.Field}
		label, found, err := editor.FindLabelCell(sheet, anchors.Header[spec.Field])
		if err != nil {
			return nil, err
		}
		if found {
			entry.Found = true
			entry.Label = label
			entry.Adjacent, err = editor.IsCellEmpty(sheet, label.Col+1, label.Row)
			if err != nil {
				return nil, err
			}
		}
		report.Anchors = append(report.Anchors, entry)
	}

	title, found, err := editor.FindLabelCellPrefix(sheet, anchors.Title)
	if err != nil {
		return nil, err
	}
	if found {
		report.Title = &title
	}

	headerRow, columns, err := editor.FindTableHeader(sheet, anchors.Columns, minRecognized(minRecognizedColumns))
	if err != nil {
		if errors.Is(err, excel.ErrNotFound) {
			report.HeaderErr = err
			return report, nil
		}
		return nil, err
	}
	report.HeaderRow = headerRow
	report.Columns = columns

	report.DataRows, err = editor.CountDataRows(sheet, headerRow, columns)
	if err != nil {
		return nil, err
	}
	return report, nil
}
