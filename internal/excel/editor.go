package excel

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

type Editor struct {
	file     *excelize.File
	filepath string
}

// OpenFile opens an existing Excel file
func OpenFile(filepath string) (*Editor, error) {
	file, err := excelize.OpenFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return &Editor{
		file:     file,
		filepath: filepath,
	}, nil
}

// NewEditor wraps an already opened workbook
func NewEditor(file *excelize.File) *Editor {
	return &Editor{file: file}
}

// File exposes the underlying workbook
func (e *Editor) File() *excelize.File {
	return e.file
}

// GetSheetNames returns all sheet names in the workbook
func (e *Editor) GetSheetNames() []string {
	return e.file.GetSheetList()
}

// HasSheet reports whether the workbook contains the named sheet
func (e *Editor) HasSheet(sheet string) bool {
	idx, err := e.file.GetSheetIndex(sheet)
	return err == nil && idx >= 0
}

// RenameSheet renames a sheet and makes it the active one
func (e *Editor) RenameSheet(from, to string) error {
	if from != to {
		if err := e.file.SetSheetName(from, to); err != nil {
			return fmt.Errorf("failed to rename sheet %q to %q: %w", from, to, err)
		}
	}
	idx, err := e.file.GetSheetIndex(to)
	if err != nil {
		return fmt.Errorf("failed to look up sheet %q: %w", to, err)
	}
	e.file.SetActiveSheet(idx)
	return nil
}

// GetAllRows returns all rows from a sheet
func (e *Editor) GetAllRows(sheet string) ([][]string, error) {
	return e.file.GetRows(sheet)
}

// GetCellValue returns the display text of the cell at col/row (1-based)
func (e *Editor) GetCellValue(sheet string, col, row int) (string, error) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", err
	}
	return e.file.GetCellValue(sheet, cell)
}

// GetCellFormula returns the formula in a cell, or "" when it holds none
func (e *Editor) GetCellFormula(sheet string, col, row int) (string, error) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", err
	}
	return e.file.GetCellFormula(sheet, cell)
}

// HasFormula reports whether the cell holds a formula
func (e *Editor) HasFormula(sheet string, col, row int) (bool, error) {
	formula, err := e.GetCellFormula(sheet, col, row)
	if err != nil {
		return false, err
	}
	return formula != "", nil
}

// IsCellEmpty reports whether a cell has neither a value nor a formula
func (e *Editor) IsCellEmpty(sheet string, col, row int) (bool, error) {
	value, err := e.GetCellValue(sheet, col, row)
	if err != nil {
		return false, err
	}
	if value != "" {
		return false, nil
	}
	hasFormula, err := e.HasFormula(sheet, col, row)
	if err != nil {
		return false, err
	}
	return !hasFormula, nil
}

// SetCellValue sets a value in a specific cell
func (e *Editor) SetCellValue(sheet string, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return e.file.SetCellValue(sheet, cell, value)
}

// ClearCell empties the value of a cell and keeps its style
func (e *Editor) ClearCell(sheet string, col, row int) error {
	return e.SetCellValue(sheet, col, row, nil)
}

// ParseNumericValue converts a string that parses cleanly as a number into a
// float64. Anything else is returned unchanged.
func ParseNumericValue(value interface{}) interface{} {
	s, ok := value.(string)
	if !ok {
		return value
	}
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return value
	}
	if floatVal, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return floatVal
	}
	return value
}

// InsertRows inserts numRows blank rows before startRow
func (e *Editor) InsertRows(sheet string, startRow, numRows int) error {
	if numRows <= 0 {
		return nil
	}
	if err := e.file.InsertRows(sheet, startRow, numRows); err != nil {
		return fmt.Errorf("failed to insert %d rows at position %d: %w", numRows, startRow, err)
	}
	return nil
}

// MaxColumn returns the right-most used column of the sheet, taking the
// larger of the populated cells and the recorded sheet dimension
func (e *Editor) MaxColumn(sheet string) (int, error) {
	rows, err := e.GetAllRows(sheet)
	if err != nil {
		return 0, err
	}
	maxCol := 0
	for _, row := range rows {
		if len(row) > maxCol {
			maxCol = len(row)
		}
	}

	dimension, err := e.file.GetSheetDimension(sheet)
	if err != nil || dimension == "" {
		return maxCol, nil
	}
	parts := strings.Split(dimension, ":")
	if col, _, err := excelize.CellNameToCoordinates(parts[len(parts)-1]); err == nil && col > maxCol {
		maxCol = col
	}
	return maxCol, nil
}

// CopyRowStyle copies the height of srcRow and the style of every column up
// to maxCol onto dstRow. Style IDs are shared, never modified.
func (e *Editor) CopyRowStyle(sheet string, srcRow, dstRow, maxCol int) error {
	height, err := e.file.GetRowHeight(sheet, srcRow)
	if err != nil {
		return fmt.Errorf("failed to read height of row %d: %w", srcRow, err)
	}
	if err := e.file.SetRowHeight(sheet, dstRow, height); err != nil {
		return fmt.Errorf("failed to set height of row %d: %w", dstRow, err)
	}

	for col := 1; col <= maxCol; col++ {
		src, err := excelize.CoordinatesToCellName(col, srcRow)
		if err != nil {
			return err
		}
		dst, err := excelize.CoordinatesToCellName(col, dstRow)
		if err != nil {
			return err
		}
		styleID, err := e.file.GetCellStyle(sheet, src)
		if err != nil {
			return fmt.Errorf("failed to read style of %s: %w", src, err)
		}
		if styleID == 0 {
			continue
		}
		if err := e.file.SetCellStyle(sheet, dst, dst, styleID); err != nil {
			return fmt.Errorf("failed to apply style to %s: %w", dst, err)
		}
	}
	return nil
}

// SetWrapText turns on word wrap for a single cell. The cell's current style
// is cloned and registered as a new style so cells sharing the old style are
// left alone.
func (e *Editor) SetWrapText(sheet string, col, row int) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	styleID, err := e.file.GetCellStyle(sheet, cell)
	if err != nil {
		return fmt.Errorf("failed to read style of %s: %w", cell, err)
	}
	style, err := e.file.GetStyle(styleID)
	if err != nil {
		return fmt.Errorf("failed to load style %d: %w", styleID, err)
	}

	clone := *style
	alignment := excelize.Alignment{}
	if style.Alignment != nil {
		alignment = *style.Alignment
	}
	if alignment.WrapText {
		return nil
	}
	alignment.WrapText = true
	clone.Alignment = &alignment

	newID, err := e.file.NewStyle(&clone)
	if err != nil {
		return fmt.Errorf("failed to create wrap style for %s: %w", cell, err)
	}
	return e.file.SetCellStyle(sheet, cell, cell, newID)
}

// SaveAs writes the workbook to a temporary file next to path and renames it
// into place, so path either holds the full workbook or is left untouched
func (e *Editor) SaveAs(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".quotegen-*.xlsx")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := e.file.WriteTo(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := tmp.Chmod(outputMode(path)); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to set workbook permissions: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to flush workbook: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to move workbook into place: %w", err)
	}

	e.filepath = path
	return nil
}

// outputMode keeps the permissions of an existing output file, 0644 otherwise
func outputMode(path string) os.FileMode {
	if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
		return info.Mode().Perm()
	}
	return 0644
}

// Close closes the Excel file
func (e *Editor) Close() error {
	return e.file.Close()
}
