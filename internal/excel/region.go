package excel

import (
	"quoteGen/internal/logger"

	"github.com/xuri/excelize/v2"
)

// Region describes the data rows below a table header after PrepareRegion.
type Region struct {
	FirstRow    int
	ClearedRows int
	Inserted    int
}

// PrepareRegion empties the rows below headerRow and grows the table so it
// holds at least count rows.
//
// Rows are scanned from headerRow+1 until the first row whose mapped cells are
// all empty. Mapped cells without a formula are cleared. When count exceeds
// the number of cleared rows, the missing rows are inserted after the last
// cleared row and take the height and styles of the template row (the first
// data row). Surplus cleared rows are kept, empty.
//
// Inserting rows shifts everything below the table, so the table should be the
// last structural element of the sheet.
func (e *Editor) PrepareRegion(sheet string, headerRow int, columns ColumnMap, count int) (Region, error) {
	region := Region{FirstRow: headerRow + 1}
	cols := columns.Columns()

	occupied, err := e.CountDataRows(sheet, headerRow, columns)
	if err != nil {
		return region, err
	}
	for row := region.FirstRow; row < region.FirstRow+occupied; row++ {
		if err := e.clearRow(sheet, row, cols); err != nil {
			return region, err
		}
		region.ClearedRows++
	}

	missing := count - region.ClearedRows
	if missing <= 0 {
		logger.Debug("Region large enough", "sheet", sheet, "cleared", region.ClearedRows, "needed", count)
		return region, nil
	}

	insertAt := region.FirstRow + region.ClearedRows
	if err := e.InsertRows(sheet, insertAt, missing); err != nil {
		return region, err
	}
	region.Inserted = missing

	// With no cleared rows the template row sat at insertAt and was pushed down
	templateRow := region.FirstRow
	if region.ClearedRows == 0 {
		templateRow = insertAt + missing
	}

	maxCol, err := e.MaxColumn(sheet)
	if err != nil {
		logger.Warn("Could not read sheet dimension, copying mapped columns only", "sheet", sheet, "error", err)
	}
	if len(cols) > 0 && cols[len(cols)-1] > maxCol {
		maxCol = cols[len(cols)-1]
	}

	for row := insertAt; row < insertAt+missing; row++ {
		if err := e.CopyRowStyle(sheet, templateRow, row, maxCol); err != nil {
			return region, err
		}
	}

	logger.Debug("Expanded table region",
		"sheet", sheet,
		"cleared", region.ClearedRows,
		"inserted", missing,
		"template_row", templateRow)
	return region, nil
}

// CountDataRows returns how many consecutive rows below headerRow have at
// least one mapped cell with a value or formula.
func (e *Editor) CountDataRows(sheet string, headerRow int, columns ColumnMap) (int, error) {
	cols := columns.Columns()
	count := 0
	for row := headerRow + 1; row <= excelize.TotalRows; row++ {
		occupied, err := e.rowOccupied(sheet, row, cols)
		if err != nil {
			return count, err
		}
		if !occupied {
			break
		}
		count++
	}
	return count, nil
}

func (e *Editor) rowOccupied(sheet string, row int, cols []int) (bool, error) {
	for _, col := range cols {
		empty, err := e.IsCellEmpty(sheet, col, row)
		if err != nil {
			return false, err
		}
		if !empty {
			return true, nil
		}
	}
	return false, nil
}

func (e *Editor) clearRow(sheet string, row int, cols []int) error {
	for _, col := range cols {
		hasFormula, err := e.HasFormula(sheet, col, row)
		if err != nil {
			return err
		}
		if hasFormula {
			continue
		}
		if err := e.ClearCell(sheet, col, row); err != nil {
			return err
		}
	}
	return nil
}
