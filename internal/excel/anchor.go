package excel

import (
	"fmt"
	"sort"
	"strings"

	"quoteGen/internal/logger"
	"quoteGen/internal/textnorm"

	"github.com/xuri/excelize/v2"
)

// Cell is a located cell with its 1-based coordinates and display text.
type Cell struct {
	Col  int
	Row  int
	Text string
}

// Name returns the A1 reference of the cell.
func (c Cell) Name() string {
	name, _ := excelize.CoordinatesToCellName(c.Col, c.Row)
	return name
}

// ColumnSpec names a logical table column and the header labels it accepts.
// At least one Required column must be present for a row to be a header.
type ColumnSpec struct {
	Field    string
	Aliases  textnorm.Set
	Required bool
}

// ColumnMap maps a logical field to its 1-based column.
type ColumnMap map[string]int

// Columns returns the mapped columns in ascending order.
func (m ColumnMap) Columns() []int {
	cols := make([]int, 0, len(m))
	for _, col := range m {
		cols = append(cols, col)
	}
	sort.Ints(cols)
	return cols
}

// Fields returns the mapped fields ordered by column.
func (m ColumnMap) Fields() []string {
	fields := make([]string, 0, len(m))
	for field := range m {
		fields = append(fields, field)
	}
	sort.Slice(fields, func(i, j int) bool { return m[fields[i]] < m[fields[j]] })
	return fields
}

// FindLabelCell returns the first cell, scanning top-to-bottom and
// left-to-right, whose normalized text equals one of the aliases.
func (e *Editor) FindLabelCell(sheet string, aliases textnorm.Set) (Cell, bool, error) {
	return e.findCell(sheet, aliases.Contains)
}

// FindLabelCellPrefix is FindLabelCell with a starts-with match.
func (e *Editor) FindLabelCellPrefix(sheet string, prefixes textnorm.Set) (Cell, bool, error) {
	return e.findCell(sheet, prefixes.HasPrefixOf)
}

func (e *Editor) findCell(sheet string, match func(string) bool) (Cell, bool, error) {
	rows, err := e.GetAllRows(sheet)
	if err != nil {
		return Cell{}, false, fmt.Errorf("failed to read rows of %q: %w", sheet, err)
	}
	for r, row := range rows {
		for c, text := range row {
			if text != "" && match(text) {
				return Cell{Col: c + 1, Row: r + 1, Text: text}, true, nil
			}
		}
	}
	return Cell{}, false, nil
}

// FindTableHeader returns the first row that resolves a Required column and
// at least minRecognized distinct columns overall, with its column map.
func (e *Editor) FindTableHeader(sheet string, columns []ColumnSpec, minRecognized int) (int, ColumnMap, error) {
	rows, err := e.GetAllRows(sheet)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to read rows of %q: %w", sheet, err)
	}

	for r, row := range rows {
		header := matchHeaderRow(row, columns)
		if len(header) < minRecognized || !hasRequired(header, columns) {
			continue
		}
		logger.Debug("Found table header", "sheet", sheet, "row", r+1, "columns", len(header))
		return r + 1, header, nil
	}

	return 0, nil, &NotFoundError{
		SheetName: sheet,
		Target:    fmt.Sprintf("table header (at least %d recognized columns)", minRecognized),
		Aliases:   requiredAliases(columns),
	}
}

// matchHeaderRow assigns each cell to at most one field; the left-most cell
// wins when several cells match the same field.
func matchHeaderRow(row []string, columns []ColumnSpec) ColumnMap {
	header := ColumnMap{}
	for c, text := range row {
		if text == "" {
			continue
		}
		for _, spec := range columns {
			if _, taken := header[spec.Field]; taken {
				continue
			}
			if spec.Aliases.Contains(text) {
				header[spec.Field] = c + 1
				break
			}
		}
	}
	return header
}

func hasRequired(header ColumnMap, columns []ColumnSpec) bool {
	for _, spec := range columns {
		if _, ok := header[spec.Field]; ok && spec.Required {
			return true
		}
	}
	return false
}

func requiredAliases(columns []ColumnSpec) []string {
	var aliases []string
	for _, spec := range columns {
		if !spec.Required {
			continue
		}
		for alias := range spec.Aliases {
			aliases = append(aliases, alias)
		}
	}
	sort.Strings(aliases)
	return aliases
}

// WriteAnchoredValue locates the label and writes value next to it when the
// cell on its right is empty, otherwise replaces the label cell with
// "<label> <value>" (just "<label>" when value is blank). The right-hand
// cell is read through merged ranges, so a label merged across it counts as
// occupied and the value goes into the label cell. A missing label is not an error; written reports whether
// anything was changed.
func (e *Editor) WriteAnchoredValue(sheet string, aliases textnorm.Set, value interface{}) (Cell, bool, error) {
	label, found, err := e.FindLabelCell(sheet, aliases)
	if err != nil || !found {
		return Cell{}, false, err
	}

	adjacentEmpty, err := e.IsCellEmpty(sheet, label.Col+1, label.Row)
	if err != nil {
		return Cell{}, false, err
	}
	if adjacentEmpty {
		target := Cell{Col: label.Col + 1, Row: label.Row, Text: fmt.Sprint(value)}
		if err := e.SetCellValue(sheet, target.Col, target.Row, value); err != nil {
			return Cell{}, false, err
		}
		return target, true, nil
	}

	text := strings.TrimSpace(label.Text)
	if suffix := strings.TrimSpace(fmt.Sprint(value)); value != nil && suffix != "" {
		text += " " + suffix
	}
	if err := e.SetCellValue(sheet, label.Col, label.Row, text); err != nil {
		return Cell{}, false, err
	}
	label.Text = text
	return label, true, nil
}
