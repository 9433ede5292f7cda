package excel

import (
	"testing"

	"quoteGen/internal/textnorm"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const testSheet = "Sheet1"

func testColumns() []ColumnSpec {
	return []ColumnSpec{
		{Field: "descripcion", Aliases: textnorm.NewSet("Descripción", "Concepto"), Required: true},
		{Field: "cantidad", Aliases: textnorm.NewSet("Cantidad", "Unidades")},
		{Field: "precio_unitario", Aliases: textnorm.NewSet("Precio", "Precio unitario")},
		{Field: "total", Aliases: textnorm.NewSet("Total", "Importe")},
	}
}

// newQuoteEditor builds a small quotation layout:
//
//	A1 Cliente:     B1 (empty)
//	A2 Dirección:   B2 "see below"
//	row 4 header:   No. | DESCRIPCIÓN | CANTIDAD | PRECIO | TOTAL
//	rows 5-6 data:  old rows, E5 holds a formula
func newQuoteEditor(t *testing.T) *Editor {
	t.Helper()

	f := excelize.NewFile()
	t.Cleanup(func() { f.Close() })

	set := func(cell string, value interface{}) {
		require.NoError(t, f.SetCellValue(testSheet, cell, value))
	}
	set("A1", "Cliente:")
	set("A2", "Dirección:")
	set("B2", "see below")

	set("A4", "No.")
	set("B4", "DESCRIPCIÓN")
	set("C4", "CANTIDAD")
	set("D4", "PRECIO")
	set("E4", "TOTAL")

	set("A5", 1)
	set("B5", "old concept")
	set("C5", 4)
	set("D5", 10)
	require.NoError(t, f.SetCellFormula(testSheet, "E5", "C5*D5"))
	set("A6", 2)
	set("B6", "another old concept")
	set("C6", 1)
	set("D6", 3)
	set("E6", 3)

	return NewEditor(f)
}
