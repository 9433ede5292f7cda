package quote

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const templateSheet = "Lomas Country Temixco"

type templateLayout struct {
	withPhone    bool
	totalFormula bool
	dataRows     int
}

// writeTemplate saves a quotation template resembling the production one:
//
//	A1  PRESUPUESTO 0000
//	A3  Cliente:            D3 Fecha del presupuesto
//	A4  Dirección:
//	A5  Teléfono:           (optional)
//	row 8 header: No. | DESCRIPCIÓN | CANTIDAD | PRECIO UNITARIO | TOTAL
//	rows 9.. old concepts
func writeTemplate(t *testing.T, dir string, layout templateLayout) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", templateSheet))
	_, err := f.NewSheet("Notas")
	require.NoError(t, err)

	set := func(cell string, value interface{}) {
		require.NoError(t, f.SetCellValue(templateSheet, cell, value))
	}
	set("A1", "PRESUPUESTO 0000")
	set("A3", "Cliente:")
	set("D3", "Fecha del presupuesto")
	set("A4", "Dirección:")
	if layout.withPhone {
		set("A5", "Teléfono:")
	}

	set("A8", "No.")
	set("B8", "DESCRIPCIÓN")
	set("C8", "CANTIDAD")
	set("D8", "PRECIO UNITARIO")
	set("E8", "TOTAL")

	rowStyle, err := f.NewStyle(&excelize.Style{
		Border:    []excelize.Border{{Type: "left", Color: "000000", Style: 1}},
		Alignment: &excelize.Alignment{Vertical: "center"},
	})
	require.NoError(t, err)

	for i := 0; i < layout.dataRows; i++ {
		row := 9 + i
		cell := func(col string) string { return col + strconv.Itoa(row) }
		set(cell("A"), i+1)
		set(cell("B"), "Concepto anterior")
		set(cell("C"), 1)
		set(cell("D"), 100)
		if layout.totalFormula {
			require.NoError(t, f.SetCellFormula(templateSheet, cell("E"), "C"+strconv.Itoa(row)+"*D"+strconv.Itoa(row)))
		} else {
			set(cell("E"), 100)
		}
		require.NoError(t, f.SetCellStyle(templateSheet, cell("A"), cell("E"), rowStyle))
		require.NoError(t, f.SetRowHeight(templateSheet, row, 28))
	}

	path := filepath.Join(dir, "plantilla.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func writeInput(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "cotizacion.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func openOutput(t *testing.T, path string) *excelize.File {
	t.Helper()
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}
