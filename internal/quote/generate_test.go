package quote

import (
	"archive/zip"
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const singleItemInput = `{
	"proyecto": {"cliente": "ACME", "direccion": "Temixco", "telefono": "777 123 4567",
	             "fecha": "2024-05-01", "folio": "COT-001"},
	"conceptos": [{"descripcion": "Instalación", "cantidad": 2, "precio_unitario": 500}]
}`

func testOptions(dir, template, input string) Options {
	return Options{
		TemplatePath:         template,
		TemplateSheet:        templateSheet,
		InputPath:            input,
		OutputDir:            filepath.Join(dir, "dist"),
		DefaultName:          "Generada",
		MinRecognizedColumns: 2,
	}
}

func TestGenerateSingleItem(t *testing.T) {
	dir := t.TempDir()
	template := writeTemplate(t, dir, templateLayout{withPhone: true, dataRows: 2})
	input := writeInput(t, dir, singleItemInput)

	result, err := Generate(context.Background(), testOptions(dir, template, input))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "dist", "Cotizacion_COT-001.xlsx"), result.OutputPath)
	assert.Equal(t, "COT-001", result.SheetName)
	assert.Equal(t, 8, result.HeaderRow)
	assert.Equal(t, 1, result.Items)
	assert.Equal(t, 2, result.ClearedRows)
	assert.Equal(t, 0, result.InsertedRows)
	assert.Equal(t, []Field{FieldValidity, FieldFolio}, result.FieldsSkipped)

	f := openOutput(t, result.OutputPath)
	assert.Equal(t, []string{"COT-001", "Notas"}, f.GetSheetList())

	get := func(cell string) string {
		value, err := f.GetCellValue("COT-001", cell)
		require.NoError(t, err)
		return value
	}
	assert.Equal(t, "Presupuesto COT-001", get("A1"))
	assert.Equal(t, "Cliente:", get("A3"))
	assert.Equal(t, "ACME", get("B3"))
	assert.Equal(t, "Temixco", get("B4"))
	assert.Equal(t, "777 123 4567", get("B5"))
	assert.Equal(t, "2024-05-01", get("E3"))

	assert.Equal(t, "Instalación", get("B9"))
	assert.Equal(t, "2", get("C9"))
	assert.Equal(t, "500", get("D9"))
	assert.Equal(t, "1000", get("E9"))

	// The second template row is kept but emptied
	for _, cell := range []string{"A10", "B10", "C10", "D10", "E10"} {
		assert.Empty(t, get(cell), cell)
	}
}

func TestGenerateWithoutPhoneAnchor(t *testing.T) {
	dir := t.TempDir()
	template := writeTemplate(t, dir, templateLayout{withPhone: false, dataRows: 1})
	input := writeInput(t, dir, singleItemInput)

	result, err := Generate(context.Background(), testOptions(dir, template, input))
	require.NoError(t, err)
	assert.Equal(t, []Field{FieldPhone, FieldValidity, FieldFolio}, result.FieldsSkipped)

	f := openOutput(t, result.OutputPath)
	rows, err := f.GetRows("COT-001")
	require.NoError(t, err)
	for _, row := range rows {
		for _, cell := range row {
			assert.NotContains(t, cell, "777 123 4567")
		}
	}
}

func TestGenerateGrowsTable(t *testing.T) {
	dir := t.TempDir()
	template := writeTemplate(t, dir, templateLayout{withPhone: true, totalFormula: true, dataRows: 1})
	input := writeInput(t, dir, `{
		"proyecto": {"folio": "COT-002"},
		"conceptos": [
			{"descripcion": "Uno", "cantidad": 1, "precio_unitario": 10},
			{"descripcion": "Dos", "cantidad": 2, "precio_unitario": 20},
			{"descripcion": "Tres", "cantidad": 3, "precio_unitario": 150.5}
		]
	}`)

	result, err := Generate(context.Background(), testOptions(dir, template, input))
	require.NoError(t, err)
	assert.Equal(t, 1, result.ClearedRows)
	assert.Equal(t, 2, result.InsertedRows)

	f := openOutput(t, result.OutputPath)
	sheet := "COT-002"

	// The formula in the first data row survives
	formula, err := f.GetCellFormula(sheet, "E9")
	require.NoError(t, err)
	assert.Equal(t, "C9*D9", formula)

	templateStyle, err := f.GetCellStyle(sheet, "A9")
	require.NoError(t, err)
	for _, row := range []int{10, 11} {
		styleID, err := f.GetCellStyle(sheet, "A"+strconv.Itoa(row))
		require.NoError(t, err)
		assert.Equal(t, templateStyle, styleID, "row %d", row)

		height, err := f.GetRowHeight(sheet, row)
		require.NoError(t, err)
		assert.Equal(t, 28.0, height, "row %d", row)
	}

	descriptions := []string{}
	for _, cell := range []string{"B9", "B10", "B11"} {
		value, err := f.GetCellValue(sheet, cell)
		require.NoError(t, err)
		descriptions = append(descriptions, value)
	}
	assert.Equal(t, []string{"Uno", "Dos", "Tres"}, descriptions)

	total, err := f.GetCellValue(sheet, "E11")
	require.NoError(t, err)
	assert.Equal(t, "451.5", total)
}

func TestGenerateDefaultNames(t *testing.T) {
	dir := t.TempDir()
	template := writeTemplate(t, dir, templateLayout{dataRows: 1})
	input := writeInput(t, dir, `{"conceptos": []}`)

	result, err := Generate(context.Background(), testOptions(dir, template, input))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "dist", "Cotizacion_Generada.xlsx"), result.OutputPath)
	assert.Equal(t, "Cotizacion", result.SheetName)
	assert.Equal(t, 0, result.Items)

	f := openOutput(t, result.OutputPath)
	title, err := f.GetCellValue("Cotizacion", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Presupuesto", title)
}

func TestGenerateMissingResources(t *testing.T) {
	dir := t.TempDir()
	template := writeTemplate(t, dir, templateLayout{dataRows: 1})
	input := writeInput(t, dir, singleItemInput)

	_, err := Generate(context.Background(), testOptions(dir, filepath.Join(dir, "missing.xlsx"), input))
	assert.ErrorIs(t, err, ErrMissingResource)
	assert.Contains(t, err.Error(), "template")

	_, err = Generate(context.Background(), testOptions(dir, template, filepath.Join(dir, "missing.json")))
	assert.ErrorIs(t, err, ErrMissingResource)

	_, statErr := os.Stat(filepath.Join(dir, "dist"))
	assert.True(t, os.IsNotExist(statErr), "no output on failure")
}

func TestGenerateSchemaErrors(t *testing.T) {
	dir := t.TempDir()
	template := writeTemplate(t, dir, templateLayout{dataRows: 1})
	input := writeInput(t, dir, singleItemInput)

	opts := testOptions(dir, template, input)
	opts.TemplateSheet = "Hoja inexistente"
	_, err := Generate(context.Background(), opts)
	require.ErrorIs(t, err, ErrSchema)
	assert.Contains(t, err.Error(), "Hoja inexistente")
	assert.Contains(t, err.Error(), templateSheet)

	opts = testOptions(dir, template, input)
	opts.MinRecognizedColumns = 6
	_, err = Generate(context.Background(), opts)
	require.ErrorIs(t, err, ErrSchema)
	assert.Contains(t, err.Error(), "header")

	_, statErr := os.Stat(filepath.Join(dir, "dist"))
	assert.True(t, os.IsNotExist(statErr), "no output on failure")
}

func TestGenerateCancelled(t *testing.T) {
	dir := t.TempDir()
	template := writeTemplate(t, dir, templateLayout{dataRows: 1})
	input := writeInput(t, dir, singleItemInput)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Generate(ctx, testOptions(dir, template, input))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerateExtraAliases(t *testing.T) {
	dir := t.TempDir()
	template := writeTemplate(t, dir, templateLayout{dataRows: 1})
	input := writeInput(t, dir, `{"proyecto": {"folio": "F-9", "vigencia": "30 días"}, "conceptos": []}`)

	opts := testOptions(dir, template, input)
	opts.ExtraAliases = map[Field][]string{FieldValidity: {"Fecha del presupuesto"}}

	result, err := Generate(context.Background(), opts)
	require.NoError(t, err)
	assert.Contains(t, result.FieldsWritten, FieldValidity)
}

func TestGenerateIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	template := writeTemplate(t, dir, templateLayout{withPhone: true, dataRows: 1})
	input := writeInput(t, dir, `{
		"proyecto": {"cliente": "ACME", "folio": "COT-003"},
		"conceptos": [
			{"descripcion": "Uno", "cantidad": 1, "precio_unitario": 10},
			{"descripcion": "Dos", "cantidad": 2, "precio_unitario": 20}
		]
	}`)

	first := testOptions(dir, template, input)
	first.OutputDir = filepath.Join(dir, "a")
	second := testOptions(dir, template, input)
	second.OutputDir = filepath.Join(dir, "b")

	r1, err := Generate(context.Background(), first)
	require.NoError(t, err)
	r2, err := Generate(context.Background(), second)
	require.NoError(t, err)

	assert.Equal(t, zipEntries(t, r1.OutputPath), zipEntries(t, r2.OutputPath))
}

// zipEntries returns the workbook parts, leaving out document properties
// that may carry timestamps
func zipEntries(t *testing.T, path string) map[string]string {
	t.Helper()
	reader, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer reader.Close()

	entries := map[string]string{}
	for _, file := range reader.File {
		if strings.HasPrefix(file.Name, "docProps/") {
			continue
		}
		rc, err := file.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		entries[file.Name] = string(data)
	}
	return entries
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "COT-001", SheetName(" COT-001 "))
	assert.Equal(t, "Cotizacion", SheetName(""))
	assert.Equal(t, "A-B-C", SheetName("A/B:C"))
	assert.Equal(t, 31, len([]rune(SheetName(strings.Repeat("x", 40)))))
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("dist", "Cotizacion_COT-1.xlsx"), OutputPath("dist", "COT-1", "Generada"))
	assert.Equal(t, filepath.Join("dist", "Cotizacion_Generada.xlsx"), OutputPath("dist", "", "Generada"))
	assert.Equal(t, filepath.Join("dist", "Cotizacion_a-b.xlsx"), OutputPath("dist", "a/b", ""))
}
