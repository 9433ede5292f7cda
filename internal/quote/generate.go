package quote

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"quoteGen/internal/excel"
	"quoteGen/internal/logger"
)

const (
	defaultSheetName  = "Cotizacion"
	outputFilePrefix  = "Cotizacion_"
	maxSheetNameRunes = 31
)

// Options configures one generation run.
type Options struct {
	TemplatePath         string
	TemplateSheet        string
	InputPath            string
	OutputDir            string
	DefaultName          string
	MinRecognizedColumns int
	ExtraAliases         map[Field][]string
}

// Result summarizes a generation run.
type Result struct {
	OutputPath    string
	SheetName     string
	HeaderRow     int
	Columns       excel.ColumnMap
	Items         int
	ClearedRows   int
	InsertedRows  int
	FieldsWritten []Field
	FieldsSkipped []Field
}

// Generate populates the template with the input data and saves the result.
// Nothing is written unless every step succeeds.
func Generate(ctx context.Context, opts Options) (*Result, error) {
	if _, err := os.Stat(opts.TemplatePath); err != nil {
		if os.IsNotExist(err) {
			return nil, &MissingResourceError{Kind: "template", Path: opts.TemplatePath, Err: err}
		}
		return nil, fmt.Errorf("failed to access template %s: %w", opts.TemplatePath, err)
	}

	payload, err := LoadPayload(opts.InputPath)
	if err != nil {
		return nil, err
	}
	logger.Info("Loaded input data", "path", opts.InputPath, "items", len(payload.Items))

	editor, err := excel.OpenFile(opts.TemplatePath)
	if err != nil {
		return nil, err
	}
	defer editor.Close()

	result, err := Populate(ctx, editor, payload, opts)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result.OutputPath = OutputPath(opts.OutputDir, payload.Project.FolioText(), opts.DefaultName)
	if err := editor.SaveAs(result.OutputPath); err != nil {
		return nil, fmt.Errorf("failed to save %s: %w", result.OutputPath, err)
	}

	logger.Info("Quotation generated",
		"output", result.OutputPath,
		"sheet", result.SheetName,
		"items", result.Items,
		"inserted_rows", result.InsertedRows)
	return result, nil
}

// Populate mutates the template sheet of an open workbook in place.
func Populate(ctx context.Context, editor *excel.Editor, payload *Payload, opts Options) (*Result, error) {
	if !editor.HasSheet(opts.TemplateSheet) {
		return nil, &SchemaError{
			Template: opts.TemplatePath,
			Missing:  fmt.Sprintf("sheet %q not found", opts.TemplateSheet),
			Options:  editor.GetSheetNames(),
		}
	}

	anchors := NewAnchors(opts.ExtraAliases)
	folio := payload.Project.FolioText()

	sheet := uniqueSheetName(editor, SheetName(folio), opts.TemplateSheet)
	if err := editor.RenameSheet(opts.TemplateSheet, sheet); err != nil {
		return nil, err
	}
	result := &Result{SheetName: sheet}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, spec := range HeaderFields {
		_, written, err := editor.WriteAnchoredValue(sheet, anchors.Header[spec.Field], text(payload.Project.Value(spec.Field)))
		if err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", spec.Field, err)
		}
		if !written {
			logger.Debug("Label not present in template, skipping", "field", spec.Field)
			result.FieldsSkipped = append(result.FieldsSkipped, spec.Field)
			continue
		}
		result.FieldsWritten = append(result.FieldsWritten, spec.Field)
	}

	if err := writeTitle(editor, sheet, anchors, folio); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	headerRow, columns, err := editor.FindTableHeader(sheet, anchors.Columns, minRecognized(opts.MinRecognizedColumns))
	if err != nil {
		var notFound *excel.NotFoundError
		if errors.As(err, &notFound) {
			return nil, &SchemaError{Template: opts.TemplatePath, Missing: "line-item table header not found", Err: err}
		}
		return nil, err
	}
	result.HeaderRow = headerRow
	result.Columns = columns
	logger.Info("Located line-item table", "sheet", sheet, "header_row", headerRow, "columns", columns.Fields())

	region, err := editor.PrepareRegion(sheet, headerRow, columns, len(payload.Items))
	if err != nil {
		return nil, err
	}
	result.ClearedRows = region.ClearedRows
	result.InsertedRows = region.Inserted

	if err := WriteItems(editor, sheet, region.FirstRow, columns, payload.Items); err != nil {
		return nil, err
	}
	result.Items = len(payload.Items)

	return result, nil
}

// writeTitle rewrites the title cell as "Presupuesto <folio>" when present
func writeTitle(editor *excel.Editor, sheet string, anchors *Anchors, folio string) error {
	title, found, err := editor.FindLabelCellPrefix(sheet, anchors.Title)
	if err != nil {
		return err
	}
	if !found {
		return nil
	}
	value := strings.TrimSpace(TitleWord + " " + folio)
	return editor.SetCellValue(sheet, title.Col, title.Row, value)
}

func minRecognized(n int) int {
	if n < 2 {
		return 2
	}
	return n
}

// SheetName turns a folio into a valid worksheet name.
func SheetName(folio string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '-'
		}
		return r
	}, strings.TrimSpace(folio))
	name = strings.Trim(name, "'")

	if utf8.RuneCountInString(name) > maxSheetNameRunes {
		name = string([]rune(name)[:maxSheetNameRunes])
	}
	if name == "" {
		return defaultSheetName
	}
	return name
}

// uniqueSheetName avoids clashing with sheets other than the template
func uniqueSheetName(editor *excel.Editor, name, template string) string {
	candidate := name
	for i := 2; editor.HasSheet(candidate) && !strings.EqualFold(candidate, template); i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		base := []rune(name)
		if len(base)+utf8.RuneCountInString(suffix) > maxSheetNameRunes {
			base = base[:maxSheetNameRunes-utf8.RuneCountInString(suffix)]
		}
		candidate = string(base) + suffix
	}
	return candidate
}

// OutputPath returns <dir>/Cotizacion_<folio>.xlsx, using defaultName when the
// folio is empty.
func OutputPath(dir, folio, defaultName string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		return r
	}, strings.TrimSpace(folio))
	if name == "" {
		name = defaultName
	}
	if name == "" {
		name = "Generada"
	}
	return filepath.Join(dir, outputFilePrefix+name+".xlsx")
}
