package excel

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"quoteGen/internal/logger"
	"quoteGen/internal/textnorm"
)

// ScanTemplateLabels opens a template and returns every distinct text label of
// the given sheet in scan order, saving them to outputFile (one per line).
func ScanTemplateLabels(templatePath, sheet, outputFile string) ([]string, error) {
	editor, err := OpenFile(templatePath)
	if err != nil {
		return nil, err
	}
	defer editor.Close()

	if !editor.HasSheet(sheet) {
		return nil, &NotFoundError{
			SheetName: sheet,
			Target:    "template sheet",
			Aliases:   editor.GetSheetNames(),
		}
	}

	labels, err := editor.ScanLabels(sheet)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := WriteLabelsToFile(outputFile, labels); err != nil {
		return nil, fmt.Errorf("failed to write labels to file: %w", err)
	}

	logger.Info("Scanned template labels", "template", templatePath, "sheet", sheet, "labels", len(labels))
	return labels, nil
}

// ScanLabels returns the distinct textual cells of a sheet, top-to-bottom and
// left-to-right. Numbers and cells that normalize to the same key as an
// earlier label are skipped.
func (e *Editor) ScanLabels(sheet string) ([]string, error) {
	rows, err := e.GetAllRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of %q: %w", sheet, err)
	}

	seen := textnorm.NewSet()
	var labels []string
	for _, row := range rows {
		for _, text := range row {
			label := strings.TrimSpace(text)
			if label == "" || isNumber(label) || seen.Contains(label) {
				continue
			}
			seen.Add(label)
			labels = append(labels, label)
		}
	}
	return labels, nil
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	return err == nil
}

// WriteLabelsToFile writes labels to a plain text file, one per line.
// Newlines inside a label are flattened to spaces.
func WriteLabelsToFile(filename string, labels []string) error {
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	for _, label := range labels {
		if _, err := writer.WriteString(strings.Join(strings.Fields(label), " ") + "\n"); err != nil {
			return fmt.Errorf("failed to write label: %w", err)
		}
	}
	return writer.Flush()
}
