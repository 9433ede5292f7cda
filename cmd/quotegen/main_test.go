package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"quoteGen/internal/excel"
	"quoteGen/internal/logger"
	"quoteGen/internal/quote"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "config.toml")
	content := `[template]
path = "` + filepath.ToSlash(filepath.Join(dir, "missing.xlsx")) + `"
sheet = "Hoja"

[input]
path = "` + filepath.ToSlash(filepath.Join(dir, "input.json")) + `"

[output]
directory = "` + filepath.ToSlash(filepath.Join(dir, "dist")) + `"

[mapping]
aliases_file = "` + filepath.ToSlash(filepath.Join(dir, "aliases.json")) + `"

[log]
directory = "` + filepath.ToSlash(filepath.Join(dir, "logs")) + `"
level = "info"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestExecuteClosesLogOnFailure(t *testing.T) {
	dir := t.TempDir()
	configFile := writeConfig(t, dir)

	err := execute([]string{"generate", "--config", configFile})
	require.Error(t, err)
	assert.True(t, errors.Is(err, quote.ErrMissingResource))

	logger.Warn("logged after the command returned")

	data, err := os.ReadFile(filepath.Join(dir, "logs", "quotegen.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Generate operation failed")
	assert.NotContains(t, string(data), "logged after the command returned")
}

func TestRenderReportIsPlainASCII(t *testing.T) {
	report := &quote.InspectReport{
		Sheet: "Hoja",
		Anchors: []quote.AnchorReport{
			{Field: quote.FieldClient, Found: true, Label: excel.Cell{Col: 1, Row: 3, Text: "Cliente:"}, Adjacent: true},
			{Field: quote.FieldPhone},
		},
		HeaderErr: errors.New("line-item table header not found"),
	}

	out := renderReport("templates/quote.xlsx", report)

	assert.Contains(t, out, `templates/quote.xlsx: sheet "Hoja"`)
	assert.Contains(t, out, "written to B3")
	assert.Contains(t, out, "line-item table header not found")
	for _, r := range out {
		if r > 127 {
			t.Fatalf("unexpected non-ASCII rune %q in report:\n%s", r, strings.TrimSpace(out))
		}
	}
}
