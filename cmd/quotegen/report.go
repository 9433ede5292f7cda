package main

import (
	"fmt"
	"strings"

	"quoteGen/internal/quote"

	"github.com/charmbracelet/lipgloss"
	"github.com/xuri/excelize/v2"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")).MarginTop(1)
	foundStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("40"))
	missingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	nameStyle    = lipgloss.NewStyle().Width(18)
)

func renderReport(templatePath string, report *quote.InspectReport) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("%s: sheet %q", templatePath, report.Sheet)))
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("Labels"))
	b.WriteString("\n")
	for _, entry := range report.Anchors {
		name := nameStyle.Render(string(entry.Field))
		if !entry.Found {
			b.WriteString(name + missingStyle.Render("not in template (skipped)") + "\n")
			continue
		}
		target := "appended to label"
		if entry.Adjacent {
			target = "written to " + cellName(entry.Label.Col+1, entry.Label.Row)
		}
		b.WriteString(name + foundStyle.Render(fmt.Sprintf("%s %q, %s", entry.Label.Name(), entry.Label.Text, target)) + "\n")
	}

	title := missingStyle.Render("not in template")
	if report.Title != nil {
		title = foundStyle.Render(fmt.Sprintf("%s %q", report.Title.Name(), report.Title.Text))
	}
	b.WriteString(nameStyle.Render("title") + title + "\n")

	b.WriteString(sectionStyle.Render("Line-item table"))
	b.WriteString("\n")
	if report.HeaderErr != nil {
		b.WriteString(errorStyle.Render(report.HeaderErr.Error()))
		return b.String()
	}

	b.WriteString(fmt.Sprintf("Header row %d, %d existing data rows\n", report.HeaderRow, report.DataRows))
	for _, field := range report.Columns.Fields() {
		col, _ := excelize.ColumnNumberToName(report.Columns[field])
		b.WriteString(nameStyle.Render(field) + foundStyle.Render("column "+col) + "\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
