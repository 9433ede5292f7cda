package mapping

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// UI States
type state int

const (
	stateSelectLabel state = iota
	stateSelectField
	stateConfirm
	stateSaved
)

// UIConfig represents UI configuration settings
type UIConfig struct {
	RowsPerPage int
}

// model maps template labels onto quotation fields
type model struct {
	labels   []string
	fields   []string
	mappings map[string]string // label -> field
	ignored  map[string]bool

	state state

	// Label list navigation
	cursor      int
	rowsPerPage int

	// Field selection
	fieldCursor int

	width  int
	height int

	titleStyle    lipgloss.Style
	selectedStyle lipgloss.Style
	normalStyle   lipgloss.Style
	helpStyle     lipgloss.Style
	progressStyle lipgloss.Style
	mappedStyle   lipgloss.Style
	ignoredStyle  lipgloss.Style
}

func initialModel(labels, fields []string, uiConfig UIConfig) model {
	rowsPerPage := uiConfig.RowsPerPage
	if rowsPerPage <= 0 {
		rowsPerPage = 15
	}

	return model{
		labels:      labels,
		fields:      fields,
		mappings:    make(map[string]string),
		ignored:     make(map[string]bool),
		state:       stateSelectLabel,
		rowsPerPage: rowsPerPage,

		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")),
		selectedStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170")).
			Background(lipgloss.Color("235")).
			Padding(0, 1),
		normalStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Padding(0, 1),
		helpStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		progressStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true),
		mappedStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("40")).
			Padding(0, 1),
		ignoredStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Strikethrough(true).
			Padding(0, 1),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if rows := m.height - 8; rows >= 5 {
			m.rowsPerPage = rows
		}
	case tea.KeyMsg:
		switch m.state {
		case stateSelectLabel:
			return m.updateSelectLabel(msg)
		case stateSelectField:
			return m.updateSelectField(msg)
		case stateConfirm:
			return m.updateConfirm(msg)
		}
	}
	return m, nil
}

func (m model) updateSelectLabel(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.labels)-1 {
			m.cursor++
		}

	case "left", "h", "pgup":
		m.cursor -= m.rowsPerPage
		if m.cursor < 0 {
			m.cursor = 0
		}

	case "right", "l", "pgdown":
		m.cursor += m.rowsPerPage
		if m.cursor > len(m.labels)-1 {
			m.cursor = len(m.labels) - 1
		}

	case "enter":
		if m.cursor < len(m.labels) {
			m.state = stateSelectField
			m.fieldCursor = 0
			if current, ok := m.mappings[m.labels[m.cursor]]; ok {
				for i, field := range m.fields {
					if field == current {
						m.fieldCursor = i
					}
				}
			}
		}

	case "i":
		if m.cursor < len(m.labels) {
			label := m.labels[m.cursor]
			if m.ignored[label] {
				delete(m.ignored, label)
			} else {
				m.ignored[label] = true
				delete(m.mappings, label)
			}
		}

	case "u":
		if m.cursor < len(m.labels) {
			delete(m.mappings, m.labels[m.cursor])
		}

	case "n":
		m.moveToNextUnmapped()

	case "s":
		m.state = stateConfirm
	}

	return m, nil
}

func (m model) updateSelectField(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "esc":
		m.state = stateSelectLabel

	case "up", "k":
		if m.fieldCursor > 0 {
			m.fieldCursor--
		}

	case "down", "j":
		if m.fieldCursor < len(m.fields)-1 {
			m.fieldCursor++
		}

	case "enter":
		label := m.labels[m.cursor]
		m.mappings[label] = m.fields[m.fieldCursor]
		delete(m.ignored, label)
		m.state = stateSelectLabel
		m.moveToNextUnmapped()
	}

	return m, nil
}

func (m model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.state = stateSaved
		return m, tea.Quit
	case "n", "N", "esc":
		m.state = stateSelectLabel
	case "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

// moveToNextUnmapped jumps to the next label that is neither mapped nor
// ignored, wrapping around once
func (m *model) moveToNextUnmapped() {
	for step := 1; step <= len(m.labels); step++ {
		idx := (m.cursor + step) % len(m.labels)
		label := m.labels[idx]
		if _, mapped := m.mappings[label]; !mapped && !m.ignored[label] {
			m.cursor = idx
			return
		}
	}
}

func (m model) View() string {
	switch m.state {
	case stateSelectField:
		return m.viewSelectField()
	case stateConfirm:
		return m.viewConfirm()
	default:
		return m.viewSelectLabel()
	}
}

func (m model) viewSelectLabel() string {
	var b strings.Builder

	b.WriteString(m.titleStyle.Render("Template labels"))
	b.WriteString("\n\n")

	progress := fmt.Sprintf("Progress: %d/%d mapped (%d ignored)",
		len(m.mappings), len(m.labels), len(m.ignored))
	b.WriteString(m.progressStyle.Render(progress))
	b.WriteString("\n\n")

	page := m.cursor / m.rowsPerPage
	totalPages := int(math.Ceil(float64(len(m.labels)) / float64(m.rowsPerPage)))
	if totalPages == 0 {
		totalPages = 1
	}
	b.WriteString(m.helpStyle.Render(fmt.Sprintf("Page %d/%d", page+1, totalPages)))
	b.WriteString("\n\n")

	start := page * m.rowsPerPage
	end := start + m.rowsPerPage
	if end > len(m.labels) {
		end = len(m.labels)
	}

	for i := start; i < end; i++ {
		label := m.labels[i]
		style := m.normalStyle
		display := label

		if field, mapped := m.mappings[label]; mapped {
			display = fmt.Sprintf("%s → %s", label, field)
			style = m.mappedStyle
		} else if m.ignored[label] {
			display = fmt.Sprintf("%s (ignored)", label)
			style = m.ignoredStyle
		}

		if i == m.cursor {
			style = m.selectedStyle
		}
		b.WriteString(style.Render(display))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	help := "↑↓: navigate | ←→: page | Enter: map | i: ignore | u: unmap | n: next unmapped | s: save | q: quit"
	b.WriteString(m.helpStyle.Render(help))

	return b.String()
}

func (m model) viewSelectField() string {
	var b strings.Builder

	b.WriteString(m.titleStyle.Render(fmt.Sprintf("Map '%s' to field:", m.labels[m.cursor])))
	b.WriteString("\n\n")

	for i, field := range m.fields {
		if i == m.fieldCursor {
			b.WriteString(m.selectedStyle.Render("> " + field))
		} else {
			b.WriteString(m.normalStyle.Render("  " + field))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.helpStyle.Render("↑↓: navigate | Enter: select | Esc: back | q: quit"))

	return b.String()
}

func (m model) viewConfirm() string {
	var b strings.Builder

	b.WriteString(m.titleStyle.Render("Save label aliases?"))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("Labels: %d\n", len(m.labels)))
	b.WriteString(fmt.Sprintf("Mapped: %d\n", len(m.mappings)))
	b.WriteString(fmt.Sprintf("Ignored: %d\n", len(m.ignored)))
	b.WriteString("\n")

	b.WriteString(m.helpStyle.Render("y/n to confirm, Esc to go back"))

	return b.String()
}

// applyExisting seeds the model with a previously saved configuration
func (m *model) applyExisting(config *MappingConfig) {
	for _, mapping := range config.Mappings {
		if mapping.IsIgnored {
			m.ignored[mapping.Label] = true
		} else if mapping.Field != "" {
			m.mappings[mapping.Label] = mapping.Field
		}
	}
}

// result converts the model's choices into a configuration, in label order
func (m model) result() *MappingConfig {
	config := &MappingConfig{}
	for _, label := range m.labels {
		if field, ok := m.mappings[label]; ok {
			config.Mappings = append(config.Mappings, LabelMapping{Label: label, Field: field})
		} else if m.ignored[label] {
			config.Mappings = append(config.Mappings, LabelMapping{Label: label, IsIgnored: true})
		}
	}
	return config
}

// RunMappingTUI starts the interactive alias editor. Labels come from the
// scanned labels file, fields are the assignable quotation fields, and the
// result is written to outputMappingFile when the user confirms.
func RunMappingTUI(scannedLabelsFile string, fields []string, outputMappingFile string, uiConfig UIConfig) error {
	labels, err := ReadLabelsFromFile(scannedLabelsFile)
	if err != nil {
		return fmt.Errorf("failed to read scanned labels: %w", err)
	}
	if len(labels) == 0 {
		return fmt.Errorf("no scanned labels found in %s", scannedLabelsFile)
	}
	if len(fields) == 0 {
		return fmt.Errorf("no target fields provided")
	}

	m := initialModel(labels, fields, uiConfig)

	if existing, err := LoadFromFile(outputMappingFile); err == nil {
		fmt.Printf("Loading existing aliases from %s\n", outputMappingFile)
		m.applyExisting(existing)
		fmt.Printf("✓ Loaded %d mapped, %d ignored\n", len(m.mappings), len(m.ignored))
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	final := finalModel.(model)
	if final.state != stateSaved {
		fmt.Println("Aliases not saved")
		return nil
	}

	config := final.result()
	if err := config.SaveToFile(outputMappingFile); err != nil {
		return fmt.Errorf("failed to save aliases: %w", err)
	}

	fmt.Printf("✓ Aliases saved to: %s\n", outputMappingFile)
	fmt.Printf("✓ Mapped %d labels, ignored %d labels\n", len(final.mappings), len(final.ignored))
	return nil
}
