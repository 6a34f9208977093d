// ABOUTME: Interactive TUI wizard for configuring the article source and release schedule.
// ABOUTME: 3-step bubbletea model collecting the CSV source, start date and batch size.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harper/smilefeed/internal/timeutil"
)

// Step represents the current wizard step.
type Step int

const (
	StepSource Step = iota
	StepStartDate
	StepBatchSize
	StepDone
)

const stepCount = 3

// Defaults shown as placeholders and used when a step is left blank.
const (
	DefaultStartDate = "2026-02-10"
	DefaultBatchSize = 3
)

// SetupResult holds the values entered in the wizard.
type SetupResult struct {
	Source    string
	StartDate string
	BatchSize int
}

// SetupModel is the bubbletea model for the setup wizard.
type SetupModel struct {
	step     Step
	inputs   [stepCount]textinput.Model
	errMsg   string
	quitting bool
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	brandStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// NewSetupModel creates a new setup wizard model, pre-filling with existing config values.
func NewSetupModel(existing SetupResult) SetupModel {
	source := textinput.New()
	source.Placeholder = "https://example.com/articles.csv"
	source.Focus()
	source.Width = 60
	source.SetValue(existing.Source)

	start := textinput.New()
	start.Placeholder = DefaultStartDate
	start.Width = 30
	start.SetValue(existing.StartDate)

	batch := textinput.New()
	batch.Placeholder = strconv.Itoa(DefaultBatchSize)
	batch.Width = 10
	if existing.BatchSize > 0 {
		batch.SetValue(strconv.Itoa(existing.BatchSize))
	}

	return SetupModel{
		step:   StepSource,
		inputs: [stepCount]textinput.Model{source, start, batch},
	}
}

// Init implements tea.Model.
func (m SetupModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEscape:
			m.quitting = true
			return m, tea.Quit
		}

		if m.step < StepDone {
			return m.updateInput(msg)
		}
	default:
		// Forward other messages (e.g. cursor blink) to the active input
		if m.step < StepDone {
			idx := int(m.step)
			var cmd tea.Cmd
			m.inputs[idx], cmd = m.inputs[idx].Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m SetupModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEnter {
		return m.handleEnter()
	}

	idx := int(m.step)
	var cmd tea.Cmd
	m.inputs[idx], cmd = m.inputs[idx].Update(msg)
	return m, cmd
}

func (m SetupModel) handleEnter() (tea.Model, tea.Cmd) {
	idx := int(m.step)
	val := strings.TrimSpace(m.inputs[idx].Value())

	switch m.step {
	case StepSource:
		if val == "" {
			m.errMsg = "A CSV URL or file path is required"
			return m, nil
		}
	case StepStartDate:
		if val == "" {
			val = DefaultStartDate
		}
		if _, err := timeutil.ParseDate(val); err != nil {
			m.errMsg = "Use YYYY-MM-DD, e.g. " + DefaultStartDate
			return m, nil
		}
	case StepBatchSize:
		if val == "" {
			val = strconv.Itoa(DefaultBatchSize)
		}
		if n, err := strconv.Atoi(val); err != nil || n < 1 {
			m.errMsg = "Articles per day must be a whole number of at least 1"
			return m, nil
		}
	}

	m.errMsg = ""
	m.inputs[idx].SetValue(val)
	m.inputs[idx].Blur()
	m.step++

	if m.step == StepDone {
		return m, tea.Quit
	}
	m.inputs[m.step].Focus()
	return m, textinput.Blink
}

// View implements tea.Model.
func (m SetupModel) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(brandStyle.Render("   SMILEFEED"))
	b.WriteString(titleStyle.Render(" - Setup"))
	b.WriteString("\n\n")
	b.WriteString("Configure the article source and release schedule.\n\n")

	switch m.step {
	case StepSource:
		b.WriteString(stepStyle.Render("Step 1 of 3: Article Source"))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render("(URL or path of the articles CSV)"))
		b.WriteString("\n")
		b.WriteString(m.inputs[0].View())
		b.WriteString("\n")

	case StepStartDate:
		b.WriteString(fmt.Sprintf("  Source: %s\n\n", m.inputs[0].Value()))
		b.WriteString(stepStyle.Render("Step 2 of 3: Start Date"))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render(fmt.Sprintf("(first release day, press Enter for default: %s)", DefaultStartDate)))
		b.WriteString("\n")
		b.WriteString(m.inputs[1].View())
		b.WriteString("\n")

	case StepBatchSize:
		b.WriteString(fmt.Sprintf("  Source:     %s\n", m.inputs[0].Value()))
		b.WriteString(fmt.Sprintf("  Start date: %s\n\n", m.inputs[1].Value()))
		b.WriteString(stepStyle.Render("Step 3 of 3: Articles Per Day"))
		b.WriteString("\n")
		b.WriteString(promptStyle.Render(fmt.Sprintf("(press Enter for default: %d)", DefaultBatchSize)))
		b.WriteString("\n")
		b.WriteString(m.inputs[2].View())
		b.WriteString("\n")

	case StepDone:
		b.WriteString(successStyle.Render("Setup complete! Configuration saved."))
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("  Source:           %s\n", m.inputs[0].Value()))
		b.WriteString(fmt.Sprintf("  Start date:       %s\n", m.inputs[1].Value()))
		b.WriteString(fmt.Sprintf("  Articles per day: %s\n", m.inputs[2].Value()))
		b.WriteString("\n")
	}

	if m.errMsg != "" {
		b.WriteString(errorStyle.Render(m.errMsg))
		b.WriteString("\n")
	}

	return b.String()
}

// Result returns the entered values.
func (m SetupModel) Result() SetupResult {
	batch, _ := strconv.Atoi(m.inputs[2].Value())
	return SetupResult{
		Source:    m.inputs[0].Value(),
		StartDate: m.inputs[1].Value(),
		BatchSize: batch,
	}
}

// ShouldSave returns true if the wizard completed and the user did not cancel.
func (m SetupModel) ShouldSave() bool {
	return m.step == StepDone && !m.quitting
}
