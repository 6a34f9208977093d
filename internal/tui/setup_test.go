// ABOUTME: Unit tests for the smilefeed setup TUI wizard bubbletea model.
// ABOUTME: Uses synthetic tea.Msg values to test state machine transitions.
package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func enter(t *testing.T, m SetupModel) SetupModel {
	t.Helper()
	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return updated.(SetupModel)
}

func TestNewSetupModel_DefaultValues(t *testing.T) {
	m := NewSetupModel(SetupResult{})
	if m.step != StepSource {
		t.Errorf("expected initial step StepSource, got %d", m.step)
	}
	for i, in := range m.inputs {
		if in.Value() != "" {
			t.Errorf("expected empty input %d for new config, got %q", i, in.Value())
		}
	}
}

func TestNewSetupModel_ExistingConfig(t *testing.T) {
	m := NewSetupModel(SetupResult{Source: "articles.csv", StartDate: "2026-03-01", BatchSize: 5})
	if m.inputs[0].Value() != "articles.csv" {
		t.Errorf("expected pre-filled source, got %q", m.inputs[0].Value())
	}
	if m.inputs[1].Value() != "2026-03-01" {
		t.Errorf("expected pre-filled start date, got %q", m.inputs[1].Value())
	}
	if m.inputs[2].Value() != "5" {
		t.Errorf("expected pre-filled batch size, got %q", m.inputs[2].Value())
	}
}

func TestSetupModel_SourceRequired(t *testing.T) {
	m := enter(t, NewSetupModel(SetupResult{}))
	if m.step != StepSource {
		t.Errorf("expected to stay on StepSource without a source, got %d", m.step)
	}
	if !strings.Contains(m.View(), "required") {
		t.Error("expected view to explain the source is required")
	}
}

func TestSetupModel_StepTransitionsWithDefaults(t *testing.T) {
	m := NewSetupModel(SetupResult{})
	m.inputs[0].SetValue("  https://example.com/articles.csv  ")

	m = enter(t, m)
	if m.step != StepStartDate {
		t.Fatalf("expected StepStartDate, got %d", m.step)
	}
	if m.inputs[0].Value() != "https://example.com/articles.csv" {
		t.Errorf("expected trimmed source, got %q", m.inputs[0].Value())
	}

	m = enter(t, m)
	if m.step != StepBatchSize {
		t.Fatalf("expected StepBatchSize, got %d", m.step)
	}
	if m.inputs[1].Value() != DefaultStartDate {
		t.Errorf("expected default start date, got %q", m.inputs[1].Value())
	}

	m = enter(t, m)
	if m.step != StepDone {
		t.Fatalf("expected StepDone, got %d", m.step)
	}

	got := m.Result()
	want := SetupResult{Source: "https://example.com/articles.csv", StartDate: DefaultStartDate, BatchSize: DefaultBatchSize}
	if got != want {
		t.Errorf("Result() = %+v, want %+v", got, want)
	}
	if !m.ShouldSave() {
		t.Error("expected ShouldSave true after completing flow")
	}
}

func TestSetupModel_InvalidStartDate(t *testing.T) {
	m := NewSetupModel(SetupResult{Source: "a.csv"})
	m = enter(t, m)
	m.inputs[1].SetValue("tomorrow-ish")

	m = enter(t, m)
	if m.step != StepStartDate {
		t.Errorf("expected to stay on StepStartDate, got %d", m.step)
	}
	if m.errMsg == "" {
		t.Error("expected an error message")
	}

	m.inputs[1].SetValue("2026-05-01")
	m = enter(t, m)
	if m.step != StepBatchSize {
		t.Errorf("expected StepBatchSize after a valid date, got %d", m.step)
	}
	if m.errMsg != "" {
		t.Errorf("expected error cleared, got %q", m.errMsg)
	}
}

func TestSetupModel_InvalidBatchSize(t *testing.T) {
	for _, bad := range []string{"0", "-2", "three"} {
		m := NewSetupModel(SetupResult{Source: "a.csv", StartDate: "2026-02-10"})
		m = enter(t, enter(t, m))
		m.inputs[2].SetValue(bad)

		m = enter(t, m)
		if m.step != StepBatchSize {
			t.Errorf("batch %q: expected to stay on StepBatchSize, got %d", bad, m.step)
		}
	}
}

func TestSetupModel_QuitOnCtrlC(t *testing.T) {
	m := NewSetupModel(SetupResult{})
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	m = updated.(SetupModel)
	if cmd == nil {
		t.Error("expected quit cmd on ctrl+c")
	}
	if !m.quitting {
		t.Error("expected quitting to be true")
	}
	if m.ShouldSave() {
		t.Error("expected ShouldSave false after ctrl+c")
	}
}

func TestSetupModel_QuitOnEsc(t *testing.T) {
	m := NewSetupModel(SetupResult{})
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEscape})
	m = updated.(SetupModel)
	if cmd == nil {
		t.Error("expected quit cmd on escape")
	}
	if !m.quitting {
		t.Error("expected quitting to be true")
	}
}

func TestSetupModel_ViewShowsCurrentStep(t *testing.T) {
	m := NewSetupModel(SetupResult{})
	if !strings.Contains(m.View(), "SMILEFEED") {
		t.Error("expected view to contain branding")
	}

	steps := map[Step]string{
		StepSource:    "Article Source",
		StepStartDate: "Start Date",
		StepBatchSize: "Articles Per Day",
		StepDone:      "saved",
	}
	for step, want := range steps {
		m.step = step
		if !strings.Contains(m.View(), want) {
			t.Errorf("expected step %d view to mention %q", step, want)
		}
	}
}
