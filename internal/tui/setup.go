// ABOUTME: Interactive TUI wizard for connecting profsearch to its professor store.
// ABOUTME: Walks a table of input fields (project URL, table, anon key), then checks the connection.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/2389-research/profsearch/internal/storage"
)

// Step is the wizard's position: one of the input fields, or a post-input state.
type Step int

const (
	StepStoreURL Step = iota
	StepTable
	StepAPIKey
	StepValidating
	StepDone
	StepFailed
)

// ValidateFn checks that the store answers with the entered settings.
type ValidateFn func(ctx context.Context, storeURL, apiKey, table string) error

// inputField describes one text input of the wizard.
type inputField struct {
	label       string
	placeholder string
	hint        string
	secret      bool
	// clean normalizes the raw value; an empty result keeps the wizard on this field.
	clean func(string) string
}

var fields = [...]inputField{
	StepStoreURL: {
		label:       "Project URL",
		placeholder: "https://your-project.supabase.co",
		clean: func(v string) string {
			v = strings.TrimRight(strings.TrimSpace(v), "/")
			return strings.TrimSuffix(v, "/rest/v1")
		},
	},
	StepTable: {
		label:       "Table",
		placeholder: storage.DefaultTable,
		hint:        "(press Enter for " + storage.DefaultTable + ")",
		clean: func(v string) string {
			if v = strings.TrimSpace(v); v != "" {
				return v
			}
			return storage.DefaultTable
		},
	},
	StepAPIKey: {
		label:       "Anon Key",
		placeholder: "your-anon-key",
		secret:      true,
		clean:       strings.TrimSpace,
	},
}

// checkDoneMsg carries the outcome of a connection check.
type checkDoneMsg struct {
	err error
}

// inflight holds the cancel func of the running check. Models are copied by
// value on every Update, so it lives behind a pointer shared by all copies.
type inflight struct {
	cancel context.CancelFunc
}

func (f *inflight) stop() {
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
}

// SetupModel is the bubbletea model for the setup wizard.
type SetupModel struct {
	step          Step
	inputs        [len(fields)]textinput.Model
	spinner       spinner.Model
	validateFn    ValidateFn
	check         *inflight
	validationErr error
	quitting      bool
}

var (
	brandStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// NewSetupModel creates the wizard, pre-filled with the current store settings.
func NewSetupModel(storeURL, table, apiKey string) SetupModel {
	m := SetupModel{
		step:       StepStoreURL,
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		validateFn: ValidateConnection,
		check:      &inflight{},
	}

	initial := [len(fields)]string{storeURL, table, apiKey}
	for i, f := range fields {
		in := textinput.New()
		in.Placeholder = f.placeholder
		in.Width = 50
		if f.secret {
			in.EchoMode = textinput.EchoPassword
		}
		in.SetValue(initial[i])
		m.inputs[i] = in
	}
	m.inputs[StepStoreURL].Focus()
	return m
}

// Init implements tea.Model.
func (m SetupModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m SetupModel) editing() bool {
	return m.step <= StepAPIKey
}

// Update implements tea.Model.
func (m SetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEscape {
			m.quitting = true
			m.check.stop()
			return m, tea.Quit
		}
		if m.editing() {
			return m.updateField(msg)
		}
		if m.step == StepFailed {
			return m.updateFailed(msg)
		}

	case checkDoneMsg:
		m.check.cancel = nil
		if msg.err != nil {
			m.validationErr = msg.err
			m.step = StepFailed
			return m, nil
		}
		m.step = StepDone
		return m, tea.Quit

	case spinner.TickMsg:
		if m.step == StepValidating {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m SetupModel) updateField(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cur := &m.inputs[m.step]

	switch msg.Type {
	case tea.KeyShiftTab:
		if m.step == StepStoreURL {
			return m, nil
		}
		cur.Blur()
		m.step--
		m.inputs[m.step].Focus()
		return m, textinput.Blink

	case tea.KeyEnter:
		v := fields[m.step].clean(cur.Value())
		cur.SetValue(v)
		if v == "" {
			return m, nil
		}
		cur.Blur()
		if m.step == StepAPIKey {
			m.step = StepValidating
			return m, tea.Batch(m.startCheck(), m.spinner.Tick)
		}
		m.step++
		m.inputs[m.step].Focus()
		return m, textinput.Blink
	}

	var cmd tea.Cmd
	*cur, cmd = cur.Update(msg)
	return m, cmd
}

func (m SetupModel) updateFailed(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type != tea.KeyRunes || len(msg.Runes) == 0 {
		return m, nil
	}
	switch msg.Runes[0] {
	case 'r':
		m.validationErr = nil
		m.step = StepValidating
		return m, tea.Batch(m.startCheck(), m.spinner.Tick)
	case 'e':
		m.validationErr = nil
		m.step = StepStoreURL
		m.inputs[StepStoreURL].Focus()
		return m, textinput.Blink
	case 's':
		m.step = StepDone
		return m, tea.Quit
	case 'q':
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m SetupModel) startCheck() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.check.cancel = cancel
	storeURL, table, apiKey := m.Result()
	validate := m.validateFn
	return func() tea.Msg {
		return checkDoneMsg{err: validate(ctx, storeURL, apiKey, table)}
	}
}

// display renders a field value for the summary, masking secrets.
func (m SetupModel) display(s Step) string {
	v := m.inputs[s].Value()
	if fields[s].secret {
		return strings.Repeat("*", len(v))
	}
	return v
}

// View implements tea.Model.
func (m SetupModel) View() string {
	var b strings.Builder

	b.WriteString("\n" + brandStyle.Render("   PROFSEARCH") + titleStyle.Render(" - Setup") + "\n\n")
	b.WriteString("Connect the professor directory.\n\n")

	// Fields already answered.
	answered := m.step
	if !m.editing() {
		answered = Step(len(fields))
	}
	if m.step < StepDone {
		for s := StepStoreURL; s < answered; s++ {
			fmt.Fprintf(&b, "  %s: %s\n", fields[s].label, m.display(s))
		}
		if answered > StepStoreURL {
			b.WriteString("\n")
		}
	}

	switch {
	case m.editing():
		f := fields[m.step]
		b.WriteString(mutedStyle.Render(fmt.Sprintf("Step %d of %d: %s", int(m.step)+1, len(fields), f.label)) + "\n")
		if f.hint != "" {
			b.WriteString(mutedStyle.Render(f.hint) + "\n")
		}
		b.WriteString(m.inputs[m.step].View() + "\n")
		if m.step > StepStoreURL {
			b.WriteString(mutedStyle.Render("shift+tab: back") + "\n")
		}

	case m.step == StepValidating:
		b.WriteString(m.spinner.View() + " Validating connection...\n")

	case m.step == StepDone:
		b.WriteString(successStyle.Render("✓ Connected!") + "\n")

	case m.step == StepFailed:
		reason := "unknown error"
		if m.validationErr != nil {
			reason = m.validationErr.Error()
		}
		b.WriteString(errorStyle.Render("✗ Validation failed: "+reason) + "\n\n")
		b.WriteString(mutedStyle.Render("[r]etry  [e]dit  [s]ave anyway  [q]uit") + "\n")
	}

	return b.String()
}

// Result returns the entered values.
func (m SetupModel) Result() (storeURL, table, apiKey string) {
	return m.inputs[StepStoreURL].Value(), m.inputs[StepTable].Value(), m.inputs[StepAPIKey].Value()
}

// ShouldSave reports whether the wizard finished (connected or "save anyway")
// without being cancelled.
func (m SetupModel) ShouldSave() bool {
	return m.step == StepDone && !m.quitting
}
