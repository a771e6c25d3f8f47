package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/simonbystrom/devtracker/internal/roster"
)

// formDoneMsg closes a form after a successful submission. developerID is
// the developer the dashboard should select afterwards.
type formDoneMsg struct {
	developerID string
	text        string
}

type formCancelMsg struct{}

func cancelForm() tea.Msg { return formCancelMsg{} }

type developerFormModel struct {
	store  *roster.Store
	styles Styles
	inputs []textinput.Model
	active int
	err    string
}

func newDeveloperForm(s Styles, store *roster.Store) developerFormModel {
	name := textinput.New()
	name.Placeholder = "Jane Smith"
	name.Prompt = "Name: "
	name.CharLimit = 64

	role := textinput.New()
	role.Placeholder = "Full Stack Developer"
	role.Prompt = "Role: "
	role.CharLimit = 64

	m := developerFormModel{
		store:  store,
		styles: s,
		inputs: []textinput.Model{name, role},
	}
	m.inputs[0].Focus()
	return m
}

func (m developerFormModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *developerFormModel) setActive(i int) {
	m.inputs[m.active].Blur()
	m.active = (i + len(m.inputs)) % len(m.inputs)
	m.inputs[m.active].Focus()
}

func (m developerFormModel) Update(msg tea.Msg) (developerFormModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.err = ""

	switch keyMsg.String() {
	case "esc":
		return m, cancelForm
	case "tab", "down":
		m.setActive(m.active + 1)
		return m, nil
	case "shift+tab", "up":
		m.setActive(m.active - 1)
		return m, nil
	case "enter":
		if m.active < len(m.inputs)-1 {
			m.setActive(m.active + 1)
			return m, nil
		}
		return m.submit()
	}

	var cmd tea.Cmd
	m.inputs[m.active], cmd = m.inputs[m.active].Update(msg)
	return m, cmd
}

func (m developerFormModel) submit() (developerFormModel, tea.Cmd) {
	d, err := m.store.AddDeveloper(m.inputs[0].Value(), m.inputs[1].Value())
	if err != nil {
		m.err = err.Error()
		return m, nil
	}
	return m, func() tea.Msg {
		return formDoneMsg{
			developerID: d.ID,
			text:        fmt.Sprintf("Added developer %s (%s)", d.Name, d.Role),
		}
	}
}

func (m developerFormModel) ViewContent() string {
	var b strings.Builder

	b.WriteString(m.styles.WizardTitle.Render("Add Developer"))
	b.WriteString("\n\n")
	for i, in := range m.inputs {
		if i == m.active {
			b.WriteString(m.styles.WizardActive.Render("> "))
		} else {
			b.WriteString("  ")
		}
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("  tab: next field │ enter: next/save │ esc: cancel"))

	if m.err != "" {
		b.WriteString("\n\n")
		b.WriteString(m.styles.Error.Render("  Error: " + m.err))
	}
	return b.String()
}
