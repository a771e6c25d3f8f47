package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/simonbystrom/devtracker/internal/roster"
)

type projectFormModel struct {
	store     *roster.Store
	styles    Styles
	developer roster.Developer
	name      textinput.Model
	err       string
}

func newProjectForm(s Styles, store *roster.Store, d roster.Developer) projectFormModel {
	name := textinput.New()
	name.Placeholder = "E-commerce Platform"
	name.Prompt = "Project name: "
	name.CharLimit = 64
	name.Focus()

	return projectFormModel{
		store:     store,
		styles:    s,
		developer: d,
		name:      name,
	}
}

func (m projectFormModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m projectFormModel) Update(msg tea.Msg) (projectFormModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.err = ""

	switch keyMsg.String() {
	case "esc":
		return m, cancelForm
	case "enter":
		p, err := m.store.AddProject(m.developer.ID, m.name.Value())
		if err != nil {
			m.err = err.Error()
			return m, nil
		}
		devID, devName := m.developer.ID, m.developer.Name
		return m, func() tea.Msg {
			return formDoneMsg{
				developerID: devID,
				text:        fmt.Sprintf("Assigned project %s to %s", p.Name, devName),
			}
		}
	}

	var cmd tea.Cmd
	m.name, cmd = m.name.Update(msg)
	return m, cmd
}

func (m projectFormModel) ViewContent() string {
	var b strings.Builder

	b.WriteString(m.styles.WizardTitle.Render("Add Project"))
	b.WriteString("\n\n")
	b.WriteString(m.styles.WizardDim.Render(fmt.Sprintf("Developer: %s (%s)", m.developer.Name, m.developer.Role)))
	b.WriteString("\n\n")
	b.WriteString("  " + m.name.View())
	b.WriteString("\n\n")
	b.WriteString(m.styles.Help.Render("  enter: save │ esc: cancel"))

	if m.err != "" {
		b.WriteString("\n\n")
		b.WriteString(m.styles.Error.Render("  Error: " + m.err))
	}
	return b.String()
}
