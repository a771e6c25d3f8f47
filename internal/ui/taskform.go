package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/simonbystrom/devtracker/internal/roster"
)

type taskStep int

const (
	stepPickProject taskStep = iota
	stepDetails
)

type taskField int

const (
	fieldName taskField = iota
	fieldType
	fieldDue
	fieldStatus
	fieldCount
)

// projectItem implements list.DefaultItem for the project picker.
type projectItem struct {
	id    string
	name  string
	tasks int
}

func (p projectItem) Title() string {
	return fmt.Sprintf("%s (%d tasks)", p.name, p.tasks)
}

func (p projectItem) Description() string { return "" }
func (p projectItem) FilterValue() string { return p.name }

type taskFormModel struct {
	store     *roster.Store
	styles    Styles
	developer roster.Developer
	step      taskStep
	err       string

	projects list.Model
	project  projectItem

	field    taskField
	name     textinput.Model
	due      textinput.Model
	taskType roster.TaskType
	status   roster.TaskStatus
}

func newTaskForm(s Styles, store *roster.Store, d roster.Developer, width int) taskFormModel {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetHeight(1)
	delegate.SetSpacing(0)
	delegate.Styles.SelectedTitle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(s.WizardActive.GetForeground()).
		Foreground(s.WizardActive.GetForeground()).
		Padding(0, 0, 0, 1)
	delegate.Styles.NormalTitle = lipgloss.NewStyle().Padding(0, 0, 0, 2)
	delegate.Styles.DimmedTitle = lipgloss.NewStyle().
		Foreground(s.WizardDim.GetForeground()).
		Padding(0, 0, 0, 2)

	items := make([]list.Item, len(d.Projects))
	for i, p := range d.Projects {
		items[i] = projectItem{id: p.ID, name: p.Name, tasks: p.TaskCount()}
	}

	pl := list.New(items, delegate, max(width-8, 20), 10)
	pl.SetShowTitle(false)
	pl.SetShowStatusBar(false)
	pl.SetShowHelp(false)
	pl.SetFilteringEnabled(true)
	pl.DisableQuitKeybindings()
	pl.KeyMap.ShowFullHelp.SetEnabled(false)
	pl.KeyMap.CloseFullHelp.SetEnabled(false)
	pl.FilterInput.Prompt = "Filter: "
	pl.FilterInput.PromptStyle = s.WizardActive

	name := textinput.New()
	name.Placeholder = "Implement user authentication"
	name.Prompt = "Name:     "
	name.CharLimit = 96

	due := textinput.New()
	due.Placeholder = roster.DateLayout
	due.Prompt = "Due date: "
	due.CharLimit = len(roster.DateLayout)

	m := taskFormModel{
		store:     store,
		styles:    s,
		developer: d,
		step:      stepPickProject,
		projects:  pl,
		name:      name,
		due:       due,
		taskType:  roster.Frontend,
		status:    roster.StatusPending,
	}

	// A single project needs no picking.
	if len(d.Projects) == 1 {
		m.project = items[0].(projectItem)
		m.step = stepDetails
		m.focusField(fieldName)
	}
	return m
}

func (m taskFormModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *taskFormModel) focusField(f taskField) {
	m.name.Blur()
	m.due.Blur()
	m.field = (f + fieldCount) % fieldCount
	switch m.field {
	case fieldName:
		m.name.Focus()
	case fieldDue:
		m.due.Focus()
	}
}

func (m taskFormModel) Update(msg tea.Msg) (taskFormModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.err = ""

	if m.step == stepPickProject {
		return m.updatePickProject(keyMsg)
	}
	return m.updateDetails(keyMsg)
}

func (m taskFormModel) updatePickProject(msg tea.KeyMsg) (taskFormModel, tea.Cmd) {
	wasFiltering := m.projects.SettingFilter()

	if msg.String() == "esc" && !wasFiltering && !m.projects.IsFiltered() {
		return m, cancelForm
	}

	var cmd tea.Cmd
	m.projects, cmd = m.projects.Update(msg)

	if msg.String() == "enter" && !wasFiltering && !m.projects.SettingFilter() {
		item, ok := m.projects.SelectedItem().(projectItem)
		if !ok {
			return m, cmd
		}
		m.project = item
		m.step = stepDetails
		m.focusField(fieldName)
		return m, textinput.Blink
	}
	return m, cmd
}

func (m taskFormModel) updateDetails(msg tea.KeyMsg) (taskFormModel, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if len(m.developer.Projects) > 1 {
			m.step = stepPickProject
			m.name.Blur()
			m.due.Blur()
			return m, nil
		}
		return m, cancelForm
	case "tab", "down":
		m.focusField(m.field + 1)
		return m, nil
	case "shift+tab", "up":
		m.focusField(m.field - 1)
		return m, nil
	case "enter":
		if m.field < fieldCount-1 {
			m.focusField(m.field + 1)
			return m, nil
		}
		return m.submit()
	}

	switch m.field {
	case fieldType:
		switch msg.String() {
		case " ", "left", "right", "h", "l":
			if m.taskType == roster.Frontend {
				m.taskType = roster.Backend
			} else {
				m.taskType = roster.Frontend
			}
		}
		return m, nil
	case fieldStatus:
		switch msg.String() {
		case " ", "left", "right", "h", "l":
			if m.status == roster.StatusPending {
				m.status = roster.StatusInProgress
			} else {
				m.status = roster.StatusPending
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	if m.field == fieldName {
		m.name, cmd = m.name.Update(msg)
	} else {
		m.due, cmd = m.due.Update(msg)
	}
	return m, cmd
}

func (m taskFormModel) submit() (taskFormModel, tea.Cmd) {
	due, err := time.Parse(roster.DateLayout, strings.TrimSpace(m.due.Value()))
	if err != nil {
		m.err = "due date must look like " + roster.DateLayout
		m.focusField(fieldDue)
		return m, nil
	}

	t := roster.Task{
		Name:    m.name.Value(),
		Type:    m.taskType,
		DueDate: due,
		Status:  m.status,
	}
	if err := m.store.AddTask(m.developer.ID, m.project.id, t); err != nil {
		m.err = err.Error()
		return m, nil
	}

	verb := "Queued"
	if m.status == roster.StatusInProgress {
		verb = "Started"
	}
	text := fmt.Sprintf("%s %q on %s for %s", verb, strings.TrimSpace(t.Name), m.project.name, m.developer.Name)
	devID := m.developer.ID
	return m, func() tea.Msg {
		return formDoneMsg{developerID: devID, text: text}
	}
}

func (m taskFormModel) toggle(left, right string, leftOn bool) string {
	render := func(label string, on bool) string {
		if on {
			return m.styles.WizardActive.Render("[" + label + "]")
		}
		return m.styles.WizardDim.Render(" " + label + " ")
	}
	return render(left, leftOn) + " " + render(right, !leftOn)
}

func (m taskFormModel) ViewContent() string {
	var b strings.Builder

	b.WriteString(m.styles.WizardTitle.Render("Add Task"))
	b.WriteString("\n\n")
	b.WriteString(m.styles.WizardDim.Render("Developer: " + m.developer.Name))
	b.WriteString("\n")

	switch m.step {
	case stepPickProject:
		b.WriteString(m.styles.WizardActive.Render("Pick a project"))
		b.WriteString("\n\n")
		b.WriteString(m.projects.View())
		b.WriteString("\n")
		b.WriteString(m.styles.Help.Render("  /: filter │ enter: select │ esc: cancel"))

	case stepDetails:
		b.WriteString(m.styles.WizardDim.Render("Project:   " + m.project.name))
		b.WriteString("\n\n")

		rows := []string{
			m.name.View(),
			"Type:     " + m.toggle(string(roster.Frontend), string(roster.Backend), m.taskType == roster.Frontend),
			m.due.View(),
			"Status:   " + m.toggle(string(roster.StatusPending), string(roster.StatusInProgress), m.status == roster.StatusPending),
		}
		for i, row := range rows {
			if taskField(i) == m.field {
				b.WriteString(m.styles.WizardActive.Render("> "))
			} else {
				b.WriteString("  ")
			}
			b.WriteString(row)
			b.WriteString("\n")
		}
		if m.status == roster.StatusInProgress {
			if p, ok := m.developer.Project(m.project.id); ok && p.CurrentTask != nil {
				b.WriteString("\n")
				b.WriteString(m.styles.WizardDim.Render(fmt.Sprintf("  %q will move back to pending", p.CurrentTask.Name)))
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
		b.WriteString(m.styles.Help.Render("  tab: next field │ space: toggle │ enter: next/save │ esc: back"))
	}

	if m.err != "" {
		b.WriteString("\n\n")
		b.WriteString(m.styles.Error.Render("  Error: " + m.err))
	}
	return b.String()
}
