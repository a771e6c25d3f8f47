package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/simonbystrom/devtracker/internal/config"
	"github.com/simonbystrom/devtracker/internal/roster"
)

type view int

const (
	viewDashboard view = iota
	viewAddDeveloper
	viewAddProject
	viewAddTask
)

type AppModel struct {
	store      *roster.Store
	styles     Styles
	log        *zap.Logger
	activeView view

	dashboard dashboardModel
	devForm   developerFormModel
	projForm  projectFormModel
	taskForm  taskFormModel

	width  int
	height int
}

func NewApp(cfg config.Config, store *roster.Store, log *zap.Logger) AppModel {
	if log == nil {
		log = zap.NewNop()
	}
	s := NewStyles(cfg.Colors)
	return AppModel{
		store:      store,
		styles:     s,
		log:        log,
		activeView: viewDashboard,
		dashboard:  newDashboard(s, cfg, store, log),
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.dashboard.Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.dashboard.width = msg.Width
		m.dashboard.height = msg.Height
		return m, nil

	case tickMsg:
		// Keep the tick chain alive regardless of the active view.
		m.dashboard, _ = m.dashboard.Update(msg)
		return m, tickCmd()

	case exportDoneMsg:
		m.dashboard, _ = m.dashboard.Update(msg)
		return m, nil

	case formDoneMsg:
		m.activeView = viewDashboard
		m.dashboard.selectDeveloper(msg.developerID)
		m.dashboard.notify(msg.text, m.styles.Notification)
		return m, nil

	case formCancelMsg:
		m.activeView = viewDashboard
		return m, nil
	}

	switch m.activeView {
	case viewAddDeveloper:
		var cmd tea.Cmd
		m.devForm, cmd = m.devForm.Update(msg)
		return m, cmd
	case viewAddProject:
		var cmd tea.Cmd
		m.projForm, cmd = m.projForm.Update(msg)
		return m, cmd
	case viewAddTask:
		var cmd tea.Cmd
		m.taskForm, cmd = m.taskForm.Update(msg)
		return m, cmd
	}
	return m.updateDashboard(msg)
}

func (m AppModel) updateDashboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if !m.dashboard.capturingInput() {
			switch keyMsg.String() {
			case "q":
				return m, tea.Quit
			case "n":
				m.activeView = viewAddDeveloper
				m.devForm = newDeveloperForm(m.styles, m.store)
				return m, m.devForm.Init()
			case "p":
				d, ok := m.dashboard.selected()
				if !ok {
					m.dashboard.err = "select a developer first"
					return m, nil
				}
				m.activeView = viewAddProject
				m.projForm = newProjectForm(m.styles, m.store, d)
				return m, m.projForm.Init()
			case "t":
				d, ok := m.dashboard.selected()
				if !ok {
					m.dashboard.err = "select a developer first"
					return m, nil
				}
				if len(d.Projects) == 0 {
					m.dashboard.err = d.Name + " has no projects; press p to add one"
					return m, nil
				}
				m.activeView = viewAddTask
				m.taskForm = newTaskForm(m.styles, m.store, d, m.width*45/100)
				return m, m.taskForm.Init()
			}
		}
	}

	var cmd tea.Cmd
	m.dashboard, cmd = m.dashboard.Update(msg)
	return m, cmd
}

func (m AppModel) View() string {
	switch m.activeView {
	case viewAddDeveloper:
		return m.viewSideBySide(m.devForm.ViewContent())
	case viewAddProject:
		return m.viewSideBySide(m.projForm.ViewContent())
	case viewAddTask:
		return m.viewSideBySide(m.taskForm.ViewContent())
	default:
		return m.dashboard.View()
	}
}

func (m AppModel) viewSideBySide(rightPanel string) string {
	maxWidth := m.width - 4
	if maxWidth < 40 {
		maxWidth = 80
	}

	// 55% for dashboard, 45% for right panel, minus 1 for separator
	dashWidth := maxWidth * 55 / 100
	panelWidth := maxWidth - dashWidth - 1

	dash := m.dashboard
	dash.width = dashWidth + 4
	dashContent := lipgloss.NewStyle().Width(dashWidth).Render(dash.ViewContent())
	panelContent := lipgloss.NewStyle().Width(panelWidth).PaddingLeft(1).Render(rightPanel)

	sepHeight := max(lipgloss.Height(dashContent), lipgloss.Height(panelContent))
	sepLines := make([]string, sepHeight)
	for i := range sepLines {
		sepLines[i] = "│"
	}
	separator := m.styles.Separator.Render(strings.Join(sepLines, "\n"))

	combined := lipgloss.JoinHorizontal(lipgloss.Top, dashContent, separator, panelContent)
	return m.styles.Border.Width(maxWidth).Render(combined)
}
