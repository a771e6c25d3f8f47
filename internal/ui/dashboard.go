package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/simonbystrom/devtracker/internal/config"
	"github.com/simonbystrom/devtracker/internal/export"
	"github.com/simonbystrom/devtracker/internal/roster"
)

type tab int

const (
	tabDashboard tab = iota
	tabDevelopers
	tabProjects
)

var tabNames = []string{"Dashboard", "Developers", "Projects"}

type focus int

const (
	focusList focus = iota
	focusDetail
)

const maxNotifications = 10

type notification struct {
	text  string
	time  time.Time
	style lipgloss.Style
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
	rows int
	err  error
}

// taskRef locates one task of the selected developer for the detail pane.
type taskRef struct {
	projectID   string
	projectName string
	task        roster.Task
	current     bool
}

type dashboardModel struct {
	store  *roster.Store
	log    *zap.Logger
	styles Styles
	layout config.Layout
	export config.Export

	tab           tab
	focus         focus
	search        textinput.Model
	searching     bool
	filter        roster.Filter
	cursor        int
	taskCursor    int
	notifications []notification
	now           time.Time
	width         int
	height        int
	err           string
}

func newDashboard(s Styles, cfg config.Config, store *roster.Store, log *zap.Logger) dashboardModel {
	if log == nil {
		log = zap.NewNop()
	}
	si := textinput.New()
	si.Placeholder = "search developers by name"
	si.Prompt = "Search: "
	si.PromptStyle = s.Header
	si.CharLimit = 64

	return dashboardModel{
		store:  store,
		log:    log,
		styles: s,
		layout: cfg.Layout,
		export: cfg.Export,
		search: si,
		filter: roster.FilterAll,
		now:    time.Now(),
	}
}

// Due dates are calendar dates, so refreshing once a minute is plenty.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m dashboardModel) Init() tea.Cmd {
	return tickCmd()
}

// capturingInput reports whether keystrokes belong to the search box.
func (m dashboardModel) capturingInput() bool {
	return m.searching
}

func (m *dashboardModel) notify(text string, style lipgloss.Style) {
	m.notifications = append(m.notifications, notification{
		text:  text,
		time:  time.Now(),
		style: style,
	})
	if len(m.notifications) > maxNotifications {
		m.notifications = m.notifications[len(m.notifications)-maxNotifications:]
	}
}

func (m dashboardModel) visible() []roster.Developer {
	return roster.FilterDevelopers(m.store.Snapshot(), m.search.Value(), m.filter)
}

func (m dashboardModel) selected() (roster.Developer, bool) {
	devs := m.visible()
	if m.cursor < 0 || m.cursor >= len(devs) {
		return roster.Developer{}, false
	}
	return devs[m.cursor], true
}

func (m *dashboardModel) clamp() {
	n := len(m.visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	tasks := m.tasks()
	if m.taskCursor >= len(tasks) {
		m.taskCursor = len(tasks) - 1
	}
	if m.taskCursor < 0 {
		m.taskCursor = 0
	}
}

// selectDeveloper moves the cursor to id, clearing search and filter if
// they hide it.
func (m *dashboardModel) selectDeveloper(id string) {
	for i, d := range m.visible() {
		if d.ID == id {
			m.cursor = i
			m.clamp()
			return
		}
	}
	m.search.SetValue("")
	m.filter = roster.FilterAll
	for i, d := range m.visible() {
		if d.ID == id {
			m.cursor = i
			break
		}
	}
	m.clamp()
}

// tasks lists the selected developer's tasks, each project's current task
// ahead of its queue.
func (m dashboardModel) tasks() []taskRef {
	d, ok := m.selected()
	if !ok {
		return nil
	}
	var refs []taskRef
	for _, p := range d.Projects {
		if p.CurrentTask != nil {
			refs = append(refs, taskRef{projectID: p.ID, projectName: p.Name, task: *p.CurrentTask, current: true})
		}
		for _, t := range p.PendingTasks {
			refs = append(refs, taskRef{projectID: p.ID, projectName: p.Name, task: t})
		}
	}
	return refs
}

func (m dashboardModel) Update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.now = time.Time(msg)
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.err = msg.err.Error()
			return m, nil
		}
		m.notify(fmt.Sprintf("Exported %d rows to %s", msg.rows, msg.path), m.styles.Notification)
		return m, nil

	case tea.KeyMsg:
		m.err = ""
		if m.searching {
			return m.updateSearch(msg)
		}

		switch msg.String() {
		case "tab":
			m.tab = (m.tab + 1) % tab(len(tabNames))
			m.focus = focusList
		case "shift+tab":
			m.tab = (m.tab + tab(len(tabNames)) - 1) % tab(len(tabNames))
			m.focus = focusList
		case "e":
			return m, m.exportCmd()
		}

		if m.tab != tabDashboard {
			return m, nil
		}
		if m.focus == focusDetail {
			return m.updateDetail(msg)
		}
		return m.updateList(msg)
	}

	return m, nil
}

func (m dashboardModel) updateSearch(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.search.Blur()
		return m, nil
	case "esc":
		m.searching = false
		m.search.Blur()
		m.search.SetValue("")
		m.clamp()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.cursor = 0
	m.clamp()
	return m, cmd
}

func (m dashboardModel) updateList(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	devs := m.visible()

	switch msg.String() {
	case "/":
		m.searching = true
		cmd := m.search.Focus()
		return m, cmd
	case "f":
		m.filter = m.filter.Next()
		m.cursor = 0
		m.clamp()
	case "j", "down":
		if m.cursor < len(devs)-1 {
			m.cursor++
		}
		m.taskCursor = 0
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
		m.taskCursor = 0
	case "enter":
		if len(devs) > 0 {
			m.focus = focusDetail
			m.taskCursor = 0
		}
	case "esc":
		if m.search.Value() != "" {
			m.search.SetValue("")
			m.clamp()
		}
	}
	return m, nil
}

func (m dashboardModel) updateDetail(msg tea.KeyMsg) (dashboardModel, tea.Cmd) {
	tasks := m.tasks()

	switch msg.String() {
	case "esc":
		m.focus = focusList
	case "j", "down":
		if m.taskCursor < len(tasks)-1 {
			m.taskCursor++
		}
	case "k", "up":
		if m.taskCursor > 0 {
			m.taskCursor--
		}
	case "s":
		if m.taskCursor >= len(tasks) {
			return m, nil
		}
		ref := tasks[m.taskCursor]
		if ref.current {
			m.err = fmt.Sprintf("%q is already in progress", ref.task.Name)
			return m, nil
		}
		d, _ := m.selected()
		if err := m.store.StartTask(d.ID, ref.projectID, ref.task.ID); err != nil {
			m.err = err.Error()
			return m, nil
		}
		m.notify(fmt.Sprintf("%s started %q on %s", d.Name, ref.task.Name, ref.projectName), m.styles.Busy)
		m.selectTask(ref.task.ID)
	case "c":
		if m.taskCursor >= len(tasks) {
			return m, nil
		}
		ref := tasks[m.taskCursor]
		d, _ := m.selected()
		if err := m.store.CompleteTask(d.ID, ref.projectID, ref.task.ID, ref.current); err != nil {
			m.err = err.Error()
			return m, nil
		}
		m.notify(fmt.Sprintf("%s completed %q on %s", d.Name, ref.task.Name, ref.projectName), m.styles.Available)
		// The developer may no longer pass the filter once idle.
		m.selectDeveloper(d.ID)
		m.clamp()
	}
	return m, nil
}

func (m *dashboardModel) selectTask(id string) {
	for i, ref := range m.tasks() {
		if ref.task.ID == id {
			m.taskCursor = i
			return
		}
	}
	m.clamp()
}

func (m dashboardModel) exportCmd() tea.Cmd {
	snapshot := m.store.Snapshot()
	cfg := m.export
	log := m.log
	return func() tea.Msg {
		a, err := export.Build(snapshot, cfg.DateFormat)
		if err != nil {
			return exportDoneMsg{err: err}
		}
		path, err := a.Save(cfg.Dir)
		if err != nil {
			log.Warn("export failed", zap.Error(err))
			return exportDoneMsg{err: err}
		}
		rows := len(export.Rows(snapshot))
		log.Info("export written", zap.String("path", path), zap.Int("rows", rows))
		return exportDoneMsg{path: path, rows: rows}
	}
}

func (m dashboardModel) contentWidth() int {
	maxWidth := m.width - 4
	if maxWidth < 40 {
		maxWidth = 80
	}
	return maxWidth
}

func (m dashboardModel) ViewContent() string {
	var b strings.Builder

	b.WriteString(m.styles.Logo.Render(renderLogo(m.contentWidth())))
	b.WriteString("\n\n")
	b.WriteString(m.viewTabs())
	b.WriteString("\n\n")

	r := m.store.Snapshot()
	switch m.tab {
	case tabDevelopers:
		b.WriteString(m.viewDevelopersTable(r))
	case tabProjects:
		b.WriteString(m.viewProjectsTable(r))
	default:
		b.WriteString(m.viewStats(r))
		b.WriteString("\n\n")
		b.WriteString(m.viewBrowser())
	}

	// Notifications (newest first)
	if len(m.notifications) > 0 {
		b.WriteString("\n\n")
		b.WriteString(m.styles.Header.Render("  ── Notifications ──"))
		b.WriteString("\n")
		for i := len(m.notifications) - 1; i >= 0; i-- {
			n := m.notifications[i]
			line := fmt.Sprintf("  %s %s", n.time.Format("15:04"), n.text)
			b.WriteString(n.style.Render(line))
			b.WriteString("\n")
		}
	}

	if m.err != "" {
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render("  Error: " + m.err))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render(m.helpLine()))

	return b.String()
}

func (m dashboardModel) View() string {
	return m.styles.Border.Width(m.contentWidth()).Render(m.ViewContent())
}

func (m dashboardModel) helpLine() string {
	switch {
	case m.searching:
		return "  type to search │ enter: keep │ esc: clear"
	case m.tab != tabDashboard:
		return "  tab: switch view │ n: new developer │ e: export csv │ q: quit"
	case m.focus == focusDetail:
		return "  j/k: move │ s: start task │ c: complete task │ p: add project │ t: add task │ esc: back"
	default:
		return fmt.Sprintf("  /: search │ f: filter (%s) │ enter: tasks │ n: new developer │ p: add project │ t: add task │ e: export csv │ tab: switch view │ q: quit", m.filter)
	}
}

func (m dashboardModel) viewTabs() string {
	parts := make([]string, len(tabNames))
	for i, name := range tabNames {
		if tab(i) == m.tab {
			parts[i] = m.styles.TabActive.Render(name)
		} else {
			parts[i] = m.styles.TabInactive.Render(name)
		}
	}
	return "  " + strings.Join(parts, m.styles.Separator.Render("│"))
}

func (m dashboardModel) viewStats(r roster.Roster) string {
	s := roster.ComputeStats(r)
	card := func(title, value, detail string) string {
		return m.styles.Card.Render(
			m.styles.Header.Render(title) + "\n" +
				m.styles.Title.Render(value) + "\n" +
				m.styles.WizardDim.Render(detail),
		)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		"  ",
		card("Developers", fmt.Sprint(s.TotalDevelopers), fmt.Sprintf("%d available", s.Available)),
		" ",
		card("Busy", fmt.Sprint(s.Busy), fmt.Sprintf("of %d developers", s.TotalDevelopers)),
		" ",
		card("Projects", fmt.Sprint(s.TotalProjects), fmt.Sprintf("across %d developers", s.DevelopersWithProjects)),
		" ",
		card("Tasks", fmt.Sprint(s.TotalTasks), fmt.Sprintf("%d in progress, %d pending", s.InProgressTasks, s.PendingTasks())),
	)
}

// viewBrowser renders the developer list beside the selected developer.
func (m dashboardModel) viewBrowser() string {
	width := m.contentWidth()
	listWidth := width * m.layout.ListWidth / 100
	if listWidth < 24 {
		listWidth = 24
	}
	detailWidth := max(width-listWidth-3, 20)

	list := lipgloss.NewStyle().Width(listWidth).Render(m.viewList(listWidth))
	detail := lipgloss.NewStyle().Width(detailWidth).Render(m.viewDetail())

	sepLines := make([]string, max(lipgloss.Height(list), lipgloss.Height(detail)))
	for i := range sepLines {
		sepLines[i] = "│"
	}
	sep := m.styles.Separator.Render(strings.Join(sepLines, "\n"))

	return lipgloss.JoinHorizontal(lipgloss.Top, list, " ", sep, " ", detail)
}

func (m dashboardModel) viewList(width int) string {
	var b strings.Builder

	if m.searching || m.search.Value() != "" {
		b.WriteString("  " + m.search.View())
	} else {
		b.WriteString(m.styles.WizardDim.Render("  / to search"))
	}
	b.WriteString("\n")

	devs := m.visible()
	noun := "developers"
	if len(devs) == 1 {
		noun = "developer"
	}
	b.WriteString(m.styles.WizardDim.Render(fmt.Sprintf("  %d %s found · filter: %s", len(devs), noun, m.filter)))
	b.WriteString("\n\n")

	if len(devs) == 0 {
		b.WriteString(m.styles.WizardDim.Render("  No developers match. Press n to add one."))
		b.WriteString("\n")
		return b.String()
	}

	nameWidth := max(width-16, 8)
	for i, d := range devs {
		status := m.styles.availability(d.Availability)
		if w := lipgloss.Width(status); w < 9 {
			status += strings.Repeat(" ", 9-w)
		}
		row := fmt.Sprintf("  %-*s %s", nameWidth, truncate(d.Name, nameWidth), status)
		if i == m.cursor {
			if m.focus == focusList {
				row = m.styles.Selected.Render(row)
			} else {
				row = m.styles.HelpActive.Render(row)
			}
		}
		b.WriteString(row)
		b.WriteString("\n")
		b.WriteString(m.styles.WizardDim.Render("    " + truncate(d.Role, nameWidth)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m dashboardModel) viewDetail() string {
	d, ok := m.selected()
	if !ok {
		return m.styles.WizardDim.Render("Select a developer to see their tasks.")
	}

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(d.Name))
	b.WriteString(" ")
	b.WriteString(m.styles.availability(d.Availability))
	b.WriteString("\n")
	b.WriteString(m.styles.WizardDim.Render(" " + d.Role))
	b.WriteString("\n\n")

	if len(d.Projects) == 0 {
		b.WriteString(m.styles.WizardDim.Render(" No projects assigned. Press p to add one."))
		return b.String()
	}

	idx := 0
	for _, p := range d.Projects {
		b.WriteString(m.styles.Header.Render(" " + p.Name))
		b.WriteString("\n")

		if p.CurrentTask != nil {
			t := *p.CurrentTask
			b.WriteString(m.taskLine(idx, "▶", t))
			b.WriteString("\n")
			b.WriteString("     " + m.progressBar(t.DueDate))
			b.WriteString("\n")
			idx++
		} else {
			b.WriteString(m.styles.WizardDim.Render("   no task in progress"))
			b.WriteString("\n")
		}

		for _, t := range p.PendingTasks {
			b.WriteString(m.taskLine(idx, "·", t))
			b.WriteString("\n")
			idx++
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m dashboardModel) taskLine(idx int, marker string, t roster.Task) string {
	line := fmt.Sprintf("   %s %s %s %s", marker, t.Name, m.styles.taskType(t.Type), m.dueLabel(t.DueDate))
	if m.focus == focusDetail && idx == m.taskCursor {
		return m.styles.Selected.Render(line)
	}
	return line
}

func (m dashboardModel) dueLabel(due time.Time) string {
	days := roster.DaysRemaining(due, m.now)
	date := formatDate(due)
	switch {
	case days < 0:
		return m.styles.Overdue.Render(fmt.Sprintf("%s (%d days overdue)", date, -days))
	case days == 0:
		return m.styles.Overdue.Render(date + " (due today)")
	case days == 1:
		return m.styles.WizardDim.Render(date + " (1 day left)")
	default:
		return m.styles.WizardDim.Render(fmt.Sprintf("%s (%d days left)", date, days))
	}
}

func (m dashboardModel) progressBar(due time.Time) string {
	const cells = 20
	pct := roster.Progress(due, m.now)
	filled := pct * cells / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", cells-filled)
	style := m.styles.Available
	if pct >= 100 {
		style = m.styles.Overdue
	}
	return style.Render(bar) + fmt.Sprintf(" %d%%", pct)
}

func (m dashboardModel) viewDevelopersTable(r roster.Roster) string {
	var b strings.Builder
	if len(r.Developers) == 0 {
		b.WriteString(m.styles.WizardDim.Render("  No developers yet. Press n to add one."))
		b.WriteString("\n")
		return b.String()
	}

	header := fmt.Sprintf("  %-20s %-22s %-10s %-8s %s", "Name", "Role", "Status", "Projects", "Current Task")
	b.WriteString(m.styles.Header.Render(header))
	b.WriteString("\n")
	for _, d := range r.Developers {
		status := m.styles.availability(d.Availability)
		if w := lipgloss.Width(status); w < 10 {
			status += strings.Repeat(" ", 10-w)
		}
		current := "-"
		if t, ok := d.FirstCurrentTask(); ok {
			current = t.Name
		}
		b.WriteString(fmt.Sprintf("  %-20s %-22s %s %-8d %s",
			truncate(d.Name, 20),
			truncate(d.Role, 22),
			status,
			len(d.Projects),
			truncate(current, 36),
		))
		b.WriteString("\n")
	}
	return b.String()
}

func (m dashboardModel) viewProjectsTable(r roster.Roster) string {
	var b strings.Builder
	summaries := roster.ProjectSummaries(r)
	if len(summaries) == 0 {
		b.WriteString(m.styles.WizardDim.Render("  No projects yet. Press p on a developer to add one."))
		b.WriteString("\n")
		return b.String()
	}

	header := fmt.Sprintf("  %-22s %-18s %-32s %-14s %s", "Project", "Developer", "Current Task", "Due Date", "Pending")
	b.WriteString(m.styles.Header.Render(header))
	b.WriteString("\n")
	for _, s := range summaries {
		task, due := "-", "-"
		if t := s.Project.CurrentTask; t != nil {
			task = t.Name
			due = formatDate(t.DueDate)
		}
		b.WriteString(fmt.Sprintf("  %-22s %-18s %-32s %-14s %d",
			truncate(s.Project.Name, 22),
			truncate(s.DeveloperName, 18),
			truncate(task, 32),
			due,
			len(s.Project.PendingTasks),
		))
		b.WriteString("\n")
	}
	return b.String()
}

func formatDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

func truncate(s string, max int) string {
	if lipgloss.Width(s) <= max {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
