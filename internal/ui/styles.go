package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/simonbystrom/devtracker/internal/config"
	"github.com/simonbystrom/devtracker/internal/roster"
)

// Styles holds every lipgloss style used by the UI, built from the
// configured palette.
type Styles struct {
	Title        lipgloss.Style
	Header       lipgloss.Style
	Selected     lipgloss.Style
	Available    lipgloss.Style
	Busy         lipgloss.Style
	Frontend     lipgloss.Style
	Backend      lipgloss.Style
	Overdue      lipgloss.Style
	Notification lipgloss.Style
	Help         lipgloss.Style
	HelpActive   lipgloss.Style
	Border       lipgloss.Style
	Separator    lipgloss.Style
	TabActive    lipgloss.Style
	TabInactive  lipgloss.Style
	Card         lipgloss.Style
	WizardTitle  lipgloss.Style
	WizardActive lipgloss.Style
	WizardDim    lipgloss.Style
	Error        lipgloss.Style
	Logo         lipgloss.Style
}

func NewStyles(c config.Colors) Styles {
	color := func(v string) lipgloss.Color { return lipgloss.Color(v) }

	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(color(c.Title)).
			Padding(0, 1),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(color(c.Header)),
		Selected: lipgloss.NewStyle().
			Background(color(c.SelectedBG)).
			Foreground(color(c.SelectedFG)),
		Available: lipgloss.NewStyle().
			Foreground(color(c.Available)).
			Bold(true),
		Busy: lipgloss.NewStyle().
			Foreground(color(c.Busy)).
			Bold(true),
		Frontend: lipgloss.NewStyle().
			Foreground(color(c.Frontend)),
		Backend: lipgloss.NewStyle().
			Foreground(color(c.Backend)),
		Overdue: lipgloss.NewStyle().
			Foreground(color(c.Overdue)).
			Bold(true),
		Notification: lipgloss.NewStyle().
			Foreground(color(c.Notification)).
			Italic(true),
		Help: lipgloss.NewStyle().
			Foreground(color(c.Help)),
		HelpActive: lipgloss.NewStyle().
			Foreground(color(c.HelpActive)),
		Border: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(color(c.Border)).
			Padding(1, 2),
		Separator: lipgloss.NewStyle().
			Foreground(color(c.Separator)),
		TabActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(color(c.TabActive)).
			Underline(true).
			Padding(0, 1),
		TabInactive: lipgloss.NewStyle().
			Foreground(color(c.TabInactive)).
			Padding(0, 1),
		Card: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(color(c.Border)).
			Padding(0, 1),
		WizardTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(color(c.WizardTitle)).
			MarginBottom(1),
		WizardActive: lipgloss.NewStyle().
			Foreground(color(c.WizardActive)),
		WizardDim: lipgloss.NewStyle().
			Foreground(color(c.WizardDim)),
		Error: lipgloss.NewStyle().
			Foreground(color(c.Error)).
			Bold(true),
		Logo: lipgloss.NewStyle().
			Foreground(color(c.Logo)).
			Bold(true),
	}
}

func (s Styles) availability(a roster.Availability) string {
	if a == roster.Available {
		return s.Available.Render(a.Label())
	}
	return s.Busy.Render(a.Label())
}

func (s Styles) taskType(t roster.TaskType) string {
	if t == roster.Frontend {
		return s.Frontend.Render(string(t))
	}
	return s.Backend.Render(string(t))
}
