package roster

import (
	"fmt"
	"strings"
	"time"
)

type Filter string

const (
	FilterAll       Filter = "all"
	FilterAvailable Filter = "available"
	FilterBusy      Filter = "busy"
)

// ParseFilter accepts "all", "available" or "busy" (case-insensitive).
func ParseFilter(s string) (Filter, error) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case FilterAll, FilterAvailable, FilterBusy:
		return f, nil
	case "":
		return FilterAll, nil
	default:
		return "", fmt.Errorf("unknown availability filter %q", s)
	}
}

// Next cycles all -> available -> busy -> all.
func (f Filter) Next() Filter {
	switch f {
	case FilterAll:
		return FilterAvailable
	case FilterAvailable:
		return FilterBusy
	default:
		return FilterAll
	}
}

func (f Filter) matches(a Availability) bool {
	return f == FilterAll || f == "" || string(f) == string(a)
}

// FilterDevelopers returns developers whose name contains search
// (case-insensitive) and whose availability passes f, in roster order.
func FilterDevelopers(r Roster, search string, f Filter) []Developer {
	needle := strings.ToLower(search)
	out := make([]Developer, 0, len(r.Developers))
	for _, d := range r.Developers {
		if !strings.Contains(strings.ToLower(d.Name), needle) {
			continue
		}
		if !f.matches(d.Availability) {
			continue
		}
		out = append(out, d)
	}
	return out
}

type Stats struct {
	TotalDevelopers        int
	Available              int
	Busy                   int
	TotalProjects          int
	DevelopersWithProjects int
	TotalTasks             int
	InProgressTasks        int
}

// PendingTasks is every task that is not some project's current task.
func (s Stats) PendingTasks() int {
	return s.TotalTasks - s.InProgressTasks
}

func ComputeStats(r Roster) Stats {
	s := Stats{TotalDevelopers: len(r.Developers)}
	for _, d := range r.Developers {
		switch d.Availability {
		case Available:
			s.Available++
		case Busy:
			s.Busy++
		}
		if len(d.Projects) > 0 {
			s.DevelopersWithProjects++
		}
		s.TotalProjects += len(d.Projects)
		for _, p := range d.Projects {
			s.TotalTasks += p.TaskCount()
			if p.CurrentTask != nil {
				s.InProgressTasks++
			}
		}
	}
	return s
}

// ProjectSummary is one row of the all-projects view.
type ProjectSummary struct {
	DeveloperID   string
	DeveloperName string
	Project       Project
}

func ProjectSummaries(r Roster) []ProjectSummary {
	var out []ProjectSummary
	for _, d := range r.Developers {
		for _, p := range d.Projects {
			out = append(out, ProjectSummary{
				DeveloperID:   d.ID,
				DeveloperName: d.Name,
				Project:       p,
			})
		}
	}
	return out
}

// DaysRemaining counts calendar days from now until due. Due dates are
// calendar dates, so due's own year/month/day is compared with now's.
// Zero or negative means the task is due today or overdue.
func DaysRemaining(due, now time.Time) int {
	y, m, d := due.Date()
	dueDay := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	y, m, d = now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return int(dueDay.Sub(today).Hours() / 24)
}

// Progress maps the days remaining onto a 0-100 scale: ten or more days
// out is 0, due today or later is 100.
func Progress(due, now time.Time) int {
	p := 100 - DaysRemaining(due, now)*10
	return max(0, min(100, p))
}
