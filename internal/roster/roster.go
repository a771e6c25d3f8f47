package roster

import (
	"strings"

	"github.com/google/uuid"
)

// Roster is the root aggregate: developers in insertion order.
//
// Every operation is a value-receiver method returning a new Roster. The
// receiver is never modified; unchanged developers, projects and task
// slices are shared between snapshots, so callers must treat the slices
// they read as immutable.
type Roster struct {
	Developers []Developer
}

// NewID assigns identifiers to new developers, projects and tasks.
var NewID = uuid.NewString

func (r Roster) Developer(id string) (Developer, bool) {
	if i := r.developerIndex(id); i >= 0 {
		return r.Developers[i], true
	}
	return Developer{}, false
}

func (r Roster) developerIndex(id string) int {
	for i, d := range r.Developers {
		if d.ID == id {
			return i
		}
	}
	return -1
}

// AddDeveloper appends an available developer with no projects.
func (r Roster) AddDeveloper(name, role string) (Roster, error) {
	name, role = strings.TrimSpace(name), strings.TrimSpace(role)
	if err := required("name", name); err != nil {
		return r, err
	}
	if err := required("role", role); err != nil {
		return r, err
	}

	devs := make([]Developer, len(r.Developers), len(r.Developers)+1)
	copy(devs, r.Developers)
	devs = append(devs, Developer{
		ID:           NewID(),
		Name:         name,
		Role:         role,
		Availability: Available,
	})
	return Roster{Developers: devs}, nil
}

// AddProject appends an empty project to the developer's project list.
// Availability is recomputed, so a developer whose projects are all empty
// stays available.
func (r Roster) AddProject(developerID, name string) (Roster, error) {
	name = strings.TrimSpace(name)
	if err := required("project name", name); err != nil {
		return r, err
	}
	di := r.developerIndex(developerID)
	if di < 0 {
		return r, &NotFoundError{Kind: "developer", ID: developerID}
	}

	return r.updateDeveloper(di, func(d *Developer) {
		projects := make([]Project, len(d.Projects), len(d.Projects)+1)
		copy(projects, d.Projects)
		d.Projects = append(projects, Project{ID: NewID(), Name: name})
	}), nil
}

// AddTask adds a task to a project. An in-progress task becomes the current
// task and demotes any existing current task to the end of the pending
// queue; a pending task is appended to the queue. The task's ID is always
// freshly assigned.
func (r Roster) AddTask(developerID, projectID string, task Task) (Roster, error) {
	if err := validateTask(&task); err != nil {
		return r, err
	}
	di, pi, err := r.locate(developerID, projectID)
	if err != nil {
		return r, err
	}
	task.ID = NewID()

	return r.updateProject(di, pi, func(p *Project) {
		if task.Status == StatusInProgress {
			p.PendingTasks = demote(p.PendingTasks, p.CurrentTask)
			p.CurrentTask = &task
			return
		}
		p.PendingTasks = appendTask(p.PendingTasks, task)
	}), nil
}

// StartTask promotes a pending task to current. An existing current task is
// demoted to the end of the remaining queue. An unknown task id is a no-op.
func (r Roster) StartTask(developerID, projectID, taskID string) (Roster, error) {
	di, pi, err := r.locate(developerID, projectID)
	if err != nil {
		return r, err
	}
	p := r.Developers[di].Projects[pi]
	ti := p.pendingIndex(taskID)
	if ti < 0 {
		return r, nil
	}

	return r.updateProject(di, pi, func(p *Project) {
		started := p.PendingTasks[ti]
		started.Status = StatusInProgress

		remaining := make([]Task, 0, len(p.PendingTasks))
		remaining = append(remaining, p.PendingTasks[:ti]...)
		remaining = append(remaining, p.PendingTasks[ti+1:]...)

		p.PendingTasks = demote(remaining, p.CurrentTask)
		p.CurrentTask = &started
	}), nil
}

// CompleteTask discards a task. With isCurrent set and a matching current
// task, the current slot is cleared; otherwise the pending task with that
// id is removed. An unknown task id is a no-op.
func (r Roster) CompleteTask(developerID, projectID, taskID string, isCurrent bool) (Roster, error) {
	di, pi, err := r.locate(developerID, projectID)
	if err != nil {
		return r, err
	}
	p := r.Developers[di].Projects[pi]

	if isCurrent && p.CurrentTask != nil && p.CurrentTask.ID == taskID {
		return r.updateProject(di, pi, func(p *Project) {
			p.CurrentTask = nil
		}), nil
	}

	ti := p.pendingIndex(taskID)
	if ti < 0 {
		return r, nil
	}
	return r.updateProject(di, pi, func(p *Project) {
		remaining := make([]Task, 0, len(p.PendingTasks)-1)
		remaining = append(remaining, p.PendingTasks[:ti]...)
		p.PendingTasks = append(remaining, p.PendingTasks[ti+1:]...)
	}), nil
}

func (r Roster) locate(developerID, projectID string) (int, int, error) {
	di := r.developerIndex(developerID)
	if di < 0 {
		return -1, -1, &NotFoundError{Kind: "developer", ID: developerID}
	}
	for pi, p := range r.Developers[di].Projects {
		if p.ID == projectID {
			return di, pi, nil
		}
	}
	return -1, -1, &NotFoundError{Kind: "project", ID: projectID}
}

// updateDeveloper copies the developer slice and the developer at di, lets
// fn edit the copy, then recomputes availability.
func (r Roster) updateDeveloper(di int, fn func(d *Developer)) Roster {
	devs := make([]Developer, len(r.Developers))
	copy(devs, r.Developers)
	d := devs[di]
	fn(&d)
	d.Availability = d.derivedAvailability()
	devs[di] = d
	return Roster{Developers: devs}
}

func (r Roster) updateProject(di, pi int, fn func(p *Project)) Roster {
	return r.updateDeveloper(di, func(d *Developer) {
		projects := make([]Project, len(d.Projects))
		copy(projects, d.Projects)
		p := projects[pi]
		fn(&p)
		projects[pi] = p
		d.Projects = projects
	})
}

func validateTask(t *Task) error {
	t.Name = strings.TrimSpace(t.Name)
	if err := required("task name", t.Name); err != nil {
		return err
	}
	if !t.Type.Valid() {
		return &ValidationError{Field: "task type", Reason: "must be frontend or backend"}
	}
	if t.DueDate.IsZero() {
		return &ValidationError{Field: "due date", Reason: "is required"}
	}
	if t.Status != StatusPending && t.Status != StatusInProgress {
		return &ValidationError{Field: "task status", Reason: "must be pending or in-progress"}
	}
	return nil
}

// demote appends the current task (if any) to a fresh copy of pending with
// its status forced to pending.
func demote(pending []Task, current *Task) []Task {
	if current == nil {
		return pending
	}
	t := *current
	t.Status = StatusPending
	return appendTask(pending, t)
}

func appendTask(tasks []Task, t Task) []Task {
	out := make([]Task, len(tasks), len(tasks)+1)
	copy(out, tasks)
	return append(out, t)
}
