package roster

import "time"

type Availability string

const (
	Available Availability = "available"
	Busy      Availability = "busy"
)

// Label returns the capitalized form shown in tables and exports.
func (a Availability) Label() string {
	switch a {
	case Available:
		return "Available"
	case Busy:
		return "Busy"
	default:
		return string(a)
	}
}

type TaskType string

const (
	Frontend TaskType = "frontend"
	Backend  TaskType = "backend"
)

func (t TaskType) Valid() bool {
	return t == Frontend || t == Backend
}

type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in-progress"
	// StatusCompleted is never produced: completing a task removes it.
	StatusCompleted TaskStatus = "completed"
)

type Task struct {
	ID      string
	Name    string
	Type    TaskType
	DueDate time.Time
	Status  TaskStatus
}

// Project holds at most one current task (always in-progress) and an
// ordered queue of pending tasks (always pending).
type Project struct {
	ID           string
	Name         string
	CurrentTask  *Task
	PendingTasks []Task
}

// Active reports whether the project has a current task or anything queued.
func (p Project) Active() bool {
	return p.CurrentTask != nil || len(p.PendingTasks) > 0
}

// TaskCount counts the current task plus every pending task.
func (p Project) TaskCount() int {
	n := len(p.PendingTasks)
	if p.CurrentTask != nil {
		n++
	}
	return n
}

func (p Project) pendingIndex(taskID string) int {
	for i, t := range p.PendingTasks {
		if t.ID == taskID {
			return i
		}
	}
	return -1
}

type Developer struct {
	ID           string
	Name         string
	Role         string
	Availability Availability
	Projects     []Project
}

// derivedAvailability is busy iff some project is active.
func (d Developer) derivedAvailability() Availability {
	for _, p := range d.Projects {
		if p.Active() {
			return Busy
		}
	}
	return Available
}

// FirstCurrentTask returns the current task of the first project that has one.
func (d Developer) FirstCurrentTask() (Task, bool) {
	for _, p := range d.Projects {
		if p.CurrentTask != nil {
			return *p.CurrentTask, true
		}
	}
	return Task{}, false
}

func (d Developer) Project(id string) (Project, bool) {
	for _, p := range d.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return Project{}, false
}
