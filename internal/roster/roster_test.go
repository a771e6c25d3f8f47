package roster

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequentialIDs swaps NewID for a counter so tests can predict ids.
func sequentialIDs(t *testing.T) {
	t.Helper()
	orig := NewID
	n := 0
	NewID = func() string {
		n++
		return fmt.Sprintf("id%d", n)
	}
	t.Cleanup(func() { NewID = orig })
}

func date(s string) time.Time {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func newTask(name string, status TaskStatus) Task {
	return Task{Name: name, Type: Backend, DueDate: date("2025-05-01"), Status: status}
}

// devWithProject returns a roster holding one developer with one empty project.
func devWithProject(t *testing.T) (Roster, string, string) {
	t.Helper()
	r, err := Roster{}.AddDeveloper("Ann", "Backend Developer")
	require.NoError(t, err)
	devID := r.Developers[0].ID
	r, err = r.AddProject(devID, "Shop")
	require.NoError(t, err)
	return r, devID, r.Developers[0].Projects[0].ID
}

func project(t *testing.T, r Roster, devID, projID string) Project {
	t.Helper()
	d, ok := r.Developer(devID)
	require.True(t, ok)
	p, ok := d.Project(projID)
	require.True(t, ok)
	return p
}

func pendingNames(p Project) []string {
	names := make([]string, len(p.PendingTasks))
	for i, t := range p.PendingTasks {
		names[i] = t.Name
	}
	return names
}

func TestAddDeveloper_NewDeveloperIsAvailable(t *testing.T) {
	r, err := Roster{}.AddDeveloper("Ann", "Backend Developer")
	require.NoError(t, err)
	require.Len(t, r.Developers, 1)

	d := r.Developers[0]
	assert.NotEmpty(t, d.ID)
	assert.Equal(t, "Ann", d.Name)
	assert.Equal(t, "Backend Developer", d.Role)
	assert.Equal(t, Available, d.Availability)
	assert.Empty(t, d.Projects)
}

func TestAddDeveloper_AppendsInOrder(t *testing.T) {
	sequentialIDs(t)
	r, err := Roster{}.AddDeveloper("Ann", "Dev")
	require.NoError(t, err)
	r, err = r.AddDeveloper("Bob", "Dev")
	require.NoError(t, err)

	require.Len(t, r.Developers, 2)
	assert.Equal(t, "Ann", r.Developers[0].Name)
	assert.Equal(t, "Bob", r.Developers[1].Name)
	assert.NotEqual(t, r.Developers[0].ID, r.Developers[1].ID)
}

func TestAddDeveloper_Validation(t *testing.T) {
	tests := []struct {
		name, devName, role, field string
	}{
		{"empty name", "", "Dev", "name"},
		{"blank name", "   ", "Dev", "name"},
		{"empty role", "Ann", "", "role"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := Roster{}
			r, err := orig.AddDeveloper(tt.devName, tt.role)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
			assert.Empty(t, r.Developers)
		})
	}
}

func TestAddProject_EmptyProjectKeepsDeveloperAvailable(t *testing.T) {
	r, devID, projID := devWithProject(t)

	d, _ := r.Developer(devID)
	require.Len(t, d.Projects, 1)
	assert.Equal(t, "Shop", d.Projects[0].Name)
	assert.Nil(t, d.Projects[0].CurrentTask)
	assert.Empty(t, d.Projects[0].PendingTasks)
	assert.NotEmpty(t, projID)
	assert.Equal(t, Available, d.Availability)
}

func TestAddProject_Errors(t *testing.T) {
	r, devID, _ := devWithProject(t)

	_, err := r.AddProject("missing", "X")
	assert.ErrorIs(t, err, ErrNotFound)
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "developer", nf.Kind)
	assert.Equal(t, "missing", nf.ID)

	_, err = r.AddProject(devID, "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAddTask_InProgressBecomesCurrent(t *testing.T) {
	r, devID, projID := devWithProject(t)

	r, err := r.AddTask(devID, projID, Task{
		Name:    "Build API",
		Type:    Backend,
		DueDate: date("2025-05-01"),
		Status:  StatusInProgress,
	})
	require.NoError(t, err)

	p := project(t, r, devID, projID)
	require.NotNil(t, p.CurrentTask)
	assert.Equal(t, "Build API", p.CurrentTask.Name)
	assert.Equal(t, StatusInProgress, p.CurrentTask.Status)
	assert.NotEmpty(t, p.CurrentTask.ID)

	d, _ := r.Developer(devID)
	assert.Equal(t, Busy, d.Availability)
}

func TestAddTask_InProgressDemotesExistingCurrent(t *testing.T) {
	r, devID, projID := devWithProject(t)
	r, err := r.AddTask(devID, projID, newTask("P1", StatusPending))
	require.NoError(t, err)
	r, err = r.AddTask(devID, projID, newTask("T1", StatusInProgress))
	require.NoError(t, err)
	r, err = r.AddTask(devID, projID, newTask("T2", StatusInProgress))
	require.NoError(t, err)

	p := project(t, r, devID, projID)
	assert.Equal(t, "T2", p.CurrentTask.Name)
	assert.Equal(t, []string{"P1", "T1"}, pendingNames(p))
	assert.Equal(t, StatusPending, p.PendingTasks[1].Status)
}

func TestAddTask_PendingAppends(t *testing.T) {
	r, devID, projID := devWithProject(t)
	for _, name := range []string{"A", "B", "C"} {
		var err error
		r, err = r.AddTask(devID, projID, newTask(name, StatusPending))
		require.NoError(t, err)
	}

	p := project(t, r, devID, projID)
	assert.Nil(t, p.CurrentTask)
	assert.Equal(t, []string{"A", "B", "C"}, pendingNames(p))
	d, _ := r.Developer(devID)
	assert.Equal(t, Busy, d.Availability)
}

func TestAddTask_AssignsFreshID(t *testing.T) {
	r, devID, projID := devWithProject(t)
	task := newTask("A", StatusPending)
	task.ID = "caller-chosen"

	r, err := r.AddTask(devID, projID, task)
	require.NoError(t, err)
	p := project(t, r, devID, projID)
	assert.NotEqual(t, "caller-chosen", p.PendingTasks[0].ID)
}

func TestAddTask_Validation(t *testing.T) {
	r, devID, projID := devWithProject(t)
	tests := []struct {
		name  string
		task  Task
		field string
	}{
		{"empty name", Task{Type: Backend, DueDate: date("2025-05-01"), Status: StatusPending}, "task name"},
		{"bad type", Task{Name: "x", Type: "mobile", DueDate: date("2025-05-01"), Status: StatusPending}, "task type"},
		{"no due date", Task{Name: "x", Type: Frontend, Status: StatusPending}, "due date"},
		{"completed status", Task{Name: "x", Type: Frontend, DueDate: date("2025-05-01"), Status: StatusCompleted}, "task status"},
		{"empty status", Task{Name: "x", Type: Frontend, DueDate: date("2025-05-01")}, "task status"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.AddTask(devID, projID, tt.task)
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestAddTask_NotFound(t *testing.T) {
	r, devID, _ := devWithProject(t)

	_, err := r.AddTask("nope", "x", newTask("A", StatusPending))
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = r.AddTask(devID, "nope", newTask("A", StatusPending))
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "project", nf.Kind)
}

func TestStartTask_DemotesCurrentToEnd(t *testing.T) {
	r, devID, projID := devWithProject(t)
	r, _ = r.AddTask(devID, projID, newTask("T1", StatusInProgress))
	r, _ = r.AddTask(devID, projID, newTask("T2", StatusPending))
	t2 := project(t, r, devID, projID).PendingTasks[0]

	r, err := r.StartTask(devID, projID, t2.ID)
	require.NoError(t, err)

	p := project(t, r, devID, projID)
	require.NotNil(t, p.CurrentTask)
	assert.Equal(t, "T2", p.CurrentTask.Name)
	assert.Equal(t, t2.ID, p.CurrentTask.ID)
	assert.Equal(t, StatusInProgress, p.CurrentTask.Status)
	require.Len(t, p.PendingTasks, 1)
	assert.Equal(t, "T1", p.PendingTasks[0].Name)
	assert.Equal(t, StatusPending, p.PendingTasks[0].Status)
}

func TestStartTask_PreservesPendingOrder(t *testing.T) {
	r, devID, projID := devWithProject(t)
	r, _ = r.AddTask(devID, projID, newTask("CUR", StatusInProgress))
	for _, n := range []string{"A", "B", "C"} {
		r, _ = r.AddTask(devID, projID, newTask(n, StatusPending))
	}
	b := project(t, r, devID, projID).PendingTasks[1]

	r, err := r.StartTask(devID, projID, b.ID)
	require.NoError(t, err)

	p := project(t, r, devID, projID)
	assert.Equal(t, "B", p.CurrentTask.Name)
	assert.Equal(t, []string{"A", "C", "CUR"}, pendingNames(p))
}

func TestStartTask_UnknownTaskIsNoop(t *testing.T) {
	r, devID, projID := devWithProject(t)
	r, _ = r.AddTask(devID, projID, newTask("A", StatusPending))

	next, err := r.StartTask(devID, projID, "missing")
	require.NoError(t, err)
	assert.Equal(t, r, next)
}

func TestStartTask_UnknownProject(t *testing.T) {
	r, devID, _ := devWithProject(t)
	_, err := r.StartTask(devID, "missing", "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCompleteTask_CurrentFlipsAvailability(t *testing.T) {
	r, devID, projID := devWithProject(t)
	r, _ = r.AddTask(devID, projID, newTask("Only", StatusInProgress))
	cur := project(t, r, devID, projID).CurrentTask

	r, err := r.CompleteTask(devID, projID, cur.ID, true)
	require.NoError(t, err)

	p := project(t, r, devID, projID)
	assert.Nil(t, p.CurrentTask)
	d, _ := r.Developer(devID)
	assert.Equal(t, Available, d.Availability)
}

func TestCompleteTask_OtherActiveProjectKeepsBusy(t *testing.T) {
	r, devID, projID := devWithProject(t)
	r, _ = r.AddProject(devID, "Other")
	otherID := r.Developers[0].Projects[1].ID
	r, _ = r.AddTask(devID, otherID, newTask("Keep", StatusPending))
	r, _ = r.AddTask(devID, projID, newTask("Done", StatusInProgress))
	cur := project(t, r, devID, projID).CurrentTask

	r, err := r.CompleteTask(devID, projID, cur.ID, true)
	require.NoError(t, err)
	d, _ := r.Developer(devID)
	assert.Equal(t, Busy, d.Availability)
}

func TestCompleteTask_Pending(t *testing.T) {
	r, devID, projID := devWithProject(t)
	for _, n := range []string{"A", "B", "C"} {
		r, _ = r.AddTask(devID, projID, newTask(n, StatusPending))
	}
	b := project(t, r, devID, projID).PendingTasks[1]

	r, err := r.CompleteTask(devID, projID, b.ID, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "C"}, pendingNames(project(t, r, devID, projID)))
}

func TestCompleteTask_CurrentFlagWithPendingIDRemovesPending(t *testing.T) {
	r, devID, projID := devWithProject(t)
	r, _ = r.AddTask(devID, projID, newTask("CUR", StatusInProgress))
	r, _ = r.AddTask(devID, projID, newTask("P", StatusPending))
	p := project(t, r, devID, projID).PendingTasks[0]

	r, err := r.CompleteTask(devID, projID, p.ID, true)
	require.NoError(t, err)

	proj := project(t, r, devID, projID)
	assert.NotNil(t, proj.CurrentTask)
	assert.Empty(t, proj.PendingTasks)
}

func TestCompleteTask_TwiceIsNoop(t *testing.T) {
	r, devID, projID := devWithProject(t)
	r, _ = r.AddTask(devID, projID, newTask("A", StatusPending))
	r, _ = r.AddTask(devID, projID, newTask("B", StatusPending))
	a := project(t, r, devID, projID).PendingTasks[0]

	once, err := r.CompleteTask(devID, projID, a.ID, false)
	require.NoError(t, err)
	twice, err := once.CompleteTask(devID, projID, a.ID, false)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestStartThenComplete_RemovesTask(t *testing.T) {
	r, devID, projID := devWithProject(t)
	r, _ = r.AddTask(devID, projID, newTask("A", StatusPending))
	a := project(t, r, devID, projID).PendingTasks[0]

	r, err := r.StartTask(devID, projID, a.ID)
	require.NoError(t, err)
	r, err = r.CompleteTask(devID, projID, a.ID, true)
	require.NoError(t, err)

	p := project(t, r, devID, projID)
	assert.Nil(t, p.CurrentTask)
	assert.Empty(t, p.PendingTasks)
	d, _ := r.Developer(devID)
	assert.Equal(t, Available, d.Availability)
}

func TestOperations_DoNotModifyReceiver(t *testing.T) {
	r, devID, projID := devWithProject(t)
	r, _ = r.AddTask(devID, projID, newTask("CUR", StatusInProgress))
	r, _ = r.AddTask(devID, projID, newTask("A", StatusPending))
	r, _ = r.AddTask(devID, projID, newTask("B", StatusPending))
	before := project(t, r, devID, projID)
	beforeNames := pendingNames(before)
	beforeCur := *before.CurrentTask

	a := before.PendingTasks[0]
	_, err := r.StartTask(devID, projID, a.ID)
	require.NoError(t, err)
	_, err = r.CompleteTask(devID, projID, a.ID, false)
	require.NoError(t, err)
	_, err = r.AddTask(devID, projID, newTask("NEW", StatusInProgress))
	require.NoError(t, err)

	after := project(t, r, devID, projID)
	assert.Equal(t, beforeNames, pendingNames(after))
	assert.Equal(t, beforeCur, *after.CurrentTask)
	assert.Equal(t, StatusPending, after.PendingTasks[0].Status)
}

func checkInvariants(t *testing.T, r Roster) {
	t.Helper()
	seen := map[string]bool{}
	for _, d := range r.Developers {
		require.False(t, seen[d.ID], "duplicate developer id %s", d.ID)
		seen[d.ID] = true

		active := false
		for _, p := range d.Projects {
			if p.CurrentTask != nil {
				active = true
				require.Equal(t, StatusInProgress, p.CurrentTask.Status, "current task %s", p.CurrentTask.Name)
			}
			if len(p.PendingTasks) > 0 {
				active = true
			}
			for _, pt := range p.PendingTasks {
				require.Equal(t, StatusPending, pt.Status, "pending task %s", pt.Name)
				if p.CurrentTask != nil {
					require.NotEqual(t, p.CurrentTask.ID, pt.ID)
				}
			}
		}
		want := Available
		if active {
			want = Busy
		}
		require.Equal(t, want, d.Availability, "developer %s", d.Name)
	}
}

func TestInvariants_RandomWalk(t *testing.T) {
	sequentialIDs(t)
	rng := rand.New(rand.NewSource(42))
	var r Roster

	pick := func() (string, string, Project, bool) {
		if len(r.Developers) == 0 {
			return "", "", Project{}, false
		}
		d := r.Developers[rng.Intn(len(r.Developers))]
		if len(d.Projects) == 0 {
			return d.ID, "", Project{}, false
		}
		p := d.Projects[rng.Intn(len(d.Projects))]
		return d.ID, p.ID, p, true
	}

	for step := 0; step < 2000; step++ {
		var err error
		switch op := rng.Intn(6); op {
		case 0:
			r, err = r.AddDeveloper(fmt.Sprintf("dev%d", step), "Dev")
		case 1:
			if devID, _, _, _ := pick(); devID != "" {
				r, err = r.AddProject(devID, fmt.Sprintf("proj%d", step))
			}
		case 2, 3:
			if devID, projID, _, ok := pick(); ok {
				status := StatusPending
				if rng.Intn(2) == 0 {
					status = StatusInProgress
				}
				r, err = r.AddTask(devID, projID, newTask(fmt.Sprintf("task%d", step), status))
			}
		case 4:
			if devID, projID, p, ok := pick(); ok {
				id := "missing"
				if len(p.PendingTasks) > 0 {
					id = p.PendingTasks[rng.Intn(len(p.PendingTasks))].ID
				}
				r, err = r.StartTask(devID, projID, id)
			}
		case 5:
			if devID, projID, p, ok := pick(); ok {
				if p.CurrentTask != nil && rng.Intn(2) == 0 {
					r, err = r.CompleteTask(devID, projID, p.CurrentTask.ID, true)
				} else if len(p.PendingTasks) > 0 {
					r, err = r.CompleteTask(devID, projID, p.PendingTasks[0].ID, false)
				}
			}
		}
		require.NoError(t, err, "step %d", step)
		checkInvariants(t, r)
	}
}
