package roster

import (
	"sync"

	"go.uber.org/zap"
)

// Store holds the latest roster snapshot for the presentation layer. Each
// mutation replaces the snapshot wholesale; a failed mutation leaves it
// untouched.
type Store struct {
	mu      sync.RWMutex
	current Roster
	log     *zap.Logger
}

func NewStore(initial Roster, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{current: initial, log: log}
}

func (s *Store) Snapshot() Roster {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// apply runs op against the current snapshot under the write lock.
func (s *Store) apply(name string, op func(Roster) (Roster, error), fields ...zap.Field) (Roster, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.log.Debug("store: "+name, fields...)
	next, err := op(s.current)
	if err != nil {
		s.log.Warn("store: "+name+" failed", append(fields, zap.Error(err))...)
		return s.current, err
	}
	s.current = next
	s.log.Info("store: "+name+" done", fields...)
	return next, nil
}

// AddDeveloper returns the new developer, which is always last in the roster.
func (s *Store) AddDeveloper(name, role string) (Developer, error) {
	r, err := s.apply("add developer", func(r Roster) (Roster, error) {
		return r.AddDeveloper(name, role)
	}, zap.String("name", name), zap.String("role", role))
	if err != nil {
		return Developer{}, err
	}
	return r.Developers[len(r.Developers)-1], nil
}

// AddProject returns the new project, which is always last in the
// developer's project list.
func (s *Store) AddProject(developerID, name string) (Project, error) {
	r, err := s.apply("add project", func(r Roster) (Roster, error) {
		return r.AddProject(developerID, name)
	}, zap.String("developer_id", developerID), zap.String("name", name))
	if err != nil {
		return Project{}, err
	}
	d, _ := r.Developer(developerID)
	return d.Projects[len(d.Projects)-1], nil
}

func (s *Store) AddTask(developerID, projectID string, t Task) error {
	_, err := s.apply("add task", func(r Roster) (Roster, error) {
		return r.AddTask(developerID, projectID, t)
	}, zap.String("developer_id", developerID), zap.String("project_id", projectID),
		zap.String("name", t.Name), zap.String("status", string(t.Status)))
	return err
}

func (s *Store) StartTask(developerID, projectID, taskID string) error {
	_, err := s.apply("start task", func(r Roster) (Roster, error) {
		return r.StartTask(developerID, projectID, taskID)
	}, zap.String("developer_id", developerID), zap.String("project_id", projectID), zap.String("task_id", taskID))
	return err
}

func (s *Store) CompleteTask(developerID, projectID, taskID string, isCurrent bool) error {
	_, err := s.apply("complete task", func(r Roster) (Roster, error) {
		return r.CompleteTask(developerID, projectID, taskID, isCurrent)
	}, zap.String("developer_id", developerID), zap.String("project_id", projectID),
		zap.String("task_id", taskID), zap.Bool("current", isCurrent))
	return err
}
