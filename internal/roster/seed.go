package roster

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DateLayout is the due-date format used in seed files.
const DateLayout = "2006-01-02"

//go:embed sample.yaml
var sampleSeed []byte

type seedFile struct {
	Developers []seedDeveloper `yaml:"developers"`
}

type seedDeveloper struct {
	Name     string        `yaml:"name"`
	Role     string        `yaml:"role"`
	Projects []seedProject `yaml:"projects"`
}

type seedProject struct {
	Name    string     `yaml:"name"`
	Current *seedTask  `yaml:"current"`
	Pending []seedTask `yaml:"pending"`
}

type seedTask struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
	Due  string `yaml:"due"`
}

// Sample returns the built-in demo roster.
func Sample() Roster {
	r, err := ParseSeed(sampleSeed)
	if err != nil {
		panic(fmt.Sprintf("embedded sample roster: %v", err))
	}
	return r
}

// LoadSeed reads a YAML seed file. Returns an empty roster for an empty path.
func LoadSeed(path string) (Roster, error) {
	if path == "" {
		return Roster{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Roster{}, fmt.Errorf("read seed file: %w", err)
	}
	r, err := ParseSeed(data)
	if err != nil {
		return Roster{}, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// ParseSeed builds a roster by replaying the seed through the add
// operations, so availability and task statuses are always derived.
func ParseSeed(data []byte) (Roster, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Roster{}, fmt.Errorf("parse seed: %w", err)
	}

	var r Roster
	var err error
	for i, sd := range f.Developers {
		if r, err = r.AddDeveloper(sd.Name, sd.Role); err != nil {
			return Roster{}, fmt.Errorf("developer %d: %w", i+1, err)
		}
		devID := r.Developers[len(r.Developers)-1].ID

		for j, sp := range sd.Projects {
			where := fmt.Sprintf("developer %d project %d", i+1, j+1)
			if r, err = r.AddProject(devID, sp.Name); err != nil {
				return Roster{}, fmt.Errorf("%s: %w", where, err)
			}
			dev, _ := r.Developer(devID)
			projID := dev.Projects[len(dev.Projects)-1].ID

			if sp.Current != nil {
				if r, err = addSeedTask(r, devID, projID, *sp.Current, StatusInProgress); err != nil {
					return Roster{}, fmt.Errorf("%s current task: %w", where, err)
				}
			}
			for k, st := range sp.Pending {
				if r, err = addSeedTask(r, devID, projID, st, StatusPending); err != nil {
					return Roster{}, fmt.Errorf("%s pending task %d: %w", where, k+1, err)
				}
			}
		}
	}
	return r, nil
}

func addSeedTask(r Roster, devID, projID string, st seedTask, status TaskStatus) (Roster, error) {
	var due time.Time
	if st.Due != "" {
		var err error
		if due, err = time.Parse(DateLayout, st.Due); err != nil {
			return r, &ValidationError{Field: "due date", Reason: fmt.Sprintf("%q is not YYYY-MM-DD", st.Due)}
		}
	}
	return r.AddTask(devID, projID, Task{
		Name:    st.Name,
		Type:    TaskType(st.Type),
		DueDate: due,
		Status:  status,
	})
}
