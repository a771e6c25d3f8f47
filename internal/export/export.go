// Package export flattens a roster into the grouped developer/task table
// and encodes it as CSV.
package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/simonbystrom/devtracker/internal/roster"
)

const (
	Filename = "developer-tasks.csv"
	// DefaultDateLayout is the en-US short date form.
	DefaultDateLayout = "1/2/2006"
	pendingPrefix     = "(Pending) "
)

var Header = []string{
	"Developer Name",
	"Role",
	"Status",
	"Project",
	"Current Task",
	"Task Type",
	"Due Date",
	"Pending Tasks",
}

// Row is one line of the export table. A zero DueDate renders blank, as
// does a nil PendingTasks.
type Row struct {
	DeveloperName string
	Role          string
	Status        string
	Project       string
	CurrentTask   string
	TaskType      string
	DueDate       time.Time
	PendingTasks  *int
}

// Fields renders the row in Header order.
func (r Row) Fields(dateLayout string) []string {
	due := ""
	if !r.DueDate.IsZero() {
		due = r.DueDate.Format(dateLayout)
	}
	pending := ""
	if r.PendingTasks != nil {
		pending = strconv.Itoa(*r.PendingTasks)
	}
	return []string{r.DeveloperName, r.Role, r.Status, r.Project, r.CurrentTask, r.TaskType, due, pending}
}

func count(n int) *int { return &n }

// Rows flattens the roster. Each developer-project combination gets one
// leading row carrying the developer columns; extra pending tasks follow as
// continuation rows with those columns blank.
func Rows(r roster.Roster) []Row {
	var rows []Row
	for _, d := range r.Developers {
		lead := Row{
			DeveloperName: d.Name,
			Role:          d.Role,
			Status:        d.Availability.Label(),
		}
		if len(d.Projects) == 0 {
			lead.PendingTasks = count(0)
			rows = append(rows, lead)
			continue
		}

		for _, p := range d.Projects {
			row := lead
			row.Project = p.Name
			var rest []roster.Task

			switch {
			case p.CurrentTask != nil:
				fillTask(&row, *p.CurrentTask, "")
				row.PendingTasks = count(len(p.PendingTasks))
				rest = p.PendingTasks
			case len(p.PendingTasks) > 0:
				fillTask(&row, p.PendingTasks[0], pendingPrefix)
				row.PendingTasks = count(len(p.PendingTasks) - 1)
				rest = p.PendingTasks[1:]
			default:
				row.PendingTasks = count(0)
			}
			rows = append(rows, row)

			for _, t := range rest {
				var cont Row
				fillTask(&cont, t, pendingPrefix)
				rows = append(rows, cont)
			}
		}
	}
	return rows
}

func fillTask(row *Row, t roster.Task, prefix string) {
	row.CurrentTask = prefix + t.Name
	row.TaskType = string(t.Type)
	row.DueDate = t.DueDate
}

// WriteCSV writes the header and rows. Every field is double-quoted with
// embedded quotes doubled, and each record ends in "\n".
func WriteCSV(w io.Writer, rows []Row, dateLayout string) error {
	if dateLayout == "" {
		dateLayout = DefaultDateLayout
	}
	if _, err := io.WriteString(w, strings.Join(Header, ",")+"\n"); err != nil {
		return err
	}
	for _, r := range rows {
		if _, err := io.WriteString(w, encodeRecord(r.Fields(dateLayout))); err != nil {
			return err
		}
	}
	return nil
}

func encodeRecord(fields []string) string {
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(f, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
	return b.String()
}

// Artifact is a rendered export ready to hand to a save-file collaborator.
type Artifact struct {
	Filename string
	Data     []byte
}

func Build(r roster.Roster, dateLayout string) (Artifact, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, Rows(r), dateLayout); err != nil {
		return Artifact{}, fmt.Errorf("encode csv: %w", err)
	}
	return Artifact{Filename: Filename, Data: buf.Bytes()}, nil
}

// Save writes the artifact into dir (created if needed) and returns the
// full path. The write goes through a temp file and rename.
func (a Artifact) Save(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, a.Filename)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, a.Data, 0o644); err != nil {
		return "", fmt.Errorf("write export temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return "", fmt.Errorf("rename export file: %w", err)
	}
	return path, nil
}
