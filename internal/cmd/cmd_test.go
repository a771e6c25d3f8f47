package cmd_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonbystrom/devtracker/internal/cmd"
)

const seedYAML = `developers:
  - name: Ann Lee
    role: Backend Developer
    projects:
      - name: Billing
        current: {name: Invoice "v2" export, type: backend, due: 2025-06-01}
        pending:
          - {name: Refund flow, type: backend, due: 2025-06-10}
  - name: Bo Chen
    role: Designer
`

// isolate keeps config, logs and .env lookups inside a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	for _, k := range []string{"DEVTRACKER_CONFIG", "DEVTRACKER_LOG_ENV", "DEVTRACKER_LOG_FILE", "DEVTRACKER_EXPORT_DIR", "DEVTRACKER_SEED", "DEVTRACKER_SAMPLE"} {
		t.Setenv(k, "")
	}
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := cmd.NewRootCommand()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func writeSeed(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "team.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seedYAML), 0o644))
	return path
}

func TestRootCommand_Help(t *testing.T) {
	isolate(t)

	out, err := run(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "terminal dashboard")
	for _, sub := range []string{"export", "stats", "list", "config"} {
		assert.Contains(t, out, sub)
	}
}

func TestStats_Sample(t *testing.T) {
	isolate(t)

	out, err := run(t, "stats")
	require.NoError(t, err)
	assert.Contains(t, out, "Developers:  5 (2 available, 3 busy)")
	assert.Contains(t, out, "Projects:    4 across 3 developers")
	assert.Contains(t, out, "Tasks:       9 (4 in progress, 5 pending)")
}

func TestStats_NoSample(t *testing.T) {
	isolate(t)

	out, err := run(t, "stats", "--no-sample")
	require.NoError(t, err)
	assert.Contains(t, out, "Developers:  0 (0 available, 0 busy)")
}

func TestList_FilterAndSearch(t *testing.T) {
	isolate(t)

	out, err := run(t, "list", "--filter", "available")
	require.NoError(t, err)
	assert.Contains(t, out, "Sarah Williams")
	assert.Contains(t, out, "Michael Chen")
	assert.NotContains(t, out, "Jane Smith")
	assert.Contains(t, out, "2 developers found")

	out, err = run(t, "list", "--search", "JOHN")
	require.NoError(t, err)
	assert.Contains(t, out, "John Doe")
	assert.Contains(t, out, "Alex Johnson")
	assert.Contains(t, out, "Design homepage layout")
}

func TestList_BadFilter(t *testing.T) {
	isolate(t)

	_, err := run(t, "list", "--filter", "sleepy")
	assert.ErrorContains(t, err, "unknown availability filter")
}

func TestExport_SeedToDir(t *testing.T) {
	dir := isolate(t)
	seed := writeSeed(t, dir)
	outDir := filepath.Join(dir, "out")

	out, err := run(t, "export", "--seed", seed, "--out", outDir)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 3 rows")

	data, err := os.ReadFile(filepath.Join(outDir, "developer-tasks.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Developer Name,Role,Status,Project,Current Task,Task Type,Due Date,Pending Tasks", lines[0])
	assert.Equal(t, `"Ann Lee","Backend Developer","Busy","Billing","Invoice ""v2"" export","backend","6/1/2025","1"`, lines[1])
	assert.Equal(t, `"","","","","(Pending) Refund flow","backend","6/10/2025",""`, lines[2])
	assert.Equal(t, `"Bo Chen","Designer","Available","","","","","0"`, lines[3])
}

func TestExport_Stdout(t *testing.T) {
	isolate(t)

	out, err := run(t, "export", "--stdout", "--no-sample")
	require.NoError(t, err)
	assert.Equal(t, "Developer Name,Role,Status,Project,Current Task,Task Type,Due Date,Pending Tasks\n", out)
}

func TestExport_BadSeed(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("developers:\n  - name: \"\"\n    role: Dev\n"), 0o644))

	_, err := run(t, "export", "--seed", path)
	assert.Error(t, err)
}

func TestConfigInit(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.conf")

	out, err := run(t, "config", "init", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[colors]")

	out, err = run(t, "config", "path", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, path+"\n", out)
}
