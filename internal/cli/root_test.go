package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/depalyze/pkg/errors"
	"github.com/matzehuels/depalyze/pkg/history/historytest"
	pkgio "github.com/matzehuels/depalyze/pkg/io"
	"github.com/matzehuels/depalyze/pkg/timeline"
)

// writeSnapshot exports a small ecosystem (lib <- app <- web, plus a scoped
// package) and isolates the XDG directories of the test.
func writeSnapshot(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	s := historytest.New("2003-01-01").
		Author("app", "alice").
		Author("lib", "bob").
		Author("web", "carol").
		Release("lib", "1.0", "2000-06-01", nil).
		Release("lib", "2.0", "2001-09-01", nil).
		Release("app", "1.0", "2001-01-01", map[string]string{"lib": "^1.0"}).
		Release("app", "2.0", "2002-01-01", map[string]string{"lib": "^2.0"}).
		Release("web", "1.0", "2001-06-01", map[string]string{"app": "~1.0"}).
		Release("@acme/widget", "0.1.0", "2002-02-01", map[string]string{"lib": "2.0"}).
		Store(t)

	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, pkgio.ExportStore(s, path))
	return path
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, logs bytes.Buffer
	err := Execute(context.Background(), args, &out, &logs)
	return out.String(), logs.String(), err
}

func TestExecuteValidate(t *testing.T) {
	snap := writeSnapshot(t)
	out, logs, err := run(t, "validate", snap)
	require.NoError(t, err)
	require.Contains(t, out, "Snapshot is valid")
	require.Contains(t, out, "Packages")
	require.Contains(t, logs, "Loaded snapshot")
}

func TestExecuteValidateBadSnapshot(t *testing.T) {
	writeSnapshot(t)
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"release_dates": {"p": {}}, "end_of_time": "2002-01-01"}`), 0644))

	_, _, err := run(t, "validate", path)
	require.Error(t, err)
	require.True(t, errors.IsPrecondition(err), "err = %v", err)
}

func TestExecuteTimelineCached(t *testing.T) {
	snap := writeSnapshot(t)

	first, _, err := run(t, "timeline", snap, "app")
	require.NoError(t, err)
	require.Contains(t, first, "Dependency changes")
	require.Contains(t, first, "app v1.0")
	require.Contains(t, first, "ref: web -> app v~1.0")

	second, logs, err := run(t, "-v", "timeline", snap, "app")
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Contains(t, logs, "report served from cache")

	dir, err := cacheDir()
	require.NoError(t, err)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	out, _, err := run(t, "cache", "clear")
	require.NoError(t, err)
	require.Contains(t, out, "Cleared cached reports")
	entries, err = os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestExecuteTimelineBoring(t *testing.T) {
	snap := writeSnapshot(t)
	out, logs, err := run(t, "timeline", "--boring", snap, "lib")
	require.NoError(t, err)
	require.Empty(t, out)
	require.Contains(t, logs, "lib")
}

func TestExecuteSpans(t *testing.T) {
	snap := writeSnapshot(t)
	out, _, err := run(t, "spans", "--no-cache", snap, "app")
	require.NoError(t, err)

	var tl timeline.Timeline
	require.NoError(t, json.Unmarshal([]byte(out), &tl))
	require.Equal(t, []timeline.Connection{
		{From: "lib:1.0", To: "app:1.0"},
		{From: "lib:2.0", To: "app:2.0"},
	}, tl.Connections)
	require.Len(t, tl.FindByKey("app:2.0"), 1)
}

func TestExecuteDepsPackageURL(t *testing.T) {
	snap := writeSnapshot(t)
	out, _, err := run(t, "deps", snap, "pkg:npm/%40acme/widget")
	require.NoError(t, err)
	require.Contains(t, out, "@acme/widget")
	require.Contains(t, out, "lib")
	require.Contains(t, out, "Dependents")
}

func TestExecuteUnknownPackage(t *testing.T) {
	snap := writeSnapshot(t)
	_, _, err := run(t, "timeline", snap, "nope")
	require.True(t, errors.IsNotFound(err), "err = %v", err)
}

func TestExecuteStats(t *testing.T) {
	snap := writeSnapshot(t)
	out, _, err := run(t, "stats", snap)
	require.NoError(t, err)
	require.Contains(t, out, "Updates/day")
	require.Contains(t, out, "Days/update")
}

func TestExecuteInteresting(t *testing.T) {
	snap := writeSnapshot(t)

	out, _, err := run(t, "interesting", snap)
	require.NoError(t, err)
	require.Contains(t, out, "No interesting packages")

	cfg := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(cfg, []byte(`
[heuristics]
recency_days = 100000
active_threshold = 0
min_upstream = 0
min_busy_upstream = 0
min_downstream = 0
churn_threshold = 0
`), 0644))

	out, _, err = run(t, "--config", cfg, "interesting", snap)
	require.NoError(t, err)
	require.Contains(t, out, "app")
	require.Contains(t, out, "Chases")
	require.True(t, strings.Contains(out, "lib"), "downstreamer column should name lib: %s", out)
}

func TestExecuteMissingConfig(t *testing.T) {
	snap := writeSnapshot(t)
	_, _, err := run(t, "--config", filepath.Join(t.TempDir(), "nope.toml"), "validate", snap)
	require.ErrorContains(t, err, "read config")
}
