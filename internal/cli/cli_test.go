package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/walkcat/internal/catalog"
	"github.com/mesh-intelligence/walkcat/pkg/types"
)

// env is an isolated config and data directory pair.
type env struct {
	configDir string
	dataDir   string
}

func newEnv(t *testing.T) env {
	t.Helper()
	for _, k := range []string{"WALKCAT_CONFIG_DIR", "WALKCAT_DATA_DIR", "WALKCAT_BACKEND", "WALKCAT_SYNC", "WALKCAT_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	root := t.TempDir()
	return env{
		configDir: filepath.Join(root, "config"),
		dataDir:   filepath.Join(root, "data"),
	}
}

// run executes walkcat with the env's directories and returns stdout.
func (e env) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func (e env) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	require.NoError(t, err, "walkcat %s", strings.Join(args, " "))
	return out
}

func TestVersion(t *testing.T) {
	e := newEnv(t)
	out := e.mustRun(t, "version")
	assert.Equal(t, "walkcat v"+Version+"\nmodule: github.com/mesh-intelligence/walkcat\n", out)
	assert.NoDirExists(t, e.configDir, "version does not touch config")
}

func TestInit(t *testing.T) {
	e := newEnv(t)
	out := e.mustRun(t, "init")
	assert.Contains(t, out, "walkcat initialized")
	assert.Contains(t, out, e.dataDir)

	cfg, err := os.ReadFile(filepath.Join(e.configDir, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(cfg), "backend: json")
	assert.Contains(t, string(cfg), "log_level: warn")
	assert.FileExists(t, filepath.Join(e.dataDir, types.DefaultDocument))

	// Idempotent.
	e.mustRun(t, "init")
}

func TestInitSQLiteFromConfigFile(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, os.MkdirAll(e.configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(e.configDir, "config.yaml"), []byte("backend: sqlite\n"), 0o644))

	out := e.mustRun(t, "init")
	assert.Contains(t, out, "sqlite")
	assert.FileExists(t, filepath.Join(e.dataDir, "walkcat.db"))
}

func TestBackendFromEnvironment(t *testing.T) {
	e := newEnv(t)
	t.Setenv("WALKCAT_BACKEND", "sqlite")

	e.mustRun(t, "init")
	assert.FileExists(t, filepath.Join(e.dataDir, "walkcat.db"))
}

func TestCollectionSetAndGet(t *testing.T) {
	for _, backend := range []string{types.BackendJSON, types.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			e := newEnv(t)
			b := "--backend=" + backend

			out := e.mustRun(t, b, "collection", "set", `{"collection_title": "C1", "WALK_collection_folder": "F1", "note": "v1"}`)
			assert.Equal(t, "inserted collection 1\n", out)

			out = e.mustRun(t, b, "collection", "set", `{"collection_title": "C1", "WALK_collection_folder": "F1", "note": "v2"}`)
			assert.Equal(t, "updated collection 1 (backup 1)\n", out)

			out = e.mustRun(t, b, "collection", "get", "C1", "F1")
			var doc types.Document
			require.NoError(t, json.Unmarshal([]byte(out), &doc))
			assert.Equal(t, 1, doc.EID)
			assert.Equal(t, "v2", doc.Fields["note"])

			out = e.mustRun(t, b, "history", "collections", "1")
			var hist []types.Document
			require.NoError(t, json.Unmarshal([]byte(out), &hist))
			require.Len(t, hist, 1)
			assert.Equal(t, "v1", hist[0].Fields["note"])
		})
	}
}

func TestSeedSetFromFileAndList(t *testing.T) {
	e := newEnv(t)
	e.mustRun(t, "collection", "set", `{"collection_title": "C1", "WALK_collection_folder": "F1"}`)

	seedFile := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(seedFile,
		[]byte(`{"collection_title": "C1", "WALK_collection_folder": "F1", "seed_name": "S1", "capture_count": 3}`), 0o644))
	out := e.mustRun(t, "seed", "set", "-f", seedFile)
	assert.Equal(t, "inserted seed 1\n", out)

	assert.Equal(t, "C1\n\tS1\n", e.mustRun(t, "list"))

	out = e.mustRun(t, "--json", "list")
	var entries []catalog.Entry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)
	require.Len(t, entries[0].Seeds, 1)
	assert.Equal(t, "S1", entries[0].Seeds[0].Fields[types.FieldSeedName])

	out = e.mustRun(t, "seed", "get", "C1", "F1", "S1")
	assert.Contains(t, out, `"capture_count": 3`)
}

func TestSetJSONOutput(t *testing.T) {
	e := newEnv(t)
	out := e.mustRun(t, "--json", "seed", "set", `{"collection_title": "C", "WALK_collection_folder": "F", "seed_name": "S"}`)
	var r catalog.Result
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.True(t, r.Inserted)
	assert.Equal(t, 1, r.EID)
}

func TestUserErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing key", []string{"collection", "set", `{"collection_title": "C1"}`}},
		{"bad JSON", []string{"collection", "set", `{"collection_title": `}},
		{"no record", []string{"seed", "set"}},
		{"not found", []string{"collection", "get", "nope", "F"}},
		{"wrong arg count", []string{"seed", "get", "C1"}},
		{"unknown table", []string{"history", "widgets", "1"}},
		{"bad eid", []string{"history", "seeds", "x"}},
		{"purge without confirmation", []string{"purge", "seeds"}},
		{"unknown backend", []string{"--backend", "mongo", "list"}},
		{"missing file", []string{"load", "/does/not/exist.yaml"}},
		{"unknown command", []string{"frobnicate"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t)
			_, err := e.run(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, exitUserError, ExitCode(err))
		})
	}
}

func TestMissingKeyWritesNothing(t *testing.T) {
	e := newEnv(t)
	_, err := e.run(t, "seed", "set", `{"collection_title": "C1", "WALK_collection_folder": "F1"}`)
	assert.ErrorIs(t, err, types.ErrMissingKey)

	assert.Equal(t, "", e.mustRun(t, "list"))
}

func TestCorruptDocumentIsSystemError(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, os.MkdirAll(e.dataDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(e.dataDir, types.DefaultDocument), []byte("{not json"), 0o644))

	_, err := e.run(t, "list")
	require.Error(t, err)
	assert.Equal(t, exitSysError, ExitCode(err))
}

func TestRenameCommand(t *testing.T) {
	e := newEnv(t)
	e.mustRun(t, "collection", "set", `{"collection_title": "Old", "WALK_collection_folder": "F"}`)
	e.mustRun(t, "seed", "set", `{"collection_title": "Old", "WALK_collection_folder": "F", "seed_name": "s"}`)

	out := e.mustRun(t, "rename", "Old", "F", "New", "G")
	assert.Equal(t, "renamed collection 1 and 1 seeds\n", out)
	assert.Equal(t, "New\n\ts\n", e.mustRun(t, "list"))

	e.mustRun(t, "collection", "set", `{"collection_title": "Other", "WALK_collection_folder": "G"}`)
	_, err := e.run(t, "rename", "Other", "G", "New", "G")
	assert.ErrorIs(t, err, types.ErrKeyConflict)
	assert.Equal(t, exitUserError, ExitCode(err))
}

func TestLoadCommand(t *testing.T) {
	e := newEnv(t)
	batch := filepath.Join(t.TempDir(), "batch.yaml")
	require.NoError(t, os.WriteFile(batch, []byte(`
collections:
  - collection_title: C1
    WALK_collection_folder: F1
seeds:
  - collection_title: C1
    WALK_collection_folder: F1
    seed_name: a.org
  - collection_title: C1
    WALK_collection_folder: F1
    seed_name: b.org
`), 0o644))

	assert.Equal(t, "inserted 3, updated 0\n", e.mustRun(t, "load", batch))
	assert.Equal(t, "inserted 0, updated 3\n", e.mustRun(t, "load", batch))
	assert.Equal(t, "C1\n\ta.org\n\tb.org\n", e.mustRun(t, "list"))

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("seeds:\n  - seed_name: x\n"), 0o644))
	_, err := e.run(t, "load", bad)
	assert.ErrorIs(t, err, types.ErrMissingKey)
}

func TestLoadFromStdin(t *testing.T) {
	e := newEnv(t)
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader(`{"collections": [{"collection_title": "C", "WALK_collection_folder": "F"}]}`))
	cmd.SetArgs([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir, "load", "-"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "inserted 1, updated 0\n", out.String())
}

func TestPurgeCommand(t *testing.T) {
	e := newEnv(t)
	e.mustRun(t, "collection", "set", `{"collection_title": "C1", "WALK_collection_folder": "F1"}`)
	e.mustRun(t, "collection", "set", `{"collection_title": "C1", "WALK_collection_folder": "F1", "x": 1}`)

	_, err := e.run(t, "purge", "collections")
	assert.ErrorIs(t, err, types.ErrPurgeNotConfirmed)

	assert.Equal(t, "purged 1 records from collections\n", e.mustRun(t, "purge", "collections", "--yes"))
	assert.Equal(t, "", e.mustRun(t, "list"))
	assert.Contains(t, e.mustRun(t, "history", "collections", "1"), `"_source_eid": 1`)
}

func TestExportCommand(t *testing.T) {
	e := newEnv(t)
	e.mustRun(t, "collection", "set", `{"collection_title": "C1", "WALK_collection_folder": "F1"}`)
	e.mustRun(t, "seed", "set", `{"collection_title": "C1", "WALK_collection_folder": "F1", "seed_name": "S1"}`)

	dst := filepath.Join(t.TempDir(), "db")
	out := e.mustRun(t, "export", "--to-backend", "sqlite", "--to-data-dir", dst)
	assert.Equal(t, "collections\t1\nseeds\t1\n", out)

	other := env{configDir: e.configDir, dataDir: dst}
	assert.Equal(t, "C1\n\tS1\n", other.mustRun(t, "--backend", "sqlite", "list"))

	_, err := e.run(t, "export", "--to-backend", "json", "--to-data-dir", e.dataDir)
	require.Error(t, err)
	assert.Equal(t, exitUserError, ExitCode(err))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitSuccess, ExitCode(nil))
	assert.Equal(t, exitUserError, ExitCode(errors.New("cobra usage")))
	assert.Equal(t, exitSysError, ExitCode(classify(errors.New("disk full"))))
	assert.Equal(t, exitUserError, ExitCode(classify(fmt.Errorf("wrapped: %w", types.ErrNotFound))))

	// An explicit code is kept through classify and further wrapping.
	err := fmt.Errorf("outer: %w", classify(userError(errors.New("x"))))
	assert.Equal(t, exitUserError, ExitCode(err))
}
