package generate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/opnlabs/ghaflow/pkg/codec"
	"github.com/opnlabs/ghaflow/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func workflow(t *testing.T, cmd string) models.Workflow {
	t.Helper()
	w, err := models.NewWorkflow("CI").
		AddEvent(models.OnPush().Branches("main")).
		AddJob("build", models.NewJob("build").AddStep(models.RunStep(cmd)))
	require.NoError(t, err)
	return w
}

func TestGenerateCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".github", "workflows", "ci.yml")
	w := workflow(t, "echo hello")

	require.NoError(t, Generate(w, path))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)

	text, err := codec.Render(w)
	require.NoError(t, err)
	assert.Equal(t, DefaultHeader+text, string(contents))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files were left behind")
}

func TestGenerateOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ci.yml")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0644))

	require.NoError(t, New(workflow(t, "echo hello"), path).WithHeader("").Run(context.Background()))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	parsed, err := codec.Parse(string(contents))
	require.NoError(t, err)
	job, ok := parsed.Job("build")
	require.True(t, ok)
	assert.Equal(t, "echo hello", job.Steps[0].Run)
}

func TestVerify(t *testing.T) {
	tests := []struct {
		Name     string
		Existing *string
		Command  string
		Err      error
	}{
		{
			Name:    "Missing file",
			Command: "echo hello",
			Err:     ErrMissing,
		},
		{
			Name:     "Current file",
			Existing: ptr("echo hello"),
			Command:  "echo hello",
		},
		{
			Name:     "Outdated file",
			Existing: ptr("echo hello"),
			Command:  "echo goodbye",
			Err:      ErrOutdated,
		},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "ci.yml")

			var before []byte
			if test.Existing != nil {
				require.NoError(t, Generate(workflow(t, *test.Existing), path))
				var err error
				before, err = os.ReadFile(path)
				require.NoError(t, err)
			}

			err := Verify(workflow(t, test.Command), path)
			if test.Err != nil {
				assert.ErrorIs(t, err, test.Err)
			} else {
				assert.NoError(t, err)
			}

			after, readErr := os.ReadFile(path)
			if test.Existing == nil {
				assert.True(t, errors.Is(readErr, os.ErrNotExist), "check mode created the file")
				return
			}
			require.NoError(t, readErr)
			assert.Equal(t, before, after, "check mode changed the file")
		})
	}
}

func TestVerifyMissingFileIsOutdated(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".github", "workflows", "ci.yml")

	err := Verify(workflow(t, "echo hello"), path)
	assert.ErrorIs(t, err, ErrMissing)
	assert.ErrorIs(t, err, ErrOutdated)
	assert.Contains(t, err.Error(), path)
}

func TestInvalidWorkflowIsNotWritten(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ci.yml")

	err := Generate(models.NewWorkflow("Empty"), path)
	assert.ErrorIs(t, err, ErrInvalidWorkflow)
	assert.ErrorIs(t, err, models.ErrNoJobs)

	_, statErr := os.Stat(path)
	assert.True(t, errors.Is(statErr, os.ErrNotExist))

	require.NoError(t, New(models.NewWorkflow("Empty"), path).WithValidation(false).Run(context.Background()))
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(workflow(t, "true"), filepath.Join(t.TempDir(), "ci.yml")).Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLogsOutdatedFile(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	path := filepath.Join(t.TempDir(), "ci.yml")

	require.NoError(t, Generate(workflow(t, "a"), path))
	err := New(workflow(t, "b"), path).WithCheck(true).WithLogger(zap.New(core)).Run(context.Background())
	require.ErrorIs(t, err, ErrOutdated)

	entries := logs.FilterMessage("workflow file is outdated").All()
	require.Len(t, entries, 1)
	assert.Equal(t, path, entries[0].ContextMap()["path"])
}

func TestAll(t *testing.T) {
	dir := t.TempDir()
	targets := []Target{
		{Name: "ci", Workflow: workflow(t, "make"), Path: filepath.Join(dir, "ci.yml")},
		{Name: "lint", Workflow: workflow(t, "make lint"), Path: filepath.Join(dir, "lint.yml")},
		{Name: "release", Workflow: workflow(t, "make release"), Path: filepath.Join(dir, "nested", "release.yml")},
	}

	require.NoError(t, All(context.Background(), targets, Options{}))
	for _, target := range targets {
		assert.FileExists(t, target.Path)
	}

	require.NoError(t, All(context.Background(), targets, Options{Check: true}))

	targets[1].Workflow = workflow(t, "make vet")
	err := All(context.Background(), targets, Options{Check: true})
	assert.ErrorIs(t, err, ErrOutdated)
}

func TestAllRejectsDuplicatePaths(t *testing.T) {
	dir := t.TempDir()
	targets := []Target{
		{Name: "a", Workflow: workflow(t, "a"), Path: filepath.Join(dir, "ci.yml")},
		{Name: "b", Workflow: workflow(t, "b"), Path: filepath.Join(dir, ".", "ci.yml")},
	}

	err := All(context.Background(), targets, Options{})
	assert.ErrorIs(t, err, ErrDuplicatePath)
	assert.NoFileExists(t, filepath.Join(dir, "ci.yml"))
}

func ptr[T any](v T) *T {
	return &v
}
