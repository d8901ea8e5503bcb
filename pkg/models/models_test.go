package models

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/opnlabs/ghaflow/pkg/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var kebab = regexp.MustCompile(`^[a-z]+(-[a-z]+)*$`)

func TestYAMLKeysAreKebabCase(t *testing.T) {
	types := []any{
		Workflow{}, Job{}, Step{}, Permissions{}, Concurrency{}, Defaults{},
		RunDefaults{}, RetryDefaults{}, Environment{}, Secret{}, RetryStrategy{},
		Artifacts{}, Artifact{}, Container{}, Credentials{}, Strategy{},
	}
	for _, v := range types {
		typ := reflect.TypeOf(v)
		for i := 0; i < typ.NumField(); i++ {
			f := typ.Field(i)
			name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
			if !kebab.MatchString(name) {
				t.Errorf("%s.%s has yaml key %q", typ.Name(), f.Name, name)
			}
		}
	}
}

func TestSettersDoNotMutate(t *testing.T) {
	base := NewJob("build").AddStep(RunStep("make")).AddEnv("A", "1")
	extended := base.AddStep(RunStep("make test")).AddEnv("B", "2").AddNeeds("lint")

	assert.Len(t, base.Steps, 1)
	assert.Equal(t, 1, base.Env.Len())
	assert.True(t, base.Needs.IsZero())

	assert.Len(t, extended.Steps, 2)
	assert.Equal(t, 2, extended.Env.Len())
	assert.Equal(t, value.KindList, extended.Needs.Kind())

	// Sibling chains built from the same base do not share backing arrays.
	a := base.AddStep(RunStep("a"))
	b := base.AddStep(RunStep("b"))
	assert.Equal(t, "a", a.Steps[1].Run)
	assert.Equal(t, "b", b.Steps[1].Run)
}

func TestDuplicateJob(t *testing.T) {
	first := NewJob("build").AddStep(RunStep("echo hello"))

	w, err := NewWorkflow("CI").AddJob("build", first)
	require.NoError(t, err)

	second := NewJob("build").AddStep(RunStep("echo again"))
	got, err := w.AddJob("build", second)
	if !errors.Is(err, ErrDuplicateJob) {
		t.Fatalf("expected ErrDuplicateJob, got %v", err)
	}

	assert.Equal(t, 1, got.Jobs.Len())
	job, ok := got.Job("build")
	require.True(t, ok)
	assert.Equal(t, "echo hello", job.Steps[0].Run)
}

func TestAddJobLeavesReceiver(t *testing.T) {
	w := NewWorkflow("CI")
	w2, err := w.AddJob("build", NewJob("build").AddStep(RunStep("true")))
	require.NoError(t, err)

	assert.Equal(t, 0, w.Jobs.Len())
	assert.Equal(t, 1, w2.Jobs.Len())
}

func TestAddJobNamed(t *testing.T) {
	w, err := NewWorkflow("CI").AddJobNamed(NewJob("Build and Test").AddStep(RunStep("true")))
	require.NoError(t, err)
	assert.Equal(t, []string{"build-and-test"}, w.Jobs.Keys())
}

func TestStepKindDecoding(t *testing.T) {
	tests := []struct {
		Name  string
		Input string
		Err   error
	}{
		{Name: "run", Input: "run: make\n"},
		{Name: "uses", Input: "uses: actions/checkout@v4\n"},
		{Name: "both", Input: "run: make\nuses: actions/checkout@v4\n", Err: ErrStepKind},
		{Name: "neither", Input: "name: nothing\n", Err: ErrStepKind},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			var s Step
			err := yaml.Unmarshal([]byte(test.Input), &s)
			if test.Err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, test.Err)
		})
	}
}

func TestUsesStep(t *testing.T) {
	s := UsesStep("actions", "setup-go", 5).AddInput("go-version", "1.22")
	assert.Equal(t, "actions/setup-go@v5", s.Uses)

	v, err := s.With.Get("go-version")
	require.NoError(t, err)
	text, _ := v.Text()
	assert.Equal(t, "1.22", text)
}

func TestEvents(t *testing.T) {
	on := Combine(
		OnPush().Branches("main").Tags("v*"),
		OnPullRequest().Branches("main").Open().Synchronize(),
		OnWorkflowDispatch(),
	)

	out, err := yaml.Marshal(on)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(out, &decoded))

	expected := map[string]any{
		"push": map[string]any{
			"branches": []any{"main"},
			"tags":     []any{"v*"},
		},
		"pull_request": map[string]any{
			"branches": []any{"main"},
			"types":    []any{"opened", "synchronize"},
		},
		"workflow_dispatch": nil,
	}
	assert.Equal(t, expected, decoded)

	keys := make([]string, 0)
	for _, e := range on.Entries() {
		keys = append(keys, e.Key)
	}
	assert.Equal(t, []string{"push", "pull_request", "workflow_dispatch"}, keys)
}

func TestAddEventMerges(t *testing.T) {
	w := NewWorkflow("CI").
		AddEvent(OnPush().Branches("main")).
		AddEvent(OnPush().Branches("release"))

	push, ok := w.On.Get("push")
	require.True(t, ok)
	branches, ok := push.Get("branches")
	require.True(t, ok)
	assert.Equal(t, []any{"main", "release"}, branches.Items())
}

func TestAddEventKeepsNamedTriggers(t *testing.T) {
	tests := []struct {
		Name string
		On   value.Value
		Want []string
	}{
		{Name: "Single name", On: value.String("push"), Want: []string{"push", "pull_request"}},
		{Name: "List of names", On: value.Strings("push", "pull_request"), Want: []string{"push", "pull_request"}},
		{Name: "Unset", Want: []string{"pull_request"}},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			w := NewWorkflow("CI").WithOn(test.On).AddEvent(OnPullRequest().Branches("main"))

			require.Equal(t, value.KindMap, w.On.Kind())
			var keys []string
			for _, e := range w.On.Entries() {
				keys = append(keys, e.Key)
			}
			assert.Equal(t, test.Want, keys)

			pr, _ := w.On.Get("pull_request")
			branches, ok := pr.Get("branches")
			require.True(t, ok)
			assert.Equal(t, []any{"main"}, branches.Items())
		})
	}
}

func TestValidate(t *testing.T) {
	valid := NewJob("build").AddStep(Checkout()).AddStep(RunStep("make"))

	tests := []struct {
		Name     string
		Workflow func() (Workflow, error)
		Err      error
		Field    string
	}{
		{
			Name: "Valid",
			Workflow: func() (Workflow, error) {
				return NewWorkflow("CI").WithPermissions(ReadPermissions()).AddJob("build", valid)
			},
		},
		{
			Name: "No jobs",
			Workflow: func() (Workflow, error) {
				return NewWorkflow("CI"), nil
			},
			Err: ErrNoJobs,
		},
		{
			Name: "Bad permission level",
			Workflow: func() (Workflow, error) {
				return NewWorkflow("CI").WithPermissions(Permissions{Contents: "admin"}).AddJob("build", valid)
			},
			Field: "contents",
		},
		{
			Name: "Step with run and uses",
			Workflow: func() (Workflow, error) {
				s := RunStep("make")
				s.Uses = "actions/checkout@v4"
				return NewWorkflow("CI").AddJob("build", NewJob("build").AddStep(s))
			},
			Field: "run",
		},
		{
			Name: "Job without steps",
			Workflow: func() (Workflow, error) {
				return NewWorkflow("CI").AddJob("build", NewJob("build"))
			},
			Field: "steps",
		},
		{
			Name: "Reusable workflow job",
			Workflow: func() (Workflow, error) {
				return NewWorkflow("CI").AddJob("call", Job{Uses: "octo/repo/.github/workflows/ci.yml@main"})
			},
		},
		{
			Name: "Bad container image",
			Workflow: func() (Workflow, error) {
				return NewWorkflow("CI").AddJob("build", valid.WithContainer(NewContainer("Not An Image")))
			},
			Field: "image",
		},
		{
			Name: "Bad service image",
			Workflow: func() (Workflow, error) {
				return NewWorkflow("CI").AddJob("build", valid.AddService("db", NewContainer("")))
			},
			Field: "image",
		},
		{
			Name: "Image from expression",
			Workflow: func() (Workflow, error) {
				return NewWorkflow("CI").AddJob("build", valid.WithContainer(NewContainer("${{ matrix.image }}")))
			},
		},
		{
			Name: "Concurrency without group",
			Workflow: func() (Workflow, error) {
				return NewWorkflow("CI").WithConcurrency(Concurrency{}).AddJob("build", valid)
			},
			Field: "group",
		},
		{
			Name: "Matrix dimension named include",
			Workflow: func() (Workflow, error) {
				m := Matrix{}.AddDimension("include", value.Strings("linux"))
				return NewWorkflow("CI").AddJob("build", valid.WithStrategy(Strategy{}.WithMatrix(m)))
			},
			Err: ErrReservedDimension,
		},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			w, err := test.Workflow()
			require.NoError(t, err)

			err = w.Validate()
			switch {
			case test.Err != nil:
				assert.ErrorIs(t, err, test.Err)
			case test.Field != "":
				var verrs validator.ValidationErrors
				require.ErrorAs(t, err, &verrs)
				assert.Equal(t, test.Field, verrs[0].Field())
			default:
				assert.NoError(t, err)
			}
		})
	}
}

func TestStepValidate(t *testing.T) {
	assert.NoError(t, RunStep("make").Validate())
	assert.ErrorIs(t, Step{}.Validate(), ErrStepKind)
}

func TestAutoCommit(t *testing.T) {
	s := NewAutoCommit("chore: regenerate").WithFiles(".github/workflows").WithPush(true).Step()

	assert.Equal(t, "git config --global user.name 'github-actions' && "+
		"git config --global user.email 'github-actions@github.com' && "+
		"git add .github/workflows && "+
		"git commit -m \"chore: regenerate\" || echo 'No changes to commit' && "+
		"git push", s.Run)
	assert.Empty(t, s.Uses)
}

func TestVolume(t *testing.T) {
	v, err := ParseVolume("cache:/root/.cache")
	require.NoError(t, err)
	assert.Equal(t, NewVolume("cache", "/root/.cache"), v)

	_, err = ParseVolume("/only-one")
	assert.Error(t, err)
}

func TestMatrixRoundTrip(t *testing.T) {
	m := Matrix{}.
		AddDimension("os", value.Strings("ubuntu-latest", "macos-latest")).
		AddDimension("go", value.Strings("1.21", "1.22")).
		AddInclude(NewCombination(value.Pair("os", value.String("windows-latest")), value.Pair("go", value.String("1.22")))).
		AddExclude(NewCombination(value.Pair("os", value.String("macos-latest")), value.Pair("go", value.String("1.21"))))

	out, err := yaml.Marshal(Strategy{}.WithMatrix(m))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "matrix:\n    os:"), string(out))

	var decoded Strategy
	require.NoError(t, yaml.Unmarshal(out, &decoded))
	require.NotNil(t, decoded.Matrix)
	assert.Equal(t, []string{"os", "go"}, decoded.Matrix.Dimensions.Keys())
	assert.True(t, decoded.Matrix.Dimensions.Equal(m.Dimensions))
	require.Len(t, decoded.Matrix.Include, 1)
	assert.True(t, decoded.Matrix.Include[0].Equal(m.Include[0]))
	require.Len(t, decoded.Matrix.Exclude, 1)
}

func TestMatrixReservedDimension(t *testing.T) {
	for _, name := range []string{"include", "exclude"} {
		m := Matrix{}.AddDimension("os", value.Strings("ubuntu-latest")).AddDimension(name, value.Strings("x"))
		assert.ErrorIs(t, m.Validate(), ErrReservedDimension, name)

		_, err := yaml.Marshal(Strategy{}.WithMatrix(m))
		assert.ErrorIs(t, err, ErrReservedDimension, name)
	}
	assert.NoError(t, Matrix{}.AddDimension("os", value.Strings("ubuntu-latest")).Validate())
}
