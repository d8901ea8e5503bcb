// Package presets builds complete CI workflows for common toolchains.
package presets

import (
	"github.com/opnlabs/ghaflow/pkg/models"
	"github.com/opnlabs/ghaflow/pkg/value"
)

var DefaultBranches = []string{"main"}

type GoOptions struct {
	Name      string
	Branches  []string
	GoVersion string
	Runner    string
	// Race enables the race detector on go test.
	Race bool
}

func (o GoOptions) withDefaults() GoOptions {
	if o.Name == "" {
		o.Name = "Go"
	}
	if len(o.Branches) == 0 {
		o.Branches = DefaultBranches
	}
	if o.GoVersion == "" {
		o.GoVersion = "stable"
	}
	if o.Runner == "" {
		o.Runner = models.DefaultRunner
	}
	return o
}

// Go vets and tests a Go module on pushes and pull requests to the
// configured branches.
func Go(opts GoOptions) (models.Workflow, error) {
	opts = opts.withDefaults()

	test := "go test ./..."
	if opts.Race {
		test = "go test -race ./..."
	}

	job := models.NewJob("Build and Test").
		WithRunsOn(value.String(opts.Runner)).
		AddStep(models.Checkout()).
		AddStep(models.UsesStep("actions", "setup-go", 5).
			WithName("Setup Go").
			AddInput("go-version", opts.GoVersion)).
		AddStep(models.RunStep("go vet ./...").WithName("Vet")).
		AddStep(models.RunStep(test).WithName("Test"))

	return models.NewWorkflow(opts.Name).
		WithPermissions(models.ReadPermissions()).
		AddEvent(onBranches(opts.Branches)...).
		AddJob("build", job)
}

func onBranches(branches []string) []models.Event {
	return []models.Event{
		models.OnPush().Branches(branches...),
		models.OnPullRequest().Open().Synchronize().Reopen().Branches(branches...),
	}
}
