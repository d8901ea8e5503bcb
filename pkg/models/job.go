package models

import (
	"fmt"

	"github.com/opnlabs/ghaflow/pkg/store"
	"github.com/opnlabs/ghaflow/pkg/value"
)

const DefaultRunner = "ubuntu-latest"

// Job fields are declared in the order GitHub documents them, which is also
// the order they are written in.
type Job struct {
	Needs           value.Value              `yaml:"needs,omitempty"`
	If              Expression               `yaml:"if,omitempty"`
	Name            string                   `yaml:"name,omitempty"`
	RunsOn          value.Value              `yaml:"runs-on,omitempty"`
	Permissions     *Permissions             `yaml:"permissions,omitempty"`
	Environment     *Environment             `yaml:"environment,omitempty"`
	Concurrency     *Concurrency             `yaml:"concurrency,omitempty"`
	Outputs         store.Ordered[string]    `yaml:"outputs,omitempty"`
	Env             Env                      `yaml:"env,omitempty"`
	Defaults        *Defaults                `yaml:"defaults,omitempty"`
	TimeoutMinutes  *uint                    `yaml:"timeout-minutes,omitempty"`
	ContinueOnError *bool                    `yaml:"continue-on-error,omitempty"`
	Container       *Container               `yaml:"container,omitempty"`
	Services        store.Ordered[Container] `yaml:"services,omitempty"`
	Strategy        *Strategy                `yaml:"strategy,omitempty"`
	Steps           []Step                   `yaml:"steps,omitempty" validate:"required_without=Uses,excluded_with=Uses,dive"`
	Uses            string                   `yaml:"uses,omitempty"`
	With            Input                    `yaml:"with,omitempty"`
	Secrets         store.Ordered[Secret]    `yaml:"secrets,omitempty"`
	Retry           *RetryStrategy           `yaml:"retry,omitempty"`
	Artifacts       *Artifacts               `yaml:"artifacts,omitempty"`
}

// NewJob creates a job running on DefaultRunner.
func NewJob(name string) Job {
	return Job{
		Name:   name,
		RunsOn: value.String(DefaultRunner),
	}
}

// WithNeeds replaces the dependencies; a single id and a list stay distinct.
func (j Job) WithNeeds(needs value.Value) Job {
	j.Needs = needs
	return j
}

// AddNeeds appends job ids to the dependencies, turning them into a list.
func (j Job) AddNeeds(ids ...string) Job {
	j.Needs = j.Needs.Append(value.Strings(ids...))
	return j
}

func (j Job) WithIf(cond Expression) Job {
	j.If = cond
	return j
}

func (j Job) WithName(name string) Job {
	j.Name = name
	return j
}

// WithRunsOn sets the runner selector: a label, a list of labels or a map
// such as {group: large-runners, labels: [linux]}.
func (j Job) WithRunsOn(runsOn value.Value) Job {
	j.RunsOn = runsOn
	return j
}

func (j Job) WithPermissions(p Permissions) Job {
	j.Permissions = &p
	return j
}

func (j Job) WithEnvironment(e Environment) Job {
	j.Environment = &e
	return j
}

func (j Job) WithConcurrency(c Concurrency) Job {
	j.Concurrency = &c
	return j
}

func (j Job) AddOutput(key, expr string) Job {
	j.Outputs = j.Outputs.With(key, expr)
	return j
}

// AddEnv sets one variable. v may be a value.Value or any scalar.
func (j Job) AddEnv(key string, v any) Job {
	j.Env = j.Env.With(key, scalar(v))
	return j
}

// MergeEnv puts every variable of env over the job's env.
func (j Job) MergeEnv(env Env) Job {
	j.Env = j.Env.Merge(env)
	return j
}

func (j Job) WithDefaults(d Defaults) Job {
	j.Defaults = &d
	return j
}

func (j Job) WithTimeoutMinutes(minutes uint) Job {
	j.TimeoutMinutes = &minutes
	return j
}

func (j Job) WithContinueOnError(c bool) Job {
	j.ContinueOnError = &c
	return j
}

func (j Job) WithContainer(c Container) Job {
	j.Container = &c
	return j
}

func (j Job) AddService(id string, c Container) Job {
	j.Services = j.Services.With(id, c)
	return j
}

func (j Job) WithStrategy(s Strategy) Job {
	j.Strategy = &s
	return j
}

func (j Job) AddStep(s Step) Job {
	j.Steps = appendClone(j.Steps, s)
	return j
}

// WithUses turns the job into a call of a reusable workflow.
func (j Job) WithUses(ref string) Job {
	j.Uses = ref
	return j
}

func (j Job) AddInput(key string, v any) Job {
	j.With = j.With.With(key, scalar(v))
	return j
}

func (j Job) AddSecret(id string, s Secret) Job {
	j.Secrets = j.Secrets.With(id, s)
	return j
}

func (j Job) WithRetry(r RetryStrategy) Job {
	j.Retry = &r
	return j
}

func (j Job) WithArtifacts(a Artifacts) Job {
	j.Artifacts = &a
	return j
}

// scalar converts setter arguments into a Single value. A value.Value is
// passed through untouched.
func scalar(v any) value.Value {
	switch v := v.(type) {
	case value.Value:
		return v
	case string:
		return value.String(v)
	case Expression:
		return value.String(string(v))
	case bool:
		return value.Bool(v)
	case int:
		return value.Int(v)
	case int64:
		return value.Of(v)
	case uint:
		return value.Of(v)
	case float64:
		return value.Float(v)
	case fmt.Stringer:
		return value.String(v.String())
	}
	return value.String(fmt.Sprint(v))
}
