package models

import (
	"errors"
	"fmt"

	"github.com/gosimple/slug"
	"github.com/opnlabs/ghaflow/pkg/store"
	"github.com/opnlabs/ghaflow/pkg/value"
)

var ErrDuplicateJob = errors.New("models: job id already exists")

// Workflow is the root of a workflow file.
type Workflow struct {
	Name           string                `yaml:"name,omitempty"`
	RunName        string                `yaml:"run-name,omitempty"`
	On             value.Value           `yaml:"on,omitempty"`
	Permissions    *Permissions          `yaml:"permissions,omitempty"`
	Env            Env                   `yaml:"env,omitempty"`
	Concurrency    *Concurrency          `yaml:"concurrency,omitempty"`
	Defaults       *Defaults             `yaml:"defaults,omitempty"`
	Secrets        store.Ordered[Secret] `yaml:"secrets,omitempty"`
	TimeoutMinutes *uint                 `yaml:"timeout-minutes,omitempty"`
	Jobs           store.Ordered[Job]    `yaml:"jobs,omitempty"`
}

func NewWorkflow(name string) Workflow {
	return Workflow{Name: name}
}

func (w Workflow) WithName(name string) Workflow {
	w.Name = name
	return w
}

func (w Workflow) WithRunName(runName string) Workflow {
	w.RunName = runName
	return w
}

// WithOn replaces the trigger. A single event name, a list of names and a
// map of event configurations are all accepted and written back as given.
func (w Workflow) WithOn(on value.Value) Workflow {
	w.On = on
	return w
}

// AddEvent merges an event into the trigger map. A trigger set with WithOn
// as a single name or a list of names becomes a map of those names first.
func (w Workflow) AddEvent(events ...Event) Workflow {
	on := eventMap(w.On)
	for _, e := range events {
		on = on.Merge(e.Value())
	}
	w.On = on
	return w
}

func (w Workflow) WithPermissions(p Permissions) Workflow {
	w.Permissions = &p
	return w
}

func (w Workflow) AddEnv(key string, v any) Workflow {
	w.Env = w.Env.With(key, scalar(v))
	return w
}

func (w Workflow) MergeEnv(env Env) Workflow {
	w.Env = w.Env.Merge(env)
	return w
}

func (w Workflow) WithConcurrency(c Concurrency) Workflow {
	w.Concurrency = &c
	return w
}

func (w Workflow) WithDefaults(d Defaults) Workflow {
	w.Defaults = &d
	return w
}

func (w Workflow) AddSecret(id string, s Secret) Workflow {
	w.Secrets = w.Secrets.With(id, s)
	return w
}

func (w Workflow) WithTimeoutMinutes(minutes uint) Workflow {
	w.TimeoutMinutes = &minutes
	return w
}

// AddJob attaches job under id. A taken id returns ErrDuplicateJob and the
// receiver, which is left as it was.
func (w Workflow) AddJob(id string, job Job) (Workflow, error) {
	if w.Jobs.Has(id) {
		return w, fmt.Errorf("%w: %s", ErrDuplicateJob, id)
	}
	jobs := w.Jobs.Clone()
	if err := jobs.Set(id, job); err != nil {
		return w, fmt.Errorf("unable to add job %s: %w", id, err)
	}
	w.Jobs = jobs
	return w, nil
}

// AddJobNamed attaches job under the id derived from its name.
func (w Workflow) AddJobNamed(job Job) (Workflow, error) {
	return w.AddJob(JobID(job.Name), job)
}

// Job returns the job stored under id.
func (w Workflow) Job(id string) (Job, bool) {
	job, err := w.Jobs.Get(id)
	return job, err == nil
}

// JobID turns a display name into a job id: "Build and Test" becomes
// "build-and-test".
func JobID(name string) string {
	return slug.Make(name)
}
