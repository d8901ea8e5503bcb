// Package models is the typed document model of a GitHub Actions workflow.
//
// Every entity is a plain value. Setters use value receivers and return the
// updated copy, so a chain like
//
//	NewJob("Build").AddStep(Checkout()).AddStep(RunStep("go test ./..."))
//
// never changes a value that was handed out earlier. Collections are cloned
// before they are written to.
package models

import (
	"strings"

	"github.com/opnlabs/ghaflow/pkg/store"
	"github.com/opnlabs/ghaflow/pkg/value"
)

// Env maps environment variable names to scalar values in insertion order.
type Env = store.Ordered[value.Value]

// Input holds the `with` arguments of an action or reusable workflow.
type Input = store.Ordered[value.Value]

// Expression is an opaque GitHub expression such as `github.ref == 'refs/heads/main'`.
type Expression string

// Expr joins a context path into an expression placeholder:
// Expr("github", "event_name") is "${{ github.event_name }}".
func Expr(path ...string) Expression {
	return Expression("${{ " + strings.Join(path, ".") + " }}")
}

type PermissionLevel string

const (
	PermissionRead  PermissionLevel = "read"
	PermissionWrite PermissionLevel = "write"
	PermissionNone  PermissionLevel = "none"
)

type Permissions struct {
	Actions        PermissionLevel `yaml:"actions,omitempty" validate:"omitempty,oneof=read write none"`
	Attestations   PermissionLevel `yaml:"attestations,omitempty" validate:"omitempty,oneof=read write none"`
	Checks         PermissionLevel `yaml:"checks,omitempty" validate:"omitempty,oneof=read write none"`
	Contents       PermissionLevel `yaml:"contents,omitempty" validate:"omitempty,oneof=read write none"`
	Deployments    PermissionLevel `yaml:"deployments,omitempty" validate:"omitempty,oneof=read write none"`
	Discussions    PermissionLevel `yaml:"discussions,omitempty" validate:"omitempty,oneof=read write none"`
	IDToken        PermissionLevel `yaml:"id-token,omitempty" validate:"omitempty,oneof=write none"`
	Issues         PermissionLevel `yaml:"issues,omitempty" validate:"omitempty,oneof=read write none"`
	Packages       PermissionLevel `yaml:"packages,omitempty" validate:"omitempty,oneof=read write none"`
	Pages          PermissionLevel `yaml:"pages,omitempty" validate:"omitempty,oneof=read write none"`
	PullRequests   PermissionLevel `yaml:"pull-requests,omitempty" validate:"omitempty,oneof=read write none"`
	SecurityEvents PermissionLevel `yaml:"security-events,omitempty" validate:"omitempty,oneof=read write none"`
	Statuses       PermissionLevel `yaml:"statuses,omitempty" validate:"omitempty,oneof=read write none"`
}

// ReadPermissions grants read access to repository contents only.
func ReadPermissions() Permissions {
	return Permissions{Contents: PermissionRead}
}

// WritePermissions grants write access to repository contents only.
func WritePermissions() Permissions {
	return Permissions{Contents: PermissionWrite}
}

func (p Permissions) WithActions(l PermissionLevel) Permissions        { p.Actions = l; return p }
func (p Permissions) WithAttestations(l PermissionLevel) Permissions   { p.Attestations = l; return p }
func (p Permissions) WithChecks(l PermissionLevel) Permissions         { p.Checks = l; return p }
func (p Permissions) WithContents(l PermissionLevel) Permissions       { p.Contents = l; return p }
func (p Permissions) WithDeployments(l PermissionLevel) Permissions    { p.Deployments = l; return p }
func (p Permissions) WithDiscussions(l PermissionLevel) Permissions    { p.Discussions = l; return p }
func (p Permissions) WithIDToken(l PermissionLevel) Permissions        { p.IDToken = l; return p }
func (p Permissions) WithIssues(l PermissionLevel) Permissions         { p.Issues = l; return p }
func (p Permissions) WithPackages(l PermissionLevel) Permissions       { p.Packages = l; return p }
func (p Permissions) WithPages(l PermissionLevel) Permissions          { p.Pages = l; return p }
func (p Permissions) WithPullRequests(l PermissionLevel) Permissions   { p.PullRequests = l; return p }
func (p Permissions) WithSecurityEvents(l PermissionLevel) Permissions { p.SecurityEvents = l; return p }
func (p Permissions) WithStatuses(l PermissionLevel) Permissions       { p.Statuses = l; return p }

type Concurrency struct {
	Group            string `yaml:"group" validate:"required"`
	CancelInProgress *bool  `yaml:"cancel-in-progress,omitempty"`
	Limit            *uint  `yaml:"limit,omitempty"`
}

func NewConcurrency(group string) Concurrency {
	return Concurrency{Group: group}
}

func (c Concurrency) WithCancelInProgress(cancel bool) Concurrency {
	c.CancelInProgress = &cancel
	return c
}

func (c Concurrency) WithLimit(limit uint) Concurrency {
	c.Limit = &limit
	return c
}

type Defaults struct {
	Run         *RunDefaults   `yaml:"run,omitempty"`
	Retry       *RetryDefaults `yaml:"retry,omitempty"`
	Concurrency *Concurrency   `yaml:"concurrency,omitempty"`
}

func (d Defaults) WithRun(r RunDefaults) Defaults {
	d.Run = &r
	return d
}

func (d Defaults) WithRetry(r RetryDefaults) Defaults {
	d.Retry = &r
	return d
}

func (d Defaults) WithConcurrency(c Concurrency) Defaults {
	d.Concurrency = &c
	return d
}

type RunDefaults struct {
	Shell            string `yaml:"shell,omitempty"`
	WorkingDirectory string `yaml:"working-directory,omitempty"`
}

func (r RunDefaults) WithShell(shell string) RunDefaults {
	r.Shell = shell
	return r
}

func (r RunDefaults) WithWorkingDirectory(dir string) RunDefaults {
	r.WorkingDirectory = dir
	return r
}

type RetryDefaults struct {
	MaxAttempts *uint `yaml:"max-attempts,omitempty"`
}

func (r RetryDefaults) WithMaxAttempts(n uint) RetryDefaults {
	r.MaxAttempts = &n
	return r
}

// Environment is the deployment environment a job targets.
type Environment struct {
	Name string `yaml:"name" validate:"required"`
	URL  string `yaml:"url,omitempty"`
}

func NewEnvironment(name string) Environment {
	return Environment{Name: name}
}

func (e Environment) WithURL(url string) Environment {
	e.URL = url
	return e
}

// Secret declares a secret a reusable workflow expects.
type Secret struct {
	Required    bool   `yaml:"required"`
	Description string `yaml:"description,omitempty"`
}

func NewSecret(required bool) Secret {
	return Secret{Required: required}
}

func (s Secret) WithDescription(d string) Secret {
	s.Description = d
	return s
}

type RetryStrategy struct {
	MaxAttempts *uint `yaml:"max-attempts,omitempty"`
}

func NewRetryStrategy(maxAttempts uint) RetryStrategy {
	return RetryStrategy{MaxAttempts: &maxAttempts}
}

type Artifacts struct {
	Upload   []Artifact `yaml:"upload,omitempty" validate:"dive"`
	Download []Artifact `yaml:"download,omitempty" validate:"dive"`
}

func (a Artifacts) AddUpload(artifact Artifact) Artifacts {
	a.Upload = appendClone(a.Upload, artifact)
	return a
}

func (a Artifacts) AddDownload(artifact Artifact) Artifacts {
	a.Download = appendClone(a.Download, artifact)
	return a
}

type Artifact struct {
	Name          string `yaml:"name" validate:"required"`
	Path          string `yaml:"path" validate:"required"`
	RetentionDays *uint  `yaml:"retention-days,omitempty"`
}

func NewArtifact(name, path string) Artifact {
	return Artifact{Name: name, Path: path}
}

func (a Artifact) WithRetentionDays(days uint) Artifact {
	a.RetentionDays = &days
	return a
}

// appendClone appends to a fresh backing array so the caller's slice is
// never written through.
func appendClone[T any](s []T, items ...T) []T {
	out := make([]T, 0, len(s)+len(items))
	out = append(out, s...)
	return append(out, items...)
}
