package models

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrStepKind = errors.New("models: a step needs exactly one of run or uses")

// Step is one entry of a job's steps. A step either runs a shell command or
// uses an action; RunStep and UsesStep are the only ways to set either, and
// Validate and decoding reject steps carrying both or neither.
type Step struct {
	ID               string         `yaml:"id,omitempty"`
	Name             string         `yaml:"name,omitempty"`
	If               Expression     `yaml:"if,omitempty"`
	Uses             string         `yaml:"uses,omitempty"`
	With             Input          `yaml:"with,omitempty"`
	Run              string         `yaml:"run,omitempty" validate:"required_without=Uses,excluded_with=Uses"`
	Shell            string         `yaml:"shell,omitempty"`
	Env              Env            `yaml:"env,omitempty"`
	TimeoutMinutes   *uint          `yaml:"timeout-minutes,omitempty"`
	ContinueOnError  *bool          `yaml:"continue-on-error,omitempty"`
	WorkingDirectory string         `yaml:"working-directory,omitempty"`
	Retry            *RetryStrategy `yaml:"retry,omitempty"`
	Artifacts        *Artifacts     `yaml:"artifacts,omitempty"`
}

// RunStep runs a shell command.
func RunStep(cmd string) Step {
	return Step{Run: cmd}
}

// UsesStep references owner/repo@v<version>.
func UsesStep(owner, repo string, version uint) Step {
	return UsesRef(fmt.Sprintf("%s/%s@v%d", owner, repo, version))
}

// UsesRef references an action by its full ref, such as
// "docker://alpine:3.20" or "./.github/actions/setup".
func UsesRef(ref string) Step {
	return Step{Uses: ref}
}

func (s Step) WithID(id string) Step {
	s.ID = id
	return s
}

func (s Step) WithName(name string) Step {
	s.Name = name
	return s
}

func (s Step) WithIf(cond Expression) Step {
	s.If = cond
	return s
}

// AddInput adds a `with` argument. v may be a value.Value or any scalar.
func (s Step) AddInput(key string, v any) Step {
	s.With = s.With.With(key, scalar(v))
	return s
}

func (s Step) WithShell(shell string) Step {
	s.Shell = shell
	return s
}

func (s Step) AddEnv(key string, v any) Step {
	s.Env = s.Env.With(key, scalar(v))
	return s
}

func (s Step) WithTimeoutMinutes(minutes uint) Step {
	s.TimeoutMinutes = &minutes
	return s
}

func (s Step) WithContinueOnError(c bool) Step {
	s.ContinueOnError = &c
	return s
}

func (s Step) WithWorkingDirectory(dir string) Step {
	s.WorkingDirectory = dir
	return s
}

func (s Step) WithRetry(r RetryStrategy) Step {
	s.Retry = &r
	return s
}

func (s Step) WithArtifacts(a Artifacts) Step {
	s.Artifacts = &a
	return s
}

func (s *Step) UnmarshalYAML(node *yaml.Node) error {
	type plain Step
	var decoded plain
	if err := node.Decode(&decoded); err != nil {
		return err
	}
	if (decoded.Run == "") == (decoded.Uses == "") {
		return fmt.Errorf("line %d: %w", node.Line, ErrStepKind)
	}
	*s = Step(decoded)
	return nil
}

// Checkout is the actions/checkout step.
func Checkout() Step {
	return UsesStep("actions", "checkout", 4).WithName("Checkout Code")
}

// AutoCommit builds a run step that commits the working tree changes.
type AutoCommit struct {
	Message   string
	ID        string
	Name      string
	UserName  string
	UserEmail string
	Files     []string
	Push      bool
}

func NewAutoCommit(message string) AutoCommit {
	return AutoCommit{Message: message}
}

func (a AutoCommit) WithID(id string) AutoCommit {
	a.ID = id
	return a
}

func (a AutoCommit) WithName(name string) AutoCommit {
	a.Name = name
	return a
}

func (a AutoCommit) WithUser(name, email string) AutoCommit {
	a.UserName, a.UserEmail = name, email
	return a
}

func (a AutoCommit) WithFiles(files ...string) AutoCommit {
	a.Files = appendClone(a.Files, files...)
	return a
}

func (a AutoCommit) WithPush(push bool) AutoCommit {
	a.Push = push
	return a
}

// Step renders the commit as a single shell command chain.
func (a AutoCommit) Step() Step {
	user, email := a.UserName, a.UserEmail
	if user == "" {
		user = "github-actions"
	}
	if email == "" {
		email = "github-actions@github.com"
	}

	files := "."
	if len(a.Files) > 0 {
		files = strings.Join(a.Files, " ")
	}

	commands := []string{
		fmt.Sprintf("git config --global user.name '%s'", user),
		fmt.Sprintf("git config --global user.email '%s'", email),
		"git add " + files,
		fmt.Sprintf("git commit -m \"%s\" || echo 'No changes to commit'", a.Message),
	}
	if a.Push {
		commands = append(commands, "git push")
	}

	return RunStep(strings.Join(commands, " && ")).WithID(a.ID).WithName(a.Name)
}
