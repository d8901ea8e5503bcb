package presets

import (
	"strings"

	"github.com/opnlabs/ghaflow/pkg/models"
	"github.com/opnlabs/ghaflow/pkg/value"
)

// Cargo builds a step that runs a cargo subcommand.
type Cargo struct {
	Command   string
	ID        string
	Name      string
	Toolchain string
	Args      []string
	Env       models.Env
}

func NewCargo(command string) Cargo {
	return Cargo{Command: command}
}

func (c Cargo) WithName(name string) Cargo {
	c.Name = name
	return c
}

func (c Cargo) WithID(id string) Cargo {
	c.ID = id
	return c
}

func (c Cargo) Nightly() Cargo {
	c.Toolchain = "nightly"
	return c
}

// AddArgs splits args on whitespace and appends them.
func (c Cargo) AddArgs(args string) Cargo {
	c.Args = append(append([]string(nil), c.Args...), strings.Fields(args)...)
	return c
}

// AddArgsWhen appends args only when cond holds.
func (c Cargo) AddArgsWhen(cond bool, args string) Cargo {
	if !cond {
		return c
	}
	return c.AddArgs(args)
}

func (c Cargo) AddEnv(key string, v value.Value) Cargo {
	c.Env = c.Env.With(key, v)
	return c
}

func (c Cargo) Step() models.Step {
	command := []string{"cargo"}
	if c.Toolchain != "" {
		command = append(command, "+"+c.Toolchain)
	}
	command = append(command, c.Command)
	command = append(command, c.Args...)

	s := models.RunStep(strings.Join(command, " ")).WithID(c.ID).WithName(c.Name)
	s.Env = c.Env.Clone()
	return s
}

// RustFlags renders lints into the RUSTFLAGS variable, for example
// RustFlags{Deny("warnings")} is "-Dwarnings".
type RustFlags []RustFlag

type RustFlag struct {
	Name  string
	Level byte
}

func Allow(name string) RustFlag   { return RustFlag{Name: name, Level: 'A'} }
func Warn(name string) RustFlag    { return RustFlag{Name: name, Level: 'W'} }
func Deny(name string) RustFlag    { return RustFlag{Name: name, Level: 'D'} }
func Forbid(name string) RustFlag  { return RustFlag{Name: name, Level: 'F'} }
func Codegen(name string) RustFlag { return RustFlag{Name: name, Level: 'C'} }

func (f RustFlag) String() string {
	return "-" + string(f.Level) + f.Name
}

func (r RustFlags) String() string {
	parts := make([]string, len(r))
	for i, f := range r {
		parts[i] = f.String()
	}
	return strings.Join(parts, " ")
}

type RustOptions struct {
	Name     string
	Branches []string
	Runner   string
	Flags    RustFlags
}

func (o RustOptions) withDefaults() RustOptions {
	if o.Name == "" {
		o.Name = "CI"
	}
	if len(o.Branches) == 0 {
		o.Branches = DefaultBranches
	}
	if o.Runner == "" {
		o.Runner = models.DefaultRunner
	}
	if len(o.Flags) == 0 {
		o.Flags = RustFlags{Deny("warnings")}
	}
	return o
}

func setupRust(toolchain string, components ...string) models.Step {
	s := models.UsesStep("actions-rust-lang", "setup-rust-toolchain", 1).
		WithName("Setup Rust Toolchain").
		AddInput("toolchain", toolchain)
	if len(components) > 0 {
		s = s.AddInput("components", strings.Join(components, ", "))
	}
	return s
}

// Rust tests a cargo workspace on the stable toolchain and lints it with
// rustfmt and clippy on nightly.
func Rust(opts RustOptions) (models.Workflow, error) {
	opts = opts.withDefaults()

	stable := models.NewJob("Build and Test").
		WithRunsOn(value.String(opts.Runner)).
		AddStep(models.Checkout()).
		AddStep(setupRust("stable")).
		AddStep(NewCargo("test").AddArgs("--all-features --workspace").WithName("Cargo Test").Step())

	nightly := models.NewJob("Lint").
		WithRunsOn(value.String(opts.Runner)).
		AddStep(models.Checkout()).
		AddStep(setupRust("nightly", "clippy", "rustfmt")).
		AddStep(NewCargo("fmt").Nightly().AddArgs("--check").WithName("Cargo Fmt").Step()).
		AddStep(NewCargo("clippy").Nightly().AddArgs("--all-features --workspace -- -D warnings").WithName("Cargo Clippy").Step())

	w, err := models.NewWorkflow(opts.Name).
		WithPermissions(models.ReadPermissions()).
		AddEvent(onBranches(opts.Branches)...).
		AddEnv("RUSTFLAGS", opts.Flags.String()).
		AddJob("build", stable)
	if err != nil {
		return w, err
	}
	return w.AddJob("lint", nightly)
}
