// Package generate writes rendered workflows to disk, or checks that the
// files on disk are current.
package generate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/opnlabs/ghaflow/pkg/codec"
	"github.com/opnlabs/ghaflow/pkg/models"
	"go.uber.org/zap"
)

const DefaultHeader = "# Code generated by ghaflow. DO NOT EDIT.\n"

var (
	ErrOutdated        = errors.New("generate: workflow file is outdated, regenerate and commit it")
	ErrInvalidWorkflow = errors.New("generate: invalid workflow")

	// ErrMissing also matches ErrOutdated.
	ErrMissing = fmt.Errorf("%w: file does not exist", ErrOutdated)
)

// Generator renders one workflow to one path. In check mode it only reads
// the path and compares.
type Generator struct {
	workflow models.Workflow
	path     string
	header   string
	check    bool
	validate bool
	logger   *zap.Logger
}

func New(w models.Workflow, path string) *Generator {
	return &Generator{
		workflow: w,
		path:     filepath.Clean(path),
		header:   DefaultHeader,
		validate: true,
		logger:   zap.NewNop(),
	}
}

// WithHeader replaces the comment written above the document. An empty
// header writes the bare document.
func (g *Generator) WithHeader(header string) *Generator {
	g.header = header
	return g
}

func (g *Generator) WithCheck(check bool) *Generator {
	g.check = check
	return g
}

// WithValidation turns the model validation that runs before rendering on
// or off.
func (g *Generator) WithValidation(validate bool) *Generator {
	g.validate = validate
	return g
}

func (g *Generator) WithLogger(logger *zap.Logger) *Generator {
	if logger != nil {
		g.logger = logger
	}
	return g
}

func (g *Generator) Path() string {
	return g.path
}

// Render returns the text that Run writes or compares against.
func (g *Generator) Render() (string, error) {
	if g.validate {
		if err := g.workflow.Validate(); err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrInvalidWorkflow, g.path, err)
		}
	}
	text, err := codec.Render(g.workflow)
	if err != nil {
		return "", err
	}
	return g.header + text, nil
}

// Run writes the workflow, or in check mode compares it with the file on
// disk and returns ErrOutdated when they differ, or ErrMissing when there is
// no file.
func (g *Generator) Run(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	text, err := g.Render()
	if err != nil {
		return err
	}

	log := g.logger.With(zap.String("path", g.path), zap.Bool("check", g.check))
	if g.check {
		return g.compare(log, text)
	}
	if err := g.write(text); err != nil {
		return err
	}
	log.Debug("wrote workflow", zap.Int("bytes", len(text)))
	return nil
}

func (g *Generator) compare(log *zap.Logger, text string) error {
	existing, err := os.ReadFile(g.path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Info("workflow file does not exist")
		return fmt.Errorf("%w: %s", ErrMissing, g.path)
	}
	if err != nil {
		return fmt.Errorf("could not read %s: %w", g.path, err)
	}
	if string(existing) != text {
		log.Info("workflow file is outdated")
		return fmt.Errorf("%w: %s", ErrOutdated, g.path)
	}
	log.Debug("workflow file is current")
	return nil
}

// write replaces the file through a temporary sibling so readers never see
// a partial document.
func (g *Generator) write(text string) error {
	dir := filepath.Dir(g.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("could not create %s directory: %w", dir, err)
	}

	tmp := filepath.Join(dir, "."+filepath.Base(g.path)+"-"+uuid.NewString()+".tmp")
	if err := os.WriteFile(tmp, []byte(text), 0644); err != nil {
		return fmt.Errorf("could not write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, g.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("could not replace %s: %w", g.path, err)
	}
	return nil
}

// Generate writes w to path.
func Generate(w models.Workflow, path string) error {
	return New(w, path).Run(context.Background())
}

// Verify compares w with the file at path without writing.
func Verify(w models.Workflow, path string) error {
	return New(w, path).WithCheck(true).Run(context.Background())
}
