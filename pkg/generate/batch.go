package generate

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/opnlabs/ghaflow/pkg/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var ErrDuplicatePath = errors.New("generate: two targets share a path")

// Target pairs a workflow with the file it is written to.
type Target struct {
	Name     string
	Workflow models.Workflow
	Path     string
}

// Options apply to every target of a batch.
type Options struct {
	Check  bool
	Header *string
	Logger *zap.Logger
}

// All generates or checks every target concurrently. Paths are checked for
// duplicates before anything touches the disk. The first failure cancels the
// targets that have not started yet.
func All(ctx context.Context, targets []Target, opts Options) error {
	seen := make(map[string]string, len(targets))
	for _, t := range targets {
		p := filepath.Clean(t.Path)
		if other, ok := seen[p]; ok {
			return fmt.Errorf("%w: %s (%s, %s)", ErrDuplicatePath, p, other, t.Name)
		}
		seen[p] = t.Name
	}

	eg, ctx := errgroup.WithContext(ctx)
	for _, t := range targets {
		g := New(t.Workflow, t.Path).WithCheck(opts.Check)
		if opts.Header != nil {
			g.WithHeader(*opts.Header)
		}
		if opts.Logger != nil {
			g.WithLogger(opts.Logger.With(zap.String("workflow", t.Name)))
		}
		eg.Go(func() error {
			return g.Run(ctx)
		})
	}
	return eg.Wait()
}
