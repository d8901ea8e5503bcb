package ghaflow

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/opnlabs/ghaflow/pkg/codec"
	"github.com/opnlabs/ghaflow/pkg/generate"
	"github.com/opnlabs/ghaflow/pkg/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var errFormat = errors.New("files are not in canonical form")

var fmtCheck bool

var fmtCmd = &cobra.Command{
	Use:   "fmt PATH...",
	Short: "Rewrite workflow files in canonical form",
	Long: `Parses each workflow file and writes it back with canonical key order and
indentation. Leading comment lines are kept. Keys ghaflow does not model are
dropped. With --check nothing is written and the command fails when a file
would change.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := utils.WorkflowFiles(args...)
		if err != nil {
			return err
		}

		var unformatted []string
		for _, path := range files {
			status := utils.NewColorLogger(filepath.Base(path), cmd.OutOrStdout())

			contents, err := os.ReadFile(filepath.Clean(path))
			if err != nil {
				return err
			}
			w, err := codec.Parse(string(contents))
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			err = generate.New(w, path).
				WithHeader(leadingComments(string(contents))).
				WithValidation(false).
				WithCheck(fmtCheck).
				WithLogger(log).
				Run(cmd.Context())
			switch {
			case errors.Is(err, generate.ErrOutdated):
				status.Printf("%s is not formatted", path)
				unformatted = append(unformatted, path)
			case err != nil:
				return err
			case fmtCheck:
				status.Printf("%s is formatted", path)
			default:
				log.Debug("formatted workflow", zap.String("path", path))
				status.Printf("formatted %s", path)
			}
		}

		if len(unformatted) > 0 {
			return fmt.Errorf("%w: %s", errFormat, strings.Join(unformatted, ", "))
		}
		return nil
	},
}

func init() {
	fmtCmd.Flags().BoolVar(&fmtCheck, "check", false, "Report files that are not formatted without rewriting them.")
}

// leadingComments returns the comment and blank lines at the top of a
// document, such as the generated-file header.
func leadingComments(text string) string {
	var b strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(trimmed, "#") {
			break
		}
		b.WriteString(line)
	}
	return b.String()
}
