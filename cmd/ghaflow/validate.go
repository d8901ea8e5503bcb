package ghaflow

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/opnlabs/ghaflow/pkg/codec"
	"github.com/opnlabs/ghaflow/pkg/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var validateCmd = &cobra.Command{
	Use:   "validate PATH...",
	Short: "Parse and validate workflow files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := utils.WorkflowFiles(args...)
		if err != nil {
			return err
		}

		var errs []error
		for _, path := range files {
			status := utils.NewColorLogger(filepath.Base(path), cmd.OutOrStdout())
			if err := validateFile(path); err != nil {
				log.Error("invalid workflow", zap.String("path", path), zap.Error(err))
				status.Printf("%s is invalid: %v", path, err)
				errs = append(errs, err)
				continue
			}
			status.Printf("%s is valid", path)
		}
		return errors.Join(errs...)
	},
}

func validateFile(path string) error {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return err
	}
	defer f.Close()

	w, err := codec.Decode(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := w.Validate(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
