package ghaflow

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/opnlabs/ghaflow/pkg/config"
	"github.com/opnlabs/ghaflow/pkg/generate"
	"github.com/opnlabs/ghaflow/pkg/models"
	"github.com/opnlabs/ghaflow/pkg/presets"
	"github.com/opnlabs/ghaflow/pkg/utils"
	"github.com/spf13/cobra"
)

var errNoWorkflows = errors.New("no workflows configured, add them to .ghaflow.yml or pass --preset")

var (
	check     bool
	preset    string
	output    string
	branches  []string
	goVersion string
	runner    string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write the configured workflows, or check that they are current",
	Long: `Renders every workflow listed in the config file, or the single preset
described by flags, and writes it under .github/workflows. With --check the
files are compared instead and the command fails when one is outdated.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		workflows := cfg.Workflows
		if preset != "" {
			workflows = []config.WorkflowConfig{{
				Preset:    preset,
				Path:      output,
				Branches:  branches,
				GoVersion: goVersion,
				Runner:    runner,
			}}
		}
		if len(workflows) == 0 {
			return errNoWorkflows
		}

		targets := make([]generate.Target, 0, len(workflows))
		for _, wc := range workflows {
			target, err := buildTarget(wc)
			if err != nil {
				return err
			}
			targets = append(targets, target)
		}

		err := generate.All(cmd.Context(), targets, generate.Options{
			Check:  check,
			Header: &cfg.Header,
			Logger: log,
		})
		if err != nil {
			return err
		}

		for _, t := range targets {
			status := utils.NewColorLogger(t.Name, cmd.OutOrStdout())
			if check {
				status.Printf("%s is up to date", t.Path)
			} else {
				status.Printf("wrote %s", t.Path)
			}
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().BoolVar(&check, "check", false, "Compare instead of writing. Fails when a file is outdated.")
	generateCmd.Flags().StringVarP(&preset, "preset", "p", "", "Generate a single preset workflow: go or rust.")
	generateCmd.Flags().StringVarP(&output, "output", "o", "", "Output path for --preset. Defaults to .github/workflows/<preset>.yml.")
	generateCmd.Flags().StringSliceVarP(&branches, "branch", "b", nil, "Branches that trigger the workflow. Repeatable.")
	generateCmd.Flags().StringVar(&goVersion, "go-version", "", "Go version for the go preset.")
	generateCmd.Flags().StringVar(&runner, "runner", "", "Runner label for every job.")
}

func buildTarget(wc config.WorkflowConfig) (generate.Target, error) {
	var (
		w   models.Workflow
		err error
	)
	switch wc.Preset {
	case "go":
		w, err = presets.Go(presets.GoOptions{
			Name:      wc.Name,
			Branches:  wc.Branches,
			GoVersion: wc.GoVersion,
			Runner:    wc.Runner,
			Race:      wc.Race,
		})
	case "rust":
		w, err = presets.Rust(presets.RustOptions{
			Name:     wc.Name,
			Branches: wc.Branches,
			Runner:   wc.Runner,
		})
	default:
		return generate.Target{}, fmt.Errorf("unknown preset %q, expected go or rust", wc.Preset)
	}
	if err != nil {
		return generate.Target{}, fmt.Errorf("could not build %s preset: %w", wc.Preset, err)
	}

	path := wc.Path
	if path == "" {
		path = filepath.Join(config.DefaultWorkflowDir, wc.Preset+".yml")
	}
	return generate.Target{Name: filepath.Base(path), Workflow: w, Path: path}, nil
}
