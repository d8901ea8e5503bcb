package ghaflow

import (
	"errors"
	"os"

	"github.com/opnlabs/ghaflow/pkg/config"
	"github.com/opnlabs/ghaflow/pkg/generate"
	"github.com/opnlabs/ghaflow/pkg/logger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgFile string
	cfg     config.Config

	log = zap.NewNop()

	// logReady is set once the configured logger replaces the no-op one.
	logReady bool
)

var rootCmd = &cobra.Command{
	Use:   "ghaflow",
	Short: "ghaflow generates GitHub Actions workflows",
	Long: `ghaflow renders typed GitHub Actions workflows to YAML and checks that
the workflow files committed to a repository are current. Workflows are
described in .ghaflow.yml or with flags, and existing workflow files can be
validated and re-formatted.`,
	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		v := config.New(cfgFile)
		if err := v.BindPFlag("debug", cmd.Root().PersistentFlags().Lookup("debug")); err != nil {
			return err
		}
		if err := v.BindPFlag("log_format", cmd.Root().PersistentFlags().Lookup("log-format")); err != nil {
			return err
		}

		var err error
		cfg, err = config.Load(v)
		if err != nil {
			return err
		}

		log, err = logger.New(logger.Config{Debug: cfg.Debug, Format: cfg.LogFormat})
		if err != nil {
			return err
		}
		logReady = true
		if cfg.File != "" {
			log.Debug("loaded config", zap.String("file", cfg.File))
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to the config file. Defaults to .ghaflow.yml in the working directory.")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging.")
	rootCmd.PersistentFlags().String("log-format", "human", "Log format: human or json.")

	rootCmd.AddCommand(generateCmd, fmtCmd, validateCmd, versionCmd)
}

func Execute() {
	err := rootCmd.Execute()
	report(err)
	if err != nil {
		os.Exit(1)
	}
}

// report logs the final error, if any, and flushes the logger.
func report(err error) {
	defer func() { _ = log.Sync() }()

	switch {
	case err == nil:
	case errors.Is(err, generate.ErrOutdated):
		log.Error("workflow files are outdated, run `ghaflow generate` and commit the result", zap.Error(err))
	case errors.Is(err, errFormat):
		log.Error("workflow files are not formatted, run `ghaflow fmt` and commit the result", zap.Error(err))
	case logReady:
		log.Error("command failed", zap.Error(err))
	default:
		// Config or logger setup failed before there was a logger.
		rootCmd.PrintErrln("Error:", err)
	}
}
