package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ohowland/beyond_core/internal/pkg/config"
)

var (
	configPath string
	verbose    bool
	timeout    time.Duration

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "beyond",
	Short: "Beyond device wiring and load validation",
	Long: `beyond checks the electrical wiring of Beyond composite devices in a
building model, assigns the lighting loads each output channel switches and
reports every device whose installation is inconsistent or overloaded.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zc := zap.NewProductionConfig()
		if verbose {
			zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zc.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [model]",
	Short: "Validate the devices of a model and write the results back",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runValidate,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve validations over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var importCmd = &cobra.Command{
	Use:   "import <model>",
	Short: "Import a JSON model export into the configured SQL source",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Configuration file (default: built-in defaults)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Operation timeout")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(importCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the --config file, or the defaults when none is given.
func loadConfig() (config.Config, error) {
	if configPath == "" {
		return config.Parse([]byte("{}"))
	}
	return config.New(configPath)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if len(args) == 1 {
		cfg.Source.Path = args[0]
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	r, err := newRunner(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer r.Close(context.Background())

	run, err := r.engine.Execute(ctx, r.source, r.sink, r.reports, r.publisher)
	if run.Report != "" {
		fmt.Fprintln(cmd.OutOrStdout(), run.Report)
	}
	return err
}

func runImport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Source.Kind != config.KindSQL {
		return fmt.Errorf("import needs a %q source, got %q", config.KindSQL, cfg.Source.Kind)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	return importModel(ctx, cfg, args[0], logger)
}
