package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/phishguard/phishguard/internal/config"
	"github.com/phishguard/phishguard/internal/database"
	"github.com/phishguard/phishguard/internal/pipeline"
	"github.com/phishguard/phishguard/internal/report"
)

// NewTrainCmd creates the train command.
func NewTrainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train <dataset.csv>",
		Short: "Train a phishing URL classifier from a labeled CSV dataset",
		Long: `Train reads a CSV dataset with url,label columns (label 1 for phishing,
0 for legitimate), extracts lexical features from every URL, and fits a
small feed-forward network on them.

The run is fully deterministic for a fixed seed: the train/test split,
weight initialization, shuffling, and dropout all derive from --seed.
Each run is also recorded in a local history database for later
comparison with 'phishguard history'.

Examples:
  # Train with defaults on a dataset
  phishguard train data/urls.csv

  # Longer run with a custom architecture
  phishguard train --epochs 100 --hidden 64,32,16 data/urls.csv

  # Reproducible run with JSON report written to a file
  phishguard train --seed 7 --json -o report.json data/urls.csv

  # Use a custom configuration file
  phishguard train -c myconfig.yaml data/urls.csv`,
		Args: cobra.ExactArgs(1),
		RunE: runTrainCmd,
	}

	// Model output flags
	cmd.Flags().StringP("model", "M", config.DefaultModelPath,
		"Output path for the trained model snapshot")

	// Training hyperparameter flags
	cmd.Flags().IntP("epochs", "e", config.DefaultEpochs,
		"Number of training epochs")
	cmd.Flags().IntP("batch-size", "b", config.DefaultBatchSize,
		"Mini-batch size for gradient updates")
	cmd.Flags().IntSlice("hidden", config.DefaultHiddenLayers(),
		"Hidden layer widths, outermost first")
	cmd.Flags().Float64("dropout", config.DefaultDropoutRate,
		"Dropout rate applied after each hidden layer except the last")
	cmd.Flags().Float64("learning-rate", config.DefaultInitialLearningRate,
		"Initial Adam learning rate")
	cmd.Flags().Int("decay-steps", config.DefaultDecaySteps,
		"Steps per learning-rate decay period")
	cmd.Flags().Float64("decay-rate", config.DefaultDecayRate,
		"Learning-rate decay factor per period")
	cmd.Flags().Int64P("seed", "s", config.DefaultSeed,
		"Random seed for split, initialization, shuffling, and dropout")
	cmd.Flags().Float64("test-fraction", config.DefaultTestFraction,
		"Fraction of rows held out for evaluation")
	cmd.Flags().Float64P("threshold", "t", config.DefaultThreshold,
		"Probability threshold for classifying a URL as phishing")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .phishguard in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// Database flags
	cmd.Flags().String("db-dir", "",
		"Directory for the run history database (default: XDG data directory)")
	cmd.Flags().Bool("no-db", false,
		"Skip recording this run in the history database")

	return cmd
}

// runTrainCmd executes the train command.
func runTrainCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildTrainConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging
	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runTraining(ctx, cfg, logger)
}

// buildTrainConfig creates a Config from cobra command flags.
// The config file is applied first so that explicitly set flags win
// over file values.
func buildTrainConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.DatasetPath = args[0]

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Apply config file overrides before flags.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently skip when no file is found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cf.Apply(cfg)
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	// Explicitly set flags override the file.
	if cmd.Flags().Changed("model") {
		if cfg.ModelPath, err = cmd.Flags().GetString("model"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("epochs") {
		if cfg.Epochs, err = cmd.Flags().GetInt("epochs"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("batch-size") {
		if cfg.BatchSize, err = cmd.Flags().GetInt("batch-size"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("hidden") {
		if cfg.HiddenLayers, err = cmd.Flags().GetIntSlice("hidden"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("dropout") {
		if cfg.DropoutRate, err = cmd.Flags().GetFloat64("dropout"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("learning-rate") {
		if cfg.InitialLearningRate, err = cmd.Flags().GetFloat64("learning-rate"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("decay-steps") {
		if cfg.DecaySteps, err = cmd.Flags().GetInt("decay-steps"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("decay-rate") {
		if cfg.DecayRate, err = cmd.Flags().GetFloat64("decay-rate"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("seed") {
		if cfg.Seed, err = cmd.Flags().GetInt64("seed"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("test-fraction") {
		if cfg.TestFraction, err = cmd.Flags().GetFloat64("test-fraction"); err != nil {
			return nil, err
		}
	}
	if cmd.Flags().Changed("threshold") {
		if cfg.Threshold, err = cmd.Flags().GetFloat64("threshold"); err != nil {
			return nil, err
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}
	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}
	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	noDB, err := cmd.Flags().GetBool("no-db")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noDB

	cfg.DBDir, err = cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}
	if cfg.DBDir == "" {
		cfg.DBDir = config.XDGDataDir()
	}

	cfg.Verbose = getVerboseFlag(cmd)

	return cfg, nil
}

// runTraining executes the training pipeline and outputs the report.
func runTraining(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting training run",
		"dataset", cfg.DatasetPath,
		"epochs", cfg.Epochs,
		"batchSize", cfg.BatchSize,
		"seed", cfg.Seed,
		"saveToDB", cfg.SaveToDB,
	)

	// Open database connection if run recording is enabled
	var db *database.RunDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer func() {
			if err := db.Close(); err != nil {
				logger.Error("failed to close database", "error", err)
			}
		}()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	p := pipeline.New(pipeline.WithLogger(logger))
	p.AddSteps(
		pipeline.NewLoadStep(),
		pipeline.NewExtractStep(pipeline.WithExtractLogger(logger)),
		pipeline.NewSplitStep(),
		pipeline.NewTrainStep(pipeline.WithTrainLogger(logger)),
		pipeline.NewEvaluateStep(),
		pipeline.NewSaveStep(),
	)
	if db != nil {
		p.AddStep(pipeline.NewRecordStep(db))
	}

	state := pipeline.NewState(cfg)
	pipelineErr := p.Execute(ctx, state)

	// The report is written even for failed runs so the failure is visible
	// in the chosen format, not only in the logs.
	if err := outputReport(cfg, state); err != nil {
		logger.Error("report output failed", "error", err)
		if pipelineErr == nil {
			return err
		}
	}

	return pipelineErr
}

// outputReport renders the training report in the configured format,
// to stdout or to the configured file.
func outputReport(cfg *config.Config, state *pipeline.State) error {
	out := os.Stdout
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create report directory: %w", err)
			}
		}
		f, err := os.Create(cfg.ReportFile) //nolint:gosec // User-provided report path is intentional
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewJSONWriter(out, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(out)
	default:
		w = report.NewSimpleWriter(out, report.WithVerbose(cfg.Verbose))
	}

	if _, err := w.Write(state.Report); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
