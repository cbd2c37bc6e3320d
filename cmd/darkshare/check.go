package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/darkshare/darkshare/internal/check"
	"github.com/darkshare/darkshare/internal/config"
	"github.com/darkshare/darkshare/internal/database"
	"github.com/darkshare/darkshare/internal/geoip"
	"github.com/darkshare/darkshare/internal/i18n"
	"github.com/darkshare/darkshare/internal/log"
	"github.com/darkshare/darkshare/internal/model"
	"github.com/darkshare/darkshare/internal/pipeline"
	"github.com/darkshare/darkshare/internal/report"
)

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [target...]",
		Short: "Run a risk check on one or more targets",
		Long: `Check validates each target, runs the heuristic evaluation for its type,
and prints a scored report with findings, metadata, and sources.

The check type is inferred from the shape of each target. Use --type to
force a specific type when the shape is ambiguous (e.g. a phone number
that looks like a wallet fragment).

Examples:
  # Check a domain (type inferred)
  darkshare check paypal-login.com

  # Check several targets concurrently
  darkshare check 8.8.8.8 user@mailinator.com https://bit.ly/abc

  # Force the check type
  darkshare check --type phone "0501234567"

  # JSON report
  darkshare check --json example.com

  # Branded PDF report
  darkshare check --pdf -o report.pdf 0x742d35Cc6634C0532925a3b844Bc9e7595f86967

  # English output
  darkshare check --lang en example.com`,
		Args: cobra.ArbitraryArgs,
		RunE: runCheckCmd,
	}

	// Check behavior flags
	cmd.Flags().StringP("type", "T", "",
		"Check type (ip, wallet, phone, email, domain, url); inferred when omitted")
	cmd.Flags().DurationP("timeout", "t", config.DefaultLookupTimeout,
		"Timeout for the geolocation lookup")
	cmd.Flags().StringP("lang", "l", config.DefaultLanguage,
		"Report language (uk or en)")

	// Batch checking flags
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of concurrent checks")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .darkshare in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report")
	cmd.Flags().BoolP("pdf", "p", false,
		"Render a PDF report (requires --output)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runCheckCmd executes the check command.
func runCheckCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging with credential redaction
	logger := log.NewSecureLogger(os.Stderr, cfg.Verbose)
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

	return runChecks(ctx, cfg, logger)
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.CheckType, err = cmd.Flags().GetString("type")
	if err != nil {
		return nil, err
	}

	cfg.LookupTimeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.Language, err = cmd.Flags().GetString("lang")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.PDFReport, err = cmd.Flags().GetBool("pdf")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)

	// Load settings from the config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently skip when no file is found.
	if err := applyConfigFile(cfg); err != nil {
		return nil, err
	}

	// Always save to database using XDG data directory
	cfg.SaveToDB = true
	if cfg.DBDir == "" {
		cfg.DBDir = config.XDGDataDir()
	}

	// Get positional arguments (targets to check)
	cfg.Targets = args

	return cfg, nil
}

// applyConfigFile locates and merges the YAML configuration file into cfg.
func applyConfigFile(cfg *config.Config) error {
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath == "" {
		if explicitConfigPath {
			return fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
		}
		return nil
	}

	file, err := config.LoadConfigFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}
	file.Apply(cfg)
	return nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// newCheckService builds the check service from the configuration.
func newCheckService(cfg *config.Config, logger *slog.Logger) *check.Service {
	geoClient := geoip.NewClient(
		geoip.WithEndpoint(cfg.GeoIPEndpoint),
		geoip.WithTimeout(cfg.LookupTimeout),
	)
	return check.NewService(
		check.WithGeoIP(geoClient),
		check.WithLanguage(i18n.Match(cfg.Language)),
		check.WithLogger(logger),
	)
}

// resolveTargets pairs each target with its check type, either forced via
// --type or inferred from the target's shape.
func resolveTargets(cfg *config.Config) ([]pipeline.Target, error) {
	targets := make([]pipeline.Target, 0, len(cfg.Targets))
	for _, value := range cfg.Targets {
		typ := cfg.CheckType
		if typ == "" {
			detected, ok := check.DetectType(value)
			if !ok {
				return nil, fmt.Errorf("cannot infer check type for %q (use --type)", value)
			}
			typ = string(detected)
		}
		targets = append(targets, pipeline.Target{Type: typ, Value: value})
	}
	return targets, nil
}

// runChecks executes the checks.
func runChecks(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if len(cfg.Targets) == 0 {
		return errors.New("no targets provided (specify one or more values as arguments)")
	}

	targets, err := resolveTargets(cfg)
	if err != nil {
		return err
	}

	logger.Info("starting checks",
		"total_targets", len(targets),
		"batchSize", cfg.BatchSize,
		"saveToDB", cfg.SaveToDB,
	)

	// Open database connection if saving is enabled
	var db *database.Store
	if cfg.SaveToDB {
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	checker := newCheckService(cfg, logger)
	factory := func() *pipeline.Pipeline {
		p := pipeline.New(pipeline.WithLogger(logger))
		p.AddSteps(
			pipeline.NewValidateStep(checker),
			pipeline.NewEvaluateStep(checker),
		)
		if db != nil {
			p.AddStep(pipeline.NewPersistStep(db, 0))
		}
		return p
	}

	// Use batch processor for parallel checking if multiple targets
	if len(targets) > 1 && cfg.BatchSize > 1 {
		return runBatchChecks(ctx, cfg, targets, factory, logger)
	}

	return runSequentialChecks(ctx, cfg, targets, factory, logger)
}

// runSequentialChecks checks targets one at a time.
func runSequentialChecks(
	ctx context.Context,
	cfg *config.Config,
	targets []pipeline.Target,
	factory func() *pipeline.Pipeline,
	logger *slog.Logger,
) error {
	var failed int
	for _, target := range targets {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		run := pipeline.NewRun(target.Type, target.Value)
		if err := factory().Execute(ctx, run); err != nil {
			logger.Error("check failed", "type", target.Type, "target", target.Value, "error", err)
			fmt.Fprintf(os.Stderr, "Check error for %s: %v\n", log.MaskTarget(target.Value), err)
			failed++
			continue
		}

		if err := outputReport(cfg, run.Result); err != nil {
			logger.Error("report failed", "type", target.Type, "error", err)
			return err
		}
	}

	if failed == len(targets) {
		return errors.New("all checks failed")
	}
	return nil
}

// runBatchChecks checks multiple targets concurrently using BatchProcessor.
func runBatchChecks(
	ctx context.Context,
	cfg *config.Config,
	targets []pipeline.Target,
	factory func() *pipeline.Pipeline,
	logger *slog.Logger,
) error {
	fmt.Printf("Starting batch check of %d targets (concurrency: %d)...\n\n",
		len(targets), cfg.BatchSize)

	startTime := time.Now()

	bp := pipeline.NewBatchProcessor(factory,
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	// Process with callback for streaming output
	var mu sync.Mutex
	err := bp.ProcessBatchWithCallback(ctx, targets, func(run *pipeline.Run, index int) {
		mu.Lock()
		defer mu.Unlock()

		if run.Err != nil {
			fmt.Fprintf(os.Stderr, "[%d/%d] Check failed: %s: %v\n",
				index+1, len(targets), log.MaskTarget(run.Target), run.Err)
			return
		}

		fmt.Printf("[%d/%d] Check completed: %s\n", index+1, len(targets), log.MaskTarget(run.Target))
		if err := outputReport(cfg, run.Result); err != nil {
			logger.Error("report failed", "type", run.Type, "error", err)
		}
	})

	elapsed := time.Since(startTime)
	fmt.Printf("\nBatch check completed in %s\n", elapsed.Round(time.Millisecond))

	return err
}

// outputReport outputs the check result in the requested format.
func outputReport(cfg *config.Config, result *model.CheckResult) error {
	// Determine output destination
	var output *os.File
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Reports may contain targets the user considers sensitive, so
		// keep the file owner-readable only.
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	case cfg.PDFReport:
		writer = report.NewPDFWriter(output)
	default:
		writer = report.NewSimpleWriter(output)
	}

	_, err := writer.WriteResult(result)
	return err
}
