package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/darkshare/darkshare/internal/config"
	"github.com/darkshare/darkshare/internal/database"
	"github.com/darkshare/darkshare/internal/log"
)

// NewReportCmd creates the report command.
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [report-id]",
		Short: "List or re-render stored check reports",
		Long: `Report reads the local report history written by the check command and
the serve API. Without arguments it lists the most recent reports; with a
report id it re-renders the stored result in the requested format.

Examples:
  # List recent reports
  darkshare report

  # Re-render a stored report as Markdown
  darkshare report --markdown 5f2c1a9e-0b7d-4c3e-9a1f-8d6e4b2a7c10

  # Regenerate the branded PDF
  darkshare report --pdf -o report.pdf 5f2c1a9e-0b7d-4c3e-9a1f-8d6e4b2a7c10`,
		Args: cobra.MaximumNArgs(1),
		RunE: runReportCmd,
	}

	cmd.Flags().IntP("limit", "n", 20,
		"Maximum number of reports to list")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .darkshare in current or home directory)")
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

// runReportCmd executes the report command.
func runReportCmd(cmd *cobra.Command, args []string) error {
	cfg := config.NewConfig()

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	cfg.PDFReport, err = cmd.Flags().GetBool("pdf")
	if err != nil {
		return err
	}
	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	if err := applyConfigFile(cfg); err != nil {
		return err
	}
	if cfg.DBDir == "" {
		cfg.DBDir = config.XDGDataDir()
	}

	// The history must already exist; report never creates an empty database.
	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false
	db, err := database.Open(cfg.DBDir, opts)
	if err != nil {
		return fmt.Errorf("no report history found in %s: %w", cfg.DBDir, err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if len(args) == 0 {
		return listReports(ctx, db, limit)
	}
	return renderStoredReport(ctx, cfg, db, args[0])
}

// listReports prints a one-line summary per stored report, newest first.
func listReports(ctx context.Context, db *database.Store, limit int) error {
	reports, err := db.RecentReports(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list reports: %w", err)
	}
	if len(reports) == 0 {
		fmt.Println("No reports saved yet. Run `darkshare check <target>` first.")
		return nil
	}

	for _, rep := range reports {
		fmt.Printf("%s  %-19s  %-6s  %-8s  %s\n",
			rep.ID,
			rep.GeneratedAt.Format("2006-01-02 15:04:05"),
			rep.ObjectType,
			rep.Result.RiskLevel,
			log.MaskTarget(rep.Result.Target),
		)
	}
	return nil
}

// renderStoredReport re-renders a single stored report in the requested
// format, reusing the check command's format selection.
func renderStoredReport(ctx context.Context, cfg *config.Config, db *database.Store, id string) error {
	rep, err := db.GetReport(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load report: %w", err)
	}
	if rep == nil {
		return fmt.Errorf("report %s not found", id)
	}
	if cfg.PDFReport && cfg.ReportFile == "" {
		return errors.New("--pdf requires --output (PDF is binary)")
	}

	if err := outputReport(cfg, rep.Result); err != nil {
		return err
	}
	if cfg.ReportFile != "" {
		fmt.Fprintf(os.Stderr, "Report written to %s\n", cfg.ReportFile)
	}
	return nil
}
