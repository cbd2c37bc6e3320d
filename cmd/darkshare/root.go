// Package main provides the entry point for the DARKSHARE CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for DARKSHARE.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "darkshare",
		Short: "Risk intelligence for IPs, wallets, phones, emails, domains, and URLs",
		Long: `DARKSHARE is a risk-intelligence tool. It validates an input, runs the
heuristic evaluation for its type, and produces a scored report with
findings, metadata, and consulted sources.

Reports can be printed as text, JSON, or Markdown, or rendered as a
branded PDF. The serve command exposes the same checks over HTTP.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCheckCmd())
	cmd.AddCommand(NewReportCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
