package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/darkshare/darkshare/internal/auth"
	"github.com/darkshare/darkshare/internal/config"
	"github.com/darkshare/darkshare/internal/database"
	"github.com/darkshare/darkshare/internal/log"
	"github.com/darkshare/darkshare/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the check API over HTTP",
		Long: `Serve starts the HTTP API. It exposes the same checks as the check
command plus stored reports, PDF downloads, stats, the masked activity
feed, and the leaderboard.

Examples:
  # Listen on the default address (:8080)
  darkshare serve

  # Listen on a custom address
  darkshare serve --listen 127.0.0.1:9090

  # Use a custom configuration file
  darkshare serve -c myconfig.yaml`,
		RunE: runServeCmd,
	}

	cmd.Flags().StringP("listen", "L", config.DefaultListenAddress,
		"Address for the HTTP API to listen on")
	cmd.Flags().StringP("lang", "l", config.DefaultLanguage,
		"Report language (uk or en)")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .darkshare in current or home directory)")
	cmd.Flags().String("bot-token", "",
		"Telegram bot token for login verification (or DARKSHARE_BOT_TOKEN)")

	return cmd
}

// runServeCmd executes the serve command.
func runServeCmd(cmd *cobra.Command, _ []string) error {
	cfg := config.NewConfig()

	var err error
	cfg.ListenAddress, err = cmd.Flags().GetString("listen")
	if err != nil {
		return err
	}
	cfg.Language, err = cmd.Flags().GetString("lang")
	if err != nil {
		return err
	}
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return err
	}
	cfg.BotToken, err = cmd.Flags().GetString("bot-token")
	if err != nil {
		return err
	}
	if cfg.BotToken == "" {
		cfg.BotToken = os.Getenv("DARKSHARE_BOT_TOKEN")
	}
	cfg.Verbose = getVerboseFlag(cmd)

	if err := applyConfigFile(cfg); err != nil {
		return err
	}
	if cfg.DBDir == "" {
		cfg.DBDir = config.XDGDataDir()
	}

	logger := log.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()
	logger.Info("database opened", "dir", cfg.DBDir)

	checker := newCheckService(cfg, logger)
	srvOpts := []server.Option{server.WithLogger(logger)}
	if cfg.BotToken != "" {
		srvOpts = append(srvOpts, server.WithAuthVerifier(auth.NewVerifier(cfg.BotToken)))
	} else {
		logger.Warn("no bot token configured; telegram login endpoint disabled")
	}
	srv := server.New(db, checker, srvOpts...)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, stopping server...")
		cancel()
	}()

	return srv.Run(ctx, cfg.ListenAddress)
}
