// Package cli defines gcdweb's commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sanverite/gcdweb/internal/api"
	"github.com/sanverite/gcdweb/internal/config"
	"github.com/sanverite/gcdweb/internal/i18n"
	"github.com/sanverite/gcdweb/internal/logging"
)

// Execute runs the root command with the process arguments. Errors are
// printed before being returned.
func Execute(version string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd := NewRootCmd(version, os.Stdout, os.Stderr)
	return cmd.ExecuteContext(ctx)
}

// NewRootCmd builds the command tree. Running the root command without a
// subcommand serves.
func NewRootCmd(version string, stdout, stderr io.Writer) *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:          "gcdweb",
		Short:        "Serve a web form that computes greatest common divisors",
		Version:      version,
		SilenceUsage: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to config file (default: search for gcdweb.yaml)")
	config.RegisterFlags(root.PersistentFlags())

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags(), cfgFile)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg, cmd.ErrOrStderr())
		},
	}
	root.RunE = serve.RunE
	root.Args = cobra.NoArgs

	show := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd.Flags(), cfgFile)
			if err != nil {
				return err
			}
			out, err := config.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	root.AddCommand(serve, show)
	return root
}

// runServe starts the server and blocks until ctx is cancelled.
func runServe(ctx context.Context, cfg config.Config, logOut io.Writer) error {
	logger, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: logOut,
	})
	if err != nil {
		return err
	}

	catalog, err := i18n.New(cfg.Language)
	if err != nil {
		return err
	}

	srv, err := api.NewServer(catalog, api.ServerOptions{
		Addr:              cfg.Listen,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		ShutdownTimeout:   cfg.ShutdownTimeout,
		MaxBodyBytes:      cfg.MaxBodyBytes,
		GzipMinSize:       cfg.GzipMinSize,
		Logger:            logger,
	})
	if err != nil {
		return err
	}

	if err := srv.Start(); err != nil {
		logger.Error("gcdweb: startup failed", "err", err)
		return err
	}
	logger.Info("gcdweb: serving", "url", fmt.Sprintf("http://%s/", srv.Addr()), "language", cfg.Language)

	<-ctx.Done()
	uptime := srv.Uptime()
	logger.Info("gcdweb: shutting down", "cause", context.Cause(ctx))

	if err := srv.Stop(context.WithoutCancel(ctx)); err != nil {
		logger.Error("gcdweb: graceful shutdown error", "err", err)
		return err
	}
	logger.Info("gcdweb: stopped", slog.Duration("uptime", uptime.Round(time.Second)))
	return nil
}
