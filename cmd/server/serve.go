package main

import (
	"context"
	"os"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/honeycarbs/job-aggregator/internal/domain"
	"github.com/honeycarbs/job-aggregator/internal/mcp"
	"github.com/honeycarbs/job-aggregator/internal/scheduler"
	"github.com/honeycarbs/job-aggregator/pkg/shutdown"
)

var (
	serveHost     string
	servePort     string
	serveSchedule string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the MCP endpoint and REST API, running scheduled imports",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Listen host (overrides HOST)")
	serveCmd.Flags().StringVar(&servePort, "port", "", "Listen port (overrides PORT)")
	serveCmd.Flags().StringVar(&serveSchedule, "schedule", "", "Cron spec for periodic imports (overrides IMPORT_SCHEDULE)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if serveHost != "" {
		cfg.Host = serveHost
	}
	if servePort != "" {
		cfg.Port = servePort
	}
	if serveSchedule != "" {
		cfg.Import.Schedule = serveSchedule
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	res, cleanup, err := mcp.InitializeResources(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	srv, err := mcp.NewServer(logger.Named("http"), cfg, res)
	if err != nil {
		return err
	}

	targets := []shutdown.Stoppable{srv}
	if cfg.Import.Schedule != "" {
		sched, err := scheduler.New(res.JobService, cfg.Import.Schedule, domain.ImportRequest{
			Countries:         cfg.Import.Countries,
			Queries:           cfg.Import.Queries,
			MaxJobsPerCountry: cfg.Import.MaxJobsPerCountry,
		}, logger.Named("scheduler"))
		if err != nil {
			return err
		}
		if err := sched.Start(ctx); err != nil {
			return err
		}
		targets = append(targets, shutdown.Func(func(context.Context) error {
			sched.Stop()
			return nil
		}))
	}

	go shutdown.Graceful(
		ctx,
		[]os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGHUP},
		10*time.Second,
		logger,
		targets...,
	)

	logger.Info("server initialized and starting", "addr", cfg.Addr(), "store", cfg.Store.Driver)

	if err := srv.Run(); err != nil {
		logger.Error("server exited with error", "err", err)
		return err
	}
	logger.Info("server stopped")
	return nil
}
