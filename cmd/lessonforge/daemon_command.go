package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"lessonforge/internal/daemon"
	"lessonforge/internal/logging"
	"lessonforge/internal/preflight"
	"lessonforge/internal/workflow"
)

func newDaemonCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "daemon",
		Short: "Run the lesson processing daemon in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.newLogger()
			if err != nil {
				return err
			}

			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if reset, err := store.ResetStuckProcessing(runCtx); err != nil {
				logger.Warn("reset stuck orders failed", logging.Error(err))
			} else if reset > 0 {
				logger.Info("reset stuck orders from previous run", logging.Int64("count", reset))
			}

			for _, result := range preflight.FailedOnly(preflight.RunAll(runCtx, cfg)) {
				logger.Warn("preflight check failed",
					logging.String("check", result.Name),
					logging.String("detail", result.Detail))
			}
			for _, status := range preflight.CheckSystemDeps(cfg) {
				if !status.Available && !status.Optional {
					logger.Warn("required binary unavailable",
						logging.String("binary", status.Name),
						logging.String("detail", status.Detail))
				}
			}

			manager := workflow.NewManager(cfg, store, logger)
			manager.ConfigureStages(buildStageSet(cfg, store, logger))

			d, err := daemon.New(cfg, store, logger, manager)
			if err != nil {
				return err
			}
			if err := d.Start(runCtx); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), "lessonforge daemon running; press Ctrl-C to stop")
			<-runCtx.Done()
			d.Stop()
			return nil
		},
	}
}
