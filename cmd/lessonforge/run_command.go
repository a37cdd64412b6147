package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"lessonforge/internal/intake"
	"lessonforge/internal/pipeline"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var intakePath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Process one lesson order synchronously from a finalized intake file",
		Long: "Reads a finalized intake record from a JSON file and drives it " +
			"through every pipeline stage in-process, without the daemon. The " +
			"order is recorded in the queue exactly as a daemon run would be.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.RequireLLM(); err != nil {
				return err
			}
			if err := cfg.RequireVoice(); err != nil {
				return err
			}

			data, err := os.ReadFile(intakePath)
			if err != nil {
				return fmt.Errorf("read intake file: %w", err)
			}
			var record intake.Intake
			if err := json.Unmarshal(data, &record); err != nil {
				return fmt.Errorf("parse intake file: %w", err)
			}
			if missing := record.MissingFields(); len(missing) > 0 {
				return fmt.Errorf("intake record incomplete; missing %s", strings.Join(missing, ", "))
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

			runner := pipeline.NewRunner(cfg, store, buildStageSet(cfg, store, logger), logger)
			result, err := runner.Run(cmd.Context(), record)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Lesson order %d completed for %s.\n", result.Order.ID, record.ChildName)
			fmt.Fprintf(out, "  Video:          %s\n", result.VideoPath)
			fmt.Fprintf(out, "  Practice sheet: %s\n", result.SheetPath)
			if result.Order.FallbackUsed {
				fmt.Fprintf(out, "  Note: simplified fallback lesson after %d regeneration attempts\n",
					result.Order.QAAttempts)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&intakePath, "intake", "", "Path to a finalized intake JSON file")
	_ = cmd.MarkFlagRequired("intake")
	return cmd
}
