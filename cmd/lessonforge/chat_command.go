package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lessonforge/internal/intake"
	"lessonforge/internal/notifications"
	"lessonforge/internal/services/llm"
)

func newChatCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Run the intake conversation and queue a lesson",
		Long: "Starts an interactive intake conversation on stdin. When the " +
			"conversation completes, the finalized intake is queued as a new " +
			"lesson order for the daemon to process.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.RequireLLM(); err != nil {
				return err
			}

			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			completer := llm.NewClient(llm.Config{
				APIKey:         cfg.LLM.APIKey,
				BaseURL:        cfg.LLM.BaseURL,
				Model:          cfg.LLM.Model,
				Referer:        cfg.LLM.Referer,
				Title:          cfg.LLM.Title,
				TimeoutSeconds: cfg.LLM.TimeoutSeconds,
			})
			engine := intake.NewEngine(completer, nil)
			state := intake.NewConversationState()

			out := cmd.OutOrStdout()
			scanner := bufio.NewScanner(cmd.InOrStdin())

			reply, err := engine.Advance(cmd.Context(), state, "")
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%s\n", reply)

			for !state.Completed() {
				fmt.Fprint(out, "\n> ")
				if !scanner.Scan() {
					if err := scanner.Err(); err != nil {
						return err
					}
					fmt.Fprintln(out, "\nConversation ended before completion; nothing queued.")
					return nil
				}
				message := strings.TrimSpace(scanner.Text())
				if message == "" {
					continue
				}
				if message == "/quit" {
					fmt.Fprintln(out, "Conversation abandoned; nothing queued.")
					return nil
				}

				reply, err := engine.Advance(cmd.Context(), state, message)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "\n%s\n", reply)
			}

			record, err := state.Finalize()
			if err != nil {
				return err
			}

			intakeJSON, err := json.Marshal(record)
			if err != nil {
				return err
			}
			order, err := store.NewOrder(cmd.Context(), state.SessionID, record.ChildName, "", string(intakeJSON))
			if err != nil {
				return err
			}

			if cfg.Notifications.Queue {
				notifier := notifications.NewService(cfg)
				if err := notifier.NotifyLessonQueued(cmd.Context(), record.ChildName, record.Topic); err != nil {
					fmt.Fprintf(out, "Warning: queued notification failed: %v\n", err)
				}
			}

			fmt.Fprintf(out, "\nLesson order %d queued for %s (%s, grade %s).\n",
				order.ID, record.ChildName, record.Topic, record.Grade)
			fmt.Fprintln(out, "Run `lessonforge daemon` to process it.")
			return nil
		},
	}
}
