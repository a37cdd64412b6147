package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"lessonforge/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:         "config",
		Short:       "Inspect or create the configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	configCmd.AddCommand(newConfigShowCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())
	return configCmd
}

func newConfigShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config file: %s\n\n", ctx.configPath)
			fmt.Fprintf(out, "Staging dir:  %s\n", cfg.Paths.StagingDir)
			fmt.Fprintf(out, "Output dir:   %s\n", cfg.Paths.OutputDir)
			fmt.Fprintf(out, "Log dir:      %s\n", cfg.Paths.LogDir)
			fmt.Fprintf(out, "LLM model:    %s\n", cfg.LLM.Model)
			fmt.Fprintf(out, "LLM key set:  %s\n", yesNo(strings.TrimSpace(cfg.LLM.APIKey) != ""))
			fmt.Fprintf(out, "Voice model:  %s\n", cfg.Voice.Model)
			fmt.Fprintf(out, "Voice key set: %s\n", yesNo(strings.TrimSpace(cfg.Voice.APIKey) != ""))
			fmt.Fprintf(out, "ntfy topic:   %s\n", cfg.Notifications.NtfyTopic)
			fmt.Fprintf(out, "Video:        %dx%d @ %d fps, smooth=%s\n",
				cfg.Video.Width, cfg.Video.Height, cfg.Video.FPS, yesNo(cfg.Video.SmoothEnabled))
			fmt.Fprintf(out, "Lesson:       %d minutes target\n", cfg.Lesson.TargetMinutes)
			return nil
		},
	}
}

func newConfigInitCommand() *cobra.Command {
	var pathFlag string

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := strings.TrimSpace(pathFlag)
			if path == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return err
				}
				path = defaultPath
			}
			if err := config.WriteSample(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&pathFlag, "path", "", "Destination path for the sample config")
	return cmd
}
