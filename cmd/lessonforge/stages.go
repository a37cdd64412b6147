package main

import (
	"log/slog"

	"lessonforge/internal/config"
	"lessonforge/internal/qa"
	"lessonforge/internal/queue"
	"lessonforge/internal/script"
	"lessonforge/internal/services/llm"
	"lessonforge/internal/sheets"
	"lessonforge/internal/video"
	"lessonforge/internal/visuals"
	"lessonforge/internal/voice"
	"lessonforge/internal/workflow"
)

// buildStageSet wires the production stage handlers. Both the daemon and the
// one-shot run command use the same set so an order behaves identically on
// either path.
func buildStageSet(cfg *config.Config, store *queue.Store, logger *slog.Logger) workflow.StageSet {
	completer := llm.NewClient(llm.Config{
		APIKey:         cfg.LLM.APIKey,
		BaseURL:        cfg.LLM.BaseURL,
		Model:          cfg.LLM.Model,
		Referer:        cfg.LLM.Referer,
		Title:          cfg.LLM.Title,
		TimeoutSeconds: cfg.LLM.TimeoutSeconds,
	})
	generator := script.NewGenerator(completer, cfg.Lesson, logger)

	return workflow.StageSet{
		Script:  script.NewStage(cfg, store, completer, logger),
		QA:      qa.NewStage(cfg, store, generator, completer, logger),
		Voice:   voice.NewStage(cfg, store, logger),
		Visuals: visuals.NewStage(cfg, store, logger),
		Video:   video.NewStage(cfg, store, logger),
		Sheets:  sheets.NewStage(cfg, store, logger),
	}
}
