package script

import (
	"context"
	"log/slog"

	"lessonforge/internal/config"
	"lessonforge/internal/intake"
	"lessonforge/internal/logging"
	"lessonforge/internal/queue"
	"lessonforge/internal/services"
	"lessonforge/internal/stage"
)

// Stage generates the lesson script for pending orders.
type Stage struct {
	cfg       *config.Config
	store     *queue.Store
	generator *Generator
	logger    *slog.Logger
}

// NewStage creates the script generation stage handler.
func NewStage(cfg *config.Config, store *queue.Store, completer Completer, logger *slog.Logger) *Stage {
	stageLogger := logging.NewComponentLogger(logger, "script")
	return &Stage{
		cfg:       cfg,
		store:     store,
		generator: NewGenerator(completer, cfg.Lesson, stageLogger),
		logger:    stageLogger,
	}
}

// Prepare validates the frozen intake before generation starts.
func (s *Stage) Prepare(ctx context.Context, order *queue.Order) error {
	order.InitProgress("Generating script", "Building lesson prompt")

	var record intake.Intake
	if err := stage.DecodeArtifact("intake", order.IntakeJSON, &record); err != nil {
		return err
	}
	if !record.Complete() {
		return services.Wrap(services.ErrValidation, "script", "prepare",
			"intake record incomplete; re-run the intake conversation", nil)
	}
	return nil
}

// Execute generates the script and persists it on the order.
func (s *Stage) Execute(ctx context.Context, order *queue.Order) error {
	logger := logging.WithContext(ctx, s.logger)

	var record intake.Intake
	if err := stage.DecodeArtifact("intake", order.IntakeJSON, &record); err != nil {
		return err
	}

	order.SetProgress("Generating script", "Requesting lesson draft", 10)
	lesson, err := s.generator.Generate(ctx, record)
	if err != nil {
		return err
	}

	encoded, err := stage.EncodeArtifact("script", lesson)
	if err != nil {
		return err
	}
	order.ScriptJSON = encoded
	order.LessonTitle = lesson.Title
	order.SetProgressComplete("Generating script", "Lesson draft ready")

	logger.Info("lesson script generated",
		logging.String("title", lesson.Title),
		logging.Int("word_count", lesson.WordCount),
		logging.Int("practice_items", len(lesson.AllItems())))
	return nil
}

// HealthCheck reports readiness of the completion dependency.
func (s *Stage) HealthCheck(ctx context.Context) stage.Health {
	if err := s.cfg.RequireLLM(); err != nil {
		return stage.Unhealthy("script", err.Error())
	}
	type healthChecker interface{ HealthCheck(context.Context) error }
	if hc, ok := s.generator.completer.(healthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return stage.Unhealthy("script", err.Error())
		}
	}
	return stage.Healthy("script")
}
