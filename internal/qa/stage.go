package qa

import (
	"context"
	"log/slog"

	"lessonforge/internal/config"
	"lessonforge/internal/intake"
	"lessonforge/internal/logging"
	"lessonforge/internal/queue"
	"lessonforge/internal/script"
	"lessonforge/internal/stage"
)

// Stage verifies generated scripts and persists the accepted version.
type Stage struct {
	cfg        *config.Config
	store      *queue.Store
	controller *Controller
	logger     *slog.Logger
}

// NewStage creates the QA verification stage handler.
func NewStage(cfg *config.Config, store *queue.Store, generator Generator, completer Completer, logger *slog.Logger) *Stage {
	stageLogger := logging.NewComponentLogger(logger, "qa")
	verifier := NewVerifier(completer, cfg.QA, cfg.Lesson, stageLogger)
	return &Stage{
		cfg:        cfg,
		store:      store,
		controller: NewController(generator, verifier, cfg.QA.MaxAttempts, stageLogger),
		logger:     stageLogger,
	}
}

// Prepare validates the script artifact before verification starts.
func (s *Stage) Prepare(ctx context.Context, order *queue.Order) error {
	order.InitProgress("Verifying quality", "Checking lesson script")
	var lesson script.LessonScript
	return stage.DecodeArtifact("script", order.ScriptJSON, &lesson)
}

// Execute runs the verify/regenerate cycle and persists the outcome.
func (s *Stage) Execute(ctx context.Context, order *queue.Order) error {
	logger := logging.WithContext(ctx, s.logger)

	var record intake.Intake
	if err := stage.DecodeArtifact("intake", order.IntakeJSON, &record); err != nil {
		return err
	}
	var lesson script.LessonScript
	if err := stage.DecodeArtifact("script", order.ScriptJSON, &lesson); err != nil {
		return err
	}

	order.SetProgress("Verifying quality", "Running quality checks", 20)
	outcome, err := s.controller.VerifyAndRegenerate(ctx, &lesson, record)
	if err != nil {
		return err
	}

	scriptJSON, err := stage.EncodeArtifact("script", outcome.Script)
	if err != nil {
		return err
	}
	reportJSON, err := stage.EncodeArtifact("qa report", outcome.Result)
	if err != nil {
		return err
	}
	order.ScriptJSON = scriptJSON
	order.QAReportJSON = reportJSON
	order.QAAttempts = outcome.Attempts
	order.FallbackUsed = outcome.FallbackUsed
	order.LessonTitle = outcome.Script.Title
	order.SetProgressComplete("Verifying quality", "Quality checks finished")

	logger.Info("qa verification finished",
		logging.Bool("passed", outcome.Result.Passed),
		logging.Int("attempts", outcome.Attempts),
		logging.Bool("fallback_used", outcome.FallbackUsed),
		logging.Int("warnings", len(outcome.Result.Warnings)))
	return nil
}

// HealthCheck reports readiness of the grading dependency.
func (s *Stage) HealthCheck(ctx context.Context) stage.Health {
	if err := s.cfg.RequireLLM(); err != nil {
		return stage.Unhealthy("qa", err.Error())
	}
	return stage.Healthy("qa")
}
