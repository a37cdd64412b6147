package visuals

import (
	"context"
	"log/slog"
	"path/filepath"

	"lessonforge/internal/config"
	"lessonforge/internal/logging"
	"lessonforge/internal/queue"
	"lessonforge/internal/script"
	"lessonforge/internal/stage"
	"lessonforge/internal/staging"
)

// Stage renders the scene frames for orders with narration audio ready.
type Stage struct {
	cfg      *config.Config
	store    *queue.Store
	renderer *Renderer
	logger   *slog.Logger
}

// NewStage creates the visual rendering stage handler.
func NewStage(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Stage {
	stageLogger := logging.NewComponentLogger(logger, "visuals")
	return &Stage{
		cfg:      cfg,
		store:    store,
		renderer: NewRenderer(cfg.Video, cfg.Lesson, stageLogger),
		logger:   stageLogger,
	}
}

// Prepare validates the script artifact before rendering starts.
func (s *Stage) Prepare(ctx context.Context, order *queue.Order) error {
	order.InitProgress("Generating visuals", "Planning scenes")
	var lesson script.LessonScript
	return stage.DecodeArtifact("script", order.ScriptJSON, &lesson)
}

// Execute renders the scene sequence and persists it on the order.
func (s *Stage) Execute(ctx context.Context, order *queue.Order) error {
	logger := logging.WithContext(ctx, s.logger)

	var lesson script.LessonScript
	if err := stage.DecodeArtifact("script", order.ScriptJSON, &lesson); err != nil {
		return err
	}

	frameDir := filepath.Join(staging.OrderDir(s.cfg.Paths.StagingDir, order.ID), "frames")
	order.SetProgress("Generating visuals", "Rendering scene frames", 20)

	visuals, err := s.renderer.Render(&lesson, frameDir)
	if err != nil {
		return err
	}

	encoded, err := stage.EncodeArtifact("visuals", visuals)
	if err != nil {
		return err
	}
	order.VisualsJSON = encoded
	order.SetProgressComplete("Generating visuals", "Scene frames ready")

	logger.Info("scene frames rendered",
		logging.Int("scenes", len(visuals.Scenes)),
		logging.Float64("total_seconds", visuals.TotalDuration))
	return nil
}

// HealthCheck reports readiness; rendering has no external dependency.
func (s *Stage) HealthCheck(ctx context.Context) stage.Health {
	if s.cfg.Paths.StagingDir == "" {
		return stage.Unhealthy("visuals", "staging directory not configured")
	}
	return stage.Healthy("visuals")
}
