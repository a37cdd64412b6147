package sheets

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"lessonforge/internal/config"
	"lessonforge/internal/logging"
	"lessonforge/internal/queue"
	"lessonforge/internal/script"
	"lessonforge/internal/services"
	"lessonforge/internal/stage"
	"lessonforge/internal/textutil"
)

// Stage writes the practice sheet for orders whose video is rendered.
type Stage struct {
	cfg    *config.Config
	store  *queue.Store
	logger *slog.Logger
}

// NewStage creates the practice sheet stage handler.
func NewStage(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Stage {
	return &Stage{
		cfg:    cfg,
		store:  store,
		logger: logging.NewComponentLogger(logger, "sheets"),
	}
}

// Prepare validates the script artifact.
func (s *Stage) Prepare(ctx context.Context, order *queue.Order) error {
	order.InitProgress("Generating sheets", "Collecting practice items")
	var lesson script.LessonScript
	return stage.DecodeArtifact("script", order.ScriptJSON, &lesson)
}

// Execute writes the markdown practice sheet and persists its path.
func (s *Stage) Execute(ctx context.Context, order *queue.Order) error {
	logger := logging.WithContext(ctx, s.logger)

	var lesson script.LessonScript
	if err := stage.DecodeArtifact("script", order.ScriptJSON, &lesson); err != nil {
		return err
	}

	if err := os.MkdirAll(s.cfg.Paths.OutputDir, 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "sheets", "write sheet", "could not create output directory", err)
	}
	sheetPath := filepath.Join(s.cfg.Paths.OutputDir,
		fmt.Sprintf("lesson-%d-%s-practice.md", order.ID, textutil.SanitizeToken(order.ChildName)))

	order.SetProgress("Generating sheets", "Writing practice sheet", 40)
	content := Build(&lesson, order.ChildName)
	if err := os.WriteFile(sheetPath, []byte(content), 0o644); err != nil {
		return services.Wrap(services.ErrConfiguration, "sheets", "write sheet", "could not write practice sheet", err)
	}

	order.SheetPath = sheetPath
	order.SetProgressComplete("Generating sheets", "Practice sheet ready")

	logger.Info("practice sheet written",
		logging.Int("practice_items", len(lesson.AllItems())),
		logging.String("sheet_path", sheetPath))
	return nil
}

// HealthCheck verifies the output directory is configured.
func (s *Stage) HealthCheck(ctx context.Context) stage.Health {
	if s.cfg.Paths.OutputDir == "" {
		return stage.Unhealthy("sheets", "output directory not configured")
	}
	return stage.Healthy("sheets")
}
