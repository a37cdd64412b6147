package video

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"lessonforge/internal/config"
	"lessonforge/internal/fileutil"
	"lessonforge/internal/logging"
	"lessonforge/internal/queue"
	"lessonforge/internal/services"
	"lessonforge/internal/stage"
	"lessonforge/internal/staging"
	"lessonforge/internal/textutil"
	"lessonforge/internal/visuals"
)

// Stage composes the final video for orders whose frames are rendered.
type Stage struct {
	cfg      *config.Config
	store    *queue.Store
	composer *Composer
	logger   *slog.Logger
}

// NewStage creates the video composition stage handler.
func NewStage(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Stage {
	stageLogger := logging.NewComponentLogger(logger, "video")
	return NewStageWithComposer(cfg, store, NewComposer(cfg.Video, stageLogger), logger)
}

// NewStageWithComposer allows injecting the composer (used in tests).
func NewStageWithComposer(cfg *config.Config, store *queue.Store, composer *Composer, logger *slog.Logger) *Stage {
	return &Stage{
		cfg:      cfg,
		store:    store,
		composer: composer,
		logger:   logging.NewComponentLogger(logger, "video"),
	}
}

// Prepare validates the artifacts the composer consumes.
func (s *Stage) Prepare(ctx context.Context, order *queue.Order) error {
	order.InitProgress("Rendering video", "Checking scene frames and narration")

	var scenes visuals.Visuals
	if err := stage.DecodeArtifact("visuals", order.VisualsJSON, &scenes); err != nil {
		return err
	}
	if order.AudioPath == "" {
		return services.Wrap(services.ErrValidation, "video", "prepare",
			"order has no narration audio; rerun the audio stage", nil)
	}
	if _, err := os.Stat(order.AudioPath); err != nil {
		return services.Wrap(services.ErrValidation, "video", "prepare",
			"narration audio file missing", err)
	}
	return nil
}

// Execute composes the video and persists its path on the order.
func (s *Stage) Execute(ctx context.Context, order *queue.Order) error {
	logger := logging.WithContext(ctx, s.logger)

	var scenes visuals.Visuals
	if err := stage.DecodeArtifact("visuals", order.VisualsJSON, &scenes); err != nil {
		return err
	}

	workDir := staging.OrderDir(s.cfg.Paths.StagingDir, order.ID)
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "video", "compose", "could not create staging directory", err)
	}
	if err := os.MkdirAll(s.cfg.Paths.OutputDir, 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "video", "compose", "could not create output directory", err)
	}

	// Compose into the order workspace, then publish with an integrity
	// check so a partial write never lands in the output directory.
	stagedPath := filepath.Join(workDir, "lesson.mp4")
	outPath := filepath.Join(s.cfg.Paths.OutputDir,
		fmt.Sprintf("lesson-%d-%s.mp4", order.ID, textutil.SanitizeToken(order.ChildName)))

	order.SetProgress("Rendering video", "Composing frames and narration", 20)
	if err := s.composer.Compose(ctx, &scenes, order.AudioPath, stagedPath); err != nil {
		return err
	}

	order.SetProgress("Rendering video", "Publishing lesson video", 90)
	if err := fileutil.CopyFileVerified(stagedPath, outPath); err != nil {
		return services.Wrap(services.ErrConfiguration, "video", "publish", "could not publish lesson video", err)
	}

	order.VideoPath = outPath
	order.SetProgressComplete("Rendering video", "Lesson video ready")

	logger.Info("lesson video composed",
		logging.Int("scenes", len(scenes.Scenes)),
		logging.String("video_path", outPath))
	return nil
}

// HealthCheck verifies the ffmpeg binaries are resolvable.
func (s *Stage) HealthCheck(ctx context.Context) stage.Health {
	if s.cfg.Paths.OutputDir == "" {
		return stage.Unhealthy("video", "output directory not configured")
	}
	return stage.Healthy("video")
}
