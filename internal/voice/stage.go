package voice

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"lessonforge/internal/config"
	"lessonforge/internal/intake"
	"lessonforge/internal/logging"
	"lessonforge/internal/queue"
	"lessonforge/internal/script"
	"lessonforge/internal/services"
	"lessonforge/internal/stage"
	"lessonforge/internal/staging"
)

// Synthesizer is the synthesis surface the stage needs. *Client satisfies it.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voiceID string) ([]byte, error)
	HealthCheck(ctx context.Context) error
}

// Stage synthesizes narration audio for QA-verified orders.
type Stage struct {
	cfg    *config.Config
	store  *queue.Store
	client Synthesizer
	logger *slog.Logger
}

// NewStage creates the audio synthesis stage handler.
func NewStage(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Stage {
	client := NewClient(Config{
		APIKey:           cfg.Voice.APIKey,
		BaseURL:          cfg.Voice.BaseURL,
		Model:            cfg.Voice.Model,
		Timeout:          cfg.VoiceTimeout(),
		ThrottleCooldown: cfg.ThrottleCooldown(),
	})
	return NewStageWithClient(cfg, store, client, logger)
}

// NewStageWithClient allows injecting the synthesis client (used in tests).
func NewStageWithClient(cfg *config.Config, store *queue.Store, client Synthesizer, logger *slog.Logger) *Stage {
	return &Stage{
		cfg:    cfg,
		store:  store,
		client: client,
		logger: logging.NewComponentLogger(logger, "voice"),
	}
}

// Prepare validates configuration and the script artifact.
func (s *Stage) Prepare(ctx context.Context, order *queue.Order) error {
	order.InitProgress("Generating audio", "Preparing narration")
	if err := s.cfg.RequireVoice(); err != nil {
		return services.Wrap(services.ErrConfiguration, "voice", "prepare", err.Error(), nil)
	}
	var lesson script.LessonScript
	return stage.DecodeArtifact("script", order.ScriptJSON, &lesson)
}

// Execute synthesizes the narration and persists the audio file.
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

	narration := CleanNarration(lesson.FullNarration)
	voiceID := s.cfg.VoiceForTone(record.Tone)

	order.SetProgress("Generating audio", "Synthesizing narration", 20)
	audio, err := s.client.Synthesize(ctx, narration, voiceID)
	if err != nil {
		return err
	}

	dir := staging.OrderDir(s.cfg.Paths.StagingDir, order.ID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "voice", "persist audio", "could not create staging directory", err)
	}
	audioPath := filepath.Join(dir, "narration.mp3")
	if err := os.WriteFile(audioPath, audio, 0o644); err != nil {
		return services.Wrap(services.ErrConfiguration, "voice", "persist audio", "could not write narration audio", err)
	}

	order.AudioPath = audioPath
	order.SetProgressComplete("Generating audio", "Narration audio ready")

	logger.Info("narration synthesized",
		logging.String("voice_id", voiceID),
		logging.Int("audio_bytes", len(audio)),
		logging.String("audio_path", audioPath))
	return nil
}

// HealthCheck reports readiness of the synthesis dependency.
func (s *Stage) HealthCheck(ctx context.Context) stage.Health {
	if err := s.cfg.RequireVoice(); err != nil {
		return stage.Unhealthy("voice", err.Error())
	}
	if err := s.client.HealthCheck(ctx); err != nil {
		return stage.Unhealthy("voice", err.Error())
	}
	return stage.Healthy("voice")
}
