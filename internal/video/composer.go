package video

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lessonforge/internal/config"
	"lessonforge/internal/logging"
	"lessonforge/internal/media/ffmpeg"
	"lessonforge/internal/media/ffprobe"
	"lessonforge/internal/services"
	"lessonforge/internal/visuals"
)

// Prober reports the duration of an audio file in seconds.
type Prober func(ctx context.Context, binary, path string) (float64, error)

// Composer muxes scene frames with narration audio.
type Composer struct {
	video  config.Video
	runner ffmpeg.Runner
	probe  Prober
	logger *slog.Logger
}

// NewComposer creates a composer backed by the configured ffmpeg and
// ffprobe binaries.
func NewComposer(video config.Video, logger *slog.Logger) *Composer {
	return NewComposerWithDeps(video, ffmpeg.NewRunner(video.FFmpegBinary), ffprobe.AudioDuration, logger)
}

// NewComposerWithDeps allows injecting the runner and prober (used in tests).
func NewComposerWithDeps(video config.Video, runner ffmpeg.Runner, probe Prober, logger *slog.Logger) *Composer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Composer{video: video, runner: runner, probe: probe, logger: logger}
}

func (c *Composer) fps() int {
	if c.video.FPS > 0 {
		return c.video.FPS
	}
	return 24
}

func (c *Composer) frameSize() (int, int) {
	width, height := c.video.Width, c.video.Height
	if width <= 0 {
		width = 1280
	}
	if height <= 0 {
		height = 720
	}
	return width, height
}

func (c *Composer) crossfade() float64 {
	if c.video.CrossfadeSeconds > 0 {
		return c.video.CrossfadeSeconds
	}
	return 0.5
}

func (c *Composer) smoothTimeout() time.Duration {
	if c.video.SmoothTimeoutSeconds > 0 {
		return time.Duration(c.video.SmoothTimeoutSeconds) * time.Second
	}
	return 10 * time.Minute
}

// Compose renders the final video at outPath. The audio file's probed
// duration governs all timing; the output is trimmed with -shortest so it
// never exceeds the narration.
func (c *Composer) Compose(ctx context.Context, scenes *visuals.Visuals, audioPath, outPath string) error {
	if scenes == nil || len(scenes.Scenes) == 0 {
		return services.Wrap(services.ErrValidation, "video", "compose", "no scenes to compose", nil)
	}
	if strings.TrimSpace(audioPath) == "" {
		return services.Wrap(services.ErrValidation, "video", "compose", "missing narration audio path", nil)
	}

	audioSeconds, err := c.probe(ctx, c.video.FFprobeBinary, audioPath)
	if err != nil {
		return services.Wrap(services.ErrExternalService, "video", "probe audio", "could not determine narration duration", err)
	}

	if c.video.SmoothEnabled && len(scenes.Scenes) > 1 {
		smoothCtx, cancel := context.WithTimeout(ctx, c.smoothTimeout())
		err := c.runner.Run(smoothCtx, c.smoothArgs(scenes, audioPath, outPath))
		cancel()
		if err == nil {
			c.logger.Info("video composed with crossfades",
				logging.Float64("audio_seconds", audioSeconds),
				logging.String("output", outPath))
			return nil
		}
		if ctx.Err() != nil {
			return services.Wrap(services.ErrExternalService, "video", "compose", "composition canceled", ctx.Err())
		}
		c.logger.Warn("smooth composition failed, falling back to basic cuts",
			logging.Error(err))
	}

	return c.composeBasic(ctx, scenes, audioPath, outPath, audioSeconds)
}

func (c *Composer) composeBasic(ctx context.Context, scenes *visuals.Visuals, audioPath, outPath string, audioSeconds float64) error {
	listPath := filepath.Join(filepath.Dir(outPath), "concat-list.txt")
	perScene := audioSeconds / float64(len(scenes.Scenes))
	content := concatListContent(scenes.FramePaths(), perScene)
	if err := os.WriteFile(listPath, []byte(content), 0o644); err != nil {
		return services.Wrap(services.ErrConfiguration, "video", "compose", "could not write concat list", err)
	}
	defer os.Remove(listPath)

	if err := c.runner.Run(ctx, c.basicArgs(listPath, audioPath, outPath)); err != nil {
		return services.Wrap(services.ErrExternalService, "video", "compose", "ffmpeg composition failed", err)
	}
	c.logger.Info("video composed",
		logging.Float64("audio_seconds", audioSeconds),
		logging.Float64("seconds_per_scene", perScene),
		logging.String("output", outPath))
	return nil
}

// concatListContent builds the ffmpeg concat demuxer list assigning every
// frame the same duration. The final frame is repeated because the demuxer
// ignores the duration of the last entry.
func concatListContent(framePaths []string, perScene float64) string {
	var b strings.Builder
	for _, path := range framePaths {
		fmt.Fprintf(&b, "file '%s'\n", path)
		fmt.Fprintf(&b, "duration %.3f\n", perScene)
	}
	if len(framePaths) > 0 {
		fmt.Fprintf(&b, "file '%s'\n", framePaths[len(framePaths)-1])
	}
	return b.String()
}

func (c *Composer) basicArgs(listPath, audioPath, outPath string) []string {
	width, height := c.frameSize()
	return []string{
		"-y",
		"-f", "concat", "-safe", "0", "-i", listPath,
		"-i", audioPath,
		"-vf", fmt.Sprintf("scale=%d:%d,setsar=1", width, height),
		"-r", fmt.Sprintf("%d", c.fps()),
		"-c:v", "libx264", "-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-shortest",
		outPath,
	}
}

// smoothArgs builds the crossfade composition: every frame becomes a looped
// input held for its planned scene duration, chained with xfade filters.
func (c *Composer) smoothArgs(scenes *visuals.Visuals, audioPath, outPath string) []string {
	width, height := c.frameSize()
	fade := c.crossfade()

	args := []string{"-y"}
	for _, scene := range scenes.Scenes {
		args = append(args,
			"-loop", "1",
			"-t", fmt.Sprintf("%.3f", scene.Duration),
			"-i", scene.FramePath)
	}
	args = append(args, "-i", audioPath)

	var filter strings.Builder
	for i := range scenes.Scenes {
		fmt.Fprintf(&filter, "[%d:v]scale=%d:%d,setsar=1[v%d];", i, width, height, i)
	}
	previous := "[v0]"
	offset := 0.0
	for i := 1; i < len(scenes.Scenes); i++ {
		offset += scenes.Scenes[i-1].Duration - fade
		label := fmt.Sprintf("[x%d]", i)
		fmt.Fprintf(&filter, "%s[v%d]xfade=transition=fade:duration=%.3f:offset=%.3f%s;",
			previous, i, fade, offset, label)
		previous = label
	}
	filterExpr := strings.TrimSuffix(filter.String(), ";")

	args = append(args,
		"-filter_complex", filterExpr,
		"-map", previous,
		"-map", fmt.Sprintf("%d:a", len(scenes.Scenes)),
		"-r", fmt.Sprintf("%d", c.fps()),
		"-c:v", "libx264", "-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-shortest",
		outPath,
	)
	return args
}
