package visuals

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"lessonforge/internal/config"
	"lessonforge/internal/logging"
	"lessonforge/internal/script"
	"lessonforge/internal/services"
)

// Renderer turns a lesson script into a timed scene sequence with
// rasterized frames.
type Renderer struct {
	video  config.Video
	lesson config.Lesson
	logger *slog.Logger
}

// NewRenderer creates a renderer.
func NewRenderer(video config.Video, lesson config.Lesson, logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Renderer{video: video, lesson: lesson, logger: logger}
}

func (r *Renderer) wordsPerSecond() float64 {
	if r.lesson.WordsPerSecond > 0 {
		return r.lesson.WordsPerSecond
	}
	return 2.5
}

func (r *Renderer) minSceneSeconds() float64 {
	if r.lesson.MinSceneSeconds > 0 {
		return r.lesson.MinSceneSeconds
	}
	return 3
}

func (r *Renderer) pauseSeconds() float64 {
	if r.lesson.PauseSeconds > 0 {
		return r.lesson.PauseSeconds
	}
	return 30
}

func (r *Renderer) titleSeconds() float64 {
	if r.lesson.TitleSeconds > 0 {
		return r.lesson.TitleSeconds
	}
	return 5
}

// proseDuration derives a scene duration from its word count at a fixed
// words-per-second rate, with a minimum floor.
func (r *Renderer) proseDuration(text string) float64 {
	duration := float64(len(strings.Fields(text))) / r.wordsPerSecond()
	if floor := r.minSceneSeconds(); duration < floor {
		return floor
	}
	return duration
}

// builder accumulates scenes while maintaining the running time cursor.
type builder struct {
	dir      string
	scenes   []Scene
	cursor   float64
	frameErr error
}

func (b *builder) add(sceneType SceneType, duration float64, render func(path string) error) {
	id := len(b.scenes) + 1
	framePath := filepath.Join(b.dir, fmt.Sprintf("scene-%03d.png", id))
	if b.frameErr == nil {
		b.frameErr = render(framePath)
	}
	b.scenes = append(b.scenes, Scene{
		ID:        id,
		Type:      sceneType,
		Duration:  duration,
		StartTime: b.cursor,
		FramePath: framePath,
	})
	b.cursor += duration
}

// Render decomposes the script into scenes and rasterizes one frame per
// scene into dir.
func (r *Renderer) Render(lesson *script.LessonScript, dir string) (*Visuals, error) {
	if lesson == nil {
		return nil, services.Wrap(services.ErrValidation, "visuals", "render", "nil lesson script", nil)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "visuals", "render", "could not create frame directory", err)
	}

	frames := newFramePainter(r.video)
	b := &builder{dir: dir}

	b.add(SceneTitle, r.titleSeconds(), func(path string) error {
		return frames.paintTitle(path, lesson.Title)
	})

	r.addProse(b, frames, lesson.Introduction)
	r.addProse(b, frames, lesson.CoreExplanation)

	r.addSegment(b, frames, lesson.PracticeOne, 1)
	r.addProse(b, frames, lesson.DeeperExplanation)
	r.addSegment(b, frames, lesson.PracticeTwo, 2)

	if text := strings.TrimSpace(lesson.MiniChallenge); text != "" {
		b.add(SceneChallenge, r.proseDuration(text), func(path string) error {
			return frames.paintText(path, "Challenge", text)
		})
	}
	if text := strings.TrimSpace(lesson.Closing); text != "" {
		b.add(SceneClosing, r.proseDuration(text), func(path string) error {
			return frames.paintText(path, "", text)
		})
	}

	if b.frameErr != nil {
		return nil, services.Wrap(services.ErrExternalService, "visuals", "render", "frame rasterization failed", b.frameErr)
	}

	visuals := &Visuals{Scenes: b.scenes, TotalDuration: b.cursor}
	r.logger.Info("visual scenes rendered",
		logging.Int("scenes", len(visuals.Scenes)),
		logging.Float64("total_seconds", visuals.TotalDuration),
		logging.String("frame_dir", dir))
	return visuals, nil
}

func (r *Renderer) addProse(b *builder, frames *framePainter, text string) {
	for _, segment := range splitProse(text) {
		b.add(SceneExplanation, r.proseDuration(segment), func(path string) error {
			return frames.paintText(path, "", segment)
		})
	}
}

// addSegment emits the scene run for one practice segment: setup and prompt
// prose, a fixed generous pause displaying the items, then the reveal.
func (r *Renderer) addSegment(b *builder, frames *framePainter, segment script.PracticeSegment, number int) {
	r.addProse(b, frames, segment.Setup)
	r.addProse(b, frames, segment.PausePrompt)

	items := segment.Items
	b.add(ScenePause, r.pauseSeconds(), func(path string) error {
		return frames.paintPractice(path, fmt.Sprintf("Practice %d - your turn!", number), items)
	})

	reveal := strings.TrimSpace(strings.TrimSpace(segment.Resume) + "\n\n" + strings.TrimSpace(segment.AnswerReveal))
	b.add(SceneReveal, r.proseDuration(reveal), func(path string) error {
		return frames.paintText(path, "Answers", reveal)
	})
}
