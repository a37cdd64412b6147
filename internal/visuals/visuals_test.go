package visuals

import (
	"math"
	"os"
	"strings"
	"testing"

	"lessonforge/internal/config"
	"lessonforge/internal/script"
)

func testLesson() *script.LessonScript {
	return &script.LessonScript{
		Title:           "Maya's Multiplication Facts Lesson",
		Introduction:    "Hi Maya! Today we are going to master the sevens together.",
		CoreExplanation: "Multiplying by seven is just repeated addition. Seven groups of three is the same as counting by threes seven times.",
		PracticeOne: script.PracticeSegment{
			Setup:       "Grab a pencil, because it is your turn.",
			PausePrompt: "Pause the video and try these three problems.",
			Items: []script.PracticeItem{
				{Problem: "7 x 3", Answer: "21"},
				{Problem: "7 x 4", Answer: "28"},
			},
			Resume:       "Welcome back! Let's check your work.",
			AnswerReveal: "Seven times three is twenty-one, and seven times four is twenty-eight.",
		},
		DeeperExplanation: "Here is a trick: seven times anything is five times it plus two times it.",
		PracticeTwo: script.PracticeSegment{
			Setup:       "One more round, a little harder this time.",
			PausePrompt: "Pause again and work these out.",
			Items: []script.PracticeItem{
				{Problem: "7 x 8", Answer: "56"},
			},
			Resume:       "Okay, pencils down.",
			AnswerReveal: "Seven times eight is fifty-six.",
		},
		MiniChallenge: "Can you figure out seven times twelve without writing anything down?",
		Closing:       "Great work today, Maya. See you next time!",
	}
}

func testRenderer() *Renderer {
	video := config.Video{Width: 320, Height: 180}
	lesson := config.Lesson{
		WordsPerSecond:  2.5,
		MinSceneSeconds: 3,
		PauseSeconds:    30,
		TitleSeconds:    5,
	}
	return NewRenderer(video, lesson, nil)
}

func TestSplitProseOnPauseMarkers(t *testing.T) {
	text := "First part here. " + script.PauseMarker + " Second part here."
	segments := splitProse(text)
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d: %v", len(segments), segments)
	}
	if segments[0] != "First part here." {
		t.Fatalf("unexpected first segment: %q", segments[0])
	}
	if strings.Contains(segments[1], script.PauseMarker) {
		t.Fatalf("pause marker leaked into segment: %q", segments[1])
	}
}

func TestSplitProseSentenceFallback(t *testing.T) {
	sentence := strings.Repeat("word ", 40) + "end."
	text := sentence + " " + sentence + " " + sentence
	segments := splitProse(text)
	if len(segments) < 2 {
		t.Fatalf("expected long prose to split, got %d segments", len(segments))
	}
	for _, segment := range segments {
		if words := len(strings.Fields(segment)); words > 2*maxSegmentWords {
			t.Fatalf("segment far over word bound: %d words", words)
		}
		if !strings.HasSuffix(strings.TrimSpace(segment), ".") {
			t.Fatalf("segment broke mid-sentence: %q", segment)
		}
	}
}

func TestSplitProseEmpty(t *testing.T) {
	if segments := splitProse("   "); segments != nil {
		t.Fatalf("expected no segments for blank prose, got %v", segments)
	}
}

func TestRenderSceneContiguity(t *testing.T) {
	visuals, err := testRenderer().Render(testLesson(), t.TempDir())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(visuals.Scenes) == 0 {
		t.Fatal("expected scenes")
	}

	cursor := 0.0
	total := 0.0
	for i, scene := range visuals.Scenes {
		if math.Abs(scene.StartTime-cursor) > 1e-9 {
			t.Fatalf("scene %d start %f, want %f", i, scene.StartTime, cursor)
		}
		if scene.Duration <= 0 {
			t.Fatalf("scene %d has non-positive duration %f", i, scene.Duration)
		}
		if scene.ID != i+1 {
			t.Fatalf("scene %d has id %d", i, scene.ID)
		}
		cursor += scene.Duration
		total += scene.Duration
	}
	if math.Abs(total-visuals.TotalDuration) > 1e-9 {
		t.Fatalf("durations sum to %f, TotalDuration %f", total, visuals.TotalDuration)
	}
}

func TestRenderSceneSequence(t *testing.T) {
	visuals, err := testRenderer().Render(testLesson(), t.TempDir())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	counts := map[SceneType]int{}
	for _, scene := range visuals.Scenes {
		counts[scene.Type]++
	}
	if counts[SceneTitle] != 1 {
		t.Fatalf("expected one title scene, got %d", counts[SceneTitle])
	}
	if counts[ScenePause] != 2 {
		t.Fatalf("expected one pause scene per practice segment, got %d", counts[ScenePause])
	}
	if counts[SceneReveal] != 2 {
		t.Fatalf("expected one reveal scene per practice segment, got %d", counts[SceneReveal])
	}
	if counts[SceneChallenge] != 1 || counts[SceneClosing] != 1 {
		t.Fatalf("expected challenge and closing scenes, got %d and %d",
			counts[SceneChallenge], counts[SceneClosing])
	}
	if visuals.Scenes[0].Type != SceneTitle {
		t.Fatalf("first scene is %s, want title", visuals.Scenes[0].Type)
	}
	if last := visuals.Scenes[len(visuals.Scenes)-1]; last.Type != SceneClosing {
		t.Fatalf("last scene is %s, want closing", last.Type)
	}
}

func TestRenderSceneDurations(t *testing.T) {
	visuals, err := testRenderer().Render(testLesson(), t.TempDir())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for _, scene := range visuals.Scenes {
		switch scene.Type {
		case SceneTitle:
			if scene.Duration != 5 {
				t.Fatalf("title scene duration %f, want 5", scene.Duration)
			}
		case ScenePause:
			if scene.Duration != 30 {
				t.Fatalf("pause scene duration %f, want 30", scene.Duration)
			}
		default:
			if scene.Duration < 3 {
				t.Fatalf("%s scene duration %f below floor", scene.Type, scene.Duration)
			}
		}
	}
}

func TestRenderWritesFrames(t *testing.T) {
	dir := t.TempDir()
	visuals, err := testRenderer().Render(testLesson(), dir)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for _, path := range visuals.FramePaths() {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("frame missing: %v", err)
		}
		if info.Size() == 0 {
			t.Fatalf("frame %s is empty", path)
		}
	}
}

func TestRenderNilScript(t *testing.T) {
	if _, err := testRenderer().Render(nil, t.TempDir()); err == nil {
		t.Fatal("expected error for nil script")
	}
}
