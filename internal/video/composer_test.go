package video

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lessonforge/internal/config"
	"lessonforge/internal/visuals"
)

type fakeRunner struct {
	calls [][]string
	errs  []error
}

func (f *fakeRunner) Run(ctx context.Context, args []string) error {
	f.calls = append(f.calls, args)
	if len(f.errs) >= len(f.calls) {
		return f.errs[len(f.calls)-1]
	}
	return nil
}

func fakeProbe(seconds float64) Prober {
	return func(ctx context.Context, binary, path string) (float64, error) {
		return seconds, nil
	}
}

func testScenes(t *testing.T, count int) *visuals.Visuals {
	t.Helper()
	dir := t.TempDir()
	v := &visuals.Visuals{}
	cursor := 0.0
	for i := 0; i < count; i++ {
		framePath := filepath.Join(dir, fmt.Sprintf("scene-%03d.png", i+1))
		if err := os.WriteFile(framePath, []byte("png"), 0o644); err != nil {
			t.Fatalf("write frame: %v", err)
		}
		v.Scenes = append(v.Scenes, visuals.Scene{
			ID:        i + 1,
			Type:      visuals.SceneExplanation,
			Duration:  10,
			StartTime: cursor,
			FramePath: framePath,
		})
		cursor += 10
	}
	v.TotalDuration = cursor
	return v
}

func TestComposeBasicSpreadsAudioUniformly(t *testing.T) {
	runner := &fakeRunner{}
	composer := NewComposerWithDeps(config.Video{Width: 640, Height: 360, FPS: 24},
		runner, fakeProbe(120), nil)

	scenes := testScenes(t, 4)
	outPath := filepath.Join(t.TempDir(), "lesson.mp4")
	if err := composer.Compose(context.Background(), scenes, "narration.mp3", outPath); err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if len(runner.calls) != 1 {
		t.Fatalf("expected 1 ffmpeg call, got %d", len(runner.calls))
	}

	args := strings.Join(runner.calls[0], " ")
	if !strings.Contains(args, "-f concat") {
		t.Fatalf("basic path should use concat demuxer: %s", args)
	}
	if !strings.Contains(args, "-shortest") {
		t.Fatalf("output must be trimmed to audio with -shortest: %s", args)
	}
	if !strings.Contains(args, "narration.mp3") {
		t.Fatalf("audio input missing: %s", args)
	}
}

func TestConcatListContent(t *testing.T) {
	content := concatListContent([]string{"/f/a.png", "/f/b.png"}, 30)
	wantLines := []string{
		"file '/f/a.png'",
		"duration 30.000",
		"file '/f/b.png'",
		"duration 30.000",
		"file '/f/b.png'",
	}
	got := strings.Split(strings.TrimSpace(content), "\n")
	if len(got) != len(wantLines) {
		t.Fatalf("got %d lines, want %d:\n%s", len(got), len(wantLines), content)
	}
	for i, want := range wantLines {
		if got[i] != want {
			t.Fatalf("line %d: got %q, want %q", i, got[i], want)
		}
	}
}

func TestComposeSmoothPath(t *testing.T) {
	runner := &fakeRunner{}
	composer := NewComposerWithDeps(config.Video{SmoothEnabled: true, CrossfadeSeconds: 0.5},
		runner, fakeProbe(30), nil)

	scenes := testScenes(t, 3)
	outPath := filepath.Join(t.TempDir(), "lesson.mp4")
	if err := composer.Compose(context.Background(), scenes, "narration.mp3", outPath); err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if len(runner.calls) != 1 {
		t.Fatalf("expected 1 ffmpeg call, got %d", len(runner.calls))
	}

	args := strings.Join(runner.calls[0], " ")
	if !strings.Contains(args, "xfade=transition=fade") {
		t.Fatalf("smooth path should use xfade: %s", args)
	}
	if !strings.Contains(args, "offset=9.500") || !strings.Contains(args, "offset=19.000") {
		t.Fatalf("crossfade offsets not cumulative: %s", args)
	}
	if !strings.Contains(args, "-shortest") {
		t.Fatalf("smooth output must still be trimmed to audio: %s", args)
	}
}

func TestComposeSmoothFailureFallsBack(t *testing.T) {
	runner := &fakeRunner{errs: []error{errors.New("filter graph failed"), nil}}
	composer := NewComposerWithDeps(config.Video{SmoothEnabled: true},
		runner, fakeProbe(60), nil)

	scenes := testScenes(t, 2)
	outPath := filepath.Join(t.TempDir(), "lesson.mp4")
	if err := composer.Compose(context.Background(), scenes, "narration.mp3", outPath); err != nil {
		t.Fatalf("Compose should fall back to basic cuts: %v", err)
	}
	if len(runner.calls) != 2 {
		t.Fatalf("expected smooth attempt plus basic fallback, got %d calls", len(runner.calls))
	}
	if !strings.Contains(strings.Join(runner.calls[1], " "), "-f concat") {
		t.Fatalf("fallback call should be the concat path: %v", runner.calls[1])
	}
}

func TestComposeSingleSceneSkipsSmooth(t *testing.T) {
	runner := &fakeRunner{}
	composer := NewComposerWithDeps(config.Video{SmoothEnabled: true},
		runner, fakeProbe(60), nil)

	outPath := filepath.Join(t.TempDir(), "lesson.mp4")
	if err := composer.Compose(context.Background(), testScenes(t, 1), "narration.mp3", outPath); err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if len(runner.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(runner.calls))
	}
	if strings.Contains(strings.Join(runner.calls[0], " "), "xfade") {
		t.Fatal("single scene must not use crossfades")
	}
}

func TestComposeProbeFailure(t *testing.T) {
	runner := &fakeRunner{}
	probe := func(ctx context.Context, binary, path string) (float64, error) {
		return 0, errors.New("no such file")
	}
	composer := NewComposerWithDeps(config.Video{}, runner, probe, nil)

	err := composer.Compose(context.Background(), testScenes(t, 2), "missing.mp3", "out.mp4")
	if err == nil {
		t.Fatal("expected error when audio cannot be probed")
	}
	if len(runner.calls) != 0 {
		t.Fatal("ffmpeg must not run without a probed duration")
	}
}

func TestComposeRejectsEmptyInput(t *testing.T) {
	composer := NewComposerWithDeps(config.Video{}, &fakeRunner{}, fakeProbe(60), nil)
	if err := composer.Compose(context.Background(), nil, "a.mp3", "out.mp4"); err == nil {
		t.Fatal("expected error for nil visuals")
	}
	if err := composer.Compose(context.Background(), testScenes(t, 1), "", "out.mp4"); err == nil {
		t.Fatal("expected error for empty audio path")
	}
}
