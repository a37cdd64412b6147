package preflight

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"lessonforge/internal/config"
)

func TestCheckDirectoryAccess(t *testing.T) {
	dir := t.TempDir()

	result := CheckDirectoryAccess("Staging directory", dir)
	if !result.Passed {
		t.Fatalf("expected writable temp dir to pass, got %#v", result)
	}

	missing := CheckDirectoryAccess("Staging directory", filepath.Join(dir, "nope"))
	if missing.Passed {
		t.Fatalf("expected missing dir to fail, got %#v", missing)
	}

	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	notDir := CheckDirectoryAccess("Staging directory", file)
	if notDir.Passed {
		t.Fatalf("expected plain file to fail, got %#v", notDir)
	}
}

func TestCheckFontFile(t *testing.T) {
	dir := t.TempDir()
	font := filepath.Join(dir, "lesson.ttf")
	if err := os.WriteFile(font, []byte("font"), 0o644); err != nil {
		t.Fatalf("write font: %v", err)
	}

	if result := CheckFontFile(font); !result.Passed {
		t.Fatalf("expected existing font to pass, got %#v", result)
	}
	if result := CheckFontFile(filepath.Join(dir, "missing.ttf")); result.Passed {
		t.Fatalf("expected missing font to fail, got %#v", result)
	}
	if result := CheckFontFile(dir); result.Passed {
		t.Fatalf("expected directory to fail, got %#v", result)
	}
}

func TestCheckSystemDeps(t *testing.T) {
	cfg := config.Default()
	cfg.Video.FFmpegBinary = "definitely-not-ffmpeg"
	cfg.Video.FFprobeBinary = "definitely-not-ffprobe"

	statuses := CheckSystemDeps(&cfg)
	if len(statuses) != 2 {
		t.Fatalf("expected 2 statuses, got %d", len(statuses))
	}
	for _, status := range statuses {
		if status.Available {
			t.Fatalf("expected %s to be unavailable", status.Name)
		}
	}
}

func TestRunAllSkipsCredentialedChecks(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StagingDir = filepath.Join(base, "staging")
	cfg.Paths.OutputDir = filepath.Join(base, "output")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.LLM.APIKey = ""
	cfg.Voice.APIKey = ""
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure dirs: %v", err)
	}

	results := RunAll(context.Background(), &cfg)
	if len(results) != 3 {
		t.Fatalf("expected only directory checks, got %d results", len(results))
	}
	if failed := FailedOnly(results); len(failed) != 0 {
		t.Fatalf("expected all directory checks to pass, got %#v", failed)
	}
}
