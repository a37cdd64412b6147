package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if cfg.Lesson.TargetMinutes != defaultTargetMinutes {
		t.Fatalf("target minutes = %d, want default %d", cfg.Lesson.TargetMinutes, defaultTargetMinutes)
	}
	if cfg.QA.MaxAttempts != defaultQAMaxAttempts {
		t.Fatalf("qa max attempts = %d, want default %d", cfg.QA.MaxAttempts, defaultQAMaxAttempts)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
staging_dir = "` + dir + `/staging"
output_dir = "` + dir + `/out"
log_dir = "` + dir + `/logs"

[llm]
api_key = "test-key"
model = "  test/model  "

[voice]
default_voice_id = "narrator"

[voice.tone_voice_ids]
Encouraging = "warm-voice"

[qa]
max_attempts = 3
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved == "" {
		t.Fatal("expected config file to be found")
	}
	if cfg.LLM.Model != "test/model" {
		t.Fatalf("model not trimmed: %q", cfg.LLM.Model)
	}
	if cfg.QA.MaxAttempts != 3 {
		t.Fatalf("qa.max_attempts = %d, want 3", cfg.QA.MaxAttempts)
	}
	if got := cfg.VoiceForTone("encouraging"); got != "warm-voice" {
		t.Fatalf("VoiceForTone(encouraging) = %q, want warm-voice", got)
	}
	if got := cfg.VoiceForTone("calm"); got != "narrator" {
		t.Fatalf("VoiceForTone(calm) = %q, want default narrator", got)
	}
}

func TestValidateRejectsOddResolution(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	cfg.Video.Width = 1281
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "even") {
		t.Fatalf("expected even-resolution error, got %v", err)
	}
}

func TestRequireLLM(t *testing.T) {
	cfg := Default()
	cfg.LLM.APIKey = ""
	if err := cfg.RequireLLM(); err == nil {
		t.Fatal("expected error when llm.api_key missing")
	}
	cfg.LLM.APIKey = "k"
	if err := cfg.RequireLLM(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExpandPathHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := expandPath("~/lessons")
	if err != nil {
		t.Fatalf("expandPath: %v", err)
	}
	if got != filepath.Join(home, "lessons") {
		t.Fatalf("expandPath = %q", got)
	}
}
