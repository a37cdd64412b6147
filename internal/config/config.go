package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	StagingDir string `toml:"staging_dir"`
	OutputDir  string `toml:"output_dir"`
	LogDir     string `toml:"log_dir"`
}

// LLM contains completion service connection settings shared by the intake
// engine, the script generator, and the QA checks.
type LLM struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	Referer        string `toml:"referer"`
	Title          string `toml:"title"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Voice contains voice synthesis service settings. Voice IDs are selected per
// tone preference; unset tones fall back to DefaultVoiceID.
type Voice struct {
	APIKey                 string            `toml:"api_key"`
	BaseURL                string            `toml:"base_url"`
	Model                  string            `toml:"model"`
	DefaultVoiceID         string            `toml:"default_voice_id"`
	ToneVoiceIDs           map[string]string `toml:"tone_voice_ids"`
	TimeoutSeconds         int               `toml:"timeout_seconds"`
	ThrottleCooldownSecond int               `toml:"throttle_cooldown_seconds"`
}

// Video contains media composition settings.
type Video struct {
	FFmpegBinary         string  `toml:"ffmpeg_binary"`
	FFprobeBinary        string  `toml:"ffprobe_binary"`
	Width                int     `toml:"width"`
	Height               int     `toml:"height"`
	FPS                  int     `toml:"fps"`
	FontPath             string  `toml:"font_path"`
	SmoothEnabled        bool    `toml:"smooth_enabled"`
	SmoothTimeoutSeconds int     `toml:"smooth_timeout_seconds"`
	CrossfadeSeconds     float64 `toml:"crossfade_seconds"`
}

// Lesson contains pacing parameters for script generation and scene timing.
type Lesson struct {
	TargetMinutes   int     `toml:"target_minutes"`
	WordsPerSecond  float64 `toml:"words_per_second"`
	MinSceneSeconds float64 `toml:"min_scene_seconds"`
	PauseSeconds    float64 `toml:"pause_seconds"`
	TitleSeconds    float64 `toml:"title_seconds"`
}

// QA contains verification thresholds and the regeneration budget.
type QA struct {
	MaxAttempts     int     `toml:"max_attempts"`
	MinNameMentions int     `toml:"min_name_mentions"`
	WordBandRatio   float64 `toml:"word_band_ratio"`
}

// Workflow contains daemon timing and intervals.
type Workflow struct {
	QueuePollInterval  int `toml:"queue_poll_interval"`
	ErrorRetryInterval int `toml:"error_retry_interval"`
	HeartbeatInterval  int `toml:"heartbeat_interval"`
	HeartbeatTimeout   int `toml:"heartbeat_timeout"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	Queue          bool   `toml:"queue"`
	Completion     bool   `toml:"completion"`
	Errors         bool   `toml:"errors"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for lessonforge.
type Config struct {
	Paths         Paths         `toml:"paths"`
	LLM           LLM           `toml:"llm"`
	Voice         Voice         `toml:"voice"`
	Video         Video         `toml:"video"`
	Lesson        Lesson        `toml:"lesson"`
	QA            QA            `toml:"qa"`
	Workflow      Workflow      `toml:"workflow"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/lessonforge/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The second return is
// the resolved path and the third reports whether the file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	projectPath, err := filepath.Abs("lessonforge.toml")
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// WriteSample writes the embedded sample configuration to the given path.
func WriteSample(path string) error {
	expanded, err := expandPath(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0o755); err != nil {
		return fmt.Errorf("ensure config directory: %w", err)
	}
	if _, err := os.Stat(expanded); err == nil {
		return fmt.Errorf("config already exists at %s", expanded)
	}
	return os.WriteFile(expanded, []byte(sampleConfig), 0o644)
}

// EnsureDirectories creates the staging, output, and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StagingDir, c.Paths.OutputDir, c.Paths.LogDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// FFmpegBinary returns the configured ffmpeg binary or the PATH default.
func (c *Config) FFmpegBinary() string {
	if c == nil || c.Video.FFmpegBinary == "" {
		return "ffmpeg"
	}
	return c.Video.FFmpegBinary
}

// FFprobeBinary returns the configured ffprobe binary or the PATH default.
func (c *Config) FFprobeBinary() string {
	if c == nil || c.Video.FFprobeBinary == "" {
		return "ffprobe"
	}
	return c.Video.FFprobeBinary
}

// VoiceForTone resolves the synthesis voice for a tone preference.
func (c *Config) VoiceForTone(tone string) string {
	if c == nil {
		return ""
	}
	if id, ok := c.Voice.ToneVoiceIDs[tone]; ok && id != "" {
		return id
	}
	return c.Voice.DefaultVoiceID
}

// VoiceTimeout returns the extended timeout used for long-form synthesis.
func (c *Config) VoiceTimeout() time.Duration {
	if c == nil || c.Voice.TimeoutSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.Voice.TimeoutSeconds) * time.Second
}

// ThrottleCooldown returns the wait applied before the single retry after a
// voice service throttling response.
func (c *Config) ThrottleCooldown() time.Duration {
	if c == nil || c.Voice.ThrottleCooldownSecond <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Voice.ThrottleCooldownSecond) * time.Second
}

// SmoothTimeout returns the budget for the crossfade composition path.
func (c *Config) SmoothTimeout() time.Duration {
	if c == nil || c.Video.SmoothTimeoutSeconds <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(c.Video.SmoothTimeoutSeconds) * time.Second
}
