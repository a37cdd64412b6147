package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateVideo(); err != nil {
		return err
	}
	if err := c.validateLesson(); err != nil {
		return err
	}
	if err := c.validateQA(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	return nil
}

// RequireLLM rejects configurations that cannot reach the completion service.
// Validation is separate from Validate so read-only commands (queue list,
// config show) work without credentials.
func (c *Config) RequireLLM() error {
	if c.LLM.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/lessonforge/config.toml"
		}
		return fmt.Errorf("llm.api_key is required. Set LESSONFORGE_LLM_API_KEY or edit %s (create with 'lessonforge config init')", defaultPath)
	}
	return nil
}

// RequireVoice rejects configurations that cannot reach the voice service.
func (c *Config) RequireVoice() error {
	if c.Voice.APIKey == "" {
		return errors.New("voice.api_key is required. Set LESSONFORGE_VOICE_API_KEY or add it to the config file")
	}
	if c.Voice.DefaultVoiceID == "" && len(c.Voice.ToneVoiceIDs) == 0 {
		return errors.New("voice.default_voice_id or voice.tone_voice_ids must be configured")
	}
	return nil
}

func (c *Config) validateVideo() error {
	if c.Video.Width%2 != 0 || c.Video.Height%2 != 0 {
		return errors.New("video.width and video.height must be even for yuv420p output")
	}
	if c.Video.CrossfadeSeconds >= c.Lesson.MinSceneSeconds {
		return errors.New("video.crossfade_seconds must be shorter than lesson.min_scene_seconds")
	}
	return nil
}

func (c *Config) validateLesson() error {
	if c.Lesson.TargetMinutes > 30 {
		return errors.New("lesson.target_minutes must be 30 or less")
	}
	return nil
}

func (c *Config) validateQA() error {
	if c.QA.MaxAttempts > 5 {
		return errors.New("qa.max_attempts must be 5 or less")
	}
	if c.QA.WordBandRatio >= 1 {
		return errors.New("qa.word_band_ratio must be below 1")
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if c.Workflow.HeartbeatTimeout <= c.Workflow.HeartbeatInterval {
		return errors.New("workflow.heartbeat_timeout must exceed workflow.heartbeat_interval")
	}
	return nil
}
