package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLLM()
	c.normalizeVoice()
	c.normalizeVideo()
	c.normalizeLesson()
	c.normalizeQA()
	c.normalizeWorkflow()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		c.Paths.StagingDir = defaultStagingDir
	}
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLLM() {
	if c.LLM.APIKey == "" {
		if value, ok := os.LookupEnv("LESSONFORGE_LLM_API_KEY"); ok {
			c.LLM.APIKey = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("OPENROUTER_API_KEY"); ok {
			c.LLM.APIKey = strings.TrimSpace(value)
		}
	}
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}
}

func (c *Config) normalizeVoice() {
	if c.Voice.APIKey == "" {
		if value, ok := os.LookupEnv("LESSONFORGE_VOICE_API_KEY"); ok {
			c.Voice.APIKey = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("ELEVENLABS_API_KEY"); ok {
			c.Voice.APIKey = strings.TrimSpace(value)
		}
	}
	c.Voice.BaseURL = strings.TrimSpace(c.Voice.BaseURL)
	if c.Voice.BaseURL == "" {
		c.Voice.BaseURL = defaultVoiceBaseURL
	}
	c.Voice.Model = strings.TrimSpace(c.Voice.Model)
	if c.Voice.Model == "" {
		c.Voice.Model = defaultVoiceModel
	}
	if c.Voice.TimeoutSeconds <= 0 {
		c.Voice.TimeoutSeconds = defaultVoiceTimeoutSeconds
	}
	if c.Voice.ThrottleCooldownSecond <= 0 {
		c.Voice.ThrottleCooldownSecond = defaultThrottleCooldownSecs
	}
	normalized := make(map[string]string, len(c.Voice.ToneVoiceIDs))
	for tone, id := range c.Voice.ToneVoiceIDs {
		tone = strings.ToLower(strings.TrimSpace(tone))
		id = strings.TrimSpace(id)
		if tone == "" || id == "" {
			continue
		}
		normalized[tone] = id
	}
	c.Voice.ToneVoiceIDs = normalized
}

func (c *Config) normalizeVideo() {
	if c.Video.Width <= 0 {
		c.Video.Width = defaultVideoWidth
	}
	if c.Video.Height <= 0 {
		c.Video.Height = defaultVideoHeight
	}
	if c.Video.FPS <= 0 {
		c.Video.FPS = defaultVideoFPS
	}
	if c.Video.SmoothTimeoutSeconds <= 0 {
		c.Video.SmoothTimeoutSeconds = defaultSmoothTimeoutSeconds
	}
	if c.Video.CrossfadeSeconds <= 0 {
		c.Video.CrossfadeSeconds = defaultCrossfadeSeconds
	}
	c.Video.FontPath = strings.TrimSpace(c.Video.FontPath)
	if c.Video.FontPath != "" {
		if expanded, err := expandPath(c.Video.FontPath); err == nil {
			c.Video.FontPath = expanded
		}
	}
}

func (c *Config) normalizeLesson() {
	if c.Lesson.TargetMinutes <= 0 {
		c.Lesson.TargetMinutes = defaultTargetMinutes
	}
	if c.Lesson.WordsPerSecond <= 0 {
		c.Lesson.WordsPerSecond = defaultWordsPerSecond
	}
	if c.Lesson.MinSceneSeconds <= 0 {
		c.Lesson.MinSceneSeconds = defaultMinSceneSeconds
	}
	if c.Lesson.PauseSeconds <= 0 {
		c.Lesson.PauseSeconds = defaultPauseSeconds
	}
	if c.Lesson.TitleSeconds <= 0 {
		c.Lesson.TitleSeconds = defaultTitleSeconds
	}
}

func (c *Config) normalizeQA() {
	if c.QA.MaxAttempts <= 0 {
		c.QA.MaxAttempts = defaultQAMaxAttempts
	}
	if c.QA.MinNameMentions <= 0 {
		c.QA.MinNameMentions = defaultQAMinNameMentions
	}
	if c.QA.WordBandRatio <= 0 {
		c.QA.WordBandRatio = defaultQAWordBandRatio
	}
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.QueuePollInterval <= 0 {
		c.Workflow.QueuePollInterval = defaultQueuePollInterval
	}
	if c.Workflow.ErrorRetryInterval <= 0 {
		c.Workflow.ErrorRetryInterval = defaultErrorRetryInterval
	}
	if c.Workflow.HeartbeatInterval <= 0 {
		c.Workflow.HeartbeatInterval = defaultHeartbeatInterval
	}
	if c.Workflow.HeartbeatTimeout <= 0 {
		c.Workflow.HeartbeatTimeout = defaultHeartbeatTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			return home, nil
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	return filepath.Abs(trimmed)
}
