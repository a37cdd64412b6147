package config

const (
	defaultStagingDir = "~/.local/share/lessonforge/staging"
	defaultOutputDir  = "~/.local/share/lessonforge/output"
	defaultLogDir     = "~/.local/share/lessonforge/logs"

	defaultLLMBaseURL        = "https://openrouter.ai/api/v1/chat/completions"
	defaultLLMModel          = "google/gemini-3-flash-preview"
	defaultLLMReferer        = "https://github.com/lessonforge/lessonforge"
	defaultLLMTitle          = "Lessonforge"
	defaultLLMTimeoutSeconds = 60

	defaultVoiceBaseURL          = "https://api.elevenlabs.io"
	defaultVoiceModel            = "eleven_multilingual_v2"
	defaultVoiceTimeoutSeconds   = 300
	defaultThrottleCooldownSecs  = 30
	defaultVideoWidth            = 1280
	defaultVideoHeight           = 720
	defaultVideoFPS              = 30
	defaultSmoothTimeoutSeconds  = 600
	defaultCrossfadeSeconds      = 0.5
	defaultTargetMinutes         = 10
	defaultWordsPerSecond        = 2.5
	defaultMinSceneSeconds       = 3.0
	defaultPauseSeconds          = 30.0
	defaultTitleSeconds          = 5.0
	defaultQAMaxAttempts         = 2
	defaultQAMinNameMentions     = 5
	defaultQAWordBandRatio       = 0.5
	defaultQueuePollInterval     = 5
	defaultErrorRetryInterval    = 10
	defaultHeartbeatInterval     = 15
	defaultHeartbeatTimeout      = 600
	defaultNotifyRequestTimeout  = 10
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: defaultStagingDir,
			OutputDir:  defaultOutputDir,
			LogDir:     defaultLogDir,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Referer:        defaultLLMReferer,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Voice: Voice{
			BaseURL:                defaultVoiceBaseURL,
			Model:                  defaultVoiceModel,
			TimeoutSeconds:         defaultVoiceTimeoutSeconds,
			ThrottleCooldownSecond: defaultThrottleCooldownSecs,
		},
		Video: Video{
			Width:                defaultVideoWidth,
			Height:               defaultVideoHeight,
			FPS:                  defaultVideoFPS,
			SmoothEnabled:        true,
			SmoothTimeoutSeconds: defaultSmoothTimeoutSeconds,
			CrossfadeSeconds:     defaultCrossfadeSeconds,
		},
		Lesson: Lesson{
			TargetMinutes:   defaultTargetMinutes,
			WordsPerSecond:  defaultWordsPerSecond,
			MinSceneSeconds: defaultMinSceneSeconds,
			PauseSeconds:    defaultPauseSeconds,
			TitleSeconds:    defaultTitleSeconds,
		},
		QA: QA{
			MaxAttempts:     defaultQAMaxAttempts,
			MinNameMentions: defaultQAMinNameMentions,
			WordBandRatio:   defaultQAWordBandRatio,
		},
		Workflow: Workflow{
			QueuePollInterval:  defaultQueuePollInterval,
			ErrorRetryInterval: defaultErrorRetryInterval,
			HeartbeatInterval:  defaultHeartbeatInterval,
			HeartbeatTimeout:   defaultHeartbeatTimeout,
		},
		Notifications: Notifications{
			RequestTimeout: defaultNotifyRequestTimeout,
			Queue:          true,
			Completion:     true,
			Errors:         true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
