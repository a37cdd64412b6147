// Package config loads, normalizes, and validates the TOML configuration
// shared by the lessonforge daemon and CLI.
//
// Configuration sections by subsystem:
//   - Paths: working, output, and log directories
//   - LLM: completion service connection settings
//   - Voice: voice synthesis service settings and tone voice mapping
//   - Video: ffmpeg/ffprobe binaries and composition settings
//   - Lesson: pacing, pause, and scene timing parameters
//   - QA: verification thresholds and regeneration budget
//   - Workflow: daemon polling intervals and heartbeat timeouts
//   - Notifications: ntfy push notification settings
//   - Logging: log format and level
package config
