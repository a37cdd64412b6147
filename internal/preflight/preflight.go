package preflight

import (
	"context"
	"strings"

	"lessonforge/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
// Credentialed service checks only run when the matching key is configured,
// so a read-only invocation never burns API calls.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Staging directory", cfg.Paths.StagingDir),
		CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}

	if strings.TrimSpace(cfg.Video.FontPath) != "" {
		results = append(results, CheckFontFile(cfg.Video.FontPath))
	}

	if strings.TrimSpace(cfg.LLM.APIKey) != "" {
		results = append(results, CheckLLM(ctx, "Lesson LLM", cfg.LLM))
	}

	if strings.TrimSpace(cfg.Voice.APIKey) != "" {
		results = append(results, CheckVoice(ctx, cfg))
	}

	return results
}

// FailedOnly filters results down to the checks that did not pass.
func FailedOnly(results []Result) []Result {
	var failed []Result
	for _, result := range results {
		if !result.Passed {
			failed = append(failed, result)
		}
	}
	return failed
}
