package qa

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"lessonforge/internal/intake"
	"lessonforge/internal/logging"
	"lessonforge/internal/script"
)

// Generator is the regeneration surface the controller needs.
// *script.Generator satisfies it.
type Generator interface {
	Regenerate(ctx context.Context, record intake.Intake, previous *script.LessonScript, problems []string) (*script.LessonScript, error)
	GenerateSafeFallback(ctx context.Context, record intake.Intake) (*script.LessonScript, error)
}

// Controller drives the verify/regenerate cycle.
type Controller struct {
	generator   Generator
	verifier    *Verifier
	maxAttempts int
	logger      *slog.Logger
}

// NewController creates a QA controller. maxAttempts bounds the number of
// regeneration cycles after the initial verification.
func NewController(generator Generator, verifier *Verifier, maxAttempts int, logger *slog.Logger) *Controller {
	if maxAttempts <= 0 {
		maxAttempts = 2
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Controller{generator: generator, verifier: verifier, maxAttempts: maxAttempts, logger: logger}
}

// Outcome is the controller's final word on one script.
type Outcome struct {
	Script       *script.LessonScript
	Result       *Result
	Attempts     int
	FallbackUsed bool
}

// VerifyAndRegenerate verifies the script and regenerates it wholesale on
// failure, at most maxAttempts times. When the budget runs out the safe
// fallback is generated, verified once, and returned regardless of its
// result with a fallback-used warning appended. A script is always
// returned; the only returned error is context cancellation.
func (c *Controller) VerifyAndRegenerate(ctx context.Context, lesson *script.LessonScript, record intake.Intake) (Outcome, error) {
	outcome := Outcome{Script: lesson}

	result, err := c.verifier.Verify(ctx, lesson, record)
	if err != nil {
		return outcome, err
	}
	outcome.Result = result

	for attempt := 1; !outcome.Result.Passed && attempt <= c.maxAttempts; attempt++ {
		outcome.Attempts = attempt
		c.logger.Info("regenerating script after failed verification",
			logging.Int("attempt", attempt),
			logging.Int("errors", len(outcome.Result.Errors)))

		regenerated, genErr := c.generator.Regenerate(ctx, record, outcome.Script, FormatProblems(outcome.Result.Errors))
		if genErr != nil {
			if ctx.Err() != nil {
				return outcome, ctx.Err()
			}
			c.logger.Warn("regeneration failed, keeping previous script", logging.Error(genErr))
			break
		}
		outcome.Script = regenerated

		result, err = c.verifier.Verify(ctx, regenerated, record)
		if err != nil {
			return outcome, err
		}
		outcome.Result = result
	}

	if !outcome.Result.Passed {
		c.logger.Warn("regeneration budget exhausted, generating safe fallback",
			logging.Int("attempts", outcome.Attempts))
		fallback, genErr := c.generator.GenerateSafeFallback(ctx, record)
		if genErr != nil {
			if ctx.Err() != nil {
				return outcome, ctx.Err()
			}
			// Even the fallback generation failed; the last script stands.
			c.logger.Error("safe fallback generation failed", logging.Error(genErr))
			outcome.Result.Warnings = append(outcome.Result.Warnings, Warning{
				Kind:        KindFallback,
				Description: "regeneration budget exhausted; fallback generation failed, last script in use",
			})
		} else {
			outcome.Script = fallback
			outcome.FallbackUsed = true
			result, err = c.verifier.Verify(ctx, fallback, record)
			if err != nil {
				return outcome, err
			}
			outcome.Result = result
			outcome.Result.Warnings = append(outcome.Result.Warnings, Warning{
				Kind:        KindFallback,
				Description: "regeneration budget exhausted; safe fallback script in use",
			})
		}
	}

	return outcome, nil
}

// FormatProblems renders QA errors as regeneration prompt lines.
func FormatProblems(errors []Error) []string {
	problems := make([]string, 0, len(errors))
	for _, e := range errors {
		var b strings.Builder
		if e.Location != "" {
			fmt.Fprintf(&b, "[%s] ", e.Location)
		}
		b.WriteString(e.Description)
		if e.Suggestion != "" {
			fmt.Fprintf(&b, " (fix: %s)", e.Suggestion)
		}
		problems = append(problems, b.String())
	}
	return problems
}
