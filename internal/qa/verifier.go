package qa

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"lessonforge/internal/config"
	"lessonforge/internal/intake"
	"lessonforge/internal/logging"
	"lessonforge/internal/script"
)

// Completer is the grading surface the verifier needs. *llm.Client
// satisfies it.
type Completer interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Verifier runs the quality checks over one script.
type Verifier struct {
	completer Completer
	cfg       config.QA
	target    config.Lesson
	logger    *slog.Logger
}

// NewVerifier creates a verifier.
func NewVerifier(completer Completer, cfg config.QA, target config.Lesson, logger *slog.Logger) *Verifier {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Verifier{completer: completer, cfg: cfg, target: target, logger: logger}
}

type findings struct {
	errors   []Error
	warnings []Warning
}

// Verify runs the four checks concurrently and joins their findings in
// fixed order: math, reading, safety, consistency. The only returned error
// is context cancellation; availability failures degrade to warnings.
func (v *Verifier) Verify(ctx context.Context, lesson *script.LessonScript, record intake.Intake) (*Result, error) {
	checks := []func(context.Context, *script.LessonScript, intake.Intake) findings{
		v.checkMath,
		v.checkReading,
		v.checkSafety,
		v.checkConsistency,
	}

	slots := make([]findings, len(checks))
	g, gctx := errgroup.WithContext(ctx)
	for i, check := range checks {
		i, check := i, check
		g.Go(func() error {
			slots[i] = check(gctx, lesson, record)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var errors []Error
	var warnings []Warning
	for _, slot := range slots {
		errors = append(errors, slot.errors...)
		warnings = append(warnings, slot.warnings...)
	}

	result := newResult(errors, warnings)
	v.logger.Info("script verified",
		logging.Bool("passed", result.Passed),
		logging.Int("errors", len(result.Errors)),
		logging.Int("warnings", len(result.Warnings)))
	return result, nil
}
