package script

import (
	"context"
	"log/slog"
	"strings"

	"lessonforge/internal/catalog"
	"lessonforge/internal/config"
	"lessonforge/internal/intake"
	"lessonforge/internal/logging"
	"lessonforge/internal/services"
)

// Completer is the completion surface the generator needs. *llm.Client
// satisfies it.
type Completer interface {
	CompleteText(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Generator turns a finalized intake into a lesson script.
type Generator struct {
	completer Completer
	lesson    config.Lesson
	logger    *slog.Logger
}

// NewGenerator creates a script generator.
func NewGenerator(completer Completer, lesson config.Lesson, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Generator{completer: completer, lesson: lesson, logger: logger}
}

// Generate builds one structured generation request and parses the response
// into a script. Intake completeness is a precondition; callers validate it.
func (g *Generator) Generate(ctx context.Context, record intake.Intake) (*LessonScript, error) {
	prompt := buildLessonPrompt(record, g.targetMinutes())
	return g.complete(ctx, record, prompt, "generate script")
}

// Regenerate requests a wholesale replacement script. The prompt lists
// every reported problem next to the original section text so the model
// fixes rather than rewrites blindly.
func (g *Generator) Regenerate(ctx context.Context, record intake.Intake, previous *LessonScript, problems []string) (*LessonScript, error) {
	prompt := buildRegenerationPrompt(record, previous, problems, g.targetMinutes())
	return g.complete(ctx, record, prompt, "regenerate script")
}

// GenerateSafeFallback issues a deliberately simpler, lower-risk request:
// half-length, with explicit instructions to double-check calculations and
// phonics. Used only when the main path exhausts its regeneration budget.
func (g *Generator) GenerateSafeFallback(ctx context.Context, record intake.Intake) (*LessonScript, error) {
	minutes := g.targetMinutes() / 2
	if minutes < 3 {
		minutes = 3
	}
	prompt := buildFallbackPrompt(record, minutes)
	return g.complete(ctx, record, prompt, "generate fallback script")
}

func (g *Generator) targetMinutes() int {
	if g.lesson.TargetMinutes > 0 {
		return g.lesson.TargetMinutes
	}
	return 10
}

func (g *Generator) complete(ctx context.Context, record intake.Intake, prompt, op string) (*LessonScript, error) {
	raw, err := g.completer.CompleteText(ctx, generationSystemPrompt, prompt)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalService, "script", op, "completion request failed", err)
	}
	script := parseScript(raw, record)
	g.logger.Debug("parsed lesson script",
		logging.String("title", script.Title),
		logging.Int("word_count", script.WordCount),
		logging.Int("practice_items", len(script.AllItems())))
	return script, nil
}

// parseScript maps section-delimited model output onto a LessonScript.
// Missing sections stay empty; the QA gate catches resulting defects.
func parseScript(raw string, record intake.Intake) *LessonScript {
	sections := SplitSections(raw)
	script := &LessonScript{
		Title:           lessonTitle(record),
		Introduction:    sections[TagIntroduction],
		CoreExplanation: sections[TagCoreExplanation],
		PracticeOne: PracticeSegment{
			Setup:        sections[TagPractice1Setup],
			PausePrompt:  sections[TagPractice1Prompt],
			Items:        ParseItems(sections[TagPractice1Items]),
			Resume:       sections[TagPractice1Resume],
			AnswerReveal: sections[TagPractice1Answers],
		},
		DeeperExplanation: sections[TagDeeperExplanation],
		PracticeTwo: PracticeSegment{
			Setup:        sections[TagPractice2Setup],
			PausePrompt:  sections[TagPractice2Prompt],
			Items:        ParseItems(sections[TagPractice2Items]),
			Resume:       sections[TagPractice2Resume],
			AnswerReveal: sections[TagPractice2Answers],
		},
		MiniChallenge: sections[TagMiniChallenge],
		Closing:       sections[TagClosing],
		ParentSummary: sections[TagParentSummary],
	}
	script.finalize(WordsPerMinute(record.Grade))
	return script
}

func lessonTitle(record intake.Intake) string {
	topic := catalog.Normalize(record.Topic)
	name := strings.TrimSpace(record.ChildName)
	switch {
	case name != "" && topic != "":
		return name + "'s " + topic + " Lesson"
	case topic != "":
		return topic + " Lesson"
	default:
		return "Personalized Lesson"
	}
}
