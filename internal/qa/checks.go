package qa

import (
	"context"
	"fmt"
	"strings"

	"lessonforge/internal/intake"
	"lessonforge/internal/logging"
	"lessonforge/internal/script"
	"lessonforge/internal/services/llm"
)

const gradingSystemPrompt = `You review lesson scripts for young children.
Respond with a single JSON object of the form
{"errors": [{"location": "...", "description": "...", "suggestion": "..."}]}
listing only genuine problems. An empty errors array means the content is fine.
No commentary outside the JSON object.`

type gradedResponse struct {
	Errors []struct {
		Location    string `json:"location"`
		Description string `json:"description"`
		Suggestion  string `json:"suggestion"`
	} `json:"errors"`
}

// runGradedCheck sends a grading prompt and maps the response to findings.
// An external failure downgrades to a could-not-verify warning.
func (v *Verifier) runGradedCheck(ctx context.Context, kind, prompt string) findings {
	content, err := v.completer.CompleteJSON(ctx, gradingSystemPrompt, prompt)
	if err != nil {
		v.logger.Warn("grading call failed, downgrading to warning",
			logging.String("check", kind), logging.Error(err))
		return findings{warnings: []Warning{{
			Kind:        KindUnverified,
			Description: fmt.Sprintf("could not verify %s: grading service unavailable", kind),
		}}}
	}
	var graded gradedResponse
	if err := llm.DecodeJSON(content, &graded); err != nil {
		v.logger.Warn("grading response undecodable, downgrading to warning",
			logging.String("check", kind), logging.Error(err))
		return findings{warnings: []Warning{{
			Kind:        KindUnverified,
			Description: fmt.Sprintf("could not verify %s: grading response unreadable", kind),
		}}}
	}

	var out findings
	for _, ge := range graded.Errors {
		description := strings.TrimSpace(ge.Description)
		if description == "" {
			continue
		}
		out.errors = append(out.errors, Error{
			Kind:        kind,
			Location:    strings.TrimSpace(ge.Location),
			Description: description,
			Suggestion:  strings.TrimSpace(ge.Suggestion),
		})
	}
	return out
}

// checkMath verifies practice-item correctness for math lessons.
func (v *Verifier) checkMath(ctx context.Context, lesson *script.LessonScript, record intake.Intake) findings {
	if !record.IsMath() {
		return findings{}
	}
	var b strings.Builder
	b.WriteString("Check this math lesson content for a grade ")
	b.WriteString(record.Grade)
	b.WriteString(" child. Verify every practice item's answer is numerically correct and the explanations contain no mathematical errors.\n\nPractice items (problem | answer | format):\n")
	b.WriteString(script.FormatItems(lesson.AllItems()))
	b.WriteString("\nExplanation excerpts:\n")
	b.WriteString(excerpt(lesson.CoreExplanation, 600))
	b.WriteString("\n")
	b.WriteString(excerpt(lesson.DeeperExplanation, 600))
	return v.runGradedCheck(ctx, KindMath, b.String())
}

// checkReading verifies phonics-rule correctness for reading lessons.
func (v *Verifier) checkReading(ctx context.Context, lesson *script.LessonScript, record intake.Intake) findings {
	if !record.IsReading() {
		return findings{}
	}
	var b strings.Builder
	b.WriteString("Check this reading lesson content for a grade ")
	b.WriteString(record.Grade)
	b.WriteString(" child. Verify every phonics rule stated is correct, example words actually match the claimed pattern, and comprehension answers are defensible.\n\nPractice items (problem | answer | format):\n")
	b.WriteString(script.FormatItems(lesson.AllItems()))
	b.WriteString("\nExplanation excerpts:\n")
	b.WriteString(excerpt(lesson.CoreExplanation, 600))
	b.WriteString("\n")
	b.WriteString(excerpt(lesson.DeeperExplanation, 600))
	return v.runGradedCheck(ctx, KindReading, b.String())
}

// checkSafety combines the local avoid-term scan with a model content scan.
func (v *Verifier) checkSafety(ctx context.Context, lesson *script.LessonScript, record intake.Intake) findings {
	var out findings

	narrationLower := strings.ToLower(lesson.FullNarration)
	for _, term := range record.AvoidTerms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		if strings.Contains(narrationLower, strings.ToLower(term)) {
			out.errors = append(out.errors, Error{
				Kind:        KindSafety,
				Location:    "narration",
				Description: fmt.Sprintf("narration contains avoided term %q", term),
				Suggestion:  "rephrase without the avoided term",
			})
		}
	}

	var b strings.Builder
	b.WriteString("Scan this child lesson narration for inappropriate, shaming, scary, or biased content. Only flag genuine problems.\n\n")
	b.WriteString(excerpt(lesson.FullNarration, 4000))
	graded := v.runGradedCheck(ctx, KindSafety, b.String())
	out.errors = append(out.errors, graded.errors...)
	out.warnings = append(out.warnings, graded.warnings...)
	return out
}

// checkConsistency is purely local and deterministic.
func (v *Verifier) checkConsistency(_ context.Context, lesson *script.LessonScript, record intake.Intake) findings {
	var out findings

	for _, item := range lesson.AllItems() {
		if strings.TrimSpace(item.Answer) == "" {
			out.errors = append(out.errors, Error{
				Kind:        KindConsistency,
				Location:    item.Problem,
				Description: fmt.Sprintf("practice item %q has no answer", item.Problem),
				Suggestion:  "provide the correct answer for the item",
			})
		}
	}

	expected := script.TargetWordCount(record.Grade, v.target.TargetMinutes)
	ratio := v.cfg.WordBandRatio
	if ratio <= 0 || ratio >= 1 {
		ratio = 0.4
	}
	low := int(float64(expected) * (1 - ratio))
	high := int(float64(expected) * (1 + ratio))
	if lesson.WordCount < low || lesson.WordCount > high {
		out.warnings = append(out.warnings, Warning{
			Kind:        KindConsistency,
			Description: fmt.Sprintf("word count %d outside expected band %d-%d", lesson.WordCount, low, high),
		})
	}

	minMentions := v.cfg.MinNameMentions
	if minMentions <= 0 {
		minMentions = 5
	}
	name := strings.TrimSpace(record.ChildName)
	if name != "" {
		mentions := strings.Count(strings.ToLower(lesson.FullNarration), strings.ToLower(name))
		if mentions < minMentions {
			out.warnings = append(out.warnings, Warning{
				Kind:        KindConsistency,
				Description: fmt.Sprintf("child's name appears %d times, expected at least %d", mentions, minMentions),
			})
		}
	}
	return out
}

func excerpt(text string, limit int) string {
	text = strings.TrimSpace(text)
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
