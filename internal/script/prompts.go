package script

import (
	"fmt"
	"strings"

	"lessonforge/internal/intake"
)

const generationSystemPrompt = `You write narrated lesson scripts for young children, spoken by a single friendly teacher voice.
Output ONLY plain narration text organized under the exact bracketed section tags you are given, in the given order.
Practice item sections use one item per line in the form: problem | answer | format
Do not add markdown, headings, or any tags beyond the ones requested.`

// toneInstructions maps the parent's tone preference to a concrete style
// instruction. Unknown tones fall back to encouraging.
var toneInstructions = map[string]string{
	"encouraging": "Be warm and encouraging; celebrate effort and frame mistakes as part of learning.",
	"playful":     "Be playful and silly; use jokes and sound effects the child will find funny.",
	"calm":        "Be calm and gentle; keep an even, soothing pace with no exclamations.",
	"patient":     "Be endlessly patient; repeat key ideas in different words without rushing.",
	"energetic":   "Be upbeat and energetic; keep momentum high and cheer the child on.",
}

// ToneInstruction returns the style line for a tone preference.
func ToneInstruction(tone string) string {
	if instruction, ok := toneInstructions[strings.ToLower(strings.TrimSpace(tone))]; ok {
		return instruction
	}
	return toneInstructions["encouraging"]
}

func intakeBrief(record intake.Intake) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Child: %s, grade %s.\n", record.ChildName, record.Grade)
	fmt.Fprintf(&b, "Subject: %s. Topic: %s.\n", record.Subject, record.Topic)
	fmt.Fprintf(&b, "Specific struggle: %s. What happened: %s. Where they get stuck: %s.\n",
		record.SpecificProblem, record.WhatHappened, record.WhereStuck)
	fmt.Fprintf(&b, "The child loves %s (%s); weave this interest through every example.\n",
		record.Interest, record.InterestWhy)
	fmt.Fprintf(&b, "Learning style: %s. Parent's goal: %s.\n", record.LearningStyle, record.ParentGoal)
	if len(record.AvoidTerms) > 0 {
		fmt.Fprintf(&b, "Never use these words or framings: %s.\n", strings.Join(record.AvoidTerms, ", "))
	}
	return b.String()
}

func sectionTemplate() string {
	var b strings.Builder
	b.WriteString("Structure the lesson under exactly these tags, in this order:\n")
	for _, tag := range sectionTags {
		fmt.Fprintf(&b, "%s\n", delimiter(tag))
	}
	b.WriteString("The two ITEMS sections hold 2-4 practice items each, one per line as: problem | answer | format\n")
	b.WriteString("The PROMPT sections tell the child to pause the video and try the items.\n")
	b.WriteString("The PARENT_SUMMARY section is written to the parent, not the child.\n")
	return b.String()
}

func buildLessonPrompt(record intake.Intake, targetMinutes int) string {
	var b strings.Builder
	b.WriteString("Write a personalized video lesson script.\n\n")
	b.WriteString(intakeBrief(record))
	fmt.Fprintf(&b, "Tone: %s\n", ToneInstruction(record.Tone))
	fmt.Fprintf(&b, "Target length: about %d spoken words (%d minutes at this grade's pace). Address the child by name often.\n\n",
		TargetWordCount(record.Grade, targetMinutes), targetMinutes)
	b.WriteString(sectionTemplate())
	return b.String()
}

func buildRegenerationPrompt(record intake.Intake, previous *LessonScript, problems []string, targetMinutes int) string {
	var b strings.Builder
	b.WriteString("A quality review found problems in the lesson script below. Write a corrected full replacement.\n\n")
	b.WriteString("Problems found:\n")
	for _, problem := range problems {
		fmt.Fprintf(&b, "- %s\n", problem)
	}
	b.WriteString("\nOriginal script:\n")
	if previous != nil {
		b.WriteString(FormatSections(previousSections(previous)))
	}
	b.WriteString("\n")
	b.WriteString(intakeBrief(record))
	fmt.Fprintf(&b, "Tone: %s\n", ToneInstruction(record.Tone))
	fmt.Fprintf(&b, "Keep the length near %d words. Fix every listed problem; keep what already works.\n\n",
		TargetWordCount(record.Grade, targetMinutes))
	b.WriteString(sectionTemplate())
	return b.String()
}

func buildFallbackPrompt(record intake.Intake, targetMinutes int) string {
	var b strings.Builder
	b.WriteString("Write a short, simple, extra-careful video lesson script.\n\n")
	b.WriteString(intakeBrief(record))
	fmt.Fprintf(&b, "Tone: %s\n", ToneInstruction(record.Tone))
	fmt.Fprintf(&b, "Target length: about %d spoken words (%d minutes). Use only the simplest examples you are completely sure of.\n",
		TargetWordCount(record.Grade, targetMinutes), targetMinutes)
	b.WriteString("Double-check every calculation and every phonics claim before writing it down. ")
	b.WriteString("If unsure about an example, choose an easier one.\n\n")
	b.WriteString(sectionTemplate())
	return b.String()
}

// previousSections rebuilds the section map from a parsed script so the
// regeneration prompt shows the model its own prior output.
func previousSections(s *LessonScript) map[string]string {
	return map[string]string{
		TagIntroduction:      s.Introduction,
		TagCoreExplanation:   s.CoreExplanation,
		TagPractice1Setup:    s.PracticeOne.Setup,
		TagPractice1Prompt:   s.PracticeOne.PausePrompt,
		TagPractice1Items:    FormatItems(s.PracticeOne.Items),
		TagPractice1Resume:   s.PracticeOne.Resume,
		TagPractice1Answers:  s.PracticeOne.AnswerReveal,
		TagDeeperExplanation: s.DeeperExplanation,
		TagPractice2Setup:    s.PracticeTwo.Setup,
		TagPractice2Prompt:   s.PracticeTwo.PausePrompt,
		TagPractice2Items:    FormatItems(s.PracticeTwo.Items),
		TagPractice2Resume:   s.PracticeTwo.Resume,
		TagPractice2Answers:  s.PracticeTwo.AnswerReveal,
		TagMiniChallenge:     s.MiniChallenge,
		TagClosing:           s.Closing,
		TagParentSummary:     s.ParentSummary,
	}
}
