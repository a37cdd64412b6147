package intake

import (
	"encoding/json"
	"fmt"
	"strings"
)

const extractionSystemPrompt = `You extract structured facts from a parent's message during a tutoring intake conversation.
Return a single JSON object. Include ONLY fields the parent actually stated in this message; omit everything else.
Allowed fields:
  child_name (string), grade (string, K-6), subject ("math" or "reading"), topic (string),
  specific_problem (string), what_happened (string), where_stuck (string),
  interest (string), interest_why (string), learning_style (string),
  parent_goal (string), tone (string), avoid_terms (array of strings),
  diagnosis_confirmed (boolean, only when the parent is answering whether the restated struggle is accurate),
  final_confirmed (boolean, only when the parent is answering whether the final summary is correct).
Never invent values. Never include commentary outside the JSON object.`

func extractionUserPrompt(phase Phase, current Intake, userMessage string) string {
	snapshot, _ := json.Marshal(current)
	var b strings.Builder
	fmt.Fprintf(&b, "Conversation phase: %s\n", phase)
	fmt.Fprintf(&b, "Fields already collected (do not re-extract unless the parent is correcting them): %s\n", snapshot)
	fmt.Fprintf(&b, "Parent message:\n%s\n", userMessage)
	return b.String()
}

var phaseGuidance = map[Phase]string{
	PhaseGreeting:              "Warmly greet the parent, introduce yourself as a lesson-planning assistant, and ask for the child's name and grade.",
	PhaseBasicInfo:             "Collect the child's name, grade (K-6), subject (math or reading), and the topic they are working on. Ask for at most two of the missing items at a time.",
	PhaseSpecificStruggle:      "Dig into the specific struggle: what exact problem came up, what happened when the child tried it, and where exactly they got stuck. One focused question at a time.",
	PhaseDiagnosisConfirmation: "Restate your understanding of the child's struggle in one or two sentences and ask the parent to confirm whether it is accurate.",
	PhaseInterestDiscovery:     "Ask what the child loves (a hobby, character, or theme) and why it excites them, so the lesson can be built around it.",
	PhaseLearningPreferences:   "Ask how the child learns best: visually, through stories, by doing, with repetition, and so on.",
	PhaseGoalsAndTone:          "Ask what outcome the parent wants from this lesson and what tone suits the child (encouraging, playful, calm). Also ask if any words or framings should be avoided.",
	PhaseFinalConfirmation:     "Summarize everything collected in a short bulleted recap and ask the parent to confirm it is correct before the lesson is generated.",
	PhaseComplete:              "Thank the parent, tell them the personalized lesson is being generated, and say they will be notified when it is ready. Do not ask further questions.",
}

func dialogueSystemPrompt(state *ConversationState) string {
	phase := state.Phase()
	var b strings.Builder
	b.WriteString("You are a warm, concise intake assistant helping a parent set up a personalized video lesson for their child. ")
	b.WriteString("Keep replies under four sentences, ask one thing at a time, and never mention internal phases or field names.\n\n")
	fmt.Fprintf(&b, "Current objective: %s\n", phaseGuidance[phase])
	if missing := state.Intake.MissingFields(); len(missing) > 0 && phase != PhaseGreeting {
		fmt.Fprintf(&b, "Still needed: %s\n", strings.Join(missing, ", "))
	}
	if snapshot := collectedSummary(state.Intake); snapshot != "" {
		fmt.Fprintf(&b, "Already collected:\n%s", snapshot)
	}
	return b.String()
}

func collectedSummary(i Intake) string {
	var b strings.Builder
	add := func(label, value string) {
		if strings.TrimSpace(value) != "" {
			fmt.Fprintf(&b, "- %s: %s\n", label, value)
		}
	}
	add("child", i.ChildName)
	add("grade", i.Grade)
	add("subject", i.Subject)
	add("topic", i.Topic)
	add("specific problem", i.SpecificProblem)
	add("what happened", i.WhatHappened)
	add("where stuck", i.WhereStuck)
	add("interest", i.Interest)
	add("why it excites them", i.InterestWhy)
	add("learning style", i.LearningStyle)
	add("parent goal", i.ParentGoal)
	add("tone", i.Tone)
	if len(i.AvoidTerms) > 0 {
		fmt.Fprintf(&b, "- avoid: %s\n", strings.Join(i.AvoidTerms, ", "))
	}
	return b.String()
}
