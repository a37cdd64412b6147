package intake

import "strings"

// Phase is one step of the intake conversation. Phases are strictly
// ordered and derived purely from which intake fields are present, so the
// phase of a session never moves backwards.
type Phase string

const (
	PhaseGreeting              Phase = "greeting"
	PhaseBasicInfo             Phase = "basic_info"
	PhaseSpecificStruggle      Phase = "specific_struggle"
	PhaseDiagnosisConfirmation Phase = "diagnosis_confirmation"
	PhaseInterestDiscovery     Phase = "interest_discovery"
	PhaseLearningPreferences   Phase = "learning_preferences"
	PhaseGoalsAndTone          Phase = "goals_and_tone"
	PhaseFinalConfirmation     Phase = "final_confirmation"
	PhaseComplete              Phase = "complete"
)

var phaseOrder = []Phase{
	PhaseGreeting,
	PhaseBasicInfo,
	PhaseSpecificStruggle,
	PhaseDiagnosisConfirmation,
	PhaseInterestDiscovery,
	PhaseLearningPreferences,
	PhaseGoalsAndTone,
	PhaseFinalConfirmation,
	PhaseComplete,
}

// Phases returns the ordered phase list.
func Phases() []Phase {
	cp := make([]Phase, len(phaseOrder))
	copy(cp, phaseOrder)
	return cp
}

// Index returns the position of a phase in the fixed ordering, or -1.
func (p Phase) Index() int {
	for i, candidate := range phaseOrder {
		if candidate == p {
			return i
		}
	}
	return -1
}

// Before reports whether p precedes other in the fixed ordering.
func (p Phase) Before(other Phase) bool {
	return p.Index() < other.Index()
}

func hasText(value string) bool {
	return strings.TrimSpace(value) != ""
}

// PhaseFor derives the conversation phase from an intake snapshot plus the
// session flags that are not part of the intake record itself. It is a
// pure, total function: any combination of inputs maps to exactly one phase.
func PhaseFor(i Intake, greeted, finalConfirmed bool) Phase {
	switch {
	case !greeted:
		return PhaseGreeting
	case !hasText(i.ChildName) || !hasText(i.Grade) || !hasText(i.Subject) || !hasText(i.Topic):
		return PhaseBasicInfo
	case !hasText(i.SpecificProblem) || !hasText(i.WhatHappened) || !hasText(i.WhereStuck):
		return PhaseSpecificStruggle
	case !i.DiagnosisOK:
		return PhaseDiagnosisConfirmation
	case !hasText(i.Interest) || !hasText(i.InterestWhy):
		return PhaseInterestDiscovery
	case !hasText(i.LearningStyle):
		return PhaseLearningPreferences
	case !hasText(i.ParentGoal) || !hasText(i.Tone):
		return PhaseGoalsAndTone
	case !finalConfirmed:
		return PhaseFinalConfirmation
	default:
		return PhaseComplete
	}
}
