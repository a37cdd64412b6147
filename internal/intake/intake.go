package intake

import "strings"

// Intake is the accumulated answer set for one lesson request. It is
// mutated field-by-field during the conversation and frozen once the
// parent confirms the final summary; downstream stages consume it by value.
//
// DiagnosisAttempts counts the parent's denials of the restated struggle.
// A record with DiagnosisOK set and a non-zero attempt count at the cap was
// accepted by the engine, not confirmed by the parent.
type Intake struct {
	ChildName         string   `json:"child_name"`
	Grade             string   `json:"grade"`
	Subject           string   `json:"subject"`
	Topic             string   `json:"topic"`
	SpecificProblem   string   `json:"specific_problem"`
	WhatHappened      string   `json:"what_happened"`
	WhereStuck        string   `json:"where_stuck"`
	DiagnosisOK       bool     `json:"diagnosis_confirmed"`
	DiagnosisAttempts int      `json:"diagnosis_attempts,omitempty"`
	Interest          string   `json:"interest"`
	InterestWhy       string   `json:"interest_why"`
	LearningStyle     string   `json:"learning_style"`
	ParentGoal        string   `json:"parent_goal"`
	Tone              string   `json:"tone"`
	AvoidTerms        []string `json:"avoid_terms,omitempty"`
}

// Field names accepted by the structured-extraction pass. This list is the
// single source of truth shared by the extraction prompt and the merge step.
const (
	FieldChildName       = "child_name"
	FieldGrade           = "grade"
	FieldSubject         = "subject"
	FieldTopic           = "topic"
	FieldSpecificProblem = "specific_problem"
	FieldWhatHappened    = "what_happened"
	FieldWhereStuck      = "where_stuck"
	FieldDiagnosisOK     = "diagnosis_confirmed"
	FieldInterest        = "interest"
	FieldInterestWhy     = "interest_why"
	FieldLearningStyle   = "learning_style"
	FieldParentGoal      = "parent_goal"
	FieldTone            = "tone"
	FieldAvoidTerms      = "avoid_terms"
)

// ExtractableFields lists every field the extraction pass may set, in the
// order they are elicited.
func ExtractableFields() []string {
	return []string{
		FieldChildName, FieldGrade, FieldSubject, FieldTopic,
		FieldSpecificProblem, FieldWhatHappened, FieldWhereStuck,
		FieldDiagnosisOK,
		FieldInterest, FieldInterestWhy, FieldLearningStyle,
		FieldParentGoal, FieldTone, FieldAvoidTerms,
	}
}

// MissingFields returns the required fields that are still empty, in
// elicitation order. DiagnosisOK is reported as missing until explicitly
// confirmed.
func (i Intake) MissingFields() []string {
	var missing []string
	check := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	check(FieldChildName, i.ChildName)
	check(FieldGrade, i.Grade)
	check(FieldSubject, i.Subject)
	check(FieldTopic, i.Topic)
	check(FieldSpecificProblem, i.SpecificProblem)
	check(FieldWhatHappened, i.WhatHappened)
	check(FieldWhereStuck, i.WhereStuck)
	if !i.DiagnosisOK {
		missing = append(missing, FieldDiagnosisOK)
	}
	check(FieldInterest, i.Interest)
	check(FieldInterestWhy, i.InterestWhy)
	check(FieldLearningStyle, i.LearningStyle)
	check(FieldParentGoal, i.ParentGoal)
	check(FieldTone, i.Tone)
	return missing
}

// Complete reports whether every required field is populated and the
// diagnosis has been explicitly confirmed.
func (i Intake) Complete() bool {
	return len(i.MissingFields()) == 0
}

// IsMath reports whether the lesson subject is math.
func (i Intake) IsMath() bool {
	return strings.EqualFold(strings.TrimSpace(i.Subject), "math")
}

// IsReading reports whether the lesson subject is reading.
func (i Intake) IsReading() bool {
	return strings.EqualFold(strings.TrimSpace(i.Subject), "reading")
}

// applyOverrides overwrites fields with non-empty extracted values. Only
// used when the parent declines the final summary and states corrections;
// everywhere else merge keeps filled fields immutable.
func (i *Intake) applyOverrides(extracted extraction) {
	override := func(dst *string, value string) {
		value = strings.TrimSpace(value)
		if value != "" {
			*dst = value
		}
	}
	override(&i.ChildName, extracted.ChildName)
	override(&i.Grade, extracted.Grade)
	override(&i.Subject, extracted.Subject)
	override(&i.Topic, extracted.Topic)
	override(&i.SpecificProblem, extracted.SpecificProblem)
	override(&i.WhatHappened, extracted.WhatHappened)
	override(&i.WhereStuck, extracted.WhereStuck)
	override(&i.Interest, extracted.Interest)
	override(&i.InterestWhy, extracted.InterestWhy)
	override(&i.LearningStyle, extracted.LearningStyle)
	override(&i.ParentGoal, extracted.ParentGoal)
	override(&i.Tone, extracted.Tone)
}

// applyStruggleCorrections overwrites only the struggle fields with any
// restated values from a diagnosis denial. The fields never go empty, so
// the session holds at the confirmation phase instead of regressing.
func (i *Intake) applyStruggleCorrections(extracted extraction) {
	override := func(dst *string, value string) {
		value = strings.TrimSpace(value)
		if value != "" {
			*dst = value
		}
	}
	override(&i.SpecificProblem, extracted.SpecificProblem)
	override(&i.WhatHappened, extracted.WhatHappened)
	override(&i.WhereStuck, extracted.WhereStuck)
}

// merge copies non-empty extracted values into empty fields only. Filled
// fields are never overwritten, which keeps phase derivation monotonic.
func (i *Intake) merge(extracted extraction) {
	setIfEmpty := func(dst *string, value string) {
		value = strings.TrimSpace(value)
		if *dst == "" && value != "" {
			*dst = value
		}
	}
	setIfEmpty(&i.ChildName, extracted.ChildName)
	setIfEmpty(&i.Grade, extracted.Grade)
	setIfEmpty(&i.Subject, extracted.Subject)
	setIfEmpty(&i.Topic, extracted.Topic)
	setIfEmpty(&i.SpecificProblem, extracted.SpecificProblem)
	setIfEmpty(&i.WhatHappened, extracted.WhatHappened)
	setIfEmpty(&i.WhereStuck, extracted.WhereStuck)
	setIfEmpty(&i.Interest, extracted.Interest)
	setIfEmpty(&i.InterestWhy, extracted.InterestWhy)
	setIfEmpty(&i.LearningStyle, extracted.LearningStyle)
	setIfEmpty(&i.ParentGoal, extracted.ParentGoal)
	setIfEmpty(&i.Tone, extracted.Tone)
	for _, term := range extracted.AvoidTerms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		duplicate := false
		for _, existing := range i.AvoidTerms {
			if strings.EqualFold(existing, term) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			i.AvoidTerms = append(i.AvoidTerms, term)
		}
	}
}
