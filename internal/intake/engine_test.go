package intake

import (
	"context"
	"errors"
	"strings"
	"testing"

	"lessonforge/internal/services"
	"lessonforge/internal/services/llm"
)

type fakeCompleter struct {
	extractions []string
	extractErr  error
	replies     []string
	replyErr    error

	jsonCalls int
	convCalls int
	lastSys   string
}

func (f *fakeCompleter) CompleteJSON(_ context.Context, _, _ string) (string, error) {
	f.jsonCalls++
	if f.extractErr != nil {
		return "", f.extractErr
	}
	if len(f.extractions) == 0 {
		return "{}", nil
	}
	out := f.extractions[0]
	f.extractions = f.extractions[1:]
	return out, nil
}

func (f *fakeCompleter) CompleteConversation(_ context.Context, systemPrompt string, _ []llm.Message) (string, error) {
	f.convCalls++
	f.lastSys = systemPrompt
	if f.replyErr != nil {
		return "", f.replyErr
	}
	if len(f.replies) == 0 {
		return "Okay!", nil
	}
	out := f.replies[0]
	f.replies = f.replies[1:]
	return out, nil
}

func filledIntake() Intake {
	return Intake{
		ChildName:       "Mia",
		Grade:           "3",
		Subject:         "math",
		Topic:           "Multiplication facts",
		SpecificProblem: "7x8",
		WhatHappened:    "guessed 54",
		WhereStuck:      "skip counting from 7",
		DiagnosisOK:     true,
		Interest:        "dinosaurs",
		InterestWhy:     "loves the museum",
		LearningStyle:   "visual",
		ParentGoal:      "confidence with facts",
		Tone:            "encouraging",
	}
}

func TestAdvanceGreetsWithoutExtraction(t *testing.T) {
	fake := &fakeCompleter{replies: []string{"Hi! I'm here to help. What's your child's name?"}}
	engine := NewEngine(fake, nil)
	state := NewConversationState()

	reply, err := engine.Advance(context.Background(), state, "")
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if reply == "" {
		t.Fatal("expected a greeting reply")
	}
	if fake.jsonCalls != 0 {
		t.Fatalf("greeting turn should not run extraction, got %d calls", fake.jsonCalls)
	}
	if !state.Greeted || state.Phase() != PhaseBasicInfo {
		t.Fatalf("after greeting: greeted=%v phase=%s", state.Greeted, state.Phase())
	}
}

func TestAdvanceMergesExtractedFields(t *testing.T) {
	fake := &fakeCompleter{
		extractions: []string{`{"child_name":"Mia","grade":"3","subject":"math","topic":"Multiplication facts"}`},
	}
	engine := NewEngine(fake, nil)
	state := NewConversationState()
	state.Greeted = true

	if _, err := engine.Advance(context.Background(), state, "She's Mia, third grade, working on multiplication facts in math."); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if state.Intake.ChildName != "Mia" || state.Intake.Grade != "3" {
		t.Fatalf("merge failed: %+v", state.Intake)
	}
	if state.Phase() != PhaseSpecificStruggle {
		t.Fatalf("phase = %s, want %s", state.Phase(), PhaseSpecificStruggle)
	}
}

func TestAdvanceToleratesExtractionFailure(t *testing.T) {
	fake := &fakeCompleter{extractErr: errors.New("upstream 500")}
	engine := NewEngine(fake, nil)
	state := NewConversationState()
	state.Greeted = true

	reply, err := engine.Advance(context.Background(), state, "She's Mia")
	if err != nil {
		t.Fatalf("extraction failure must not fail the turn: %v", err)
	}
	if reply == "" {
		t.Fatal("expected a reply despite extraction failure")
	}
	if state.Phase() != PhaseBasicInfo {
		t.Fatalf("phase should be unchanged, got %s", state.Phase())
	}
}

func TestAdvanceFailsWhenDialogueFails(t *testing.T) {
	fake := &fakeCompleter{replyErr: errors.New("timeout")}
	engine := NewEngine(fake, nil)
	state := NewConversationState()
	state.Greeted = true

	if _, err := engine.Advance(context.Background(), state, "hello"); !errors.Is(err, services.ErrExternalService) {
		t.Fatalf("expected ErrExternalService, got %v", err)
	}
}

func TestDiagnosisDenialHoldsPhase(t *testing.T) {
	fake := &fakeCompleter{
		extractions: []string{`{"diagnosis_confirmed":false,"where_stuck":"carrying into the tens column"}`},
	}
	engine := NewEngine(fake, nil)
	state := NewConversationState()
	state.Greeted = true
	state.Intake = filledIntake()
	state.Intake.DiagnosisOK = false
	state.Intake.Interest = ""

	before := state.Phase()
	if before != PhaseDiagnosisConfirmation {
		t.Fatalf("setup: phase = %s", before)
	}
	if _, err := engine.Advance(context.Background(), state, "No, she's stuck carrying into the tens column"); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if state.DiagnosisAttempts != 1 || state.Intake.DiagnosisAttempts != 1 {
		t.Fatalf("attempts = %d, record attempts = %d, want 1",
			state.DiagnosisAttempts, state.Intake.DiagnosisAttempts)
	}

	after := state.Phase()
	if after.Before(before) {
		t.Fatalf("phase regressed: %s -> %s", before, after)
	}
	if after != PhaseDiagnosisConfirmation {
		t.Fatalf("denial should hold at confirmation, got %s", after)
	}
	if state.Intake.WhereStuck != "carrying into the tens column" {
		t.Fatalf("correction not folded in: %q", state.Intake.WhereStuck)
	}
	if state.Intake.SpecificProblem != "7x8" || state.Intake.WhatHappened != "guessed 54" {
		t.Fatalf("denial discarded collected struggle fields: %+v", state.Intake)
	}
}

func TestDiagnosisDenialWithoutRestatementKeepsFields(t *testing.T) {
	fake := &fakeCompleter{extractions: []string{`{"diagnosis_confirmed":false}`}}
	engine := NewEngine(fake, nil)
	state := NewConversationState()
	state.Greeted = true
	state.Intake = filledIntake()
	state.Intake.DiagnosisOK = false
	state.Intake.Interest = ""

	if _, err := engine.Advance(context.Background(), state, "No, that's not quite it"); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if state.Phase() != PhaseDiagnosisConfirmation {
		t.Fatalf("phase = %s, want %s", state.Phase(), PhaseDiagnosisConfirmation)
	}
	if state.Intake.SpecificProblem == "" || state.Intake.WhatHappened == "" || state.Intake.WhereStuck == "" {
		t.Fatalf("bare denial must not clear struggle fields: %+v", state.Intake)
	}
}

func TestDiagnosisCapAcceptsCurrentUnderstanding(t *testing.T) {
	fake := &fakeCompleter{extractions: []string{`{"diagnosis_confirmed":false}`}}
	engine := NewEngine(fake, nil)
	state := NewConversationState()
	state.Greeted = true
	state.Intake = filledIntake()
	state.Intake.DiagnosisOK = false
	state.DiagnosisAttempts = maxDiagnosisAttempts - 1

	if _, err := engine.Advance(context.Background(), state, "still no"); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if !state.Intake.DiagnosisOK {
		t.Fatal("cap reached: diagnosis should be accepted")
	}
	if state.Intake.DiagnosisAttempts != maxDiagnosisAttempts {
		t.Fatalf("record attempts = %d, want %d so forced acceptance is visible",
			state.Intake.DiagnosisAttempts, maxDiagnosisAttempts)
	}
}

func TestFinalConfirmationCompletesSession(t *testing.T) {
	fake := &fakeCompleter{extractions: []string{`{"final_confirmed":true}`}}
	engine := NewEngine(fake, nil)
	state := NewConversationState()
	state.Greeted = true
	state.Intake = filledIntake()

	if state.Phase() != PhaseFinalConfirmation {
		t.Fatalf("setup: phase = %s", state.Phase())
	}
	if _, err := engine.Advance(context.Background(), state, "Yes, that's all correct"); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if !state.Completed() {
		t.Fatalf("phase = %s, want complete", state.Phase())
	}
	record, err := state.Finalize()
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	if record.ChildName != "Mia" {
		t.Fatalf("finalized record = %+v", record)
	}
}

func TestFinalDenialAppliesCorrections(t *testing.T) {
	fake := &fakeCompleter{extractions: []string{`{"final_confirmed":false,"tone":"playful"}`}}
	engine := NewEngine(fake, nil)
	state := NewConversationState()
	state.Greeted = true
	state.Intake = filledIntake()

	if _, err := engine.Advance(context.Background(), state, "Almost - make it playful instead"); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if state.Intake.Tone != "playful" {
		t.Fatalf("correction not applied: tone = %q", state.Intake.Tone)
	}
	if state.Completed() {
		t.Fatal("denied summary must not complete the session")
	}
}

func TestFinalizeRejectsIncompleteSession(t *testing.T) {
	state := NewConversationState()
	if _, err := state.Finalize(); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestDialoguePromptListsMissingFields(t *testing.T) {
	fake := &fakeCompleter{}
	engine := NewEngine(fake, nil)
	state := NewConversationState()
	state.Greeted = true
	state.Intake.ChildName = "Mia"

	if _, err := engine.Advance(context.Background(), state, "hi"); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if !strings.Contains(fake.lastSys, FieldGrade) {
		t.Fatalf("system prompt should list missing fields, got:\n%s", fake.lastSys)
	}
	if !strings.Contains(fake.lastSys, "Mia") {
		t.Fatalf("system prompt should summarize collected fields, got:\n%s", fake.lastSys)
	}
}

func TestMergeNeverOverwrites(t *testing.T) {
	i := Intake{ChildName: "Mia", AvoidTerms: []string{"stupid"}}
	i.merge(extraction{ChildName: "Leo", Grade: "2", AvoidTerms: []string{"Stupid", "dumb"}})
	if i.ChildName != "Mia" {
		t.Fatalf("merge overwrote a filled field: %q", i.ChildName)
	}
	if i.Grade != "2" {
		t.Fatalf("merge dropped an empty-field fill: %q", i.Grade)
	}
	if len(i.AvoidTerms) != 2 {
		t.Fatalf("avoid terms should dedupe case-insensitively: %v", i.AvoidTerms)
	}
}
