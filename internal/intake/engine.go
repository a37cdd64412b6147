package intake

import (
	"context"
	"log/slog"
	"strings"

	"lessonforge/internal/logging"
	"lessonforge/internal/services"
	"lessonforge/internal/services/llm"
)

// Completer is the completion surface the engine needs. *llm.Client
// satisfies it.
type Completer interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	CompleteConversation(ctx context.Context, systemPrompt string, history []llm.Message) (string, error)
}

// Engine drives the intake conversation one turn at a time.
type Engine struct {
	completer Completer
	logger    *slog.Logger
}

// NewEngine creates a conversation engine backed by the given completer.
func NewEngine(completer Completer, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Engine{completer: completer, logger: logger}
}

// extraction is the structured payload the model returns when asked to pull
// intake facts out of a parent message. Absent fields stay nil/empty.
type extraction struct {
	ChildName          string   `json:"child_name,omitempty"`
	Grade              string   `json:"grade,omitempty"`
	Subject            string   `json:"subject,omitempty"`
	Topic              string   `json:"topic,omitempty"`
	SpecificProblem    string   `json:"specific_problem,omitempty"`
	WhatHappened       string   `json:"what_happened,omitempty"`
	WhereStuck         string   `json:"where_stuck,omitempty"`
	Interest           string   `json:"interest,omitempty"`
	InterestWhy        string   `json:"interest_why,omitempty"`
	LearningStyle      string   `json:"learning_style,omitempty"`
	ParentGoal         string   `json:"parent_goal,omitempty"`
	Tone               string   `json:"tone,omitempty"`
	AvoidTerms         []string `json:"avoid_terms,omitempty"`
	DiagnosisConfirmed *bool    `json:"diagnosis_confirmed,omitempty"`
	FinalConfirmed     *bool    `json:"final_confirmed,omitempty"`
}

// Advance runs one conversation turn: extract facts from the parent's
// message, fold them into the intake, and produce the next assistant
// utterance. Extraction failures are tolerated; only dialogue generation
// failures fail the turn.
func (e *Engine) Advance(ctx context.Context, state *ConversationState, userMessage string) (string, error) {
	if state == nil {
		return "", services.Wrap(services.ErrValidation, "intake", "advance", "nil conversation state", nil)
	}

	phaseBefore := state.Phase()
	userMessage = strings.TrimSpace(userMessage)
	if userMessage != "" && state.Greeted {
		state.appendUser(userMessage)
		e.extractAndMerge(ctx, state, phaseBefore, userMessage)
	}
	if !state.Greeted {
		state.Greeted = true
	}

	reply, err := e.completer.CompleteConversation(ctx, dialogueSystemPrompt(state), state.History)
	if err != nil {
		return "", services.Wrap(services.ErrExternalService, "intake", "advance", "dialogue generation failed", err)
	}
	reply = strings.TrimSpace(reply)
	state.appendAssistant(reply)
	return reply, nil
}

// extractAndMerge runs the structured-extraction pass and applies its
// result. Any failure is logged and swallowed so a flaky extraction never
// loses the parent's message; missing fields are simply re-elicited.
func (e *Engine) extractAndMerge(ctx context.Context, state *ConversationState, phase Phase, userMessage string) {
	content, err := e.completer.CompleteJSON(ctx, extractionSystemPrompt, extractionUserPrompt(phase, state.Intake, userMessage))
	if err != nil {
		e.logger.Warn("intake extraction failed, continuing without it",
			logging.String(logging.FieldSessionID, state.SessionID),
			logging.Error(err))
		return
	}
	var extracted extraction
	if err := llm.DecodeJSON(content, &extracted); err != nil {
		e.logger.Warn("intake extraction returned undecodable payload",
			logging.String(logging.FieldSessionID, state.SessionID),
			logging.Error(err))
		return
	}

	switch phase {
	case PhaseDiagnosisConfirmation:
		e.applyDiagnosisAnswer(state, extracted)
	case PhaseFinalConfirmation:
		if extracted.FinalConfirmed != nil {
			if *extracted.FinalConfirmed {
				state.FinalConfirmed = true
			} else {
				state.Intake.applyOverrides(extracted)
			}
		}
	}
	state.Intake.merge(extracted)
}

// applyDiagnosisAnswer handles the parent's yes/no on the restated
// struggle. A denial holds the session at the confirmation phase: the
// collected struggle fields stay populated and any restated facts replace
// the parts the parent corrected, up to a bounded number of attempts; past
// the cap the current understanding stands and the conversation moves on.
// Keeping the fields populated is what keeps the phase from regressing. The
// attempt count is mirrored onto the intake record so a cap-forced
// acceptance stays distinguishable from a real confirmation downstream.
func (e *Engine) applyDiagnosisAnswer(state *ConversationState, extracted extraction) {
	if extracted.DiagnosisConfirmed == nil {
		return
	}
	if *extracted.DiagnosisConfirmed {
		state.Intake.DiagnosisOK = true
		return
	}
	state.DiagnosisAttempts++
	state.Intake.DiagnosisAttempts = state.DiagnosisAttempts
	if state.DiagnosisAttempts >= maxDiagnosisAttempts {
		e.logger.Info("diagnosis attempt cap reached, accepting current understanding",
			logging.String(logging.FieldSessionID, state.SessionID),
			logging.Int("attempts", state.DiagnosisAttempts))
		state.Intake.DiagnosisOK = true
		return
	}
	state.Intake.applyStruggleCorrections(extracted)
}
