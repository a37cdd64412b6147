package intake

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"lessonforge/internal/services"
	"lessonforge/internal/services/llm"
)

// maxDiagnosisAttempts bounds the number of diagnosis rewrites before the
// engine accepts the current understanding and moves on. Without a cap a
// parent who keeps answering "no" would loop forever.
const maxDiagnosisAttempts = 3

// ConversationState is the full mutable state of one intake session. It is
// owned by a single caller; the engine mutates it in place on each turn.
type ConversationState struct {
	SessionID         string        `json:"session_id"`
	StartedAt         time.Time     `json:"started_at"`
	Intake            Intake        `json:"intake"`
	History           []llm.Message `json:"history"`
	Greeted           bool          `json:"greeted"`
	FinalConfirmed    bool          `json:"final_confirmed"`
	DiagnosisAttempts int           `json:"diagnosis_attempts"`
}

// NewConversationState creates an empty session with a fresh identifier.
func NewConversationState() *ConversationState {
	return &ConversationState{
		SessionID: uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
}

// Phase derives the current conversation phase from the session state.
func (s *ConversationState) Phase() Phase {
	return PhaseFor(s.Intake, s.Greeted, s.FinalConfirmed)
}

// Completed reports whether the session has reached the terminal phase.
func (s *ConversationState) Completed() bool {
	return s.Phase() == PhaseComplete
}

func (s *ConversationState) appendUser(content string) {
	s.History = append(s.History, llm.Message{Role: "user", Content: content})
}

func (s *ConversationState) appendAssistant(content string) {
	s.History = append(s.History, llm.Message{Role: "assistant", Content: content})
}

// Finalize returns the frozen intake record. It fails if any required field
// is still missing, so downstream stages can rely on a complete record.
func (s *ConversationState) Finalize() (Intake, error) {
	if !s.Completed() {
		missing := s.Intake.MissingFields()
		return Intake{}, services.Wrap(services.ErrValidation, "intake", "finalize",
			fmt.Sprintf("conversation incomplete, missing: %s", strings.Join(missing, ", ")), nil)
	}
	return s.Intake, nil
}
