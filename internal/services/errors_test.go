package services

import (
	"errors"
	"testing"

	"lessonforge/internal/queue"
)

func TestWrapTagsMarker(t *testing.T) {
	base := errors.New("boom")
	err := Wrap(ErrExternalService, "voice", "synthesize", "TTS request failed", base)
	if !errors.Is(err, ErrExternalService) {
		t.Fatalf("expected marker to survive wrapping: %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected cause to survive wrapping: %v", err)
	}
}

func TestWrapNilMarkerDefaultsToTransient(t *testing.T) {
	err := Wrap(nil, "qa", "verify", "", nil)
	if !errors.Is(err, ErrTransient) {
		t.Fatalf("expected transient marker: %v", err)
	}
}

func TestFailureStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want queue.Status
	}{
		{"validation", Wrap(ErrValidation, "script", "parse", "bad sections", nil), queue.StatusReview},
		{"configuration", Wrap(ErrConfiguration, "voice", "prepare", "missing key", nil), queue.StatusReview},
		{"external", Wrap(ErrExternalService, "llm", "complete", "http 500", nil), queue.StatusFailed},
		{"plain", errors.New("unclassified"), queue.StatusFailed},
	}
	for _, tc := range cases {
		if got := FailureStatus(tc.err); got != tc.want {
			t.Fatalf("%s: FailureStatus = %s, want %s", tc.name, got, tc.want)
		}
	}
}
