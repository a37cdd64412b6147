package voice

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lessonforge/internal/services"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, slept *[]time.Duration) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(
		Config{APIKey: "key", BaseURL: server.URL, Model: "tts-1", ThrottleCooldown: 7 * time.Second},
		WithHTTPClient(server.Client()),
		WithSleeper(func(d time.Duration) { *slept = append(*slept, d) }),
	)
}

func TestSynthesizeSuccess(t *testing.T) {
	var slept []time.Duration
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/v1/text-to-speech/voice-1") {
			t.Errorf("path = %s", r.URL.Path)
		}
		if r.Header.Get("xi-api-key") != "key" {
			t.Error("missing api key header")
		}
		_, _ = w.Write([]byte("mp3-bytes"))
	}, &slept)

	audio, err := client.Synthesize(context.Background(), "Hello there...", "voice-1")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if string(audio) != "mp3-bytes" || len(slept) != 0 {
		t.Fatalf("audio = %q, slept = %v", audio, slept)
	}
}

func TestSynthesizeRetriesOnceAfterThrottle(t *testing.T) {
	var slept []time.Duration
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte("mp3-bytes"))
	}, &slept)

	audio, err := client.Synthesize(context.Background(), "text", "voice-1")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if calls != 2 || string(audio) != "mp3-bytes" {
		t.Fatalf("calls = %d, audio = %q", calls, audio)
	}
	if len(slept) != 1 || slept[0] != 7*time.Second {
		t.Fatalf("slept = %v, want one 7s cooldown", slept)
	}
}

func TestSynthesizeThrottleRetriedExactlyOnce(t *testing.T) {
	var slept []time.Duration
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
	}, &slept)

	_, err := client.Synthesize(context.Background(), "text", "voice-1")
	if !errors.Is(err, services.ErrExternalService) {
		t.Fatalf("expected external service error, got %v", err)
	}
	if calls != 2 || len(slept) != 1 {
		t.Fatalf("calls = %d, slept = %v", calls, slept)
	}
}

func TestSynthesizeOtherFailuresPropagate(t *testing.T) {
	var slept []time.Duration
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}, &slept)

	_, err := client.Synthesize(context.Background(), "text", "voice-1")
	if !errors.Is(err, services.ErrExternalService) {
		t.Fatalf("expected external service error, got %v", err)
	}
	if calls != 1 || len(slept) != 0 {
		t.Fatalf("500 must not be retried: calls = %d, slept = %v", calls, slept)
	}
}

func TestSynthesizeValidatesInput(t *testing.T) {
	client := NewClient(Config{APIKey: "key", BaseURL: "http://localhost:0"})
	if _, err := client.Synthesize(context.Background(), "  ", "voice-1"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("empty text: %v", err)
	}
	if _, err := client.Synthesize(context.Background(), "text", ""); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("empty voice: %v", err)
	}
}

func TestCleanNarration(t *testing.T) {
	got := CleanNarration("Try these!\n\n[PAUSE]\n\nWelcome back.")
	if strings.Contains(got, "[PAUSE]") {
		t.Fatalf("marker survived: %q", got)
	}
	if !strings.Contains(got, "...") {
		t.Fatalf("no ellipsis: %q", got)
	}
}
