package notifications_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"lessonforge/internal/config"
	"lessonforge/internal/notifications"
)

type recorded struct {
	title    string
	message  string
	tags     string
	priority string
}

func newRecordingServer(t *testing.T, sink *[]recorded) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		*sink = append(*sink, recorded{
			title:    r.Header.Get("Title"),
			message:  string(body),
			tags:     r.Header.Get("Tags"),
			priority: r.Header.Get("Priority"),
		})
		w.WriteHeader(http.StatusOK)
	}))
}

func serviceFor(topic string) notifications.Service {
	cfg := &config.Config{}
	cfg.Notifications.NtfyTopic = topic
	cfg.Notifications.RequestTimeout = 5
	return notifications.NewService(cfg)
}

func TestNewServiceReturnsNoopWhenTopicMissing(t *testing.T) {
	svc := serviceFor("")
	if err := svc.NotifyLessonCompleted(context.Background(), "Maya", "Maya's Lesson"); err != nil {
		t.Fatalf("noop notifier should return nil, got %v", err)
	}
}

func TestNotifyLessonCompleted(t *testing.T) {
	var got []recorded
	server := newRecordingServer(t, &got)
	defer server.Close()

	svc := serviceFor(server.URL)
	if err := svc.NotifyLessonCompleted(context.Background(), "Maya", "Maya's Multiplication Facts Lesson"); err != nil {
		t.Fatalf("NotifyLessonCompleted: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 request, got %d", len(got))
	}
	if got[0].title != "Lessonforge - Complete" {
		t.Fatalf("unexpected title %q", got[0].title)
	}
	if !strings.Contains(got[0].message, "Maya's Multiplication Facts Lesson") {
		t.Fatalf("unexpected message %q", got[0].message)
	}
	if got[0].priority != "high" {
		t.Fatalf("completion should be high priority, got %q", got[0].priority)
	}
}

func TestNotifyLessonFailedCarriesError(t *testing.T) {
	var got []recorded
	server := newRecordingServer(t, &got)
	defer server.Close()

	svc := serviceFor(server.URL)
	cause := errors.New("narration synthesis failed")
	if err := svc.NotifyLessonFailed(context.Background(), "Maya's Lesson", cause); err != nil {
		t.Fatalf("NotifyLessonFailed: %v", err)
	}
	if !strings.Contains(got[0].message, "narration synthesis failed") {
		t.Fatalf("error detail missing from message %q", got[0].message)
	}
	if got[0].tags != "lessonforge,error,alert" {
		t.Fatalf("unexpected tags %q", got[0].tags)
	}
}

func TestNotifyFallbackUsed(t *testing.T) {
	var got []recorded
	server := newRecordingServer(t, &got)
	defer server.Close()

	svc := serviceFor(server.URL)
	if err := svc.NotifyFallbackUsed(context.Background(), "Maya's Lesson", 2); err != nil {
		t.Fatalf("NotifyFallbackUsed: %v", err)
	}
	if !strings.Contains(got[0].message, "after 2 regeneration attempts") {
		t.Fatalf("unexpected message %q", got[0].message)
	}
}

func TestSendReportsServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "topic rejected", http.StatusForbidden)
	}))
	defer server.Close()

	svc := serviceFor(server.URL)
	err := svc.TestNotification(context.Background())
	if err == nil {
		t.Fatal("expected error for non-2xx response")
	}
	if !strings.Contains(err.Error(), "403") {
		t.Fatalf("expected status in error, got %v", err)
	}
}
