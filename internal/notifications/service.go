package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"lessonforge/internal/config"
)

const userAgent = "Lessonforge-Go/0.1.0"

// Service defines the notification surface exposed to workflow components.
type Service interface {
	NotifyLessonQueued(ctx context.Context, childName, lessonTitle string) error
	NotifyLessonCompleted(ctx context.Context, childName, lessonTitle string) error
	NotifyLessonFailed(ctx context.Context, lessonTitle string, err error) error
	NotifyFallbackUsed(ctx context.Context, lessonTitle string, attempts int) error
	NotifyReviewNeeded(ctx context.Context, lessonTitle, reason string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyLessonQueued(ctx context.Context, childName, lessonTitle string) error {
	childName = strings.TrimSpace(childName)
	lessonTitle = strings.TrimSpace(lessonTitle)
	message := fmt.Sprintf("Lesson queued for %s", childName)
	if lessonTitle != "" {
		message = fmt.Sprintf("%s: %s", message, lessonTitle)
	}
	data := payload{
		title:   "Lessonforge - Queued",
		message: message,
		tags:    []string{"lessonforge", "queue", "started"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyLessonCompleted(ctx context.Context, childName, lessonTitle string) error {
	childName = strings.TrimSpace(childName)
	lessonTitle = strings.TrimSpace(lessonTitle)
	if lessonTitle == "" {
		lessonTitle = fmt.Sprintf("%s's lesson", childName)
	}
	data := payload{
		title:    "Lessonforge - Complete",
		message:  fmt.Sprintf("Lesson ready: %s", lessonTitle),
		tags:     []string{"lessonforge", "workflow", "completed"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyLessonFailed(ctx context.Context, lessonTitle string, err error) error {
	var builder strings.Builder
	builder.WriteString("Lesson failed")
	if lessonTitle = strings.TrimSpace(lessonTitle); lessonTitle != "" {
		builder.WriteString(": ")
		builder.WriteString(lessonTitle)
	}
	builder.WriteString("\n")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown error")
	}

	data := payload{
		title:    "Lessonforge - Error",
		message:  builder.String(),
		tags:     []string{"lessonforge", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyFallbackUsed(ctx context.Context, lessonTitle string, attempts int) error {
	lessonTitle = strings.TrimSpace(lessonTitle)
	data := payload{
		title:   "Lessonforge - Fallback Used",
		message: fmt.Sprintf("Delivered simplified fallback for %s after %d regeneration attempts", lessonTitle, attempts),
		tags:    []string{"lessonforge", "qa", "fallback"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyReviewNeeded(ctx context.Context, lessonTitle, reason string) error {
	lessonTitle = strings.TrimSpace(lessonTitle)
	reason = strings.TrimSpace(reason)
	message := fmt.Sprintf("Manual review required: %s", lessonTitle)
	if reason != "" {
		message = fmt.Sprintf("%s\n%s", message, reason)
	}
	data := payload{
		title:   "Lessonforge - Review Needed",
		message: message,
		tags:    []string{"lessonforge", "review", "alert"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Lessonforge - Test",
		message:  "Notification system test",
		tags:     []string{"lessonforge", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyLessonQueued(context.Context, string, string) error    { return nil }
func (noopService) NotifyLessonCompleted(context.Context, string, string) error { return nil }
func (noopService) NotifyLessonFailed(context.Context, string, error) error     { return nil }
func (noopService) NotifyFallbackUsed(context.Context, string, int) error       { return nil }
func (noopService) NotifyReviewNeeded(context.Context, string, string) error    { return nil }
func (noopService) TestNotification(context.Context) error                      { return nil }
