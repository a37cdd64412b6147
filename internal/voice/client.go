package voice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"lessonforge/internal/script"
	"lessonforge/internal/services"
)

// Config captures the settings the synthesis client needs.
type Config struct {
	APIKey           string
	BaseURL          string
	Model            string
	Timeout          time.Duration
	ThrottleCooldown time.Duration
}

// Client talks to the text-to-speech API.
type Client struct {
	cfg        Config
	httpClient *http.Client
	sleeper    func(time.Duration)
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client (used in tests).
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithSleeper overrides the cooldown sleep (used in tests).
func WithSleeper(sleeper func(time.Duration)) Option {
	return func(c *Client) {
		if sleeper != nil {
			c.sleeper = sleeper
		}
	}
}

// NewClient constructs a synthesis client.
func NewClient(cfg Config, opts ...Option) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Minute
	}
	if cfg.ThrottleCooldown <= 0 {
		cfg.ThrottleCooldown = 30 * time.Second
	}
	client := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		sleeper:    time.Sleep,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

type synthesisRequest struct {
	Text          string         `json:"text"`
	ModelID       string         `json:"model_id,omitempty"`
	VoiceSettings map[string]any `json:"voice_settings,omitempty"`
}

// Synthesize converts narration text to audio bytes. HTTP 429 is retried
// exactly once after the configured cooldown; every other failure
// propagates. Callers persist the bytes before probing duration.
func (c *Client) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, services.Wrap(services.ErrValidation, "voice", "synthesize", "narration text is empty", nil)
	}
	if strings.TrimSpace(voiceID) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "voice", "synthesize", "voice id not configured", nil)
	}

	audio, status, err := c.sendOnce(ctx, text, voiceID)
	if err == nil {
		return audio, nil
	}
	if status != http.StatusTooManyRequests {
		return nil, err
	}

	// Throttled: wait out the cooldown and try exactly once more.
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	c.sleeper(c.cfg.ThrottleCooldown)
	audio, _, err = c.sendOnce(ctx, text, voiceID)
	if err != nil {
		return nil, err
	}
	return audio, nil
}

func (c *Client) sendOnce(ctx context.Context, text, voiceID string) ([]byte, int, error) {
	payload := synthesisRequest{
		Text:    text,
		ModelID: c.cfg.Model,
		VoiceSettings: map[string]any{
			"stability":        0.5,
			"similarity_boost": 0.75,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, services.Wrap(services.ErrValidation, "voice", "synthesize", "could not encode request", err)
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/v1/text-to-speech/" + voiceID
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, 0, services.Wrap(services.ErrExternalService, "voice", "synthesize", "could not build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "audio/mpeg")
	req.Header.Set("xi-api-key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, services.Wrap(services.ErrExternalService, "voice", "synthesize", "synthesis request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, resp.StatusCode, services.Wrap(services.ErrExternalService, "voice", "synthesize",
			fmt.Sprintf("synthesis returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet))), nil)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, services.Wrap(services.ErrExternalService, "voice", "synthesize", "could not read audio stream", err)
	}
	if len(audio) == 0 {
		return nil, resp.StatusCode, services.Wrap(services.ErrExternalService, "voice", "synthesize", "synthesis returned empty audio", nil)
	}
	return audio, resp.StatusCode, nil
}

// HealthCheck verifies the API is reachable with the configured key.
func (c *Client) HealthCheck(ctx context.Context) error {
	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/v1/voices"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("xi-api-key", c.cfg.APIKey)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("voice health check returned HTTP %d", resp.StatusCode)
	}
	return nil
}

// CleanNarration converts pause markers into ellipses so the synthesized
// speech holds briefly instead of reading the marker aloud.
func CleanNarration(text string) string {
	text = strings.ReplaceAll(text, script.PauseMarker, "...")
	return strings.TrimSpace(text)
}
