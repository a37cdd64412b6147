package ffprobe

import (
	"encoding/json"
	"testing"
)

func TestDurationFromFormat(t *testing.T) {
	var result Result
	payload := `{"format":{"filename":"a.mp3","duration":"512.34"},"streams":[]}`
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	d, err := result.Duration()
	if err != nil {
		t.Fatalf("Duration: %v", err)
	}
	if d != 512.34 {
		t.Fatalf("d = %v", d)
	}
}

func TestDurationFallsBackToAudioStream(t *testing.T) {
	var result Result
	payload := `{"format":{"filename":"a.mp3"},"streams":[{"codec_type":"video","duration":"10"},{"codec_type":"audio","duration":"300.5"}]}`
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	d, err := result.Duration()
	if err != nil {
		t.Fatalf("Duration: %v", err)
	}
	if d != 300.5 {
		t.Fatalf("d = %v", d)
	}
}

func TestDurationMissing(t *testing.T) {
	var result Result
	if _, err := result.Duration(); err == nil {
		t.Fatal("expected error for empty result")
	}
}
