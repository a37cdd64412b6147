package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestConsoleHandlerSubjectAndFields(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, lvl))

	logger.Info("stage started",
		String(FieldComponent, "script-generator"),
		Int64(FieldOrderID, 42),
		String(FieldStage, "generating_script"),
		String("topic", "Multiplication facts"),
	)

	out := buf.String()
	if !strings.Contains(out, "script-generator · Order #42 (generating_script)") {
		t.Fatalf("missing subject in output: %q", out)
	}
	if !strings.Contains(out, "topic: Multiplication facts") {
		t.Fatalf("missing field in output: %q", out)
	}
}

func TestFormatSubject(t *testing.T) {
	cases := []struct {
		component, order, stage, want string
	}{
		{"", "", "", ""},
		{"qa", "", "", "qa"},
		{"qa", "7", "", "qa · Order #7"},
		{"", "7", "verifying_qa", "Order #7 (verifying_qa)"},
	}
	for _, tc := range cases {
		if got := formatSubject(tc.component, tc.order, tc.stage); got != tc.want {
			t.Fatalf("formatSubject(%q,%q,%q) = %q, want %q", tc.component, tc.order, tc.stage, got, tc.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	if parseLevel("debug") != slog.LevelDebug {
		t.Fatal("debug should parse")
	}
	if parseLevel("unknown") != slog.LevelInfo {
		t.Fatal("unknown should default to info")
	}
}
