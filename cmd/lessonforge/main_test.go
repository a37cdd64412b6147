package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")
	content := fmt.Sprintf(`[paths]
staging_dir = %q
output_dir = %q
log_dir = %q
`,
		filepath.Join(dir, "staging"),
		filepath.Join(dir, "output"),
		filepath.Join(dir, "logs"))
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return configPath
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestQueueListEmpty(t *testing.T) {
	configPath := writeTestConfig(t)
	out, err := runCommand(t, "--config", configPath, "queue", "list")
	if err != nil {
		t.Fatalf("queue list: %v", err)
	}
	if !strings.Contains(out, "Queue is empty") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestQueueStatusEmpty(t *testing.T) {
	configPath := writeTestConfig(t)
	out, err := runCommand(t, "--config", configPath, "queue", "status")
	if err != nil {
		t.Fatalf("queue status: %v", err)
	}
	if !strings.Contains(out, "total") {
		t.Fatalf("expected total row:\n%s", out)
	}
}

func TestQueueListRejectsUnknownStatus(t *testing.T) {
	configPath := writeTestConfig(t)
	if _, err := runCommand(t, "--config", configPath, "queue", "list", "--status", "bogus"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}

func TestTopicsCommand(t *testing.T) {
	out, err := runCommand(t, "topics", "--grade", "3", "--subject", "math")
	if err != nil {
		t.Fatalf("topics: %v", err)
	}
	if !strings.Contains(out, "Multiplication facts") {
		t.Fatalf("expected grade 3 math topics:\n%s", out)
	}
}

func TestTopicsRejectsUnknownSubject(t *testing.T) {
	if _, err := runCommand(t, "topics", "--subject", "chemistry"); err == nil {
		t.Fatal("expected error for unknown subject")
	}
}

func TestRunRejectsIncompleteIntake(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")
	content := fmt.Sprintf(`[paths]
staging_dir = %q
output_dir = %q
log_dir = %q

[llm]
api_key = "test-key"

[voice]
api_key = "test-key"
default_voice_id = "narrator"
`,
		filepath.Join(dir, "staging"),
		filepath.Join(dir, "output"),
		filepath.Join(dir, "logs"))
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	intakePath := filepath.Join(dir, "intake.json")
	if err := os.WriteFile(intakePath, []byte(`{"child_name":"Ava"}`), 0o644); err != nil {
		t.Fatalf("write intake: %v", err)
	}

	_, err := runCommand(t, "--config", configPath, "run", "--intake", intakePath)
	if err == nil {
		t.Fatal("expected error for incomplete intake")
	}
	if !strings.Contains(err.Error(), "incomplete") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestConfigInitWritesSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	out, err := runCommand(t, "config", "init", "--path", path)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, path) {
		t.Fatalf("expected path in output:\n%s", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[llm]") {
		t.Fatal("sample config missing llm section")
	}
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if _, err := runCommand(t, "config", "init", "--path", path); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if _, err := runCommand(t, "config", "init", "--path", path); err == nil {
		t.Fatal("expected error when config already exists")
	}
}

func TestConfigShow(t *testing.T) {
	configPath := writeTestConfig(t)
	out, err := runCommand(t, "--config", configPath, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "Staging dir") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestTestNotifyWithoutTopic(t *testing.T) {
	configPath := writeTestConfig(t)
	out, err := runCommand(t, "--config", configPath, "test-notify")
	if err != nil {
		t.Fatalf("test-notify: %v", err)
	}
	if !strings.Contains(out, "not configured") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}
