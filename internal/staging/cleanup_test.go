package staging

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func makeOrderDir(t *testing.T, root, name string, age time.Duration) string {
	t.Helper()
	dir := filepath.Join(root, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", name, err)
	}
	stamp := time.Now().Add(-age)
	if err := os.Chtimes(dir, stamp, stamp); err != nil {
		t.Fatalf("chtimes %s: %v", name, err)
	}
	return dir
}

func TestCleanStaleRemovesOldOrderDirs(t *testing.T) {
	root := t.TempDir()
	old := makeOrderDir(t, root, "order-1", 48*time.Hour)
	fresh := makeOrderDir(t, root, "order-2", time.Minute)
	unrelated := makeOrderDir(t, root, "scratch", 48*time.Hour)

	result := CleanStale(root, 24*time.Hour, nil)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %#v", result.Errors)
	}
	if len(result.Removed) != 1 || result.Removed[0] != old {
		t.Fatalf("unexpected removals: %#v", result.Removed)
	}
	for _, dir := range []string{fresh, unrelated} {
		if _, err := os.Stat(dir); err != nil {
			t.Fatalf("expected %s to survive: %v", dir, err)
		}
	}
}

func TestCleanStaleZeroMaxAgeIsNoop(t *testing.T) {
	root := t.TempDir()
	dir := makeOrderDir(t, root, "order-9", 1000*time.Hour)

	result := CleanStale(root, 0, nil)
	if len(result.Removed) != 0 {
		t.Fatalf("expected no removals, got %#v", result.Removed)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("expected dir to survive: %v", err)
	}
}

func TestCleanOrphaned(t *testing.T) {
	root := t.TempDir()
	active := makeOrderDir(t, root, "order-3", time.Hour)
	orphan := makeOrderDir(t, root, "order-4", time.Hour)
	unrelated := makeOrderDir(t, root, "frames-cache", time.Hour)

	result := CleanOrphaned(root, map[string]struct{}{"order-3": {}}, nil)
	if len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %#v", result.Errors)
	}
	if len(result.Removed) != 1 || result.Removed[0] != orphan {
		t.Fatalf("unexpected removals: %#v", result.Removed)
	}
	for _, dir := range []string{active, unrelated} {
		if _, err := os.Stat(dir); err != nil {
			t.Fatalf("expected %s to survive: %v", dir, err)
		}
	}
}

func TestCleanMissingRootIsQuiet(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope")
	if result := CleanStale(missing, time.Hour, nil); len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %#v", result.Errors)
	}
	if result := CleanOrphaned(missing, nil, nil); len(result.Errors) != 0 {
		t.Fatalf("unexpected errors: %#v", result.Errors)
	}
}

func TestOrderDirNaming(t *testing.T) {
	if got := OrderDirName(42); got != "order-42" {
		t.Fatalf("unexpected name: %s", got)
	}
	if got := OrderDir("/tmp/staging", 42); got != filepath.Join("/tmp/staging", "order-42") {
		t.Fatalf("unexpected path: %s", got)
	}
	for name, want := range map[string]bool{
		"order-1":   true,
		"order-":    false,
		"order-1a":  false,
		"order":     false,
		"lesson-12": false,
	} {
		if got := isOrderDir(name); got != want {
			t.Fatalf("isOrderDir(%q) = %v, want %v", name, got, want)
		}
	}
}
