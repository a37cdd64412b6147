package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"lessonforge/internal/config"
	"lessonforge/internal/intake"
	"lessonforge/internal/qa"
	"lessonforge/internal/queue"
	"lessonforge/internal/script"
	"lessonforge/internal/services"
	"lessonforge/internal/stage"
	"lessonforge/internal/workflow"
)

type scriptedHandler struct {
	name    string
	execErr error
	mutate  func(order *queue.Order)
}

func (s *scriptedHandler) Prepare(ctx context.Context, order *queue.Order) error { return nil }

func (s *scriptedHandler) Execute(ctx context.Context, order *queue.Order) error {
	if s.execErr != nil {
		return s.execErr
	}
	if s.mutate != nil {
		s.mutate(order)
	}
	return nil
}

func (s *scriptedHandler) HealthCheck(ctx context.Context) stage.Health {
	return stage.Healthy(s.name)
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(data)
}

func newTestRunner(t *testing.T, set workflow.StageSet) (*Runner, *queue.Store) {
	t.Helper()
	store, err := queue.OpenPath(filepath.Join(t.TempDir(), "queue.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return NewRunner(&config.Config{}, store, set, nil), store
}

func completedIntake() intake.Intake {
	return intake.Intake{ChildName: "Maya", Grade: "3", Subject: "math", Topic: "multiplication"}
}

func TestRunDrivesAllStagesAndCollectsArtifacts(t *testing.T) {
	lesson := script.LessonScript{Title: "Maya's Multiplication Facts Lesson", FullNarration: "hello"}
	report := qa.Result{Passed: true}

	var sawScript, sawQA string
	set := workflow.StageSet{
		Script: &scriptedHandler{name: "script", mutate: func(order *queue.Order) {
			order.ScriptJSON = mustJSON(t, lesson)
			order.LessonTitle = lesson.Title
		}},
		QA: &scriptedHandler{name: "qa", mutate: func(order *queue.Order) {
			sawScript = order.ScriptJSON
			order.QAReportJSON = mustJSON(t, report)
		}},
		Voice: &scriptedHandler{name: "voice", mutate: func(order *queue.Order) {
			sawQA = order.QAReportJSON
			order.AudioPath = "/tmp/narration.mp3"
		}},
		Video: &scriptedHandler{name: "video", mutate: func(order *queue.Order) {
			order.VideoPath = "/tmp/lesson.mp4"
		}},
		Sheets: &scriptedHandler{name: "sheets", mutate: func(order *queue.Order) {
			order.SheetPath = "/tmp/lesson-practice.md"
		}},
	}

	runner, store := newTestRunner(t, set)
	result, err := runner.Run(context.Background(), completedIntake())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Script == nil || result.Script.Title != lesson.Title {
		t.Fatalf("script artifact not collected: %+v", result.Script)
	}
	if result.QAResult == nil || !result.QAResult.Passed {
		t.Fatalf("qa artifact not collected: %+v", result.QAResult)
	}
	if result.AudioPath != "/tmp/narration.mp3" || result.VideoPath != "/tmp/lesson.mp4" || result.SheetPath != "/tmp/lesson-practice.md" {
		t.Fatalf("artifact paths not collected: %+v", result)
	}
	if sawScript == "" {
		t.Fatal("qa stage did not see the script artifact")
	}
	if sawQA == "" {
		t.Fatal("voice stage did not see the qa artifact")
	}

	persisted, err := store.GetByID(context.Background(), result.Order.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if persisted.Status != queue.StatusCompleted {
		t.Fatalf("order status %s, want completed", persisted.Status)
	}
}

func TestRunStageFailureRecordsStatus(t *testing.T) {
	set := workflow.StageSet{
		Script: &scriptedHandler{name: "script"},
		Voice: &scriptedHandler{name: "voice",
			execErr: services.Wrap(services.ErrExternalService, "voice", "synthesize", "throttled twice", nil)},
	}

	runner, store := newTestRunner(t, set)
	_, err := runner.Run(context.Background(), completedIntake())
	if err == nil {
		t.Fatal("expected stage failure to propagate")
	}
	if !errors.Is(err, services.ErrExternalService) {
		t.Fatalf("failure lost its marker: %v", err)
	}

	orders, err := store.List(context.Background(), queue.StatusFailed)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected 1 failed order, got %d", len(orders))
	}
	if orders[0].ErrorMessage == "" {
		t.Fatal("failed order should record the message")
	}
}

func TestRunValidationFailureParksForReview(t *testing.T) {
	set := workflow.StageSet{
		Script: &scriptedHandler{name: "script",
			execErr: services.Wrap(services.ErrValidation, "script", "prepare", "intake record incomplete", nil)},
	}

	runner, store := newTestRunner(t, set)
	if _, err := runner.Run(context.Background(), completedIntake()); err == nil {
		t.Fatal("expected validation failure to propagate")
	}

	orders, err := store.List(context.Background(), queue.StatusReview)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(orders) != 1 || !orders[0].NeedsReview {
		t.Fatalf("expected 1 review order, got %+v", orders)
	}
}
