// Package pipeline drives a single lesson order through every stage
// without the daemon. It is the entry point the CLI uses once an intake
// conversation has been finalized; the workflow manager covers the
// long-running daemon case with the same stage handlers.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"lessonforge/internal/config"
	"lessonforge/internal/intake"
	"lessonforge/internal/logging"
	"lessonforge/internal/qa"
	"lessonforge/internal/queue"
	"lessonforge/internal/script"
	"lessonforge/internal/services"
	"lessonforge/internal/stage"
	"lessonforge/internal/visuals"
	"lessonforge/internal/workflow"
)

// Result bundles every artifact one pipeline run produces.
type Result struct {
	Order     *queue.Order
	Script    *script.LessonScript
	QAResult  *qa.Result
	AudioPath string
	Visuals   *visuals.Visuals
	VideoPath string
	SheetPath string
}

type stageEntry struct {
	name    string
	handler stage.Handler
	done    queue.Status
}

// Runner executes the full pipeline for one order.
type Runner struct {
	cfg    *config.Config
	store  *queue.Store
	stages []stageEntry
	logger *slog.Logger
}

// NewRunner creates a pipeline runner from the same handlers the workflow
// manager orchestrates.
func NewRunner(cfg *config.Config, store *queue.Store, set workflow.StageSet, logger *slog.Logger) *Runner {
	runnerLogger := logging.NewComponentLogger(logger, "pipeline")
	stages := make([]stageEntry, 0, 6)
	add := func(name string, handler stage.Handler, done queue.Status) {
		if handler != nil {
			stages = append(stages, stageEntry{name: name, handler: handler, done: done})
		}
	}
	add("script", set.Script, queue.StatusScriptReady)
	add("qa", set.QA, queue.StatusQAVerified)
	add("voice", set.Voice, queue.StatusAudioReady)
	add("visuals", set.Visuals, queue.StatusVisualsReady)
	add("video", set.Video, queue.StatusVideoRendered)
	add("sheets", set.Sheets, queue.StatusCompleted)

	return &Runner{cfg: cfg, store: store, stages: stages, logger: runnerLogger}
}

// Run enqueues an order for the finalized intake and executes every stage
// sequentially. The order row records progress and final artifacts exactly
// as the daemon path would.
func (r *Runner) Run(ctx context.Context, record intake.Intake) (*Result, error) {
	intakeJSON, err := json.Marshal(record)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "pipeline", "run", "could not encode intake", err)
	}

	order, err := r.store.NewOrder(ctx, uuid.NewString(), record.ChildName, "", string(intakeJSON))
	if err != nil {
		return nil, fmt.Errorf("enqueue order: %w", err)
	}

	runCtx := services.WithOrderID(ctx, order.ID)
	logger := logging.WithContext(runCtx, r.logger)

	for _, entry := range r.stages {
		stageCtx := services.WithStage(runCtx, entry.name)
		logger.Info("pipeline stage starting", logging.String("stage", entry.name))

		if err := entry.handler.Prepare(stageCtx, order); err != nil {
			r.recordFailure(runCtx, order, err)
			return nil, err
		}
		if err := entry.handler.Execute(stageCtx, order); err != nil {
			r.recordFailure(runCtx, order, err)
			return nil, err
		}

		order.Status = entry.done
		if err := r.store.Update(runCtx, order); err != nil {
			return nil, fmt.Errorf("persist stage result: %w", err)
		}
	}

	result, err := r.collectResult(order)
	if err != nil {
		return nil, err
	}
	logger.Info("pipeline complete",
		logging.String("video_path", order.VideoPath),
		logging.Bool("fallback_used", order.FallbackUsed))
	return result, nil
}

func (r *Runner) recordFailure(ctx context.Context, order *queue.Order, stageErr error) {
	if services.FailureStatus(stageErr) == queue.StatusReview {
		order.SetReview(stageErr.Error())
	} else {
		order.SetFailed(stageErr.Error())
	}
	if err := r.store.Update(ctx, order); err != nil {
		logging.WithContext(ctx, r.logger).Error("failed to persist pipeline failure", logging.Error(err))
	}
}

func (r *Runner) collectResult(order *queue.Order) (*Result, error) {
	result := &Result{
		Order:     order,
		AudioPath: order.AudioPath,
		VideoPath: order.VideoPath,
		SheetPath: order.SheetPath,
	}
	if order.ScriptJSON != "" {
		var lesson script.LessonScript
		if err := json.Unmarshal([]byte(order.ScriptJSON), &lesson); err != nil {
			return nil, fmt.Errorf("decode script artifact: %w", err)
		}
		result.Script = &lesson
	}
	if order.QAReportJSON != "" {
		var report qa.Result
		if err := json.Unmarshal([]byte(order.QAReportJSON), &report); err != nil {
			return nil, fmt.Errorf("decode qa report artifact: %w", err)
		}
		result.QAResult = &report
	}
	if order.VisualsJSON != "" {
		var scenes visuals.Visuals
		if err := json.Unmarshal([]byte(order.VisualsJSON), &scenes); err != nil {
			return nil, fmt.Errorf("decode visuals artifact: %w", err)
		}
		result.Visuals = &scenes
	}
	return result, nil
}
