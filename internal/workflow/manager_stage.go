package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"lessonforge/internal/logging"
	"lessonforge/internal/queue"
	"lessonforge/internal/services"
)

func (m *Manager) processOrder(ctx context.Context, order *queue.Order) error {
	stg, ok := m.stageForStatus(order.Status)
	if !ok {
		m.logger.Warn("no stage configured for status", logging.String("status", string(order.Status)))
		m.waitForOrderOrShutdown(ctx)
		return nil
	}

	stageCtx := services.WithOrderID(ctx, order.ID)
	stageCtx = services.WithStage(stageCtx, stg.name)
	stageCtx = services.WithRequestID(stageCtx, uuid.NewString())
	stageLogger := logging.WithContext(stageCtx, m.logger)

	if err := m.transitionToProcessing(stageCtx, stg, order); err != nil {
		stageLogger.Error("failed to transition order to processing", logging.Error(err))
		m.setLastError(err)
		return err
	}

	return m.executeStage(stageCtx, stageLogger, stg, order)
}

func (m *Manager) executeStage(ctx context.Context, stageLogger *slog.Logger, stg pipelineStage, order *queue.Order) error {
	stageStart := time.Now()
	stageLogger.Info("stage started",
		logging.String("processing_status", string(stg.processingStatus)),
		logging.String("order", order.Label()))

	if err := stg.handler.Prepare(ctx, order); err != nil {
		m.handleStageFailure(ctx, stg.name, order, err)
		m.setLastError(err)
		return err
	}
	if err := m.store.Update(ctx, order); err != nil {
		wrapped := fmt.Errorf("persist stage preparation: %w", err)
		stageLogger.Error("failed to persist stage preparation", logging.Error(wrapped))
		m.setLastError(wrapped)
		return wrapped
	}

	execErr := m.executeWithHeartbeat(ctx, stg, order)
	if execErr != nil {
		if errors.Is(execErr, context.Canceled) {
			stageLogger.Debug("stage interrupted by shutdown")
			return execErr
		}
		m.handleStageFailure(ctx, stg.name, order, execErr)
		m.setLastError(execErr)
		return execErr
	}

	if order.Status == stg.processingStatus || order.Status == "" {
		order.Status = stg.doneStatus
	}
	order.LastHeartbeat = nil
	if order.Status == queue.StatusCompleted {
		if order.ProgressPercent < 100 {
			order.ProgressPercent = 100
		}
		if strings.TrimSpace(order.ProgressMessage) == "" {
			order.ProgressMessage = "Lesson ready"
		}
	}
	if err := m.store.Update(ctx, order); err != nil {
		wrapped := fmt.Errorf("persist stage result: %w", err)
		stageLogger.Error("failed to persist stage result", logging.Error(wrapped))
		m.setLastError(wrapped)
		return wrapped
	}

	stageLogger.Info("stage completed",
		logging.String("next_status", string(order.Status)),
		logging.Duration("stage_duration", time.Since(stageStart)))

	m.setLastOrder(order)
	if order.Status == queue.StatusCompleted {
		m.notifyCompletion(ctx, order)
	}
	return nil
}

func (m *Manager) executeWithHeartbeat(ctx context.Context, stg pipelineStage, order *queue.Order) error {
	hbCtx, hbCancel := context.WithCancel(ctx)
	var hbWG sync.WaitGroup
	hbWG.Add(1)
	go m.heartbeat.StartLoop(hbCtx, &hbWG, order.ID)

	execErr := stg.handler.Execute(ctx, order)
	hbCancel()
	hbWG.Wait()
	return execErr
}

func (m *Manager) transitionToProcessing(ctx context.Context, stg pipelineStage, order *queue.Order) error {
	if stg.processingStatus == "" {
		return errors.New("processing status must not be empty")
	}

	now := time.Now().UTC()
	order.Status = stg.processingStatus
	order.ProgressPercent = 0
	order.ErrorMessage = ""
	order.LastHeartbeat = &now

	if err := m.store.Update(ctx, order); err != nil {
		return fmt.Errorf("persist processing transition: %w", err)
	}
	m.setLastOrder(order)
	return nil
}
