package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lessonforge/internal/logging"
	"lessonforge/internal/queue"
	"lessonforge/internal/services"
)

func (m *Manager) handleStageFailure(ctx context.Context, stageName string, order *queue.Order, stageErr error) {
	logger := logging.WithContext(ctx, m.logger)

	message := m.classifyStageFailure(stageName, stageErr)
	resolved := services.FailureStatus(stageErr)
	if resolved == queue.StatusReview {
		order.SetReview(message)
	} else {
		order.SetFailed(message)
	}

	logger.Error("stage failed",
		logging.String("resolved_status", string(resolved)),
		logging.String("error_message", strings.TrimSpace(message)),
		logging.Error(stageErr))

	if err := m.store.Update(ctx, order); err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Debug("daemon shutting down, could not update stage failure")
		} else {
			logger.Error("failed to persist stage failure", logging.Error(err))
		}
	}

	m.setLastOrder(order)
	m.notifyFailure(ctx, order, resolved, stageErr)
}

func (m *Manager) classifyStageFailure(stageName string, stageErr error) string {
	if stageErr == nil {
		return fmt.Sprintf("%s failed without error detail", stageName)
	}
	message := strings.TrimSpace(stageErr.Error())
	if message == "" {
		message = fmt.Sprintf("%s failed", stageName)
	}
	return message
}
