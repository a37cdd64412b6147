package workflow

import (
	"context"

	"lessonforge/internal/logging"
	"lessonforge/internal/queue"
)

func (m *Manager) notifyCompletion(ctx context.Context, order *queue.Order) {
	if m.notifier == nil || !m.cfg.Notifications.Completion {
		return
	}
	if err := m.notifier.NotifyLessonCompleted(ctx, order.ChildName, order.LessonTitle); err != nil {
		m.logger.Warn("completion notification failed", logging.Error(err))
	}
	if order.FallbackUsed {
		if err := m.notifier.NotifyFallbackUsed(ctx, order.Label(), order.QAAttempts); err != nil {
			m.logger.Warn("fallback notification failed", logging.Error(err))
		}
	}
}

func (m *Manager) notifyFailure(ctx context.Context, order *queue.Order, resolved queue.Status, stageErr error) {
	if m.notifier == nil || !m.cfg.Notifications.Errors {
		return
	}
	var err error
	if resolved == queue.StatusReview {
		err = m.notifier.NotifyReviewNeeded(ctx, order.Label(), order.ReviewReason)
	} else {
		err = m.notifier.NotifyLessonFailed(ctx, order.Label(), stageErr)
	}
	if err != nil {
		m.logger.Warn("failure notification failed", logging.Error(err))
	}
}
