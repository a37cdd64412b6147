package stage

import (
	"context"

	"lessonforge/internal/queue"
)

// Handler describes the contract the workflow manager needs from each stage.
type Handler interface {
	Prepare(context.Context, *queue.Order) error
	Execute(context.Context, *queue.Order) error
	HealthCheck(context.Context) Health
}
