package async

import (
	"context"

	"github.com/joseph-ayodele/jobs-tracker/internal/entity"
)

// Publisher delivers one job event to its destination.
type Publisher interface {
	Publish(ctx context.Context, event entity.JobEvent) error
}

// Queue accepts job events without blocking the caller.
type Queue interface {
	Notify(ctx context.Context, event entity.JobEvent)
	Shutdown(ctx context.Context)
	// Dropped reports how many events were discarded.
	Dropped() int64
}
