package events

import (
	"context"

	"go.uber.org/zap"

	"github.com/joseph-ayodele/jobs-tracker/internal/entity"
)

// LogPublisher writes job events to the logger. Used when no broker is configured.
type LogPublisher struct {
	logger *zap.Logger
}

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, event entity.JobEvent) error {
	p.logger.Info("job event",
		zap.String("routing_key", event.RoutingKey()),
		zap.String("job_id", event.JobID.String()),
		zap.String("owner_id", event.OwnerID),
		zap.Time("occurred_at", event.OccurredAt))
	return nil
}

func (p *LogPublisher) Close() error { return nil }
