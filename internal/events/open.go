package events

import (
	"context"

	"go.uber.org/zap"

	"github.com/joseph-ayodele/jobs-tracker/internal/common"
	"github.com/joseph-ayodele/jobs-tracker/internal/entity"
)

// PublishCloser is a publisher that owns its connection.
type PublishCloser interface {
	Publish(ctx context.Context, event entity.JobEvent) error
	Close() error
}

// Open returns a RabbitMQ publisher when a URL is configured, otherwise a
// publisher that only logs.
func Open(cfg common.EventsConfig, logger *zap.Logger) (PublishCloser, error) {
	if cfg.RabbitMQURL == "" {
		logger.Info("RABBITMQ_URL not set, job events are logged only")
		return NewLogPublisher(logger), nil
	}
	p, err := DialRabbit(cfg.RabbitMQURL, cfg.Exchange, logger)
	if err != nil {
		return nil, common.WrapError(err, "open event publisher")
	}
	return p, nil
}
