package entity

import (
	"time"

	"github.com/google/uuid"
)

// JobEventType names a change to a job record.
type JobEventType string

const (
	JobCreated JobEventType = "created"
	JobUpdated JobEventType = "updated"
	JobDeleted JobEventType = "deleted"
)

// JobEvent describes a committed change to a job, emitted for external consumers.
type JobEvent struct {
	Type       JobEventType `json:"type"`
	JobID      uuid.UUID    `json:"jobId"`
	OwnerID    string       `json:"ownerId"`
	OccurredAt time.Time    `json:"occurredAt"`
}

// RoutingKey is the topic routing key for the event, e.g. "job.created".
func (e JobEvent) RoutingKey() string {
	return "job." + string(e.Type)
}
