package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/jobs-tracker/constants"
)

// Job represents a tracked job application for data transfer between layers.
type Job struct {
	ID        uuid.UUID           `json:"id"`
	OwnerID   string              `json:"ownerId"`
	Position  string              `json:"position"`
	Company   string              `json:"company"`
	Location  string              `json:"location"`
	Status    constants.JobStatus `json:"status"`
	Mode      constants.JobMode   `json:"mode"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}

// JobInput is the caller-supplied payload for create and update, before validation.
type JobInput struct {
	Position string `json:"position" yaml:"position"`
	Company  string `json:"company" yaml:"company"`
	Location string `json:"location" yaml:"location"`
	Status   string `json:"status" yaml:"status"`
	Mode     string `json:"mode" yaml:"mode"`
}

// JobFields is a validated, canonical JobInput.
type JobFields struct {
	Position string
	Company  string
	Location string
	Status   constants.JobStatus
	Mode     constants.JobMode
}

// ListJobsParams holds the caller's list criteria. Zero values mean "not set".
type ListJobsParams struct {
	Search string
	Status string
	Page   int
	Limit  int
}

// ListJobsResult is one page of an owner's jobs.
type ListJobsResult struct {
	Jobs       []*Job `json:"jobs"`
	Count      int    `json:"count"`
	TotalPages int    `json:"totalPages"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
}

// EmptyListJobsResult is returned when the list cannot be served. limit is the
// effective page size the caller asked for.
func EmptyListJobsResult(limit int) ListJobsResult {
	return ListJobsResult{Jobs: []*Job{}, Count: 0, TotalPages: 0, Page: 1, Limit: limit}
}
