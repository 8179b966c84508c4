package repository

import (
	"time"

	"entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/joseph-ayodele/jobs-tracker/constants"
	"github.com/joseph-ayodele/jobs-tracker/internal/common"
)

// JobFilter is a conjunction of predicates over one owner's jobs.
// The owner clause is always present; OwnedBy is the only constructor.
type JobFilter struct {
	ownerID      string
	id           *uuid.UUID
	search       string
	status       string
	createdSince *time.Time
}

// OwnedBy starts a filter scoped to ownerID.
func OwnedBy(ownerID string) *JobFilter {
	return &JobFilter{ownerID: ownerID}
}

// OwnerID returns the owner the filter is scoped to, or "" for a nil filter.
func (f *JobFilter) OwnerID() string {
	if f == nil {
		return ""
	}
	return f.ownerID
}

// ID narrows the filter to a single job.
func (f *JobFilter) ID(id uuid.UUID) *JobFilter {
	f.id = &id
	return f
}

// Search matches term as a substring of position or company. Empty is ignored.
func (f *JobFilter) Search(term string) *JobFilter {
	f.search = term
	return f
}

// Status filters on status unless it is empty or "all".
// A value outside the known statuses matches nothing.
func (f *JobFilter) Status(status string) *JobFilter {
	if status == "" || status == constants.StatusFilterAll {
		f.status = ""
		return f
	}
	if s, ok := constants.ParseStatus(status); ok {
		f.status = string(s)
		return f
	}
	f.status = status
	return f
}

// CreatedSince keeps jobs created at or after t.
func (f *JobFilter) CreatedSince(t time.Time) *JobFilter {
	utc := t.UTC()
	f.createdSince = &utc
	return f
}

// predicate builds a fresh predicate on every call, so one filter may feed
// several concurrent queries.
func (f *JobFilter) predicate() (*sql.Predicate, error) {
	if f == nil || f.ownerID == "" {
		return nil, common.ErrUnscopedQuery
	}

	preds := []*sql.Predicate{sql.EQ(colOwnerID, f.ownerID)}
	if f.id != nil {
		preds = append(preds, sql.EQ(colID, *f.id))
	}
	if f.search != "" {
		preds = append(preds, sql.Or(
			sql.Contains(colPosition, f.search),
			sql.Contains(colCompany, f.search),
		))
	}
	if f.status != "" {
		preds = append(preds, sql.EQ(colStatus, f.status))
	}
	if f.createdSince != nil {
		preds = append(preds, sql.GTE(colCreatedAt, *f.createdSince))
	}

	if len(preds) == 1 {
		return preds[0], nil
	}
	return sql.And(preds...), nil
}
