package constants

import "strings"

// JobStatus is the canonical application status stored in jobs.status.
type JobStatus string

// Stable values (store these exact strings in DB).
const (
	JobStatusPending   JobStatus = "pending"
	JobStatusInterview JobStatus = "interview"
	JobStatusDeclined  JobStatus = "declined"
)

// StatusFilterAll is the list filter sentinel that disables status filtering.
const StatusFilterAll = "all"

var allStatuses = []JobStatus{
	JobStatusPending,
	JobStatusInterview,
	JobStatusDeclined,
}

// AllStatuses returns every status in display order.
func AllStatuses() []JobStatus {
	out := make([]JobStatus, len(allStatuses))
	copy(out, allStatuses)
	return out
}

func StatusStrings() []string {
	result := make([]string, len(allStatuses))
	for i, s := range allStatuses {
		result[i] = string(s)
	}
	return result
}

func (s JobStatus) Valid() bool {
	switch s {
	case JobStatusPending, JobStatusInterview, JobStatusDeclined:
		return true
	}
	return false
}

// ParseStatus matches input case-insensitively against the known statuses.
func ParseStatus(input string) (JobStatus, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	for _, s := range allStatuses {
		if normalized == string(s) {
			return s, true
		}
	}
	return "", false
}
