package constants

import (
	"strings"
)

// JobMode is the employment mode of an application.
type JobMode string

const (
	JobModeFullTime   JobMode = "full-time"
	JobModePartTime   JobMode = "part-time"
	JobModeInternship JobMode = "internship"
)

var allModes = []JobMode{
	JobModeFullTime,
	JobModePartTime,
	JobModeInternship,
}

func AllModes() []JobMode {
	out := make([]JobMode, len(allModes))
	copy(out, allModes)
	return out
}

func ModeStrings() []string {
	result := make([]string, len(allModes))
	for i, m := range allModes {
		result[i] = string(m)
	}
	return result
}

func (m JobMode) Valid() bool {
	switch m {
	case JobModeFullTime, JobModePartTime, JobModeInternship:
		return true
	}
	return false
}

// ParseMode canonicalizes input into a JobMode, accepting a few common spellings.
func ParseMode(input string) (JobMode, bool) {
	if input == "" {
		return "", false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	synonyms := map[string]JobMode{
		"fulltime":  JobModeFullTime,
		"full time": JobModeFullTime,
		"full_time": JobModeFullTime,
		"parttime":  JobModePartTime,
		"part time": JobModePartTime,
		"part_time": JobModePartTime,
		"intern":    JobModeInternship,
	}

	if m, ok := synonyms[normalized]; ok {
		return m, true
	}

	for _, m := range allModes {
		if normalized == string(m) {
			return m, true
		}
	}

	return "", false
}
