package utils

import (
	"math"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 100
)

// MonthLabelLayout renders months like "Jan 24".
const MonthLabelLayout = "Jan 06"

// ParsePage reads a 1-based page number; absent, non-numeric or non-positive input yields 1.
func ParsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 1
	}
	return NormalizePage(page)
}

// ParseLimit reads a page size; absent or non-numeric input yields the default.
func ParseLimit(raw string) int {
	limit, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return DefaultPageLimit
	}
	return NormalizeLimit(limit)
}

func NormalizePage(page int) int {
	if page <= 0 {
		return 1
	}
	return page
}

func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultPageLimit
	case limit > MaxPageLimit:
		return MaxPageLimit
	}
	return limit
}

// TotalPages is ceil(count/limit).
func TotalPages(count, limit int) int {
	if count <= 0 || limit <= 0 {
		return 0
	}
	return (count + limit - 1) / limit
}

// Offset is the number of rows skipped before page. It saturates rather than
// overflow, so a page far past the end still selects no rows.
func Offset(page, limit int) int {
	if limit <= 0 {
		return 0
	}
	skipped := NormalizePage(page) - 1
	if skipped > math.MaxInt/limit {
		skipped = math.MaxInt / limit
	}
	return skipped * limit
}

// SubtractMonths steps back n calendar months, clamping the day to the end of
// the target month (Mar 31 minus 1 month is Feb 28/29).
func SubtractMonths(t time.Time, n int) time.Time {
	y, m, _ := t.Date()
	first := time.Date(y, m-time.Month(n), 1, 0, 0, 0, 0, t.Location())
	day := t.Day()
	if last := daysIn(first); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// MonthLabel formats t in loc as "Jan 24".
func MonthLabel(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(MonthLabelLayout)
}

func daysIn(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}
