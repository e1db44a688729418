package entity

import (
	"time"
)

// PeriodKind selects a preset reporting window or a custom range.
type PeriodKind string

const (
	PeriodWeek    PeriodKind = "week"
	PeriodMonth   PeriodKind = "month"
	PeriodQuarter PeriodKind = "quarter"
	PeriodYear    PeriodKind = "year"
	PeriodCustom  PeriodKind = "custom"
)

var validPeriodKinds = map[PeriodKind]bool{
	PeriodWeek:    true,
	PeriodMonth:   true,
	PeriodQuarter: true,
	PeriodYear:    true,
	PeriodCustom:  true,
}

func IsValidPeriodKind(kind string) bool {
	return validPeriodKinds[PeriodKind(kind)]
}

// PeriodRequest is the tagged period selector. Start/End are only
// meaningful when Kind is PeriodCustom.
type PeriodRequest struct {
	Kind  PeriodKind
	Start time.Time
	End   time.Time
}

// ComparisonMode is the rule used to derive the previous interval from
// the current one.
type ComparisonMode string

const (
	ComparePreviousPeriod ComparisonMode = "previous"
	CompareYearOverYear   ComparisonMode = "yoy"
)

func IsValidComparisonMode(mode string) bool {
	m := ComparisonMode(mode)
	return m == ComparePreviousPeriod || m == CompareYearOverYear
}

// Interval is a closed date range at day granularity. Start and End are
// midnight-normalized; invariant Start <= End. Never mutated after creation.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Days returns the number of calendar days covered, inclusive of both ends.
// Counted on date components rather than wall-clock duration so intervals
// spanning a DST transition are not off by one.
func (i Interval) Days() int {
	start := time.Date(i.Start.Year(), i.Start.Month(), i.Start.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(i.End.Year(), i.End.Month(), i.End.Day(), 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours()/24) + 1
}

// ExclusiveEnd returns the first instant after the interval, for use in
// half-open `>= start AND < end` query predicates.
func (i Interval) ExclusiveEnd() time.Time {
	return i.End.AddDate(0, 0, 1)
}

func (i Interval) String() string {
	return i.Start.Format("2006-01-02") + " – " + i.End.Format("2006-01-02")
}

// DimensionFilter optionally restricts every aggregation query to one
// vendor and/or one category. Nil means no restriction, not zero.
type DimensionFilter struct {
	VendorID   *int
	CategoryID *int
}

// IsZero reports whether the filter places no restriction at all.
func (f DimensionFilter) IsZero() bool {
	return f.VendorID == nil && f.CategoryID == nil
}

// ReportContext carries the acting admin and the parsed request through a
// single report computation. Replaces the ambient session state the legacy
// pages relied on.
type ReportContext struct {
	RequestID  string
	ActorEmail string
	Period     PeriodRequest
	Mode       ComparisonMode
	Filter     DimensionFilter
}
