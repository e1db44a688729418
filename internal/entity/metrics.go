package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ViewSource identifies one of the redundant view-event logs. Exactly one
// source is authoritative per deployment; the others only serve as fallback
// when the authoritative source has no rows for an interval/filter.
type ViewSource string

const (
	// ViewSourceProductViews is the rich multi-attribute product view log,
	// the default authoritative source.
	ViewSourceProductViews ViewSource = "product_views"
	// ViewSourceActivityLog is the coarse site-wide event log.
	ViewSourceActivityLog ViewSource = "activity_log"
	// ViewSourcePageVisits is the dedicated page-visit log.
	ViewSourcePageVisits ViewSource = "page_visits"
)

func IsValidViewSource(s string) bool {
	switch ViewSource(s) {
	case ViewSourceProductViews, ViewSourceActivityLog, ViewSourcePageVisits:
		return true
	}
	return false
}

// ViewSourceOrder returns the authoritative source followed by the fallback
// sources in their fixed probe order.
func ViewSourceOrder(authoritative ViewSource) []ViewSource {
	all := []ViewSource{ViewSourceProductViews, ViewSourceActivityLog, ViewSourcePageVisits}
	order := []ViewSource{authoritative}
	for _, s := range all {
		if s != authoritative {
			order = append(order, s)
		}
	}
	return order
}

// ProductMetrics is the per-product slice of a MetricSet.
type ProductMetrics struct {
	ProductID   int
	ProductName string
	Sales       decimal.Decimal
	Quantity    int
}

// CategoryMetrics is the per-category slice of a MetricSet.
type CategoryMetrics struct {
	CategoryID   int
	CategoryName string
	Sales        decimal.Decimal
	Quantity     int
}

// ViewStats is the reconciled view count for one product, taken from the
// single authoritative view source (or its fallback).
type ViewStats struct {
	ProductID    int
	TotalViews   int
	LastViewedAt *time.Time
}

// ReferrerCount is one entry of the top-referrers breakdown. Source is a
// normalized scheme+host+first-path-segment form of the referrer URL.
type ReferrerCount struct {
	Source string
	Count  int
}

// SessionReferrer is one distinct (session, raw referrer URL) pair observed
// in the interval. Sessions are deduplicated per normalized source during
// aggregation, so one session arriving via two URL variants of the same
// source counts once.
type SessionReferrer struct {
	SessionID string
	Source    string
}

// MetricSet is the full bundle of aggregated numbers for one
// interval/filter combination. Computed fresh per request, never persisted,
// immutable once returned.
type MetricSet struct {
	Sales      decimal.Decimal
	Orders     int
	AvgOrder   decimal.Decimal
	TotalViews int

	ByProduct      map[int]ProductMetrics
	ByCategory     map[int]CategoryMetrics
	ViewsByProduct map[int]ViewStats

	DeviceBreakdown map[string]int
	TopReferrers    []ReferrerCount
}

// PairChange is the paired sales/quantity delta for one product or category.
type PairChange struct {
	Sales    float64
	Quantity float64
}

// ComparisonResult pairs two MetricSets with a signed percentage delta per
// metric. Every metric present in Current has a corresponding entry in
// Changes; per-entity deltas live in ProductChanges / CategoryChanges with
// absent-in-one-period entities treated as zero on that side.
type ComparisonResult struct {
	Current  MetricSet
	Previous MetricSet

	Changes         map[string]float64
	ProductChanges  map[int]PairChange
	CategoryChanges map[int]PairChange

	// Degraded marks a report whose caller opted into zero-filled metrics
	// after an aggregation failure, so presentation can flag it instead of
	// rendering zeros as real data.
	Degraded bool
}

// Metric names used as keys of ComparisonResult.Changes.
const (
	MetricSales    = "sales"
	MetricOrders   = "orders"
	MetricAvgOrder = "avg_order"
	MetricViews    = "views"
)

// ReportLabels are the resolved human-readable strings for presentation.
type ReportLabels struct {
	Period     string
	Comparison string
}

// Report is what the assembler hands back to the presentation layer.
type Report struct {
	Result           ComparisonResult
	CurrentInterval  Interval
	PreviousInterval Interval
	Labels           ReportLabels
	GeneratedAt      time.Time
}
