package report

import (
	"context"
	"sort"

	"github.com/Lawrennzz/AgriMarket-sub003/internal/entity"
)

// reconcileViews reads per-product view counts from the single
// authoritative source log. Only when the authoritative source has no rows
// at all for the interval/filter do the fallback sources get probed, in
// their fixed order. Sources are never summed: the same physical page view
// is recorded by more than one instrumentation hook, and adding the logs
// together double-counts it.
func (a *Aggregator) reconcileViews(ctx context.Context, iv entity.Interval, f entity.DimensionFilter) ([]entity.ViewStats, error) {
	for _, source := range entity.ViewSourceOrder(a.authoritative) {
		qctx, cancel := context.WithTimeout(ctx, a.queryTimeout)
		rows, err := a.gateway.ProductViews(qctx, source, iv, f)
		cancel()
		if err != nil {
			return nil, newAggregationError("view counts ("+string(source)+")", err)
		}
		if len(rows) > 0 {
			return rows, nil
		}
	}
	return nil, nil
}

// RankViews orders view stats for most-viewed presentation: descending by
// total views, ties broken by more recent last-viewed timestamp, remaining
// ties by ascending product id so the order is deterministic.
func RankViews(views map[int]entity.ViewStats) []entity.ViewStats {
	ranked := make([]entity.ViewStats, 0, len(views))
	for _, v := range views {
		ranked = append(ranked, v)
	}
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.TotalViews != b.TotalViews {
			return a.TotalViews > b.TotalViews
		}
		switch {
		case a.LastViewedAt == nil && b.LastViewedAt == nil:
		case a.LastViewedAt == nil:
			return false
		case b.LastViewedAt == nil:
			return true
		case !a.LastViewedAt.Equal(*b.LastViewedAt):
			return a.LastViewedAt.After(*b.LastViewedAt)
		}
		return a.ProductID < b.ProductID
	})
	return ranked
}
