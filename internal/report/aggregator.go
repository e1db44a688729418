package report

import (
	"context"
	"time"

	"github.com/Lawrennzz/AgriMarket-sub003/internal/dependency"
	"github.com/Lawrennzz/AgriMarket-sub003/internal/entity"
	"github.com/shopspring/decimal"
)

const defaultQueryTimeout = 15 * time.Second

// Aggregator reduces order, view and session records for one interval into
// a MetricSet. Stateless and read-only; safe for concurrent use.
type Aggregator struct {
	gateway       dependency.Analytics
	authoritative entity.ViewSource
	queryTimeout  time.Duration
}

func NewAggregator(gateway dependency.Analytics, authoritative entity.ViewSource, queryTimeout time.Duration) *Aggregator {
	if authoritative == "" {
		authoritative = entity.ViewSourceProductViews
	}
	if queryTimeout <= 0 {
		queryTimeout = defaultQueryTimeout
	}
	return &Aggregator{
		gateway:       gateway,
		authoritative: authoritative,
		queryTimeout:  queryTimeout,
	}
}

// Aggregate builds the full MetricSet for one interval/filter combination.
// Any failed storage query aborts the whole set with an AggregationError
// naming the metric; the caller decides whether to degrade or abort.
func (a *Aggregator) Aggregate(ctx context.Context, iv entity.Interval, f entity.DimensionFilter) (entity.MetricSet, error) {
	var m entity.MetricSet

	sales, orders, err := a.salesSummary(ctx, iv, f)
	if err != nil {
		return m, err
	}
	m.Sales = sales
	m.Orders = orders
	if orders > 0 {
		m.AvgOrder = sales.Div(decimal.NewFromInt(int64(orders))).Round(2)
	} else {
		m.AvgOrder = decimal.Zero
	}

	byProduct, err := a.productBreakdown(ctx, iv, f)
	if err != nil {
		return m, err
	}
	m.ByProduct = byProduct

	byCategory, err := a.categoryBreakdown(ctx, iv, f)
	if err != nil {
		return m, err
	}
	m.ByCategory = byCategory

	views, err := a.reconcileViews(ctx, iv, f)
	if err != nil {
		return m, err
	}
	m.ViewsByProduct = make(map[int]entity.ViewStats, len(views))
	for _, v := range views {
		m.ViewsByProduct[v.ProductID] = v
		m.TotalViews += v.TotalViews
	}

	devices, err := a.deviceBreakdown(ctx, iv, f)
	if err != nil {
		return m, err
	}
	m.DeviceBreakdown = devices

	referrers, err := a.topReferrers(ctx, iv, f)
	if err != nil {
		return m, err
	}
	m.TopReferrers = referrers

	return m, nil
}

func (a *Aggregator) salesSummary(ctx context.Context, iv entity.Interval, f entity.DimensionFilter) (decimal.Decimal, int, error) {
	ctx, cancel := context.WithTimeout(ctx, a.queryTimeout)
	defer cancel()
	sales, orders, err := a.gateway.SalesSummary(ctx, iv, f)
	if err != nil {
		return decimal.Zero, 0, newAggregationError("sales summary", err)
	}
	return sales, orders, nil
}

func (a *Aggregator) productBreakdown(ctx context.Context, iv entity.Interval, f entity.DimensionFilter) (map[int]entity.ProductMetrics, error) {
	ctx, cancel := context.WithTimeout(ctx, a.queryTimeout)
	defer cancel()
	rows, err := a.gateway.ProductBreakdown(ctx, iv, f)
	if err != nil {
		return nil, newAggregationError("product breakdown", err)
	}
	byProduct := make(map[int]entity.ProductMetrics, len(rows))
	for _, r := range rows {
		byProduct[r.ProductID] = r
	}
	return byProduct, nil
}

func (a *Aggregator) categoryBreakdown(ctx context.Context, iv entity.Interval, f entity.DimensionFilter) (map[int]entity.CategoryMetrics, error) {
	ctx, cancel := context.WithTimeout(ctx, a.queryTimeout)
	defer cancel()
	rows, err := a.gateway.CategoryBreakdown(ctx, iv, f)
	if err != nil {
		return nil, newAggregationError("category breakdown", err)
	}
	byCategory := make(map[int]entity.CategoryMetrics, len(rows))
	for _, r := range rows {
		byCategory[r.CategoryID] = r
	}
	return byCategory, nil
}

func (a *Aggregator) deviceBreakdown(ctx context.Context, iv entity.Interval, f entity.DimensionFilter) (map[string]int, error) {
	ctx, cancel := context.WithTimeout(ctx, a.queryTimeout)
	defer cancel()
	devices, err := a.gateway.DeviceBreakdown(ctx, iv, f)
	if err != nil {
		return nil, newAggregationError("device breakdown", err)
	}
	return devices, nil
}

func (a *Aggregator) topReferrers(ctx context.Context, iv entity.Interval, f entity.DimensionFilter) ([]entity.ReferrerCount, error) {
	ctx, cancel := context.WithTimeout(ctx, a.queryTimeout)
	defer cancel()
	raw, err := a.gateway.SessionReferrers(ctx, iv, f)
	if err != nil {
		return nil, newAggregationError("top referrers", err)
	}
	return topReferrers(raw, topReferrerLimit), nil
}
