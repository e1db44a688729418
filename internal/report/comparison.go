package report

import (
	"github.com/Lawrennzz/AgriMarket-sub003/internal/entity"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// changePct computes the signed percentage change between a current and a
// previous value, rounded to one decimal place.
//
// Both zero yields 0. A zero previous with a non-zero current yields +100:
// "from nothing" is treated as a full positive swing, a documented
// convention that gives a stable number instead of an undefined division.
func changePct(current, previous decimal.Decimal) float64 {
	if previous.IsZero() {
		if current.IsZero() {
			return 0
		}
		if current.IsNegative() {
			return -100
		}
		return 100
	}
	f, _ := current.Sub(previous).Div(previous).Mul(hundred).Round(1).Float64()
	return f
}

func changePctInt(current, previous int) float64 {
	return changePct(decimal.NewFromInt(int64(current)), decimal.NewFromInt(int64(previous)))
}

// Compare produces the paired deltas between two metric sets. Per-product
// and per-category deltas cover every entity present in either period;
// the absent side counts as zero rather than being excluded.
func Compare(current, previous entity.MetricSet) entity.ComparisonResult {
	res := entity.ComparisonResult{
		Current:  current,
		Previous: previous,
		Changes: map[string]float64{
			entity.MetricSales:    changePct(current.Sales, previous.Sales),
			entity.MetricOrders:   changePctInt(current.Orders, previous.Orders),
			entity.MetricAvgOrder: changePct(current.AvgOrder, previous.AvgOrder),
			entity.MetricViews:    changePctInt(current.TotalViews, previous.TotalViews),
		},
		ProductChanges:  make(map[int]entity.PairChange),
		CategoryChanges: make(map[int]entity.PairChange),
	}

	for id := range unionKeys(current.ByProduct, previous.ByProduct) {
		c := current.ByProduct[id]
		p := previous.ByProduct[id]
		res.ProductChanges[id] = entity.PairChange{
			Sales:    changePct(c.Sales, p.Sales),
			Quantity: changePctInt(c.Quantity, p.Quantity),
		}
	}
	for id := range unionKeys(current.ByCategory, previous.ByCategory) {
		c := current.ByCategory[id]
		p := previous.ByCategory[id]
		res.CategoryChanges[id] = entity.PairChange{
			Sales:    changePct(c.Sales, p.Sales),
			Quantity: changePctInt(c.Quantity, p.Quantity),
		}
	}

	return res
}

func unionKeys[T any](a, b map[int]T) map[int]struct{} {
	keys := make(map[int]struct{}, len(a)+len(b))
	for k := range a {
		keys[k] = struct{}{}
	}
	for k := range b {
		keys[k] = struct{}{}
	}
	return keys
}
