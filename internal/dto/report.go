package dto

import (
	"sort"
	"time"

	"github.com/Lawrennzz/AgriMarket-sub003/internal/entity"
	"github.com/Lawrennzz/AgriMarket-sub003/internal/report"
	"github.com/shopspring/decimal"
)

// Wire shapes consumed by the admin dashboard charts. JSON-serializable
// mappings; no binary format is mandated.

type IntervalResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type ProductMetricsResponse struct {
	ProductID   int             `json:"product_id"`
	ProductName string          `json:"product_name"`
	Sales       decimal.Decimal `json:"sales"`
	Quantity    int             `json:"quantity"`
}

type CategoryMetricsResponse struct {
	CategoryID   int             `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Sales        decimal.Decimal `json:"sales"`
	Quantity     int             `json:"quantity"`
}

type ViewStatsResponse struct {
	ProductID    int     `json:"product_id"`
	TotalViews   int     `json:"total_views"`
	LastViewedAt *string `json:"last_viewed_at"`
}

type ReferrerCountResponse struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

type MetricSetResponse struct {
	Sales           decimal.Decimal           `json:"sales"`
	Orders          int                       `json:"orders"`
	AvgOrder        decimal.Decimal           `json:"avg_order"`
	TotalViews      int                       `json:"total_views"`
	ByProduct       []ProductMetricsResponse  `json:"by_product"`
	ByCategory      []CategoryMetricsResponse `json:"by_category"`
	MostViewed      []ViewStatsResponse       `json:"most_viewed"`
	DeviceBreakdown map[string]int            `json:"device_breakdown"`
	TopReferrers    []ReferrerCountResponse   `json:"top_referrers"`
}

type PairChangeResponse struct {
	Sales    float64 `json:"sales"`
	Quantity float64 `json:"quantity"`
}

type ComparisonReportResponse struct {
	PeriodLabel     string `json:"period_label"`
	ComparisonLabel string `json:"comparison_label"`

	CurrentInterval  IntervalResponse `json:"current_interval"`
	PreviousInterval IntervalResponse `json:"previous_interval"`

	Current  MetricSetResponse `json:"current"`
	Previous MetricSetResponse `json:"previous"`

	Changes         map[string]float64         `json:"changes"`
	ProductChanges  map[int]PairChangeResponse `json:"product_changes"`
	CategoryChanges map[int]PairChangeResponse `json:"category_changes"`

	Degraded    bool   `json:"degraded"`
	GeneratedAt string `json:"generated_at"`
}

// ConvertReport shapes the assembled report for the presentation layer.
func ConvertReport(r *entity.Report) *ComparisonReportResponse {
	res := &ComparisonReportResponse{
		PeriodLabel:      r.Labels.Period,
		ComparisonLabel:  r.Labels.Comparison,
		CurrentInterval:  convertInterval(r.CurrentInterval),
		PreviousInterval: convertInterval(r.PreviousInterval),
		Current:          convertMetricSet(r.Result.Current),
		Previous:         convertMetricSet(r.Result.Previous),
		Changes:          r.Result.Changes,
		ProductChanges:   make(map[int]PairChangeResponse, len(r.Result.ProductChanges)),
		CategoryChanges:  make(map[int]PairChangeResponse, len(r.Result.CategoryChanges)),
		Degraded:         r.Result.Degraded,
		GeneratedAt:      r.GeneratedAt.UTC().Format(time.RFC3339),
	}
	for id, c := range r.Result.ProductChanges {
		res.ProductChanges[id] = PairChangeResponse{Sales: c.Sales, Quantity: c.Quantity}
	}
	for id, c := range r.Result.CategoryChanges {
		res.CategoryChanges[id] = PairChangeResponse{Sales: c.Sales, Quantity: c.Quantity}
	}
	return res
}

func sortedProducts(m map[int]entity.ProductMetrics) []entity.ProductMetrics {
	out := make([]entity.ProductMetrics, 0, len(m))
	for _, p := range m {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Sales.Equal(out[j].Sales) {
			return out[i].Sales.GreaterThan(out[j].Sales)
		}
		return out[i].ProductID < out[j].ProductID
	})
	return out
}

func sortedCategories(m map[int]entity.CategoryMetrics) []entity.CategoryMetrics {
	out := make([]entity.CategoryMetrics, 0, len(m))
	for _, c := range m {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Sales.Equal(out[j].Sales) {
			return out[i].Sales.GreaterThan(out[j].Sales)
		}
		return out[i].CategoryID < out[j].CategoryID
	})
	return out
}

func convertInterval(iv entity.Interval) IntervalResponse {
	return IntervalResponse{
		Start: iv.Start.Format(isoDate),
		End:   iv.End.Format(isoDate),
	}
}

func convertMetricSet(m entity.MetricSet) MetricSetResponse {
	res := MetricSetResponse{
		Sales:           m.Sales,
		Orders:          m.Orders,
		AvgOrder:        m.AvgOrder,
		TotalViews:      m.TotalViews,
		ByProduct:       make([]ProductMetricsResponse, 0, len(m.ByProduct)),
		ByCategory:      make([]CategoryMetricsResponse, 0, len(m.ByCategory)),
		DeviceBreakdown: m.DeviceBreakdown,
	}

	for _, p := range sortedProducts(m.ByProduct) {
		res.ByProduct = append(res.ByProduct, ProductMetricsResponse{
			ProductID:   p.ProductID,
			ProductName: p.ProductName,
			Sales:       p.Sales,
			Quantity:    p.Quantity,
		})
	}
	for _, c := range sortedCategories(m.ByCategory) {
		res.ByCategory = append(res.ByCategory, CategoryMetricsResponse{
			CategoryID:   c.CategoryID,
			CategoryName: c.CategoryName,
			Sales:        c.Sales,
			Quantity:     c.Quantity,
		})
	}
	for _, v := range report.RankViews(m.ViewsByProduct) {
		var last *string
		if v.LastViewedAt != nil {
			s := v.LastViewedAt.UTC().Format(time.RFC3339)
			last = &s
		}
		res.MostViewed = append(res.MostViewed, ViewStatsResponse{
			ProductID:    v.ProductID,
			TotalViews:   v.TotalViews,
			LastViewedAt: last,
		})
	}
	for _, ref := range m.TopReferrers {
		res.TopReferrers = append(res.TopReferrers, ReferrerCountResponse{
			Source: ref.Source,
			Count:  ref.Count,
		})
	}
	return res
}
