package store

import (
	"context"
	"fmt"
	"time"

	"github.com/Lawrennzz/AgriMarket-sub003/internal/dependency"
	"github.com/Lawrennzz/AgriMarket-sub003/internal/entity"
	"github.com/shopspring/decimal"
)

type analyticsStore struct {
	*MYSQLStore
}

func (ms *MYSQLStore) Analytics() dependency.Analytics {
	return &analyticsStore{MYSQLStore: ms}
}

// Order statuses that count toward sales. Pending and cancelled orders
// never contribute.
const completedStatuses = "'confirmed', 'shipped', 'delivered'"

// SalesSummary sums completed line-item subtotals and counts distinct
// orders placed inside the interval. Sales are always derived from line
// items so vendor/category narrowing stays monotonic.
func (ms *analyticsStore) SalesSummary(ctx context.Context, iv entity.Interval, f entity.DimensionFilter) (decimal.Decimal, int, error) {
	type row struct {
		Sales  decimal.Decimal `db:"sales"`
		Orders int             `db:"orders"`
	}
	query := fmt.Sprintf(`
		SELECT COALESCE(SUM(oi.subtotal), 0) AS sales,
			COUNT(DISTINCT o.id) AS orders
		FROM orders o
		JOIN order_items oi ON o.id = oi.order_id
		JOIN products p ON oi.product_id = p.id
		WHERE o.created_at >= :from AND o.created_at < :to
		AND o.status IN (%s)
		AND (:vendorId IS NULL OR p.vendor_id = :vendorId)
		AND (:categoryId IS NULL OR p.category_id = :categoryId)
	`, completedStatuses)
	r, err := QueryNamedOne[row](ctx, ms.DB(), query, ms.rangeParams(iv, f))
	if err != nil {
		return decimal.Zero, 0, err
	}
	return r.Sales, r.Orders, nil
}

// ProductBreakdown groups line-item subtotal and quantity per product,
// ranked descending by sales with id as the deterministic tie-break.
func (ms *analyticsStore) ProductBreakdown(ctx context.Context, iv entity.Interval, f entity.DimensionFilter) ([]entity.ProductMetrics, error) {
	query := fmt.Sprintf(`
		SELECT oi.product_id, p.name AS product_name,
			COALESCE(SUM(oi.subtotal), 0) AS sales,
			COALESCE(SUM(oi.quantity), 0) AS quantity
		FROM order_items oi
		JOIN orders o ON oi.order_id = o.id
		JOIN products p ON oi.product_id = p.id
		WHERE o.created_at >= :from AND o.created_at < :to
		AND o.status IN (%s)
		AND (:vendorId IS NULL OR p.vendor_id = :vendorId)
		AND (:categoryId IS NULL OR p.category_id = :categoryId)
		GROUP BY oi.product_id, p.name
		ORDER BY sales DESC, oi.product_id ASC
	`, completedStatuses)
	rows, err := QueryListNamed[struct {
		ProductID   int             `db:"product_id"`
		ProductName string          `db:"product_name"`
		Sales       decimal.Decimal `db:"sales"`
		Quantity    int             `db:"quantity"`
	}](ctx, ms.DB(), query, ms.rangeParams(iv, f))
	if err != nil {
		return nil, err
	}
	result := make([]entity.ProductMetrics, len(rows))
	for i, r := range rows {
		result[i] = entity.ProductMetrics{
			ProductID:   r.ProductID,
			ProductName: r.ProductName,
			Sales:       r.Sales,
			Quantity:    r.Quantity,
		}
	}
	return result, nil
}

// CategoryBreakdown groups line-item subtotal and quantity per category.
func (ms *analyticsStore) CategoryBreakdown(ctx context.Context, iv entity.Interval, f entity.DimensionFilter) ([]entity.CategoryMetrics, error) {
	query := fmt.Sprintf(`
		SELECT p.category_id, c.name AS category_name,
			COALESCE(SUM(oi.subtotal), 0) AS sales,
			COALESCE(SUM(oi.quantity), 0) AS quantity
		FROM order_items oi
		JOIN orders o ON oi.order_id = o.id
		JOIN products p ON oi.product_id = p.id
		JOIN categories c ON p.category_id = c.id
		WHERE o.created_at >= :from AND o.created_at < :to
		AND o.status IN (%s)
		AND (:vendorId IS NULL OR p.vendor_id = :vendorId)
		AND (:categoryId IS NULL OR p.category_id = :categoryId)
		GROUP BY p.category_id, c.name
		ORDER BY sales DESC, p.category_id ASC
	`, completedStatuses)
	rows, err := QueryListNamed[struct {
		CategoryID   int             `db:"category_id"`
		CategoryName string          `db:"category_name"`
		Sales        decimal.Decimal `db:"sales"`
		Quantity     int             `db:"quantity"`
	}](ctx, ms.DB(), query, ms.rangeParams(iv, f))
	if err != nil {
		return nil, err
	}
	result := make([]entity.CategoryMetrics, len(rows))
	for i, r := range rows {
		result[i] = entity.CategoryMetrics{
			CategoryID:   r.CategoryID,
			CategoryName: r.CategoryName,
			Sales:        r.Sales,
			Quantity:     r.Quantity,
		}
	}
	return result, nil
}

// ProductViews reads per-product view counts from exactly one source log.
// Each source is a distinct instrumentation point that may have recorded
// the same physical view, so one query never touches two logs.
func (ms *analyticsStore) ProductViews(ctx context.Context, source entity.ViewSource, iv entity.Interval, f entity.DimensionFilter) ([]entity.ViewStats, error) {
	var query string
	switch source {
	case entity.ViewSourceProductViews:
		query = `
			SELECT pv.product_id,
				COUNT(*) AS total_views,
				MAX(pv.viewed_at) AS last_viewed_at
			FROM product_views pv
			JOIN products p ON pv.product_id = p.id
			WHERE pv.viewed_at >= :from AND pv.viewed_at < :to
			AND (:vendorId IS NULL OR p.vendor_id = :vendorId)
			AND (:categoryId IS NULL OR p.category_id = :categoryId)
			GROUP BY pv.product_id
		`
	case entity.ViewSourceActivityLog:
		query = `
			SELECT al.entity_id AS product_id,
				COUNT(*) AS total_views,
				MAX(al.created_at) AS last_viewed_at
			FROM activity_log al
			JOIN products p ON al.entity_id = p.id
			WHERE al.action = 'view' AND al.entity_type = 'product'
			AND al.created_at >= :from AND al.created_at < :to
			AND (:vendorId IS NULL OR p.vendor_id = :vendorId)
			AND (:categoryId IS NULL OR p.category_id = :categoryId)
			GROUP BY al.entity_id
		`
	case entity.ViewSourcePageVisits:
		query = `
			SELECT pv.product_id,
				COUNT(*) AS total_views,
				MAX(pv.visited_at) AS last_viewed_at
			FROM page_visits pv
			JOIN products p ON pv.product_id = p.id
			WHERE pv.product_id IS NOT NULL
			AND pv.visited_at >= :from AND pv.visited_at < :to
			AND (:vendorId IS NULL OR p.vendor_id = :vendorId)
			AND (:categoryId IS NULL OR p.category_id = :categoryId)
			GROUP BY pv.product_id
		`
	default:
		return nil, fmt.Errorf("unknown view source %q", source)
	}

	rows, err := QueryListNamed[struct {
		ProductID    int        `db:"product_id"`
		TotalViews   int        `db:"total_views"`
		LastViewedAt *time.Time `db:"last_viewed_at"`
	}](ctx, ms.DB(), query, ms.rangeParams(iv, f))
	if err != nil {
		return nil, err
	}
	result := make([]entity.ViewStats, len(rows))
	for i, r := range rows {
		result[i] = entity.ViewStats{
			ProductID:    r.ProductID,
			TotalViews:   r.TotalViews,
			LastViewedAt: r.LastViewedAt,
		}
	}
	return result, nil
}

// DeviceBreakdown counts distinct sessions per device type over the rich
// view log.
func (ms *analyticsStore) DeviceBreakdown(ctx context.Context, iv entity.Interval, f entity.DimensionFilter) (map[string]int, error) {
	query := `
		SELECT pv.device_type, COUNT(DISTINCT pv.session_id) AS sessions
		FROM product_views pv
		JOIN products p ON pv.product_id = p.id
		WHERE pv.viewed_at >= :from AND pv.viewed_at < :to
		AND (:vendorId IS NULL OR p.vendor_id = :vendorId)
		AND (:categoryId IS NULL OR p.category_id = :categoryId)
		GROUP BY pv.device_type
	`
	rows, err := QueryListNamed[struct {
		DeviceType string `db:"device_type"`
		Sessions   int    `db:"sessions"`
	}](ctx, ms.DB(), query, ms.rangeParams(iv, f))
	if err != nil {
		return nil, err
	}
	result := make(map[string]int, len(rows))
	for _, r := range rows {
		result[r.DeviceType] = r.Sessions
	}
	return result, nil
}

// SessionReferrers returns the distinct (session, raw referrer URL) pairs in
// the interval. Deduplication per normalized source happens in the
// aggregator, which is the only place the normalization rules live.
func (ms *analyticsStore) SessionReferrers(ctx context.Context, iv entity.Interval, f entity.DimensionFilter) ([]entity.SessionReferrer, error) {
	query := `
		SELECT DISTINCT pv.session_id AS session_id,
			COALESCE(pv.referrer_url, '') AS source
		FROM product_views pv
		JOIN products p ON pv.product_id = p.id
		WHERE pv.viewed_at >= :from AND pv.viewed_at < :to
		AND (:vendorId IS NULL OR p.vendor_id = :vendorId)
		AND (:categoryId IS NULL OR p.category_id = :categoryId)
	`
	rows, err := QueryListNamed[struct {
		SessionID string `db:"session_id"`
		Source    string `db:"source"`
	}](ctx, ms.DB(), query, ms.rangeParams(iv, f))
	if err != nil {
		return nil, err
	}
	result := make([]entity.SessionReferrer, len(rows))
	for i, r := range rows {
		result[i] = entity.SessionReferrer{SessionID: r.SessionID, Source: r.Source}
	}
	return result, nil
}

func (ms *analyticsStore) rangeParams(iv entity.Interval, f entity.DimensionFilter) map[string]any {
	return filterParams(map[string]any{
		"from": iv.Start,
		"to":   iv.ExclusiveEnd(),
	}, f.VendorID, f.CategoryID)
}
