package dependency

import (
	"context"
	"database/sql"

	"github.com/Lawrennzz/AgriMarket-sub003/internal/entity"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

//go:generate mockery --with-expecter --case underscore --all --output=./mocks
type (
	// Analytics is the storage gateway the aggregation engine reads through.
	// Every method scopes its query to the interval and dimension filter
	// with bound parameters; implementations never interpolate values into
	// query text.
	Analytics interface {
		// SalesSummary returns total sales and order count over completed
		// orders placed inside the interval.
		SalesSummary(ctx context.Context, iv entity.Interval, f entity.DimensionFilter) (decimal.Decimal, int, error)
		// ProductBreakdown returns line-item sales and quantity per product,
		// ranked descending by sales.
		ProductBreakdown(ctx context.Context, iv entity.Interval, f entity.DimensionFilter) ([]entity.ProductMetrics, error)
		// CategoryBreakdown returns line-item sales and quantity per
		// category, ranked descending by sales.
		CategoryBreakdown(ctx context.Context, iv entity.Interval, f entity.DimensionFilter) ([]entity.CategoryMetrics, error)
		// ProductViews reads per-product view counts from a single named
		// source log. Callers pick the authoritative source; summing
		// sources double-counts and is not supported.
		ProductViews(ctx context.Context, source entity.ViewSource, iv entity.Interval, f entity.DimensionFilter) ([]entity.ViewStats, error)
		// DeviceBreakdown counts distinct sessions per device type.
		DeviceBreakdown(ctx context.Context, iv entity.Interval, f entity.DimensionFilter) (map[string]int, error)
		// SessionReferrers returns distinct (session, raw referrer URL) pairs.
		// Normalization and top-N trimming happen in the aggregator.
		SessionReferrers(ctx context.Context, iv entity.Interval, f entity.DimensionFilter) ([]entity.SessionReferrer, error)
	}

	// Tasks reads staff task-assignment records for throughput reporting.
	Tasks interface {
		// TasksInRange returns tasks created inside the interval,
		// optionally restricted to one staff member.
		TasksInRange(ctx context.Context, iv entity.Interval, staffID *int) ([]entity.StaffTask, error)
	}

	// Admin supplies the authenticated actor for the session guard.
	Admin interface {
		AdminExists(ctx context.Context, email string) (bool, error)
	}

	// Repository is the full storage surface the application wires up.
	Repository interface {
		Analytics() Analytics
		Tasks() Tasks
		Admin() Admin
		Ping(ctx context.Context) error
		Close()
	}

	// DB represents database interface with the ability to execute queries.
	DB interface {
		sqlx.ExtContext
		BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
	}
)
