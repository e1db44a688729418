package app

import (
	"context"
	"time"

	"log/slog"

	"github.com/Lawrennzz/AgriMarket-sub003/config"
	httpapi "github.com/Lawrennzz/AgriMarket-sub003/internal/api/http"
	"github.com/Lawrennzz/AgriMarket-sub003/internal/apisrv/admin"
	"github.com/Lawrennzz/AgriMarket-sub003/internal/apisrv/auth"
	"github.com/Lawrennzz/AgriMarket-sub003/internal/cache"
	"github.com/Lawrennzz/AgriMarket-sub003/internal/dependency"
	"github.com/Lawrennzz/AgriMarket-sub003/internal/ratelimit"
	"github.com/Lawrennzz/AgriMarket-sub003/internal/report"
	"github.com/Lawrennzz/AgriMarket-sub003/internal/store"
)

// App is the main application
type App struct {
	hs   *httpapi.Server
	db   dependency.Repository
	c    *config.Config
	done chan struct{}
}

// New returns a new instance of App
func New(c *config.Config) *App {
	return &App{
		c:    c,
		done: make(chan struct{}),
	}
}

// Start starts the app
func (a *App) Start(ctx context.Context) error {
	var err error
	slog.Default().InfoContext(ctx, "starting report service")

	a.db, err = store.New(ctx, a.c.DB)
	if err != nil {
		slog.Default().ErrorContext(ctx, "couldn't connect to mysql", slog.String("error", err.Error()))
		return err
	}

	guard := auth.New(&a.c.Auth, a.db.Admin())

	aggregator := report.NewAggregator(a.db.Analytics(), a.c.Report.ViewSource(), a.c.Report.QueryTimeout)
	assembler := report.NewAssembler(aggregator, a.c.Report.RetryBackoff)
	staff := report.NewStaffAggregator(a.db.Tasks())

	reports := cache.New(a.c.Report.CacheTTL)

	window := a.c.Report.RateLimitWindow
	if window <= 0 {
		window = time.Minute
	}
	maxReports := a.c.Report.RateLimitMax
	if maxReports <= 0 {
		maxReports = 30
	}
	limiter := ratelimit.NewReportLimiter(window, maxReports)

	adminS := admin.New(assembler, staff, reports, limiter)

	a.hs = httpapi.New(&a.c.HTTP)
	if err = a.hs.Start(ctx, adminS, guard, a.db); err != nil {
		slog.Default().ErrorContext(ctx, "cannot start http server", slog.String("error", err.Error()))
		return err
	}

	return nil
}

// Stop stops the application and waits for all services to exit
func (a *App) Stop(ctx context.Context) {
	a.hs.Stop(ctx)
	a.db.Close()
	close(a.done)
}

// Done returns a channel that is closed after the application has exited
func (a *App) Done() chan struct{} {
	return a.done
}
