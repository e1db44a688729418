package report

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Lawrennzz/AgriMarket-sub003/internal/entity"
	"golang.org/x/sync/errgroup"
)

const defaultRetryBackoff = 250 * time.Millisecond

// Assembler orchestrates one comparison report: range resolution, one
// aggregation per interval, then the delta calculation. It has no state
// beyond its collaborators and is safe for concurrent use.
type Assembler struct {
	agg     *Aggregator
	backoff time.Duration
	now     func() time.Time
}

func NewAssembler(agg *Aggregator, backoff time.Duration) *Assembler {
	if backoff <= 0 {
		backoff = defaultRetryBackoff
	}
	return &Assembler{agg: agg, backoff: backoff, now: time.Now}
}

// WithClock replaces the wall clock, for tests.
func (as *Assembler) WithClock(now func() time.Time) *Assembler {
	as.now = now
	return as
}

// BuildReport resolves the requested window, aggregates current and
// previous periods concurrently and compares them. Range errors fail fast
// before any aggregation work; a failed aggregation is retried once with
// backoff when transient, then aborts the whole report. A one-sided
// comparison is never returned.
func (as *Assembler) BuildReport(ctx context.Context, rctx entity.ReportContext) (*entity.Report, error) {
	current, previous, labels, err := ResolveRange(rctx.Period, rctx.Mode, as.now())
	if err != nil {
		return nil, err
	}

	log := slog.Default().With(
		slog.String("request_id", rctx.RequestID),
		slog.String("period", labels.Period),
	)
	log.InfoContext(ctx, "building comparison report",
		slog.String("current", current.String()),
		slog.String("previous", previous.String()),
	)

	// The two periods are independent reads with no shared state; run them
	// in parallel and join both before comparing.
	var curSet, prevSet entity.MetricSet
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		curSet, err = as.aggregateWithRetry(gctx, current, rctx.Filter)
		return err
	})
	g.Go(func() error {
		var err error
		prevSet, err = as.aggregateWithRetry(gctx, previous, rctx.Filter)
		return err
	})
	if err := g.Wait(); err != nil {
		var aggErr *AggregationError
		if errors.As(err, &aggErr) {
			log.ErrorContext(ctx, "report aborted",
				slog.String("metric", aggErr.Metric),
				slog.Bool("timeout", aggErr.Timeout),
			)
		}
		return nil, err
	}

	result := Compare(curSet, prevSet)

	return &entity.Report{
		Result:           result,
		CurrentInterval:  current,
		PreviousInterval: previous,
		Labels:           labels,
		GeneratedAt:      as.now(),
	}, nil
}

// aggregateWithRetry runs one aggregation, retrying exactly once after a
// backoff when the failure looks transient (dropped connection, lock
// contention). Timeouts and query bugs surface immediately.
func (as *Assembler) aggregateWithRetry(ctx context.Context, iv entity.Interval, f entity.DimensionFilter) (entity.MetricSet, error) {
	m, err := as.agg.Aggregate(ctx, iv, f)
	if err == nil || !isTransient(err) {
		return m, err
	}

	select {
	case <-ctx.Done():
		return m, err
	case <-time.After(as.backoff):
	}

	slog.Default().WarnContext(ctx, "retrying aggregation after transient failure",
		slog.String("interval", iv.String()),
		slog.String("error", err.Error()),
	)
	return as.agg.Aggregate(ctx, iv, f)
}
