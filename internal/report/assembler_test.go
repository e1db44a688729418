package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Lawrennzz/AgriMarket-sub003/internal/entity"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
)

func testAssembler(gw *fakeGateway) *Assembler {
	agg := NewAggregator(gw, entity.ViewSourceProductViews, time.Second)
	return NewAssembler(agg, time.Millisecond).WithClock(func() time.Time { return testNow })
}

func monthRequest() entity.ReportContext {
	return entity.ReportContext{
		RequestID: "test-request",
		Period:    entity.PeriodRequest{Kind: entity.PeriodMonth},
		Mode:      entity.ComparePreviousPeriod,
	}
}

func TestBuildReport_Success(t *testing.T) {
	gw := &fakeGateway{sales: dec("900"), orders: 9}
	as := testAssembler(gw)

	rep, err := as.BuildReport(context.Background(), monthRequest())
	require.NoError(t, err)

	require.Equal(t, "Last 30 Days", rep.Labels.Period)
	require.Equal(t, "vs Previous Period", rep.Labels.Comparison)
	require.Equal(t, rep.CurrentInterval.Days(), rep.PreviousInterval.Days())
	require.True(t, rep.PreviousInterval.End.Before(rep.CurrentInterval.Start))
	require.Equal(t, testNow, rep.GeneratedAt)

	// both periods read the same canned numbers, so every delta is flat
	require.InDelta(t, 0.0, rep.Result.Changes[entity.MetricSales], 0.0001)
	require.False(t, rep.Result.Degraded)
}

func TestBuildReport_Idempotent(t *testing.T) {
	gw := &fakeGateway{sales: dec("123.45"), orders: 3}
	as := testAssembler(gw)

	first, err := as.BuildReport(context.Background(), monthRequest())
	require.NoError(t, err)
	second, err := as.BuildReport(context.Background(), monthRequest())
	require.NoError(t, err)

	require.Equal(t, first.Result, second.Result)
	require.Equal(t, first.CurrentInterval, second.CurrentInterval)
	require.Equal(t, first.PreviousInterval, second.PreviousInterval)
}

func TestBuildReport_InvalidRangeFailsFast(t *testing.T) {
	gw := &fakeGateway{}
	as := testAssembler(gw)

	rctx := monthRequest()
	rctx.Period = entity.PeriodRequest{
		Kind:  entity.PeriodCustom,
		Start: day(2026, 5, 1),
		End:   day(2026, 4, 1),
	}

	_, err := as.BuildReport(context.Background(), rctx)
	var rangeErr *InvalidRangeError
	require.ErrorAs(t, err, &rangeErr)
	require.Zero(t, gw.calls, "no aggregation work before range validation")
}

func TestBuildReport_AbortsOnFailure(t *testing.T) {
	gw := &fakeGateway{err: errors.New("table missing")}
	as := testAssembler(gw)

	rep, err := as.BuildReport(context.Background(), monthRequest())
	require.Nil(t, rep, "no partial report on failure")

	var aggErr *AggregationError
	require.ErrorAs(t, err, &aggErr)
	require.Equal(t, "sales summary", aggErr.Metric)
	require.False(t, aggErr.Timeout)
}

func TestBuildReport_RetriesTransientOnce(t *testing.T) {
	gw := &fakeGateway{
		sales:    dec("100"),
		orders:   1,
		err:      &mysql.MySQLError{Number: 1213, Message: "deadlock found"},
		errAfter: 1,
	}
	as := testAssembler(gw)

	rep, err := as.BuildReport(context.Background(), monthRequest())
	require.NoError(t, err)
	require.NotNil(t, rep)
	// two periods plus exactly one retry of the failed one
	require.Equal(t, 3, gw.calls)
}

func TestBuildReport_NoRetryForPermanentErrors(t *testing.T) {
	gw := &fakeGateway{err: &mysql.MySQLError{Number: 1064, Message: "syntax error"}}
	as := testAssembler(gw)

	_, err := as.BuildReport(context.Background(), monthRequest())
	require.Error(t, err)
	// errgroup cancels the sibling after the first failure, so at most the
	// two initial attempts run and neither is retried
	require.LessOrEqual(t, gw.calls, 2)
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"deadlock", &mysql.MySQLError{Number: 1213}, true},
		{"lock wait timeout", &mysql.MySQLError{Number: 1205}, true},
		{"server gone away", &mysql.MySQLError{Number: 2006}, true},
		{"syntax error", &mysql.MySQLError{Number: 1064}, false},
		{"canceled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, false},
		{"plain", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, isTransient(tt.err))
		})
	}
}

func TestNewAggregationError_Timeout(t *testing.T) {
	err := newAggregationError("sales summary", context.DeadlineExceeded)
	require.True(t, err.Timeout)
	require.Contains(t, err.Error(), "timed out")
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
