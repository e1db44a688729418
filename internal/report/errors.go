package report

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/go-sql-driver/mysql"
)

// InvalidRangeError is returned when a custom date range is malformed or
// inverted. It is a user-correctable input error and is never retried.
type InvalidRangeError struct {
	Start string
	End   string
	Msg   string
}

func (e *InvalidRangeError) Error() string {
	if e.Start != "" || e.End != "" {
		return fmt.Sprintf("invalid date range [%s, %s]: %s", e.Start, e.End, e.Msg)
	}
	return fmt.Sprintf("invalid date range: %s", e.Msg)
}

// AggregationError is returned when an underlying storage query failed or
// timed out. Metric names the failed query's purpose, never its SQL.
type AggregationError struct {
	Metric  string
	Timeout bool
	Err     error
}

func (e *AggregationError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("aggregation %q timed out: %v", e.Metric, e.Err)
	}
	return fmt.Sprintf("aggregation %q failed: %v", e.Metric, e.Err)
}

func (e *AggregationError) Unwrap() error { return e.Err }

func newAggregationError(metric string, err error) *AggregationError {
	return &AggregationError{
		Metric:  metric,
		Timeout: errors.Is(err, context.DeadlineExceeded),
		Err:     err,
	}
}

// MySQL server error codes considered transient: lock wait timeout,
// deadlock, server gone away, lost connection during query.
var transientMySQLCodes = map[uint16]bool{
	1205: true,
	1213: true,
	2006: true,
	2013: true,
}

// isTransient reports whether an aggregation failure is worth a single
// retry: dropped connections and lock contention, not query bugs or
// caller-side cancellation.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	// Caller cancellation is final; query timeouts are surfaced as
	// AggregationError(timeout) rather than retried.
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return transientMySQLCodes[myErr.Number]
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
