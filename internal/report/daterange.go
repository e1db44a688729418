package report

import (
	"fmt"
	"time"

	"github.com/Lawrennzz/AgriMarket-sub003/internal/entity"
)

// Preset window lengths in days. Fixed-length rolling windows ending at
// "now", not calendar-aligned.
var presetDays = map[entity.PeriodKind]int{
	entity.PeriodWeek:    7,
	entity.PeriodMonth:   30,
	entity.PeriodQuarter: 90,
	entity.PeriodYear:    365,
}

var presetLabels = map[entity.PeriodKind]string{
	entity.PeriodWeek:    "Last 7 Days",
	entity.PeriodMonth:   "Last 30 Days",
	entity.PeriodQuarter: "Last 90 Days",
	entity.PeriodYear:    "Last 365 Days",
}

// ResolveRange turns a period selector plus a comparison mode into the
// current interval, its paired previous interval and presentation labels.
// Pure function of its inputs; now is injectable for tests.
func ResolveRange(req entity.PeriodRequest, mode entity.ComparisonMode, now time.Time) (current, previous entity.Interval, labels entity.ReportLabels, err error) {
	today := midnight(now)

	switch req.Kind {
	case entity.PeriodCustom:
		if req.Start.IsZero() || req.End.IsZero() {
			return current, previous, labels, &InvalidRangeError{Msg: "custom period requires both start_date and end_date"}
		}
		start, end := midnight(req.Start), midnight(req.End)
		if start.After(end) {
			return current, previous, labels, &InvalidRangeError{
				Start: start.Format("2006-01-02"),
				End:   end.Format("2006-01-02"),
				Msg:   "start is after end",
			}
		}
		current = entity.Interval{Start: start, End: end}
		labels.Period = fmt.Sprintf("%s – %s",
			start.Format("Jan 2, 2006"), end.Format("Jan 2, 2006"))
	default:
		days, ok := presetDays[req.Kind]
		if !ok {
			return current, previous, labels, &InvalidRangeError{Msg: fmt.Sprintf("unknown period %q", req.Kind)}
		}
		current = entity.Interval{Start: today.AddDate(0, 0, -days), End: today}
		labels.Period = presetLabels[req.Kind]
	}

	switch mode {
	case entity.CompareYearOverYear:
		// Both endpoints shifted back one calendar year. Leap-year edge
		// effects can change the day count by one; accepted approximation.
		previous = entity.Interval{
			Start: current.Start.AddDate(-1, 0, 0),
			End:   current.End.AddDate(-1, 0, 0),
		}
		labels.Comparison = "vs Same Period Last Year"
	default:
		// Immediately preceding window of identical length, non-overlapping
		// with current.
		prevEnd := current.Start.AddDate(0, 0, -1)
		previous = entity.Interval{
			Start: prevEnd.AddDate(0, 0, -(current.Days() - 1)),
			End:   prevEnd,
		}
		labels.Comparison = "vs Previous Period"
	}

	return current, previous, labels, nil
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
