package report

import (
	"context"
	"time"

	"github.com/Lawrennzz/AgriMarket-sub003/internal/dependency"
	"github.com/Lawrennzz/AgriMarket-sub003/internal/entity"
	"github.com/shopspring/decimal"
)

// StaffAggregator reduces task-assignment records into per-staff and
// team-wide throughput metrics. Shares the date-range resolver with the
// sales report but carries its own metric shape.
type StaffAggregator struct {
	tasks dependency.Tasks
	now   func() time.Time
}

func NewStaffAggregator(tasks dependency.Tasks) *StaffAggregator {
	return &StaffAggregator{tasks: tasks, now: time.Now}
}

// WithClock replaces the wall clock, for tests.
func (sa *StaffAggregator) WithClock(now func() time.Time) *StaffAggregator {
	sa.now = now
	return sa
}

// Now is the aggregator's wall clock, shared with callers that resolve
// ranges on its behalf.
func (sa *StaffAggregator) Now() time.Time {
	return sa.now()
}

// Aggregate computes throughput over tasks created in the interval,
// optionally restricted to one staff member. Overdue is evaluated against
// the wall-clock date at report time, not the interval end: overdue status
// reflects the present.
func (sa *StaffAggregator) Aggregate(ctx context.Context, iv entity.Interval, staffID *int) (*entity.ThroughputReport, error) {
	tasks, err := sa.tasks.TasksInRange(ctx, iv, staffID)
	if err != nil {
		return nil, newAggregationError("staff tasks", err)
	}

	today := midnight(sa.now())
	rep := &entity.ThroughputReport{
		Interval:   iv,
		PerStaff:   make(map[int]entity.TaskMetricSet),
		StaffNames: make(map[int]string),
	}

	perStaffHours := make(map[int][]decimal.Decimal)
	var overallHours []decimal.Decimal

	for _, t := range tasks {
		ms := rep.PerStaff[t.StaffID]
		tallyTask(&ms, t, today)
		rep.PerStaff[t.StaffID] = ms
		rep.StaffNames[t.StaffID] = t.StaffName
		tallyTask(&rep.Overall, t, today)

		if h, ok := completionHours(t); ok {
			perStaffHours[t.StaffID] = append(perStaffHours[t.StaffID], h)
			overallHours = append(overallHours, h)
		}
	}

	for id, ms := range rep.PerStaff {
		ms.CompletionRate = completionRate(ms)
		ms.AvgCompletionHours = meanHours(perStaffHours[id])
		rep.PerStaff[id] = ms
	}
	rep.Overall.CompletionRate = completionRate(rep.Overall)
	rep.Overall.AvgCompletionHours = meanHours(overallHours)

	return rep, nil
}

func tallyTask(ms *entity.TaskMetricSet, t entity.StaffTask, today time.Time) {
	ms.Total++
	switch t.Status {
	case entity.TaskCompleted:
		ms.Completed++
	case entity.TaskPending:
		ms.Pending++
	case entity.TaskInProgress:
		ms.InProgress++
	case entity.TaskCancelled:
		ms.Cancelled++
	}
	if t.DueDate != nil && t.DueDate.Before(today) && t.Status != entity.TaskCompleted {
		ms.Overdue++
	}
}

// completionRate is completed/total as a percentage, zero when no tasks.
func completionRate(ms entity.TaskMetricSet) decimal.Decimal {
	if ms.Total == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(ms.Completed)).
		Div(decimal.NewFromInt(int64(ms.Total))).
		Mul(hundred).Round(1)
}

// completionHours returns the creation-to-completion duration in hours for
// completed tasks carrying both timestamps.
func completionHours(t entity.StaffTask) (decimal.Decimal, bool) {
	if t.Status != entity.TaskCompleted || t.CompletedAt == nil {
		return decimal.Zero, false
	}
	hours := t.CompletedAt.Sub(t.CreatedAt).Hours()
	if hours < 0 {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(hours), true
}

// meanHours is nil when no completed task qualified.
func meanHours(hours []decimal.Decimal) *decimal.Decimal {
	if len(hours) == 0 {
		return nil
	}
	sum := decimal.Zero
	for _, h := range hours {
		sum = sum.Add(h)
	}
	mean := sum.Div(decimal.NewFromInt(int64(len(hours)))).Round(2)
	return &mean
}
