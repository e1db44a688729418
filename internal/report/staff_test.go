package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Lawrennzz/AgriMarket-sub003/internal/entity"
	"github.com/stretchr/testify/require"
)

type fakeTasks struct {
	tasks   []entity.StaffTask
	err     error
	staffID *int
}

func (f *fakeTasks) TasksInRange(ctx context.Context, iv entity.Interval, staffID *int) ([]entity.StaffTask, error) {
	f.staffID = staffID
	return f.tasks, f.err
}

func ts(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func tsp(y int, m time.Month, d, h int) *time.Time {
	t := ts(y, m, d, h)
	return &t
}

func TestStaffAggregate_StatusTally(t *testing.T) {
	done1 := ts(2026, 3, 2, 10)
	gw := &fakeTasks{tasks: []entity.StaffTask{
		{ID: 1, StaffID: 1, StaffName: "Aina", Status: entity.TaskCompleted, CreatedAt: ts(2026, 3, 1, 10), CompletedAt: &done1},
		{ID: 2, StaffID: 1, StaffName: "Aina", Status: entity.TaskPending, CreatedAt: ts(2026, 3, 3, 9)},
		{ID: 3, StaffID: 2, StaffName: "Borhan", Status: entity.TaskInProgress, CreatedAt: ts(2026, 3, 4, 9)},
		{ID: 4, StaffID: 2, StaffName: "Borhan", Status: entity.TaskCancelled, CreatedAt: ts(2026, 3, 5, 9)},
	}}
	sa := NewStaffAggregator(gw).WithClock(func() time.Time { return testNow })

	rep, err := sa.Aggregate(context.Background(), testInterval(), nil)
	require.NoError(t, err)

	require.Equal(t, 4, rep.Overall.Total)
	require.Equal(t, 1, rep.Overall.Completed)
	require.Equal(t, 1, rep.Overall.Pending)
	require.Equal(t, 1, rep.Overall.InProgress)
	require.Equal(t, 1, rep.Overall.Cancelled)

	require.Len(t, rep.PerStaff, 2)
	require.Equal(t, 2, rep.PerStaff[1].Total)
	require.Equal(t, 1, rep.PerStaff[1].Completed)
	require.Equal(t, "Aina", rep.StaffNames[1])
	require.Equal(t, "Borhan", rep.StaffNames[2])
}

func TestStaffAggregate_OverdueAgainstToday(t *testing.T) {
	gw := &fakeTasks{tasks: []entity.StaffTask{
		// due before today and not completed: overdue
		{ID: 1, StaffID: 1, Status: entity.TaskPending, CreatedAt: ts(2026, 3, 1, 9), DueDate: tsp(2026, 3, 10, 0)},
		// due before today but completed: not overdue
		{ID: 2, StaffID: 1, Status: entity.TaskCompleted, CreatedAt: ts(2026, 3, 1, 9), CompletedAt: tsp(2026, 3, 9, 9), DueDate: tsp(2026, 3, 10, 0)},
		// due today: not yet overdue
		{ID: 3, StaffID: 1, Status: entity.TaskPending, CreatedAt: ts(2026, 3, 1, 9), DueDate: tsp(2026, 3, 15, 0)},
		// due in the future
		{ID: 4, StaffID: 1, Status: entity.TaskInProgress, CreatedAt: ts(2026, 3, 1, 9), DueDate: tsp(2026, 4, 1, 0)},
		// no due date
		{ID: 5, StaffID: 1, Status: entity.TaskPending, CreatedAt: ts(2026, 3, 1, 9)},
	}}
	sa := NewStaffAggregator(gw).WithClock(func() time.Time { return testNow })

	rep, err := sa.Aggregate(context.Background(), testInterval(), nil)
	require.NoError(t, err)
	require.Equal(t, 1, rep.Overall.Overdue)
}

func TestStaffAggregate_CompletionRate(t *testing.T) {
	gw := &fakeTasks{tasks: []entity.StaffTask{
		{ID: 1, StaffID: 1, Status: entity.TaskCompleted, CreatedAt: ts(2026, 3, 1, 9), CompletedAt: tsp(2026, 3, 1, 19)},
		{ID: 2, StaffID: 1, Status: entity.TaskPending, CreatedAt: ts(2026, 3, 2, 9)},
		{ID: 3, StaffID: 1, Status: entity.TaskCancelled, CreatedAt: ts(2026, 3, 3, 9)},
	}}
	sa := NewStaffAggregator(gw).WithClock(func() time.Time { return testNow })

	rep, err := sa.Aggregate(context.Background(), testInterval(), nil)
	require.NoError(t, err)
	require.Equal(t, "33.3", rep.Overall.CompletionRate.String())
}

func TestStaffAggregate_AvgCompletionHours(t *testing.T) {
	gw := &fakeTasks{tasks: []entity.StaffTask{
		// 10 hours
		{ID: 1, StaffID: 1, Status: entity.TaskCompleted, CreatedAt: ts(2026, 3, 1, 9), CompletedAt: tsp(2026, 3, 1, 19)},
		// 30 hours
		{ID: 2, StaffID: 1, Status: entity.TaskCompleted, CreatedAt: ts(2026, 3, 2, 9), CompletedAt: tsp(2026, 3, 3, 15)},
		// completed without timestamp: excluded from the mean
		{ID: 3, StaffID: 1, Status: entity.TaskCompleted, CreatedAt: ts(2026, 3, 4, 9)},
		// negative duration from clock skew: excluded
		{ID: 4, StaffID: 1, Status: entity.TaskCompleted, CreatedAt: ts(2026, 3, 5, 9), CompletedAt: tsp(2026, 3, 5, 8)},
	}}
	sa := NewStaffAggregator(gw).WithClock(func() time.Time { return testNow })

	rep, err := sa.Aggregate(context.Background(), testInterval(), nil)
	require.NoError(t, err)
	require.NotNil(t, rep.Overall.AvgCompletionHours)
	require.Equal(t, "20", rep.Overall.AvgCompletionHours.String())
}

func TestStaffAggregate_TeamScenario(t *testing.T) {
	tasks := make([]entity.StaffTask, 0, 10)
	for i := 1; i <= 4; i++ {
		tasks = append(tasks, entity.StaffTask{
			ID: i, StaffID: 1, Status: entity.TaskCompleted,
			CreatedAt: ts(2026, 3, i, 9), CompletedAt: tsp(2026, 3, i, 17),
		})
	}
	for i := 5; i <= 8; i++ {
		tasks = append(tasks, entity.StaffTask{
			ID: i, StaffID: 2, Status: entity.TaskPending,
			CreatedAt: ts(2026, 3, i, 9),
		})
	}
	for i := 9; i <= 10; i++ {
		tasks = append(tasks, entity.StaffTask{
			ID: i, StaffID: 2, Status: entity.TaskInProgress,
			CreatedAt: ts(2026, 3, 1, 9), DueDate: tsp(2026, 3, 5, 0),
		})
	}
	sa := NewStaffAggregator(&fakeTasks{tasks: tasks}).WithClock(func() time.Time { return testNow })

	rep, err := sa.Aggregate(context.Background(), testInterval(), nil)
	require.NoError(t, err)
	require.Equal(t, 10, rep.Overall.Total)
	require.Equal(t, 4, rep.Overall.Completed)
	require.Equal(t, 2, rep.Overall.Overdue)
	require.Equal(t, "40", rep.Overall.CompletionRate.String())
}

func TestStaffAggregate_NoQualifyingCompletions(t *testing.T) {
	gw := &fakeTasks{tasks: []entity.StaffTask{
		{ID: 1, StaffID: 1, Status: entity.TaskPending, CreatedAt: ts(2026, 3, 1, 9)},
	}}
	sa := NewStaffAggregator(gw).WithClock(func() time.Time { return testNow })

	rep, err := sa.Aggregate(context.Background(), testInterval(), nil)
	require.NoError(t, err)
	require.Nil(t, rep.Overall.AvgCompletionHours)
	require.Equal(t, "0", rep.Overall.CompletionRate.String())
}

func TestStaffAggregate_EmptyInterval(t *testing.T) {
	gw := &fakeTasks{}
	sa := NewStaffAggregator(gw).WithClock(func() time.Time { return testNow })

	rep, err := sa.Aggregate(context.Background(), testInterval(), nil)
	require.NoError(t, err)
	require.Zero(t, rep.Overall.Total)
	require.Empty(t, rep.PerStaff)
}

func TestStaffAggregate_PassesStaffFilter(t *testing.T) {
	gw := &fakeTasks{}
	sa := NewStaffAggregator(gw).WithClock(func() time.Time { return testNow })

	id := 42
	_, err := sa.Aggregate(context.Background(), testInterval(), &id)
	require.NoError(t, err)
	require.NotNil(t, gw.staffID)
	require.Equal(t, 42, *gw.staffID)
}

func TestStaffAggregate_StorageFailure(t *testing.T) {
	gw := &fakeTasks{err: errors.New("connection refused")}
	sa := NewStaffAggregator(gw)

	_, err := sa.Aggregate(context.Background(), testInterval(), nil)
	var aggErr *AggregationError
	require.ErrorAs(t, err, &aggErr)
	require.Equal(t, "staff tasks", aggErr.Metric)
}
