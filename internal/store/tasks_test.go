package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Lawrennzz/AgriMarket-sub003/internal/entity"
	"github.com/stretchr/testify/require"
)

func TestTasksInRange(t *testing.T) {
	ms, mock := newMockStore(t)

	created := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	completed := time.Date(2026, 3, 3, 11, 0, 0, 0, time.UTC)
	due := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "staff_id", "staff_name", "status", "created_at", "completed_at", "due_date"}).
		AddRow(1, 4, "Aina", "completed", created, completed, due).
		AddRow(2, 4, "Aina", "pending", created, nil, nil)
	mock.ExpectQuery(`FROM staff_tasks st(?s).*JOIN staff s`).WillReturnRows(rows)

	got, err := ms.Tasks().TasksInRange(context.Background(), march(), nil)
	require.NoError(t, err)
	require.Len(t, got, 2)

	require.Equal(t, entity.TaskCompleted, got[0].Status)
	require.Equal(t, "Aina", got[0].StaffName)
	require.NotNil(t, got[0].CompletedAt)
	require.NotNil(t, got[0].DueDate)

	require.Equal(t, entity.TaskPending, got[1].Status)
	require.Nil(t, got[1].CompletedAt)
	require.Nil(t, got[1].DueDate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTasksInRange_StaffFilter(t *testing.T) {
	ms, mock := newMockStore(t)
	staffID := 4

	iv := march()
	// :from, :to, then :staffId twice for the null-or-equal predicate
	mock.ExpectQuery(`FROM staff_tasks st`).
		WithArgs(iv.Start, iv.ExclusiveEnd(), int64(staffID), int64(staffID)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "staff_id", "staff_name", "status", "created_at", "completed_at", "due_date"}))

	got, err := ms.Tasks().TasksInRange(context.Background(), iv, &staffID)
	require.NoError(t, err)
	require.Empty(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}
