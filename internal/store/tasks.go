package store

import (
	"context"
	"time"

	"github.com/Lawrennzz/AgriMarket-sub003/internal/dependency"
	"github.com/Lawrennzz/AgriMarket-sub003/internal/entity"
)

type tasksStore struct {
	*MYSQLStore
}

func (ms *MYSQLStore) Tasks() dependency.Tasks {
	return &tasksStore{MYSQLStore: ms}
}

// TasksInRange returns task-assignment records created inside the
// interval, optionally restricted to a single staff member.
func (ms *tasksStore) TasksInRange(ctx context.Context, iv entity.Interval, staffID *int) ([]entity.StaffTask, error) {
	query := `
		SELECT st.id, st.staff_id, s.name AS staff_name, st.status,
			st.created_at, st.completed_at, st.due_date
		FROM staff_tasks st
		JOIN staff s ON st.staff_id = s.id
		WHERE st.created_at >= :from AND st.created_at < :to
		AND (:staffId IS NULL OR st.staff_id = :staffId)
		ORDER BY st.created_at ASC, st.id ASC
	`
	rows, err := QueryListNamed[struct {
		ID          int        `db:"id"`
		StaffID     int        `db:"staff_id"`
		StaffName   string     `db:"staff_name"`
		Status      string     `db:"status"`
		CreatedAt   time.Time  `db:"created_at"`
		CompletedAt *time.Time `db:"completed_at"`
		DueDate     *time.Time `db:"due_date"`
	}](ctx, ms.DB(), query, map[string]any{
		"from":    iv.Start,
		"to":      iv.ExclusiveEnd(),
		"staffId": staffID,
	})
	if err != nil {
		return nil, err
	}
	result := make([]entity.StaffTask, len(rows))
	for i, r := range rows {
		result[i] = entity.StaffTask{
			ID:          r.ID,
			StaffID:     r.StaffID,
			StaffName:   r.StaffName,
			Status:      entity.TaskStatus(r.Status),
			CreatedAt:   r.CreatedAt,
			CompletedAt: r.CompletedAt,
			DueDate:     r.DueDate,
		}
	}
	return result, nil
}
