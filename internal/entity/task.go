package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// TaskStatus is the lifecycle state of a staff task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"
)

// StaffTask is one task-assignment record as read from storage.
type StaffTask struct {
	ID          int
	StaffID     int
	StaffName   string
	Status      TaskStatus
	CreatedAt   time.Time
	CompletedAt *time.Time
	DueDate     *time.Time
}

// TaskMetricSet aggregates task throughput for one staff member or for the
// whole team. AvgCompletionHours is nil when no completed task carries both
// timestamps.
type TaskMetricSet struct {
	Total      int
	Completed  int
	Pending    int
	InProgress int
	Cancelled  int
	Overdue    int

	CompletionRate     decimal.Decimal
	AvgCompletionHours *decimal.Decimal
}

// ThroughputReport is the staff-task counterpart of a comparison report:
// per-staff metric sets plus the team-wide aggregate.
type ThroughputReport struct {
	Interval   Interval
	PerStaff   map[int]TaskMetricSet
	StaffNames map[int]string
	Overall    TaskMetricSet
}
