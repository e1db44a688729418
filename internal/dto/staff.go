package dto

import (
	"sort"

	"github.com/Lawrennzz/AgriMarket-sub003/internal/entity"
	"github.com/shopspring/decimal"
)

type TaskMetricSetResponse struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Cancelled  int `json:"cancelled"`
	Overdue    int `json:"overdue"`

	CompletionRate     decimal.Decimal  `json:"completion_rate"`
	AvgCompletionHours *decimal.Decimal `json:"avg_completion_hours"`
}

type StaffThroughputResponse struct {
	StaffID   int    `json:"staff_id"`
	StaffName string `json:"staff_name"`
	TaskMetricSetResponse
}

type ThroughputReportResponse struct {
	Interval IntervalResponse          `json:"interval"`
	PerStaff []StaffThroughputResponse `json:"per_staff"`
	Overall  TaskMetricSetResponse     `json:"overall"`
}

// ConvertThroughputReport shapes the staff report. Staff rows are ordered
// by completed count descending, then staff id, so output is stable.
func ConvertThroughputReport(r *entity.ThroughputReport) *ThroughputReportResponse {
	res := &ThroughputReportResponse{
		Interval: convertInterval(r.Interval),
		PerStaff: make([]StaffThroughputResponse, 0, len(r.PerStaff)),
		Overall:  convertTaskMetricSet(r.Overall),
	}
	for id, ms := range r.PerStaff {
		res.PerStaff = append(res.PerStaff, StaffThroughputResponse{
			StaffID:               id,
			StaffName:             r.StaffNames[id],
			TaskMetricSetResponse: convertTaskMetricSet(ms),
		})
	}
	sort.Slice(res.PerStaff, func(i, j int) bool {
		if res.PerStaff[i].Completed != res.PerStaff[j].Completed {
			return res.PerStaff[i].Completed > res.PerStaff[j].Completed
		}
		return res.PerStaff[i].StaffID < res.PerStaff[j].StaffID
	})
	return res
}

func convertTaskMetricSet(ms entity.TaskMetricSet) TaskMetricSetResponse {
	return TaskMetricSetResponse{
		Total:              ms.Total,
		Completed:          ms.Completed,
		Pending:            ms.Pending,
		InProgress:         ms.InProgress,
		Cancelled:          ms.Cancelled,
		Overdue:            ms.Overdue,
		CompletionRate:     ms.CompletionRate,
		AvgCompletionHours: ms.AvgCompletionHours,
	}
}
