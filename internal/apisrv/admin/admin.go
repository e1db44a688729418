package admin

import (
	"encoding/json"
	"errors"
	"net/http"

	"log/slog"

	"github.com/Lawrennzz/AgriMarket-sub003/internal/apisrv/auth"
	"github.com/Lawrennzz/AgriMarket-sub003/internal/cache"
	"github.com/Lawrennzz/AgriMarket-sub003/internal/dto"
	"github.com/Lawrennzz/AgriMarket-sub003/internal/entity"
	"github.com/Lawrennzz/AgriMarket-sub003/internal/ratelimit"
	"github.com/Lawrennzz/AgriMarket-sub003/internal/report"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Server exposes the comparison and staff-throughput reports to the admin
// dashboard.
type Server struct {
	assembler *report.Assembler
	staff     *report.StaffAggregator
	reports   *cache.ReportCache
	limiter   *ratelimit.ReportLimiter
}

func New(assembler *report.Assembler, staff *report.StaffAggregator, reports *cache.ReportCache, limiter *ratelimit.ReportLimiter) *Server {
	return &Server{assembler: assembler, staff: staff, reports: reports, limiter: limiter}
}

// Routes mounts the report endpoints on a chi router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/reports/comparison", s.handleComparisonReport)
	r.Get("/reports/staff", s.handleStaffReport)
}

func (s *Server) handleComparisonReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	period, mode, filter, err := dto.ParseReportQuery(r.URL.Query())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rctx := entity.ReportContext{
		RequestID:  uuid.NewString(),
		ActorEmail: auth.ActorEmail(r),
		Period:     period,
		Mode:       mode,
		Filter:     filter,
	}

	key := cache.Key(period, mode, filter)
	if cached, ok := s.reports.Get(key); ok {
		writeJSON(w, http.StatusOK, dto.ConvertReport(&cached))
		return
	}

	if err := s.limiter.CheckActor(rctx.ActorEmail); err != nil {
		writeError(w, http.StatusTooManyRequests, err.Error())
		return
	}

	rep, err := s.assembler.BuildReport(ctx, rctx)
	if err != nil {
		var rangeErr *report.InvalidRangeError
		if errors.As(err, &rangeErr) {
			writeError(w, http.StatusBadRequest, rangeErr.Error())
			return
		}
		slog.Default().ErrorContext(ctx, "comparison report failed",
			slog.String("request_id", rctx.RequestID),
			slog.String("error", err.Error()),
		)
		// Never substitute zeros for a failed aggregation; tell the
		// dashboard the report is unavailable for this range/filter.
		writeError(w, http.StatusServiceUnavailable, "report unavailable for the selected range or filter")
		return
	}

	s.reports.Set(key, *rep)
	writeJSON(w, http.StatusOK, dto.ConvertReport(rep))
}

func (s *Server) handleStaffReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	period, mode, _, err := dto.ParseReportQuery(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	staffID, err := dto.ParseStaffQuery(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	iv, _, _, err := report.ResolveRange(period, mode, s.staff.Now())
	if err != nil {
		var rangeErr *report.InvalidRangeError
		if errors.As(err, &rangeErr) {
			writeError(w, http.StatusBadRequest, rangeErr.Error())
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rep, err := s.staff.Aggregate(ctx, iv, staffID)
	if err != nil {
		slog.Default().ErrorContext(ctx, "staff report failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusServiceUnavailable, "report unavailable for the selected range")
		return
	}

	writeJSON(w, http.StatusOK, dto.ConvertThroughputReport(rep))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("failed to encode response", slog.String("error", err.Error()))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
