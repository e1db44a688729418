package dto

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/Lawrennzz/AgriMarket-sub003/internal/entity"
	"github.com/asaskevich/govalidator"
)

const isoDate = "2006-01-02"

// ParseReportQuery turns the raw admin query string into a validated
// report request. Defaults: period=month, comparison=previous. Every
// failure here is user-correctable input, reported before any aggregation
// work starts.
func ParseReportQuery(q url.Values) (entity.PeriodRequest, entity.ComparisonMode, entity.DimensionFilter, error) {
	var (
		period entity.PeriodRequest
		mode   entity.ComparisonMode
		filter entity.DimensionFilter
	)

	kind := q.Get("period")
	if kind == "" {
		kind = string(entity.PeriodMonth)
	}
	if !entity.IsValidPeriodKind(kind) {
		return period, mode, filter, fmt.Errorf("unknown period %q", kind)
	}
	period.Kind = entity.PeriodKind(kind)

	comparison := q.Get("comparison")
	if comparison == "" {
		comparison = string(entity.ComparePreviousPeriod)
	}
	if !entity.IsValidComparisonMode(comparison) {
		return period, mode, filter, fmt.Errorf("unknown comparison %q", comparison)
	}
	mode = entity.ComparisonMode(comparison)

	if period.Kind == entity.PeriodCustom {
		start, end := q.Get("start_date"), q.Get("end_date")
		if start == "" || end == "" {
			return period, mode, filter, fmt.Errorf("custom period requires start_date and end_date")
		}
		var err error
		if period.Start, err = time.Parse(isoDate, start); err != nil {
			return period, mode, filter, fmt.Errorf("invalid start_date %q", start)
		}
		if period.End, err = time.Parse(isoDate, end); err != nil {
			return period, mode, filter, fmt.Errorf("invalid end_date %q", end)
		}
	}

	var err error
	if filter.VendorID, err = parsePositiveInt(q.Get("vendor_id"), "vendor_id"); err != nil {
		return period, mode, filter, err
	}
	if filter.CategoryID, err = parsePositiveInt(q.Get("category_id"), "category_id"); err != nil {
		return period, mode, filter, err
	}

	return period, mode, filter, nil
}

// ParseStaffQuery parses the optional staff_id restriction of the
// throughput report.
func ParseStaffQuery(q url.Values) (*int, error) {
	return parsePositiveInt(q.Get("staff_id"), "staff_id")
}

func parsePositiveInt(raw, name string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	if !govalidator.IsInt(raw) {
		return nil, fmt.Errorf("%s must be a positive integer", name)
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return nil, fmt.Errorf("%s must be a positive integer", name)
	}
	return &v, nil
}
