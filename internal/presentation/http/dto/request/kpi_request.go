package request

import (
	"time"

	"github.com/sangkips/bizmetrics-api/internal/application/analytics"
	"github.com/sangkips/bizmetrics-api/pkg/apperror"
)

// DefaultReportDays applies when neither days nor a date range is given
const DefaultReportDays = 30

// KPIReportRequest represents the KPI report query parameters.
// end_date is inclusive: the window runs to the start of the following day.
type KPIReportRequest struct {
	Days      *int   `form:"days" binding:"omitempty,max=36600"`
	StartDate string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"end_date" binding:"omitempty,datetime=2006-01-02"`
	AsOf      string `form:"as_of" binding:"omitempty"`
}

// PeriodSpecifier converts the query into an engine period. AsOf stays zero
// when not supplied so the service can apply its clock.
func (r *KPIReportRequest) PeriodSpecifier() (analytics.PeriodSpecifier, error) {
	var spec analytics.PeriodSpecifier

	if r.AsOf != "" {
		asOf, err := time.Parse(time.RFC3339, r.AsOf)
		if err != nil {
			return spec, apperror.NewValidationError([]apperror.FieldError{
				{Field: "as_of", Message: "must be an RFC3339 timestamp"},
			})
		}
		spec.AsOf = asOf.UTC()
	}

	if r.StartDate != "" || r.EndDate != "" {
		if r.StartDate != "" {
			start, _ := time.Parse(time.DateOnly, r.StartDate)
			spec.Start = &start
		}
		if r.EndDate != "" {
			end, _ := time.Parse(time.DateOnly, r.EndDate)
			end = end.AddDate(0, 0, 1)
			spec.End = &end
		}
	}

	switch {
	case r.Days != nil:
		spec.Days = *r.Days
	case spec.Start == nil && spec.End == nil:
		spec.Days = DefaultReportDays
	}
	return spec, nil
}
