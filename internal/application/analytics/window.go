package analytics

import (
	"time"

	"github.com/sangkips/bizmetrics-api/internal/domain/entity"
	"github.com/sangkips/bizmetrics-api/pkg/apperror"
)

const day = 24 * time.Hour

// MaxWindowDays bounds a window to about a century, well inside time.Duration's range
const MaxWindowDays = 36600

// PeriodSpecifier selects the report window.
// Either Days (window ending at AsOf) or an explicit Start/End pair must be given.
type PeriodSpecifier struct {
	Days  int        `json:"days,omitempty"`
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
	// AsOf is the reference instant. For explicit ranges it defaults to End.
	AsOf time.Time `json:"as_of"`
}

// ResolvedWindows is the concrete current window and its comparison window
type ResolvedWindows struct {
	Current  entity.TimeWindow `json:"current"`
	Previous entity.TimeWindow `json:"previous"`
	AsOf     time.Time         `json:"as_of"`
}

// ResolveWindows turns a period specifier into a current window and the
// immediately preceding window of identical duration.
func ResolveWindows(spec PeriodSpecifier) (ResolvedWindows, error) {
	var current entity.TimeWindow
	asOf := spec.AsOf.UTC()

	switch {
	case spec.Start != nil || spec.End != nil:
		if spec.Days != 0 {
			return ResolvedWindows{}, apperror.NewInvalidWindowError("specify either days or a start/end range, not both")
		}
		if spec.Start == nil || spec.End == nil {
			return ResolvedWindows{}, apperror.NewInvalidWindowError("both start and end are required for a range")
		}
		current = entity.TimeWindow{Start: spec.Start.UTC(), End: spec.End.UTC()}
		if !current.End.After(current.Start) {
			return ResolvedWindows{}, apperror.NewInvalidWindowError("end must be after start")
		}
		if spec.AsOf.IsZero() {
			asOf = current.End
		}

	case spec.Days > MaxWindowDays:
		return ResolvedWindows{}, apperror.NewInvalidWindowError("days must not exceed 36600")

	case spec.Days > 0:
		if spec.AsOf.IsZero() {
			return ResolvedWindows{}, apperror.NewInvalidWindowError("as_of is required for a day-count period")
		}
		current = entity.TimeWindow{
			Start: asOf.Add(-time.Duration(spec.Days) * day),
			End:   asOf,
		}

	default:
		return ResolvedWindows{}, apperror.NewInvalidWindowError("days must be positive")
	}

	if !current.End.After(current.Start) {
		return ResolvedWindows{}, apperror.NewInvalidWindowError("window is empty")
	}
	d := current.Duration()
	if d > MaxWindowDays*day {
		return ResolvedWindows{}, apperror.NewInvalidWindowError("window must not exceed 36600 days")
	}
	return ResolvedWindows{
		Current:  current,
		Previous: entity.TimeWindow{Start: current.Start.Add(-d), End: current.Start},
		AsOf:     asOf,
	}, nil
}

// trailing returns the window of length d ending at end
func trailing(end time.Time, d time.Duration) entity.TimeWindow {
	return entity.TimeWindow{Start: end.Add(-d), End: end}
}

// referenceMonth returns the first instant of the calendar month holding the last instant before asOf
func referenceMonth(asOf time.Time) time.Time {
	last := asOf.Add(-time.Nanosecond)
	return time.Date(last.Year(), last.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// historyWindow covers the trailing forecast months, the reference month and
// the 60 days needed by the day/week/month-over-month deltas.
func historyWindow(asOf time.Time, months int) entity.TimeWindow {
	start := referenceMonth(asOf).AddDate(0, -months, 0)
	if alt := asOf.Add(-2 * monthDelta); alt.Before(start) {
		start = alt
	}
	return entity.TimeWindow{Start: start, End: asOf}
}
