package analytics

import (
	"math"
	"time"

	"github.com/sangkips/bizmetrics-api/internal/domain/entity"
)

const (
	weekDelta  = 7 * day
	monthDelta = 30 * day
)

// Growth returns the percentage change from previous to current.
// A zero previous value yields 100 when current is positive and 0 otherwise.
// The denominator is |previous| so that a rise is always positive.
func Growth(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return round2((current - previous) / math.Abs(previous) * 100)
}

// GrowthMetrics compares the current window with the previous one
type GrowthMetrics struct {
	Revenue         float64 `json:"revenue"`
	Orders          float64 `json:"orders"`
	AvgOrderValue   float64 `json:"avg_order_value"`
	UniqueCustomers float64 `json:"unique_customers"`
	Discounts       float64 `json:"discounts"`
}

// CompareFinancial derives window-over-window growth for every financial pair
func CompareFinancial(current, previous FinancialMetrics) GrowthMetrics {
	return GrowthMetrics{
		Revenue:         Growth(current.Revenue, previous.Revenue),
		Orders:          Growth(float64(current.Orders), float64(previous.Orders)),
		AvgOrderValue:   Growth(current.AvgOrderValue, previous.AvgOrderValue),
		UniqueCustomers: Growth(float64(current.UniqueCustomers), float64(previous.UniqueCustomers)),
		Discounts:       Growth(current.TotalDiscounts, previous.TotalDiscounts),
	}
}

// PeriodDelta is a revenue comparison between two adjacent periods ending at AsOf
type PeriodDelta struct {
	Current  float64 `json:"current"`
	Previous float64 `json:"previous"`
	Growth   float64 `json:"growth"`
}

// PeriodDeltas holds day-, week- and month-over-month revenue growth
type PeriodDeltas struct {
	DayOverDay     PeriodDelta `json:"day_over_day"`
	WeekOverWeek   PeriodDelta `json:"week_over_week"`
	MonthOverMonth PeriodDelta `json:"month_over_month"`
}

// ComputePeriodDeltas compares trailing day/week/30-day revenue with the period before it
func ComputePeriodDeltas(history []entity.Sale, asOf time.Time) PeriodDeltas {
	return PeriodDeltas{
		DayOverDay:     periodDelta(history, asOf, day),
		WeekOverWeek:   periodDelta(history, asOf, weekDelta),
		MonthOverMonth: periodDelta(history, asOf, monthDelta),
	}
}

func periodDelta(history []entity.Sale, asOf time.Time, d time.Duration) PeriodDelta {
	cur := trailing(asOf, d)
	prev := trailing(cur.Start, d)
	c := money(revenueIn(history, cur))
	p := money(revenueIn(history, prev))
	return PeriodDelta{Current: c, Previous: p, Growth: Growth(c, p)}
}
