package analytics

import "testing"

func TestGrowth(t *testing.T) {
	tests := []struct {
		name              string
		current, previous float64
		want              float64
	}{
		{"increase", 110, 100, 10},
		{"decrease", 90, 100, -10},
		{"from zero", 50, 0, 100},
		{"zero to zero", 0, 0, 0},
		{"negative from zero", -5, 0, 0},
		{"recovering from a loss", 50, -100, 150},
		{"rounded", 1, 3, -66.67},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Growth(tt.current, tt.previous); got != tt.want {
				t.Fatalf("Growth(%v, %v) = %v, want %v", tt.current, tt.previous, got, tt.want)
			}
		})
	}
}

func TestComputePeriodDeltas(t *testing.T) {
	rs := fixtureRecords()
	d := ComputePeriodDeltas(rs.SalesHistory, testAsOf)

	tests := []struct {
		name string
		got  PeriodDelta
		want PeriodDelta
	}{
		{"day over day", d.DayOverDay, PeriodDelta{Current: 100, Previous: 0, Growth: 100}},
		{"week over week", d.WeekOverWeek, PeriodDelta{Current: 300, Previous: 300, Growth: 0}},
		{"month over month", d.MonthOverMonth, PeriodDelta{Current: 600, Previous: 300, Growth: 100}},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %+v, want %+v", tt.name, tt.got, tt.want)
		}
	}
}

func TestCompareFinancial(t *testing.T) {
	rs := fixtureRecords()
	g := CompareFinancial(AggregateFinancial(rs.Sales), AggregateFinancial(rs.PreviousSales))
	want := GrowthMetrics{Revenue: 100, Orders: 200, AvgOrderValue: -33.33, UniqueCustomers: 100, Discounts: 0}
	if g != want {
		t.Fatalf("CompareFinancial = %+v, want %+v", g, want)
	}
}
