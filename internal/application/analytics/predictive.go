package analytics

import (
	"math"
	"sort"
	"time"

	"github.com/sangkips/bizmetrics-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// supplyEpsilon keeps days-of-supply finite when there is no demand
const supplyEpsilon = 1e-6

// MonthlyRevenue is one complete calendar month of revenue
type MonthlyRevenue struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

// TrendEstimate scores the reference month against the trailing monthly series
type TrendEstimate struct {
	Series                []MonthlyRevenue `json:"series"`
	ReferenceMonth        string           `json:"reference_month"`
	MonthToDateRevenue    float64          `json:"month_to_date_revenue"`
	ProjectedMonthRevenue float64          `json:"projected_month_revenue"`
	Mean                  *float64         `json:"mean"`
	StdDev                *float64         `json:"std_dev"`
	ZScore                *float64         `json:"z_score"`
	ProjectedZScore       *float64         `json:"projected_z_score"`
	AnomalyThreshold      float64          `json:"anomaly_threshold"`
	Anomalous             bool             `json:"anomalous"`
	ProjectedAnomalous    bool             `json:"projected_anomalous"`
	Slope                 *float64         `json:"slope"`
	NextMonthForecast     *float64         `json:"next_month_forecast"`
	Direction             string           `json:"direction"`
}

// EstimateTrend builds the monthly series over the months complete before the
// month holding asOf and scores that month against it. ZScore uses the revenue
// booked so far; ProjectedZScore uses the month's run-rate. They agree once the
// month is complete.
func EstimateTrend(history []entity.Sale, asOf time.Time, months int, threshold float64) TrendEstimate {
	ref := referenceMonth(asOf)

	series := make([]MonthlyRevenue, 0, months)
	values := make([]float64, 0, months)
	for i := months; i >= 1; i-- {
		start := ref.AddDate(0, -i, 0)
		w := entity.TimeWindow{Start: start, End: start.AddDate(0, 1, 0)}
		v := money(revenueIn(history, w))
		series = append(series, MonthlyRevenue{Month: start.Format("2006-01"), Revenue: v})
		values = append(values, v)
	}

	mtd := revenueIn(history, entity.TimeWindow{Start: ref, End: asOf})
	monthLen := ref.AddDate(0, 1, 0).Sub(ref)
	elapsed := asOf.Sub(ref)
	projected := mtd
	if elapsed > 0 && elapsed < monthLen {
		projected = mtd.Mul(decimal.NewFromInt(int64(monthLen))).Div(decimal.NewFromInt(int64(elapsed)))
	}

	est := TrendEstimate{
		Series:                series,
		ReferenceMonth:        ref.Format("2006-01"),
		MonthToDateRevenue:    money(mtd),
		ProjectedMonthRevenue: money(projected),
		AnomalyThreshold:      threshold,
		Direction:             "unknown",
	}

	m, hasMean := mean(values)
	if hasMean {
		est.Mean = ptr(round2(m))
	}
	if sd, ok := populationStdDev(values); ok {
		est.StdDev = ptr(round2(sd))
		z := zScore(est.MonthToDateRevenue, m, sd)
		est.ZScore = ptr(round2(z))
		est.Anomalous = math.Abs(z) >= threshold

		pz := zScore(est.ProjectedMonthRevenue, m, sd)
		est.ProjectedZScore = ptr(round2(pz))
		est.ProjectedAnomalous = math.Abs(pz) >= threshold
	}

	if slope, intercept, ok := linearFit(values); ok {
		est.Slope = ptr(round2(slope))
		est.NextMonthForecast = ptr(round2(math.Max(0, intercept+slope*float64(len(values)))))
		switch {
		case *est.Slope > 0:
			est.Direction = "up"
		case *est.Slope < 0:
			est.Direction = "down"
		default:
			est.Direction = "flat"
		}
	}
	return est
}

// CustomerValue is one customer's projected lifetime value
type CustomerValue struct {
	CustomerID           string  `json:"customer_id"`
	Name                 string  `json:"name"`
	Segment              string  `json:"segment"`
	TotalSpent           float64 `json:"total_spent"`
	LifespanDays         float64 `json:"lifespan_days"`
	MonthlyValue         float64 `json:"monthly_value"`
	PredictedAnnualValue float64 `json:"predicted_annual_value"`
}

// CLVProjection summarizes projected annual customer value
type CLVProjection struct {
	Customers                 int             `json:"customers"`
	AvgMonthlyValue           float64         `json:"avg_monthly_value"`
	AvgPredictedAnnualValue   float64         `json:"avg_predicted_annual_value"`
	TotalPredictedAnnualValue float64         `json:"total_predicted_annual_value"`
	TopCustomers              []CustomerValue `json:"top_customers"`
}

// ProjectCLV estimates monthly and annual value per customer from lifetime spend
// spread over the months between registration and the last order.
func ProjectCLV(segments *Ladder, customers []entity.Customer, sales []entity.Sale, topN int) CLVProjection {
	totals := lifetimeTotals(customers, sales)
	twelve := decimal.NewFromInt(12)
	thirty := decimal.NewFromInt(30)

	values := make([]CustomerValue, 0, len(customers))
	var monthlySum, annualSum decimal.Decimal
	for i := range customers {
		c := &customers[i]
		lt := totals[c.ID]

		lifespan := 0.0
		if lt.lastOrder != nil {
			lifespan = math.Max(0, lt.lastOrder.Sub(c.RegistrationDate).Hours()/24)
		}
		months := decimal.Max(decimal.NewFromInt(1), decimal.NewFromFloat(lifespan).Div(thirty))
		monthly := lt.spent.Div(months)
		annual := monthly.Mul(twelve)
		monthlySum = monthlySum.Add(monthly)
		annualSum = annualSum.Add(annual)

		spent, _ := lt.spent.Float64()
		values = append(values, CustomerValue{
			CustomerID:           c.ID.String(),
			Name:                 c.Name,
			Segment:              segments.Classify(spent),
			TotalSpent:           money(lt.spent),
			LifespanDays:         round2(lifespan),
			MonthlyValue:         money(monthly),
			PredictedAnnualValue: money(annual),
		})
	}

	sort.Slice(values, func(i, j int) bool {
		if values[i].PredictedAnnualValue != values[j].PredictedAnnualValue {
			return values[i].PredictedAnnualValue > values[j].PredictedAnnualValue
		}
		return values[i].CustomerID < values[j].CustomerID
	})
	if len(values) > topN {
		values = values[:topN]
	}

	n := decimal.NewFromInt(int64(len(customers)))
	return CLVProjection{
		Customers:                 len(customers),
		AvgMonthlyValue:           money(ratio(monthlySum, n)),
		AvgPredictedAnnualValue:   money(ratio(annualSum, n)),
		TotalPredictedAnnualValue: money(annualSum),
		TopCustomers:              values,
	}
}

// StatusCount is the number of variants in one inventory status
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// InventoryForecast relates stock on hand to the window's demand
type InventoryForecast struct {
	TotalStock   float64       `json:"total_stock"`
	Demand       float64       `json:"demand"`
	DemandPerDay float64       `json:"demand_per_day"`
	TurnoverRate float64       `json:"turnover_rate"`
	DaysOfSupply float64       `json:"days_of_supply"`
	Status       string        `json:"status"`
	StatusCounts []StatusCount `json:"status_counts"`
}

// daysOfSupply divides stock by daily demand, flooring demand at supplyEpsilon
func daysOfSupply(stock, perDay float64) float64 {
	return stock / math.Max(supplyEpsilon, perDay)
}

// ForecastInventory derives turnover and days of supply overall and per variant.
// Demand is the quantity sold during window.
func ForecastInventory(status *Ladder, stock []entity.ProductVariant, sales []entity.Sale, window entity.TimeWindow) InventoryForecast {
	days := window.Days()
	byVariant := demandByVariant(sales)

	var totalStock, demand decimal.Decimal
	for i := range sales {
		for j := range sales[i].Items {
			demand = demand.Add(sales[i].Items[j].Quantity)
		}
	}

	counts := make([]int, len(status.Tiers()))
	for i := range stock {
		v := &stock[i]
		totalStock = totalStock.Add(v.CurrentQuantity)

		sold := 0.0
		if t, ok := byVariant[v.ID]; ok {
			sold, _ = t.units.Float64()
		}
		qty, _ := v.CurrentQuantity.Float64()
		counts[status.Index(daysOfSupply(qty, sold/days))]++
	}

	stockF, _ := totalStock.Float64()
	demandF, _ := demand.Float64()
	perDay := demandF / days
	dos := daysOfSupply(stockF, perDay)

	labels := status.Labels()
	statusCounts := make([]StatusCount, len(labels))
	for i, l := range labels {
		statusCounts[i] = StatusCount{Status: l, Count: counts[i]}
	}

	return InventoryForecast{
		TotalStock:   money(totalStock),
		Demand:       money(demand),
		DemandPerDay: round2(perDay),
		TurnoverRate: round2(demandF / math.Max(1, stockF)),
		DaysOfSupply: round2(dos),
		Status:       status.Classify(dos),
		StatusCounts: statusCounts,
	}
}
