package analytics

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/bizmetrics-api/internal/domain/entity"
	"github.com/sangkips/bizmetrics-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// maxDailyPoints caps the daily sales series; longer windows keep their last days
const maxDailyPoints = 92

// FinancialMetrics are the sales-side money reducers for one window
type FinancialMetrics struct {
	Revenue            float64 `json:"revenue"`
	Orders             int     `json:"orders"`
	AvgOrderValue      float64 `json:"avg_order_value"`
	UniqueCustomers    int     `json:"unique_customers"`
	TotalDiscounts     float64 `json:"total_discounts"`
	DiscountPercentage float64 `json:"discount_percentage"`
	CreditSales        float64 `json:"credit_sales"`
	CreditSalesRatio   float64 `json:"credit_sales_ratio"`
	CashInflow         float64 `json:"cash_inflow"`
	CustomerBalance    float64 `json:"customer_balance"`
	InconsistentSplits int     `json:"inconsistent_splits"`
}

// FinancialSection pairs the current window with its comparison window
type FinancialSection struct {
	Current  FinancialMetrics `json:"current"`
	Previous FinancialMetrics `json:"previous"`
}

// AggregateFinancial reduces a sale set into financial KPIs
func AggregateFinancial(sales []entity.Sale) FinancialMetrics {
	var revenue, discounts, credit, inflow, balance decimal.Decimal
	customers := make(map[uuid.UUID]struct{})
	inconsistent := 0

	for i := range sales {
		s := &sales[i]
		revenue = revenue.Add(s.TotalAmount)
		discounts = discounts.Add(s.DiscountAmount)
		credit = credit.Add(s.AmountCredit)
		inflow = inflow.Add(s.PaidAmount())
		balance = balance.Add(s.BalanceDue())
		if s.CustomerID != nil {
			customers[*s.CustomerID] = struct{}{}
		}
		if !s.SplitsWithinTotal() {
			inconsistent++
		}
	}

	orders := len(sales)
	return FinancialMetrics{
		Revenue:            money(revenue),
		Orders:             orders,
		AvgOrderValue:      money(ratio(revenue, decimal.NewFromInt(int64(orders)))),
		UniqueCustomers:    len(customers),
		TotalDiscounts:     money(discounts),
		DiscountPercentage: percent(discounts, revenue),
		CreditSales:        money(credit),
		CreditSalesRatio:   percent(credit, revenue),
		CashInflow:         money(inflow),
		CustomerBalance:    money(balance),
		InconsistentSplits: inconsistent,
	}
}

// PaymentMix is revenue collected per payment method
type PaymentMix struct {
	Cash   float64 `json:"cash"`
	UPI    float64 `json:"upi"`
	Card   float64 `json:"card"`
	Credit float64 `json:"credit"`
}

// ProductSales is one product variant's contribution in the window
type ProductSales struct {
	ProductVariantID string  `json:"product_variant_id"`
	Units            float64 `json:"units"`
	Revenue          float64 `json:"revenue"`
}

// DailySalesPoint is one day of the sales series
type DailySalesPoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}

// SalesMetrics are line-item and mix reducers for the window
type SalesMetrics struct {
	UnitsSold     float64           `json:"units_sold"`
	LineItems     int               `json:"line_items"`
	ItemsPerOrder float64           `json:"items_per_order"`
	PaymentMix    PaymentMix        `json:"payment_mix"`
	TopProducts   []ProductSales    `json:"top_products"`
	DailySales    []DailySalesPoint `json:"daily_sales"`
}

type variantTotals struct {
	units   decimal.Decimal
	revenue decimal.Decimal
}

// demandByVariant sums sold quantity and line revenue per product variant
func demandByVariant(sales []entity.Sale) map[uuid.UUID]*variantTotals {
	out := make(map[uuid.UUID]*variantTotals)
	for i := range sales {
		for j := range sales[i].Items {
			item := &sales[i].Items[j]
			t, ok := out[item.ProductVariantID]
			if !ok {
				t = &variantTotals{}
				out[item.ProductVariantID] = t
			}
			t.units = t.units.Add(item.Quantity)
			t.revenue = t.revenue.Add(item.LineTotal())
		}
	}
	return out
}

// AggregateSales reduces a sale set into sales-category KPIs for the window
func AggregateSales(sales []entity.Sale, window entity.TimeWindow, topN int) SalesMetrics {
	var units, cash, upi, card, credit decimal.Decimal
	lines := 0
	for i := range sales {
		s := &sales[i]
		cash = cash.Add(s.AmountCash)
		upi = upi.Add(s.AmountUPI)
		card = card.Add(s.AmountCard)
		credit = credit.Add(s.AmountCredit)
		for j := range s.Items {
			units = units.Add(s.Items[j].Quantity)
			lines++
		}
	}

	byVariant := demandByVariant(sales)
	top := make([]ProductSales, 0, len(byVariant))
	for id, t := range byVariant {
		top = append(top, ProductSales{
			ProductVariantID: id.String(),
			Units:            money(t.units),
			Revenue:          money(t.revenue),
		})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Revenue != top[j].Revenue {
			return top[i].Revenue > top[j].Revenue
		}
		return top[i].ProductVariantID < top[j].ProductVariantID
	})
	if len(top) > topN {
		top = top[:topN]
	}

	return SalesMetrics{
		UnitsSold:     money(units),
		LineItems:     lines,
		ItemsPerOrder: money(ratio(decimal.NewFromInt(int64(lines)), decimal.NewFromInt(int64(len(sales))))),
		PaymentMix: PaymentMix{
			Cash:   money(cash),
			UPI:    money(upi),
			Card:   money(card),
			Credit: money(credit),
		},
		TopProducts: top,
		DailySales:  dailySeries(sales, window),
	}
}

// dailySeries buckets sales into zero-filled 24h slots aligned to the window start
func dailySeries(sales []entity.Sale, window entity.TimeWindow) []DailySalesPoint {
	start := window.Start
	if window.Duration() > maxDailyPoints*day {
		start = window.End.Add(-maxDailyPoints * day)
	}

	n := int((window.End.Sub(start) + day - 1) / day)
	if n <= 0 {
		return []DailySalesPoint{}
	}
	revenue := make([]decimal.Decimal, n)
	orders := make([]int, n)
	for i := range sales {
		t := sales[i].InvoiceDate
		if t.Before(start) || !t.Before(window.End) {
			continue
		}
		idx := int(t.Sub(start) / day)
		revenue[idx] = revenue[idx].Add(sales[i].TotalAmount)
		orders[idx]++
	}

	out := make([]DailySalesPoint, n)
	for i := range out {
		out[i] = DailySalesPoint{
			Date:    start.Add(time.Duration(i) * day).UTC().Format("2006-01-02"),
			Revenue: money(revenue[i]),
			Orders:  orders[i],
		}
	}
	return out
}

// revenueIn sums sale totals whose invoice date falls inside the window
func revenueIn(sales []entity.Sale, window entity.TimeWindow) decimal.Decimal {
	total := decimal.Zero
	for i := range sales {
		if window.Contains(sales[i].InvoiceDate) {
			total = total.Add(sales[i].TotalAmount)
		}
	}
	return total
}

// PurchaseMetrics are the payables-side reducers
type PurchaseMetrics struct {
	TotalPurchases        float64 `json:"total_purchases"`
	PurchaseCount         int     `json:"purchase_count"`
	AvgPurchaseOrderValue float64 `json:"avg_purchase_order_value"`
	Vendors               int     `json:"vendors"`
	VendorBalance         float64 `json:"vendor_balance"`
	CashOutflow           float64 `json:"cash_outflow"`
	OverpaidCount         int     `json:"overpaid_count"`
}

// AggregatePurchases reduces a purchase set
func AggregatePurchases(purchases []entity.Purchase) PurchaseMetrics {
	var total, paid, balance decimal.Decimal
	vendors := make(map[uuid.UUID]struct{})
	overpaid := 0
	for i := range purchases {
		p := &purchases[i]
		total = total.Add(p.TotalAmount)
		paid = paid.Add(p.PaidAmount())
		due := p.BalanceDue()
		balance = balance.Add(due)
		if due.IsNegative() {
			overpaid++
		}
		vendors[p.VendorID] = struct{}{}
	}

	return PurchaseMetrics{
		TotalPurchases:        money(total),
		PurchaseCount:         len(purchases),
		AvgPurchaseOrderValue: money(ratio(total, decimal.NewFromInt(int64(len(purchases))))),
		Vendors:               len(vendors),
		VendorBalance:         money(balance),
		CashOutflow:           money(paid),
		OverpaidCount:         overpaid,
	}
}

// CategoryAmount is an amount attributed to a named category
type CategoryAmount struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// ExpenseMetrics are operating expense reducers
type ExpenseMetrics struct {
	TotalExpenses float64          `json:"total_expenses"`
	ExpenseCount  int              `json:"expense_count"`
	CashOutflow   float64          `json:"cash_outflow"`
	ByCategory    []CategoryAmount `json:"by_category"`
}

// AggregateExpenses reduces an expense set
func AggregateExpenses(expenses []entity.Expense) ExpenseMetrics {
	var total, paid decimal.Decimal
	byCategory := make(map[string]decimal.Decimal)
	for i := range expenses {
		e := &expenses[i]
		total = total.Add(e.TotalAmount)
		paid = paid.Add(e.PaidAmount())
		cat := e.Category
		if cat == "" {
			cat = "Uncategorized"
		}
		byCategory[cat] = byCategory[cat].Add(e.TotalAmount)
	}

	cats := make([]CategoryAmount, 0, len(byCategory))
	for name, amount := range byCategory {
		cats = append(cats, CategoryAmount{Category: name, Amount: money(amount)})
	}
	sort.Slice(cats, func(i, j int) bool {
		if cats[i].Amount != cats[j].Amount {
			return cats[i].Amount > cats[j].Amount
		}
		return cats[i].Category < cats[j].Category
	})

	return ExpenseMetrics{
		TotalExpenses: money(total),
		ExpenseCount:  len(expenses),
		CashOutflow:   money(paid),
		ByCategory:    cats,
	}
}

// ProfitabilityMetrics combine sales, purchases and expenses
type ProfitabilityMetrics struct {
	NetProfit           float64 `json:"net_profit"`
	NetProfitMargin     float64 `json:"net_profit_margin"`
	ExpenseToSalesRatio float64 `json:"expense_to_sales_ratio"`
	CashFlow            float64 `json:"cash_flow"`
}

// AggregateProfitability derives net profit and cash flow for the window
func AggregateProfitability(sales []entity.Sale, purchases []entity.Purchase, expenses []entity.Expense) ProfitabilityMetrics {
	var revenue, inflow, purchaseTotal, expenseTotal, outflow decimal.Decimal
	for i := range sales {
		revenue = revenue.Add(sales[i].TotalAmount)
		inflow = inflow.Add(sales[i].PaidAmount())
	}
	for i := range purchases {
		purchaseTotal = purchaseTotal.Add(purchases[i].TotalAmount)
		outflow = outflow.Add(purchases[i].PaidAmount())
	}
	for i := range expenses {
		expenseTotal = expenseTotal.Add(expenses[i].TotalAmount)
		outflow = outflow.Add(expenses[i].PaidAmount())
	}

	net := revenue.Sub(purchaseTotal).Sub(expenseTotal)
	return ProfitabilityMetrics{
		NetProfit:           money(net),
		NetProfitMargin:     percent(net, revenue),
		ExpenseToSalesRatio: percent(expenseTotal, revenue),
		CashFlow:            money(inflow.Sub(outflow)),
	}
}

// CustomerMetrics are customer-base reducers for the window
type CustomerMetrics struct {
	TotalCustomers     int     `json:"total_customers"`
	NewCustomers       int     `json:"new_customers"`
	ActiveCustomers    int     `json:"active_customers"`
	RepeatCustomers    int     `json:"repeat_customers"`
	ReturningCustomers int     `json:"returning_customers"`
	RetentionRate      float64 `json:"retention_rate"`
	RepeatPurchaseRate float64 `json:"repeat_purchase_rate"`
}

// AggregateCustomers counts new, active, repeat and retained customers
func AggregateCustomers(customers []entity.Customer, sales, previous []entity.Sale, window entity.TimeWindow) CustomerMetrics {
	newCount := 0
	for i := range customers {
		if window.Contains(customers[i].RegistrationDate) {
			newCount++
		}
	}

	current := ordersPerCustomer(sales)
	before := ordersPerCustomer(previous)

	repeat, returning := 0, 0
	for id, n := range current {
		if n >= 2 {
			repeat++
		}
		if _, ok := before[id]; ok {
			returning++
		}
	}

	return CustomerMetrics{
		TotalCustomers:     len(customers),
		NewCustomers:       newCount,
		ActiveCustomers:    len(current),
		RepeatCustomers:    repeat,
		ReturningCustomers: returning,
		RetentionRate:      percentInt(returning, len(before)),
		RepeatPurchaseRate: percentInt(repeat, len(current)),
	}
}

func ordersPerCustomer(sales []entity.Sale) map[uuid.UUID]int {
	out := make(map[uuid.UUID]int)
	for i := range sales {
		if id := sales[i].CustomerID; id != nil {
			out[*id]++
		}
	}
	return out
}

// InventoryMetrics are stock-level reducers
type InventoryMetrics struct {
	Variants          int     `json:"variants"`
	TotalUnits        float64 `json:"total_units"`
	TotalValue        float64 `json:"total_value"`
	LowStockThreshold float64 `json:"low_stock_threshold"`
	LowStockCount     int     `json:"low_stock_count"`
	OutOfStockCount   int     `json:"out_of_stock_count"`
}

// AggregateInventory values stock and counts variants under the low-stock threshold
func AggregateInventory(stock []entity.ProductVariant, lowStockThreshold float64) InventoryMetrics {
	threshold := decimal.NewFromFloat(lowStockThreshold)
	var units, value decimal.Decimal
	low, out := 0, 0
	for i := range stock {
		v := &stock[i]
		units = units.Add(v.CurrentQuantity)
		value = value.Add(v.StockValue())
		if v.CurrentQuantity.LessThan(threshold) {
			low++
		}
		if !v.CurrentQuantity.IsPositive() {
			out++
		}
	}

	return InventoryMetrics{
		Variants:          len(stock),
		TotalUnits:        money(units),
		TotalValue:        money(value),
		LowStockThreshold: lowStockThreshold,
		LowStockCount:     low,
		OutOfStockCount:   out,
	}
}

// ManufacturingMetrics are production reducers for one window
type ManufacturingMetrics struct {
	Batches         int     `json:"batches"`
	TotalProduced   float64 `json:"total_produced"`
	QualityPassed   int     `json:"quality_passed"`
	QualityPassRate float64 `json:"quality_pass_rate"`
	AvgBatchSize    float64 `json:"avg_batch_size"`
}

// ManufacturingSection compares production with the previous window
type ManufacturingSection struct {
	Current        ManufacturingMetrics `json:"current"`
	Previous       ManufacturingMetrics `json:"previous"`
	BatchesGrowth  float64              `json:"batches_growth"`
	ProducedGrowth float64              `json:"produced_growth"`
}

// AggregateManufacturing reduces a batch set.
// QualityPassRate is a fraction in [0, 1].
func AggregateManufacturing(batches []entity.ManufacturingBatch) ManufacturingMetrics {
	var produced decimal.Decimal
	passed := 0
	for i := range batches {
		produced = produced.Add(batches[i].QuantityProduced)
		if batches[i].QualityPassed {
			passed++
		}
	}
	count := decimal.NewFromInt(int64(len(batches)))
	rate, _ := ratio(decimal.NewFromInt(int64(passed)), count).Round(4).Float64()

	return ManufacturingMetrics{
		Batches:         len(batches),
		TotalProduced:   money(produced),
		QualityPassed:   passed,
		QualityPassRate: rate,
		AvgBatchSize:    money(ratio(produced, count)),
	}
}

// SubscriptionMetrics are recurring revenue reducers
type SubscriptionMetrics struct {
	Total            int     `json:"total"`
	Active           int     `json:"active"`
	Paused           int     `json:"paused"`
	Cancelled        int     `json:"cancelled"`
	NewInWindow      int     `json:"new_in_window"`
	MRR              float64 `json:"mrr"`
	ARR              float64 `json:"arr"`
	AvgRevenuePerSub float64 `json:"avg_revenue_per_subscription"`
	ChurnRate        float64 `json:"churn_rate"`
}

// AggregateSubscriptions counts subscriptions by status and sums active recurring revenue
func AggregateSubscriptions(subs []entity.Subscription, window entity.TimeWindow) SubscriptionMetrics {
	m := SubscriptionMetrics{Total: len(subs)}
	mrr := decimal.Zero
	for i := range subs {
		s := &subs[i]
		switch s.Status {
		case enum.SubscriptionStatusActive:
			m.Active++
			mrr = mrr.Add(s.RecurringAmount)
		case enum.SubscriptionStatusPaused:
			m.Paused++
		case enum.SubscriptionStatusCancelled:
			m.Cancelled++
		}
		if window.Contains(s.CreatedAt) {
			m.NewInWindow++
		}
	}

	m.MRR = money(mrr)
	m.ARR = money(mrr.Mul(decimal.NewFromInt(12)))
	m.AvgRevenuePerSub = money(ratio(mrr, decimal.NewFromInt(int64(m.Active))))
	m.ChurnRate = percentInt(m.Cancelled, m.Total)
	return m
}

// MarketingMetrics are campaign performance reducers
type MarketingMetrics struct {
	Campaigns          int     `json:"campaigns"`
	Spend              float64 `json:"spend"`
	AttributedRevenue  float64 `json:"attributed_revenue"`
	Impressions        int64   `json:"impressions"`
	Clicks             int64   `json:"clicks"`
	Conversions        int64   `json:"conversions"`
	ROI                float64 `json:"roi"`
	ClickThroughRate   float64 `json:"click_through_rate"`
	ConversionRate     float64 `json:"conversion_rate"`
	CostPerAcquisition float64 `json:"cost_per_acquisition"`
}

// AggregateMarketing reduces campaigns started in the window
func AggregateMarketing(campaigns []entity.Campaign) MarketingMetrics {
	var spend, revenue decimal.Decimal
	var impressions, clicks, conversions int64
	for i := range campaigns {
		c := &campaigns[i]
		spend = spend.Add(c.Spend)
		revenue = revenue.Add(c.Revenue)
		impressions += c.Impressions
		clicks += c.Clicks
		conversions += c.Conversions
	}

	return MarketingMetrics{
		Campaigns:          len(campaigns),
		Spend:              money(spend),
		AttributedRevenue:  money(revenue),
		Impressions:        impressions,
		Clicks:             clicks,
		Conversions:        conversions,
		ROI:                percent(revenue.Sub(spend), spend),
		ClickThroughRate:   percent(decimal.NewFromInt(clicks), decimal.NewFromInt(impressions)),
		ConversionRate:     percent(decimal.NewFromInt(conversions), decimal.NewFromInt(clicks)),
		CostPerAcquisition: money(ratio(spend, decimal.NewFromInt(conversions))),
	}
}
