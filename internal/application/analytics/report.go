package analytics

// SchemaVersion tags the KPIReport layout
const SchemaVersion = "kpi-report/v1"

// Section names reported in SectionsUnavailable
const (
	SectionFinancial        = "financial"
	SectionGrowth           = "growth"
	SectionPeriodDeltas     = "period_deltas"
	SectionSales            = "sales"
	SectionPurchases        = "purchases"
	SectionExpenses         = "expenses"
	SectionProfitability    = "profitability"
	SectionCustomers        = "customers"
	SectionSegments         = "segments"
	SectionInventory        = "inventory"
	SectionManufacturing    = "manufacturing"
	SectionSubscriptions    = "subscriptions"
	SectionMarketing        = "marketing"
	SectionReceivablesAging = "receivables_aging"
	SectionPayablesAging    = "payables_aging"
	SectionTrend            = "predictive.trend"
	SectionCLV              = "predictive.customer_lifetime_value"
	SectionInventoryOutlook = "predictive.inventory"
)

// PredictiveSection groups the estimators. Each part is nil when its inputs are unavailable.
type PredictiveSection struct {
	Trend                 *TrendEstimate     `json:"trend"`
	CustomerLifetimeValue *CLVProjection     `json:"customer_lifetime_value"`
	Inventory             *InventoryForecast `json:"inventory"`
}

// KPIReport is the assembled, immutable result of one computation
type KPIReport struct {
	SchemaVersion string          `json:"schema_version"`
	Windows       ResolvedWindows `json:"windows"`

	Financial        *FinancialSection     `json:"financial"`
	Growth           *GrowthMetrics        `json:"growth"`
	PeriodDeltas     *PeriodDeltas         `json:"period_deltas"`
	Sales            *SalesMetrics         `json:"sales"`
	Purchases        *PurchaseMetrics      `json:"purchases"`
	Expenses         *ExpenseMetrics       `json:"expenses"`
	Profitability    *ProfitabilityMetrics `json:"profitability"`
	Customers        *CustomerMetrics      `json:"customers"`
	Segments         *SegmentationResult   `json:"segments"`
	Inventory        *InventoryMetrics     `json:"inventory"`
	Manufacturing    *ManufacturingSection `json:"manufacturing"`
	Subscriptions    *SubscriptionMetrics  `json:"subscriptions"`
	Marketing        *MarketingMetrics     `json:"marketing"`
	ReceivablesAging *AgingReport          `json:"receivables_aging"`
	PayablesAging    *AgingReport          `json:"payables_aging"`
	Predictive       PredictiveSection     `json:"predictive"`

	SectionsUnavailable []string `json:"sections_unavailable"`
	SourcesUnavailable  []string `json:"sources_unavailable"`
}

// Degraded reports whether any section could not be computed
func (r *KPIReport) Degraded() bool {
	return len(r.SectionsUnavailable) > 0
}
