package analytics

const (
	DefaultLowStockThreshold    = 10
	DefaultForecastWindowMonths = 6
	DefaultAnomalyZThreshold    = 2.0
	DefaultTopN                 = 5
)

// Configuration holds the tunable inputs of a KPI report
type Configuration struct {
	LowStockThreshold     float64 `json:"low_stock_threshold"`
	SegmentLadder         []Tier  `json:"segment_ladder"`
	AgingBuckets          []Tier  `json:"aging_buckets"`
	InventoryStatusLadder []Tier  `json:"inventory_status_ladder"`
	ForecastWindowMonths  int     `json:"forecast_window_months"`
	AnomalyZThreshold     float64 `json:"anomaly_z_threshold"`
	TopN                  int     `json:"top_n"`
}

// DefaultSegmentLadder returns the customer value ladder (minimum total spend per tier)
func DefaultSegmentLadder() []Tier {
	return []Tier{
		{Label: "VIP", Threshold: 50000},
		{Label: "Gold", Threshold: 25000},
		{Label: "Silver", Threshold: 10000},
		{Label: "Bronze", Threshold: 5000},
		{Label: "Basic", Threshold: 1000},
		{Label: "New", Threshold: 0},
	}
}

// DefaultAgingBuckets returns the receivable/payable age buckets (maximum age in days)
func DefaultAgingBuckets() []Tier {
	return []Tier{
		{Label: "0-30", Threshold: 30},
		{Label: "31-60", Threshold: 60},
		{Label: "61-90", Threshold: 90},
		{Label: "90+", Threshold: 0},
	}
}

// DefaultInventoryStatusLadder returns the days-of-supply ladder (minimum days per status)
func DefaultInventoryStatusLadder() []Tier {
	return []Tier{
		{Label: "Overstocked", Threshold: 90},
		{Label: "Healthy", Threshold: 30},
		{Label: "Low", Threshold: 7},
		{Label: "Critical", Threshold: 0},
	}
}

// DefaultConfiguration returns the stock configuration
func DefaultConfiguration() Configuration {
	return Configuration{
		LowStockThreshold:     DefaultLowStockThreshold,
		SegmentLadder:         DefaultSegmentLadder(),
		AgingBuckets:          DefaultAgingBuckets(),
		InventoryStatusLadder: DefaultInventoryStatusLadder(),
		ForecastWindowMonths:  DefaultForecastWindowMonths,
		AnomalyZThreshold:     DefaultAnomalyZThreshold,
		TopN:                  DefaultTopN,
	}
}

// normalize fills scalar settings that are unset or out of range
func (c *Configuration) normalize() {
	if c.LowStockThreshold < 0 {
		c.LowStockThreshold = 0
	}
	if c.ForecastWindowMonths < 1 {
		c.ForecastWindowMonths = DefaultForecastWindowMonths
	}
	if c.AnomalyZThreshold <= 0 {
		c.AnomalyZThreshold = DefaultAnomalyZThreshold
	}
	if c.TopN < 1 {
		c.TopN = DefaultTopN
	}
}
