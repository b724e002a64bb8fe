package analytics

import (
	"context"
	"sort"

	"github.com/sangkips/bizmetrics-api/internal/domain/entity"
	"github.com/sangkips/bizmetrics-api/internal/domain/repository"
)

// Engine computes KPI reports under one validated configuration.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	cfg             Configuration
	segments        *Ladder
	aging           *Ladder
	inventoryStatus *Ladder
}

// NewEngine validates the configuration's ladders and fills unset scalars
func NewEngine(cfg Configuration) (*Engine, error) {
	cfg.normalize()

	segments, err := NewDescendingLadder("segment_ladder", cfg.SegmentLadder)
	if err != nil {
		return nil, err
	}
	aging, err := NewAscendingLadder("aging_buckets", cfg.AgingBuckets)
	if err != nil {
		return nil, err
	}
	status, err := NewDescendingLadder("inventory_status_ladder", cfg.InventoryStatusLadder)
	if err != nil {
		return nil, err
	}

	cfg.SegmentLadder = segments.Tiers()
	cfg.AgingBuckets = aging.Tiers()
	cfg.InventoryStatusLadder = status.Tiers()

	return &Engine{
		cfg:             cfg,
		segments:        segments,
		aging:           aging,
		inventoryStatus: status,
	}, nil
}

// Configuration returns the effective configuration
func (e *Engine) Configuration() Configuration {
	cfg := e.cfg
	cfg.SegmentLadder = e.segments.Tiers()
	cfg.AgingBuckets = e.aging.Tiers()
	cfg.InventoryStatusLadder = e.inventoryStatus.Tiers()
	return cfg
}

// HistoryWindow is the sales span fetched for trend and period-delta estimates
func (e *Engine) HistoryWindow(windows ResolvedWindows) entity.TimeWindow {
	return historyWindow(windows.AsOf, e.cfg.ForecastWindowMonths)
}

// Report resolves the period, fetches every record kind and computes the report.
// Only an invalid period is returned as an error; fetch failures degrade sections.
func (e *Engine) Report(ctx context.Context, repo repository.RecordRepository, spec PeriodSpecifier) (*KPIReport, error) {
	windows, err := ResolveWindows(spec)
	if err != nil {
		return nil, err
	}
	rs := Collect(ctx, repo, windows, e.HistoryWindow(windows))
	return e.Compute(windows, rs), nil
}

// Compute assembles a report from already fetched records. A section is nil
// and listed in SectionsUnavailable when any source it reads failed.
func (e *Engine) Compute(windows ResolvedWindows, rs *RecordSet) *KPIReport {
	report := &KPIReport{
		SchemaVersion:       SchemaVersion,
		Windows:             windows,
		SectionsUnavailable: []string{},
		SourcesUnavailable:  []string{},
	}
	for _, s := range rs.FailedSources() {
		report.SourcesUnavailable = append(report.SourcesUnavailable, string(s))
	}

	section := func(name string, sources ...Source) bool {
		if rs.Available(sources...) {
			return true
		}
		report.SectionsUnavailable = append(report.SectionsUnavailable, name)
		return false
	}

	cur := windows.Current

	if section(SectionFinancial, SourceSales, SourcePreviousSales) {
		report.Financial = &FinancialSection{
			Current:  AggregateFinancial(rs.Sales),
			Previous: AggregateFinancial(rs.PreviousSales),
		}
	}
	if section(SectionGrowth, SourceSales, SourcePreviousSales) {
		g := CompareFinancial(AggregateFinancial(rs.Sales), AggregateFinancial(rs.PreviousSales))
		report.Growth = &g
	}
	if section(SectionPeriodDeltas, SourceSalesHistory) {
		d := ComputePeriodDeltas(rs.SalesHistory, windows.AsOf)
		report.PeriodDeltas = &d
	}
	if section(SectionSales, SourceSales) {
		s := AggregateSales(rs.Sales, cur, e.cfg.TopN)
		report.Sales = &s
	}
	if section(SectionPurchases, SourcePurchases) {
		p := AggregatePurchases(rs.Purchases)
		report.Purchases = &p
	}
	if section(SectionExpenses, SourceExpenses) {
		x := AggregateExpenses(rs.Expenses)
		report.Expenses = &x
	}
	if section(SectionProfitability, SourceSales, SourcePurchases, SourceExpenses) {
		p := AggregateProfitability(rs.Sales, rs.Purchases, rs.Expenses)
		report.Profitability = &p
	}
	if section(SectionCustomers, SourceCustomers, SourceSales, SourcePreviousSales) {
		c := AggregateCustomers(rs.Customers, rs.Sales, rs.PreviousSales, cur)
		report.Customers = &c
	}

	// customers with incomplete cached columns are rebuilt from their lifetime sales
	customerSources := []Source{SourceCustomers}
	if len(customersNeedingSales(rs.Customers)) > 0 {
		customerSources = append(customerSources, SourceLifetimeSales)
	}
	lifetimeSales := mergeSales(rs.LifetimeSales)
	if section(SectionSegments, customerSources...) {
		s := SegmentCustomers(e.segments, rs.Customers, lifetimeSales)
		report.Segments = &s
	}
	if section(SectionInventory, SourceStock) {
		i := AggregateInventory(rs.Stock, e.cfg.LowStockThreshold)
		report.Inventory = &i
	}
	if section(SectionManufacturing, SourceBatches, SourcePreviousBatches) {
		c, p := AggregateManufacturing(rs.Batches), AggregateManufacturing(rs.PreviousBatches)
		report.Manufacturing = &ManufacturingSection{
			Current:        c,
			Previous:       p,
			BatchesGrowth:  Growth(float64(c.Batches), float64(p.Batches)),
			ProducedGrowth: Growth(c.TotalProduced, p.TotalProduced),
		}
	}
	if section(SectionSubscriptions, SourceSubscriptions) {
		s := AggregateSubscriptions(rs.Subscriptions, cur)
		report.Subscriptions = &s
	}
	if section(SectionMarketing, SourceCampaigns) {
		m := AggregateMarketing(rs.Campaigns)
		report.Marketing = &m
	}
	if section(SectionReceivablesAging, SourceSales) {
		a := BucketAging(e.aging, ReceivableBalances(rs.Sales), windows.AsOf)
		report.ReceivablesAging = &a
	}
	if section(SectionPayablesAging, SourcePurchases) {
		a := BucketAging(e.aging, PayableBalances(rs.Purchases), windows.AsOf)
		report.PayablesAging = &a
	}
	if section(SectionTrend, SourceSalesHistory) {
		t := EstimateTrend(rs.SalesHistory, windows.AsOf, e.cfg.ForecastWindowMonths, e.cfg.AnomalyZThreshold)
		report.Predictive.Trend = &t
	}
	if section(SectionCLV, customerSources...) {
		c := ProjectCLV(e.segments, rs.Customers, lifetimeSales, e.cfg.TopN)
		report.Predictive.CustomerLifetimeValue = &c
	}
	if section(SectionInventoryOutlook, SourceStock, SourceSales) {
		f := ForecastInventory(e.inventoryStatus, rs.Stock, rs.Sales, cur)
		report.Predictive.Inventory = &f
	}

	sort.Strings(report.SectionsUnavailable)
	return report
}

// ComputeKPIReport is the one-shot entry point: build an engine for cfg and report on spec
func ComputeKPIReport(ctx context.Context, repo repository.RecordRepository, spec PeriodSpecifier, cfg Configuration) (*KPIReport, error) {
	engine, err := NewEngine(cfg)
	if err != nil {
		return nil, err
	}
	return engine.Report(ctx, repo, spec)
}
