package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/bizmetrics-api/internal/application/analytics"
	"github.com/sangkips/bizmetrics-api/internal/domain/entity"
	"github.com/sangkips/bizmetrics-api/internal/infrastructure/cache"
	"github.com/sangkips/bizmetrics-api/internal/infrastructure/repository/memory"
	"github.com/sangkips/bizmetrics-api/pkg/apperror"
	"github.com/sangkips/bizmetrics-api/pkg/logger"
	"github.com/shopspring/decimal"
)

var (
	testTenant = uuid.MustParse("aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
	testNow    = time.Date(2026, 3, 1, 9, 30, 42, 0, time.UTC)
)

func newTestDashboard(t *testing.T) (*DashboardService, *memory.Store, *cache.MemoryReportCache) {
	t.Helper()

	engine, err := analytics.NewEngine(analytics.DefaultConfiguration())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}

	store := memory.New()
	store.AddSales(
		entity.Sale{ID: uuid.New(), InvoiceDate: testNow.Add(-2 * time.Hour), TotalAmount: decimal.NewFromInt(250), AmountCash: decimal.NewFromInt(250)},
		entity.Sale{ID: uuid.New(), InvoiceDate: testNow.AddDate(0, 0, -3), TotalAmount: decimal.NewFromInt(150), AmountCredit: decimal.NewFromInt(150)},
	)
	store.AddStock(entity.ProductVariant{ID: uuid.New(), CurrentQuantity: decimal.NewFromInt(4), UnitCost: decimal.NewFromInt(10)})

	reportCache := cache.NewMemoryReportCache()
	svc := NewDashboardService(engine, store, reportCache, DashboardOptions{
		FetchTimeout:     time.Second,
		ClockGranularity: time.Minute,
		CacheTTL:         time.Minute,
		Now:              func() time.Time { return testNow },
	}, logger.Nop())
	return svc, store, reportCache
}

func TestGetKPIReportUsesTruncatedClock(t *testing.T) {
	svc, _, _ := newTestDashboard(t)

	report, err := svc.GetKPIReport(context.Background(), testTenant, analytics.PeriodSpecifier{Days: 7})
	if err != nil {
		t.Fatalf("GetKPIReport: %v", err)
	}
	want := testNow.Truncate(time.Minute)
	if !report.Windows.AsOf.Equal(want) || !report.Windows.Current.End.Equal(want) {
		t.Fatalf("as_of = %v, want %v", report.Windows.AsOf, want)
	}
	if report.Financial.Current.Revenue != 400 || report.Financial.Current.CreditSales != 150 {
		t.Fatalf("financial = %+v", report.Financial.Current)
	}
}

func TestGetKPIReportCachesByDataVersion(t *testing.T) {
	svc, store, reportCache := newTestDashboard(t)
	ctx := context.Background()
	spec := analytics.PeriodSpecifier{Days: 30}

	if _, err := svc.GetKPIReport(ctx, testTenant, spec); err != nil {
		t.Fatal(err)
	}
	fetches := store.Fetches(memory.KindSales)

	cached, err := svc.GetKPIReport(ctx, testTenant, spec)
	if err != nil {
		t.Fatal(err)
	}
	if store.Fetches(memory.KindSales) != fetches {
		t.Fatal("second request should be served from cache")
	}
	if cached.Financial.Current.Revenue != 400 || reportCache.Len() != 1 {
		t.Fatalf("cached report = %+v (entries %d)", cached.Financial, reportCache.Len())
	}

	store.AddSales(entity.Sale{ID: uuid.New(), InvoiceDate: testNow.Add(-time.Hour), TotalAmount: decimal.NewFromInt(100)})
	fresh, err := svc.GetKPIReport(ctx, testTenant, spec)
	if err != nil {
		t.Fatal(err)
	}
	if fresh.Financial.Current.Revenue != 500 {
		t.Fatalf("new data should invalidate the cache, revenue = %v", fresh.Financial.Current.Revenue)
	}

	other, err := svc.GetKPIReport(ctx, uuid.New(), spec)
	if err != nil {
		t.Fatal(err)
	}
	if other == fresh || reportCache.Len() != 3 {
		t.Fatalf("tenants must not share cache entries (entries %d)", reportCache.Len())
	}
}

func TestGetKPIReportDoesNotCacheDegradedReports(t *testing.T) {
	svc, store, reportCache := newTestDashboard(t)
	store.Fail(memory.KindCampaigns, errors.New("relation \"campaigns\" does not exist"))

	report, err := svc.GetKPIReport(context.Background(), testTenant, analytics.PeriodSpecifier{Days: 30})
	if err != nil {
		t.Fatal(err)
	}
	if !report.Degraded() || report.Marketing != nil {
		t.Fatalf("marketing should be unavailable: %v", report.SectionsUnavailable)
	}
	if reportCache.Len() != 0 {
		t.Fatal("degraded reports must not be cached")
	}
}

func TestGetKPIReportRejectsInvalidWindow(t *testing.T) {
	svc, store, _ := newTestDashboard(t)
	start := testNow
	end := testNow.AddDate(0, 0, -1)

	_, err := svc.GetKPIReport(context.Background(), testTenant, analytics.PeriodSpecifier{Start: &start, End: &end})
	if !apperror.IsKind(err, apperror.KindInvalidWindow) {
		t.Fatalf("expected invalid window, got %v", err)
	}
	if store.Fetches(memory.KindSales) != 0 {
		t.Fatal("invalid windows must fail before any fetch")
	}
}

func TestGetKPIReportHonoursCancelledContext(t *testing.T) {
	svc, _, reportCache := newTestDashboard(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := svc.GetKPIReport(ctx, testTenant, analytics.PeriodSpecifier{Days: 30})
	if err != nil {
		t.Fatalf("fetch failures degrade the report instead of failing it: %v", err)
	}
	if len(report.SourcesUnavailable) == 0 || reportCache.Len() != 0 {
		t.Fatalf("cancelled fetches should mark every source unavailable: %v", report.SourcesUnavailable)
	}
}

func TestConfiguration(t *testing.T) {
	svc, _, _ := newTestDashboard(t)
	cfg := svc.Configuration()
	if cfg.LowStockThreshold != analytics.DefaultLowStockThreshold || len(cfg.SegmentLadder) != 6 {
		t.Fatalf("configuration = %+v", cfg)
	}
}
