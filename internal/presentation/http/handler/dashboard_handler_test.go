package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/bizmetrics-api/internal/application/analytics"
	"github.com/sangkips/bizmetrics-api/internal/application/service"
	"github.com/sangkips/bizmetrics-api/internal/domain/entity"
	"github.com/sangkips/bizmetrics-api/internal/infrastructure/cache"
	"github.com/sangkips/bizmetrics-api/internal/infrastructure/repository/memory"
	"github.com/sangkips/bizmetrics-api/pkg/logger"
	"github.com/shopspring/decimal"
)

var (
	testTenant = uuid.MustParse("bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb")
	testUser   = uuid.MustParse("cccccccc-cccc-cccc-cccc-cccccccccccc")
	testNow    = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Kind    string          `json:"kind"`
	Data    json.RawMessage `json:"data"`
}

func newTestRouter(t *testing.T, store *memory.Store, authenticated bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine, err := analytics.NewEngine(analytics.DefaultConfiguration())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	svc := service.NewDashboardService(engine, store, cache.NoopReportCache{}, service.DashboardOptions{
		Now: func() time.Time { return testNow },
	}, logger.Nop())
	h := NewDashboardHandler(svc)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if authenticated {
			c.Set("user_id", testUser)
			c.Set("tenant_id", testTenant)
		}
		c.Next()
	})
	router.GET("/dashboard/kpis", h.GetKPIs)
	router.GET("/dashboard/config", h.GetConfig)
	return router
}

func seededStore() *memory.Store {
	store := memory.New()
	store.AddSales(
		entity.Sale{ID: uuid.New(), InvoiceDate: testNow.AddDate(0, 0, -1), TotalAmount: decimal.NewFromInt(100), AmountCash: decimal.NewFromInt(100)},
		entity.Sale{ID: uuid.New(), InvoiceDate: testNow.AddDate(0, 0, -5), TotalAmount: decimal.NewFromInt(200), AmountCard: decimal.NewFromInt(200)},
		entity.Sale{ID: uuid.New(), InvoiceDate: testNow.AddDate(0, 0, -10), TotalAmount: decimal.NewFromInt(300), AmountCredit: decimal.NewFromInt(300)},
	)
	return store
}

func get(router *gin.Engine, target string) (*httptest.ResponseRecorder, envelope) {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var body envelope
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestGetKPIs(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		wantStatus  int
		wantRevenue float64
		wantStart   time.Time
	}{
		{
			name:        "default thirty days",
			target:      "/dashboard/kpis",
			wantStatus:  http.StatusOK,
			wantRevenue: 600,
			wantStart:   testNow.AddDate(0, 0, -30),
		},
		{
			name:        "trailing days",
			target:      "/dashboard/kpis?days=7",
			wantStatus:  http.StatusOK,
			wantRevenue: 300,
			wantStart:   testNow.AddDate(0, 0, -7),
		},
		{
			name:        "inclusive date range",
			target:      "/dashboard/kpis?start_date=2026-02-20&end_date=2026-02-28",
			wantStatus:  http.StatusOK,
			wantRevenue: 300,
			wantStart:   time.Date(2026, 2, 20, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t, seededStore(), true)
			w, body := get(router, tt.target)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.wantStatus, w.Body.String())
			}

			var report analytics.KPIReport
			if err := json.Unmarshal(body.Data, &report); err != nil {
				t.Fatalf("decode report: %v", err)
			}
			if report.SchemaVersion != analytics.SchemaVersion {
				t.Errorf("schema_version = %q", report.SchemaVersion)
			}
			if !report.Windows.Current.Start.Equal(tt.wantStart) {
				t.Errorf("current.start = %v, want %v", report.Windows.Current.Start, tt.wantStart)
			}
			if report.Financial == nil || report.Financial.Current.Revenue != tt.wantRevenue {
				t.Errorf("financial = %+v, want revenue %v", report.Financial, tt.wantRevenue)
			}
		})
	}
}

func TestGetKPIsRejectsBadPeriods(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantKind   string
	}{
		{name: "non-numeric days", target: "/dashboard/kpis?days=abc", wantStatus: http.StatusBadRequest},
		{name: "malformed date", target: "/dashboard/kpis?start_date=01/02/2026&end_date=2026-02-10", wantStatus: http.StatusBadRequest},
		{name: "days above the maximum", target: "/dashboard/kpis?days=200000", wantStatus: http.StatusBadRequest},
		{name: "zero days", target: "/dashboard/kpis?days=0", wantStatus: http.StatusBadRequest, wantKind: "invalid_window"},
		{name: "negative days", target: "/dashboard/kpis?days=-3", wantStatus: http.StatusBadRequest, wantKind: "invalid_window"},
		{name: "end before start", target: "/dashboard/kpis?start_date=2026-02-10&end_date=2026-02-01", wantStatus: http.StatusBadRequest, wantKind: "invalid_window"},
		{name: "bad as_of", target: "/dashboard/kpis?days=7&as_of=yesterday", wantStatus: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := seededStore()
			router := newTestRouter(t, store, true)
			w, body := get(router, tt.target)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.wantStatus, w.Body.String())
			}
			if body.Success {
				t.Error("success should be false")
			}
			if body.Kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", body.Kind, tt.wantKind)
			}
			if n := store.Fetches(memory.KindSales); n != 0 {
				t.Errorf("sales fetched %d times for a rejected period", n)
			}
		})
	}
}

func TestGetKPIsDegradesOnSourceFailure(t *testing.T) {
	store := seededStore()
	store.Fail(memory.KindStock, errors.New("connection reset"))
	router := newTestRouter(t, store, true)

	w, body := get(router, "/dashboard/kpis?days=30")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var report analytics.KPIReport
	if err := json.Unmarshal(body.Data, &report); err != nil {
		t.Fatal(err)
	}
	if report.Inventory != nil {
		t.Error("inventory should be null when stock is unavailable")
	}
	if report.Financial == nil {
		t.Error("financial should survive a stock failure")
	}
	found := false
	for _, s := range report.SectionsUnavailable {
		if s == analytics.SectionInventory {
			found = true
		}
	}
	if !found {
		t.Errorf("sections_unavailable = %v, want %q listed", report.SectionsUnavailable, analytics.SectionInventory)
	}
}

func TestGetKPIsRequiresUser(t *testing.T) {
	router := newTestRouter(t, seededStore(), false)
	w, _ := get(router, "/dashboard/kpis")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestGetConfig(t *testing.T) {
	router := newTestRouter(t, memory.New(), true)
	w, body := get(router, "/dashboard/config")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var cfg analytics.Configuration
	if err := json.Unmarshal(body.Data, &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.LowStockThreshold != analytics.DefaultLowStockThreshold {
		t.Errorf("low_stock_threshold = %v", cfg.LowStockThreshold)
	}
	if len(cfg.SegmentLadder) != 6 || cfg.SegmentLadder[0].Label != "VIP" {
		t.Errorf("segment_ladder = %+v", cfg.SegmentLadder)
	}
}
