package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	infraRepo "github.com/sangkips/bizmetrics-api/internal/infrastructure/repository"
	"github.com/sangkips/bizmetrics-api/pkg/utils"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var testTenant = uuid.MustParse("dddddddd-dddd-dddd-dddd-dddddddddddd")

func init() {
	gin.SetMode(gin.TestMode)
}

func issueToken(t *testing.T, m *utils.JWTManager, tenantID uuid.UUID, permissions ...string) string {
	t.Helper()
	token, err := m.GenerateAccessToken(utils.JWTClaims{
		UserID:      uuid.New(),
		Email:       "owner@example.com",
		Roles:       []string{"owner"},
		Permissions: permissions,
		TenantID:    tenantID,
	}, time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	return token
}

func serve(router *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	m := utils.NewJWTManager("middleware-secret")
	other := utils.NewJWTManager("another-secret")

	var seenTenant uuid.UUID
	var ctxTenant uuid.UUID
	router := gin.New()
	router.GET("/protected", AuthMiddleware(m), RequireTenant(), RequirePermission("view-dashboard"), func(c *gin.Context) {
		seenTenant = GetTenantID(c)
		ctxTenant, _ = infraRepo.GetTenantID(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "missing header", header: "", wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized},
		{name: "foreign signature", header: "Bearer " + issueToken(t, other, testTenant, "view-dashboard"), wantStatus: http.StatusUnauthorized},
		{name: "missing permission", header: "Bearer " + issueToken(t, m, testTenant, "manage-orders"), wantStatus: http.StatusForbidden},
		{name: "missing tenant", header: "Bearer " + issueToken(t, m, uuid.Nil, "view-dashboard"), wantStatus: http.StatusBadRequest},
		{name: "authorized", header: "Bearer " + issueToken(t, m, testTenant, "view-dashboard"), wantStatus: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seenTenant, ctxTenant = uuid.Nil, uuid.Nil
			w := serve(router, tt.header)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantStatus == http.StatusNoContent {
				if seenTenant != testTenant {
					t.Errorf("gin tenant = %v, want %v", seenTenant, testTenant)
				}
				if ctxTenant != testTenant {
					t.Errorf("request context tenant = %v, want %v", ctxTenant, testTenant)
				}
			}
		})
	}
}

func TestTenantRateLimiter(t *testing.T) {
	rl := NewTenantRateLimiter(RateLimiterConfig{
		RequestsPerSecond: 0.001,
		BurstSize:         2,
		CleanupInterval:   time.Hour,
		EntryTTL:          time.Hour,
	})

	tenant := testTenant
	router := gin.New()
	router.GET("/protected", func(c *gin.Context) {
		if h := c.GetHeader("X-Tenant"); h != "" {
			tenant = uuid.MustParse(h)
		}
		c.Set("tenant_id", tenant)
		c.Next()
	}, rl.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		if w := serve(router, ""); w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, w.Code)
		}
	}

	w := serve(router, "")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") != "1" || w.Header().Get("X-RateLimit-Limit") != "2" {
		t.Errorf("headers = %v", w.Header())
	}

	// a different tenant has its own bucket
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("X-Tenant", uuid.NewString())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("other tenant status = %d, want 200", rec.Code)
	}

	if got := rl.Stats()["active_tenants"]; got != 2 {
		t.Errorf("active_tenants = %v, want 2", got)
	}
}

func TestTenantRateLimiterCleanup(t *testing.T) {
	rl := NewTenantRateLimiter(RateLimiterConfig{
		RequestsPerSecond: 1,
		BurstSize:         1,
		CleanupInterval:   time.Hour,
		EntryTTL:          -time.Second,
	})
	rl.getLimiter(testTenant)
	rl.cleanup()
	if got := rl.Stats()["active_tenants"]; got != 0 {
		t.Errorf("active_tenants = %v, want 0", got)
	}
}

func TestLoggerMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	router := gin.New()
	router.Use(LoggerMiddleware(zap.New(core)))
	router.GET("/protected", func(c *gin.Context) {
		c.Set("tenant_id", testTenant)
		c.Status(http.StatusServiceUnavailable)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected?days=7", nil)
	req.Header.Set("X-Request-ID", "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "req-123" {
		t.Errorf("X-Request-ID = %q", got)
	}

	entries := logs.FilterMessage("request").All()
	if len(entries) != 1 {
		t.Fatalf("logged %d request lines, want 1", len(entries))
	}
	entry := entries[0]
	if entry.Level != zapcore.ErrorLevel {
		t.Errorf("level = %v, want error for 5xx", entry.Level)
	}
	fields := entry.ContextMap()
	if fields["request_id"] != "req-123" || fields["path"] != "/protected?days=7" || fields["tenant_id"] != testTenant.String() {
		t.Errorf("fields = %v", fields)
	}
	if fields["status"] != int64(http.StatusServiceUnavailable) {
		t.Errorf("status field = %v", fields["status"])
	}
}
