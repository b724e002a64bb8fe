package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/bizmetrics-api/internal/application/analytics"
	"github.com/sangkips/bizmetrics-api/internal/domain/repository"
	"github.com/sangkips/bizmetrics-api/internal/infrastructure/cache"
	"go.uber.org/zap"
)

// DashboardOptions tunes report computation around the engine
type DashboardOptions struct {
	FetchTimeout     time.Duration
	ClockGranularity time.Duration
	CacheTTL         time.Duration
	Now              func() time.Time
}

// DashboardService computes KPI reports for the current tenant
type DashboardService struct {
	engine  *analytics.Engine
	records repository.RecordRepository
	cache   cache.ReportCache
	opts    DashboardOptions
	logger  *zap.Logger
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	engine *analytics.Engine,
	records repository.RecordRepository,
	reportCache cache.ReportCache,
	opts DashboardOptions,
	logger *zap.Logger,
) *DashboardService {
	if reportCache == nil {
		reportCache = cache.NoopReportCache{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		engine:  engine,
		records: records,
		cache:   reportCache,
		opts:    opts,
		logger:  logger.Named("dashboard"),
	}
}

// Configuration returns the effective engine configuration
func (s *DashboardService) Configuration() analytics.Configuration {
	return s.engine.Configuration()
}

// now is the reference clock, truncated so repeated requests share a cache key
func (s *DashboardService) now() time.Time {
	t := s.opts.Now().UTC()
	if s.opts.ClockGranularity > 0 {
		t = t.Truncate(s.opts.ClockGranularity)
	}
	return t
}

// GetKPIReport resolves the period and returns a cached or freshly computed report.
// ctx must carry the tenant used by the record repository.
func (s *DashboardService) GetKPIReport(ctx context.Context, tenantID uuid.UUID, spec analytics.PeriodSpecifier) (*analytics.KPIReport, error) {
	if spec.AsOf.IsZero() && spec.Start == nil && spec.End == nil {
		spec.AsOf = s.now()
	}

	windows, err := analytics.ResolveWindows(spec)
	if err != nil {
		return nil, err
	}

	if s.opts.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.FetchTimeout)
		defer cancel()
	}

	log := s.logger.With(
		zap.String("tenant_id", tenantID.String()),
		zap.Time("window_start", windows.Current.Start),
		zap.Time("window_end", windows.Current.End),
	)

	key := s.cacheKey(ctx, log, tenantID, windows)
	if key != "" {
		cached, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			log.Warn("report cache read failed", zap.Error(err))
		}
		if ok {
			log.Debug("report served from cache")
			return cached, nil
		}
	}

	start := time.Now()
	rs := analytics.Collect(ctx, s.records, windows, s.engine.HistoryWindow(windows))
	for _, src := range rs.FailedSources() {
		log.Warn("record source unavailable", zap.String("source", string(src)), zap.Error(rs.Failures[src]))
	}

	report := s.engine.Compute(windows, rs)
	log.Info("kpi report computed",
		zap.Duration("elapsed", time.Since(start)),
		zap.Strings("sections_unavailable", report.SectionsUnavailable),
	)

	if key != "" && !report.Degraded() {
		if err := s.cache.Set(ctx, key, report, s.opts.CacheTTL); err != nil {
			log.Warn("report cache write failed", zap.Error(err))
		}
	}
	return report, nil
}

// cacheKey returns "" when the data version cannot be read, which disables caching for the call
func (s *DashboardService) cacheKey(ctx context.Context, log *zap.Logger, tenantID uuid.UUID, windows analytics.ResolvedWindows) string {
	version, err := s.records.DataVersion(ctx)
	if err != nil {
		log.Warn("data version unavailable, skipping cache", zap.Error(err))
		return ""
	}
	key, err := cache.ReportKey(tenantID, windows, s.engine.Configuration(), version)
	if err != nil {
		log.Warn("cache key failed", zap.Error(err))
		return ""
	}
	return key
}
