package cache

import (
	"context"

	"go.uber.org/zap"
)

const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
	DriverNone   = "none"
)

// Options configures New. An empty driver means memory.
type Options struct {
	Driver        string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// New builds the report cache for a driver. An unreachable Redis falls back
// to the in-memory cache so a single node still avoids recomputation.
func New(ctx context.Context, opts Options, log *zap.Logger) ReportCache {
	switch opts.Driver {
	case DriverNone:
		return NoopReportCache{}
	case DriverRedis:
		rc := NewRedisReportCache(opts.RedisAddr, opts.RedisPassword, opts.RedisDB)
		if err := rc.Ping(ctx); err != nil {
			log.Warn("redis unavailable, using in-memory report cache", zap.String("addr", opts.RedisAddr), zap.Error(err))
			_ = rc.Close()
			return NewMemoryReportCache()
		}
		return rc
	case DriverMemory, "":
		return NewMemoryReportCache()
	default:
		log.Warn("unknown report cache driver, using in-memory cache", zap.String("driver", opts.Driver))
		return NewMemoryReportCache()
	}
}

// DriverOf names the driver behind a cache built by New
func DriverOf(c ReportCache) string {
	switch c.(type) {
	case *RedisReportCache:
		return DriverRedis
	case *MemoryReportCache:
		return DriverMemory
	default:
		return DriverNone
	}
}
