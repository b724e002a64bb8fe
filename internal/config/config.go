package config

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/sangkips/bizmetrics-api/internal/application/analytics"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Redis     RedisConfig
	Cache     CacheConfig
	Metrics   MetricsConfig
}

type AppConfig struct {
	Name  string
	Env   string
	Port  string
	Debug bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	Timezone string
	Migrate  bool
}

type JWTConfig struct {
	Secret string
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// CacheConfig selects the report cache: memory, redis or none
type CacheConfig struct {
	Driver string
	TTL    time.Duration
}

// MetricsConfig holds the engine settings. Ladders are "label:threshold" lists
// separated by commas; an open-ended last aging bucket may omit its threshold.
type MetricsConfig struct {
	LowStockThreshold     float64
	SegmentLadder         string
	AgingBuckets          string
	InventoryStatusLadder string
	ForecastWindowMonths  int
	AnomalyZThreshold     float64
	TopN                  int
	FetchTimeout          time.Duration
	ClockGranularity      time.Duration
}

func Load() *Config {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables: %v", err)
	}

	// Set defaults
	viper.SetDefault("APP_NAME", "bizmetrics-api")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("APP_DEBUG", true)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_NAME", "bizmetrics")
	viper.SetDefault("DB_USER", "postgres")
	viper.SetDefault("DB_PASSWORD", "")
	viper.SetDefault("DB_SSL_MODE", "disable")
	viper.SetDefault("DB_TIMEZONE", "UTC")
	viper.SetDefault("DB_AUTO_MIGRATE", true)
	viper.SetDefault("JWT_SECRET", "change-this-secret-in-production")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_HEADERS", []string{})
	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_DURATION", 60)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("CACHE_DRIVER", "memory")
	viper.SetDefault("CACHE_TTL_SECONDS", 300)
	viper.SetDefault("METRICS_LOW_STOCK_THRESHOLD", analytics.DefaultLowStockThreshold)
	viper.SetDefault("METRICS_SEGMENT_LADDER", FormatLadder(analytics.DefaultSegmentLadder(), false))
	viper.SetDefault("METRICS_AGING_BUCKETS", FormatLadder(analytics.DefaultAgingBuckets(), true))
	viper.SetDefault("METRICS_INVENTORY_STATUS_LADDER", FormatLadder(analytics.DefaultInventoryStatusLadder(), false))
	viper.SetDefault("METRICS_FORECAST_WINDOW_MONTHS", analytics.DefaultForecastWindowMonths)
	viper.SetDefault("METRICS_ANOMALY_Z_THRESHOLD", analytics.DefaultAnomalyZThreshold)
	viper.SetDefault("METRICS_TOP_N", analytics.DefaultTopN)
	viper.SetDefault("METRICS_FETCH_TIMEOUT_SECONDS", 10)
	viper.SetDefault("METRICS_CLOCK_GRANULARITY_SECONDS", 60)

	return &Config{
		App: AppConfig{
			Name:  viper.GetString("APP_NAME"),
			Env:   viper.GetString("APP_ENV"),
			Port:  viper.GetString("APP_PORT"),
			Debug: viper.GetBool("APP_DEBUG"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			SSLMode:  viper.GetString("DB_SSL_MODE"),
			Timezone: viper.GetString("DB_TIMEZONE"),
			Migrate:  viper.GetBool("DB_AUTO_MIGRATE"),
		},
		JWT: JWTConfig{
			Secret: viper.GetString("JWT_SECRET"),
		},
		CORS: CORSConfig{
			AllowedOrigins: viper.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: viper.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: viper.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: viper.GetInt("RATE_LIMIT_DURATION"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Cache: CacheConfig{
			Driver: strings.ToLower(strings.TrimSpace(viper.GetString("CACHE_DRIVER"))),
			TTL:    time.Duration(viper.GetInt("CACHE_TTL_SECONDS")) * time.Second,
		},
		Metrics: MetricsConfig{
			LowStockThreshold:     viper.GetFloat64("METRICS_LOW_STOCK_THRESHOLD"),
			SegmentLadder:         viper.GetString("METRICS_SEGMENT_LADDER"),
			AgingBuckets:          viper.GetString("METRICS_AGING_BUCKETS"),
			InventoryStatusLadder: viper.GetString("METRICS_INVENTORY_STATUS_LADDER"),
			ForecastWindowMonths:  viper.GetInt("METRICS_FORECAST_WINDOW_MONTHS"),
			AnomalyZThreshold:     viper.GetFloat64("METRICS_ANOMALY_Z_THRESHOLD"),
			TopN:                  viper.GetInt("METRICS_TOP_N"),
			FetchTimeout:          time.Duration(viper.GetInt("METRICS_FETCH_TIMEOUT_SECONDS")) * time.Second,
			ClockGranularity:      time.Duration(viper.GetInt("METRICS_CLOCK_GRANULARITY_SECONDS")) * time.Second,
		},
	}
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}

// RequestsPerSecond converts the requests-per-window setting into a steady rate
func (c *RateLimitConfig) RequestsPerSecond() float64 {
	if c.Duration <= 0 {
		return float64(c.Requests)
	}
	return float64(c.Requests) / float64(c.Duration)
}

// Analytics parses the ladders into an engine configuration.
// Ordering is validated later by analytics.NewEngine.
func (c *MetricsConfig) Analytics() (analytics.Configuration, error) {
	segments, err := ParseLadder(c.SegmentLadder)
	if err != nil {
		return analytics.Configuration{}, fmt.Errorf("METRICS_SEGMENT_LADDER: %w", err)
	}
	aging, err := ParseLadder(c.AgingBuckets)
	if err != nil {
		return analytics.Configuration{}, fmt.Errorf("METRICS_AGING_BUCKETS: %w", err)
	}
	status, err := ParseLadder(c.InventoryStatusLadder)
	if err != nil {
		return analytics.Configuration{}, fmt.Errorf("METRICS_INVENTORY_STATUS_LADDER: %w", err)
	}

	return analytics.Configuration{
		LowStockThreshold:     c.LowStockThreshold,
		SegmentLadder:         segments,
		AgingBuckets:          aging,
		InventoryStatusLadder: status,
		ForecastWindowMonths:  c.ForecastWindowMonths,
		AnomalyZThreshold:     c.AnomalyZThreshold,
		TopN:                  c.TopN,
	}, nil
}

// ParseLadder reads "VIP:50000,Gold:25000,New:0". A tier without a threshold gets 0.
func ParseLadder(s string) ([]analytics.Tier, error) {
	var tiers []analytics.Tier
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		label, raw, found := strings.Cut(part, ":")
		label = strings.TrimSpace(label)
		if label == "" {
			return nil, fmt.Errorf("tier %q has no label", part)
		}

		threshold := 0.0
		if found && strings.TrimSpace(raw) != "" {
			v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if err != nil {
				return nil, fmt.Errorf("tier %q: invalid threshold: %w", label, err)
			}
			threshold = v
		}
		tiers = append(tiers, analytics.Tier{Label: label, Threshold: threshold})
	}

	if len(tiers) == 0 {
		return nil, fmt.Errorf("ladder is empty")
	}
	return tiers, nil
}

// FormatLadder is the inverse of ParseLadder. openEnded drops the last threshold.
func FormatLadder(tiers []analytics.Tier, openEnded bool) string {
	parts := make([]string, len(tiers))
	for i, t := range tiers {
		if openEnded && i == len(tiers)-1 {
			parts[i] = t.Label
			continue
		}
		parts[i] = t.Label + ":" + strconv.FormatFloat(t.Threshold, 'f', -1, 64)
	}
	return strings.Join(parts, ",")
}
