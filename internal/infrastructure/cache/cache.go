package cache

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/bizmetrics-api/internal/application/analytics"
	"golang.org/x/crypto/blake2b"
)

// ReportCache memoizes computed reports by key
type ReportCache interface {
	Get(ctx context.Context, key string) (*analytics.KPIReport, bool, error)
	Set(ctx context.Context, key string, value *analytics.KPIReport, ttl time.Duration) error
}

type NoopReportCache struct{}

func (NoopReportCache) Get(_ context.Context, _ string) (*analytics.KPIReport, bool, error) {
	return nil, false, nil
}

func (NoopReportCache) Set(_ context.Context, _ string, _ *analytics.KPIReport, _ time.Duration) error {
	return nil
}

// MemoryReportCache is the process-local default cache for single-node setups.
// Values are stored as JSON so callers never share a report pointer.
type MemoryReportCache struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// memorySweepSize is the entry count at which Set purges expired entries
const memorySweepSize = 1024

type memoryEntry struct {
	payload   []byte
	expiresAt time.Time
}

func NewMemoryReportCache() *MemoryReportCache {
	return &MemoryReportCache{entries: make(map[string]memoryEntry), now: time.Now}
}

func (c *MemoryReportCache) Get(_ context.Context, key string) (*analytics.KPIReport, bool, error) {
	c.mu.Lock()
	entry, ok := c.entries[key]
	if ok && !entry.expiresAt.IsZero() && c.now().After(entry.expiresAt) {
		delete(c.entries, key)
		ok = false
	}
	c.mu.Unlock()
	if !ok {
		return nil, false, nil
	}

	var report analytics.KPIReport
	if err := json.Unmarshal(entry.payload, &report); err != nil {
		return nil, false, err
	}
	return &report, true, nil
}

func (c *MemoryReportCache) Set(_ context.Context, key string, value *analytics.KPIReport, ttl time.Duration) error {
	if value == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}

	entry := memoryEntry{payload: payload}
	if ttl > 0 {
		entry.expiresAt = c.now().Add(ttl)
	}
	c.mu.Lock()
	if len(c.entries) >= memorySweepSize {
		c.sweepLocked()
	}
	c.entries[key] = entry
	c.mu.Unlock()
	return nil
}

// sweepLocked drops expired entries; c.mu must be held
func (c *MemoryReportCache) sweepLocked() {
	now := c.now()
	for k, e := range c.entries {
		if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
			delete(c.entries, k)
		}
	}
}

// Len returns the number of stored entries
func (c *MemoryReportCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// keyInput is hashed into the cache key; field order is fixed by the struct
type keyInput struct {
	Tenant        string                    `json:"tenant"`
	Windows       analytics.ResolvedWindows `json:"windows"`
	Configuration analytics.Configuration   `json:"configuration"`
	DataVersion   string                    `json:"data_version"`
	Schema        string                    `json:"schema"`
}

// ReportKey derives a cache key from everything a report depends on
func ReportKey(tenantID uuid.UUID, windows analytics.ResolvedWindows, cfg analytics.Configuration, dataVersion string) (string, error) {
	payload, err := json.Marshal(keyInput{
		Tenant:        tenantID.String(),
		Windows:       windows,
		Configuration: cfg,
		DataVersion:   dataVersion,
		Schema:        analytics.SchemaVersion,
	})
	if err != nil {
		return "", err
	}
	sum := blake2b.Sum256(payload)
	return "kpi:" + tenantID.String() + ":" + hex.EncodeToString(sum[:]), nil
}
