package config

import (
	"reflect"
	"testing"
	"time"

	"github.com/sangkips/bizmetrics-api/internal/application/analytics"
)

func TestParseLadder(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []analytics.Tier
		wantErr bool
	}{
		{
			name:  "segment ladder",
			input: "VIP:50000, Gold:25000 ,New:0",
			want: []analytics.Tier{
				{Label: "VIP", Threshold: 50000},
				{Label: "Gold", Threshold: 25000},
				{Label: "New", Threshold: 0},
			},
		},
		{
			name:  "open ended last bucket",
			input: "0-30:30,31-60:60,90+",
			want: []analytics.Tier{
				{Label: "0-30", Threshold: 30},
				{Label: "31-60", Threshold: 60},
				{Label: "90+", Threshold: 0},
			},
		},
		{name: "empty", input: " , ", wantErr: true},
		{name: "missing label", input: ":10", wantErr: true},
		{name: "bad threshold", input: "Gold:lots", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLadder(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFormatLadderRoundTrip(t *testing.T) {
	for _, tiers := range [][]analytics.Tier{
		analytics.DefaultSegmentLadder(),
		analytics.DefaultInventoryStatusLadder(),
		analytics.DefaultAgingBuckets(),
	} {
		got, err := ParseLadder(FormatLadder(tiers, false))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if !reflect.DeepEqual(got, tiers) {
			t.Fatalf("round trip mismatch: got %+v, want %+v", got, tiers)
		}
	}

	if s := FormatLadder(analytics.DefaultAgingBuckets(), true); s != "0-30:30,31-60:60,61-90:90,90+" {
		t.Fatalf("unexpected open-ended format %q", s)
	}
}

func TestLoadMetricsDefaults(t *testing.T) {
	cfg := Load()

	engineCfg, err := cfg.Metrics.Analytics()
	if err != nil {
		t.Fatalf("default ladders should parse: %v", err)
	}
	if !reflect.DeepEqual(engineCfg.SegmentLadder, analytics.DefaultSegmentLadder()) {
		t.Fatalf("segment ladder = %+v", engineCfg.SegmentLadder)
	}
	if cfg.Metrics.FetchTimeout != 10*time.Second {
		t.Fatalf("fetch timeout = %v", cfg.Metrics.FetchTimeout)
	}
	if _, err := analytics.NewEngine(engineCfg); err != nil {
		t.Fatalf("default configuration rejected: %v", err)
	}
	if cfg.Cache.Driver != "memory" || cfg.Cache.TTL != 5*time.Minute {
		t.Fatalf("cache = %+v, want in-memory with a 5m ttl", cfg.Cache)
	}
}

func TestMetricsConfigRejectsBadLadder(t *testing.T) {
	m := MetricsConfig{
		SegmentLadder:         "VIP:abc",
		AgingBuckets:          "0-30:30,30+",
		InventoryStatusLadder: "Healthy:30,Critical:0",
	}
	if _, err := m.Analytics(); err == nil {
		t.Fatal("expected parse error for segment ladder")
	}
}

func TestRequestsPerSecond(t *testing.T) {
	rl := RateLimitConfig{Requests: 120, Duration: 60}
	if got := rl.RequestsPerSecond(); got != 2 {
		t.Fatalf("RequestsPerSecond() = %v, want 2", got)
	}
	rl.Duration = 0
	if got := rl.RequestsPerSecond(); got != 120 {
		t.Fatalf("RequestsPerSecond() = %v, want 120", got)
	}
}
