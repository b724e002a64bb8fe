package analytics

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/sangkips/bizmetrics-api/pkg/apperror"
)

func TestSegmentLadderClassify(t *testing.T) {
	ladder, err := NewDescendingLadder("segment_ladder", DefaultSegmentLadder())
	if err != nil {
		t.Fatalf("default ladder rejected: %v", err)
	}

	tests := []struct {
		spent float64
		want  string
	}{
		{60000, "VIP"},
		{50000, "VIP"},
		{49999.99, "Gold"},
		{25000, "Gold"},
		{10000, "Silver"},
		{5000, "Bronze"},
		{1000, "Basic"},
		{999.99, "New"},
		{500, "New"},
		{0, "New"},
		{-10, "New"},
	}
	for _, tt := range tests {
		if got := ladder.Classify(tt.spent); got != tt.want {
			t.Errorf("Classify(%v) = %q, want %q", tt.spent, got, tt.want)
		}
	}
}

func TestAgingLadderClassify(t *testing.T) {
	ladder, err := NewAscendingLadder("aging_buckets", DefaultAgingBuckets())
	if err != nil {
		t.Fatalf("default buckets rejected: %v", err)
	}

	tests := []struct {
		age  float64
		want string
	}{
		{0, "0-30"},
		{30, "0-30"},
		{31, "31-60"},
		{60, "31-60"},
		{61, "61-90"},
		{90, "61-90"},
		{91, "90+"},
		{3650, "90+"},
	}
	for _, tt := range tests {
		if got := ladder.Classify(tt.age); got != tt.want {
			t.Errorf("Classify(%v) = %q, want %q", tt.age, got, tt.want)
		}
	}
}

func TestLadderValidation(t *testing.T) {
	tests := []struct {
		name  string
		order LadderOrder
		tiers []Tier
	}{
		{name: "empty", order: Descending},
		{name: "not descending", order: Descending, tiers: []Tier{{"A", 10}, {"B", 20}}},
		{name: "equal minimums", order: Descending, tiers: []Tier{{"A", 10}, {"B", 10}}},
		{name: "not ascending", order: Ascending, tiers: []Tier{{"A", 60}, {"B", 30}, {"C", 0}}},
		{name: "duplicate label", order: Descending, tiers: []Tier{{"A", 10}, {"A", 0}}},
		{name: "blank label", order: Descending, tiers: []Tier{{"", 10}}},
		{name: "nan threshold", order: Descending, tiers: []Tier{{"A", math.NaN()}}},
		{name: "infinite threshold", order: Ascending, tiers: []Tier{{"A", math.Inf(1)}, {"B", 0}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newLadder("test_ladder", tt.order, tt.tiers)
			if err == nil {
				t.Fatal("expected ladder to be rejected")
			}
			if !apperror.IsKind(err, apperror.KindMisconfiguredLadder) {
				t.Fatalf("expected misconfigured ladder error, got %v", err)
			}
			if !strings.Contains(err.Error(), "test_ladder") {
				t.Fatalf("error should name the ladder: %v", err)
			}
		})
	}
}

func TestAscendingLadderIgnoresOpenEndedThreshold(t *testing.T) {
	// the last bucket's threshold is never compared
	if _, err := NewAscendingLadder("aging", []Tier{{"0-30", 30}, {"30+", -5}}); err != nil {
		t.Fatalf("open-ended bucket should accept any threshold: %v", err)
	}
}

func TestLadderIsolatedFromCaller(t *testing.T) {
	tiers := DefaultSegmentLadder()
	ladder, err := NewDescendingLadder("segment_ladder", tiers)
	if err != nil {
		t.Fatal(err)
	}
	tiers[0].Label = "mutated"
	if ladder.Labels()[0] != "VIP" {
		t.Fatal("ladder must copy its tiers")
	}

	payload, err := json.Marshal(ladder)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(payload), `"order":"descending"`) {
		t.Fatalf("unexpected ladder json %s", payload)
	}
}
