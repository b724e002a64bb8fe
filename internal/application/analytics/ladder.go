package analytics

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/sangkips/bizmetrics-api/pkg/apperror"
)

// Tier is one rung of a threshold ladder
type Tier struct {
	Label     string  `json:"label"`
	Threshold float64 `json:"threshold"`
}

// LadderOrder tells how thresholds are read
type LadderOrder int

const (
	// Descending ladders hold minimums: the first tier with value >= threshold wins
	// and the last tier is the floor for everything below.
	Descending LadderOrder = iota
	// Ascending ladders hold maximums: the first tier with value <= threshold wins
	// and the last tier is open-ended, so its threshold is ignored.
	Ascending
)

func (o LadderOrder) String() string {
	if o == Ascending {
		return "ascending"
	}
	return "descending"
}

// Ladder is a validated, ordered list of tiers.
// Classification is a total function: every value maps to exactly one label.
type Ladder struct {
	name  string
	order LadderOrder
	tiers []Tier
}

// NewDescendingLadder validates that minimums are strictly descending
func NewDescendingLadder(name string, tiers []Tier) (*Ladder, error) {
	return newLadder(name, Descending, tiers)
}

// NewAscendingLadder validates that maximums are strictly ascending (last tier excluded)
func NewAscendingLadder(name string, tiers []Tier) (*Ladder, error) {
	return newLadder(name, Ascending, tiers)
}

func newLadder(name string, order LadderOrder, tiers []Tier) (*Ladder, error) {
	if len(tiers) == 0 {
		return nil, apperror.NewMisconfiguredLadderError(name, "ladder has no tiers")
	}

	seen := make(map[string]struct{}, len(tiers))
	for i, t := range tiers {
		if t.Label == "" {
			return nil, apperror.NewMisconfiguredLadderError(name, fmt.Sprintf("tier %d has an empty label", i))
		}
		if _, dup := seen[t.Label]; dup {
			return nil, apperror.NewMisconfiguredLadderError(name, fmt.Sprintf("duplicate label %q", t.Label))
		}
		seen[t.Label] = struct{}{}

		if math.IsNaN(t.Threshold) || math.IsInf(t.Threshold, 0) {
			return nil, apperror.NewMisconfiguredLadderError(name, fmt.Sprintf("tier %q has a non-finite threshold", t.Label))
		}
	}

	checked := len(tiers)
	if order == Ascending {
		checked--
	}
	for i := 1; i < checked; i++ {
		prev, cur := tiers[i-1], tiers[i]
		if order == Descending && cur.Threshold >= prev.Threshold {
			return nil, apperror.NewMisconfiguredLadderError(name,
				fmt.Sprintf("minimums must be strictly descending: %q (%g) follows %q (%g)", cur.Label, cur.Threshold, prev.Label, prev.Threshold))
		}
		if order == Ascending && cur.Threshold <= prev.Threshold {
			return nil, apperror.NewMisconfiguredLadderError(name,
				fmt.Sprintf("maximums must be strictly ascending: %q (%g) follows %q (%g)", cur.Label, cur.Threshold, prev.Label, prev.Threshold))
		}
	}

	copied := make([]Tier, len(tiers))
	copy(copied, tiers)
	return &Ladder{name: name, order: order, tiers: copied}, nil
}

// Index returns the position of the tier that value falls into
func (l *Ladder) Index(value float64) int {
	last := len(l.tiers) - 1
	for i, t := range l.tiers[:last] {
		if l.order == Descending && value >= t.Threshold {
			return i
		}
		if l.order == Ascending && value <= t.Threshold {
			return i
		}
	}
	return last
}

// Classify returns the label of the tier that value falls into
func (l *Ladder) Classify(value float64) string {
	return l.tiers[l.Index(value)].Label
}

// Tiers returns a copy of the ladder's tiers in evaluation order
func (l *Ladder) Tiers() []Tier {
	out := make([]Tier, len(l.tiers))
	copy(out, l.tiers)
	return out
}

// Labels returns tier labels in evaluation order
func (l *Ladder) Labels() []string {
	out := make([]string, len(l.tiers))
	for i, t := range l.tiers {
		out[i] = t.Label
	}
	return out
}

// Name returns the ladder's configuration name
func (l *Ladder) Name() string {
	return l.name
}

func (l *Ladder) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name  string `json:"name"`
		Order string `json:"order"`
		Tiers []Tier `json:"tiers"`
	}{
		Name:  l.name,
		Order: l.order.String(),
		Tiers: l.tiers,
	})
}
