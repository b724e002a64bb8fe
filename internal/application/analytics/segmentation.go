package analytics

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/bizmetrics-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// lifetime is a customer's all-time purchasing summary
type lifetime struct {
	orders    int
	spent     decimal.Decimal
	lastOrder *time.Time
}

// mergeSales deduplicates sales by ID across overlapping fetches
func mergeSales(sets ...[]entity.Sale) []entity.Sale {
	seen := make(map[uuid.UUID]struct{})
	var out []entity.Sale
	for _, set := range sets {
		for i := range set {
			if _, dup := seen[set[i].ID]; dup {
				continue
			}
			seen[set[i].ID] = struct{}{}
			out = append(out, set[i])
		}
	}
	return out
}

// needsSales reports whether any cached lifetime column is missing
func needsSales(c *entity.Customer) bool {
	return !c.HasLifetimeTotals() || c.LastOrderDate == nil
}

// customersNeedingSales returns the sorted IDs of customers whose lifetime
// summary has to be rebuilt from their sales
func customersNeedingSales(customers []entity.Customer) []uuid.UUID {
	var ids []uuid.UUID
	for i := range customers {
		if needsSales(&customers[i]) {
			ids = append(ids, customers[i].ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

// lifetimeTotals returns each customer's lifetime summary. Cached columns win;
// customers without them are recomputed from sales.
func lifetimeTotals(customers []entity.Customer, sales []entity.Sale) map[uuid.UUID]lifetime {
	fromSales := make(map[uuid.UUID]lifetime)
	for i := range sales {
		s := &sales[i]
		if s.CustomerID == nil {
			continue
		}
		lt := fromSales[*s.CustomerID]
		lt.orders++
		lt.spent = lt.spent.Add(s.TotalAmount)
		if lt.lastOrder == nil || s.InvoiceDate.After(*lt.lastOrder) {
			d := s.InvoiceDate
			lt.lastOrder = &d
		}
		fromSales[*s.CustomerID] = lt
	}

	out := make(map[uuid.UUID]lifetime, len(customers))
	for i := range customers {
		c := &customers[i]
		lt := fromSales[c.ID]
		if c.HasLifetimeTotals() {
			lt.orders = *c.TotalOrders
			lt.spent = *c.TotalSpent
		}
		if c.LastOrderDate != nil {
			lt.lastOrder = c.LastOrderDate
		}
		out[c.ID] = lt
	}
	return out
}

// Segment is one rung of the customer value ladder
type Segment struct {
	Label        string  `json:"label"`
	MinimumSpend float64 `json:"minimum_spend"`
	Customers    int     `json:"customers"`
	TotalSpent   float64 `json:"total_spent"`
	AverageSpend float64 `json:"average_spend"`
	Share        float64 `json:"share"`
}

// SegmentationResult lists segments in ladder order
type SegmentationResult struct {
	TotalCustomers int       `json:"total_customers"`
	Segments       []Segment `json:"segments"`
}

// SegmentCustomers classifies every customer by lifetime spend.
// Member counts always sum to the customer count and shares to exactly 100 when there are customers.
func SegmentCustomers(ladder *Ladder, customers []entity.Customer, sales []entity.Sale) SegmentationResult {
	tiers := ladder.Tiers()
	counts := make([]int, len(tiers))
	spent := make([]decimal.Decimal, len(tiers))

	totals := lifetimeTotals(customers, sales)
	for i := range customers {
		lt := totals[customers[i].ID]
		f, _ := lt.spent.Float64()
		idx := ladder.Index(f)
		counts[idx]++
		spent[idx] = spent[idx].Add(lt.spent)
	}

	shares := largestRemainderShares(counts, len(customers))
	segments := make([]Segment, len(tiers))
	for i, t := range tiers {
		segments[i] = Segment{
			Label:        t.Label,
			MinimumSpend: t.Threshold,
			Customers:    counts[i],
			TotalSpent:   money(spent[i]),
			AverageSpend: money(ratio(spent[i], decimal.NewFromInt(int64(counts[i])))),
			Share:        shares[i],
		}
	}

	return SegmentationResult{TotalCustomers: len(customers), Segments: segments}
}

// largestRemainderShares apportions 100.00 percent over counts in hundredths
// so the rounded shares sum exactly. Ties go to the earlier entry.
func largestRemainderShares(counts []int, total int) []float64 {
	out := make([]float64, len(counts))
	if total == 0 {
		return out
	}

	const scale = 10000
	floors := make([]int, len(counts))
	rems := make([]int, len(counts))
	assigned := 0
	for i, c := range counts {
		floors[i] = c * scale / total
		rems[i] = c * scale % total
		assigned += floors[i]
	}

	order := make([]int, len(counts))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return rems[order[a]] > rems[order[b]]
	})
	for k := 0; k < scale-assigned; k++ {
		floors[order[k%len(order)]]++
	}

	for i, f := range floors {
		out[i] = float64(f) / 100
	}
	return out
}
