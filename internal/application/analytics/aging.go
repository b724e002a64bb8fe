package analytics

import (
	"math"
	"time"

	"github.com/sangkips/bizmetrics-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// OutstandingBalance is an unsettled amount dated by its invoice
type OutstandingBalance struct {
	InvoiceDate time.Time
	Balance     decimal.Decimal
}

// AgingBucket sums balances whose age falls in one ladder tier
type AgingBucket struct {
	Label   string   `json:"label"`
	MaxDays *float64 `json:"max_days"`
	Count   int      `json:"count"`
	Amount  float64  `json:"amount"`
}

// AgingReport partitions every non-zero balance into exactly one bucket
type AgingReport struct {
	Buckets          []AgingBucket `json:"buckets"`
	TotalOutstanding float64       `json:"total_outstanding"`
	OutstandingCount int           `json:"outstanding_count"`
	OverpaidCount    int           `json:"overpaid_count"`
	OverpaidAmount   float64       `json:"overpaid_amount"`
}

// ageInDays is the number of whole days between date and asOf, never negative
func ageInDays(date, asOf time.Time) int {
	d := asOf.Sub(date)
	if d <= 0 {
		return 0
	}
	return int(math.Floor(d.Hours() / 24))
}

// BucketAging buckets balances by age at asOf. Overpayments stay in the
// partition and are also reported on their own.
func BucketAging(ladder *Ladder, balances []OutstandingBalance, asOf time.Time) AgingReport {
	tiers := ladder.Tiers()
	counts := make([]int, len(tiers))
	amounts := make([]decimal.Decimal, len(tiers))

	var total, overpaid decimal.Decimal
	outstanding, overpaidCount := 0, 0
	for _, b := range balances {
		if b.Balance.IsZero() {
			continue
		}
		idx := ladder.Index(float64(ageInDays(b.InvoiceDate, asOf)))
		counts[idx]++
		amounts[idx] = amounts[idx].Add(b.Balance)
		total = total.Add(b.Balance)
		outstanding++
		if b.Balance.IsNegative() {
			overpaidCount++
			overpaid = overpaid.Add(b.Balance)
		}
	}

	buckets := make([]AgingBucket, len(tiers))
	last := len(tiers) - 1
	for i, t := range tiers {
		buckets[i] = AgingBucket{Label: t.Label, Count: counts[i], Amount: money(amounts[i])}
		if i < last {
			buckets[i].MaxDays = ptr(t.Threshold)
		}
	}

	return AgingReport{
		Buckets:          buckets,
		TotalOutstanding: money(total),
		OutstandingCount: outstanding,
		OverpaidCount:    overpaidCount,
		OverpaidAmount:   money(overpaid),
	}
}

// ReceivableBalances extracts customer balances from sales
func ReceivableBalances(sales []entity.Sale) []OutstandingBalance {
	out := make([]OutstandingBalance, 0, len(sales))
	for i := range sales {
		out = append(out, OutstandingBalance{InvoiceDate: sales[i].InvoiceDate, Balance: sales[i].BalanceDue()})
	}
	return out
}

// PayableBalances extracts vendor balances from purchases
func PayableBalances(purchases []entity.Purchase) []OutstandingBalance {
	out := make([]OutstandingBalance, 0, len(purchases))
	for i := range purchases {
		out = append(out, OutstandingBalance{InvoiceDate: purchases[i].InvoiceDate, Balance: purchases[i].BalanceDue()})
	}
	return out
}
