package analytics

import (
	"math"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// money converts a decimal amount to a float rounded to 2 places
func money(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}

// ratio returns num/den, or zero when den is zero
func ratio(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.DivRound(den, 8)
}

// percent returns num/den*100 rounded to 2 places, or zero when den is zero
func percent(num, den decimal.Decimal) float64 {
	return money(ratio(num, den).Mul(hundred))
}

func percentInt(num, den int) float64 {
	return percent(decimal.NewFromInt(int64(num)), decimal.NewFromInt(int64(den)))
}

func ptr(f float64) *float64 {
	return &f
}
