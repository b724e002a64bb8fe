package analytics

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/bizmetrics-api/internal/domain/entity"
	"github.com/sangkips/bizmetrics-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

var testAsOf = time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

func id(n int) uuid.UUID {
	return uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0000-%012d", n))
}

func idPtr(n int) *uuid.UUID {
	u := id(n)
	return &u
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func daysBefore(t time.Time, days float64) time.Time {
	return t.Add(-time.Duration(days * float64(day)))
}

// paidSale is a fully settled cash sale
func paidSale(n int, at time.Time, total string, customer int) entity.Sale {
	s := entity.Sale{
		ID:          id(n),
		InvoiceNo:   fmt.Sprintf("INV-%04d", n),
		InvoiceDate: at,
		TotalAmount: dec(total),
		AmountCash:  dec(total),
	}
	if customer > 0 {
		s.CustomerID = idPtr(customer)
	}
	return s
}

func item(variant int, qty, price string) entity.SaleItem {
	return entity.SaleItem{
		ID:               uuid.New(),
		ProductVariantID: id(variant),
		Quantity:         dec(qty),
		UnitPrice:        dec(price),
	}
}

// fixtureRecords covers the 30-day window ending at testAsOf and the 30 days before it
func fixtureRecords() *RecordSet {
	cur := func(days float64) time.Time { return daysBefore(testAsOf, days) }

	sales := []entity.Sale{
		paidSale(1, cur(1), "100", 1001),
		paidSale(2, cur(5), "200", 1001),
		paidSale(3, cur(40), "300", 1002),
	}
	sales[0].Items = []entity.SaleItem{item(501, "2", "50")}
	sales[1].Items = []entity.SaleItem{item(501, "1", "100"), item(502, "4", "25")}
	sales[2].Items = []entity.SaleItem{item(502, "3", "100")}

	credit := entity.Sale{
		ID:           id(4),
		InvoiceNo:    "INV-0004",
		InvoiceDate:  cur(10),
		TotalAmount:  dec("300"),
		AmountCard:   dec("100"),
		AmountCredit: dec("200"),
		CustomerID:   idPtr(1003),
		Items:        []entity.SaleItem{item(503, "6", "50")},
	}

	current := []entity.Sale{sales[0], sales[1], credit}
	previous := []entity.Sale{sales[2]}

	regOld := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	spent := dec("60000")
	orders := 12
	customers := []entity.Customer{
		{ID: id(1001), Name: "Asha", RegistrationDate: regOld},
		{ID: id(1002), Name: "Bilal", RegistrationDate: regOld, TotalSpent: &spent, TotalOrders: &orders},
		{ID: id(1003), Name: "Chen", RegistrationDate: cur(12)},
	}

	return &RecordSet{
		Sales:         current,
		PreviousSales: previous,
		SalesHistory:  append(append([]entity.Sale{}, previous...), current...),
		Purchases: []entity.Purchase{
			{ID: id(201), VendorID: id(9001), InvoiceDate: cur(3), TotalAmount: dec("150"), AmountCash: dec("100")},
			{ID: id(202), VendorID: id(9002), InvoiceDate: cur(20), TotalAmount: dec("50"), AmountUPI: dec("60")},
		},
		Expenses: []entity.Expense{
			{ID: id(301), Category: "Rent", Date: cur(2), TotalAmount: dec("40"), AmountCash: dec("40")},
			{ID: id(302), Category: "", Date: cur(4), TotalAmount: dec("10"), AmountCash: dec("10")},
		},
		Customers:     customers,
		LifetimeSales: mergeSales(previous, current),
		Stock: []entity.ProductVariant{
			{ID: id(501), CurrentQuantity: dec("5"), UnitCost: dec("2")},
			{ID: id(502), CurrentQuantity: dec("20"), UnitCost: dec("1.5")},
			{ID: id(503), CurrentQuantity: dec("0"), UnitCost: dec("3")},
		},
		Batches: []entity.ManufacturingBatch{
			{ID: id(601), ExtractionDate: cur(2), QuantityProduced: dec("100"), QualityPassed: true},
			{ID: id(602), ExtractionDate: cur(3), QuantityProduced: dec("50"), QualityPassed: false},
		},
		PreviousBatches: []entity.ManufacturingBatch{
			{ID: id(603), ExtractionDate: cur(35), QuantityProduced: dec("100"), QualityPassed: true},
		},
		Subscriptions: []entity.Subscription{
			{ID: id(701), Status: enum.SubscriptionStatusActive, RecurringAmount: dec("49.99"), CreatedAt: cur(3)},
			{ID: id(702), Status: enum.SubscriptionStatusActive, RecurringAmount: dec("20.01"), CreatedAt: cur(90)},
			{ID: id(703), Status: enum.SubscriptionStatusCancelled, RecurringAmount: dec("10"), CreatedAt: cur(90)},
			{ID: id(704), Status: enum.SubscriptionStatusPaused, RecurringAmount: dec("10"), CreatedAt: cur(90)},
		},
		Campaigns: []entity.Campaign{
			{ID: id(801), StartDate: cur(7), Spend: dec("100"), Impressions: 1000, Clicks: 50, Conversions: 5, Revenue: dec("250")},
		},
	}
}

func fixtureWindows() ResolvedWindows {
	w, err := ResolveWindows(PeriodSpecifier{Days: 30, AsOf: testAsOf})
	if err != nil {
		panic(err)
	}
	return w
}
