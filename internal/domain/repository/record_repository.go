package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/bizmetrics-api/internal/domain/entity"
)

// RecordRepository is the read-only fetch boundary of the metrics engine.
// Windowed fetches return records whose timestamp falls in [window.Start, window.End).
// Implementations perform no aggregation and report failures as DataUnavailable errors.
type RecordRepository interface {
	FetchSales(ctx context.Context, window entity.TimeWindow) ([]entity.Sale, error)
	FetchPurchases(ctx context.Context, window entity.TimeWindow) ([]entity.Purchase, error)
	FetchExpenses(ctx context.Context, window entity.TimeWindow) ([]entity.Expense, error)
	FetchCustomers(ctx context.Context) ([]entity.Customer, error)
	// FetchCustomerSales returns every sale of the given customers invoiced before until
	FetchCustomerSales(ctx context.Context, customerIDs []uuid.UUID, until time.Time) ([]entity.Sale, error)
	FetchStock(ctx context.Context) ([]entity.ProductVariant, error)
	FetchBatches(ctx context.Context, window entity.TimeWindow) ([]entity.ManufacturingBatch, error)
	FetchSubscriptions(ctx context.Context) ([]entity.Subscription, error)
	FetchCampaigns(ctx context.Context, window entity.TimeWindow) ([]entity.Campaign, error)

	// DataVersion returns an opaque token that changes whenever any record changes
	DataVersion(ctx context.Context) (string, error)
}
