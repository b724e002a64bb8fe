package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/bizmetrics-api/internal/domain/entity"
	domainRepo "github.com/sangkips/bizmetrics-api/internal/domain/repository"
	"github.com/sangkips/bizmetrics-api/pkg/apperror"
	"gorm.io/gorm"
)

type recordRepository struct {
	db *gorm.DB
}

// NewRecordRepository creates a tenant-scoped record repository backed by postgres
func NewRecordRepository(db *gorm.DB) domainRepo.RecordRepository {
	return &recordRepository{db: db}
}

func (r *recordRepository) scoped(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Scopes(TenantScope(ctx))
}

func (r *recordRepository) FetchSales(ctx context.Context, window entity.TimeWindow) ([]entity.Sale, error) {
	var sales []entity.Sale
	err := r.scoped(ctx).
		Scopes(WindowScope("invoice_date", window)).
		Preload("Items").
		Order("invoice_date ASC, id ASC").
		Find(&sales).Error
	if err != nil {
		return nil, apperror.NewDataUnavailableError("sales", err)
	}
	return sales, nil
}

func (r *recordRepository) FetchPurchases(ctx context.Context, window entity.TimeWindow) ([]entity.Purchase, error) {
	var purchases []entity.Purchase
	err := r.scoped(ctx).
		Scopes(WindowScope("invoice_date", window)).
		Order("invoice_date ASC, id ASC").
		Find(&purchases).Error
	if err != nil {
		return nil, apperror.NewDataUnavailableError("purchases", err)
	}
	return purchases, nil
}

func (r *recordRepository) FetchExpenses(ctx context.Context, window entity.TimeWindow) ([]entity.Expense, error) {
	var expenses []entity.Expense
	err := r.scoped(ctx).
		Scopes(WindowScope("date", window)).
		Order("date ASC, id ASC").
		Find(&expenses).Error
	if err != nil {
		return nil, apperror.NewDataUnavailableError("expenses", err)
	}
	return expenses, nil
}

func (r *recordRepository) FetchCustomers(ctx context.Context) ([]entity.Customer, error) {
	var customers []entity.Customer
	if err := r.scoped(ctx).Order("id ASC").Find(&customers).Error; err != nil {
		return nil, apperror.NewDataUnavailableError("customers", err)
	}
	return customers, nil
}

// customerSalesChunk keeps the IN list well under postgres' bind parameter limit
const customerSalesChunk = 1000

func (r *recordRepository) FetchCustomerSales(ctx context.Context, customerIDs []uuid.UUID, until time.Time) ([]entity.Sale, error) {
	var sales []entity.Sale
	for start := 0; start < len(customerIDs); start += customerSalesChunk {
		end := min(start+customerSalesChunk, len(customerIDs))

		var chunk []entity.Sale
		err := r.scoped(ctx).
			Where("customer_id IN ? AND invoice_date < ?", customerIDs[start:end], until).
			Order("invoice_date ASC, id ASC").
			Find(&chunk).Error
		if err != nil {
			return nil, apperror.NewDataUnavailableError("customer sales", err)
		}
		sales = append(sales, chunk...)
	}
	return sales, nil
}

func (r *recordRepository) FetchStock(ctx context.Context) ([]entity.ProductVariant, error) {
	var variants []entity.ProductVariant
	if err := r.scoped(ctx).Order("id ASC").Find(&variants).Error; err != nil {
		return nil, apperror.NewDataUnavailableError("stock", err)
	}
	return variants, nil
}

func (r *recordRepository) FetchBatches(ctx context.Context, window entity.TimeWindow) ([]entity.ManufacturingBatch, error) {
	var batches []entity.ManufacturingBatch
	err := r.scoped(ctx).
		Scopes(WindowScope("extraction_date", window)).
		Order("extraction_date ASC, id ASC").
		Find(&batches).Error
	if err != nil {
		return nil, apperror.NewDataUnavailableError("batches", err)
	}
	return batches, nil
}

func (r *recordRepository) FetchSubscriptions(ctx context.Context) ([]entity.Subscription, error) {
	var subs []entity.Subscription
	if err := r.scoped(ctx).Order("id ASC").Find(&subs).Error; err != nil {
		return nil, apperror.NewDataUnavailableError("subscriptions", err)
	}
	return subs, nil
}

func (r *recordRepository) FetchCampaigns(ctx context.Context, window entity.TimeWindow) ([]entity.Campaign, error) {
	var campaigns []entity.Campaign
	err := r.scoped(ctx).
		Scopes(WindowScope("start_date", window)).
		Order("start_date ASC, id ASC").
		Find(&campaigns).Error
	if err != nil {
		return nil, apperror.NewDataUnavailableError("campaigns", err)
	}
	return campaigns, nil
}

type tableVersion struct {
	RowCount int64
	Latest   *time.Time
}

type tabler interface {
	TableName() string
}

// versionedModels are the tables whose changes invalidate a cached report
var versionedModels = []tabler{
	&entity.Sale{},
	&entity.Purchase{},
	&entity.Expense{},
	&entity.Customer{},
	&entity.ProductVariant{},
	&entity.ManufacturingBatch{},
	&entity.Subscription{},
	&entity.Campaign{},
}

// DataVersion fingerprints the tenant's records by row count and latest
// modification per table, soft-deleted rows included.
func (r *recordRepository) DataVersion(ctx context.Context) (string, error) {
	parts := make([]string, 0, len(versionedModels))
	for _, model := range versionedModels {
		var v tableVersion
		err := r.db.WithContext(ctx).Unscoped().
			Model(model).
			Scopes(TenantScope(ctx)).
			Select("COUNT(*) AS row_count, MAX(GREATEST(updated_at, COALESCE(deleted_at, updated_at))) AS latest").
			Scan(&v).Error
		if err != nil {
			return "", apperror.NewDataUnavailableError("data version", err)
		}

		latest := int64(0)
		if v.Latest != nil {
			latest = v.Latest.UnixNano()
		}
		parts = append(parts, fmt.Sprintf("%s:%d:%d", model.TableName(), v.RowCount, latest))
	}
	return strings.Join(parts, "|"), nil
}
