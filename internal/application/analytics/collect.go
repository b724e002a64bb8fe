package analytics

import (
	"context"
	"sort"

	"github.com/sangkips/bizmetrics-api/internal/domain/entity"
	"github.com/sangkips/bizmetrics-api/internal/domain/repository"
	"github.com/sangkips/bizmetrics-api/pkg/apperror"
	"golang.org/x/sync/errgroup"
)

// Source names one fetch performed for a report
type Source string

const (
	SourceSales           Source = "sales"
	SourcePreviousSales   Source = "previous_sales"
	SourceSalesHistory    Source = "sales_history"
	SourcePurchases       Source = "purchases"
	SourceExpenses        Source = "expenses"
	SourceCustomers       Source = "customers"
	SourceLifetimeSales   Source = "lifetime_sales"
	SourceStock           Source = "stock"
	SourceBatches         Source = "batches"
	SourcePreviousBatches Source = "previous_batches"
	SourceSubscriptions   Source = "subscriptions"
	SourceCampaigns       Source = "campaigns"
)

// RecordSet holds the snapshots fetched for one report plus the sources that failed
type RecordSet struct {
	Sales           []entity.Sale
	PreviousSales   []entity.Sale
	SalesHistory    []entity.Sale
	Purchases       []entity.Purchase
	Expenses        []entity.Expense
	Customers       []entity.Customer
	LifetimeSales   []entity.Sale
	Stock           []entity.ProductVariant
	Batches         []entity.ManufacturingBatch
	PreviousBatches []entity.ManufacturingBatch
	Subscriptions   []entity.Subscription
	Campaigns       []entity.Campaign

	Failures map[Source]error
}

// Available reports whether every listed source was fetched
func (rs *RecordSet) Available(sources ...Source) bool {
	for _, s := range sources {
		if _, failed := rs.Failures[s]; failed {
			return false
		}
	}
	return true
}

// FailedSources returns the failed sources sorted by name
func (rs *RecordSet) FailedSources() []Source {
	out := make([]Source, 0, len(rs.Failures))
	for s := range rs.Failures {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// MarkUnavailable records a failed source, wrapping it as DataUnavailable
func (rs *RecordSet) MarkUnavailable(source Source, err error) {
	if rs.Failures == nil {
		rs.Failures = make(map[Source]error)
	}
	if !apperror.IsKind(err, apperror.KindDataUnavailable) {
		err = apperror.NewDataUnavailableError(string(source), err)
	}
	rs.Failures[source] = err
}

type fetchJob struct {
	source Source
	run    func(ctx context.Context) error
}

// Collect fetches every record kind the report needs. Fetches run concurrently,
// each writing only its own slot, and a failing fetch never aborts the others.
// Customers whose cached lifetime columns are incomplete get a second fetch of
// all their sales up to AsOf.
func Collect(ctx context.Context, repo repository.RecordRepository, windows ResolvedWindows, history entity.TimeWindow) *RecordSet {
	rs := &RecordSet{}

	jobs := []fetchJob{
		{SourceSales, func(ctx context.Context) (err error) {
			rs.Sales, err = repo.FetchSales(ctx, windows.Current)
			return err
		}},
		{SourcePreviousSales, func(ctx context.Context) (err error) {
			rs.PreviousSales, err = repo.FetchSales(ctx, windows.Previous)
			return err
		}},
		{SourceSalesHistory, func(ctx context.Context) (err error) {
			rs.SalesHistory, err = repo.FetchSales(ctx, history)
			return err
		}},
		{SourcePurchases, func(ctx context.Context) (err error) {
			rs.Purchases, err = repo.FetchPurchases(ctx, windows.Current)
			return err
		}},
		{SourceExpenses, func(ctx context.Context) (err error) {
			rs.Expenses, err = repo.FetchExpenses(ctx, windows.Current)
			return err
		}},
		{SourceCustomers, func(ctx context.Context) (err error) {
			rs.Customers, err = repo.FetchCustomers(ctx)
			return err
		}},
		{SourceStock, func(ctx context.Context) (err error) {
			rs.Stock, err = repo.FetchStock(ctx)
			return err
		}},
		{SourceBatches, func(ctx context.Context) (err error) {
			rs.Batches, err = repo.FetchBatches(ctx, windows.Current)
			return err
		}},
		{SourcePreviousBatches, func(ctx context.Context) (err error) {
			rs.PreviousBatches, err = repo.FetchBatches(ctx, windows.Previous)
			return err
		}},
		{SourceSubscriptions, func(ctx context.Context) (err error) {
			rs.Subscriptions, err = repo.FetchSubscriptions(ctx)
			return err
		}},
		{SourceCampaigns, func(ctx context.Context) (err error) {
			rs.Campaigns, err = repo.FetchCampaigns(ctx, windows.Current)
			return err
		}},
	}

	errs := make([]error, len(jobs))
	var g errgroup.Group
	for i, job := range jobs {
		g.Go(func() error {
			errs[i] = job.run(ctx)
			return nil
		})
	}
	_ = g.Wait()

	for i, err := range errs {
		if err != nil {
			rs.MarkUnavailable(jobs[i].source, err)
		}
	}

	if rs.Available(SourceCustomers) {
		if ids := customersNeedingSales(rs.Customers); len(ids) > 0 {
			sales, err := repo.FetchCustomerSales(ctx, ids, windows.AsOf)
			if err != nil {
				rs.MarkUnavailable(SourceLifetimeSales, err)
			} else {
				rs.LifetimeSales = sales
			}
		}
	}
	return rs
}
