// Package memory holds an in-process RecordRepository used for fixtures, demos and tests.
package memory

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/bizmetrics-api/internal/domain/entity"
	domainRepo "github.com/sangkips/bizmetrics-api/internal/domain/repository"
	"github.com/sangkips/bizmetrics-api/pkg/apperror"
)

// Record kinds accepted by Fail
const (
	KindSales         = "sales"
	KindPurchases     = "purchases"
	KindExpenses      = "expenses"
	KindCustomers     = "customers"
	KindStock         = "stock"
	KindBatches       = "batches"
	KindSubscriptions = "subscriptions"
	KindCampaigns     = "campaigns"
)

// Store keeps record snapshots in memory. Every mutation bumps the data version.
type Store struct {
	mu            sync.RWMutex
	sales         []entity.Sale
	purchases     []entity.Purchase
	expenses      []entity.Expense
	customers     []entity.Customer
	stock         []entity.ProductVariant
	batches       []entity.ManufacturingBatch
	subscriptions []entity.Subscription
	campaigns     []entity.Campaign
	failures      map[string]error
	version       int64
	fetches       map[string]int
}

var _ domainRepo.RecordRepository = (*Store)(nil)

// New returns an empty store
func New() *Store {
	return &Store{
		failures: make(map[string]error),
		fetches:  make(map[string]int),
	}
}

func (s *Store) AddSales(sales ...entity.Sale) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sales = append(s.sales, sales...)
	s.version++
}

func (s *Store) AddPurchases(purchases ...entity.Purchase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purchases = append(s.purchases, purchases...)
	s.version++
}

func (s *Store) AddExpenses(expenses ...entity.Expense) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = append(s.expenses, expenses...)
	s.version++
}

func (s *Store) AddCustomers(customers ...entity.Customer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers = append(s.customers, customers...)
	s.version++
}

func (s *Store) AddStock(variants ...entity.ProductVariant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stock = append(s.stock, variants...)
	s.version++
}

func (s *Store) AddBatches(batches ...entity.ManufacturingBatch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, batches...)
	s.version++
}

func (s *Store) AddSubscriptions(subs ...entity.Subscription) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscriptions = append(s.subscriptions, subs...)
	s.version++
}

func (s *Store) AddCampaigns(campaigns ...entity.Campaign) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.campaigns = append(s.campaigns, campaigns...)
	s.version++
}

// Fail makes every fetch of kind return err until Recover is called
func (s *Store) Fail(kind string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[kind] = err
}

// Recover clears an injected failure
func (s *Store) Recover(kind string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, kind)
}

// Fetches returns how many times kind was fetched
func (s *Store) Fetches(kind string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetches[kind]
}

// begin counts the fetch and returns the injected failure for kind, if any
func (s *Store) begin(ctx context.Context, kind string) error {
	s.mu.Lock()
	s.fetches[kind]++
	err := s.failures[kind]
	s.mu.Unlock()

	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return apperror.NewDataUnavailableError(kind, err)
	}
	return nil
}

func (s *Store) FetchSales(ctx context.Context, window entity.TimeWindow) ([]entity.Sale, error) {
	if err := s.begin(ctx, KindSales); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entity.Sale
	for _, sale := range s.sales {
		if window.Contains(sale.InvoiceDate) {
			out = append(out, sale)
		}
	}
	return out, nil
}

// FetchCustomerSales counts as a sales fetch, so Fail(KindSales) covers it too
func (s *Store) FetchCustomerSales(ctx context.Context, customerIDs []uuid.UUID, until time.Time) ([]entity.Sale, error) {
	if err := s.begin(ctx, KindSales); err != nil {
		return nil, err
	}
	wanted := make(map[uuid.UUID]struct{}, len(customerIDs))
	for _, id := range customerIDs {
		wanted[id] = struct{}{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entity.Sale
	for _, sale := range s.sales {
		if sale.CustomerID == nil || !sale.InvoiceDate.Before(until) {
			continue
		}
		if _, ok := wanted[*sale.CustomerID]; ok {
			out = append(out, sale)
		}
	}
	return out, nil
}

func (s *Store) FetchPurchases(ctx context.Context, window entity.TimeWindow) ([]entity.Purchase, error) {
	if err := s.begin(ctx, KindPurchases); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entity.Purchase
	for _, p := range s.purchases {
		if window.Contains(p.InvoiceDate) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Store) FetchExpenses(ctx context.Context, window entity.TimeWindow) ([]entity.Expense, error) {
	if err := s.begin(ctx, KindExpenses); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entity.Expense
	for _, e := range s.expenses {
		if window.Contains(e.Date) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Store) FetchCustomers(ctx context.Context) ([]entity.Customer, error) {
	if err := s.begin(ctx, KindCustomers); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.Customer(nil), s.customers...), nil
}

func (s *Store) FetchStock(ctx context.Context) ([]entity.ProductVariant, error) {
	if err := s.begin(ctx, KindStock); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.ProductVariant(nil), s.stock...), nil
}

func (s *Store) FetchBatches(ctx context.Context, window entity.TimeWindow) ([]entity.ManufacturingBatch, error) {
	if err := s.begin(ctx, KindBatches); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entity.ManufacturingBatch
	for _, b := range s.batches {
		if window.Contains(b.ExtractionDate) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *Store) FetchSubscriptions(ctx context.Context) ([]entity.Subscription, error) {
	if err := s.begin(ctx, KindSubscriptions); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.Subscription(nil), s.subscriptions...), nil
}

func (s *Store) FetchCampaigns(ctx context.Context, window entity.TimeWindow) ([]entity.Campaign, error) {
	if err := s.begin(ctx, KindCampaigns); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entity.Campaign
	for _, c := range s.campaigns {
		if window.Contains(c.StartDate) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Store) DataVersion(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return "mem:" + strconv.FormatInt(s.version, 10), nil
}
