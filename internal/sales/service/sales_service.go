package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/armonia-music/pos-backend/internal/platform/logger"
	"github.com/armonia-music/pos-backend/internal/sales/domain"
	"github.com/armonia-music/pos-backend/internal/sales/repository"
)

var ErrEmptySale = errors.New("sale must contain at least one line")

// DefaultTopLimit bounds the best-sellers ranking when no limit is given.
const DefaultTopLimit = 10

type SalesService interface {
	// RecordSale totals the lines (16% tax, amounts rounded to 2 decimals),
	// assigns a unique id, appends to the ledger and persists the snapshot.
	// There is no partial failure: either the sale is fully recorded or the
	// ledger is untouched.
	RecordSale(ctx context.Context, lines []domain.SaleLine, seller, customer string) (*domain.Sale, error)

	Sales(ctx context.Context) ([]domain.Sale, error)
	SalesInRange(ctx context.Context, from, to time.Time) ([]domain.Sale, error)
	SalesBySeller(ctx context.Context, seller string) ([]domain.Sale, error)

	DailyStatistics(ctx context.Context) ([]domain.Statistic, error)
	MonthlyStatistics(ctx context.Context) ([]domain.Statistic, error)
	TopSellingProducts(ctx context.Context, limit int) ([]domain.TopProduct, error)
	TotalRevenue(ctx context.Context) (float64, error)
	RevenueInRange(ctx context.Context, from, to time.Time) (float64, error)

	// Subscribe registers a listener invoked synchronously after each
	// recorded sale with the full ledger. The returned function removes the
	// subscription.
	Subscribe(listener func([]domain.Sale)) func()
}

type salesServiceImpl struct {
	repo repository.SalesRepository

	mu  sync.Mutex
	seq int64 // monotonic suffix so ids stay unique within one millisecond

	subMu     sync.Mutex
	subSeq    int
	listeners map[int]func([]domain.Sale)
}

func NewSalesService(repo repository.SalesRepository) SalesService {
	return &salesServiceImpl{
		repo:      repo,
		listeners: make(map[int]func([]domain.Sale)),
	}
}

func (s *salesServiceImpl) RecordSale(ctx context.Context, lines []domain.SaleLine, seller, customer string) (*domain.Sale, error) {
	if len(lines) == 0 {
		return nil, ErrEmptySale
	}
	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, fmt.Errorf("invalid quantity %d for sku %s", line.Quantity, line.SKU)
		}
	}

	subtotal := decimal.Zero
	for _, line := range lines {
		lineTotal := decimal.NewFromFloat(line.Price).Mul(decimal.NewFromInt(int64(line.Quantity)))
		subtotal = subtotal.Add(lineTotal)
	}
	subtotal = subtotal.Round(2)
	tax := subtotal.Mul(decimal.NewFromFloat(domain.TaxRate)).Round(2)
	total := subtotal.Add(tax)

	sale := domain.Sale{
		ID:       s.nextID(),
		Date:     time.Now(),
		Lines:    append([]domain.SaleLine(nil), lines...),
		Subtotal: subtotal.InexactFloat64(),
		Tax:      tax.InexactFloat64(),
		Total:    total.InexactFloat64(),
		Seller:   seller,
		Customer: customer,
	}

	if err := s.repo.Append(ctx, sale); err != nil {
		logger.Error("Svc.RecordSale: append failed", err)
		return nil, err
	}
	s.notify(ctx)
	return &sale, nil
}

func (s *salesServiceImpl) nextID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return fmt.Sprintf("VTA-%d-%d", time.Now().UnixMilli(), s.seq)
}

func (s *salesServiceImpl) Sales(ctx context.Context) ([]domain.Sale, error) {
	return s.repo.List(ctx)
}

func (s *salesServiceImpl) SalesInRange(ctx context.Context, from, to time.Time) ([]domain.Sale, error) {
	sales, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	inRange := []domain.Sale{}
	for _, sale := range sales {
		// Both bounds inclusive.
		if sale.Date.Before(from) || sale.Date.After(to) {
			continue
		}
		inRange = append(inRange, sale)
	}
	return inRange, nil
}

func (s *salesServiceImpl) SalesBySeller(ctx context.Context, seller string) ([]domain.Sale, error) {
	sales, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	bySeller := []domain.Sale{}
	for _, sale := range sales {
		if sale.Seller == seller {
			bySeller = append(bySeller, sale)
		}
	}
	return bySeller, nil
}

func (s *salesServiceImpl) DailyStatistics(ctx context.Context) ([]domain.Statistic, error) {
	sales, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return AggregateDaily(sales), nil
}

func (s *salesServiceImpl) MonthlyStatistics(ctx context.Context) ([]domain.Statistic, error) {
	sales, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return AggregateMonthly(sales), nil
}

func (s *salesServiceImpl) TopSellingProducts(ctx context.Context, limit int) ([]domain.TopProduct, error) {
	if limit <= 0 {
		limit = DefaultTopLimit
	}
	sales, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	ranking := []domain.TopProduct{}
	for _, sale := range sales {
		for _, line := range sale.Lines {
			i, ok := index[line.SKU]
			if !ok {
				i = len(ranking)
				index[line.SKU] = i
				ranking = append(ranking, domain.TopProduct{SKU: line.SKU, Name: line.Name})
			}
			ranking[i].UnitsSold += line.Quantity
		}
	}

	// Stable sort keeps first-encountered order on ties.
	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].UnitsSold > ranking[j].UnitsSold
	})
	if len(ranking) > limit {
		ranking = ranking[:limit]
	}
	return ranking, nil
}

func (s *salesServiceImpl) TotalRevenue(ctx context.Context) (float64, error) {
	sales, err := s.repo.List(ctx)
	if err != nil {
		return 0, err
	}
	return sumTotals(sales), nil
}

func (s *salesServiceImpl) RevenueInRange(ctx context.Context, from, to time.Time) (float64, error) {
	sales, err := s.SalesInRange(ctx, from, to)
	if err != nil {
		return 0, err
	}
	return sumTotals(sales), nil
}

func sumTotals(sales []domain.Sale) float64 {
	revenue := decimal.Zero
	for _, sale := range sales {
		revenue = revenue.Add(decimal.NewFromFloat(sale.Total))
	}
	return revenue.Round(2).InexactFloat64()
}

// AggregateDaily groups sales by calendar day. Buckets come out in
// first-seen order, which for the append-only ledger is chronological
// first-sale order.
func AggregateDaily(sales []domain.Sale) []domain.Statistic {
	return aggregateByPeriod(sales, "2006-01-02")
}

// AggregateMonthly groups sales by year-month.
func AggregateMonthly(sales []domain.Sale) []domain.Statistic {
	return aggregateByPeriod(sales, "2006-01")
}

func aggregateByPeriod(sales []domain.Sale, layout string) []domain.Statistic {
	index := make(map[string]int)
	stats := []domain.Statistic{}
	for _, sale := range sales {
		period := sale.Date.Format(layout)
		i, ok := index[period]
		if !ok {
			i = len(stats)
			index[period] = i
			stats = append(stats, domain.Statistic{Period: period})
		}
		stats[i].SaleCount++
		stats[i].UnitsSold += sale.UnitCount()
		stats[i].Revenue = decimal.NewFromFloat(stats[i].Revenue).
			Add(decimal.NewFromFloat(sale.Total)).Round(2).InexactFloat64()
	}
	return stats
}

func (s *salesServiceImpl) Subscribe(listener func([]domain.Sale)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subSeq++
	id := s.subSeq
	s.listeners[id] = listener
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *salesServiceImpl) notify(ctx context.Context) {
	sales, err := s.repo.List(ctx)
	if err != nil {
		logger.Error("Svc.notify: failed to read ledger for subscribers", err)
		return
	}
	s.subMu.Lock()
	defer s.subMu.Unlock()
	for _, listener := range s.listeners {
		listener(sales)
	}
}
