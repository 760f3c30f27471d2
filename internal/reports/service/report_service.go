package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	inventorydomain "github.com/armonia-music/pos-backend/internal/inventory/domain"
	inventoryservice "github.com/armonia-music/pos-backend/internal/inventory/service"
	salesdomain "github.com/armonia-music/pos-backend/internal/sales/domain"
	salesservice "github.com/armonia-music/pos-backend/internal/sales/service"
)

var (
	ErrUnknownView   = errors.New("unknown report view")
	ErrInvalidWindow = errors.New("start date cannot be after end date")
)

// ReportView is the selector state of the reporting screen. Each view
// recomputes its data from the live ledgers on entry; nothing is cached
// across selections and the selection itself is not persisted.
type ReportView string

const (
	ViewSales       ReportView = "ventas"
	ViewInventory   ReportView = "inventario"
	ViewTopProducts ReportView = "productos-mas-vendidos"
)

// SalesSource is the slice of the sales ledger the reports need.
type SalesSource interface {
	Sales(ctx context.Context) ([]salesdomain.Sale, error)
	SalesInRange(ctx context.Context, from, to time.Time) ([]salesdomain.Sale, error)
	TopSellingProducts(ctx context.Context, limit int) ([]salesdomain.TopProduct, error)
	TotalRevenue(ctx context.Context) (float64, error)
}

// InventorySource is the slice of the inventory ledger the reports need.
type InventorySource interface {
	List(ctx context.Context) ([]inventorydomain.Product, error)
	LowStock(ctx context.Context, threshold int) ([]inventorydomain.Product, error)
}

// Report is the active aggregate set for one view.
type Report struct {
	View        ReportView                `json:"view"`
	From        time.Time                 `json:"from"`
	To          time.Time                 `json:"to"`
	Statistics  []salesdomain.Statistic   `json:"statistics,omitempty"`
	Products    []inventorydomain.Product `json:"products,omitempty"`
	LowStock    []inventorydomain.Product `json:"low_stock,omitempty"`
	TopProducts []salesdomain.TopProduct  `json:"top_products,omitempty"`
}

// Summary is the headline panel shown above every view.
type Summary struct {
	TotalSales         int     `json:"total_sales"`
	TotalRevenue       float64 `json:"total_revenue"`
	ProductsInStock    int     `json:"products_in_stock"`
	ProductsOutOfStock int     `json:"products_out_of_stock"`
}

type ReportService interface {
	// Select switches the active view and recomputes it.
	Select(ctx context.Context, view ReportView) (*Report, error)
	// SetWindow sets the inclusive date window applied to the sales view.
	SetWindow(from, to time.Time) error
	// Generate recomputes the active view from current ledger state.
	Generate(ctx context.Context) (*Report, error)
	Summary(ctx context.Context) (*Summary, error)
	// ExportCSV flattens the active view into delimited text. String-typed
	// fields are double-quoted, numbers are not; embedded quotes and commas
	// are not escaped.
	ExportCSV(ctx context.Context) (filename, content string, err error)
}

type reportServiceImpl struct {
	sales     SalesSource
	inventory InventorySource

	mu   sync.Mutex
	view ReportView
	from time.Time
	to   time.Time
}

// NewReportService starts on the sales view with the last 30 days selected.
func NewReportService(sales SalesSource, inventory InventorySource) ReportService {
	now := time.Now()
	return &reportServiceImpl{
		sales:     sales,
		inventory: inventory,
		view:      ViewSales,
		from:      now.AddDate(0, 0, -30),
		to:        now,
	}
}

func (s *reportServiceImpl) Select(ctx context.Context, view ReportView) (*Report, error) {
	switch view {
	case ViewSales, ViewInventory, ViewTopProducts:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownView, view)
	}
	s.mu.Lock()
	s.view = view
	s.mu.Unlock()
	return s.Generate(ctx)
}

func (s *reportServiceImpl) SetWindow(from, to time.Time) error {
	if from.After(to) {
		return ErrInvalidWindow
	}
	s.mu.Lock()
	s.from, s.to = from, to
	s.mu.Unlock()
	return nil
}

func (s *reportServiceImpl) Generate(ctx context.Context) (*Report, error) {
	s.mu.Lock()
	view, from, to := s.view, s.from, s.to
	s.mu.Unlock()

	report := &Report{View: view, From: from, To: to}
	switch view {
	case ViewSales:
		sales, err := s.sales.SalesInRange(ctx, from, to)
		if err != nil {
			return nil, err
		}
		report.Statistics = salesservice.AggregateDaily(sales)
	case ViewInventory:
		products, err := s.inventory.List(ctx)
		if err != nil {
			return nil, err
		}
		low, err := s.inventory.LowStock(ctx, inventoryservice.DefaultLowStockThreshold)
		if err != nil {
			return nil, err
		}
		report.Products = products
		report.LowStock = low
	case ViewTopProducts:
		top, err := s.sales.TopSellingProducts(ctx, salesservice.DefaultTopLimit)
		if err != nil {
			return nil, err
		}
		report.TopProducts = top
	}
	return report, nil
}

func (s *reportServiceImpl) Summary(ctx context.Context) (*Summary, error) {
	sales, err := s.sales.Sales(ctx)
	if err != nil {
		return nil, err
	}
	revenue, err := s.sales.TotalRevenue(ctx)
	if err != nil {
		return nil, err
	}
	products, err := s.inventory.List(ctx)
	if err != nil {
		return nil, err
	}

	summary := &Summary{TotalSales: len(sales), TotalRevenue: revenue}
	for _, p := range products {
		if p.Stock > 0 {
			summary.ProductsInStock++
		} else {
			summary.ProductsOutOfStock++
		}
	}
	return summary, nil
}

func (s *reportServiceImpl) ExportCSV(ctx context.Context) (string, string, error) {
	report, err := s.Generate(ctx)
	if err != nil {
		return "", "", err
	}

	var headers []string
	var rows [][]string
	switch report.View {
	case ViewSales:
		headers = []string{"period", "sale_count", "units_sold", "revenue"}
		for _, st := range report.Statistics {
			rows = append(rows, []string{
				quoted(st.Period),
				strconv.Itoa(st.SaleCount),
				strconv.Itoa(st.UnitsSold),
				formatNumber(st.Revenue),
			})
		}
	case ViewInventory:
		headers = []string{"sku", "name", "stock", "price", "category", "description"}
		for _, p := range report.Products {
			rows = append(rows, []string{
				quoted(p.SKU),
				quoted(p.Name),
				strconv.Itoa(p.Stock),
				formatNumber(p.Price),
				quoted(p.Category),
				quoted(p.Description),
			})
		}
	case ViewTopProducts:
		headers = []string{"sku", "name", "units_sold"}
		for _, tp := range report.TopProducts {
			rows = append(rows, []string{
				quoted(tp.SKU),
				quoted(tp.Name),
				strconv.Itoa(tp.UnitsSold),
			})
		}
	}

	filename := fmt.Sprintf("reporte-%s-%s.csv", report.View, time.Now().Format("2006-01-02"))
	return filename, buildCSV(headers, rows), nil
}

func buildCSV(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}
	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, strings.Join(headers, ","))
	for _, row := range rows {
		lines = append(lines, strings.Join(row, ","))
	}
	return strings.Join(lines, "\n")
}

func quoted(value string) string {
	return `"` + value + `"`
}

func formatNumber(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
