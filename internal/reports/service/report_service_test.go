package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	inventorydomain "github.com/armonia-music/pos-backend/internal/inventory/domain"
	inventoryrepo "github.com/armonia-music/pos-backend/internal/inventory/repository"
	inventoryservice "github.com/armonia-music/pos-backend/internal/inventory/service"
	"github.com/armonia-music/pos-backend/internal/platform/storage"
	salesdomain "github.com/armonia-music/pos-backend/internal/sales/domain"
	"github.com/armonia-music/pos-backend/internal/sales/repository/mocks"
	salesservice "github.com/armonia-music/pos-backend/internal/sales/service"
)

func fixedLedger() []salesdomain.Sale {
	line := func(sku, name string, qty int) salesdomain.SaleLine {
		return salesdomain.SaleLine{
			Product:  inventorydomain.Product{SKU: sku, Name: name, Price: 100},
			Quantity: qty,
		}
	}
	return []salesdomain.Sale{
		{ID: "VTA-1", Date: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC), Total: 116, Lines: []salesdomain.SaleLine{line("A", "Guitarra", 1)}},
		{ID: "VTA-2", Date: time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC), Total: 232, Lines: []salesdomain.SaleLine{line("A", "Guitarra", 2)}},
		{ID: "VTA-3", Date: time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC), Total: 348, Lines: []salesdomain.SaleLine{line("B", "Teclado", 3)}},
	}
}

func newReportService(t *testing.T) (ReportService, *mocks.MockSalesRepository) {
	t.Helper()
	ctx := context.TODO()

	mockSalesRepo := new(mocks.MockSalesRepository)
	sales := salesservice.NewSalesService(mockSalesRepo)

	invRepo, err := inventoryrepo.NewStoreProductRepository(ctx, storage.NewMemoryStore())
	assert.NoError(t, err)
	inventory := inventoryservice.NewInventoryService(invRepo)

	return NewReportService(sales, inventory), mockSalesRepo
}

func TestReportService_Select(t *testing.T) {
	ctx := context.TODO()

	t.Run("Unknown view is rejected", func(t *testing.T) {
		svc, _ := newReportService(t)
		_, err := svc.Select(ctx, ReportView("nomina"))
		assert.ErrorIs(t, err, ErrUnknownView)
	})

	t.Run("Inventory view carries catalog and low stock", func(t *testing.T) {
		svc, _ := newReportService(t)

		report, err := svc.Select(ctx, ViewInventory)
		assert.NoError(t, err)
		assert.Equal(t, ViewInventory, report.View)
		assert.NotEmpty(t, report.Products)
		assert.NotEmpty(t, report.LowStock)
		assert.Empty(t, report.Statistics)
	})

	t.Run("Top products view ranks from the ledger", func(t *testing.T) {
		svc, mockRepo := newReportService(t)
		mockRepo.On("List", ctx).Return(fixedLedger(), nil).Once()

		report, err := svc.Select(ctx, ViewTopProducts)
		assert.NoError(t, err)
		assert.Len(t, report.TopProducts, 2)
		assert.Equal(t, "A", report.TopProducts[0].SKU)
		assert.Equal(t, 3, report.TopProducts[0].UnitsSold)
	})
}

func TestReportService_Window(t *testing.T) {
	ctx := context.TODO()

	t.Run("Inverted window is rejected", func(t *testing.T) {
		svc, _ := newReportService(t)
		err := svc.SetWindow(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
		assert.ErrorIs(t, err, ErrInvalidWindow)
	})

	t.Run("Sales view re-aggregates only the windowed sales", func(t *testing.T) {
		svc, mockRepo := newReportService(t)
		mockRepo.On("List", ctx).Return(fixedLedger(), nil).Once()

		assert.NoError(t, svc.SetWindow(
			time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		))

		report, err := svc.Generate(ctx)
		assert.NoError(t, err)
		assert.Len(t, report.Statistics, 2, "April sale falls outside the window")
		assert.Equal(t, "2025-03-01", report.Statistics[0].Period)
		assert.Equal(t, 116.0, report.Statistics[0].Revenue)
	})
}

func TestReportService_Summary(t *testing.T) {
	ctx := context.TODO()
	svc, mockRepo := newReportService(t)
	mockRepo.On("List", ctx).Return(fixedLedger(), nil).Twice() // Sales + TotalRevenue

	summary, err := svc.Summary(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 3, summary.TotalSales)
	assert.Equal(t, 696.0, summary.TotalRevenue)
	assert.NotZero(t, summary.ProductsInStock)
	assert.Zero(t, summary.ProductsOutOfStock, "seed catalog has stock everywhere")
}

func TestReportService_ExportCSV(t *testing.T) {
	ctx := context.TODO()

	t.Run("Quotes string fields only", func(t *testing.T) {
		svc, mockRepo := newReportService(t)
		mockRepo.On("List", ctx).Return(fixedLedger(), nil).Once()

		_, err := svc.Select(ctx, ViewTopProducts)
		assert.NoError(t, err)

		mockRepo.On("List", ctx).Return(fixedLedger(), nil).Once()
		filename, content, err := svc.ExportCSV(ctx)
		assert.NoError(t, err)
		assert.Contains(t, filename, "reporte-productos-mas-vendidos-")

		expected := "sku,name,units_sold\n" +
			"\"A\",\"Guitarra\",3\n" +
			"\"B\",\"Teclado\",3"
		assert.Equal(t, expected, content)
	})

	t.Run("Empty dataset exports an empty document", func(t *testing.T) {
		svc, mockRepo := newReportService(t)
		mockRepo.On("List", ctx).Return([]salesdomain.Sale{}, nil).Twice()

		_, err := svc.Select(ctx, ViewSales)
		assert.NoError(t, err)

		_, content, err := svc.ExportCSV(ctx)
		assert.NoError(t, err)
		assert.Empty(t, content)
	})

	t.Run("Sales statistics export numeric revenue unquoted", func(t *testing.T) {
		svc, mockRepo := newReportService(t)

		assert.NoError(t, svc.SetWindow(
			time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		))
		mockRepo.On("List", ctx).Return(fixedLedger(), nil).Twice() // Select + ExportCSV

		_, err := svc.Select(ctx, ViewSales)
		assert.NoError(t, err)

		_, content, err := svc.ExportCSV(ctx)
		assert.NoError(t, err)
		expected := "period,sale_count,units_sold,revenue\n" +
			"\"2025-03-01\",1,1,116\n" +
			"\"2025-03-05\",1,2,232"
		assert.Equal(t, expected, content)
	})
}
