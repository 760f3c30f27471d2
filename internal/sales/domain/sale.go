package domain

import (
	"time"

	inventorydomain "github.com/armonia-music/pos-backend/internal/inventory/domain"
)

// TaxRate is the IVA applied to every sale.
const TaxRate = 0.16

// SaleLine is a denormalized product snapshot plus the quantity sold. The
// product fields (price and stock included) are frozen at sale time; later
// catalog edits do not rewrite history.
type SaleLine struct {
	inventorydomain.Product
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

// Sale is one completed checkout. Sales are append-only: once recorded they
// are never updated or deleted.
type Sale struct {
	ID       string     `json:"id"`
	Date     time.Time  `json:"date"`
	Lines    []SaleLine `json:"lines"`
	Subtotal float64    `json:"subtotal"`
	Tax      float64    `json:"tax"`
	Total    float64    `json:"total"`
	Seller   string     `json:"seller"`
	Customer string     `json:"customer,omitempty"`
}

// UnitCount is the number of units across all lines of the sale.
func (s Sale) UnitCount() int {
	units := 0
	for _, line := range s.Lines {
		units += line.Quantity
	}
	return units
}

// Statistic is a derived per-period aggregate. It is never stored; it is
// recomputed from the ledger on every read.
type Statistic struct {
	Period    string  `json:"period"`
	SaleCount int     `json:"sale_count"`
	UnitsSold int     `json:"units_sold"`
	Revenue   float64 `json:"revenue"`
}

// TopProduct is one entry of the best-sellers ranking.
type TopProduct struct {
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	UnitsSold int    `json:"units_sold"`
}
