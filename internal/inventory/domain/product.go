package domain

// Product is one stock-keeping unit of the catalog. The SKU is the immutable
// identity; everything else can be rewritten by an admin edit.
type Product struct {
	SKU         string  `json:"sku" binding:"required"`
	Name        string  `json:"name" binding:"required"`
	Stock       int     `json:"stock" binding:"min=0"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Category    string  `json:"category,omitempty"`
	Description string  `json:"description,omitempty"`
}

type UpdateStockRequest struct {
	Stock int `json:"stock" binding:"min=0"`
}
