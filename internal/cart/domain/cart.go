package domain

import (
	inventorydomain "github.com/armonia-music/pos-backend/internal/inventory/domain"
)

// CartLine is a product with the quantity currently in the cart. It only
// exists during an active cart session; checkout or cancel destroys it.
type CartLine struct {
	inventorydomain.Product
	Quantity int `json:"quantity"`
}

type AddItemRequest struct {
	SKU      string `json:"sku" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,gt=0"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}
