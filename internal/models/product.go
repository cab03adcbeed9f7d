package models

import "time"

// UnknownLabel is used for products with no category, supplier or status.
const UnknownLabel = "Unknown"

// Product represents a product entity in the inventory system.
type Product struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	SKU       string    `json:"sku"`
	Price     float64   `json:"price"`
	Quantity  int       `json:"quantity"`
	Category  string    `json:"category"`
	Supplier  string    `json:"supplier"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Value is the stock value held for the product.
func (p Product) Value() float64 {
	return p.Price * float64(p.Quantity)
}

// LowStock reports whether the product has some units left but no more than 20.
func (p Product) LowStock() bool {
	return p.Quantity > 0 && p.Quantity <= 20
}

// OutOfStock reports whether the product has no units left.
func (p Product) OutOfStock() bool {
	return p.Quantity == 0
}
