package handlers

import (
	"encoding/json"

	"github.com/rogerio-castellano/stockly/internal/models"
)

type NamedRequest struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// ProductRequest accepts price and quantity as JSON numbers or numeric strings.
type ProductRequest struct {
	Name     string      `json:"name" validate:"required,max=200"`
	SKU      string      `json:"sku" validate:"required,max=64"`
	Price    json.Number `json:"price" validate:"required" swaggertype:"number"`
	Quantity json.Number `json:"quantity,omitempty" swaggertype:"integer"`
	Category string      `json:"category,omitempty" validate:"max=100"`
	Supplier string      `json:"supplier,omitempty" validate:"max=100"`
	Status   string      `json:"status,omitempty" validate:"max=50"`
}

type ProductResponse struct {
	models.Product
	LowStock   bool `json:"lowStock"`
	OutOfStock bool `json:"outOfStock"`
}

func toProductResponse(p models.Product) ProductResponse {
	return ProductResponse{Product: p, LowStock: p.LowStock(), OutOfStock: p.OutOfStock()}
}

func toProductResponses(products []models.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p)
	}
	return out
}

type Meta struct {
	TotalCount int `json:"total_count"`
}

type ProductsSearchResult struct {
	Data []ProductResponse `json:"data"`
	Meta Meta              `json:"meta,omitempty"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResult struct {
	Token string `json:"token"`
}

type RegisterResult struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type SessionResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ImportProductsResult struct {
	ImportedProductsCount int                      `json:"imported"`
	Errors                []ProductValidationError `json:"errors"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
