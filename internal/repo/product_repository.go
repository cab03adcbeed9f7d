package repo

import (
	"context"

	"github.com/rogerio-castellano/stockly/internal/models"
)

// ProductRepository defines the product data operations. Every lookup and
// mutation is scoped to the owning user.
type ProductRepository interface {
	Create(ctx context.Context, product models.Product) (models.Product, error)
	GetAll(ctx context.Context, userID string) ([]models.Product, error)
	GetByID(ctx context.Context, userID, id string) (models.Product, error)
	GetBySKU(ctx context.Context, userID, sku string) (models.Product, error)
	Update(ctx context.Context, product models.Product) (models.Product, error)
	Delete(ctx context.Context, userID, id string) error
	Filter(ctx context.Context, pf ProductFilter) ([]models.Product, int, error)
}
