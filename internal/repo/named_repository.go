package repo

import (
	"context"

	"github.com/rogerio-castellano/stockly/internal/models"
)

const (
	CategoriesTable = "categories"
	SuppliersTable  = "suppliers"
)

// NamedRepository stores user-owned named records (categories, suppliers).
// Update and Delete only touch rows owned by the given user.
type NamedRepository interface {
	Create(ctx context.Context, rec models.Named) (models.Named, error)
	ListByUser(ctx context.Context, userID string) ([]models.Named, error)
	GetByID(ctx context.Context, userID, id string) (models.Named, error)
	Update(ctx context.Context, rec models.Named) (models.Named, error)
	Delete(ctx context.Context, userID, id string) error
}
