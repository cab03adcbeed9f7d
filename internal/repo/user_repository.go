package repo

import (
	"context"

	"github.com/rogerio-castellano/stockly/internal/models"
)

type UserRepository interface {
	CreateUser(ctx context.Context, u models.User) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
}
