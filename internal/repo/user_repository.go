package repo

import (
	"context"

	"github.com/rogerio-castellano/stock-ledger/internal/models"
)

type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (models.User, error)
	CreateUser(ctx context.Context, u models.User) (models.User, error)
}
