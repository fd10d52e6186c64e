package cart

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
)

type Repository interface {
	// Rows joined with the current product, oldest first
	FindByUser(ctx context.Context, userID string) ([]model.CartItem, error)

	// Insert, or overwrite the quantity of an existing (user, product) row
	Upsert(ctx context.Context, item *model.CartItem) error
	// Reports whether a row was changed
	UpdateQuantity(ctx context.Context, userID, productID string, quantity int, updatedAt time.Time) (bool, error)

	Delete(ctx context.Context, userID, productID string) error
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}
