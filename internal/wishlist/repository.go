package wishlist

import (
	"context"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
)

type Repository interface {
	// No-op when the pair already exists
	Add(ctx context.Context, item *model.WishlistItem) error
	Remove(ctx context.Context, userID, productID string) error
	Exists(ctx context.Context, userID, productID string) (bool, error)

	// Active products only, most recently saved first
	ListProducts(ctx context.Context, userID string) ([]model.Product, error)
}
