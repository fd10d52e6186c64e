package wishlist

import (
	"context"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
)

type UseCase interface {
	Add(ctx context.Context, userID, productID string) error
	Remove(ctx context.Context, userID, productID string) error
	// Reports whether the product is saved after the call
	Toggle(ctx context.Context, userID, productID string) (bool, error)
	List(ctx context.Context, userID string) ([]model.Product, error)
	Contains(ctx context.Context, userID, productID string) (bool, error)
}

type ProductLookup interface {
	FindByID(ctx context.Context, id string) (*model.Product, error)
}
