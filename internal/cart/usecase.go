package cart

import (
	"context"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
)

// UseCase is the per-user cart ledger. userID always comes from the verified
// caller identity, never from request input.
type UseCase interface {
	GetCartItems(ctx context.Context, userID string) ([]model.CartItem, error)
	GetCartSummary(ctx context.Context, userID string) (*model.CartSummary, error)
	AddToCart(ctx context.Context, userID, productID string, quantity int) error
	UpdateCartItem(ctx context.Context, userID, productID string, quantity int) error
	RemoveFromCart(ctx context.Context, userID, productID string) error
	ClearCart(ctx context.Context, userID string) error
}

// ProductLookup is the slice of the catalog the cart needs.
type ProductLookup interface {
	FindByID(ctx context.Context, id string) (*model.Product, error)
}
