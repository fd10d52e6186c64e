package product

import (
	"context"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/product/query"
)

type Repository interface {
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id string) (*model.Product, error)

	// Active rows only, at most two so callers can detect a duplicated slug
	FindActiveBySlug(ctx context.Context, slug string) ([]model.Product, error)
	FindActiveByIDs(ctx context.Context, ids []string) ([]model.Product, error)

	// Newest first. categoryID "" means every category.
	FindAll(ctx context.Context, filter query.Filter, categoryID string) ([]model.Product, error)
	SearchByName(ctx context.Context, term string, limit int) ([]model.Product, error)

	IsSlugUnique(ctx context.Context, slug, excludeID string) (bool, error)
}
