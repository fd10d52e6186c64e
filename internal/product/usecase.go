package product

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/product/dto"
	"github.com/fekuna/omnipos-storefront-service/internal/product/query"
	"github.com/fekuna/omnipos-storefront-service/internal/search"
)

type UseCase interface {
	ListProducts(ctx context.Context, filter query.Filter, order query.SortOrder) ([]model.Product, error)
	ListFeaturedProducts(ctx context.Context, limit int) ([]model.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*model.Product, error)
	ListProductsByCategory(ctx context.Context, categorySlug string, order query.SortOrder) ([]model.Product, error)
	SearchProducts(ctx context.Context, term string) ([]model.Product, error)

	// Admin ops
	CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error)
	DeactivateProduct(ctx context.Context, id string) error
	ReindexProducts(ctx context.Context) (int, error)
}

// Cache is the listing cache. Any Get error is treated as a miss.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeletePattern(ctx context.Context, pattern string) error
}

// SearchIndex is the full-text index kept in sync with product writes.
type SearchIndex interface {
	CreateIndex(ctx context.Context, index, mapping string) error
	Index(ctx context.Context, index, id string, doc interface{}) error
	Delete(ctx context.Context, index, id string) error
	Search(ctx context.Context, index string, query map[string]interface{}) (*search.SearchResponse, error)
}
