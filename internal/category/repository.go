package category

import (
	"context"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, category *model.Category) error
	FindByID(ctx context.Context, id string) (*model.Category, error)
	FindBySlug(ctx context.Context, slug string) (*model.Category, error)
	FindAll(ctx context.Context) ([]model.Category, error)

	// Batch lookup used to attach category summaries to product reads
	FindSummariesByIDs(ctx context.Context, ids []string) ([]model.CategorySummary, error)

	IsSlugUnique(ctx context.Context, slug string) (bool, error)
}
