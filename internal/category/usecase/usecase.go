package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/apperror"
	"github.com/fekuna/omnipos-storefront-service/internal/category"
	"github.com/fekuna/omnipos-storefront-service/internal/category/dto"
	"github.com/fekuna/omnipos-storefront-service/internal/logger"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

type categoryUseCase struct {
	repo   category.Repository
	logger logger.ZapLogger
}

func NewCategoryUseCase(repo category.Repository, log logger.ZapLogger) category.UseCase {
	return &categoryUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *categoryUseCase) CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error) {
	const op = "category.CreateCategory"

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.Validation(op, "name is required")
	}

	catSlug := slug.Make(input.Slug)
	if catSlug == "" {
		catSlug = slug.Make(name)
	}
	if catSlug == "" {
		return nil, apperror.Validation(op, "name does not produce a usable slug")
	}

	unique, err := uc.repo.IsSlugUnique(ctx, catSlug)
	if err != nil {
		return nil, apperror.Storage(op, err)
	}
	if !unique {
		return nil, apperror.Validation(op, "slug already exists")
	}

	now := time.Now().UTC()
	cat := &model.Category{
		BaseModel: model.BaseModel{
			ID:        uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Slug:        catSlug,
		Name:        name,
		Description: input.Description,
		ImageURL:    input.ImageURL,
	}

	if err := uc.repo.Create(ctx, cat); err != nil {
		return nil, apperror.Storage(op, err)
	}

	uc.logger.Info("category created", zap.String("category_id", cat.ID), zap.String("slug", cat.Slug))
	return cat, nil
}

func (uc *categoryUseCase) GetCategoryBySlug(ctx context.Context, slug string) (*model.Category, error) {
	const op = "category.GetCategoryBySlug"

	cat, err := uc.repo.FindBySlug(ctx, strings.TrimSpace(slug))
	if err != nil {
		return nil, apperror.Storage(op, err)
	}
	if cat == nil {
		return nil, apperror.NotFound(op, "category not found")
	}
	return cat, nil
}

func (uc *categoryUseCase) ListCategories(ctx context.Context) ([]model.Category, error) {
	categories, err := uc.repo.FindAll(ctx)
	if err != nil {
		return nil, apperror.Storage("category.ListCategories", err)
	}
	return categories, nil
}
