package usecase

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-storefront-service/internal/apperror"
	"github.com/fekuna/omnipos-storefront-service/internal/category/dto"
	"github.com/fekuna/omnipos-storefront-service/internal/category/repository"
	"github.com/fekuna/omnipos-storefront-service/internal/logger"
	"github.com/fekuna/omnipos-storefront-service/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCategory_GeneratesSlug(t *testing.T) {
	uc := NewCategoryUseCase(repository.NewPGRepository(testutil.NewDB(t)), logger.NewNop())

	cat, err := uc.CreateCategory(context.Background(), &dto.CreateCategoryInput{Name: "Home & Garden"})
	require.NoError(t, err)

	assert.Equal(t, "home-and-garden", cat.Slug)
	assert.NotEmpty(t, cat.ID)
}

func TestCreateCategory_RejectsDuplicateSlug(t *testing.T) {
	uc := NewCategoryUseCase(repository.NewPGRepository(testutil.NewDB(t)), logger.NewNop())
	ctx := context.Background()

	_, err := uc.CreateCategory(ctx, &dto.CreateCategoryInput{Name: "Books"})
	require.NoError(t, err)

	_, err = uc.CreateCategory(ctx, &dto.CreateCategoryInput{Name: "Other", Slug: "books"})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestCreateCategory_RequiresName(t *testing.T) {
	uc := NewCategoryUseCase(repository.NewPGRepository(testutil.NewDB(t)), logger.NewNop())

	_, err := uc.CreateCategory(context.Background(), &dto.CreateCategoryInput{Name: "   "})
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestGetCategoryBySlug(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.SeedCategory(t, db, testutil.NewClock(), "electronics", "Electronics")
	uc := NewCategoryUseCase(repository.NewPGRepository(db), logger.NewNop())

	cat, err := uc.GetCategoryBySlug(context.Background(), "electronics")
	require.NoError(t, err)
	assert.Equal(t, "Electronics", cat.Name)

	_, err = uc.GetCategoryBySlug(context.Background(), "missing")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestListCategories(t *testing.T) {
	db := testutil.NewDB(t)
	clock := testutil.NewClock()
	testutil.SeedCategory(t, db, clock, "z", "Zeta")
	testutil.SeedCategory(t, db, clock, "a", "Alpha")
	uc := NewCategoryUseCase(repository.NewPGRepository(db), logger.NewNop())

	categories, err := uc.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)
	assert.Equal(t, "Alpha", categories[0].Name)
}
