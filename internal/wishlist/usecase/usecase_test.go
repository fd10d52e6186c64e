package usecase

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-storefront-service/internal/apperror"
	catRepoPkg "github.com/fekuna/omnipos-storefront-service/internal/category/repository"
	"github.com/fekuna/omnipos-storefront-service/internal/logger"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	prodRepoPkg "github.com/fekuna/omnipos-storefront-service/internal/product/repository"
	"github.com/fekuna/omnipos-storefront-service/internal/testutil"
	"github.com/fekuna/omnipos-storefront-service/internal/wishlist"
	wishRepoPkg "github.com/fekuna/omnipos-storefront-service/internal/wishlist/repository"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUseCase(db *sqlx.DB) wishlist.UseCase {
	return NewWishlistUseCase(
		wishRepoPkg.NewPGRepository(db),
		prodRepoPkg.NewPGRepository(db),
		catRepoPkg.NewPGRepository(db),
		logger.NewNop(),
	)
}

func seed(t *testing.T) (*sqlx.DB, *model.Product, *model.Product, *model.Product) {
	db := testutil.NewDB(t)
	clock := testutil.NewClock()
	cat := testutil.SeedCategory(t, db, clock, "home", "Home")
	lamp := testutil.SeedProduct(t, db, clock, testutil.ProductSeed{Slug: "lamp", Name: "Lamp", CategoryID: cat.ID})
	rug := testutil.SeedProduct(t, db, clock, testutil.ProductSeed{Slug: "rug", Name: "Rug", CategoryID: cat.ID})
	retired := testutil.SeedProduct(t, db, clock, testutil.ProductSeed{Slug: "vase", Name: "Vase", CategoryID: cat.ID, Inactive: true})
	return db, lamp, rug, retired
}

func TestToggle(t *testing.T) {
	db, lamp, _, _ := seed(t)
	uc := newUseCase(db)
	ctx := context.Background()

	saved, err := uc.Toggle(ctx, "u1", lamp.ID)
	require.NoError(t, err)
	assert.True(t, saved)

	ok, err := uc.Contains(ctx, "u1", lamp.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	saved, err = uc.Toggle(ctx, "u1", lamp.ID)
	require.NoError(t, err)
	assert.False(t, saved)

	ok, err = uc.Contains(ctx, "u1", lamp.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAddIsIdempotentAndListIsEnriched(t *testing.T) {
	db, lamp, rug, _ := seed(t)
	uc := newUseCase(db)
	ctx := context.Background()

	require.NoError(t, uc.Add(ctx, "u1", lamp.ID))
	require.NoError(t, uc.Add(ctx, "u1", rug.ID))
	require.NoError(t, uc.Add(ctx, "u1", rug.ID))
	require.NoError(t, uc.Add(ctx, "u2", lamp.ID))

	products, err := uc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, products, 2)
	for _, p := range products {
		require.NotNil(t, p.Category)
		assert.Equal(t, "home", p.Category.Slug)
	}

	require.NoError(t, uc.Remove(ctx, "u1", lamp.ID))
	require.NoError(t, uc.Remove(ctx, "u1", lamp.ID))

	products, err = uc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, rug.ID, products[0].ID)
}

func TestAdd_Rejections(t *testing.T) {
	db, _, _, retired := seed(t)
	uc := newUseCase(db)
	ctx := context.Background()

	assert.True(t, apperror.Is(uc.Add(ctx, "u1", retired.ID), apperror.KindNotFound))
	assert.True(t, apperror.Is(uc.Add(ctx, "u1", "ghost"), apperror.KindNotFound))
	assert.True(t, apperror.Is(uc.Add(ctx, "", "x"), apperror.KindValidation))

	_, err := uc.List(ctx, " ")
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestList_HidesDeactivatedProducts(t *testing.T) {
	db, lamp, _, _ := seed(t)
	uc := newUseCase(db)
	ctx := context.Background()

	require.NoError(t, uc.Add(ctx, "u1", lamp.ID))
	_, err := db.Exec(`UPDATE products SET is_active = ? WHERE id = ?`, false, lamp.ID)
	require.NoError(t, err)

	products, err := uc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, products)
}
