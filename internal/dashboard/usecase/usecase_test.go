package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/dashboard/repository"
	"github.com/fekuna/omnipos-storefront-service/internal/logger"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStats(t *testing.T) {
	db := testutil.NewDB(t)
	clock := testutil.NewClock()
	toys := testutil.SeedCategory(t, db, clock, "toys", "Toys")
	testutil.SeedCategory(t, db, clock, "books", "Books")
	kite := testutil.SeedProduct(t, db, clock, testutil.ProductSeed{Slug: "kite", Name: "Kite", CategoryID: toys.ID, Stock: 2, Featured: true})
	testutil.SeedProduct(t, db, clock, testutil.ProductSeed{Slug: "ball", Name: "Ball", CategoryID: toys.ID, Stock: 5})
	testutil.SeedProduct(t, db, clock, testutil.ProductSeed{Slug: "drum", Name: "Drum", CategoryID: toys.ID, Stock: 40, Featured: true})
	testutil.SeedProduct(t, db, clock, testutil.ProductSeed{Slug: "old", Name: "Old", CategoryID: toys.ID, Stock: 0, Featured: true, Inactive: true})

	now := time.Now().UTC()
	for _, it := range []model.CartItem{
		{UserID: "u1", ProductID: kite.ID, Quantity: 1},
		{UserID: "u2", ProductID: kite.ID, Quantity: 1},
	} {
		_, err := db.NamedExec(`INSERT INTO cart_items (user_id, product_id, quantity, created_at, updated_at)
			VALUES (:user_id, :product_id, :quantity, :created_at, :updated_at)`,
			map[string]interface{}{
				"user_id": it.UserID, "product_id": it.ProductID, "quantity": it.Quantity,
				"created_at": now, "updated_at": now,
			})
		require.NoError(t, err)
	}

	uc := NewDashboardUseCase(repository.NewPGRepository(db), 5, logger.NewNop())
	stats, err := uc.GetStats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, model.DashboardStats{
		TotalProducts:    4,
		ActiveProducts:   3,
		FeaturedProducts: 2,
		TotalCategories:  2,
		UsersWithCarts:   2,
		LowStockProducts: 2,
	}, *stats)
}
