package repository

import (
	"context"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

// Stats reads every counter in one round trip.
func (r *PGRepository) Stats(ctx context.Context, lowStockThreshold int) (*model.DashboardStats, error) {
	query := `
        SELECT
            (SELECT count(*) FROM products) AS total_products,
            (SELECT count(*) FROM products WHERE is_active = :active) AS active_products,
            (SELECT count(*) FROM products WHERE is_active = :active AND is_featured = :featured) AS featured_products,
            (SELECT count(*) FROM categories) AS total_categories,
            (SELECT count(DISTINCT user_id) FROM cart_items) AS users_with_carts,
            (SELECT count(*) FROM products WHERE is_active = :active AND stock_quantity <= :low_stock) AS low_stock_products
    `
	nstmt, err := r.DB.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer nstmt.Close()

	var stats model.DashboardStats
	err = nstmt.GetContext(ctx, &stats, map[string]interface{}{
		"active":    true,
		"featured":  true,
		"low_stock": lowStockThreshold,
	})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
