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

func (r *PGRepository) Add(ctx context.Context, item *model.WishlistItem) error {
	query := `
        INSERT INTO wishlist (user_id, product_id, created_at)
        VALUES (:user_id, :product_id, :created_at)
        ON CONFLICT (user_id, product_id) DO NOTHING
    `
	_, err := r.DB.NamedExecContext(ctx, query, item)
	return err
}

func (r *PGRepository) Remove(ctx context.Context, userID, productID string) error {
	query := r.DB.Rebind(`DELETE FROM wishlist WHERE user_id = ? AND product_id = ?`)
	_, err := r.DB.ExecContext(ctx, query, userID, productID)
	return err
}

func (r *PGRepository) Exists(ctx context.Context, userID, productID string) (bool, error) {
	var count int
	query := r.DB.Rebind(`SELECT count(*) FROM wishlist WHERE user_id = ? AND product_id = ?`)
	if err := r.DB.GetContext(ctx, &count, query, userID, productID); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PGRepository) ListProducts(ctx context.Context, userID string) ([]model.Product, error) {
	products := []model.Product{}
	query := r.DB.Rebind(`
        SELECT p.id, p.slug, p.name, p.description, p.price, p.compare_price, p.category_id,
               p.image_url, p.images, p.stock_quantity, p.is_featured, p.is_active, p.rating,
               p.review_count, p.created_at, p.updated_at
        FROM wishlist w
        JOIN products p ON p.id = w.product_id
        WHERE w.user_id = ? AND p.is_active = ?
        ORDER BY w.created_at DESC, p.id ASC
    `)
	if err := r.DB.SelectContext(ctx, &products, query, userID, true); err != nil {
		return nil, err
	}
	return products, nil
}
