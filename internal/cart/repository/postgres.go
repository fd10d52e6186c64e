package repository

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) FindByUser(ctx context.Context, userID string) ([]model.CartItem, error) {
	items := []model.CartItem{}
	query := r.DB.Rebind(`
        SELECT c.user_id, c.product_id, c.quantity, c.created_at, c.updated_at,
               p.id AS "product.id",
               p.name AS "product.name",
               p.slug AS "product.slug",
               p.price AS "product.price",
               p.image_url AS "product.image_url",
               p.stock_quantity AS "product.stock_quantity"
        FROM cart_items c
        JOIN products p ON p.id = c.product_id
        WHERE c.user_id = ?
        ORDER BY c.created_at ASC, c.product_id ASC
    `)
	if err := r.DB.SelectContext(ctx, &items, query, userID); err != nil {
		return nil, err
	}
	return items, nil
}

// Upsert keeps created_at of an existing row so insertion order is stable.
func (r *PGRepository) Upsert(ctx context.Context, item *model.CartItem) error {
	query := `
        INSERT INTO cart_items (user_id, product_id, quantity, created_at, updated_at)
        VALUES (:user_id, :product_id, :quantity, :created_at, :updated_at)
        ON CONFLICT (user_id, product_id)
        DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = EXCLUDED.updated_at
    `
	_, err := r.DB.NamedExecContext(ctx, query, item)
	return err
}

func (r *PGRepository) UpdateQuantity(ctx context.Context, userID, productID string, quantity int, updatedAt time.Time) (bool, error) {
	query := r.DB.Rebind(`UPDATE cart_items SET quantity = ?, updated_at = ? WHERE user_id = ? AND product_id = ?`)
	res, err := r.DB.ExecContext(ctx, query, quantity, updatedAt, userID, productID)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *PGRepository) Delete(ctx context.Context, userID, productID string) error {
	query := r.DB.Rebind(`DELETE FROM cart_items WHERE user_id = ? AND product_id = ?`)
	_, err := r.DB.ExecContext(ctx, query, userID, productID)
	return err
}

func (r *PGRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	query := r.DB.Rebind(`DELETE FROM cart_items WHERE user_id = ?`)
	res, err := r.DB.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
