package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/product/query"
	"github.com/jmoiron/sqlx"
)

const productColumns = `id, slug, name, description, price, compare_price, category_id, image_url, images,
	stock_quantity, is_featured, is_active, rating, review_count, created_at, updated_at`

// newestFirst is the storage default order. id breaks ties between rows
// created in the same instant.
const newestFirst = ` ORDER BY created_at DESC, id ASC`

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, p *model.Product) error {
	query := `
        INSERT INTO products (
            id, slug, name, description, price, compare_price, category_id, image_url, images,
            stock_quantity, is_featured, is_active, rating, review_count, created_at, updated_at
        )
        VALUES (
            :id, :slug, :name, :description, :price, :compare_price, :category_id, :image_url, :images,
            :stock_quantity, :is_featured, :is_active, :rating, :review_count, :created_at, :updated_at
        )
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	return err
}

func (r *PGRepository) Update(ctx context.Context, p *model.Product) error {
	query := `
        UPDATE products
        SET slug = :slug,
            name = :name,
            description = :description,
            price = :price,
            compare_price = :compare_price,
            category_id = :category_id,
            image_url = :image_url,
            images = :images,
            stock_quantity = :stock_quantity,
            is_featured = :is_featured,
            is_active = :is_active,
            updated_at = :updated_at
        WHERE id = :id
    `
	_, err := r.DB.NamedExecContext(ctx, query, p)
	return err
}

// FindByID ignores the active flag; admin paths need inactive rows too.
func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	query := r.DB.Rebind(`SELECT ` + productColumns + ` FROM products WHERE id = ? LIMIT 1`)
	err := r.DB.GetContext(ctx, &product, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *PGRepository) FindActiveBySlug(ctx context.Context, slug string) ([]model.Product, error) {
	products := []model.Product{}
	query := r.DB.Rebind(`SELECT ` + productColumns + ` FROM products WHERE slug = ? AND is_active = ?` + newestFirst + ` LIMIT 2`)
	if err := r.DB.SelectContext(ctx, &products, query, slug, true); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *PGRepository) FindActiveByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	products := []model.Product{}
	if len(ids) == 0 {
		return products, nil
	}

	query, args, err := sqlx.In(`SELECT `+productColumns+` FROM products WHERE id IN (?) AND is_active = ?`, ids, true)
	if err != nil {
		return nil, err
	}
	query = r.DB.Rebind(query)

	if err := r.DB.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *PGRepository) FindAll(ctx context.Context, f query.Filter, categoryID string) ([]model.Product, error) {
	conditions, args := query.Predicates(f, categoryID)
	q := `SELECT ` + productColumns + ` FROM products WHERE ` + strings.Join(conditions, " AND ") + newestFirst
	if f.Limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", f.Limit)
	}
	return r.selectNamed(ctx, q, args)
}

func (r *PGRepository) SearchByName(ctx context.Context, term string, limit int) ([]model.Product, error) {
	clause, pattern := query.NameContains(term)
	q := `SELECT ` + productColumns + ` FROM products WHERE is_active = :is_active AND ` + clause + newestFirst
	if limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", limit)
	}
	return r.selectNamed(ctx, q, map[string]interface{}{
		"is_active":    true,
		"name_pattern": pattern,
	})
}

func (r *PGRepository) selectNamed(ctx context.Context, q string, args map[string]interface{}) ([]model.Product, error) {
	nstmt, err := r.DB.PrepareNamedContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer nstmt.Close()

	products := []model.Product{}
	if err := nstmt.SelectContext(ctx, &products, args); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *PGRepository) IsSlugUnique(ctx context.Context, slug, excludeID string) (bool, error) {
	var count int
	query := `SELECT count(*) FROM products WHERE slug = ?`
	args := []interface{}{slug}
	if excludeID != "" {
		query += ` AND id <> ?`
		args = append(args, excludeID)
	}

	err := r.DB.GetContext(ctx, &count, r.DB.Rebind(query), args...)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}
