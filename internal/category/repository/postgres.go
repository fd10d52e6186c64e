package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/jmoiron/sqlx"
)

const categoryColumns = `id, slug, name, description, image_url, created_at, updated_at`

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) Create(ctx context.Context, c *model.Category) error {
	query := `
        INSERT INTO categories (id, slug, name, description, image_url, created_at, updated_at)
        VALUES (:id, :slug, :name, :description, :image_url, :created_at, :updated_at)
    `
	_, err := r.DB.NamedExecContext(ctx, query, c)
	return err
}

func (r *PGRepository) FindByID(ctx context.Context, id string) (*model.Category, error) {
	return r.findOne(ctx, "id", id)
}

func (r *PGRepository) FindBySlug(ctx context.Context, slug string) (*model.Category, error) {
	return r.findOne(ctx, "slug", slug)
}

// findOne returns nil, nil when no row matches. column is never user input.
func (r *PGRepository) findOne(ctx context.Context, column, value string) (*model.Category, error) {
	var category model.Category
	query := r.DB.Rebind(`SELECT ` + categoryColumns + ` FROM categories WHERE ` + column + ` = ? LIMIT 1`)
	err := r.DB.GetContext(ctx, &category, query, value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &category, nil
}

func (r *PGRepository) FindAll(ctx context.Context) ([]model.Category, error) {
	categories := []model.Category{}
	query := `SELECT ` + categoryColumns + ` FROM categories ORDER BY name ASC, id ASC`
	if err := r.DB.SelectContext(ctx, &categories, query); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *PGRepository) FindSummariesByIDs(ctx context.Context, ids []string) ([]model.CategorySummary, error) {
	if len(ids) == 0 {
		return []model.CategorySummary{}, nil
	}

	query, args, err := sqlx.In(`SELECT id, name, slug FROM categories WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	query = r.DB.Rebind(query)

	var summaries []model.CategorySummary
	err = r.DB.SelectContext(ctx, &summaries, query, args...)
	return summaries, err
}

func (r *PGRepository) IsSlugUnique(ctx context.Context, slug string) (bool, error) {
	var count int
	query := r.DB.Rebind(`SELECT count(*) FROM categories WHERE slug = ?`)
	if err := r.DB.GetContext(ctx, &count, query, slug); err != nil {
		return false, err
	}
	return count == 0, nil
}
