// Package testutil provides an in-memory catalog database and seed helpers
// for repository and usecase tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/database"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// NewDB returns a migrated in-memory SQLite database closed at test cleanup.
// A single connection keeps every query on the same in-memory database.
func NewDB(t *testing.T) *sqlx.DB {
	t.Helper()

	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.Migrate(context.Background(), db))
	return db
}

// Clock hands out strictly increasing UTC timestamps so "newest first"
// orderings are deterministic.
type Clock struct {
	now time.Time
}

func NewClock() *Clock {
	return &Clock{now: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *Clock) Next() time.Time {
	c.now = c.now.Add(time.Minute)
	return c.now
}

func SeedCategory(t *testing.T, db *sqlx.DB, clock *Clock, slug, name string) *model.Category {
	t.Helper()

	now := clock.Next()
	c := &model.Category{
		BaseModel: model.BaseModel{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now},
		Slug:      slug,
		Name:      name,
	}
	_, err := db.NamedExec(`
		INSERT INTO categories (id, slug, name, description, image_url, created_at, updated_at)
		VALUES (:id, :slug, :name, :description, :image_url, :created_at, :updated_at)`, c)
	require.NoError(t, err)
	return c
}

// ProductSeed lists the fields tests usually vary; the rest get defaults.
type ProductSeed struct {
	Slug         string
	Name         string
	Price        string
	ComparePrice string
	CategoryID   string
	Stock        int
	Featured     bool
	Inactive     bool
	Rating       float64
}

func SeedProduct(t *testing.T, db *sqlx.DB, clock *Clock, s ProductSeed) *model.Product {
	t.Helper()

	now := clock.Next()
	price := s.Price
	if price == "" {
		price = "10"
	}
	p := &model.Product{
		BaseModel:     model.BaseModel{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now},
		Slug:          s.Slug,
		Name:          s.Name,
		Price:         decimal.RequireFromString(price),
		CategoryID:    s.CategoryID,
		Images:        model.ImageList{},
		StockQuantity: s.Stock,
		IsFeatured:    s.Featured,
		IsActive:      !s.Inactive,
		Rating:        s.Rating,
	}
	if s.ComparePrice != "" {
		p.ComparePrice = decimal.NewNullDecimal(decimal.RequireFromString(s.ComparePrice))
	}

	_, err := db.NamedExec(`
		INSERT INTO products (
			id, slug, name, description, price, compare_price, category_id, image_url, images,
			stock_quantity, is_featured, is_active, rating, review_count, created_at, updated_at
		) VALUES (
			:id, :slug, :name, :description, :price, :compare_price, :category_id, :image_url, :images,
			:stock_quantity, :is_featured, :is_active, :rating, :review_count, :created_at, :updated_at
		)`, p)
	require.NoError(t, err)
	return p
}
