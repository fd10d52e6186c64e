package dto

import "github.com/shopspring/decimal"

type CreateProductInput struct {
	Slug          string // optional, generated from Name when empty
	Name          string
	Description   string
	Price         decimal.Decimal
	ComparePrice  *decimal.Decimal
	CategoryID    string
	ImageURL      string
	Images        []string
	StockQuantity int
	IsFeatured    bool
}

// UpdateProductInput replaces every editable field. IsActive nil keeps the
// current flag.
type UpdateProductInput struct {
	ID            string
	Slug          string
	Name          string
	Description   string
	Price         decimal.Decimal
	ComparePrice  *decimal.Decimal
	CategoryID    string
	ImageURL      string
	Images        []string
	StockQuantity int
	IsFeatured    bool
	IsActive      *bool
}
