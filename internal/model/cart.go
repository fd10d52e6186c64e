package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type CartItem struct {
	UserID    string      `db:"user_id" json:"user_id"`
	ProductID string      `db:"product_id" json:"product_id"`
	Quantity  int         `db:"quantity" json:"quantity"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt time.Time   `db:"updated_at" json:"updated_at"`
	Product   CartProduct `db:"product" json:"product"` // Joined at read time
}

// CartProduct is the current product snapshot joined onto a cart row.
type CartProduct struct {
	ID            string          `db:"id" json:"id"`
	Name          string          `db:"name" json:"name"`
	Slug          string          `db:"slug" json:"slug"`
	Price         decimal.Decimal `db:"price" json:"price"`
	ImageURL      string          `db:"image_url" json:"image_url"`
	StockQuantity int             `db:"stock_quantity" json:"stock_quantity"`
}

func (i *CartItem) LineTotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type CartSummary struct {
	Items                []CartItem      `json:"items"`
	ItemCount            int             `json:"item_count"`
	Subtotal             decimal.Decimal `json:"subtotal"`
	Shipping             decimal.Decimal `json:"shipping"`
	Total                decimal.Decimal `json:"total"`
	AmountToFreeShipping decimal.Decimal `json:"amount_to_free_shipping"`
}
