package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type Product struct {
	BaseModel
	Slug          string              `db:"slug" json:"slug"`
	Name          string              `db:"name" json:"name"`
	Description   string              `db:"description" json:"description"`
	Price         decimal.Decimal     `db:"price" json:"price"`
	ComparePrice  decimal.NullDecimal `db:"compare_price" json:"compare_price"` // list price, nullable
	CategoryID    string              `db:"category_id" json:"category_id"`
	ImageURL      string              `db:"image_url" json:"image_url"`
	Images        ImageList           `db:"images" json:"images"`
	StockQuantity int                 `db:"stock_quantity" json:"stock_quantity"`
	IsFeatured    bool                `db:"is_featured" json:"is_featured"`
	IsActive      bool                `db:"is_active" json:"is_active"`
	Rating        float64             `db:"rating" json:"rating"`
	ReviewCount   int                 `db:"review_count" json:"review_count"`
	Category      *CategorySummary    `db:"-" json:"category,omitempty"` // Joined data
}

// DiscountPercent is the whole-number markdown from the compare price, or 0
// when there is no compare price above the selling price.
func (p *Product) DiscountPercent() int {
	if !p.ComparePrice.Valid {
		return 0
	}
	list := p.ComparePrice.Decimal
	if !list.IsPositive() || !list.GreaterThan(p.Price) {
		return 0
	}
	return int(list.Sub(p.Price).Div(list).Mul(hundred).Round(0).IntPart())
}

func (p *Product) InStock() bool {
	return p.StockQuantity > 0
}

// ImageList is an ordered list of image URLs stored as a JSON array column.
type ImageList []string

func (l ImageList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *ImageList) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = ImageList{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("model: cannot scan %T into ImageList", src)
	}

	var urls []string
	if err := json.Unmarshal(raw, &urls); err != nil {
		return fmt.Errorf("model: decode images: %w", err)
	}
	if urls == nil {
		urls = []string{}
	}
	*l = urls
	return nil
}
