// Package query turns storefront filter settings into storage predicates and
// applies the presentation sort orders to fetched products.
package query

import (
	"strings"
	"unicode/utf8"

	"github.com/fekuna/omnipos-storefront-service/internal/apperror"
	"github.com/shopspring/decimal"
)

const (
	// AllCategories is the category value the storefront sends for "no filter".
	AllCategories = "all"

	MaxLimit = 100
)

type Filter struct {
	CategorySlug string
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	FeaturedOnly bool
	Limit        int // 0 means unlimited
}

func (f Filter) Validate() error {
	const op = "query.Filter.Validate"

	if f.MinPrice != nil && f.MinPrice.IsNegative() {
		return apperror.Validation(op, "min_price must not be negative")
	}
	if f.MaxPrice != nil && f.MaxPrice.IsNegative() {
		return apperror.Validation(op, "max_price must not be negative")
	}
	if f.MinPrice != nil && f.MaxPrice != nil && f.MinPrice.GreaterThan(*f.MaxPrice) {
		return apperror.Validation(op, "min_price must not exceed max_price")
	}
	if f.Limit < 0 {
		return apperror.Validation(op, "limit must not be negative")
	}
	if f.Limit > MaxLimit {
		return apperror.Validation(op, "limit is too large")
	}
	return nil
}

// Category returns the trimmed slug and whether it constrains the result.
func (f Filter) Category() (string, bool) {
	slug := strings.TrimSpace(f.CategorySlug)
	if slug == "" || slug == AllCategories {
		return "", false
	}
	return slug, true
}

// Predicates builds named-parameter WHERE fragments for a product listing.
// categoryID is the already-resolved category identity, or "" for none.
// The active-only constraint is always the first fragment.
func Predicates(f Filter, categoryID string) ([]string, map[string]interface{}) {
	conditions := []string{"is_active = :is_active"}
	args := map[string]interface{}{"is_active": true}

	if categoryID != "" {
		conditions = append(conditions, "category_id = :category_id")
		args["category_id"] = categoryID
	}
	if f.MinPrice != nil {
		conditions = append(conditions, "price >= :min_price")
		args["min_price"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		conditions = append(conditions, "price <= :max_price")
		args["max_price"] = *f.MaxPrice
	}
	if f.FeaturedOnly {
		conditions = append(conditions, "is_featured = :is_featured")
		args["is_featured"] = true
	}
	return conditions, args
}

// NameContains builds the case-insensitive substring predicate on product name.
func NameContains(term string) (string, interface{}) {
	return `LOWER(name) LIKE :name_pattern ESCAPE '\'`, "%" + EscapeLike(strings.ToLower(term)) + "%"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike escapes LIKE wildcards so the term matches literally.
func EscapeLike(term string) string {
	return likeEscaper.Replace(term)
}

// MaxTermLength bounds free-text search input, in runes.
const MaxTermLength = 100

// NormalizeTerm trims a search term. A blank result means "no search" and is
// not an error.
func NormalizeTerm(term string) (string, error) {
	term = strings.TrimSpace(term)
	if utf8.RuneCountInString(term) > MaxTermLength {
		return "", apperror.Validation("query.NormalizeTerm", "search term is too long")
	}
	return term, nil
}
