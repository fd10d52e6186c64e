package query

import (
	"sort"
	"strings"

	"github.com/fekuna/omnipos-storefront-service/internal/apperror"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
)

type SortOrder string

const (
	SortNewest    SortOrder = "newest"
	SortPriceAsc  SortOrder = "price_asc"
	SortPriceDesc SortOrder = "price_desc"
	SortRating    SortOrder = "rating"
)

// ParseSort maps the storefront's sort selector. Empty means newest.
func ParseSort(s string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortNewest:
		return SortNewest, nil
	case SortPriceAsc, "price-low":
		return SortPriceAsc, nil
	case SortPriceDesc, "price-high":
		return SortPriceDesc, nil
	case SortRating:
		return SortRating, nil
	}
	return "", apperror.Validation("query.ParseSort", "unknown sort order "+s)
}

// Sort reorders already-fetched products in place. It is stable: products with
// equal keys keep their relative order.
func Sort(products []model.Product, order SortOrder) {
	var less func(a, b *model.Product) bool
	switch order {
	case SortPriceAsc:
		less = func(a, b *model.Product) bool { return a.Price.LessThan(b.Price) }
	case SortPriceDesc:
		less = func(a, b *model.Product) bool { return a.Price.GreaterThan(b.Price) }
	case SortRating:
		less = func(a, b *model.Product) bool { return a.Rating > b.Rating }
	default:
		less = func(a, b *model.Product) bool { return a.CreatedAt.After(b.CreatedAt) }
	}

	sort.SliceStable(products, func(i, j int) bool {
		return less(&products[i], &products[j])
	})
}
