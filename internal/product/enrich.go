package product

import (
	"context"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
)

type CategoryLookup interface {
	FindSummariesByIDs(ctx context.Context, ids []string) ([]model.CategorySummary, error)
}

// AttachCategories sets Category on every product from a single batch lookup
// of the distinct category ids. Products whose category is gone keep nil.
func AttachCategories(ctx context.Context, lookup CategoryLookup, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(products))
	ids := make([]string, 0, len(products))
	for i := range products {
		id := products[i].CategoryID
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	summaries, err := lookup.FindSummariesByIDs(ctx, ids)
	if err != nil {
		return err
	}

	byID := make(map[string]*model.CategorySummary, len(summaries))
	for i := range summaries {
		byID[summaries[i].ID] = &summaries[i]
	}
	for i := range products {
		products[i].Category = byID[products[i].CategoryID]
	}
	return nil
}
