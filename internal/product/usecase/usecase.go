package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/apperror"
	"github.com/fekuna/omnipos-storefront-service/internal/category"
	"github.com/fekuna/omnipos-storefront-service/internal/logger"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/product"
	"github.com/fekuna/omnipos-storefront-service/internal/product/dto"
	"github.com/fekuna/omnipos-storefront-service/internal/product/query"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	DefaultFeaturedLimit = 8
	SearchLimit          = 10

	indexName       = "products"
	listCachePrefix = "products:list:"
)

const indexMapping = `{
	"mappings": {
		"properties": {
			"name": { "type": "text", "fields": { "keyword": { "type": "keyword" } } },
			"slug": { "type": "keyword" },
			"category_id": { "type": "keyword" },
			"is_active": { "type": "boolean" },
			"price": { "type": "scaled_float", "scaling_factor": 100 },
			"created_at": { "type": "date" }
		}
	}
}`

type productUseCase struct {
	repo     product.Repository
	catRepo  category.Repository
	cache    product.Cache
	es       product.SearchIndex
	cacheTTL time.Duration
	logger   logger.ZapLogger
}

// NewProductUseCase wires the catalog. cache and es may be nil, which turns
// off list caching and index-backed search respectively.
func NewProductUseCase(
	repo product.Repository,
	catRepo category.Repository,
	cache product.Cache,
	es product.SearchIndex,
	cacheTTL time.Duration,
	log logger.ZapLogger,
) product.UseCase {
	return &productUseCase{
		repo:     repo,
		catRepo:  catRepo,
		cache:    cache,
		es:       es,
		cacheTTL: cacheTTL,
		logger:   log,
	}
}

func (uc *productUseCase) ListProducts(ctx context.Context, filter query.Filter, order query.SortOrder) ([]model.Product, error) {
	const op = "product.ListProducts"

	if err := filter.Validate(); err != nil {
		return nil, err
	}

	// 1. Check cache
	cacheKey, err := uc.generateCacheKey(filter)
	if err == nil && uc.cache != nil {
		if val, err := uc.cache.Get(ctx, cacheKey); err == nil {
			var cached []model.Product
			if err := json.Unmarshal([]byte(val), &cached); err == nil {
				query.Sort(cached, order)
				return cached, nil
			}
		}
	}

	// 2. Resolve category slug. Unknown slug is an empty listing.
	var categoryID string
	if catSlug, ok := filter.Category(); ok {
		cat, err := uc.catRepo.FindBySlug(ctx, catSlug)
		if err != nil {
			return nil, apperror.Storage(op, err)
		}
		if cat == nil {
			return []model.Product{}, nil
		}
		categoryID = cat.ID
	}

	// 3. DB query + enrichment
	products, err := uc.repo.FindAll(ctx, filter, categoryID)
	if err != nil {
		return nil, apperror.Storage(op, err)
	}
	if err := product.AttachCategories(ctx, uc.catRepo, products); err != nil {
		return nil, apperror.Storage(op, err)
	}

	// 4. Set cache, stored in the default order
	if cacheKey != "" && uc.cache != nil {
		if data, err := json.Marshal(products); err == nil {
			if err := uc.cache.Set(ctx, cacheKey, data, uc.cacheTTL); err != nil {
				uc.logger.Warn("failed to cache product list", zap.Error(err))
			}
		}
	}

	query.Sort(products, order)
	return products, nil
}

func (uc *productUseCase) ListFeaturedProducts(ctx context.Context, limit int) ([]model.Product, error) {
	if limit == 0 {
		limit = DefaultFeaturedLimit
	}
	return uc.ListProducts(ctx, query.Filter{FeaturedOnly: true, Limit: limit}, query.SortNewest)
}

func (uc *productUseCase) GetProductBySlug(ctx context.Context, productSlug string) (*model.Product, error) {
	const op = "product.GetProductBySlug"

	productSlug = strings.TrimSpace(productSlug)
	if productSlug == "" {
		return nil, apperror.Validation(op, "slug is required")
	}

	matches, err := uc.repo.FindActiveBySlug(ctx, productSlug)
	if err != nil {
		return nil, apperror.Storage(op, err)
	}
	// Zero or duplicate matches are both "not found".
	if len(matches) != 1 {
		if len(matches) > 1 {
			uc.logger.Warn("duplicate active product slug", zap.String("slug", productSlug))
		}
		return nil, apperror.NotFound(op, "product not found")
	}

	if err := product.AttachCategories(ctx, uc.catRepo, matches); err != nil {
		return nil, apperror.Storage(op, err)
	}
	return &matches[0], nil
}

func (uc *productUseCase) ListProductsByCategory(ctx context.Context, categorySlug string, order query.SortOrder) ([]model.Product, error) {
	const op = "product.ListProductsByCategory"

	cat, err := uc.catRepo.FindBySlug(ctx, strings.TrimSpace(categorySlug))
	if err != nil {
		return nil, apperror.Storage(op, err)
	}
	if cat == nil {
		return nil, apperror.NotFound(op, "category not found")
	}

	products, err := uc.repo.FindAll(ctx, query.Filter{}, cat.ID)
	if err != nil {
		return nil, apperror.Storage(op, err)
	}

	summary := cat.Summary()
	for i := range products {
		products[i].Category = summary
	}

	query.Sort(products, order)
	return products, nil
}

func (uc *productUseCase) SearchProducts(ctx context.Context, term string) ([]model.Product, error) {
	const op = "product.SearchProducts"

	term, err := query.NormalizeTerm(term)
	if err != nil {
		return nil, err
	}
	if term == "" {
		return []model.Product{}, nil
	}

	var products []model.Product
	if uc.es != nil {
		products, err = uc.searchIndex(ctx, term)
		if err != nil {
			// If ES fails, fall through to DB
			uc.logger.Error("ES search failed, falling back to DB", zap.String("term", term), zap.Error(err))
			products = nil
		}
	}

	if products == nil {
		products, err = uc.repo.SearchByName(ctx, term, SearchLimit)
		if err != nil {
			return nil, apperror.Storage(op, err)
		}
	}

	if err := product.AttachCategories(ctx, uc.catRepo, products); err != nil {
		return nil, apperror.Storage(op, err)
	}
	return products, nil
}

var wildcardEscaper = strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`)

// searchIndex asks the index for matching ids and loads the rows from the
// database so callers always see current prices and stock.
func (uc *productUseCase) searchIndex(ctx context.Context, term string) ([]model.Product, error) {
	q := map[string]interface{}{
		"size":    SearchLimit,
		"_source": false,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": []map[string]interface{}{
					{"term": map[string]interface{}{"is_active": true}},
					{"wildcard": map[string]interface{}{
						"name.keyword": map[string]interface{}{
							"value":            "*" + wildcardEscaper.Replace(term) + "*",
							"case_insensitive": true,
						},
					}},
				},
			},
		},
		"sort": []map[string]interface{}{
			{"created_at": "desc"},
		},
	}

	res, err := uc.es.Search(ctx, indexName, q)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		ids = append(ids, hit.ID)
	}
	rows, err := uc.repo.FindActiveByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	// Keep the index's order.
	byID := make(map[string]model.Product, len(rows))
	for _, p := range rows {
		byID[p.ID] = p
	}
	products := make([]model.Product, 0, len(rows))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			products = append(products, p)
		}
	}
	return products, nil
}

func (uc *productUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	const op = "product.CreateProduct"

	p := &model.Product{
		Description:   input.Description,
		CategoryID:    input.CategoryID,
		ImageURL:      input.ImageURL,
		Images:        model.ImageList(input.Images),
		StockQuantity: input.StockQuantity,
		IsFeatured:    input.IsFeatured,
		IsActive:      true,
	}
	if err := uc.applyEditable(ctx, op, p, input.Slug, input.Name, input.Price, input.ComparePrice, ""); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p.BaseModel = model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now}

	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, apperror.Storage(op, err)
	}

	uc.logger.Info("product created", zap.String("product_id", p.ID), zap.String("slug", p.Slug))

	uc.afterWrite(ctx, p)
	return p, nil
}

func (uc *productUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	const op = "product.UpdateProduct"

	p, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, apperror.Storage(op, err)
	}
	if p == nil {
		return nil, apperror.NotFound(op, "product not found")
	}

	p.Description = input.Description
	p.CategoryID = input.CategoryID
	p.ImageURL = input.ImageURL
	p.Images = model.ImageList(input.Images)
	p.StockQuantity = input.StockQuantity
	p.IsFeatured = input.IsFeatured
	if input.IsActive != nil {
		p.IsActive = *input.IsActive
	}
	if err := uc.applyEditable(ctx, op, p, input.Slug, input.Name, input.Price, input.ComparePrice, p.ID); err != nil {
		return nil, err
	}

	p.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, apperror.Storage(op, err)
	}

	uc.afterWrite(ctx, p)
	return p, nil
}

// DeactivateProduct soft-deletes: the row stays for carts and history but
// disappears from every storefront read.
func (uc *productUseCase) DeactivateProduct(ctx context.Context, id string) error {
	const op = "product.DeactivateProduct"

	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return apperror.Storage(op, err)
	}
	if p == nil {
		return apperror.NotFound(op, "product not found")
	}
	if !p.IsActive {
		return nil
	}

	p.IsActive = false
	p.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, p); err != nil {
		return apperror.Storage(op, err)
	}

	uc.afterWrite(ctx, p)
	return nil
}

// ReindexProducts writes every active product to the search index. Rows
// created before the index existed, or whose background sync failed, only
// become searchable this way.
func (uc *productUseCase) ReindexProducts(ctx context.Context) (int, error) {
	const op = "product.ReindexProducts"

	if uc.es == nil {
		return 0, apperror.Validation(op, "search index is not configured")
	}
	if err := uc.es.CreateIndex(ctx, indexName, indexMapping); err != nil {
		return 0, fmt.Errorf("%s: ensure index: %w", op, err)
	}

	products, err := uc.repo.FindAll(ctx, query.Filter{}, "")
	if err != nil {
		return 0, apperror.Storage(op, err)
	}

	indexed := 0
	var errs []error
	for i := range products {
		if err := uc.es.Index(ctx, indexName, products[i].ID, newSearchDocument(&products[i])); err != nil {
			errs = append(errs, fmt.Errorf("index %s: %w", products[i].ID, err))
			continue
		}
		indexed++
	}

	uc.logger.Info("products reindexed", zap.Int("indexed", indexed), zap.Int("failed", len(errs)))
	if len(errs) > 0 {
		return indexed, fmt.Errorf("%s: %w", op, errors.Join(errs...))
	}
	return indexed, nil
}

// applyEditable validates and sets the fields shared by create and update.
// excludeID is the product being edited, "" on create.
func (uc *productUseCase) applyEditable(
	ctx context.Context,
	op string,
	p *model.Product,
	rawSlug, name string,
	price decimal.Decimal,
	comparePrice *decimal.Decimal,
	excludeID string,
) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return apperror.Validation(op, "name is required")
	}
	if price.IsNegative() {
		return apperror.Validation(op, "price must not be negative")
	}
	if comparePrice != nil && comparePrice.IsNegative() {
		return apperror.Validation(op, "compare_price must not be negative")
	}
	if p.StockQuantity < 0 {
		return apperror.Validation(op, "stock_quantity must not be negative")
	}

	// An edit without a slug keeps the product's URL.
	productSlug := slug.Make(rawSlug)
	if productSlug == "" && excludeID != "" {
		productSlug = p.Slug
	}
	if productSlug == "" {
		productSlug = slug.Make(name)
	}
	if productSlug == "" {
		return apperror.Validation(op, "name does not produce a usable slug")
	}

	unique, err := uc.repo.IsSlugUnique(ctx, productSlug, excludeID)
	if err != nil {
		return apperror.Storage(op, err)
	}
	if !unique {
		return apperror.Validation(op, "slug already exists")
	}

	cat, err := uc.catRepo.FindByID(ctx, p.CategoryID)
	if err != nil {
		return apperror.Storage(op, err)
	}
	if cat == nil {
		return apperror.Validation(op, "category does not exist")
	}

	p.Slug = productSlug
	p.Name = name
	p.Price = price
	p.ComparePrice = decimal.NullDecimal{}
	if comparePrice != nil {
		p.ComparePrice = decimal.NewNullDecimal(*comparePrice)
	}
	if p.Images == nil {
		p.Images = model.ImageList{}
	}
	p.Category = cat.Summary()
	return nil
}

// afterWrite clears cached listings before the write returns, so no reader
// sees the old row afterwards. Index sync runs in the background.
func (uc *productUseCase) afterWrite(ctx context.Context, p *model.Product) {
	if uc.cache != nil {
		uc.invalidateProductCache(context.WithoutCancel(ctx))
	}
	if uc.es != nil {
		doc := newSearchDocument(p)
		go uc.syncToElastic(context.Background(), p.ID, doc)
	}
}

func (uc *productUseCase) generateCacheKey(filter query.Filter) (string, error) {
	data, err := json.Marshal(filter)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%x", listCachePrefix, md5.Sum(data)), nil
}

func (uc *productUseCase) invalidateProductCache(ctx context.Context) {
	if err := uc.cache.DeletePattern(ctx, listCachePrefix+"*"); err != nil {
		uc.logger.Error("failed to invalidate product cache", zap.Error(err))
	}
}

type searchDocument struct {
	Name       string          `json:"name"`
	Slug       string          `json:"slug"`
	CategoryID string          `json:"category_id"`
	IsActive   bool            `json:"is_active"`
	Price      decimal.Decimal `json:"price"`
	CreatedAt  time.Time       `json:"created_at"`
}

func newSearchDocument(p *model.Product) *searchDocument {
	return &searchDocument{
		Name:       p.Name,
		Slug:       p.Slug,
		CategoryID: p.CategoryID,
		IsActive:   p.IsActive,
		Price:      p.Price,
		CreatedAt:  p.CreatedAt,
	}
}

func (uc *productUseCase) syncToElastic(ctx context.Context, id string, doc *searchDocument) {
	if !doc.IsActive {
		if err := uc.es.Delete(ctx, indexName, id); err != nil {
			uc.logger.Error("failed to delete product from ES", zap.String("product_id", id), zap.Error(err))
		}
		return
	}

	if err := uc.es.CreateIndex(ctx, indexName, indexMapping); err != nil {
		uc.logger.Warn("failed to ensure products index", zap.Error(err))
	}
	if err := uc.es.Index(ctx, indexName, id, doc); err != nil {
		uc.logger.Error("failed to index product", zap.String("product_id", id), zap.Error(err))
	}
}
