package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/apperror"
	catRepoPkg "github.com/fekuna/omnipos-storefront-service/internal/category/repository"
	"github.com/fekuna/omnipos-storefront-service/internal/logger"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/product"
	"github.com/fekuna/omnipos-storefront-service/internal/product/dto"
	"github.com/fekuna/omnipos-storefront-service/internal/product/query"
	prodRepoPkg "github.com/fekuna/omnipos-storefront-service/internal/product/repository"
	"github.com/fekuna/omnipos-storefront-service/internal/search"
	"github.com/fekuna/omnipos-storefront-service/internal/testutil"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCache struct {
	mu      sync.Mutex
	data    map[string]string
	hits    int
	deletes int
}

func newMemCache() *memCache {
	return &memCache{data: map[string]string{}}
}

func (c *memCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return "", errors.New("miss")
	}
	c.hits++
	return v, nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = string(value)
	return nil
}

func (c *memCache) DeletePattern(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range c.data {
		if strings.HasPrefix(k, prefix) {
			delete(c.data, k)
		}
	}
	c.deletes++
	return nil
}

func (c *memCache) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

type fakeIndex struct {
	mu        sync.Mutex
	hitIDs    []string
	searchErr error
	indexed   map[string]interface{}
	deleted   []string
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{indexed: map[string]interface{}{}}
}

func (f *fakeIndex) CreateIndex(context.Context, string, string) error { return nil }

func (f *fakeIndex) Index(_ context.Context, _, id string, doc interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.indexed[id] = doc
	return nil
}

func (f *fakeIndex) Delete(_ context.Context, _, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeIndex) Search(context.Context, string, map[string]interface{}) (*search.SearchResponse, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	res := &search.SearchResponse{}
	for _, id := range f.hitIDs {
		res.Hits.Hits = append(res.Hits.Hits, search.Hit{ID: id})
	}
	res.Hits.Total.Value = len(f.hitIDs)
	return res, nil
}

func (f *fakeIndex) isIndexed(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.indexed[id]
	return ok
}

func (f *fakeIndex) wasDeleted(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.deleted {
		if d == id {
			return true
		}
	}
	return false
}

func newUseCase(db *sqlx.DB, cache product.Cache, es product.SearchIndex) product.UseCase {
	return NewProductUseCase(
		prodRepoPkg.NewPGRepository(db),
		catRepoPkg.NewPGRepository(db),
		cache,
		es,
		time.Minute,
		logger.NewNop(),
	)
}

func slugsOf(products []model.Product) []string {
	out := make([]string, len(products))
	for i := range products {
		out[i] = products[i].Slug
	}
	return out
}

func TestListProductsByCategory_ActiveOnlyNewestFirst(t *testing.T) {
	db := testutil.NewDB(t)
	clock := testutil.NewClock()
	electronics := testutil.SeedCategory(t, db, clock, "electronics", "Electronics")
	other := testutil.SeedCategory(t, db, clock, "garden", "Garden")
	testutil.SeedProduct(t, db, clock, testutil.ProductSeed{Slug: "radio", Name: "Radio", CategoryID: electronics.ID})
	testutil.SeedProduct(t, db, clock, testutil.ProductSeed{Slug: "tv", Name: "TV", CategoryID: electronics.ID})
	testutil.SeedProduct(t, db, clock, testutil.ProductSeed{Slug: "pager", Name: "Pager", CategoryID: electronics.ID, Inactive: true})
	testutil.SeedProduct(t, db, clock, testutil.ProductSeed{Slug: "hose", Name: "Hose", CategoryID: other.ID})
	testutil.SeedProduct(t, db, clock, testutil.ProductSeed{Slug: "laptop", Name: "Laptop", CategoryID: electronics.ID})

	uc := newUseCase(db, nil, nil)

	products, err := uc.ListProductsByCategory(context.Background(), "electronics", query.SortNewest)
	require.NoError(t, err)

	assert.Equal(t, []string{"laptop", "tv", "radio"}, slugsOf(products))
	for _, p := range products {
		require.NotNil(t, p.Category)
		assert.Equal(t, "electronics", p.Category.Slug)
		assert.Equal(t, electronics.ID, p.CategoryID)
	}
}

func TestListProductsByCategory_UnknownSlug(t *testing.T) {
	uc := newUseCase(testutil.NewDB(t), nil, nil)

	_, err := uc.ListProductsByCategory(context.Background(), "nope", query.SortNewest)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestListProducts(t *testing.T) {
	db := testutil.NewDB(t)
	clock := testutil.NewClock()
	books := testutil.SeedCategory(t, db, clock, "books", "Books")
	toys := testutil.SeedCategory(t, db, clock, "toys", "Toys")
	testutil.SeedProduct(t, db, clock, testutil.ProductSeed{Slug: "novel", Name: "Novel", Price: "12", CategoryID: books.ID})
	testutil.SeedProduct(t, db, clock, testutil.ProductSeed{Slug: "yoyo", Name: "Yo-yo", Price: "4", CategoryID: toys.ID})
	testutil.SeedProduct(t, db, clock, testutil.ProductSeed{Slug: "kite", Name: "Kite", Price: "12", CategoryID: toys.ID})
	testutil.SeedProduct(t, db, clock, testutil.ProductSeed{Slug: "drum", Name: "Drum", Price: "30", CategoryID: toys.ID, Inactive: true})

	uc := newUseCase(db, nil, nil)
	ctx := context.Background()

	t.Run("all categories with category attached", func(t *testing.T) {
		products, err := uc.ListProducts(ctx, query.Filter{CategorySlug: query.AllCategories}, query.SortNewest)
		require.NoError(t, err)
		assert.Equal(t, []string{"kite", "yoyo", "novel"}, slugsOf(products))
		assert.Equal(t, "Books", products[2].Category.Name)
		assert.Equal(t, "toys", products[0].Category.Slug)
	})

	t.Run("price ascending keeps newest first among ties", func(t *testing.T) {
		products, err := uc.ListProducts(ctx, query.Filter{}, query.SortPriceAsc)
		require.NoError(t, err)
		assert.Equal(t, []string{"yoyo", "kite", "novel"}, slugsOf(products))
	})

	t.Run("category slug", func(t *testing.T) {
		products, err := uc.ListProducts(ctx, query.Filter{CategorySlug: "toys"}, query.SortPriceDesc)
		require.NoError(t, err)
		assert.Equal(t, []string{"kite", "yoyo"}, slugsOf(products))
	})

	t.Run("unknown category is empty", func(t *testing.T) {
		products, err := uc.ListProducts(ctx, query.Filter{CategorySlug: "missing"}, query.SortNewest)
		require.NoError(t, err)
		assert.NotNil(t, products)
		assert.Empty(t, products)
	})

	t.Run("min above max is rejected", func(t *testing.T) {
		minPrice, maxPrice := decimal.NewFromInt(20), decimal.NewFromInt(10)
		_, err := uc.ListProducts(ctx, query.Filter{MinPrice: &minPrice, MaxPrice: &maxPrice}, query.SortNewest)
		assert.True(t, apperror.Is(err, apperror.KindValidation))
	})
}

func TestListProducts_CacheAside(t *testing.T) {
	db := testutil.NewDB(t)
	clock := testutil.NewClock()
	cat := testutil.SeedCategory(t, db, clock, "toys", "Toys")
	testutil.SeedProduct(t, db, clock, testutil.ProductSeed{Slug: "kite", Name: "Kite", Price: "12", CategoryID: cat.ID})
	testutil.SeedProduct(t, db, clock, testutil.ProductSeed{Slug: "yoyo", Name: "Yo-yo", Price: "4", CategoryID: cat.ID})

	cache := newMemCache()
	uc := newUseCase(db, cache, nil)
	ctx := context.Background()

	first, err := uc.ListProducts(ctx, query.Filter{}, query.SortNewest)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.size())

	second, err := uc.ListProducts(ctx, query.Filter{}, query.SortPriceAsc)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.hits)
	assert.Equal(t, []string{"yoyo", "kite"}, slugsOf(first))
	assert.Equal(t, []string{"yoyo", "kite"}, slugsOf(second))
	assert.Equal(t, "Toys", second[0].Category.Name)

	_, err = uc.CreateProduct(ctx, &dto.CreateProductInput{Name: "Ball", Price: decimal.NewFromInt(3), CategoryID: cat.ID})
	require.NoError(t, err)
	assert.Equal(t, 0, cache.size())
}

// slowCache delays invalidation to widen any window between a write
// returning and its cache entries disappearing.
type slowCache struct {
	*memCache
	delay time.Duration
}

func (c *slowCache) DeletePattern(ctx context.Context, pattern string) error {
	time.Sleep(c.delay)
	return c.memCache.DeletePattern(ctx, pattern)
}

func TestDeactivateProduct_ListingIsFreshImmediately(t *testing.T) {
	db := testutil.NewDB(t)
	clock := testutil.NewClock()
	cat := testutil.SeedCategory(t, db, clock, "home", "Home")
	lamp := testutil.SeedProduct(t, db, clock, testutil.ProductSeed{Slug: "lamp", Name: "Lamp", CategoryID: cat.ID})
	testutil.SeedProduct(t, db, clock, testutil.ProductSeed{Slug: "rug", Name: "Rug", CategoryID: cat.ID})

	cache := &slowCache{memCache: newMemCache(), delay: 100 * time.Millisecond}
	uc := newUseCase(db, cache, nil)
	ctx := context.Background()

	warm, err := uc.ListProducts(ctx, query.Filter{}, query.SortNewest)
	require.NoError(t, err)
	assert.Equal(t, []string{"rug", "lamp"}, slugsOf(warm))

	require.NoError(t, uc.DeactivateProduct(ctx, lamp.ID))

	products, err := uc.ListProducts(ctx, query.Filter{}, query.SortNewest)
	require.NoError(t, err)
	assert.Equal(t, []string{"rug"}, slugsOf(products))
	for _, p := range products {
		assert.True(t, p.IsActive)
	}
}

func TestListFeaturedProducts_DefaultLimit(t *testing.T) {
	db := testutil.NewDB(t)
	clock := testutil.NewClock()
	cat := testutil.SeedCategory(t, db, clock, "toys", "Toys")
	for i := 0; i < 10; i++ {
		testutil.SeedProduct(t, db, clock, testutil.ProductSeed{
			Slug: fmt.Sprintf("f-%d", i), Name: "Featured", CategoryID: cat.ID, Featured: true,
		})
	}
	testutil.SeedProduct(t, db, clock, testutil.ProductSeed{Slug: "plain", Name: "Plain", CategoryID: cat.ID})

	products, err := newUseCase(db, nil, nil).ListFeaturedProducts(context.Background(), 0)
	require.NoError(t, err)

	assert.Len(t, products, DefaultFeaturedLimit)
	for _, p := range products {
		assert.True(t, p.IsFeatured)
	}
}

func TestGetProductBySlug(t *testing.T) {
	db := testutil.NewDB(t)
	clock := testutil.NewClock()
	cat := testutil.SeedCategory(t, db, clock, "home", "Home")
	testutil.SeedProduct(t, db, clock, testutil.ProductSeed{Slug: "lamp", Name: "Lamp", CategoryID: cat.ID})
	testutil.SeedProduct(t, db, clock, testutil.ProductSeed{Slug: "retired", Name: "Retired", CategoryID: cat.ID, Inactive: true})
	testutil.SeedProduct(t, db, clock, testutil.ProductSeed{Slug: "twin", Name: "Twin A", CategoryID: cat.ID})
	testutil.SeedProduct(t, db, clock, testutil.ProductSeed{Slug: "twin", Name: "Twin B", CategoryID: cat.ID})

	uc := newUseCase(db, nil, nil)
	ctx := context.Background()

	p, err := uc.GetProductBySlug(ctx, "lamp")
	require.NoError(t, err)
	assert.Equal(t, "Lamp", p.Name)
	assert.Equal(t, "home", p.Category.Slug)

	for _, s := range []string{"retired", "twin", "missing"} {
		_, err := uc.GetProductBySlug(ctx, s)
		assert.True(t, apperror.Is(err, apperror.KindNotFound), s)
	}

	_, err = uc.GetProductBySlug(ctx, "  ")
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestSearchProducts_Database(t *testing.T) {
	db := testutil.NewDB(t)
	clock := testutil.NewClock()
	cat := testutil.SeedCategory(t, db, clock, "apparel", "Apparel")
	for i := 0; i < 12; i++ {
		testutil.SeedProduct(t, db, clock, testutil.ProductSeed{
			Slug: fmt.Sprintf("shirt-%d", i), Name: fmt.Sprintf("Cotton Shirt %d", i), CategoryID: cat.ID,
		})
	}
	testutil.SeedProduct(t, db, clock, testutil.ProductSeed{Slug: "jeans", Name: "Jeans", CategoryID: cat.ID})

	uc := newUseCase(db, nil, nil)

	products, err := uc.SearchProducts(context.Background(), "shirt")
	require.NoError(t, err)
	require.Len(t, products, SearchLimit)
	for _, p := range products {
		assert.Contains(t, strings.ToLower(p.Name), "shirt")
		assert.Equal(t, "Apparel", p.Category.Name)
	}
}

func TestSearchProducts_BlankTerm(t *testing.T) {
	index := newFakeIndex()
	index.searchErr = errors.New("must not be called")
	uc := newUseCase(testutil.NewDB(t), nil, index)

	products, err := uc.SearchProducts(context.Background(), "   ")
	require.NoError(t, err)
	assert.NotNil(t, products)
	assert.Empty(t, products)
}

func TestSearchProducts_IndexOrderAndFallback(t *testing.T) {
	db := testutil.NewDB(t)
	clock := testutil.NewClock()
	cat := testutil.SeedCategory(t, db, clock, "apparel", "Apparel")
	a := testutil.SeedProduct(t, db, clock, testutil.ProductSeed{Slug: "shirt-a", Name: "Shirt A", CategoryID: cat.ID})
	b := testutil.SeedProduct(t, db, clock, testutil.ProductSeed{Slug: "shirt-b", Name: "Shirt B", CategoryID: cat.ID})
	gone := testutil.SeedProduct(t, db, clock, testutil.ProductSeed{Slug: "shirt-c", Name: "Shirt C", CategoryID: cat.ID, Inactive: true})

	index := newFakeIndex()
	index.hitIDs = []string{a.ID, gone.ID, b.ID}
	uc := newUseCase(db, nil, index)
	ctx := context.Background()

	products, err := uc.SearchProducts(ctx, "shirt")
	require.NoError(t, err)
	assert.Equal(t, []string{"shirt-a", "shirt-b"}, slugsOf(products))

	index.searchErr = errors.New("cluster unavailable")
	products, err = uc.SearchProducts(ctx, "shirt")
	require.NoError(t, err)
	assert.Equal(t, []string{"shirt-b", "shirt-a"}, slugsOf(products))
}

func TestCreateProduct(t *testing.T) {
	db := testutil.NewDB(t)
	clock := testutil.NewClock()
	cat := testutil.SeedCategory(t, db, clock, "home", "Home")
	index := newFakeIndex()
	uc := newUseCase(db, nil, index)
	ctx := context.Background()

	compare := decimal.RequireFromString("40")
	p, err := uc.CreateProduct(ctx, &dto.CreateProductInput{
		Name:          "Reading Lamp",
		Price:         decimal.RequireFromString("30"),
		ComparePrice:  &compare,
		CategoryID:    cat.ID,
		StockQuantity: 4,
	})
	require.NoError(t, err)
	assert.Equal(t, "reading-lamp", p.Slug)
	assert.True(t, p.IsActive)
	assert.Equal(t, 25, p.DiscountPercent())
	assert.Eventually(t, func() bool { return index.isIndexed(p.ID) }, time.Second, 10*time.Millisecond)

	got, err := uc.GetProductBySlug(ctx, "reading-lamp")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	testCases := []struct {
		name  string
		input dto.CreateProductInput
	}{
		{"duplicate slug", dto.CreateProductInput{Name: "Reading Lamp", CategoryID: cat.ID}},
		{"unknown category", dto.CreateProductInput{Name: "Chair", CategoryID: "nope"}},
		{"negative price", dto.CreateProductInput{Name: "Desk", Price: decimal.NewFromInt(-1), CategoryID: cat.ID}},
		{"blank name", dto.CreateProductInput{Name: " ", CategoryID: cat.ID}},
		{"negative stock", dto.CreateProductInput{Name: "Rug", CategoryID: cat.ID, StockQuantity: -2}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.CreateProduct(ctx, &tc.input)
			assert.True(t, apperror.Is(err, apperror.KindValidation), err)
		})
	}
}

func TestUpdateProduct(t *testing.T) {
	db := testutil.NewDB(t)
	clock := testutil.NewClock()
	home := testutil.SeedCategory(t, db, clock, "home", "Home")
	garden := testutil.SeedCategory(t, db, clock, "garden", "Garden")
	p := testutil.SeedProduct(t, db, clock, testutil.ProductSeed{Slug: "lamp", Name: "Lamp", CategoryID: home.ID})
	testutil.SeedProduct(t, db, clock, testutil.ProductSeed{Slug: "chair", Name: "Chair", CategoryID: home.ID})

	uc := newUseCase(db, nil, nil)
	ctx := context.Background()

	updated, err := uc.UpdateProduct(ctx, &dto.UpdateProductInput{
		ID: p.ID, Slug: "lamp", Name: "Garden Lamp", Price: decimal.NewFromInt(18), CategoryID: garden.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Garden Lamp", updated.Name)
	assert.Equal(t, "garden", updated.Category.Slug)

	renamed, err := uc.UpdateProduct(ctx, &dto.UpdateProductInput{
		ID: p.ID, Name: "Brass Desk Lamp", Price: decimal.NewFromInt(18), CategoryID: garden.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "lamp", renamed.Slug)
	assert.Equal(t, "Brass Desk Lamp", renamed.Name)

	_, err = uc.UpdateProduct(ctx, &dto.UpdateProductInput{ID: p.ID, Slug: "chair", Name: "Lamp", CategoryID: home.ID})
	assert.True(t, apperror.Is(err, apperror.KindValidation))

	_, err = uc.UpdateProduct(ctx, &dto.UpdateProductInput{ID: "missing", Name: "X", CategoryID: home.ID})
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestDeactivateProduct(t *testing.T) {
	db := testutil.NewDB(t)
	clock := testutil.NewClock()
	cat := testutil.SeedCategory(t, db, clock, "home", "Home")
	p := testutil.SeedProduct(t, db, clock, testutil.ProductSeed{Slug: "lamp", Name: "Lamp", CategoryID: cat.ID})

	index := newFakeIndex()
	uc := newUseCase(db, nil, index)
	ctx := context.Background()

	require.NoError(t, uc.DeactivateProduct(ctx, p.ID))
	assert.Eventually(t, func() bool { return index.wasDeleted(p.ID) }, time.Second, 10*time.Millisecond)

	_, err := uc.GetProductBySlug(ctx, "lamp")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	require.NoError(t, uc.DeactivateProduct(ctx, p.ID))

	err = uc.DeactivateProduct(ctx, "missing")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}

func TestReindexProducts(t *testing.T) {
	db := testutil.NewDB(t)
	clock := testutil.NewClock()
	cat := testutil.SeedCategory(t, db, clock, "apparel", "Apparel")
	a := testutil.SeedProduct(t, db, clock, testutil.ProductSeed{Slug: "shirt-a", Name: "Shirt A", CategoryID: cat.ID})
	b := testutil.SeedProduct(t, db, clock, testutil.ProductSeed{Slug: "shirt-b", Name: "Shirt B", CategoryID: cat.ID})
	gone := testutil.SeedProduct(t, db, clock, testutil.ProductSeed{Slug: "shirt-c", Name: "Shirt C", CategoryID: cat.ID, Inactive: true})

	index := newFakeIndex()
	uc := newUseCase(db, nil, index)
	ctx := context.Background()

	n, err := uc.ReindexProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, index.isIndexed(a.ID))
	assert.True(t, index.isIndexed(b.ID))
	assert.False(t, index.isIndexed(gone.ID))

	index.hitIDs = []string{b.ID, a.ID}
	products, err := uc.SearchProducts(ctx, "shirt")
	require.NoError(t, err)
	assert.Equal(t, []string{"shirt-b", "shirt-a"}, slugsOf(products))
}

func TestReindexProducts_WithoutIndex(t *testing.T) {
	uc := newUseCase(testutil.NewDB(t), nil, nil)

	_, err := uc.ReindexProducts(context.Background())
	assert.True(t, apperror.Is(err, apperror.KindValidation))
}
