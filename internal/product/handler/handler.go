package handler

import (
	"net/http"
	"strconv"

	"github.com/fekuna/omnipos-storefront-service/internal/logger"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/product"
	"github.com/fekuna/omnipos-storefront-service/internal/product/dto"
	"github.com/fekuna/omnipos-storefront-service/internal/product/query"
	"github.com/fekuna/omnipos-storefront-service/internal/response"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type ProductHandler struct {
	uc     product.UseCase
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		logger: log,
	}
}

// ProductView adds the derived pricing fields the storefront renders.
type ProductView struct {
	model.Product
	DiscountPercent int  `json:"discount_percent"`
	InStock         bool `json:"in_stock"`
}

func NewProductView(p *model.Product) ProductView {
	return ProductView{
		Product:         *p,
		DiscountPercent: p.DiscountPercent(),
		InStock:         p.InStock(),
	}
}

func NewProductViews(products []model.Product) []ProductView {
	views := make([]ProductView, len(products))
	for i := range products {
		views[i] = NewProductView(&products[i])
	}
	return views
}

type productRequest struct {
	Slug          string           `json:"slug" binding:"omitempty,max=200"`
	Name          string           `json:"name" binding:"required,max=200"`
	Description   string           `json:"description"`
	Price         *decimal.Decimal `json:"price" binding:"required"`
	ComparePrice  *decimal.Decimal `json:"compare_price"`
	CategoryID    string           `json:"category_id" binding:"required"`
	ImageURL      string           `json:"image_url"`
	Images        []string         `json:"images"`
	StockQuantity int              `json:"stock_quantity" binding:"gte=0"`
	IsFeatured    bool             `json:"is_featured"`
	IsActive      *bool            `json:"is_active"`
}

// ListProducts handles GET /products.
func (h *ProductHandler) ListProducts(c *gin.Context) {
	filter, ok := parseFilter(c)
	if !ok {
		return
	}
	order, err := query.ParseSort(c.Query("sort"))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	products, err := h.uc.ListProducts(c.Request.Context(), filter, order)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": NewProductViews(products)})
}

// ListFeaturedProducts handles GET /products/featured.
func (h *ProductHandler) ListFeaturedProducts(c *gin.Context) {
	limit, ok := parseInt(c, "limit")
	if !ok {
		return
	}

	products, err := h.uc.ListFeaturedProducts(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": NewProductViews(products)})
}

// SearchProducts handles GET /products/search.
func (h *ProductHandler) SearchProducts(c *gin.Context) {
	products, err := h.uc.SearchProducts(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": NewProductViews(products)})
}

// GetProduct handles GET /products/:slug.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	p, err := h.uc.GetProductBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": NewProductView(p)})
}

// ListCategoryProducts handles GET /categories/:slug/products.
func (h *ProductHandler) ListCategoryProducts(c *gin.Context) {
	order, err := query.ParseSort(c.Query("sort"))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}

	products, err := h.uc.ListProductsByCategory(c.Request.Context(), c.Param("slug"), order)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": NewProductViews(products)})
}

// CreateProduct handles POST /admin/products.
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid input: "+err.Error())
		return
	}

	p, err := h.uc.CreateProduct(c.Request.Context(), &dto.CreateProductInput{
		Slug:          req.Slug,
		Name:          req.Name,
		Description:   req.Description,
		Price:         *req.Price,
		ComparePrice:  req.ComparePrice,
		CategoryID:    req.CategoryID,
		ImageURL:      req.ImageURL,
		Images:        req.Images,
		StockQuantity: req.StockQuantity,
		IsFeatured:    req.IsFeatured,
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product": NewProductView(p)})
}

// UpdateProduct handles PUT /admin/products/:id.
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid input: "+err.Error())
		return
	}

	p, err := h.uc.UpdateProduct(c.Request.Context(), &dto.UpdateProductInput{
		ID:            c.Param("id"),
		Slug:          req.Slug,
		Name:          req.Name,
		Description:   req.Description,
		Price:         *req.Price,
		ComparePrice:  req.ComparePrice,
		CategoryID:    req.CategoryID,
		ImageURL:      req.ImageURL,
		Images:        req.Images,
		StockQuantity: req.StockQuantity,
		IsFeatured:    req.IsFeatured,
		IsActive:      req.IsActive,
	})
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": NewProductView(p)})
}

// DeactivateProduct handles DELETE /admin/products/:id.
func (h *ProductHandler) DeactivateProduct(c *gin.Context) {
	if err := h.uc.DeactivateProduct(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parseFilter(c *gin.Context) (query.Filter, bool) {
	filter := query.Filter{CategorySlug: c.Query("category")}

	var ok bool
	if filter.MinPrice, ok = parseDecimal(c, "min_price"); !ok {
		return filter, false
	}
	if filter.MaxPrice, ok = parseDecimal(c, "max_price"); !ok {
		return filter, false
	}
	if filter.Limit, ok = parseInt(c, "limit"); !ok {
		return filter, false
	}
	if raw := c.Query("featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			response.BadRequest(c, "featured must be a boolean")
			return filter, false
		}
		filter.FeaturedOnly = featured
	}
	return filter, true
}

func parseDecimal(c *gin.Context, key string) (*decimal.Decimal, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		response.BadRequest(c, key+" must be a number")
		return nil, false
	}
	return &d, true
}

func parseInt(c *gin.Context, key string) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		response.BadRequest(c, key+" must be an integer")
		return 0, false
	}
	return n, true
}
