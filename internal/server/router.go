package server

import (
	"net/http"

	cartH "github.com/fekuna/omnipos-storefront-service/internal/cart/handler"
	catH "github.com/fekuna/omnipos-storefront-service/internal/category/handler"
	dashH "github.com/fekuna/omnipos-storefront-service/internal/dashboard/handler"
	"github.com/fekuna/omnipos-storefront-service/internal/logger"
	"github.com/fekuna/omnipos-storefront-service/internal/middleware"
	prodH "github.com/fekuna/omnipos-storefront-service/internal/product/handler"
	wishH "github.com/fekuna/omnipos-storefront-service/internal/wishlist/handler"
	"github.com/gin-gonic/gin"
)

type Handlers struct {
	Category  *catH.CategoryHandler
	Product   *prodH.ProductHandler
	Cart      *cartH.CartHandler
	Wishlist  *wishH.WishlistHandler
	Dashboard *dashH.DashboardHandler
}

type RouterConfig struct {
	CORSOrigins []string
	Verifier    middleware.Verifier
	Logger      logger.ZapLogger
}

func NewRouter(cfg RouterConfig, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")

	// Public catalog
	api.GET("/products", h.Product.ListProducts)
	api.GET("/products/featured", h.Product.ListFeaturedProducts)
	api.GET("/products/search", h.Product.SearchProducts)
	api.GET("/products/:slug", h.Product.GetProduct)
	api.GET("/categories", h.Category.ListCategories)
	api.GET("/categories/:slug", h.Category.GetCategory)
	api.GET("/categories/:slug/products", h.Product.ListCategoryProducts)

	// Signed-in shopper
	authed := api.Group("", middleware.RequireAuth(cfg.Verifier))

	authed.GET("/cart", h.Cart.GetCart)
	authed.DELETE("/cart", h.Cart.ClearCart)
	authed.POST("/cart/items", h.Cart.AddItem)
	authed.PUT("/cart/items/:productId", h.Cart.UpdateItem)
	authed.DELETE("/cart/items/:productId", h.Cart.RemoveItem)

	authed.GET("/wishlist", h.Wishlist.List)
	authed.POST("/wishlist/:productId", h.Wishlist.Toggle)
	authed.DELETE("/wishlist/:productId", h.Wishlist.Remove)

	// Admin
	admin := authed.Group("/admin", middleware.RequireAdmin())
	admin.GET("/stats", h.Dashboard.GetStats)
	admin.POST("/products", h.Product.CreateProduct)
	admin.PUT("/products/:id", h.Product.UpdateProduct)
	admin.DELETE("/products/:id", h.Product.DeactivateProduct)
	admin.POST("/categories", h.Category.CreateCategory)

	return r
}
