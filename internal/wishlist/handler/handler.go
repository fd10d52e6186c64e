package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-storefront-service/internal/auth"
	"github.com/fekuna/omnipos-storefront-service/internal/logger"
	productHandler "github.com/fekuna/omnipos-storefront-service/internal/product/handler"
	"github.com/fekuna/omnipos-storefront-service/internal/response"
	"github.com/fekuna/omnipos-storefront-service/internal/wishlist"
	"github.com/gin-gonic/gin"
)

type WishlistHandler struct {
	uc     wishlist.UseCase
	logger logger.ZapLogger
}

func NewWishlistHandler(uc wishlist.UseCase, log logger.ZapLogger) *WishlistHandler {
	return &WishlistHandler{
		uc:     uc,
		logger: log,
	}
}

// List handles GET /wishlist.
func (h *WishlistHandler) List(c *gin.Context) {
	ctx := c.Request.Context()
	products, err := h.uc.List(ctx, auth.GetUserID(ctx))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": productHandler.NewProductViews(products)})
}

// Toggle handles POST /wishlist/:productId.
func (h *WishlistHandler) Toggle(c *gin.Context) {
	ctx := c.Request.Context()
	productID := c.Param("productId")

	saved, err := h.uc.Toggle(ctx, auth.GetUserID(ctx), productID)
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product_id": productID, "saved": saved})
}

// Remove handles DELETE /wishlist/:productId.
func (h *WishlistHandler) Remove(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.uc.Remove(ctx, auth.GetUserID(ctx), c.Param("productId")); err != nil {
		response.Error(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
