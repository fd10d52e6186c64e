package handler

import (
	"net/http"

	"github.com/fekuna/omnipos-storefront-service/internal/auth"
	"github.com/fekuna/omnipos-storefront-service/internal/cart"
	"github.com/fekuna/omnipos-storefront-service/internal/logger"
	"github.com/fekuna/omnipos-storefront-service/internal/response"
	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	uc     cart.UseCase
	logger logger.ZapLogger
}

func NewCartHandler(uc cart.UseCase, log logger.ZapLogger) *CartHandler {
	return &CartHandler{
		uc:     uc,
		logger: log,
	}
}

type addItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"` // 0 means 1
}

type updateItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// GetCart handles GET /cart.
func (h *CartHandler) GetCart(c *gin.Context) {
	summary, err := h.uc.GetCartSummary(c.Request.Context(), auth.GetUserID(c.Request.Context()))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": summary})
}

// AddItem handles POST /cart/items.
func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid input: "+err.Error())
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	ctx := c.Request.Context()
	if err := h.uc.AddToCart(ctx, auth.GetUserID(ctx), req.ProductID, req.Quantity); err != nil {
		response.Error(c, h.logger, err)
		return
	}
	h.respondWithCart(c, http.StatusOK)
}

// UpdateItem handles PUT /cart/items/:productId.
func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid input: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	if err := h.uc.UpdateCartItem(ctx, auth.GetUserID(ctx), c.Param("productId"), *req.Quantity); err != nil {
		response.Error(c, h.logger, err)
		return
	}
	h.respondWithCart(c, http.StatusOK)
}

// RemoveItem handles DELETE /cart/items/:productId.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.uc.RemoveFromCart(ctx, auth.GetUserID(ctx), c.Param("productId")); err != nil {
		response.Error(c, h.logger, err)
		return
	}
	h.respondWithCart(c, http.StatusOK)
}

// ClearCart handles DELETE /cart.
func (h *CartHandler) ClearCart(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.uc.ClearCart(ctx, auth.GetUserID(ctx)); err != nil {
		response.Error(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CartHandler) respondWithCart(c *gin.Context, status int) {
	summary, err := h.uc.GetCartSummary(c.Request.Context(), auth.GetUserID(c.Request.Context()))
	if err != nil {
		response.Error(c, h.logger, err)
		return
	}
	c.JSON(status, gin.H{"cart": summary})
}
