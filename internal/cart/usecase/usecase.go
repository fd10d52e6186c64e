package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/apperror"
	"github.com/fekuna/omnipos-storefront-service/internal/cart"
	"github.com/fekuna/omnipos-storefront-service/internal/logger"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"go.uber.org/zap"
)

type cartUseCase struct {
	repo     cart.Repository
	products cart.ProductLookup
	policy   cart.ShippingPolicy
	logger   logger.ZapLogger
}

func NewCartUseCase(repo cart.Repository, products cart.ProductLookup, policy cart.ShippingPolicy, log logger.ZapLogger) cart.UseCase {
	return &cartUseCase{
		repo:     repo,
		products: products,
		policy:   policy,
		logger:   log,
	}
}

func requireUser(op, userID string) error {
	if strings.TrimSpace(userID) == "" {
		return apperror.Validation(op, "user id is required")
	}
	return nil
}

func (uc *cartUseCase) GetCartItems(ctx context.Context, userID string) ([]model.CartItem, error) {
	const op = "cart.GetCartItems"

	if err := requireUser(op, userID); err != nil {
		return nil, err
	}
	items, err := uc.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, apperror.Storage(op, err)
	}
	return items, nil
}

func (uc *cartUseCase) GetCartSummary(ctx context.Context, userID string) (*model.CartSummary, error) {
	items, err := uc.GetCartItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary := cart.Summarize(items, uc.policy)
	return &summary, nil
}

// AddToCart sets the quantity for the product, replacing any earlier quantity.
func (uc *cartUseCase) AddToCart(ctx context.Context, userID, productID string, quantity int) error {
	const op = "cart.AddToCart"

	if err := requireUser(op, userID); err != nil {
		return err
	}
	if quantity <= 0 {
		return apperror.Validation(op, "quantity must be positive")
	}
	if err := uc.checkAvailable(ctx, op, productID, quantity); err != nil {
		return err
	}

	now := time.Now().UTC()
	err := uc.repo.Upsert(ctx, &model.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return apperror.Storage(op, err)
	}

	uc.logger.Debug("cart item set",
		zap.String("user_id", userID),
		zap.String("product_id", productID),
		zap.Int("quantity", quantity),
	)
	return nil
}

// UpdateCartItem sets the quantity of an existing row. Zero or less removes it.
// An absent row stays absent.
func (uc *cartUseCase) UpdateCartItem(ctx context.Context, userID, productID string, quantity int) error {
	const op = "cart.UpdateCartItem"

	if quantity <= 0 {
		return uc.RemoveFromCart(ctx, userID, productID)
	}
	if err := requireUser(op, userID); err != nil {
		return err
	}
	if err := uc.checkAvailable(ctx, op, productID, quantity); err != nil {
		return err
	}

	changed, err := uc.repo.UpdateQuantity(ctx, userID, productID, quantity, time.Now().UTC())
	if err != nil {
		return apperror.Storage(op, err)
	}
	if !changed {
		uc.logger.Debug("cart item not in cart, nothing updated",
			zap.String("user_id", userID), zap.String("product_id", productID))
	}
	return nil
}

func (uc *cartUseCase) RemoveFromCart(ctx context.Context, userID, productID string) error {
	const op = "cart.RemoveFromCart"

	if err := requireUser(op, userID); err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, userID, productID); err != nil {
		return apperror.Storage(op, err)
	}
	return nil
}

func (uc *cartUseCase) ClearCart(ctx context.Context, userID string) error {
	const op = "cart.ClearCart"

	if err := requireUser(op, userID); err != nil {
		return err
	}
	n, err := uc.repo.DeleteByUser(ctx, userID)
	if err != nil {
		return apperror.Storage(op, err)
	}

	uc.logger.Info("cart cleared", zap.String("user_id", userID), zap.Int64("items", n))
	return nil
}

// checkAvailable rejects unknown or retired products and quantities the
// shelf cannot cover.
func (uc *cartUseCase) checkAvailable(ctx context.Context, op, productID string, quantity int) error {
	if strings.TrimSpace(productID) == "" {
		return apperror.Validation(op, "product id is required")
	}

	p, err := uc.products.FindByID(ctx, productID)
	if err != nil {
		return apperror.Storage(op, err)
	}
	if p == nil || !p.IsActive {
		return apperror.NotFound(op, "product not found")
	}
	if quantity > p.StockQuantity {
		return apperror.Validation(op, "quantity exceeds available stock")
	}
	return nil
}
