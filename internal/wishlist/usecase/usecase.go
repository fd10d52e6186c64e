package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/apperror"
	"github.com/fekuna/omnipos-storefront-service/internal/logger"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/product"
	"github.com/fekuna/omnipos-storefront-service/internal/wishlist"
	"go.uber.org/zap"
)

type wishlistUseCase struct {
	repo       wishlist.Repository
	products   wishlist.ProductLookup
	categories product.CategoryLookup
	logger     logger.ZapLogger
}

func NewWishlistUseCase(
	repo wishlist.Repository,
	products wishlist.ProductLookup,
	categories product.CategoryLookup,
	log logger.ZapLogger,
) wishlist.UseCase {
	return &wishlistUseCase{
		repo:       repo,
		products:   products,
		categories: categories,
		logger:     log,
	}
}

func validatePair(op, userID, productID string) error {
	if strings.TrimSpace(userID) == "" {
		return apperror.Validation(op, "user id is required")
	}
	if strings.TrimSpace(productID) == "" {
		return apperror.Validation(op, "product id is required")
	}
	return nil
}

func (uc *wishlistUseCase) Add(ctx context.Context, userID, productID string) error {
	const op = "wishlist.Add"

	if err := validatePair(op, userID, productID); err != nil {
		return err
	}

	p, err := uc.products.FindByID(ctx, productID)
	if err != nil {
		return apperror.Storage(op, err)
	}
	if p == nil || !p.IsActive {
		return apperror.NotFound(op, "product not found")
	}

	err = uc.repo.Add(ctx, &model.WishlistItem{
		UserID:    userID,
		ProductID: productID,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return apperror.Storage(op, err)
	}
	return nil
}

func (uc *wishlistUseCase) Remove(ctx context.Context, userID, productID string) error {
	const op = "wishlist.Remove"

	if err := validatePair(op, userID, productID); err != nil {
		return err
	}
	if err := uc.repo.Remove(ctx, userID, productID); err != nil {
		return apperror.Storage(op, err)
	}
	return nil
}

func (uc *wishlistUseCase) Toggle(ctx context.Context, userID, productID string) (bool, error) {
	saved, err := uc.Contains(ctx, userID, productID)
	if err != nil {
		return false, err
	}

	if saved {
		err = uc.Remove(ctx, userID, productID)
	} else {
		err = uc.Add(ctx, userID, productID)
	}
	if err != nil {
		return saved, err
	}

	uc.logger.Debug("wishlist toggled",
		zap.String("user_id", userID),
		zap.String("product_id", productID),
		zap.Bool("saved", !saved),
	)
	return !saved, nil
}

func (uc *wishlistUseCase) List(ctx context.Context, userID string) ([]model.Product, error) {
	const op = "wishlist.List"

	if strings.TrimSpace(userID) == "" {
		return nil, apperror.Validation(op, "user id is required")
	}

	products, err := uc.repo.ListProducts(ctx, userID)
	if err != nil {
		return nil, apperror.Storage(op, err)
	}
	if err := product.AttachCategories(ctx, uc.categories, products); err != nil {
		return nil, apperror.Storage(op, err)
	}
	return products, nil
}

func (uc *wishlistUseCase) Contains(ctx context.Context, userID, productID string) (bool, error) {
	const op = "wishlist.Contains"

	if err := validatePair(op, userID, productID); err != nil {
		return false, err
	}
	ok, err := uc.repo.Exists(ctx, userID, productID)
	if err != nil {
		return false, apperror.Storage(op, err)
	}
	return ok, nil
}
