package dashboard

import (
	"context"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
)

type Repository interface {
	Stats(ctx context.Context, lowStockThreshold int) (*model.DashboardStats, error)
}
