package dashboard

import (
	"context"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
)

type UseCase interface {
	GetStats(ctx context.Context) (*model.DashboardStats, error)
}
