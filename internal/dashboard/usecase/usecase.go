package usecase

import (
	"context"

	"github.com/fekuna/omnipos-storefront-service/internal/apperror"
	"github.com/fekuna/omnipos-storefront-service/internal/dashboard"
	"github.com/fekuna/omnipos-storefront-service/internal/logger"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
)

type dashboardUseCase struct {
	repo              dashboard.Repository
	lowStockThreshold int
	logger            logger.ZapLogger
}

func NewDashboardUseCase(repo dashboard.Repository, lowStockThreshold int, log logger.ZapLogger) dashboard.UseCase {
	return &dashboardUseCase{
		repo:              repo,
		lowStockThreshold: lowStockThreshold,
		logger:            log,
	}
}

func (uc *dashboardUseCase) GetStats(ctx context.Context) (*model.DashboardStats, error) {
	stats, err := uc.repo.Stats(ctx, uc.lowStockThreshold)
	if err != nil {
		return nil, apperror.Storage("dashboard.GetStats", err)
	}
	return stats, nil
}
