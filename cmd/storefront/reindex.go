package main

import (
	"errors"
	"fmt"

	"github.com/fekuna/omnipos-storefront-service/internal/search"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	catRepoPkg "github.com/fekuna/omnipos-storefront-service/internal/category/repository"
	prodRepoPkg "github.com/fekuna/omnipos-storefront-service/internal/product/repository"
	prodUCPkg "github.com/fekuna/omnipos-storefront-service/internal/product/usecase"
)

func NewReindexCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Write every active product to the Elasticsearch index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(opts)
			if len(cfg.Elastic.Addresses) == 0 {
				return errors.New("ELASTICSEARCH_ADDRESSES is not set")
			}

			appLogger := newLogger(cfg)
			defer appLogger.Sync()

			db, err := connectPostgres(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			esClient, err := search.NewClient(&search.Config{
				Addresses: cfg.Elastic.Addresses,
				Username:  cfg.Elastic.Username,
				Password:  cfg.Elastic.Password,
			})
			if err != nil {
				return err
			}

			uc := prodUCPkg.NewProductUseCase(
				prodRepoPkg.NewPGRepository(db),
				catRepoPkg.NewPGRepository(db),
				nil,
				esClient,
				cfg.Storefront.ListCacheTTL,
				appLogger,
			)
			n, err := uc.ReindexProducts(cmd.Context())
			if err != nil {
				return err
			}
			appLogger.Info("Reindex finished", zap.Int("products", n))
			fmt.Fprintf(cmd.OutOrStdout(), "indexed %d products\n", n)
			return nil
		},
	}
}
