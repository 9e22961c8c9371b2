package main

import (
	"github.com/spf13/cobra"

	"github.com/eduobras/seguimiento/modules/tracking/infrastructure/persistence"
	"github.com/eduobras/seguimiento/modules/tracking/seed"
	"github.com/eduobras/seguimiento/pkg/configuration"
)

func newSeedCmd() *cobra.Command {
	var indicators, hierarchy string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the reference catalogs from the bundled workbooks",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, pool, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			conf := configuration.Use()
			if indicators == "" {
				indicators = conf.Seed.IndicatorsPath
			}
			if hierarchy == "" {
				hierarchy = conf.Seed.HierarchyPath
			}

			loader := seed.NewLoader(
				persistence.NewCatalogRepository(),
				indicators,
				hierarchy,
				conf.Logger(),
			)
			return loader.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&indicators, "indicators", "", "Indicator workbook path (default from config)")
	cmd.Flags().StringVar(&hierarchy, "hierarchy", "", "Location hierarchy workbook path (default from config)")
	return cmd
}
