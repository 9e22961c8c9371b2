package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eduobras/seguimiento/modules/tracking/infrastructure/persistence"
	"github.com/eduobras/seguimiento/modules/tracking/services"
	"github.com/eduobras/seguimiento/pkg/configuration"
)

func newImportCmd() *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import progress records from a workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, pool, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			logger := configuration.Use().Logger()
			projects := services.NewProjectService(persistence.NewProjectRepository())
			catalogs := services.NewCatalogService(persistence.NewCatalogRepository())
			imports := services.NewImportService(projects, catalogs, persistence.NewProgressRecordRepository(), logger)

			result, err := imports.Import(ctx, input)
			if err != nil {
				return err
			}
			fmt.Printf("Procesados %d.\n", result.Processed)
			for _, rowErr := range result.Errors {
				fmt.Println(rowErr)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "Workbook path (required)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
