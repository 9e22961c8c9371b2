package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/eduobras/seguimiento/modules/tracking/infrastructure/query"
	"github.com/eduobras/seguimiento/modules/tracking/services"
)

func newExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every progress record to a report workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, pool, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			buf, err := services.NewExportService(query.NewExportQuery()).Workbook(ctx)
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
				return err
			}
			fmt.Printf("Reporte escrito en %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&output, "output", "Reporte_Proyectos.xlsx", "Output workbook path")
	return cmd
}
