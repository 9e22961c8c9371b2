package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/eduobras/seguimiento/modules/tracking/infrastructure/persistence"
	"github.com/eduobras/seguimiento/pkg/composables"
	"github.com/eduobras/seguimiento/pkg/configuration"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "seguimiento-data",
		Short:         "Bulk data tool: workbook import, report export, catalog seed",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newSeedCmd())
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// connect opens the pool, applies the schema and returns a context the
// repositories can run against.
func connect(ctx context.Context) (context.Context, *pgxpool.Pool, error) {
	conf := configuration.Use()

	dialCtx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()
	pool, err := pgxpool.New(dialCtx, conf.Database.ConnectionString())
	if err != nil {
		return nil, nil, err
	}
	if err := persistence.EnsureSchema(dialCtx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return composables.WithPool(ctx, pool), pool, nil
}
