package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/eduobras/seguimiento/internal/server"
	"github.com/eduobras/seguimiento/modules/tracking/infrastructure/persistence"
	"github.com/eduobras/seguimiento/modules/tracking/seed"
	"github.com/eduobras/seguimiento/pkg/composables"
	"github.com/eduobras/seguimiento/pkg/configuration"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			log.Println(r)
			debug.PrintStack()
			os.Exit(1)
		}
	}()

	conf := configuration.Use()
	logger := conf.Logger()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	pool, err := pgxpool.New(ctx, conf.Database.ConnectionString())
	if err != nil {
		panic(err)
	}
	defer pool.Close()

	if err := persistence.EnsureSchema(ctx, pool); err != nil {
		panic(err)
	}

	seedCtx := composables.WithPool(context.Background(), pool)
	loader := seed.NewLoader(
		persistence.NewCatalogRepository(),
		conf.Seed.IndicatorsPath,
		conf.Seed.HierarchyPath,
		logger,
	)
	if err := loader.Run(seedCtx); err != nil {
		logger.WithError(err).Warn("catalog seed failed, continuing without it")
	}

	srv := server.Default(&server.DefaultOptions{
		Logger:        logger,
		Configuration: conf,
		Pool:          pool,
	})

	addr := fmt.Sprintf(":%d", conf.ServerPort)
	logger.Infof("Listening on %s", addr)
	if err := srv.Start(addr); err != nil {
		panic(err)
	}
}
