package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/eduobras/seguimiento/modules/tracking/infrastructure/persistence"
	"github.com/eduobras/seguimiento/modules/tracking/infrastructure/query"
	"github.com/eduobras/seguimiento/modules/tracking/presentation/controllers"
	"github.com/eduobras/seguimiento/modules/tracking/services"
	"github.com/eduobras/seguimiento/pkg/configuration"
	"github.com/eduobras/seguimiento/pkg/metrics"
	"github.com/eduobras/seguimiento/pkg/middleware"
	"github.com/eduobras/seguimiento/pkg/server"
)

type DefaultOptions struct {
	Logger        *logrus.Logger
	Configuration *configuration.Configuration
	Pool          *pgxpool.Pool
}

// Default assembles the tracking module's repositories, services and
// controllers into a ready HTTP server.
func Default(options *DefaultOptions) *server.HTTPServer {
	catalogRepo := persistence.NewCatalogRepository()
	projectRepo := persistence.NewProjectRepository()
	recordRepo := persistence.NewProgressRecordRepository()

	catalogs := services.NewCatalogService(catalogRepo)
	projects := services.NewProjectService(projectRepo)
	tracking := services.NewTrackingService(projects, catalogs, recordRepo, options.Logger)
	imports := services.NewImportService(projects, catalogs, recordRepo, options.Logger)
	exports := services.NewExportService(query.NewExportQuery())
	stats := services.NewStatsService(query.NewStatsQuery())

	api := controllers.NewTrackingAPIController(
		tracking,
		projects,
		catalogs,
		imports,
		exports,
		stats,
		options.Logger,
		options.Configuration.UploadsPath,
		options.Configuration.MaxUploadSize,
	)

	middlewares := []mux.MiddlewareFunc{
		middleware.WithLogger(options.Logger),
		middleware.WithPool(options.Pool),
	}

	srv := server.NewHTTPServer([]server.Controller{api}, middlewares)
	if options.Configuration.Prometheus.Enabled {
		srv.Controllers = append(srv.Controllers, metricsController{
			path: options.Configuration.Prometheus.Path,
		})
	}
	return srv
}

type metricsController struct {
	path string
}

func (c metricsController) Register(r *mux.Router) {
	r.Handle(c.path, metrics.Handler()).Methods(http.MethodGet)
}
