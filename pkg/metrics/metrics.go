package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ImportRowsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "seguimiento_import_rows_processed_total",
		Help: "Spreadsheet rows successfully turned into progress records.",
	})
	ImportRowErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "seguimiento_import_row_errors_total",
		Help: "Spreadsheet rows rejected with a row-level error.",
	})
	RecordsSaved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "seguimiento_records_saved_total",
		Help: "Progress records created through the interactive save path.",
	})
)

func Handler() http.Handler {
	return promhttp.Handler()
}
