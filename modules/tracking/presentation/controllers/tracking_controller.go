package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/eduobras/seguimiento/modules/tracking/domain/aggregates/project"
	"github.com/eduobras/seguimiento/modules/tracking/domain/entities/progressrecord"
	"github.com/eduobras/seguimiento/modules/tracking/infrastructure/query"
	"github.com/eduobras/seguimiento/modules/tracking/presentation/controllers/dtos"
	"github.com/eduobras/seguimiento/modules/tracking/services"
)

// TrackingAPIController exposes the whole tracking module over JSON:
// search and form lookups, the interactive save, the bulk workbook
// import/export, and the dashboard stats.
type TrackingAPIController struct {
	tracking      *services.TrackingService
	projects      *services.ProjectService
	catalogs      *services.CatalogService
	imports       *services.ImportService
	exports       *services.ExportService
	stats         *services.StatsService
	logger        *logrus.Logger
	uploadsPath   string
	maxUploadSize int64
}

func NewTrackingAPIController(
	tracking *services.TrackingService,
	projects *services.ProjectService,
	catalogs *services.CatalogService,
	imports *services.ImportService,
	exports *services.ExportService,
	stats *services.StatsService,
	logger *logrus.Logger,
	uploadsPath string,
	maxUploadSize int64,
) *TrackingAPIController {
	return &TrackingAPIController{
		tracking:      tracking,
		projects:      projects,
		catalogs:      catalogs,
		imports:       imports,
		exports:       exports,
		stats:         stats,
		logger:        logger,
		uploadsPath:   uploadsPath,
		maxUploadSize: maxUploadSize,
	}
}

func (c *TrackingAPIController) Register(r *mux.Router) {
	router := r.PathPrefix("/api").Subrouter()
	router.HandleFunc("/search", c.Search).Methods(http.MethodGet)
	router.HandleFunc("/project/{code}", c.GetProject).Methods(http.MethodGet)
	router.HandleFunc("/activity-details/{activityID}", c.ActivityDetails).Methods(http.MethodGet)
	router.HandleFunc("/save", c.Save).Methods(http.MethodPost)
	router.HandleFunc("/upload-excel", c.UploadExcel).Methods(http.MethodPost)
	router.HandleFunc("/export-excel", c.ExportExcel).Methods(http.MethodGet)
	router.HandleFunc("/municipios", c.Municipalities).Methods(http.MethodGet)
	router.HandleFunc("/instituciones/{municipalityID}", c.Institutions).Methods(http.MethodGet)
	router.HandleFunc("/sedes/{institutionID}", c.Sites).Methods(http.MethodGet)
	router.HandleFunc("/indicadores", c.Indicators).Methods(http.MethodGet)
	router.HandleFunc("/stats/general", c.GeneralStats).Methods(http.MethodGet)
	router.HandleFunc("/stats/evolution", c.Evolution).Methods(http.MethodGet)
}

func (c *TrackingAPIController) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	results, err := c.projects.Search(r.Context(), q)
	if err != nil {
		c.logger.WithError(err).Error("project search failed")
		writeJSONError(w, http.StatusInternalServerError, "Error búsqueda")
		return
	}
	out := make([]map[string]any, 0, len(results))
	for _, p := range results {
		out = append(out, projectJSON(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (c *TrackingAPIController) GetProject(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	p, activities, err := c.projects.GetByCode(r.Context(), code)
	if err != nil {
		if errors.Is(err, project.ErrNotFound) {
			writeJSON(w, http.StatusOK, map[string]any{"found": false})
			return
		}
		c.logger.WithError(err).Error("project lookup failed")
		writeJSONError(w, http.StatusInternalServerError, "Error al obtener proyecto")
		return
	}
	acts := make([]map[string]any, 0, len(activities))
	for _, a := range activities {
		acts = append(acts, map[string]any{
			"id":          a.ID(),
			"descripcion": a.Description(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"found":      true,
		"project":    projectJSON(p),
		"activities": acts,
	})
}

func (c *TrackingAPIController) ActivityDetails(w http.ResponseWriter, r *http.Request) {
	activityID, err := strconv.ParseInt(mux.Vars(r)["activityID"], 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Identificador de actividad inválido")
		return
	}
	snap, err := c.tracking.LatestTracking(r.Context(), activityID)
	if err != nil {
		if errors.Is(err, progressrecord.ErrNotFound) {
			writeJSON(w, http.StatusOK, map[string]any{})
			return
		}
		c.logger.WithError(err).Error("latest tracking lookup failed")
		writeJSONError(w, http.StatusInternalServerError, "Error al obtener detalles")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"actividad_id":   snap.ActivityID,
		"sede_id":        snap.SiteID,
		"indicador_id":   snap.IndicatorID,
		"institucion_id": snap.InstitutionID,
		"municipio_id":   snap.MunicipalityID,
		"responsable":    snap.Responsible,
		"observaciones":  snap.Notes,
	})
}

func (c *TrackingAPIController) Save(w http.ResponseWriter, r *http.Request) {
	var req dtos.SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if fieldErrors, ok := req.Ok(); !ok {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"success": false,
			"error":   "Datos inválidos",
			"fields":  fieldErrors,
		})
		return
	}

	count, err := c.tracking.Save(r.Context(), req.ToParams())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNoLocations):
			writeJSONError(w, http.StatusBadRequest, "Debes agregar al menos una sede.")
		case errors.Is(err, services.ErrMissingProjectIdentifier):
			writeJSONError(w, http.StatusBadRequest, "Falta código o nombre del proyecto.")
		case errors.Is(err, project.ErrMissingActivityDescription):
			writeJSONError(w, http.StatusBadRequest, "Falta descripción de la actividad.")
		default:
			c.logger.WithError(err).Error("save failed")
			writeJSONError(w, http.StatusInternalServerError, "Error al guardar")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Guardado correctamente en %d sedes.", count),
	})
}

func (c *TrackingAPIController) UploadExcel(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, c.maxUploadSize)
	file, _, err := r.FormFile("archivoExcel")
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "No se subió archivo.")
		return
	}
	defer func() { _ = file.Close() }()

	if err := os.MkdirAll(c.uploadsPath, 0o755); err != nil {
		c.logger.WithError(err).Error("failed to prepare uploads dir")
		writeJSONError(w, http.StatusInternalServerError, "Error procesando Excel.")
		return
	}
	stagingPath := filepath.Join(c.uploadsPath, uuid.New().String()+".xlsx")
	staged, err := os.Create(stagingPath)
	if err != nil {
		c.logger.WithError(err).Error("failed to stage upload")
		writeJSONError(w, http.StatusInternalServerError, "Error procesando Excel.")
		return
	}
	if _, err := io.Copy(staged, file); err != nil {
		_ = staged.Close()
		_ = os.Remove(stagingPath)
		writeJSONError(w, http.StatusInternalServerError, "Error procesando Excel.")
		return
	}
	_ = staged.Close()
	defer func() { _ = os.Remove(stagingPath) }()

	result, err := c.imports.Import(r.Context(), stagingPath)
	if err != nil {
		c.logger.WithError(err).Error("workbook import failed")
		writeJSONError(w, http.StatusInternalServerError, "Error procesando Excel.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Procesados %d.", result.Processed),
		"errors":  result.Errors,
	})
}

func (c *TrackingAPIController) ExportExcel(w http.ResponseWriter, r *http.Request) {
	buf, err := c.exports.Workbook(r.Context())
	if err != nil {
		c.logger.WithError(err).Error("report export failed")
		http.Error(w, "Error generando el reporte.", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Disposition", `attachment; filename="Reporte_Proyectos.xlsx"`)
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	_, _ = w.Write(buf.Bytes())
}

func (c *TrackingAPIController) Municipalities(w http.ResponseWriter, r *http.Request) {
	items, err := c.catalogs.Municipalities(r.Context())
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Error al listar municipios")
		return
	}
	out := make([]map[string]any, 0, len(items))
	for _, m := range items {
		out = append(out, map[string]any{"id": m.ID(), "nombre": m.Name()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (c *TrackingAPIController) Institutions(w http.ResponseWriter, r *http.Request) {
	municipalityID, err := strconv.ParseInt(mux.Vars(r)["municipalityID"], 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Identificador de municipio inválido")
		return
	}
	items, err := c.catalogs.InstitutionsByMunicipality(r.Context(), municipalityID)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Error al listar instituciones")
		return
	}
	out := make([]map[string]any, 0, len(items))
	for _, i := range items {
		out = append(out, map[string]any{"id": i.ID(), "nombre": i.Name()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (c *TrackingAPIController) Sites(w http.ResponseWriter, r *http.Request) {
	institutionID, err := strconv.ParseInt(mux.Vars(r)["institutionID"], 10, 64)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Identificador de institución inválido")
		return
	}
	items, err := c.catalogs.SitesByInstitution(r.Context(), institutionID)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Error al listar sedes")
		return
	}
	out := make([]map[string]any, 0, len(items))
	for _, s := range items {
		out = append(out, map[string]any{"id": s.ID(), "nombre": s.Name()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (c *TrackingAPIController) Indicators(w http.ResponseWriter, r *http.Request) {
	items, err := c.catalogs.Indicators(r.Context())
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Error al listar indicadores")
		return
	}
	out := make([]map[string]any, 0, len(items))
	for _, i := range items {
		out = append(out, map[string]any{"id": i.ID(), "nombre": i.Name()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (c *TrackingAPIController) GeneralStats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.stats.General(r.Context())
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Error al calcular estadísticas")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"total_proyectos": stats.TotalProjects,
		"total_inversion": stats.TotalInvestment,
		"total_sedes":     stats.TotalSites,
		"avance_promedio": stats.AverageProgress,
	})
}

func (c *TrackingAPIController) Evolution(w http.ResponseWriter, r *http.Request) {
	filters := query.EvolutionFilters{
		ProjectID:      queryID(r, "proyecto_id"),
		MunicipalityID: queryID(r, "municipio_id"),
		SiteID:         queryID(r, "sede_id"),
		IndicatorID:    queryID(r, "indicador_id"),
	}
	points, err := c.stats.Evolution(r.Context(), filters)
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Error al calcular evolución")
		return
	}
	out := make([]map[string]any, 0, len(points))
	for _, p := range points {
		out = append(out, map[string]any{
			"fecha_seguimiento": p.RecordDate,
			"avance_promedio":   p.AverageProgress,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func queryID(r *http.Request, name string) int64 {
	v, err := strconv.ParseInt(r.URL.Query().Get(name), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func projectJSON(p project.Project) map[string]any {
	return map[string]any{
		"id":              p.ID(),
		"codigo_bpin":     p.Code(),
		"nombre_proyecto": p.Name(),
		"anio_contrato":   p.ContractYear(),
		"contratista":     p.Contractor(),
		"valor_inicial":   p.TotalAmount().String(),
		"valor_rp":        p.Funding().RP.String(),
		"valor_sgp":       p.Funding().SGP.String(),
		"valor_men":       p.Funding().MEN.String(),
		"valor_sgr":       p.Funding().SGR.String(),
		"fuente_recursos": p.FundingSources(),
	}
}
