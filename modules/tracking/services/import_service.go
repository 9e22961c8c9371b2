package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/eduobras/seguimiento/modules/tracking/domain/aggregates/project"
	"github.com/eduobras/seguimiento/modules/tracking/domain/entities/progressrecord"
	"github.com/eduobras/seguimiento/pkg/excel"
	"github.com/eduobras/seguimiento/pkg/metrics"
	"github.com/eduobras/seguimiento/pkg/normalize"
)

// Header aliases per logical field, first match wins. Keys are already in
// canonical header form (whitespace stripped, upper-cased, no diacritics),
// so "Valor R.P." and "VALOR RP" both land on the same field.
var (
	aliasProjectCode    = []string{"CODIGOBPIN"}
	aliasProjectName    = []string{"NOMBREDELPROYECTO"}
	aliasContractYear   = []string{"ANOCONTRATO"}
	aliasContractor     = []string{"CONTRATISTA"}
	aliasActivity       = []string{"ACTIVIDADESACONTRATAR"}
	aliasRP             = []string{"VALORRP", "VALORR.P."}
	aliasSGP            = []string{"VALORSGP", "VALORS.G.P."}
	aliasMEN            = []string{"VALORMEN", "VALORM.E.N."}
	aliasCofinancing    = []string{"VALORCOFINANCIACION", "VALORCOFINANCIACIONNACIONAL"}
	aliasSGR            = []string{"VALORSGR", "VALORS.G.R.", "VALORREGALIAS"}
	aliasMunicipality   = []string{"MUNICIPIO"}
	aliasInstitution    = []string{"INSTITUCIONEDUCATIVABENEFICIADA", "INSTITUCION"}
	aliasSite           = []string{"SEDEINSTITUCIONEDUCATIVABENEFICIADA", "SEDE"}
	aliasIndicator      = []string{"INDICADOR"}
	aliasRecordDate     = []string{"FECHASEGUIMIENTO"}
	aliasPercentage     = []string{"%AVANCEFISICO", "%DEAVANCE"}
	aliasResponsible    = []string{"RESPONSABLE"}
	aliasNotes          = []string{"OBSERVACIONES"}
	aliasAdditionAmount = []string{"ADICIONDERECURSOS2026", "VALORADICION"}
	aliasAdditionSource = []string{"FUENTEADICION"}
)

// ImportResult summarizes a bulk load: rows turned into records and the
// per-row errors collected along the way.
type ImportResult struct {
	Processed int
	Errors    []string
}

// ImportService drives the resolvers over an uploaded workbook. Rows are
// processed strictly in order so a catalog row created by an early row is
// visible to later ones, and each row's work commits independently; a
// failing row is recorded and never aborts the batch.
type ImportService struct {
	projects *ProjectService
	catalogs *CatalogService
	records  progressrecord.Repository
	logger   *logrus.Logger
}

func NewImportService(
	projects *ProjectService,
	catalogs *CatalogService,
	records progressrecord.Repository,
	logger *logrus.Logger,
) *ImportService {
	return &ImportService{
		projects: projects,
		catalogs: catalogs,
		records:  records,
		logger:   logger,
	}
}

// Import loads the first sheet of the workbook at path. A file that cannot
// be opened or parsed fails the whole operation before any row runs.
func (s *ImportService) Import(ctx context.Context, path string) (ImportResult, error) {
	sheet, err := excel.ReadFirstSheet(path)
	if err != nil {
		return ImportResult{}, err
	}

	indicators, err := s.catalogs.IndicatorIndex(ctx)
	if err != nil {
		return ImportResult{}, err
	}

	log := s.logger.WithField("batch", uuid.New().String())
	log.Infof("Import started: %d data rows", len(sheet.Rows))

	result := ImportResult{}
	for i := range sheet.Rows {
		// 1-based data position offset by the header row.
		rowNum := i + 2
		row := normalize.Header(sheet.RowMap(i))

		code := strings.TrimSpace(cell(row, aliasProjectCode))
		name := strings.TrimSpace(cell(row, aliasProjectName))
		if code == "" && name == "" {
			if populatedCells(row) > 1 {
				result.Errors = append(result.Errors, fmt.Sprintf("Fila %d: fila sin identificadores.", rowNum))
				metrics.ImportRowErrors.Inc()
			}
			// A blank trailing row is skipped without counting as an error.
			continue
		}

		if err := s.importRow(ctx, row, code, name, indicators); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Fila %d: %v", rowNum, err))
			metrics.ImportRowErrors.Inc()
			continue
		}
		result.Processed++
		metrics.ImportRowsProcessed.Inc()
	}

	log.Infof("Import finished: %d rows processed, %d errors", result.Processed, len(result.Errors))
	return result, nil
}

func (s *ImportService) importRow(ctx context.Context, row map[string]string, code, name string, indicators map[string]int64) error {
	projectID, err := s.projects.ResolveOrCreate(ctx, ProjectInput{
		Code:         code,
		Name:         name,
		ContractYear: parseInt(cell(row, aliasContractYear)),
		Contractor:   cell(row, aliasContractor),
		Funding: project.Funding{
			RP:          parseAmount(cell(row, aliasRP)),
			SGP:         parseAmount(cell(row, aliasSGP)),
			MEN:         parseAmount(cell(row, aliasMEN)),
			SGR:         parseAmount(cell(row, aliasSGR)),
			Cofinancing: parseAmount(cell(row, aliasCofinancing)),
		},
	})
	if err != nil {
		return err
	}

	activityID, err := s.projects.ResolveActivity(ctx, projectID, nil, cell(row, aliasActivity))
	if err != nil {
		return err
	}

	siteID, err := s.resolveLocation(ctx, row)
	if err != nil {
		return err
	}

	var indicatorID *int64
	if indName := normalize.Name(cell(row, aliasIndicator)); indName != "" {
		if id, ok := indicators[indName]; ok {
			indicatorID = &id
		}
	}

	recordDate, err := resolveRecordDate(cell(row, aliasRecordDate))
	if err != nil {
		return err
	}

	percentage, err := parsePercentage(cell(row, aliasPercentage))
	if err != nil {
		return err
	}

	addition := parseAmount(cell(row, aliasAdditionAmount))

	rec := progressrecord.New(
		projectID,
		activityID,
		progressrecord.WithSiteID(siteID),
		progressrecord.WithIndicatorID(indicatorID),
		progressrecord.WithPercentage(percentage),
		progressrecord.WithRecordDate(recordDate),
		progressrecord.WithResponsible(cell(row, aliasResponsible)),
		progressrecord.WithNotes(cell(row, aliasNotes)),
		progressrecord.WithAddition(addition.IsPositive(), addition, cell(row, aliasAdditionSource)),
	)
	_, err = s.records.Create(ctx, rec)
	return err
}

// resolveLocation walks municipality → institution → site, stopping at the
// first absent level; lower levels stay null when a parent is missing.
func (s *ImportService) resolveLocation(ctx context.Context, row map[string]string) (*int64, error) {
	munName := cell(row, aliasMunicipality)
	if strings.TrimSpace(munName) == "" {
		return nil, nil
	}
	municipalityID, err := s.catalogs.ResolveMunicipality(ctx, munName)
	if err != nil {
		return nil, err
	}

	instName := cell(row, aliasInstitution)
	if strings.TrimSpace(instName) == "" {
		return nil, nil
	}
	institutionID, err := s.catalogs.ResolveInstitution(ctx, instName, municipalityID)
	if err != nil {
		return nil, err
	}

	siteName := cell(row, aliasSite)
	if strings.TrimSpace(siteName) == "" {
		return nil, nil
	}
	siteID, err := s.catalogs.ResolveSite(ctx, siteName, institutionID)
	if err != nil {
		return nil, err
	}
	return &siteID, nil
}

// cell returns the first non-blank value among the aliases of a field.
func cell(row map[string]string, aliases []string) string {
	for _, alias := range aliases {
		if v, ok := row[alias]; ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func populatedCells(row map[string]string) int {
	n := 0
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			n++
		}
	}
	return n
}

func parseAmount(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func parseInt(s string) int {
	if s == "" {
		return 0
	}
	// Year cells sometimes arrive as "2024.0" from spreadsheet numerics.
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int(f)
}

func parsePercentage(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("porcentaje de avance inválido: %q", s)
	}
	return v, nil
}

// resolveRecordDate turns a raw date cell into DD/MM/YYYY text: numeric
// spreadsheet serials are converted, an absent cell defaults to today, and
// any other text is kept as-is.
func resolveRecordDate(raw string) (string, error) {
	if raw == "" {
		now := time.Now()
		return fmt.Sprintf("%d/%d/%d", now.Day(), int(now.Month()), now.Year()), nil
	}
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		y, m, d, err := excel.DateSerialToTime(serial)
		if err != nil {
			return "", fmt.Errorf("fecha de seguimiento inválida: %q", raw)
		}
		return fmt.Sprintf("%d/%d/%d", d, m, y), nil
	}
	return raw, nil
}
