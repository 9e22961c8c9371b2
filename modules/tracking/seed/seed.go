// Package seed loads the bundled reference workbooks into the catalogs on
// first boot: the indicator list, and the municipality → institution → site
// hierarchy. A non-empty indicator catalog means the data was already
// loaded and the whole run is skipped.
package seed

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"github.com/eduobras/seguimiento/modules/tracking/domain/entities/catalog"
	"github.com/eduobras/seguimiento/pkg/composables"
	"github.com/eduobras/seguimiento/pkg/excel"
	"github.com/eduobras/seguimiento/pkg/normalize"
)

// Header aliases for the hierarchy workbook. When none match, the loader
// falls back to column position.
var (
	hierarchyMunicipality = []string{"MUNICIPIO"}
	hierarchyInstitution  = []string{"INSTITUCIONEDUCATIVA", "INSTITUCION"}
	hierarchySite         = []string{"SEDEEDUCATIVA", "SEDE"}
	indicatorName         = []string{"INDICADOR", "NOMBRE"}
)

type Loader struct {
	catalogs       catalog.Repository
	indicatorsPath string
	hierarchyPath  string
	logger         *logrus.Logger

	inTx func(context.Context, func(context.Context) error) error
}

func NewLoader(catalogs catalog.Repository, indicatorsPath, hierarchyPath string, logger *logrus.Logger) *Loader {
	return &Loader{
		catalogs:       catalogs,
		indicatorsPath: indicatorsPath,
		hierarchyPath:  hierarchyPath,
		logger:         logger,
		inTx:           composables.InTx,
	}
}

// Run loads both workbooks. Each workbook is one transaction; a failure
// rolls back that workbook's rows and aborts the run.
func (l *Loader) Run(ctx context.Context) error {
	count, err := l.catalogs.CountIndicators(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		l.logger.Info("Catalogs already seeded, skipping")
		return nil
	}

	if err := l.inTx(ctx, l.loadIndicators); err != nil {
		return errors.Wrap(err, "failed to seed indicators")
	}
	if err := l.inTx(ctx, l.loadHierarchy); err != nil {
		return errors.Wrap(err, "failed to seed location hierarchy")
	}
	return nil
}

func (l *Loader) loadIndicators(ctx context.Context) error {
	sheet, err := excel.ReadFirstSheet(l.indicatorsPath)
	if err != nil {
		return err
	}

	created := 0
	for i := range sheet.Rows {
		row := normalize.Header(sheet.RowMap(i))
		name := normalize.Name(cellOrFirst(row, sheet, i, indicatorName))
		if name == "" {
			continue
		}
		if _, err := l.catalogs.CreateIndicator(ctx, catalog.NewIndicator(name)); err != nil {
			if errors.Is(err, catalog.ErrDuplicateName) {
				continue
			}
			return err
		}
		created++
	}
	l.logger.Infof("Seeded %d indicators", created)
	return nil
}

func (l *Loader) loadHierarchy(ctx context.Context) error {
	sheet, err := excel.ReadFirstSheet(l.hierarchyPath)
	if err != nil {
		return err
	}

	// Workbooks without a recognized municipality header fall back to
	// fixed column positions: municipality, institution, site.
	positional := !hasHeader(sheet, hierarchyMunicipality)

	municipalities := map[string]int64{}
	institutions := map[string]int64{}
	sites := 0
	for i := range sheet.Rows {
		var munName, instName, siteName string
		if positional {
			munName = normalize.Name(columnAt(sheet, i, 0))
			instName = normalize.Name(columnAt(sheet, i, 1))
			siteName = normalize.Name(columnAt(sheet, i, 2))
		} else {
			row := normalize.Header(sheet.RowMap(i))
			munName = normalize.Name(cell(row, hierarchyMunicipality))
			instName = normalize.Name(cell(row, hierarchyInstitution))
			siteName = normalize.Name(cell(row, hierarchySite))
		}
		if munName == "" {
			continue
		}

		munID, ok := municipalities[munName]
		if !ok {
			munID, err = l.resolveMunicipality(ctx, munName)
			if err != nil {
				return err
			}
			municipalities[munName] = munID
		}
		if instName == "" {
			continue
		}

		instKey := instName + "|" + munName
		instID, ok := institutions[instKey]
		if !ok {
			instID, err = l.resolveInstitution(ctx, instName, munID)
			if err != nil {
				return err
			}
			institutions[instKey] = instID
		}
		if siteName == "" {
			continue
		}

		if _, err := l.resolveSite(ctx, siteName, instID); err != nil {
			return err
		}
		sites++
	}
	l.logger.Infof("Seeded hierarchy: %d municipalities, %d institutions, %d sites", len(municipalities), len(institutions), sites)
	return nil
}

func (l *Loader) resolveMunicipality(ctx context.Context, name string) (int64, error) {
	m, err := l.catalogs.GetMunicipalityByName(ctx, name)
	if err == nil {
		return m.ID(), nil
	}
	if !errors.Is(err, catalog.ErrMunicipalityNotFound) {
		return 0, err
	}
	created, err := l.catalogs.CreateMunicipality(ctx, catalog.NewMunicipality(name))
	if err != nil {
		return 0, err
	}
	return created.ID(), nil
}

func (l *Loader) resolveInstitution(ctx context.Context, name string, municipalityID int64) (int64, error) {
	inst, err := l.catalogs.GetInstitutionByName(ctx, name, municipalityID)
	if err == nil {
		return inst.ID(), nil
	}
	if !errors.Is(err, catalog.ErrInstitutionNotFound) {
		return 0, err
	}
	created, err := l.catalogs.CreateInstitution(ctx, catalog.NewInstitution(name, municipalityID))
	if err != nil {
		return 0, err
	}
	return created.ID(), nil
}

func (l *Loader) resolveSite(ctx context.Context, name string, institutionID int64) (int64, error) {
	s, err := l.catalogs.GetSiteByName(ctx, name, institutionID)
	if err == nil {
		return s.ID(), nil
	}
	if !errors.Is(err, catalog.ErrSiteNotFound) {
		return 0, err
	}
	created, err := l.catalogs.CreateSite(ctx, catalog.NewSite(name, institutionID))
	if err != nil {
		return 0, err
	}
	return created.ID(), nil
}

// hasHeader reports whether any alias appears among the sheet's headers
// after canonicalization.
func hasHeader(sheet *excel.Sheet, aliases []string) bool {
	for _, h := range sheet.Headers {
		key := normalize.HeaderKey(h)
		for _, alias := range aliases {
			if key == alias {
				return true
			}
		}
	}
	return false
}

func columnAt(sheet *excel.Sheet, i, col int) string {
	row := sheet.Rows[i]
	if col < len(row) {
		return row[col]
	}
	return ""
}

func cell(row map[string]string, aliases []string) string {
	for _, alias := range aliases {
		if v, ok := row[alias]; ok && v != "" {
			return v
		}
	}
	return ""
}

// cellOrFirst looks the aliases up and falls back to the first column, so
// a single-column workbook loads without a recognized header.
func cellOrFirst(row map[string]string, sheet *excel.Sheet, i int, aliases []string) string {
	if v := cell(row, aliases); v != "" {
		return v
	}
	if len(sheet.Rows[i]) > 0 {
		return sheet.Rows[i][0]
	}
	return ""
}
