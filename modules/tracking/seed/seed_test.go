package seed

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/eduobras/seguimiento/modules/tracking/domain/entities/catalog"
)

type memoryCatalog struct {
	municipalities []catalog.Municipality
	institutions   []catalog.Institution
	sites          []catalog.Site
	indicators     []catalog.Indicator
	nextID         int64
}

func (m *memoryCatalog) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memoryCatalog) GetMunicipalityByName(_ context.Context, name string) (catalog.Municipality, error) {
	for _, mu := range m.municipalities {
		if mu.Name() == name {
			return mu, nil
		}
	}
	return catalog.Municipality{}, catalog.ErrMunicipalityNotFound
}

func (m *memoryCatalog) CreateMunicipality(_ context.Context, mu catalog.Municipality) (catalog.Municipality, error) {
	created := catalog.HydrateMunicipality(m.id(), mu.Name())
	m.municipalities = append(m.municipalities, created)
	return created, nil
}

func (m *memoryCatalog) ListMunicipalities(_ context.Context) ([]catalog.Municipality, error) {
	return m.municipalities, nil
}

func (m *memoryCatalog) GetInstitutionByName(_ context.Context, name string, municipalityID int64) (catalog.Institution, error) {
	for _, i := range m.institutions {
		if i.Name() == name && i.MunicipalityID() == municipalityID {
			return i, nil
		}
	}
	return catalog.Institution{}, catalog.ErrInstitutionNotFound
}

func (m *memoryCatalog) CreateInstitution(_ context.Context, i catalog.Institution) (catalog.Institution, error) {
	created := catalog.HydrateInstitution(m.id(), i.Name(), i.MunicipalityID())
	m.institutions = append(m.institutions, created)
	return created, nil
}

func (m *memoryCatalog) ListInstitutionsByMunicipality(_ context.Context, municipalityID int64) ([]catalog.Institution, error) {
	var out []catalog.Institution
	for _, i := range m.institutions {
		if i.MunicipalityID() == municipalityID {
			out = append(out, i)
		}
	}
	return out, nil
}

func (m *memoryCatalog) GetSiteByName(_ context.Context, name string, institutionID int64) (catalog.Site, error) {
	for _, s := range m.sites {
		if s.Name() == name && s.InstitutionID() == institutionID {
			return s, nil
		}
	}
	return catalog.Site{}, catalog.ErrSiteNotFound
}

func (m *memoryCatalog) CreateSite(_ context.Context, s catalog.Site) (catalog.Site, error) {
	created := catalog.HydrateSite(m.id(), s.Name(), s.InstitutionID())
	m.sites = append(m.sites, created)
	return created, nil
}

func (m *memoryCatalog) ListSitesByInstitution(_ context.Context, institutionID int64) ([]catalog.Site, error) {
	var out []catalog.Site
	for _, s := range m.sites {
		if s.InstitutionID() == institutionID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memoryCatalog) GetIndicatorByName(_ context.Context, name string) (catalog.Indicator, error) {
	for _, i := range m.indicators {
		if i.Name() == name {
			return i, nil
		}
	}
	return catalog.Indicator{}, catalog.ErrIndicatorNotFound
}

func (m *memoryCatalog) CreateIndicator(_ context.Context, i catalog.Indicator) (catalog.Indicator, error) {
	for _, existing := range m.indicators {
		if existing.Name() == i.Name() {
			return catalog.Indicator{}, catalog.ErrDuplicateName
		}
	}
	created := catalog.HydrateIndicator(m.id(), i.Name())
	m.indicators = append(m.indicators, created)
	return created, nil
}

func (m *memoryCatalog) ListIndicators(_ context.Context) ([]catalog.Indicator, error) {
	return m.indicators, nil
}

func (m *memoryCatalog) CountIndicators(_ context.Context) (int64, error) {
	return int64(len(m.indicators)), nil
}

func writeWorkbook(t *testing.T, path string, rows [][]string) {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, v))
		}
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
}

func newTestLoader(catalogs catalog.Repository, indicatorsPath, hierarchyPath string) *Loader {
	l := NewLoader(catalogs, indicatorsPath, hierarchyPath, logrus.New())
	l.inTx = func(ctx context.Context, fn func(context.Context) error) error {
		return fn(ctx)
	}
	return l
}

func TestLoader_Run(t *testing.T) {
	dir := t.TempDir()
	indicatorsPath := filepath.Join(dir, "indicadores.xlsx")
	hierarchyPath := filepath.Join(dir, "sedes.xlsx")

	writeWorkbook(t, indicatorsPath, [][]string{
		{"INDICADOR"},
		{"Aulas Construidas"},
		{"Baterías Sanitarias"},
		{"aulas construidas"},
		{""},
	})
	writeWorkbook(t, hierarchyPath, [][]string{
		{"MUNICIPIO", "INSTITUCION EDUCATIVA", "SEDE EDUCATIVA"},
		{"Neiva", "IE Central", "Sede Principal"},
		{"Neiva", "IE Central", "Sede Norte"},
		{"Neiva", "IE Oriente", "Sede Principal"},
		{"Pitalito", "IE Central", "Sede Principal"},
		{"Pitalito", "", ""},
	})

	catalogs := &memoryCatalog{}
	loader := newTestLoader(catalogs, indicatorsPath, hierarchyPath)
	require.NoError(t, loader.Run(context.Background()))

	require.Len(t, catalogs.indicators, 2)
	require.Equal(t, "AULAS CONSTRUIDAS", catalogs.indicators[0].Name())

	require.Len(t, catalogs.municipalities, 2)
	require.Len(t, catalogs.institutions, 3)
	require.Len(t, catalogs.sites, 4)
}

func TestLoader_Run_skipsWhenSeeded(t *testing.T) {
	catalogs := &memoryCatalog{}
	_, err := catalogs.CreateIndicator(context.Background(), catalog.NewIndicator("Aulas"))
	require.NoError(t, err)

	loader := newTestLoader(catalogs, "does-not-exist.xlsx", "does-not-exist.xlsx")
	require.NoError(t, loader.Run(context.Background()))
	require.Len(t, catalogs.indicators, 1)
}

func TestLoader_Run_firstColumnFallback(t *testing.T) {
	dir := t.TempDir()
	indicatorsPath := filepath.Join(dir, "indicadores.xlsx")
	hierarchyPath := filepath.Join(dir, "sedes.xlsx")

	writeWorkbook(t, indicatorsPath, [][]string{
		{"Listado"},
		{"Comedores Escolares"},
	})
	writeWorkbook(t, hierarchyPath, [][]string{
		{"MUNICIPIO", "INSTITUCION", "SEDE"},
	})

	catalogs := &memoryCatalog{}
	loader := newTestLoader(catalogs, indicatorsPath, hierarchyPath)
	require.NoError(t, loader.Run(context.Background()))

	require.Len(t, catalogs.indicators, 1)
	require.Equal(t, "COMEDORES ESCOLARES", catalogs.indicators[0].Name())
}

func TestLoader_Run_positionalHierarchyFallback(t *testing.T) {
	dir := t.TempDir()
	indicatorsPath := filepath.Join(dir, "indicadores.xlsx")
	hierarchyPath := filepath.Join(dir, "sedes.xlsx")

	writeWorkbook(t, indicatorsPath, [][]string{
		{"INDICADOR"},
		{"Aulas Construidas"},
	})
	// None of the hierarchy headers are recognized, so the loader falls
	// back to column positions.
	writeWorkbook(t, hierarchyPath, [][]string{
		{"Ente Territorial", "Establecimiento", "Planta Física"},
		{"Neiva", "IE Central", "Sede Principal"},
		{"Neiva", "IE Central", "Sede Norte"},
		{"Pitalito", "IE Sur", "Sede Principal"},
	})

	catalogs := &memoryCatalog{}
	loader := newTestLoader(catalogs, indicatorsPath, hierarchyPath)
	require.NoError(t, loader.Run(context.Background()))

	require.Len(t, catalogs.municipalities, 2)
	require.Len(t, catalogs.institutions, 2)
	require.Len(t, catalogs.sites, 3)
	require.Equal(t, "NEIVA", catalogs.municipalities[0].Name())
}
