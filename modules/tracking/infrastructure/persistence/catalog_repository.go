package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/eduobras/seguimiento/modules/tracking/domain/entities/catalog"
	"github.com/eduobras/seguimiento/modules/tracking/infrastructure/persistence/models"
	"github.com/eduobras/seguimiento/pkg/composables"
)

const (
	municipalityFindQuery = `SELECT id, name FROM municipalities`
	institutionFindQuery  = `SELECT id, name, municipality_id FROM institutions`
	siteFindQuery         = `SELECT id, name, institution_id FROM sites`
	indicatorFindQuery    = `SELECT id, name FROM indicators`
)

type CatalogRepository struct{}

func NewCatalogRepository() catalog.Repository {
	return &CatalogRepository{}
}

func (r *CatalogRepository) GetMunicipalityByName(ctx context.Context, name string) (catalog.Municipality, error) {
	munis, err := r.queryMunicipalities(ctx, municipalityFindQuery+" WHERE name = $1", name)
	if err != nil {
		return catalog.Municipality{}, err
	}
	if len(munis) == 0 {
		return catalog.Municipality{}, catalog.ErrMunicipalityNotFound
	}
	return munis[0], nil
}

func (r *CatalogRepository) CreateMunicipality(ctx context.Context, m catalog.Municipality) (catalog.Municipality, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return catalog.Municipality{}, err
	}

	var id int64
	err = tx.QueryRow(
		ctx,
		`INSERT INTO municipalities (name) VALUES ($1) RETURNING id`,
		m.Name(),
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return catalog.Municipality{}, catalog.ErrDuplicateName
		}
		return catalog.Municipality{}, errors.Wrap(err, "failed to create municipality")
	}
	return catalog.HydrateMunicipality(id, m.Name()), nil
}

func (r *CatalogRepository) ListMunicipalities(ctx context.Context) ([]catalog.Municipality, error) {
	return r.queryMunicipalities(ctx, municipalityFindQuery+" ORDER BY name")
}

func (r *CatalogRepository) GetInstitutionByName(ctx context.Context, name string, municipalityID int64) (catalog.Institution, error) {
	insts, err := r.queryInstitutions(ctx, institutionFindQuery+" WHERE name = $1 AND municipality_id = $2", name, municipalityID)
	if err != nil {
		return catalog.Institution{}, err
	}
	if len(insts) == 0 {
		return catalog.Institution{}, catalog.ErrInstitutionNotFound
	}
	return insts[0], nil
}

func (r *CatalogRepository) CreateInstitution(ctx context.Context, i catalog.Institution) (catalog.Institution, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return catalog.Institution{}, err
	}

	var id int64
	err = tx.QueryRow(
		ctx,
		`INSERT INTO institutions (name, municipality_id) VALUES ($1, $2) RETURNING id`,
		i.Name(),
		i.MunicipalityID(),
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return catalog.Institution{}, catalog.ErrDuplicateName
		}
		return catalog.Institution{}, errors.Wrap(err, "failed to create institution")
	}
	return catalog.HydrateInstitution(id, i.Name(), i.MunicipalityID()), nil
}

func (r *CatalogRepository) ListInstitutionsByMunicipality(ctx context.Context, municipalityID int64) ([]catalog.Institution, error) {
	return r.queryInstitutions(ctx, institutionFindQuery+" WHERE municipality_id = $1 ORDER BY name", municipalityID)
}

func (r *CatalogRepository) GetSiteByName(ctx context.Context, name string, institutionID int64) (catalog.Site, error) {
	sites, err := r.querySites(ctx, siteFindQuery+" WHERE name = $1 AND institution_id = $2", name, institutionID)
	if err != nil {
		return catalog.Site{}, err
	}
	if len(sites) == 0 {
		return catalog.Site{}, catalog.ErrSiteNotFound
	}
	return sites[0], nil
}

func (r *CatalogRepository) CreateSite(ctx context.Context, s catalog.Site) (catalog.Site, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return catalog.Site{}, err
	}

	var id int64
	err = tx.QueryRow(
		ctx,
		`INSERT INTO sites (name, institution_id) VALUES ($1, $2) RETURNING id`,
		s.Name(),
		s.InstitutionID(),
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return catalog.Site{}, catalog.ErrDuplicateName
		}
		return catalog.Site{}, errors.Wrap(err, "failed to create site")
	}
	return catalog.HydrateSite(id, s.Name(), s.InstitutionID()), nil
}

func (r *CatalogRepository) ListSitesByInstitution(ctx context.Context, institutionID int64) ([]catalog.Site, error) {
	return r.querySites(ctx, siteFindQuery+" WHERE institution_id = $1 ORDER BY name", institutionID)
}

func (r *CatalogRepository) GetIndicatorByName(ctx context.Context, name string) (catalog.Indicator, error) {
	indicators, err := r.queryIndicators(ctx, indicatorFindQuery+" WHERE name = $1", name)
	if err != nil {
		return catalog.Indicator{}, err
	}
	if len(indicators) == 0 {
		return catalog.Indicator{}, catalog.ErrIndicatorNotFound
	}
	return indicators[0], nil
}

func (r *CatalogRepository) CreateIndicator(ctx context.Context, i catalog.Indicator) (catalog.Indicator, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return catalog.Indicator{}, err
	}

	var id int64
	err = tx.QueryRow(
		ctx,
		`INSERT INTO indicators (name) VALUES ($1) RETURNING id`,
		i.Name(),
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return catalog.Indicator{}, catalog.ErrDuplicateName
		}
		return catalog.Indicator{}, errors.Wrap(err, "failed to create indicator")
	}
	return catalog.HydrateIndicator(id, i.Name()), nil
}

func (r *CatalogRepository) ListIndicators(ctx context.Context) ([]catalog.Indicator, error) {
	return r.queryIndicators(ctx, indicatorFindQuery+" ORDER BY name")
}

func (r *CatalogRepository) CountIndicators(ctx context.Context) (int64, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM indicators`).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "failed to count indicators")
	}
	return count, nil
}

func (r *CatalogRepository) queryMunicipalities(ctx context.Context, query string, args ...any) ([]catalog.Municipality, error) {
	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []catalog.Municipality
	for rows.Next() {
		var m models.Municipality
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return nil, errors.Wrap(err, "failed to scan municipality row")
		}
		out = append(out, toDomainMunicipality(&m))
	}
	return out, rows.Err()
}

func (r *CatalogRepository) queryInstitutions(ctx context.Context, query string, args ...any) ([]catalog.Institution, error) {
	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []catalog.Institution
	for rows.Next() {
		var m models.Institution
		if err := rows.Scan(&m.ID, &m.Name, &m.MunicipalityID); err != nil {
			return nil, errors.Wrap(err, "failed to scan institution row")
		}
		out = append(out, toDomainInstitution(&m))
	}
	return out, rows.Err()
}

func (r *CatalogRepository) querySites(ctx context.Context, query string, args ...any) ([]catalog.Site, error) {
	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []catalog.Site
	for rows.Next() {
		var m models.Site
		if err := rows.Scan(&m.ID, &m.Name, &m.InstitutionID); err != nil {
			return nil, errors.Wrap(err, "failed to scan site row")
		}
		out = append(out, toDomainSite(&m))
	}
	return out, rows.Err()
}

func (r *CatalogRepository) queryIndicators(ctx context.Context, query string, args ...any) ([]catalog.Indicator, error) {
	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []catalog.Indicator
	for rows.Next() {
		var m models.Indicator
		if err := rows.Scan(&m.ID, &m.Name); err != nil {
			return nil, errors.Wrap(err, "failed to scan indicator row")
		}
		out = append(out, toDomainIndicator(&m))
	}
	return out, rows.Err()
}

func (r *CatalogRepository) query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get transaction")
	}
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to execute query")
	}
	return rows, nil
}
