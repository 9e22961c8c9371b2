package persistence

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/eduobras/seguimiento/modules/tracking/domain/aggregates/project"
	"github.com/eduobras/seguimiento/modules/tracking/infrastructure/persistence/models"
	"github.com/eduobras/seguimiento/pkg/composables"
	"github.com/eduobras/seguimiento/pkg/mapping"
)

const projectFindQuery = `
	SELECT id, code, name, contract_year, contractor,
	       total_amount::text, rp_amount::text, sgp_amount::text, men_amount::text, sgr_amount::text,
	       funding_sources
	FROM projects`

type ProjectRepository struct{}

func NewProjectRepository() project.Repository {
	return &ProjectRepository{}
}

func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (project.Project, error) {
	projects, err := r.queryProjects(ctx, projectFindQuery+" WHERE id = $1", id)
	if err != nil {
		return project.Project{}, err
	}
	if len(projects) == 0 {
		return project.Project{}, project.ErrNotFound
	}
	return projects[0], nil
}

func (r *ProjectRepository) GetByCode(ctx context.Context, code string) (project.Project, error) {
	projects, err := r.queryProjects(ctx, projectFindQuery+" WHERE code = $1", code)
	if err != nil {
		return project.Project{}, err
	}
	if len(projects) == 0 {
		return project.Project{}, project.ErrNotFound
	}
	return projects[0], nil
}

func (r *ProjectRepository) Search(ctx context.Context, query string) ([]project.Project, error) {
	pattern := fmt.Sprintf("%%%s%%", query)
	return r.queryProjects(
		ctx,
		projectFindQuery+fmt.Sprintf(" WHERE code ILIKE $1 OR name ILIKE $1 LIMIT %d", project.SearchLimit),
		pattern,
	)
}

func (r *ProjectRepository) Create(ctx context.Context, p project.Project) (project.Project, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return project.Project{}, err
	}

	funding := p.Funding()
	var id int64
	err = tx.QueryRow(
		ctx,
		`INSERT INTO projects
			(code, name, contract_year, contractor, total_amount, rp_amount, sgp_amount, men_amount, sgr_amount, funding_sources)
		 VALUES ($1, $2, $3, $4, $5::numeric, $6::numeric, $7::numeric, $8::numeric, $9::numeric, $10)
		 RETURNING id`,
		mapping.ValueToSQLNullString(p.Code()),
		p.Name(),
		p.ContractYear(),
		mapping.ValueToSQLNullString(p.Contractor()),
		p.TotalAmount().String(),
		funding.RP.String(),
		funding.SGP.String(),
		funding.MergedMEN().String(),
		funding.SGR.String(),
		mapping.ValueToSQLNullString(p.FundingSources()),
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return project.Project{}, project.ErrDuplicate
		}
		return project.Project{}, errors.Wrap(err, "failed to create project")
	}
	return r.GetByID(ctx, id)
}

func (r *ProjectRepository) ActivitiesByProject(ctx context.Context, projectID int64) ([]project.Activity, error) {
	rows, err := r.query(ctx, `SELECT id, project_id, description FROM activities WHERE project_id = $1 ORDER BY id`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []project.Activity
	for rows.Next() {
		var m models.Activity
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.Description); err != nil {
			return nil, errors.Wrap(err, "failed to scan activity row")
		}
		out = append(out, toDomainActivity(&m))
	}
	return out, rows.Err()
}

func (r *ProjectRepository) CreateActivity(ctx context.Context, a project.Activity) (project.Activity, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return project.Activity{}, err
	}

	var id int64
	err = tx.QueryRow(
		ctx,
		`INSERT INTO activities (project_id, description) VALUES ($1, $2) RETURNING id`,
		a.ProjectID(),
		a.Description(),
	).Scan(&id)
	if err != nil {
		return project.Activity{}, errors.Wrap(err, "failed to create activity")
	}
	return project.HydrateActivity(id, a.ProjectID(), a.Description()), nil
}

func (r *ProjectRepository) queryProjects(ctx context.Context, query string, args ...any) ([]project.Project, error) {
	rows, err := r.query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []project.Project
	for rows.Next() {
		var m models.Project
		if err := rows.Scan(
			&m.ID,
			&m.Code,
			&m.Name,
			&m.ContractYear,
			&m.Contractor,
			&m.TotalAmount,
			&m.RP,
			&m.SGP,
			&m.MEN,
			&m.SGR,
			&m.FundingSources,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan project row")
		}
		out = append(out, toDomainProject(&m))
	}
	return out, rows.Err()
}

func (r *ProjectRepository) query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
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
