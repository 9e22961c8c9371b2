package query

import (
	"context"
	"database/sql"

	"github.com/go-faster/errors"

	"github.com/eduobras/seguimiento/pkg/composables"
	"github.com/eduobras/seguimiento/pkg/mapping"
)

// ExportRow is one fully denormalized progress record, joined through
// activity and project on one side and up the location chain on the other.
type ExportRow struct {
	Code           string
	ContractYear   int
	ProjectName    string
	Contractor     string
	Activity       string
	Municipality   string
	Institution    string
	Site           string
	Indicator      string
	TotalAmount    string
	RP             string
	SGP            string
	MEN            string
	SGR            string
	FundingSources string
	AdditionAmount string
	AdditionSource string
	Percentage     float64
	RecordDate     string
	Responsible    string
	Notes          string
}

type ExportQuery interface {
	Rows(ctx context.Context) ([]ExportRow, error)
}

type PgExportQuery struct{}

func NewExportQuery() ExportQuery {
	return &PgExportQuery{}
}

func (q *PgExportQuery) Rows(ctx context.Context) ([]ExportRow, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT p.code, p.contract_year, p.name, p.contractor,
		       a.description,
		       m.name, i.name, s.name, ind.name,
		       p.total_amount::text, p.rp_amount::text, p.sgp_amount::text, p.men_amount::text, p.sgr_amount::text,
		       p.funding_sources,
		       pr.addition_amount::text, pr.addition_source,
		       pr.percentage, pr.record_date, pr.responsible, pr.notes
		FROM progress_records pr
		JOIN projects p ON pr.project_id = p.id
		JOIN activities a ON pr.activity_id = a.id
		LEFT JOIN sites s ON pr.site_id = s.id
		LEFT JOIN institutions i ON s.institution_id = i.id
		LEFT JOIN municipalities m ON i.municipality_id = m.id
		LEFT JOIN indicators ind ON pr.indicator_id = ind.id
		ORDER BY pr.id DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query export rows")
	}
	defer rows.Close()

	var out []ExportRow
	for rows.Next() {
		var (
			r                                  ExportRow
			code, contractor, muni, inst       sql.NullString
			site, indicator, sources           sql.NullString
			additionSource, responsible, notes sql.NullString
		)
		if err := rows.Scan(
			&code, &r.ContractYear, &r.ProjectName, &contractor,
			&r.Activity,
			&muni, &inst, &site, &indicator,
			&r.TotalAmount, &r.RP, &r.SGP, &r.MEN, &r.SGR,
			&sources,
			&r.AdditionAmount, &additionSource,
			&r.Percentage, &r.RecordDate, &responsible, &notes,
		); err != nil {
			return nil, errors.Wrap(err, "failed to scan export row")
		}
		r.Code = mapping.SQLNullStringToValue(code)
		r.Contractor = mapping.SQLNullStringToValue(contractor)
		r.Municipality = mapping.SQLNullStringToValue(muni)
		r.Institution = mapping.SQLNullStringToValue(inst)
		r.Site = mapping.SQLNullStringToValue(site)
		r.Indicator = mapping.SQLNullStringToValue(indicator)
		r.FundingSources = mapping.SQLNullStringToValue(sources)
		r.AdditionSource = mapping.SQLNullStringToValue(additionSource)
		r.Responsible = mapping.SQLNullStringToValue(responsible)
		r.Notes = mapping.SQLNullStringToValue(notes)
		out = append(out, r)
	}
	return out, rows.Err()
}
