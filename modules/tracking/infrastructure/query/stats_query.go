package query

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-faster/errors"

	"github.com/eduobras/seguimiento/pkg/composables"
)

type GeneralStats struct {
	TotalProjects   int64
	TotalInvestment string
	TotalSites      int64
	AverageProgress float64
}

type EvolutionPoint struct {
	RecordDate      string
	AverageProgress float64
}

// EvolutionFilters narrow the evolution series; zero values mean no filter.
type EvolutionFilters struct {
	ProjectID      int64
	MunicipalityID int64
	SiteID         int64
	IndicatorID    int64
}

type StatsQuery interface {
	General(ctx context.Context) (GeneralStats, error)
	Evolution(ctx context.Context, f EvolutionFilters) ([]EvolutionPoint, error)
}

type PgStatsQuery struct{}

func NewStatsQuery() StatsQuery {
	return &PgStatsQuery{}
}

func (q *PgStatsQuery) General(ctx context.Context) (GeneralStats, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return GeneralStats{}, err
	}

	var (
		stats      GeneralStats
		investment sql.NullString
		avg        sql.NullFloat64
	)
	err = tx.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM projects),
			(SELECT COALESCE(SUM(total_amount), 0)::text FROM projects),
			(SELECT COUNT(*) FROM sites),
			(SELECT AVG(percentage) FROM progress_records)`,
	).Scan(&stats.TotalProjects, &investment, &stats.TotalSites, &avg)
	if err != nil {
		return GeneralStats{}, errors.Wrap(err, "failed to query general stats")
	}
	if investment.Valid {
		stats.TotalInvestment = investment.String
	} else {
		stats.TotalInvestment = "0"
	}
	if avg.Valid {
		stats.AverageProgress = avg.Float64
	}
	return stats, nil
}

func (q *PgStatsQuery) Evolution(ctx context.Context, f EvolutionFilters) ([]EvolutionPoint, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	queryStr := `
		SELECT pr.record_date, AVG(pr.percentage)
		FROM progress_records pr
		JOIN projects p ON pr.project_id = p.id
		LEFT JOIN sites s ON pr.site_id = s.id
		LEFT JOIN institutions i ON s.institution_id = i.id
		LEFT JOIN municipalities m ON i.municipality_id = m.id
		WHERE 1=1`

	var args []any
	if f.ProjectID != 0 {
		args = append(args, f.ProjectID)
		queryStr += fmt.Sprintf(" AND pr.project_id = $%d", len(args))
	}
	if f.MunicipalityID != 0 {
		args = append(args, f.MunicipalityID)
		queryStr += fmt.Sprintf(" AND m.id = $%d", len(args))
	}
	if f.SiteID != 0 {
		args = append(args, f.SiteID)
		queryStr += fmt.Sprintf(" AND pr.site_id = $%d", len(args))
	}
	if f.IndicatorID != 0 {
		args = append(args, f.IndicatorID)
		queryStr += fmt.Sprintf(" AND pr.indicator_id = $%d", len(args))
	}

	// Record dates are DD/MM/YYYY text; rebuild an ISO key so the series
	// comes out in calendar order.
	queryStr += `
		GROUP BY pr.record_date
		ORDER BY substr(pr.record_date, 7, 4) || '-' || substr(pr.record_date, 4, 2) || '-' || substr(pr.record_date, 1, 2) ASC`

	rows, err := tx.Query(ctx, queryStr, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query evolution series")
	}
	defer rows.Close()

	var out []EvolutionPoint
	for rows.Next() {
		var p EvolutionPoint
		if err := rows.Scan(&p.RecordDate, &p.AverageProgress); err != nil {
			return nil, errors.Wrap(err, "failed to scan evolution point")
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
