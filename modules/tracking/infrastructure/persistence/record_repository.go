package persistence

import (
	"context"
	"database/sql"

	stderrors "errors"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"

	"github.com/eduobras/seguimiento/modules/tracking/domain/entities/progressrecord"
	"github.com/eduobras/seguimiento/pkg/composables"
	"github.com/eduobras/seguimiento/pkg/mapping"
)

type ProgressRecordRepository struct{}

func NewProgressRecordRepository() progressrecord.Repository {
	return &ProgressRecordRepository{}
}

func (r *ProgressRecordRepository) Create(ctx context.Context, rec progressrecord.ProgressRecord) (progressrecord.ProgressRecord, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return progressrecord.ProgressRecord{}, err
	}

	var id int64
	err = tx.QueryRow(
		ctx,
		`INSERT INTO progress_records
			(project_id, activity_id, site_id, indicator_id, percentage, record_date,
			 responsible, notes, is_addition, addition_amount, addition_source)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::numeric, $11)
		 RETURNING id`,
		rec.ProjectID(),
		rec.ActivityID(),
		mapping.PointerToSQLNullInt64(rec.SiteID()),
		mapping.PointerToSQLNullInt64(rec.IndicatorID()),
		rec.Percentage(),
		rec.RecordDate(),
		mapping.ValueToSQLNullString(rec.Responsible()),
		mapping.ValueToSQLNullString(rec.Notes()),
		rec.IsAddition(),
		rec.AdditionAmount().String(),
		mapping.ValueToSQLNullString(rec.AdditionSource()),
	).Scan(&id)
	if err != nil {
		return progressrecord.ProgressRecord{}, errors.Wrap(err, "failed to create progress record")
	}

	created := progressrecord.New(
		rec.ProjectID(),
		rec.ActivityID(),
		progressrecord.WithID(id),
		progressrecord.WithSiteID(rec.SiteID()),
		progressrecord.WithIndicatorID(rec.IndicatorID()),
		progressrecord.WithPercentage(rec.Percentage()),
		progressrecord.WithRecordDate(rec.RecordDate()),
		progressrecord.WithResponsible(rec.Responsible()),
		progressrecord.WithNotes(rec.Notes()),
		progressrecord.WithAddition(rec.IsAddition(), rec.AdditionAmount(), rec.AdditionSource()),
	)
	return created, nil
}

func (r *ProgressRecordRepository) LatestByActivity(ctx context.Context, activityID int64) (progressrecord.TrackingSnapshot, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return progressrecord.TrackingSnapshot{}, err
	}

	var (
		siteID         sql.NullInt64
		indicatorID    sql.NullInt64
		institutionID  sql.NullInt64
		municipalityID sql.NullInt64
		responsible    sql.NullString
		notes          sql.NullString
	)
	err = tx.QueryRow(
		ctx,
		`SELECT pr.site_id, pr.indicator_id, pr.responsible, pr.notes,
		        s.institution_id, i.municipality_id
		 FROM progress_records pr
		 LEFT JOIN sites s ON pr.site_id = s.id
		 LEFT JOIN institutions i ON s.institution_id = i.id
		 WHERE pr.activity_id = $1
		 ORDER BY pr.id DESC
		 LIMIT 1`,
		activityID,
	).Scan(&siteID, &indicatorID, &responsible, &notes, &institutionID, &municipalityID)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return progressrecord.TrackingSnapshot{}, progressrecord.ErrNotFound
		}
		return progressrecord.TrackingSnapshot{}, errors.Wrap(err, "failed to query latest tracking")
	}

	return progressrecord.TrackingSnapshot{
		ActivityID:     activityID,
		SiteID:         mapping.SQLNullInt64ToPointer(siteID),
		IndicatorID:    mapping.SQLNullInt64ToPointer(indicatorID),
		InstitutionID:  mapping.SQLNullInt64ToPointer(institutionID),
		MunicipalityID: mapping.SQLNullInt64ToPointer(municipalityID),
		Responsible:    mapping.SQLNullStringToValue(responsible),
		Notes:          mapping.SQLNullStringToValue(notes),
	}, nil
}
