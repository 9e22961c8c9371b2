package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/eduobras/seguimiento/modules/tracking/domain/entities/catalog"
	"github.com/eduobras/seguimiento/modules/tracking/domain/entities/progressrecord"
	"github.com/eduobras/seguimiento/pkg/metrics"
)

// ErrNoLocations rejects a save request that carries no site entries;
// nothing is written in that case.
var ErrNoLocations = errors.New("at least one site entry is required")

// LocationInput is one site entry of a save request. Each hierarchy level
// is either an existing catalog id or a proposed new name.
type LocationInput struct {
	Municipality catalog.LocationRef
	Institution  catalog.LocationRef
	Site         catalog.LocationRef
	Progress     float64
	Notes        string
}

// SaveParams is the single-record save input: project identity (or an
// already-resolved id), activity identity, and one record per location.
type SaveParams struct {
	ProjectID           *int64
	Project             ProjectInput
	ActivityID          *int64
	ActivityDescription string
	IndicatorID         *int64
	RecordDate          string
	Responsible         string
	IsAddition          bool
	AdditionAmount      decimal.Decimal
	AdditionSource      string
	Locations           []LocationInput
}

// TrackingService drives the interactive save path: resolve the project,
// the activity and every location chain, then append one immutable
// progress record per site. Resolver calls commit independently, so a
// failure partway leaves previously created catalog rows behind; the
// normalized lookups make a retry reuse them instead of duplicating.
type TrackingService struct {
	projects *ProjectService
	catalogs *CatalogService
	records  progressrecord.Repository
	logger   *logrus.Logger
}

func NewTrackingService(
	projects *ProjectService,
	catalogs *CatalogService,
	records progressrecord.Repository,
	logger *logrus.Logger,
) *TrackingService {
	return &TrackingService{
		projects: projects,
		catalogs: catalogs,
		records:  records,
		logger:   logger,
	}
}

// Save returns the number of sites recorded.
func (s *TrackingService) Save(ctx context.Context, params SaveParams) (int, error) {
	if len(params.Locations) == 0 {
		return 0, ErrNoLocations
	}

	var projectID int64
	if params.ProjectID != nil && *params.ProjectID != 0 {
		projectID = *params.ProjectID
	} else {
		id, err := s.projects.ResolveOrCreate(ctx, params.Project)
		if err != nil {
			return 0, err
		}
		projectID = id
	}

	activityID, err := s.projects.ResolveActivity(ctx, projectID, params.ActivityID, params.ActivityDescription)
	if err != nil {
		return 0, err
	}

	recordDate := params.RecordDate
	if recordDate == "" {
		now := time.Now()
		recordDate = fmt.Sprintf("%d/%d/%d", now.Day(), int(now.Month()), now.Year())
	}

	addition := decimal.Zero
	if params.IsAddition {
		addition = params.AdditionAmount
	}

	for _, loc := range params.Locations {
		municipalityID, err := s.catalogs.ResolveMunicipalityRef(ctx, loc.Municipality)
		if err != nil {
			return 0, err
		}
		institutionID, err := s.catalogs.ResolveInstitutionRef(ctx, loc.Institution, municipalityID)
		if err != nil {
			return 0, err
		}
		siteID, err := s.catalogs.ResolveSiteRef(ctx, loc.Site, institutionID)
		if err != nil {
			return 0, err
		}

		rec := progressrecord.New(
			projectID,
			activityID,
			progressrecord.WithSiteID(&siteID),
			progressrecord.WithIndicatorID(params.IndicatorID),
			progressrecord.WithPercentage(loc.Progress),
			progressrecord.WithRecordDate(recordDate),
			progressrecord.WithResponsible(params.Responsible),
			progressrecord.WithNotes(loc.Notes),
			progressrecord.WithAddition(params.IsAddition, addition, params.AdditionSource),
		)
		if _, err := s.records.Create(ctx, rec); err != nil {
			return 0, err
		}
		metrics.RecordsSaved.Inc()
	}

	s.logger.Infof("Saved progress for project %d across %d sites", projectID, len(params.Locations))
	return len(params.Locations), nil
}

// LatestTracking surfaces the last recorded state for an activity so the
// form can pre-fill its location and responsible fields.
func (s *TrackingService) LatestTracking(ctx context.Context, activityID int64) (progressrecord.TrackingSnapshot, error) {
	return s.records.LatestByActivity(ctx, activityID)
}
