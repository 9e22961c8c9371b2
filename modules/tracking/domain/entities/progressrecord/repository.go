package progressrecord

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("progress record not found")

// TrackingSnapshot is the latest recorded state for an activity, joined up
// the location chain so the form can pre-select municipality, institution
// and site.
type TrackingSnapshot struct {
	ActivityID     int64
	SiteID         *int64
	IndicatorID    *int64
	InstitutionID  *int64
	MunicipalityID *int64
	Responsible    string
	Notes          string
}

type Repository interface {
	Create(ctx context.Context, r ProgressRecord) (ProgressRecord, error)
	// LatestByActivity returns the most recent record for the activity
	// with its location chain resolved.
	LatestByActivity(ctx context.Context, activityID int64) (TrackingSnapshot, error)
}
