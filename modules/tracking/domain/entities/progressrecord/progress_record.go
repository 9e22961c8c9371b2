package progressrecord

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ProgressRecord is one immutable progress measurement for an activity.
// History only grows: updates are new records, existing rows are never
// mutated or deleted.
type ProgressRecord struct {
	id             int64
	projectID      int64
	activityID     int64
	siteID         *int64
	indicatorID    *int64
	percentage     float64
	recordDate     string
	responsible    string
	notes          string
	isAddition     bool
	additionAmount decimal.Decimal
	additionSource string
}

type Option func(*ProgressRecord)

func WithID(id int64) Option {
	return func(r *ProgressRecord) {
		r.id = id
	}
}

func WithSiteID(siteID *int64) Option {
	return func(r *ProgressRecord) {
		r.siteID = siteID
	}
}

func WithIndicatorID(indicatorID *int64) Option {
	return func(r *ProgressRecord) {
		r.indicatorID = indicatorID
	}
}

func WithPercentage(p float64) Option {
	return func(r *ProgressRecord) {
		r.percentage = p
	}
}

func WithRecordDate(date string) Option {
	return func(r *ProgressRecord) {
		r.recordDate = strings.TrimSpace(date)
	}
}

func WithResponsible(responsible string) Option {
	return func(r *ProgressRecord) {
		r.responsible = strings.ToUpper(strings.TrimSpace(responsible))
	}
}

func WithNotes(notes string) Option {
	return func(r *ProgressRecord) {
		r.notes = strings.ToUpper(strings.TrimSpace(notes))
	}
}

// WithAddition stores the budget-addition fields. The flag is kept as the
// caller supplied it; a marked addition may carry a zero amount.
func WithAddition(isAddition bool, amount decimal.Decimal, source string) Option {
	return func(r *ProgressRecord) {
		r.isAddition = isAddition
		r.additionAmount = amount
		r.additionSource = strings.ToUpper(strings.TrimSpace(source))
	}
}

func New(projectID, activityID int64, opts ...Option) ProgressRecord {
	r := ProgressRecord{
		projectID:      projectID,
		activityID:     activityID,
		additionAmount: decimal.Zero,
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

func (r ProgressRecord) ID() int64                       { return r.id }
func (r ProgressRecord) ProjectID() int64                { return r.projectID }
func (r ProgressRecord) ActivityID() int64               { return r.activityID }
func (r ProgressRecord) SiteID() *int64                  { return r.siteID }
func (r ProgressRecord) IndicatorID() *int64             { return r.indicatorID }
func (r ProgressRecord) Percentage() float64             { return r.percentage }
func (r ProgressRecord) RecordDate() string              { return r.recordDate }
func (r ProgressRecord) Responsible() string             { return r.responsible }
func (r ProgressRecord) Notes() string                   { return r.notes }
func (r ProgressRecord) IsAddition() bool                { return r.isAddition }
func (r ProgressRecord) AdditionAmount() decimal.Decimal { return r.additionAmount }
func (r ProgressRecord) AdditionSource() string          { return r.additionSource }
