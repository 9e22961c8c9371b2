package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduobras/seguimiento/modules/tracking/domain/entities/catalog"
	"github.com/eduobras/seguimiento/modules/tracking/domain/entities/progressrecord"
	"github.com/eduobras/seguimiento/modules/tracking/services"
)

func newTrackingFixture() (*services.TrackingService, *fakeProjectRepo, *fakeCatalogRepo, *fakeRecordRepo) {
	projects := &fakeProjectRepo{}
	catalogs := &fakeCatalogRepo{}
	records := &fakeRecordRepo{}
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	svc := services.NewTrackingService(
		services.NewProjectService(projects),
		services.NewCatalogService(catalogs),
		records,
		logger,
	)
	return svc, projects, catalogs, records
}

func TestTrackingService_Save(t *testing.T) {
	ctx := context.Background()
	svc, projects, catalogs, records := newTrackingFixture()

	count, err := svc.Save(ctx, services.SaveParams{
		Project: services.ProjectInput{
			Code: "2024-0007",
			Name: "Construcción aulas Neiva",
		},
		ActivityDescription: "Construcción de dos aulas",
		RecordDate:          "15/3/2024",
		Responsible:         "Interventoría",
		Locations: []services.LocationInput{
			{
				Municipality: catalog.Proposed("Neiva"),
				Institution:  catalog.Proposed("IE Central"),
				Site:         catalog.Proposed("Sede Principal"),
				Progress:     45.5,
				Notes:        "Obra en ejecución",
			},
			{
				Municipality: catalog.Proposed("Neiva"),
				Institution:  catalog.Proposed("IE Central"),
				Site:         catalog.Proposed("Sede Norte"),
				Progress:     10,
			},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.Len(t, projects.projects, 1)
	require.Len(t, projects.activities, 1)
	assert.Len(t, catalogs.municipalities, 1)
	assert.Len(t, catalogs.institutions, 1)
	assert.Len(t, catalogs.sites, 2)

	require.Len(t, records.records, 2)
	first := records.records[0]
	assert.Equal(t, "15/3/2024", first.RecordDate())
	assert.Equal(t, "INTERVENTORÍA", first.Responsible())
	assert.Equal(t, "OBRA EN EJECUCIÓN", first.Notes())
	assert.InDelta(t, 45.5, first.Percentage(), 0.001)
	assert.False(t, first.IsAddition())
}

func TestTrackingService_Save_noLocations(t *testing.T) {
	svc, _, _, _ := newTrackingFixture()

	_, err := svc.Save(context.Background(), services.SaveParams{
		Project: services.ProjectInput{Name: "Proyecto"},
	})
	require.ErrorIs(t, err, services.ErrNoLocations)
}

func TestTrackingService_Save_existingIDs(t *testing.T) {
	ctx := context.Background()
	svc, projects, catalogs, records := newTrackingFixture()

	munID, err := services.NewCatalogService(catalogs).ResolveMunicipality(ctx, "Neiva")
	require.NoError(t, err)
	instID, err := services.NewCatalogService(catalogs).ResolveInstitution(ctx, "IE Central", munID)
	require.NoError(t, err)
	siteID, err := services.NewCatalogService(catalogs).ResolveSite(ctx, "Sede Principal", instID)
	require.NoError(t, err)

	projectID, err := services.NewProjectService(projects).ResolveOrCreate(ctx, services.ProjectInput{Name: "Proyecto"})
	require.NoError(t, err)
	activityID, err := services.NewProjectService(projects).ResolveActivity(ctx, projectID, nil, "Actividad")
	require.NoError(t, err)

	count, err := svc.Save(ctx, services.SaveParams{
		ProjectID:      &projectID,
		ActivityID:     &activityID,
		IsAddition:     true,
		AdditionAmount: decimal.NewFromInt(250_000),
		AdditionSource: "recursos propios",
		Locations: []services.LocationInput{
			{
				Municipality: catalog.Existing(munID),
				Institution:  catalog.Existing(instID),
				Site:         catalog.Existing(siteID),
				Progress:     80,
			},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// No new catalog rows; the existing ids were used as-is.
	assert.Len(t, catalogs.municipalities, 1)
	assert.Len(t, catalogs.institutions, 1)
	assert.Len(t, catalogs.sites, 1)

	rec := records.records[0]
	require.NotNil(t, rec.SiteID())
	assert.Equal(t, siteID, *rec.SiteID())
	assert.True(t, rec.IsAddition())
	assert.True(t, rec.AdditionAmount().Equal(decimal.NewFromInt(250_000)))
	assert.Equal(t, "RECURSOS PROPIOS", rec.AdditionSource())
	assert.NotEmpty(t, rec.RecordDate(), "an absent date defaults to today")
}

func TestTrackingService_Save_additionFlagWithoutAmount(t *testing.T) {
	ctx := context.Background()
	svc, _, _, records := newTrackingFixture()

	count, err := svc.Save(ctx, services.SaveParams{
		Project:             services.ProjectInput{Name: "Proyecto"},
		ActivityDescription: "Actividad",
		IsAddition:          true,
		AdditionSource:      "convenio",
		Locations: []services.LocationInput{
			{
				Municipality: catalog.Proposed("Neiva"),
				Institution:  catalog.Proposed("IE Central"),
				Site:         catalog.Proposed("Sede Principal"),
				Progress:     5,
			},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// The flag is the caller's checkbox, not a function of the amount.
	rec := records.records[0]
	assert.True(t, rec.IsAddition())
	assert.True(t, rec.AdditionAmount().IsZero())
	assert.Equal(t, "CONVENIO", rec.AdditionSource())
}

func TestTrackingService_LatestTracking(t *testing.T) {
	ctx := context.Background()
	svc, _, _, records := newTrackingFixture()

	siteID := int64(7)
	_, err := records.Create(ctx, progressrecord.New(1, 3,
		progressrecord.WithSiteID(&siteID),
		progressrecord.WithResponsible("Supervisor"),
	))
	require.NoError(t, err)

	snap, err := svc.LatestTracking(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), snap.ActivityID)
	require.NotNil(t, snap.SiteID)
	assert.Equal(t, siteID, *snap.SiteID)
	assert.Equal(t, "SUPERVISOR", snap.Responsible)

	_, err = svc.LatestTracking(ctx, 999)
	require.ErrorIs(t, err, progressrecord.ErrNotFound)
}
