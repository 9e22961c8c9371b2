package services_test

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/eduobras/seguimiento/modules/tracking/domain/aggregates/project"
	"github.com/eduobras/seguimiento/modules/tracking/domain/entities/catalog"
	"github.com/eduobras/seguimiento/modules/tracking/domain/entities/progressrecord"
)

// fakeCatalogRepo mimics the persistence layer's semantics in memory:
// scoped uniqueness, sentinel not-found errors, and unique-violation
// reporting through catalog.ErrDuplicateName.
type fakeCatalogRepo struct {
	municipalities []catalog.Municipality
	institutions   []catalog.Institution
	sites          []catalog.Site
	indicators     []catalog.Indicator
	nextID         int64

	// missFirstMunicipalityGet makes the next GetMunicipalityByName report
	// not-found once, simulating a row inserted concurrently between the
	// resolver's lookup and its create.
	missFirstMunicipalityGet bool
}

func (f *fakeCatalogRepo) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeCatalogRepo) GetMunicipalityByName(_ context.Context, name string) (catalog.Municipality, error) {
	if f.missFirstMunicipalityGet {
		f.missFirstMunicipalityGet = false
		return catalog.Municipality{}, catalog.ErrMunicipalityNotFound
	}
	for _, m := range f.municipalities {
		if m.Name() == name {
			return m, nil
		}
	}
	return catalog.Municipality{}, catalog.ErrMunicipalityNotFound
}

func (f *fakeCatalogRepo) CreateMunicipality(_ context.Context, m catalog.Municipality) (catalog.Municipality, error) {
	for _, existing := range f.municipalities {
		if existing.Name() == m.Name() {
			return catalog.Municipality{}, catalog.ErrDuplicateName
		}
	}
	created := catalog.HydrateMunicipality(f.id(), m.Name())
	f.municipalities = append(f.municipalities, created)
	return created, nil
}

func (f *fakeCatalogRepo) ListMunicipalities(_ context.Context) ([]catalog.Municipality, error) {
	return f.municipalities, nil
}

func (f *fakeCatalogRepo) GetInstitutionByName(_ context.Context, name string, municipalityID int64) (catalog.Institution, error) {
	for _, i := range f.institutions {
		if i.Name() == name && i.MunicipalityID() == municipalityID {
			return i, nil
		}
	}
	return catalog.Institution{}, catalog.ErrInstitutionNotFound
}

func (f *fakeCatalogRepo) CreateInstitution(_ context.Context, i catalog.Institution) (catalog.Institution, error) {
	for _, existing := range f.institutions {
		if existing.Name() == i.Name() && existing.MunicipalityID() == i.MunicipalityID() {
			return catalog.Institution{}, catalog.ErrDuplicateName
		}
	}
	created := catalog.HydrateInstitution(f.id(), i.Name(), i.MunicipalityID())
	f.institutions = append(f.institutions, created)
	return created, nil
}

func (f *fakeCatalogRepo) ListInstitutionsByMunicipality(_ context.Context, municipalityID int64) ([]catalog.Institution, error) {
	var out []catalog.Institution
	for _, i := range f.institutions {
		if i.MunicipalityID() == municipalityID {
			out = append(out, i)
		}
	}
	return out, nil
}

func (f *fakeCatalogRepo) GetSiteByName(_ context.Context, name string, institutionID int64) (catalog.Site, error) {
	for _, s := range f.sites {
		if s.Name() == name && s.InstitutionID() == institutionID {
			return s, nil
		}
	}
	return catalog.Site{}, catalog.ErrSiteNotFound
}

func (f *fakeCatalogRepo) CreateSite(_ context.Context, s catalog.Site) (catalog.Site, error) {
	for _, existing := range f.sites {
		if existing.Name() == s.Name() && existing.InstitutionID() == s.InstitutionID() {
			return catalog.Site{}, catalog.ErrDuplicateName
		}
	}
	created := catalog.HydrateSite(f.id(), s.Name(), s.InstitutionID())
	f.sites = append(f.sites, created)
	return created, nil
}

func (f *fakeCatalogRepo) ListSitesByInstitution(_ context.Context, institutionID int64) ([]catalog.Site, error) {
	var out []catalog.Site
	for _, s := range f.sites {
		if s.InstitutionID() == institutionID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeCatalogRepo) GetIndicatorByName(_ context.Context, name string) (catalog.Indicator, error) {
	for _, i := range f.indicators {
		if i.Name() == name {
			return i, nil
		}
	}
	return catalog.Indicator{}, catalog.ErrIndicatorNotFound
}

func (f *fakeCatalogRepo) CreateIndicator(_ context.Context, i catalog.Indicator) (catalog.Indicator, error) {
	for _, existing := range f.indicators {
		if existing.Name() == i.Name() {
			return catalog.Indicator{}, catalog.ErrDuplicateName
		}
	}
	created := catalog.HydrateIndicator(f.id(), i.Name())
	f.indicators = append(f.indicators, created)
	return created, nil
}

func (f *fakeCatalogRepo) ListIndicators(_ context.Context) ([]catalog.Indicator, error) {
	return f.indicators, nil
}

func (f *fakeCatalogRepo) CountIndicators(_ context.Context) (int64, error) {
	return int64(len(f.indicators)), nil
}

// fakeProjectRepo keeps projects and activities in memory with the same
// uniqueness rules as the SQL schema: unique code when present, unique
// name always.
type fakeProjectRepo struct {
	projects   []project.Project
	activities []project.Activity
	nextID     int64
}

func (f *fakeProjectRepo) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeProjectRepo) GetByID(_ context.Context, id int64) (project.Project, error) {
	for _, p := range f.projects {
		if p.ID() == id {
			return p, nil
		}
	}
	return project.Project{}, project.ErrNotFound
}

func (f *fakeProjectRepo) GetByCode(_ context.Context, code string) (project.Project, error) {
	for _, p := range f.projects {
		if p.HasCode() && p.Code() == code {
			return p, nil
		}
	}
	return project.Project{}, project.ErrNotFound
}

func (f *fakeProjectRepo) Search(_ context.Context, query string) ([]project.Project, error) {
	q := strings.ToUpper(query)
	var out []project.Project
	for _, p := range f.projects {
		if strings.Contains(p.Name(), q) || strings.Contains(p.Code(), q) {
			out = append(out, p)
			if len(out) == project.SearchLimit {
				break
			}
		}
	}
	return out, nil
}

func (f *fakeProjectRepo) Create(_ context.Context, p project.Project) (project.Project, error) {
	for _, existing := range f.projects {
		if existing.Name() == p.Name() {
			return project.Project{}, project.ErrDuplicate
		}
		if p.HasCode() && existing.Code() == p.Code() {
			return project.Project{}, project.ErrDuplicate
		}
	}
	// Cofinancing folds into MEN at write time, like the SQL layer.
	funding := p.Funding()
	funding.MEN = funding.MergedMEN()
	funding.Cofinancing = decimal.Zero
	created := project.Hydrate(
		f.id(), p.Code(), p.Name(), p.ContractYear(), p.Contractor(),
		funding, p.TotalAmount(), p.FundingSources(),
	)
	f.projects = append(f.projects, created)
	return created, nil
}

func (f *fakeProjectRepo) ActivitiesByProject(_ context.Context, projectID int64) ([]project.Activity, error) {
	var out []project.Activity
	for _, a := range f.activities {
		if a.ProjectID() == projectID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeProjectRepo) CreateActivity(_ context.Context, a project.Activity) (project.Activity, error) {
	created := project.HydrateActivity(f.id(), a.ProjectID(), a.Description())
	f.activities = append(f.activities, created)
	return created, nil
}

type fakeRecordRepo struct {
	records []progressrecord.ProgressRecord
	nextID  int64
}

func (f *fakeRecordRepo) Create(_ context.Context, r progressrecord.ProgressRecord) (progressrecord.ProgressRecord, error) {
	f.nextID++
	created := progressrecord.New(
		r.ProjectID(),
		r.ActivityID(),
		progressrecord.WithID(f.nextID),
		progressrecord.WithSiteID(r.SiteID()),
		progressrecord.WithIndicatorID(r.IndicatorID()),
		progressrecord.WithPercentage(r.Percentage()),
		progressrecord.WithRecordDate(r.RecordDate()),
		progressrecord.WithResponsible(r.Responsible()),
		progressrecord.WithNotes(r.Notes()),
		progressrecord.WithAddition(r.IsAddition(), r.AdditionAmount(), r.AdditionSource()),
	)
	f.records = append(f.records, created)
	return created, nil
}

func (f *fakeRecordRepo) LatestByActivity(_ context.Context, activityID int64) (progressrecord.TrackingSnapshot, error) {
	for i := len(f.records) - 1; i >= 0; i-- {
		r := f.records[i]
		if r.ActivityID() == activityID {
			return progressrecord.TrackingSnapshot{
				ActivityID:  r.ActivityID(),
				SiteID:      r.SiteID(),
				IndicatorID: r.IndicatorID(),
				Responsible: r.Responsible(),
				Notes:       r.Notes(),
			}, nil
		}
	}
	return progressrecord.TrackingSnapshot{}, progressrecord.ErrNotFound
}
