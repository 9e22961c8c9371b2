package services

import (
	"context"
	"errors"

	"github.com/eduobras/seguimiento/modules/tracking/domain/entities/catalog"
	"github.com/eduobras/seguimiento/pkg/normalize"
)

// CatalogService is the resolve-or-create front of the location hierarchy
// and the indicator catalog. A create that loses a race to a concurrent
// insert of the same normalized name is recovered by re-querying the same
// scope; the conflict never reaches a caller. The recovery applies to the
// interactive save path and the bulk import path alike.
type CatalogService struct {
	repo catalog.Repository
}

func NewCatalogService(repo catalog.Repository) *CatalogService {
	return &CatalogService{repo: repo}
}

func (s *CatalogService) ResolveMunicipality(ctx context.Context, name string) (int64, error) {
	n := normalize.Name(name)
	if n == "" {
		return 0, catalog.ErrMissingLocationLevel
	}

	m, err := s.repo.GetMunicipalityByName(ctx, n)
	if err == nil {
		return m.ID(), nil
	}
	if !errors.Is(err, catalog.ErrMunicipalityNotFound) {
		return 0, err
	}

	created, err := s.repo.CreateMunicipality(ctx, catalog.NewMunicipality(n))
	if err != nil {
		if errors.Is(err, catalog.ErrDuplicateName) {
			existing, lookupErr := s.repo.GetMunicipalityByName(ctx, n)
			if lookupErr != nil {
				return 0, lookupErr
			}
			return existing.ID(), nil
		}
		return 0, err
	}
	return created.ID(), nil
}

func (s *CatalogService) ResolveInstitution(ctx context.Context, name string, municipalityID int64) (int64, error) {
	n := normalize.Name(name)
	if n == "" {
		return 0, catalog.ErrMissingLocationLevel
	}

	i, err := s.repo.GetInstitutionByName(ctx, n, municipalityID)
	if err == nil {
		return i.ID(), nil
	}
	if !errors.Is(err, catalog.ErrInstitutionNotFound) {
		return 0, err
	}

	created, err := s.repo.CreateInstitution(ctx, catalog.NewInstitution(n, municipalityID))
	if err != nil {
		if errors.Is(err, catalog.ErrDuplicateName) {
			existing, lookupErr := s.repo.GetInstitutionByName(ctx, n, municipalityID)
			if lookupErr != nil {
				return 0, lookupErr
			}
			return existing.ID(), nil
		}
		return 0, err
	}
	return created.ID(), nil
}

func (s *CatalogService) ResolveSite(ctx context.Context, name string, institutionID int64) (int64, error) {
	n := normalize.Name(name)
	if n == "" {
		return 0, catalog.ErrMissingLocationLevel
	}

	site, err := s.repo.GetSiteByName(ctx, n, institutionID)
	if err == nil {
		return site.ID(), nil
	}
	if !errors.Is(err, catalog.ErrSiteNotFound) {
		return 0, err
	}

	created, err := s.repo.CreateSite(ctx, catalog.NewSite(n, institutionID))
	if err != nil {
		if errors.Is(err, catalog.ErrDuplicateName) {
			existing, lookupErr := s.repo.GetSiteByName(ctx, n, institutionID)
			if lookupErr != nil {
				return 0, lookupErr
			}
			return existing.ID(), nil
		}
		return 0, err
	}
	return created.ID(), nil
}

// ResolveMunicipalityRef resolves a form selection. Even when the caller
// marked the entry as brand-new, the proposed name goes through the
// normalized lookup first so a concurrent prior insert is reused.
func (s *CatalogService) ResolveMunicipalityRef(ctx context.Context, ref catalog.LocationRef) (int64, error) {
	if !ref.IsNew() {
		return ref.ID(), nil
	}
	return s.ResolveMunicipality(ctx, ref.Name())
}

func (s *CatalogService) ResolveInstitutionRef(ctx context.Context, ref catalog.LocationRef, municipalityID int64) (int64, error) {
	if !ref.IsNew() {
		return ref.ID(), nil
	}
	return s.ResolveInstitution(ctx, ref.Name(), municipalityID)
}

func (s *CatalogService) ResolveSiteRef(ctx context.Context, ref catalog.LocationRef, institutionID int64) (int64, error) {
	if !ref.IsNew() {
		return ref.ID(), nil
	}
	return s.ResolveSite(ctx, ref.Name(), institutionID)
}

func (s *CatalogService) Municipalities(ctx context.Context) ([]catalog.Municipality, error) {
	return s.repo.ListMunicipalities(ctx)
}

func (s *CatalogService) InstitutionsByMunicipality(ctx context.Context, municipalityID int64) ([]catalog.Institution, error) {
	return s.repo.ListInstitutionsByMunicipality(ctx, municipalityID)
}

func (s *CatalogService) SitesByInstitution(ctx context.Context, institutionID int64) ([]catalog.Site, error) {
	return s.repo.ListSitesByInstitution(ctx, institutionID)
}

func (s *CatalogService) Indicators(ctx context.Context) ([]catalog.Indicator, error) {
	return s.repo.ListIndicators(ctx)
}

// IndicatorIndex loads the whole indicator catalog once, keyed by
// normalized name. Imports match against it and never create indicators.
func (s *CatalogService) IndicatorIndex(ctx context.Context) (map[string]int64, error) {
	indicators, err := s.repo.ListIndicators(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[string]int64, len(indicators))
	for _, ind := range indicators {
		index[normalize.Name(ind.Name())] = ind.ID()
	}
	return index, nil
}
