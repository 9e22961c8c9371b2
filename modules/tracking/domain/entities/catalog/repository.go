package catalog

import (
	"context"
	"errors"
)

var (
	ErrMunicipalityNotFound = errors.New("municipality not found")
	ErrInstitutionNotFound  = errors.New("institution not found")
	ErrSiteNotFound         = errors.New("site not found")
	ErrIndicatorNotFound    = errors.New("indicator not found")

	// ErrDuplicateName signals a create that lost a race to a concurrent
	// insert of the same normalized name in the same scope. Resolvers
	// recover by re-querying; it never reaches a caller.
	ErrDuplicateName = errors.New("duplicate name in scope")

	// ErrMissingLocationLevel rejects a lookup with an empty name before
	// an empty-named catalog row can be created.
	ErrMissingLocationLevel = errors.New("missing required location level")
)

// Repository persists the three nested location catalogs and the flat
// indicator catalog. Lookups are by normalized name; scoped lookups never
// collide across different parents.
type Repository interface {
	GetMunicipalityByName(ctx context.Context, name string) (Municipality, error)
	CreateMunicipality(ctx context.Context, m Municipality) (Municipality, error)
	ListMunicipalities(ctx context.Context) ([]Municipality, error)

	GetInstitutionByName(ctx context.Context, name string, municipalityID int64) (Institution, error)
	CreateInstitution(ctx context.Context, i Institution) (Institution, error)
	ListInstitutionsByMunicipality(ctx context.Context, municipalityID int64) ([]Institution, error)

	GetSiteByName(ctx context.Context, name string, institutionID int64) (Site, error)
	CreateSite(ctx context.Context, s Site) (Site, error)
	ListSitesByInstitution(ctx context.Context, institutionID int64) ([]Site, error)

	GetIndicatorByName(ctx context.Context, name string) (Indicator, error)
	CreateIndicator(ctx context.Context, i Indicator) (Indicator, error)
	ListIndicators(ctx context.Context) ([]Indicator, error)
	CountIndicators(ctx context.Context) (int64, error)
}
