package catalog

import "github.com/eduobras/seguimiento/pkg/normalize"

// Site is unique by normalized name only within its institution.
type Site struct {
	id            int64
	name          string
	institutionID int64
}

func NewSite(name string, institutionID int64) Site {
	return Site{name: normalize.Name(name), institutionID: institutionID}
}

func HydrateSite(id int64, name string, institutionID int64) Site {
	return Site{id: id, name: name, institutionID: institutionID}
}

func (s Site) ID() int64            { return s.id }
func (s Site) Name() string         { return s.name }
func (s Site) InstitutionID() int64 { return s.institutionID }
