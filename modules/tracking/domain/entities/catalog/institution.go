package catalog

import "github.com/eduobras/seguimiento/pkg/normalize"

// Institution is unique by normalized name only within its municipality;
// two municipalities may each have an "IE CENTRAL".
type Institution struct {
	id             int64
	name           string
	municipalityID int64
}

func NewInstitution(name string, municipalityID int64) Institution {
	return Institution{name: normalize.Name(name), municipalityID: municipalityID}
}

func HydrateInstitution(id int64, name string, municipalityID int64) Institution {
	return Institution{id: id, name: name, municipalityID: municipalityID}
}

func (i Institution) ID() int64             { return i.id }
func (i Institution) Name() string          { return i.name }
func (i Institution) MunicipalityID() int64 { return i.municipalityID }
