package catalog

import "github.com/eduobras/seguimiento/pkg/normalize"

// Municipality is the top level of the location hierarchy. Its name is
// normalized-unique across the whole catalog.
type Municipality struct {
	id   int64
	name string
}

func NewMunicipality(name string) Municipality {
	return Municipality{name: normalize.Name(name)}
}

func HydrateMunicipality(id int64, name string) Municipality {
	return Municipality{id: id, name: name}
}

func (m Municipality) ID() int64    { return m.id }
func (m Municipality) Name() string { return m.name }
func (m Municipality) IsZero() bool { return m.id == 0 && m.name == "" }
