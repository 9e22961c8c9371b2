package catalog

import "github.com/eduobras/seguimiento/pkg/normalize"

// Indicator is a flat lookup catalog; imports match against it but never
// create new entries.
type Indicator struct {
	id   int64
	name string
}

func NewIndicator(name string) Indicator {
	return Indicator{name: normalize.Name(name)}
}

func HydrateIndicator(id int64, name string) Indicator {
	return Indicator{id: id, name: name}
}

func (i Indicator) ID() int64    { return i.id }
func (i Indicator) Name() string { return i.name }
