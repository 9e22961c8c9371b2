package catalog

// LocationRef is a single hierarchy-level selection coming from the
// interactive form: either a reference to an existing catalog row or a
// proposed name for a new one. Both variants resolve through the same
// resolver entry point, so a proposed name that already exists is reused
// instead of duplicated.
type LocationRef struct {
	id   int64
	name string
}

func Existing(id int64) LocationRef {
	return LocationRef{id: id}
}

func Proposed(name string) LocationRef {
	return LocationRef{name: name}
}

func (r LocationRef) IsNew() bool  { return r.id == 0 }
func (r LocationRef) ID() int64    { return r.id }
func (r LocationRef) Name() string { return r.name }
