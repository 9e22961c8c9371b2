package project

import (
	"context"
	"errors"
)

// SearchLimit caps the number of candidate rows a substring search may
// return. Candidates are never authoritative identity; callers must still
// check exact normalized-name equality.
const SearchLimit = 10

var (
	ErrNotFound         = errors.New("project not found")
	ErrActivityNotFound = errors.New("activity not found")
	ErrDuplicate        = errors.New("duplicate project")

	// ErrMissingActivityDescription rejects activity resolution when the
	// caller supplied neither an existing activity id nor a description.
	ErrMissingActivityDescription = errors.New("missing activity description")
)

type Repository interface {
	GetByID(ctx context.Context, id int64) (Project, error)
	// GetByCode matches the code exactly; callers must not call it with an
	// absent code.
	GetByCode(ctx context.Context, code string) (Project, error)
	// Search substring-matches code OR name, capped at SearchLimit rows.
	Search(ctx context.Context, query string) ([]Project, error)
	Create(ctx context.Context, p Project) (Project, error)

	ActivitiesByProject(ctx context.Context, projectID int64) ([]Activity, error)
	CreateActivity(ctx context.Context, a Activity) (Activity, error)
}
