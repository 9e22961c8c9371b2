package services

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/shopspring/decimal"

	"github.com/eduobras/seguimiento/modules/tracking/domain/aggregates/project"
	"github.com/eduobras/seguimiento/pkg/normalize"
)

// ErrMissingProjectIdentifier means neither a code nor a name was supplied,
// so the project can be neither found nor created.
var ErrMissingProjectIdentifier = errors.New("missing project identifiers")

// ProjectInput carries everything needed to find or register a project.
type ProjectInput struct {
	Code         string
	Name         string
	ContractYear int
	Contractor   string
	Funding      project.Funding
	ManualTotal  decimal.Decimal
	ManualSource string
}

type ProjectService struct {
	repo project.Repository
}

func NewProjectService(repo project.Repository) *ProjectService {
	return &ProjectService{repo: repo}
}

func (s *ProjectService) GetByID(ctx context.Context, id int64) (project.Project, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByCode returns the project with its activities for the form.
func (s *ProjectService) GetByCode(ctx context.Context, code string) (project.Project, []project.Activity, error) {
	p, err := s.repo.GetByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		return project.Project{}, nil, err
	}
	activities, err := s.repo.ActivitiesByProject(ctx, p.ID())
	if err != nil {
		return project.Project{}, nil, err
	}
	return p, activities, nil
}

// Search returns up to project.SearchLimit substring candidates, best
// fuzzy matches first. Candidates only order the dropdown; identity still
// requires exact normalized equality.
func (s *ProjectService) Search(ctx context.Context, query string) ([]project.Project, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	candidates, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	rank := func(p project.Project) int {
		r := fuzzy.RankMatchNormalizedFold(query, p.Name())
		if r < 0 {
			r = fuzzy.RankMatchNormalizedFold(query, p.Code())
		}
		if r < 0 {
			return int(^uint(0) >> 1)
		}
		return r
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return rank(candidates[i]) < rank(candidates[j])
	})
	return candidates, nil
}

// ResolveOrCreate finds the project by exact code, then by exact
// normalized name among substring candidates, and registers a new project
// only when both lookups come up empty.
func (s *ProjectService) ResolveOrCreate(ctx context.Context, in ProjectInput) (int64, error) {
	code := strings.TrimSpace(in.Code)
	name := normalize.Name(in.Name)
	if code == "" && name == "" {
		return 0, ErrMissingProjectIdentifier
	}

	if code != "" {
		p, err := s.repo.GetByCode(ctx, code)
		if err == nil {
			return p.ID(), nil
		}
		if !errors.Is(err, project.ErrNotFound) {
			return 0, err
		}
	}

	if name != "" {
		id, ok, err := s.findByExactName(ctx, name)
		if err != nil {
			return 0, err
		}
		if ok {
			return id, nil
		}
	}

	total, sources := project.ResolveTotal(in.Funding, in.ManualTotal, in.ManualSource)
	created, err := s.repo.Create(ctx, project.New(
		in.Name,
		project.WithCode(code),
		project.WithContractYear(in.ContractYear),
		project.WithContractor(in.Contractor),
		project.WithFunding(in.Funding),
		project.WithTotalAmount(total),
		project.WithFundingSources(sources),
	))
	if err != nil {
		if errors.Is(err, project.ErrDuplicate) {
			// Lost a race to a concurrent insert; the row exists now.
			return s.resolveExisting(ctx, code, name)
		}
		return 0, err
	}
	return created.ID(), nil
}

func (s *ProjectService) findByExactName(ctx context.Context, normalizedName string) (int64, bool, error) {
	candidates, err := s.repo.Search(ctx, normalizedName)
	if err != nil {
		return 0, false, err
	}
	for _, c := range candidates {
		if normalize.Name(c.Name()) == normalizedName {
			return c.ID(), true, nil
		}
	}
	return 0, false, nil
}

func (s *ProjectService) resolveExisting(ctx context.Context, code, normalizedName string) (int64, error) {
	if code != "" {
		p, err := s.repo.GetByCode(ctx, code)
		if err == nil {
			return p.ID(), nil
		}
		if !errors.Is(err, project.ErrNotFound) {
			return 0, err
		}
	}
	id, ok, err := s.findByExactName(ctx, normalizedName)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, project.ErrNotFound
	}
	return id, nil
}

// ResolveActivity accepts an existing activity id as-is, otherwise matches
// the description against the project's activities by exact normalized
// equality, creating the activity when nothing matches.
func (s *ProjectService) ResolveActivity(ctx context.Context, projectID int64, existingID *int64, description string) (int64, error) {
	if existingID != nil && *existingID != 0 {
		return *existingID, nil
	}

	desc := normalize.Name(description)
	if desc == "" {
		return 0, project.ErrMissingActivityDescription
	}

	activities, err := s.repo.ActivitiesByProject(ctx, projectID)
	if err != nil {
		return 0, err
	}
	for _, a := range activities {
		if normalize.Name(a.Description()) == desc {
			return a.ID(), nil
		}
	}

	created, err := s.repo.CreateActivity(ctx, project.NewActivity(projectID, desc))
	if err != nil {
		return 0, err
	}
	return created.ID(), nil
}

// ActivitiesByProject lists a project's activities for the form dropdown.
func (s *ProjectService) ActivitiesByProject(ctx context.Context, projectID int64) ([]project.Activity, error) {
	return s.repo.ActivitiesByProject(ctx, projectID)
}
