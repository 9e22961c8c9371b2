package project

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/eduobras/seguimiento/pkg/normalize"
)

// Project is an infrastructure/education investment project. The code is
// optional but unique when present; the name is mandatory and unique.
type Project struct {
	id             int64
	code           string
	name           string
	contractYear   int
	contractor     string
	funding        Funding
	totalAmount    decimal.Decimal
	fundingSources string
}

type Option func(*Project)

func WithID(id int64) Option {
	return func(p *Project) {
		p.id = id
	}
}

// WithCode stores the project code, treating blank or whitespace-only
// input as absent so the optional-uniqueness rule keeps holding.
func WithCode(code string) Option {
	return func(p *Project) {
		p.code = strings.TrimSpace(code)
	}
}

func WithContractYear(year int) Option {
	return func(p *Project) {
		p.contractYear = year
	}
}

func WithContractor(contractor string) Option {
	return func(p *Project) {
		p.contractor = normalize.Name(contractor)
	}
}

func WithFunding(f Funding) Option {
	return func(p *Project) {
		p.funding = f
	}
}

func WithTotalAmount(total decimal.Decimal) Option {
	return func(p *Project) {
		p.totalAmount = total
	}
}

func WithFundingSources(sources string) Option {
	return func(p *Project) {
		p.fundingSources = sources
	}
}

func New(name string, opts ...Option) Project {
	p := Project{
		name:    normalize.Name(name),
		funding: Funding{},
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

func Hydrate(id int64, code, name string, contractYear int, contractor string, f Funding, total decimal.Decimal, sources string) Project {
	return Project{
		id:             id,
		code:           code,
		name:           name,
		contractYear:   contractYear,
		contractor:     contractor,
		funding:        f,
		totalAmount:    total,
		fundingSources: sources,
	}
}

func (p Project) ID() int64                    { return p.id }
func (p Project) Code() string                 { return p.code }
func (p Project) HasCode() bool                { return p.code != "" }
func (p Project) Name() string                 { return p.name }
func (p Project) ContractYear() int            { return p.contractYear }
func (p Project) Contractor() string           { return p.contractor }
func (p Project) Funding() Funding             { return p.funding }
func (p Project) TotalAmount() decimal.Decimal { return p.totalAmount }
func (p Project) FundingSources() string       { return p.fundingSources }
func (p Project) IsZero() bool                 { return p.id == 0 && p.name == "" }
