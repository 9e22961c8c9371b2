package persistence

import (
	"github.com/shopspring/decimal"

	"github.com/eduobras/seguimiento/modules/tracking/domain/aggregates/project"
	"github.com/eduobras/seguimiento/modules/tracking/domain/entities/catalog"
	"github.com/eduobras/seguimiento/modules/tracking/infrastructure/persistence/models"
	"github.com/eduobras/seguimiento/pkg/mapping"
)

// Numeric columns travel as text between pgx and the domain so money never
// touches binary floats.
func decimalFromColumn(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func toDomainProject(m *models.Project) project.Project {
	funding := project.Funding{
		RP:  decimalFromColumn(m.RP),
		SGP: decimalFromColumn(m.SGP),
		MEN: decimalFromColumn(m.MEN),
		SGR: decimalFromColumn(m.SGR),
	}
	return project.Hydrate(
		m.ID,
		mapping.SQLNullStringToValue(m.Code),
		m.Name,
		int(m.ContractYear),
		mapping.SQLNullStringToValue(m.Contractor),
		funding,
		decimalFromColumn(m.TotalAmount),
		mapping.SQLNullStringToValue(m.FundingSources),
	)
}

func toDomainMunicipality(m *models.Municipality) catalog.Municipality {
	return catalog.HydrateMunicipality(m.ID, m.Name)
}

func toDomainInstitution(m *models.Institution) catalog.Institution {
	return catalog.HydrateInstitution(m.ID, m.Name, m.MunicipalityID)
}

func toDomainSite(m *models.Site) catalog.Site {
	return catalog.HydrateSite(m.ID, m.Name, m.InstitutionID)
}

func toDomainIndicator(m *models.Indicator) catalog.Indicator {
	return catalog.HydrateIndicator(m.ID, m.Name)
}

func toDomainActivity(m *models.Activity) project.Activity {
	return project.HydrateActivity(m.ID, m.ProjectID, m.Description)
}
