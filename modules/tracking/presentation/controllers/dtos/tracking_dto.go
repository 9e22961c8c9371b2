package dtos

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/eduobras/seguimiento/modules/tracking/domain/aggregates/project"
	"github.com/eduobras/seguimiento/modules/tracking/domain/entities/catalog"
	"github.com/eduobras/seguimiento/modules/tracking/services"
	"github.com/eduobras/seguimiento/pkg/constants"
)

// LocationDTO is one site entry of the save form. A level is either an
// existing catalog id or a proposed new name; an id wins when both come.
type LocationDTO struct {
	MunicipalityID  int64   `json:"municipio_id"`
	NewMunicipality string  `json:"nombre_municipio_nuevo"`
	InstitutionID   int64   `json:"institucion_id"`
	NewInstitution  string  `json:"nombre_institucion_nueva"`
	SiteID          int64   `json:"sede_id"`
	NewSite         string  `json:"nombre_sede_nueva"`
	Progress        float64 `json:"avance" validate:"min=0,max=100"`
	Notes           string  `json:"observaciones"`
}

func (d LocationDTO) toInput() services.LocationInput {
	return services.LocationInput{
		Municipality: toRef(d.MunicipalityID, d.NewMunicipality),
		Institution:  toRef(d.InstitutionID, d.NewInstitution),
		Site:         toRef(d.SiteID, d.NewSite),
		Progress:     d.Progress,
		Notes:        d.Notes,
	}
}

func toRef(id int64, name string) catalog.LocationRef {
	if id != 0 {
		return catalog.Existing(id)
	}
	return catalog.Proposed(name)
}

// SaveRequest is the interactive save payload.
type SaveRequest struct {
	ProjectID    int64   `json:"proyecto_id"`
	Code         string  `json:"codigo_bpin"`
	Name         string  `json:"nombre_proyecto"`
	ContractYear int     `json:"anio_contrato"`
	Contractor   string  `json:"contratista"`
	RP           float64 `json:"valor_rp" validate:"min=0"`
	SGP          float64 `json:"valor_sgp" validate:"min=0"`
	MEN          float64 `json:"valor_men" validate:"min=0"`
	SGR          float64 `json:"valor_sgr" validate:"min=0"`
	Cofinancing  float64 `json:"valor_cofinanciacion" validate:"min=0"`
	ManualTotal  float64 `json:"valor_total_manual" validate:"min=0"`
	ManualSource string  `json:"fuente_recursos_manual"`

	ActivityID          int64  `json:"actividad_id"`
	ActivityDescription string `json:"nueva_actividad_descripcion"`

	IndicatorID    int64   `json:"indicador_id"`
	RecordDate     string  `json:"fecha_seguimiento"`
	Responsible    string  `json:"responsable"`
	IsAddition     bool    `json:"es_adicion"`
	AdditionAmount float64 `json:"valor_adicion" validate:"min=0"`
	AdditionSource string  `json:"fuente_adicion"`

	Locations []LocationDTO `json:"ubicaciones" validate:"required,min=1,dive"`
}

// Ok validates the payload and returns field-keyed messages.
func (d *SaveRequest) Ok() (map[string]string, bool) {
	errorMessages := map[string]string{}
	errs := constants.Validate.Struct(d)
	if errs == nil {
		return errorMessages, true
	}
	for _, err := range errs.(validator.ValidationErrors) {
		errorMessages[err.Field()] = err.Tag()
	}
	return errorMessages, false
}

func (d *SaveRequest) ToParams() services.SaveParams {
	params := services.SaveParams{
		Project: services.ProjectInput{
			Code:         d.Code,
			Name:         d.Name,
			ContractYear: d.ContractYear,
			Contractor:   d.Contractor,
			Funding: project.Funding{
				RP:          decimal.NewFromFloat(d.RP),
				SGP:         decimal.NewFromFloat(d.SGP),
				MEN:         decimal.NewFromFloat(d.MEN),
				SGR:         decimal.NewFromFloat(d.SGR),
				Cofinancing: decimal.NewFromFloat(d.Cofinancing),
			},
			ManualTotal:  decimal.NewFromFloat(d.ManualTotal),
			ManualSource: d.ManualSource,
		},
		ActivityDescription: d.ActivityDescription,
		RecordDate:          d.RecordDate,
		Responsible:         d.Responsible,
		IsAddition:          d.IsAddition,
		AdditionAmount:      decimal.NewFromFloat(d.AdditionAmount),
		AdditionSource:      d.AdditionSource,
	}
	if d.ProjectID != 0 {
		params.ProjectID = &d.ProjectID
	}
	if d.ActivityID != 0 {
		params.ActivityID = &d.ActivityID
	}
	if d.IndicatorID != 0 {
		params.IndicatorID = &d.IndicatorID
	}
	for _, loc := range d.Locations {
		params.Locations = append(params.Locations, loc.toInput())
	}
	return params
}
