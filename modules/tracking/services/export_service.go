package services

import (
	"bytes"
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/eduobras/seguimiento/modules/tracking/infrastructure/query"
	"github.com/eduobras/seguimiento/pkg/excel"
)

// exportHeaders is the fixed column layout of the report workbook. The
// order matches what downstream consumers of the report expect.
var exportHeaders = []string{
	"CÓDIGO BPIN",
	"AÑO CONTRATO",
	"NOMBRE DEL PROYECTO",
	"CONTRATISTA",
	"ACTIVIDAD",
	"MUNICIPIO",
	"INSTITUCIÓN",
	"SEDE",
	"INDICADOR",
	"VALOR TOTAL INICIAL",
	"VALOR R.P.",
	"VALOR S.G.P.",
	"VALOR MEN",
	"VALOR S.G.R.",
	"FUENTE RECURSOS (TEXTO)",
	"ES ADICIÓN",
	"VALOR ADICIÓN",
	"FUENTE ADICIÓN",
	"% AVANCE",
	"FECHA SEGUIMIENTO",
	"RESPONSABLE",
	"OBSERVACIONES",
}

// ExportService renders every progress record, newest first, into a
// single-sheet report workbook.
type ExportService struct {
	rows query.ExportQuery
}

func NewExportService(rows query.ExportQuery) *ExportService {
	return &ExportService{rows: rows}
}

func (s *ExportService) Workbook(ctx context.Context) (*bytes.Buffer, error) {
	data, err := s.rows.Rows(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([][]any, 0, len(data))
	for _, r := range data {
		isAddition := "NO"
		if amount, err := decimal.NewFromString(r.AdditionAmount); err == nil && amount.IsPositive() {
			isAddition = "SÍ"
		}
		rows = append(rows, []any{
			r.Code,
			r.ContractYear,
			r.ProjectName,
			r.Contractor,
			r.Activity,
			r.Municipality,
			r.Institution,
			r.Site,
			r.Indicator,
			r.TotalAmount,
			r.RP,
			r.SGP,
			r.MEN,
			r.SGR,
			r.FundingSources,
			isAddition,
			r.AdditionAmount,
			r.AdditionSource,
			r.Percentage,
			r.RecordDate,
			r.Responsible,
			r.Notes,
		})
	}

	f, err := excel.WriteSheet("Seguimiento", exportHeaders, rows)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build report workbook")
	}
	defer func() { _ = f.Close() }()
	return f.WriteToBuffer()
}
