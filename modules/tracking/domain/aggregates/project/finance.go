package project

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Funding source labels, in the fixed order they appear in the combined
// source text. National co-financing sits between MEN and S.G.R. and its
// amount is folded into the MEN component.
const (
	SourceRP          = "R.P."
	SourceSGP         = "S.G.P."
	SourceMEN         = "MEN"
	SourceCofinancing = "COFINANCIACIÓN NACIONAL"
	SourceSGR         = "S.G.R."

	// SourceUndefined is the sentinel used when no component is funded
	// and no manual source was supplied.
	SourceUndefined = "SIN DEFINIR"
)

// Funding carries the four independently tracked budget components plus
// the optional national co-financing amount merged into MEN.
type Funding struct {
	RP          decimal.Decimal
	SGP         decimal.Decimal
	MEN         decimal.Decimal
	SGR         decimal.Decimal
	Cofinancing decimal.Decimal
}

// MergedMEN is the MEN component with co-financing folded in; this is the
// amount persisted in the MEN column.
func (f Funding) MergedMEN() decimal.Decimal {
	return f.MEN.Add(f.Cofinancing)
}

// Sum is the total across all components, co-financing included.
func (f Funding) Sum() decimal.Decimal {
	return f.RP.Add(f.SGP).Add(f.MergedMEN()).Add(f.SGR)
}

// SourceLabels lists the label of every positive component in fixed order.
func (f Funding) SourceLabels() []string {
	var labels []string
	if f.RP.IsPositive() {
		labels = append(labels, SourceRP)
	}
	if f.SGP.IsPositive() {
		labels = append(labels, SourceSGP)
	}
	if f.MEN.IsPositive() {
		labels = append(labels, SourceMEN)
	}
	if f.Cofinancing.IsPositive() {
		labels = append(labels, SourceCofinancing)
	}
	if f.SGR.IsPositive() {
		labels = append(labels, SourceSGR)
	}
	return labels
}

// ResolveTotal applies the financial aggregation rule: when the component
// sum is positive it wins and the source text is the joined labels;
// otherwise the manually supplied total and source take over, the source
// defaulting to SIN DEFINIR.
func ResolveTotal(f Funding, manualTotal decimal.Decimal, manualSource string) (decimal.Decimal, string) {
	sum := f.Sum()
	if sum.IsPositive() {
		return sum, strings.Join(f.SourceLabels(), " + ")
	}
	// Manual sources keep their accents; only case and padding are cleaned.
	source := strings.ToUpper(strings.TrimSpace(manualSource))
	if source == "" {
		source = SourceUndefined
	}
	return manualTotal, source
}
