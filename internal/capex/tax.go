package capex

import "math"

// TaxConfig carries the fiscal parameters for the client's tax ledger.
// FirstYearAllowanceRate is the share of capex deductible against year-one
// profit (1.0 under UK full expensing).
type TaxConfig struct {
	CorporationTaxRate     float64 `json:"corporation_tax_rate" yaml:"corporation_tax_rate"`
	FirstYearAllowanceRate float64 `json:"first_year_allowance_rate" yaml:"first_year_allowance_rate"`
}

// DefaultTaxConfig returns the UK treatment: 25% corporation tax with full
// expensing of qualifying plant in year one.
func DefaultTaxConfig() TaxConfig {
	return TaxConfig{
		CorporationTaxRate:     0.25,
		FirstYearAllowanceRate: 1.0,
	}
}

// ClientTaxYear is one row of the client's tax ledger.
type ClientTaxYear struct {
	YearIndex    int     `json:"year_index"`
	EBITDAGBP    float64 `json:"ebitda_gbp"`
	AllowanceGBP float64 `json:"allowance_gbp"`
	TaxableGBP   float64 `json:"taxable_gbp"`
	TaxGBP       float64 `json:"tax_gbp"`
	NetIncomeGBP float64 `json:"net_income_gbp"`
}

// ClientTaxProfile computes the year-by-year tax position given the client's
// EBITDA stream and the capex they funded. The capital allowance lands
// entirely in year one; unused allowance is not carried forward, and losses
// earn no credit, only zero taxable profit.
func ClientTaxProfile(annualEBITDAGBP []float64, totalCapexGBP float64, tc TaxConfig) []ClientTaxYear {
	if len(annualEBITDAGBP) == 0 {
		return nil
	}

	profile := make([]ClientTaxYear, 0, len(annualEBITDAGBP))
	for i, ebitda := range annualEBITDAGBP {
		allowance := 0.0
		if i == 0 {
			allowance = totalCapexGBP * tc.FirstYearAllowanceRate
		}
		taxable := math.Max(ebitda-allowance, 0)
		tax := taxable * tc.CorporationTaxRate
		profile = append(profile, ClientTaxYear{
			YearIndex:    i + 1,
			EBITDAGBP:    ebitda,
			AllowanceGBP: allowance,
			TaxableGBP:   taxable,
			TaxGBP:       tax,
			NetIncomeGBP: ebitda - tax,
		})
	}
	return profile
}

// TotalTaxGBP sums the tax across a profile.
func TotalTaxGBP(profile []ClientTaxYear) float64 {
	total := 0.0
	for _, y := range profile {
		total += y.TaxGBP
	}
	return total
}
