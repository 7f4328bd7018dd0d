package scenario

import "math"

// PaybackAndROI walks the yearly client net income stream against the
// initial capital outlay. Payback is a fractional year assuming even
// within-year accrual: at the first year whose cumulative income reaches
// capex, payback = (year_index - 1) + remaining capex / that year's income.
// The crossing only counts when that year's income is positive; otherwise
// payback stays +Inf. ROI is total net income over capex regardless of
// payback status. Capex <= 0 means payback is undefined: (+Inf, 0).
func PaybackAndROI(years []AnnualScenarioEconomics, totalCapexGBP, totalClientNetIncomeGBP float64) (paybackYears, roiMultiple float64) {
	if totalCapexGBP <= 0 {
		return math.Inf(1), 0
	}

	payback := math.Inf(1)
	cumulative := 0.0
	for _, y := range years {
		previous := cumulative
		cumulative += y.ClientNetIncomeGBP
		if cumulative >= totalCapexGBP {
			if y.ClientNetIncomeGBP > 0 {
				payback = float64(y.YearIndex-1) + (totalCapexGBP-previous)/y.ClientNetIncomeGBP
			}
			break
		}
	}

	return payback, totalClientNetIncomeGBP / totalCapexGBP
}

// RevenueWeightedEBITDAMargin weights each year's margin by its revenue so
// low-revenue years do not distort the headline average. 0 when there is no
// revenue at all.
func RevenueWeightedEBITDAMargin(years []AnnualScenarioEconomics) float64 {
	totalRevenue := 0.0
	weighted := 0.0
	for _, y := range years {
		totalRevenue += y.RevenueGBP
		weighted += y.EBITDAMargin * y.RevenueGBP
	}
	if totalRevenue <= 0 {
		return 0
	}
	return weighted / totalRevenue
}
