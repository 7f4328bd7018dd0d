package scenario

import (
	"math"

	"minesite-model/internal/forecast"
	"minesite-model/internal/mining"
)

const daysPerYear = 365.0

// BuildBaseYears projects today's site metrics into identical pre-shock
// project years. Shocks are never baked in here; the base series stays
// reusable across every scenario. Returns nil when the site supports no
// production (no years, no units, or zero daily BTC).
func BuildBaseYears(m mining.SiteMetrics, projectYears int) []AnnualBaseEconomics {
	if projectYears <= 0 || m.AsicsSupported <= 0 || m.SiteBTCPerDay <= 0 {
		return nil
	}

	impliedPrice := m.SiteRevenueUSDPerDay / m.SiteBTCPerDay

	years := make([]AnnualBaseEconomics, 0, projectYears)
	for y := 1; y <= projectYears; y++ {
		years = append(years, newBaseYear(
			y,
			m.SiteBTCPerDay*daysPerYear,
			impliedPrice,
			m.SiteRevenueGBPPerDay*daysPerYear,
			m.SitePowerCostGBPPerDay*daysPerYear,
			0,
		))
	}
	return years
}

// BaseYearsFromMonthlyForecast builds the pre-shock series from a
// halving-aware monthly production forecast instead of flat years. BTC per
// calendar year comes from the forecast; revenue uses the price implied by
// today's site economics (defaultPriceUSD when production is zero);
// electricity stays at today's run rate.
func BaseYearsFromMonthlyForecast(rows []forecast.MonthlyRow, m mining.SiteMetrics, defaultPriceUSD, usdToGBP float64) []AnnualBaseEconomics {
	if len(rows) == 0 {
		return nil
	}

	impliedPrice := defaultPriceUSD
	if m.SiteBTCPerDay > 0 {
		impliedPrice = m.SiteRevenueUSDPerDay / m.SiteBTCPerDay
	}

	totals := forecast.AnnualTotals(rows)
	years := make([]AnnualBaseEconomics, 0, len(totals))
	for i, at := range totals {
		revenue := at.BTCMined * impliedPrice * usdToGBP
		years = append(years, newBaseYear(
			i+1,
			at.BTCMined,
			impliedPrice,
			revenue,
			m.SitePowerCostGBPPerDay*daysPerYear,
			0,
		))
	}
	return years
}

// SyntheticBaseYears fabricates a declining dummy series for exploring the
// engine with no site configured: 0.5 BTC in year one, 0.05 BTC less each
// subsequent year, electricity at 15% of revenue, other opex at 5%.
func SyntheticBaseYears(projectYears int, priceUSD, usdToGBP float64) []AnnualBaseEconomics {
	if projectYears <= 0 {
		return nil
	}

	years := make([]AnnualBaseEconomics, 0, projectYears)
	for y := 1; y <= projectYears; y++ {
		btc := math.Max(0.5-0.05*float64(y-1), 0)
		revenue := btc * priceUSD * usdToGBP
		years = append(years, newBaseYear(y, btc, priceUSD, revenue, 0.15*revenue, 0.05*revenue))
	}
	return years
}

func newBaseYear(index int, btcMined, priceUSD, revenueGBP, electricityGBP, otherOpexGBP float64) AnnualBaseEconomics {
	totalOpex := electricityGBP + otherOpexGBP
	ebitda := revenueGBP - totalOpex
	margin := 0.0
	if revenueGBP > 0 {
		margin = ebitda / revenueGBP
	}
	return AnnualBaseEconomics{
		YearIndex:          index,
		BTCMined:           btcMined,
		BTCPriceUSD:        priceUSD,
		RevenueGBP:         revenueGBP,
		ElectricityCostGBP: electricityGBP,
		OtherOpexGBP:       otherOpexGBP,
		TotalOpexGBP:       totalOpex,
		EBITDAGBP:          ebitda,
		EBITDAMargin:       margin,
	}
}
