package scenario

import (
	"fmt"
	"math"
)

// BTCMultiplierForDifficultyShock converts a fractional difficulty shock into
// the BTC-production multiplier. A harder network (+0.20) means
// proportionally fewer BTC per unit of hashrate, so the multiplier inverts:
// 1/(1+pct). A shock at or below -100% has no physical meaning and is
// rejected up front rather than producing a silently wrong number.
func BTCMultiplierForDifficultyShock(pct float64) (float64, error) {
	if 1+pct <= 0 {
		return 0, fmt.Errorf("difficulty shock %.4f invalid: (1 + pct) must be > 0", pct)
	}
	return 1 / (1 + pct), nil
}

// ApplyToYear applies one scenario's shocks to one base year. The steps run
// in a fixed order because later values derive from earlier ones: difficulty
// shock, price shock, revenue, electricity shock, opex/EBITDA, revenue
// split, client tax.
func ApplyToYear(base AnnualBaseEconomics, cfg ScenarioConfig, usdToGBP, taxRate float64) (AnnualScenarioEconomics, error) {
	mult, err := BTCMultiplierForDifficultyShock(cfg.DifficultyPct)
	if err != nil {
		return AnnualScenarioEconomics{}, err
	}

	btcMined := math.Max(base.BTCMined*mult, 0)
	price := base.BTCPriceUSD * (1 + cfg.PricePct)
	revenue := btcMined * price * usdToGBP

	electricity := base.ElectricityCostGBP * (1 + cfg.ElectricityPct)
	otherOpex := base.OtherOpexGBP
	totalOpex := electricity + otherOpex

	ebitda := revenue - totalOpex
	margin := 0.0
	if revenue > 0 {
		margin = ebitda / revenue
	}

	clientRevenue := revenue * cfg.ClientRevenueShare
	operatorRevenue := revenue - clientRevenue

	// The client bears the full site opex; tax applies to positive profit
	// only (no loss credits).
	profitBeforeTax := clientRevenue - totalOpex
	taxable := math.Max(profitBeforeTax, 0)
	tax := taxable * taxRate
	net := profitBeforeTax - tax

	return AnnualScenarioEconomics{
		YearIndex:          base.YearIndex,
		BTCMined:           btcMined,
		BTCPriceUSD:        price,
		RevenueGBP:         revenue,
		ElectricityCostGBP: electricity,
		OtherOpexGBP:       otherOpex,
		TotalOpexGBP:       totalOpex,
		EBITDAGBP:          ebitda,
		EBITDAMargin:       margin,
		ClientRevenueGBP:   clientRevenue,
		OperatorRevenueGBP: operatorRevenue,
		ClientTaxGBP:       tax,
		ClientNetIncomeGBP: net,
	}, nil
}
