package scenario

import (
	"fmt"
	"math"
)

// Engine runs scenario projections. It carries the cross-run constants every
// projection needs (default FX, corporation tax rate) so the pure transforms
// never reach into ambient configuration.
type Engine struct {
	DefaultUSDToGBP    float64
	CorporationTaxRate float64
}

func New(defaultUSDToGBP, corporationTaxRate float64) *Engine {
	return &Engine{
		DefaultUSDToGBP:    defaultUSDToGBP,
		CorporationTaxRate: corporationTaxRate,
	}
}

// Run projects one scenario across the base years and aggregates the result.
// name overrides cfg.Name on the result so callers can label runs without
// minting config variants. usdToGBP <= 0 selects the engine default. An
// empty base series yields a fully zeroed result with infinite payback
// rather than an error: "nothing configured yet" is a displayable state.
func (e *Engine) Run(name string, baseYears []AnnualBaseEconomics, cfg ScenarioConfig, totalCapexGBP, usdToGBP float64) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %q: %w", name, err)
	}
	cfg.Name = name

	fx := usdToGBP
	if fx <= 0 {
		fx = e.DefaultUSDToGBP
	}

	res := &Result{
		Config:             cfg,
		TotalCapexGBP:      totalCapexGBP,
		ClientPaybackYears: math.Inf(1),
	}
	if len(baseYears) == 0 {
		return res, nil
	}

	res.Years = make([]AnnualScenarioEconomics, 0, len(baseYears))
	for _, base := range baseYears {
		year, err := ApplyToYear(base, cfg, fx, e.CorporationTaxRate)
		if err != nil {
			return nil, fmt.Errorf("scenario %q year %d: %w", name, base.YearIndex, err)
		}
		res.Years = append(res.Years, year)

		res.TotalBTC += year.BTCMined
		res.TotalRevenueGBP += year.RevenueGBP
		res.TotalOpexGBP += year.TotalOpexGBP
		res.TotalClientRevenueGBP += year.ClientRevenueGBP
		res.TotalOperatorRevenueGBP += year.OperatorRevenueGBP
		res.TotalClientTaxGBP += year.ClientTaxGBP
		res.TotalClientNetIncomeGBP += year.ClientNetIncomeGBP
	}

	res.AvgEBITDAMargin = RevenueWeightedEBITDAMargin(res.Years)
	res.ClientPaybackYears, res.ClientROIMultiple = PaybackAndROI(res.Years, totalCapexGBP, res.TotalClientNetIncomeGBP)

	return res, nil
}

// RunAll executes each named configuration independently over the same base
// series. One scenario's validation failure never blocks its siblings; its
// error is returned alongside the successful results.
func (e *Engine) RunAll(baseYears []AnnualBaseEconomics, configs map[string]ScenarioConfig, totalCapexGBP, usdToGBP float64) (map[string]*Result, map[string]error) {
	results := make(map[string]*Result, len(configs))
	errs := make(map[string]error)

	for name, cfg := range configs {
		res, err := e.Run(name, baseYears, cfg, totalCapexGBP, usdToGBP)
		if err != nil {
			errs[name] = err
			continue
		}
		results[name] = res
	}

	return results, errs
}
