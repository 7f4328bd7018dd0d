package scenario

// AnnualBaseEconomics is one pre-shock project year. All currency fields are
// GBP per year; BTCPriceUSD is the price implied by the base revenue.
// Derived fields obey TotalOpexGBP = ElectricityCostGBP + OtherOpexGBP and
// EBITDAGBP = RevenueGBP - TotalOpexGBP.
type AnnualBaseEconomics struct {
	YearIndex          int     `json:"year_index"`
	BTCMined           float64 `json:"btc_mined"`
	BTCPriceUSD        float64 `json:"btc_price_usd"`
	RevenueGBP         float64 `json:"revenue_gbp"`
	ElectricityCostGBP float64 `json:"electricity_cost_gbp"`
	OtherOpexGBP       float64 `json:"other_opex_gbp"`
	TotalOpexGBP       float64 `json:"total_opex_gbp"`
	EBITDAGBP          float64 `json:"ebitda_gbp"`
	EBITDAMargin       float64 `json:"ebitda_margin"`
}

// AnnualScenarioEconomics is one post-shock year: the base fields after the
// scenario's shocks plus the client/operator split and the client's tax line.
type AnnualScenarioEconomics struct {
	YearIndex          int     `json:"year_index"`
	BTCMined           float64 `json:"btc_mined"`
	BTCPriceUSD        float64 `json:"btc_price_usd"`
	RevenueGBP         float64 `json:"revenue_gbp"`
	ElectricityCostGBP float64 `json:"electricity_cost_gbp"`
	OtherOpexGBP       float64 `json:"other_opex_gbp"`
	TotalOpexGBP       float64 `json:"total_opex_gbp"`
	EBITDAGBP          float64 `json:"ebitda_gbp"`
	EBITDAMargin       float64 `json:"ebitda_margin"`

	ClientRevenueGBP   float64 `json:"client_revenue_gbp"`
	OperatorRevenueGBP float64 `json:"operator_revenue_gbp"`
	ClientTaxGBP       float64 `json:"client_tax_gbp"`
	ClientNetIncomeGBP float64 `json:"client_net_income_gbp"`
}

// Result aggregates one scenario run. This is the primary artifact consumers
// read: the year rows plus linear totals, the revenue-weighted margin, and
// the client's payback/ROI. ClientPaybackYears is +Inf when capex is absent
// or never recovered; map it at serialization boundaries.
type Result struct {
	Config ScenarioConfig            `json:"config"`
	Years  []AnnualScenarioEconomics `json:"years"`

	TotalCapexGBP float64 `json:"total_capex_gbp"`

	TotalBTC                float64 `json:"total_btc"`
	TotalRevenueGBP         float64 `json:"total_revenue_gbp"`
	TotalOpexGBP            float64 `json:"total_opex_gbp"`
	TotalClientRevenueGBP   float64 `json:"total_client_revenue_gbp"`
	TotalOperatorRevenueGBP float64 `json:"total_operator_revenue_gbp"`
	TotalClientTaxGBP       float64 `json:"total_client_tax_gbp"`
	TotalClientNetIncomeGBP float64 `json:"total_client_net_income_gbp"`

	AvgEBITDAMargin    float64 `json:"avg_ebitda_margin"`
	ClientPaybackYears float64 `json:"client_payback_years"`
	ClientROIMultiple  float64 `json:"client_roi_multiple"`
}
