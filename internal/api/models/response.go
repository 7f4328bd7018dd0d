package models

import "time"

// SnapshotInfo is the network snapshot a projection was priced against,
// tagged with its provenance ("live", "cache" or "static-fallback").
type SnapshotInfo struct {
	BTCPriceUSD     float64   `json:"btc_price_usd"`
	Difficulty      float64   `json:"difficulty"`
	BlockSubsidyBTC float64   `json:"block_subsidy_btc"`
	USDToGBP        float64   `json:"usd_to_gbp"`
	BlockHeight     *int64    `json:"block_height,omitempty"`
	AsOfUTC         time.Time `json:"as_of_utc"`
	Source          string    `json:"source"`
}

// SiteMetricsInfo describes the derived site deployment
type SiteMetricsInfo struct {
	AsicsSupported       int     `json:"asics_supported"`
	PowerPerAsicKW       float64 `json:"power_per_asic_kw"`
	SitePowerUsedKW      float64 `json:"site_power_used_kw"`
	SitePowerAvailableKW float64 `json:"site_power_available_kw"`
	SpareCapacityKW      float64 `json:"spare_capacity_kw"`

	SiteBTCPerDay           float64 `json:"site_btc_per_day"`
	SiteRevenueGBPPerDay    float64 `json:"site_revenue_gbp_per_day"`
	SitePowerCostGBPPerDay  float64 `json:"site_power_cost_gbp_per_day"`
	SiteNetRevenueGBPPerDay float64 `json:"site_net_revenue_gbp_per_day"`

	Degenerate bool `json:"degenerate,omitempty"`
}

// CapexInfo is the component capex breakdown included when the model-based
// capex is in play
type CapexInfo struct {
	AsicCount int `json:"asic_count"`

	AsicCostGBP           float64 `json:"asic_cost_gbp"`
	ShippingGBP           float64 `json:"shipping_gbp"`
	ImportDutyGBP         float64 `json:"import_duty_gbp"`
	SparesGBP             float64 `json:"spares_gbp"`
	RackingGBP            float64 `json:"racking_gbp"`
	CablesGBP             float64 `json:"cables_gbp"`
	SwitchgearGBP         float64 `json:"switchgear_gbp"`
	NetworkingGBP         float64 `json:"networking_gbp"`
	InstallationLabourGBP float64 `json:"installation_labour_gbp"`
	CertificationGBP      float64 `json:"certification_gbp"`

	TotalGBP float64 `json:"total_gbp"`
}

// ScenarioConfigInfo echoes the shocks a scenario was run with
type ScenarioConfigInfo struct {
	Name               string  `json:"name"`
	PricePct           float64 `json:"price_pct"`
	DifficultyPct      float64 `json:"difficulty_pct"`
	ElectricityPct     float64 `json:"electricity_pct"`
	ClientRevenueShare float64 `json:"client_revenue_share"`
}

// YearRow is one projected year under a scenario
type YearRow struct {
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

// ScenarioResult contains one scenario's aggregated projection.
// ClientPaybackYears is null when capex is never recovered within the
// horizon (the engine's infinity does not survive JSON).
type ScenarioResult struct {
	Name   string             `json:"name"`
	Config ScenarioConfigInfo `json:"config"`

	TotalCapexGBP float64 `json:"total_capex_gbp"`

	TotalBTC                float64 `json:"total_btc"`
	TotalRevenueGBP         float64 `json:"total_revenue_gbp"`
	TotalOpexGBP            float64 `json:"total_opex_gbp"`
	TotalClientRevenueGBP   float64 `json:"total_client_revenue_gbp"`
	TotalOperatorRevenueGBP float64 `json:"total_operator_revenue_gbp"`
	TotalClientTaxGBP       float64 `json:"total_client_tax_gbp"`
	TotalClientNetIncomeGBP float64 `json:"total_client_net_income_gbp"`

	AvgEBITDAMargin    float64  `json:"avg_ebitda_margin"`
	ClientPaybackYears *float64 `json:"client_payback_years"`
	ClientROIMultiple  float64  `json:"client_roi_multiple"`

	Years []YearRow `json:"years,omitempty"`
}

// ProjectionResponse represents the response from a projection run
type ProjectionResponse struct {
	ResultID string `json:"result_id"`
	Status   string `json:"status"`

	Snapshot    SnapshotInfo     `json:"snapshot"`
	SiteMetrics *SiteMetricsInfo `json:"site_metrics,omitempty"`
	Capex       *CapexInfo       `json:"capex,omitempty"`

	Results []ScenarioResult `json:"results"`

	// Errors carries per-scenario failures that did not block the rest.
	Errors map[string]string `json:"errors,omitempty"`
}

// YearsResponse returns the stored per-year detail for an earlier run
type YearsResponse struct {
	ResultID string               `json:"result_id"`
	Years    map[string][]YearRow `json:"years"`
}

// CompareResponse represents the response from a scenario comparison
type CompareResponse struct {
	Comparison []ComparisonSlot `json:"comparison"`
}

// ComparisonSlot contains one scenario's result, or the error that kept it out
type ComparisonSlot struct {
	Name   string          `json:"name"`
	Result *ScenarioResult `json:"result,omitempty"`
	Error  *ErrorDetail    `json:"error,omitempty"`
}

// ForecastMonth is one month of projected production
type ForecastMonth struct {
	Month                  string  `json:"month"` // YYYY-MM
	SubsidyBTC             float64 `json:"subsidy_btc"`
	FeeBTCPerBlock         float64 `json:"fee_btc_per_block"`
	TotalRewardBTCPerBlock float64 `json:"total_reward_btc_per_block"`
	BTCMined               float64 `json:"btc_mined"`
}

// FiatMonth is the price path and revenue for one month
type FiatMonth struct {
	Month       string  `json:"month"`
	BTCMined    float64 `json:"btc_mined"`
	BTCPriceUSD float64 `json:"btc_price_usd"`
	RevenueUSD  float64 `json:"revenue_usd"`
	RevenueGBP  float64 `json:"revenue_gbp"`
}

// AnnualTotalInfo sums production per project year
type AnnualTotalInfo struct {
	Year     int     `json:"year"`
	BTCMined float64 `json:"btc_mined"`
}

// ForecastResponse represents the response from a forecast run
type ForecastResponse struct {
	Snapshot SnapshotInfo      `json:"snapshot"`
	Months   []ForecastMonth   `json:"months"`
	Fiat     []FiatMonth       `json:"fiat,omitempty"`
	Annual   []AnnualTotalInfo `json:"annual"`
	TotalBTC float64           `json:"total_btc"`
}

// MinerInfo represents information about a catalogue miner
type MinerInfo struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	File  string     `json:"file"`
	Specs MinerSpecs `json:"specs"`
}

// MinerSpecs contains miner hardware specifications
type MinerSpecs struct {
	HashrateTH       float64  `json:"hashrate_th"`
	PowerW           int      `json:"power_w"`
	EfficiencyJPerTH float64  `json:"efficiency_j_per_th"`
	Supplier         string   `json:"supplier,omitempty"`
	PriceUSD         *float64 `json:"price_usd,omitempty"`
}

// ScenarioInfo represents one canonical scenario and its shocks
type ScenarioInfo struct {
	Name               string  `json:"name"`
	Description        string  `json:"description"`
	PricePct           float64 `json:"price_pct"`
	DifficultyPct      float64 `json:"difficulty_pct"`
	ElectricityPct     float64 `json:"electricity_pct"`
	ClientRevenueShare float64 `json:"client_revenue_share"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
