package models

// SiteConfig defines the site envelope for a projection request
type SiteConfig struct {
	PowerKW              float64 `json:"power_kw"`
	ElectricityGBPPerKWh float64 `json:"electricity_gbp_per_kwh"`
	UptimePct            float64 `json:"uptime_pct"`
	CoolingOverheadPct   float64 `json:"cooling_overhead_pct,omitempty"`
	ProjectYears         int     `json:"project_years,omitempty"` // default: fallback from assumptions
}

// MinerConfig defines miner hardware parameters
type MinerConfig struct {
	Name             string   `json:"name,omitempty"`
	HashrateTH       float64  `json:"hashrate_th"`
	PowerW           int      `json:"power_w"`
	EfficiencyJPerTH float64  `json:"efficiency_j_per_th,omitempty"`
	Supplier         string   `json:"supplier,omitempty"`
	PriceUSD         *float64 `json:"price_usd,omitempty"`
}

// ProjectionRequest represents the request body for running a projection
type ProjectionRequest struct {
	// Hardware: a catalogue entry by id (miner_file), inline parameters, or
	// both (inline overrides the file). Synthetic mode needs neither.
	MinerFile string       `json:"miner_file,omitempty"`
	Miner     *MinerConfig `json:"miner,omitempty"`
	Site      *SiteConfig  `json:"site,omitempty"`

	// Synthetic replaces the site-derived base series with the declining
	// dummy series, for exploring scenario mechanics with no site at all.
	Synthetic bool `json:"synthetic,omitempty"`

	// TotalCapexGBP is the client's stated capital outlay. UseModelCapex
	// derives it from the component cost model instead.
	TotalCapexGBP float64 `json:"total_capex_gbp,omitempty"`
	UseModelCapex bool    `json:"use_model_capex,omitempty"`

	// ClientSharePct overrides the default revenue split, in percent (90 = 90%).
	ClientSharePct *float64 `json:"client_share_pct,omitempty"`

	// Scenarios selects a subset of the canonical table. Empty = all three.
	Scenarios []string `json:"scenarios,omitempty"`

	Options ProjectionOptions `json:"options,omitempty"`
}

// ProjectionOptions contains optional projection parameters
type ProjectionOptions struct {
	IncludeYears bool `json:"include_years,omitempty"` // default: false
	UseLiveData  bool `json:"use_live_data,omitempty"` // default: static assumptions
	UseForecast  bool `json:"use_forecast,omitempty"`  // halving-aware base series
}

// ScenarioSpec defines one custom scenario and its shock parameters
type ScenarioSpec struct {
	Name   string                 `json:"name" binding:"required"`
	Params map[string]interface{} `json:"params,omitempty"`
}

// CompareRequest represents a request to compare custom scenarios over one site
type CompareRequest struct {
	MinerFile string       `json:"miner_file,omitempty"`
	Miner     *MinerConfig `json:"miner,omitempty"`
	Site      *SiteConfig  `json:"site,omitempty"`
	Synthetic bool         `json:"synthetic,omitempty"`

	TotalCapexGBP  float64  `json:"total_capex_gbp,omitempty"`
	UseModelCapex  bool     `json:"use_model_capex,omitempty"`
	ClientSharePct *float64 `json:"client_share_pct,omitempty"`

	Scenarios []ScenarioSpec `json:"scenarios" binding:"required"`

	Options ProjectionOptions `json:"options,omitempty"`
}

// ForecastRequest represents a request for a monthly production forecast
type ForecastRequest struct {
	// Either state the site's production directly...
	SiteBTCPerDay float64 `json:"site_btc_per_day,omitempty"`
	// ...or provide hardware and site so it can be derived at the current
	// network snapshot.
	MinerFile string       `json:"miner_file,omitempty"`
	Miner     *MinerConfig `json:"miner,omitempty"`
	Site      *SiteConfig  `json:"site,omitempty"`

	StartMonth string `json:"start_month,omitempty"` // YYYY-MM, default: current month
	Years      int    `json:"years,omitempty"`       // default: fallback from assumptions

	FeeGrowthPctPerYear        float64 `json:"fee_growth_pct_per_year,omitempty"`
	DifficultyGrowthPctPerYear float64 `json:"difficulty_growth_pct_per_year,omitempty"`

	// WithFiat adds a price path and revenue columns.
	WithFiat             bool    `json:"with_fiat,omitempty"`
	StartPriceUSD        float64 `json:"start_price_usd,omitempty"` // default: snapshot price
	AnnualPriceGrowthPct float64 `json:"annual_price_growth_pct,omitempty"`

	UseLiveData bool `json:"use_live_data,omitempty"`
}
