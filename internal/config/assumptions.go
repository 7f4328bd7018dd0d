package config

import (
	"errors"
	"time"

	"minesite-model/internal/model"
	"minesite-model/internal/scenario"
)

// Assumptions is the single authoritative home for every modelling constant:
// static network values, FX, fiscal rates, halving schedule and the default
// shock table. Components receive the values they need explicitly; nothing
// reads these through a global.
type Assumptions struct {
	BTCPriceUSD     float64 `yaml:"btc_price_usd" json:"btc_price_usd"`
	Difficulty      float64 `yaml:"difficulty" json:"difficulty"`
	BlockSubsidyBTC float64 `yaml:"block_subsidy_btc" json:"block_subsidy_btc"`
	USDToGBP        float64 `yaml:"usd_to_gbp" json:"usd_to_gbp"`

	ClientRevenueShare float64 `yaml:"client_revenue_share" json:"client_revenue_share"`
	CorporationTaxRate float64 `yaml:"corporation_tax_rate" json:"corporation_tax_rate"`

	// FallbackProjectYears is used only when no site spec provides a horizon.
	FallbackProjectYears int `yaml:"fallback_project_years" json:"fallback_project_years"`

	NextHalving          time.Time `yaml:"next_halving" json:"next_halving"`
	HalvingIntervalYears int       `yaml:"halving_interval_years" json:"halving_interval_years"`
	BaseFeePerBlockBTC   float64   `yaml:"base_fee_per_block_btc" json:"base_fee_per_block_btc"`

	LiveDataTTLHours int `yaml:"live_data_ttl_hours" json:"live_data_ttl_hours"`

	Shocks ShockTable `yaml:"shocks" json:"shocks"`
}

// ShockTable holds the three canonical scenario rows. Values are fractional
// (+0.20 means +20%).
type ShockTable struct {
	Base  scenario.Shocks `yaml:"base" json:"base"`
	Best  scenario.Shocks `yaml:"best" json:"best"`
	Worst scenario.Shocks `yaml:"worst" json:"worst"`
}

// DefaultAssumptions returns the shipped constants. These hold whenever a
// config file omits a field or no file is loaded at all.
func DefaultAssumptions() Assumptions {
	return Assumptions{
		BTCPriceUSD:          90000,
		Difficulty:           1.5e14,
		BlockSubsidyBTC:      3.125,
		USDToGBP:             0.75,
		ClientRevenueShare:   0.90,
		CorporationTaxRate:   0.25,
		FallbackProjectYears: 4,
		NextHalving:          time.Date(2028, time.April, 1, 0, 0, 0, 0, time.UTC),
		HalvingIntervalYears: 4,
		BaseFeePerBlockBTC:   0.1,
		LiveDataTTLHours:     24,
		Shocks: ShockTable{
			Base:  scenario.Shocks{},
			Best:  scenario.Shocks{PricePct: 0.20, DifficultyPct: -0.10, ElectricityPct: -0.10},
			Worst: scenario.Shocks{PricePct: -0.20, DifficultyPct: 0.20, ElectricityPct: 0.20},
		},
	}
}

// StaticSnapshot materializes the assumption constants as a network snapshot,
// stamped with the given observation time. This is the offline stand-in when
// live data is unavailable or not wanted.
func (a Assumptions) StaticSnapshot(asOf time.Time) model.NetworkSnapshot {
	return model.NetworkSnapshot{
		BTCPriceUSD:     a.BTCPriceUSD,
		Difficulty:      a.Difficulty,
		BlockSubsidyBTC: a.BlockSubsidyBTC,
		USDToGBP:        a.USDToGBP,
		AsOfUTC:         asOf.UTC(),
	}
}

// ScenarioDefaults adapts the shock table into the form the scenario factory
// consumes.
func (a Assumptions) ScenarioDefaults() scenario.Defaults {
	return scenario.Defaults{
		ClientRevenueShare: a.ClientRevenueShare,
		Base:               a.Shocks.Base,
		Best:               a.Shocks.Best,
		Worst:              a.Shocks.Worst,
	}
}

// LiveDataTTL converts the configured cache lifetime to a duration, falling
// back to the shipped default when unset.
func (a Assumptions) LiveDataTTL() time.Duration {
	hours := a.LiveDataTTLHours
	if hours <= 0 {
		hours = DefaultAssumptions().LiveDataTTLHours
	}
	return time.Duration(hours) * time.Hour
}

func (a Assumptions) Validate() error {
	if a.BTCPriceUSD <= 0 {
		return errors.New("btc_price_usd must be > 0")
	}
	if a.Difficulty <= 0 {
		return errors.New("difficulty must be > 0")
	}
	if a.BlockSubsidyBTC <= 0 {
		return errors.New("block_subsidy_btc must be > 0")
	}
	if a.USDToGBP <= 0 {
		return errors.New("usd_to_gbp must be > 0")
	}
	if a.ClientRevenueShare < 0 || a.ClientRevenueShare > 1 {
		return errors.New("client_revenue_share must be within [0, 1]")
	}
	if a.CorporationTaxRate < 0 || a.CorporationTaxRate > 1 {
		return errors.New("corporation_tax_rate must be within [0, 1]")
	}
	if a.FallbackProjectYears <= 0 {
		return errors.New("fallback_project_years must be > 0")
	}
	if a.HalvingIntervalYears <= 0 {
		return errors.New("halving_interval_years must be > 0")
	}
	return nil
}

// MergeAssumptions overlays non-zero fields from override onto base.
// File-loaded assumptions are merged over the shipped defaults this way, so
// a config only needs to name the constants it changes.
func MergeAssumptions(base, override Assumptions) Assumptions {
	out := base
	if override.BTCPriceUSD != 0 {
		out.BTCPriceUSD = override.BTCPriceUSD
	}
	if override.Difficulty != 0 {
		out.Difficulty = override.Difficulty
	}
	if override.BlockSubsidyBTC != 0 {
		out.BlockSubsidyBTC = override.BlockSubsidyBTC
	}
	if override.USDToGBP != 0 {
		out.USDToGBP = override.USDToGBP
	}
	if override.ClientRevenueShare != 0 {
		out.ClientRevenueShare = override.ClientRevenueShare
	}
	if override.CorporationTaxRate != 0 {
		out.CorporationTaxRate = override.CorporationTaxRate
	}
	if override.FallbackProjectYears != 0 {
		out.FallbackProjectYears = override.FallbackProjectYears
	}
	if !override.NextHalving.IsZero() {
		out.NextHalving = override.NextHalving
	}
	if override.HalvingIntervalYears != 0 {
		out.HalvingIntervalYears = override.HalvingIntervalYears
	}
	if override.BaseFeePerBlockBTC != 0 {
		out.BaseFeePerBlockBTC = override.BaseFeePerBlockBTC
	}
	if override.LiveDataTTLHours != 0 {
		out.LiveDataTTLHours = override.LiveDataTTLHours
	}
	// Shock rows merge wholesale: an all-zero row in the file means "keep the
	// default", since zero shocks are only meaningful for the base case and
	// that default is zero anyway.
	if override.Shocks.Base != (scenario.Shocks{}) {
		out.Shocks.Base = override.Shocks.Base
	}
	if override.Shocks.Best != (scenario.Shocks{}) {
		out.Shocks.Best = override.Shocks.Best
	}
	if override.Shocks.Worst != (scenario.Shocks{}) {
		out.Shocks.Worst = override.Shocks.Worst
	}
	return out
}
