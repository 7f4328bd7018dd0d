package scenario

import "fmt"

// ScenarioConfig bundles one scenario's shock and revenue-share parameters.
// All shocks are fractional: +0.20 means +20%. DifficultyPct is the canonical
// representation; call sites holding a percentage-points "level shock" must
// normalize (×0.01) before constructing a config.
type ScenarioConfig struct {
	Name               string  `json:"name"`
	PricePct           float64 `json:"price_pct"`
	DifficultyPct      float64 `json:"difficulty_pct"`
	ElectricityPct     float64 `json:"electricity_pct"`
	ClientRevenueShare float64 `json:"client_revenue_share"`
}

func (c ScenarioConfig) Validate() error {
	if 1+c.DifficultyPct <= 0 {
		return fmt.Errorf("DifficultyPct %.4f invalid: (1 + pct) must be > 0", c.DifficultyPct)
	}
	if c.ClientRevenueShare < 0 || c.ClientRevenueShare > 1 {
		return fmt.Errorf("ClientRevenueShare %.4f must be within [0, 1]", c.ClientRevenueShare)
	}
	return nil
}

// Shocks is one scenario row in the default table.
type Shocks struct {
	PricePct       float64 `json:"price_pct" yaml:"price_pct"`
	DifficultyPct  float64 `json:"difficulty_pct" yaml:"difficulty_pct"`
	ElectricityPct float64 `json:"electricity_pct" yaml:"electricity_pct"`
}

// Defaults carries the centrally configured constants the factory consumes:
// one shock row per canonical scenario plus the default client share. It is
// built once from the loaded configuration and passed in explicitly.
type Defaults struct {
	ClientRevenueShare float64
	Base               Shocks
	Best               Shocks
	Worst              Shocks
}

// DefaultScenarios produces the three canonical configurations from one
// authoritative constant set, so the engine and its callers never drift on
// shock values. clientShareOverride, when non-nil, replaces the default
// split in every scenario.
func DefaultScenarios(d Defaults, clientShareOverride *float64) map[string]ScenarioConfig {
	share := d.ClientRevenueShare
	if clientShareOverride != nil {
		share = *clientShareOverride
	}

	build := func(name string, s Shocks) ScenarioConfig {
		return ScenarioConfig{
			Name:               name,
			PricePct:           s.PricePct,
			DifficultyPct:      s.DifficultyPct,
			ElectricityPct:     s.ElectricityPct,
			ClientRevenueShare: share,
		}
	}

	return map[string]ScenarioConfig{
		"base":  build("base", d.Base),
		"best":  build("best", d.Best),
		"worst": build("worst", d.Worst),
	}
}
