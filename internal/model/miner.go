package model

import "errors"

// MinerOption represents a single ASIC hardware SKU. Catalogue entries are
// supplied by the operator as YAML files; the core never mutates them.
// Units:
// - HashrateTH: TH/s
// - PowerW: watts at the wall (before cooling overhead)
// - EfficiencyJPerTH: joules per terahash
// - PriceUSD: $ per unit, when known
type MinerOption struct {
	Name             string   `json:"name" yaml:"name"`
	HashrateTH       float64  `json:"hashrate_th" yaml:"hashrate_th"`
	PowerW           int      `json:"power_w" yaml:"power_w"`
	EfficiencyJPerTH float64  `json:"efficiency_j_per_th" yaml:"efficiency_j_per_th"`
	Supplier         string   `json:"supplier,omitempty" yaml:"supplier,omitempty"`
	PriceUSD         *float64 `json:"price_usd,omitempty" yaml:"price_usd,omitempty"`
}

// PowerKW is the wall rating in kW, before any cooling overhead.
func (m MinerOption) PowerKW() float64 {
	return float64(m.PowerW) / 1000.0
}

func (m MinerOption) Validate() error {
	if m.Name == "" {
		return errors.New("Name must not be empty")
	}
	if m.HashrateTH <= 0 {
		return errors.New("HashrateTH must be > 0")
	}
	if m.PowerW <= 0 {
		return errors.New("PowerW must be > 0")
	}
	return nil
}
