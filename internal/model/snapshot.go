package model

import (
	"errors"
	"time"
)

// NetworkSnapshot captures the Bitcoin network economics consumed by one
// calculation cycle. It is produced externally (live fetch or static default)
// and is read-only to the engine.
// Units:
// - BTCPriceUSD: $/BTC
// - Difficulty: dimensionless network difficulty
// - BlockSubsidyBTC: BTC per mined block
// - USDToGBP: GBP per USD
// - HashpriceUSDPerPHDay: $/PH/s/day, optional metadata
type NetworkSnapshot struct {
	BTCPriceUSD     float64   `json:"btc_price_usd" yaml:"btc_price_usd"`
	Difficulty      float64   `json:"difficulty" yaml:"difficulty"`
	BlockSubsidyBTC float64   `json:"block_subsidy_btc" yaml:"block_subsidy_btc"`
	USDToGBP        float64   `json:"usd_to_gbp" yaml:"usd_to_gbp"`
	BlockHeight     *int64    `json:"block_height,omitempty" yaml:"block_height,omitempty"`
	AsOfUTC         time.Time `json:"as_of_utc" yaml:"as_of_utc"`

	HashpriceUSDPerPHDay *float64   `json:"hashprice_usd_per_ph_day,omitempty" yaml:"hashprice_usd_per_ph_day,omitempty"`
	HashpriceAsOfUTC     *time.Time `json:"hashprice_as_of_utc,omitempty" yaml:"hashprice_as_of_utc,omitempty"`
}

func (n NetworkSnapshot) Validate() error {
	if n.BTCPriceUSD <= 0 {
		return errors.New("BTCPriceUSD must be > 0")
	}
	if n.Difficulty <= 0 {
		return errors.New("Difficulty must be > 0")
	}
	if n.BlockSubsidyBTC <= 0 {
		return errors.New("BlockSubsidyBTC must be > 0")
	}
	if n.USDToGBP <= 0 {
		return errors.New("USDToGBP must be > 0")
	}
	return nil
}
