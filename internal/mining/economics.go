package mining

import "minesite-model/internal/model"

const (
	blocksPerDay         = 144.0
	blockIntervalSeconds = 600.0
)

// MinerEconomics is the daily output of one hashing unit against a network
// snapshot. Degenerate marks the zero fallback produced for a non-positive
// difficulty or block subsidy, so callers can tell "not configured yet" apart
// from a unit that genuinely mines nothing.
type MinerEconomics struct {
	BTCPerDay        float64 `json:"btc_per_day"`
	RevenueUSDPerDay float64 `json:"revenue_usd_per_day"`
	Degenerate       bool    `json:"degenerate,omitempty"`
}

// ComputeMinerEconomics computes BTC/day and USD/day for one unit of
// hashrate using a proportional share-of-network model. The implied network
// hashrate is difficulty × 2^32 / 600 H/s (expected hashes per block over the
// 10-minute block time); the unit earns its share of 144 blocks × subsidy per
// day. Assumes no pool fees and 100% uptime; uptime is applied at site level.
func ComputeMinerEconomics(hashrateTH float64, n model.NetworkSnapshot) MinerEconomics {
	if n.Difficulty <= 0 || n.BlockSubsidyBTC <= 0 {
		return MinerEconomics{Degenerate: true}
	}

	hashrateHS := hashrateTH * 1e12
	networkHS := n.Difficulty * (1 << 32) / blockIntervalSeconds

	share := hashrateHS / networkHS
	btcDay := share * n.BlockSubsidyBTC * blocksPerDay

	return MinerEconomics{
		BTCPerDay:        btcDay,
		RevenueUSDPerDay: btcDay * n.BTCPriceUSD,
	}
}
