package analysis

import (
	"math"
	"sort"

	"minesite-model/internal/mining"
	"minesite-model/internal/model"
)

// BreakevenPoint is one miner's all-in electricity price ceiling: the £/kWh
// at which a day of mining exactly pays for the energy it burns. nil means
// the miner draws no power to break even against.
type BreakevenPoint struct {
	Miner              string   `json:"miner"`
	EfficiencyJPerTH   float64  `json:"efficiency_j_per_th"`
	BreakevenGBPPerKWh *float64 `json:"breakeven_gbp_per_kwh"`
}

// PaybackPoint is one (miner, power price) sample on the payback curve.
// PaybackDays is nil when the miner never pays back at that price (no daily
// profit, or no catalogue price to pay back).
type PaybackPoint struct {
	Miner               string   `json:"miner"`
	EfficiencyJPerTH    float64  `json:"efficiency_j_per_th"`
	PowerPriceGBPPerKWh float64  `json:"power_price_gbp_per_kwh"`
	PaybackDays         *float64 `json:"payback_days"`
}

// ViabilityRow summarizes one miner at a specific site power price.
// BreakevenPencePerKWh is in pence for display alongside UK tariffs.
type ViabilityRow struct {
	Miner                  string   `json:"miner"`
	ViableAtSite           bool     `json:"viable_at_site"`
	BreakevenPencePerKWh   *float64 `json:"breakeven_pence_per_kwh"`
	PaybackDaysAtSitePrice *float64 `json:"payback_days_at_site_price"`
}

func uptimeFactor(uptimePct float64) float64 {
	return math.Max(0, math.Min(uptimePct, 100)) / 100.0
}

// ComputeBreakevenPoints returns the breakeven electricity price per miner.
// Uptime scales revenue and energy alike, so it cancels out of the ratio;
// it is applied anyway to keep the daily figures meaningful on their own.
func ComputeBreakevenPoints(miners []model.MinerOption, n model.NetworkSnapshot, uptimePct float64) []BreakevenPoint {
	uptime := uptimeFactor(uptimePct)
	points := make([]BreakevenPoint, 0, len(miners))

	for _, miner := range miners {
		econ := mining.ComputeMinerEconomics(miner.HashrateTH, n)
		revenueGBP := econ.RevenueUSDPerDay * n.USDToGBP * uptime
		kwhDay := miner.PowerKW() * 24.0 * uptime

		var breakeven *float64
		if kwhDay > 0 {
			v := revenueGBP / kwhDay
			breakeven = &v
		}
		points = append(points, BreakevenPoint{
			Miner:              miner.Name,
			EfficiencyJPerTH:   miner.EfficiencyJPerTH,
			BreakevenGBPPerKWh: breakeven,
		})
	}
	return points
}

// BreakevenMap indexes breakeven points by miner name.
func BreakevenMap(points []BreakevenPoint) map[string]*float64 {
	out := make(map[string]*float64, len(points))
	for _, p := range points {
		out[p.Miner] = p.BreakevenGBPPerKWh
	}
	return out
}

// ComputePaybackPoints samples hardware payback across a power price sweep.
// When breakevens is provided, prices beyond a miner's breakeven are
// excluded. capDays, when non-nil, drops points above the cap for chart
// readability.
func ComputePaybackPoints(
	miners []model.MinerOption,
	n model.NetworkSnapshot,
	uptimePct float64,
	powerPricesGBP []float64,
	breakevens map[string]*float64,
	capDays *float64,
) []PaybackPoint {
	uptime := uptimeFactor(uptimePct)
	points := make([]PaybackPoint, 0, len(miners)*len(powerPricesGBP))

	for _, miner := range miners {
		econ := mining.ComputeMinerEconomics(miner.HashrateTH, n)
		revenueGBP := econ.RevenueUSDPerDay * n.USDToGBP * uptime
		kwhDay := miner.PowerKW() * 24.0 * uptime

		unitPriceGBP := 0.0
		if miner.PriceUSD != nil {
			unitPriceGBP = *miner.PriceUSD * n.USDToGBP
		}

		var minerBreakeven *float64
		if breakevens != nil {
			minerBreakeven = breakevens[miner.Name]
		}

		for _, powerPrice := range powerPricesGBP {
			if minerBreakeven != nil && powerPrice > *minerBreakeven {
				continue
			}

			profit := revenueGBP - kwhDay*powerPrice
			var payback *float64
			if profit > 0 && unitPriceGBP > 0 {
				v := unitPriceGBP / profit
				payback = &v
			}

			if capDays != nil && payback != nil && *payback > *capDays {
				continue
			}

			points = append(points, PaybackPoint{
				Miner:               miner.Name,
				EfficiencyJPerTH:    miner.EfficiencyJPerTH,
				PowerPriceGBPPerKWh: powerPrice,
				PaybackDays:         payback,
			})
		}
	}
	return points
}

// BuildViabilitySummary reduces the analytics to one row per miner at the
// site's actual power price.
func BuildViabilitySummary(
	miners []model.MinerOption,
	breakevens map[string]*float64,
	sitePriceGBPPerKWh float64,
	paybackPoints []PaybackPoint,
) []ViabilityRow {
	// Pre-index payback at the site price; prices are grid-sampled floats so
	// match with a tolerance instead of equality.
	paybackAtPrice := make(map[string]*float64)
	for _, p := range paybackPoints {
		if math.Abs(p.PowerPriceGBPPerKWh-sitePriceGBPPerKWh) < 1e-9 {
			paybackAtPrice[p.Miner] = p.PaybackDays
		}
	}

	summary := make([]ViabilityRow, 0, len(miners))
	for _, miner := range miners {
		breakeven := breakevens[miner.Name]
		viable := breakeven != nil && *breakeven >= sitePriceGBPPerKWh

		var pence *float64
		if breakeven != nil {
			v := *breakeven * 100
			pence = &v
		}

		summary = append(summary, ViabilityRow{
			Miner:                  miner.Name,
			ViableAtSite:           viable,
			BreakevenPencePerKWh:   pence,
			PaybackDaysAtSitePrice: paybackAtPrice[miner.Name],
		})
	}
	return summary
}

// RankByBreakeven sorts breakeven points descending, most price-tolerant
// miner first. Miners with no breakeven sort last.
func RankByBreakeven(points []BreakevenPoint) []BreakevenPoint {
	out := make([]BreakevenPoint, len(points))
	copy(out, points)
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].BreakevenGBPPerKWh, out[j].BreakevenGBPPerKWh
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return *a > *b
	})
	return out
}
