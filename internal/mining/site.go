package mining

import (
	"math"

	"minesite-model/internal/model"
)

// SiteMetrics scales a single miner's economics to a whole site under a
// fixed power envelope.
// Units:
// - power fields: kW
// - revenue/cost fields: per day, in the named currency
// - NetRevenuePerKWGBPPerDay: £/kW of used capacity per day
// - NetRevenuePerKWhGBP: £ net per kWh consumed
//
// Invariant: AsicsSupported = floor(PowerKW / PowerPerAsicKW), 0 when the
// per-unit power is non-positive. Degenerate marks results forced to zero by
// unconfigured inputs: no site power, no unit power, or a degenerate network
// snapshot.
type SiteMetrics struct {
	AsicsSupported       int     `json:"asics_supported"`
	PowerPerAsicKW       float64 `json:"power_per_asic_kw"`
	SitePowerUsedKW      float64 `json:"site_power_used_kw"`
	SitePowerAvailableKW float64 `json:"site_power_available_kw"`
	SpareCapacityKW      float64 `json:"spare_capacity_kw"`

	SiteBTCPerDay            float64 `json:"site_btc_per_day"`
	SiteRevenueUSDPerDay     float64 `json:"site_revenue_usd_per_day"`
	SiteRevenueGBPPerDay     float64 `json:"site_revenue_gbp_per_day"`
	SitePowerCostGBPPerDay   float64 `json:"site_power_cost_gbp_per_day"`
	SiteNetRevenueGBPPerDay  float64 `json:"site_net_revenue_gbp_per_day"`
	NetRevenuePerKWGBPPerDay float64 `json:"net_revenue_per_kw_gbp_per_day"`
	NetRevenuePerKWhGBP      float64 `json:"net_revenue_per_kwh_gbp"`

	Degenerate bool `json:"degenerate,omitempty"`
}

// ComputeSiteMetrics derives whole-site daily production, cost and net income
// from one miner SKU, a network snapshot and the site envelope. The cooling
// overhead inflates each unit's draw; uptime scales production and energy
// alike. FX comes from the snapshot.
func ComputeSiteMetrics(miner model.MinerOption, n model.NetworkSnapshot, site model.SiteSpec) SiteMetrics {
	if site.PowerKW <= 0 || miner.PowerW <= 0 {
		return SiteMetrics{
			SitePowerAvailableKW: site.PowerKW,
			SpareCapacityKW:      site.PowerKW,
			Degenerate:           true,
		}
	}

	uptime := clampPct(site.UptimePct) / 100.0
	overhead := 1.0 + math.Max(site.CoolingOverheadPct, 0)/100.0
	perAsicKW := miner.PowerKW() * overhead

	asics := 0
	if perAsicKW > 0 {
		asics = int(math.Floor(site.PowerKW / perAsicKW))
		if asics < 0 {
			asics = 0
		}
	}
	usedKW := float64(asics) * perAsicKW
	spareKW := math.Max(site.PowerKW-usedKW, 0)

	econ := ComputeMinerEconomics(miner.HashrateTH, n)
	siteBTC := float64(asics) * econ.BTCPerDay * uptime
	siteUSD := float64(asics) * econ.RevenueUSDPerDay * uptime
	siteGBP := siteUSD * n.USDToGBP

	kwhPerDay := usedKW * 24.0 * uptime
	costGBP := kwhPerDay * site.ElectricityGBPPerKWh
	netGBP := siteGBP - costGBP

	perKW := 0.0
	if usedKW > 0 {
		perKW = netGBP / usedKW
	}
	perKWh := 0.0
	if kwhPerDay > 0 {
		perKWh = netGBP / kwhPerDay
	}

	return SiteMetrics{
		AsicsSupported:           asics,
		PowerPerAsicKW:           perAsicKW,
		SitePowerUsedKW:          usedKW,
		SitePowerAvailableKW:     site.PowerKW,
		SpareCapacityKW:          spareKW,
		SiteBTCPerDay:            siteBTC,
		SiteRevenueUSDPerDay:     siteUSD,
		SiteRevenueGBPPerDay:     siteGBP,
		SitePowerCostGBPPerDay:   costGBP,
		SiteNetRevenueGBPPerDay:  netGBP,
		NetRevenuePerKWGBPPerDay: perKW,
		NetRevenuePerKWhGBP:      perKWh,
		Degenerate:               econ.Degenerate,
	}
}

func clampPct(pct float64) float64 {
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
