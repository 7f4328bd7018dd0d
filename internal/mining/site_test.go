package mining

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minesite-model/internal/model"
)

func testMiner() model.MinerOption {
	return model.MinerOption{Name: "TestMiner", HashrateTH: 200, PowerW: 3000, EfficiencyJPerTH: 15}
}

func TestComputeSiteMetrics(t *testing.T) {
	n := testSnapshot()
	site := model.SiteSpec{
		PowerKW:              30,
		ElectricityGBPPerKWh: 0.10,
		UptimePct:            50,
		ProjectYears:         4,
	}

	m := ComputeSiteMetrics(testMiner(), n, site)
	econ := ComputeMinerEconomics(testMiner().HashrateTH, n)

	require.False(t, m.Degenerate)
	assert.Equal(t, 10, m.AsicsSupported)
	assert.InDelta(t, 3.0, m.PowerPerAsicKW, 1e-12)
	assert.InDelta(t, 30.0, m.SitePowerUsedKW, 1e-12)
	assert.InDelta(t, 30.0, m.SitePowerAvailableKW, 1e-12)
	assert.InDelta(t, 0.0, m.SpareCapacityKW, 1e-12)

	assert.InDelta(t, 10*econ.BTCPerDay*0.5, m.SiteBTCPerDay, 1e-12)
	assert.InDelta(t, 10*econ.RevenueUSDPerDay*0.5, m.SiteRevenueUSDPerDay, 1e-9)
	assert.InDelta(t, m.SiteRevenueUSDPerDay*n.USDToGBP, m.SiteRevenueGBPPerDay, 1e-9)

	// 30 kW x 24 h x 0.5 uptime = 360 kWh/day at £0.10.
	assert.InDelta(t, 36.0, m.SitePowerCostGBPPerDay, 1e-9)
	assert.InDelta(t, m.SiteRevenueGBPPerDay-36.0, m.SiteNetRevenueGBPPerDay, 1e-9)
	assert.InDelta(t, m.SiteNetRevenueGBPPerDay/30.0, m.NetRevenuePerKWGBPPerDay, 1e-12)
	assert.InDelta(t, m.SiteNetRevenueGBPPerDay/360.0, m.NetRevenuePerKWhGBP, 1e-12)
}

func TestComputeSiteMetricsCoolingOverhead(t *testing.T) {
	site := model.SiteSpec{PowerKW: 10, UptimePct: 100, CoolingOverheadPct: 10}

	m := ComputeSiteMetrics(testMiner(), testSnapshot(), site)

	assert.InDelta(t, 3.3, m.PowerPerAsicKW, 1e-9)
	assert.Equal(t, 3, m.AsicsSupported)
	assert.InDelta(t, 9.9, m.SitePowerUsedKW, 1e-9)
	assert.InDelta(t, 0.1, m.SpareCapacityKW, 1e-9)
}

func TestComputeSiteMetricsZeroPowerSite(t *testing.T) {
	m := ComputeSiteMetrics(testMiner(), testSnapshot(), model.SiteSpec{PowerKW: 0})

	assert.True(t, m.Degenerate)
	assert.Zero(t, m.AsicsSupported)
	assert.Zero(t, m.SiteBTCPerDay)
	assert.Zero(t, m.SitePowerUsedKW)
	assert.Zero(t, m.SitePowerAvailableKW)
}

func TestComputeSiteMetricsUptimeClamped(t *testing.T) {
	site := model.SiteSpec{PowerKW: 30, UptimePct: 100}
	over := site
	over.UptimePct = 150

	full := ComputeSiteMetrics(testMiner(), testSnapshot(), site)
	clamped := ComputeSiteMetrics(testMiner(), testSnapshot(), over)

	assert.InDelta(t, full.SiteBTCPerDay, clamped.SiteBTCPerDay, 1e-15)
	assert.InDelta(t, full.SitePowerCostGBPPerDay, clamped.SitePowerCostGBPPerDay, 1e-9)
}

func TestComputeSiteMetricsDegenerateNetwork(t *testing.T) {
	n := testSnapshot()
	n.Difficulty = 0
	site := model.SiteSpec{PowerKW: 30, ElectricityGBPPerKWh: 0.10, UptimePct: 100}

	m := ComputeSiteMetrics(testMiner(), n, site)

	// Capacity is still derived; only the economics collapse to zero.
	assert.True(t, m.Degenerate)
	assert.Equal(t, 10, m.AsicsSupported)
	assert.Zero(t, m.SiteBTCPerDay)
	assert.Zero(t, m.SiteRevenueGBPPerDay)
}
