package analysis

import (
	"testing"
	"time"

	"minesite-model/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testNetwork() model.NetworkSnapshot {
	return model.NetworkSnapshot{
		BTCPriceUSD:     90000,
		Difficulty:      1.5e14,
		BlockSubsidyBTC: 3.125,
		USDToGBP:        0.75,
		AsOfUTC:         time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

func fleet() []model.MinerOption {
	price := 3500.0
	return []model.MinerOption{
		{Name: "S21", HashrateTH: 200, PowerW: 3500, EfficiencyJPerTH: 17.5, PriceUSD: &price},
		{Name: "OldGen", HashrateTH: 100, PowerW: 3500, EfficiencyJPerTH: 35},
	}
}

// At the test snapshot the 200 TH miner earns about £5.658/day and burns
// 84 kWh/day, so its breakeven sits near 6.74 p/kWh; the 100 TH unit on the
// same wall draw earns half and breaks even near 3.37 p/kWh.

func TestComputeBreakevenPoints(t *testing.T) {
	points := ComputeBreakevenPoints(fleet(), testNetwork(), 100)
	require.Len(t, points, 2)

	require.NotNil(t, points[0].BreakevenGBPPerKWh)
	assert.InDelta(t, 0.067355, *points[0].BreakevenGBPPerKWh, 1e-5)
	require.NotNil(t, points[1].BreakevenGBPPerKWh)
	assert.InDelta(t, 0.033677, *points[1].BreakevenGBPPerKWh, 1e-5)
}

func TestBreakevenUnaffectedByUptime(t *testing.T) {
	full := ComputeBreakevenPoints(fleet(), testNetwork(), 100)
	partial := ComputeBreakevenPoints(fleet(), testNetwork(), 95)

	// Uptime scales revenue and consumption together; the ratio holds.
	assert.InDelta(t, *full[0].BreakevenGBPPerKWh, *partial[0].BreakevenGBPPerKWh, 1e-12)
}

func TestBreakevenZeroPowerMiner(t *testing.T) {
	points := ComputeBreakevenPoints([]model.MinerOption{{Name: "ghost", HashrateTH: 100}}, testNetwork(), 100)
	require.Len(t, points, 1)
	assert.Nil(t, points[0].BreakevenGBPPerKWh)
}

func TestComputePaybackPoints(t *testing.T) {
	miners := fleet()
	n := testNetwork()
	breakevens := BreakevenMap(ComputeBreakevenPoints(miners, n, 100))

	points := ComputePaybackPoints(miners, n, 100, []float64{0.05, 0.08}, breakevens, nil)

	// 0.08 £/kWh is beyond both breakevens and 0.05 is beyond OldGen's, so a
	// single S21 sample remains.
	require.Len(t, points, 1)
	assert.Equal(t, "S21", points[0].Miner)
	assert.InDelta(t, 0.05, points[0].PowerPriceGBPPerKWh, 1e-12)

	// £2625 of hardware paid back at about £1.458/day of profit.
	require.NotNil(t, points[0].PaybackDays)
	assert.InDelta(t, 1800.7, *points[0].PaybackDays, 0.5)
}

func TestComputePaybackPointsNoCataloguePrice(t *testing.T) {
	points := ComputePaybackPoints(fleet(), testNetwork(), 100, []float64{0.02}, nil, nil)
	require.Len(t, points, 2)

	// Both miners profit at 2 p/kWh, but only the priced S21 has a payback.
	assert.NotNil(t, points[0].PaybackDays)
	assert.Equal(t, "OldGen", points[1].Miner)
	assert.Nil(t, points[1].PaybackDays)
}

func TestComputePaybackPointsCapDays(t *testing.T) {
	miners := fleet()
	n := testNetwork()
	cap := 1000.0

	points := ComputePaybackPoints(miners, n, 100, []float64{0.05}, nil, &cap)

	// The S21's ~1800-day payback exceeds the cap and is dropped; the
	// priceless OldGen keeps its nil-payback sample.
	require.Len(t, points, 1)
	assert.Equal(t, "OldGen", points[0].Miner)
}

func TestBuildViabilitySummary(t *testing.T) {
	miners := fleet()
	n := testNetwork()
	breakevens := BreakevenMap(ComputeBreakevenPoints(miners, n, 100))
	points := ComputePaybackPoints(miners, n, 100, []float64{0.05}, breakevens, nil)

	summary := BuildViabilitySummary(miners, breakevens, 0.05, points)
	require.Len(t, summary, 2)

	s21 := summary[0]
	assert.True(t, s21.ViableAtSite)
	require.NotNil(t, s21.BreakevenPencePerKWh)
	assert.InDelta(t, 6.7355, *s21.BreakevenPencePerKWh, 1e-3)
	require.NotNil(t, s21.PaybackDaysAtSitePrice)
	assert.InDelta(t, 1800.7, *s21.PaybackDaysAtSitePrice, 0.5)

	oldGen := summary[1]
	assert.False(t, oldGen.ViableAtSite)
	assert.Nil(t, oldGen.PaybackDaysAtSitePrice)
}

func TestRankByBreakeven(t *testing.T) {
	miners := append(fleet(), model.MinerOption{Name: "ghost", HashrateTH: 50})
	points := ComputeBreakevenPoints(miners, testNetwork(), 100)

	ranked := RankByBreakeven(points)
	require.Len(t, ranked, 3)
	assert.Equal(t, "S21", ranked[0].Miner)
	assert.Equal(t, "OldGen", ranked[1].Miner)
	assert.Equal(t, "ghost", ranked[2].Miner)

	// Input order untouched.
	assert.Equal(t, "S21", points[0].Miner)
}
