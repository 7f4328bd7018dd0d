package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"minesite-model/internal/model"
	"minesite-model/internal/scenario"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMergesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
name: test-site
site:
  power_kw: 500
  electricity_gbp_per_kwh: 0.06
  uptime_pct: 98
assumptions:
  btc_price_usd: 95000
`)

	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "test-site", c.Name)
	// File override applied, everything else from the shipped defaults.
	assert.InDelta(t, 95000, c.Assumptions.BTCPriceUSD, 1e-9)
	assert.InDelta(t, 1.5e14, c.Assumptions.Difficulty, 1)
	assert.InDelta(t, 3.125, c.Assumptions.BlockSubsidyBTC, 1e-12)
	assert.InDelta(t, 0.75, c.Assumptions.USDToGBP, 1e-12)
	assert.InDelta(t, 0.90, c.Assumptions.ClientRevenueShare, 1e-12)
	// Horizon defaulted from assumptions when the site omits it.
	assert.Equal(t, 4, c.Site.ProjectYears)
}

func TestLoadMinerFileMerge(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "s21.yaml", `
miner:
  name: Antminer S21
  hashrate_th: 200
  power_w: 3500
  efficiency_j_per_th: 17.5
  price_usd: 3500
`)
	path := writeFile(t, dir, "config.yaml", `
miner_file: s21.yaml
miner:
  hashrate_th: 210
site:
  power_kw: 1000
  uptime_pct: 95
  project_years: 4
`)

	c, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, c.Miner)

	// File fields survive; the inline override wins where set.
	assert.Equal(t, "Antminer S21", c.Miner.Name)
	assert.InDelta(t, 210, c.Miner.HashrateTH, 1e-9)
	assert.Equal(t, 3500, c.Miner.PowerW)
	require.NotNil(t, c.Miner.PriceUSD)
	assert.InDelta(t, 3500, *c.Miner.PriceUSD, 1e-9)
}

func TestLoadRejectsInvalidSite(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", `
site:
  power_kw: 100
  uptime_pct: 150
`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "site config invalid")
}

func TestScenarioConfigsDefaultTable(t *testing.T) {
	c := &Config{Assumptions: DefaultAssumptions()}

	configs, err := c.ScenarioConfigs()
	require.NoError(t, err)
	require.Len(t, configs, 3)
	assert.InDelta(t, 0.20, configs["best"].PricePct, 1e-12)
	assert.InDelta(t, 0.20, configs["worst"].DifficultyPct, 1e-12)
	assert.InDelta(t, 0.90, configs["base"].ClientRevenueShare, 1e-12)
}

func TestToScenarioConfig(t *testing.T) {
	tests := []struct {
		name    string
		spec    ScenarioSpec
		wantErr string
		check   func(t *testing.T, got scenario.ScenarioConfig)
	}{
		{
			name: "fractional shocks",
			spec: ScenarioSpec{Name: "bull", Params: map[string]any{
				"price_pct":       0.5,
				"difficulty_pct":  -0.1,
				"electricity_pct": 0.05,
			}},
			check: func(t *testing.T, got scenario.ScenarioConfig) {
				assert.InDelta(t, 0.5, got.PricePct, 1e-12)
				assert.InDelta(t, -0.1, got.DifficultyPct, 1e-12)
				assert.InDelta(t, 0.90, got.ClientRevenueShare, 1e-12)
			},
		},
		{
			name: "level shock normalized to fractional",
			spec: ScenarioSpec{Name: "lvl", Params: map[string]any{
				"difficulty_level_shock_pct": 25,
			}},
			check: func(t *testing.T, got scenario.ScenarioConfig) {
				assert.InDelta(t, 0.25, got.DifficultyPct, 1e-12)
			},
		},
		{
			name: "string numeral coerced",
			spec: ScenarioSpec{Name: "s", Params: map[string]any{
				"price_pct": "0.3",
			}},
			check: func(t *testing.T, got scenario.ScenarioConfig) {
				assert.InDelta(t, 0.3, got.PricePct, 1e-12)
			},
		},
		{
			name: "share override",
			spec: ScenarioSpec{Name: "s", Params: map[string]any{
				"client_revenue_share": 0.6,
			}},
			check: func(t *testing.T, got scenario.ScenarioConfig) {
				assert.InDelta(t, 0.6, got.ClientRevenueShare, 1e-12)
			},
		},
		{
			name: "both difficulty keys rejected",
			spec: ScenarioSpec{Name: "dup", Params: map[string]any{
				"difficulty_pct":             0.1,
				"difficulty_level_shock_pct": 10,
			}},
			wantErr: "mutually exclusive",
		},
		{
			name:    "unknown param rejected",
			spec:    ScenarioSpec{Name: "x", Params: map[string]any{"hashrate_pct": 0.1}},
			wantErr: "unknown param",
		},
		{
			name:    "non-numeric param rejected",
			spec:    ScenarioSpec{Name: "x", Params: map[string]any{"price_pct": "lots"}},
			wantErr: `param "price_pct"`,
		},
		{
			name:    "missing name rejected",
			spec:    ScenarioSpec{Params: map[string]any{"price_pct": 0.1}},
			wantErr: "name is required",
		},
		{
			name: "invalid fractional difficulty rejected",
			spec: ScenarioSpec{Name: "dead", Params: map[string]any{
				"difficulty_pct": -1.0,
			}},
			wantErr: "must be > 0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := tt.spec.ToScenarioConfig(0.90)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestMergeAssumptions(t *testing.T) {
	base := DefaultAssumptions()
	override := Assumptions{
		USDToGBP:    0.80,
		NextHalving: time.Date(2032, time.March, 1, 0, 0, 0, 0, time.UTC),
	}

	merged := MergeAssumptions(base, override)

	assert.InDelta(t, 0.80, merged.USDToGBP, 1e-12)
	assert.Equal(t, 2032, merged.NextHalving.Year())
	assert.InDelta(t, base.BTCPriceUSD, merged.BTCPriceUSD, 1e-9)
	assert.Equal(t, base.Shocks.Worst, merged.Shocks.Worst)
}

func TestStaticSnapshot(t *testing.T) {
	a := DefaultAssumptions()
	asOf := time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC)

	snap := a.StaticSnapshot(asOf)

	require.NoError(t, snap.Validate())
	assert.InDelta(t, a.BTCPriceUSD, snap.BTCPriceUSD, 1e-9)
	assert.InDelta(t, a.Difficulty, snap.Difficulty, 1)
	assert.Equal(t, asOf, snap.AsOfUTC)
	assert.Nil(t, snap.BlockHeight)
}

func TestMergeMiner(t *testing.T) {
	price := 3200.0
	base := model.MinerOption{Name: "S21", HashrateTH: 200, PowerW: 3500, EfficiencyJPerTH: 17.5}
	override := model.MinerOption{HashrateTH: 234, PriceUSD: &price}

	merged := MergeMiner(base, override)

	assert.Equal(t, "S21", merged.Name)
	assert.InDelta(t, 234, merged.HashrateTH, 1e-9)
	assert.Equal(t, 3500, merged.PowerW)
	require.NotNil(t, merged.PriceUSD)
	assert.InDelta(t, 3200, *merged.PriceUSD, 1e-9)
}
