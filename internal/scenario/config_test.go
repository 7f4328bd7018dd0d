package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDefaults() Defaults {
	return Defaults{
		ClientRevenueShare: 0.90,
		Base:               Shocks{},
		Best:               Shocks{PricePct: 0.20, DifficultyPct: -0.10, ElectricityPct: -0.10},
		Worst:              Shocks{PricePct: -0.20, DifficultyPct: 0.20, ElectricityPct: 0.20},
	}
}

func TestDefaultScenarios(t *testing.T) {
	configs := DefaultScenarios(testDefaults(), nil)

	require.Len(t, configs, 3)
	for _, name := range []string{"base", "best", "worst"} {
		require.Contains(t, configs, name)
		assert.Equal(t, name, configs[name].Name)
		assert.InDelta(t, 0.90, configs[name].ClientRevenueShare, 1e-12)
		assert.NoError(t, configs[name].Validate())
	}

	assert.Zero(t, configs["base"].PricePct)
	assert.InDelta(t, -0.10, configs["best"].DifficultyPct, 1e-12)
	assert.InDelta(t, 0.20, configs["worst"].ElectricityPct, 1e-12)

	// More favourable difficulty means strictly more BTC, in shock order.
	assert.Less(t, configs["best"].DifficultyPct, configs["base"].DifficultyPct)
	assert.Less(t, configs["base"].DifficultyPct, configs["worst"].DifficultyPct)
}

func TestDefaultScenariosShareOverride(t *testing.T) {
	share := 0.65
	configs := DefaultScenarios(testDefaults(), &share)

	for name, cfg := range configs {
		assert.InDelta(t, 0.65, cfg.ClientRevenueShare, 1e-12, "scenario %s", name)
	}
}

func TestScenarioConfigValidate(t *testing.T) {
	valid := ScenarioConfig{Name: "x", DifficultyPct: 0.2, ClientRevenueShare: 0.9}
	assert.NoError(t, valid.Validate())

	inverted := valid
	inverted.DifficultyPct = -1.0
	assert.Error(t, inverted.Validate())

	badShare := valid
	badShare.ClientRevenueShare = 1.2
	assert.Error(t, badShare.Validate())
}
