package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"minesite-model/internal/model"
	"minesite-model/internal/scenario"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	Name string `yaml:"name"`

	// Optional: load miner parameters from a separate YAML (a catalogue entry).
	// If both MinerFile and Miner are provided, Miner fields override the file.
	MinerFile string             `yaml:"miner_file"`
	Miner     *model.MinerOption `yaml:"miner"`

	Site model.SiteSpec `yaml:"site"`

	Assumptions Assumptions `yaml:"assumptions"`

	// Scenarios holds user-defined shock rows. Empty means the canonical
	// base/best/worst table from the assumptions.
	Scenarios []ScenarioSpec `yaml:"scenarios"`
}

// ScenarioSpec is one loosely-typed scenario row as written in YAML; params
// are coerced and validated by ScenarioConfigs.
type ScenarioSpec struct {
	Name   string         `yaml:"name"`
	Params map[string]any `yaml:"params"`
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	// If the site omits a horizon, default it from the assumptions.
	// This keeps configs concise; duration still lives on the site spec.
	if c.Site != (model.SiteSpec{}) && c.Site.ProjectYears == 0 {
		c.Site.ProjectYears = c.Assumptions.FallbackProjectYears
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not validate it.
// Useful for debugging/printing partial configs.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	c.Assumptions = MergeAssumptions(DefaultAssumptions(), c.Assumptions)
	// If miner_file is set, load it and merge in any explicit overrides from c.Miner.
	if c.MinerFile != "" {
		minerPath := c.MinerFile
		if !filepath.IsAbs(minerPath) {
			// Prefer interpreting relative paths as relative to the config file directory,
			// but fall back to the provided path (relative to cwd) if that doesn't exist.
			cand := filepath.Join(filepath.Dir(path), minerPath)
			if _, err := os.Stat(cand); err == nil {
				minerPath = cand
			}
		}
		loaded, err := LoadMinerFile(minerPath)
		if err != nil {
			return nil, err
		}
		if c.Miner != nil {
			loaded = MergeMiner(loaded, *c.Miner)
		}
		c.Miner = &loaded
	}
	return &c, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := c.Assumptions.Validate(); err != nil {
		return fmt.Errorf("assumptions invalid: %w", err)
	}
	if c.Miner != nil {
		if err := c.Miner.Validate(); err != nil {
			return fmt.Errorf("miner config invalid: %w", err)
		}
	}
	// The site block is optional; synthetic runs need none at all.
	if c.Site != (model.SiteSpec{}) {
		if err := c.Site.Validate(); err != nil {
			return fmt.Errorf("site config invalid: %w", err)
		}
	}
	if _, err := c.ScenarioConfigs(); err != nil {
		return err
	}
	return nil
}

// ScenarioConfigs materializes the configured scenario table. With no rows
// configured it returns the canonical base/best/worst set; otherwise each
// spec's params are coerced into a validated config.
func (c *Config) ScenarioConfigs() (map[string]scenario.ScenarioConfig, error) {
	if len(c.Scenarios) == 0 {
		return scenario.DefaultScenarios(c.Assumptions.ScenarioDefaults(), nil), nil
	}
	out := make(map[string]scenario.ScenarioConfig, len(c.Scenarios))
	for _, spec := range c.Scenarios {
		cfg, err := spec.ToScenarioConfig(c.Assumptions.ClientRevenueShare)
		if err != nil {
			return nil, err
		}
		if _, dup := out[cfg.Name]; dup {
			return nil, fmt.Errorf("scenario %q defined twice", cfg.Name)
		}
		out[cfg.Name] = cfg
	}
	return out, nil
}

// ToScenarioConfig coerces the loose param map into a typed scenario config.
// Shocks are fractional (+0.20 means +20%); the legacy percentage-points key
// difficulty_level_shock_pct is accepted and normalized here so the engine
// only ever sees the fractional form.
func (s ScenarioSpec) ToScenarioConfig(defaultClientShare float64) (scenario.ScenarioConfig, error) {
	if s.Name == "" {
		return scenario.ScenarioConfig{}, errors.New("scenario name is required")
	}
	cfg := scenario.ScenarioConfig{
		Name:               s.Name,
		ClientRevenueShare: defaultClientShare,
	}

	num := func(key string) (float64, bool, error) {
		v, ok := s.Params[key]
		if !ok {
			return 0, false, nil
		}
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return 0, false, fmt.Errorf("scenario %q: param %q: %w", s.Name, key, err)
		}
		return f, true, nil
	}

	for key := range s.Params {
		switch key {
		case "price_pct", "difficulty_pct", "difficulty_level_shock_pct", "electricity_pct", "client_revenue_share":
		default:
			return scenario.ScenarioConfig{}, fmt.Errorf("scenario %q: unknown param %q", s.Name, key)
		}
	}

	if v, ok, err := num("price_pct"); err != nil {
		return scenario.ScenarioConfig{}, err
	} else if ok {
		cfg.PricePct = v
	}

	frac, hasFrac, err := num("difficulty_pct")
	if err != nil {
		return scenario.ScenarioConfig{}, err
	}
	level, hasLevel, err := num("difficulty_level_shock_pct")
	if err != nil {
		return scenario.ScenarioConfig{}, err
	}
	switch {
	case hasFrac && hasLevel:
		return scenario.ScenarioConfig{}, fmt.Errorf("scenario %q: difficulty_pct and difficulty_level_shock_pct are mutually exclusive", s.Name)
	case hasFrac:
		cfg.DifficultyPct = frac
	case hasLevel:
		cfg.DifficultyPct = level / 100.0
	}

	if v, ok, err := num("electricity_pct"); err != nil {
		return scenario.ScenarioConfig{}, err
	} else if ok {
		cfg.ElectricityPct = v
	}
	if v, ok, err := num("client_revenue_share"); err != nil {
		return scenario.ScenarioConfig{}, err
	} else if ok {
		cfg.ClientRevenueShare = v
	}

	if err := cfg.Validate(); err != nil {
		return scenario.ScenarioConfig{}, fmt.Errorf("scenario %q: %w", s.Name, err)
	}
	return cfg, nil
}

type minerFileWrapper struct {
	Miner model.MinerOption `yaml:"miner"`
}

// LoadMinerFile reads one catalogue entry. Files carry a top-level miner key
// so catalogue directories stay greppable and self-describing.
func LoadMinerFile(path string) (model.MinerOption, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return model.MinerOption{}, err
	}
	var w minerFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return model.MinerOption{}, err
	}
	return w.Miner, nil
}

// MergeMiner overlays non-zero fields from override onto base.
// This is used when loading a miner file and then applying overrides from the config or request.
func MergeMiner(base, override model.MinerOption) model.MinerOption {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.HashrateTH != 0 {
		out.HashrateTH = override.HashrateTH
	}
	if override.PowerW != 0 {
		out.PowerW = override.PowerW
	}
	if override.EfficiencyJPerTH != 0 {
		out.EfficiencyJPerTH = override.EfficiencyJPerTH
	}
	if override.Supplier != "" {
		out.Supplier = override.Supplier
	}
	if override.PriceUSD != nil {
		out.PriceUSD = override.PriceUSD
	}
	return out
}
