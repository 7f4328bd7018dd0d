package model

import "errors"

// SiteSpec describes the fixed-power industrial site a fleet of miners runs
// at, plus the project horizon. Duration is an explicit field here; nothing
// downstream guesses it from other inputs.
// Units:
// - PowerKW: kW available for mining load
// - ElectricityGBPPerKWh: £/kWh all-in
// - UptimePct: expected uptime percentage (98 means 98%)
// - CoolingOverheadPct: extra draw on top of the wall rating (10 means +10%)
type SiteSpec struct {
	PowerKW              float64 `json:"power_kw" yaml:"power_kw"`
	ElectricityGBPPerKWh float64 `json:"electricity_gbp_per_kwh" yaml:"electricity_gbp_per_kwh"`
	UptimePct            float64 `json:"uptime_pct" yaml:"uptime_pct"`
	CoolingOverheadPct   float64 `json:"cooling_overhead_pct" yaml:"cooling_overhead_pct"`
	ProjectYears         int     `json:"project_years" yaml:"project_years"`
}

// Validate enforces the strict-configuration bounds. Interactive callers may
// still pass transiently degenerate values (zero power) straight into the
// metrics deriver, which resolves them to a tagged zero result instead.
func (s SiteSpec) Validate() error {
	if s.PowerKW <= 0 {
		return errors.New("PowerKW must be > 0")
	}
	if s.ElectricityGBPPerKWh < 0 {
		return errors.New("ElectricityGBPPerKWh must be >= 0")
	}
	if s.UptimePct < 0 || s.UptimePct > 100 {
		return errors.New("UptimePct must be within [0, 100]")
	}
	if s.CoolingOverheadPct < 0 {
		return errors.New("CoolingOverheadPct must be >= 0")
	}
	if s.ProjectYears <= 0 {
		return errors.New("ProjectYears must be > 0")
	}
	return nil
}
