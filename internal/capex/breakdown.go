// Package capex models the client-side capital outlay for kitting out a
// mining site, and the capital tax relief applied against it.
package capex

// CostModel carries the USD-side cost assumptions behind a breakdown: unit
// prices, per-miner ancillaries, fixed site totals and installation labour.
// Rates are fractions of the total ASIC cost.
type CostModel struct {
	AsicPriceUSD         float64 `json:"asic_price_usd" yaml:"asic_price_usd"`
	AsicShippingUSD      float64 `json:"asic_shipping_usd" yaml:"asic_shipping_usd"`
	ImportDutyRate       float64 `json:"import_duty_rate" yaml:"import_duty_rate"`
	SparesRate           float64 `json:"spares_rate" yaml:"spares_rate"`
	RackingPerMinerUSD   float64 `json:"racking_per_miner_usd" yaml:"racking_per_miner_usd"`
	CablesPerMinerUSD    float64 `json:"cables_per_miner_usd" yaml:"cables_per_miner_usd"`
	SwitchgearTotalUSD   float64 `json:"switchgear_total_usd" yaml:"switchgear_total_usd"`
	NetworkingTotalUSD   float64 `json:"networking_total_usd" yaml:"networking_total_usd"`
	InstallLabourHours   float64 `json:"install_labour_hours" yaml:"install_labour_hours"`
	InstallLabourRateUSD float64 `json:"install_labour_rate_usd" yaml:"install_labour_rate_usd"`
	CertificationUSD     float64 `json:"certification_usd" yaml:"certification_usd"`
}

// DefaultCostModel returns the standard deployment assumptions.
func DefaultCostModel() CostModel {
	return CostModel{
		AsicPriceUSD:         3500,
		AsicShippingUSD:      120,
		ImportDutyRate:       0.02,
		SparesRate:           0.05,
		RackingPerMinerUSD:   150,
		CablesPerMinerUSD:    40,
		SwitchgearTotalUSD:   25000,
		NetworkingTotalUSD:   5000,
		InstallLabourHours:   160,
		InstallLabourRateUSD: 45,
		CertificationUSD:     7500,
	}
}

// Breakdown is the client-side CapEx split. All components are GBP,
// converted from the USD cost model at the supplied FX rate.
type Breakdown struct {
	AsicCount int `json:"asic_count"`

	AsicCostGBP           float64 `json:"asic_cost_gbp"`
	ShippingGBP           float64 `json:"shipping_gbp"`
	ImportDutyGBP         float64 `json:"import_duty_gbp"`
	SparesGBP             float64 `json:"spares_gbp"`
	RackingGBP            float64 `json:"racking_gbp"`
	CablesGBP             float64 `json:"cables_gbp"`
	SwitchgearGBP         float64 `json:"switchgear_gbp"`
	NetworkingGBP         float64 `json:"networking_gbp"`
	InstallationLabourGBP float64 `json:"installation_labour_gbp"`
	CertificationGBP      float64 `json:"certification_gbp"`
}

func (b Breakdown) TotalGBP() float64 {
	return b.AsicCostGBP +
		b.ShippingGBP +
		b.ImportDutyGBP +
		b.SparesGBP +
		b.RackingGBP +
		b.CablesGBP +
		b.SwitchgearGBP +
		b.NetworkingGBP +
		b.InstallationLabourGBP +
		b.CertificationGBP
}

// Compute builds the model-based breakdown for a unit count.
// minerPriceUSD <= 0 falls back to the cost model's default unit price. An
// empty site (count <= 0) yields the all-zero breakdown so callers can still
// render it.
func Compute(asicCount int, minerPriceUSD float64, cm CostModel, usdToGBP float64) Breakdown {
	if asicCount <= 0 {
		return Breakdown{}
	}

	unitPrice := minerPriceUSD
	if unitPrice <= 0 {
		unitPrice = cm.AsicPriceUSD
	}

	count := float64(asicCount)
	asicUSD := unitPrice * count
	shippingUSD := cm.AsicShippingUSD * count
	dutyUSD := asicUSD * cm.ImportDutyRate
	sparesUSD := asicUSD * cm.SparesRate
	rackingUSD := cm.RackingPerMinerUSD * count
	cablesUSD := cm.CablesPerMinerUSD * count
	labourUSD := cm.InstallLabourHours * cm.InstallLabourRateUSD

	toGBP := func(usd float64) float64 { return usd * usdToGBP }

	return Breakdown{
		AsicCount:             asicCount,
		AsicCostGBP:           toGBP(asicUSD),
		ShippingGBP:           toGBP(shippingUSD),
		ImportDutyGBP:         toGBP(dutyUSD),
		SparesGBP:             toGBP(sparesUSD),
		RackingGBP:            toGBP(rackingUSD),
		CablesGBP:             toGBP(cablesUSD),
		SwitchgearGBP:         toGBP(cm.SwitchgearTotalUSD),
		NetworkingGBP:         toGBP(cm.NetworkingTotalUSD),
		InstallationLabourGBP: toGBP(labourUSD),
		CertificationGBP:      toGBP(cm.CertificationUSD),
	}
}
