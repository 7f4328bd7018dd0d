package main

import (
	"flag"
	"fmt"
	"math"
	"time"

	"minesite-model/internal/analysis"
	"minesite-model/internal/capex"
	"minesite-model/internal/config"
	"minesite-model/internal/data"
	"minesite-model/internal/mining"
	"minesite-model/internal/model"
	"minesite-model/internal/scenario"

	"github.com/dustin/go-humanize"
)

// Demo:
// - Build a network snapshot (static assumptions, or live with --live)
// - Size a site for one miner SKU and derive its daily economics
// - Model the capital outlay from the component cost model
// - Run the base/best/worst scenarios and show the client's position
func main() {
	cfgPath := flag.String("config", "", "Path to YAML config (optional)")
	live := flag.Bool("live", false, "Fetch live network data (falls back to static)")
	years := flag.Int("years", 0, "Override project term in years")
	flag.Parse()

	// Defaults (can be overridden via --config).
	price := 3500.0
	miner := model.MinerOption{
		Name:       "Antminer S21",
		HashrateTH: 200,
		PowerW:     3500,
		PriceUSD:   &price,
	}
	site := model.SiteSpec{
		PowerKW:              250,
		ElectricityGBPPerKWh: 0.05,
		UptimePct:            95,
		CoolingOverheadPct:   10,
		ProjectYears:         4,
	}
	assume := config.DefaultAssumptions()

	if *cfgPath != "" {
		cfg, err := config.Load(*cfgPath)
		if err != nil {
			panic(err)
		}
		assume = cfg.Assumptions
		if cfg.Miner != nil {
			miner = *cfg.Miner
		}
		if cfg.Site != (model.SiteSpec{}) {
			site = cfg.Site
		}
	}
	if *years > 0 {
		site.ProjectYears = *years
	}

	var (
		snap   model.NetworkSnapshot
		source string
	)
	if *live {
		provider := data.NewProvider(data.NewLiveClient(), assume)
		s, src := provider.Snapshot()
		snap, source = s, string(src)
	} else {
		snap, source = assume.StaticSnapshot(time.Now().UTC()), string(data.SourceStatic)
	}

	fmt.Printf("== Network (%s) ==\n", source)
	fmt.Printf("BTC $%s, difficulty %s, subsidy %.3f BTC, USD/GBP %.2f\n\n",
		humanize.CommafWithDigits(snap.BTCPriceUSD, 0),
		humanize.SIWithDigits(snap.Difficulty, 2, ""),
		snap.BlockSubsidyBTC, snap.USDToGBP)

	econ := mining.ComputeMinerEconomics(miner.HashrateTH, snap)
	fmt.Printf("== One %s (%.0f TH/s, %d W) ==\n", miner.Name, miner.HashrateTH, miner.PowerW)
	fmt.Printf("Production     : %.8f BTC/day\n", econ.BTCPerDay)
	fmt.Printf("Revenue        : $%.2f/day\n\n", econ.RevenueUSDPerDay)

	metrics := mining.ComputeSiteMetrics(miner, snap, site)
	fmt.Printf("== Site (%.0f kW at %.2fp/kWh, %.0f%% uptime) ==\n",
		site.PowerKW, site.ElectricityGBPPerKWh*100, site.UptimePct)
	fmt.Printf("Units          : %d (%.2f kW each with cooling)\n", metrics.AsicsSupported, metrics.PowerPerAsicKW)
	fmt.Printf("Power used     : %.1f kW, %.1f kW spare\n", metrics.SitePowerUsedKW, metrics.SpareCapacityKW)
	fmt.Printf("Production     : %.6f BTC/day\n", metrics.SiteBTCPerDay)
	fmt.Printf("Revenue        : £%.2f/day\n", metrics.SiteRevenueGBPPerDay)
	fmt.Printf("Power cost     : £%.2f/day\n", metrics.SitePowerCostGBPPerDay)
	fmt.Printf("Net            : £%.2f/day\n\n", metrics.SiteNetRevenueGBPPerDay)

	minerPrice := 0.0
	if miner.PriceUSD != nil {
		minerPrice = *miner.PriceUSD
	}
	breakdown := capex.Compute(metrics.AsicsSupported, minerPrice, capex.DefaultCostModel(), snap.USDToGBP)
	fmt.Printf("== Capital outlay (%d units) ==\n", breakdown.AsicCount)
	fmt.Printf("Hardware       : £%s\n", humanize.CommafWithDigits(breakdown.AsicCostGBP, 0))
	fmt.Printf("Everything else: £%s\n", humanize.CommafWithDigits(breakdown.TotalGBP()-breakdown.AsicCostGBP, 0))
	fmt.Printf("Total          : £%s\n\n", humanize.CommafWithDigits(breakdown.TotalGBP(), 0))

	baseYears := scenario.BuildBaseYears(metrics, site.ProjectYears)
	configs := scenario.DefaultScenarios(assume.ScenarioDefaults(), nil)
	engine := scenario.New(assume.USDToGBP, assume.CorporationTaxRate)
	results, errs := engine.RunAll(baseYears, configs, breakdown.TotalGBP(), snap.USDToGBP)
	for name, err := range errs {
		panic(fmt.Errorf("scenario %s: %w", name, err))
	}

	fmt.Printf("== %d-year projection ==\n", site.ProjectYears)
	for _, name := range []string{"base", "best", "worst"} {
		res, ok := results[name]
		if !ok {
			continue
		}
		payback := "never"
		if !math.IsInf(res.ClientPaybackYears, 1) {
			payback = fmt.Sprintf("%.2f years", res.ClientPaybackYears)
		}
		fmt.Printf("%-6s revenue £%s, client net £%s, margin %.1f%%, payback %s, ROI %.2fx\n",
			name,
			humanize.CommafWithDigits(res.TotalRevenueGBP, 0),
			humanize.CommafWithDigits(res.TotalClientNetIncomeGBP, 0),
			res.AvgEBITDAMargin*100,
			payback,
			res.ClientROIMultiple)
	}

	points := analysis.ComputeBreakevenPoints([]model.MinerOption{miner}, snap, site.UptimePct)
	if len(points) == 1 && points[0].BreakevenGBPPerKWh != nil {
		fmt.Printf("\nBreakeven power price: %.2fp/kWh (site pays %.2fp/kWh)\n",
			*points[0].BreakevenGBPPerKWh*100, site.ElectricityGBPPerKWh*100)
	}
}
