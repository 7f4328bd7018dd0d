package commands

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"minesite-model/internal/analysis"
	"minesite-model/internal/capex"
	"minesite-model/internal/mining"
	"minesite-model/internal/model"
	"minesite-model/internal/scenario"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// projectCmd represents the project command
var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Run the multi-year scenario projection",
	Long: `Project a site's economics over the project term under the base, best
and worst scenarios (or a custom scenario table from the config file).
Reports totals, EBITDA margin, client payback and ROI per scenario.`,
	RunE: runProject,
}

func init() {
	rootCmd.AddCommand(projectCmd)

	projectCmd.Flags().Bool("synthetic", false, "use the built-in declining base series instead of a site")
	projectCmd.Flags().Int("years", 0, "override the project term in years")
	projectCmd.Flags().Float64("capex", 0, "client capital outlay in GBP")
	projectCmd.Flags().Bool("model-capex", false, "derive capex from the component cost model")
	projectCmd.Flags().Float64("client-share", -1, "client revenue share override in percent (90 = 90%)")
	projectCmd.Flags().StringSlice("scenario", nil, "scenario subset to run (default: all)")
	projectCmd.Flags().String("csv", "", "write per-scenario year tables to <stem>_<scenario>.csv")
	projectCmd.Flags().Bool("live", false, "fetch live network data (falls back to static)")
	projectCmd.Flags().String("format", "table", "output format (table, json)")
}

func runProject(cmd *cobra.Command, args []string) error {
	synthetic, _ := cmd.Flags().GetBool("synthetic")
	years, _ := cmd.Flags().GetInt("years")
	capexGBP, _ := cmd.Flags().GetFloat64("capex")
	modelCapex, _ := cmd.Flags().GetBool("model-capex")
	clientShare, _ := cmd.Flags().GetFloat64("client-share")
	names, _ := cmd.Flags().GetStringSlice("scenario")
	csvStem, _ := cmd.Flags().GetString("csv")
	live, _ := cmd.Flags().GetBool("live")
	format, _ := cmd.Flags().GetString("format")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if clientShare >= 0 {
		if clientShare > 100 {
			return fmt.Errorf("--client-share %.2f must be within [0, 100]", clientShare)
		}
		cfg.Assumptions.ClientRevenueShare = clientShare / 100.0
	}
	assume := cfg.Assumptions

	snap, source := resolveSnapshot(assume, live)

	projectYears := assume.FallbackProjectYears
	if cfg.Site.ProjectYears > 0 {
		projectYears = cfg.Site.ProjectYears
	}
	if years > 0 {
		projectYears = years
	}

	var (
		baseYears []scenario.AnnualBaseEconomics
		metrics   *mining.SiteMetrics
	)
	switch {
	case synthetic:
		baseYears = scenario.SyntheticBaseYears(projectYears, snap.BTCPriceUSD, snap.USDToGBP)
	case cfg.Miner != nil && cfg.Site != (model.SiteSpec{}):
		site := cfg.Site
		site.ProjectYears = projectYears
		m := mining.ComputeSiteMetrics(*cfg.Miner, snap, site)
		metrics = &m
		baseYears = scenario.BuildBaseYears(m, projectYears)
	default:
		return fmt.Errorf("either --synthetic or a config file with a miner and site is required")
	}

	var breakdown *capex.Breakdown
	if modelCapex {
		if metrics == nil {
			return fmt.Errorf("--model-capex needs a miner and site config")
		}
		price := 0.0
		if cfg.Miner.PriceUSD != nil {
			price = *cfg.Miner.PriceUSD
		}
		b := capex.Compute(metrics.AsicsSupported, price, capex.DefaultCostModel(), snap.USDToGBP)
		breakdown = &b
		capexGBP = b.TotalGBP()
	}

	configs, err := cfg.ScenarioConfigs()
	if err != nil {
		return err
	}
	if len(names) > 0 {
		subset := make(map[string]scenario.ScenarioConfig, len(names))
		for _, name := range names {
			sc, ok := configs[name]
			if !ok {
				return fmt.Errorf("unknown scenario %q (have: %s)", name, strings.Join(scenarioOrder(configs), ", "))
			}
			subset[name] = sc
		}
		configs = subset
	}

	engine := scenario.New(assume.USDToGBP, assume.CorporationTaxRate)
	results, errs := engine.RunAll(baseYears, configs, capexGBP, snap.USDToGBP)
	for name, runErr := range errs {
		fmt.Fprintf(os.Stderr, "scenario %s failed: %v\n", name, runErr)
	}

	if csvStem != "" {
		stem := strings.TrimSuffix(csvStem, ".csv")
		if dir := filepath.Dir(stem); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		for name, res := range results {
			path := fmt.Sprintf("%s_%s.csv", stem, name)
			if err := scenario.WriteYearsCSV(path, res.Years); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			fmt.Printf("Wrote %d rows to %s\n", len(res.Years), path)
		}
	}

	taxCfg := capex.DefaultTaxConfig()
	taxCfg.CorporationTaxRate = assume.CorporationTaxRate

	if format == "json" {
		return printProjectJSON(snap, source, metrics, breakdown, results)
	}
	printProjectTable(snap, source, metrics, breakdown, results, taxCfg)
	return nil
}

func printProjectJSON(snap model.NetworkSnapshot, source string, metrics *mining.SiteMetrics, breakdown *capex.Breakdown, results map[string]*scenario.Result) error {
	out := struct {
		Snapshot    model.NetworkSnapshot       `json:"snapshot"`
		Source      string                      `json:"source"`
		SiteMetrics *mining.SiteMetrics         `json:"site_metrics,omitempty"`
		Capex       *capex.Breakdown            `json:"capex,omitempty"`
		Results     map[string]*scenario.Result `json:"results"`
	}{snap, source, metrics, breakdown, results}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func printProjectTable(snap model.NetworkSnapshot, source string, metrics *mining.SiteMetrics, breakdown *capex.Breakdown, results map[string]*scenario.Result, taxCfg capex.TaxConfig) {
	fmt.Printf("Network (%s):\n", source)
	fmt.Printf("  BTC Price  : $%s\n", humanize.CommafWithDigits(snap.BTCPriceUSD, 0))
	fmt.Printf("  Difficulty : %s\n", humanize.SIWithDigits(snap.Difficulty, 2, ""))
	fmt.Printf("  Subsidy    : %.3f BTC\n", snap.BlockSubsidyBTC)
	fmt.Printf("  USD/GBP    : %.4f\n", snap.USDToGBP)

	if metrics != nil {
		fmt.Println("\nSite:")
		fmt.Printf("  Units Supported : %d\n", metrics.AsicsSupported)
		fmt.Printf("  Power Used      : %.1f kW of %.1f kW\n", metrics.SitePowerUsedKW, metrics.SitePowerAvailableKW)
		fmt.Printf("  Production      : %.6f BTC/day\n", metrics.SiteBTCPerDay)
		fmt.Printf("  Net Revenue     : £%s/day\n", humanize.CommafWithDigits(metrics.SiteNetRevenueGBPPerDay, 2))
	}

	if breakdown != nil {
		fmt.Println("\nCapex (modelled):")
		fmt.Printf("  Hardware   : £%s\n", humanize.CommafWithDigits(breakdown.AsicCostGBP, 0))
		fmt.Printf("  Logistics  : £%s\n", humanize.CommafWithDigits(breakdown.ShippingGBP+breakdown.ImportDutyGBP, 0))
		fmt.Printf("  Site Build : £%s\n", humanize.CommafWithDigits(breakdown.TotalGBP()-breakdown.AsicCostGBP-breakdown.ShippingGBP-breakdown.ImportDutyGBP, 0))
		fmt.Printf("  Total      : £%s\n", humanize.CommafWithDigits(breakdown.TotalGBP(), 0))
	}

	for _, name := range scenarioResultOrder(results) {
		res := results[name]
		cfg := res.Config
		fmt.Printf("\nScenario: %s (price %+.0f%%, difficulty %+.0f%%, electricity %+.0f%%, client share %.0f%%)\n",
			name, cfg.PricePct*100, cfg.DifficultyPct*100, cfg.ElectricityPct*100, cfg.ClientRevenueShare*100)
		fmt.Printf("  Total BTC         : %.6f\n", res.TotalBTC)
		fmt.Printf("  Total Revenue     : £%s\n", humanize.CommafWithDigits(res.TotalRevenueGBP, 0))
		fmt.Printf("  Total Opex        : £%s\n", humanize.CommafWithDigits(res.TotalOpexGBP, 0))
		fmt.Printf("  Client Revenue    : £%s\n", humanize.CommafWithDigits(res.TotalClientRevenueGBP, 0))
		fmt.Printf("  Client Tax        : £%s\n", humanize.CommafWithDigits(res.TotalClientTaxGBP, 0))
		fmt.Printf("  Client Net Income : £%s\n", humanize.CommafWithDigits(res.TotalClientNetIncomeGBP, 0))
		fmt.Printf("  Avg EBITDA Margin : %.1f%%\n", res.AvgEBITDAMargin*100)
		if math.IsInf(res.ClientPaybackYears, 1) {
			fmt.Printf("  Client Payback    : never\n")
		} else {
			fmt.Printf("  Client Payback    : %.2f years\n", res.ClientPaybackYears)
		}
		fmt.Printf("  Client ROI        : %.2fx\n", res.ClientROIMultiple)

		if res.TotalCapexGBP > 0 {
			inv := analysis.ComputeInvestmentMetrics(monthlyFlows(res.Years), res.TotalCapexGBP)
			if inv.IRRAnnual != nil {
				fmt.Printf("  Client IRR        : %.1f%% annual\n", *inv.IRRAnnual*100)
			}
		}

		if verbose {
			fmt.Println("  Year  BTC        Revenue£      Opex£         EBITDA£       Margin  ClientNet£")
			for _, y := range res.Years {
				fmt.Printf("  %-5d %-10.4f %-13s %-13s %-13s %5.1f%%  %s\n",
					y.YearIndex+1, y.BTCMined,
					humanize.CommafWithDigits(y.RevenueGBP, 0),
					humanize.CommafWithDigits(y.TotalOpexGBP, 0),
					humanize.CommafWithDigits(y.EBITDAGBP, 0),
					y.EBITDAMargin*100,
					humanize.CommafWithDigits(y.ClientNetIncomeGBP, 0))
			}

			// The filed-tax view: full expensing of the capex in year one,
			// versus the engine's flat per-year treatment above.
			if res.TotalCapexGBP > 0 {
				ebitda := make([]float64, len(res.Years))
				for i, y := range res.Years {
					ebitda[i] = y.ClientRevenueGBP - y.TotalOpexGBP
				}
				profile := capex.ClientTaxProfile(ebitda, res.TotalCapexGBP, taxCfg)
				fmt.Printf("  Tax with first-year allowance: £%s total\n",
					humanize.CommafWithDigits(capex.TotalTaxGBP(profile), 0))
				for _, y := range profile {
					fmt.Printf("    year %d: allowance £%s, taxable £%s, tax £%s\n",
						y.YearIndex,
						humanize.CommafWithDigits(y.AllowanceGBP, 0),
						humanize.CommafWithDigits(y.TaxableGBP, 0),
						humanize.CommafWithDigits(y.TaxGBP, 0))
				}
			}
		}
	}
}

// monthlyFlows spreads each year's client net income over 12 equal months,
// the granularity the IRR solver expects.
func monthlyFlows(years []scenario.AnnualScenarioEconomics) []float64 {
	flows := make([]float64, 0, len(years)*12)
	for _, y := range years {
		monthly := y.ClientNetIncomeGBP / 12.0
		for i := 0; i < 12; i++ {
			flows = append(flows, monthly)
		}
	}
	return flows
}

func scenarioOrder(configs map[string]scenario.ScenarioConfig) []string {
	names := make([]string, 0, len(configs))
	for name := range configs {
		names = append(names, name)
	}
	return canonicalFirst(names)
}

func scenarioResultOrder(results map[string]*scenario.Result) []string {
	names := make([]string, 0, len(results))
	for name := range results {
		names = append(names, name)
	}
	return canonicalFirst(names)
}

// canonicalFirst orders base/best/worst ahead of any custom scenarios.
func canonicalFirst(names []string) []string {
	rank := map[string]int{"base": 0, "best": 1, "worst": 2}
	sort.Slice(names, func(i, j int) bool {
		ri, iOK := rank[names[i]]
		rj, jOK := rank[names[j]]
		switch {
		case iOK && jOK:
			return ri < rj
		case iOK:
			return true
		case jOK:
			return false
		default:
			return names[i] < names[j]
		}
	})
	return names
}
