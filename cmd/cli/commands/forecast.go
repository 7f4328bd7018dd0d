package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"minesite-model/internal/forecast"
	"minesite-model/internal/mining"
	"minesite-model/internal/model"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// forecastCmd represents the forecast command
var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Project monthly BTC production across halvings",
	Long: `Project monthly production from a starting BTC/day rate, stepping the
block subsidy down at each halving and optionally growing fees and
difficulty. With --fiat it also prices each month's output.`,
	RunE: runForecast,
}

func init() {
	rootCmd.AddCommand(forecastCmd)

	forecastCmd.Flags().Float64("btc-per-day", 0, "site production today in BTC/day (default: derive from config)")
	forecastCmd.Flags().String("start", "", "start month as YYYY-MM (default: current month)")
	forecastCmd.Flags().Int("years", 0, "forecast horizon in years")
	forecastCmd.Flags().Float64("fee-growth", 0, "annual fee growth in percent")
	forecastCmd.Flags().Float64("difficulty-growth", 0, "annual difficulty growth in percent")
	forecastCmd.Flags().Bool("fiat", false, "add a price path and revenue columns")
	forecastCmd.Flags().Float64("start-price", 0, "starting BTC price in USD (default: snapshot price)")
	forecastCmd.Flags().Float64("price-growth", 0, "annual price growth in percent")
	forecastCmd.Flags().String("csv", "", "write the monthly table to this path")
	forecastCmd.Flags().Bool("live", false, "fetch live network data (falls back to static)")
	forecastCmd.Flags().String("format", "table", "output format (table, json)")
}

func runForecast(cmd *cobra.Command, args []string) error {
	btcPerDay, _ := cmd.Flags().GetFloat64("btc-per-day")
	start, _ := cmd.Flags().GetString("start")
	years, _ := cmd.Flags().GetInt("years")
	feeGrowth, _ := cmd.Flags().GetFloat64("fee-growth")
	diffGrowth, _ := cmd.Flags().GetFloat64("difficulty-growth")
	withFiat, _ := cmd.Flags().GetBool("fiat")
	startPrice, _ := cmd.Flags().GetFloat64("start-price")
	priceGrowth, _ := cmd.Flags().GetFloat64("price-growth")
	csvPath, _ := cmd.Flags().GetString("csv")
	live, _ := cmd.Flags().GetBool("live")
	format, _ := cmd.Flags().GetString("format")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	assume := cfg.Assumptions

	snap, source := resolveSnapshot(assume, live)

	if btcPerDay <= 0 {
		if cfg.Miner == nil || cfg.Site == (model.SiteSpec{}) {
			return fmt.Errorf("--btc-per-day or a config file with a miner and site is required")
		}
		metrics := mining.ComputeSiteMetrics(*cfg.Miner, snap, cfg.Site)
		if metrics.SiteBTCPerDay <= 0 {
			return fmt.Errorf("derived production is zero: site cannot host the miner")
		}
		btcPerDay = metrics.SiteBTCPerDay
	}

	startMonth := time.Now().UTC()
	if start != "" {
		parsed, err := time.Parse("2006-01", start)
		if err != nil {
			return fmt.Errorf("--start %q must be YYYY-MM", start)
		}
		startMonth = parsed
	} else {
		startMonth = time.Date(startMonth.Year(), startMonth.Month(), 1, 0, 0, 0, 0, time.UTC)
	}

	if years <= 0 {
		years = assume.FallbackProjectYears
	}

	rows := forecast.BuildMonthly(forecast.Params{
		SiteBTCPerDay:              btcPerDay,
		Start:                      startMonth,
		ProjectYears:               years,
		BaseSubsidyBTC:             snap.BlockSubsidyBTC,
		NextHalving:                assume.NextHalving,
		HalvingIntervalYears:       assume.HalvingIntervalYears,
		BaseFeeBTCPerBlock:         assume.BaseFeePerBlockBTC,
		FeeGrowthPctPerYear:        feeGrowth,
		DifficultyGrowthPctPerYear: diffGrowth,
	})

	var fiat []forecast.FiatRow
	if withFiat {
		if startPrice <= 0 {
			startPrice = snap.BTCPriceUSD
		}
		fiat = forecast.BuildFiatMonthly(rows, startPrice, priceGrowth, snap.USDToGBP)
	}

	if csvPath != "" {
		if withFiat {
			err = forecast.WriteFiatCSV(csvPath, fiat)
		} else {
			err = forecast.WriteMonthlyCSV(csvPath, rows)
		}
		if err != nil {
			return fmt.Errorf("write %s: %w", csvPath, err)
		}
		fmt.Printf("Wrote %d rows to %s\n", len(rows), csvPath)
	}

	if format == "json" {
		out := struct {
			Source   string                 `json:"source"`
			Months   []forecast.MonthlyRow  `json:"months"`
			Fiat     []forecast.FiatRow     `json:"fiat,omitempty"`
			Annual   []forecast.AnnualTotal `json:"annual"`
			TotalBTC float64                `json:"total_btc"`
		}{source, rows, fiat, forecast.AnnualTotals(rows), sumBTC(rows)}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(out)
	}

	fmt.Printf("Forecast (%s): %.6f BTC/day from %s over %d years\n",
		source, btcPerDay, startMonth.Format("2006-01"), years)

	if verbose {
		fmt.Println("\n  Month    Subsidy  Fee/Blk  BTC Mined")
		for _, r := range rows {
			fmt.Printf("  %s  %7.3f  %7.4f  %9.5f\n",
				r.Month.Format("2006-01"), r.SubsidyBTC, r.FeeBTCPerBlock, r.BTCMined)
		}
	}

	fmt.Println("\nAnnual totals:")
	for _, a := range forecast.AnnualTotals(rows) {
		fmt.Printf("  %d : %.5f BTC\n", a.Year, a.BTCMined)
	}
	fmt.Printf("Total : %.5f BTC\n", sumBTC(rows))

	if withFiat && len(fiat) > 0 {
		totalGBP := 0.0
		for _, f := range fiat {
			totalGBP += f.RevenueGBP
		}
		fmt.Printf("\nPriced at $%s start, %+.0f%%/year:\n",
			humanize.CommafWithDigits(startPrice, 0), priceGrowth)
		fmt.Printf("  Total Revenue : £%s\n", humanize.CommafWithDigits(totalGBP, 0))
	}

	return nil
}

func sumBTC(rows []forecast.MonthlyRow) float64 {
	total := 0.0
	for _, r := range rows {
		total += r.BTCMined
	}
	return total
}
