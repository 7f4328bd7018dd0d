package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"minesite-model/internal/analysis"
	"minesite-model/internal/config"
	"minesite-model/internal/model"

	"github.com/spf13/cobra"
)

// minersCmd represents the miners command
var minersCmd = &cobra.Command{
	Use:   "miners",
	Short: "Compare catalogue miners by breakeven power price",
	Long: `Rank the miner catalogue by the power price each unit can tolerate
before mining at a loss. With --power-price it also marks which units are
viable at your site's tariff and how many days each takes to pay back.`,
	RunE: runMiners,
}

func init() {
	rootCmd.AddCommand(minersCmd)

	minersCmd.Flags().String("dir", "./miners", "miner catalogue directory")
	minersCmd.Flags().Float64("power-price", 0, "site power price in GBP/kWh for the viability check")
	minersCmd.Flags().Float64("uptime", 100, "uptime percent applied to payback")
	minersCmd.Flags().Float64("cap-days", 0, "drop miners whose payback exceeds this many days (0 = no cap)")
	minersCmd.Flags().Bool("live", false, "fetch live network data (falls back to static)")
	minersCmd.Flags().String("format", "table", "output format (table, json)")
}

func runMiners(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("dir")
	powerPrice, _ := cmd.Flags().GetFloat64("power-price")
	uptime, _ := cmd.Flags().GetFloat64("uptime")
	capDaysFlag, _ := cmd.Flags().GetFloat64("cap-days")
	live, _ := cmd.Flags().GetBool("live")
	format, _ := cmd.Flags().GetString("format")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	miners, err := loadMinerDir(dir)
	if err != nil {
		return err
	}
	if len(miners) == 0 {
		return fmt.Errorf("no miner files in %s", dir)
	}

	snap, source := resolveSnapshot(cfg.Assumptions, live)

	points := analysis.RankByBreakeven(analysis.ComputeBreakevenPoints(miners, snap, uptime))
	breakevens := analysis.BreakevenMap(points)

	var (
		payback   []analysis.PaybackPoint
		viability []analysis.ViabilityRow
	)
	if powerPrice > 0 {
		var capDays *float64
		if capDaysFlag > 0 {
			capDays = &capDaysFlag
		}
		payback = analysis.ComputePaybackPoints(miners, snap, uptime, []float64{powerPrice}, breakevens, capDays)
		viability = analysis.BuildViabilitySummary(miners, breakevens, powerPrice, payback)
	}

	if format == "json" {
		out := struct {
			Source    string                    `json:"source"`
			Breakeven []analysis.BreakevenPoint `json:"breakeven"`
			Viability []analysis.ViabilityRow   `json:"viability,omitempty"`
		}{source, points, viability}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(out)
	}

	fmt.Printf("Miner catalogue (%s): %d miners from %s\n\n", source, len(miners), dir)
	fmt.Println("  Miner                     Eff J/TH   Breakeven p/kWh")
	for _, p := range points {
		breakeven := "n/a"
		if p.BreakevenGBPPerKWh != nil {
			breakeven = fmt.Sprintf("%.2f", *p.BreakevenGBPPerKWh*100)
		}
		fmt.Printf("  %-25s %-10.1f %s\n", p.Miner, p.EfficiencyJPerTH, breakeven)
	}

	if powerPrice > 0 {
		fmt.Printf("\nAt %.2fp/kWh, %.0f%% uptime:\n", powerPrice*100, uptime)
		for _, row := range viability {
			status := "NOT viable"
			if row.ViableAtSite {
				status = "viable"
			}
			paybackStr := ""
			if row.PaybackDaysAtSitePrice != nil {
				paybackStr = fmt.Sprintf(", payback %.0f days", *row.PaybackDaysAtSitePrice)
			}
			fmt.Printf("  %-25s %s%s\n", row.Miner, status, paybackStr)
		}
	}

	return nil
}

// loadMinerDir reads every .yaml in dir as a miner file, skipping files that
// fail to parse.
func loadMinerDir(dir string) ([]model.MinerOption, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read miner directory %s: %w", dir, err)
	}

	miners := make([]model.MinerOption, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		miner, err := config.LoadMinerFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			fmt.Fprintf(os.Stderr, "skipping %s: %v\n", entry.Name(), err)
			continue
		}
		if miner.Name == "" {
			miner.Name = strings.TrimSuffix(entry.Name(), ".yaml")
		}
		miners = append(miners, miner)
	}
	return miners, nil
}
