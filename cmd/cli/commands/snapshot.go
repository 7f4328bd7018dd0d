package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"minesite-model/internal/data"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// snapshotCmd represents the snapshot command
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Show the network snapshot the model runs against",
	Long: `Show the static assumption set, or fetch current price and difficulty
from the public APIs with --live. With --save the snapshot is written to
disk for later runs.`,
	RunE: runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)

	snapshotCmd.Flags().Bool("live", false, "fetch live network data (falls back to static)")
	snapshotCmd.Flags().Bool("save", false, "write the snapshot to --output")
	snapshotCmd.Flags().String("output", data.GetDefaultSnapshotPath(), "snapshot file path")
	snapshotCmd.Flags().String("format", "table", "output format (table, json)")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	live, _ := cmd.Flags().GetBool("live")
	save, _ := cmd.Flags().GetBool("save")
	output, _ := cmd.Flags().GetString("output")
	format, _ := cmd.Flags().GetString("format")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	snap, source := resolveSnapshot(cfg.Assumptions, live)

	if save {
		if err := data.SaveSnapshot(snap, output); err != nil {
			return err
		}
		fmt.Printf("Saved snapshot to %s\n", output)
	}

	if format == "json" {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(snap)
	}

	fmt.Printf("Network snapshot (%s):\n", source)
	fmt.Printf("  BTC Price  : $%s\n", humanize.CommafWithDigits(snap.BTCPriceUSD, 0))
	fmt.Printf("  Difficulty : %s\n", humanize.SIWithDigits(snap.Difficulty, 2, ""))
	fmt.Printf("  Subsidy    : %.3f BTC\n", snap.BlockSubsidyBTC)
	fmt.Printf("  USD/GBP    : %.4f\n", snap.USDToGBP)
	if snap.BlockHeight != nil {
		fmt.Printf("  Height     : %s\n", humanize.Comma(*snap.BlockHeight))
	}
	fmt.Printf("  As Of      : %s\n", snap.AsOfUTC.Format("2006-01-02 15:04:05 UTC"))
	return nil
}
