package main

import (
	"flag"
	"fmt"
	"log"

	"minesite-model/internal/config"
	"minesite-model/internal/data"
)

func main() {
	var (
		outputPath = flag.String("output", "", "Output file path (default: ./data/snapshot.json)")
		cfgPath    = flag.String("config", "", "Config file supplying subsidy and FX assumptions")
	)
	flag.Parse()

	if *outputPath == "" {
		*outputPath = data.GetDefaultSnapshotPath()
	}

	assume := config.DefaultAssumptions()
	if *cfgPath != "" {
		cfg, err := config.Load(*cfgPath)
		if err != nil {
			log.Fatalf("Failed to load config file %s: %v", *cfgPath, err)
		}
		assume = cfg.Assumptions
	}

	// Show what we are replacing, if anything
	if existing, err := data.LoadSnapshot(*outputPath); err == nil {
		fmt.Printf("Existing snapshot: $%.0f at difficulty %.3e (as of %s)\n",
			existing.BTCPriceUSD, existing.Difficulty, existing.AsOfUTC.Format("2006-01-02 15:04"))
	}

	fmt.Println("Fetching live network data...")
	client := data.NewLiveClient()
	snap, err := client.FetchSnapshot(assume.BlockSubsidyBTC, assume.USDToGBP)
	if err != nil {
		log.Fatalf("Failed to fetch live data: %v", err)
	}

	fmt.Printf("Fetched: $%.0f at difficulty %.3e", snap.BTCPriceUSD, snap.Difficulty)
	if snap.BlockHeight != nil {
		fmt.Printf(", height %d", *snap.BlockHeight)
	}
	fmt.Println()

	if err := data.SaveSnapshot(snap, *outputPath); err != nil {
		log.Fatalf("Failed to save snapshot: %v", err)
	}
	fmt.Printf("Saved snapshot to %s\n", *outputPath)
}
