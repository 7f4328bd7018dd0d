package commands

import (
	"fmt"
	"os"
	"time"

	"minesite-model/internal/config"
	"minesite-model/internal/data"
	"minesite-model/internal/model"

	"github.com/spf13/cobra"
)

const Version = "1.0.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "minesite",
	Short: "Bitcoin mine site financial model",
	Long: `minesite projects the production and economics of a Bitcoin mining
deployment: how many units a power envelope supports, what they earn at
current network conditions, and how the client's position plays out across
base, best and worst scenarios over the project term.`,
	Version: Version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig reads the --config file, or returns a default-assumptions
// config when none was given.
func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		return &config.Config{Assumptions: config.DefaultAssumptions()}, nil
	}
	return config.Load(cfgFile)
}

// resolveSnapshot picks live or static network conditions.
func resolveSnapshot(assume config.Assumptions, live bool) (model.NetworkSnapshot, string) {
	if live {
		provider := data.NewProvider(data.NewLiveClient(), assume)
		snap, source := provider.Snapshot()
		return snap, string(source)
	}
	return assume.StaticSnapshot(time.Now().UTC()), string(data.SourceStatic)
}
