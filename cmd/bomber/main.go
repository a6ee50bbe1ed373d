// bomber is a terminal bomberman platform played locally or over SSH.
//
// Usage:
//
//	bomber play              - Play a match against AI opponents
//	bomber menu              - Start the interactive menu
//	bomber serve             - Start SSH server for remote play
//	bomber maps              - List built-in maps
//	bomber scores            - Show match history and map stats
//
// Global flags:
//
//	--fps <rate>    - Set tick rate (default: 60)
//	--seed <value>  - Set RNG seed for reproducible matches
//	--db <path>     - Set database path (default: ~/.bomber/scores.db)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bomber",
	Short: "Terminal bomberman - local and SSH multiplayer matches",
	Long: `Bomber is a terminal bomberman platform. Fight AI opponents or
other humans on tile arenas full of bombs, items and diseases.

Available commands:
  play     - Play a match directly
  menu     - Interactive menu
  serve    - Start SSH server for remote play
  maps     - List built-in maps
  scores   - View match history

Examples:
  bomber play
  bomber play --map volcano --players 4
  bomber play --versus
  bomber menu
  bomber serve --ssh :2222
  bomber scores`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.bomber/scores.db", "Path to match database")

	// Add subcommands
	rootCmd.AddCommand(mapsCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
}
