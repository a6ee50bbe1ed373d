package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/tuigames/tui-bomber/internal/storage"
)

var flagScoresLimit int

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show match history and map stats",
	Long: `Display recent match results and per-map totals.

Examples:
  bomber scores
  bomber scores --limit 25`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "How many recent matches to show")
}

func runScores(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening match database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	matches, err := store.RecentMatches(flagScoresLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving matches: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Recent matches")
	fmt.Println()

	if len(matches) == 0 {
		fmt.Println("No matches recorded yet.")
		fmt.Println()
		fmt.Println("Run 'bomber play' to record the first one!")
		return
	}

	fmt.Printf("  %-10s  %-5s  %-5s  %-6s  %-5s  %s\n", "Map", "Plrs", "Rnds", "Result", "Kills", "Date")
	fmt.Printf("  %-10s  %-5s  %-5s  %-6s  %-5s  %s\n", "---", "----", "----", "------", "-----", "----")

	for _, e := range matches {
		result := "lost"
		if e.Won {
			result = "won"
		} else if e.WinnerTeam < 0 {
			result = "draw"
		}
		dateStr := e.CreatedAt.Format("2006-01-02 15:04")
		fmt.Printf("  %-10s  %-5d  %-5d  %-6s  %-5d  %s\n",
			e.MapName, e.Players, e.Rounds, result, e.Kills, dateStr)
	}

	wins, err := store.WinCount()
	if err == nil {
		kills, _ := store.TotalKills()
		fmt.Println()
		fmt.Printf("Matches won: %d   Total kills: %d\n", wins, kills)
	}

	stats, err := store.GetAllMapStats()
	if err != nil || len(stats) == 0 {
		return
	}

	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println()
	fmt.Println("Per map")
	fmt.Printf("  %-10s  %-7s  %-5s  %s\n", "Map", "Played", "Won", "Kills")
	fmt.Printf("  %-10s  %-7s  %-5s  %s\n", "---", "------", "---", "-----")
	for _, name := range names {
		st := stats[name]
		fmt.Printf("  %-10s  %-7d  %-5d  %d\n", st.MapName, st.Played, st.Wins, st.Kills)
	}
}
