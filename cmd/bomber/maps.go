package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tuigames/tui-bomber/internal/maps"
)

var mapsCmd = &cobra.Command{
	Use:   "maps",
	Short: "List built-in maps",
	Long:  `Shows the built-in arenas a match can be played on.`,
	Run:   runMaps,
}

func runMaps(_ *cobra.Command, _ []string) {
	all := maps.All()

	fmt.Println("Built-in maps:")
	fmt.Println()

	fmt.Printf("  %-10s  %s\n", "Name", "Starts")
	fmt.Printf("  %-10s  %s\n", "----", "------")

	for _, m := range all {
		name := m.Name
		if name == maps.DefaultName {
			name += " *"
		}
		fmt.Printf("  %-10s  %d\n", name, startPositions(m.Description))
	}

	fmt.Println()
	fmt.Println("* default. Run 'bomber play --map <name>' to play one.")
}

// startPositions counts the player spawns in a map description.
func startPositions(desc string) int {
	n := 0
	for _, r := range desc {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}
