package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tuigames/tui-bomber/internal/core"
	"github.com/tuigames/tui-bomber/internal/game"
	"github.com/tuigames/tui-bomber/internal/platform/tui"
	"github.com/tuigames/tui-bomber/internal/registry"
	"github.com/tuigames/tui-bomber/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start the bomber interactive menu",
	Long: `Start the platform in interactive menu mode.

Use arrow keys or j/k to navigate, Enter to select. After a match
ends you return to the menu.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter        - Select
  Tab          - Scoreboard
  Q            - Quit

Examples:
  bomber menu
  bomber menu --fps 30
  bomber menu --db ./scores.db`,
	Run: runMenu,
}

func init() {
	// Uses global flags from main.go (--fps, --seed, --db)
}

func runMenu(_ *cobra.Command, _ []string) {
	cfg, err := loadMatchConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	applyMatchConfig(cfg)

	// Open match storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open match database: %v\n", err)
		store = nil
	}

	width, height := terminalSize()

	rc := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	// Menu loop
	for {
		menuResult, err := tui.RunMenu(store, rc)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}

		// Update config with any size changes
		rc = menuResult.Config

		if menuResult.Quit {
			break
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(store, rc.ScreenW, rc.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue // Back to menu
			}
			break // User quit from scoreboard
		}

		var g registry.Game

		switch menuResult.Entry {
		case tui.MenuEntrySetup:
			if _, updated, setupErr := tui.RunMatchSetup(rc); setupErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", setupErr)
			} else {
				rc = updated
			}
			continue

		case tui.MenuEntryOnline:
			// The standalone binary has no pairing coordinator
			fmt.Println("Online PvP runs over SSH. Start a server with 'bomber serve'.")
			return

		case tui.MenuEntryVersus:
			g = game.NewVersus()

		default: // MenuEntryPlay
			var createErr error
			g, createErr = registry.Create("bomber")
			if createErr != nil {
				fmt.Fprintf(os.Stderr, "Error creating match: %v\n", createErr)
				continue
			}
		}

		// Fresh seed for each match
		rc.Seed = time.Now().UnixNano()

		if err := tui.Run(g, store, rc); err != nil {
			fmt.Fprintf(os.Stderr, "Error running match: %v\n", err)
		}

		// Loop back to menu
	}

	if store != nil {
		store.Close()
	}
}
