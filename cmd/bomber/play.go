package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tuigames/tui-bomber/internal/config"
	"github.com/tuigames/tui-bomber/internal/core"
	"github.com/tuigames/tui-bomber/internal/game"
	"github.com/tuigames/tui-bomber/internal/maps"
	"github.com/tuigames/tui-bomber/internal/platform/tui"
	"github.com/tuigames/tui-bomber/internal/registry"
	"github.com/tuigames/tui-bomber/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagMap        string
	flagPlayers    int
	flagRounds     int
	flagVersus     bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a match",
	Long: `Start a bomberman match. By default you play one human against
AI opponents; --versus puts two humans on one keyboard.

Controls (player 1, also arrows/enter when playing solo):
  WASD  - Move
  Space - Lay bomb
  F     - Lay all bombs in a row
  E     - Detonate / throw / stop kicked bomb

Controls (player 2, --versus):
  Arrows - Move
  Enter  - Lay bomb
  .      - Lay all bombs in a row
  ,      - Detonate / throw / stop kicked bomb

  P        - Pause
  R        - Restart (after match end)
  Q/Ctrl+C - Quit

Difficulty presets:
  easy   - 2 players, slower bombs
  normal - 3 players, standard rules
  hard   - 4 players, short fuses

Examples:
  bomber play
  bomber play --map volcano --players 4 --rounds 5
  bomber play --difficulty hard
  bomber play --versus
  bomber play --config ./my-rules.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	playCmd.Flags().StringVar(&flagMap, "map", "", "Built-in map name (see 'bomber maps')")
	playCmd.Flags().IntVar(&flagPlayers, "players", 0, "Total players, human plus AI (2-4)")
	playCmd.Flags().IntVar(&flagRounds, "rounds", 0, "Round wins needed to take the match (1-9)")
	playCmd.Flags().BoolVar(&flagVersus, "versus", false, "Two humans on one keyboard")
}

// loadMatchConfig builds the effective config from file, preset and flags.
func loadMatchConfig() (config.BomberConfig, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}

	if flagDifficulty != "" {
		preset := config.DifficultyPreset(flagDifficulty)
		if !config.ValidPreset(preset) {
			return cfg, fmt.Errorf("unknown difficulty %q (easy, normal, hard)", flagDifficulty)
		}
		config.ApplyPreset(&cfg, preset)
	}

	if flagMap != "" {
		if !maps.Exists(flagMap) {
			return cfg, fmt.Errorf("unknown map %q (run 'bomber maps')", flagMap)
		}
		cfg.Match.Map = flagMap
	}
	if flagPlayers != 0 {
		cfg.Match.Players = flagPlayers
	}
	if flagRounds != 0 {
		cfg.Match.RoundsToWin = flagRounds
	}

	config.Normalize(&cfg)
	return cfg, nil
}

// applyMatchConfig pushes the config into the match settings.
func applyMatchConfig(cfg config.BomberConfig) {
	game.SetMapName(cfg.Match.Map)
	game.SetPlayerCount(cfg.Match.Players)
	game.SetRoundsToWin(cfg.Match.RoundsToWin)

	tun := game.DefaultTuning()
	tun.BombFuse = cfg.Rules.BombFuseMs
	tun.FlameBurnout = cfg.Rules.FlameBurnoutMs
	tun.PlayerSpeed = cfg.Rules.PlayerSpeed
	tun.MaxSpeed = cfg.Rules.MaxSpeed
	tun.DiseaseDuration = cfg.Rules.DiseaseMs
	tun.RollingSpeed = cfg.Rules.RollingSpeed
	tun.FlyingSpeed = cfg.Rules.FlyingSpeed
	game.SetTuning(tun)
}

// terminalSize probes stdout, falling back to 80x24.
func terminalSize() (int, int) {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}
	return width, height
}

func runPlay(_ *cobra.Command, _ []string) {
	cfg, err := loadMatchConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	applyMatchConfig(cfg)

	width, height := terminalSize()

	rc := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	var g registry.Game
	if flagVersus {
		g = game.NewVersus()
	} else {
		g, err = registry.Create("bomber")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating match: %v\n", err)
			os.Exit(1)
		}
	}

	// Open match storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open match database: %v\n", err)
		// Continue without storage - the match still works
		store = nil
	}

	runErr := tui.Run(g, store, rc)

	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running match: %v\n", runErr)
		os.Exit(1)
	}
}
