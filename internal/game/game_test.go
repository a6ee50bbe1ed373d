package game

import (
	"reflect"
	"testing"

	"github.com/tuigames/tui-bomber/internal/core"
	"github.com/tuigames/tui-bomber/internal/maps"
	"github.com/tuigames/tui-bomber/internal/registry"
)

func defaultSettings() {
	SetMapName(maps.DefaultName)
	SetPlayerCount(4)
	SetRoundsToWin(3)
}

func TestRegistryRegistration(t *testing.T) {
	if !registry.Exists("bomber") {
		t.Fatal("bomber not registered")
	}
	g, err := registry.Create("bomber")
	if err != nil {
		t.Fatal(err)
	}
	if g.ID() != "bomber" {
		t.Errorf("ID = %q", g.ID())
	}
}

func TestDeterminism(t *testing.T) {
	defaultSettings()

	cfg := core.RuntimeConfig{
		Seed:     12345,
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
	}

	g1 := New()
	g1.Reset(cfg)
	g2 := New()
	g2.Reset(cfg)

	input := core.NewInputFrame()
	for i := 0; i < 600; i++ {
		input.Clear()
		switch {
		case i > 200 && i < 260:
			input.Set(core.ActionRight)
		case i == 300:
			input.Set(core.ActionBomb)
		case i > 320 && i < 400:
			input.Set(core.ActionDown)
		}

		g1.Step(input)
		g2.Step(input)
	}

	if !reflect.DeepEqual(g1.Snapshot(), g2.Snapshot()) {
		t.Errorf("snapshots diverged:\n%+v\n%+v", g1.Snapshot(), g2.Snapshot())
	}
}

func TestSeedChangesOutcome(t *testing.T) {
	defaultSettings()

	run := func(seed int64) Snapshot {
		g := New()
		g.Reset(core.RuntimeConfig{Seed: seed, ScreenW: 80, ScreenH: 24, TickRate: 60})
		input := core.NewInputFrame()
		for i := 0; i < 2000; i++ {
			g.Step(input)
		}
		return g.Snapshot()
	}

	if reflect.DeepEqual(run(1), run(2)) {
		t.Error("different seeds produced identical matches")
	}
}

func TestPauseToggleIsEdgeTriggered(t *testing.T) {
	defaultSettings()

	g := New()
	g.Reset(core.RuntimeConfig{Seed: 1, ScreenW: 80, ScreenH: 24, TickRate: 60})

	pause := frameWith(core.ActionPause)

	g.Step(pause)
	if !g.State().Paused {
		t.Fatal("pause did not engage")
	}

	// holding the key keeps the game paused
	g.Step(pause)
	if !g.State().Paused {
		t.Fatal("held pause key toggled the game back")
	}
	before := g.Arena().TimeFromStart()
	g.Step(pause)
	if g.Arena().TimeFromStart() != before {
		t.Error("paused game advanced time")
	}

	g.Step(core.NewInputFrame())
	g.Step(pause)
	if g.State().Paused {
		t.Error("re-pressed pause key did not resume")
	}
}

func TestMatchEndsAfterEnoughRoundWins(t *testing.T) {
	defaultSettings()
	SetPlayerCount(2)
	SetRoundsToWin(1)
	defer defaultSettings()

	g := New()
	g.Reset(core.RuntimeConfig{Seed: 9, ScreenW: 80, ScreenH: 24, TickRate: 60})

	input := core.NewInputFrame()
	for i := 0; i < 200; i++ {
		g.Step(input)
	}
	g.Arena().Players()[1].kill(g.Arena())

	for i := 0; i < 2000 && !g.IsGameOver(); i++ {
		g.Step(input)
	}

	if !g.IsGameOver() {
		t.Fatal("match never ended")
	}
	if g.Winner() != 0 {
		t.Errorf("winner = %d, want 0", g.Winner())
	}
	if g.TeamWins(0) != 1 {
		t.Errorf("team 0 wins = %d, want 1", g.TeamWins(0))
	}
	if g.State().Score != 1 || !g.State().GameOver {
		t.Errorf("state = %+v", g.State())
	}
}

func TestDrawRoundDoesNotScore(t *testing.T) {
	defaultSettings()
	SetPlayerCount(2)
	SetRoundsToWin(1)
	defer defaultSettings()

	g := New()
	g.Reset(core.RuntimeConfig{Seed: 9, ScreenW: 80, ScreenH: 24, TickRate: 60})

	input := core.NewInputFrame()
	for i := 0; i < 200; i++ {
		g.Step(input)
	}
	round := g.Round()
	g.Arena().Players()[0].kill(g.Arena())
	g.Arena().Players()[1].kill(g.Arena())

	for i := 0; i < 2000 && g.Round() == round; i++ {
		g.Step(input)
	}

	if g.IsGameOver() {
		t.Fatal("a draw should not end the match")
	}
	if g.Round() != round+1 {
		t.Errorf("round = %d, want %d", g.Round(), round+1)
	}
	if g.TeamWins(0) != 0 || g.TeamWins(1) != 0 {
		t.Error("a draw must not award a round win")
	}
}

func TestKillsCarryAcrossRounds(t *testing.T) {
	defaultSettings()
	SetPlayerCount(2)
	SetRoundsToWin(2)
	defer defaultSettings()

	g := New()
	g.Reset(core.RuntimeConfig{Seed: 9, ScreenW: 80, ScreenH: 24, TickRate: 60})

	input := core.NewInputFrame()
	for i := 0; i < 200; i++ {
		g.Step(input)
	}
	g.Arena().Players()[0].SetKills(5)
	round := g.Round()
	g.Arena().Players()[1].kill(g.Arena())

	for i := 0; i < 2000 && g.Round() == round; i++ {
		g.Step(input)
	}

	if g.Arena().Players()[0].Kills() != 5 {
		t.Errorf("kills = %d after new round, want 5", g.Arena().Players()[0].Kills())
	}
	if g.Arena().Players()[0].Wins() != 1 {
		t.Errorf("wins = %d after new round, want 1", g.Arena().Players()[0].Wins())
	}
}

func TestSoundEventsAreDrained(t *testing.T) {
	defaultSettings()

	g := New()
	g.Reset(core.RuntimeConfig{Seed: 4, ScreenW: 80, ScreenH: 24, TickRate: 60})

	// run past the countdown; the round start emits a sound
	input := core.NewInputFrame()
	for i := 0; i < 200; i++ {
		g.Step(input)
	}

	sounds := g.DrainSounds()
	if len(sounds) == 0 {
		t.Fatal("no sounds produced by the round start")
	}
	found := false
	for _, s := range sounds {
		if s == SoundGo {
			found = true
		}
	}
	if !found {
		t.Error("round start should emit the go sound")
	}

	if len(g.DrainSounds()) != 0 {
		t.Error("drained sounds were not cleared")
	}
}

func TestRenderDoesNotPanic(t *testing.T) {
	defaultSettings()

	g := New()
	g.Reset(core.RuntimeConfig{Seed: 4, ScreenW: 80, ScreenH: 24, TickRate: 60})

	screen := core.NewScreen(80, 24)
	g.Render(screen)

	input := core.NewInputFrame()
	for i := 0; i < 300; i++ {
		g.Step(input)
	}
	g.Render(screen)

	if screen.String() == "" {
		t.Fatal("render produced an empty screen")
	}
}
