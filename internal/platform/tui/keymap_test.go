package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tuigames/tui-bomber/internal/core"
	"github.com/tuigames/tui-bomber/internal/game"
	"github.com/tuigames/tui-bomber/internal/multiplayer"
)

func TestMultiFrameSplitsKeyboardBetweenPlayers(t *testing.T) {
	km := NewKeyMapper()
	frame := core.NewMultiInputFrame()

	p1Keys := []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("w")},
		{Type: tea.KeyRunes, Runes: []rune("d")},
		{Type: tea.KeyRunes, Runes: []rune("s")},
		{Type: tea.KeyRunes, Runes: []rune("a")},
		{Type: tea.KeySpace},
		{Type: tea.KeyRunes, Runes: []rune("f")},
		{Type: tea.KeyRunes, Runes: []rune("e")},
	}
	p2Keys := []tea.KeyMsg{
		{Type: tea.KeyUp},
		{Type: tea.KeyRight},
		{Type: tea.KeyDown},
		{Type: tea.KeyLeft},
		{Type: tea.KeyEnter},
		{Type: tea.KeyRunes, Runes: []rune(".")},
		{Type: tea.KeyRunes, Runes: []rune(",")},
	}
	for _, msg := range append(p1Keys, p2Keys...) {
		if km.MapKeyToMultiFrame(msg, &frame) {
			t.Fatalf("key %q should not quit", msg.String())
		}
	}

	wantActions := []core.Action{
		core.ActionUp, core.ActionRight, core.ActionDown, core.ActionLeft,
		core.ActionBomb, core.ActionBombDouble, core.ActionSpecial,
	}
	p1 := frame.Player(multiplayer.Player1)
	p2 := frame.Player(multiplayer.Player2)
	for _, action := range wantActions {
		if !p1.Has(action) {
			t.Errorf("player 1 never received %v", action)
		}
		if !p2.Has(action) {
			t.Errorf("player 2 never received %v", action)
		}
	}
}

func TestMultiFrameQuitLeavesFramesUntouched(t *testing.T) {
	km := NewKeyMapper()
	frame := core.NewMultiInputFrame()

	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}
	if !km.MapKeyToMultiFrame(msg, &frame) {
		t.Fatal("q should request a quit")
	}
	if len(frame.Player(multiplayer.Player1).Actions) != 0 ||
		len(frame.Player(multiplayer.Player2).Actions) != 0 {
		t.Error("quit key should not set any player actions")
	}
}

func TestMapGameKeyRoutesByHumanCount(t *testing.T) {
	km := NewKeyMapper()
	up := tea.KeyMsg{Type: tea.KeyUp}

	frame := core.NewMultiInputFrame()
	km.MapGameKey(game.New(), up, &frame)
	if !frame.Player(multiplayer.Player1).Has(core.ActionUp) {
		t.Error("arrow keys should drive the only human in a solo match")
	}

	frame = core.NewMultiInputFrame()
	km.MapGameKey(game.NewVersus(), up, &frame)
	if frame.Player(multiplayer.Player1).Has(core.ActionUp) {
		t.Error("arrow keys belong to player 2 in a versus match")
	}
	if !frame.Player(multiplayer.Player2).Has(core.ActionUp) {
		t.Error("player 2 should receive arrow-key movement in a versus match")
	}
}
