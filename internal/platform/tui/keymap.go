package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tuigames/tui-bomber/internal/core"
	"github.com/tuigames/tui-bomber/internal/game"
	"github.com/tuigames/tui-bomber/internal/multiplayer"
	"github.com/tuigames/tui-bomber/internal/registry"
)

// KeyMapper translates Bubble Tea key messages to game actions. One
// place for the bindings keeps them testable and consistent between
// local and online play.
type KeyMapper struct{}

// NewKeyMapper creates a key mapper with the default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message to an action for the local player.
// Returns the action (may be ActionNone) and whether it quits.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	key := msg.String()

	switch key {
	case "ctrl+c", "q":
		return core.ActionQuit, true
	}

	switch key {
	case "w", "up":
		return core.ActionUp, false
	case "d", "right":
		return core.ActionRight, false
	case "s", "down":
		return core.ActionDown, false
	case "a", "left":
		return core.ActionLeft, false
	case " ":
		return core.ActionBomb, false
	case "f":
		return core.ActionBombDouble, false
	case "e":
		return core.ActionSpecial, false
	case "enter":
		return core.ActionConfirm, false
	case "b", "esc":
		return core.ActionBack, false
	case "p":
		return core.ActionPause, false
	}

	return core.ActionNone, false
}

// MapKeyToFrame updates an input frame from a key message. Returns true
// on a quit request.
func (km *KeyMapper) MapKeyToFrame(msg tea.KeyMsg, frame *core.InputFrame) bool {
	action, isQuit := km.MapKey(msg)
	if action != core.ActionNone {
		frame.Set(action)
	}
	return isQuit
}

// mapPlayer2Key translates the second local player's bindings: arrow
// keys move, enter drops a bomb, "." throws or multi-lays, "," is the
// special action.
func (km *KeyMapper) mapPlayer2Key(key string) core.Action {
	switch key {
	case "up":
		return core.ActionUp
	case "right":
		return core.ActionRight
	case "down":
		return core.ActionDown
	case "left":
		return core.ActionLeft
	case "enter":
		return core.ActionBomb
	case ".":
		return core.ActionBombDouble
	case ",":
		return core.ActionSpecial
	}
	return core.ActionNone
}

// MapKeyToMultiFrame updates a multi-input frame from one shared
// keyboard. WASD with space/f/e drive Player1; the arrow keys with
// enter/./, drive Player2, so a versus match needs no second input
// device. Returns true on a quit request.
func (km *KeyMapper) MapKeyToMultiFrame(msg tea.KeyMsg, frame *core.MultiInputFrame) bool {
	key := msg.String()

	if action := km.mapPlayer2Key(key); action != core.ActionNone {
		p2 := frame.Player(multiplayer.Player2)
		p2.Set(action)
		frame.SetPlayer(multiplayer.Player2, p2)
		return false
	}

	action, isQuit := km.MapKey(msg)
	if isQuit {
		return true
	}
	if action != core.ActionNone {
		p1 := frame.Player(multiplayer.Player1)
		p1.Set(action)
		frame.SetPlayer(multiplayer.Player1, p1)
	}
	return false
}

// MapGameKey routes a key into the frame for the given game: a match
// with two humans splits the keyboard between both players, a
// single-human match gives every binding to Player1. Returns true on a
// quit request.
func (km *KeyMapper) MapGameKey(g registry.Game, msg tea.KeyMsg, frame *core.MultiInputFrame) bool {
	if bomber, ok := g.(*game.Game); ok && bomber.HumanCount() > 1 {
		return km.MapKeyToMultiFrame(msg, frame)
	}

	p1 := frame.Player(multiplayer.Player1)
	isQuit := km.MapKeyToFrame(msg, &p1)
	frame.SetPlayer(multiplayer.Player1, p1)
	return isQuit
}

// MenuAction is a menu-level action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionLeft
	MenuActionRight
	MenuActionSelect
	MenuActionBack
	MenuActionScoreboard
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func (km *KeyMapper) MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	key := msg.String()

	switch key {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "a", "left", "h":
		return MenuActionLeft
	case "d", "right", "l":
		return MenuActionRight
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionScoreboard
	}

	return MenuActionNone
}
