package game

import "github.com/tuigames/tui-bomber/internal/core"

// Dir is one of the four cardinal directions, ordered up, right, down, left.
// The order matters: several algorithms walk directions by index.
type Dir int

const (
	DirUp Dir = iota
	DirRight
	DirDown
	DirLeft
)

// Dirs lists all directions in canonical order.
var Dirs = [4]Dir{DirUp, DirRight, DirDown, DirLeft}

// Delta returns the tile offset of one step in this direction.
func (d Dir) Delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirRight:
		return 1, 0
	case DirDown:
		return 0, 1
	default:
		return -1, 0
	}
}

// Opposite returns the reversed direction.
func (d Dir) Opposite() Dir {
	return (d + 2) % 4
}

// Action returns the movement action corresponding to this direction.
func (d Dir) Action() core.Action {
	switch d {
	case DirUp:
		return core.ActionUp
	case DirRight:
		return core.ActionRight
	case DirDown:
		return core.ActionDown
	default:
		return core.ActionLeft
	}
}

// dirOfAction maps a movement action back to its direction.
// Returns false for non-movement actions.
func dirOfAction(a core.Action) (Dir, bool) {
	switch a {
	case core.ActionUp:
		return DirUp, true
	case core.ActionRight:
		return DirRight, true
	case core.ActionDown:
		return DirDown, true
	case core.ActionLeft:
		return DirLeft, true
	}
	return 0, false
}

func (d Dir) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirRight:
		return "right"
	case DirDown:
		return "down"
	default:
		return "left"
	}
}
