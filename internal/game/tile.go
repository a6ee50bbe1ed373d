// Package game implements the bomber simulation: the tile map, bombs and
// flames, the danger map, the player state machine and the heuristic AI.
// Like the other engines on this platform it is pure logic driven by an
// abstract input frame and a millisecond tick; rendering and input mapping
// live in the platform layer.
package game

import "github.com/tuigames/tui-bomber/internal/core"

// TileKind classifies a map tile.
type TileKind int

const (
	TileFloor TileKind = iota // walkable
	TileBlock                 // non-walkable, destroyable, may hide an item
	TileWall                  // non-walkable, indestructible
)

// Special is a behavior modifier sitting on a floor or block tile.
type Special int

const (
	SpecialNone Special = iota
	SpecialTrampoline
	SpecialTeleportA
	SpecialTeleportB
	SpecialArrowUp
	SpecialArrowRight
	SpecialArrowDown
	SpecialArrowLeft
	SpecialLava
)

// arrowDir returns the forced rolling direction of an arrow special.
func (s Special) arrowDir() (Dir, bool) {
	switch s {
	case SpecialArrowUp:
		return DirUp, true
	case SpecialArrowRight:
		return DirRight, true
	case SpecialArrowDown:
		return DirDown, true
	case SpecialArrowLeft:
		return DirLeft, true
	}
	return 0, false
}

// IsTeleport reports whether the special is one of the two teleport classes.
func (s Special) IsTeleport() bool {
	return s == SpecialTeleportA || s == SpecialTeleportB
}

// FlameDirection is a render hint describing how a flame sprite is drawn.
// It does not affect the simulation.
type FlameDirection int

const (
	FlameAll FlameDirection = iota
	FlameHorizontal
	FlameVertical
	FlameUp
	FlameDown
	FlameLeft
	FlameRight
)

// flameDirOf maps a propagation direction to its terminal flame tag.
func flameDirOf(d Dir) FlameDirection {
	switch d {
	case DirUp:
		return FlameUp
	case DirRight:
		return FlameRight
	case DirDown:
		return FlameDown
	default:
		return FlameLeft
	}
}

// Flame is one burning cell of an explosion. Tiles may carry several
// overlapping flames, each with its own burnout timer. Owner is the number
// of the player whose bomb spawned it, kept for kill attribution; the player
// may die while the flame still burns.
type Flame struct {
	Owner         int
	TimeToBurnout int
	Direction     FlameDirection
}

// MapTile is a single cell of the arena grid.
type MapTile struct {
	Kind    TileKind
	Item    ItemKind
	Special Special

	// Destination is the paired teleport tile, set at parse time for the
	// second occurrence of a teleport letter and back-linked to the first.
	Destination *core.Tile

	// ToBeDestroyed marks a block hit by flame; the tile reverts to floor
	// once its last flame burns out.
	ToBeDestroyed bool

	Flames []*Flame
}

// HasFlame reports whether at least one flame is burning on the tile.
func (t *MapTile) HasFlame() bool {
	return len(t.Flames) > 0
}

// shouldNotWalk is the danger-map notion of a blocked tile: walls and blocks,
// burning tiles and lava all count.
func (t *MapTile) shouldNotWalk() bool {
	return t.Kind == TileWall || t.Kind == TileBlock || t.HasFlame() || t.Special == SpecialLava
}
