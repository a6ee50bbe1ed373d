package game

import (
	"math"

	"github.com/tuigames/tui-bomber/internal/core"
)

// BombMovement describes what a bomb is currently doing.
type BombMovement int

const (
	BombStationary BombMovement = iota
	BombRollingUp
	BombRollingRight
	BombRollingDown
	BombRollingLeft
	BombFlying
)

// rollingMovement maps a direction to its rolling movement mode.
func rollingMovement(d Dir) BombMovement {
	switch d {
	case DirUp:
		return BombRollingUp
	case DirRight:
		return BombRollingRight
	case DirDown:
		return BombRollingDown
	default:
		return BombRollingLeft
	}
}

// flightInfo tracks a flying bomb's trajectory. Distances are in tiles.
type flightInfo struct {
	totalDistance     float64
	distanceTravelled float64
	dx, dy            int // unit direction along a single axis
}

// Bomb is a live bomb on the arena. Owner is the player number of whoever
// laid it; the owner is notified exactly once when the bomb is destroyed so
// their allowance is replenished.
type Bomb struct {
	pos   core.Vec2
	Owner int

	FlameLength     int
	timeOfExistence int
	explodesIn      int
	detonatorTime   int // > 0 means the bomb was laid with a detonator charge

	hasSpring bool
	movement  BombMovement
	exploded  bool
	flight    flightInfo

	tun *Tuning
}

// newBomb creates a stationary bomb at the owner's tile center, inheriting
// the owner's flame length and spring property.
func newBomb(owner *Player, tun *Tuning) *Bomb {
	b := &Bomb{
		Owner:       owner.Number,
		FlameLength: owner.flameLength,
		explodesIn:  tun.BombFuse,
		hasSpring:   owner.hasSpring,
		movement:    BombStationary,
		tun:         tun,
	}
	b.pos = owner.pos
	b.moveToTileCenter()
	return b
}

// Pos returns the bomb's continuous position.
func (b *Bomb) Pos() core.Vec2 {
	return b.pos
}

// TilePos returns the tile the bomb currently occupies.
func (b *Bomb) TilePos() core.Tile {
	return b.pos.Tile()
}

// Movement returns the bomb's current movement mode.
func (b *Bomb) Movement() BombMovement {
	return b.movement
}

func (b *Bomb) moveToTileCenter() {
	b.pos = core.V(math.Floor(b.pos.X)+0.5, math.Floor(b.pos.Y)+0.5)
}

func (b *Bomb) isNearTileCenter() bool {
	f := b.pos.Frac()
	const limit = 0.2
	return limit < f.X && f.X < 1-limit && limit < f.Y && f.Y < 1-limit
}

// HasDetonator reports whether the bomb can still be fired remotely.
// Detonator control expires after a fixed time, after which the regular
// fuse takes over.
func (b *Bomb) HasDetonator() bool {
	return b.detonatorTime > 0 && b.timeOfExistence < b.tun.DetonatorTime
}

// TimeUntilExplosion returns the ms left until the bomb fires by itself.
func (b *Bomb) TimeUntilExplosion() int {
	return b.explodesIn + b.detonatorTime - b.timeOfExistence
}

// explode marks the bomb exploded and refunds the owner's allowance.
// Guarded so chain reactions and detonators cannot refund twice.
func (b *Bomb) explode(a *Arena) {
	if b.exploded {
		return
	}
	b.exploded = true
	if owner := a.PlayerByNumber(b.Owner); owner != nil {
		owner.bombExploded()
	}
}

// SendFlying launches the bomb toward the given tile along the dominant
// axis. Destinations outside the grid wrap around modulo the map size, so a
// bomb thrown over the border arrives from the other side. The bomb is
// repositioned to the wrapped destination immediately; flight progress only
// decides when it may land.
func (b *Bomb) SendFlying(dest core.Tile, a *Arena) {
	b.movement = BombFlying
	cur := b.TilePos()
	b.flight.distanceTravelled = 0

	if cur.X == dest.X {
		b.flight.totalDistance = math.Abs(float64(cur.Y - dest.Y))
		b.flight.dx = 0
		b.flight.dy = 1
		if cur.Y > dest.Y {
			b.flight.dy = -1
		}
	} else {
		b.flight.totalDistance = math.Abs(float64(cur.X - dest.X))
		b.flight.dy = 0
		b.flight.dx = 1
		if cur.X > dest.X {
			b.flight.dx = -1
		}
	}

	wrapped := core.T(mod(dest.X, a.Width()), mod(dest.Y, a.Height()))
	b.pos = wrapped.Center()
}

// mod is the non-negative modulo used for flight wraparound.
func mod(v, m int) int {
	r := v % m
	if r < 0 {
		r += m
	}
	return r
}
