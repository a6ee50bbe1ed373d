package game

import "github.com/tuigames/tui-bomber/internal/core"

// DangerValue returns the ms until the tile is expected to be covered by
// flame: SafeDangerValue for walkable tiles with no threat, 0 for
// non-walkable tiles (and out of bounds). The map is rebuilt lazily once
// per Update tick.
func (a *Arena) DangerValue(t core.Tile) int {
	if !a.TileIsWithinMap(t) {
		return 0
	}
	if !a.dangerValid {
		a.rebuildDangerMap()
		a.dangerValid = true
	}
	return a.danger[t.Y][t.X]
}

func (a *Arena) rebuildDangerMap() {
	if a.danger == nil {
		a.danger = make([][]int, MapHeight)
		for y := range a.danger {
			a.danger[y] = make([]int, MapWidth)
		}
	}

	// base entry depends on the tile itself (walls, blocks, flames, lava);
	// bombs only matter for the spread below
	for y := 0; y < MapHeight; y++ {
		for x := 0; x < MapWidth; x++ {
			if a.tiles[y][x].shouldNotWalk() {
				a.danger[y][x] = 0
			} else {
				a.danger[y][x] = a.tun.SafeDangerValue
			}
		}
	}

	for _, b := range a.bombs {
		until := b.TimeUntilExplosion()
		if b.HasDetonator() {
			// a detonator bomb can go off at any moment
			until = a.tun.DetonatorDangerTime
		}

		origin := b.TilePos()
		a.lowerDanger(origin, until)

		for _, d := range Dirs {
			dx, dy := d.Delta()
			for i := 1; i <= b.FlameLength; i++ {
				t := origin.Offset(dx*i, dy*i)
				if !a.TileIsWalkable(t) {
					break
				}
				a.lowerDanger(t, until)
			}
		}
	}
}

func (a *Arena) lowerDanger(t core.Tile, value int) {
	if a.danger[t.Y][t.X] > value {
		a.danger[t.Y][t.X] = value
	}
}
