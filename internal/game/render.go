package game

import "github.com/tuigames/tui-bomber/internal/core"

// Each tile renders as two terminal cells so the grid looks square.
const tileCellWidth = 2

// teamColors maps team numbers to terminal colors, wrapping for big games.
var teamColors = [...]core.Color{
	core.ColorWhite,
	core.ColorBlue,
	core.ColorRed,
	core.ColorGreen,
	core.ColorMagenta,
	core.ColorCyan,
	core.ColorYellow,
	core.ColorGray,
}

// TeamColor returns the display color of a team.
func TeamColor(team int) core.Color {
	if team < 0 {
		return core.ColorWhite
	}
	return teamColors[team%len(teamColors)]
}

// RenderTo draws the arena grid at the given screen offset: tiles first,
// then bombs, then players, so actors overdraw the floor they stand on.
// While an earthquake runs the whole grid jitters one cell sideways.
func (a *Arena) RenderTo(dst *core.Screen, ox, oy int) {
	if a.EarthquakeActive() {
		ox += a.shakeOffset()
	}
	for y := 0; y < MapHeight; y++ {
		for x := 0; x < MapWidth; x++ {
			r, color := a.tileGlyph(x, y)
			sx := ox + x*tileCellWidth
			dst.SetCell(sx, oy+y, r, color)
			dst.SetCell(sx+1, oy+y, tileFiller(r), color)
		}
	}

	for _, b := range a.bombs {
		x, y := a.cellOf(b.Pos(), ox, oy)
		glyph := 'o'
		color := core.ColorWhite
		switch {
		case b.Movement() == BombFlying:
			glyph = '@'
			color = core.ColorCyan
		case b.HasDetonator():
			color = core.ColorMagenta
		case b.TimeUntilExplosion() < 1000:
			glyph = 'O'
			color = core.ColorRed
		}
		dst.SetCell(x, y, glyph, color)
	}

	for _, p := range a.players {
		if p.IsDead() {
			continue
		}
		x, y := a.cellOf(p.Pos(), ox, oy)
		glyph := rune('0' + p.Number)
		color := TeamColor(p.Team)
		if p.IsInAir() || p.IsTeleporting() {
			color = core.ColorCyan
		} else if p.Disease() != DiseaseNone {
			color = core.ColorGreen
		}
		dst.SetCell(x, y, glyph, color)
	}
}

// shakeOffset flips the horizontal offset a few times per second.
func (a *Arena) shakeOffset() int {
	if (a.timeFromStart/100)%2 == 0 {
		return 1
	}
	return -1
}

func (a *Arena) cellOf(pos core.Vec2, ox, oy int) (int, int) {
	t := pos.Tile()
	return ox + t.X*tileCellWidth, oy + t.Y
}

func (a *Arena) tileGlyph(x, y int) (rune, core.Color) {
	tile := &a.tiles[y][x]

	if tile.HasFlame() {
		return '*', core.ColorYellow
	}

	switch tile.Kind {
	case TileWall:
		return '#', core.ColorGray
	case TileBlock:
		if tile.ToBeDestroyed {
			return '%', core.ColorRed
		}
		return '%', core.ColorYellow
	}

	if tile.Item != ItemNone {
		return tile.Item.Letter(), core.ColorGreen
	}

	switch tile.Special {
	case SpecialTrampoline:
		return '=', core.ColorMagenta
	case SpecialTeleportA, SpecialTeleportB:
		return 'T', core.ColorCyan
	case SpecialLava:
		return '~', core.ColorRed
	case SpecialArrowUp:
		return '^', core.ColorBlue
	case SpecialArrowRight:
		return '>', core.ColorBlue
	case SpecialArrowDown:
		return 'v', core.ColorBlue
	case SpecialArrowLeft:
		return '<', core.ColorBlue
	}

	return ' ', core.ColorDefault
}

// tileFiller picks the second cell of a tile: walls and blocks extend to
// the full width, everything else pads with a space.
func tileFiller(r rune) rune {
	switch r {
	case '#', '%', '~', '*':
		return r
	}
	return ' '
}
