package game

import (
	"fmt"
	"strings"

	"github.com/tuigames/tui-bomber/internal/core"
)

// Map dimensions are fixed; every map description carries exactly
// MapWidth*MapHeight tile letters.
const (
	MapWidth  = 15
	MapHeight = 11
)

// MaxPlayers is the number of starting-position digits a map can carry.
const MaxPlayers = 10

// parsedMap is the outcome of decoding a map description string.
type parsedMap struct {
	environment string
	tiles       [][]MapTile // [row][col]
	blocks      int

	startPositions [MaxPlayers]core.Tile
	hasStart       [MaxPlayers]bool

	playerItems []ItemKind
	mapItems    []ItemKind
}

// parseMapDescription decodes the textual map format
// `environment;player_items;map_items;tiles`. Whitespace is stripped before
// parsing. Malformed input (wrong section count, wrong tile-grid length,
// unknown letters) fails with an error rather than producing a partial map.
//
// Teleport letters pair first-with-second occurrence, linked both ways.
// Further occurrences of the same letter are ignored.
func parseMapDescription(desc string) (*parsedMap, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, desc)

	parts := strings.Split(cleaned, ";")
	if len(parts) != 4 {
		return nil, fmt.Errorf("map description has %d sections, want 4", len(parts))
	}

	pm := &parsedMap{environment: parts[0]}

	for _, c := range parts[1] {
		item, err := itemForLetter(c)
		if err != nil {
			return nil, fmt.Errorf("player items: %w", err)
		}
		pm.playerItems = append(pm.playerItems, item)
	}
	for _, c := range parts[2] {
		item, err := itemForLetter(c)
		if err != nil {
			return nil, fmt.Errorf("map items: %w", err)
		}
		pm.mapItems = append(pm.mapItems, item)
	}

	tileChars := []rune(parts[3])
	if len(tileChars) != MapWidth*MapHeight {
		return nil, fmt.Errorf("tile grid has %d characters, want %d", len(tileChars), MapWidth*MapHeight)
	}

	pm.tiles = make([][]MapTile, MapHeight)
	for y := range pm.tiles {
		pm.tiles[y] = make([]MapTile, MapWidth)
	}

	var teleportA, teleportB *MapTile
	var teleportATile, teleportBTile core.Tile

	for i, c := range tileChars {
		x := i % MapWidth
		y := i / MapWidth
		tile := &pm.tiles[y][x]
		here := core.T(x, y)

		switch {
		case c == '.':
			tile.Kind = TileFloor
		case c == 'x':
			tile.Kind = TileBlock
		case c == '#':
			tile.Kind = TileWall
		case c == 'u' || c == 'r' || c == 'd' || c == 'l' ||
			c == 'U' || c == 'R' || c == 'D' || c == 'L':
			tile.Kind = TileFloor
			if c >= 'A' && c <= 'Z' {
				tile.Kind = TileBlock
			}
			switch c {
			case 'u', 'U':
				tile.Special = SpecialArrowUp
			case 'r', 'R':
				tile.Special = SpecialArrowRight
			case 'd', 'D':
				tile.Special = SpecialArrowDown
			case 'l', 'L':
				tile.Special = SpecialArrowLeft
			}
		case c == 'A':
			tile.Kind = TileFloor
			tile.Special = SpecialTeleportA
			if teleportA == nil {
				teleportA, teleportATile = tile, here
			} else if teleportA.Destination == nil {
				dest := teleportATile
				tile.Destination = &dest
				back := here
				teleportA.Destination = &back
			}
		case c == 'B':
			tile.Kind = TileFloor
			tile.Special = SpecialTeleportB
			if teleportB == nil {
				teleportB, teleportBTile = tile, here
			} else if teleportB.Destination == nil {
				dest := teleportBTile
				tile.Destination = &dest
				back := here
				teleportB.Destination = &back
			}
		case c == 'T':
			tile.Kind = TileFloor
			tile.Special = SpecialTrampoline
		case c == 'V':
			tile.Kind = TileFloor
			tile.Special = SpecialLava
		case c >= '0' && c <= '9':
			tile.Kind = TileFloor
			n := int(c - '0')
			pm.startPositions[n] = here
			pm.hasStart[n] = true
		default:
			return nil, fmt.Errorf("unknown tile letter %q at index %d", c, i)
		}

		if tile.Kind == TileBlock {
			pm.blocks++
		}
	}

	return pm, nil
}

// Layout re-derives the block/wall/floor grid as a string of one row per
// line. Specials, items and starting positions are not represented.
func (a *Arena) Layout() string {
	var sb strings.Builder
	for y := 0; y < a.Height(); y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}
		for x := 0; x < a.Width(); x++ {
			switch a.tiles[y][x].Kind {
			case TileFloor:
				sb.WriteRune('.')
			case TileBlock:
				sb.WriteRune('x')
			default:
				sb.WriteRune('#')
			}
		}
	}
	return sb.String()
}
