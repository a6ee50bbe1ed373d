// Package maps holds the built-in arena descriptions.
//
// A description has four semicolon-separated sections: environment name,
// items every player starts with, items hidden under blocks, and the tile
// grid (15 columns by 11 rows, whitespace ignored). Tile letters:
//
//	.  floor            x  block           #  wall
//	u r d l  floor arrow (direction)       U R D L  block hiding an arrow
//	A B  teleport pairs  T  trampoline     V  lava
//	0-9  starting position of that player number
package maps

import (
	"fmt"
	"math/rand"
	"sort"
)

// Map is one built-in arena.
type Map struct {
	Name        string
	Description string
}

const classic = `classic;
;
ffffffbbbbbssskkprrdx;
0.xxxxxxxxxxx.1
.#x#x#x#x#x#x#.
xxxxxxxxxxxxxxx
x#x#x#x#x#x#x#x
xxxxxxxxxxxxxxx
x#x#x#x#x#x#x#x
xxxxxxxxxxxxxxx
x#x#x#x#x#x#x#x
xxxxxxxxxxxxxxx
.#x#x#x#x#x#x#.
2.xxxxxxxxxxx.3`

const volcano = `volcano;
b;
ffffbbbssrrddmx;
0.xxx.....xxx.1
.#x#x#x#x#x#x#.
xx..x..x..x..xx
x#.#x#V#x#.#x#x
T..x..VVV..x..T
x#.#x#V#x#.#x#x
xx..x..x..x..xx
.#x#x#x#x#x#x#.
2.xxx.....xxx.3
x#x#x#x#x#x#x#x
..xxx..T..xxx..`

const factory = `factory;
;
fffbbbksspprtex;
0.xxxxx.xxxxx.1
.#x#x#r#r#x#x#.
x.rrrrrrrrrrd.x
x#u#x#x#x#x#d#x
x.u.xxx.xxx.d.x
..u.x..4..x.d..
x.u.xxx.xxx.d.x
x#u#x#x#x#x#d#x
x.ullllllllll.x
.#x#x#l#l#x#x#.
2.xxxxx.xxxxx.3`

const cave = `cave;
f;
ffbbbbkksrrdmtx;
0.xxx..A..xxx.1
.#x#x#x#x#x#x#.
xx...xxxxx...xx
x#xx.......xx#x
B.x.xx.x.xx.x.B
x#x....x....x#x
..x.xx.x.xx.x..
x#xx.......xx#x
xx...xxxxx...xx
.#x#x#x#x#x#x#.
2.xxx..A..xxx.3`

const castle = `castle;
bf;
ffffbbbsskrrpex;
0.xx.......xx.1
.#x#x#x#x#x#x#.
x.x.xx.x.xx.x.x
x#x#.#x#x#.#x#x
..x.x..V..x.x..
.x.x.xVVVx.x.x.
..x.x..V..x.x..
x#x#.#x#x#.#x#x
x.x.xx.x.xx.x.x
.#x#x#x#x#x#x#.
2.xx.......xx.3`

var builtin = map[string]string{
	"classic": classic,
	"volcano": volcano,
	"factory": factory,
	"cave":    cave,
	"castle":  castle,
}

// DefaultName is the map used when none is configured.
const DefaultName = "classic"

// Get returns a built-in map description by name.
func Get(name string) (string, error) {
	desc, ok := builtin[name]
	if !ok {
		return "", fmt.Errorf("maps: unknown map %q", name)
	}
	return desc, nil
}

// Exists reports whether a built-in map with the name exists.
func Exists(name string) bool {
	_, ok := builtin[name]
	return ok
}

// Names lists the built-in map names, sorted.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns the built-in maps sorted by name.
func All() []Map {
	names := Names()
	out := make([]Map, 0, len(names))
	for _, name := range names {
		out = append(out, Map{Name: name, Description: builtin[name]})
	}
	return out
}

// Random picks a built-in map name using the given rng.
func Random(rng *rand.Rand) string {
	names := Names()
	return names[rng.Intn(len(names))]
}
