package game

import (
	"math/rand"
	"testing"

	"github.com/tuigames/tui-bomber/internal/core"
)

func twoSlots() []PlayerSlot {
	return []PlayerSlot{
		{Number: 0, Team: 0},
		{Number: 1, Team: 1},
	}
}

func newTestArena(t *testing.T, rows ...string) *Arena {
	t.Helper()
	if len(rows) == 0 {
		rows = openRows()
	}
	a, err := NewArena(testMapDesc(rows...), twoSlots(), DefaultTuning(), rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatal(err)
	}
	return a
}

// tick advances the arena like the game loop does: inputs first, then the
// world.
func tick(a *Arena, dt int) {
	for _, p := range a.Players() {
		p.ReactToInputs(core.NewInputFrame(), dt, a)
	}
	a.Update(dt)
}

func TestTileQueriesOutOfBounds(t *testing.T) {
	a := newTestArena(t)

	for _, tc := range []core.Tile{
		core.T(-1, 0), core.T(0, -1), core.T(MapWidth, 0), core.T(0, MapHeight),
	} {
		if a.TileIsWithinMap(tc) {
			t.Errorf("%v should be outside the map", tc)
		}
		if a.TileAt(tc) != nil {
			t.Errorf("TileAt(%v) should be nil", tc)
		}
		if a.TileIsWalkable(tc) {
			t.Errorf("%v should not be walkable", tc)
		}
		if a.DangerValue(tc) != 0 {
			t.Errorf("DangerValue(%v) should be 0", tc)
		}
	}
}

func TestPositionCollision(t *testing.T) {
	rows := openRows()
	rows[4] = ".......#......."
	rows[6] = ".......#......."
	a := newTestArena(t, rows...)

	cases := []struct {
		name string
		pos  core.Vec2
		want CollisionType
	}{
		{"center of free tile", core.V(7.5, 5.5), CollisionNone},
		{"inside wall", core.V(7.5, 4.5), CollisionTotal},
		{"near wall above", core.V(7.5, 5.1), CollisionBorderUp},
		{"near wall below", core.V(7.5, 5.9), CollisionBorderDown},
		{"row margin respected", core.V(7.5, 5.3), CollisionNone},
	}

	for _, tc := range cases {
		if got := a.PositionCollision(tc.pos); got != tc.want {
			t.Errorf("%s: collision = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestPositionCollisionSideMargins(t *testing.T) {
	rows := openRows()
	rows[5] = "......#.#......"
	a := newTestArena(t, rows...)

	// column margin is 0.4, looser than the row margin
	if got := a.PositionCollision(core.V(7.3, 5.5)); got != CollisionBorderLeft {
		t.Errorf("left border: got %v", got)
	}
	if got := a.PositionCollision(core.V(7.7, 5.5)); got != CollisionBorderRight {
		t.Errorf("right border: got %v", got)
	}
	if got := a.PositionCollision(core.V(7.5, 5.5)); got != CollisionNone {
		t.Errorf("tile center: got %v", got)
	}
}

func TestBombFuseIsStrict(t *testing.T) {
	a := newTestArena(t)
	p := a.Players()[0]
	p.pos = core.T(7, 5).Center()
	p.layBomb(a, nil)

	for i := 0; i < 30; i++ {
		a.Update(100)
	}
	// exactly at the fuse the bomb still holds
	if a.TileHasFlame(core.T(7, 5)) {
		t.Fatal("bomb exploded at exactly the fuse time")
	}
	if len(a.Bombs()) != 1 {
		t.Fatal("bomb disappeared early")
	}

	a.Update(100)
	if !a.TileHasFlame(core.T(7, 5)) {
		t.Fatal("bomb did not explode past the fuse time")
	}
	if len(a.Bombs()) != 0 {
		t.Fatal("exploded bomb still on the map")
	}
	if p.BombsLeft() != 1 {
		t.Errorf("bomb allowance not refunded, have %d", p.BombsLeft())
	}
}

func TestExplosionFootprint(t *testing.T) {
	rows := openRows()
	rows[5] = "......x.#......" // block at (6,5), wall at (8,5)
	a := newTestArena(t, rows...)

	p := a.Players()[0]
	p.pos = core.T(7, 5).Center()
	p.flameLength = 3
	p.layBomb(a, nil)

	for i := 0; i <= 30; i++ {
		a.Update(100)
	}

	for _, tc := range []struct {
		tile core.Tile
		want bool
	}{
		{core.T(7, 5), true},  // center
		{core.T(6, 5), true},  // block burns
		{core.T(5, 5), false}, // behind the block
		{core.T(8, 5), false}, // wall
		{core.T(9, 5), false}, // behind the wall
		{core.T(7, 2), true},  // full reach up
		{core.T(7, 1), false}, // beyond the flame length
		{core.T(7, 8), true},  // full reach down
	} {
		if got := a.TileHasFlame(tc.tile); got != tc.want {
			t.Errorf("flame at %v = %v, want %v", tc.tile, got, tc.want)
		}
	}
}

func TestBlockBurnsDownAndRevealsItem(t *testing.T) {
	rows := openRows()
	rows[5] = "......x........"
	a := newTestArena(t, rows...)
	a.TileAt(core.T(6, 5)).Item = ItemSpring

	blocksBefore := a.BlockCount()

	p := a.Players()[0]
	p.pos = core.T(7, 5).Center()
	p.layBomb(a, nil)

	// explode, then let the flame burn out
	for i := 0; i < 45; i++ {
		a.Update(100)
	}

	tile := a.TileAt(core.T(6, 5))
	if tile.Kind != TileFloor {
		t.Fatalf("block not reverted, kind = %v", tile.Kind)
	}
	if tile.Item != ItemSpring {
		t.Errorf("hidden item lost, have %v", tile.Item)
	}
	if a.BlockCount() != blocksBefore-1 {
		t.Errorf("block count = %d, want %d", a.BlockCount(), blocksBefore-1)
	}
}

func TestChainReaction(t *testing.T) {
	a := newTestArena(t)
	p := a.Players()[0]
	p.bombsLeft = 2

	p.pos = core.T(7, 5).Center()
	p.layBomb(a, nil)
	p.pos = core.T(8, 5).Center()
	p.layBomb(a, nil)
	a.Bombs()[1].explodesIn = 10000

	for i := 0; i <= 30; i++ {
		a.Update(100)
	}

	if len(a.Bombs()) != 0 {
		t.Fatalf("%d bombs left, the neighbor should chain-detonate", len(a.Bombs()))
	}
	if !a.TileHasFlame(core.T(9, 5)) {
		t.Error("chained bomb left no flame of its own")
	}
	if p.BombsLeft() != 2 {
		t.Errorf("allowance = %d, want 2", p.BombsLeft())
	}
}

func TestDangerMap(t *testing.T) {
	rows := openRows()
	rows[5] = "....x.........." // block at (4,5)
	a := newTestArena(t, rows...)

	p := a.Players()[0]
	p.pos = core.T(7, 5).Center()
	p.flameLength = 3
	p.layBomb(a, nil)

	tun := DefaultTuning()

	if got := a.DangerValue(core.T(7, 5)); got != tun.BombFuse {
		t.Errorf("bomb tile danger = %d, want %d", got, tun.BombFuse)
	}
	if got := a.DangerValue(core.T(7, 3)); got != tun.BombFuse {
		t.Errorf("in-range danger = %d, want %d", got, tun.BombFuse)
	}
	if got := a.DangerValue(core.T(7, 1)); got != tun.SafeDangerValue {
		t.Errorf("out-of-range danger = %d, want %d", got, tun.SafeDangerValue)
	}
	if got := a.DangerValue(core.T(4, 5)); got != 0 {
		t.Errorf("block danger = %d, want 0", got)
	}
	// the block shields the tile behind it
	if got := a.DangerValue(core.T(5, 5)); got != tun.BombFuse {
		t.Errorf("tile before block = %d, want %d", got, tun.BombFuse)
	}

	// repeated queries in the same tick see the same values
	first := a.DangerValue(core.T(7, 4))
	if again := a.DangerValue(core.T(7, 4)); again != first {
		t.Errorf("danger changed between queries: %d then %d", first, again)
	}

	a.Update(100)
	if got := a.DangerValue(core.T(7, 5)); got != tun.BombFuse-100 {
		t.Errorf("danger after 100ms = %d, want %d", got, tun.BombFuse-100)
	}
}

func TestRollingBombStopsAtWall(t *testing.T) {
	rows := openRows()
	rows[5] = ".........#....."
	a := newTestArena(t, rows...)
	p := a.Players()[0]
	p.pos = core.T(7, 5).Center()

	b := newBomb(p, &a.tun)
	a.AddBomb(b)
	b.movement = BombRollingRight

	for i := 0; i < 40; i++ {
		a.Update(16)
	}

	if b.Movement() != BombStationary {
		t.Fatalf("bomb still moving: %v", b.Movement())
	}
	if b.TilePos() != core.T(8, 5) {
		t.Errorf("bomb stopped at %v, want (8,5)", b.TilePos())
	}
	if b.Pos() != core.T(8, 5).Center() {
		t.Errorf("bomb not centered: %v", b.Pos())
	}
}

func TestSpringBombBouncesOffWall(t *testing.T) {
	rows := openRows()
	rows[5] = ".........#....."
	a := newTestArena(t, rows...)
	p := a.Players()[0]
	p.pos = core.T(7, 5).Center()
	p.hasSpring = true

	b := newBomb(p, &a.tun)
	a.AddBomb(b)
	b.movement = BombRollingRight
	p.pos = core.T(1, 1).Center() // out of the bounce lane

	for i := 0; i < 40; i++ {
		a.Update(16)
	}

	if b.Movement() != BombRollingLeft {
		t.Fatalf("spring bomb should reverse, movement = %v", b.Movement())
	}
}

func TestFlyingBombWrapsAroundMap(t *testing.T) {
	a := newTestArena(t)
	p := a.Players()[0]
	p.pos = core.T(13, 5).Center()

	b := newBomb(p, &a.tun)
	a.AddBomb(b)
	b.SendFlying(core.T(17, 5), a)

	if b.TilePos() != core.T(2, 5) {
		t.Fatalf("wrapped destination = %v, want (2,5)", b.TilePos())
	}
	if b.Movement() != BombFlying {
		t.Fatal("bomb should be in flight")
	}

	// 4 tiles at flying speed, plus one landing tick
	for i := 0; i < 60 && b.Movement() == BombFlying; i++ {
		a.Update(16)
	}
	if b.Movement() != BombStationary {
		t.Errorf("bomb did not land, movement = %v", b.Movement())
	}
}

func TestDeadPlayersItemsScatter(t *testing.T) {
	a := newTestArena(t)
	p := a.Players()[1]
	p.GiveItem(ItemShoe, a)
	p.GiveItem(ItemSpring, a)

	p.kill(a)
	if !p.IsDead() {
		t.Fatal("player should be dead")
	}

	countItems := func() int {
		n := 0
		for y := 0; y < MapHeight; y++ {
			for x := 0; x < MapWidth; x++ {
				if a.TileAt(core.T(x, y)).Item != ItemNone {
					n++
				}
			}
		}
		return n
	}

	if countItems() != 0 {
		t.Fatal("items scattered before the give-away delay")
	}

	for i := 0; i < 35; i++ {
		a.Update(100)
	}

	// starting inventory is bomb and flame, plus the two pickups
	if got := countItems(); got != 4 {
		t.Errorf("%d items on the map, want 4", got)
	}
}

func TestRoundStateMachine(t *testing.T) {
	a := newTestArena(t)
	tun := DefaultTuning()

	if a.State() != RoundWaitingToPlay {
		t.Fatal("round should start in the waiting state")
	}

	for a.TimeFromStart() < tun.StartRoundAfter {
		tick(a, 100)
	}
	if a.State() != RoundPlaying {
		t.Fatalf("state = %v after the countdown", a.State())
	}

	a.Players()[1].kill(a)
	tick(a, 100)

	if a.State() != RoundFinishing {
		t.Fatalf("state = %v after last enemy died", a.State())
	}
	if a.WinnerTeam() != 0 {
		t.Errorf("winner team = %d, want 0", a.WinnerTeam())
	}

	for i := 0; i < 60 && a.State() != RoundOver; i++ {
		tick(a, 100)
	}
	if a.State() != RoundOver {
		t.Fatal("round never ended")
	}
}

func TestDrawWhenAllDie(t *testing.T) {
	a := newTestArena(t)

	for a.State() != RoundPlaying {
		tick(a, 100)
	}
	a.Players()[0].kill(a)
	a.Players()[1].kill(a)
	tick(a, 100)

	if a.State() != RoundFinishing {
		t.Fatalf("state = %v", a.State())
	}
	if a.WinnerTeam() != -1 {
		t.Errorf("winner team = %d, want -1 for a draw", a.WinnerTeam())
	}
}

func TestFlameKillAttribution(t *testing.T) {
	a := newTestArena(t)
	p0, p1 := a.Players()[0], a.Players()[1]

	// let the round start so deaths count
	for a.State() != RoundPlaying {
		tick(a, 100)
	}

	p0.pos = core.T(7, 5).Center()
	p1.pos = core.T(7, 6).Center()
	p0.layBomb(a, nil)
	p0.pos = core.T(2, 2).Center()

	for i := 0; i <= 31 && !p1.IsDead(); i++ {
		tick(a, 100)
	}

	if !p1.IsDead() {
		t.Fatal("player 1 survived the blast")
	}
	if p0.Kills() != 1 {
		t.Errorf("killer credited %d kills, want 1", p0.Kills())
	}
}

func TestSelfKillCountsNegative(t *testing.T) {
	a := newTestArena(t)
	p0 := a.Players()[0]

	for a.State() != RoundPlaying {
		tick(a, 100)
	}

	p0.pos = core.T(7, 5).Center()
	p0.layBomb(a, nil)
	// stay put and take the blast

	for i := 0; i <= 31 && !p0.IsDead(); i++ {
		tick(a, 100)
	}

	if !p0.IsDead() {
		t.Fatal("player 0 should have died in their own blast")
	}
	if p0.Kills() != -1 {
		t.Errorf("self kill = %d kills, want -1", p0.Kills())
	}
}
