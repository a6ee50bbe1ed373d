package game

import (
	"math/rand"
	"testing"

	"github.com/tuigames/tui-bomber/internal/core"
)

// corridorArena is closed except the player tile and two tiles to its
// right, which is the only escape from a bomb on the player tile.
func corridorArena(t *testing.T) *Arena {
	t.Helper()
	rows := make([]string, MapHeight)
	for i := range rows {
		rows[i] = "xxxxxxxxxxxxxxx"
	}
	rows[5] = "xxxxxxx0..xxxxx"

	a, err := NewArena(testMapDesc(rows...),
		[]PlayerSlot{{Number: 0, Team: 0, IsAI: true}},
		DefaultTuning(), rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestIsTrapped(t *testing.T) {
	rows := make([]string, MapHeight)
	for i := range rows {
		rows[i] = "xxxxxxxxxxxxxxx"
	}
	rows[5] = "xxxxxxx0xxxxxxx"

	a, err := NewArena(testMapDesc(rows...),
		[]PlayerSlot{{Number: 0, Team: 0, IsAI: true}},
		DefaultTuning(), rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatal(err)
	}

	ai := NewPlanner(a.Players()[0], a)
	if !ai.isTrapped() {
		t.Fatal("player with four blocked neighbors should be trapped")
	}

	out := ai.Play()
	moved := false
	for _, d := range Dirs {
		if out.Has(d.Action()) {
			moved = true
		}
	}
	if !moved {
		t.Error("trapped AI should still try to move")
	}
}

func TestPlannerEscapesOwnBomb(t *testing.T) {
	a := corridorArena(t)
	p := a.Players()[0]

	b := newBomb(p, &a.tun)
	a.AddBomb(b)

	ai := NewPlanner(p, a)
	out := ai.Play()

	if !out.Has(core.ActionRight) {
		t.Fatal("the corridor to the right is the only escape")
	}
	for _, action := range []core.Action{core.ActionUp, core.ActionDown, core.ActionLeft} {
		if out.Has(action) {
			t.Errorf("unexpected action %v", action)
		}
	}
}

func TestPlannerCachesDecisions(t *testing.T) {
	a := corridorArena(t)
	p := a.Players()[0]
	a.AddBomb(newBomb(p, &a.tun))

	ai := NewPlanner(p, a)
	first := ai.Play()
	if !first.Has(core.ActionRight) {
		t.Fatal("expected an escape move")
	}

	// remove the threat without advancing time; the cached decision must
	// still be replayed
	a.bombs = nil
	again := ai.Play()
	if !again.Has(core.ActionRight) {
		t.Error("decision should be cached until the recompute deadline")
	}

	// past the deadline the planner re-evaluates
	a.timeFromStart = ai.recomputeOn
	a.dangerValid = false
	fresh := ai.Play()
	if fresh.Has(core.ActionRight) && ai.rateTile(p.TilePos().Offset(1, 0)) < ai.rateTile(p.TilePos()) {
		t.Error("planner kept fleeing after the bomb was gone")
	}
}

func TestEscapeRatingsFavorOpenDirections(t *testing.T) {
	a := corridorArena(t)
	p := a.Players()[0]
	ai := NewPlanner(p, a)

	ratings := ai.rateBombEscapeDirections(p.TilePos())

	if ratings[DirRight] == 0 {
		t.Error("open corridor rated as no escape")
	}
	for _, d := range []Dir{DirUp, DirDown, DirLeft} {
		if ratings[d] != 0 {
			t.Errorf("blocked direction %v rated %d", d, ratings[d])
		}
	}
}

func TestRateTilePrefersSafeAndItems(t *testing.T) {
	a := newTestArena(t)
	p := a.Players()[0]
	p.pos = core.T(7, 5).Center()
	ai := NewPlanner(p, a)

	safe := ai.rateTile(core.T(7, 5))
	if safe != 60 {
		t.Errorf("safe tile rated %d, want 60", safe)
	}

	a.TileAt(core.T(7, 4)).Item = ItemFlame
	if got := ai.rateTile(core.T(7, 4)); got != 80 {
		t.Errorf("item tile rated %d, want 80", got)
	}

	a.TileAt(core.T(7, 6)).Item = ItemDisease
	if got := ai.rateTile(core.T(7, 6)); got != 50 {
		t.Errorf("disease tile rated %d, want 50", got)
	}

	// tiles inside a blast window rate by remaining time
	p.layBomb(a, nil)
	a.dangerValid = false
	if got := ai.rateTile(core.T(6, 5)); got != 60 {
		t.Errorf("tile with 3000ms danger rated %d, want 60", got)
	}
}

func TestPlannerIgnoresDeadPlayer(t *testing.T) {
	a := newTestArena(t)
	p := a.Players()[0]
	ai := NewPlanner(p, a)

	p.kill(a)
	out := ai.Play()

	for _, action := range []core.Action{
		core.ActionUp, core.ActionRight, core.ActionDown, core.ActionLeft,
		core.ActionBomb, core.ActionBombDouble, core.ActionSpecial,
	} {
		if out.Has(action) {
			t.Errorf("dead player's planner produced %v", action)
		}
	}
}

func TestPlayersNearbyCountsAdjacentTiles(t *testing.T) {
	a := newTestArena(t)
	p0, p1 := a.Players()[0], a.Players()[1]
	ai := NewPlanner(p0, a)

	p0.moveToTileCenterOf(core.T(5, 5))
	p1.moveToTileCenterOf(core.T(6, 6))

	enemies, allies := ai.playersNearby()
	if enemies != 1 || allies != 0 {
		t.Fatalf("enemies = %d, allies = %d, want one enemy next door", enemies, allies)
	}

	p1.moveToTileCenterOf(core.T(8, 5))
	if enemies, _ = ai.playersNearby(); enemies != 0 {
		t.Errorf("enemies = %d, want none beyond the neighboring box", enemies)
	}
}
