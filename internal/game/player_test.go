package game

import (
	"testing"

	"github.com/tuigames/tui-bomber/internal/core"
)

// playingArena returns an arena advanced past the countdown so inputs work.
func playingArena(t *testing.T, rows ...string) *Arena {
	t.Helper()
	a := newTestArena(t, rows...)
	for a.State() != RoundPlaying {
		a.Update(100)
	}
	return a
}

func frameWith(actions ...core.Action) core.InputFrame {
	f := core.NewInputFrame()
	for _, action := range actions {
		f.Set(action)
	}
	return f
}

func TestPlayerWalksAndStops(t *testing.T) {
	a := playingArena(t)
	p := a.Players()[0]
	p.pos = core.V(7.5, 5.5)

	p.ReactToInputs(frameWith(core.ActionRight), 16, a)

	if p.State() != StateWalkingRight {
		t.Fatalf("state = %v, want walking right", p.State())
	}
	if p.Pos().X <= 7.5 {
		t.Errorf("player did not move, x = %v", p.Pos().X)
	}

	p.ReactToInputs(core.NewInputFrame(), 16, a)
	if p.State() != StateIdleRight {
		t.Errorf("state = %v, want idle right", p.State())
	}
}

func TestPlayerBlockedByWall(t *testing.T) {
	rows := openRows()
	rows[5] = "........#......"
	a := playingArena(t, rows...)
	p := a.Players()[0]
	p.pos = core.V(7.65, 5.5)

	for i := 0; i < 20; i++ {
		p.ReactToInputs(frameWith(core.ActionRight), 16, a)
	}

	if p.TilePos() != core.T(7, 5) {
		t.Fatalf("player walked into the wall tile, at %v", p.TilePos())
	}
	if p.Pos().X > 7.7 {
		t.Errorf("player pushed past the side margin, x = %v", p.Pos().X)
	}
}

func TestWallSlideAlongBorder(t *testing.T) {
	rows := openRows()
	rows[4] = ".......#......."
	a := playingArena(t, rows...)
	p := a.Players()[0]
	// hugging the border below the wall tile
	p.pos = core.V(7.5, 5.1)

	p.ReactToInputs(frameWith(core.ActionRight), 16, a)

	// walking along the border shifts the player instead of stopping them
	if p.Pos().X <= 7.5 {
		t.Errorf("x = %v, should slide along the wall", p.Pos().X)
	}
	if p.Pos().Y < 5.1 {
		t.Errorf("y = %v, should not move into the wall", p.Pos().Y)
	}
}

func TestNoSecondBombOnSameTile(t *testing.T) {
	a := playingArena(t)
	p := a.Players()[0]
	p.pos = core.T(7, 5).Center()
	p.bombsLeft = 3

	p.ReactToInputs(frameWith(core.ActionBomb), 16, a)
	if len(a.Bombs()) != 1 {
		t.Fatalf("%d bombs after first press, want 1", len(a.Bombs()))
	}

	p.ReactToInputs(frameWith(core.ActionBomb), 16, a)
	if len(a.Bombs()) != 1 {
		t.Fatalf("laid a second bomb on an occupied tile")
	}
	if p.BombsLeft() != 2 {
		t.Errorf("bombs left = %d, want 2", p.BombsLeft())
	}
}

func TestNoBombOnTeleport(t *testing.T) {
	rows := openRows()
	rows[5] = "..A.........A.."
	a := playingArena(t, rows...)
	p := a.Players()[0]
	p.pos = core.T(2, 5).Center()

	p.ReactToInputs(frameWith(core.ActionBomb), 16, a)
	if len(a.Bombs()) != 0 {
		t.Fatal("bomb laid on a teleport tile")
	}
}

func TestGiveItemEffects(t *testing.T) {
	a := newTestArena(t)
	p := a.Players()[0]

	p.GiveItem(ItemBomb, a)
	if p.BombsLeft() != 2 {
		t.Errorf("bombs left = %d, want 2", p.BombsLeft())
	}

	p.GiveItem(ItemFlame, a)
	if p.FlameLength() != 2 {
		t.Errorf("flame length = %d, want 2", p.FlameLength())
	}

	p.GiveItem(ItemSuperFlame, a)
	if p.FlameLength() != MapWidth {
		t.Errorf("superflame length = %d, want %d", p.FlameLength(), MapWidth)
	}

	for i := 0; i < 20; i++ {
		p.GiveItem(ItemSpeedup, a)
	}
	if p.Speed() != DefaultTuning().MaxSpeed {
		t.Errorf("speed = %v, want capped at %v", p.Speed(), DefaultTuning().MaxSpeed)
	}

	p.GiveItem(ItemShoe, a)
	p.GiveItem(ItemSpring, a)
	p.GiveItem(ItemBoxingGlove, a)
	p.GiveItem(ItemThrowingGlove, a)
	if !p.hasShoe || !p.hasSpring || !p.CanBox() || !p.CanThrow() {
		t.Error("boolean items not applied")
	}

	p.GiveItem(ItemDetonator, a)
	if p.detonatorBombsLeft != 3 {
		t.Errorf("detonator arms %d bombs, want 3", p.detonatorBombsLeft)
	}

	if p.ItemCount(ItemBomb) != 2 || p.ItemCount(ItemSpeedup) != 20 {
		t.Error("inventory counts wrong")
	}
}

func TestDiseaseExpires(t *testing.T) {
	a := playingArena(t)
	p := a.Players()[0]
	p.setDisease(DiseaseSlow, 100)

	p.ReactToInputs(core.NewInputFrame(), 60, a)
	if p.Disease() != DiseaseSlow {
		t.Fatal("disease expired early")
	}

	p.ReactToInputs(core.NewInputFrame(), 60, a)
	if p.Disease() != DiseaseNone {
		t.Error("disease did not expire")
	}
}

func TestReverseControlsInvertMovement(t *testing.T) {
	a := playingArena(t)
	p := a.Players()[0]
	p.pos = core.V(7.5, 5.5)
	p.setDisease(DiseaseReverseControls, 5000)

	p.ReactToInputs(frameWith(core.ActionRight), 16, a)

	if p.State() != StateWalkingLeft {
		t.Fatalf("state = %v, want walking left", p.State())
	}
	if p.Pos().X >= 7.5 {
		t.Errorf("x = %v, should have moved left", p.Pos().X)
	}
}

func TestSlowDiseaseHalvesDistance(t *testing.T) {
	a := playingArena(t)
	p := a.Players()[0]
	p.pos = core.V(7.5, 5.5)

	p.ReactToInputs(frameWith(core.ActionRight), 100, a)
	fast := p.Pos().X - 7.5

	p.pos = core.V(7.5, 5.5)
	p.setDisease(DiseaseSlow, 5000)
	p.ReactToInputs(frameWith(core.ActionRight), 100, a)
	slow := p.Pos().X - 7.5

	if slow >= fast {
		t.Errorf("slow %v should move less than normal %v", slow, fast)
	}
}

func TestNoBombDiseaseBlocksLaying(t *testing.T) {
	a := playingArena(t)
	p := a.Players()[0]
	p.pos = core.T(7, 5).Center()
	p.setDisease(DiseaseNoBomb, 5000)

	p.ReactToInputs(frameWith(core.ActionBomb), 16, a)
	if len(a.Bombs()) != 0 {
		t.Error("bomb laid despite the no-bomb disease")
	}
}

func TestDiarrheaForcesBombs(t *testing.T) {
	a := playingArena(t)
	p := a.Players()[0]
	p.pos = core.T(7, 5).Center()
	p.setDisease(DiseaseDiarrhea, 5000)

	p.ReactToInputs(core.NewInputFrame(), 16, a)
	if len(a.Bombs()) != 1 {
		t.Errorf("%d bombs, diarrhea should lay one without input", len(a.Bombs()))
	}
}

func TestKickSetsBombRolling(t *testing.T) {
	a := playingArena(t)
	p := a.Players()[0]
	p.hasShoe = true
	p.pos = core.V(7.5, 5.21)

	b := &Bomb{Owner: p.Number, FlameLength: 1, explodesIn: 3000, tun: &a.tun}
	b.pos = core.T(7, 4).Center()
	a.AddBomb(b)

	p.ReactToInputs(frameWith(core.ActionUp), 16, a)

	if b.Movement() != BombRollingUp {
		t.Fatalf("bomb movement = %v, want rolling up", b.Movement())
	}
}

func TestThrowSendsBombFlying(t *testing.T) {
	a := playingArena(t)
	p := a.Players()[0]
	p.hasThrowingGlove = true
	p.pos = core.T(7, 5).Center()
	p.state = StateIdleDown
	p.layBomb(a, nil)
	b := a.Bombs()[0]

	p.ReactToInputs(frameWith(core.ActionBombDouble), 16, a)

	if b.Movement() != BombFlying {
		t.Fatalf("bomb movement = %v, want flying", b.Movement())
	}
	// forward tile plus three
	if b.TilePos() != core.T(7, 9) {
		t.Errorf("bomb thrown to %v, want (7,9)", b.TilePos())
	}
	if !p.IsThrowing() {
		t.Error("throw pose not set")
	}
}

func TestMultibombLaysRow(t *testing.T) {
	a := playingArena(t)
	p := a.Players()[0]
	p.hasMultibomb = true
	p.bombsLeft = 3
	p.pos = core.T(3, 5).Center()
	p.state = StateIdleRight

	p.ReactToInputs(frameWith(core.ActionBombDouble), 16, a)

	if len(a.Bombs()) != 3 {
		t.Fatalf("%d bombs laid, want 3", len(a.Bombs()))
	}
	for i, b := range a.Bombs() {
		want := core.T(4+i, 5)
		if b.TilePos() != want {
			t.Errorf("bomb %d at %v, want %v", i, b.TilePos(), want)
		}
	}
	if p.BombsLeft() != 0 {
		t.Errorf("bombs left = %d, want 0", p.BombsLeft())
	}
}

func TestDetonatorFiresLastArmedBomb(t *testing.T) {
	a := playingArena(t)
	p := a.Players()[0]
	p.GiveItem(ItemDetonator, a)
	p.bombsLeft = 2

	p.pos = core.T(7, 5).Center()
	p.layBomb(a, nil)
	p.pos = core.T(9, 5).Center()
	p.layBomb(a, nil)

	if len(p.detonatorBombs) != 2 {
		t.Fatalf("%d armed bombs, want 2", len(p.detonatorBombs))
	}

	p.pos = core.T(2, 2).Center()
	p.ReactToInputs(frameWith(core.ActionSpecial), 16, a)

	if len(a.Bombs()) != 1 {
		t.Fatalf("%d bombs left, one should have been detonated", len(a.Bombs()))
	}
	if !a.TileHasFlame(core.T(9, 5)) {
		t.Error("the most recently armed bomb should fire first")
	}

	// key held: no further detonation until release
	p.ReactToInputs(frameWith(core.ActionSpecial), 16, a)
	if len(a.Bombs()) != 1 {
		t.Fatal("held special key detonated a second bomb")
	}

	p.ReactToInputs(core.NewInputFrame(), 16, a)
	p.ReactToInputs(frameWith(core.ActionSpecial), 16, a)
	if len(a.Bombs()) != 0 {
		t.Fatal("re-pressed special key should detonate the next bomb")
	}
}

func TestTrampolineSendsPlayerFlying(t *testing.T) {
	rows := openRows()
	rows[5] = ".......T......."
	a := playingArena(t, rows...)
	p := a.Players()[0]
	p.pos = core.T(7, 5).Center()

	tickOnce := func(dt int) {
		p.ReactToInputs(core.NewInputFrame(), dt, a)
		a.Update(dt)
	}

	tickOnce(16)
	if !p.IsInAir() {
		t.Fatalf("state = %v, want in air", p.State())
	}

	dest := p.jumpingTo
	for i := 0; i < 200 && p.IsInAir(); i++ {
		tickOnce(16)
	}

	if p.IsInAir() {
		t.Fatal("player never landed")
	}
	if p.TilePos() != dest {
		t.Errorf("landed at %v, want %v", p.TilePos(), dest)
	}
}

func TestTeleportMovesPlayerToPair(t *testing.T) {
	rows := openRows()
	rows[5] = "..A.........A.."
	a := playingArena(t, rows...)
	p := a.Players()[0]
	p.pos = core.T(2, 5).Center()

	tickOnce := func(dt int) {
		p.ReactToInputs(core.NewInputFrame(), dt, a)
		a.Update(dt)
	}

	tickOnce(16)
	if !p.IsTeleporting() {
		t.Fatalf("state = %v, want teleporting", p.State())
	}

	for i := 0; i < 200 && p.IsTeleporting(); i++ {
		tickOnce(16)
	}

	if p.TilePos() != core.T(12, 5) {
		t.Fatalf("arrived at %v, want (12,5)", p.TilePos())
	}

	// the destination teleport must not bounce the player straight back
	for i := 0; i < 10; i++ {
		tickOnce(16)
	}
	if p.IsTeleporting() {
		t.Error("player teleported back without leaving the tile")
	}
}

func TestDiseaseSpreadsOnSharedTile(t *testing.T) {
	a := playingArena(t)
	p0, p1 := a.Players()[0], a.Players()[1]
	p0.setDisease(DiseaseSlow, 10000)

	p0.pos = core.T(7, 5).Center()
	p1.pos = core.T(7, 5).Center()

	a.Update(16)

	if p1.Disease() != DiseaseSlow {
		t.Errorf("disease did not transmit, p1 has %v", p1.Disease())
	}
}

func TestNearTileCenterMargin(t *testing.T) {
	a := playingArena(t)
	p := a.Players()[0]

	for _, tc := range []struct {
		pos  core.Vec2
		near bool
	}{
		{core.T(7, 5).Center(), true},
		{core.V(7.65, 5.35), true},
		{core.V(7.75, 5.5), false},
		{core.V(7.5, 5.25), false},
	} {
		p.pos = tc.pos
		if p.isNearTileCenter() != tc.near {
			t.Errorf("isNearTileCenter at %v = %v, want %v", tc.pos, !tc.near, tc.near)
		}
	}
}

func TestInvincibilityBlocksDeathAndAttribution(t *testing.T) {
	a := playingArena(t)
	p, attacker := a.Players()[0], a.Players()[1]

	tile := a.TileAt(p.TilePos())
	tile.Flames = append(tile.Flames, &Flame{Owner: attacker.Number, TimeToBurnout: 60000})

	p.SetInvincible(1000)
	a.Update(16)

	if p.IsDead() {
		t.Fatal("player died inside the grace window")
	}
	if attacker.Kills() != 0 {
		t.Fatalf("kills = %d, want 0 for a non-death", attacker.Kills())
	}

	p.SetInvincible(0)
	a.Update(16)

	if !p.IsDead() {
		t.Fatal("player should die once the grace window closes")
	}
	if attacker.Kills() != 1 {
		t.Fatalf("kills = %d, want 1", attacker.Kills())
	}
}

func TestTeleportOpensGraceWindow(t *testing.T) {
	a := playingArena(t)
	p := a.Players()[0]

	p.stateBackup = StateIdleDown
	p.state = StateTeleporting
	p.teleportingTo = core.T(3, 3)
	p.stateTime = 0

	for i := 0; i < 120 && p.IsTeleporting(); i++ {
		p.ReactToInputs(core.NewInputFrame(), 16, a)
	}

	if p.IsTeleporting() {
		t.Fatal("teleport never completed")
	}
	if !p.IsInvincible() {
		t.Error("arriving from a teleport should open the grace window")
	}
}
