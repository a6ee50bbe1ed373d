package game

import (
	"math"

	"github.com/tuigames/tui-bomber/internal/core"
)

// PlayerState encodes facing, motion and the special modes.
type PlayerState int

const (
	StateIdleUp PlayerState = iota
	StateIdleRight
	StateIdleDown
	StateIdleLeft
	StateWalkingUp
	StateWalkingRight
	StateWalkingDown
	StateWalkingLeft
	StateInAir
	StateTeleporting
	StateDead
)

var walkingStates = [4]PlayerState{StateWalkingUp, StateWalkingRight, StateWalkingDown, StateWalkingLeft}
var idleStates = [4]PlayerState{StateIdleUp, StateIdleRight, StateIdleDown, StateIdleLeft}

// Player is one participant's full in-round state: position, inventory,
// disease and the timers behind jumps, teleports and throws.
type Player struct {
	Number int
	Team   int
	IsAI   bool

	pos       core.Vec2
	state     PlayerState
	stateTime int

	speed       float64 // tiles per second
	bombsLeft   int
	flameLength int
	items       map[ItemKind]int

	hasSpring        bool
	hasShoe          bool
	hasMultibomb     bool
	hasBoxingGlove   bool
	hasThrowingGlove bool

	boxing             bool
	detonatorBombsLeft int
	detonatorBombs     []*Bomb

	disease         Disease
	diseaseTimeLeft int

	// key edge detection, so held keys fire once
	waitForBombRelease    bool
	waitForSpecialRelease bool

	throwingTimeLeft int

	stateBackup   PlayerState
	jumpingFrom   core.Tile
	jumpingTo     core.Tile
	teleportingTo core.Tile
	// keeps the destination teleport from bouncing the player straight back
	waitForTileTransition bool

	// grace window after a teleport, counted down in ms
	invincibleTimeLeft int

	kills int
	wins  int

	tun *Tuning
}

func newPlayer(slot PlayerSlot, start core.Tile, tun *Tuning) *Player {
	p := &Player{
		Number:      slot.Number,
		Team:        slot.Team,
		IsAI:        slot.IsAI,
		pos:         start.Center(),
		state:       StateIdleDown,
		speed:       tun.PlayerSpeed,
		bombsLeft:   1,
		flameLength: 1,
		items:       map[ItemKind]int{ItemBomb: 1, ItemFlame: 1},
		stateBackup: StateIdleUp,
		tun:         tun,
	}
	return p
}

// Pos returns the continuous position.
func (p *Player) Pos() core.Vec2 { return p.pos }

// TilePos returns the containing tile.
func (p *Player) TilePos() core.Tile { return p.pos.Tile() }

// State returns the current player state.
func (p *Player) State() PlayerState { return p.state }

// StateTime returns ms spent in the current state.
func (p *Player) StateTime() int { return p.stateTime }

func (p *Player) IsDead() bool        { return p.state == StateDead }
func (p *Player) IsInAir() bool       { return p.state == StateInAir }
func (p *Player) IsTeleporting() bool { return p.state == StateTeleporting }

// IsWalking reports whether the player moved this tick.
func (p *Player) IsWalking() bool {
	return p.state >= StateWalkingUp && p.state <= StateWalkingLeft
}

// IsThrowing reports whether the throw pose is still showing.
func (p *Player) IsThrowing() bool { return p.throwingTimeLeft > 0 }

// IsBoxing reports whether a box was performed this tick.
func (p *Player) IsBoxing() bool { return p.boxing }

// IsEnemy reports whether the other player is on a different team.
func (p *Player) IsEnemy(other *Player) bool { return p.Team != other.Team }

func (p *Player) CanBox() bool   { return p.hasBoxingGlove }
func (p *Player) CanThrow() bool { return p.hasThrowingGlove }

func (p *Player) Speed() float64      { return p.speed }
func (p *Player) BombsLeft() int      { return p.bombsLeft }
func (p *Player) FlameLength() int    { return p.flameLength }
func (p *Player) Disease() Disease    { return p.disease }
func (p *Player) DiseaseTime() int    { return p.diseaseTimeLeft }
func (p *Player) Kills() int          { return p.kills }
func (p *Player) Wins() int           { return p.wins }
func (p *Player) SetWins(w int)       { p.wins = w }
func (p *Player) SetKills(k int)      { p.kills = k }

// IsInvincible reports whether the post-teleport grace window is open.
func (p *Player) IsInvincible() bool { return p.invincibleTimeLeft > 0 }

// SetInvincible opens a grace window during which flames and lava do not
// kill the player.
func (p *Player) SetInvincible(ms int) { p.invincibleTimeLeft = ms }

// ItemCount returns how many of the item the player has picked up.
func (p *Player) ItemCount(item ItemKind) int { return p.items[item] }

// Items flattens the inventory into a multiset slice, ordered by item kind
// so the result is stable.
func (p *Player) Items() []ItemKind {
	var out []ItemKind
	for _, kind := range allItems {
		for i := 0; i < p.items[kind]; i++ {
			out = append(out, kind)
		}
	}
	return out
}

// DetonatorIsActive reports whether laid bombs are waiting on the detonator.
func (p *Player) DetonatorIsActive() bool { return len(p.detonatorBombs) > 0 }

// Facing returns the direction the player looks in.
func (p *Player) Facing() Dir {
	switch p.state {
	case StateIdleUp, StateWalkingUp:
		return DirUp
	case StateIdleRight, StateWalkingRight:
		return DirRight
	case StateIdleDown, StateWalkingDown:
		return DirDown
	default:
		return DirLeft
	}
}

// ForwardTile returns the tile directly ahead of the player.
func (p *Player) ForwardTile() core.Tile {
	dx, dy := p.Facing().Delta()
	return p.TilePos().Offset(dx, dy)
}

// MultibombCount returns how many bombs a multibomb press can lay in a row.
func (p *Player) MultibombCount() int {
	if !p.hasMultibomb {
		if p.bombsLeft > 0 {
			return 1
		}
		return 0
	}
	return p.bombsLeft
}

func (p *Player) moveToTileCenter() {
	p.moveToTileCenterOf(p.TilePos())
}

func (p *Player) moveToTileCenterOf(t core.Tile) {
	p.pos = t.Center()
}

func (p *Player) isNearTileCenter() bool {
	frac := p.pos.Frac()
	return math.Abs(frac.X-0.5) < 0.2 && math.Abs(frac.Y-0.5) < 0.2
}

func (p *Player) setDisease(d Disease, timeLeft int) {
	p.disease = d
	p.diseaseTimeLeft = timeLeft
}

// bombExploded restores one bomb to the player's budget.
func (p *Player) bombExploded() { p.bombsLeft++ }

// WaitForBombRelease makes the bomb key inert until released and re-pressed.
func (p *Player) WaitForBombRelease() { p.waitForBombRelease = true }

// WaitForSpecialRelease makes the special key inert until released and
// re-pressed.
func (p *Player) WaitForSpecialRelease() { p.waitForSpecialRelease = true }

// kill marks the player dead, plays a random death animation and schedules
// the inventory to scatter back onto the map.
func (p *Player) kill(a *Arena) {
	if p.IsInvincible() {
		return
	}

	p.state = StateDead
	a.events.addSound(SoundDeath)

	animations := [4]AnimationKind{AnimationDie, AnimationExplosion, AnimationRIP, AnimationSkeleton}
	a.events.addAnimation(animations[a.rng.Intn(4)], p.pos)

	a.giveAwayItems(p.Items())
}

// teleport starts the teleport transition toward the paired tile. Standing
// on a destination tile right after arriving does nothing until the player
// leaves the tile once.
func (p *Player) teleport(a *Arena) {
	if p.waitForTileTransition {
		return
	}

	tile := a.TileAt(p.TilePos())
	if tile == nil || tile.Destination == nil {
		return
	}

	a.events.addSound(SoundTeleport)

	p.moveToTileCenter()
	p.teleportingTo = *tile.Destination
	p.stateBackup = p.state
	p.state = StateTeleporting
	p.stateTime = 0
	p.waitForTileTransition = true
}

// sendToAir launches the player off a trampoline toward a random walkable,
// special-free tile within a 7x7 box. With no candidate the player drops
// onto the tile below.
func (p *Player) sendToAir(a *Arena) {
	if p.state == StateInAir {
		return
	}

	a.events.addSound(SoundTrampoline)

	p.stateBackup = p.state
	p.state = StateInAir
	p.jumpingFrom = p.TilePos()

	var landing []core.Tile
	for y := p.jumpingFrom.Y - 3; y <= p.jumpingFrom.Y+3; y++ {
		for x := p.jumpingFrom.X - 3; x <= p.jumpingFrom.X+3; x++ {
			t := core.T(x, y)
			tile := a.TileAt(t)
			if tile != nil && a.TileIsWalkable(t) && tile.Special == SpecialNone {
				landing = append(landing, t)
			}
		}
	}

	if len(landing) == 0 {
		p.jumpingTo = p.jumpingFrom.Offset(0, 1)
	} else {
		p.jumpingTo = landing[a.rng.Intn(len(landing))]
	}

	p.stateTime = 0
}

// GiveItem applies an item to the player. The raw kind is recorded in the
// inventory before a random item re-rolls, so death scatters the random
// pickup itself, not its outcome.
func (p *Player) GiveItem(item ItemKind, a *Arena) {
	p.items[item]++

	if item == ItemRandom {
		item = rollableItems[a.rng.Intn(len(rollableItems))]
	}

	sound := SoundClick

	switch item {
	case ItemBomb:
		p.bombsLeft++
	case ItemFlame:
		p.flameLength++
	case ItemSuperFlame:
		p.flameLength = core.Max(MapWidth, MapHeight)
	case ItemMultibomb:
		p.hasMultibomb = true
	case ItemDetonator:
		p.detonatorBombsLeft = 3
	case ItemSpring:
		p.hasSpring = true
		sound = SoundSpring
	case ItemSpeedup:
		p.speed = core.ClampF(p.speed+p.tun.SpeedupValue, 0, p.tun.MaxSpeed)
	case ItemShoe:
		p.hasShoe = true
	case ItemBoxingGlove:
		p.hasBoxingGlove = true
	case ItemThrowingGlove:
		p.hasThrowingGlove = true
	case ItemDisease:
		sound = p.catchDisease(a)
	}

	a.events.addSound(sound)
}

var diseaseRoll = [8]struct {
	disease Disease
	sound   SoundEvent
}{
	{DiseaseShortFlame, SoundDisease},
	{DiseaseSlow, SoundSlow},
	{DiseaseDiarrhea, SoundDiarrhea},
	{DiseaseFastBomb, SoundDisease},
	{DiseaseReverseControls, SoundDisease},
	{DiseaseSwitchPlayers, SoundDisease},
	{DiseaseNoBomb, SoundDisease},
	{DiseaseEarthquake, SoundEarthquake},
}

func (p *Player) catchDisease(a *Arena) SoundEvent {
	chosen := diseaseRoll[a.rng.Intn(len(diseaseRoll))]

	switch chosen.disease {
	case DiseaseSwitchPlayers:
		var living []*Player
		for _, other := range a.players {
			if !other.IsDead() {
				living = append(living, other)
			}
		}
		if len(living) > 1 {
			other := p
			for other == p {
				other = living[a.rng.Intn(len(living))]
			}
			p.pos, other.pos = other.pos, p.pos
		}
	case DiseaseEarthquake:
		a.startEarthquake()
	default:
		p.setDisease(chosen.disease, p.tun.DiseaseDuration)
	}

	return chosen.sound
}

// layBomb places a bomb on the player's tile, or on an explicit tile when
// laying a multibomb row. Diseases shorten the flame or the fuse, and the
// detonator arms the next bombs for manual triggering.
func (p *Player) layBomb(a *Arena, at *core.Tile) {
	b := newBomb(p, p.tun)
	if at != nil {
		b.pos = at.Center()
	}

	a.AddBomb(b)
	a.events.addSound(SoundBombPut)
	p.bombsLeft--

	switch p.disease {
	case DiseaseShortFlame:
		b.FlameLength = 1
	case DiseaseFastBomb:
		b.explodesIn = p.tun.BombFuseQuick
	}

	if p.detonatorBombsLeft > 0 {
		b.detonatorTime = p.tun.DetonatorTime
		p.detonatorBombs = append(p.detonatorBombs, b)
		p.detonatorBombsLeft--
	}
}

// ReactToInputs applies one tick of input to the player: movement with
// collision resolution and wall sliding, bomb laying, throws, multibomb
// rows, kicks, boxes and the detonator. Input is ignored while dead or
// before the round starts.
func (p *Player) ReactToInputs(frame core.InputFrame, dt int, a *Arena) {
	if p.state == StateDead || a.state == RoundWaitingToPlay {
		return
	}

	if p.state == StateInAir || p.state == StateTeleporting {
		p.stateTime += dt

		duration := p.tun.JumpDuration
		if p.state == StateTeleporting {
			duration = p.tun.TeleportDuration
		}
		if p.stateTime < duration {
			return
		}
		if p.state == StateTeleporting {
			p.invincibleTimeLeft = p.tun.InvincibleDuration
		}
		p.state = p.stateBackup
		p.stateTime = 0
	}

	speed := p.speed
	if p.disease == DiseaseSlow {
		speed = p.tun.SlowSpeed
	}
	distance := float64(dt) / 1000.0 * speed

	p.throwingTimeLeft = core.Max(0, p.throwingTimeLeft-dt)
	p.invincibleTimeLeft = core.Max(0, p.invincibleTimeLeft-dt)

	oldState := p.state
	p.state = idleStates[p.Facing()]

	previousPos := p.pos

	actions := p.collectActions(frame)

	var (
		puttingBomb      bool
		puttingMultibomb bool
		throwing         bool
	)
	p.boxing = false

	moved := false
	bombPressed := false
	specialPressed := false
	detonatorTriggered := false

	for _, action := range actions {
		if p.disease == DiseaseReverseControls {
			action = action.Opposite()
		}

		if !moved {
			if d, ok := dirOfAction(action); ok {
				dx, dy := d.Delta()
				p.pos = p.pos.Add(core.V(float64(dx)*distance, float64(dy)*distance))
				p.state = walkingStates[d]
				moved = true
			}
		}

		switch action {
		case core.ActionBomb:
			bombPressed = true
			if !p.waitForBombRelease && p.bombsLeft >= 1 &&
				!a.TileHasBomb(p.TilePos()) && p.disease != DiseaseNoBomb {
				puttingBomb = true
			}

		case core.ActionBombDouble:
			if p.hasThrowingGlove {
				throwing = true
			} else if p.hasMultibomb {
				puttingMultibomb = true
			}

		case core.ActionSpecial:
			specialPressed = true
			if p.waitForSpecialRelease {
				break
			}

			// pop until a still-armed bomb is found; exploded and flying
			// bombs are skipped
			for len(p.detonatorBombs) > 0 {
				b := p.detonatorBombs[len(p.detonatorBombs)-1]
				p.detonatorBombs = p.detonatorBombs[:len(p.detonatorBombs)-1]

				if b.HasDetonator() && !b.exploded && b.movement != BombFlying {
					a.explodeBomb(b)
					detonatorTriggered = true
					p.waitForSpecialRelease = true
					break
				}
			}

			if !detonatorTriggered && p.hasBoxingGlove {
				p.boxing = true
			}
		}
	}

	if moved {
		a.events.addSound(SoundWalk)
	}
	if !specialPressed {
		p.waitForSpecialRelease = false
	}
	if !bombPressed {
		p.waitForBombRelease = false
	}

	currentTile := p.TilePos()
	transitioning := currentTile != previousPos.Tile()
	if transitioning {
		p.waitForTileTransition = false
	}

	// standing on a bomb without leaving its tile skips collision checks,
	// so the layer can step off their own bomb
	checkCollisions := true
	if a.TileHasBomb(currentTile) && !transitioning {
		checkCollisions = false
	}

	collisionHappened := false
	if checkCollisions {
		collisionHappened = p.resolveCollisions(a, distance, previousPos)
	}

	if puttingBomb && !a.TileHasBomb(p.TilePos()) && !a.TileHasTeleport(p.TilePos()) {
		p.layBomb(a, nil)
	}

	p.manageKickBox(a, collisionHappened)

	if throwing {
		a.events.addSound(SoundThrow)
		if b := a.BombOnTile(currentTile); b != nil {
			dx, dy := p.Facing().Delta()
			b.SendFlying(p.ForwardTile().Offset(dx*3, dy*3), a)
			p.waitForBombRelease = true
			p.throwingTimeLeft = p.tun.ThrowPose
		}
	} else if puttingMultibomb {
		dx, dy := p.Facing().Delta()
		for i := 1; p.bombsLeft > 0; i++ {
			next := currentTile.Offset(dx*i, dy*i)
			if !a.TileIsWalkable(next) || a.TileHasPlayer(next) {
				break
			}
			p.layBomb(a, &next)
		}
	}

	if p.disease != DiseaseNone {
		p.diseaseTimeLeft = core.Max(0, p.diseaseTimeLeft-dt)
		if p.diseaseTimeLeft == 0 {
			p.disease = DiseaseNone
		}
	}

	if oldState == p.state {
		p.stateTime += dt
	} else {
		p.stateTime = 0
	}
}

// actionOrder fixes the scan order of a frame, movement first.
var actionOrder = [...]core.Action{
	core.ActionUp, core.ActionRight, core.ActionDown, core.ActionLeft,
	core.ActionBomb, core.ActionBombDouble, core.ActionSpecial,
}

func (p *Player) collectActions(frame core.InputFrame) []core.Action {
	var actions []core.Action
	for _, action := range actionOrder {
		if frame.Has(action) {
			actions = append(actions, action)
		}
	}
	if p.disease == DiseaseDiarrhea {
		actions = append(actions, core.ActionBomb)
	}
	return actions
}

// resolveCollisions pushes the player out of walls. Walking into a border
// cancels the move; walking along it slides the player toward the tile
// center on the other axis.
func (p *Player) resolveCollisions(a *Arena, distance float64, previousPos core.Vec2) bool {
	switch a.PositionCollision(p.pos) {
	case CollisionTotal:
		p.pos = previousPos
		return true

	case CollisionBorderUp:
		switch p.state {
		case StateWalkingUp:
			p.pos = previousPos
			return true
		case StateWalkingLeft, StateWalkingRight:
			p.pos = p.pos.Add(core.V(distance, 0))
		}

	case CollisionBorderDown:
		switch p.state {
		case StateWalkingDown:
			p.pos = previousPos
			return true
		case StateWalkingLeft, StateWalkingRight:
			p.pos = p.pos.Add(core.V(-distance, 0))
		}

	case CollisionBorderRight:
		switch p.state {
		case StateWalkingRight:
			p.pos = previousPos
			return true
		case StateWalkingUp, StateWalkingDown:
			p.pos = p.pos.Add(core.V(0, -distance))
		}

	case CollisionBorderLeft:
		switch p.state {
		case StateWalkingLeft:
			p.pos = previousPos
			return true
		case StateWalkingUp, StateWalkingDown:
			p.pos = p.pos.Add(core.V(0, distance))
		}
	}

	return false
}

// manageKickBox kicks or boxes a bomb the player just walked into.
func (p *Player) manageKickBox(a *Arena, collisionHappened bool) {
	if !collisionHappened {
		return
	}
	if !p.hasShoe && !p.hasBoxingGlove {
		return
	}

	forward := p.ForwardTile()
	b := a.BombOnTile(forward)
	if b == nil {
		return
	}

	if p.boxing {
		dx, dy := p.Facing().Delta()
		b.SendFlying(forward.Offset(dx*3, dy*3), a)
		a.events.addSound(SoundKick)
		return
	}

	if p.hasShoe && p.IsWalking() {
		movement := rollingMovement(p.Facing())
		// realign a bomb that was already rolling on the other axis
		if movement == BombRollingLeft || movement == BombRollingRight {
			b.pos = core.V(b.pos.X, float64(b.TilePos().Y)+0.5)
		} else {
			b.pos = core.V(float64(b.TilePos().X)+0.5, b.pos.Y)
		}
		b.movement = movement
		a.events.addSound(SoundKick)
	}
}
