package game

import (
	"fmt"
	"math/rand"

	"github.com/tuigames/tui-bomber/internal/core"
)

// RoundState is the coarse state machine of one round.
type RoundState int

const (
	RoundWaitingToPlay RoundState = iota // pre-countdown, input ignored
	RoundPlaying
	RoundFinishing // winner decided, map still animating
	RoundOver
)

// Collision margins. Horizontal borders (the tile edges above and below) use
// a tighter margin than vertical borders; player footprints are taller than
// they are wide.
const (
	wallMarginHorizontal = 0.2
	wallMarginVertical   = 0.4
)

// CollisionType classifies a continuous position against the map.
type CollisionType int

const (
	CollisionNone CollisionType = iota
	CollisionTotal
	CollisionBorderUp
	CollisionBorderRight
	CollisionBorderDown
	CollisionBorderLeft
)

// PlayerSlot describes one participant of a round.
type PlayerSlot struct {
	Number int // stable player number, also the starting-position digit
	Team   int // players with equal teams win together
	IsAI   bool
}

// delayedItems is a scheduled item give-away (dead player's inventory).
type delayedItems struct {
	at    int
	items []ItemKind
}

// Arena is one round's world: the tile grid, bombs, players and timers.
// It is mutated exclusively through Update and the player input methods,
// all on a single goroutine. Randomness goes through the owned rng so a
// fixed seed replays identically.
type Arena struct {
	environment string
	tiles       [][]MapTile
	bombs       []*Bomb
	players     []*Player
	byNumber    map[int]*Player

	timeFromStart int
	state         RoundState
	startGameAt   int
	endGameAt     int
	announceWinAt int
	winAnnounced  bool
	winnerTeam    int

	earthquakeTimeLeft int
	createDiseaseCloud int

	danger      [][]int
	dangerValid bool

	itemsToGive []delayedItems
	blocks      int

	startingItems []ItemKind

	tun Tuning
	rng *rand.Rand

	events eventQueue
}

// NewArena builds a fresh round from a map description and a set of player
// slots. Map items are hidden under random block tiles; extra items beyond
// the block count are dropped. Each player starts with one bomb, one flame
// and the map's starting items, centered on their numbered tile.
func NewArena(desc string, slots []PlayerSlot, tun Tuning, rng *rand.Rand) (*Arena, error) {
	pm, err := parseMapDescription(desc)
	if err != nil {
		return nil, fmt.Errorf("parse map: %w", err)
	}

	a := &Arena{
		environment: pm.environment,
		tiles:       pm.tiles,
		byNumber:    make(map[int]*Player),
		state:       RoundWaitingToPlay,
		startGameAt: tun.StartRoundAfter,
		endGameAt:   -1,
		winnerTeam:  -1,

		blocks:        pm.blocks,
		startingItems: pm.playerItems,
		tun:           tun,
		rng:           rng,
	}

	// hide map items under random blocks
	var blockTiles []*MapTile
	for y := range a.tiles {
		for x := range a.tiles[y] {
			if a.tiles[y][x].Kind == TileBlock {
				blockTiles = append(blockTiles, &a.tiles[y][x])
			}
		}
	}
	for _, item := range pm.mapItems {
		if len(blockTiles) == 0 {
			break
		}
		i := a.rng.Intn(len(blockTiles))
		blockTiles[i].Item = item
		blockTiles[i] = blockTiles[len(blockTiles)-1]
		blockTiles = blockTiles[:len(blockTiles)-1]
	}

	for _, slot := range slots {
		if slot.Number < 0 || slot.Number >= MaxPlayers {
			return nil, fmt.Errorf("player number %d out of range", slot.Number)
		}
		if !pm.hasStart[slot.Number] {
			return nil, fmt.Errorf("map has no starting position for player %d", slot.Number)
		}
		p := newPlayer(slot, pm.startPositions[slot.Number], &a.tun)
		a.players = append(a.players, p)
		a.byNumber[slot.Number] = p
	}

	for _, item := range pm.playerItems {
		for _, p := range a.players {
			p.GiveItem(item, a)
		}
	}

	return a, nil
}

// Width returns the grid width in tiles.
func (a *Arena) Width() int { return MapWidth }

// Height returns the grid height in tiles.
func (a *Arena) Height() int { return MapHeight }

// Environment returns the map's environment name (a render hint).
func (a *Arena) Environment() string { return a.environment }

// TimeFromStart returns the ms of simulated time since round start.
func (a *Arena) TimeFromStart() int { return a.timeFromStart }

// State returns the round state.
func (a *Arena) State() RoundState { return a.state }

// WinnerTeam returns the winning team once the round is finishing, -1 for a
// draw or while the round is still open.
func (a *Arena) WinnerTeam() int { return a.winnerTeam }

// BlockCount returns how many destroyable blocks remain.
func (a *Arena) BlockCount() int { return a.blocks }

// EarthquakeActive reports whether an earthquake shake is in progress.
func (a *Arena) EarthquakeActive() bool { return a.earthquakeTimeLeft > 0 }

func (a *Arena) startEarthquake() {
	a.earthquakeTimeLeft = a.tun.EarthquakeDuration
}

// Players returns the round's players.
func (a *Arena) Players() []*Player { return a.players }

// PlayerByNumber resolves a player number to its player, nil if absent.
// Dead players stay resolvable until the round ends.
func (a *Arena) PlayerByNumber(n int) *Player { return a.byNumber[n] }

// Bombs returns the live bombs.
func (a *Arena) Bombs() []*Bomb { return a.bombs }

// Events exposes the drainable sound/animation queues.
func (a *Arena) Events() *eventQueue { return &a.events }

// TileAt returns the tile at the given coordinates, nil when out of bounds.
func (a *Arena) TileAt(t core.Tile) *MapTile {
	if !a.TileIsWithinMap(t) {
		return nil
	}
	return &a.tiles[t.Y][t.X]
}

// TileIsWithinMap checks the coordinates against the grid extents.
func (a *Arena) TileIsWithinMap(t core.Tile) bool {
	return t.X >= 0 && t.Y >= 0 && t.X < MapWidth && t.Y < MapHeight
}

// TileIsWalkable reports whether a player can enter the tile: it must be in
// bounds, be a floor (or a block already burning down) and hold no bomb.
// Flying bombs do not occupy their tile.
func (a *Arena) TileIsWalkable(t core.Tile) bool {
	tile := a.TileAt(t)
	if tile == nil {
		return false
	}
	return (tile.Kind == TileFloor || tile.ToBeDestroyed) && !a.TileHasBomb(t)
}

// TileHasBomb reports whether a non-flying bomb occupies the tile.
func (a *Arena) TileHasBomb(t core.Tile) bool {
	return a.BombOnTile(t) != nil
}

// BombOnTile returns the first non-flying bomb on the tile, nil if none.
func (a *Arena) BombOnTile(t core.Tile) *Bomb {
	for _, b := range a.bombs {
		if b.movement != BombFlying && b.TilePos() == t {
			return b
		}
	}
	return nil
}

func (a *Arena) bombsOnTile(t core.Tile) []*Bomb {
	var out []*Bomb
	for _, b := range a.bombs {
		if b.movement != BombFlying && b.TilePos() == t {
			out = append(out, b)
		}
	}
	return out
}

// TileHasFlame reports whether any flame burns on the tile.
func (a *Arena) TileHasFlame(t core.Tile) bool {
	tile := a.TileAt(t)
	return tile != nil && tile.HasFlame()
}

// TileHasLava reports whether the tile carries lava.
func (a *Arena) TileHasLava(t core.Tile) bool {
	tile := a.TileAt(t)
	return tile != nil && tile.Special == SpecialLava
}

// TileHasTeleport reports whether the tile carries either teleport class.
func (a *Arena) TileHasTeleport(t core.Tile) bool {
	tile := a.TileAt(t)
	return tile != nil && tile.Special.IsTeleport()
}

// PlayersAtTile returns the living, grounded players on the tile.
func (a *Arena) PlayersAtTile(t core.Tile) []*Player {
	var out []*Player
	for _, p := range a.players {
		if !p.IsDead() && !p.IsInAir() && p.TilePos() == t {
			out = append(out, p)
		}
	}
	return out
}

// TileHasPlayer reports whether a living player stands on the tile.
func (a *Arena) TileHasPlayer(t core.Tile) bool {
	return len(a.PlayersAtTile(t)) > 0
}

// PositionCollision classifies a continuous position. A non-walkable
// containing tile is a total collision; otherwise the position is checked
// against its four neighbors with the two asymmetric margins, the
// horizontal borders taking precedence.
func (a *Arena) PositionCollision(pos core.Vec2) CollisionType {
	tile := pos.Tile()
	if !a.TileIsWalkable(tile) {
		return CollisionTotal
	}

	frac := pos.Frac()

	if frac.Y < wallMarginHorizontal {
		if !a.TileIsWalkable(tile.Offset(0, -1)) {
			return CollisionBorderUp
		}
	} else if frac.Y > 1.0-wallMarginHorizontal {
		if !a.TileIsWalkable(tile.Offset(0, 1)) {
			return CollisionBorderDown
		}
	}

	if frac.X < wallMarginVertical {
		if !a.TileIsWalkable(tile.Offset(-1, 0)) {
			return CollisionBorderLeft
		}
	} else if frac.X > 1.0-wallMarginVertical {
		if !a.TileIsWalkable(tile.Offset(1, 0)) {
			return CollisionBorderRight
		}
	}

	return CollisionNone
}

// AddBomb inserts a bomb into the arena.
func (a *Arena) AddBomb(b *Bomb) {
	a.bombs = append(a.bombs, b)
}

// giveAwayItems schedules a dead player's inventory to scatter over the map
// after the give-away delay.
func (a *Arena) giveAwayItems(items []ItemKind) {
	if len(items) == 0 {
		return
	}
	a.itemsToGive = append(a.itemsToGive, delayedItems{
		at:    a.timeFromStart + a.tun.GiveAwayDelay,
		items: items,
	})
}

// spreadItems drops items onto random eligible floor tiles: no special
// object, no item, no player standing there. Extra items beyond the
// eligible tiles are discarded.
func (a *Arena) spreadItems(items []ItemKind) {
	var eligible []*MapTile
	for y := 0; y < MapHeight; y++ {
		for x := 0; x < MapWidth; x++ {
			tile := &a.tiles[y][x]
			if tile.Kind == TileFloor && tile.Special == SpecialNone &&
				tile.Item == ItemNone && !a.TileHasPlayer(core.T(x, y)) {
				eligible = append(eligible, tile)
			}
		}
	}

	for _, item := range items {
		if len(eligible) == 0 {
			break
		}
		i := a.rng.Intn(len(eligible))
		eligible[i].Item = item
		eligible[i] = eligible[len(eligible)-1]
		eligible = eligible[:len(eligible)-1]
	}
}

// explodeBomb removes the bomb and spreads flames: an all-directions flame
// on its own tile, then four independent bounded walks outward. A wall stops
// a walk before placing flame; a block receives flame and stops the walk;
// the last flame of a stopped walk is retagged from its axis to the
// terminal direction. Chained bombs are picked up by the tile scan in
// Update, which detonates any bomb sitting inside flame.
func (a *Arena) explodeBomb(b *Bomb) {
	a.events.addSound(SoundExplosion)

	origin := b.TilePos()
	center := a.TileAt(origin)
	if center != nil {
		center.Flames = append(center.Flames, &Flame{
			Owner:         b.Owner,
			TimeToBurnout: a.tun.FlameBurnout,
			Direction:     FlameAll,
		})
	}

	for _, d := range Dirs {
		dx, dy := d.Delta()
		axisTag := FlameVertical
		if dy == 0 {
			axisTag = FlameHorizontal
		}

		var prev *Flame
		stopped := false
		for i := 1; i <= b.FlameLength && !stopped; i++ {
			t := origin.Offset(dx*i, dy*i)
			tile := a.TileAt(t)
			if tile == nil || tile.Kind == TileWall {
				stopped = true
				break
			}

			flame := &Flame{
				Owner:         b.Owner,
				TimeToBurnout: a.tun.FlameBurnout,
				Direction:     axisTag,
			}
			tile.Flames = append(tile.Flames, flame)
			prev = flame

			if tile.Kind == TileBlock {
				stopped = true
			}
		}
		if prev != nil {
			// the walk ended here, whether by obstacle or range
			prev.Direction = flameDirOf(d)
		}
	}

	b.explode(a)
	a.removeBomb(b)
}

func (a *Arena) removeBomb(b *Bomb) {
	for i, other := range a.bombs {
		if other == b {
			a.bombs = append(a.bombs[:i], a.bombs[i+1:]...)
			return
		}
	}
}

// Update advances the whole simulation by dt milliseconds: timers, pending
// give-aways, bombs, flames and block burnouts, players, and the round
// state machine.
func (a *Arena) Update(dt int) {
	a.timeFromStart += dt
	a.dangerValid = false

	a.earthquakeTimeLeft = core.Max(0, a.earthquakeTimeLeft-dt)

	kept := a.itemsToGive[:0]
	for _, give := range a.itemsToGive {
		if a.timeFromStart >= give.at {
			a.spreadItems(give.items)
		} else {
			kept = append(kept, give)
		}
	}
	a.itemsToGive = kept

	a.updateBombs(dt)
	a.updateTiles(dt)
	a.updatePlayers(dt)
	a.updateRoundState()
}

// updateBombs advances fuses, lava detonation, flight and rolling. The bomb
// list is mutated while scanning, so iteration restarts from a snapshot.
func (a *Arena) updateBombs(dt int) {
	snapshot := make([]*Bomb, len(a.bombs))
	copy(snapshot, a.bombs)

	for _, b := range snapshot {
		if b.exploded {
			a.removeBomb(b)
			continue
		}

		b.timeOfExistence += dt
		tile := b.TilePos()

		if b.movement != BombFlying && b.timeOfExistence > b.explodesIn+b.detonatorTime {
			a.explodeBomb(b)
			continue
		}
		if b.movement != BombFlying && a.TileHasLava(tile) && b.isNearTileCenter() {
			a.explodeBomb(b)
			continue
		}

		switch {
		case b.movement == BombFlying:
			a.updateFlyingBomb(b, dt)
		case b.movement != BombStationary:
			a.updateRollingBomb(b, dt)
		}
	}
}

func (a *Arena) updateFlyingBomb(b *Bomb, dt int) {
	b.flight.distanceTravelled += float64(dt) / 1000.0 * a.tun.FlyingSpeed
	if b.flight.distanceTravelled < b.flight.totalDistance {
		return
	}

	tile := b.TilePos()
	a.events.addSound(SoundBombPut)

	if !a.TileIsWalkable(tile) || a.TileHasPlayer(tile) || a.TileHasTeleport(tile) {
		// occupied landing: rebound one tile further in the same direction
		b.SendFlying(tile.Offset(b.flight.dx, b.flight.dy), a)
		return
	}

	b.movement = BombStationary
	if t := a.TileAt(tile); t != nil {
		t.Item = ItemNone
	}
}

func (a *Arena) updateRollingBomb(b *Bomb, dt int) {
	tile := b.TilePos()

	if b.isNearTileCenter() {
		if arrowDir, ok := a.specialAt(tile).arrowDir(); ok {
			target := rollingMovement(arrowDir)
			if b.movement != target {
				b.movement = target
				// re-center on the crossing axis
				if arrowDir == DirUp || arrowDir == DirDown {
					b.pos = core.V(float64(tile.X)+0.5, b.pos.Y)
				} else {
					b.pos = core.V(b.pos.X, float64(tile.Y)+0.5)
				}
			}
		}
	}

	if t := a.TileAt(tile); t != nil && t.Item != ItemNone {
		t.Item = ItemNone // rolling bombs destroy items
	}

	frac := b.pos.Frac()
	distance := float64(dt) / 1000.0 * a.tun.RollingSpeed

	// the collision probe only fires in the half of the tile the bomb is
	// rolling toward, so a bomb can leave the tile it stopped in
	const lo, hi = 0.5, 0.9

	var (
		checkCollision bool
		forward        core.Tile
		opposite       BombMovement
	)

	switch b.movement {
	case BombRollingUp:
		b.pos = core.V(b.pos.X, b.pos.Y-distance)
		opposite = BombRollingDown
		if 1-hi < frac.Y && frac.Y < 1-lo {
			checkCollision = true
			forward = tile.Offset(0, -1)
		}
	case BombRollingRight:
		b.pos = core.V(b.pos.X+distance, b.pos.Y)
		opposite = BombRollingLeft
		if lo < frac.X && frac.X < hi {
			checkCollision = true
			forward = tile.Offset(1, 0)
		}
	case BombRollingDown:
		b.pos = core.V(b.pos.X, b.pos.Y+distance)
		opposite = BombRollingUp
		if lo < frac.Y && frac.Y < hi {
			checkCollision = true
			forward = tile.Offset(0, 1)
		}
	case BombRollingLeft:
		b.pos = core.V(b.pos.X-distance, b.pos.Y)
		opposite = BombRollingRight
		if 1-hi < frac.X && frac.X < 1-lo {
			checkCollision = true
			forward = tile.Offset(-1, 0)
		}
	}

	if checkCollision &&
		(!a.TileIsWalkable(forward) || a.TileHasPlayer(forward) || a.TileHasTeleport(forward)) {
		b.moveToTileCenter()
		if b.hasSpring {
			b.movement = opposite
			a.events.addSound(SoundSpring)
		} else {
			b.movement = BombStationary
			a.events.addSound(SoundKick)
		}
	}
}

func (a *Arena) specialAt(t core.Tile) Special {
	tile := a.TileAt(t)
	if tile == nil {
		return SpecialNone
	}
	return tile.Special
}

// updateTiles reverts burnt-out blocks to floor, marks blocks under flame
// for destruction, burns items, detonates bombs caught in flame and expires
// flames.
func (a *Arena) updateTiles(dt int) {
	for y := 0; y < MapHeight; y++ {
		for x := 0; x < MapWidth; x++ {
			tile := &a.tiles[y][x]
			here := core.T(x, y)

			if tile.ToBeDestroyed && tile.Kind == TileBlock && !tile.HasFlame() {
				tile.Kind = TileFloor
				tile.ToBeDestroyed = false
				a.blocks--
			}

			if !tile.HasFlame() {
				continue
			}

			if tile.Kind == TileBlock {
				tile.ToBeDestroyed = true
			} else if tile.Kind == TileFloor && tile.Item != ItemNone {
				tile.Item = ItemNone
			}

			for _, b := range a.bombsOnTile(here) {
				a.explodeBomb(b)
			}

			kept := tile.Flames[:0]
			for _, flame := range tile.Flames {
				flame.TimeToBurnout -= dt
				if flame.TimeToBurnout >= 0 {
					kept = append(kept, flame)
				}
			}
			tile.Flames = kept
		}
	}
}

// updatePlayers handles death by flame or lava (with kill attribution),
// item pickup, mid-air and teleport snapping, trampolines and teleports,
// and disease transmission.
func (a *Arena) updatePlayers(dt int) {
	releaseCloud := false
	if a.timeFromStart >= a.createDiseaseCloud {
		a.createDiseaseCloud = a.timeFromStart + 200
		releaseCloud = true
	}

	for _, p := range a.players {
		if p.IsDead() {
			continue
		}

		if releaseCloud && p.disease != DiseaseNone {
			a.events.addAnimation(AnimationDiseaseCloud, p.pos)
		}

		tilePos := p.TilePos()
		tile := a.TileAt(tilePos)
		if tile == nil {
			continue
		}

		if !p.IsInAir() && !p.IsTeleporting() && !p.IsInvincible() &&
			(tile.HasFlame() || tile.Special == SpecialLava) {
			for _, flame := range tile.Flames {
				if owner := a.PlayerByNumber(flame.Owner); owner != nil {
					if owner == p {
						owner.kills-- // self kill
					} else {
						owner.kills++
					}
				}
			}
			p.kill(a)
			continue
		}

		if tile.Item != ItemNone {
			p.GiveItem(tile.Item, a)
			tile.Item = ItemNone
		}

		switch {
		case p.IsInAir():
			if p.stateTime > a.tun.JumpDuration/2 {
				p.moveToTileCenterOf(p.jumpingTo)
			}
		case p.IsTeleporting():
			if p.stateTime > a.tun.TeleportDuration/2 {
				p.moveToTileCenterOf(p.teleportingTo)
			}
		case tile.Special == SpecialTrampoline && p.isNearTileCenter():
			p.sendToAir(a)
		case tile.Special.IsTeleport() && p.isNearTileCenter():
			p.teleport(a)
		case p.disease != DiseaseNone:
			for _, other := range a.PlayersAtTile(tilePos) {
				if other != p && other.disease == DiseaseNone {
					other.setDisease(p.disease, p.diseaseTimeLeft)
				}
			}
		}
	}
}

// updateRoundState advances WaitingToPlay -> Playing -> Finishing -> Over.
// The round finishes once no two living players belong to different teams;
// all dead is a draw.
func (a *Arena) updateRoundState() {
	if a.state == RoundWaitingToPlay && a.timeFromStart >= a.startGameAt {
		a.state = RoundPlaying
		a.events.addSound(SoundGo)
	}

	if a.state == RoundFinishing {
		if a.timeFromStart >= a.endGameAt {
			a.state = RoundOver
		} else if !a.winAnnounced && a.timeFromStart >= a.announceWinAt {
			if a.winnerTeam >= 0 && a.winnerTeam <= 9 {
				a.events.addSound(SoundWin0 + SoundEvent(a.winnerTeam))
			}
			a.winAnnounced = true
		}
		return
	}

	if a.state != RoundPlaying {
		return
	}

	over := true
	winning := -1
	for _, p := range a.players {
		if p.IsDead() {
			continue
		}
		if winning == -1 {
			winning = p.Team
		} else if winning != p.Team {
			over = false
			break
		}
	}

	if over {
		a.state = RoundFinishing
		a.winnerTeam = winning
		a.announceWinAt = a.timeFromStart + a.tun.AnnounceWinIn
		a.endGameAt = a.timeFromStart + a.tun.EndRoundIn
	}
}
