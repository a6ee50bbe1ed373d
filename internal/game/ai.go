package game

import "github.com/tuigames/tui-bomber/internal/core"

// Planner drives one AI-controlled player. Decisions are cached and
// replayed for a short random interval, which both saves work and keeps
// the movement from looking jittery. All randomness uses the arena's rng.
type Planner struct {
	player *Player
	arena  *Arena

	outputs        core.InputFrame
	recomputeOn    int
	didntMoveSince int
}

// NewPlanner creates a planner for the given player in the given arena.
func NewPlanner(p *Player, a *Arena) *Planner {
	return &Planner{
		player:  p,
		arena:   a,
		outputs: core.NewInputFrame(),
	}
}

// Play returns the input frame the AI wants applied this tick. Between
// recomputations the previous frame is repeated; the cache is also held
// while the player is mid-jump or mid-teleport.
func (ai *Planner) Play() core.InputFrame {
	p, a := ai.player, ai.arena

	if p.IsDead() {
		return core.NewInputFrame()
	}

	now := a.TimeFromStart()
	if now < ai.recomputeOn || p.IsInAir() || p.IsTeleporting() {
		return ai.outputs
	}

	ai.outputs = core.NewInputFrame()

	currentTile := p.TilePos()
	trapped := ai.isTrapped()
	escapeRatings := ai.rateBombEscapeDirections(currentTile)

	var (
		chosenMove    Dir
		haveMove      bool
		chosenMoveDir Dir // before reverse-controls compensation
	)

	switch {
	case trapped:
		// spin randomly and hope a box punch frees us
		chosenMove = Dir(a.rng.Intn(4))
		haveMove = true

	case a.TileHasBomb(currentTile):
		// standing on a bomb, run toward the best escape
		best := DirUp
		for _, d := range Dirs[1:] {
			if escapeRatings[d] > escapeRatings[best] {
				best = d
			}
		}
		chosenMove = best
		haveMove = true

	default:
		maxScore := ai.rateTile(currentTile)
		bestMoves := []int{-1} // -1 means stand still

		gdx, gdy := ai.generalDirection()

		for _, d := range Dirs {
			dx, dy := d.Delta()
			score := ai.rateTile(currentTile.Offset(dx, dy))

			// bias toward the first living enemy
			if dx == gdx {
				score += 2
			}
			if dy == gdy {
				score += 2
			}

			if score > maxScore {
				maxScore = score
				bestMoves = []int{int(d)}
			} else if score == maxScore {
				bestMoves = append(bestMoves, int(d))
			}
		}

		pick := bestMoves[a.rng.Intn(len(bestMoves))]
		if pick >= 0 {
			chosenMove = Dir(pick)
			haveMove = true
		}
	}

	if haveMove {
		chosenMoveDir = chosenMove

		action := chosenMove.Action()
		if p.Disease() == DiseaseReverseControls {
			// pre-compensate so the reversed input lands where intended
			action = action.Opposite()
		}
		ai.outputs.Set(action)
		ai.didntMoveSince = now
	}

	if now-ai.didntMoveSince > p.tun.AIStallTimeout {
		ai.outputs.Set(Dir(a.rng.Intn(4)).Action())
	}

	bombLaid := false

	if a.TileHasBomb(currentTile) {
		if p.CanThrow() && maxRating(escapeRatings) == 0 {
			ai.outputs.Set(core.ActionBombDouble)
		}
	} else if p.BombsLeft() > 0 &&
		(p.CanThrow() || (a.DangerValue(currentTile) > 2000 && maxRating(escapeRatings) > 0)) {

		chance := 100 // one in how many

		enemies, allies := ai.playersNearby()
		if enemies > 0 && allies == 0 {
			chance = 5
		} else {
			blockRatio := float64(a.BlockCount()) / float64(MapWidth*MapHeight)
			if blockRatio < 0.4 {
				chance = 80
			}
		}

		switch ai.blocksNextToTile(currentTile) {
		case 1:
			chance = 3
		case 2, 3:
			chance = 2
		}

		if a.rng.Intn(chance+1) == 0 {
			bombLaid = true
			if a.rng.Intn(3) == 0 && ai.shouldLayMultibomb(chosenMoveDir, haveMove) {
				ai.outputs.Set(core.ActionBombDouble)
			} else {
				ai.outputs.Set(core.ActionBomb)
			}
		}
	}

	if p.CanBox() && !p.DetonatorIsActive() {
		if trapped || a.TileHasBomb(p.ForwardTile()) {
			ai.outputs.Set(core.ActionSpecial)
		}
	}

	if bombLaid {
		// recompute fast so the row of bombs stays a deliberate choice
		ai.recomputeOn = now + p.tun.AIRecomputeLay
	} else {
		span := p.tun.AIRecomputeMax - p.tun.AIRecomputeMin
		ai.recomputeOn = now + p.tun.AIRecomputeMin + a.rng.Intn(span+1)
	}

	if p.DetonatorIsActive() {
		if a.rng.Intn(3) == 0 && a.DangerValue(currentTile) >= p.tun.SafeDangerValue {
			ai.outputs.Set(core.ActionSpecial)
		}
	}

	return ai.outputs
}

func maxRating(r [4]int) int {
	m := r[0]
	for _, v := range r[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// tileIsEscapable reports whether a fleeing player could pass the tile:
// walkable, no flame, no lava.
func (ai *Planner) tileIsEscapable(t core.Tile) bool {
	if !ai.arena.TileIsWalkable(t) || ai.arena.TileHasFlame(t) {
		return false
	}
	return !ai.arena.TileHasLava(t)
}

// generalDirection returns a clamped heading toward the first living
// enemy, so movement bias never points off the map.
func (ai *Planner) generalDirection() (int, int) {
	target := ai.player
	for _, other := range ai.arena.players {
		if !other.IsDead() && other.IsEnemy(ai.player) {
			target = other
			break
		}
	}

	my := ai.player.TilePos()
	theirs := target.TilePos()

	return core.Clamp(theirs.X-my.X, -1, 1), core.Clamp(theirs.Y-my.Y, -1, 1)
}

// rateBombEscapeDirections scores the four directions out of a tile
// assuming a bomb sits on it: how many safe tiles are reachable that way.
// Zero means running there is death.
func (ai *Planner) rateBombEscapeDirections(t core.Tile) [4]int {
	var result [4]int

	for _, d := range Dirs {
		dx, dy := d.Delta()
		// perpendicular axis
		px, py := dy, dx
		if px < 0 {
			px = -px
		}
		if py < 0 {
			py = -py
		}

		for i := 1; i <= ai.player.FlameLength()+1; i++ {
			axisTile := t.Offset(dx*i, dy*i)
			if !ai.tileIsEscapable(axisTile) {
				break
			}

			if i > ai.player.FlameLength() &&
				ai.arena.DangerValue(axisTile) >= ai.player.tun.SafeDangerValue {
				result[d]++
			}

			for _, side := range [2]core.Tile{axisTile.Offset(px, py), axisTile.Offset(-px, -py)} {
				if ai.tileIsEscapable(side) &&
					ai.arena.DangerValue(side) >= ai.player.tun.SafeDangerValue {
					result[d]++
				}
			}
		}
	}

	return result
}

// rateTile scores a tile from 0 (deadly or blocked) to roughly 80.
func (ai *Planner) rateTile(t core.Tile) int {
	a := ai.arena

	danger := a.DangerValue(t)
	if danger == 0 {
		return 0
	}

	var score int
	switch {
	case danger < 1000:
		score = 20
	case danger < 2500:
		score = 40
	default:
		score = 60
	}

	if tile := a.TileAt(t); tile != nil && tile.Item != ItemNone {
		if tile.Item != ItemDisease {
			score += 20
		} else {
			score -= 10
		}
	}

	for _, d := range Dirs {
		dx, dy := d.Delta()
		if a.TileHasLava(t.Offset(dx, dy)) {
			score -= 5 // don't go near lava
			break
		}
	}

	if a.TileHasBomb(t) && !ai.player.CanBox() {
		score -= 5
	}

	return score
}

// isTrapped reports whether no neighboring tile is walkable.
func (ai *Planner) isTrapped() bool {
	t := ai.player.TilePos()
	for _, d := range Dirs {
		dx, dy := d.Delta()
		if ai.arena.TileIsWalkable(t.Offset(dx, dy)) {
			return false
		}
	}
	return true
}

func (ai *Planner) blocksNextToTile(t core.Tile) int {
	count := 0
	for _, d := range Dirs {
		dx, dy := d.Delta()
		tile := ai.arena.TileAt(t.Offset(dx, dy))
		if tile != nil && tile.Kind == TileBlock {
			count++
		}
	}
	return count
}

// playersNearby counts living players within the neighboring 3x3 box.
func (ai *Planner) playersNearby() (enemies, allies int) {
	my := ai.player.TilePos()

	for _, other := range ai.arena.players {
		if other == ai.player || other.IsDead() {
			continue
		}
		theirs := other.TilePos()
		if core.Abs(my.X-theirs.X) <= 1 && core.Abs(my.Y-theirs.Y) <= 1 {
			if other.IsEnemy(ai.player) {
				enemies++
			} else {
				allies++
			}
		}
	}
	return enemies, allies
}

// shouldLayMultibomb decides whether a whole row of bombs can be laid in
// the facing direction without cutting off the last escape route.
func (ai *Planner) shouldLayMultibomb(move Dir, haveMove bool) bool {
	p, a := ai.player, ai.arena

	if p.CanThrow() {
		return false
	}

	count := p.MultibombCount()
	if count <= 1 {
		return false
	}

	currentTile := p.TilePos()

	dir := p.Facing()
	if haveMove {
		dir = move
	}

	// the row itself blocks that direction
	ratings := ai.rateBombEscapeDirections(currentTile)
	ratings[dir] = 0
	if maxRating(ratings) == 0 {
		return false
	}

	dx, dy := p.Facing().Delta()
	tile := currentTile
	for i := 0; i < count; i++ {
		if !a.TileIsWalkable(tile) {
			break
		}
		if a.DangerValue(tile) < 3000 || a.TileHasLava(tile) {
			return false
		}
		tile = tile.Offset(dx, dy)
	}

	return true
}
