package game

// PlayerSnapshot captures one player's externally visible state.
type PlayerSnapshot struct {
	Number      int
	Team        int
	X, Y        float64
	State       PlayerState
	BombsLeft   int
	FlameLength int
	Disease     Disease
	Kills       int
}

// BombSnapshot captures one bomb's externally visible state.
type BombSnapshot struct {
	X, Y        float64
	Owner       int
	FlameLength int
	Movement    BombMovement
	Detonator   bool
}

// ArenaSnapshot captures the round state for determinism verification and
// replay comparison. Two arenas stepped identically from the same seed
// produce equal snapshots.
type ArenaSnapshot struct {
	Time       int
	State      RoundState
	WinnerTeam int
	Blocks     int
	Players    []PlayerSnapshot
	Bombs      []BombSnapshot
}

// Snapshot captures the whole match state for determinism verification.
type Snapshot struct {
	Round     int
	Wins      map[int]int
	MatchOver bool
	Winner    int
	Arena     ArenaSnapshot
}

// Snapshot returns the current match snapshot.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Round:     g.round,
		Wins:      make(map[int]int, len(g.teamWins)),
		MatchOver: g.matchOver,
		Winner:    g.winner,
	}
	for team, wins := range g.teamWins {
		s.Wins[team] = wins
	}
	if g.arena != nil {
		s.Arena = g.arena.Snapshot()
	}
	return s
}

// Snapshot returns the arena's current snapshot.
func (a *Arena) Snapshot() ArenaSnapshot {
	s := ArenaSnapshot{
		Time:       a.timeFromStart,
		State:      a.state,
		WinnerTeam: a.winnerTeam,
		Blocks:     a.blocks,
	}

	for _, p := range a.players {
		s.Players = append(s.Players, PlayerSnapshot{
			Number:      p.Number,
			Team:        p.Team,
			X:           p.pos.X,
			Y:           p.pos.Y,
			State:       p.state,
			BombsLeft:   p.bombsLeft,
			FlameLength: p.flameLength,
			Disease:     p.disease,
			Kills:       p.kills,
		})
	}

	for _, b := range a.bombs {
		s.Bombs = append(s.Bombs, BombSnapshot{
			X:           b.pos.X,
			Y:           b.pos.Y,
			Owner:       b.Owner,
			FlameLength: b.FlameLength,
			Movement:    b.movement,
			Detonator:   b.HasDetonator(),
		})
	}

	return s
}
