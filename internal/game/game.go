package game

import (
	"fmt"
	"math/rand"

	"github.com/tuigames/tui-bomber/internal/core"
	"github.com/tuigames/tui-bomber/internal/maps"
	"github.com/tuigames/tui-bomber/internal/registry"
)

// Game runs a best-of-N match of bomber rounds. Player number 0 is the
// local human; the remaining slots are AI driven. It satisfies the
// registry interface for single-terminal play and the online interface
// for two-human matches over SSH.
type Game struct {
	cfg core.RuntimeConfig
	rng *rand.Rand

	mapName     string
	playerCount int
	humanCount  int
	roundsToWin int

	arena    *Arena
	planners []*Planner
	tun      Tuning
	msTick   int

	round     int
	teamWins  map[int]int
	kills     map[int]int
	matchOver bool
	winner    int

	paused    bool
	pauseHeld bool

	forcedMap string
	mapErr    error
}

// Package-level match settings, applied on the next Reset.
var (
	selectedMap    = maps.DefaultName
	selectedCount  = 4
	selectedWins   = 3
	selectedTuning = DefaultTuning()
)

// SetMapName selects the built-in map for new matches. Unknown names fall
// back to the default.
func SetMapName(name string) {
	if maps.Exists(name) {
		selectedMap = name
	}
}

// GetMapName returns the currently selected map name.
func GetMapName() string { return selectedMap }

// SetPlayerCount sets how many players (human plus AI) a new match has.
func SetPlayerCount(n int) {
	selectedCount = core.Clamp(n, 2, 4)
}

// GetPlayerCount returns the currently selected player count.
func GetPlayerCount() int { return selectedCount }

// SetRoundsToWin sets how many round wins end the match.
func SetRoundsToWin(n int) {
	selectedWins = core.Clamp(n, 1, 9)
}

// GetRoundsToWin returns the currently selected win target.
func GetRoundsToWin() int { return selectedWins }

// SetTuning replaces the simulation parameters used by new matches.
// Config files use it to override fuses and speeds.
func SetTuning(t Tuning) { selectedTuning = t }

// GetTuning returns the currently selected simulation parameters.
func GetTuning() Tuning { return selectedTuning }

// New creates a single-human match against AI opponents.
func New() *Game {
	return &Game{humanCount: 1}
}

// NewVersus creates a two-human match for online play. Player numbers 0
// and 1 take input from the multi-frame; the rest stay AI.
func NewVersus() *Game {
	return &Game{humanCount: 2}
}

// UseMap pins this instance to a map, overriding the package-level
// selection on the next Reset. Server-side matches use it so that
// concurrent lobbies with different maps do not race on the globals.
func (g *Game) UseMap(name string) {
	if maps.Exists(name) {
		g.forcedMap = name
	}
}

func init() {
	registry.Register("bomber", func() registry.Game {
		return New()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string { return "bomber" }

// Title returns the display name.
func (g *Game) Title() string { return "Bomber" }

// Reset starts a fresh match with the currently selected settings.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.cfg = cfg
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.tun = selectedTuning

	g.mapName = selectedMap
	if g.forcedMap != "" {
		g.mapName = g.forcedMap
	}
	g.playerCount = selectedCount
	g.roundsToWin = selectedWins

	g.msTick = 1000 / core.Max(1, cfg.TickRate)

	g.round = 0
	g.teamWins = make(map[int]int)
	g.kills = make(map[int]int)
	g.matchOver = false
	g.winner = -1
	g.paused = false
	g.pauseHeld = false

	g.startRound()
}

// startRound builds a new arena, carrying kill counts over from earlier
// rounds.
func (g *Game) startRound() {
	g.round++

	desc, err := maps.Get(g.mapName)
	if err != nil {
		g.mapErr = err
		g.matchOver = true
		return
	}

	slots := make([]PlayerSlot, 0, g.playerCount)
	for i := 0; i < g.playerCount; i++ {
		slots = append(slots, PlayerSlot{
			Number: i,
			Team:   i,
			IsAI:   i >= g.humanCount,
		})
	}

	arena, err := NewArena(desc, slots, g.tun, g.rng)
	if err != nil {
		g.mapErr = err
		g.matchOver = true
		return
	}
	g.arena = arena

	g.planners = g.planners[:0]
	for _, p := range arena.Players() {
		p.SetKills(g.kills[p.Number])
		p.SetWins(g.teamWins[p.Team])
		if p.IsAI {
			g.planners = append(g.planners, NewPlanner(p, arena))
		}
	}
}

// Step advances one tick with single-player input on slot 0.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	multi := core.NewMultiInputFrame()
	multi.SetPlayer(core.Player1, in)
	return g.StepMulti(multi)
}

// StepMulti advances one tick with per-player input. AI slots ignore the
// frame and use their planners.
func (g *Game) StepMulti(multi core.MultiInputFrame) core.StepResult {
	if g.matchOver {
		return core.StepResult{State: g.State()}
	}

	g.handlePause(multi.Player1())
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	a := g.arena

	for _, p := range a.Players() {
		var frame core.InputFrame
		if p.IsAI {
			frame = g.plannerFor(p).Play()
		} else {
			frame = multi.Player(core.PlayerID(p.Number))
		}
		p.ReactToInputs(frame, g.msTick, a)
	}

	a.Update(g.msTick)

	if a.State() == RoundOver {
		g.finishRound()
	}

	return core.StepResult{State: g.State()}
}

func (g *Game) handlePause(in core.InputFrame) {
	held := in.Has(core.ActionPause)
	if held && !g.pauseHeld {
		g.paused = !g.paused
	}
	g.pauseHeld = held
}

func (g *Game) plannerFor(p *Player) *Planner {
	for _, pl := range g.planners {
		if pl.player == p {
			return pl
		}
	}
	return NewPlanner(p, g.arena)
}

// finishRound books the round result and either ends the match or starts
// the next round.
func (g *Game) finishRound() {
	a := g.arena

	for _, p := range a.Players() {
		g.kills[p.Number] = p.Kills()
	}

	if team := a.WinnerTeam(); team >= 0 {
		g.teamWins[team]++
		if g.teamWins[team] >= g.roundsToWin {
			g.matchOver = true
			g.winner = team
			return
		}
	}

	g.startRound()
}

// Arena exposes the current round for rendering detail and tests.
func (g *Game) Arena() *Arena { return g.arena }

// Round returns the 1-based number of the current round.
func (g *Game) Round() int { return g.round }

// MapName returns the map the current match plays on.
func (g *Game) MapName() string { return g.mapName }

// HumanCount returns how many player slots take keyboard input.
func (g *Game) HumanCount() int { return g.humanCount }

// TeamWins returns how many rounds the team has won so far.
func (g *Game) TeamWins(team int) int { return g.teamWins[team] }

// IsGameOver reports whether the match has ended.
func (g *Game) IsGameOver() bool { return g.matchOver }

// Winner returns the winning team of a finished match, -1 otherwise.
func (g *Game) Winner() int { return g.winner }

// Score1 returns round wins of the first player, for online scoreboards.
func (g *Game) Score1() int { return g.teamWins[0] }

// Score2 returns round wins of the second player, for online scoreboards.
func (g *Game) Score2() int { return g.teamWins[1] }

// State returns the platform-level game state. Score counts the local
// player's round wins.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.teamWins[0],
		GameOver: g.matchOver,
		Paused:   g.paused,
	}
}

// DrainSounds hands out and clears the sounds produced since last call.
func (g *Game) DrainSounds() []SoundEvent {
	if g.arena == nil {
		return nil
	}
	return g.arena.Events().DrainSounds()
}

// DrainAnimations hands out and clears the animations produced since last
// call.
func (g *Game) DrainAnimations() []AnimationEvent {
	if g.arena == nil {
		return nil
	}
	return g.arena.Events().DrainAnimations()
}

// Render draws the match: HUD, arena grid and the overlays for countdown,
// round result, pause and match end.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.mapErr != nil {
		dst.DrawTextCentered(dst.Height()/2, fmt.Sprintf("map error: %v", g.mapErr))
		return
	}

	a := g.arena
	if a == nil {
		return
	}

	g.renderHUD(dst)

	gridW := MapWidth * tileCellWidth
	ox := core.Max(0, (dst.Width()-gridW)/2)
	oy := 3
	a.RenderTo(dst, ox, oy)

	g.renderPlayerBoards(dst, oy+MapHeight+1)

	switch {
	case g.matchOver:
		label := "Draw"
		if g.winner >= 0 {
			label = fmt.Sprintf("Player %d wins the match!", g.winner)
		}
		g.renderOverlay(dst, label, "Press Esc for menu")
	case g.paused:
		g.renderOverlay(dst, "Paused", "Press P to continue")
	case a.State() == RoundWaitingToPlay:
		left := a.startGameAt - a.TimeFromStart()
		count := core.Clamp(left/1000+1, 1, 3)
		dst.DrawTextCentered(oy+MapHeight/2, fmt.Sprintf("-- %d --", count))
	case a.State() == RoundFinishing || a.State() == RoundOver:
		label := "Draw"
		if a.WinnerTeam() >= 0 {
			label = fmt.Sprintf("Player %d wins the round!", a.WinnerTeam())
		}
		dst.DrawTextCentered(oy+MapHeight/2, label)
	}
}

func (g *Game) renderHUD(dst *core.Screen) {
	hud := fmt.Sprintf(" Bomber | %s  Round %d  First to %d", g.mapName, g.round, g.roundsToWin)
	dst.DrawText(0, 0, hud)
	dst.DrawHLine(0, 1, dst.Width(), '─')
}

// renderPlayerBoards draws one status line per player under the grid.
func (g *Game) renderPlayerBoards(dst *core.Screen, y int) {
	for i, p := range g.arena.Players() {
		status := "alive"
		if p.IsDead() {
			status = "dead"
		}
		line := fmt.Sprintf(" P%d  wins:%d kills:%d bombs:%d flame:%d  %s",
			p.Number, g.teamWins[p.Team], p.Kills(), p.BombsLeft(), p.FlameLength(), status)
		if p.Disease() != DiseaseNone {
			line += "  [" + p.Disease().String() + "]"
		}
		dst.DrawTextColored(0, y+i, line, TeamColor(p.Team))
	}
}

func (g *Game) renderOverlay(dst *core.Screen, line1, line2 string) {
	w, h := dst.Width(), dst.Height()

	boxW := core.Max(len(line1), len(line2)) + 4
	boxH := 5
	box := core.NewRect((w-boxW)/2, (h-boxH)/2, boxW, boxH)

	dst.DrawRect(box, ' ')
	dst.DrawBox(box)
	dst.DrawTextCentered(box.Y+1, line1)
	dst.DrawTextCentered(box.Y+3, line2)
}
