package game

import "github.com/tuigames/tui-bomber/internal/core"

// SoundEvent identifies a discrete audible event produced by the simulation.
// The platform drains these once per frame and decides how to present them.
type SoundEvent int

const (
	SoundExplosion SoundEvent = iota
	SoundBombPut
	SoundWalk
	SoundKick
	SoundDiarrhea
	SoundSpring
	SoundSlow
	SoundDisease
	SoundClick
	SoundThrow
	SoundTrampoline
	SoundTeleport
	SoundDeath
	SoundWin0
	SoundWin1
	SoundWin2
	SoundWin3
	SoundWin4
	SoundWin5
	SoundWin6
	SoundWin7
	SoundWin8
	SoundWin9
	SoundGoAway
	SoundEarthquake
	SoundConfirm
	SoundGo
	SoundAllItems
)

// Label returns a short status-line text for the sound. Sounds too
// frequent to flash return an empty string.
func (s SoundEvent) Label() string {
	switch s {
	case SoundExplosion:
		return "BOOM"
	case SoundKick:
		return "kick"
	case SoundSpring:
		return "boing"
	case SoundDiarrhea, SoundSlow, SoundDisease:
		return "infected!"
	case SoundThrow:
		return "throw"
	case SoundTrampoline:
		return "wheee"
	case SoundTeleport:
		return "teleport"
	case SoundDeath:
		return "aargh"
	case SoundGoAway:
		return "go away!"
	case SoundEarthquake:
		return "earthquake!"
	case SoundGo:
		return "GO!"
	case SoundAllItems:
		return "jackpot!"
	}
	if s >= SoundWin0 && s <= SoundWin9 {
		return "we have a winner"
	}
	return ""
}

// AnimationKind identifies a one-shot overlay animation.
type AnimationKind int

const (
	AnimationDie AnimationKind = iota
	AnimationExplosion
	AnimationRIP
	AnimationSkeleton
	AnimationDiseaseCloud
)

// AnimationEvent is an animation request with its map position.
type AnimationEvent struct {
	Kind AnimationKind
	Pos  core.Vec2
}

// eventQueue collects sound and animation events raised during a tick.
type eventQueue struct {
	sounds     []SoundEvent
	animations []AnimationEvent
}

func (q *eventQueue) addSound(s SoundEvent) {
	q.sounds = append(q.sounds, s)
}

func (q *eventQueue) addAnimation(kind AnimationKind, pos core.Vec2) {
	q.animations = append(q.animations, AnimationEvent{Kind: kind, Pos: pos})
}

// DrainSounds returns and clears the accumulated sound events.
func (q *eventQueue) DrainSounds() []SoundEvent {
	out := q.sounds
	q.sounds = nil
	return out
}

// DrainAnimations returns and clears the accumulated animation events.
func (q *eventQueue) DrainAnimations() []AnimationEvent {
	out := q.animations
	q.animations = nil
	return out
}
