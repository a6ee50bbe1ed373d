package game

import "fmt"

// ItemKind enumerates the twelve pickups a block can hide.
type ItemKind int

const (
	ItemNone ItemKind = iota
	ItemBomb
	ItemFlame
	ItemSuperFlame
	ItemSpeedup
	ItemDisease
	ItemRandom
	ItemSpring
	ItemShoe
	ItemMultibomb
	ItemBoxingGlove
	ItemDetonator
	ItemThrowingGlove
)

// allItems lists every pickup kind in declaration order.
var allItems = [...]ItemKind{
	ItemBomb,
	ItemFlame,
	ItemSuperFlame,
	ItemSpeedup,
	ItemDisease,
	ItemRandom,
	ItemSpring,
	ItemShoe,
	ItemMultibomb,
	ItemBoxingGlove,
	ItemDetonator,
	ItemThrowingGlove,
}

// rollableItems are the kinds ItemRandom can re-roll into.
var rollableItems = [...]ItemKind{
	ItemBomb,
	ItemFlame,
	ItemSuperFlame,
	ItemMultibomb,
	ItemSpring,
	ItemShoe,
	ItemSpeedup,
	ItemDisease,
	ItemBoxingGlove,
	ItemDetonator,
	ItemThrowingGlove,
}

// itemForLetter decodes one letter of an item string in a map description.
func itemForLetter(c rune) (ItemKind, error) {
	switch c {
	case 'f':
		return ItemFlame, nil
	case 'F':
		return ItemSuperFlame, nil
	case 'b':
		return ItemBomb, nil
	case 'k':
		return ItemShoe, nil
	case 's':
		return ItemSpeedup, nil
	case 'p':
		return ItemSpring, nil
	case 'd':
		return ItemDisease, nil
	case 'm':
		return ItemMultibomb, nil
	case 'r':
		return ItemRandom, nil
	case 'x':
		return ItemBoxingGlove, nil
	case 'e':
		return ItemDetonator, nil
	case 't':
		return ItemThrowingGlove, nil
	}
	return ItemNone, fmt.Errorf("unknown item letter %q", c)
}

// Letter returns the map-description letter of the item.
func (i ItemKind) Letter() rune {
	switch i {
	case ItemFlame:
		return 'f'
	case ItemSuperFlame:
		return 'F'
	case ItemBomb:
		return 'b'
	case ItemShoe:
		return 'k'
	case ItemSpeedup:
		return 's'
	case ItemSpring:
		return 'p'
	case ItemDisease:
		return 'd'
	case ItemMultibomb:
		return 'm'
	case ItemRandom:
		return 'r'
	case ItemBoxingGlove:
		return 'x'
	case ItemDetonator:
		return 'e'
	case ItemThrowingGlove:
		return 't'
	}
	return '?'
}

func (i ItemKind) String() string {
	switch i {
	case ItemNone:
		return "none"
	case ItemBomb:
		return "bomb"
	case ItemFlame:
		return "flame"
	case ItemSuperFlame:
		return "superflame"
	case ItemSpeedup:
		return "speedup"
	case ItemDisease:
		return "disease"
	case ItemRandom:
		return "random"
	case ItemSpring:
		return "spring"
	case ItemShoe:
		return "shoe"
	case ItemMultibomb:
		return "multibomb"
	case ItemBoxingGlove:
		return "boxing glove"
	case ItemDetonator:
		return "detonator"
	case ItemThrowingGlove:
		return "throwing glove"
	default:
		return "unknown"
	}
}

// Disease enumerates the eight negative effects the disease item can apply.
// SwitchPlayers and Earthquake take effect immediately on pickup; the rest
// stick to the player for a fixed duration.
type Disease int

const (
	DiseaseNone Disease = iota
	DiseaseShortFlame
	DiseaseSlow
	DiseaseReverseControls
	DiseaseDiarrhea
	DiseaseSwitchPlayers
	DiseaseFastBomb
	DiseaseNoBomb
	DiseaseEarthquake
)

func (d Disease) String() string {
	switch d {
	case DiseaseNone:
		return "none"
	case DiseaseShortFlame:
		return "short flame"
	case DiseaseSlow:
		return "slow"
	case DiseaseReverseControls:
		return "reverse controls"
	case DiseaseDiarrhea:
		return "diarrhea"
	case DiseaseSwitchPlayers:
		return "switch players"
	case DiseaseFastBomb:
		return "fast bomb"
	case DiseaseNoBomb:
		return "no bomb"
	case DiseaseEarthquake:
		return "earthquake"
	default:
		return "unknown"
	}
}
