package game

// Tuning holds every numeric parameter of the simulation. All durations are
// in milliseconds, all speeds in tiles per second. The zero value is not
// usable; start from DefaultTuning and override selectively.
type Tuning struct {
	StartRoundAfter int // pre-round countdown before input is accepted
	AnnounceWinIn   int // delay between the win condition and the announcement
	EndRoundIn      int // delay between the win condition and round end

	BombFuse      int // fuse of a regular bomb, strict > comparison
	BombFuseQuick int // fuse under the fast-bomb disease
	DetonatorTime int // how long a detonator keeps a bomb remote-controlled
	FlameBurnout  int // how long one flame cell burns

	RollingSpeed float64
	FlyingSpeed  float64

	PlayerSpeed  float64 // initial walking speed
	SlowSpeed    float64 // speed under the slow disease
	MaxSpeed     float64 // cap for speedup items
	SpeedupValue float64 // per speedup item

	JumpDuration       int // trampoline flight
	TeleportDuration   int
	InvincibleDuration int // grace window after a teleport
	DiseaseDuration    int
	ThrowPose          int // how long the throwing pose is held

	GiveAwayDelay      int // dead player's items scatter after this
	EarthquakeDuration int

	SafeDangerValue     int // danger-map sentinel for "no known threat"
	DetonatorDangerTime int // assumed time-to-explosion of detonator bombs

	AIRecomputeMin int // AI decision cache lifetime bounds
	AIRecomputeMax int
	AIRecomputeLay int // cache lifetime right after laying a bomb
	AIStallTimeout int // forced move after this long without moving
}

// DefaultTuning returns the standard parameter set.
func DefaultTuning() Tuning {
	return Tuning{
		StartRoundAfter: 2500,
		AnnounceWinIn:   2000,
		EndRoundIn:      5000,

		BombFuse:      3000,
		BombFuseQuick: 800,
		DetonatorTime: 20000,
		FlameBurnout:  1000,

		RollingSpeed: 4,
		FlyingSpeed:  5,

		PlayerSpeed:  3,
		SlowSpeed:    1.5,
		MaxSpeed:     10,
		SpeedupValue: 1,

		JumpDuration:       2000,
		TeleportDuration:   1500,
		InvincibleDuration: 1000,
		DiseaseDuration:    20000,
		ThrowPose:          200,

		GiveAwayDelay:      3000,
		EarthquakeDuration: 10000,

		SafeDangerValue:     5000,
		DetonatorDangerTime: 100,

		AIRecomputeMin: 100,
		AIRecomputeMax: 300,
		AIRecomputeLay: 10,
		AIStallTimeout: 10000,
	}
}
