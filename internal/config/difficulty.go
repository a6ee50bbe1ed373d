package config

// ApplyPreset adjusts a config for a named difficulty. Easy trims the
// opponent count and slows their bombs; hard fills the arena and
// shortens fuses. Unknown presets leave the config unchanged.
func ApplyPreset(cfg *BomberConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Match.Players = 2
		cfg.Rules.BombFuseMs = 3500
		cfg.Rules.FlameBurnoutMs = 800
	case DifficultyNormal:
		cfg.Match.Players = 3
		cfg.Rules.BombFuseMs = 3000
	case DifficultyHard:
		cfg.Match.Players = 4
		cfg.Rules.BombFuseMs = 2500
		cfg.Rules.FlameBurnoutMs = 1200
	}
}

// Normalize clamps user-supplied values to the ranges the engine
// accepts. Zero or negative rule values fall back to defaults.
func Normalize(cfg *BomberConfig) {
	def := DefaultBomberConfig()

	cfg.Match.Players = clampI(cfg.Match.Players, 2, 4)
	cfg.Match.RoundsToWin = clampI(cfg.Match.RoundsToWin, 1, 9)
	if cfg.Match.Map == "" {
		cfg.Match.Map = def.Match.Map
	}

	if cfg.Rules.BombFuseMs <= 0 {
		cfg.Rules.BombFuseMs = def.Rules.BombFuseMs
	}
	if cfg.Rules.FlameBurnoutMs <= 0 {
		cfg.Rules.FlameBurnoutMs = def.Rules.FlameBurnoutMs
	}
	if cfg.Rules.PlayerSpeed <= 0 {
		cfg.Rules.PlayerSpeed = def.Rules.PlayerSpeed
	}
	if cfg.Rules.MaxSpeed < cfg.Rules.PlayerSpeed {
		cfg.Rules.MaxSpeed = def.Rules.MaxSpeed
	}
	if cfg.Rules.DiseaseMs <= 0 {
		cfg.Rules.DiseaseMs = def.Rules.DiseaseMs
	}
	if cfg.Rules.RollingSpeed <= 0 {
		cfg.Rules.RollingSpeed = def.Rules.RollingSpeed
	}
	if cfg.Rules.FlyingSpeed <= 0 {
		cfg.Rules.FlyingSpeed = def.Rules.FlyingSpeed
	}

	if cfg.Server.Address == "" {
		cfg.Server.Address = def.Server.Address
	}
	if cfg.Server.DBPath == "" {
		cfg.Server.DBPath = def.Server.DBPath
	}
	if cfg.Server.IdleTimeoutMins <= 0 {
		cfg.Server.IdleTimeoutMins = def.Server.IdleTimeoutMins
	}
}

func clampI(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
