package config

import (
	_ "embed"
)

//go:embed defaults/bomber.yaml
var defaultBomberYAML []byte

// DefaultBomberConfig returns the hardcoded defaults, used when even
// the embedded YAML fails to parse.
func DefaultBomberConfig() BomberConfig {
	return BomberConfig{
		Match: MatchConfig{
			Map:         "classic",
			Players:     4,
			RoundsToWin: 3,
		},
		Rules: RulesConfig{
			BombFuseMs:     3000,
			FlameBurnoutMs: 1000,
			PlayerSpeed:    3,
			MaxSpeed:       10,
			DiseaseMs:      20000,
			RollingSpeed:   4,
			FlyingSpeed:    5,
		},
		Server: ServerConfig{
			Address:         ":23234",
			HostKeyPath:     "",
			DBPath:          "~/.bomber/scores.db",
			IdleTimeoutMins: 30,
		},
	}
}
