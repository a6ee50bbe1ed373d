// Package config provides YAML-based configuration loading for the
// bomber platform: match setup, rule overrides and server settings.
package config

// BomberConfig is the root of the configuration file.
type BomberConfig struct {
	Match  MatchConfig  `yaml:"match"`
	Rules  RulesConfig  `yaml:"rules"`
	Server ServerConfig `yaml:"server"`
}

// MatchConfig selects how a local match is set up.
type MatchConfig struct {
	Map         string `yaml:"map"`           // built-in map name
	Players     int    `yaml:"players"`       // total players, human plus AI (2-4)
	RoundsToWin int    `yaml:"rounds_to_win"` // round wins that end the match
}

// RulesConfig overrides simulation parameters. Zero values keep the
// defaults, so a sparse file only changes what it names.
type RulesConfig struct {
	BombFuseMs     int     `yaml:"bomb_fuse_ms"`
	FlameBurnoutMs int     `yaml:"flame_burnout_ms"`
	PlayerSpeed    float64 `yaml:"player_speed"`
	MaxSpeed       float64 `yaml:"max_speed"`
	DiseaseMs      int     `yaml:"disease_ms"`
	RollingSpeed   float64 `yaml:"rolling_speed"`
	FlyingSpeed    float64 `yaml:"flying_speed"`
}

// ServerConfig holds the SSH server settings.
type ServerConfig struct {
	Address         string `yaml:"address"`           // listen host:port
	HostKeyPath     string `yaml:"host_key"`          // empty auto-generates one
	DBPath          string `yaml:"db"`                // sqlite database path
	IdleTimeoutMins int    `yaml:"idle_timeout_mins"` // disconnect idle sessions
}

// DifficultyPreset is a named opponent setup.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// ValidPreset reports whether the name is a known preset.
func ValidPreset(preset DifficultyPreset) bool {
	switch preset {
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return true
	}
	return false
}
