// Package config provides YAML-based configuration loading for codegrid:
// playback pacing, compiler limits, storage and level locations.
package config

import (
	"fmt"
	"time"
)

// Config is the full application configuration.
type Config struct {
	Playback PlaybackConfig `yaml:"playback"`
	Compiler CompilerConfig `yaml:"compiler"`
	Storage  StorageConfig  `yaml:"storage"`
	Levels   LevelsConfig   `yaml:"levels"`
	Replay   ReplayConfig   `yaml:"replay"`
	Log      LogConfig      `yaml:"log"`
}

// PlaybackConfig controls how fast runs are animated.
type PlaybackConfig struct {
	Speed SpeedPreset `yaml:"speed"`
	// Delays maps an animation phase to its delay in milliseconds.
	Delays map[string]int `yaml:"delays_ms"`
	// Overrides replaces base delays for a single game.
	Overrides map[string]map[string]int `yaml:"overrides_ms"`
}

// CompilerConfig bounds program expansion.
type CompilerConfig struct {
	Budget   int `yaml:"budget"`
	MaxDepth int `yaml:"max_depth"`
}

// StorageConfig locates the progress database.
type StorageConfig struct {
	DB      string `yaml:"db"`
	Student string `yaml:"student"`
}

// LevelsConfig points at extra level packs.
type LevelsConfig struct {
	Dir string `yaml:"dir"`
}

// ReplayConfig locates recorded run transcripts.
type ReplayConfig struct {
	Dir string `yaml:"dir"`
}

// LogConfig sets the log level (debug, info, warn, error).
type LogConfig struct {
	Level string `yaml:"level"`
}

// Delay returns the pause after a phase of game at the configured speed.
// Unknown phases fall back to the "step" delay.
func (p PlaybackConfig) Delay(game, phase string) time.Duration {
	ms, ok := p.Overrides[game][phase]
	if !ok {
		ms, ok = p.Delays[phase]
	}
	if !ok {
		ms = p.Delays["step"]
	}
	return time.Duration(float64(ms)*p.Speed.Multiplier()) * time.Millisecond
}

// Validate reports settings that cannot work.
func (c Config) Validate() error {
	if _, err := ParseSpeedPreset(string(c.Playback.Speed)); err != nil {
		return err
	}
	for phase, ms := range c.Playback.Delays {
		if ms < 0 {
			return fmt.Errorf("config: negative delay %dms for phase %q", ms, phase)
		}
	}
	for game, m := range c.Playback.Overrides {
		for phase, ms := range m {
			if ms < 0 {
				return fmt.Errorf("config: negative delay %dms for %s phase %q", ms, game, phase)
			}
		}
	}
	if c.Compiler.Budget <= 0 {
		return fmt.Errorf("config: compiler budget must be positive, got %d", c.Compiler.Budget)
	}
	if c.Compiler.MaxDepth <= 0 {
		return fmt.Errorf("config: compiler max_depth must be positive, got %d", c.Compiler.MaxDepth)
	}
	return nil
}
