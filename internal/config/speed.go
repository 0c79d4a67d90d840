package config

import (
	"fmt"
	"strings"
)

// SpeedPreset represents a named playback speed.
type SpeedPreset string

const (
	SpeedNormal SpeedPreset = "normal"
	SpeedFast   SpeedPreset = "fast"
)

// Multiplier scales every delay. Fast halves them.
func (s SpeedPreset) Multiplier() float64 {
	switch s {
	case SpeedFast:
		return 0.5
	default:
		return 1.0
	}
}

// Label is the short on-screen name of the preset.
func (s SpeedPreset) Label() string {
	if s == SpeedFast {
		return "2x"
	}
	return "1x"
}

// Next cycles to the other preset.
func (s SpeedPreset) Next() SpeedPreset {
	if s == SpeedFast {
		return SpeedNormal
	}
	return SpeedFast
}

// ParseSpeedPreset accepts a preset name or its label ("1x", "2x").
// An empty string selects normal speed.
func ParseSpeedPreset(s string) (SpeedPreset, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal", "1x", "1":
		return SpeedNormal, nil
	case "fast", "2x", "2":
		return SpeedFast, nil
	default:
		return "", fmt.Errorf("config: unknown speed %q (use normal or fast)", s)
	}
}
