package playback

import (
	"sync"
	"time"

	"github.com/vovakirdan/codegrid/internal/config"
	"github.com/vovakirdan/codegrid/internal/engine"
)

// Pacer serves configured delays and lets the speed change while a run
// is in progress. Its Delay method is a DelayFunc.
type Pacer struct {
	mu  sync.RWMutex
	cfg config.PlaybackConfig
}

// NewPacer creates a pacer from playback settings.
func NewPacer(cfg config.PlaybackConfig) *Pacer {
	return &Pacer{cfg: cfg}
}

// Delay returns the pause after phase at the current speed.
func (p *Pacer) Delay(game string, phase engine.Phase) time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cfg.Delay(game, string(phase))
}

// Speed returns the current preset.
func (p *Pacer) Speed() config.SpeedPreset {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.cfg.Speed
}

// Toggle switches to the other preset and returns it.
func (p *Pacer) Toggle() config.SpeedPreset {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cfg.Speed = p.cfg.Speed.Next()
	return p.cfg.Speed
}
