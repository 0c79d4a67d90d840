package playback

import (
	"context"
	"testing"
	"time"

	"github.com/vovakirdan/codegrid/internal/config"
	"github.com/vovakirdan/codegrid/internal/engine"
)

func TestPacerFollowsConfig(t *testing.T) {
	p := NewPacer(config.Default().Playback)

	if got := p.Delay("karelworld", engine.PhaseStep); got != 280*time.Millisecond {
		t.Errorf("Delay(step) = %v, expected 280ms", got)
	}
	if got := p.Delay("tank", engine.PhaseBullet); got != 70*time.Millisecond {
		t.Errorf("Delay(bullet) = %v, expected 70ms", got)
	}

	if p.Toggle() != config.SpeedFast || p.Speed() != config.SpeedFast {
		t.Fatal("Toggle() did not switch to fast")
	}
	if got := p.Delay("karelworld", engine.PhaseStep); got != 140*time.Millisecond {
		t.Errorf("Delay(step) at 2x = %v, expected 140ms", got)
	}
	if p.Toggle() != config.SpeedNormal {
		t.Error("Toggle() did not switch back to normal")
	}
}

func TestSpeedChangeAppliesMidRun(t *testing.T) {
	pacer := NewPacer(config.Default().Playback)
	clock := &RecordingClock{}
	clock.OnSleep = func(n int, _ time.Duration) {
		if n == 1 {
			pacer.Toggle()
		}
	}
	d := New(Options{Clock: clock, Delay: pacer.Delay})

	if _, err := d.Run(context.Background(), corridor(), moves(3)); err != nil {
		t.Fatal(err)
	}
	want := []time.Duration{280 * time.Millisecond, 140 * time.Millisecond, 140 * time.Millisecond}
	got := clock.Delays()
	if len(got) != len(want) {
		t.Fatalf("delays = %v, expected %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("delay %d = %v, expected %v", i, got[i], want[i])
		}
	}
}
