package wheel

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Easing maps linear progress in [0,1] to eased progress in [0,1]
type Easing func(t float64) float64

// Linear is the identity easing
func Linear(t float64) float64 { return t }

// EaseOutCubic decelerates toward the end
func EaseOutCubic(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// EaseOutQuart decelerates harder than EaseOutCubic
func EaseOutQuart(t float64) float64 {
	return 1 - math.Pow(1-t, 4)
}

// Default animation parameters
const (
	DefaultFullRotations = 6
	DefaultJitterRatio   = 0.6
	DefaultSpinDuration  = 4 * time.Second
	DefaultRevealOffset  = 400 * time.Millisecond
	DefaultWatchdogGrace = 1500 * time.Millisecond
	DefaultIdleStepDeg   = 0.25
	DefaultIdlePeriod    = time.Second / 60
)

// ErrInvalidOptions is returned by Options.Validate
var ErrInvalidOptions = errors.New("invalid wheel options")

// Options configures an Animator
type Options struct {
	Segments         int
	PointerOffsetDeg float64
	FullRotations    int
	// JitterRatio scales the random landing offset as a fraction of half a segment
	JitterRatio   float64
	SpinDuration  time.Duration
	RevealOffset  time.Duration
	WatchdogGrace time.Duration
	IdleStepDeg   float64
	IdlePeriod    time.Duration
	Easing        Easing
	// Random returns values in [0,1); it drives jitter and free spins
	Random func() float64
}

// DefaultOptions returns the default options for a wheel of n segments
func DefaultOptions(n int) Options {
	return Options{
		Segments:      n,
		FullRotations: DefaultFullRotations,
		JitterRatio:   DefaultJitterRatio,
		SpinDuration:  DefaultSpinDuration,
		RevealOffset:  DefaultRevealOffset,
		WatchdogGrace: DefaultWatchdogGrace,
		IdleStepDeg:   DefaultIdleStepDeg,
		IdlePeriod:    DefaultIdlePeriod,
		Easing:        EaseOutCubic,
	}
}

// Validate checks the option ranges
func (o Options) Validate() error {
	switch {
	case o.Segments < 1:
		return fmt.Errorf("%w: segments must be at least 1, got %d", ErrInvalidOptions, o.Segments)
	case o.SpinDuration <= 0:
		return fmt.Errorf("%w: spin duration must be positive", ErrInvalidOptions)
	case o.RevealOffset < 0 || o.RevealOffset >= o.SpinDuration:
		return fmt.Errorf("%w: reveal offset %s must be in [0, %s)", ErrInvalidOptions, o.RevealOffset, o.SpinDuration)
	case o.JitterRatio < 0 || o.JitterRatio >= 1:
		return fmt.Errorf("%w: jitter ratio must be in [0, 1), got %v", ErrInvalidOptions, o.JitterRatio)
	case o.FullRotations < 0:
		return fmt.Errorf("%w: full rotations must not be negative", ErrInvalidOptions)
	case o.WatchdogGrace <= 0:
		return fmt.Errorf("%w: watchdog grace must be positive", ErrInvalidOptions)
	case o.IdlePeriod <= 0:
		return fmt.Errorf("%w: idle period must be positive", ErrInvalidOptions)
	}
	return nil
}

// RevealAt is the delay from spin start to the reveal callback
func (o Options) RevealAt() time.Duration {
	return o.SpinDuration - o.RevealOffset
}

// WatchdogAt is the delay from spin start after which a spin is force-settled
func (o Options) WatchdogAt() time.Duration {
	return o.SpinDuration + o.WatchdogGrace
}
