package wheel

import (
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/osse101/SpinWheel_Go/internal/logger"
	"github.com/osse101/SpinWheel_Go/internal/scheduler"
	"github.com/osse101/SpinWheel_Go/internal/utils"
)

// Task names, visible in scheduler handles and logs
const (
	TaskIdle     = "wheel.idle"
	TaskReveal   = "wheel.reveal"
	TaskSettle   = "wheel.settle"
	TaskWatchdog = "wheel.watchdog"
)

var (
	// ErrClosed is returned by every operation after Close
	ErrClosed = errors.New("wheel animator closed")
	// ErrBusy is returned when a spin is requested outside the idle state
	ErrBusy = errors.New("wheel is not idle")
)

// SpinEvent describes one spin. It is delivered to the reveal and settle callbacks.
type SpinEvent struct {
	Generation    uint64
	Index         int
	FinalRotation float64
	// Forced is set on settle when the watchdog had to end the spin
	Forced bool
}

type spinRun struct {
	event   SpinEvent
	from    float64
	started time.Time

	revealed bool
	handles  []scheduler.Handle
}

// Animator turns a target segment into a rotation and drives the reveal and settle timeline.
// All timers go through the injected scheduler so Close can cancel every one of them.
type Animator struct {
	opts   Options
	timers scheduler.Timers
	clock  clockwork.Clock

	mu         sync.Mutex
	state      State
	rotation   float64
	generation uint64
	idle       scheduler.Handle
	current    *spinRun
	closed     bool
	onReveal   func(SpinEvent)
	onSettle   func(SpinEvent)

	// emitMu keeps reveal and settle callbacks from interleaving
	emitMu sync.Mutex
}

// NewAnimator validates opts and starts the idle rotation
func NewAnimator(timers scheduler.Timers, clock clockwork.Clock, opts Options) (*Animator, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if opts.Easing == nil {
		opts.Easing = EaseOutCubic
	}
	if opts.Random == nil {
		opts.Random = utils.RandomFloat
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	a := &Animator{
		opts:   opts,
		timers: timers,
		clock:  clock,
		state:  StateIdle,
	}
	a.mu.Lock()
	a.startIdleLocked()
	a.mu.Unlock()
	return a, nil
}

// OnReveal registers the callback fired shortly before the wheel stops
func (a *Animator) OnReveal(fn func(SpinEvent)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onReveal = fn
}

// OnSettle registers the callback fired when the wheel stops
func (a *Animator) OnSettle(fn func(SpinEvent)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onSettle = fn
}

// Segments returns the number of segments on the wheel
func (a *Animator) Segments() int {
	return a.opts.Segments
}

// State returns the current lifecycle state
func (a *Animator) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}

// Rotation returns the current visual angle in degrees, unnormalized while spinning
func (a *Animator) Rotation() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state != StateSpinning || a.current == nil {
		return a.rotation
	}
	progress := float64(a.clock.Since(a.current.started)) / float64(a.opts.SpinDuration)
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	run := a.current
	return run.from + (run.event.FinalRotation-run.from)*a.opts.Easing(progress)
}

// SpinTo starts a spin landing on segment index. Out-of-range indexes are clamped.
func (a *Animator) SpinTo(index int) (SpinEvent, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.checkSpinnableLocked(); err != nil {
		return SpinEvent{}, err
	}

	n := a.opts.Segments
	index = ClampIndex(index, n)
	target := TargetAngle(index, n, a.opts.PointerOffsetDeg)
	jitter := (a.opts.Random()*2 - 1) * MaxJitter(n, a.opts.JitterRatio)
	final := FinalRotation(a.rotation, target, a.opts.FullRotations, jitter)

	return a.beginSpinLocked(index, final), nil
}

// SpinFree starts a spin to an unweighted random angle and derives the winning segment from it.
// It is used when no server-confirmed outcome exists, so the result is for display only.
func (a *Animator) SpinFree() (SpinEvent, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.checkSpinnableLocked(); err != nil {
		return SpinEvent{}, err
	}

	final := a.rotation + FullTurn*float64(a.opts.FullRotations) + a.opts.Random()*FullTurn
	index := WinningIndex(final, a.opts.Segments, a.opts.PointerOffsetDeg)

	return a.beginSpinLocked(index, final), nil
}

// Acknowledge returns a settled wheel to idle and restarts the idle rotation
func (a *Animator) Acknowledge() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return ErrClosed
	}
	next, err := Transition(a.state, EventAcknowledge)
	if err != nil {
		return err
	}
	a.state = next
	a.current = nil
	a.startIdleLocked()
	return nil
}

// Close cancels every pending timer. No callback fires after Close returns,
// except one that was already executing.
func (a *Animator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.closed = true
	a.stopIdleLocked()
	if a.current != nil {
		for _, h := range a.current.handles {
			h.Cancel()
		}
		a.current = nil
	}
}

func (a *Animator) checkSpinnableLocked() error {
	if a.closed {
		return ErrClosed
	}
	if _, err := Transition(a.state, EventSpin); err != nil {
		return errors.Join(ErrBusy, err)
	}
	return nil
}

func (a *Animator) beginSpinLocked(index int, final float64) SpinEvent {
	a.stopIdleLocked()
	a.state = StateSpinning
	a.generation++

	gen := a.generation
	run := &spinRun{
		event: SpinEvent{
			Generation:    gen,
			Index:         index,
			FinalRotation: final,
		},
		from:    a.rotation,
		started: a.clock.Now(),
	}
	run.handles = []scheduler.Handle{
		a.timers.After(TaskReveal, a.opts.RevealAt(), func() { a.reveal(gen) }),
		a.timers.After(TaskSettle, a.opts.SpinDuration, func() { a.settle(gen, false) }),
		a.timers.After(TaskWatchdog, a.opts.WatchdogAt(), func() { a.settle(gen, true) }),
	}
	a.current = run
	return run.event
}

func (a *Animator) reveal(gen uint64) {
	a.emitMu.Lock()
	defer a.emitMu.Unlock()

	a.mu.Lock()
	run := a.liveRunLocked(gen)
	if run == nil || run.revealed {
		a.mu.Unlock()
		return
	}
	run.revealed = true
	ev, cb := run.event, a.onReveal
	a.mu.Unlock()

	if cb != nil {
		cb(ev)
	}
}

func (a *Animator) settle(gen uint64, forced bool) {
	a.emitMu.Lock()
	defer a.emitMu.Unlock()

	a.mu.Lock()
	run := a.liveRunLocked(gen)
	if run == nil {
		a.mu.Unlock()
		return
	}
	next, err := Transition(a.state, EventSettle)
	if err != nil {
		a.mu.Unlock()
		return
	}
	if forced {
		logger.Warn(LogMsgWatchdogSettle, "generation", gen, "index", run.event.Index)
	}

	for _, h := range run.handles {
		h.Cancel()
	}
	needReveal := !run.revealed
	run.revealed = true
	a.state = next
	a.rotation = Normalize(run.event.FinalRotation)

	ev := run.event
	ev.Forced = forced
	revealCb, settleCb := a.onReveal, a.onSettle
	a.mu.Unlock()

	if needReveal && revealCb != nil {
		revealCb(run.event)
	}
	if settleCb != nil {
		settleCb(ev)
	}
}

// liveRunLocked returns the spin for gen if it is still the active, unsettled spin
func (a *Animator) liveRunLocked(gen uint64) *spinRun {
	if a.closed || a.current == nil || a.current.event.Generation != gen || a.state != StateSpinning {
		return nil
	}
	return a.current
}

func (a *Animator) startIdleLocked() {
	if a.idle != nil || a.closed {
		return
	}
	a.idle = a.timers.Every(TaskIdle, a.opts.IdlePeriod, a.idleTick)
}

func (a *Animator) stopIdleLocked() {
	if a.idle != nil {
		a.idle.Cancel()
		a.idle = nil
	}
}

func (a *Animator) idleTick() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed || a.state != StateIdle {
		return
	}
	a.rotation = Normalize(a.rotation + a.opts.IdleStepDeg)
}
