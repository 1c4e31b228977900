package spin

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/osse101/SpinWheel_Go/internal/claim"
	"github.com/osse101/SpinWheel_Go/internal/domain"
	"github.com/osse101/SpinWheel_Go/internal/event"
	"github.com/osse101/SpinWheel_Go/internal/format"
	"github.com/osse101/SpinWheel_Go/internal/logger"
	"github.com/osse101/SpinWheel_Go/internal/rewardservice"
	"github.com/osse101/SpinWheel_Go/internal/scheduler"
	"github.com/osse101/SpinWheel_Go/internal/wallet"
	"github.com/osse101/SpinWheel_Go/internal/wheel"
)

// ErrSessionClosed is returned by every operation after Close
var ErrSessionClosed = errors.New("spin session closed")

// Deps are the collaborators of a Session. Bus, Timers and Clock are optional.
type Deps struct {
	Service rewardservice.Service
	UserID  string
	Bus     event.Bus
	Timers  scheduler.Timers
	Clock   clockwork.Clock
}

// Options tune a Session
type Options struct {
	// Wheel overrides the animator options; Segments is always taken from the config
	Wheel           *wheel.Options
	ClaimRetryDelay time.Duration
}

type pendingSpin struct {
	option  domain.ResolvedOption
	outcome *domain.SpinOutcome
}

// Session is the presentation service of one user. It is constructed on load
// and owns every timer, subscription and in-flight call until Close.
type Session struct {
	deps   Deps
	ctx    context.Context
	cancel context.CancelFunc
	owned  *scheduler.Scheduler

	cfg    domain.Config
	orch   *Orchestrator
	anim   *wheel.Animator
	claims *claim.Flow
	wallet *wallet.Wallet

	mu      sync.Mutex
	pending map[uint64]pendingSpin
	view    domain.SpinStateView
	subs    []event.Subscription
	closed  bool

	// requesting holds the wheel from reserve until Spin returns
	requesting bool
	wg         sync.WaitGroup
}

// NewSession loads the config from the authority and builds the wheel for its active rewards
func NewSession(ctx context.Context, deps Deps, opts Options) (*Session, error) {
	if deps.Service == nil {
		return nil, fmt.Errorf("%w: reward service is required", domain.ErrInvalidInput)
	}
	if deps.UserID == "" {
		return nil, domain.ErrUserRequired
	}
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	if deps.Bus == nil {
		deps.Bus = event.NewMemoryBus()
	}

	cfg, err := deps.Service.GetConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load wheel config: %w", err)
	}
	displayed := cfg.ActiveRewards()
	if len(displayed) == 0 {
		return nil, domain.ErrNoActiveRewards
	}

	wheelOpts := wheel.DefaultOptions(len(displayed))
	if opts.Wheel != nil {
		wheelOpts = *opts.Wheel
		wheelOpts.Segments = len(displayed)
	}

	s := &Session{
		deps:    deps,
		cfg:     cfg,
		orch:    NewOrchestrator(deps.Service, deps.UserID, displayed),
		pending: make(map[uint64]pendingSpin),
	}
	if deps.Timers == nil {
		s.owned = scheduler.New(deps.Clock, nil)
		s.deps.Timers = s.owned
	}

	anim, err := wheel.NewAnimator(s.deps.Timers, deps.Clock, wheelOpts)
	if err != nil {
		s.stopOwned()
		return nil, err
	}
	s.anim = anim
	s.anim.OnReveal(s.handleReveal)
	s.anim.OnSettle(s.handleSettle)

	s.wallet = wallet.New(deps.Service, deps.UserID)
	s.claims = claim.NewFlow(deps.Service, s.wallet, deps.UserID, claim.Options{
		RetryDelay: opts.ClaimRetryDelay,
		Clock:      deps.Clock,
		Publisher:  deps.Bus,
	})

	s.ctx, s.cancel = context.WithCancel(context.WithoutCancel(ctx))
	s.subs = append(s.subs, deps.Bus.Subscribe(event.SpinsUpdated, s.trackSpins))

	log := logger.FromContext(ctx)
	if _, err := s.wallet.Refresh(ctx); err != nil {
		log.Warn(LogMsgWalletRefreshFail, "user_id", deps.UserID, "error", err)
	}
	s.refreshView(ctx)
	return s, nil
}

// OnSpin registers fn to receive the resolved option at reveal time
func (s *Session) OnSpin(fn func(domain.ResolvedOption)) event.Subscription {
	return s.subscribe(event.SpinRevealed, func(ctx context.Context, ev event.Event) error {
		opt, err := event.DecodePayload[domain.ResolvedOption](ev.Payload)
		if err != nil {
			return err
		}
		fn(opt)
		return nil
	})
}

// OnSpinsUpdate registers fn to receive the remaining spin count after it changes
func (s *Session) OnSpinsUpdate(fn func(int)) event.Subscription {
	return s.subscribe(event.SpinsUpdated, func(ctx context.Context, ev event.Event) error {
		p, err := event.DecodePayload[domain.SpinsUpdatedPayload](ev.Payload)
		if err != nil {
			return err
		}
		fn(p.SpinsRemaining)
		return nil
	})
}

// OnSettle registers fn to receive the option when the wheel stops
func (s *Session) OnSettle(fn func(option domain.ResolvedOption, forced bool)) event.Subscription {
	return s.subscribe(event.SpinSettled, func(ctx context.Context, ev event.Event) error {
		p, err := event.DecodePayload[domain.SpinSettledPayload](ev.Payload)
		if err != nil {
			return err
		}
		fn(p.Option, p.Forced)
		return nil
	})
}

func (s *Session) subscribe(t event.Type, h event.Handler) event.Subscription {
	sub := s.deps.Bus.Subscribe(t, h)
	s.mu.Lock()
	s.subs = append(s.subs, sub)
	s.mu.Unlock()
	return sub
}

// Spin requests an outcome and starts the wheel. Rejections and cancellation
// return an error and leave the wheel idle; other failures spin display-only.
func (s *Session) Spin(ctx context.Context, kind domain.TriggerKind) (Result, error) {
	err := s.reserve(kind)
	if errors.Is(err, domain.ErrNotEligible) {
		// the cached view may predate recent spend or cooldown expiry
		s.refreshView(ctx)
		err = s.reserve(kind)
	}
	if err != nil {
		return Result{}, err
	}
	defer s.release()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.ctx, cancel)
	defer stop()

	res, err := s.orch.RequestSpin(ctx, kind)
	if err != nil {
		if s.isClosed() {
			return Result{}, ErrSessionClosed
		}
		return Result{}, err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Result{}, ErrSessionClosed
	}
	var ev wheel.SpinEvent
	if res.Fallback() {
		res.TargetIndex, res.Outcome = nil, nil
		ev, err = s.anim.SpinFree()
	} else {
		ev, err = s.anim.SpinTo(*res.TargetIndex)
	}
	if err != nil {
		s.mu.Unlock()
		return Result{}, err
	}
	s.pending[ev.Generation] = pendingSpin{
		option:  Resolve(s.orch.Displayed(), ev.Index, res.Outcome),
		outcome: res.Outcome,
	}
	s.mu.Unlock()

	if res.SpinsRemaining != nil {
		s.publish(event.NewSpinsUpdatedEvent(*res.SpinsRemaining))
	}
	return res, nil
}

// reserve checks that a spin of kind may start and holds the wheel for one request.
// A second Spin fails with wheel.ErrBusy until release.
func (s *Session) reserve(kind domain.TriggerKind) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownTrigger, kind)
	}
	if !s.cfg.IsActive {
		return domain.ErrWheelInactive
	}
	if s.requesting || s.anim.State() != wheel.StateIdle {
		return wheel.ErrBusy
	}
	if s.view.Eligible != nil && !containsKind(s.view.Eligible, kind) {
		return fmt.Errorf("%w: %s", domain.ErrNotEligible, kind)
	}
	s.requesting = true
	return nil
}

func (s *Session) release() {
	s.mu.Lock()
	s.requesting = false
	s.mu.Unlock()
}

func (s *Session) handleReveal(ev wheel.SpinEvent) {
	s.mu.Lock()
	p, ok := s.pending[ev.Generation]
	if !ok || s.closed {
		s.mu.Unlock()
		return
	}
	if p.outcome != nil {
		s.wg.Add(1)
		outcome := *p.outcome
		go s.claim(outcome)
	}
	s.mu.Unlock()

	s.publish(event.NewSpinRevealedEvent(p.option))
}

func (s *Session) handleSettle(ev wheel.SpinEvent) {
	s.mu.Lock()
	p, ok := s.pending[ev.Generation]
	delete(s.pending, ev.Generation)
	closed := s.closed
	s.mu.Unlock()
	if !ok || closed {
		return
	}
	s.publish(event.NewSpinSettledEvent(p.option, ev.Forced))
}

func (s *Session) claim(outcome domain.SpinOutcome) {
	defer s.wg.Done()
	if _, err := s.claims.Claim(s.ctx, outcome); err != nil {
		logger.FromContext(s.ctx).Warn(LogMsgClaimFailed, "spin_id", outcome.SpinID, "error", err)
		return
	}
	s.refreshView(s.ctx)
}

func (s *Session) trackSpins(ctx context.Context, ev event.Event) error {
	p, err := event.DecodePayload[domain.SpinsUpdatedPayload](ev.Payload)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.view.SpinsRemaining = p.SpinsRemaining
	s.mu.Unlock()
	return nil
}

func (s *Session) refreshView(ctx context.Context) {
	view, err := s.deps.Service.GetSpinState(ctx, s.deps.UserID)
	if err != nil {
		logger.FromContext(ctx).Debug(LogMsgStateRefreshFail, "user_id", s.deps.UserID, "error", err)
		return
	}
	s.mu.Lock()
	s.view = view
	s.mu.Unlock()
}

func (s *Session) publish(ev event.Event) {
	if err := s.deps.Bus.Publish(s.ctx, ev); err != nil {
		logger.FromContext(s.ctx).Warn(LogMsgPublishFailed, "type", ev.Type, "error", err)
	}
}

// Acknowledge returns a settled wheel to idle
func (s *Session) Acknowledge() error {
	if s.isClosed() {
		return ErrSessionClosed
	}
	return s.anim.Acknowledge()
}

// Refresh reloads the eligibility summary from the authority
func (s *Session) Refresh(ctx context.Context) domain.SpinStateView {
	s.refreshView(ctx)
	return s.View()
}

// State returns the wheel state
func (s *Session) State() wheel.State {
	return s.anim.State()
}

// Rotation returns the current visual angle of the wheel
func (s *Session) Rotation() float64 {
	return s.anim.Rotation()
}

// Config returns the config the session was constructed with
func (s *Session) Config() domain.Config {
	return s.cfg.Clone()
}

// Labels returns the segment labels in wheel order
func (s *Session) Labels() []string {
	displayed := s.orch.Displayed()
	labels := make([]string, len(displayed))
	for i, r := range displayed {
		labels[i] = format.RewardLabel(r)
	}
	return labels
}

// View returns the last known eligibility summary
func (s *Session) View() domain.SpinStateView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view
}

// Balances returns the wallet balances
func (s *Session) Balances() domain.Balances {
	return s.wallet.Snapshot()
}

// ClaimState returns the claim state of a spin
func (s *Session) ClaimState(spinID string) claim.State {
	return s.claims.State(spinID)
}

// Close cancels in-flight calls, every wheel timer and every subscription.
// It waits for running claims to observe the cancellation.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	subs := s.subs
	s.subs = nil
	s.pending = make(map[uint64]pendingSpin)
	s.mu.Unlock()

	s.cancel()
	s.anim.Close()
	for _, sub := range subs {
		sub.Unsubscribe()
	}
	s.wg.Wait()
	s.stopOwned()
	logger.Debug(LogMsgSessionClosed, "user_id", s.deps.UserID)
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Session) stopOwned() {
	if s.owned != nil {
		s.owned.Stop()
	}
}

func containsKind(kinds []domain.TriggerKind, kind domain.TriggerKind) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}
