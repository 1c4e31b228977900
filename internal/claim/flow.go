// Package claim finalizes revealed outcomes with the authority and credits
// the local wallet exactly once per spin.
package claim

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/osse101/SpinWheel_Go/internal/domain"
	"github.com/osse101/SpinWheel_Go/internal/event"
	"github.com/osse101/SpinWheel_Go/internal/logger"
	"github.com/osse101/SpinWheel_Go/internal/rewardservice"
)

// Claimer submits claims to the authority
type Claimer interface {
	ClaimSpin(ctx context.Context, userID, spinID string) (domain.ClaimAck, error)
}

// Wallet is credited after a successful claim
type Wallet interface {
	Refresh(ctx context.Context) (domain.Balances, error)
	AddSweepCoins(amount decimal.Decimal) domain.Balances
}

// Publisher receives claim events
type Publisher interface {
	Publish(ctx context.Context, ev event.Event) error
}

// Options tune a Flow
type Options struct {
	RetryDelay time.Duration
	Clock      clockwork.Clock
	Publisher  Publisher
}

type record struct {
	state    State
	ack      domain.ClaimAck
	credited bool
}

// Flow claims outcomes for one user
type Flow struct {
	claimer Claimer
	wallet  Wallet
	userID  string
	opts    Options

	group   singleflight.Group
	mu      sync.Mutex
	records map[string]*record
}

// NewFlow creates a claim flow for userID
func NewFlow(claimer Claimer, wallet Wallet, userID string, opts Options) *Flow {
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	return &Flow{
		claimer: claimer,
		wallet:  wallet,
		userID:  userID,
		opts:    opts,
		records: make(map[string]*record),
	}
}

// State returns the claim state of a spin
func (f *Flow) State(spinID string) State {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rec, ok := f.records[spinID]; ok {
		return rec.state
	}
	return StateUnclaimed
}

// Claim finalizes outcome. Concurrent calls for one spin share a single request
// and calls after success return the stored acknowledgement.
func (f *Flow) Claim(ctx context.Context, outcome domain.SpinOutcome) (domain.ClaimAck, error) {
	if outcome.SpinID == "" {
		return domain.ClaimAck{}, domain.ErrNotClaimable
	}

	if ack, ok := f.claimed(outcome.SpinID); ok {
		return ack, nil
	}

	v, err, _ := f.group.Do(outcome.SpinID, func() (interface{}, error) {
		return f.claim(ctx, outcome)
	})
	if err != nil {
		return domain.ClaimAck{}, err
	}
	return v.(domain.ClaimAck), nil
}

func (f *Flow) claimed(spinID string) (domain.ClaimAck, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if rec, ok := f.records[spinID]; ok && rec.state == StateClaimed {
		return rec.ack, true
	}
	return domain.ClaimAck{}, false
}

func (f *Flow) claim(ctx context.Context, outcome domain.SpinOutcome) (domain.ClaimAck, error) {
	log := logger.FromContext(ctx).With("spin_id", outcome.SpinID)

	if ack, ok := f.claimed(outcome.SpinID); ok {
		return ack, nil
	}
	if err := f.setState(outcome.SpinID, StateClaiming); err != nil {
		return domain.ClaimAck{}, err
	}

	var ack domain.ClaimAck
	op := func() error {
		res, err := f.claimer.ClaimSpin(ctx, f.userID, outcome.SpinID)
		switch {
		case err == nil:
			ack = res
			return nil
		case errors.Is(err, domain.ErrAlreadyClaimed):
			ack = domain.ClaimAck{SpinID: outcome.SpinID, ClaimedAt: f.opts.Clock.Now(), AlreadyClaimed: true}
			return nil
		case rewardservice.IsTransient(err):
			return err
		default:
			return backoff.Permanent(err)
		}
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(f.opts.RetryDelay), MaxRetries),
		ctx,
	)
	notify := func(err error, d time.Duration) {
		log.Warn(LogMsgClaimRetry, "error", err, "delay", d)
	}

	if err := backoff.RetryNotifyWithTimer(op, policy, notify, &clockTimer{clock: f.opts.Clock}); err != nil {
		_ = f.setState(outcome.SpinID, StateFailed)
		log.Error(LogMsgClaimFailed, "error", err)
		f.publish(ctx, event.NewClaimFailedEvent(outcome.SpinID, err))
		return domain.ClaimAck{}, fmt.Errorf("failed to claim spin %s: %w", outcome.SpinID, err)
	}

	if ack.SpinID == "" {
		ack.SpinID = outcome.SpinID
	}
	if ack.AlreadyClaimed {
		log.Info(LogMsgAlreadyClaimed)
	} else {
		log.Info(LogMsgClaimSucceeded, "type", outcome.Type, "amount", outcome.Amount)
	}

	f.credit(ctx, outcome)
	f.finish(outcome.SpinID, ack)

	f.publish(ctx, event.NewSpinClaimedEvent(outcome, ack))
	if ack.SpinsRemaining != nil {
		f.publish(ctx, event.NewSpinsUpdatedEvent(*ack.SpinsRemaining))
	}
	return ack, nil
}

// credit applies the reward to the wallet the first time a spin is claimed
func (f *Flow) credit(ctx context.Context, outcome domain.SpinOutcome) {
	f.mu.Lock()
	rec := f.records[outcome.SpinID]
	if rec.credited {
		f.mu.Unlock()
		return
	}
	rec.credited = true
	f.mu.Unlock()

	switch outcome.Type {
	case domain.CurrencyGC:
		if _, err := f.wallet.Refresh(ctx); err != nil {
			logger.FromContext(ctx).Warn(LogMsgCreditRefreshFailed, "spin_id", outcome.SpinID, "error", err)
		}
	case domain.CurrencySC:
		f.wallet.AddSweepCoins(decimal.NewFromFloat(outcome.Amount))
	}
}

func (f *Flow) setState(spinID string, to State) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	rec, ok := f.records[spinID]
	if !ok {
		rec = &record{state: StateUnclaimed}
		f.records[spinID] = rec
	}
	next, err := Transition(rec.state, to)
	if err != nil {
		return err
	}
	rec.state = next
	return nil
}

func (f *Flow) finish(spinID string, ack domain.ClaimAck) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec := f.records[spinID]
	rec.state = StateClaimed
	rec.ack = ack
}

func (f *Flow) publish(ctx context.Context, ev event.Event) {
	if f.opts.Publisher == nil {
		return
	}
	if err := f.opts.Publisher.Publish(ctx, ev); err != nil {
		logger.FromContext(ctx).Warn(LogMsgPublishFailed, "type", ev.Type, "error", err)
	}
}

// clockTimer waits out retry delays on the flow's clock
type clockTimer struct {
	clock clockwork.Clock
	timer clockwork.Timer
}

func (t *clockTimer) Start(d time.Duration) {
	if t.timer == nil {
		t.timer = t.clock.NewTimer(d)
		return
	}
	t.timer.Reset(d)
}

func (t *clockTimer) Stop() {
	if t.timer != nil {
		t.timer.Stop()
	}
}

func (t *clockTimer) C() <-chan time.Time {
	return t.timer.Chan()
}
