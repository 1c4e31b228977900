// Package spin requests outcomes from the authority and drives the wheel and
// claim flow for one user.
package spin

import (
	"context"
	"fmt"
	"sync"

	"github.com/osse101/SpinWheel_Go/internal/domain"
	"github.com/osse101/SpinWheel_Go/internal/format"
	"github.com/osse101/SpinWheel_Go/internal/logger"
	"github.com/osse101/SpinWheel_Go/internal/rewardservice"
)

// Requester obtains outcomes from the authority
type Requester interface {
	RequestSpin(ctx context.Context, userID string, spinCtx domain.SpinContext) (domain.SpinResponse, error)
}

// Result is the resolution of one spin request.
// A nil TargetIndex means the caller must fall back to a display-only spin;
// Outcome is nil in that case and nothing may be claimed.
type Result struct {
	TargetIndex    *int
	Outcome        *domain.SpinOutcome
	SpinsRemaining *int
}

// Fallback reports whether the result has no server-confirmed outcome
func (r Result) Fallback() bool {
	return r.TargetIndex == nil || r.Outcome == nil
}

// Orchestrator maps authority outcomes onto the currently displayed rewards
type Orchestrator struct {
	svc    Requester
	userID string

	mu        sync.RWMutex
	displayed []domain.Reward
}

// NewOrchestrator creates an orchestrator for the given displayed rewards
func NewOrchestrator(svc Requester, userID string, displayed []domain.Reward) *Orchestrator {
	o := &Orchestrator{svc: svc, userID: userID}
	o.SetDisplayed(displayed)
	return o
}

// SetDisplayed replaces the displayed reward list
func (o *Orchestrator) SetDisplayed(displayed []domain.Reward) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.displayed = append([]domain.Reward(nil), displayed...)
}

// Displayed returns a copy of the displayed reward list
func (o *Orchestrator) Displayed() []domain.Reward {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return append([]domain.Reward(nil), o.displayed...)
}

// RequestSpin asks the authority for an outcome of the given trigger kind.
// Explicit rejections and cancellation are returned as errors. Any other failure,
// or an outcome whose reward is not displayed, yields a fallback result.
func (o *Orchestrator) RequestSpin(ctx context.Context, kind domain.TriggerKind) (Result, error) {
	if !kind.Valid() {
		return Result{}, fmt.Errorf("%w: %q", domain.ErrUnknownTrigger, kind)
	}
	log := logger.FromContext(ctx)

	resp, err := o.svc.RequestSpin(ctx, o.userID, domain.SpinContext{Trigger: kind})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, ctxErr
		}
		if rewardservice.IsRejection(err) {
			return Result{}, err
		}
		log.Warn(LogMsgSpinFallback, "trigger", kind, "error", err)
		return Result{}, nil
	}

	remaining := resp.SpinsRemaining
	outcome := resp.SpinResult
	index := IndexOf(o.Displayed(), outcome.RewardID)
	if index < 0 {
		log.Warn(LogMsgUnknownReward, "spin_id", outcome.SpinID, "reward_id", outcome.RewardID)
		return Result{SpinsRemaining: &remaining}, nil
	}

	return Result{TargetIndex: &index, Outcome: &outcome, SpinsRemaining: &remaining}, nil
}

// IndexOf returns the position of rewardID in displayed, or -1
func IndexOf(displayed []domain.Reward, rewardID int) int {
	for i, r := range displayed {
		if r.ID == rewardID {
			return i
		}
	}
	return -1
}

// Resolve builds the option shown for segment index. Outcome values take
// precedence over the catalog entry when a real outcome exists.
func Resolve(displayed []domain.Reward, index int, outcome *domain.SpinOutcome) domain.ResolvedOption {
	if index < 0 || index >= len(displayed) {
		return domain.ResolvedOption{Index: index, Fallback: true}
	}
	r := displayed[index]
	opt := domain.ResolvedOption{
		Index:       index,
		RewardID:    r.ID,
		Label:       format.RewardLabel(r),
		Amount:      r.Amount,
		Type:        r.Type,
		Rarity:      r.Rarity,
		Description: r.Description,
		Fallback:    outcome == nil,
	}
	if outcome != nil {
		opt.SpinID = outcome.SpinID
		opt.Amount = outcome.Amount
		opt.Type = outcome.Type
		opt.Rarity = outcome.Rarity
		if outcome.Description != "" {
			opt.Description = outcome.Description
		}
	}
	return opt
}
