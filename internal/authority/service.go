// Package authority is the reference reward authority: it owns the wheel config, decides
// trigger grants, samples outcomes, and credits wallets when spins are claimed.
package authority

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/shopspring/decimal"

	"github.com/osse101/SpinWheel_Go/internal/cooldown"
	"github.com/osse101/SpinWheel_Go/internal/domain"
	"github.com/osse101/SpinWheel_Go/internal/event"
	"github.com/osse101/SpinWheel_Go/internal/logger"
	"github.com/osse101/SpinWheel_Go/internal/metrics"
	"github.com/osse101/SpinWheel_Go/internal/repository"
	"github.com/osse101/SpinWheel_Go/internal/rewardservice"
	"github.com/osse101/SpinWheel_Go/internal/trigger"
	"github.com/osse101/SpinWheel_Go/internal/utils"
	"github.com/osse101/SpinWheel_Go/internal/validation"
	"github.com/osse101/SpinWheel_Go/internal/worker"
)

// RandomSource returns a uniformly distributed number in [0,1)
type RandomSource func() (float64, error)

// Options configures a Service. Zero values select production defaults.
type Options struct {
	Clock     clockwork.Clock
	Cooldowns cooldown.Service
	Bus       event.Bus
	CacheTTL  time.Duration
	Random    RandomSource
}

// Service implements rewardservice.Service on top of a wheel repository
type Service struct {
	repo      repository.Wheel
	cooldowns cooldown.Service
	bus       event.Bus
	clock     clockwork.Clock
	policy    *trigger.Policy
	cache     *configCache
	random    RandomSource
}

var _ rewardservice.Service = (*Service)(nil)

// NewService creates a new authority service
func NewService(repo repository.Wheel, opts Options) *Service {
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	cooldowns := opts.Cooldowns
	if cooldowns == nil {
		cooldowns = cooldown.NewMemoryService(cooldown.Config{Clock: clock})
	}
	random := opts.Random
	if random == nil {
		random = utils.SecureRandomFloat
	}
	return &Service{
		repo:      repo,
		cooldowns: cooldowns,
		bus:       opts.Bus,
		clock:     clock,
		policy:    trigger.NewPolicy(clock),
		cache:     newConfigCache(opts.CacheTTL),
		random:    random,
	}
}

// GetConfig returns the current config
func (s *Service) GetConfig(ctx context.Context) (domain.Config, error) {
	cfg, err := s.cache.get(ctx, s.repo.GetConfig)
	if err != nil {
		if errors.Is(err, domain.ErrConfigNotFound) {
			return domain.Config{}, err
		}
		return domain.Config{}, fmt.Errorf("%s: %w", ErrContextFailedToLoadConfig, err)
	}
	return cfg, nil
}

// UpdateConfig saves cfg and reports its validation result. Invalid configs are saved too.
// A non-zero cfg.Version must match the stored version.
func (s *Service) UpdateConfig(ctx context.Context, cfg domain.Config) (domain.UpdateConfigResult, error) {
	log := logger.FromContext(ctx)

	result := validation.Validate(cfg)
	saved, err := s.repo.SaveConfig(ctx, cfg, cfg.Version)
	if err != nil {
		if errors.Is(err, domain.ErrConfigConflict) {
			s.cache.invalidate()
			return domain.UpdateConfigResult{}, err
		}
		return domain.UpdateConfigResult{}, fmt.Errorf("%s: %w", ErrContextFailedToSaveConfig, err)
	}
	s.cache.set(*saved)

	metrics.ConfigIssues.Set(float64(len(result.Issues)))
	if result.Valid {
		log.Info(LogMsgConfigSaved, "version", saved.Version)
	} else {
		log.Warn(LogMsgConfigInvalid, "version", saved.Version, "issues", result.Issues)
	}
	s.publish(ctx, event.NewConfigUpdatedEvent(saved.Version, result.Valid))

	return domain.UpdateConfigResult{Config: *saved, Validation: result}, nil
}

// ValidateConfig validates the stored config
func (s *Service) ValidateConfig(ctx context.Context) (domain.ValidationResult, error) {
	cfg, err := s.GetConfig(ctx)
	if err != nil {
		return domain.ValidationResult{}, err
	}
	return validation.Validate(cfg), nil
}

// GetSpinState summarizes what the user may spin with now
func (s *Service) GetSpinState(ctx context.Context, userID string) (domain.SpinStateView, error) {
	if userID == "" {
		return domain.SpinStateView{}, domain.ErrUserRequired
	}
	cfg, err := s.GetConfig(ctx)
	if err != nil {
		return domain.SpinStateView{}, err
	}
	state, err := s.repo.GetSpinState(ctx, userID)
	if err != nil {
		return domain.SpinStateView{}, fmt.Errorf("%s: %w", ErrContextFailedToLoadState, err)
	}

	view := domain.SpinStateView{
		UserID:         userID,
		Eligible:       []domain.TriggerKind{},
		SpinsRemaining: trigger.SpinsRemaining(state, cfg.Triggers),
	}

	nextRandom, err := s.nextRandomAt(ctx, userID, state, cfg.Triggers.Random)
	if err != nil {
		return domain.SpinStateView{}, err
	}
	if nextRandom.After(s.clock.Now()) {
		view.NextRandomAt = &nextRandom
	}

	if cfg.IsActive && len(cfg.ActiveRewards()) > 0 {
		for _, kind := range s.policy.Eligible(state, cfg.Triggers) {
			if kind == domain.TriggerRandom && view.NextRandomAt != nil {
				continue
			}
			view.Eligible = append(view.Eligible, kind)
		}
	}

	unclaimed, err := s.repo.ListUnclaimedSpins(ctx, userID)
	if err != nil {
		return domain.SpinStateView{}, fmt.Errorf("%s: %w", ErrContextFailedToLoadState, err)
	}
	for _, o := range unclaimed {
		view.Unclaimed = append(view.Unclaimed, o.SpinID)
	}
	return view, nil
}

// nextRandomAt is the later of the grant cooldown and the roll throttle
func (s *Service) nextRandomAt(ctx context.Context, userID string, state domain.UserSpinState, cfg domain.RandomTrigger) (time.Time, error) {
	if !cfg.Enabled {
		return time.Time{}, nil
	}
	next := s.policy.NextRandomEligibleAt(state, cfg)

	lastRoll, err := s.cooldowns.GetLastUsed(ctx, userID, cooldown.ActionRandomRoll)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", ErrContextFailedToCheckCooldown, err)
	}
	if lastRoll != nil {
		if rollAt := lastRoll.Add(cooldown.DefaultRollInterval); rollAt.After(next) {
			next = rollAt
		}
	}
	return next, nil
}

// RequestSpin issues one outcome for the user under the given trigger
func (s *Service) RequestSpin(ctx context.Context, userID string, sc domain.SpinContext) (domain.SpinResponse, error) {
	resp, err := s.requestSpin(ctx, userID, sc.Trigger)
	if err != nil {
		metrics.SpinsRejected.WithLabelValues(string(sc.Trigger), rewardservice.ErrorCode(err)).Inc()
		if rewardservice.IsRejection(err) {
			logger.FromContext(ctx).Info(LogMsgSpinRejected, "userID", userID, "trigger", sc.Trigger, "reason", err)
		}
		return domain.SpinResponse{}, err
	}
	return resp, nil
}

func (s *Service) requestSpin(ctx context.Context, userID string, kind domain.TriggerKind) (domain.SpinResponse, error) {
	if userID == "" {
		return domain.SpinResponse{}, domain.ErrUserRequired
	}
	if !kind.Valid() {
		return domain.SpinResponse{}, fmt.Errorf("%w: %q", domain.ErrUnknownTrigger, kind)
	}

	cfg, err := s.GetConfig(ctx)
	if err != nil {
		return domain.SpinResponse{}, err
	}
	if !cfg.IsActive {
		return domain.SpinResponse{}, domain.ErrWheelInactive
	}
	if len(cfg.ActiveRewards()) == 0 {
		return domain.SpinResponse{}, domain.ErrNoActiveRewards
	}

	if kind != domain.TriggerRandom {
		return s.issue(ctx, userID, kind, cfg)
	}
	return s.requestRandomSpin(ctx, userID, cfg)
}

// requestRandomSpin rolls for a random grant. Rolls are throttled per user so the trigger
// cannot be farmed by retrying; the grant cooldown only starts when a spin is issued.
func (s *Service) requestRandomSpin(ctx context.Context, userID string, cfg domain.Config) (domain.SpinResponse, error) {
	log := logger.FromContext(ctx)

	state, err := s.repo.GetSpinState(ctx, userID)
	if err != nil {
		return domain.SpinResponse{}, fmt.Errorf("%s: %w", ErrContextFailedToLoadState, err)
	}
	if !s.policy.CanSpin(domain.TriggerRandom, state, cfg.Triggers) {
		return domain.SpinResponse{}, domain.ErrNotEligible
	}

	granted := false
	err = s.cooldowns.EnforceCooldown(ctx, userID, cooldown.ActionRandomRoll, cooldown.DefaultRollInterval, func() error {
		roll, err := s.random()
		if err != nil {
			return fmt.Errorf("%s: %w", ErrContextFailedToRoll, err)
		}
		granted = s.policy.RandomGranted(roll*percentScale, cfg.Triggers.Random)
		return nil
	})
	if err != nil {
		return domain.SpinResponse{}, err
	}

	outcome := metrics.OutcomeDenied
	if granted {
		outcome = metrics.OutcomeGranted
	}
	metrics.RandomRolls.WithLabelValues(outcome).Inc()
	log.Debug(LogMsgRandomRoll, "userID", userID, "outcome", outcome)

	if !granted {
		return domain.SpinResponse{}, fmt.Errorf("%w: random roll missed", domain.ErrNotEligible)
	}

	var resp domain.SpinResponse
	err = s.cooldowns.EnforceCooldown(ctx, userID, cooldown.ActionRandomGrant, trigger.RandomCooldown(cfg.Triggers.Random), func() error {
		var err error
		resp, err = s.issue(ctx, userID, domain.TriggerRandom, cfg)
		return err
	})
	if err != nil {
		return domain.SpinResponse{}, err
	}
	return resp, nil
}

// issue grants the trigger, samples a reward, and records the outcome in one transaction
func (s *Service) issue(ctx context.Context, userID string, kind domain.TriggerKind, cfg domain.Config) (domain.SpinResponse, error) {
	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return domain.SpinResponse{}, fmt.Errorf("%s: %w", ErrContextFailedToIssueSpin, err)
	}
	defer repository.SafeRollback(ctx, tx)

	state, err := tx.GetSpinStateForUpdate(ctx, userID)
	if err != nil {
		return domain.SpinResponse{}, fmt.Errorf("%s: %w", ErrContextFailedToLoadState, err)
	}
	if !s.policy.CanSpin(kind, state, cfg.Triggers) {
		if kind == domain.TriggerThreshold && cfg.Triggers.Threshold.Enabled {
			return domain.SpinResponse{}, domain.ErrNoSpinsAvailable
		}
		return domain.SpinResponse{}, domain.ErrNotEligible
	}

	next, err := s.policy.Grant(kind, state)
	if err != nil {
		return domain.SpinResponse{}, err
	}

	roll, err := s.random()
	if err != nil {
		return domain.SpinResponse{}, fmt.Errorf("%s: %w", ErrContextFailedToRoll, err)
	}
	reward := pickReward(cfg.ActiveRewards(), roll)

	outcome := domain.SpinOutcome{
		SpinID:      uuid.NewString(),
		UserID:      userID,
		RewardID:    reward.ID,
		Amount:      reward.Amount,
		Type:        reward.Type,
		Rarity:      reward.Rarity,
		Description: reward.Description,
		Trigger:     kind,
		IssuedAt:    s.clock.Now().UTC(),
	}
	if err := tx.CreateSpin(ctx, outcome); err != nil {
		return domain.SpinResponse{}, fmt.Errorf("%s: %w", ErrContextFailedToIssueSpin, err)
	}
	if err := tx.SaveSpinState(ctx, next); err != nil {
		return domain.SpinResponse{}, fmt.Errorf("%s: %w", ErrContextFailedToIssueSpin, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.SpinResponse{}, fmt.Errorf("%s: %w", ErrContextFailedToCommit, err)
	}

	metrics.SpinsIssued.WithLabelValues(string(kind), string(outcome.Rarity)).Inc()
	metrics.UnclaimedSpins.Inc()
	logger.FromContext(ctx).Info(LogMsgSpinIssued,
		"userID", userID, "spinID", outcome.SpinID, "rewardID", outcome.RewardID, "trigger", kind)
	s.publish(ctx, event.NewSpinIssuedEvent(outcome))

	return domain.SpinResponse{
		SpinResult:     outcome,
		SpinsRemaining: trigger.SpinsRemaining(next, cfg.Triggers),
	}, nil
}

// ClaimSpin finalizes an outcome and credits its amount. A spin is credited at most once.
func (s *Service) ClaimSpin(ctx context.Context, userID, spinID string) (domain.ClaimAck, error) {
	if userID == "" {
		return domain.ClaimAck{}, domain.ErrUserRequired
	}
	if spinID == "" {
		return domain.ClaimAck{}, domain.ErrNotClaimable
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return domain.ClaimAck{}, fmt.Errorf("%s: %w", ErrContextFailedToClaimSpin, err)
	}
	defer repository.SafeRollback(ctx, tx)

	outcome, err := tx.GetSpinForUpdate(ctx, spinID)
	if err != nil {
		return domain.ClaimAck{}, err
	}
	// Another user's spin is reported as missing
	if outcome.UserID != userID {
		return domain.ClaimAck{}, domain.ErrSpinNotFound
	}
	if outcome.IsClaimed() {
		return domain.ClaimAck{}, domain.ErrAlreadyClaimed
	}

	now := s.clock.Now().UTC()
	if err := tx.MarkSpinClaimed(ctx, spinID, now); err != nil {
		return domain.ClaimAck{}, fmt.Errorf("%s: %w", ErrContextFailedToClaimSpin, err)
	}
	balances, err := tx.CreditBalance(ctx, userID, outcome.Type, decimal.NewFromFloat(outcome.Amount))
	if err != nil {
		return domain.ClaimAck{}, fmt.Errorf("%s: %w", ErrContextFailedToClaimSpin, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.ClaimAck{}, fmt.Errorf("%s: %w", ErrContextFailedToCommit, err)
	}
	metrics.UnclaimedSpins.Dec()

	ack := domain.ClaimAck{SpinID: spinID, ClaimedAt: now, Balances: &balances}
	if remaining, err := s.spinsRemaining(ctx, userID); err == nil {
		ack.SpinsRemaining = &remaining
	} else {
		logger.FromContext(ctx).Warn(LogMsgSpinsRemainingStale, "userID", userID, "error", err)
	}

	outcome.ClaimedAt = &now
	logger.FromContext(ctx).Info(LogMsgSpinClaimed,
		"userID", userID, "spinID", spinID, "amount", outcome.Amount, "currency", outcome.Type)
	s.publish(ctx, event.NewSpinClaimedEvent(*outcome, ack))
	return ack, nil
}

func (s *Service) spinsRemaining(ctx context.Context, userID string) (int, error) {
	cfg, err := s.GetConfig(ctx)
	if err != nil {
		return 0, err
	}
	state, err := s.repo.GetSpinState(ctx, userID)
	if err != nil {
		return 0, err
	}
	return trigger.SpinsRemaining(state, cfg.Triggers), nil
}

// RecordSpend adds spend toward the threshold trigger and returns the spins it awarded
func (s *Service) RecordSpend(ctx context.Context, userID string, amount decimal.Decimal) (domain.SpendResult, error) {
	if userID == "" {
		return domain.SpendResult{}, domain.ErrUserRequired
	}
	if !amount.IsPositive() {
		return domain.SpendResult{}, fmt.Errorf("%w: spend amount must be positive", domain.ErrInvalidInput)
	}

	cfg, err := s.GetConfig(ctx)
	if err != nil {
		return domain.SpendResult{}, err
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return domain.SpendResult{}, fmt.Errorf("%s: %w", ErrContextFailedToRecordSpend, err)
	}
	defer repository.SafeRollback(ctx, tx)

	state, err := tx.GetSpinStateForUpdate(ctx, userID)
	if err != nil {
		return domain.SpendResult{}, fmt.Errorf("%s: %w", ErrContextFailedToLoadState, err)
	}
	next, awarded := trigger.AccrueSpend(state, cfg.Triggers.Threshold, amount)
	if err := tx.SaveSpinState(ctx, next); err != nil {
		return domain.SpendResult{}, fmt.Errorf("%s: %w", ErrContextFailedToRecordSpend, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.SpendResult{}, fmt.Errorf("%s: %w", ErrContextFailedToCommit, err)
	}

	logger.FromContext(ctx).Info(LogMsgSpendRecorded, "userID", userID, "amount", amount.String(), "awarded", awarded)
	s.publish(ctx, event.NewSpendRecordedEvent(userID, amount.String(), awarded))

	return domain.SpendResult{
		SpinsAwarded:   awarded,
		SpinsRemaining: trigger.SpinsRemaining(next, cfg.Triggers),
	}, nil
}

// GetWallet returns the user's balances
func (s *Service) GetWallet(ctx context.Context, userID string) (domain.Balances, error) {
	if userID == "" {
		return domain.Balances{}, domain.ErrUserRequired
	}
	return s.repo.GetBalances(ctx, userID)
}

// ReportUnclaimed resyncs the unclaimed spins gauge with the ledger
func (s *Service) ReportUnclaimed(ctx context.Context) error {
	n, err := s.repo.CountUnclaimedSpins(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToCountUnclaim, err)
	}
	metrics.UnclaimedSpins.Set(float64(n))
	logger.FromContext(ctx).Debug(LogMsgUnclaimedReported, "count", n)
	return nil
}

// UnclaimedReportJob wraps ReportUnclaimed for the scheduler
func (s *Service) UnclaimedReportJob() worker.Job {
	return worker.JobFunc{JobName: JobNameUnclaimedReport, Fn: s.ReportUnclaimed}
}

func (s *Service) publish(ctx context.Context, evt event.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, evt); err != nil {
		logger.FromContext(ctx).Warn("Failed to publish event", "type", evt.Type, "error", err)
	}
}
