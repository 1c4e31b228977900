// Package memory is an in-process implementation of the wheel repository,
// used when no database is configured and in tests.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/osse101/SpinWheel_Go/internal/domain"
	"github.com/osse101/SpinWheel_Go/internal/repository"
)

// Store keeps every record in maps guarded by one lock.
// A transaction holds the lock from BeginTx until Commit or Rollback.
type Store struct {
	mu       sync.Mutex
	config   *domain.Config
	states   map[string]domain.UserSpinState
	spins    map[string]domain.SpinOutcome
	balances map[string]domain.Balances
}

var _ repository.Wheel = (*Store)(nil)

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		states:   make(map[string]domain.UserSpinState),
		spins:    make(map[string]domain.SpinOutcome),
		balances: make(map[string]domain.Balances),
	}
}

// GetConfig returns the stored config
func (s *Store) GetConfig(ctx context.Context) (*domain.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.config == nil {
		return nil, domain.ErrConfigNotFound
	}
	cfg := s.config.Clone()
	return &cfg, nil
}

// SaveConfig replaces the config and bumps its version
func (s *Store) SaveConfig(ctx context.Context, cfg domain.Config, expectedVersion int64) (*domain.Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var current int64
	if s.config != nil {
		current = s.config.Version
	}
	if expectedVersion != 0 && expectedVersion != current {
		return nil, fmt.Errorf("%w: expected version %d, stored %d", domain.ErrConfigConflict, expectedVersion, current)
	}

	saved := cfg.Clone()
	saved.Version = current + 1
	s.config = &saved
	out := saved.Clone()
	return &out, nil
}

// GetSpinState returns the user's trigger state
func (s *Store) GetSpinState(ctx context.Context, userID string) (domain.UserSpinState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stateLocked(userID), nil
}

// GetSpin returns one outcome
func (s *Store) GetSpin(ctx context.Context, spinID string) (*domain.SpinOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.spins[spinID]
	if !ok {
		return nil, domain.ErrSpinNotFound
	}
	return &o, nil
}

// ListUnclaimedSpins returns the user's unclaimed outcomes, oldest first
func (s *Store) ListUnclaimedSpins(ctx context.Context, userID string) ([]domain.SpinOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.SpinOutcome
	for _, o := range s.spins {
		if o.UserID == userID && !o.IsClaimed() {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].IssuedAt.Before(out[j].IssuedAt) })
	return out, nil
}

// CountUnclaimedSpins counts unclaimed outcomes of all users
func (s *Store) CountUnclaimedSpins(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, o := range s.spins {
		if !o.IsClaimed() {
			n++
		}
	}
	return n, nil
}

// GetBalances returns the user's wallet
func (s *Store) GetBalances(ctx context.Context, userID string) (domain.Balances, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.balanceLocked(userID), nil
}

// BeginTx locks the store until the transaction ends
func (s *Store) BeginTx(ctx context.Context) (repository.WheelTx, error) {
	s.mu.Lock()
	return &tx{
		s:        s,
		states:   make(map[string]domain.UserSpinState),
		spins:    make(map[string]domain.SpinOutcome),
		balances: make(map[string]domain.Balances),
	}, nil
}

func (s *Store) stateLocked(userID string) domain.UserSpinState {
	if st, ok := s.states[userID]; ok {
		return st.Clone()
	}
	return domain.UserSpinState{UserID: userID}
}

func (s *Store) balanceLocked(userID string) domain.Balances {
	if b, ok := s.balances[userID]; ok {
		return b
	}
	return domain.Balances{GoldCoins: decimal.Zero, SweepCoins: decimal.Zero}
}

var errTxClosed = errors.New(domain.ErrMsgTxClosed)

// tx stages writes and applies them on Commit
type tx struct {
	s        *Store
	done     bool
	states   map[string]domain.UserSpinState
	spins    map[string]domain.SpinOutcome
	balances map[string]domain.Balances
}

func (t *tx) Commit(ctx context.Context) error {
	if t.done {
		return errTxClosed
	}
	for k, v := range t.states {
		t.s.states[k] = v
	}
	for k, v := range t.spins {
		t.s.spins[k] = v
	}
	for k, v := range t.balances {
		t.s.balances[k] = v
	}
	t.done = true
	t.s.mu.Unlock()
	return nil
}

func (t *tx) Rollback(ctx context.Context) error {
	if t.done {
		return errTxClosed
	}
	t.done = true
	t.s.mu.Unlock()
	return nil
}

func (t *tx) GetSpinStateForUpdate(ctx context.Context, userID string) (domain.UserSpinState, error) {
	if st, ok := t.states[userID]; ok {
		return st.Clone(), nil
	}
	return t.s.stateLocked(userID), nil
}

func (t *tx) SaveSpinState(ctx context.Context, state domain.UserSpinState) error {
	t.states[state.UserID] = state.Clone()
	return nil
}

func (t *tx) CreateSpin(ctx context.Context, outcome domain.SpinOutcome) error {
	if _, ok := t.s.spins[outcome.SpinID]; ok {
		return fmt.Errorf("%w: duplicate spin id %s", domain.ErrInvalidInput, outcome.SpinID)
	}
	t.spins[outcome.SpinID] = outcome
	return nil
}

func (t *tx) GetSpinForUpdate(ctx context.Context, spinID string) (*domain.SpinOutcome, error) {
	if o, ok := t.spins[spinID]; ok {
		return &o, nil
	}
	if o, ok := t.s.spins[spinID]; ok {
		return &o, nil
	}
	return nil, domain.ErrSpinNotFound
}

func (t *tx) MarkSpinClaimed(ctx context.Context, spinID string, claimedAt time.Time) error {
	o, err := t.GetSpinForUpdate(ctx, spinID)
	if err != nil {
		return err
	}
	o.ClaimedAt = &claimedAt
	t.spins[spinID] = *o
	return nil
}

func (t *tx) CreditBalance(ctx context.Context, userID string, currency domain.CurrencyType, amount decimal.Decimal) (domain.Balances, error) {
	b, ok := t.balances[userID]
	if !ok {
		b = t.s.balanceLocked(userID)
	}
	b = b.Credit(currency, amount)
	t.balances[userID] = b
	return b, nil
}
