package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/osse101/SpinWheel_Go/internal/domain"
	"github.com/osse101/SpinWheel_Go/internal/repository"
)

// WheelRepository implements repository.Wheel for PostgreSQL
type WheelRepository struct {
	db *pgxpool.Pool
}

var _ repository.Wheel = (*WheelRepository)(nil)

// NewWheelRepository creates a new WheelRepository
func NewWheelRepository(db *pgxpool.Pool) *WheelRepository {
	return &WheelRepository{db: db}
}

// GetConfig returns the stored config document with its version
func (r *WheelRepository) GetConfig(ctx context.Context) (*domain.Config, error) {
	var (
		version int64
		doc     []byte
	)
	err := r.db.QueryRow(ctx, SQLSelectConfig, configRowID).Scan(&version, &doc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrConfigNotFound
		}
		return nil, wrapDBError(ErrMsgFailedToGetConfig, err)
	}

	var cfg domain.Config
	if err := json.Unmarshal(doc, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToDecodeConfig, err)
	}
	cfg.Version = version
	return &cfg, nil
}

// SaveConfig replaces the config under a row lock so concurrent saves serialize
func (r *WheelRepository) SaveConfig(ctx context.Context, cfg domain.Config, expectedVersion int64) (*domain.Config, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, wrapDBError(ErrMsgFailedToBeginTransaction, err)
	}
	defer SafeRollback(ctx, tx)

	var current int64
	stmt := SQLUpdateConfig
	err = tx.QueryRow(ctx, SQLSelectConfigVersionForUpdate, configRowID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		stmt = SQLInsertConfig
	} else if err != nil {
		return nil, wrapDBError(ErrMsgFailedToSaveConfig, err)
	}
	if expectedVersion != 0 && expectedVersion != current {
		return nil, fmt.Errorf("%w: expected version %d, stored %d", domain.ErrConfigConflict, expectedVersion, current)
	}

	saved := cfg.Clone()
	saved.Version = current + 1
	doc, err := json.Marshal(saved)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToSaveConfig, err)
	}

	if _, err := tx.Exec(ctx, stmt, configRowID, saved.Version, doc); err != nil {
		// Two first saves racing on an empty table both see no row
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: concurrent first save", domain.ErrConfigConflict)
		}
		return nil, wrapDBError(ErrMsgFailedToSaveConfig, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, wrapDBError(ErrMsgFailedToCommitTransaction, err)
	}
	return &saved, nil
}

// GetSpinState returns the user's trigger state, empty for unknown users
func (r *WheelRepository) GetSpinState(ctx context.Context, userID string) (domain.UserSpinState, error) {
	return getSpinState(ctx, r.db, SQLSelectSpinState, userID)
}

// GetSpin returns one outcome
func (r *WheelRepository) GetSpin(ctx context.Context, spinID string) (*domain.SpinOutcome, error) {
	return getSpin(ctx, r.db, SQLSelectSpin, spinID)
}

// ListUnclaimedSpins returns the user's unclaimed outcomes, oldest first
func (r *WheelRepository) ListUnclaimedSpins(ctx context.Context, userID string) ([]domain.SpinOutcome, error) {
	rows, err := r.db.Query(ctx, SQLSelectUnclaimedSpins, userID)
	if err != nil {
		return nil, wrapDBError(ErrMsgFailedToListSpins, err)
	}
	defer rows.Close()

	var out []domain.SpinOutcome
	for rows.Next() {
		o, err := scanSpin(rows)
		if err != nil {
			return nil, wrapDBError(ErrMsgFailedToListSpins, err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapDBError(ErrMsgFailedToListSpins, err)
	}
	return out, nil
}

// CountUnclaimedSpins counts unclaimed outcomes across all users
func (r *WheelRepository) CountUnclaimedSpins(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, SQLCountUnclaimedSpins).Scan(&n); err != nil {
		return 0, wrapDBError(ErrMsgFailedToCountUnclaimed, err)
	}
	return n, nil
}

// GetBalances returns the user's wallet, zero when none exists yet
func (r *WheelRepository) GetBalances(ctx context.Context, userID string) (domain.Balances, error) {
	var gc, sc string
	err := r.db.QueryRow(ctx, SQLSelectBalances, userID).Scan(&gc, &sc)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Balances{GoldCoins: decimal.Zero, SweepCoins: decimal.Zero}, nil
		}
		return domain.Balances{}, wrapDBError(ErrMsgFailedToGetBalances, err)
	}
	return parseBalances(gc, sc)
}

// BeginTx starts a transaction
func (r *WheelRepository) BeginTx(ctx context.Context) (repository.WheelTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, wrapDBError(ErrMsgFailedToBeginTransaction, err)
	}
	return &wheelTx{tx: tx}, nil
}

// wheelTx implements repository.WheelTx on a pgx transaction
type wheelTx struct {
	tx pgx.Tx
}

func (t *wheelTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *wheelTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// GetSpinStateForUpdate creates the state row if needed and locks it
func (t *wheelTx) GetSpinStateForUpdate(ctx context.Context, userID string) (domain.UserSpinState, error) {
	if _, err := t.tx.Exec(ctx, SQLEnsureSpinState, userID); err != nil {
		return domain.UserSpinState{}, wrapDBError(ErrMsgFailedToGetSpinState, err)
	}
	return getSpinState(ctx, t.tx, SQLSelectSpinStateForUpdate, userID)
}

func (t *wheelTx) SaveSpinState(ctx context.Context, state domain.UserSpinState) error {
	thresholds, err := json.Marshal(thresholdsOrEmpty(state.Thresholds))
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToSaveSpinState, err)
	}
	_, err = t.tx.Exec(ctx, SQLUpsertSpinState,
		state.UserID, state.FirstTimeGranted, state.LastRandomGrant, state.ThresholdSpins, thresholds)
	if err != nil {
		return wrapDBError(ErrMsgFailedToSaveSpinState, err)
	}
	return nil
}

func (t *wheelTx) CreateSpin(ctx context.Context, o domain.SpinOutcome) error {
	id, err := parseSpinID(o.SpinID)
	if err != nil {
		return fmt.Errorf("%w: spin id must be a uuid", domain.ErrInvalidInput)
	}
	_, err = t.tx.Exec(ctx, SQLInsertSpin,
		id.String(), o.UserID, o.RewardID, decimal.NewFromFloat(o.Amount).String(),
		string(o.Type), string(o.Rarity), o.Description, string(o.Trigger), o.IssuedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: duplicate spin id %s", domain.ErrInvalidInput, o.SpinID)
		}
		return wrapDBError(ErrMsgFailedToCreateSpin, err)
	}
	return nil
}

func (t *wheelTx) GetSpinForUpdate(ctx context.Context, spinID string) (*domain.SpinOutcome, error) {
	return getSpin(ctx, t.tx, SQLSelectSpinForUpdate, spinID)
}

func (t *wheelTx) MarkSpinClaimed(ctx context.Context, spinID string, claimedAt time.Time) error {
	id, err := parseSpinID(spinID)
	if err != nil {
		return err
	}
	tag, err := t.tx.Exec(ctx, SQLMarkSpinClaimed, id.String(), claimedAt)
	if err != nil {
		return wrapDBError(ErrMsgFailedToMarkClaimed, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSpinNotFound
	}
	return nil
}

func (t *wheelTx) CreditBalance(ctx context.Context, userID string, currency domain.CurrencyType, amount decimal.Decimal) (domain.Balances, error) {
	delta := domain.Balances{GoldCoins: decimal.Zero, SweepCoins: decimal.Zero}.Credit(currency, amount)

	var gc, sc string
	err := t.tx.QueryRow(ctx, SQLCreditBalance, userID, delta.GoldCoins.String(), delta.SweepCoins.String()).Scan(&gc, &sc)
	if err != nil {
		return domain.Balances{}, wrapDBError(ErrMsgFailedToCreditBalance, err)
	}
	return parseBalances(gc, sc)
}

func getSpinState(ctx context.Context, q querier, sql, userID string) (domain.UserSpinState, error) {
	state := domain.UserSpinState{UserID: userID}
	var thresholds []byte

	err := q.QueryRow(ctx, sql, userID).Scan(
		&state.FirstTimeGranted, &state.LastRandomGrant, &state.ThresholdSpins, &thresholds)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.UserSpinState{UserID: userID}, nil
		}
		return domain.UserSpinState{}, wrapDBError(ErrMsgFailedToGetSpinState, err)
	}

	if len(thresholds) > 0 {
		if err := json.Unmarshal(thresholds, &state.Thresholds); err != nil {
			return domain.UserSpinState{}, fmt.Errorf("%s: %w", ErrMsgFailedToGetSpinState, err)
		}
	}
	if len(state.Thresholds) == 0 {
		state.Thresholds = nil
	}
	return state, nil
}

func getSpin(ctx context.Context, q querier, sql, spinID string) (*domain.SpinOutcome, error) {
	id, err := parseSpinID(spinID)
	if err != nil {
		return nil, err
	}
	o, err := scanSpin(q.QueryRow(ctx, sql, id.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSpinNotFound
		}
		return nil, wrapDBError(ErrMsgFailedToGetSpin, err)
	}
	return &o, nil
}

func scanSpin(row pgx.Row) (domain.SpinOutcome, error) {
	var (
		o                         domain.SpinOutcome
		currency, rarity, trigger string
	)
	err := row.Scan(&o.SpinID, &o.UserID, &o.RewardID, &o.Amount, &currency, &rarity,
		&o.Description, &trigger, &o.IssuedAt, &o.ClaimedAt)
	if err != nil {
		return domain.SpinOutcome{}, err
	}
	o.Type = domain.CurrencyType(currency)
	o.Rarity = domain.Rarity(rarity)
	o.Trigger = domain.TriggerKind(trigger)
	return o, nil
}

func thresholdsOrEmpty(m map[string]domain.ThresholdProgress) map[string]domain.ThresholdProgress {
	if m == nil {
		return map[string]domain.ThresholdProgress{}
	}
	return m
}
