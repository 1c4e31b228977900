package postgres

// PostgreSQL error codes
const (
	// PgErrorCodeUniqueViolation is the PostgreSQL error code for unique constraint violations
	PgErrorCodeUniqueViolation = "23505"
)

// configRowID is the primary key of the singleton wheel_config row
const configRowID = 1

// Error Messages - Transactions
const (
	ErrMsgFailedToBeginTransaction  = "failed to begin transaction"
	ErrMsgFailedToCommitTransaction = "failed to commit transaction"
	LogMsgFailedToRollback          = "Failed to rollback transaction"
)

// Error Messages - Wheel
const (
	ErrMsgFailedToGetConfig      = "failed to get wheel config"
	ErrMsgFailedToSaveConfig     = "failed to save wheel config"
	ErrMsgFailedToDecodeConfig   = "failed to decode wheel config"
	ErrMsgFailedToGetSpinState   = "failed to get spin state"
	ErrMsgFailedToSaveSpinState  = "failed to save spin state"
	ErrMsgFailedToCreateSpin     = "failed to create spin"
	ErrMsgFailedToGetSpin        = "failed to get spin"
	ErrMsgFailedToListSpins      = "failed to list unclaimed spins"
	ErrMsgFailedToMarkClaimed    = "failed to mark spin claimed"
	ErrMsgFailedToGetBalances    = "failed to get balances"
	ErrMsgFailedToCreditBalance  = "failed to credit balance"
	ErrMsgFailedToParseNumeric   = "failed to parse numeric"
	ErrMsgFailedToCountUnclaimed = "failed to count unclaimed spins"
)

// SQL - Config
const (
	SQLSelectConfig = `
		SELECT version, document
		FROM wheel_config
		WHERE id = $1
	`

	SQLSelectConfigVersionForUpdate = `
		SELECT version
		FROM wheel_config
		WHERE id = $1
		FOR UPDATE
	`

	SQLInsertConfig = `
		INSERT INTO wheel_config (id, version, document, updated_at)
		VALUES ($1, $2, $3, NOW())
	`

	SQLUpdateConfig = `
		UPDATE wheel_config
		SET version = $2, document = $3, updated_at = NOW()
		WHERE id = $1
	`
)

// SQL - User spin state
const (
	SQLSelectSpinState = `
		SELECT first_time_granted, last_random_grant, threshold_spins, thresholds
		FROM wheel_user_state
		WHERE user_id = $1
	`

	// SQLEnsureSpinState creates the row so it can be locked even for new users
	SQLEnsureSpinState = `
		INSERT INTO wheel_user_state (user_id)
		VALUES ($1)
		ON CONFLICT (user_id) DO NOTHING
	`

	SQLSelectSpinStateForUpdate = `
		SELECT first_time_granted, last_random_grant, threshold_spins, thresholds
		FROM wheel_user_state
		WHERE user_id = $1
		FOR UPDATE
	`

	SQLUpsertSpinState = `
		INSERT INTO wheel_user_state (user_id, first_time_granted, last_random_grant, threshold_spins, thresholds, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET first_time_granted = EXCLUDED.first_time_granted,
		    last_random_grant = EXCLUDED.last_random_grant,
		    threshold_spins = EXCLUDED.threshold_spins,
		    thresholds = EXCLUDED.thresholds,
		    updated_at = EXCLUDED.updated_at
	`
)

// SQL - Spins
const (
	spinColumns = `spin_id::text, user_id, reward_id, amount::float8, currency, rarity, description, trigger, issued_at, claimed_at`

	SQLInsertSpin = `
		INSERT INTO wheel_spins (spin_id, user_id, reward_id, amount, currency, rarity, description, trigger, issued_at)
		VALUES ($1, $2, $3, $4::numeric, $5, $6, $7, $8, $9)
	`

	SQLSelectSpin = `SELECT ` + spinColumns + ` FROM wheel_spins WHERE spin_id = $1`

	SQLSelectSpinForUpdate = SQLSelectSpin + ` FOR UPDATE`

	SQLSelectUnclaimedSpins = `SELECT ` + spinColumns + `
		FROM wheel_spins
		WHERE user_id = $1 AND claimed_at IS NULL
		ORDER BY issued_at ASC
	`

	SQLCountUnclaimedSpins = `SELECT COUNT(*) FROM wheel_spins WHERE claimed_at IS NULL`

	SQLMarkSpinClaimed = `
		UPDATE wheel_spins
		SET claimed_at = $2
		WHERE spin_id = $1
	`
)

// SQL - Wallets
const (
	SQLSelectBalances = `
		SELECT gold_coins::text, sweep_coins::text
		FROM wallets
		WHERE user_id = $1
	`

	SQLCreditBalance = `
		INSERT INTO wallets (user_id, gold_coins, sweep_coins)
		VALUES ($1, $2::numeric, $3::numeric)
		ON CONFLICT (user_id) DO UPDATE
		SET gold_coins = wallets.gold_coins + EXCLUDED.gold_coins,
		    sweep_coins = wallets.sweep_coins + EXCLUDED.sweep_coins
		RETURNING gold_coins::text, sweep_coins::text
	`
)
