package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/osse101/SpinWheel_Go/internal/domain"
	"github.com/osse101/SpinWheel_Go/internal/logger"
	"github.com/osse101/SpinWheel_Go/internal/rewardservice"
	"github.com/osse101/SpinWheel_Go/internal/utils"
	"github.com/osse101/SpinWheel_Go/internal/validation"
)

// SeedWheelConfig stores the config at path when the authority has none yet.
// A stored config always wins over the file. The file is checked against the embedded
// JSON schema before it is loaded; probability problems are saved and logged, not rejected.
func SeedWheelConfig(ctx context.Context, svc rewardservice.Service, schemas validation.SchemaValidator, path string) error {
	_, err := svc.GetConfig(ctx)
	switch {
	case err == nil:
		logger.Info(LogMsgConfigPresent)
		return nil
	case !errors.Is(err, domain.ErrConfigNotFound):
		return fmt.Errorf("%s: %w", ErrMsgFailedReadStoredConfig, err)
	}

	if path == "" {
		logger.Warn(LogMsgSeedFileMissing)
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		logger.Warn(LogMsgSeedFileMissing, "path", path)
		return nil
	}

	logger.Info(LogMsgSeedingConfig, "path", path)
	if err := schemas.ValidateFile(path, validation.WheelConfigSchema); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgInvalidSeedConfig, err)
	}

	var cfg domain.Config
	if err := utils.LoadJSON(path, &cfg); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedLoadSeedConfig, err)
	}
	// A seed always creates the first version
	cfg.Version = 0

	res, err := svc.UpdateConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedSaveSeedConfig, err)
	}

	if !res.Validation.Valid {
		logger.Warn(LogMsgSeedConfigInvalid,
			"issues", res.Validation.Issues,
			"total_probability", res.Validation.TotalProbability)
	}
	logger.Info(LogMsgConfigSeeded,
		"version", res.Config.Version,
		"rewards", len(res.Config.Rewards),
		"active_rewards", len(res.Config.ActiveRewards()))
	return nil
}
