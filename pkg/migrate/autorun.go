package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/haulmarket/pkg/config"
	"github.com/angelmondragon/haulmarket/pkg/db"
	"github.com/angelmondragon/haulmarket/pkg/logger"
)

// MaybeRunDev applies pending migrations on API start-up, but only in dev
// with HAULMARKET_AUTO_MIGRATE set.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("auto-migrate: sql handle: %w", err)
	}
	ctx = logg.WithFields(ctx, map[string]any{"dir": DefaultDir, "env": cfg.App.Env})

	if err := Run(ctx, sqlDB, DefaultDir, "up"); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	version, err := CurrentVersion(ctx, sqlDB)
	if err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	logg.Info(logg.WithField(ctx, "schema_version", version), "schema migrated")
	return nil
}
