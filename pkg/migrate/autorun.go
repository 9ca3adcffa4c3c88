package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/tillpoint-backend/pkg/config"
	"github.com/angelmondragon/tillpoint-backend/pkg/db"
	"github.com/angelmondragon/tillpoint-backend/pkg/logger"
)

// MaybeRunDev applies pending migrations at boot, only in dev with
// TILLPOINT_AUTO_MIGRATE set.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	sqlDB, err := client.SQL()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}
	migrator, err := NewMigrator(sqlDB, DefaultDir, cfg.FeatureFlags.UseSQLite)
	if err != nil {
		return err
	}

	ctx = logg.WithFields(ctx, map[string]any{"dir": migrator.Dir(), "dialect": migrator.Dialect()})
	if err := migrator.Run(ctx, "up"); err != nil {
		return fmt.Errorf("dev auto-migrate: %w", err)
	}
	version, err := migrator.Version(ctx)
	if err != nil {
		return err
	}
	logg.Info(logg.WithField(ctx, "version", version), "migrate.dev_applied")
	return nil
}
