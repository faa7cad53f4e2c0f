package migrate

import (
	"context"
	"fmt"

	"github.com/floramarket/flora-backend/pkg/config"
	"github.com/floramarket/flora-backend/pkg/db"
	"github.com/floramarket/flora-backend/pkg/logger"
)

// MaybeRunDev applies pending migrations on API boot when running in dev with
// FLORA_AUTO_MIGRATE enabled. Other environments migrate through cmd/migrate.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) (bool, error) {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return false, nil
	}

	sqlDB, err := client.SQL()
	if err != nil {
		return false, fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "dir": DefaultDir})
	logg.Info(ctx, "migrate.autorun.start")

	if err := Run(ctx, sqlDB, DefaultDir, "up"); err != nil {
		return false, fmt.Errorf("running goose up: %w", err)
	}

	logg.Info(ctx, "migrate.autorun.complete")
	return true, nil
}
