// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/mindfulness/internal/app/system/indexes"
	"github.com/dalemusser/mindfulness/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// EnsureSchema creates the indexes every backend relies on. The unique email
// index is what turns a concurrent duplicate signup into "user already exists".
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.Memory != nil {
		indexes.EnsureMemory(deps.Memory)
	}
	if deps.MongoDatabase == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()

	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("ensure indexes failed", zap.Error(err))
		return err
	}
	logger.Info("indexes ensured", zap.Int("count", len(indexes.Specs)))
	return nil
}
