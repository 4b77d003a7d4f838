// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/mindfulness/internal/app/store/docstore"
	userstore "github.com/dalemusser/mindfulness/internal/app/store/users"
	"github.com/dalemusser/mindfulness/internal/app/system/normalize"
	"github.com/dalemusser/mindfulness/internal/app/system/timeouts"
	"github.com/dalemusser/mindfulness/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
//
// When admin_email is configured, that user is created (or promoted) as an
// admin so a fresh deployment has someone who can reach the admin routes.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.AdminEmail == "" {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()
	return ensureAdmin(ctx, deps, appCfg.AdminEmail, logger)
}

// ensureAdmin makes sure a user with email exists and has the admin role.
func ensureAdmin(ctx context.Context, deps DBDeps, email string, logger *zap.Logger) error {
	email = normalize.Email(email)
	if email == "" {
		return nil
	}
	users := userstore.New(deps.Store)

	existing, err := users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		res, err := users.Create(ctx, docstore.Doc{models.FieldEmail: email})
		if errors.Is(err, userstore.ErrExists) {
			// Another instance created it between the lookup and the insert.
			return ensureAdmin(ctx, deps, email, logger)
		}
		if err != nil {
			return fmt.Errorf("create admin %s: %w", email, err)
		}
		id, ok := res.InsertedID.(primitive.ObjectID)
		if !ok {
			return fmt.Errorf("admin %s inserted with non-ObjectID _id %v", email, res.InsertedID)
		}
		if _, err := users.SetRole(ctx, id, models.RoleAdmin); err != nil {
			return fmt.Errorf("grant admin %s: %w", email, err)
		}
		logger.Info("created admin user", zap.String("email", email))
		return nil

	case err != nil:
		return fmt.Errorf("look up admin %s: %w", email, err)
	}

	if role, _ := existing[models.FieldRole].(string); normalize.Role(role) == models.RoleAdmin {
		logger.Debug("admin user already present", zap.String("email", email))
		return nil
	}

	id, ok := existing[models.FieldID].(primitive.ObjectID)
	if !ok {
		return fmt.Errorf("admin %s has non-ObjectID _id %v", email, existing[models.FieldID])
	}
	if _, err := users.SetRole(ctx, id, models.RoleAdmin); err != nil {
		return fmt.Errorf("promote admin %s: %w", email, err)
	}
	logger.Info("promoted user to admin", zap.String("email", email))
	return nil
}
