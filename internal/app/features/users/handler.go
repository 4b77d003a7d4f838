// internal/app/features/users/handler.go
package users

import (
	uierrors "github.com/dalemusser/mindfulness/internal/app/features/errors"
	userstore "github.com/dalemusser/mindfulness/internal/app/store/users"
	"go.uber.org/zap"
)

// Handler serves the user collection: signup, listing, deletion, role
// promotion and the boolean role probes the client uses to pick a dashboard.
type Handler struct {
	Users  *userstore.Store
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

func NewHandler(users *userstore.Store, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:  users,
		ErrLog: errLog,
		Log:    logger,
	}
}
