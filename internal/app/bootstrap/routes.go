// internal/app/bootstrap/routes.go
package bootstrap

import (
	"errors"
	"net/http"

	classesfeature "github.com/dalemusser/mindfulness/internal/app/features/classes"
	errorsfeature "github.com/dalemusser/mindfulness/internal/app/features/errors"
	healthfeature "github.com/dalemusser/mindfulness/internal/app/features/health"
	homefeature "github.com/dalemusser/mindfulness/internal/app/features/home"
	instructorsfeature "github.com/dalemusser/mindfulness/internal/app/features/instructors"
	selectedclassesfeature "github.com/dalemusser/mindfulness/internal/app/features/selectedclasses"
	tokenfeature "github.com/dalemusser/mindfulness/internal/app/features/token"
	usersfeature "github.com/dalemusser/mindfulness/internal/app/features/users"
	classstore "github.com/dalemusser/mindfulness/internal/app/store/classes"
	instructorstore "github.com/dalemusser/mindfulness/internal/app/store/instructors"
	selectionstore "github.com/dalemusser/mindfulness/internal/app/store/selectedclasses"
	userstore "github.com/dalemusser/mindfulness/internal/app/store/users"
	"github.com/dalemusser/mindfulness/internal/app/system/auth"
	"github.com/dalemusser/mindfulness/internal/app/system/jwtutil"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/router"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: the document store bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// Features register absolute paths on the root router. Public, token and
// admin routes share prefixes (/users, /classes), so each feature applies its
// own RequireToken and RequireRole groups instead of being mounted.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	if coreCfg == nil {
		return nil, errors.New("no core config")
	}
	if deps.Store == nil {
		return nil, errors.New("no document store configured")
	}

	// Stores
	users := userstore.New(deps.Store)
	instructors := instructorstore.New(deps.Store)
	classes := classstore.New(deps.Store)
	selections := selectionstore.New(deps.Store)

	// Token issue/verify and role checks read the same secret and user store.
	issuer := jwtutil.NewIssuer(appCfg.AccessTokenSecret, appCfg.TokenTTL)
	tokenMgr := auth.NewTokenManager(issuer, users, logger)

	// Create error logger for handlers.
	errLog := errorsfeature.NewErrorLogger(logger)

	// Request ID, panic recovery, body size limit, metrics and access logging.
	r := router.New(coreCfg, logger)
	r.Use(cors.Handler(corsOptions(appCfg.CORSOrigins)))

	// Keep the {"error":true,"message":...} envelope for unmatched routes.
	r.NotFound(errorsfeature.NotFound)
	r.MethodNotAllowed(errorsfeature.MethodNotAllowed)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.Store, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	homefeature.Routes(r, homefeature.NewHandler(logger))

	// Token issuance
	tokenfeature.Routes(r, tokenfeature.NewHandler(issuer, errLog, logger))

	// Resources
	usersfeature.Routes(r, usersfeature.NewHandler(users, errLog, logger), tokenMgr)
	instructorsfeature.Routes(r, instructorsfeature.NewHandler(instructors, errLog, logger), tokenMgr)
	classesfeature.Routes(r, classesfeature.NewHandler(classes, errLog, logger), tokenMgr)
	selectedclassesfeature.Routes(r, selectedclassesfeature.NewHandler(selections, errLog, logger), tokenMgr)

	return r, nil
}

// corsOptions allows the browser client to send bearer tokens from any of
// origins. A lone "*" allows every origin; credentials stay off because the
// token travels in a header, not a cookie.
func corsOptions(origins []string) cors.Options {
	return cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}
}
