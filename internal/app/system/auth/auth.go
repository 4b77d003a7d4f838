package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/dalemusser/mindfulness/internal/app/system/jsonutil"
	"github.com/dalemusser/mindfulness/internal/app/system/jwtutil"
	"github.com/dalemusser/mindfulness/internal/app/system/normalize"
	"github.com/dalemusser/mindfulness/internal/app/system/timeouts"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Identity in request context                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

// Identity is the verified caller, decoded from the bearer token.
type Identity struct {
	Email  string
	Claims map[string]any
}

type ctxKey string

const currentIdentityKey ctxKey = "currentIdentity"

// CurrentIdentity returns the verified identity & "found?" flag.
func CurrentIdentity(r *http.Request) (*Identity, bool) {
	id, ok := r.Context().Value(currentIdentityKey).(*Identity)
	return id, ok && id != nil
}

// WithTestIdentity injects id into the request context, bypassing token
// verification. Only tests should call it.
func WithTestIdentity(r *http.Request, id *Identity) *http.Request {
	return withIdentity(r, id)
}

func withIdentity(r *http.Request, id *Identity) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentIdentityKey, id))
}

/*─────────────────────────────────────────────────────────────────────────────*
| TokenManager                                                                |
*─────────────────────────────────────────────────────────────────────────────*/

// RoleLookup resolves the stored role of a user. A user that does not exist
// has role "" and no error.
type RoleLookup interface {
	RoleByEmail(ctx context.Context, email string) (string, error)
}

// TokenManager owns the bearer-token middleware chain.
type TokenManager struct {
	issuer *jwtutil.Issuer
	roles  RoleLookup
	log    *zap.Logger
}

// NewTokenManager builds a TokenManager. roles may be nil when no route
// needs RequireRole.
func NewTokenManager(issuer *jwtutil.Issuer, roles RoleLookup, logger *zap.Logger) *TokenManager {
	return &TokenManager{issuer: issuer, roles: roles, log: logger}
}

// Issuer returns the token issuer used for verification.
func (m *TokenManager) Issuer() *jwtutil.Issuer {
	return m.issuer
}

// RequireToken verifies the Authorization bearer token and stores the
// decoded identity in the request context. Any failure is a 401 and the
// chain stops.
func (m *TokenManager) RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			jsonutil.Error(w, http.StatusUnauthorized, "unauthorized access")
			return
		}

		token, ok := bearerToken(header)
		if !ok {
			jsonutil.Error(w, http.StatusUnauthorized, "unauthorized access")
			return
		}

		claims, err := m.issuer.Verify(token)
		if err != nil {
			m.log.Debug("token rejected", zap.Error(err))
			jsonutil.Error(w, http.StatusUnauthorized, "unauthorized access")
			return
		}

		email, _ := claims["email"].(string)
		id := &Identity{Email: normalize.Email(email), Claims: claims}
		next.ServeHTTP(w, withIdentity(r, id))
	})
}

// RequireRole allows the request only if the caller's stored role is one of
// allowed. It must run after RequireToken; without an identity it answers 401.
// The role is read from the store on every request so promotions and
// demotions take effect immediately.
func (m *TokenManager) RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[normalize.Role(role)] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := CurrentIdentity(r)
			if !ok {
				jsonutil.Error(w, http.StatusUnauthorized, "unauthorized access")
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
			defer cancel()

			role, err := m.roles.RoleByEmail(ctx, id.Email)
			if err != nil {
				m.log.Error("role lookup failed", zap.String("email", id.Email), zap.Error(err))
				jsonutil.Error(w, http.StatusInternalServerError, "internal server error")
				return
			}

			if _, has := set[normalize.Role(role)]; !has {
				jsonutil.Error(w, http.StatusForbidden, "forbidden access")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// bearerToken returns the second segment of "Bearer <token>".
func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) < 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}
