// internal/app/features/users/routes.go
package users

import (
	"github.com/dalemusser/mindfulness/internal/app/system/auth"
	"github.com/dalemusser/mindfulness/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes registers the user endpoints on r. Paths are absolute because the
// role probes live under both /users and /user.
func Routes(r chi.Router, h *Handler, tm *auth.TokenManager) {
	// Public: the client upserts the user on every login.
	r.Post("/users", h.Create)

	// Any verified caller.
	r.Group(func(pr chi.Router) {
		pr.Use(tm.RequireToken)
		pr.Get("/users/admin/{email}", h.RoleProbe(models.RoleAdmin, KeyAdmin))
		pr.Get("/user/instractor/{email}", h.RoleProbe(models.RoleInstructor, KeyInstructor))
		pr.Get("/user/student/{email}", h.RoleProbe(models.RoleStudent, KeyStudent))
		pr.Patch("/users/instractor/{id}", h.Promote(models.RoleInstructor))
	})

	// Admins only.
	r.Group(func(ar chi.Router) {
		ar.Use(tm.RequireToken)
		ar.Use(tm.RequireRole(models.RoleAdmin))
		ar.Get("/users", h.List)
		ar.Delete("/users/{id}", h.Delete)
		ar.Patch("/users/admin/{id}", h.Promote(models.RoleAdmin))
	})
}
