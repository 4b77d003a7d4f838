// internal/app/features/instructors/routes.go
package instructors

import (
	"github.com/dalemusser/mindfulness/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(r chi.Router, h *Handler, tm *auth.TokenManager) {
	r.Get("/top-instractors", h.Top)
	r.Get("/users/instractor/{id}", h.Get)

	r.Group(func(pr chi.Router) {
		pr.Use(tm.RequireToken)
		pr.Get("/instractors", h.List)
		pr.Post("/instractors", h.Create)
		pr.Delete("/instractors/{id}", h.Delete)
	})
}
