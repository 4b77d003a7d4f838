// internal/app/features/classes/routes.go
package classes

import (
	"github.com/dalemusser/mindfulness/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(r chi.Router, h *Handler, tm *auth.TokenManager) {
	r.Get("/classes", h.List)
	r.Post("/classes", h.Create)
	r.Get("/top-classes", h.Top)

	r.With(tm.RequireToken).Get("/instructors/{instructorId}/classes", h.ByInstructor)
}
