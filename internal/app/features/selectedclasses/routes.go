// internal/app/features/selectedclasses/routes.go
package selectedclasses

import (
	"github.com/dalemusser/mindfulness/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(r chi.Router, h *Handler, tm *auth.TokenManager) {
	r.Get("/selectedClasses", h.All)

	r.Group(func(pr chi.Router) {
		pr.Use(tm.RequireToken)
		pr.Post("/selectedClasses", h.Mine)
		pr.Post("/selectedClasses/items", h.Add)
		pr.Delete("/selectedClasses/{id}", h.Remove)
	})
}
