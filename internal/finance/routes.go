package finance

import "github.com/go-chi/chi/v5"

// RegisterRoutes mounts the finance endpoints under /finance.
func RegisterRoutes(r chi.Router) {
	r.Route("/finance", func(r chi.Router) {
		r.Post("/amortization", Amortization)
		r.Post("/compound", Compound)
	})
}
