package ui

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"querypulse/internal/ui/assets"
)

// MountRoutes wires the console's routes. loginLimiter guards the credential
// forms against brute forcing; everything behind RequireSession needs a live
// session or a resumable bearer cookie.
func MountRoutes(r chi.Router, h *Handler, loginLimiter func(http.Handler) http.Handler) {
	r.Use(h.EnsureCSRFToken)
	r.Use(h.RequireCSRF)

	r.Get("/login", h.LoginPage)
	r.Get("/register", h.RegisterPage)
	r.With(loginLimiter).Post("/login", h.LoginSubmit)
	r.With(loginLimiter).Post("/register", h.RegisterSubmit)
	r.Post("/logout", h.Logout)

	staticFS, err := fs.Sub(assets.StaticFS(), "static")
	if err == nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	}

	r.Group(func(r chi.Router) {
		r.Use(h.RequireSession)

		r.Get("/", h.DashboardPage)
		r.Post("/dashboard/refresh", h.DashboardRefresh)

		r.Get("/onboarding", h.OnboardingPage)
		r.Post("/onboarding/databases", h.OnboardingAddDatabase)
		r.Post("/onboarding/complete", h.OnboardingComplete)

		r.Get("/databases", h.DatabasesList)
		r.Get("/databases/new", h.DatabasesNew)
		r.Post("/databases", h.DatabasesCreate)
		r.Post("/databases/test", h.DatabasesTest)
		r.Post("/databases/{databaseID}/select", h.DatabasesSelect)
		r.Post("/databases/{databaseID}/delete", h.DatabasesDelete)

		r.Get("/queries", h.QueriesList)
		r.Get("/queries/{queryID}", h.QueryDetail)
		r.Post("/queries/{queryID}/recommendations/{recID}/apply", h.RecommendationApply)
		r.Post("/queries/{queryID}/recommendations/{recID}/dismiss", h.RecommendationDismiss)

		r.Get("/pricing", h.PricingPage)
		r.Post("/billing/checkout", h.BillingCheckout)
		r.Post("/billing/portal", h.BillingPortal)
	})
}
