package ui

import (
	"net/http"
)

func (h *Handler) OnboardingPage(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)
	if user.OnboardingCompleted {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if len(h.Registry.Connections()) == 0 {
		// Best effort; a fresh account usually has nothing yet.
		_ = h.Registry.Fetch(r.Context())
	}
	renderHTML(w, http.StatusOK, onboardingPage(user, h.Registry.Connections(), databaseFormData{Port: 5432}, "", csrfFieldProvider(r)))
}

// OnboardingAddDatabase registers the first database from the onboarding
// flow, re-rendering the step with inline errors instead of bouncing to the
// full form page.
func (h *Handler) OnboardingAddDatabase(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	user := userFromContext(r)
	form, nc, formErr := databaseFormFromRequest(r)
	if formErr != "" {
		renderHTML(w, http.StatusBadRequest, onboardingPage(user, h.Registry.Connections(), form, formErr, csrfFieldProvider(r)))
		return
	}
	if _, err := h.Registry.Add(r.Context(), nc); err != nil {
		renderHTML(w, http.StatusBadGateway, onboardingPage(user, h.Registry.Connections(), form, errorMessage(err), csrfFieldProvider(r)))
		return
	}
	http.Redirect(w, r, "/onboarding", http.StatusSeeOther)
}

func (h *Handler) OnboardingComplete(w http.ResponseWriter, r *http.Request) {
	if err := h.Session.CompleteOnboarding(r.Context()); err != nil {
		h.renderAPIError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
