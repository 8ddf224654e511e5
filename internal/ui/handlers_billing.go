package ui

import (
	"net/http"
)

func (h *Handler) PricingPage(w http.ResponseWriter, r *http.Request) {
	renderHTML(w, http.StatusOK, pricingPage(userFromContext(r), csrfFieldProvider(r)))
}

// BillingCheckout starts an upgrade and hands the browser to the payment
// provider's hosted page.
func (h *Handler) BillingCheckout(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	plan := formString(r.PostForm, "plan")
	if plan == "" {
		http.Redirect(w, r, "/pricing", http.StatusSeeOther)
		return
	}
	session, err := h.API.CreateCheckoutSession(r.Context(), plan)
	if err != nil {
		h.renderAPIError(w, r, err)
		return
	}
	http.Redirect(w, r, session.URL, http.StatusSeeOther)
}

func (h *Handler) BillingPortal(w http.ResponseWriter, r *http.Request) {
	session, err := h.API.CreatePortalSession(r.Context())
	if err != nil {
		h.renderAPIError(w, r, err)
		return
	}
	http.Redirect(w, r, session.URL, http.StatusSeeOther)
}
