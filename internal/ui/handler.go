// Package ui renders the QueryPulse console: server-side HTML pages over the
// monitoring API, with all state held in the injected containers.
package ui

import (
	"errors"
	"net/http"

	gomponents "maragu.dev/gomponents"

	"querypulse/internal/apiclient"
	"querypulse/internal/domain"
	"querypulse/internal/poller"
	"querypulse/internal/recstate"
	"querypulse/internal/registry"
	"querypulse/internal/session"
)

type Handler struct {
	API       *apiclient.Client
	Session   *session.Store
	Registry  *registry.Store
	Recs      *recstate.Store
	Dashboard *poller.Poller

	// CSRFSecret keys the HMAC on the double-submit cookie.
	CSRFSecret     string
	SlowQueryLimit int
	Production     bool
}

func NewHandler(
	api *apiclient.Client,
	sessionStore *session.Store,
	registryStore *registry.Store,
	recStore *recstate.Store,
	dashboard *poller.Poller,
	csrfSecret string,
	slowQueryLimit int,
	production bool,
) *Handler {
	return &Handler{
		API:            api,
		Session:        sessionStore,
		Registry:       registryStore,
		Recs:           recStore,
		Dashboard:      dashboard,
		CSRFSecret:     csrfSecret,
		SlowQueryLimit: slowQueryLimit,
		Production:     production,
	}
}

func renderHTML(w http.ResponseWriter, status int, node gomponents.Node) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = node.Render(w)
}

func userFromContext(r *http.Request) domain.User {
	u, ok := domain.UserFromContext(r.Context())
	if !ok {
		return domain.User{Email: "unknown"}
	}
	return u
}

// renderAPIError maps a backend failure onto the right console response.
// A 401 means the session is gone (the client hook already cleared it), so
// the only sane answer is the login page.
func (h *Handler) renderAPIError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatus {
		case http.StatusUnauthorized:
			h.redirectToLogin(w, r)
			return
		case http.StatusNotFound:
			renderHTML(w, http.StatusNotFound, errorPage("Not Found", apiErr.Message))
			return
		case http.StatusForbidden:
			renderHTML(w, http.StatusForbidden, errorPage("Access Denied", apiErr.Message))
			return
		case http.StatusBadRequest, http.StatusUnprocessableEntity:
			renderHTML(w, http.StatusBadRequest, errorPage("Invalid Request", apiErr.Message))
			return
		case http.StatusConflict:
			renderHTML(w, http.StatusConflict, errorPage("Conflict", apiErr.Message))
			return
		}
	}

	var notFound *domain.NotFoundError
	var validation *domain.ValidationError
	if errors.As(err, &notFound) {
		renderHTML(w, http.StatusNotFound, errorPage("Not Found", notFound.Error()))
		return
	}
	if errors.As(err, &validation) {
		renderHTML(w, http.StatusBadRequest, errorPage("Invalid Request", validation.Error()))
		return
	}

	renderHTML(w, http.StatusBadGateway, errorPage("Backend Unavailable", "The monitoring API could not be reached. Check the connection and try again."))
}

// errorMessage extracts the human-readable part of a backend failure for
// inline display next to a form.
func errorMessage(err error) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "The monitoring API could not be reached."
}
