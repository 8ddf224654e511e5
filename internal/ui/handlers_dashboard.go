package ui

import (
	"net/http"

	"querypulse/internal/queryproc"
)

func (h *Handler) DashboardPage(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r)

	if len(h.Registry.Connections()) == 0 {
		if err := h.Registry.Fetch(r.Context()); err != nil {
			h.renderAPIError(w, r, err)
			return
		}
	}
	db, ok := h.Registry.Selected()
	if !ok {
		renderHTML(w, http.StatusOK, dashboardEmptyPage(user))
		return
	}

	snap, ok := h.Dashboard.Snapshot()
	if !ok || snap.DatabaseID != db.ID {
		// First view after startup or after switching databases: fetch
		// inline instead of showing a stale or empty dashboard.
		if err := h.Dashboard.Refresh(r.Context()); err != nil {
			h.renderAPIError(w, r, err)
			return
		}
		snap, ok = h.Dashboard.Snapshot()
		if !ok {
			renderHTML(w, http.StatusOK, dashboardEmptyPage(user))
			return
		}
	}

	renderHTML(w, http.StatusOK, dashboardPage(user, db, snap, csrfFieldProvider(r)))
}

// DashboardRefresh forces a poll cycle. The form carries the desired time
// range so the selector doubles as the refresh trigger.
func (h *Handler) DashboardRefresh(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	if tr := formString(r.PostForm, "range"); tr != "" {
		if _, ok := validDashboardRanges[queryproc.TimeRange(tr)]; ok {
			h.Dashboard.SetTimeRange(tr)
		}
	}
	if err := h.Dashboard.Refresh(r.Context()); err != nil {
		h.renderAPIError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

var validDashboardRanges = map[queryproc.TimeRange]struct{}{
	queryproc.RangeHour:  {},
	queryproc.Range6H:    {},
	queryproc.RangeDay:   {},
	queryproc.RangeWeek:  {},
	queryproc.RangeMonth: {},
}
