package ui

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"querypulse/internal/domain"
)

func (h *Handler) DatabasesList(w http.ResponseWriter, r *http.Request) {
	if err := h.Registry.Fetch(r.Context()); err != nil {
		h.renderAPIError(w, r, err)
		return
	}

	selected, _ := h.Registry.Selected()
	conns := h.Registry.Connections()
	rows := make([]databaseRowData, 0, len(conns))
	for _, conn := range conns {
		rows = append(rows, databaseRowData{
			ID:       conn.ID,
			Name:     conn.Name,
			Type:     string(conn.Type),
			Target:   conn.Host + ":" + strconv.Itoa(conn.Port) + "/" + conn.DatabaseName,
			Status:   connectionStatusText(conn),
			Tone:     connectionStatusTone(conn),
			Selected: conn.ID == selected.ID,
		})
	}

	renderHTML(w, http.StatusOK, databasesListPage(userFromContext(r), rows, csrfFieldProvider(r)))
}

func (h *Handler) DatabasesNew(w http.ResponseWriter, r *http.Request) {
	renderHTML(w, http.StatusOK, databaseFormPage(userFromContext(r), databaseFormData{Port: 5432}, "", "", csrfFieldProvider(r)))
}

func (h *Handler) DatabasesCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	form, nc, formErr := databaseFormFromRequest(r)
	if formErr != "" {
		renderHTML(w, http.StatusBadRequest, databaseFormPage(userFromContext(r), form, formErr, "", csrfFieldProvider(r)))
		return
	}

	if _, err := h.Registry.Add(r.Context(), nc); err != nil {
		renderHTML(w, http.StatusBadGateway, databaseFormPage(userFromContext(r), form, errorMessage(err), "", csrfFieldProvider(r)))
		return
	}
	http.Redirect(w, r, "/databases", http.StatusSeeOther)
}

// DatabasesTest validates connection details without saving them, re-rendering
// the form with the backend's verdict.
func (h *Handler) DatabasesTest(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	form, nc, formErr := databaseFormFromRequest(r)
	if formErr != "" {
		renderHTML(w, http.StatusBadRequest, databaseFormPage(userFromContext(r), form, formErr, "", csrfFieldProvider(r)))
		return
	}

	result, err := h.API.TestConnection(r.Context(), nc)
	if err != nil {
		renderHTML(w, http.StatusBadGateway, databaseFormPage(userFromContext(r), form, errorMessage(err), "", csrfFieldProvider(r)))
		return
	}
	notice := result.Message
	if notice == "" {
		if result.Success {
			notice = "Connection succeeded."
		} else {
			notice = "Connection failed."
		}
	}
	renderHTML(w, http.StatusOK, databaseFormPage(userFromContext(r), form, "", notice, csrfFieldProvider(r)))
}

func (h *Handler) DatabasesSelect(w http.ResponseWriter, r *http.Request) {
	h.Registry.Select(chi.URLParam(r, "databaseID"))
	// The dashboard polls against the selection; refresh it eagerly so the
	// next page view is not a cycle behind. Detached from the request so the
	// redirect does not wait on three backend calls.
	go func() { _ = h.Dashboard.Refresh(context.Background()) }()
	http.Redirect(w, r, "/databases", http.StatusSeeOther)
}

func (h *Handler) DatabasesDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.Registry.Delete(r.Context(), chi.URLParam(r, "databaseID")); err != nil {
		h.renderAPIError(w, r, err)
		return
	}
	http.Redirect(w, r, "/databases", http.StatusSeeOther)
}

// databaseFormFromRequest parses and validates the shared add/test form.
// It returns the echoed form values, the payload, and a validation message
// ("" when the payload is usable).
func databaseFormFromRequest(r *http.Request) (databaseFormData, domain.NewConnection, string) {
	form := databaseFormData{
		Name:         formString(r.PostForm, "name"),
		Type:         formString(r.PostForm, "db_type"),
		Host:         formString(r.PostForm, "host"),
		Port:         formInt(r.PostForm, "port", 0),
		DatabaseName: formString(r.PostForm, "database_name"),
		Username:     formString(r.PostForm, "username"),
	}
	password := first(r.PostForm["password"])

	nc := domain.NewConnection{
		Name:         form.Name,
		Type:         domain.ConnectionType(form.Type),
		Host:         form.Host,
		Port:         form.Port,
		DatabaseName: form.DatabaseName,
		Username:     form.Username,
		Password:     password,
	}

	switch {
	case form.Name == "":
		return form, nc, "Name is required."
	case form.Host == "":
		return form, nc, "Host is required."
	case form.Port <= 0 || form.Port > 65535:
		return form, nc, "Port must be between 1 and 65535."
	case form.DatabaseName == "":
		return form, nc, "Database name is required."
	}
	switch nc.Type {
	case domain.ConnectionPostgres, domain.ConnectionMySQL, domain.ConnectionMongoDB:
	default:
		return form, nc, "Unsupported database type."
	}
	return form, nc, ""
}

func connectionStatusText(conn domain.Connection) string {
	if conn.ConnectionStatus != "" {
		return conn.ConnectionStatus
	}
	if conn.IsActive {
		return "active"
	}
	return "inactive"
}

func connectionStatusTone(conn domain.Connection) string {
	switch connectionStatusText(conn) {
	case "connected", "active":
		return "success"
	case "error", "failed":
		return "danger"
	default:
		return "muted"
	}
}
