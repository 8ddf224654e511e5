package ui

import (
	"net/http"
	"strings"
	"time"

	"querypulse/internal/domain"
)

const bearerCookieName = "qp_bearer"

func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if h.Session.IsAuthenticated() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	renderHTML(w, http.StatusOK, loginPage("", "", csrfFieldProvider(r)))
}

func (h *Handler) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		renderHTML(w, http.StatusBadRequest, loginPage("", "Invalid form submission.", csrfFieldProvider(r)))
		return
	}
	email := formString(r.Form, "email")
	password := r.Form.Get("password")
	if email == "" || password == "" {
		renderHTML(w, http.StatusBadRequest, loginPage(email, "Email and password are required.", csrfFieldProvider(r)))
		return
	}

	if err := h.Session.Login(r.Context(), email, password); err != nil {
		renderHTML(w, http.StatusUnauthorized, loginPage(email, errorMessage(err), csrfFieldProvider(r)))
		return
	}

	h.setBearerCookie(w, h.Session.Token())
	h.redirectAfterLogin(w, r)
}

func (h *Handler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	if h.Session.IsAuthenticated() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	renderHTML(w, http.StatusOK, registerPage(registerFormData{}, "", csrfFieldProvider(r)))
}

func (h *Handler) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		renderHTML(w, http.StatusBadRequest, registerPage(registerFormData{}, "Invalid form submission.", csrfFieldProvider(r)))
		return
	}
	form := registerFormData{
		Email:    formString(r.Form, "email"),
		FullName: formString(r.Form, "full_name"),
	}
	password := r.Form.Get("password")
	if form.Email == "" || password == "" {
		renderHTML(w, http.StatusBadRequest, registerPage(form, "Email and password are required.", csrfFieldProvider(r)))
		return
	}

	if err := h.Session.Register(r.Context(), form.Email, password, form.FullName); err != nil {
		renderHTML(w, http.StatusBadRequest, registerPage(form, errorMessage(err), csrfFieldProvider(r)))
		return
	}

	h.setBearerCookie(w, h.Session.Token())
	http.Redirect(w, r, "/onboarding", http.StatusSeeOther)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.Session.Logout()
	h.clearBearerCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// RequireSession guards authenticated pages. After a console restart the
// in-process session is gone but the browser still carries the token cookie,
// so the first request resumes it before the redirect decision.
func (h *Handler) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.Session.IsAuthenticated() {
			if cookie, err := r.Cookie(bearerCookieName); err == nil && strings.TrimSpace(cookie.Value) != "" {
				h.Session.ResumeToken(r.Context(), strings.TrimSpace(cookie.Value))
			}
		}
		user, ok := h.Session.User()
		if !ok {
			h.clearBearerCookie(w)
			h.redirectToLogin(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(domain.WithUser(r.Context(), user)))
	})
}

func (h *Handler) redirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *Handler) redirectAfterLogin(w http.ResponseWriter, r *http.Request) {
	if user, ok := h.Session.User(); ok && !user.OnboardingCompleted {
		http.Redirect(w, r, "/onboarding", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) setBearerCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     bearerCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.Production,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(24 * time.Hour),
	})
}

func (h *Handler) clearBearerCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     bearerCookieName,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.Production,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
