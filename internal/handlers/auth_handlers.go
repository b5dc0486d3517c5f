package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"yatube/internal/auth"
	"yatube/internal/forms"
	"yatube/internal/logging"
	"yatube/internal/models"
)

// Signup displays and processes the registration form.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		h.render(w, r, http.StatusOK, "signup.html", &TemplateData{SignupForm: &forms.SignupForm{}})
		return
	}

	form, err := forms.ParseSignupForm(r)
	if err != nil {
		h.Render500(w, r, err)
		return
	}
	errs := form.Validate()
	if errs == nil {
		u := &models.User{
			Username:  form.Username,
			Email:     form.Email,
			FirstName: form.FirstName,
			LastName:  form.LastName,
			Password:  form.Password,
		}
		err = h.auth.RegisterUser(r.Context(), u)
		switch {
		case errors.Is(err, auth.ErrEmailExists):
			errs.Add("email", "unique", "Email already registered.")
		case errors.Is(err, auth.ErrUsernameExists):
			errs.Add("username", "unique", "A user with that username already exists.")
		case err != nil:
			h.Render500(w, r, err)
			return
		default:
			logging.Ctx(r.Context()).Info().Str("user", u.Username).Msg("user registered")
			http.Redirect(w, r, "/auth/login/", http.StatusSeeOther)
			return
		}
	}

	form.Password, form.Password2 = "", ""
	h.render(w, r, http.StatusOK, "signup.html", &TemplateData{SignupForm: form, Errors: errs})
}

// Login displays and processes the login form. After login the user goes to
// the local URL in ?next=, or to the index.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	next := safeNext(r.URL.Query().Get("next"))
	if r.Method == http.MethodGet {
		h.render(w, r, http.StatusOK, "login.html", &TemplateData{LoginForm: &forms.LoginForm{}, Next: next})
		return
	}

	form, err := forms.ParseLoginForm(r)
	if err != nil {
		h.Render500(w, r, err)
		return
	}
	if n := r.PostFormValue("next"); n != "" {
		next = safeNext(n)
	}
	data := &TemplateData{LoginForm: form, Next: next}

	if errs := form.Validate(); errs != nil {
		data.Errors = errs
		h.render(w, r, http.StatusOK, "login.html", data)
		return
	}

	user, session, err := h.auth.LoginUser(r.Context(), form.Login, form.Password)
	if err != nil {
		if !errors.Is(err, auth.ErrUserNotFound) && !errors.Is(err, auth.ErrInvalidPassword) {
			h.Render500(w, r, err)
			return
		}
		logging.Ctx(r.Context()).Info().Str("login", form.Login).Msg("login failed")
		form.Password = ""
		data.Error = "Please enter a correct username and password."
		h.render(w, r, http.StatusUnauthorized, "login.html", data)
		return
	}

	h.auth.SetSessionCookie(w, session)
	logging.Ctx(r.Context()).Info().Str("user", user.Username).Int("user_id", user.ID).Msg("user logged in")
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// Logout удаляет сессию и очищает куки.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(auth.SessionCookieName); err == nil {
		if err := h.auth.LogoutUser(r.Context(), c.Value); err != nil && !errors.Is(err, auth.ErrSessionNotFound) {
			logErr(r, err, "error deleting session")
		}
	}
	h.auth.ClearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// safeNext accepts only local absolute paths, so ?next= cannot send the user
// to another site.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, `/\`) {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.Host != "" || u.Scheme != "" {
		return "/"
	}
	return next
}
