package middleware

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"yatube/internal/auth"
	"yatube/internal/logging"
	"yatube/internal/models"
)

// LoginURL is where anonymous users are sent by RequireAuth.
const LoginURL = "/auth/login/"

// SessionResolver is the part of auth.Service the middleware needs.
type SessionResolver interface {
	GetUserBySession(ctx context.Context, token string) (*models.User, error)
	ClearSessionCookie(w http.ResponseWriter)
}

// Auth проверяет сессию пользователя и добавляет объект User в контекст запроса.
func Auth(sessions SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionCookie, err := r.Cookie(auth.SessionCookieName)
			if err != nil || sessionCookie.Value == "" {
				// Куки нет, пользователь не аутентифицирован.
				next.ServeHTTP(w, r)
				return
			}

			user, err := sessions.GetUserBySession(r.Context(), sessionCookie.Value)
			if err != nil {
				// Сессия недействительна или истекла. Очищаем куки.
				sessions.ClearSessionCookie(w)
				logging.Ctx(r.Context()).Debug().Err(err).Msg("dropping invalid session cookie")
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.ContextWithUser(r.Context(), user)))
		})
	}
}

// RequireAuth перенаправляет анонимов на страницу логина с параметром next.
// Для AJAX запросов возвращает JSON ошибку вместо редиректа.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.GetUserFromContext(r.Context()) != nil {
			next.ServeHTTP(w, r)
			return
		}

		if wantsJSON(r) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"Unauthorized"}`)) //nolint:errcheck
			return
		}
		http.Redirect(w, r, LoginRedirect(r.URL.RequestURI()), http.StatusFound)
	})
}

// LoginRedirect builds the login URL that returns to next after login.
func LoginRedirect(next string) string {
	return LoginURL + "?next=" + url.QueryEscape(next)
}

func wantsJSON(r *http.Request) bool {
	return r.Header.Get("X-Requested-With") == "XMLHttpRequest" ||
		strings.Contains(r.Header.Get("Accept"), "application/json")
}
