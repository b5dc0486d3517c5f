package middleware

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"yatube/internal/logging"
)

var (
	ErrCSRFTokenMissing = errors.New("CSRF token missing")
	ErrCSRFTokenInvalid = errors.New("CSRF token invalid")
	// ErrRequestTooLarge means the body hit the size limit before the token
	// could be read, so the request was neither accepted nor forged.
	ErrRequestTooLarge = errors.New("request body too large")
)

const (
	CSRFCookieName = "_csrf"
	CSRFHeaderName = "X-CSRF-Token"
	CSRFFormField  = "csrf_token"
	csrfTokenBytes = 32

	// multipartMemory matches net/http's default for FormValue
	multipartMemory = 32 << 20
)

type csrfContextKey struct{}

// CSRF implements the double-submit cookie pattern: every unsafe request
// must echo the value of the _csrf cookie in the csrf_token form field or
// the X-CSRF-Token header. onFailure renders the rejection; the request it
// gets carries the visitor's own token, so a re-rendered form stays usable.
func CSRF(secureCookie bool, onFailure func(w http.ResponseWriter, r *http.Request, err error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
				token := ensureCSRFToken(w, r, secureCookie)
				next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), csrfContextKey{}, token)))
				return
			}

			cookieToken := csrfCookie(r)
			requestToken, err := csrfFromRequest(r)
			if err == nil {
				err = validateCSRF(cookieToken, requestToken)
			}
			if err != nil {
				msg := "CSRF check failed"
				if errors.Is(err, ErrRequestTooLarge) {
					msg = "request body over the size limit"
				}
				logging.Ctx(r.Context()).Warn().Err(err).Str("path", r.URL.Path).Msg(msg)
				token := ensureCSRFToken(w, r, secureCookie)
				onFailure(w, r.WithContext(context.WithValue(r.Context(), csrfContextKey{}, token)), err)
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), csrfContextKey{}, cookieToken)))
		})
	}
}

// CSRFToken returns the token to embed in forms rendered for this request.
func CSRFToken(ctx context.Context) string {
	token, _ := ctx.Value(csrfContextKey{}).(string)
	return token
}

func validateCSRF(cookieToken, requestToken string) error {
	if cookieToken == "" || requestToken == "" {
		return ErrCSRFTokenMissing
	}
	if subtle.ConstantTimeCompare([]byte(cookieToken), []byte(requestToken)) != 1 {
		return ErrCSRFTokenInvalid
	}
	return nil
}

func ensureCSRFToken(w http.ResponseWriter, r *http.Request, secure bool) string {
	if token := csrfCookie(r); token != "" {
		return token
	}

	b := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(b); err != nil {
		logging.Error().Err(err).Msg("CSRF: failed to generate token")
		return ""
	}
	token := base64.RawURLEncoding.EncodeToString(b)
	http.SetCookie(w, &http.Cookie{
		Name:     CSRFCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return token
}

func csrfCookie(r *http.Request) string {
	c, err := r.Cookie(CSRFCookieName)
	if err != nil {
		return ""
	}
	return c.Value
}

// csrfFromRequest reads the token from the header or the form body.
// A body over the size limit yields ErrRequestTooLarge.
func csrfFromRequest(r *http.Request) (string, error) {
	if token := r.Header.Get(CSRFHeaderName); token != "" {
		return token, nil
	}

	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(multipartMemory)
	} else {
		err = r.ParseForm()
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return "", fmt.Errorf("%w: limit %d bytes", ErrRequestTooLarge, tooLarge.Limit)
	}
	// other parse errors leave the token empty and fail as missing
	return r.PostFormValue(CSRFFormField), nil
}
