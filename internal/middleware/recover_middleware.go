package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"yatube/internal/logging"
)

// Recover turns a panic in a handler into the 500 page. http.ErrAbortHandler
// is re-raised so net/http can drop the connection.
func Recover(onPanic func(w http.ResponseWriter, r *http.Request, err error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				err, ok := rec.(error)
				if !ok {
					err = fmt.Errorf("panic: %v", rec)
				}
				logging.Ctx(r.Context()).Error().
					Err(err).
					Str("stack", string(debug.Stack())).
					Msg("panic recovered")
				onPanic(w, r, errors.Join(errPanic, err))
			}()
			next.ServeHTTP(w, r)
		})
	}
}

var errPanic = errors.New("handler panicked")
