package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Recovery turns a handler panic into a logged 500. http.ErrAbortHandler is
// re-raised so the server aborts the response as intended.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			if rec == http.ErrAbortHandler { //nolint:errorlint // sentinel panics are compared by identity
				panic(rec)
			}

			zerolog.Ctx(r.Context()).Error().
				Err(panicError(rec)).
				Bytes("stack", debug.Stack()).
				Str("request_id", chimiddleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("panic recovered")

			writeError(w, http.StatusInternalServerError, "internal server error")
		}()

		next.ServeHTTP(w, r)
	})
}

func panicError(rec any) error {
	if err, ok := rec.(error); ok {
		return err
	}

	if s, ok := rec.(string); ok {
		return errors.New(s)
	}

	return fmt.Errorf("panic: %v", rec)
}
