package web

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/feedback/internal/common"
	"github.com/dmitrijs2005/feedback/internal/logging"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// statusRecorder captures the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	if rec.status == 0 {
		rec.status = code
	}
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	if rec.status == 0 {
		rec.status = http.StatusOK
	}
	return rec.ResponseWriter.Write(b)
}

// recoverPanic turns a panic in any handler into a 500 response.
func (s *Server) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				w.Header().Set("Connection", "close")
				s.serverError(w, r, fmt.Errorf("panic: %v", rec))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// logRequest tags the request with an id, stores a child logger carrying it
// in the context and logs the outcome.
func (s *Server) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		l := s.logger.With("request_id", id)
		r = r.WithContext(logging.WithLogger(r.Context(), l))

		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		l.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

// loadSession resolves the session cookie to an account and stores it in the
// request context. Stale or forged cookies are cleared and the request goes
// on anonymously.
func (s *Server) loadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := sessionToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		user, err := s.users.UserFromSession(r.Context(), token)
		if err != nil {
			if !errors.Is(err, common.ErrUnauthorized) {
				s.serverError(w, r, err)
				return
			}
			s.log(r).Debug(r.Context(), "dropping session", "reason", err)
			s.clearSessionCookie(w)
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(contextWithUser(r.Context(), user)))
	})
}

// requireAuth sends anonymous visitors to the login page. Protected pages are
// never cached.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")

		if currentUser(r) == nil {
			s.flash(w, r, flashError, msgLoginRequired)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

// denyAccess is the ownership-mismatch response: back to the login page,
// whoever is logged in.
func (s *Server) denyAccess(w http.ResponseWriter, r *http.Request) {
	s.flash(w, r, flashError, msgForbidden)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
