package web

import (
	"context"
	"net/http"
	"net/url"
	"time"
)

func (s *Server) home(w http.ResponseWriter, r *http.Request) {
	if u := currentUser(r); u != nil {
		http.Redirect(w, r, userPath(u.UserName), http.StatusSeeOther)
		return
	}
	s.render(w, r, http.StatusOK, "home.page.html", &HTMLData{Title: "Home"})
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := s.db.PingContext(ctx); err != nil {
		s.log(r).Warn(r.Context(), "database ping failed", "error", err)
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
		return
	}
	_, _ = w.Write([]byte("ok"))
}

func userPath(username string) string {
	return "/users/" + url.PathEscape(username)
}
