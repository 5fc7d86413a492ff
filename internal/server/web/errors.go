package web

import (
	"net/http"
	"runtime/debug"
)

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.log(r).Error(r.Context(), "internal error", "error", err, "stack", string(debug.Stack()))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func (s *Server) clientError(w http.ResponseWriter, status int) {
	http.Error(w, http.StatusText(status), status)
}

func (s *Server) notFound(w http.ResponseWriter) {
	s.clientError(w, http.StatusNotFound)
}
