package web

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (s *Server) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { s.notFound(w) })
	router.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.clientError(w, http.StatusMethodNotAllowed)
	})

	router.HandlerFunc(http.MethodGet, "/", s.home)
	router.HandlerFunc(http.MethodGet, "/healthz", s.healthz)

	router.HandlerFunc(http.MethodGet, "/register", s.registerForm)
	router.HandlerFunc(http.MethodPost, "/register", s.register)
	router.HandlerFunc(http.MethodGet, "/login", s.loginForm)
	router.HandlerFunc(http.MethodPost, "/login", s.login)
	router.HandlerFunc(http.MethodGet, "/logout", s.requireAuth(s.logout))

	router.HandlerFunc(http.MethodGet, "/users/:username", s.requireAuth(s.welcome))
	router.HandlerFunc(http.MethodGet, "/users/:username/account", s.requireAuth(s.showAccount))
	router.HandlerFunc(http.MethodPost, "/users/:username/delete", s.requireAuth(s.deleteUser))
	router.HandlerFunc(http.MethodGet, "/users/:username/feedback/add", s.requireAuth(s.addFeedbackForm))
	router.HandlerFunc(http.MethodPost, "/users/:username/feedback/add", s.requireAuth(s.addFeedback))

	router.HandlerFunc(http.MethodGet, "/feedback/:id", s.requireAuth(s.showFeedback))
	router.HandlerFunc(http.MethodGet, "/feedback/:id/update", s.requireAuth(s.editFeedbackForm))
	router.HandlerFunc(http.MethodPost, "/feedback/:id/update", s.requireAuth(s.editFeedback))
	router.HandlerFunc(http.MethodPost, "/feedback/:id/delete", s.requireAuth(s.deleteFeedback))

	return router
}
