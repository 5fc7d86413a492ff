package web

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/feedback/internal/common"
	"github.com/dmitrijs2005/feedback/internal/server/models"
	"github.com/julienschmidt/httprouter"
)

// pageUser loads the account named in the path. It writes a 404 or 500 and
// returns nil when the account cannot be shown.
func (s *Server) pageUser(w http.ResponseWriter, r *http.Request) *models.User {
	username := httprouter.ParamsFromContext(r.Context()).ByName("username")

	user, err := s.users.GetByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.notFound(w)
			return nil
		}
		s.serverError(w, r, err)
		return nil
	}
	return user
}

func (s *Server) welcome(w http.ResponseWriter, r *http.Request) {
	user := s.pageUser(w, r)
	if user == nil {
		return
	}

	list, err := s.feedback.List(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	s.render(w, r, http.StatusOK, "welcome.page.html", &HTMLData{
		Title:        "Welcome",
		User:         user,
		FeedbackList: list,
		CanEdit:      currentUser(r).UserName == user.UserName,
	})
}

func (s *Server) showAccount(w http.ResponseWriter, r *http.Request) {
	user := s.pageUser(w, r)
	if user == nil {
		return
	}

	list, err := s.feedback.ListByOwner(r.Context(), user.UserName)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	s.render(w, r, http.StatusOK, "account.page.html", &HTMLData{
		Title:        "Account Details",
		User:         user,
		FeedbackList: list,
		CanEdit:      currentUser(r).UserName == user.UserName,
	})
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(r)
	username := httprouter.ParamsFromContext(r.Context()).ByName("username")

	if actor.UserName != username {
		s.denyAccess(w, r)
		return
	}

	if err := s.users.Delete(r.Context(), username); err != nil {
		s.serverError(w, r, err)
		return
	}

	s.log(r).Info(r.Context(), "account deleted", "username", username)

	s.clearSessionCookie(w)
	s.flash(w, r, flashSuccess, msgAccountDeleted)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
