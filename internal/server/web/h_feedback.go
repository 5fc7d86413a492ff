package web

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/feedback/internal/common"
	"github.com/dmitrijs2005/feedback/internal/server/models"
	"github.com/julienschmidt/httprouter"
)

func (s *Server) addFeedbackForm(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(r)
	if actor.UserName != httprouter.ParamsFromContext(r.Context()).ByName("username") {
		s.denyAccess(w, r)
		return
	}

	s.render(w, r, http.StatusOK, "feedback_form.page.html", &HTMLData{
		Title:      "Add Feedback",
		User:       actor,
		FormAction: userPath(actor.UserName) + "/feedback/add",
	})
}

func (s *Server) addFeedback(w http.ResponseWriter, r *http.Request) {
	actor := currentUser(r)
	if actor.UserName != httprouter.ParamsFromContext(r.Context()).ByName("username") {
		s.denyAccess(w, r)
		return
	}

	var form FeedbackForm
	if err := decodeForm(r, &form); err != nil {
		s.clientError(w, http.StatusBadRequest)
		return
	}

	if msgs := validateForm(&form); msgs != nil {
		s.render(w, r, http.StatusUnprocessableEntity, "feedback_form.page.html", &HTMLData{
			Title:      "Add Feedback",
			User:       actor,
			FormAction: userPath(actor.UserName) + "/feedback/add",
			FormData:   map[string]string{"title": form.Title, "content": form.Content},
			Flashes:    errorFlashes(msgs...),
		})
		return
	}

	f, err := s.feedback.Create(r.Context(), actor.UserName, form.Title, form.Content)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	s.log(r).Info(r.Context(), "feedback created", "id", f.ID, "owner", actor.UserName)

	s.flash(w, r, flashSuccess, msgFeedbackAdded)
	http.Redirect(w, r, userPath(actor.UserName), http.StatusSeeOther)
}

func (s *Server) showFeedback(w http.ResponseWriter, r *http.Request) {
	f, ok := s.pageFeedback(w, r)
	if !ok {
		return
	}

	s.render(w, r, http.StatusOK, "feedback.page.html", &HTMLData{
		Title:    "Feedback",
		Feedback: f,
		CanEdit:  f.OwnedBy(currentUser(r).UserName),
	})
}

func (s *Server) editFeedbackForm(w http.ResponseWriter, r *http.Request) {
	f, ok := s.ownedFeedback(w, r)
	if !ok {
		return
	}

	s.render(w, r, http.StatusOK, "feedback_form.page.html", &HTMLData{
		Title:      "Edit Feedback",
		User:       currentUser(r),
		Feedback:   f,
		FormAction: fmt.Sprintf("/feedback/%d/update", f.ID),
		FormData:   map[string]string{"title": f.Title, "content": f.Content},
	})
}

func (s *Server) editFeedback(w http.ResponseWriter, r *http.Request) {
	f, ok := s.ownedFeedback(w, r)
	if !ok {
		return
	}
	actor := currentUser(r)

	var form FeedbackForm
	if err := decodeForm(r, &form); err != nil {
		s.clientError(w, http.StatusBadRequest)
		return
	}

	if msgs := validateForm(&form); msgs != nil {
		s.render(w, r, http.StatusUnprocessableEntity, "feedback_form.page.html", &HTMLData{
			Title:      "Edit Feedback",
			User:       actor,
			Feedback:   f,
			FormAction: fmt.Sprintf("/feedback/%d/update", f.ID),
			FormData:   map[string]string{"title": form.Title, "content": form.Content},
			Flashes:    errorFlashes(append([]string{msgFeedbackNotSaved}, msgs...)...),
		})
		return
	}

	if _, err := s.feedback.Update(r.Context(), actor.UserName, f.ID, form.Title, form.Content); err != nil {
		s.feedbackError(w, r, err)
		return
	}

	s.log(r).Info(r.Context(), "feedback updated", "id", f.ID, "owner", actor.UserName)

	s.flash(w, r, flashSuccess, msgFeedbackUpdated)
	http.Redirect(w, r, userPath(actor.UserName), http.StatusSeeOther)
}

func (s *Server) deleteFeedback(w http.ResponseWriter, r *http.Request) {
	f, ok := s.ownedFeedback(w, r)
	if !ok {
		return
	}
	actor := currentUser(r)

	if err := s.feedback.Delete(r.Context(), actor.UserName, f.ID); err != nil {
		s.feedbackError(w, r, err)
		return
	}

	s.log(r).Info(r.Context(), "feedback deleted", "id", f.ID, "owner", actor.UserName)

	s.flash(w, r, flashSuccess, msgFeedbackDeleted)
	http.Redirect(w, r, userPath(actor.UserName), http.StatusSeeOther)
}

// pageFeedback loads the note named by the :id path parameter. A missing note
// flashes and redirects to the viewer's own page; a malformed id is a 404.
func (s *Server) pageFeedback(w http.ResponseWriter, r *http.Request) (*models.Feedback, bool) {
	id, err := strconv.ParseInt(httprouter.ParamsFromContext(r.Context()).ByName("id"), 10, 64)
	if err != nil || id <= 0 {
		s.notFound(w)
		return nil, false
	}

	f, err := s.feedback.Get(r.Context(), id)
	if err != nil {
		s.feedbackError(w, r, err)
		return nil, false
	}
	return f, true
}

// ownedFeedback is pageFeedback plus the ownership check.
func (s *Server) ownedFeedback(w http.ResponseWriter, r *http.Request) (*models.Feedback, bool) {
	f, ok := s.pageFeedback(w, r)
	if !ok {
		return nil, false
	}
	if !f.OwnedBy(currentUser(r).UserName) {
		s.denyAccess(w, r)
		return nil, false
	}
	return f, true
}

func (s *Server) feedbackError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		s.flash(w, r, flashError, msgFeedbackNotFound)
		http.Redirect(w, r, userPath(currentUser(r).UserName), http.StatusSeeOther)
	case errors.Is(err, common.ErrForbidden):
		s.denyAccess(w, r)
	default:
		s.serverError(w, r, err)
	}
}
