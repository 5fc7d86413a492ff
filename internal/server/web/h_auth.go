package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/feedback/internal/common"
)

func (s *Server) registerForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "register.page.html", &HTMLData{Title: "Register"})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var form RegisterForm
	if err := decodeForm(r, &form); err != nil {
		s.clientError(w, http.StatusBadRequest)
		return
	}

	data := &HTMLData{
		Title:    "Register",
		FormData: map[string]string{"username": form.Username},
	}

	if msgs := validateForm(&form); msgs != nil {
		data.Flashes = errorFlashes(msgs...)
		s.render(w, r, http.StatusUnprocessableEntity, "register.page.html", data)
		return
	}

	user, err := s.users.Register(r.Context(), form.Username, form.Password)
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			data.Flashes = errorFlashes(msgUsernameTaken)
			s.render(w, r, http.StatusConflict, "register.page.html", data)
			return
		}
		if errors.Is(err, common.ErrInvalidInput) {
			data.Flashes = errorFlashes(invalidInputMessage(err))
			s.render(w, r, http.StatusUnprocessableEntity, "register.page.html", data)
			return
		}
		s.log(r).Error(r.Context(), "registration failed", "username", form.Username, "error", err)
		data.Flashes = errorFlashes(msgRegisterFailed)
		s.render(w, r, http.StatusInternalServerError, "register.page.html", data)
		return
	}

	s.log(r).Info(r.Context(), "user registered", "username", user.UserName, "id", user.ID)

	s.flash(w, r, flashSuccess, msgAccountCreated)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) loginForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "login.page.html", &HTMLData{Title: "Login"})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var form LoginForm
	if err := decodeForm(r, &form); err != nil {
		s.clientError(w, http.StatusBadRequest)
		return
	}

	data := &HTMLData{
		Title:    "Login",
		FormData: map[string]string{"username": form.Username},
		Flashes:  errorFlashes(msgInvalidLogin),
	}

	if msgs := validateForm(&form); msgs != nil {
		s.render(w, r, http.StatusUnauthorized, "login.page.html", data)
		return
	}

	user, token, err := s.users.Login(r.Context(), form.Username, form.Password)
	if err != nil {
		if !errors.Is(err, common.ErrUnauthorized) {
			s.serverError(w, r, err)
			return
		}
		s.log(r).Info(r.Context(), "login failed", "username", form.Username)
		s.render(w, r, http.StatusUnauthorized, "login.page.html", data)
		return
	}

	s.setSessionCookie(w, token)
	s.log(r).Info(r.Context(), "login successful", "username", user.UserName, "id", user.ID)

	http.Redirect(w, r, userPath(user.UserName), http.StatusSeeOther)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	s.clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// invalidInputMessage strips the sentinel prefix from a validation error so
// the rest can be shown to the user.
func invalidInputMessage(err error) string {
	msg := err.Error()
	if _, rest, ok := strings.Cut(msg, common.ErrInvalidInput.Error()+": "); ok {
		msg = rest
	}
	if msg == "" {
		return msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}
