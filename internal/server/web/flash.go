package web

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/dmitrijs2005/feedback/internal/common"
)

const (
	flashError   = "error"
	flashSuccess = "success"
)

const (
	msgLoginRequired    = "You must be logged in to view this page"
	msgForbidden        = "You cannot access this page"
	msgUsernameTaken    = "Username already exists"
	msgAccountCreated   = "Account created, please log in"
	msgRegisterFailed   = "There was an error creating your account, please try again"
	msgInvalidLogin     = "Invalid credentials"
	msgFeedbackNotFound = "Feedback not found"
	msgFeedbackAdded    = "Feedback added"
	msgFeedbackUpdated  = "Feedback updated"
	msgFeedbackNotSaved = "Feedback not updated"
	msgFeedbackDeleted  = "Feedback deleted"
	msgAccountDeleted   = "Account deleted"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string `json:"c"`
	Message  string `json:"m"`
}

// flash queues messages for the next rendered page, keeping any that were
// queued earlier and not yet shown.
func (s *Server) flash(w http.ResponseWriter, r *http.Request, category string, messages ...string) {
	pending := readFlashes(r)
	for _, m := range messages {
		pending = append(pending, Flash{Category: category, Message: m})
	}

	b, err := json.Marshal(pending)
	if err != nil {
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     common.FlashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(b),
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlashes returns the queued messages and drops the cookie.
func (s *Server) popFlashes(w http.ResponseWriter, r *http.Request) []Flash {
	if _, err := r.Cookie(common.FlashCookieName); err != nil {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     common.FlashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	return readFlashes(r)
}

// readFlashes decodes the flash cookie; a tampered value reads as empty.
func readFlashes(r *http.Request) []Flash {
	c, err := r.Cookie(common.FlashCookieName)
	if err != nil || c.Value == "" {
		return nil
	}

	b, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}

	var out []Flash
	if err := json.Unmarshal(b, &out); err != nil {
		return nil
	}
	return out
}
