// Package web serves the HTML interface: routing, sessions, flash messages,
// form validation and page rendering on top of the account and feedback
// services.
package web

import (
	"context"
	"html/template"
	"net/http"
	"time"

	"github.com/dmitrijs2005/feedback/internal/logging"
	"github.com/dmitrijs2005/feedback/internal/server/models"
)

// UserService is the subset of services.UserService used by the handlers.
type UserService interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*models.User, string, error)
	UserFromSession(ctx context.Context, token string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Delete(ctx context.Context, username string) error
}

// FeedbackService is the subset of services.FeedbackService used by the
// handlers.
type FeedbackService interface {
	Create(ctx context.Context, owner, title, content string) (*models.Feedback, error)
	Get(ctx context.Context, id int64) (*models.Feedback, error)
	List(ctx context.Context) ([]*models.Feedback, error)
	ListByOwner(ctx context.Context, username string) ([]*models.Feedback, error)
	Update(ctx context.Context, actor string, id int64, title, content string) (*models.Feedback, error)
	Delete(ctx context.Context, actor string, id int64) error
}

// Pinger reports database reachability for /healthz. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Options struct {
	SessionTTL    time.Duration
	SecureCookies bool
}

type Server struct {
	logger        logging.Logger
	users         UserService
	feedback      FeedbackService
	db            Pinger
	sessionTTL    time.Duration
	secureCookies bool
	templates     map[string]*template.Template
}

// NewServer parses the embedded templates and returns a Server ready to
// hand out its Handler.
func NewServer(logger logging.Logger, users UserService, feedback FeedbackService, db Pinger, opts Options) (*Server, error) {
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	return &Server{
		logger:        logger.With("module", "http_server"),
		users:         users,
		feedback:      feedback,
		db:            db,
		sessionTTL:    opts.SessionTTL,
		secureCookies: opts.SecureCookies,
		templates:     templates,
	}, nil
}

// Handler returns the router wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	return s.recoverPanic(s.logRequest(s.loadSession(s.routes())))
}

// log returns the request-scoped logger, falling back to the server one.
func (s *Server) log(r *http.Request) logging.Logger {
	return logging.FromContext(r.Context(), s.logger)
}
