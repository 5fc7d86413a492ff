package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"

	"github.com/dmitrijs2005/feedback/internal/server/models"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/base.layout.html"

// templateFuncs must be used for every link built from a username so the
// name is path-escaped the same way redirects are.
var templateFuncs = template.FuncMap{
	"userPath": userPath,
}

// HTMLData is the value every page template is executed with.
type HTMLData struct {
	Title        string
	Path         string
	Flashes      []Flash
	FormData     map[string]string // submitted values echoed back into the form
	FormAction   string
	CurrentUser  *models.User
	User         *models.User
	Feedback     *models.Feedback
	FeedbackList []*models.Feedback
	CanEdit      bool
}

// parseTemplates builds one template set per page, each combined with the
// shared layout.
func parseTemplates() (map[string]*template.Template, error) {
	pages, err := fs.Glob(templateFS, "templates/*.page.html")
	if err != nil {
		return nil, err
	}

	cache := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		name := path.Base(page)
		ts, err := template.New(name).Funcs(templateFuncs).ParseFS(templateFS, layoutFile, page)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
		cache[name] = ts
	}

	return cache, nil
}

// render executes page into a buffer first so a template error still yields
// a clean 500 instead of half a page.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page string, data *HTMLData) {
	ts, ok := s.templates[page]
	if !ok {
		s.serverError(w, r, fmt.Errorf("template %s does not exist", page))
		return
	}

	if data == nil {
		data = &HTMLData{}
	}
	data.Path = r.URL.Path
	if data.CurrentUser == nil {
		data.CurrentUser = currentUser(r)
	}
	data.Flashes = append(s.popFlashes(w, r), data.Flashes...)

	buf := new(bytes.Buffer)
	if err := ts.ExecuteTemplate(buf, "base", data); err != nil {
		s.serverError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// errorFlashes turns messages into error-category flashes for a re-rendered
// form.
func errorFlashes(messages ...string) []Flash {
	out := make([]Flash, 0, len(messages))
	for _, m := range messages {
		out = append(out, Flash{Category: flashError, Message: m})
	}
	return out
}
