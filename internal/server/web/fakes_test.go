package web

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/feedback/internal/common"
	"github.com/dmitrijs2005/feedback/internal/logging"
	"github.com/dmitrijs2005/feedback/internal/server/models"
	"github.com/stretchr/testify/require"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

type fakeUsers struct {
	byName    map[string]*models.User
	passwords map[string]string
	nextID    int64

	registerErr error
	sessionErr  error
	deleteErr   error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byName: map[string]*models.User{}, passwords: map[string]string{}}
}

func (f *fakeUsers) add(name, password string) *models.User {
	f.nextID++
	u := &models.User{ID: f.nextID, UserName: name, Password: "hash:" + password}
	f.byName[name] = u
	f.passwords[name] = password
	return u
}

func (f *fakeUsers) Register(ctx context.Context, username, password string) (*models.User, error) {
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	if _, ok := f.byName[username]; ok {
		return nil, common.ErrAlreadyExists
	}
	return f.add(username, password), nil
}

func (f *fakeUsers) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	u, ok := f.byName[username]
	if !ok || f.passwords[username] != password {
		return nil, "", common.ErrUnauthorized
	}
	return u, tokenFor(username), nil
}

func (f *fakeUsers) UserFromSession(ctx context.Context, token string) (*models.User, error) {
	if f.sessionErr != nil {
		return nil, f.sessionErr
	}
	name, ok := strings.CutPrefix(token, "tok-")
	if !ok {
		return nil, common.ErrUnauthorized
	}
	u, ok := f.byName[name]
	if !ok {
		return nil, common.ErrUnauthorized
	}
	return u, nil
}

func (f *fakeUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	u, ok := f.byName[username]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsers) Delete(ctx context.Context, username string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.byName, username)
	return nil
}

func tokenFor(username string) string { return "tok-" + username }

type fakeFeedback struct {
	byID   map[int64]*models.Feedback
	nextID int64

	listErr error
}

func newFakeFeedback() *fakeFeedback {
	return &fakeFeedback{byID: map[int64]*models.Feedback{}}
}

func (f *fakeFeedback) Create(ctx context.Context, owner, title, content string) (*models.Feedback, error) {
	f.nextID++
	fb := &models.Feedback{ID: f.nextID, Title: title, Content: content, UserName: owner}
	f.byID[fb.ID] = fb
	return fb, nil
}

func (f *fakeFeedback) Get(ctx context.Context, id int64) (*models.Feedback, error) {
	fb, ok := f.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	c := *fb
	return &c, nil
}

func (f *fakeFeedback) filter(keep func(*models.Feedback) bool) []*models.Feedback {
	out := []*models.Feedback{}
	for _, fb := range f.byID {
		if keep(fb) {
			out = append(out, fb)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeFeedback) List(ctx context.Context) ([]*models.Feedback, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.filter(func(*models.Feedback) bool { return true }), nil
}

func (f *fakeFeedback) ListByOwner(ctx context.Context, username string) ([]*models.Feedback, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.filter(func(fb *models.Feedback) bool { return fb.UserName == username }), nil
}

func (f *fakeFeedback) Update(ctx context.Context, actor string, id int64, title, content string) (*models.Feedback, error) {
	fb, ok := f.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	if fb.UserName != actor {
		return nil, common.ErrForbidden
	}
	fb.Title, fb.Content = title, content
	return fb, nil
}

func (f *fakeFeedback) Delete(ctx context.Context, actor string, id int64) error {
	fb, ok := f.byID[id]
	if !ok {
		return common.ErrNotFound
	}
	if fb.UserName != actor {
		return common.ErrForbidden
	}
	delete(f.byID, id)
	return nil
}

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

// --- helpers ---

type testEnv struct {
	srv      *Server
	h        http.Handler
	users    *fakeUsers
	feedback *fakeFeedback
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	users := newFakeUsers()
	feedback := newFakeFeedback()

	srv, err := NewServer(logging.Nop{}, users, feedback, fakePinger{}, Options{SessionTTL: time.Hour})
	require.NoError(t, err)

	return &testEnv{srv: srv, h: srv.Handler(), users: users, feedback: feedback}
}

// do sends a request through the full middleware chain. A non-empty user
// attaches that user's session cookie.
func (e *testEnv) do(t *testing.T, method, target, user string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if user != "" {
		req.AddCookie(&http.Cookie{Name: common.SessionCookieName, Value: tokenFor(user)})
	}

	rec := httptest.NewRecorder()
	e.h.ServeHTTP(rec, req)
	return rec
}

func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	var found *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			found = c
		}
	}
	return found
}

// flashesSet decodes the flash cookie set by a response.
func flashesSet(t *testing.T, rec *httptest.ResponseRecorder) []Flash {
	t.Helper()
	c := responseCookie(rec, common.FlashCookieName)
	if c == nil || c.Value == "" {
		return nil
	}
	b, err := base64.RawURLEncoding.DecodeString(c.Value)
	require.NoError(t, err)
	var out []Flash
	require.NoError(t, json.Unmarshal(b, &out))
	return out
}

func flashMessages(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()
	var out []string
	for _, f := range flashesSet(t, rec) {
		out = append(out, f.Message)
	}
	return out
}
