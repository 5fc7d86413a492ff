package services

import (
	"context"
	"database/sql"
	"sort"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/feedback/internal/common"
	"github.com/dmitrijs2005/feedback/internal/dbx"
	"github.com/dmitrijs2005/feedback/internal/server/models"
	feedbackrepo "github.com/dmitrijs2005/feedback/internal/server/repositories/feedback"
	usersrepo "github.com/dmitrijs2005/feedback/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

type fakeUsersRepo struct {
	byName map[string]*models.User
	nextID int64

	createErr error
	getErr    error
	deleteErr error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byName: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byName[u.UserName]; ok {
		return nil, common.ErrAlreadyExists
	}
	f.nextID++
	stored := &models.User{ID: f.nextID, UserName: u.UserName, Password: u.Password}
	f.byName[u.UserName] = stored
	return stored, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byName {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, common.ErrNotFound
}

func (f *fakeUsersRepo) GetByUserName(ctx context.Context, userName string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byName[userName]
	if !ok {
		return nil, common.ErrNotFound
	}
	return u, nil
}

func (f *fakeUsersRepo) Delete(ctx context.Context, userName string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.byName[userName]; !ok {
		return common.ErrNotFound
	}
	delete(f.byName, userName)
	return nil
}

type fakeFeedbackRepo struct {
	byID   map[int64]*models.Feedback
	nextID int64

	deleteByOwnerErr error
}

func newFakeFeedbackRepo() *fakeFeedbackRepo {
	return &fakeFeedbackRepo{byID: map[int64]*models.Feedback{}}
}

func (f *fakeFeedbackRepo) Create(ctx context.Context, fb *models.Feedback) (*models.Feedback, error) {
	f.nextID++
	stored := *fb
	stored.ID = f.nextID
	f.byID[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (f *fakeFeedbackRepo) Get(ctx context.Context, id int64) (*models.Feedback, error) {
	fb, ok := f.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	out := *fb
	return &out, nil
}

func (f *fakeFeedbackRepo) sorted(keep func(*models.Feedback) bool) []*models.Feedback {
	out := make([]*models.Feedback, 0, len(f.byID))
	for _, fb := range f.byID {
		if keep(fb) {
			c := *fb
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeFeedbackRepo) List(ctx context.Context) ([]*models.Feedback, error) {
	return f.sorted(func(*models.Feedback) bool { return true }), nil
}

func (f *fakeFeedbackRepo) ListByOwner(ctx context.Context, userName string) ([]*models.Feedback, error) {
	return f.sorted(func(fb *models.Feedback) bool { return fb.UserName == userName }), nil
}

func (f *fakeFeedbackRepo) Update(ctx context.Context, fb *models.Feedback) error {
	if _, ok := f.byID[fb.ID]; !ok {
		return common.ErrNotFound
	}
	c := *fb
	f.byID[fb.ID] = &c
	return nil
}

func (f *fakeFeedbackRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return common.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeFeedbackRepo) DeleteByOwner(ctx context.Context, userName string) (int64, error) {
	if f.deleteByOwnerErr != nil {
		return 0, f.deleteByOwnerErr
	}
	var n int64
	for id, fb := range f.byID {
		if fb.UserName == userName {
			delete(f.byID, id)
			n++
		}
	}
	return n, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	f *fakeFeedbackRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{u: newFakeUsersRepo(), f: newFakeFeedbackRepo()}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository      { return m.u }
func (m *fakeRepoManager) Feedback(db dbx.DBTX) feedbackrepo.Repository { return m.f }
