package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/dmitrijs2005/feedback/internal/common"
	"github.com/dmitrijs2005/feedback/internal/dbx"
	"github.com/dmitrijs2005/feedback/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupSQLite opens a private in-memory database with the real schema.
func setupSQLite(t *testing.T) (*sql.DB, repomanager.RepositoryManager) {
	t.Helper()

	db, dialect, err := dbx.Open(fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rm, err := repomanager.NewSQLRepositoryManager(dialect)
	require.NoError(t, err)
	require.NoError(t, rm.RunMigrations(context.Background(), db))

	return db, rm
}

func countRows(t *testing.T, db *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(query, args...).Scan(&n))
	return n
}

func TestSQLite_RegisterTwiceKeepsOneRow(t *testing.T) {
	db, rm := setupSQLite(t)
	s := NewUserService(db, rm, testConfig())
	ctx := context.Background()

	u, err := s.Register(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.NotEqual(t, "pw1", u.Password)

	_, err = s.Register(ctx, "alice", "pw2")
	require.True(t, errors.Is(err, common.ErrAlreadyExists), "got %v", err)

	assert.Equal(t, 1, countRows(t, db, `SELECT COUNT(*) FROM users WHERE username = ?`, "alice"))

	var stored string
	require.NoError(t, db.QueryRow(`SELECT password FROM users WHERE username = ?`, "alice").Scan(&stored))
	assert.NotEqual(t, "pw1", stored)

	_, err = s.Authenticate(ctx, "alice", "pw1")
	require.NoError(t, err)
	_, err = s.Authenticate(ctx, "alice", "pw2")
	require.True(t, errors.Is(err, common.ErrUnauthorized))
}

func TestSQLite_DeleteAccountCascades(t *testing.T) {
	db, rm := setupSQLite(t)
	users := NewUserService(db, rm, testConfig())
	notes := NewFeedbackService(db, rm)
	ctx := context.Background()

	for _, name := range []string{"alice", "bob"} {
		_, err := users.Register(ctx, name, "pw")
		require.NoError(t, err)
		for i := 0; i < 2; i++ {
			_, err := notes.Create(ctx, name, fmt.Sprintf("%s-%d", name, i), "text")
			require.NoError(t, err)
		}
	}

	require.NoError(t, users.Delete(ctx, "alice"))

	assert.Equal(t, 0, countRows(t, db, `SELECT COUNT(*) FROM feedback WHERE username = ?`, "alice"))
	assert.Equal(t, 2, countRows(t, db, `SELECT COUNT(*) FROM feedback WHERE username = ?`, "bob"))

	_, err := users.GetByUsername(ctx, "alice")
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestSQLite_NonOwnerCannotMutate(t *testing.T) {
	db, rm := setupSQLite(t)
	users := NewUserService(db, rm, testConfig())
	notes := NewFeedbackService(db, rm)
	ctx := context.Background()

	_, err := users.Register(ctx, "alice", "pw")
	require.NoError(t, err)
	_, err = users.Register(ctx, "mallory", "pw")
	require.NoError(t, err)

	f, err := notes.Create(ctx, "alice", "hello", "world")
	require.NoError(t, err)

	_, err = notes.Update(ctx, "mallory", f.ID, "pwned", "pwned")
	require.True(t, errors.Is(err, common.ErrForbidden))
	err = notes.Delete(ctx, "mallory", f.ID)
	require.True(t, errors.Is(err, common.ErrForbidden))

	got, err := notes.Get(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Title)

	_, err = notes.Update(ctx, "alice", f.ID, "hi", "there")
	require.NoError(t, err)
	require.NoError(t, notes.Delete(ctx, "alice", f.ID))

	_, err = notes.Get(ctx, f.ID)
	assert.True(t, errors.Is(err, common.ErrNotFound))
}

func TestSQLite_FeedbackRequiresExistingOwner(t *testing.T) {
	db, rm := setupSQLite(t)
	notes := NewFeedbackService(db, rm)

	_, err := notes.Create(context.Background(), "ghost", "hello", "world")
	require.Error(t, err)
	assert.Equal(t, 0, countRows(t, db, `SELECT COUNT(*) FROM feedback`))
}
