package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/feedback/internal/dbx"
	"github.com/dmitrijs2005/feedback/internal/logging"
	"github.com/dmitrijs2005/feedback/internal/server/migrations"
	"github.com/dmitrijs2005/feedback/internal/server/repositories/feedback"
	"github.com/dmitrijs2005/feedback/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
)

// gooseUpContext is swapped out in tests.
var gooseUpContext = goose.UpContext

type SQLRepositoryManager struct {
	dialect dbx.Dialect
}

func NewSQLRepositoryManager(dialect dbx.Dialect) (RepositoryManager, error) {
	if _, err := migrationsDir(dialect); err != nil {
		return nil, err
	}
	return &SQLRepositoryManager{dialect: dialect}, nil
}

func (m *SQLRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLRepository(db)
}

func (m *SQLRepositoryManager) Feedback(db dbx.DBTX) feedback.Repository {
	return feedback.NewSQLRepository(db)
}

// RunMigrations applies every pending embedded migration for the manager's
// dialect. Goose output goes to the logger carried by ctx, if any.
func (m *SQLRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	dir, err := migrationsDir(m.dialect)
	if err != nil {
		return err
	}

	goose.SetLogger(gooseLogger{ctx: ctx, logger: logging.FromContext(ctx, logging.Nop{}).With("module", "migrations")})
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect(string(m.dialect)); err != nil {
		return err
	}

	return gooseUpContext(ctx, db, dir)
}

func migrationsDir(d dbx.Dialect) (string, error) {
	switch d {
	case dbx.Postgres:
		return "postgres", nil
	case dbx.SQLite:
		return "sqlite", nil
	default:
		return "", fmt.Errorf("unsupported dialect %q", d)
	}
}

// gooseLogger adapts logging.Logger to goose.Logger.
type gooseLogger struct {
	ctx    context.Context
	logger logging.Logger
}

func (g gooseLogger) Printf(format string, v ...any) {
	g.logger.Info(g.ctx, strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Fatalf exits like the standard logger goose uses by default.
func (g gooseLogger) Fatalf(format string, v ...any) {
	g.logger.Error(g.ctx, strings.TrimSpace(fmt.Sprintf(format, v...)))
	os.Exit(1)
}
