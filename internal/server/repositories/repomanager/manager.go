// Package repomanager builds repositories bound to a *sql.DB or a *sql.Tx and
// applies the schema migrations for the configured SQL dialect.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/feedback/internal/dbx"
	"github.com/dmitrijs2005/feedback/internal/server/repositories/feedback"
	"github.com/dmitrijs2005/feedback/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Feedback(db dbx.DBTX) feedback.Repository
}
