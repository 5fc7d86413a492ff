package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/feedback/internal/common"
	"github.com/dmitrijs2005/feedback/internal/dbx"
	"github.com/dmitrijs2005/feedback/internal/server/models"
)

// SQLRepository stores accounts in the users table. The queries are plain
// enough to run unchanged on PostgreSQL and SQLite.
type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

// Create inserts user and fills in its ID. A taken username yields
// common.ErrAlreadyExists.
func (r *SQLRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (username, password)
		 VALUES ($1, $2)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query, user.UserName, user.Password).Scan(&user.ID)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, fmt.Errorf("username %q: %w", user.UserName, common.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *SQLRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query :=
		`SELECT id, username, password FROM users
		 WHERE id = $1
		 `

	return r.getOne(ctx, query, id)
}

func (r *SQLRepository) GetByUserName(ctx context.Context, userName string) (*models.User, error) {
	query :=
		`SELECT id, username, password FROM users
		 WHERE username = $1
		 `

	return r.getOne(ctx, query, userName)
}

func (r *SQLRepository) getOne(ctx context.Context, query string, arg any) (*models.User, error) {
	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&user.ID, &user.UserName, &user.Password)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

// Delete removes the account row. Feedback rows are removed by the caller in
// the same transaction (and by the foreign key where it is enforced).
func (r *SQLRepository) Delete(ctx context.Context, userName string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE username = $1`, userName)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}

	return nil
}
