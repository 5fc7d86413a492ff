package feedback

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/feedback/internal/common"
	"github.com/dmitrijs2005/feedback/internal/dbx"
	"github.com/dmitrijs2005/feedback/internal/server/models"
)

type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

func (r *SQLRepository) Create(ctx context.Context, f *models.Feedback) (*models.Feedback, error) {
	query :=
		`INSERT INTO feedback (title, content, username)
		 VALUES ($1, $2, $3)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query, f.Title, f.Content, f.UserName).Scan(&f.ID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return f, nil
}

func (r *SQLRepository) Get(ctx context.Context, id int64) (*models.Feedback, error) {
	query :=
		`SELECT id, title, content, username FROM feedback
		 WHERE id = $1
		 `

	f := &models.Feedback{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&f.ID, &f.Title, &f.Content, &f.UserName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return f, nil
}

// List returns every note ordered by id.
func (r *SQLRepository) List(ctx context.Context) ([]*models.Feedback, error) {
	query := `SELECT id, title, content, username FROM feedback ORDER BY id`
	return r.selectMany(ctx, query)
}

// ListByOwner returns the notes owned by userName ordered by id.
func (r *SQLRepository) ListByOwner(ctx context.Context, userName string) ([]*models.Feedback, error) {
	query := `SELECT id, title, content, username FROM feedback WHERE username = $1 ORDER BY id`
	return r.selectMany(ctx, query, userName)
}

func (r *SQLRepository) selectMany(ctx context.Context, query string, args ...any) ([]*models.Feedback, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select feedback: %w", err)
	}
	defer rows.Close()

	result := make([]*models.Feedback, 0)
	for rows.Next() {
		var item models.Feedback
		if err := rows.Scan(&item.ID, &item.Title, &item.Content, &item.UserName); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update rewrites title and content of f.ID. The owner never changes.
func (r *SQLRepository) Update(ctx context.Context, f *models.Feedback) error {
	query :=
		`UPDATE feedback SET title = $1, content = $2
		 WHERE id = $3
		 `

	res, err := r.db.ExecContext(ctx, query, f.Title, f.Content, f.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func (r *SQLRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM feedback WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

// DeleteByOwner removes every note of userName and returns how many went.
func (r *SQLRepository) DeleteByOwner(ctx context.Context, userName string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM feedback WHERE username = $1`, userName)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
