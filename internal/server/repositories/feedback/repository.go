package feedback

import (
	"context"

	"github.com/dmitrijs2005/feedback/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, f *models.Feedback) (*models.Feedback, error)
	Get(ctx context.Context, id int64) (*models.Feedback, error)
	List(ctx context.Context) ([]*models.Feedback, error)
	ListByOwner(ctx context.Context, userName string) ([]*models.Feedback, error)
	Update(ctx context.Context, f *models.Feedback) error
	Delete(ctx context.Context, id int64) error
	DeleteByOwner(ctx context.Context, userName string) (int64, error)
}
