package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/feedback/internal/common"
	"github.com/dmitrijs2005/feedback/internal/dbx"
	"github.com/dmitrijs2005/feedback/internal/server/models"
	feedbackrepo "github.com/dmitrijs2005/feedback/internal/server/repositories/feedback"
	"github.com/dmitrijs2005/feedback/internal/server/repositories/repomanager"
)

// FeedbackService implements feedback CRUD. Mutations are allowed to the
// owning account only.
type FeedbackService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewFeedbackService(db *sql.DB, m repomanager.RepositoryManager) *FeedbackService {
	return &FeedbackService{db: db, repomanager: m}
}

func (s *FeedbackService) Create(ctx context.Context, owner, title, content string) (*models.Feedback, error) {
	f, err := s.repomanager.Feedback(s.db).Create(ctx, &models.Feedback{
		Title:    title,
		Content:  content,
		UserName: owner,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating feedback: %w", err)
	}
	return f, nil
}

func (s *FeedbackService) Get(ctx context.Context, id int64) (*models.Feedback, error) {
	return s.repomanager.Feedback(s.db).Get(ctx, id)
}

// List returns every note in id order.
func (s *FeedbackService) List(ctx context.Context) ([]*models.Feedback, error) {
	return s.repomanager.Feedback(s.db).List(ctx)
}

func (s *FeedbackService) ListByOwner(ctx context.Context, username string) ([]*models.Feedback, error) {
	return s.repomanager.Feedback(s.db).ListByOwner(ctx, username)
}

// Update changes title and content of a note owned by actor.
func (s *FeedbackService) Update(ctx context.Context, actor string, id int64, title, content string) (*models.Feedback, error) {
	var updated *models.Feedback

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Feedback(tx)

		f, err := s.getOwned(ctx, repo, actor, id)
		if err != nil {
			return err
		}

		f.Title = title
		f.Content = content
		if err := repo.Update(ctx, f); err != nil {
			return err
		}

		updated = f
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes a note owned by actor.
func (s *FeedbackService) Delete(ctx context.Context, actor string, id int64) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Feedback(tx)

		if _, err := s.getOwned(ctx, repo, actor, id); err != nil {
			return err
		}

		return repo.Delete(ctx, id)
	})
}

func (s *FeedbackService) getOwned(ctx context.Context, repo feedbackrepo.Repository, actor string, id int64) (*models.Feedback, error) {
	f, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !f.OwnedBy(actor) {
		return nil, fmt.Errorf("feedback %d: %w", id, common.ErrForbidden)
	}
	return f, nil
}
