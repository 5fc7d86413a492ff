// Package services contains server-side business logic. This file implements
// UserService: registration, authentication, session tokens and account
// removal.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/feedback/internal/common"
	"github.com/dmitrijs2005/feedback/internal/dbx"
	"github.com/dmitrijs2005/feedback/internal/server/auth"
	"github.com/dmitrijs2005/feedback/internal/server/config"
	"github.com/dmitrijs2005/feedback/internal/server/models"
	"github.com/dmitrijs2005/feedback/internal/server/repositories/repomanager"
)

// UserService provides account operations:
//   - Register: create accounts with bcrypt-hashed passwords
//   - Authenticate / Login: verify credentials, mint session tokens
//   - UserFromSession: resolve a session token back to its account
//   - Delete: remove an account together with its feedback
type UserService struct {
	db                      *sql.DB
	repomanager             repomanager.RepositoryManager
	jwtSecret               []byte
	sessionValidityDuration time.Duration
	bcryptCost              int

	dummyOnce sync.Once
	dummyHash string
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                      db,
		repomanager:             m,
		jwtSecret:               []byte(cfg.SecretKey),
		sessionValidityDuration: cfg.SessionValidityDuration,
		bcryptCost:              cfg.BcryptCost,
	}
}

// Account limits shared by every way of creating an account.
const (
	MaxUserNameLength = 100
	// MaxPasswordBytes is the bcrypt input limit.
	MaxPasswordBytes = 72
)

// ValidateUserName checks a new account's username: it must be non-empty,
// fit the column and stay a single path segment in /users/<name>.
func ValidateUserName(username string) error {
	switch {
	case username == "":
		return fmt.Errorf("%w: username is required", common.ErrInvalidInput)
	case utf8.RuneCountInString(username) > MaxUserNameLength:
		return fmt.Errorf("%w: username must be at most %d characters", common.ErrInvalidInput, MaxUserNameLength)
	case strings.Contains(username, "/"):
		return fmt.Errorf("%w: username must not contain \"/\"", common.ErrInvalidInput)
	}
	return nil
}

// ValidateCredentials checks a new account's username and password. Failures
// wrap common.ErrInvalidInput and read as a user-facing message.
func ValidateCredentials(username, password string) error {
	if err := ValidateUserName(username); err != nil {
		return err
	}
	switch {
	case password == "":
		return fmt.Errorf("%w: password is required", common.ErrInvalidInput)
	case len(password) > MaxPasswordBytes:
		return fmt.Errorf("%w: password must be at most %d bytes", common.ErrInvalidInput, MaxPasswordBytes)
	}
	return nil
}

// Register creates an account. An existing username yields
// common.ErrAlreadyExists; the lookup and insert share a transaction.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if err := ValidateCredentials(username, password); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	var user *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		if _, err := repo.GetByUserName(ctx, username); err == nil {
			return fmt.Errorf("username %q: %w", username, common.ErrAlreadyExists)
		} else if !errors.Is(err, common.ErrNotFound) {
			return err
		}

		var err error
		user, err = repo.Create(ctx, &models.User{UserName: username, Password: hash})
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil
}

// Authenticate returns the account for valid credentials and
// common.ErrUnauthorized otherwise.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByUserName(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			// keep the response time close to the one of a wrong password
			_ = auth.CheckPassword(s.getDummyHash(), password)
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}

	if err := auth.CheckPassword(user.Password, password); err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			return nil, common.ErrUnauthorized
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInternal, err)
	}

	return user, nil
}

// Login authenticates and, on success, returns the account with a freshly
// signed session token.
func (s *UserService) Login(ctx context.Context, username, password string) (*models.User, string, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return nil, "", err
	}

	token, err := s.generateSessionToken(user.ID)
	if err != nil {
		return nil, "", common.ErrInternal
	}

	return user, token, nil
}

// UserFromSession resolves a session token to its account. Tokens that are
// expired, forged or refer to a deleted account yield common.ErrUnauthorized.
func (s *UserService) UserFromSession(ctx context.Context, token string) (*models.User, error) {
	userID, err := auth.GetUserIDFromToken(token, s.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrUnauthorized, err)
	}

	user, err := s.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("%w: account %d is gone", common.ErrUnauthorized, userID)
		}
		return nil, err
	}

	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByID(ctx, id)
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.repomanager.Users(s.db).GetByUserName(ctx, username)
}

// Delete removes the account and every feedback note it owns in one
// transaction.
func (s *UserService) Delete(ctx context.Context, username string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Feedback(tx).DeleteByOwner(ctx, username); err != nil {
			return fmt.Errorf("error deleting feedback: %w", err)
		}
		if err := s.repomanager.Users(tx).Delete(ctx, username); err != nil {
			return fmt.Errorf("error deleting user: %w", err)
		}
		return nil
	})
}

// --- helpers below ---

func (s *UserService) generateSessionToken(userID int64) (string, error) {
	return auth.GenerateToken(userID, s.jwtSecret, s.sessionValidityDuration)
}

func (s *UserService) getDummyHash() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = auth.HashPassword("dummy-password", s.bcryptCost)
	})
	return s.dummyHash
}
