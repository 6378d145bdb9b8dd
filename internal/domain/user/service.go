package user

import (
	"context"
	"database/sql"
	"errors"
)

var (
	ErrMissingEmail = errors.New("email is required")
	ErrUserNotFound = errors.New("user not found")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Sync upserts the user record on login. A repeated sync with a new display
// name updates it in place.
func (s *Service) Sync(ctx context.Context, email, displayName string) (*User, error) {
	if email == "" {
		return nil, ErrMissingEmail
	}
	u := &User{Email: email, DisplayName: displayName}
	if err := s.repo.Upsert(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}
