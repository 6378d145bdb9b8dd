package poll

import (
	"context"
	"errors"
	"time"
)

var (
	ErrPollNotFound  = errors.New("poll not found")
	ErrInvalidStatus = errors.New("invalid poll status")
	ErrInvalidType   = errors.New("invalid poll type")
	ErrMissingFields = errors.New("missing fields")
	ErrTooFewOptions = errors.New("poll must have at least 2 options")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Create persists a poll with its options. Options are immutable once
// created, so they are written atomically with the poll. A poll starts in
// draft or active; completed/cancelled are reachable only via UpdateStatus.
func (s *Service) Create(ctx context.Context, p *Poll, options []Option) (int64, error) {
	if p.Title == "" || p.Description == "" || p.ClubID == 0 {
		return 0, ErrMissingFields
	}
	if len(options) < 2 {
		return 0, ErrTooFewOptions
	}
	if p.Type == "" {
		p.Type = TypeOther
	}
	if !p.Type.Valid() {
		return 0, ErrInvalidType
	}
	if p.Status == "" {
		p.Status = StatusDraft
	}
	if p.Status != StatusDraft && p.Status != StatusActive {
		return 0, ErrInvalidStatus
	}
	for i := range options {
		options[i].Ord = i
	}
	return s.repo.Create(ctx, p, options)
}

func (s *Service) Get(ctx context.Context, id int64) (*Poll, []Option, error) {
	return s.repo.GetByID(ctx, id)
}

// ListByClub returns the club's polls split-ready for the active/archived
// tabs: each entry carries an Archived flag evaluated against now.
func (s *Service) ListByClub(ctx context.Context, clubID int64, now time.Time) ([]Summary, error) {
	polls, err := s.repo.ListByClub(ctx, clubID)
	if err != nil {
		return nil, err
	}
	for i := range polls {
		polls[i].Archived = polls[i].Poll.Archived(now)
	}
	return polls, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id int64, status Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	return s.repo.UpdateStatus(ctx, id, status)
}
