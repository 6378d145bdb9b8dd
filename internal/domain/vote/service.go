package vote

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fanstock/internal/domain/poll"
)

var (
	ErrMissingFields       = errors.New("missing fields")
	ErrPollNotFound        = errors.New("poll not found")
	ErrPollNotActive       = errors.New("poll not active")
	ErrOutsideVotingWindow = errors.New("not within voting period")
	ErrOptionNotInPoll     = errors.New("invalid option for this poll")
)

type Service struct {
	polls     poll.Repository
	responses Repository
	supplies  SupplyLookup

	now func() time.Time
}

func NewService(polls poll.Repository, responses Repository, supplies SupplyLookup) *Service {
	return &Service{
		polls:     polls,
		responses: responses,
		supplies:  supplies,
		now:       time.Now,
	}
}

type CastInput struct {
	PollID     int64
	UserID     int64
	OptionID   int64
	TokenPower string
}

// Cast validates and records a vote. The token power is taken as asserted by
// the caller; it is not checked against any holding balance. Validation runs
// before any write, so a rejected vote never mutates a response row. There is
// no transaction spanning validation and the upsert: concurrent revotes by
// the same user resolve last-writer-wins.
//
// The second return value reports whether an existing vote was overwritten.
func (s *Service) Cast(ctx context.Context, in CastInput) (*Response, bool, error) {
	if in.PollID == 0 || in.UserID == 0 || in.OptionID == 0 || in.TokenPower == "" {
		return nil, false, ErrMissingFields
	}

	p, options, err := s.polls.GetByID(ctx, in.PollID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, poll.ErrPollNotFound) {
			return nil, false, ErrPollNotFound
		}
		return nil, false, err
	}

	if p.Status != poll.StatusActive {
		return nil, false, ErrPollNotActive
	}

	now := s.now()
	if p.StartsAt != nil && now.Before(*p.StartsAt) {
		return nil, false, ErrOutsideVotingWindow
	}
	if p.EndsAt != nil && now.After(*p.EndsAt) {
		return nil, false, ErrOutsideVotingWindow
	}

	if !optionBelongs(options, in.OptionID) {
		return nil, false, ErrOptionNotInPoll
	}

	r := &Response{
		PollID:     in.PollID,
		OptionID:   in.OptionID,
		UserID:     in.UserID,
		TokenPower: in.TokenPower,
	}
	created, err := s.responses.Upsert(ctx, r)
	if err != nil {
		return nil, false, err
	}
	return r, !created, nil
}

// ResponseFor returns the caller's existing vote on a poll, or nil when the
// user has not voted.
func (s *Service) ResponseFor(ctx context.Context, pollID, userID int64) (*Response, error) {
	r, err := s.responses.GetByUser(ctx, pollID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return r, nil
}

// CanVote mirrors the club-page eligibility gate: the poll must be active and
// unexpired, and the user must not have voted yet. The authoritative check is
// still Cast; this exists so the UI can disable the form up front.
func (s *Service) CanVote(ctx context.Context, p *poll.Poll, userID int64) (bool, error) {
	if userID == 0 || p.Archived(s.now()) {
		return false, nil
	}
	existing, err := s.ResponseFor(ctx, p.ID, userID)
	if err != nil {
		return false, err
	}
	return existing == nil, nil
}

func optionBelongs(options []poll.Option, optionID int64) bool {
	for _, o := range options {
		if o.ID == optionID {
			return true
		}
	}
	return false
}
