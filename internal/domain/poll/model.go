package poll

import (
	"context"
	"time"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type Type string

const (
	TypeGovernance     Type = "governance"
	TypeCoachSelection Type = "coach_selection"
	TypeBudget         Type = "budget"
	TypeStrategy       Type = "strategy"
	TypeFacility       Type = "facility"
	TypeOther          Type = "other"
)

func (t Type) Valid() bool {
	switch t {
	case TypeGovernance, TypeCoachSelection, TypeBudget, TypeStrategy, TypeFacility, TypeOther:
		return true
	}
	return false
}

type Poll struct {
	ID          int64      `json:"id"`
	ClubID      int64      `json:"clubId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Type        Type       `json:"type"`
	Status      Status     `json:"status"`
	StartsAt    *time.Time `json:"startDate,omitempty"`
	EndsAt      *time.Time `json:"endDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Archived reports whether the poll is out of its voting phase: any
// non-active status, or an end date already passed.
func (p *Poll) Archived(now time.Time) bool {
	if p.Status != StatusActive {
		return true
	}
	if p.EndsAt != nil && now.After(*p.EndsAt) {
		return true
	}
	return false
}

type Option struct {
	ID        int64     `json:"id"`
	PollID    int64     `json:"pollId"`
	Text      string    `json:"text"`
	Ord       int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
}

// Summary decorates a poll for club-page listings with the denormalized
// tally kept by the stats worker.
type Summary struct {
	Poll
	TokensVoted int64 `json:"tokensVoted"`
	Archived    bool  `json:"archived"`
}

type Repository interface {
	Create(ctx context.Context, p *Poll, options []Option) (int64, error)
	GetByID(ctx context.Context, id int64) (*Poll, []Option, error)
	ListByClub(ctx context.Context, clubID int64) ([]Summary, error)
	UpdateStatus(ctx context.Context, id int64, status Status) error
}
