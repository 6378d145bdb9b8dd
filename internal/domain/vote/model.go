package vote

import (
	"context"
	"time"
)

// Response is a user's current answer to a poll. There is at most one per
// (poll, user) pair; a revote overwrites the option and token power in place.
type Response struct {
	ID         int64     `json:"id"`
	PollID     int64     `json:"pollId"`
	OptionID   int64     `json:"optionId"`
	UserID     int64     `json:"userId"`
	TokenPower string    `json:"tokenPower"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type Repository interface {
	// Upsert writes the response keyed on (poll_id, user_id) and reports
	// whether a new row was created (false means an existing vote was
	// overwritten).
	Upsert(ctx context.Context, r *Response) (bool, error)
	GetByUser(ctx context.Context, pollID, userID int64) (*Response, error)
	ListByPoll(ctx context.Context, pollID int64) ([]Response, error)
}

// SupplyLookup resolves a club's token supply, the denominator for absolute
// percentages. Fetched fresh per aggregation call, never cached.
type SupplyLookup interface {
	TotalSupply(ctx context.Context, clubID int64) (string, error)
}
