package vote

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"fanstock/internal/domain/poll"
)

// DefaultTotalSupply is the denominator used when a club's supply is absent
// or unparseable. Pinned as observed behavior, not configurable.
const DefaultTotalSupply int64 = 1_000_000

type OptionResult struct {
	ID                 int64   `json:"id"`
	Text               string  `json:"text"`
	Ord                int     `json:"order"`
	TokenVotes         int64   `json:"tokenVotes"`
	VoterCount         int     `json:"voterCount"`
	Percentage         float64 `json:"percentage"`
	RelativePercentage float64 `json:"relativePercentage"`
}

type PollResults struct {
	PollID            int64          `json:"pollId"`
	Title             string         `json:"title"`
	Description       string         `json:"description"`
	Status            poll.Status    `json:"status"`
	EndDate           *time.Time     `json:"endDate,omitempty"`
	TotalSupply       int64          `json:"totalSupply"`
	TotalTokensVoted  int64          `json:"totalTokensVoted"`
	TotalVoters       int            `json:"totalVoters"`
	ParticipationRate float64        `json:"participationRate"`
	Results           []OptionResult `json:"results"`
	Winner            *OptionResult  `json:"winner,omitempty"`
}

// Results recomputes the poll's token-weighted tallies from the raw
// responses. It is read-only and safe to call freely; concurrent votes
// landing between the poll and response reads may shift a recount by one
// vote, which is acceptable for a live-updating page.
//
// Per option, in display order: tokenVotes is the sum of asserted powers,
// percentage is the share of the club's entire supply, relativePercentage
// the share among votes actually cast. A voter counts once regardless of
// revotes, so totalVoters is just the response count.
func (s *Service) Results(ctx context.Context, pollID int64) (*PollResults, error) {
	p, options, err := s.polls.GetByID(ctx, pollID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, poll.ErrPollNotFound) {
			return nil, ErrPollNotFound
		}
		return nil, err
	}

	totalSupply := DefaultTotalSupply
	supplyStr, err := s.supplies.TotalSupply(ctx, p.ClubID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if v, ok := parseAmount(supplyStr); ok && v > 0 {
		totalSupply = v
	}

	responses, err := s.responses.ListByPoll(ctx, pollID)
	if err != nil {
		return nil, err
	}

	tokensByOption := make(map[int64]int64, len(options))
	votersByOption := make(map[int64]int, len(options))
	var totalTokensVoted int64
	for _, r := range responses {
		power, _ := parseAmount(r.TokenPower)
		tokensByOption[r.OptionID] += power
		votersByOption[r.OptionID]++
		totalTokensVoted += power
	}

	results := make([]OptionResult, 0, len(options))
	for _, opt := range options {
		tokens := tokensByOption[opt.ID]
		or := OptionResult{
			ID:         opt.ID,
			Text:       opt.Text,
			Ord:        opt.Ord,
			TokenVotes: tokens,
			VoterCount: votersByOption[opt.ID],
			Percentage: float64(tokens) / float64(totalSupply) * 100,
		}
		if totalTokensVoted > 0 {
			or.RelativePercentage = float64(tokens) / float64(totalTokensVoted) * 100
		}
		results = append(results, or)
	}

	pr := &PollResults{
		PollID:            p.ID,
		Title:             p.Title,
		Description:       p.Description,
		Status:            p.Status,
		EndDate:           p.EndsAt,
		TotalSupply:       totalSupply,
		TotalTokensVoted:  totalTokensVoted,
		TotalVoters:       len(responses),
		ParticipationRate: float64(totalTokensVoted) / float64(totalSupply) * 100,
		Results:           results,
	}

	if p.Archived(s.now()) && totalTokensVoted > 0 {
		pr.Winner = Winner(results)
	}

	return pr, nil
}

// Winner picks the option with the strictly greatest relative percentage.
// Ties resolve to the first option in display order. Nil when nothing has
// been voted.
func Winner(results []OptionResult) *OptionResult {
	if len(results) == 0 {
		return nil
	}
	best := 0
	for i := 1; i < len(results); i++ {
		if results[i].RelativePercentage > results[best].RelativePercentage {
			best = i
		}
	}
	if results[best].TokenVotes == 0 {
		return nil
	}
	w := results[best]
	return &w
}

// parseAmount reads a string-encoded decimal token amount. Malformed or
// negative values count as zero, matching how missing powers are tallied.
func parseAmount(s string) (int64, bool) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
