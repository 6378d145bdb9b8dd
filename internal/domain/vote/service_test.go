package vote

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"fanstock/internal/domain/poll"
)

type memPollRepo struct {
	mu     sync.Mutex
	polls  map[int64]*poll.Poll
	opts   map[int64][]poll.Option
	nextID int64
}

func newMemPollRepo() *memPollRepo {
	return &memPollRepo{
		polls:  make(map[int64]*poll.Poll),
		opts:   make(map[int64][]poll.Option),
		nextID: 1,
	}
}

func (r *memPollRepo) Create(ctx context.Context, p *poll.Poll, options []poll.Option) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = r.nextID
	r.nextID++
	copyPoll := *p
	r.polls[p.ID] = &copyPoll

	cloned := make([]poll.Option, len(options))
	for i, opt := range options {
		opt.ID = r.nextID
		r.nextID++
		opt.PollID = p.ID
		cloned[i] = opt
	}
	r.opts[p.ID] = cloned
	return p.ID, nil
}

func (r *memPollRepo) GetByID(ctx context.Context, id int64) (*poll.Poll, []poll.Option, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.polls[id]
	if !ok {
		return nil, nil, sql.ErrNoRows
	}
	copyPoll := *p
	opts := make([]poll.Option, len(r.opts[id]))
	copy(opts, r.opts[id])
	return &copyPoll, opts, nil
}

func (r *memPollRepo) ListByClub(ctx context.Context, clubID int64) ([]poll.Summary, error) {
	return nil, nil
}

func (r *memPollRepo) UpdateStatus(ctx context.Context, id int64, status poll.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.polls[id]
	if !ok {
		return sql.ErrNoRows
	}
	p.Status = status
	return nil
}

type voteKey struct {
	pollID int64
	userID int64
}

type memVoteRepo struct {
	mu     sync.Mutex
	byKey  map[voteKey]*Response
	order  []voteKey
	nextID int64
}

func newMemVoteRepo() *memVoteRepo {
	return &memVoteRepo{byKey: make(map[voteKey]*Response), nextID: 1}
}

func (r *memVoteRepo) Upsert(ctx context.Context, v *Response) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := voteKey{v.PollID, v.UserID}
	if existing, ok := r.byKey[key]; ok {
		existing.OptionID = v.OptionID
		existing.TokenPower = v.TokenPower
		existing.UpdatedAt = time.Now()
		*v = *existing
		return false, nil
	}
	v.ID = r.nextID
	r.nextID++
	v.CreatedAt = time.Now()
	v.UpdatedAt = v.CreatedAt
	copyResp := *v
	r.byKey[key] = &copyResp
	r.order = append(r.order, key)
	return true, nil
}

func (r *memVoteRepo) GetByUser(ctx context.Context, pollID, userID int64) (*Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.byKey[voteKey{pollID, userID}]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copyResp := *v
	return &copyResp, nil
}

func (r *memVoteRepo) ListByPoll(ctx context.Context, pollID int64) ([]Response, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var res []Response
	for _, key := range r.order {
		if key.pollID == pollID {
			res = append(res, *r.byKey[key])
		}
	}
	return res, nil
}

func (r *memVoteRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byKey)
}

type memSupply map[int64]string

func (m memSupply) TotalSupply(ctx context.Context, clubID int64) (string, error) {
	s, ok := m[clubID]
	if !ok {
		return "", sql.ErrNoRows
	}
	return s, nil
}

type fixture struct {
	svc      *Service
	polls    *memPollRepo
	votes    *memVoteRepo
	supplies memSupply
	now      time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	polls := newMemPollRepo()
	votes := newMemVoteRepo()
	supplies := memSupply{1: "1000000"}
	svc := NewService(polls, votes, supplies)
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	return &fixture{svc: svc, polls: polls, votes: votes, supplies: supplies, now: now}
}

// seedPoll creates a two-option poll owned by club 1 whose voting window
// spans the fixture's frozen clock.
func (f *fixture) seedPoll(t *testing.T, status poll.Status) (int64, []poll.Option) {
	t.Helper()
	starts := f.now.Add(-time.Hour)
	ends := f.now.Add(time.Hour)
	p := &poll.Poll{
		ClubID:   1,
		Title:    "New kit color",
		Status:   status,
		StartsAt: &starts,
		EndsAt:   &ends,
	}
	id, err := f.polls.Create(context.Background(), p, []poll.Option{
		{Text: "Red", Ord: 0},
		{Text: "Blue", Ord: 1},
	})
	if err != nil {
		t.Fatalf("seed poll: %v", err)
	}
	return id, f.polls.opts[id]
}

func TestCastAndRevote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pollID, opts := f.seedPoll(t, poll.StatusActive)

	resp, updated, err := f.svc.Cast(ctx, CastInput{PollID: pollID, UserID: 7, OptionID: opts[0].ID, TokenPower: "300000"})
	if err != nil {
		t.Fatalf("first cast: %v", err)
	}
	if updated {
		t.Fatalf("first cast reported as update")
	}
	if resp.TokenPower != "300000" {
		t.Fatalf("unexpected token power %q", resp.TokenPower)
	}

	resp, updated, err = f.svc.Cast(ctx, CastInput{PollID: pollID, UserID: 7, OptionID: opts[1].ID, TokenPower: "250000"})
	if err != nil {
		t.Fatalf("revote: %v", err)
	}
	if !updated {
		t.Fatalf("revote not reported as update")
	}
	if resp.OptionID != opts[1].ID {
		t.Fatalf("revote kept old option")
	}
	if f.votes.count() != 1 {
		t.Fatalf("expected a single response row after revote, got %d", f.votes.count())
	}
}

func TestCastValidationOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	activeID, opts := f.seedPoll(t, poll.StatusActive)
	draftID, draftOpts := f.seedPoll(t, poll.StatusDraft)

	// expired active poll
	expiredID, expiredOpts := f.seedPoll(t, poll.StatusActive)
	past := f.now.Add(-time.Minute)
	f.polls.polls[expiredID].EndsAt = &past

	// active poll that has not opened yet
	pendingID, pendingOpts := f.seedPoll(t, poll.StatusActive)
	future := f.now.Add(time.Minute)
	f.polls.polls[pendingID].StartsAt = &future

	cases := []struct {
		name string
		in   CastInput
		want error
	}{
		{"missing power", CastInput{PollID: activeID, UserID: 7, OptionID: opts[0].ID}, ErrMissingFields},
		{"missing user", CastInput{PollID: activeID, OptionID: opts[0].ID, TokenPower: "1"}, ErrMissingFields},
		{"missing option", CastInput{PollID: activeID, UserID: 7, TokenPower: "1"}, ErrMissingFields},
		{"unknown poll", CastInput{PollID: 9999, UserID: 7, OptionID: opts[0].ID, TokenPower: "1"}, ErrPollNotFound},
		{"draft poll", CastInput{PollID: draftID, UserID: 7, OptionID: draftOpts[0].ID, TokenPower: "1"}, ErrPollNotActive},
		{"expired poll", CastInput{PollID: expiredID, UserID: 7, OptionID: expiredOpts[0].ID, TokenPower: "1"}, ErrOutsideVotingWindow},
		{"not yet open", CastInput{PollID: pendingID, UserID: 7, OptionID: pendingOpts[0].ID, TokenPower: "1"}, ErrOutsideVotingWindow},
		{"foreign option", CastInput{PollID: activeID, UserID: 7, OptionID: draftOpts[0].ID, TokenPower: "1"}, ErrOptionNotInPoll},
	}

	for _, tc := range cases {
		_, _, err := f.svc.Cast(ctx, tc.in)
		if !errors.Is(err, tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}

	if f.votes.count() != 0 {
		t.Fatalf("rejected votes mutated state: %d rows", f.votes.count())
	}
}

func TestCastMissingFieldsWinsOverNotFound(t *testing.T) {
	f := newFixture(t)

	// Both the poll and the power are missing; the field check must fire first.
	_, _, err := f.svc.Cast(context.Background(), CastInput{PollID: 9999, UserID: 7, OptionID: 1})
	if !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected missing fields to win, got %v", err)
	}
}

func TestResponseForAndCanVote(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	pollID, opts := f.seedPoll(t, poll.StatusActive)

	resp, err := f.svc.ResponseFor(ctx, pollID, 7)
	if err != nil {
		t.Fatalf("response lookup: %v", err)
	}
	if resp != nil {
		t.Fatalf("expected nil response before voting")
	}

	p, _, _ := f.polls.GetByID(ctx, pollID)
	if ok, _ := f.svc.CanVote(ctx, p, 7); !ok {
		t.Fatalf("expected user to be eligible before voting")
	}
	if ok, _ := f.svc.CanVote(ctx, p, 0); ok {
		t.Fatalf("anonymous caller must not be eligible")
	}

	if _, _, err := f.svc.Cast(ctx, CastInput{PollID: pollID, UserID: 7, OptionID: opts[0].ID, TokenPower: "10"}); err != nil {
		t.Fatalf("cast: %v", err)
	}

	resp, err = f.svc.ResponseFor(ctx, pollID, 7)
	if err != nil || resp == nil {
		t.Fatalf("expected stored response, got %v / %v", resp, err)
	}
	if ok, _ := f.svc.CanVote(ctx, p, 7); ok {
		t.Fatalf("user with an existing response must not be eligible")
	}
}
