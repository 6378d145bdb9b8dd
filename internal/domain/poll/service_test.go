package poll

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"
)

type memoryPollRepo struct {
	mu     sync.Mutex
	polls  map[int64]*Poll
	opts   map[int64][]Option
	nextID int64
}

func newMemoryPollRepo() *memoryPollRepo {
	return &memoryPollRepo{
		polls:  make(map[int64]*Poll),
		opts:   make(map[int64][]Option),
		nextID: 1,
	}
}

func (r *memoryPollRepo) Create(ctx context.Context, p *Poll, options []Option) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = r.nextID
	r.nextID++
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt

	copyPoll := *p
	r.polls[p.ID] = &copyPoll

	cloned := make([]Option, len(options))
	for i, opt := range options {
		opt.ID = int64(i + 1)
		opt.PollID = p.ID
		opt.CreatedAt = time.Now()
		cloned[i] = opt
	}
	r.opts[p.ID] = cloned
	return p.ID, nil
}

func (r *memoryPollRepo) GetByID(ctx context.Context, id int64) (*Poll, []Option, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.polls[id]
	if !ok {
		return nil, nil, sql.ErrNoRows
	}
	opts := r.opts[id]
	copyPoll := *p
	copiedOpts := make([]Option, len(opts))
	copy(copiedOpts, opts)
	return &copyPoll, copiedOpts, nil
}

func (r *memoryPollRepo) ListByClub(ctx context.Context, clubID int64) ([]Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := []Summary{}
	for _, p := range r.polls {
		if p.ClubID != clubID {
			continue
		}
		res = append(res, Summary{Poll: *p})
	}
	return res, nil
}

func (r *memoryPollRepo) UpdateStatus(ctx context.Context, id int64, status Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.polls[id]
	if !ok {
		return sql.ErrNoRows
	}
	p.Status = status
	p.UpdatedAt = time.Now()
	return nil
}

func TestCreateValidation(t *testing.T) {
	repo := newMemoryPollRepo()
	svc := NewService(repo)
	ctx := context.Background()

	twoOpts := []Option{{Text: "A"}, {Text: "B"}}

	if _, err := svc.Create(ctx, &Poll{ClubID: 1, Description: "d"}, twoOpts); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected missing fields for empty title, got %v", err)
	}
	if _, err := svc.Create(ctx, &Poll{ClubID: 1, Title: "t"}, twoOpts); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected missing fields for empty description, got %v", err)
	}
	if _, err := svc.Create(ctx, &Poll{Title: "t", Description: "d"}, twoOpts); !errors.Is(err, ErrMissingFields) {
		t.Fatalf("expected missing fields for missing club, got %v", err)
	}
	if _, err := svc.Create(ctx, &Poll{ClubID: 1, Title: "t", Description: "d"}, []Option{{Text: "A"}}); !errors.Is(err, ErrTooFewOptions) {
		t.Fatalf("expected too few options, got %v", err)
	}
	if _, err := svc.Create(ctx, &Poll{ClubID: 1, Title: "t", Description: "d", Type: "fancy"}, twoOpts); !errors.Is(err, ErrInvalidType) {
		t.Fatalf("expected invalid type, got %v", err)
	}
	if _, err := svc.Create(ctx, &Poll{ClubID: 1, Title: "t", Description: "d", Status: StatusCompleted}, twoOpts); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected invalid status for completed at creation, got %v", err)
	}

	id, err := svc.Create(ctx, &Poll{ClubID: 1, Title: "t", Description: "d"}, twoOpts)
	if err != nil {
		t.Fatalf("unexpected create error: %v", err)
	}

	p, opts, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("get error: %v", err)
	}
	if p.Status != StatusDraft {
		t.Fatalf("expected draft default status, got %s", p.Status)
	}
	if p.Type != TypeOther {
		t.Fatalf("expected other default type, got %s", p.Type)
	}
	for i, o := range opts {
		if o.Ord != i {
			t.Fatalf("expected option %d to have ord %d, got %d", i, i, o.Ord)
		}
	}
}

func TestUpdateStatusValidation(t *testing.T) {
	repo := newMemoryPollRepo()
	svc := NewService(repo)
	ctx := context.Background()

	id, err := svc.Create(ctx, &Poll{ClubID: 1, Title: "t", Description: "d", Status: StatusActive},
		[]Option{{Text: "A"}, {Text: "B"}})
	if err != nil {
		t.Fatalf("create error: %v", err)
	}

	if err := svc.UpdateStatus(ctx, id, "paused"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected invalid status error, got %v", err)
	}
	if err := svc.UpdateStatus(ctx, id, StatusCompleted); err != nil {
		t.Fatalf("expected status update success: %v", err)
	}
}

func TestArchivedClassification(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	cases := []struct {
		name     string
		poll     Poll
		archived bool
	}{
		{"active unexpired", Poll{Status: StatusActive, EndsAt: &future}, false},
		{"active no end date", Poll{Status: StatusActive}, false},
		{"active expired", Poll{Status: StatusActive, EndsAt: &past}, true},
		{"draft", Poll{Status: StatusDraft, EndsAt: &future}, true},
		{"completed", Poll{Status: StatusCompleted, EndsAt: &future}, true},
		{"cancelled", Poll{Status: StatusCancelled}, true},
	}
	for _, tc := range cases {
		if got := tc.poll.Archived(now); got != tc.archived {
			t.Errorf("%s: archived = %v, want %v", tc.name, got, tc.archived)
		}
	}
}
