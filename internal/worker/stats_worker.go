package worker

import (
	"context"
	"log/slog"
	"time"

	"fanstock/internal/metrics"
	"fanstock/internal/retry"
)

// VoteEvent is emitted by the vote handler after an accepted submission.
// TokenPower is already parsed; malformed powers arrive as zero.
type VoteEvent struct {
	PollID     int64
	OptionID   int64
	UserID     int64
	TokenPower int64
	Revote     bool
}

// Aggregates refreshes the denormalized per-option tallies for a poll.
type Aggregates interface {
	RefreshAggregates(ctx context.Context, pollID int64) error
}

// StatsWorker drains vote events in the background: it bumps the Prometheus
// vote counters and refreshes poll_aggregates. Strictly best-effort: the
// authoritative results endpoint recomputes from raw responses, so a missed
// refresh only leaves the club-page listing stale.
type StatsWorker struct {
	ch     <-chan VoteEvent
	agg    Aggregates
	logger *slog.Logger
}

func NewStatsWorker(ch <-chan VoteEvent, agg Aggregates, logger *slog.Logger) *StatsWorker {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatsWorker{ch: ch, agg: agg, logger: logger}
}

func (w *StatsWorker) Run(ctx context.Context) {
	w.logger.Info("stats worker started")
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("stats worker stopped")
			return
		case ev := <-w.ch:
			w.handle(ctx, ev)
		}
	}
}

func (w *StatsWorker) handle(ctx context.Context, ev VoteEvent) {
	metrics.IncVote(ev.Revote, ev.TokenPower)

	if w.agg == nil {
		return
	}
	err := retry.Do(ctx, 3, 200*time.Millisecond, func() error {
		return w.agg.RefreshAggregates(ctx, ev.PollID)
	})
	if err != nil {
		w.logger.Error("aggregate refresh failed",
			"poll_id", ev.PollID,
			"error", err,
		)
	}
}
