package postgres

import (
	"context"
	"database/sql"

	"fanstock/internal/domain/vote"
)

type VoteRepo struct {
	db *sql.DB
}

func NewVoteRepo(db *sql.DB) *VoteRepo {
	return &VoteRepo{db: db}
}

// Upsert writes the caller's response, overwriting any earlier vote for the
// same poll. The xmax trick distinguishes a fresh insert from a conflict
// update without a second round trip.
func (r *VoteRepo) Upsert(ctx context.Context, v *vote.Response) (bool, error) {
	query := `
        INSERT INTO poll_responses (poll_id, option_id, user_id, token_power)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (poll_id, user_id) DO UPDATE
        SET option_id = EXCLUDED.option_id,
            token_power = EXCLUDED.token_power,
            updated_at = now()
        RETURNING id, created_at, updated_at, (xmax = 0) AS inserted
    `
	var created bool
	err := r.db.QueryRowContext(ctx, query, v.PollID, v.OptionID, v.UserID, v.TokenPower).
		Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt, &created)
	if err != nil {
		return false, err
	}
	return created, nil
}

func (r *VoteRepo) GetByUser(ctx context.Context, pollID, userID int64) (*vote.Response, error) {
	v := &vote.Response{}
	err := r.db.QueryRowContext(ctx, `
        SELECT id, poll_id, option_id, user_id, token_power, created_at, updated_at
        FROM poll_responses
        WHERE poll_id = $1 AND user_id = $2
    `, pollID, userID).Scan(
		&v.ID, &v.PollID, &v.OptionID, &v.UserID, &v.TokenPower, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *VoteRepo) ListByPoll(ctx context.Context, pollID int64) ([]vote.Response, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, poll_id, option_id, user_id, token_power, created_at, updated_at
        FROM poll_responses
        WHERE poll_id = $1
    `, pollID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []vote.Response
	for rows.Next() {
		var v vote.Response
		if err := rows.Scan(&v.ID, &v.PollID, &v.OptionID, &v.UserID, &v.TokenPower,
			&v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, v)
	}
	return res, rows.Err()
}

// RefreshAggregates recomputes the denormalized per-option tallies for a poll
// from the raw responses. Recompute rather than increment: a revote moves
// power between options, so incremental counters would drift. The CTE drops
// rows for options nobody backs anymore; the upsert alone would never touch
// them and a vacated option would keep its stale tally.
func (r *VoteRepo) RefreshAggregates(ctx context.Context, pollID int64) error {
	_, err := r.db.ExecContext(ctx, `
        WITH vacated AS (
            DELETE FROM poll_aggregates
            WHERE poll_id = $1
              AND option_id NOT IN (
                  SELECT option_id FROM poll_responses WHERE poll_id = $1
              )
        )
        INSERT INTO poll_aggregates (poll_id, option_id, tokens_voted, voter_count, updated_at)
        SELECT poll_id, option_id,
               COALESCE(SUM(NULLIF(regexp_replace(token_power, '[^0-9]', '', 'g'), '')::BIGINT), 0),
               COUNT(*),
               now()
        FROM poll_responses
        WHERE poll_id = $1
        GROUP BY poll_id, option_id
        ON CONFLICT (poll_id, option_id) DO UPDATE
        SET tokens_voted = EXCLUDED.tokens_voted,
            voter_count = EXCLUDED.voter_count,
            updated_at = now()
    `, pollID)
	return err
}
