package postgres

import (
	"context"
	"database/sql"

	"fanstock/internal/domain/poll"
)

type PollRepo struct {
	db *sql.DB
}

func NewPollRepo(db *sql.DB) *PollRepo {
	return &PollRepo{db: db}
}

func (r *PollRepo) Create(ctx context.Context, p *poll.Poll, options []poll.Option) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	queryPoll := `
        INSERT INTO polls (club_id, title, description, type, status, starts_at, ends_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at
    `

	err = tx.QueryRowContext(ctx, queryPoll,
		p.ClubID,
		p.Title,
		p.Description,
		p.Type,
		p.Status,
		p.StartsAt,
		p.EndsAt,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return 0, err
	}

	queryOpt := `
        INSERT INTO poll_options (poll_id, text, ord)
        VALUES ($1, $2, $3)
        RETURNING id, created_at
    `

	for i := range options {
		options[i].PollID = p.ID
		if err := tx.QueryRowContext(ctx, queryOpt, options[i].PollID, options[i].Text, options[i].Ord).
			Scan(&options[i].ID, &options[i].CreatedAt); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}

	return p.ID, nil
}

func (r *PollRepo) GetByID(ctx context.Context, id int64) (*poll.Poll, []poll.Option, error) {
	p := &poll.Poll{}
	err := r.db.QueryRowContext(ctx, `
        SELECT id, club_id, title, description, type, status, starts_at, ends_at, created_at, updated_at
        FROM polls WHERE id = $1
    `, id).Scan(
		&p.ID, &p.ClubID, &p.Title, &p.Description, &p.Type, &p.Status,
		&p.StartsAt, &p.EndsAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
        SELECT id, poll_id, text, ord, created_at
        FROM poll_options WHERE poll_id = $1
        ORDER BY ord
    `, id)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var opts []poll.Option
	for rows.Next() {
		var o poll.Option
		if err := rows.Scan(&o.ID, &o.PollID, &o.Text, &o.Ord, &o.CreatedAt); err != nil {
			return nil, nil, err
		}
		opts = append(opts, o)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	return p, opts, nil
}

func (r *PollRepo) ListByClub(ctx context.Context, clubID int64) ([]poll.Summary, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT p.id, p.club_id, p.title, p.description, p.type, p.status,
               p.starts_at, p.ends_at, p.created_at, p.updated_at,
               COALESCE(SUM(pa.tokens_voted), 0)
        FROM polls p
        LEFT JOIN poll_aggregates pa ON p.id = pa.poll_id
        WHERE p.club_id = $1
        GROUP BY p.id
        ORDER BY p.created_at DESC
    `, clubID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []poll.Summary
	for rows.Next() {
		var s poll.Summary
		if err := rows.Scan(&s.ID, &s.ClubID, &s.Title, &s.Description, &s.Type, &s.Status,
			&s.StartsAt, &s.EndsAt, &s.CreatedAt, &s.UpdatedAt, &s.TokensVoted); err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

func (r *PollRepo) UpdateStatus(ctx context.Context, id int64, status poll.Status) error {
	res, err := r.db.ExecContext(ctx, `UPDATE polls SET status = $1, updated_at = now() WHERE id = $2`, status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
