package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"fanstock/internal/domain/club"
)

type ClubRepo struct {
	db *sql.DB
}

func NewClubRepo(db *sql.DB) *ClubRepo {
	return &ClubRepo{db: db}
}

func (r *ClubRepo) Create(ctx context.Context, c *club.Club) (int64, error) {
	err := r.db.QueryRowContext(ctx, `
        INSERT INTO clubs (name, token_symbol, token_name, total_supply)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at
    `, c.Name, c.TokenSymbol, c.TokenName, c.TotalSupply).
		Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return c.ID, nil
}

func (r *ClubRepo) GetByID(ctx context.Context, id int64) (*club.Club, error) {
	c := &club.Club{}
	err := r.db.QueryRowContext(ctx, `
        SELECT id, name, token_symbol, token_name, total_supply, created_at, updated_at
        FROM clubs WHERE id = $1
    `, id).Scan(&c.ID, &c.Name, &c.TokenSymbol, &c.TokenName, &c.TotalSupply, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *ClubRepo) TotalSupply(ctx context.Context, id int64) (string, error) {
	var supply string
	err := r.db.QueryRowContext(ctx, `SELECT total_supply FROM clubs WHERE id = $1`, id).Scan(&supply)
	return supply, err
}

func (r *ClubRepo) RecordPurchase(ctx context.Context, p *club.Purchase) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
        INSERT INTO token_purchases (club_id, user_id, amount, tx_hash)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at
    `, p.ClubID, p.UserID, p.Amount, p.TxHash).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return club.ErrBuyerNotFound
		}
		return err
	}

	// balance is stored as a string-encoded integer, bumped in SQL
	_, err = tx.ExecContext(ctx, `
        INSERT INTO token_holdings (club_id, user_id, balance)
        VALUES ($1, $2, $3::TEXT)
        ON CONFLICT (club_id, user_id) DO UPDATE
        SET balance = (token_holdings.balance::BIGINT + $3)::TEXT,
            updated_at = now()
    `, p.ClubID, p.UserID, p.Amount)
	if err != nil {
		return err
	}

	return tx.Commit()
}

func (r *ClubRepo) GetHolding(ctx context.Context, clubID, userID int64) (*club.Holding, error) {
	h := &club.Holding{}
	err := r.db.QueryRowContext(ctx, `
        SELECT id, club_id, user_id, balance, updated_at
        FROM token_holdings
        WHERE club_id = $1 AND user_id = $2
    `, clubID, userID).Scan(&h.ID, &h.ClubID, &h.UserID, &h.Balance, &h.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return h, nil
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return false
}
