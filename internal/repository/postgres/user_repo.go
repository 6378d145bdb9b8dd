package postgres

import (
	"context"
	"database/sql"

	"fanstock/internal/domain/user"
)

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Upsert(ctx context.Context, u *user.User) error {
	query := `
        INSERT INTO users (email, display_name)
        VALUES ($1, $2)
        ON CONFLICT (email) DO UPDATE
        SET display_name = EXCLUDED.display_name
        RETURNING id, created_at
    `
	return r.db.QueryRowContext(ctx, query, u.Email, u.DisplayName).
		Scan(&u.ID, &u.CreatedAt)
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	u := &user.User{}
	err := r.db.QueryRowContext(ctx, `
        SELECT id, email, display_name, created_at
        FROM users WHERE id = $1
    `, id).Scan(&u.ID, &u.Email, &u.DisplayName, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}
