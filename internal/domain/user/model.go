package user

import (
	"context"
	"time"
)

// User mirrors the identity provider's subject. FanStock never authenticates
// anyone itself; users are synced on login and referenced by id afterwards.
type User struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
}

type Repository interface {
	// Upsert creates the user or refreshes the display name, keyed on email.
	Upsert(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
}
