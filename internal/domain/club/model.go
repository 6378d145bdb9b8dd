package club

import (
	"context"
	"time"
)

type Club struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	TokenSymbol string    `json:"tokenSymbol"`
	TokenName   string    `json:"tokenName"`
	TotalSupply string    `json:"totalSupply"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Purchase is a simulated token sale. No chain transaction is executed; the
// hash is random and the balance lives in token_holdings.
type Purchase struct {
	ID        int64     `json:"id"`
	ClubID    int64     `json:"clubId"`
	UserID    int64     `json:"userId"`
	Amount    int64     `json:"amount"`
	TxHash    string    `json:"txHash"`
	CreatedAt time.Time `json:"createdAt"`
}

type Holding struct {
	ID        int64     `json:"id"`
	ClubID    int64     `json:"clubId"`
	UserID    int64     `json:"userId"`
	Balance   string    `json:"balance"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Repository interface {
	Create(ctx context.Context, c *Club) (int64, error)
	GetByID(ctx context.Context, id int64) (*Club, error)
	TotalSupply(ctx context.Context, id int64) (string, error)
	// RecordPurchase inserts the purchase and bumps the buyer's holding
	// balance in one transaction.
	RecordPurchase(ctx context.Context, p *Purchase) error
	GetHolding(ctx context.Context, clubID, userID int64) (*Holding, error)
}
