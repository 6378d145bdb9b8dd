package club

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
)

var (
	ErrMissingFields = errors.New("missing fields")
	ErrClubNotFound  = errors.New("club not found")
	ErrBuyerNotFound = errors.New("user not found")
	ErrBadAmount     = errors.New("amount must be a positive integer")
)

const defaultSupply = "1000000"

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, c *Club) (int64, error) {
	if c.Name == "" || c.TokenSymbol == "" {
		return 0, ErrMissingFields
	}
	if c.TokenName == "" {
		c.TokenName = c.Name + " Fan Token"
	}
	if c.TotalSupply == "" {
		c.TotalSupply = defaultSupply
	}
	return s.repo.Create(ctx, c)
}

func (s *Service) Get(ctx context.Context, id int64) (*Club, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClubNotFound
		}
		return nil, err
	}
	return c, nil
}

// Purchase simulates a token sale: it verifies the club, stamps a random
// transaction hash, and lets the repository bump the buyer's holding. No
// funds move and nothing touches a chain.
func (s *Service) Purchase(ctx context.Context, clubID, userID, amount int64) (*Purchase, error) {
	if clubID == 0 || userID == 0 {
		return nil, ErrMissingFields
	}
	if amount <= 0 {
		return nil, ErrBadAmount
	}
	if _, err := s.Get(ctx, clubID); err != nil {
		return nil, err
	}

	p := &Purchase{
		ClubID: clubID,
		UserID: userID,
		Amount: amount,
		TxHash: newTxHash(),
	}
	if err := s.repo.RecordPurchase(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Holding returns the user's balance for a club, zero-valued when the user
// holds nothing.
func (s *Service) Holding(ctx context.Context, clubID, userID int64) (*Holding, error) {
	h, err := s.repo.GetHolding(ctx, clubID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &Holding{ClubID: clubID, UserID: userID, Balance: "0"}, nil
		}
		return nil, err
	}
	return h, nil
}

func newTxHash() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return "0x" + hex.EncodeToString(b)
}
