package domain

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
)

// TradeRepository is the abstraction for any kind of database intended to
// persist Trade receipts.
type TradeRepository interface {
	// AddTrade stores a new receipt.
	AddTrade(ctx context.Context, trade *Trade) error
	// GetTrade returns the receipt with the given id.
	GetTrade(ctx context.Context, id uuid.UUID) (*Trade, error)
	// GetTradesForPool returns all the receipts of the given pool, oldest
	// first.
	GetTradesForPool(ctx context.Context, pool solana.PublicKey) ([]*Trade, error)
}
