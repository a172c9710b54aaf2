package domain

import (
	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
)

// Trade is the receipt of a settled trade, kept for auditing.
type Trade struct {
	ID    uuid.UUID
	Pool  solana.PublicKey
	Side  TakerSide
	Taker solana.PublicKey
	// Price is the curve price the trade was executed at. For snipe orders
	// it's the price paid to the executor.
	Price     uint64
	Fees      Fees
	Royalty   uint64
	MMFee     uint64
	SnipeFee  uint64
	Timestamp int64
}

// NewTrade returns a receipt with a fresh random id.
func NewTrade(
	pool, taker solana.PublicKey, side TakerSide, price uint64, now int64,
) *Trade {
	return &Trade{
		ID:        uuid.New(),
		Pool:      pool,
		Side:      side,
		Taker:     taker,
		Price:     price,
		Timestamp: now,
	}
}
