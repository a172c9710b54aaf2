package ports

import (
	"context"
	"errors"

	"github.com/gagliardetto/solana-go"
)

// ErrInsufficientBalance is returned when a transfer would leave the source
// account below its storage reserve floor.
var ErrInsufficientBalance = errors.New("insufficient balance")

// SettlementLayer is the only way value moves between accounts.
type SettlementLayer interface {
	// ReserveFloor is the minimum balance every open account must keep.
	ReserveFloor() uint64
	// AvailableBalance returns how much can be transferred out of the given
	// account without breaching its reserve floor.
	AvailableBalance(ctx context.Context, account solana.PublicKey) (uint64, error)
	// Transfer moves amount from one account to another. A zero amount is a
	// no-op.
	Transfer(ctx context.Context, from, to solana.PublicKey, amount uint64) error
	// CloseAccount drains the whole balance of account, reserve included, and
	// returns the amount moved.
	CloseAccount(ctx context.Context, account, to solana.PublicKey) (uint64, error)
}

// BalanceRepository persists raw account balances.
type BalanceRepository interface {
	// GetBalance returns 0 for unknown accounts.
	GetBalance(ctx context.Context, account solana.PublicKey) (uint64, error)
	SetBalance(ctx context.Context, account solana.PublicKey, amount uint64) error
}
