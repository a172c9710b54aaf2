package ledger

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	log "github.com/sirupsen/logrus"
	"github.com/tswap-network/tswap-engine/internal/core/ports"
	"github.com/tswap-network/tswap-engine/pkg/mathutil"
)

// DefaultReserveFloor is the minimum balance, in lamports, of a zero data
// account.
const DefaultReserveFloor = uint64(890_880)

// Ledger is a SettlementLayer keeping balances in a BalanceRepository. Every
// account must keep at least the reserve floor unless it's closed.
type Ledger struct {
	balances     ports.BalanceRepository
	reserveFloor uint64
}

// NewLedger returns a new Ledger over the given repository.
func NewLedger(balances ports.BalanceRepository, reserveFloor uint64) (*Ledger, error) {
	if balances == nil {
		return nil, fmt.Errorf("missing balance repository")
	}
	return &Ledger{balances, reserveFloor}, nil
}

// ReserveFloor ...
func (l *Ledger) ReserveFloor() uint64 {
	return l.reserveFloor
}

// Balance returns the whole balance of the account, reserve included.
func (l *Ledger) Balance(ctx context.Context, account solana.PublicKey) (uint64, error) {
	return l.balances.GetBalance(ctx, account)
}

// AvailableBalance returns the balance of the account above its reserve floor.
func (l *Ledger) AvailableBalance(
	ctx context.Context, account solana.PublicKey,
) (uint64, error) {
	balance, err := l.balances.GetBalance(ctx, account)
	if err != nil {
		return 0, err
	}
	if balance <= l.reserveFloor {
		return 0, nil
	}
	return balance - l.reserveFloor, nil
}

// Transfer moves amount from one account to the other, failing with
// ports.ErrInsufficientBalance if the source would drop below its reserve
// floor.
func (l *Ledger) Transfer(
	ctx context.Context, from, to solana.PublicKey, amount uint64,
) error {
	if amount == 0 {
		return nil
	}

	available, err := l.AvailableBalance(ctx, from)
	if err != nil {
		return err
	}
	if available < amount {
		return fmt.Errorf(
			"%w: %s has %d available, %d required",
			ports.ErrInsufficientBalance, from, available, amount,
		)
	}

	if err := l.move(ctx, from, to, amount); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"from":   from.String(),
		"to":     to.String(),
		"amount": amount,
	}).Debug("transfer")
	return nil
}

// CloseAccount drains the whole balance of account, reserve included, into
// the given destination.
func (l *Ledger) CloseAccount(
	ctx context.Context, account, to solana.PublicKey,
) (uint64, error) {
	balance, err := l.balances.GetBalance(ctx, account)
	if err != nil {
		return 0, err
	}
	if balance == 0 {
		return 0, nil
	}
	if err := l.move(ctx, account, to, balance); err != nil {
		return 0, err
	}
	return balance, nil
}

// Credit mints amount into the given account. It's meant for funding
// external wallets only.
func (l *Ledger) Credit(
	ctx context.Context, account solana.PublicKey, amount uint64,
) error {
	balance, err := l.balances.GetBalance(ctx, account)
	if err != nil {
		return err
	}
	newBalance, err := mathutil.Add(balance, amount)
	if err != nil {
		return err
	}
	return l.balances.SetBalance(ctx, account, newBalance)
}

func (l *Ledger) move(
	ctx context.Context, from, to solana.PublicKey, amount uint64,
) error {
	fromBalance, err := l.balances.GetBalance(ctx, from)
	if err != nil {
		return err
	}
	toBalance, err := l.balances.GetBalance(ctx, to)
	if err != nil {
		return err
	}
	newFromBalance, err := mathutil.Sub(fromBalance, amount)
	if err != nil {
		return err
	}
	if from.Equals(to) {
		return nil
	}
	newToBalance, err := mathutil.Add(toBalance, amount)
	if err != nil {
		return err
	}

	if err := l.balances.SetBalance(ctx, from, newFromBalance); err != nil {
		return err
	}
	return l.balances.SetBalance(ctx, to, newToBalance)
}
