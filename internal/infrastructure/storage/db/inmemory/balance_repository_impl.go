package inmemory

import (
	"context"

	"github.com/gagliardetto/solana-go"
)

type balanceRepositoryImpl struct {
	store *store
}

func (r *balanceRepositoryImpl) GetBalance(
	_ context.Context, account solana.PublicKey,
) (uint64, error) {
	r.store.lock.RLock()
	defer r.store.lock.RUnlock()

	return r.store.balances[account], nil
}

func (r *balanceRepositoryImpl) SetBalance(
	_ context.Context, account solana.PublicKey, amount uint64,
) error {
	r.store.lock.Lock()
	defer r.store.lock.Unlock()

	if amount == 0 {
		delete(r.store.balances, account)
		return nil
	}
	r.store.balances[account] = amount
	return nil
}
