package dbbadger

import (
	"context"
	"errors"

	"github.com/gagliardetto/solana-go"
	"github.com/timshannon/badgerhold/v4"
)

type balanceRecord struct {
	Amount uint64
}

type balanceRepositoryImpl struct {
	store *badgerhold.Store
}

func (r *balanceRepositoryImpl) GetBalance(
	ctx context.Context, account solana.PublicKey,
) (uint64, error) {
	var record balanceRecord
	if err := get(ctx, r.store, account.String(), &record); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return record.Amount, nil
}

func (r *balanceRepositoryImpl) SetBalance(
	ctx context.Context, account solana.PublicKey, amount uint64,
) error {
	if amount == 0 {
		err := remove(ctx, r.store, account.String(), balanceRecord{})
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil
		}
		return err
	}
	return upsert(ctx, r.store, account.String(), balanceRecord{amount})
}
