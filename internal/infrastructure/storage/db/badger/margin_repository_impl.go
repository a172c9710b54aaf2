package dbbadger

import (
	"context"
	"errors"

	"github.com/gagliardetto/solana-go"
	"github.com/timshannon/badgerhold/v4"
	"github.com/tswap-network/tswap-engine/internal/core/domain"
)

type marginRecord struct {
	Address string
	Owner   string
	Margin  domain.MarginAccount
}

type marginRepositoryImpl struct {
	store *badgerhold.Store
}

func (r *marginRepositoryImpl) AddMargin(
	ctx context.Context, margin *domain.MarginAccount,
) error {
	record := marginRecord{
		Address: margin.Address.String(),
		Owner:   margin.Owner.String(),
		Margin:  *margin,
	}
	if err := insert(ctx, r.store, record.Address, record); err != nil {
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return domain.ErrMarginAlreadyExists
		}
		return err
	}
	return nil
}

func (r *marginRepositoryImpl) GetMargin(
	ctx context.Context, address solana.PublicKey,
) (*domain.MarginAccount, error) {
	var record marginRecord
	if err := get(ctx, r.store, address.String(), &record); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrMarginNotFound
		}
		return nil, err
	}
	return &record.Margin, nil
}

func (r *marginRepositoryImpl) GetMarginsByOwner(
	ctx context.Context, owner solana.PublicKey,
) ([]*domain.MarginAccount, error) {
	var records []marginRecord
	query := badgerhold.Where("Owner").Eq(owner.String())
	if err := find(ctx, r.store, &records, query); err != nil {
		return nil, err
	}

	margins := make([]*domain.MarginAccount, 0, len(records))
	for i := range records {
		margins = append(margins, &records[i].Margin)
	}
	return margins, nil
}

func (r *marginRepositoryImpl) UpdateMargin(
	ctx context.Context,
	address solana.PublicKey,
	updateFn func(m *domain.MarginAccount) (*domain.MarginAccount, error),
) error {
	margin, err := r.GetMargin(ctx, address)
	if err != nil {
		return err
	}

	updatedMargin, err := updateFn(margin)
	if err != nil {
		return err
	}

	record := marginRecord{
		Address: address.String(),
		Owner:   updatedMargin.Owner.String(),
		Margin:  *updatedMargin,
	}
	return upsert(ctx, r.store, record.Address, record)
}

func (r *marginRepositoryImpl) DeleteMargin(
	ctx context.Context, address solana.PublicKey,
) error {
	err := remove(ctx, r.store, address.String(), marginRecord{})
	if errors.Is(err, badgerhold.ErrNotFound) {
		return domain.ErrMarginNotFound
	}
	return err
}
