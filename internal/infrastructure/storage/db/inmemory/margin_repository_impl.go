package inmemory

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/tswap-network/tswap-engine/internal/core/domain"
)

type marginRepositoryImpl struct {
	store *store
}

func (r *marginRepositoryImpl) AddMargin(
	_ context.Context, margin *domain.MarginAccount,
) error {
	r.store.lock.Lock()
	defer r.store.lock.Unlock()

	if _, ok := r.store.margins[margin.Address]; ok {
		return domain.ErrMarginAlreadyExists
	}
	r.store.margins[margin.Address] = *margin
	return nil
}

func (r *marginRepositoryImpl) GetMargin(
	_ context.Context, address solana.PublicKey,
) (*domain.MarginAccount, error) {
	r.store.lock.RLock()
	defer r.store.lock.RUnlock()

	margin, ok := r.store.margins[address]
	if !ok {
		return nil, domain.ErrMarginNotFound
	}
	return &margin, nil
}

func (r *marginRepositoryImpl) GetMarginsByOwner(
	_ context.Context, owner solana.PublicKey,
) ([]*domain.MarginAccount, error) {
	r.store.lock.RLock()
	defer r.store.lock.RUnlock()

	margins := make([]*domain.MarginAccount, 0)
	for _, m := range r.store.margins {
		if m.Owner.Equals(owner) {
			m := m
			margins = append(margins, &m)
		}
	}
	return margins, nil
}

func (r *marginRepositoryImpl) UpdateMargin(
	_ context.Context,
	address solana.PublicKey,
	updateFn func(m *domain.MarginAccount) (*domain.MarginAccount, error),
) error {
	r.store.lock.Lock()
	defer r.store.lock.Unlock()

	margin, ok := r.store.margins[address]
	if !ok {
		return domain.ErrMarginNotFound
	}

	updatedMargin, err := updateFn(&margin)
	if err != nil {
		return err
	}

	r.store.margins[address] = *updatedMargin
	return nil
}

func (r *marginRepositoryImpl) DeleteMargin(
	_ context.Context, address solana.PublicKey,
) error {
	r.store.lock.Lock()
	defer r.store.lock.Unlock()

	if _, ok := r.store.margins[address]; !ok {
		return domain.ErrMarginNotFound
	}
	delete(r.store.margins, address)
	return nil
}
