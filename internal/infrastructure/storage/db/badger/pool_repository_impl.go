package dbbadger

import (
	"context"
	"errors"

	"github.com/gagliardetto/solana-go"
	"github.com/timshannon/badgerhold/v4"
	"github.com/tswap-network/tswap-engine/internal/core/domain"
)

// poolRecord is the persisted form of a pool. Keys and indexed fields are
// stored as base58 strings so that they can be queried.
type poolRecord struct {
	Address string
	Owner   string
	Margin  string
	Pool    domain.Pool
}

func newPoolRecord(p domain.Pool) poolRecord {
	margin := ""
	if p.Margin != nil {
		margin = p.Margin.String()
	}
	return poolRecord{
		Address: p.Address.String(),
		Owner:   p.Owner.String(),
		Margin:  margin,
		Pool:    p,
	}
}

type poolRepositoryImpl struct {
	store *badgerhold.Store
}

func (r *poolRepositoryImpl) AddPool(ctx context.Context, pool *domain.Pool) error {
	record := newPoolRecord(*pool)
	if err := insert(ctx, r.store, record.Address, record); err != nil {
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return domain.ErrPoolAlreadyExists
		}
		return err
	}
	return nil
}

func (r *poolRepositoryImpl) GetPool(
	ctx context.Context, address solana.PublicKey,
) (*domain.Pool, error) {
	return r.getPool(ctx, address.String())
}

func (r *poolRepositoryImpl) GetPoolsByOwner(
	ctx context.Context, owner solana.PublicKey,
) ([]*domain.Pool, error) {
	return r.findPools(ctx, badgerhold.Where("Owner").Eq(owner.String()))
}

func (r *poolRepositoryImpl) GetAllPools(
	ctx context.Context,
) ([]*domain.Pool, error) {
	return r.findPools(ctx, nil)
}

func (r *poolRepositoryImpl) UpdatePool(
	ctx context.Context,
	address solana.PublicKey, updateFn func(p *domain.Pool) (*domain.Pool, error),
) error {
	key := address.String()
	pool, err := r.getPool(ctx, key)
	if err != nil {
		return err
	}

	updatedPool, err := updateFn(pool)
	if err != nil {
		return err
	}

	record := newPoolRecord(*updatedPool)
	if record.Address == key {
		return upsert(ctx, r.store, key, record)
	}

	// The pool has been re-keyed.
	if err := insert(ctx, r.store, record.Address, record); err != nil {
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return domain.ErrPoolAlreadyExists
		}
		return err
	}
	return remove(ctx, r.store, key, poolRecord{})
}

func (r *poolRepositoryImpl) DeletePool(
	ctx context.Context, address solana.PublicKey,
) error {
	err := remove(ctx, r.store, address.String(), poolRecord{})
	if errors.Is(err, badgerhold.ErrNotFound) {
		return domain.ErrPoolNotFound
	}
	return err
}

func (r *poolRepositoryImpl) getPool(
	ctx context.Context, key string,
) (*domain.Pool, error) {
	var record poolRecord
	if err := get(ctx, r.store, key, &record); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrPoolNotFound
		}
		return nil, err
	}
	return &record.Pool, nil
}

func (r *poolRepositoryImpl) findPools(
	ctx context.Context, query *badgerhold.Query,
) ([]*domain.Pool, error) {
	var records []poolRecord
	if err := find(ctx, r.store, &records, query); err != nil {
		return nil, err
	}

	pools := make([]*domain.Pool, 0, len(records))
	for i := range records {
		pools = append(pools, &records[i].Pool)
	}
	return pools, nil
}
