package inmemory

import (
	"context"
	"sort"

	"github.com/gagliardetto/solana-go"
	"github.com/tswap-network/tswap-engine/internal/core/domain"
)

type poolRepositoryImpl struct {
	store *store
}

func (r *poolRepositoryImpl) AddPool(_ context.Context, pool *domain.Pool) error {
	r.store.lock.Lock()
	defer r.store.lock.Unlock()

	if _, ok := r.store.pools[pool.Address]; ok {
		return domain.ErrPoolAlreadyExists
	}
	r.store.pools[pool.Address] = clonePool(*pool)
	return nil
}

func (r *poolRepositoryImpl) GetPool(
	_ context.Context, address solana.PublicKey,
) (*domain.Pool, error) {
	r.store.lock.RLock()
	defer r.store.lock.RUnlock()

	return r.getPool(address)
}

func (r *poolRepositoryImpl) GetPoolsByOwner(
	_ context.Context, owner solana.PublicKey,
) ([]*domain.Pool, error) {
	r.store.lock.RLock()
	defer r.store.lock.RUnlock()

	return r.findPools(func(p domain.Pool) bool { return p.Owner.Equals(owner) }), nil
}

func (r *poolRepositoryImpl) GetAllPools(
	_ context.Context,
) ([]*domain.Pool, error) {
	r.store.lock.RLock()
	defer r.store.lock.RUnlock()

	return r.findPools(func(domain.Pool) bool { return true }), nil
}

func (r *poolRepositoryImpl) UpdatePool(
	_ context.Context,
	address solana.PublicKey, updateFn func(p *domain.Pool) (*domain.Pool, error),
) error {
	r.store.lock.Lock()
	defer r.store.lock.Unlock()

	pool, err := r.getPool(address)
	if err != nil {
		return err
	}

	updatedPool, err := updateFn(pool)
	if err != nil {
		return err
	}

	if !updatedPool.Address.Equals(address) {
		if _, ok := r.store.pools[updatedPool.Address]; ok {
			return domain.ErrPoolAlreadyExists
		}
		delete(r.store.pools, address)
	}
	r.store.pools[updatedPool.Address] = clonePool(*updatedPool)
	return nil
}

func (r *poolRepositoryImpl) DeletePool(
	_ context.Context, address solana.PublicKey,
) error {
	r.store.lock.Lock()
	defer r.store.lock.Unlock()

	if _, ok := r.store.pools[address]; !ok {
		return domain.ErrPoolNotFound
	}
	delete(r.store.pools, address)
	return nil
}

func (r *poolRepositoryImpl) getPool(
	address solana.PublicKey,
) (*domain.Pool, error) {
	pool, ok := r.store.pools[address]
	if !ok {
		return nil, domain.ErrPoolNotFound
	}
	cp := clonePool(pool)
	return &cp, nil
}

// findPools returns the matching pools sorted by address.
func (r *poolRepositoryImpl) findPools(match func(domain.Pool) bool) []*domain.Pool {
	pools := make([]*domain.Pool, 0)
	for _, p := range r.store.pools {
		if match(p) {
			cp := clonePool(p)
			pools = append(pools, &cp)
		}
	}
	sort.SliceStable(pools, func(i, j int) bool {
		return pools[i].Address.String() < pools[j].Address.String()
	})
	return pools
}
