package domain

import (
	"context"

	"github.com/gagliardetto/solana-go"
)

// PoolRepository is the abstraction for any kind of database intended to
// persist Pools, keyed by their address.
type PoolRepository interface {
	// AddPool adds a new pool to the repository, failing with
	// ErrPoolAlreadyExists if the key is taken.
	AddPool(ctx context.Context, pool *Pool) error
	// GetPool returns the pool with the given address.
	GetPool(ctx context.Context, address solana.PublicKey) (*Pool, error)
	// GetPoolsByOwner returns all the pools of the given owner.
	GetPoolsByOwner(ctx context.Context, owner solana.PublicKey) ([]*Pool, error)
	// GetAllPools returns all pools.
	GetAllPools(ctx context.Context) ([]*Pool, error)
	// UpdatePool updates the state of a pool. The closure function let's to
	// commit multiple changes to a certain pool in a transactional way.
	// If the closure re-keys the pool, the record is moved to the new key.
	UpdatePool(
		ctx context.Context,
		address solana.PublicKey, updateFn func(p *Pool) (*Pool, error),
	) error
	// DeletePool removes a pool from the repository.
	DeletePool(ctx context.Context, address solana.PublicKey) error
}

// MarginRepository is the abstraction for any kind of database intended to
// persist MarginAccounts.
type MarginRepository interface {
	// AddMargin adds a new margin account, failing with
	// ErrMarginAlreadyExists if the key is taken.
	AddMargin(ctx context.Context, margin *MarginAccount) error
	// GetMargin returns the margin account with the given address.
	GetMargin(
		ctx context.Context, address solana.PublicKey,
	) (*MarginAccount, error)
	// GetMarginsByOwner returns all the margin accounts of the given owner.
	GetMarginsByOwner(
		ctx context.Context, owner solana.PublicKey,
	) ([]*MarginAccount, error)
	// UpdateMargin updates the state of a margin account in a transactional
	// way.
	UpdateMargin(
		ctx context.Context,
		address solana.PublicKey,
		updateFn func(m *MarginAccount) (*MarginAccount, error),
	) error
	// DeleteMargin removes a margin account from the repository.
	DeleteMargin(ctx context.Context, address solana.PublicKey) error
}
