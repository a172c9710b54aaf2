package inmemory

import (
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"github.com/tswap-network/tswap-engine/internal/core/domain"
	"github.com/tswap-network/tswap-engine/internal/core/ports"
	"github.com/tswap-network/tswap-engine/internal/storageutil/uow"
)

// store holds the state shared by all in-memory repositories.
type store struct {
	pools    map[solana.PublicKey]domain.Pool
	margins  map[solana.PublicKey]domain.MarginAccount
	trades   map[uuid.UUID]domain.Trade
	balances map[solana.PublicKey]uint64

	lock *sync.RWMutex
}

func (s *store) snapshot() *store {
	s.lock.RLock()
	defer s.lock.RUnlock()

	cp := &store{
		pools:    make(map[solana.PublicKey]domain.Pool, len(s.pools)),
		margins:  make(map[solana.PublicKey]domain.MarginAccount, len(s.margins)),
		trades:   make(map[uuid.UUID]domain.Trade, len(s.trades)),
		balances: make(map[solana.PublicKey]uint64, len(s.balances)),
	}
	for k, v := range s.pools {
		cp.pools[k] = clonePool(v)
	}
	for k, v := range s.margins {
		cp.margins[k] = v
	}
	for k, v := range s.trades {
		cp.trades[k] = v
	}
	for k, v := range s.balances {
		cp.balances[k] = v
	}
	return cp
}

func (s *store) restore(from *store) {
	s.lock.Lock()
	defer s.lock.Unlock()

	s.pools = from.pools
	s.margins = from.margins
	s.trades = from.trades
	s.balances = from.balances
}

// RepoManager keeps pools, margin accounts, trades and balances in memory.
// Transactions snapshot the whole store and restore it on rollback, so units
// of work must not run concurrently on the same manager.
type RepoManager struct {
	store *store

	poolRepository    domain.PoolRepository
	marginRepository  domain.MarginRepository
	tradeRepository   domain.TradeRepository
	balanceRepository ports.BalanceRepository
}

// NewRepoManager returns an empty in-memory RepoManager.
func NewRepoManager() ports.RepoManager {
	s := &store{
		pools:    map[solana.PublicKey]domain.Pool{},
		margins:  map[solana.PublicKey]domain.MarginAccount{},
		trades:   map[uuid.UUID]domain.Trade{},
		balances: map[solana.PublicKey]uint64{},
		lock:     &sync.RWMutex{},
	}

	return &RepoManager{
		store:             s,
		poolRepository:    &poolRepositoryImpl{s},
		marginRepository:  &marginRepositoryImpl{s},
		tradeRepository:   &tradeRepositoryImpl{s},
		balanceRepository: &balanceRepositoryImpl{s},
	}
}

func (d *RepoManager) PoolRepository() domain.PoolRepository {
	return d.poolRepository
}

func (d *RepoManager) MarginRepository() domain.MarginRepository {
	return d.marginRepository
}

func (d *RepoManager) TradeRepository() domain.TradeRepository {
	return d.tradeRepository
}

func (d *RepoManager) BalanceRepository() ports.BalanceRepository {
	return d.balanceRepository
}

// Begin takes a snapshot of the store.
func (d *RepoManager) Begin() (uow.Tx, error) {
	return &tx{store: d.store, snapshot: d.store.snapshot()}, nil
}

func (d *RepoManager) ContextKey() interface{} {
	return d.store
}

func (d *RepoManager) Close() {}

type tx struct {
	store    *store
	snapshot *store
}

func (t *tx) Commit() error {
	t.snapshot = nil
	return nil
}

func (t *tx) Rollback() error {
	if t.snapshot != nil {
		t.store.restore(t.snapshot)
		t.snapshot = nil
	}
	return nil
}

// clonePool returns a copy of the pool not sharing any pointer with it.
func clonePool(p domain.Pool) domain.Pool {
	if p.Margin != nil {
		margin := *p.Margin
		p.Margin = &margin
	}
	if p.Frozen != nil {
		frozen := *p.Frozen
		p.Frozen = &frozen
	}
	if p.Config.MMFeeBps != nil {
		fee := *p.Config.MMFeeBps
		p.Config.MMFeeBps = &fee
	}
	return p
}
