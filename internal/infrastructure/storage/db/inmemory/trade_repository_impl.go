package inmemory

import (
	"context"
	"errors"
	"sort"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"github.com/tswap-network/tswap-engine/internal/core/domain"
)

// ErrTradeNotFound ...
var ErrTradeNotFound = errors.New("trade not found")

type tradeRepositoryImpl struct {
	store *store
}

func (r *tradeRepositoryImpl) AddTrade(_ context.Context, trade *domain.Trade) error {
	r.store.lock.Lock()
	defer r.store.lock.Unlock()

	r.store.trades[trade.ID] = *trade
	return nil
}

func (r *tradeRepositoryImpl) GetTrade(
	_ context.Context, id uuid.UUID,
) (*domain.Trade, error) {
	r.store.lock.RLock()
	defer r.store.lock.RUnlock()

	trade, ok := r.store.trades[id]
	if !ok {
		return nil, ErrTradeNotFound
	}
	return &trade, nil
}

func (r *tradeRepositoryImpl) GetTradesForPool(
	_ context.Context, pool solana.PublicKey,
) ([]*domain.Trade, error) {
	r.store.lock.RLock()
	defer r.store.lock.RUnlock()

	trades := make([]*domain.Trade, 0)
	for _, t := range r.store.trades {
		if t.Pool.Equals(pool) {
			t := t
			trades = append(trades, &t)
		}
	}
	sort.SliceStable(trades, func(i, j int) bool {
		return trades[i].Timestamp < trades[j].Timestamp
	})
	return trades, nil
}
