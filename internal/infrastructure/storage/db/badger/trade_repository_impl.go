package dbbadger

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"
	"github.com/timshannon/badgerhold/v4"
	"github.com/tswap-network/tswap-engine/internal/core/domain"
)

// ErrTradeNotFound ...
var ErrTradeNotFound = errors.New("trade not found")

type tradeRecord struct {
	ID        string
	Pool      string
	Timestamp int64
	Trade     domain.Trade
}

type tradeRepositoryImpl struct {
	store *badgerhold.Store
}

func (r *tradeRepositoryImpl) AddTrade(ctx context.Context, trade *domain.Trade) error {
	record := tradeRecord{
		ID:        trade.ID.String(),
		Pool:      trade.Pool.String(),
		Timestamp: trade.Timestamp,
		Trade:     *trade,
	}
	if err := insert(ctx, r.store, record.ID, record); err != nil {
		return fmt.Errorf("failed to add trade %s: %w", record.ID, err)
	}
	return nil
}

func (r *tradeRepositoryImpl) GetTrade(
	ctx context.Context, id uuid.UUID,
) (*domain.Trade, error) {
	var record tradeRecord
	if err := get(ctx, r.store, id.String(), &record); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, ErrTradeNotFound
		}
		return nil, err
	}
	return &record.Trade, nil
}

func (r *tradeRepositoryImpl) GetTradesForPool(
	ctx context.Context, pool solana.PublicKey,
) ([]*domain.Trade, error) {
	var records []tradeRecord
	query := badgerhold.Where("Pool").Eq(pool.String()).SortBy("Timestamp")
	if err := find(ctx, r.store, &records, query); err != nil {
		return nil, err
	}

	trades := make([]*domain.Trade, 0, len(records))
	for i := range records {
		trades = append(trades, &records[i].Trade)
	}
	return trades, nil
}
