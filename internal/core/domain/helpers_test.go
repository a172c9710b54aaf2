package domain_test

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
	"github.com/tswap-network/tswap-engine/internal/core/domain"
)

const (
	startingPrice = uint64(1_000_000_000)
	linearDelta   = uint64(100_000_000)
	now           = int64(1_700_000_000)
)

var feeVault = solana.NewWallet().PublicKey()

func u16(v uint16) *uint16 { return &v }

func linearConfig(poolType domain.PoolType) domain.PoolConfig {
	cfg := domain.PoolConfig{
		PoolType:      poolType,
		CurveType:     domain.CurveTypeLinear,
		StartingPrice: startingPrice,
		Delta:         linearDelta,
	}
	if poolType == domain.PoolTypeTrade {
		cfg.MMFeeBps = u16(250)
	}
	return cfg
}

func exponentialConfig(
	poolType domain.PoolType, deltaBps uint64,
) domain.PoolConfig {
	cfg := linearConfig(poolType)
	cfg.CurveType = domain.CurveTypeExponential
	cfg.Delta = deltaBps
	return cfg
}

func newPool(t *testing.T, cfg domain.PoolConfig) *domain.Pool {
	t.Helper()

	pool, err := domain.NewPool(
		solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey(),
		cfg, domain.OrderTypeStandard, false, 0, now,
	)
	require.NoError(t, err)
	return pool
}

func newMarginatedPool(
	t *testing.T, cfg domain.PoolConfig, orderType domain.OrderType,
) (*domain.Pool, *domain.MarginAccount) {
	t.Helper()

	owner := solana.NewWallet().PublicKey()
	pool, err := domain.NewPool(
		owner, solana.NewWallet().PublicKey(),
		cfg, orderType, true, 0, now,
	)
	require.NoError(t, err)

	margin, err := domain.NewMarginAccount(owner, 0, "main", now)
	require.NoError(t, err)
	require.NoError(t, pool.AttachMargin(margin))
	return pool, margin
}
