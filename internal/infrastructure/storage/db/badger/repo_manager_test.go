package dbbadger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
	"github.com/tswap-network/tswap-engine/internal/core/domain"
	"github.com/tswap-network/tswap-engine/internal/core/ports"
	dbbadger "github.com/tswap-network/tswap-engine/internal/infrastructure/storage/db/badger"
	"github.com/tswap-network/tswap-engine/internal/storageutil/uow"
)

var ctx = context.Background()

func newRepoManager(t *testing.T) ports.RepoManager {
	t.Helper()

	repoManager, err := dbbadger.NewRepoManager("", nil)
	require.NoError(t, err)
	t.Cleanup(repoManager.Close)
	return repoManager
}

func newTestPool(t *testing.T) *domain.Pool {
	t.Helper()

	pool, err := domain.NewPool(
		solana.NewWallet().PublicKey(), solana.NewWallet().PublicKey(),
		domain.PoolConfig{
			PoolType:      domain.PoolTypeToken,
			CurveType:     domain.CurveTypeLinear,
			StartingPrice: 1_000_000_000,
			Delta:         100_000_000,
		},
		domain.OrderTypeStandard, false, 0, 1_700_000_000,
	)
	require.NoError(t, err)
	return pool
}

func TestPoolRepository(t *testing.T) {
	t.Parallel()

	repo := newRepoManager(t).PoolRepository()
	pool := newTestPool(t)

	require.NoError(t, repo.AddPool(ctx, pool))
	require.ErrorIs(t, repo.AddPool(ctx, pool), domain.ErrPoolAlreadyExists)

	got, err := repo.GetPool(ctx, pool.Address)
	require.NoError(t, err)
	require.Equal(t, pool, got)

	pools, err := repo.GetPoolsByOwner(ctx, pool.Owner)
	require.NoError(t, err)
	require.Len(t, pools, 1)

	pools, err = repo.GetPoolsByOwner(ctx, solana.NewWallet().PublicKey())
	require.NoError(t, err)
	require.Empty(t, pools)

	err = repo.UpdatePool(
		ctx, pool.Address, func(p *domain.Pool) (*domain.Pool, error) {
			p.TakerSellCount = 3
			return p, nil
		},
	)
	require.NoError(t, err)

	got, err = repo.GetPool(ctx, pool.Address)
	require.NoError(t, err)
	require.Equal(t, uint32(3), got.TakerSellCount)

	require.NoError(t, repo.DeletePool(ctx, pool.Address))
	_, err = repo.GetPool(ctx, pool.Address)
	require.ErrorIs(t, err, domain.ErrPoolNotFound)
}

func TestPoolRepositoryRekey(t *testing.T) {
	t.Parallel()

	repo := newRepoManager(t).PoolRepository()
	pool := newTestPool(t)
	oldAddress := pool.Address
	require.NoError(t, repo.AddPool(ctx, pool))

	newConfig := pool.Config
	newConfig.Delta = 1
	err := repo.UpdatePool(
		ctx, oldAddress, func(p *domain.Pool) (*domain.Pool, error) {
			return p, p.Edit(newConfig)
		},
	)
	require.NoError(t, err)

	_, err = repo.GetPool(ctx, oldAddress)
	require.ErrorIs(t, err, domain.ErrPoolNotFound)

	pools, err := repo.GetAllPools(ctx)
	require.NoError(t, err)
	require.Len(t, pools, 1)
	require.Equal(t, newConfig, pools[0].Config)
}

func TestMarginRepository(t *testing.T) {
	t.Parallel()

	repo := newRepoManager(t).MarginRepository()
	margin, err := domain.NewMarginAccount(
		solana.NewWallet().PublicKey(), 0, "main", 1_700_000_000,
	)
	require.NoError(t, err)

	require.NoError(t, repo.AddMargin(ctx, margin))
	require.ErrorIs(t, repo.AddMargin(ctx, margin), domain.ErrMarginAlreadyExists)

	err = repo.UpdateMargin(
		ctx, margin.Address,
		func(m *domain.MarginAccount) (*domain.MarginAccount, error) {
			m.PoolsAttached = 2
			return m, nil
		},
	)
	require.NoError(t, err)

	margins, err := repo.GetMarginsByOwner(ctx, margin.Owner)
	require.NoError(t, err)
	require.Len(t, margins, 1)
	require.Equal(t, uint32(2), margins[0].PoolsAttached)

	require.NoError(t, repo.DeleteMargin(ctx, margin.Address))
	require.ErrorIs(
		t, repo.DeleteMargin(ctx, margin.Address), domain.ErrMarginNotFound,
	)
}

func TestTradeRepository(t *testing.T) {
	t.Parallel()

	repo := newRepoManager(t).TradeRepository()
	pool := solana.NewWallet().PublicKey()
	taker := solana.NewWallet().PublicKey()

	second := domain.NewTrade(pool, taker, domain.TakerSideSell, 90, 20)
	first := domain.NewTrade(pool, taker, domain.TakerSideBuy, 100, 10)
	other := domain.NewTrade(
		solana.NewWallet().PublicKey(), taker, domain.TakerSideBuy, 100, 5,
	)
	for _, trade := range []*domain.Trade{second, first, other} {
		require.NoError(t, repo.AddTrade(ctx, trade))
	}

	trades, err := repo.GetTradesForPool(ctx, pool)
	require.NoError(t, err)
	require.Equal(t, []*domain.Trade{first, second}, trades)

	got, err := repo.GetTrade(ctx, other.ID)
	require.NoError(t, err)
	require.Equal(t, other, got)
}

func TestUnitOfWorkRollback(t *testing.T) {
	t.Parallel()

	repoManager := newRepoManager(t)
	balances := repoManager.BalanceRepository()
	account := solana.NewWallet().PublicKey()
	unit := uow.NewUnitOfWork(repoManager)

	err := unit.Run(ctx, func(ctx context.Context) error {
		return balances.SetBalance(ctx, account, 100)
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = unit.Run(ctx, func(ctx context.Context) error {
		if err := balances.SetBalance(ctx, account, 50); err != nil {
			return err
		}
		balance, err := balances.GetBalance(ctx, account)
		require.NoError(t, err)
		require.Equal(t, uint64(50), balance)
		return boom
	})
	require.ErrorIs(t, err, boom)

	balance, err := balances.GetBalance(ctx, account)
	require.NoError(t, err)
	require.Equal(t, uint64(100), balance)
}
