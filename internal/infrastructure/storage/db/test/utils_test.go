package db_test

import (
	"context"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
	"github.com/tswap-network/tswap-engine/internal/core/domain"
	"github.com/tswap-network/tswap-engine/internal/core/ports"
	dbbadger "github.com/tswap-network/tswap-engine/internal/infrastructure/storage/db/badger"
	"github.com/tswap-network/tswap-engine/internal/infrastructure/storage/db/inmemory"
	"github.com/tswap-network/tswap-engine/internal/storageutil/uow"
)

var ctx = context.Background()

type repoManager struct {
	Name    string
	Manager ports.RepoManager
}

func (r repoManager) run(fn func(context.Context) error) error {
	return uow.NewUnitOfWork(r.Manager).Run(ctx, fn)
}

func createRepoManagers(t *testing.T) []repoManager {
	inmemoryDBManager := inmemory.NewRepoManager()
	badgerDBManager, err := dbbadger.NewRepoManager("", nil)
	require.NoError(t, err)
	t.Cleanup(badgerDBManager.Close)

	return []repoManager{
		{
			Name:    "badger",
			Manager: badgerDBManager,
		},
		{
			Name:    "inmemory",
			Manager: inmemoryDBManager,
		},
	}
}

func makeRandomPool(t *testing.T, owner solana.PublicKey) *domain.Pool {
	mmFeeBps := uint16(250)
	pool, err := domain.NewPool(
		owner, solana.NewWallet().PublicKey(),
		domain.PoolConfig{
			PoolType:      domain.PoolTypeTrade,
			CurveType:     domain.CurveTypeLinear,
			StartingPrice: 1_000_000_000,
			Delta:         10_000_000,
			MMFeeBps:      &mmFeeBps,
		},
		domain.OrderTypeStandard, false, 0, 1_700_000_000,
	)
	require.NoError(t, err)
	return pool
}

func makeRandomMargin(
	t *testing.T, owner solana.PublicKey, nr uint16,
) *domain.MarginAccount {
	margin, err := domain.NewMarginAccount(owner, nr, "", 1_700_000_000)
	require.NoError(t, err)
	return margin
}
