package main

import (
	"context"
	"encoding/hex"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/require"
	"github.com/tswap-network/tswap-engine/internal/config"
	"github.com/tswap-network/tswap-engine/internal/core/domain"
	"github.com/tswap-network/tswap-engine/internal/infrastructure/verifier"
)

func runCLICommand(t *testing.T, args ...string) error {
	t.Helper()
	return newApp().Run(append([]string{"tswap"}, args...))
}

func TestPoolLifecycle(t *testing.T) {
	owner := solana.NewWallet().PublicKey()
	taker := solana.NewWallet().PublicKey()
	whitelist := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()
	root, _ := verifier.MerkleTree([][32]byte{verifier.Leaf(mint.Bytes())})

	t.Setenv("TSWAP_DATADIR", t.TempDir())
	t.Setenv("TSWAP_FEE_VAULT", solana.NewWallet().PublicKey().String())
	t.Setenv("TSWAP_COSIGNER", solana.NewWallet().PublicKey().String())
	t.Setenv("TSWAP_WHITELISTS", whitelist.String()+":"+hex.EncodeToString(root[:]))

	pool, err := domain.PoolAddress(owner, whitelist, domain.PoolConfig{
		PoolType:      domain.PoolTypeToken,
		CurveType:     domain.CurveTypeLinear,
		StartingPrice: 1_000_000_000,
		Delta:         100_000_000,
	})
	require.NoError(t, err)

	commands := [][]string{
		{"ledger", "credit", "--account", owner.String(), "--amount", "10"},
		{
			"pool", "init", "--owner", owner.String(),
			"--whitelist", whitelist.String(),
			"--type", "token", "--price", "1", "--delta", "100000000",
		},
		{
			"pool", "deposit-sol", "--owner", owner.String(),
			"--pool", pool.String(), "--amount", "2",
		},
		{"trade", "quote", "--pool", pool.String(), "--side", "sell"},
		{
			"trade", "sell", "--pool", pool.String(), "--taker", taker.String(),
			"--mint", mint.String(), "--min_price", "1",
		},
		{"pool", "info", "--pool", pool.String()},
		{"pool", "trades", "--pool", pool.String()},
	}
	for _, args := range commands {
		require.NoError(t, runCLICommand(t, args...), args)
	}

	require.Error(t, runCLICommand(t,
		"trade", "sell", "--pool", pool.String(), "--taker", taker.String(),
		"--mint", mint.String(), "--min_price", "1",
	))
	require.Error(t, runCLICommand(t, "pool", "set", "--owner", owner.String(), "--pool", pool.String()))

	require.NoError(t, config.InitConfig())
	cfg := config.AppConfig()
	require.NoError(t, cfg.Validate())
	defer cfg.RepoManager().Close()

	pools, err := cfg.Service().ListPools(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, pools, 1)
	require.Equal(t, uint32(1), pools[0].TakerSellCount)

	balance, err := cfg.Ledger().Balance(context.Background(), taker)
	require.NoError(t, err)
	require.Equal(t, uint64(986_000_000), balance)
}
