package application_test

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"github.com/tswap-network/tswap-engine/internal/core/application"
	"github.com/tswap-network/tswap-engine/internal/core/domain"
	"github.com/tswap-network/tswap-engine/internal/infrastructure/verifier"
)

const (
	snipePrice   = uint64(100)
	marginFunds  = uint64(20_000_000)
	frozenAmount = uint64(10_000_100)
)

func snipeConfig() domain.PoolConfig {
	return domain.PoolConfig{
		PoolType:      domain.PoolTypeToken,
		CurveType:     domain.CurveTypeLinear,
		StartingPrice: snipePrice,
	}
}

func (f *fixture) initSnipePool(
	t *testing.T,
) (*domain.Pool, *domain.MarginAccount) {
	t.Helper()

	pool := f.initPool(t, snipeConfig(), domain.OrderTypeSniping, true, 0)
	margin := f.initMargin(t, 0, marginFunds)
	pool, err := f.svc.AttachPoolToMargin(ctx, f.owner, pool.Address, margin.Address)
	require.NoError(t, err)
	return pool, margin
}

func TestFreezeAndTakeSnipe(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.noRoyalty()
	pool, margin := f.initSnipePool(t)
	executor := solana.NewWallet().PublicKey()

	freeze := application.SetPoolFreezeRequest{
		Pool:   pool.Address,
		Margin: margin.Address,
		Freeze: true,
	}
	_, err := f.svc.SetPoolFreeze(ctx, freeze)
	require.ErrorIs(t, err, domain.ErrBadCosigner)

	freeze.Cosigner = &f.cosigner
	frozen, err := f.svc.SetPoolFreeze(ctx, freeze)
	require.NoError(t, err)
	require.True(t, frozen.IsFrozen())
	require.Equal(t, frozenAmount, frozen.Frozen.Amount)
	require.Equal(t, reserveFloor+frozenAmount, f.balance(t, pool.SolEscrow))
	require.Equal(t, reserveFloor+marginFunds-frozenAmount, f.balance(t, margin.Address))
	require.Equal(t, float64(1), metricValue(t, f.registry, "tswap_frozen_pools"))

	_, err = f.svc.SetPoolFreeze(ctx, freeze)
	require.ErrorIs(t, err, domain.ErrWrongFrozenStatus)

	_, err = f.svc.SellNft(ctx, application.SellNftRequest{
		Pool: pool.Address, Seller: f.taker, Mint: f.mint,
	})
	require.ErrorIs(t, err, domain.ErrPoolFrozen)

	_, err = f.svc.DetachPoolFromMargin(ctx, f.owner, pool.Address, margin.Address, 0)
	require.ErrorIs(t, err, domain.ErrPoolFrozen)

	take := application.TakeSnipeRequest{
		Pool:        pool.Address,
		Margin:      margin.Address,
		Executor:    executor,
		Mint:        f.mint,
		ActualPrice: snipePrice + 1,
		Cosigner:    &f.cosigner,
	}
	_, err = f.svc.TakeSnipe(ctx, take)
	require.ErrorIs(t, err, domain.ErrPriceMismatch)

	take.ActualPrice = 90
	trade, err := f.svc.TakeSnipe(ctx, take)
	require.NoError(t, err)
	// base fee of 10_000_000 plus 20% of the 10 saved
	require.Equal(t, uint64(10_000_002), trade.SnipeFee)
	require.Equal(t, uint64(90), trade.Price)

	require.Equal(t, uint64(90), f.balance(t, executor))
	require.Equal(t, uint64(10_000_002), f.balance(t, f.feeVault))
	require.Equal(t, reserveFloor, f.balance(t, pool.SolEscrow))
	require.Equal(
		t, reserveFloor+marginFunds-frozenAmount+8, f.balance(t, margin.Address),
	)

	got, err := f.svc.GetPool(ctx, pool.Address)
	require.NoError(t, err)
	require.False(t, got.IsFrozen())
	require.Equal(t, uint32(1), got.TakerSellCount)
	require.Equal(t, float64(0), metricValue(t, f.registry, "tswap_frozen_pools"))
}

func TestTakeSnipeWithoutFreeze(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	pool, margin := f.initSnipePool(t)
	executor := solana.NewWallet().PublicKey()

	trade, err := f.svc.TakeSnipe(ctx, application.TakeSnipeRequest{
		Pool:        pool.Address,
		Margin:      margin.Address,
		Executor:    executor,
		Mint:        f.mint,
		ActualPrice: snipePrice,
		Cosigner:    &f.cosigner,
	})
	require.NoError(t, err)
	require.Equal(t, uint64(10_000_000), trade.SnipeFee)
	require.Equal(t, snipePrice, f.balance(t, executor))
	require.Equal(
		t, reserveFloor+marginFunds-snipePrice-10_000_000,
		f.balance(t, margin.Address),
	)
	require.Equal(t, reserveFloor, f.balance(t, pool.SolEscrow))
}

func TestUnfreezePool(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	pool, margin := f.initSnipePool(t)

	req := application.SetPoolFreezeRequest{
		Pool:     pool.Address,
		Margin:   margin.Address,
		Cosigner: &f.cosigner,
	}
	_, err := f.svc.SetPoolFreeze(ctx, req)
	require.ErrorIs(t, err, domain.ErrWrongFrozenStatus)

	req.Freeze = true
	_, err = f.svc.SetPoolFreeze(ctx, req)
	require.NoError(t, err)

	wrongMargin := req
	wrongMargin.Freeze = false
	wrongMargin.Margin = solana.NewWallet().PublicKey()
	_, err = f.svc.SetPoolFreeze(ctx, wrongMargin)
	require.ErrorIs(t, err, domain.ErrBadMargin)

	req.Freeze = false
	unfrozen, err := f.svc.SetPoolFreeze(ctx, req)
	require.NoError(t, err)
	require.False(t, unfrozen.IsFrozen())
	require.Equal(t, reserveFloor+marginFunds, f.balance(t, margin.Address))
	require.Equal(t, reserveFloor, f.balance(t, pool.SolEscrow))
}

func TestSnipeRequiresSnipingPool(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	pool := f.initPool(t, snipeConfig(), domain.OrderTypeStandard, true, 0)
	margin := f.initMargin(t, 0, marginFunds)
	_, err := f.svc.AttachPoolToMargin(ctx, f.owner, pool.Address, margin.Address)
	require.NoError(t, err)

	_, err = f.svc.SetPoolFreeze(ctx, application.SetPoolFreezeRequest{
		Pool:     pool.Address,
		Margin:   margin.Address,
		Freeze:   true,
		Cosigner: &f.cosigner,
	})
	require.ErrorIs(t, err, domain.ErrWrongOrderType)

	snipePool := f.initPool(t, func() domain.PoolConfig {
		cfg := snipeConfig()
		cfg.Delta = 1
		return cfg
	}(), domain.OrderTypeSniping, true, 0)
	_, err = f.svc.TakeSnipe(ctx, application.TakeSnipeRequest{
		Pool:        snipePool.Address,
		Margin:      margin.Address,
		Executor:    f.taker,
		Mint:        f.mint,
		ActualPrice: snipePrice,
		Cosigner:    &f.cosigner,
	})
	require.ErrorIs(t, err, domain.ErrPoolNotMarginated)
}

func TestFrozenPoolsGaugeAfterRestart(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	pool, margin := f.initSnipePool(t)
	freeze := application.SetPoolFreezeRequest{
		Pool:     pool.Address,
		Margin:   margin.Address,
		Freeze:   true,
		Cosigner: &f.cosigner,
	}
	_, err := f.svc.SetPoolFreeze(ctx, freeze)
	require.NoError(t, err)

	registry := prometheus.NewRegistry()
	svc, err := application.NewService(
		f.repo, f.ledger, f.royalties, verifier.NewWhitelistRegistry(),
		verifier.NewCosignerVerifier(f.cosigner),
		domain.DefaultProtocolConfig(f.feeVault), registry,
	)
	require.NoError(t, err)
	require.Equal(t, float64(1), metricValue(t, registry, "tswap_frozen_pools"))

	freeze.Freeze = false
	_, err = svc.SetPoolFreeze(ctx, freeze)
	require.NoError(t, err)
	require.Zero(t, metricValue(t, registry, "tswap_frozen_pools"))
}
