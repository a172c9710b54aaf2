package application_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tswap-network/tswap-engine/internal/core/application"
	"github.com/tswap-network/tswap-engine/internal/core/domain"
)

func TestMarginAccountLifecycle(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	margin := f.initMargin(t, 0, startingPrice)
	require.Equal(t, "main", margin.NameString())
	require.Equal(t, reserveFloor+startingPrice, f.balance(t, margin.Address))

	_, err := f.svc.InitMarginAccount(ctx, f.owner, 0, "dup")
	require.ErrorIs(t, err, domain.ErrMarginAlreadyExists)

	err = f.svc.DepositMargin(ctx, f.taker, margin.Address, 1)
	require.ErrorIs(t, err, domain.ErrBadOwner)

	pool := f.initPool(
		t, linearConfig(domain.PoolTypeToken), domain.OrderTypeStandard, false, 0,
	)
	require.NoError(t, f.svc.DepositSol(ctx, f.owner, pool.Address, 3*startingPrice))

	attached, err := f.svc.AttachPoolToMargin(ctx, f.owner, pool.Address, margin.Address)
	require.NoError(t, err)
	require.True(t, attached.IsMarginated())
	require.Equal(t, reserveFloor, f.balance(t, pool.SolEscrow))
	require.Equal(t, reserveFloor+4*startingPrice, f.balance(t, margin.Address))

	got, err := f.svc.GetMarginAccount(ctx, margin.Address)
	require.NoError(t, err)
	require.Equal(t, uint32(1), got.PoolsAttached)

	err = f.svc.DepositSol(ctx, f.owner, pool.Address, 1)
	require.ErrorIs(t, err, domain.ErrPoolMarginated)
	err = f.svc.WithdrawSol(ctx, f.owner, pool.Address, 1)
	require.ErrorIs(t, err, domain.ErrPoolMarginated)
	_, err = f.svc.ClosePool(ctx, f.owner, pool.Address)
	require.ErrorIs(t, err, domain.ErrPoolMarginated)
	_, err = f.svc.CloseMarginAccount(ctx, f.owner, margin.Address)
	require.ErrorIs(t, err, domain.ErrMarginInUse)

	detached, err := f.svc.DetachPoolFromMargin(
		ctx, f.owner, pool.Address, margin.Address, startingPrice,
	)
	require.NoError(t, err)
	require.False(t, detached.IsMarginated())
	require.Equal(t, reserveFloor+startingPrice, f.balance(t, pool.SolEscrow))

	_, err = f.svc.DetachPoolFromMargin(
		ctx, f.owner, pool.Address, margin.Address, 0,
	)
	require.ErrorIs(t, err, domain.ErrPoolNotMarginated)

	require.NoError(t, f.svc.WithdrawMargin(ctx, f.owner, margin.Address, startingPrice))

	ownerBalance := f.balance(t, f.owner)
	drained, err := f.svc.CloseMarginAccount(ctx, f.owner, margin.Address)
	require.NoError(t, err)
	require.Equal(t, reserveFloor+2*startingPrice, drained)
	require.Equal(t, ownerBalance+drained, f.balance(t, f.owner))

	_, err = f.svc.GetMarginAccount(ctx, margin.Address)
	require.ErrorIs(t, err, domain.ErrMarginNotFound)

	margins, err := f.svc.ListMarginAccounts(ctx, f.owner)
	require.NoError(t, err)
	require.Empty(t, margins)
}

func TestAttachPoolToMarginFails(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	margin := f.initMargin(t, 0, startingPrice)

	nftPool := f.initPool(
		t, linearConfig(domain.PoolTypeNFT), domain.OrderTypeStandard, false, 0,
	)
	_, err := f.svc.AttachPoolToMargin(ctx, f.owner, nftPool.Address, margin.Address)
	require.ErrorIs(t, err, domain.ErrWrongPoolType)

	otherMargin, err := f.svc.InitMarginAccount(ctx, f.taker, 0, "other")
	require.NoError(t, err)

	pool := f.initPool(
		t, linearConfig(domain.PoolTypeToken), domain.OrderTypeStandard, false, 0,
	)
	_, err = f.svc.AttachPoolToMargin(ctx, f.owner, pool.Address, otherMargin.Address)
	require.ErrorIs(t, err, domain.ErrBadOwner)

	_, err = f.svc.AttachPoolToMargin(ctx, f.owner, pool.Address, margin.Address)
	require.NoError(t, err)
	_, err = f.svc.AttachPoolToMargin(ctx, f.owner, pool.Address, margin.Address)
	require.ErrorIs(t, err, domain.ErrPoolMarginated)

	got, err := f.svc.GetMarginAccount(ctx, margin.Address)
	require.NoError(t, err)
	require.Equal(t, uint32(1), got.PoolsAttached)
}

func TestReattachAdjustsMaxTakerSellCount(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.noRoyalty()
	margin := f.initMargin(t, 0, 5*startingPrice)
	pool := f.initPool(
		t, linearConfig(domain.PoolTypeToken), domain.OrderTypeStandard, false, 1,
	)
	sell := application.SellNftRequest{Pool: pool.Address, Seller: f.taker, Mint: f.mint}

	_, err := f.svc.AttachPoolToMargin(ctx, f.owner, pool.Address, margin.Address)
	require.NoError(t, err)
	_, err = f.svc.SellNft(ctx, sell)
	require.NoError(t, err)

	_, err = f.svc.DetachPoolFromMargin(
		ctx, f.owner, pool.Address, margin.Address, 2*startingPrice,
	)
	require.NoError(t, err)
	// No cap while detached.
	_, err = f.svc.SellNft(ctx, sell)
	require.NoError(t, err)

	attached, err := f.svc.AttachPoolToMargin(ctx, f.owner, pool.Address, margin.Address)
	require.NoError(t, err)
	require.Equal(t, uint32(2), attached.MaxTakerSellCount)

	_, err = f.svc.SellNft(ctx, sell)
	require.ErrorIs(t, err, domain.ErrMaxTakerSellCountExceeded)
}
