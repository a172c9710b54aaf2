package application_test

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tswap-network/tswap-engine/internal/core/application"
	"github.com/tswap-network/tswap-engine/internal/core/domain"
	"github.com/tswap-network/tswap-engine/internal/core/ports"
)

func TestBuyNft(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	creator := solana.NewWallet().PublicKey()
	f.royalties.On("GetRoyalty", mock.Anything, f.mint).Return(
		domain.RoyaltyInfo{
			SellerFeeBps: 500,
			Creators:     []domain.Creator{{Address: creator, Share: 100}},
		}, nil,
	)

	pool := f.initPool(
		t, linearConfig(domain.PoolTypeNFT), domain.OrderTypeStandard, false, 0,
	)
	_, err := f.svc.DepositNft(ctx, f.owner, pool.Address, f.mint, nil)
	require.NoError(t, err)

	quote, err := f.svc.Quote(ctx, pool.Address, domain.TakerSideBuy)
	require.NoError(t, err)
	require.Equal(t, startingPrice, quote.Price)
	require.Equal(t, "1", quote.PriceSol.String())
	require.Equal(t, uint64(14_000_000), quote.Fees.TakerFee)

	ownerBalance := f.balance(t, f.owner)

	trade, err := f.svc.BuyNft(ctx, application.BuyNftRequest{
		Pool:     pool.Address,
		Buyer:    f.taker,
		Mint:     f.mint,
		MaxPrice: startingPrice,
	})
	require.NoError(t, err)
	require.Equal(t, startingPrice, trade.Price)
	require.Equal(t, uint64(50_000_000), trade.Royalty)
	require.Equal(t, domain.TakerSideBuy, trade.Side)

	// price + taker fee + royalty
	require.Equal(t, initialFunds-1_064_000_000, f.balance(t, f.taker))
	// price + maker rebate
	require.Equal(t, ownerBalance+1_002_500_000, f.balance(t, f.owner))
	// protocol fee + broker fee without broker
	require.Equal(t, uint64(11_500_000), f.balance(t, f.feeVault))
	require.Equal(t, uint64(50_000_000), f.balance(t, creator))

	got, err := f.svc.GetPool(ctx, pool.Address)
	require.NoError(t, err)
	require.Zero(t, got.NftsHeld)
	require.Equal(t, uint32(1), got.TakerBuyCount)
	require.Equal(t, uint32(1), got.Stats.TakerBuyCount)

	quote, err = f.svc.Quote(ctx, pool.Address, domain.TakerSideBuy)
	require.NoError(t, err)
	require.Equal(t, startingPrice+linearDelta, quote.Price)

	trades, err := f.svc.ListTrades(ctx, pool.Address)
	require.NoError(t, err)
	require.Len(t, trades, 1)
	require.Equal(t, trade.ID, trades[0].ID)

	require.Equal(t, float64(1), metricValue(t, f.registry, "tswap_trades_total"))
}

func TestBuyNftWithBroker(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.noRoyalty()
	broker := solana.NewWallet().PublicKey()

	pool := f.initPool(
		t, linearConfig(domain.PoolTypeNFT), domain.OrderTypeStandard, false, 0,
	)
	_, err := f.svc.DepositNft(ctx, f.owner, pool.Address, f.provenMint, f.proof)
	require.NoError(t, err)

	_, err = f.svc.BuyNft(ctx, application.BuyNftRequest{
		Pool:     pool.Address,
		Buyer:    f.taker,
		Mint:     f.provenMint,
		Proof:    f.proof,
		MaxPrice: startingPrice,
		Broker:   &broker,
	})
	require.NoError(t, err)
	require.Equal(t, uint64(5_750_000), f.balance(t, broker))
	require.Equal(t, uint64(5_750_000), f.balance(t, f.feeVault))
}

func TestBuyNftFails(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		poolType    domain.PoolType
		isCosigned  bool
		depositNft  bool
		mint        func(f *fixture) solana.PublicKey
		maxPrice    uint64
		expectedErr error
	}{
		{
			name:        "price above max price",
			poolType:    domain.PoolTypeNFT,
			depositNft:  true,
			maxPrice:    startingPrice - 1,
			expectedErr: domain.ErrPriceMismatch,
		},
		{
			name:       "mint not in whitelist",
			poolType:   domain.PoolTypeNFT,
			depositNft: true,
			mint: func(*fixture) solana.PublicKey {
				return solana.NewWallet().PublicKey()
			},
			maxPrice:    startingPrice,
			expectedErr: domain.ErrInvalidProof,
		},
		{
			name:        "missing cosigner",
			poolType:    domain.PoolTypeNFT,
			isCosigned:  true,
			depositNft:  true,
			maxPrice:    startingPrice,
			expectedErr: domain.ErrBadCosigner,
		},
		{
			name:        "empty pool",
			poolType:    domain.PoolTypeNFT,
			maxPrice:    startingPrice,
			expectedErr: domain.ErrNoNftsHeld,
		},
		{
			name:        "token pool",
			poolType:    domain.PoolTypeToken,
			maxPrice:    startingPrice,
			expectedErr: domain.ErrWrongPoolType,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			f.noRoyalty()
			pool := f.initPool(
				t, linearConfig(tt.poolType), domain.OrderTypeStandard,
				tt.isCosigned, 0,
			)
			if tt.depositNft {
				_, err := f.svc.DepositNft(ctx, f.owner, pool.Address, f.mint, nil)
				require.NoError(t, err)
			}
			mint := f.mint
			if tt.mint != nil {
				mint = tt.mint(f)
			}

			trade, err := f.svc.BuyNft(ctx, application.BuyNftRequest{
				Pool:     pool.Address,
				Buyer:    f.taker,
				Mint:     mint,
				MaxPrice: tt.maxPrice,
			})
			require.ErrorIs(t, err, tt.expectedErr)
			require.Nil(t, trade)
			require.Equal(t, initialFunds, f.balance(t, f.taker))

			got, err := f.svc.GetPool(ctx, pool.Address)
			require.NoError(t, err)
			require.Zero(t, got.TakerBuyCount)
		})
	}
}

func TestSellNftIntoTradePool(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		compound       bool
		expectedOwner  uint64
		expectedEscrow uint64
	}{
		{
			name:          "mm fee paid to owner",
			expectedOwner: 22_500_000,
			// protocol + broker + seller + mm fee
			expectedEscrow: 897_750_000,
		},
		{
			name:     "mm fee compounded",
			compound: true,
			// protocol + broker + seller
			expectedEscrow: 875_250_000,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := newFixture(t)
			f.noRoyalty()
			pool := f.initPool(
				t, linearConfig(domain.PoolTypeTrade), domain.OrderTypeStandard,
				false, 0,
			)
			require.NoError(t, f.svc.DepositSol(ctx, f.owner, pool.Address, 2*startingPrice))
			if tt.compound {
				_, err := f.svc.EditPoolInPlace(ctx, application.EditPoolInPlaceRequest{
					Owner:          f.owner,
					Pool:           pool.Address,
					MMCompoundFees: &tt.compound,
				})
				require.NoError(t, err)
			}

			ownerBalance := f.balance(t, f.owner)
			escrowBalance := f.balance(t, pool.SolEscrow)

			quote, err := f.svc.Quote(ctx, pool.Address, domain.TakerSideSell)
			require.NoError(t, err)
			require.Equal(t, startingPrice-linearDelta, quote.Price)
			require.Equal(t, uint64(22_500_000), quote.MMFee)

			trade, err := f.svc.SellNft(ctx, application.SellNftRequest{
				Pool:     pool.Address,
				Seller:   f.taker,
				Mint:     f.mint,
				MinPrice: quote.Price,
			})
			require.NoError(t, err)
			require.Equal(t, uint64(22_500_000), trade.MMFee)

			// price - taker fee - mm fee
			require.Equal(t, initialFunds+864_900_000, f.balance(t, f.taker))
			require.Equal(t, ownerBalance+tt.expectedOwner, f.balance(t, f.owner))
			require.Equal(t, escrowBalance-tt.expectedEscrow, f.balance(t, pool.SolEscrow))
			require.Equal(t, uint64(10_350_000), f.balance(t, f.feeVault))

			got, err := f.svc.GetPool(ctx, pool.Address)
			require.NoError(t, err)
			require.Equal(t, uint32(1), got.NftsHeld)
			require.Equal(t, uint32(1), got.TakerSellCount)
			require.Equal(t, uint64(22_500_000), got.Stats.AccumulatedMMProfit)
		})
	}
}

func TestSellNftMaxTakerSellCount(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.noRoyalty()
	pool := f.initPool(
		t, linearConfig(domain.PoolTypeToken), domain.OrderTypeStandard, false, 1,
	)
	margin := f.initMargin(t, 0, 5*startingPrice)
	_, err := f.svc.AttachPoolToMargin(ctx, f.owner, pool.Address, margin.Address)
	require.NoError(t, err)

	marginBalance := f.balance(t, margin.Address)

	req := application.SellNftRequest{
		Pool:   pool.Address,
		Seller: f.taker,
		Mint:   f.mint,
	}
	_, err = f.svc.SellNft(ctx, req)
	require.NoError(t, err)
	// The maker rebate stays in the margin account.
	require.Equal(t, marginBalance-997_500_000, f.balance(t, margin.Address))
	require.Equal(t, initialFunds+986_000_000, f.balance(t, f.taker))

	marginBalance = f.balance(t, margin.Address)
	_, err = f.svc.SellNft(ctx, req)
	require.ErrorIs(t, err, domain.ErrMaxTakerSellCountExceeded)
	require.Equal(t, marginBalance, f.balance(t, margin.Address))

	// Raising the cap lets the next sell through at the next step.
	count := uint32(2)
	_, err = f.svc.EditPoolInPlace(ctx, application.EditPoolInPlaceRequest{
		Owner:             f.owner,
		Pool:              pool.Address,
		MaxTakerSellCount: &count,
	})
	require.NoError(t, err)

	trade, err := f.svc.SellNft(ctx, req)
	require.NoError(t, err)
	require.Equal(t, startingPrice-linearDelta, trade.Price)
}

func TestSellNftRollback(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.noRoyalty()
	pool := f.initPool(
		t, linearConfig(domain.PoolTypeToken), domain.OrderTypeStandard, false, 0,
	)
	// Enough for the fee legs, not for the seller.
	require.NoError(t, f.svc.DepositSol(ctx, f.owner, pool.Address, 100_000_000))

	_, err := f.svc.SellNft(ctx, application.SellNftRequest{
		Pool:   pool.Address,
		Seller: f.taker,
		Mint:   f.mint,
	})
	require.ErrorIs(t, err, ports.ErrInsufficientBalance)

	require.Zero(t, f.balance(t, f.feeVault))
	require.Equal(t, reserveFloor+100_000_000, f.balance(t, pool.SolEscrow))
	require.Equal(t, initialFunds, f.balance(t, f.taker))

	got, err := f.svc.GetPool(ctx, pool.Address)
	require.NoError(t, err)
	require.Zero(t, got.TakerSellCount)

	trades, err := f.svc.ListTrades(ctx, pool.Address)
	require.NoError(t, err)
	require.Empty(t, trades)
}

func TestSellNftPriceMismatch(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.noRoyalty()
	pool := f.initPool(
		t, linearConfig(domain.PoolTypeToken), domain.OrderTypeStandard, false, 0,
	)
	require.NoError(t, f.svc.DepositSol(ctx, f.owner, pool.Address, 2*startingPrice))

	_, err := f.svc.SellNft(ctx, application.SellNftRequest{
		Pool:     pool.Address,
		Seller:   f.taker,
		Mint:     f.mint,
		MinPrice: startingPrice + 1,
	})
	require.ErrorIs(t, err, domain.ErrPriceMismatch)
}

// metricValue sums all the samples of the given counter or gauge.
func metricValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()

	families, err := reg.Gather()
	require.NoError(t, err)

	total := float64(0)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if c := m.GetCounter(); c != nil {
				total += c.GetValue()
			}
			if g := m.GetGauge(); g != nil {
				total += g.GetValue()
			}
		}
	}
	return total
}
