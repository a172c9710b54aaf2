package royalty_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tswap-network/tswap-engine/internal/core/domain"
	"github.com/tswap-network/tswap-engine/internal/infrastructure/royalty"
)

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) FetchRoyalty(
	ctx context.Context, mint solana.PublicKey,
) (domain.RoyaltyInfo, error) {
	args := m.Called(ctx, mint)
	return args.Get(0).(domain.RoyaltyInfo), args.Error(1)
}

func TestGetRoyalty(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	registry := royalty.NewRegistry()
	mint := solana.NewWallet().PublicKey()
	info := domain.RoyaltyInfo{
		SellerFeeBps: 500,
		Creators: []domain.Creator{
			{Address: solana.NewWallet().PublicKey(), Share: 100},
		},
	}
	require.NoError(t, registry.SetRoyalty(mint, info))
	require.ErrorIs(
		t, registry.SetRoyalty(mint, domain.RoyaltyInfo{SellerFeeBps: 10001}),
		domain.ErrInvalidRoyalty,
	)

	svc, err := royalty.NewService(registry)
	require.NoError(t, err)

	got, err := svc.GetRoyalty(ctx, mint)
	require.NoError(t, err)
	require.Equal(t, info, got)

	got, err = svc.GetRoyalty(ctx, solana.NewWallet().PublicKey())
	require.NoError(t, err)
	require.Zero(t, got.SellerFeeBps)
}

func TestGetRoyaltyFailures(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	mint := solana.NewWallet().PublicKey()
	boom := errors.New("metadata unavailable")

	fetcher := &mockFetcher{}
	fetcher.On("FetchRoyalty", mock.Anything, mint).
		Return(domain.RoyaltyInfo{}, boom)

	svc, err := royalty.NewService(fetcher)
	require.NoError(t, err)

	_, err = svc.GetRoyalty(ctx, mint)
	require.ErrorIs(t, err, boom)

	badFetcher := &mockFetcher{}
	badFetcher.On("FetchRoyalty", mock.Anything, mint).
		Return(domain.RoyaltyInfo{SellerFeeBps: 20000}, nil)

	svc, err = royalty.NewService(badFetcher)
	require.NoError(t, err)

	_, err = svc.GetRoyalty(ctx, mint)
	require.ErrorIs(t, err, domain.ErrInvalidRoyalty)

	_, err = royalty.NewService(nil)
	require.Error(t, err)
}
