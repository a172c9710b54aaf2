package royalty

import (
	"context"
	"fmt"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/sony/gobreaker"
	"github.com/tswap-network/tswap-engine/internal/core/domain"
	"github.com/tswap-network/tswap-engine/internal/core/ports"
	"github.com/tswap-network/tswap-engine/pkg/circuitbreaker"
)

// MetadataFetcher retrieves the royalty schedule stored in the metadata of
// an nft.
type MetadataFetcher interface {
	FetchRoyalty(ctx context.Context, mint solana.PublicKey) (domain.RoyaltyInfo, error)
}

type service struct {
	fetcher MetadataFetcher
	cb      *gobreaker.CircuitBreaker
}

// NewService returns a RoyaltyLookup that queries the given fetcher behind a
// circuit breaker.
func NewService(fetcher MetadataFetcher) (ports.RoyaltyLookup, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("missing metadata fetcher")
	}
	return &service{
		fetcher: fetcher,
		cb:      circuitbreaker.NewCircuitBreaker("royalty"),
	}, nil
}

func (s *service) GetRoyalty(
	ctx context.Context, mint solana.PublicKey,
) (domain.RoyaltyInfo, error) {
	res, err := s.cb.Execute(func() (interface{}, error) {
		return s.fetcher.FetchRoyalty(ctx, mint)
	})
	if err != nil {
		return domain.RoyaltyInfo{}, fmt.Errorf(
			"failed to fetch royalty for mint %s: %w", mint, err,
		)
	}

	info := res.(domain.RoyaltyInfo)
	if err := info.Validate(); err != nil {
		return domain.RoyaltyInfo{}, fmt.Errorf("mint %s: %w", mint, err)
	}
	return info, nil
}

// Registry is an in-process MetadataFetcher. Unknown mints carry no royalty.
type Registry struct {
	royalties map[solana.PublicKey]domain.RoyaltyInfo
	lock      *sync.RWMutex
}

// NewRegistry ...
func NewRegistry() *Registry {
	return &Registry{
		royalties: map[solana.PublicKey]domain.RoyaltyInfo{},
		lock:      &sync.RWMutex{},
	}
}

// SetRoyalty registers the royalty schedule of the given mint.
func (r *Registry) SetRoyalty(mint solana.PublicKey, info domain.RoyaltyInfo) error {
	if err := info.Validate(); err != nil {
		return err
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	r.royalties[mint] = info
	return nil
}

func (r *Registry) FetchRoyalty(
	_ context.Context, mint solana.PublicKey,
) (domain.RoyaltyInfo, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	return r.royalties[mint], nil
}
