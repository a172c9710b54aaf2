package application

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/tswap-network/tswap-engine/internal/core/domain"
	"github.com/tswap-network/tswap-engine/internal/core/ports"
	"github.com/tswap-network/tswap-engine/internal/storageutil/uow"
)

// Service exposes every pool, margin and snipe operation. Each operation runs
// as a single unit of work: either all its state changes and transfers are
// committed or none is.
type Service struct {
	repoManager ports.RepoManager
	settlement  ports.SettlementLayer
	royalties   ports.RoyaltyLookup
	whitelists  ports.WhitelistVerifier
	cosigner    ports.CosignerVerifier
	protocol    domain.ProtocolConfig

	unit    *uow.UnitOfWork
	metrics *metrics
	now     func() int64
}

// NewService returns a new Service. The settlement layer must share the
// transactions of the repo manager, or be transactional itself.
func NewService(
	repoManager ports.RepoManager,
	settlement ports.SettlementLayer,
	royalties ports.RoyaltyLookup,
	whitelists ports.WhitelistVerifier,
	cosigner ports.CosignerVerifier,
	protocol domain.ProtocolConfig,
	registerer prometheus.Registerer,
) (*Service, error) {
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	if settlement == nil {
		return nil, fmt.Errorf("missing settlement layer")
	}
	if royalties == nil {
		return nil, fmt.Errorf("missing royalty lookup")
	}
	if whitelists == nil {
		return nil, fmt.Errorf("missing whitelist verifier")
	}
	if cosigner == nil {
		return nil, fmt.Errorf("missing cosigner verifier")
	}
	if err := protocol.Validate(); err != nil {
		return nil, err
	}

	m, err := newMetrics(registerer)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	pools, err := repoManager.PoolRepository().GetAllPools(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to load pools: %w", err)
	}
	m.seedFrozenPools(pools)

	transactionals := []uow.Transactional{repoManager}
	if t, ok := settlement.(uow.Transactional); ok {
		transactionals = append(transactionals, t)
	}

	return &Service{
		repoManager: repoManager,
		settlement:  settlement,
		royalties:   royalties,
		whitelists:  whitelists,
		cosigner:    cosigner,
		protocol:    protocol,
		unit:        uow.NewUnitOfWork(transactionals...),
		metrics:     m,
		now:         func() int64 { return time.Now().Unix() },
	}, nil
}

// ProtocolConfig returns the fee schedule applied by the service.
func (s *Service) ProtocolConfig() domain.ProtocolConfig {
	return s.protocol
}

// GetPool ...
func (s *Service) GetPool(
	ctx context.Context, address solana.PublicKey,
) (*domain.Pool, error) {
	return s.repoManager.PoolRepository().GetPool(ctx, address)
}

// ListPools returns the pools of the given owner.
func (s *Service) ListPools(
	ctx context.Context, owner solana.PublicKey,
) ([]*domain.Pool, error) {
	return s.repoManager.PoolRepository().GetPoolsByOwner(ctx, owner)
}

// GetMarginAccount ...
func (s *Service) GetMarginAccount(
	ctx context.Context, address solana.PublicKey,
) (*domain.MarginAccount, error) {
	return s.repoManager.MarginRepository().GetMargin(ctx, address)
}

// ListMarginAccounts returns the margin accounts of the given owner.
func (s *Service) ListMarginAccounts(
	ctx context.Context, owner solana.PublicKey,
) ([]*domain.MarginAccount, error) {
	return s.repoManager.MarginRepository().GetMarginsByOwner(ctx, owner)
}

// ListTrades returns the receipts of the trades settled by the given pool.
func (s *Service) ListTrades(
	ctx context.Context, pool solana.PublicKey,
) ([]*domain.Trade, error) {
	return s.repoManager.TradeRepository().GetTradesForPool(ctx, pool)
}

// run executes fn as a unit of work and logs its failure.
func (s *Service) run(
	ctx context.Context, op string, fn func(ctx context.Context) error,
) error {
	if err := s.unit.Run(ctx, fn); err != nil {
		log.WithError(err).Debugf("%s failed", op)
		return err
	}
	return nil
}

// updatePool runs fn on the stored pool and persists the result.
func (s *Service) updatePool(
	ctx context.Context, address solana.PublicKey,
	fn func(p *domain.Pool) error,
) (*domain.Pool, error) {
	var updated *domain.Pool
	err := s.repoManager.PoolRepository().UpdatePool(
		ctx, address, func(p *domain.Pool) (*domain.Pool, error) {
			if err := fn(p); err != nil {
				return nil, err
			}
			updated = p
			return p, nil
		},
	)
	return updated, err
}

// ownedPool returns the pool, failing with ErrBadOwner if it does not belong
// to owner.
func (s *Service) ownedPool(
	ctx context.Context, owner, address solana.PublicKey,
) (*domain.Pool, error) {
	pool, err := s.repoManager.PoolRepository().GetPool(ctx, address)
	if err != nil {
		return nil, err
	}
	if !pool.Owner.Equals(owner) {
		return nil, domain.ErrBadOwner
	}
	return pool, nil
}

func (s *Service) ownedMargin(
	ctx context.Context, owner, address solana.PublicKey,
) (*domain.MarginAccount, error) {
	margin, err := s.repoManager.MarginRepository().GetMargin(ctx, address)
	if err != nil {
		return nil, err
	}
	if !margin.Owner.Equals(owner) {
		return nil, domain.ErrBadOwner
	}
	return margin, nil
}

func (s *Service) verifyCosigner(
	ctx context.Context, pool *domain.Pool, signer *solana.PublicKey,
) error {
	if !pool.IsCosigned {
		return nil
	}
	return s.cosigner.VerifyCosigner(ctx, signer)
}

type transfer struct {
	to     solana.PublicKey
	amount uint64
}

func (s *Service) transferAll(
	ctx context.Context, from solana.PublicKey, transfers []transfer,
) error {
	for _, t := range transfers {
		if err := s.settlement.Transfer(ctx, from, t.to, t.amount); err != nil {
			return err
		}
	}
	return nil
}
