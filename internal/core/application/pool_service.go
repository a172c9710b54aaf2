package application

import (
	"context"

	"github.com/gagliardetto/solana-go"
	log "github.com/sirupsen/logrus"
	"github.com/tswap-network/tswap-engine/internal/core/domain"
)

// InitPool creates a new pool for a verified whitelist. The owner funds the
// reserve floor of the pool escrow.
func (s *Service) InitPool(
	ctx context.Context, req InitPoolRequest,
) (*domain.Pool, error) {
	var pool *domain.Pool

	if err := s.run(ctx, "init pool", func(ctx context.Context) error {
		if err := s.whitelists.VerifyWhitelist(ctx, req.Whitelist); err != nil {
			return err
		}
		p, err := domain.NewPool(
			req.Owner, req.Whitelist, req.Config, req.OrderType,
			req.IsCosigned, req.MaxTakerSellCount, s.now(),
		)
		if err != nil {
			return err
		}
		if err := s.repoManager.PoolRepository().AddPool(ctx, p); err != nil {
			return err
		}
		if err := s.settlement.Transfer(
			ctx, req.Owner, p.SolEscrow, s.settlement.ReserveFloor(),
		); err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"pool":  pool.Address.String(),
		"type":  pool.Config.PoolType.String(),
		"curve": pool.Config.CurveType.String(),
	}).Info("pool created")
	return pool, nil
}

// EditPool replaces the config of the pool. The pool gets a new address and
// its live counters restart from zero. The old escrow is drained into the
// one derived from the new address.
func (s *Service) EditPool(
	ctx context.Context,
	owner, address solana.PublicKey, config domain.PoolConfig,
) (*domain.Pool, error) {
	var pool *domain.Pool

	if err := s.run(ctx, "edit pool", func(ctx context.Context) error {
		old, err := s.ownedPool(ctx, owner, address)
		if err != nil {
			return err
		}
		p, err := s.updatePool(ctx, address, func(p *domain.Pool) error {
			return p.Edit(config)
		})
		if err != nil {
			return err
		}
		// The escrow follows the pool key, reserve included.
		if !p.SolEscrow.Equals(old.SolEscrow) {
			if _, err := s.settlement.CloseAccount(
				ctx, old.SolEscrow, p.SolEscrow,
			); err != nil {
				return err
			}
		}
		pool = p
		return nil
	}); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"old_pool": address.String(),
		"pool":     pool.Address.String(),
	}).Info("pool edited")
	return pool, nil
}

// EditPoolInPlace changes the settings of the pool that do not affect its
// address.
func (s *Service) EditPoolInPlace(
	ctx context.Context, req EditPoolInPlaceRequest,
) (*domain.Pool, error) {
	var pool *domain.Pool

	if err := s.run(ctx, "edit pool in place", func(ctx context.Context) error {
		if _, err := s.ownedPool(ctx, req.Owner, req.Pool); err != nil {
			return err
		}
		p, err := s.updatePool(ctx, req.Pool, func(p *domain.Pool) error {
			return p.EditInPlace(
				req.IsCosigned, req.MaxTakerSellCount, req.MMCompoundFees,
			)
		})
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		return nil, err
	}
	return pool, nil
}

// DepositSol funds the escrow of a pool not backed by a margin account.
func (s *Service) DepositSol(
	ctx context.Context, owner, address solana.PublicKey, amount uint64,
) error {
	return s.run(ctx, "deposit sol", func(ctx context.Context) error {
		pool, err := s.ownedPool(ctx, owner, address)
		if err != nil {
			return err
		}
		if pool.Config.PoolType == domain.PoolTypeNFT {
			return domain.ErrWrongPoolType
		}
		if pool.IsMarginated() {
			return domain.ErrPoolMarginated
		}
		return s.settlement.Transfer(ctx, owner, pool.SolEscrow, amount)
	})
}

// WithdrawSol moves funds from the escrow of the pool back to its owner.
// The escrow can never drop below its reserve floor.
func (s *Service) WithdrawSol(
	ctx context.Context, owner, address solana.PublicKey, amount uint64,
) error {
	return s.run(ctx, "withdraw sol", func(ctx context.Context) error {
		pool, err := s.ownedPool(ctx, owner, address)
		if err != nil {
			return err
		}
		if pool.Config.PoolType == domain.PoolTypeNFT {
			return domain.ErrWrongPoolType
		}
		if pool.IsMarginated() {
			return domain.ErrPoolMarginated
		}
		if pool.IsFrozen() {
			return domain.ErrPoolFrozen
		}
		return s.settlement.Transfer(ctx, pool.SolEscrow, owner, amount)
	})
}

// WithdrawMMFees moves compounded mm fees out of a Trade pool. The amount is
// taken from the margin account when the pool is backed by one.
func (s *Service) WithdrawMMFees(
	ctx context.Context, owner, address solana.PublicKey, amount uint64,
) error {
	return s.run(ctx, "withdraw mm fees", func(ctx context.Context) error {
		pool, err := s.ownedPool(ctx, owner, address)
		if err != nil {
			return err
		}
		if pool.Config.PoolType != domain.PoolTypeTrade {
			return domain.ErrWrongPoolType
		}
		source := pool.SolEscrow
		if pool.IsMarginated() {
			source = *pool.Margin
		}
		return s.settlement.Transfer(ctx, source, owner, amount)
	})
}

// DepositNft adds an nft of the pool collection to an NFT or Trade pool.
func (s *Service) DepositNft(
	ctx context.Context,
	owner, address, mint solana.PublicKey, proof [][32]byte,
) (*domain.Pool, error) {
	var pool *domain.Pool

	if err := s.run(ctx, "deposit nft", func(ctx context.Context) error {
		p, err := s.ownedPool(ctx, owner, address)
		if err != nil {
			return err
		}
		if err := s.whitelists.VerifyMint(
			ctx, p.Whitelist, mint, proof,
		); err != nil {
			return err
		}
		if pool, err = s.updatePool(ctx, address, func(p *domain.Pool) error {
			return p.AddNft()
		}); err != nil {
			return err
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return pool, nil
}

// WithdrawNft gives one nft held by the pool back to its owner.
func (s *Service) WithdrawNft(
	ctx context.Context, owner, address solana.PublicKey,
) (*domain.Pool, error) {
	var pool *domain.Pool

	if err := s.run(ctx, "withdraw nft", func(ctx context.Context) error {
		if _, err := s.ownedPool(ctx, owner, address); err != nil {
			return err
		}
		p, err := s.updatePool(ctx, address, func(p *domain.Pool) error {
			return p.RemoveNft()
		})
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		return nil, err
	}
	return pool, nil
}

// ClosePool destroys an empty pool and drains its escrow, reserve included,
// to the owner. It returns the drained amount.
func (s *Service) ClosePool(
	ctx context.Context, owner, address solana.PublicKey,
) (uint64, error) {
	var drained uint64

	if err := s.run(ctx, "close pool", func(ctx context.Context) error {
		pool, err := s.ownedPool(ctx, owner, address)
		if err != nil {
			return err
		}
		if err := pool.ValidateClose(); err != nil {
			return err
		}
		if drained, err = s.settlement.CloseAccount(
			ctx, pool.SolEscrow, owner,
		); err != nil {
			return err
		}
		return s.repoManager.PoolRepository().DeletePool(ctx, address)
	}); err != nil {
		return 0, err
	}

	log.WithFields(log.Fields{
		"pool":    address.String(),
		"drained": drained,
	}).Info("pool closed")
	return drained, nil
}

// UpgradePool migrates a pool with an outdated layout to the current version.
func (s *Service) UpgradePool(
	ctx context.Context, owner, address solana.PublicKey,
) (*domain.Pool, error) {
	var pool *domain.Pool

	if err := s.run(ctx, "upgrade pool", func(ctx context.Context) error {
		if _, err := s.ownedPool(ctx, owner, address); err != nil {
			return err
		}
		p, err := s.updatePool(ctx, address, func(p *domain.Pool) error {
			return p.Upgrade()
		})
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		return nil, err
	}
	return pool, nil
}
