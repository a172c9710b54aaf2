package application

import (
	"context"

	"github.com/gagliardetto/solana-go"
	log "github.com/sirupsen/logrus"
	"github.com/tswap-network/tswap-engine/internal/core/domain"
)

// InitMarginAccount opens the nr-th margin account of the owner, who funds
// its reserve floor.
func (s *Service) InitMarginAccount(
	ctx context.Context, owner solana.PublicKey, nr uint16, name string,
) (*domain.MarginAccount, error) {
	var margin *domain.MarginAccount

	if err := s.run(ctx, "init margin", func(ctx context.Context) error {
		m, err := domain.NewMarginAccount(owner, nr, name, s.now())
		if err != nil {
			return err
		}
		if err := s.repoManager.MarginRepository().AddMargin(ctx, m); err != nil {
			return err
		}
		if err := s.settlement.Transfer(
			ctx, owner, m.Address, s.settlement.ReserveFloor(),
		); err != nil {
			return err
		}
		margin = m
		return nil
	}); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"margin": margin.Address.String(),
		"name":   margin.NameString(),
	}).Info("margin account created")
	return margin, nil
}

// DepositMargin funds a margin account.
func (s *Service) DepositMargin(
	ctx context.Context, owner, address solana.PublicKey, amount uint64,
) error {
	return s.run(ctx, "deposit margin", func(ctx context.Context) error {
		if _, err := s.ownedMargin(ctx, owner, address); err != nil {
			return err
		}
		return s.settlement.Transfer(ctx, owner, address, amount)
	})
}

// WithdrawMargin moves funds from a margin account back to its owner.
func (s *Service) WithdrawMargin(
	ctx context.Context, owner, address solana.PublicKey, amount uint64,
) error {
	return s.run(ctx, "withdraw margin", func(ctx context.Context) error {
		if _, err := s.ownedMargin(ctx, owner, address); err != nil {
			return err
		}
		return s.settlement.Transfer(ctx, address, owner, amount)
	})
}

// CloseMarginAccount destroys a margin account backing no pool and drains its
// whole balance to the owner. It returns the drained amount.
func (s *Service) CloseMarginAccount(
	ctx context.Context, owner, address solana.PublicKey,
) (uint64, error) {
	var drained uint64

	if err := s.run(ctx, "close margin", func(ctx context.Context) error {
		margin, err := s.ownedMargin(ctx, owner, address)
		if err != nil {
			return err
		}
		if err := margin.ValidateClose(); err != nil {
			return err
		}
		if drained, err = s.settlement.CloseAccount(ctx, address, owner); err != nil {
			return err
		}
		return s.repoManager.MarginRepository().DeleteMargin(ctx, address)
	}); err != nil {
		return 0, err
	}

	log.WithFields(log.Fields{
		"margin":  address.String(),
		"drained": drained,
	}).Info("margin account closed")
	return drained, nil
}

// AttachPoolToMargin makes the margin account back the pool. The funds
// available in the pool escrow are moved into the margin account.
func (s *Service) AttachPoolToMargin(
	ctx context.Context, owner, pool, margin solana.PublicKey,
) (*domain.Pool, error) {
	var attached *domain.Pool

	if err := s.run(ctx, "attach margin", func(ctx context.Context) error {
		if _, err := s.ownedPool(ctx, owner, pool); err != nil {
			return err
		}
		m, err := s.ownedMargin(ctx, owner, margin)
		if err != nil {
			return err
		}

		p, err := s.updatePool(ctx, pool, func(p *domain.Pool) error {
			return p.AttachMargin(m)
		})
		if err != nil {
			return err
		}
		if err := s.saveMargin(ctx, m); err != nil {
			return err
		}

		available, err := s.settlement.AvailableBalance(ctx, p.SolEscrow)
		if err != nil {
			return err
		}
		if err := s.settlement.Transfer(
			ctx, p.SolEscrow, m.Address, available,
		); err != nil {
			return err
		}
		attached = p
		return nil
	}); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"pool":   pool.String(),
		"margin": margin.String(),
	}).Info("pool attached to margin account")
	return attached, nil
}

// DetachPoolFromMargin releases the pool from its margin account, moving
// amount from the margin account back into the pool escrow.
func (s *Service) DetachPoolFromMargin(
	ctx context.Context, owner, pool, margin solana.PublicKey, amount uint64,
) (*domain.Pool, error) {
	var detached *domain.Pool

	if err := s.run(ctx, "detach margin", func(ctx context.Context) error {
		if _, err := s.ownedPool(ctx, owner, pool); err != nil {
			return err
		}
		m, err := s.ownedMargin(ctx, owner, margin)
		if err != nil {
			return err
		}

		p, err := s.updatePool(ctx, pool, func(p *domain.Pool) error {
			return p.DetachMargin(m)
		})
		if err != nil {
			return err
		}
		if err := s.saveMargin(ctx, m); err != nil {
			return err
		}
		if err := s.settlement.Transfer(
			ctx, m.Address, p.SolEscrow, amount,
		); err != nil {
			return err
		}
		detached = p
		return nil
	}); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"pool":   pool.String(),
		"margin": margin.String(),
		"amount": amount,
	}).Info("pool detached from margin account")
	return detached, nil
}

func (s *Service) saveMargin(
	ctx context.Context, margin *domain.MarginAccount,
) error {
	return s.repoManager.MarginRepository().UpdateMargin(
		ctx, margin.Address,
		func(*domain.MarginAccount) (*domain.MarginAccount, error) {
			return margin, nil
		},
	)
}
