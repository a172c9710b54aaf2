package application

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/tswap-network/tswap-engine/internal/core/domain"
)

// SetPoolFreeze freezes or unfreezes a sniping pool. Freezing reserves the
// current snipe quote by moving it from the margin account into the pool
// escrow, unfreezing moves it back.
func (s *Service) SetPoolFreeze(
	ctx context.Context, req SetPoolFreezeRequest,
) (*domain.Pool, error) {
	var (
		pool   *domain.Pool
		amount uint64
	)

	if err := s.run(ctx, "set pool freeze", func(ctx context.Context) error {
		if err := s.cosigner.VerifyCosigner(ctx, req.Cosigner); err != nil {
			return err
		}
		p, err := s.repoManager.PoolRepository().GetPool(ctx, req.Pool)
		if err != nil {
			return err
		}
		if p.IsMarginated() && !p.Margin.Equals(req.Margin) {
			return domain.ErrBadMargin
		}

		if pool, err = s.updatePool(ctx, req.Pool, func(p *domain.Pool) error {
			var err error
			if req.Freeze {
				amount, err = p.Freeze(s.protocol, s.now())
			} else {
				amount, err = p.Unfreeze()
			}
			return err
		}); err != nil {
			return err
		}

		from, to := req.Margin, pool.SolEscrow
		if !req.Freeze {
			from, to = to, from
		}
		return s.settlement.Transfer(ctx, from, to, amount)
	}); err != nil {
		return nil, err
	}

	if req.Freeze {
		s.metrics.frozenPools.Inc()
	} else {
		s.metrics.frozenPools.Dec()
	}
	log.WithFields(log.Fields{
		"pool":   req.Pool.String(),
		"frozen": req.Freeze,
		"amount": amount,
	}).Info("pool freeze updated")
	return pool, nil
}

// TakeSnipe settles the snipe order of a pool at the price negotiated by the
// executor, which must not exceed the current sell price. The executor gets
// the actual price, the fee vault gets the snipe fees and whatever is left of
// a frozen amount goes back to the margin account.
func (s *Service) TakeSnipe(
	ctx context.Context, req TakeSnipeRequest,
) (*domain.Trade, error) {
	var (
		trade      *domain.Trade
		pool       *domain.Pool
		settlement *domain.SnipeSettlement
	)

	if err := s.run(ctx, "take snipe", func(ctx context.Context) error {
		if err := s.cosigner.VerifyCosigner(ctx, req.Cosigner); err != nil {
			return err
		}
		p, err := s.repoManager.PoolRepository().GetPool(ctx, req.Pool)
		if err != nil {
			return err
		}
		if err := s.whitelists.VerifyMint(
			ctx, p.Whitelist, req.Mint, req.Proof,
		); err != nil {
			return err
		}
		if p.IsMarginated() && !p.Margin.Equals(req.Margin) {
			return domain.ErrBadMargin
		}

		now := s.now()
		if pool, err = s.updatePool(ctx, req.Pool, func(p *domain.Pool) error {
			var err error
			settlement, err = p.SettleSnipe(s.protocol, req.ActualPrice, now)
			return err
		}); err != nil {
			return err
		}

		source := req.Margin
		if settlement.FromEscrow {
			source = pool.SolEscrow
		}
		transfers := []transfer{
			{s.protocol.FeeVault, settlement.Fees.TotalFee},
			{req.Executor, settlement.ActualPrice},
		}
		if settlement.FromEscrow {
			transfers = append(transfers, transfer{req.Margin, settlement.Remainder})
		}
		if err := s.transferAll(ctx, source, transfers); err != nil {
			return err
		}

		t := domain.NewTrade(
			pool.Address, req.Executor, domain.TakerSideSell,
			settlement.ActualPrice, now,
		)
		t.SnipeFee = settlement.Fees.TotalFee
		if err := s.repoManager.TradeRepository().AddTrade(ctx, t); err != nil {
			return err
		}
		trade = t
		return nil
	}); err != nil {
		return nil, err
	}

	if settlement.FromEscrow {
		s.metrics.frozenPools.Dec()
	}
	s.observeTrade(pool, trade)
	return trade, nil
}
