package application

import (
	"context"

	"github.com/gagliardetto/solana-go"
	log "github.com/sirupsen/logrus"
	"github.com/tswap-network/tswap-engine/internal/core/domain"
	"github.com/tswap-network/tswap-engine/pkg/mathutil"
)

// tradeLegs is the fee breakdown of a standard trade at a given price.
type tradeLegs struct {
	price    uint64
	fees     domain.Fees
	mmFee    uint64
	royalty  uint64
	creators []domain.CreatorPayment
}

// Quote returns the price and fees of the next trade on the given side of the
// pool without changing anything.
func (s *Service) Quote(
	ctx context.Context, address solana.PublicKey, side domain.TakerSide,
) (*Quote, error) {
	pool, err := s.repoManager.PoolRepository().GetPool(ctx, address)
	if err != nil {
		return nil, err
	}
	if err := pool.ValidateTrade(side); err != nil {
		return nil, err
	}
	legs, err := s.calcLegs(pool, side, nil)
	if err != nil {
		return nil, err
	}

	return &Quote{
		Pool:     pool.Address,
		Side:     side,
		Price:    legs.price,
		PriceSol: mathutil.ToSol(legs.price),
		Fees:     legs.fees,
		MMFee:    legs.mmFee,
	}, nil
}

// BuyNft sells one of the nfts held by an NFT or Trade pool to the buyer.
// The buyer pays the curve price plus taker fee and royalty.
func (s *Service) BuyNft(
	ctx context.Context, req BuyNftRequest,
) (*domain.Trade, error) {
	var (
		trade *domain.Trade
		pool  *domain.Pool
	)

	if err := s.run(ctx, "buy nft", func(ctx context.Context) error {
		p, err := s.repoManager.PoolRepository().GetPool(ctx, req.Pool)
		if err != nil {
			return err
		}
		if err := s.whitelists.VerifyMint(
			ctx, p.Whitelist, req.Mint, req.Proof,
		); err != nil {
			return err
		}
		if err := s.verifyCosigner(ctx, p, req.Cosigner); err != nil {
			return err
		}
		if err := p.ValidateTrade(domain.TakerSideBuy); err != nil {
			return err
		}

		royalty, err := s.royalties.GetRoyalty(ctx, req.Mint)
		if err != nil {
			return err
		}
		legs, err := s.calcLegs(p, domain.TakerSideBuy, &royalty)
		if err != nil {
			return err
		}
		if legs.price > req.MaxPrice {
			return domain.ErrPriceMismatch
		}
		if err := p.RemoveNft(); err != nil {
			return err
		}

		// Proceeds of NFT pools go straight to the owner, trade pools keep
		// them as liquidity for the buy side.
		dest := p.Owner
		if p.Config.PoolType == domain.PoolTypeTrade {
			dest = p.SolEscrow
			if p.IsMarginated() {
				dest = *p.Margin
			}
		}
		toOwner := uint64(0)
		if p.Config.PoolType == domain.PoolTypeTrade && !p.Config.MMCompoundFees {
			toOwner = legs.mmFee
		}
		toPool, err := mathutil.Add(legs.price, legs.fees.MakerRebate)
		if err != nil {
			return err
		}
		if toPool, err = mathutil.Sub(toPool, toOwner); err != nil {
			return err
		}

		transfers := s.feeTransfers(legs, req.Broker)
		transfers = append(transfers,
			transfer{dest, toPool},
			transfer{p.Owner, toOwner},
		)
		if err := s.transferAll(ctx, req.Buyer, transfers); err != nil {
			return err
		}

		t, err := s.settleTrade(ctx, p, domain.TakerSideBuy, req.Buyer, legs)
		if err != nil {
			return err
		}
		trade, pool = t, p
		return nil
	}); err != nil {
		return nil, err
	}

	s.observeTrade(pool, trade)
	return trade, nil
}

// SellNft buys the seller's nft with the funds of a Token or Trade pool, or
// of the margin account backing it. The seller receives the curve price minus
// taker fee, royalty and mm fee.
func (s *Service) SellNft(
	ctx context.Context, req SellNftRequest,
) (*domain.Trade, error) {
	var (
		trade *domain.Trade
		pool  *domain.Pool
	)

	if err := s.run(ctx, "sell nft", func(ctx context.Context) error {
		p, err := s.repoManager.PoolRepository().GetPool(ctx, req.Pool)
		if err != nil {
			return err
		}
		if err := s.whitelists.VerifyMint(
			ctx, p.Whitelist, req.Mint, req.Proof,
		); err != nil {
			return err
		}
		if err := s.verifyCosigner(ctx, p, req.Cosigner); err != nil {
			return err
		}
		if err := p.ValidateTrade(domain.TakerSideSell); err != nil {
			return err
		}

		royalty, err := s.royalties.GetRoyalty(ctx, req.Mint)
		if err != nil {
			return err
		}
		legs, err := s.calcLegs(p, domain.TakerSideSell, &royalty)
		if err != nil {
			return err
		}
		if legs.price < req.MinPrice {
			return domain.ErrPriceMismatch
		}

		toSeller, err := mathutil.Sub(legs.price, legs.fees.TakerFee)
		if err != nil {
			return err
		}
		if toSeller, err = mathutil.Sub(toSeller, legs.royalty); err != nil {
			return err
		}
		if toSeller, err = mathutil.Sub(toSeller, legs.mmFee); err != nil {
			return err
		}
		toOwner := uint64(0)
		if p.Config.PoolType == domain.PoolTypeTrade && !p.Config.MMCompoundFees {
			toOwner = legs.mmFee
		}

		if p.Config.PoolType == domain.PoolTypeTrade {
			if err := p.AddNft(); err != nil {
				return err
			}
		}

		source := p.SolEscrow
		if p.IsMarginated() {
			source = *p.Margin
		}
		transfers := s.feeTransfers(legs, req.Broker)
		transfers = append(transfers,
			transfer{req.Seller, toSeller},
			transfer{p.Owner, toOwner},
		)
		if err := s.transferAll(ctx, source, transfers); err != nil {
			return err
		}

		t, err := s.settleTrade(ctx, p, domain.TakerSideSell, req.Seller, legs)
		if err != nil {
			return err
		}
		trade, pool = t, p
		return nil
	}); err != nil {
		return nil, err
	}

	s.observeTrade(pool, trade)
	return trade, nil
}

// calcLegs computes every amount of a trade before anything is moved. The
// royalty is skipped when nil.
func (s *Service) calcLegs(
	pool *domain.Pool, side domain.TakerSide, royalty *domain.RoyaltyInfo,
) (*tradeLegs, error) {
	price, err := pool.CurrentPrice(side)
	if err != nil {
		return nil, err
	}
	fees, err := domain.CalcFees(s.protocol, price)
	if err != nil {
		return nil, err
	}

	legs := &tradeLegs{price: price, fees: fees}
	if pool.Config.PoolType == domain.PoolTypeTrade {
		if legs.mmFee, err = pool.CalcMMFee(price); err != nil {
			return nil, err
		}
	}
	if royalty == nil {
		return legs, nil
	}

	creatorsFee, err := domain.CalcCreatorsFee(price, *royalty)
	if err != nil {
		return nil, err
	}
	if legs.creators, err = domain.SplitCreatorsFee(
		creatorsFee, *royalty,
	); err != nil {
		return nil, err
	}
	// Rounding dust of the split is not charged.
	for _, c := range legs.creators {
		if legs.royalty, err = mathutil.Add(legs.royalty, c.Amount); err != nil {
			return nil, err
		}
	}
	return legs, nil
}

// feeTransfers returns the protocol, broker and creator legs of a trade.
func (s *Service) feeTransfers(
	legs *tradeLegs, broker *solana.PublicKey,
) []transfer {
	brokerDest := s.protocol.FeeVault
	if broker != nil {
		brokerDest = *broker
	}
	transfers := []transfer{
		{s.protocol.FeeVault, legs.fees.ProtocolFee},
		{brokerDest, legs.fees.BrokerFee},
	}
	for _, c := range legs.creators {
		transfers = append(transfers, transfer{c.Creator, c.Amount})
	}
	return transfers
}

// settleTrade updates the pool counters, persists the pool and writes the
// trade receipt.
func (s *Service) settleTrade(
	ctx context.Context, pool *domain.Pool, side domain.TakerSide,
	taker solana.PublicKey, legs *tradeLegs,
) (*domain.Trade, error) {
	now := s.now()
	if err := pool.RecordTrade(side, now); err != nil {
		return nil, err
	}
	if pool.Config.PoolType == domain.PoolTypeTrade {
		if err := pool.AddMMProfit(legs.mmFee); err != nil {
			return nil, err
		}
	}

	if err := s.repoManager.PoolRepository().UpdatePool(
		ctx, pool.Address, func(*domain.Pool) (*domain.Pool, error) {
			return pool, nil
		},
	); err != nil {
		return nil, err
	}

	trade := domain.NewTrade(pool.Address, taker, side, legs.price, now)
	trade.Fees = legs.fees
	trade.Royalty = legs.royalty
	trade.MMFee = legs.mmFee
	if err := s.repoManager.TradeRepository().AddTrade(ctx, trade); err != nil {
		return nil, err
	}
	return trade, nil
}

func (s *Service) observeTrade(pool *domain.Pool, trade *domain.Trade) {
	s.metrics.observeTrade(pool, trade)
	log.WithFields(log.Fields{
		"pool":  pool.Address.String(),
		"side":  trade.Side.String(),
		"price": trade.Price,
		"fee":   trade.Fees.TakerFee,
	}).Info("trade settled")
}
