package domain

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/tswap-network/tswap-engine/pkg/mathutil"
)

// ProtocolConfig holds the protocol wide fee schedule. It's passed explicitly
// to every operation that moves value.
type ProtocolConfig struct {
	TakerFeeBps         uint16
	MakerRebateBps      uint16
	BrokerFeePct        uint8
	SnipeFeeBps         uint16
	SnipeMinFee         uint64
	SnipeProfitShareBps uint16
	// FeeVault receives the protocol share of every fee.
	FeeVault solana.PublicKey
}

// DefaultProtocolConfig returns the default fee schedule paying to the given
// vault.
func DefaultProtocolConfig(feeVault solana.PublicKey) ProtocolConfig {
	return ProtocolConfig{
		TakerFeeBps:         DefaultTakerFeeBps,
		MakerRebateBps:      DefaultMakerRebateBps,
		BrokerFeePct:        DefaultBrokerFeePct,
		SnipeFeeBps:         DefaultSnipeFeeBps,
		SnipeMinFee:         DefaultSnipeMinFee,
		SnipeProfitShareBps: DefaultSnipeProfitShareBps,
		FeeVault:            feeVault,
	}
}

// Validate ...
func (c ProtocolConfig) Validate() error {
	hundredPctBps := uint16(mathutil.HundredPctBps)
	if c.TakerFeeBps > hundredPctBps ||
		c.SnipeFeeBps > hundredPctBps ||
		c.SnipeProfitShareBps > hundredPctBps {
		return fmt.Errorf("%w: fee rate over 100%%", ErrInvalidProtocolConfig)
	}
	if c.MakerRebateBps > c.TakerFeeBps {
		return fmt.Errorf(
			"%w: maker rebate exceeds taker fee", ErrInvalidProtocolConfig,
		)
	}
	if uint64(c.BrokerFeePct) > mathutil.HundredPct {
		return fmt.Errorf("%w: broker share over 100%%", ErrInvalidProtocolConfig)
	}
	if c.FeeVault.IsZero() {
		return fmt.Errorf("%w: missing fee vault", ErrInvalidProtocolConfig)
	}
	return nil
}

// Fees is the split of the taker fee of a standard trade.
// ProtocolFee + MakerRebate + BrokerFee always equals TakerFee.
type Fees struct {
	TakerFee    uint64
	MakerRebate uint64
	BrokerFee   uint64
	ProtocolFee uint64
}

// CalcFees splits the taker fee owed on the given price.
func CalcFees(cfg ProtocolConfig, price uint64) (Fees, error) {
	takerFee, err := mathutil.Bps(price, uint64(cfg.TakerFeeBps))
	if err != nil {
		return Fees{}, err
	}
	makerRebate, err := mathutil.Bps(price, uint64(cfg.MakerRebateBps))
	if err != nil {
		return Fees{}, err
	}
	// The maker rebate never leaves the pool, the rest is shared between the
	// broker and the protocol.
	net, err := mathutil.Sub(takerFee, makerRebate)
	if err != nil {
		return Fees{}, err
	}
	brokerFee, err := mathutil.Pct(net, uint64(cfg.BrokerFeePct))
	if err != nil {
		return Fees{}, err
	}
	protocolFee, err := mathutil.Sub(net, brokerFee)
	if err != nil {
		return Fees{}, err
	}

	return Fees{
		TakerFee:    takerFee,
		MakerRebate: makerRebate,
		BrokerFee:   brokerFee,
		ProtocolFee: protocolFee,
	}, nil
}

// CalcMMFee returns the market maker fee earned by a trade pool on the given
// price.
func (p *Pool) CalcMMFee(price uint64) (uint64, error) {
	if p.Config.PoolType != PoolTypeTrade {
		return 0, ErrWrongPoolType
	}
	if p.Config.MMFeeBps == nil {
		return 0, ErrInvalidPoolConfig
	}
	return mathutil.Bps(price, uint64(*p.Config.MMFeeBps))
}

// Creator is one of the recipients of the royalty of an nft.
type Creator struct {
	Address solana.PublicKey
	// Share is the percentage of the royalty owed to this creator.
	Share uint8
}

// RoyaltyInfo is the royalty schedule of an nft.
type RoyaltyInfo struct {
	SellerFeeBps uint16
	// OptionalRoyaltyPct is the percentage of the royalty actually paid by the
	// taker. Nil means the whole royalty is paid.
	OptionalRoyaltyPct *uint16
	Creators           []Creator
}

// Validate ...
func (r RoyaltyInfo) Validate() error {
	if uint64(r.SellerFeeBps) > mathutil.HundredPctBps {
		return ErrInvalidRoyalty
	}
	if r.OptionalRoyaltyPct != nil &&
		uint64(*r.OptionalRoyaltyPct) > mathutil.HundredPct {
		return ErrInvalidRoyalty
	}
	total := uint64(0)
	for _, c := range r.Creators {
		total += uint64(c.Share)
	}
	if total > mathutil.HundredPct {
		return ErrInvalidRoyalty
	}
	return nil
}

// CalcCreatorsFee returns the royalty owed on the given price.
func CalcCreatorsFee(price uint64, royalty RoyaltyInfo) (uint64, error) {
	if err := royalty.Validate(); err != nil {
		return 0, err
	}
	fee, err := mathutil.Bps(price, uint64(royalty.SellerFeeBps))
	if err != nil {
		return 0, err
	}
	if royalty.OptionalRoyaltyPct == nil {
		return fee, nil
	}
	return mathutil.Pct(fee, uint64(*royalty.OptionalRoyaltyPct))
}

// CreatorPayment is the amount owed to a single creator.
type CreatorPayment struct {
	Creator solana.PublicKey
	Amount  uint64
}

// SplitCreatorsFee shares the given royalty among the creators, rounding
// down. The dust is not paid and stays with the payer.
func SplitCreatorsFee(
	fee uint64, royalty RoyaltyInfo,
) ([]CreatorPayment, error) {
	payments := make([]CreatorPayment, 0, len(royalty.Creators))
	for _, c := range royalty.Creators {
		amount, err := mathutil.Pct(fee, uint64(c.Share))
		if err != nil {
			return nil, err
		}
		if amount == 0 {
			continue
		}
		payments = append(payments, CreatorPayment{c.Address, amount})
	}
	return payments, nil
}

// SnipeFees is the fee schedule of a snipe order settlement.
type SnipeFees struct {
	BaseFee     uint64
	ProfitShare uint64
	// TotalFee is paid on top of the price by the order owner.
	TotalFee uint64
}

// SnipeBaseFee returns the flat part of the snipe fee for the given price.
func SnipeBaseFee(cfg ProtocolConfig, price uint64) (uint64, error) {
	fee, err := mathutil.Bps(price, uint64(cfg.SnipeFeeBps))
	if err != nil {
		return 0, err
	}
	return mathutil.Max(fee, cfg.SnipeMinFee), nil
}

// CalcSnipeFees returns the fees owed by a snipe order quoted at quotedPrice
// and executed at actualPrice.
func CalcSnipeFees(
	cfg ProtocolConfig, quotedPrice, actualPrice uint64,
) (SnipeFees, error) {
	if actualPrice > quotedPrice {
		return SnipeFees{}, ErrPriceMismatch
	}
	baseFee, err := SnipeBaseFee(cfg, quotedPrice)
	if err != nil {
		return SnipeFees{}, err
	}
	profitShare, err := mathutil.Bps(
		quotedPrice-actualPrice, uint64(cfg.SnipeProfitShareBps),
	)
	if err != nil {
		return SnipeFees{}, err
	}
	total, err := mathutil.Add(baseFee, profitShare)
	if err != nil {
		return SnipeFees{}, err
	}
	return SnipeFees{baseFee, profitShare, total}, nil
}
