package domain

import "github.com/tswap-network/tswap-engine/pkg/mathutil"

// SnipeSettlement holds the amounts moved when a snipe order is taken.
type SnipeSettlement struct {
	// QuotedPrice is the current sell price of the pool.
	QuotedPrice uint64
	ActualPrice uint64
	Fees        SnipeFees
	// Total is the amount reserved for the order, ie. the quoted price plus
	// the snipe base fee.
	Total uint64
	// Remainder goes back to the margin account.
	Remainder uint64
	// FromEscrow is true when the order had been frozen and is paid from the
	// pool escrow rather than directly from the margin account.
	FromEscrow bool
}

// ValidateSniping checks the pool can settle snipe orders.
func (p *Pool) ValidateSniping() error {
	if p.Version != CurrentPoolVersion {
		return ErrWrongPoolVersion
	}
	if p.Config.PoolType != PoolTypeToken {
		return ErrWrongPoolType
	}
	if !p.IsSniping() {
		return ErrWrongOrderType
	}
	if !p.IsMarginated() {
		return ErrPoolNotMarginated
	}
	return nil
}

// SnipeQuote returns the amount a snipe order reserves at the current price
// along with the price itself.
func (p *Pool) SnipeQuote(cfg ProtocolConfig) (total, price uint64, err error) {
	price, err = p.CurrentPrice(TakerSideSell)
	if err != nil {
		return 0, 0, err
	}
	baseFee, err := SnipeBaseFee(cfg, price)
	if err != nil {
		return 0, 0, err
	}
	total, err = mathutil.Add(price, baseFee)
	if err != nil {
		return 0, 0, err
	}
	return total, price, nil
}

// Freeze reserves the current snipe quote. It returns the amount to move from
// the margin account into the pool escrow.
func (p *Pool) Freeze(cfg ProtocolConfig, now int64) (uint64, error) {
	if err := p.ValidateSniping(); err != nil {
		return 0, err
	}
	if p.IsFrozen() {
		return 0, ErrWrongFrozenStatus
	}

	total, _, err := p.SnipeQuote(cfg)
	if err != nil {
		return 0, err
	}

	p.Frozen = &Frozen{Amount: total, Time: now}
	return total, nil
}

// Unfreeze releases the reserved amount. It returns the amount to move back
// from the pool escrow into the margin account.
func (p *Pool) Unfreeze() (uint64, error) {
	if p.Version != CurrentPoolVersion {
		return 0, ErrWrongPoolVersion
	}
	if !p.IsFrozen() {
		return 0, ErrWrongFrozenStatus
	}
	amount := p.Frozen.Amount
	p.Frozen = nil
	return amount, nil
}

// SettleSnipe executes the snipe order at actualPrice, records the sell and
// always leaves the pool unfrozen.
func (p *Pool) SettleSnipe(
	cfg ProtocolConfig, actualPrice uint64, now int64,
) (*SnipeSettlement, error) {
	if err := p.ValidateSniping(); err != nil {
		return nil, err
	}
	if err := p.checkMaxTakerSellCount(); err != nil {
		return nil, err
	}

	total, price, err := p.SnipeQuote(cfg)
	if err != nil {
		return nil, err
	}
	if p.IsFrozen() && p.Frozen.Amount != total {
		return nil, ErrFrozenAmountMismatch
	}
	fees, err := CalcSnipeFees(cfg, price, actualPrice)
	if err != nil {
		return nil, err
	}
	remainder, err := mathutil.Sub(total, actualPrice)
	if err != nil {
		return nil, err
	}
	if remainder, err = mathutil.Sub(remainder, fees.TotalFee); err != nil {
		return nil, err
	}

	settlement := &SnipeSettlement{
		QuotedPrice: price,
		ActualPrice: actualPrice,
		Fees:        fees,
		Total:       total,
		Remainder:   remainder,
		FromEscrow:  p.IsFrozen(),
	}

	if err := p.RecordTrade(TakerSideSell, now); err != nil {
		return nil, err
	}
	p.Frozen = nil
	return settlement, nil
}
