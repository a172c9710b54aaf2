package domain

import (
	"github.com/gagliardetto/solana-go"
	"github.com/tswap-network/tswap-engine/pkg/mathutil"
)

// NewPool returns a new pool with all counters at zero and its keys derived
// from the given owner, whitelist and config.
func NewPool(
	owner, whitelist solana.PublicKey, config PoolConfig,
	orderType OrderType, isCosigned bool, maxTakerSellCount uint32, now int64,
) (*Pool, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if orderType > OrderTypeSniping {
		return nil, ErrWrongOrderType
	}
	if orderType == OrderTypeSniping {
		if config.PoolType != PoolTypeToken {
			return nil, ErrWrongPoolType
		}
		if !isCosigned {
			return nil, ErrWrongOrderType
		}
	}

	address, err := PoolAddress(owner, whitelist, config)
	if err != nil {
		return nil, err
	}
	escrow, err := SolEscrowAddress(address)
	if err != nil {
		return nil, err
	}

	return &Pool{
		Version:               CurrentPoolVersion,
		Address:               address,
		Owner:                 owner,
		Whitelist:             whitelist,
		SolEscrow:             escrow,
		Config:                config,
		CreatedAt:             now,
		IsCosigned:            isCosigned,
		OrderType:             orderType,
		LastTransactedSeconds: now,
		MaxTakerSellCount:     maxTakerSellCount,
	}, nil
}

// ValidateTrade runs, in order, all the checks that must pass before a taker
// can trade on the given side of the pool.
func (p *Pool) ValidateTrade(side TakerSide) error {
	if p.Version != CurrentPoolVersion {
		return ErrWrongPoolVersion
	}
	if p.IsFrozen() {
		return ErrPoolFrozen
	}
	if !p.allowsSide(side) {
		return ErrWrongPoolType
	}
	if p.IsSniping() {
		return ErrWrongOrderType
	}
	if side == TakerSideSell {
		return p.checkMaxTakerSellCount()
	}
	return nil
}

// RecordTrade updates the live and lifetime counters after a trade on the
// given side has been settled.
func (p *Pool) RecordTrade(side TakerSide, now int64) error {
	if side == TakerSideBuy {
		buys, err := mathutil.AddUint32(p.TakerBuyCount, 1)
		if err != nil {
			return err
		}
		statsBuys, err := mathutil.AddUint32(p.Stats.TakerBuyCount, 1)
		if err != nil {
			return err
		}
		p.TakerBuyCount, p.Stats.TakerBuyCount = buys, statsBuys
	} else {
		sells, err := mathutil.AddUint32(p.TakerSellCount, 1)
		if err != nil {
			return err
		}
		statsSells, err := mathutil.AddUint32(p.Stats.TakerSellCount, 1)
		if err != nil {
			return err
		}
		p.TakerSellCount, p.Stats.TakerSellCount = sells, statsSells
	}
	p.LastTransactedSeconds = now
	return nil
}

// AddMMProfit credits the market maker fee of a trade to the pool stats.
func (p *Pool) AddMMProfit(amount uint64) error {
	profit, err := mathutil.Add(p.Stats.AccumulatedMMProfit, amount)
	if err != nil {
		return err
	}
	p.Stats.AccumulatedMMProfit = profit
	return nil
}

// ValidMaxSellCount tells whether count is acceptable as the new cap of net
// taker sells of the pool.
func (p *Pool) ValidMaxSellCount(count uint32) error {
	if count == 0 || p.isNetLong() {
		return nil
	}
	if count < p.netSold() {
		return ErrMaxTakerSellCountTooSmall
	}
	return nil
}

// AdjustMaxTakerSellCount resets a cap that is no longer valid to the current
// net sold count.
func (p *Pool) AdjustMaxTakerSellCount() {
	if err := p.ValidMaxSellCount(p.MaxTakerSellCount); err != nil {
		p.MaxTakerSellCount = p.netSold()
	}
}

// Edit replaces the config of the pool. The pool and its escrow are re-keyed
// and its live counters restart from zero, while lifetime stats are preserved.
// Funds of the old escrow must be moved by the caller.
func (p *Pool) Edit(config PoolConfig) error {
	if p.Version != CurrentPoolVersion {
		return ErrWrongPoolVersion
	}
	if p.IsFrozen() {
		return ErrPoolFrozen
	}
	if err := config.Validate(); err != nil {
		return err
	}
	if config.PoolType != p.Config.PoolType {
		return ErrWrongPoolType
	}

	address, err := PoolAddress(p.Owner, p.Whitelist, config)
	if err != nil {
		return err
	}
	escrow, err := SolEscrowAddress(address)
	if err != nil {
		return err
	}

	p.Address = address
	p.SolEscrow = escrow
	p.Config = config
	p.TakerSellCount = 0
	p.TakerBuyCount = 0
	return nil
}

// EditInPlace changes the settings of the pool that are not part of its key.
// Nil arguments are left untouched.
func (p *Pool) EditInPlace(
	isCosigned *bool, maxTakerSellCount *uint32, mmCompoundFees *bool,
) error {
	if p.Version != CurrentPoolVersion {
		return ErrWrongPoolVersion
	}
	if isCosigned != nil && !*isCosigned && p.IsSniping() {
		return ErrWrongOrderType
	}
	if maxTakerSellCount != nil {
		if err := p.ValidMaxSellCount(*maxTakerSellCount); err != nil {
			return err
		}
	}
	if mmCompoundFees != nil && p.Config.PoolType != PoolTypeTrade {
		return ErrWrongPoolType
	}

	if isCosigned != nil {
		p.IsCosigned = *isCosigned
	}
	if maxTakerSellCount != nil {
		p.MaxTakerSellCount = *maxTakerSellCount
	}
	if mmCompoundFees != nil {
		p.Config.MMCompoundFees = *mmCompoundFees
	}
	return nil
}

// ValidateClose makes sure the pool can be destroyed.
func (p *Pool) ValidateClose() error {
	if p.NftsHeld > 0 {
		return ErrExistingNfts
	}
	if p.IsFrozen() {
		return ErrPoolFrozen
	}
	if p.IsMarginated() {
		return ErrPoolMarginated
	}
	return nil
}

// Upgrade brings a pool with an outdated layout to the current version.
func (p *Pool) Upgrade() error {
	if p.Version >= CurrentPoolVersion {
		return ErrPoolVersionUpToDate
	}
	p.Version = CurrentPoolVersion
	return nil
}

// AddNft accounts for an nft entering the pool, either deposited by the owner
// or sold by a taker.
func (p *Pool) AddNft() error {
	if p.Config.PoolType == PoolTypeToken {
		return ErrWrongPoolType
	}
	held, err := mathutil.AddUint32(p.NftsHeld, 1)
	if err != nil {
		return err
	}
	p.NftsHeld = held
	return nil
}

// RemoveNft accounts for an nft leaving the pool.
func (p *Pool) RemoveNft() error {
	if p.Config.PoolType == PoolTypeToken {
		return ErrWrongPoolType
	}
	if p.NftsHeld == 0 {
		return ErrNoNftsHeld
	}
	p.NftsHeld--
	return nil
}

func (p *Pool) allowsSide(side TakerSide) bool {
	switch p.Config.PoolType {
	case PoolTypeToken:
		return side == TakerSideSell
	case PoolTypeNFT:
		return side == TakerSideBuy
	case PoolTypeTrade:
		return true
	default:
		return false
	}
}

func (p *Pool) checkMaxTakerSellCount() error {
	if !p.IsMarginated() || p.MaxTakerSellCount == 0 || p.isNetLong() {
		return nil
	}
	if p.netSold() >= p.MaxTakerSellCount {
		return ErrMaxTakerSellCountExceeded
	}
	return nil
}

func (p *Pool) isNetLong() bool {
	return p.TakerBuyCount > p.TakerSellCount
}

// netSold is 0 for net long pools.
func (p *Pool) netSold() uint32 {
	if p.isNetLong() {
		return 0
	}
	return p.TakerSellCount - p.TakerBuyCount
}
