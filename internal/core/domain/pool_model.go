package domain

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// PoolType defines which side(s) of the order book a pool takes.
type PoolType uint8

const (
	// PoolTypeToken pools buy nfts for tokens.
	PoolTypeToken PoolType = iota
	// PoolTypeNFT pools sell nfts for tokens.
	PoolTypeNFT
	// PoolTypeTrade pools do both and earn a market maker fee.
	PoolTypeTrade
)

func (t PoolType) String() string {
	switch t {
	case PoolTypeToken:
		return "token"
	case PoolTypeNFT:
		return "nft"
	case PoolTypeTrade:
		return "trade"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(t))
	}
}

// ParsePoolType is the inverse of PoolType.String.
func ParsePoolType(s string) (PoolType, error) {
	for _, t := range []PoolType{PoolTypeToken, PoolTypeNFT, PoolTypeTrade} {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown pool type %q", s)
}

// CurveType defines the bonding curve of a pool.
type CurveType uint8

const (
	// CurveTypeLinear shifts the price by a fixed amount each step.
	CurveTypeLinear CurveType = iota
	// CurveTypeExponential shifts the price by a rate in basis points each step.
	CurveTypeExponential
)

func (c CurveType) String() string {
	switch c {
	case CurveTypeLinear:
		return "linear"
	case CurveTypeExponential:
		return "exponential"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// ParseCurveType is the inverse of CurveType.String.
func ParseCurveType(s string) (CurveType, error) {
	for _, c := range []CurveType{CurveTypeLinear, CurveTypeExponential} {
		if c.String() == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown curve type %q", s)
}

// TakerSide is the side of the taker trading against a pool.
type TakerSide uint8

const (
	TakerSideBuy TakerSide = iota
	TakerSideSell
)

func (s TakerSide) String() string {
	if s == TakerSideBuy {
		return "buy"
	}
	return "sell"
}

// Direction is the way a price moves along the curve.
type Direction uint8

const (
	DirectionUp Direction = iota
	DirectionDown
)

// OrderType tells how the orders of a pool are executed.
type OrderType uint8

const (
	// OrderTypeStandard pools are traded directly by takers.
	OrderTypeStandard OrderType = iota
	// OrderTypeSniping pools are settled through the freeze/take snipe flow.
	OrderTypeSniping
)

// PoolConfig holds the pricing parameters of a pool. It's immutable and gets
// replaced wholesale when the pool is edited.
type PoolConfig struct {
	PoolType      PoolType
	CurveType     CurveType
	StartingPrice uint64
	// Delta is an absolute amount for linear curves or a rate in basis points
	// for exponential ones.
	Delta          uint64
	MMCompoundFees bool
	// MMFeeBps must be set for trade pools only.
	MMFeeBps *uint16
}

// Validate makes sure the config satisfies all its invariants.
func (c PoolConfig) Validate() error {
	if c.PoolType > PoolTypeTrade || c.CurveType > CurveTypeExponential {
		return ErrInvalidPoolConfig
	}
	if c.StartingPrice < 1 {
		return fmt.Errorf("%w: starting price must be at least 1", ErrInvalidPoolConfig)
	}
	if c.CurveType == CurveTypeExponential && c.Delta > MaxDeltaBps {
		return fmt.Errorf(
			"%w: exponential delta must be at most %d bps",
			ErrInvalidPoolConfig, MaxDeltaBps,
		)
	}

	if c.PoolType == PoolTypeTrade {
		if c.MMFeeBps == nil {
			return fmt.Errorf("%w: trade pool requires mm fee", ErrInvalidPoolConfig)
		}
		if *c.MMFeeBps > MaxMMFeeBps {
			return fmt.Errorf(
				"%w: mm fee must be at most %d bps", ErrInvalidPoolConfig, MaxMMFeeBps,
			)
		}
		return nil
	}

	if c.MMFeeBps != nil || c.MMCompoundFees {
		return fmt.Errorf(
			"%w: mm fee settings are for trade pools only", ErrInvalidPoolConfig,
		)
	}
	return nil
}

// PoolStats are lifetime counters that survive config edits.
type PoolStats struct {
	TakerSellCount      uint32
	TakerBuyCount       uint32
	AccumulatedMMProfit uint64
}

// Frozen holds the amount reserved for a pending snipe order.
type Frozen struct {
	Amount uint64
	Time   int64
}

// Pool is a standing bonding curve order for a single collection.
type Pool struct {
	Version   uint8
	Address   solana.PublicKey
	Owner     solana.PublicKey
	Whitelist solana.PublicKey
	// SolEscrow is always derived from Address, an edit re-keys both.
	SolEscrow solana.PublicKey
	Config    PoolConfig
	CreatedAt int64

	TakerSellCount uint32
	TakerBuyCount  uint32
	NftsHeld       uint32
	Stats          PoolStats

	Margin     *solana.PublicKey
	IsCosigned bool
	OrderType  OrderType
	Frozen     *Frozen

	LastTransactedSeconds int64
	// MaxTakerSellCount caps net sells of margin backed pools, 0 means no cap.
	MaxTakerSellCount uint32
}

// IsFrozen ...
func (p *Pool) IsFrozen() bool {
	return p.Frozen != nil
}

// IsMarginated ...
func (p *Pool) IsMarginated() bool {
	return p.Margin != nil
}

// IsSniping ...
func (p *Pool) IsSniping() bool {
	return p.OrderType == OrderTypeSniping
}
