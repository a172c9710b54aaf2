package application

import (
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/tswap-network/tswap-engine/internal/core/domain"
)

// BuyNftRequest is a taker buying an nft from an NFT or Trade pool.
type BuyNftRequest struct {
	Pool  solana.PublicKey
	Buyer solana.PublicKey
	Mint  solana.PublicKey
	Proof [][32]byte
	// MaxPrice is the highest curve price the buyer accepts, fees excluded.
	MaxPrice uint64
	// Broker receives the broker fee. The fee vault gets it when nil.
	Broker   *solana.PublicKey
	Cosigner *solana.PublicKey
}

// SellNftRequest is a taker selling an nft into a Token or Trade pool.
type SellNftRequest struct {
	Pool   solana.PublicKey
	Seller solana.PublicKey
	Mint   solana.PublicKey
	Proof  [][32]byte
	// MinPrice is the lowest curve price the seller accepts, fees excluded.
	MinPrice uint64
	Broker   *solana.PublicKey
	Cosigner *solana.PublicKey
}

// Quote is the price and fee breakdown of the next trade on one side of a
// pool. Royalties are not included since they depend on the nft.
type Quote struct {
	Pool     solana.PublicKey
	Side     domain.TakerSide
	Price    uint64
	PriceSol decimal.Decimal
	Fees     domain.Fees
	MMFee    uint64
}

// InitPoolRequest ...
type InitPoolRequest struct {
	Owner             solana.PublicKey
	Whitelist         solana.PublicKey
	Config            domain.PoolConfig
	OrderType         domain.OrderType
	IsCosigned        bool
	MaxTakerSellCount uint32
}

// EditPoolInPlaceRequest changes the settings of a pool that are not part of
// its key. Nil fields are left untouched.
type EditPoolInPlaceRequest struct {
	Owner             solana.PublicKey
	Pool              solana.PublicKey
	IsCosigned        *bool
	MaxTakerSellCount *uint32
	MMCompoundFees    *bool
}

// SetPoolFreezeRequest freezes or unfreezes a sniping pool.
type SetPoolFreezeRequest struct {
	Pool     solana.PublicKey
	Margin   solana.PublicKey
	Freeze   bool
	Cosigner *solana.PublicKey
}

// TakeSnipeRequest settles the snipe order of a pool at ActualPrice.
type TakeSnipeRequest struct {
	Pool        solana.PublicKey
	Margin      solana.PublicKey
	Executor    solana.PublicKey
	Mint        solana.PublicKey
	Proof       [][32]byte
	ActualPrice uint64
	Cosigner    *solana.PublicKey
}
