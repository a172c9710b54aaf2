package domain

import (
	"errors"

	"github.com/tswap-network/tswap-engine/pkg/mathutil"
)

var (
	// ErrWrongPoolType is returned when the pool type does not allow the
	// requested operation.
	ErrWrongPoolType = errors.New("wrong pool type")
	// ErrWrongPoolVersion is returned when operating on a pool whose layout
	// must be upgraded first.
	ErrWrongPoolVersion = errors.New("wrong pool version")
	// ErrPoolFrozen is returned when operating on a frozen pool.
	ErrPoolFrozen = errors.New("pool is frozen")
	// ErrWrongFrozenStatus is returned when freezing a frozen pool or
	// unfreezing a pool that is not frozen.
	ErrWrongFrozenStatus = errors.New("wrong frozen status")
	// ErrWrongOrderType is returned when the pool order type does not allow the
	// requested operation.
	ErrWrongOrderType = errors.New("wrong order type")
	// ErrPriceMismatch is returned when the price of the pool does not satisfy
	// the limit of the taker.
	ErrPriceMismatch = errors.New("price mismatch")
	// ErrFrozenAmountMismatch is returned when the amount reserved by a freeze
	// does not match the amount to settle.
	ErrFrozenAmountMismatch = errors.New("frozen amount mismatch")
	// ErrArithmeticError is returned for any overflow, underflow or precision
	// loss.
	ErrArithmeticError = mathutil.ErrArithmetic
	// ErrMaxTakerSellCountExceeded is returned when a sell would bring the net
	// sold count beyond the cap of the pool.
	ErrMaxTakerSellCountExceeded = errors.New("max taker sell count exceeded")
	// ErrMaxTakerSellCountTooSmall is returned when the new cap is lower than
	// the current net sold count.
	ErrMaxTakerSellCountTooSmall = errors.New("max taker sell count too small")
	// ErrBadMargin is returned when the given margin account is not the one
	// attached to the pool.
	ErrBadMargin = errors.New("bad margin account")
	// ErrPoolMarginated is returned when the pool is backed by a margin account.
	ErrPoolMarginated = errors.New("pool is marginated")
	// ErrPoolNotMarginated is returned when the pool is not backed by a margin
	// account.
	ErrPoolNotMarginated = errors.New("pool is not marginated")
	// ErrMarginInUse is returned when closing a margin account backing pools.
	ErrMarginInUse = errors.New("margin account in use")
	// ErrBadCosigner ...
	ErrBadCosigner = errors.New("bad cosigner")
	// ErrBadOwner ...
	ErrBadOwner = errors.New("bad owner")
	// ErrBadWhitelist ...
	ErrBadWhitelist = errors.New("bad whitelist")
	// ErrWhitelistNotVerified ...
	ErrWhitelistNotVerified = errors.New("whitelist not verified")
	// ErrInvalidProof ...
	ErrInvalidProof = errors.New("invalid merkle proof")
	// ErrBadMintProof ...
	ErrBadMintProof = errors.New("bad mint proof")

	// ErrExistingNfts is returned when closing a pool that still holds nfts.
	ErrExistingNfts = errors.New("pool holds nfts")
	// ErrNoNftsHeld is returned when withdrawing or buying from an empty pool.
	ErrNoNftsHeld = errors.New("pool holds no nfts")
	// ErrPoolNotFound ...
	ErrPoolNotFound = errors.New("pool not found")
	// ErrPoolAlreadyExists ...
	ErrPoolAlreadyExists = errors.New("pool already exists")
	// ErrMarginNotFound ...
	ErrMarginNotFound = errors.New("margin account not found")
	// ErrMarginAlreadyExists ...
	ErrMarginAlreadyExists = errors.New("margin account already exists")
	// ErrInvalidPoolConfig is returned when a pool config breaks any of its
	// invariants.
	ErrInvalidPoolConfig = errors.New("invalid pool config")
	// ErrInvalidProtocolConfig ...
	ErrInvalidProtocolConfig = errors.New("invalid protocol config")
	// ErrInvalidRoyalty is returned when royalty info reports a rate over 100%.
	ErrInvalidRoyalty = errors.New("invalid royalty info")
	// ErrPoolVersionUpToDate is returned when upgrading an up to date pool.
	ErrPoolVersionUpToDate = errors.New("pool version is up to date")
)
