package mathutil

import (
	"math/big"

	"github.com/shopspring/decimal"
)

const (
	// HundredPctBps is 100% expressed in basis points.
	HundredPctBps = uint64(10000)
	// HundredPct is 100% expressed in percentage points.
	HundredPct = uint64(100)
	// LamportsDecimals is the precision of the native currency.
	LamportsDecimals = 9
)

// Bps calculates the share of amount given a rate expressed in basis point
// (ie. 1.4% = 140), rounding down.
func Bps(amount, basisPoint uint64) (uint64, error) {
	return MulDiv(amount, basisPoint, HundredPctBps)
}

// Pct calculates the share of amount given a rate expressed in percentage
// points, rounding down.
func Pct(amount, pct uint64) (uint64, error) {
	return MulDiv(amount, pct, HundredPct)
}

// ToSol converts an amount of lamports into its decimal representation in
// units of the native currency.
func ToSol(lamports uint64) decimal.Decimal {
	return decimal.NewFromBigInt(
		new(big.Int).SetUint64(lamports), -LamportsDecimals,
	)
}

// FromSol converts a decimal amount of the native currency into lamports,
// truncating any digit beyond the currency precision.
func FromSol(amount decimal.Decimal) (uint64, error) {
	if amount.IsNegative() {
		return 0, ErrArithmetic
	}
	lamports := amount.Shift(LamportsDecimals).Truncate(0).BigInt()
	if !lamports.IsUint64() {
		return 0, ErrArithmetic
	}
	return lamports.Uint64(), nil
}
