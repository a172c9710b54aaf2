package mathutil

import (
	"errors"
	"math"

	"github.com/holiman/uint256"
)

var (
	// ErrArithmetic is returned whenever a checked operation overflows,
	// underflows or divides by zero.
	ErrArithmetic = errors.New("arithmetic error")
)

// Add takes two uint64 numbers and sum them x + y, failing on overflow.
func Add(x, y uint64) (uint64, error) {
	z, overflow := new(uint256.Int).AddOverflow(
		uint256.NewInt(x), uint256.NewInt(y),
	)
	return toUint64(z, overflow)
}

// Sub takes two uint64 numbers and subtract them x - y, failing on underflow.
func Sub(x, y uint64) (uint64, error) {
	z, underflow := new(uint256.Int).SubOverflow(
		uint256.NewInt(x), uint256.NewInt(y),
	)
	return toUint64(z, underflow)
}

// Mul takes two uint64 numbers and multiply them x * y, failing on overflow.
func Mul(x, y uint64) (uint64, error) {
	z, overflow := new(uint256.Int).MulOverflow(
		uint256.NewInt(x), uint256.NewInt(y),
	)
	return toUint64(z, overflow)
}

// Div takes two uint64 numbers and divides them x / y, rounding down.
func Div(x, y uint64) (uint64, error) {
	if y == 0 {
		return 0, ErrArithmetic
	}
	return x / y, nil
}

// MulDiv returns x * y / denominator rounded down. The intermediate product is
// computed on 256 bits so that only the final result must fit 64 bits.
func MulDiv(x, y, denominator uint64) (uint64, error) {
	if denominator == 0 {
		return 0, ErrArithmetic
	}
	prod, overflow := new(uint256.Int).MulOverflow(
		uint256.NewInt(x), uint256.NewInt(y),
	)
	if overflow {
		return 0, ErrArithmetic
	}
	z := new(uint256.Int).Div(prod, uint256.NewInt(denominator))
	return toUint64(z, false)
}

// AddUint32 is the uint32 flavour of Add, used for trade counters.
func AddUint32(x, y uint32) (uint32, error) {
	z, err := Add(uint64(x), uint64(y))
	if err != nil {
		return 0, err
	}
	if z > math.MaxUint32 {
		return 0, ErrArithmetic
	}
	return uint32(z), nil
}

// SubUint32 is the uint32 flavour of Sub.
func SubUint32(x, y uint32) (uint32, error) {
	if y > x {
		return 0, ErrArithmetic
	}
	return x - y, nil
}

// Max returns the greatest of x and y.
func Max(x, y uint64) uint64 {
	if x > y {
		return x
	}
	return y
}

func toUint64(z *uint256.Int, overflow bool) (uint64, error) {
	if overflow || !z.IsUint64() {
		return 0, ErrArithmetic
	}
	return z.Uint64(), nil
}
