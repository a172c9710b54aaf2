package mathutil

import "github.com/holiman/uint256"

// preciseOne is the fixed point scale of Precise numbers (12 decimals).
var preciseOne = uint256.NewInt(1_000_000_000_000)

// Precise is a non-negative fixed point number with 12 decimals backed by a
// 256 bits unsigned integer. Every operation is checked.
type Precise struct {
	value *uint256.Int
}

// NewPrecise returns the Precise representation of the given integer.
func NewPrecise(x uint64) Precise {
	v := new(uint256.Int).Mul(uint256.NewInt(x), preciseOne)
	return Precise{v}
}

// NewPreciseRatio returns the Precise representation of num / den, rounded
// down to the 12th decimal.
func NewPreciseRatio(num, den uint64) (Precise, error) {
	if den == 0 {
		return Precise{}, ErrArithmetic
	}
	v := new(uint256.Int).Mul(uint256.NewInt(num), preciseOne)
	v.Div(v, uint256.NewInt(den))
	return Precise{v}, nil
}

// Mul returns p * q.
func (p Precise) Mul(q Precise) (Precise, error) {
	v, overflow := new(uint256.Int).MulOverflow(p.value, q.value)
	if overflow {
		return Precise{}, ErrArithmetic
	}
	v.Div(v, preciseOne)
	return Precise{v}, nil
}

// Div returns p / q.
func (p Precise) Div(q Precise) (Precise, error) {
	if q.value == nil || q.value.IsZero() {
		return Precise{}, ErrArithmetic
	}
	v, overflow := new(uint256.Int).MulOverflow(p.value, preciseOne)
	if overflow {
		return Precise{}, ErrArithmetic
	}
	v.Div(v, q.value)
	return Precise{v}, nil
}

// Pow returns p^exp computed by repeated squaring.
func (p Precise) Pow(exp uint32) (Precise, error) {
	result := Precise{new(uint256.Int).Set(preciseOne)}
	base := Precise{new(uint256.Int).Set(p.value)}

	var err error
	for exp > 0 {
		if exp&1 == 1 {
			if result, err = result.Mul(base); err != nil {
				return Precise{}, err
			}
		}
		exp >>= 1
		if exp > 0 {
			if base, err = base.Mul(base); err != nil {
				return Precise{}, err
			}
		}
	}
	return result, nil
}

// Floor returns the integer part of p, failing if it does not fit 64 bits.
func (p Precise) Floor() (uint64, error) {
	v := new(uint256.Int).Div(p.value, preciseOne)
	return toUint64(v, false)
}

// String returns the integer part of the fixed point representation.
func (p Precise) String() string {
	if p.value == nil {
		return "0"
	}
	return p.value.ToBig().String()
}
