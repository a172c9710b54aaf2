package domain

import "github.com/tswap-network/tswap-engine/pkg/mathutil"

// ShiftPrice moves the starting price of the given config by the given number
// of steps along its curve.
func ShiftPrice(
	config PoolConfig, times uint32, direction Direction,
) (uint64, error) {
	switch config.CurveType {
	case CurveTypeLinear:
		return shiftLinear(config.StartingPrice, config.Delta, times, direction)
	case CurveTypeExponential:
		return shiftExponential(
			config.StartingPrice, config.Delta, times, direction,
		)
	default:
		return 0, ErrInvalidPoolConfig
	}
}

func shiftLinear(
	startingPrice, delta uint64, times uint32, direction Direction,
) (uint64, error) {
	step, err := mathutil.Mul(delta, uint64(times))
	if err != nil {
		return 0, err
	}
	if direction == DirectionUp {
		return mathutil.Add(startingPrice, step)
	}
	return mathutil.Sub(startingPrice, step)
}

// shiftExponential computes startingPrice * (1 + delta/10000)^times, or the
// inverse for the down direction, on 12 decimals fixed point numbers.
// A down shift that truncates to zero is an error, never a price.
func shiftExponential(
	startingPrice, delta uint64, times uint32, direction Direction,
) (uint64, error) {
	rate, err := mathutil.Add(mathutil.HundredPctBps, delta)
	if err != nil {
		return 0, err
	}
	base, err := mathutil.NewPreciseRatio(rate, mathutil.HundredPctBps)
	if err != nil {
		return 0, err
	}
	factor, err := base.Pow(times)
	if err != nil {
		return 0, err
	}

	price := mathutil.NewPrecise(startingPrice)
	if direction == DirectionUp {
		shifted, err := price.Mul(factor)
		if err != nil {
			return 0, err
		}
		return shifted.Floor()
	}

	shifted, err := price.Div(factor)
	if err != nil {
		return 0, err
	}
	p, err := shifted.Floor()
	if err != nil {
		return 0, err
	}
	if p == 0 {
		return 0, ErrArithmeticError
	}
	return p, nil
}

// CurrentPrice returns the price at which a taker on the given side would
// trade against the pool right now.
//
// Trade pools quote from whichever side has the excess volume, with a one
// step offset on sells that produces the bid/ask spread.
func (p *Pool) CurrentPrice(side TakerSide) (uint64, error) {
	switch {
	case p.Config.PoolType == PoolTypeToken && side == TakerSideSell:
		return ShiftPrice(p.Config, p.TakerSellCount, DirectionDown)

	case p.Config.PoolType == PoolTypeNFT && side == TakerSideBuy:
		return ShiftPrice(p.Config, p.TakerBuyCount, DirectionUp)

	case p.Config.PoolType == PoolTypeTrade:
		offset := uint32(0)
		if side == TakerSideSell {
			offset = 1
		}
		sellCount, err := mathutil.AddUint32(p.TakerSellCount, offset)
		if err != nil {
			return 0, err
		}
		if p.TakerBuyCount > sellCount {
			return ShiftPrice(p.Config, p.TakerBuyCount-sellCount, DirectionUp)
		}
		return ShiftPrice(p.Config, sellCount-p.TakerBuyCount, DirectionDown)

	default:
		return 0, ErrWrongPoolType
	}
}
