package program

import "math"

// DefaultTokenPrice is the exchange rate used when no price is configured.
const DefaultTokenPrice uint32 = 2

// SwapWithoutFeesResult is the computed exchange pair for a fee-less swap.
type SwapWithoutFeesResult struct {
	SourceAmountSwapped      uint32
	DestinationAmountSwapped uint32
}

// swapWithoutFees applies the fixed-price exchange rate. Zero operands are
// rejected as degenerate trades, and the multiplication is overflow-checked
// over the counter width.
func swapWithoutFees(amount, price uint32) (SwapWithoutFeesResult, *TransitionError) {
	if amount == 0 || price == 0 {
		return SwapWithoutFeesResult{}, ErrZeroAmount
	}
	dest := uint64(amount) * uint64(price)
	if dest > math.MaxUint32 {
		return SwapWithoutFeesResult{}, ErrArithmeticOverflow
	}
	return SwapWithoutFeesResult{
		SourceAmountSwapped:      amount,
		DestinationAmountSwapped: uint32(dest),
	}, nil
}
