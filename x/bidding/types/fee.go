package types

import "cosmossdk.io/math"

// Fee is the owner's cut of a deposit: floor(amount / FeeDivisor).
func Fee(amount math.Uint) math.Uint {
	if amount.IsNil() {
		return math.ZeroUint()
	}
	return amount.QuoUint64(FeeDivisor)
}
