package types

import "cosmossdk.io/collections"

const (
	// ModuleName defines the module name.
	ModuleName = "bank"

	// StoreKey defines the primary module store key.
	StoreKey = ModuleName
)

// BalancesPrefix stores balances by (address, denom).
var BalancesPrefix = collections.NewPrefix(0x10)
