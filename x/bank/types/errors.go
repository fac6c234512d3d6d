package types

import errorsmod "cosmossdk.io/errors"

// x/bank sentinel errors.
var (
	ErrInvalidRequest    = errorsmod.Register(ModuleName, 1, "invalid request")
	ErrInsufficientFunds = errorsmod.Register(ModuleName, 2, "insufficient funds")
	ErrInvalidCoins      = errorsmod.Register(ModuleName, 3, "invalid coins")
	ErrInvalidAddress    = errorsmod.Register(ModuleName, 4, "invalid address")
)
