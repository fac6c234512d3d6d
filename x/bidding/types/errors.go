package types

import errorsmod "cosmossdk.io/errors"

// x/bidding sentinel errors.
var (
	ErrStorage             = errorsmod.Register(ModuleName, 1, "storage error")
	ErrSmallBid            = errorsmod.Register(ModuleName, 2, "The bid is too small")
	ErrUnauthorized        = errorsmod.Register(ModuleName, 3, "Sender does not have access permissions!")
	ErrBiddingIsOpen       = errorsmod.Register(ModuleName, 4, "Bidding is not closed!")
	ErrPlayerIsNotFound    = errorsmod.Register(ModuleName, 5, "Player is not found!")
	ErrInvalidAddress      = errorsmod.Register(ModuleName, 6, "invalid address")
	ErrInvalidRequest      = errorsmod.Register(ModuleName, 7, "invalid request")
	ErrAlreadyInstantiated = errorsmod.Register(ModuleName, 8, "contract already instantiated")
	ErrNotInstantiated     = errorsmod.Register(ModuleName, 9, "contract not instantiated")
)
