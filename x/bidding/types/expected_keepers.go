package types

import (
	"context"

	banktypes "biddingplatform/x/bank/types"
)

// BankKeeper defines the expected interface needed for escrow management.
type BankKeeper interface {
	SendCoins(ctx context.Context, from, to string, amt banktypes.Coins) error
}
