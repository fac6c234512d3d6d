package types

import (
	"cosmossdk.io/collections"

	banktypes "biddingplatform/x/bank/types"
)

const (
	// ModuleName defines the module name.
	ModuleName = "bidding"

	// StoreKey defines the primary module store key.
	StoreKey = ModuleName

	// DefaultDenom is the denomination bids are counted in unless configured
	// otherwise.
	DefaultDenom = "uatom"

	// FeeDivisor sets the fee to 1/FeeDivisor of every deposit.
	FeeDivisor = 20

	// ContractName and ContractVersion are recorded at instantiation.
	ContractName    = "biddingplatform"
	ContractVersion = "0.1.0"
)

// ModuleAccount holds every deposit until it is paid out by close or retract.
var ModuleAccount = banktypes.ModuleAccount(ModuleName)

var (
	// ContractInfoKey stores the ContractInfo record.
	ContractInfoKey = collections.NewPrefix(0x00)

	// StateKey stores the singleton State.
	StateKey = collections.NewPrefix(0x01)

	// RoundsPrefix stores Round by round number.
	RoundsPrefix = collections.NewPrefix(0x02)

	// PlayersPrefix stores Player by address.
	PlayersPrefix = collections.NewPrefix(0x03)

	// BidsPrefix stores the bid history ([]Bid) by address.
	BidsPrefix = collections.NewPrefix(0x04)
)
