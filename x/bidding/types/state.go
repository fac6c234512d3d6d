package types

import (
	"cosmossdk.io/math"

	banktypes "biddingplatform/x/bank/types"
)

type Coin = banktypes.Coin

// State is the contract singleton. Owner never changes after instantiation
// and RoundNumber stays at zero: rounds do not advance.
type State struct {
	Owner       string    `json:"owner"`
	RoundNumber math.Uint `json:"round_number"`
}

// Round is one auction period. Winner is nil while bidding is open.
type Round struct {
	TopBidder  string  `json:"top_bidder"`
	HighestBid Coin    `json:"highest_bid"`
	Winner     *string `json:"winner"`
}

func (r Round) IsClosed() bool {
	return r.Winner != nil
}

// Player is the amount an address may currently withdraw. It is overwritten,
// never accumulated.
type Player struct {
	RetractableAmount Coin `json:"retractable_amount"`
}

// Bid is one accepted deposit, net of fee.
type Bid struct {
	Value Coin `json:"value"`
}

// SumBids totals a bid history in denom.
func SumBids(bids []Bid) math.Uint {
	total := math.ZeroUint()
	for _, b := range bids {
		if b.Value.Amount.IsNil() {
			continue
		}
		total = total.Add(b.Value.Amount)
	}
	return total
}

type ContractInfo struct {
	Contract string `json:"contract"`
	Version  string `json:"version"`
}

// Transfer directs the settlement layer to pay Amount out of the module
// escrow account to ToAddress.
type Transfer struct {
	ToAddress string `json:"to_address"`
	Amount    Coin   `json:"amount"`
}
