package types

const (
	EventTypeBidding  = "bidding"
	EventTypeTransfer = "transfer"

	AttributeKeyMethod    = "method"
	AttributeKeySender    = "sender"
	AttributeKeyRecipient = "recipient"
	AttributeKeyAmount    = "amount"
	AttributeKeyWinner    = "winner"
	AttributeKeyTopBidder = "top_bidder"
	AttributeKeyHighest   = "highest_bid"

	MethodInstantiate = "instantiate"
	MethodBid         = "bid"
	MethodClose       = "close"
	MethodRetract     = "retract"
)
