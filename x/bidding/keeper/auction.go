package keeper

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"

	banktypes "biddingplatform/x/bank/types"
	"biddingplatform/x/bidding/types"
)

// Instantiate creates the contract and opens round zero with caller as the
// leader holding deposit (net of the fee paid to a designated owner).
//
// The returned transfers must be paid out of the module account by the
// caller; Instantiate itself moves no funds.
func (k Keeper) Instantiate(ctx context.Context, caller string, deposit math.Uint, owner *string) ([]types.Transfer, error) {
	exists, err := k.State.Has(ctx)
	if err != nil {
		return nil, storageErr(err, "load state")
	}
	if exists {
		return nil, types.ErrAlreadyInstantiated
	}
	if deposit.IsNil() {
		deposit = math.ZeroUint()
	}

	var transfers []types.Transfer
	fee := math.ZeroUint()
	roundOwner := caller
	if owner != nil {
		if err := types.ValidateAddress(*owner); err != nil {
			return nil, err
		}
		if *owner != caller {
			fee = types.Fee(deposit)
			transfers = append(transfers, types.Transfer{ToAddress: *owner, Amount: k.coin(fee)})
		}
		roundOwner = *owner
	}

	net := deposit.Sub(fee)
	if err := k.ContractInfo.Set(ctx, types.ContractInfo{Contract: types.ContractName, Version: types.ContractVersion}); err != nil {
		return nil, storageErr(err, "save contract info")
	}
	if err := k.Bids.Set(ctx, caller, []types.Bid{{Value: k.coin(net)}}); err != nil {
		return nil, storageErr(err, "save bids")
	}
	if err := k.setPlayer(ctx, caller, net); err != nil {
		return nil, err
	}
	st := types.State{Owner: roundOwner, RoundNumber: math.ZeroUint()}
	if err := k.Rounds.Set(ctx, 0, types.Round{TopBidder: caller, HighestBid: k.coin(net)}); err != nil {
		return nil, storageErr(err, "save round")
	}
	if err := k.State.Set(ctx, st); err != nil {
		return nil, storageErr(err, "save state")
	}

	k.Logger().Info("contract instantiated", "owner", roundOwner, "leader", caller, "highest_bid", net.String())
	return transfers, nil
}

// Bid adds deposit, net of fee, to caller's running total. The bid is accepted
// only when that total strictly exceeds the current highest bid. The fee is
// owed to the owner either way, but a rejected bid aborts the whole operation.
func (k Keeper) Bid(ctx context.Context, caller string, deposit math.Uint) (math.Uint, []types.Transfer, error) {
	st, id, round, err := k.activeRound(ctx)
	if err != nil {
		return math.Uint{}, nil, err
	}

	if deposit.IsNil() {
		deposit = math.ZeroUint()
	}
	fee := types.Fee(deposit)
	transfers := []types.Transfer{{ToAddress: st.Owner, Amount: k.coin(fee)}}
	net := deposit.Sub(fee)

	bids, err := k.bidHistory(ctx, caller)
	if err != nil {
		return math.Uint{}, nil, err
	}
	total, err := banktypes.AddAmounts(net, types.SumBids(bids))
	if err != nil {
		return math.Uint{}, nil, errorsmod.Wrap(types.ErrInvalidRequest, err.Error())
	}
	if total.LTE(round.HighestBid.Amount) {
		return math.Uint{}, nil, errorsmod.Wrapf(types.ErrSmallBid, "total %s does not exceed %s", total, round.HighestBid.Amount)
	}

	bids = append(bids, types.Bid{Value: k.coin(net)})
	if err := k.Bids.Set(ctx, caller, bids); err != nil {
		return math.Uint{}, nil, storageErr(err, "save bids")
	}
	if err := k.setPlayer(ctx, caller, total); err != nil {
		return math.Uint{}, nil, err
	}
	round.TopBidder = caller
	round.HighestBid = k.coin(total)
	if err := k.Rounds.Set(ctx, id, round); err != nil {
		return math.Uint{}, nil, storageErr(err, "save round")
	}

	k.Logger().Debug("bid accepted", "bidder", caller, "total", total.String())
	return total, transfers, nil
}

// Close settles the active round: the highest bid is paid to the owner, the
// top bidder becomes the winner and every bid history is erased. Closing an
// already settled round pays the owner again.
func (k Keeper) Close(ctx context.Context, caller string) (string, []types.Transfer, error) {
	st, id, round, err := k.activeRound(ctx)
	if err != nil {
		return "", nil, err
	}
	if caller != st.Owner {
		return "", nil, errorsmod.Wrapf(types.ErrUnauthorized, "%s is not the owner", caller)
	}

	transfers := []types.Transfer{{ToAddress: st.Owner, Amount: k.coin(round.HighestBid.Amount)}}
	winner := round.TopBidder
	round.Winner = &winner
	if err := k.Rounds.Set(ctx, id, round); err != nil {
		return "", nil, storageErr(err, "save round")
	}
	if err := k.setPlayer(ctx, winner, math.ZeroUint()); err != nil {
		return "", nil, err
	}
	if err := k.Bids.Clear(ctx, nil); err != nil {
		return "", nil, storageErr(err, "clear bids")
	}

	k.Logger().Info("round closed", "round", id, "winner", winner, "highest_bid", round.HighestBid.Amount.String())
	return winner, transfers, nil
}

// Retract pays caller's retractable amount to receiver (caller when nil) once
// the round is settled. The record reset afterwards is the top bidder's, not
// the caller's.
func (k Keeper) Retract(ctx context.Context, caller string, receiver *string) ([]types.Transfer, error) {
	_, _, round, err := k.activeRound(ctx)
	if err != nil {
		return nil, err
	}
	if !round.IsClosed() {
		return nil, types.ErrBiddingIsOpen
	}

	p, found, err := k.player(ctx, caller)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errorsmod.Wrapf(types.ErrPlayerIsNotFound, "%s", caller)
	}

	to := caller
	if receiver != nil {
		if err := types.ValidateAddress(*receiver); err != nil {
			return nil, err
		}
		to = *receiver
	}
	amount := p.RetractableAmount.Amount
	if amount.IsNil() {
		amount = math.ZeroUint()
	}
	transfers := []types.Transfer{{ToAddress: to, Amount: k.coin(amount)}}

	if err := k.setPlayer(ctx, round.TopBidder, math.ZeroUint()); err != nil {
		return nil, err
	}

	k.Logger().Debug("retracted", "player", caller, "receiver", to, "amount", amount.String())
	return transfers, nil
}

// TotalBid sums the bid history of addr; zero when there is none.
func (k Keeper) TotalBid(ctx context.Context, addr string) (types.Coin, error) {
	bids, err := k.bidHistory(ctx, addr)
	if err != nil {
		return types.Coin{}, err
	}
	return k.coin(types.SumBids(bids)), nil
}

// HighestBid returns the leader of the active round and their total.
func (k Keeper) HighestBid(ctx context.Context) (string, types.Coin, error) {
	_, _, round, err := k.activeRound(ctx)
	if err != nil {
		return "", types.Coin{}, err
	}
	return round.TopBidder, round.HighestBid, nil
}

// Winner returns the winner of the active round, or "" while it is open.
func (k Keeper) Winner(ctx context.Context) (string, error) {
	_, _, round, err := k.activeRound(ctx)
	if err != nil {
		return "", err
	}
	if round.Winner == nil {
		return "", nil
	}
	return *round.Winner, nil
}
