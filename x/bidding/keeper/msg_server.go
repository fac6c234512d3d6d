package keeper

import (
	"context"

	banktypes "biddingplatform/x/bank/types"
	"biddingplatform/x/bidding/types"
)

type MsgServer interface {
	Instantiate(ctx context.Context, req *types.MsgInstantiate) (*types.MsgInstantiateResponse, error)
	Bid(ctx context.Context, req *types.MsgBid) (*types.MsgBidResponse, error)
	Close(ctx context.Context, req *types.MsgClose) (*types.MsgCloseResponse, error)
	Retract(ctx context.Context, req *types.MsgRetract) (*types.MsgRetractResponse, error)
}

// msgServer escrows attached funds in the module account, runs the auction
// step and pays out the transfers it returns. All three happen on the same
// store, so a failure in any of them leaves the caller's branch to be dropped.
type msgServer struct {
	Keeper
}

var _ MsgServer = msgServer{}

func NewMsgServerImpl(k Keeper) MsgServer {
	return &msgServer{Keeper: k}
}

func (m msgServer) escrow(ctx context.Context, from string, funds banktypes.Coins) error {
	deposit := m.Deposit(funds)
	if deposit.IsZero() {
		return nil
	}
	return m.bankKeeper.SendCoins(ctx, from, types.ModuleAccount, banktypes.Coins{m.coin(deposit)})
}

func (m msgServer) settle(ctx context.Context, transfers []types.Transfer) error {
	for _, t := range transfers {
		if t.Amount.IsZero() {
			continue
		}
		if err := m.bankKeeper.SendCoins(ctx, types.ModuleAccount, t.ToAddress, banktypes.Coins{t.Amount}); err != nil {
			return err
		}
	}
	return nil
}

func (m msgServer) Instantiate(ctx context.Context, req *types.MsgInstantiate) (*types.MsgInstantiateResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidRequest.Wrap("nil request")
	}
	if err := req.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := m.escrow(ctx, req.Sender, req.Funds); err != nil {
		return nil, err
	}
	transfers, err := m.Keeper.Instantiate(ctx, req.Sender, m.Deposit(req.Funds), req.Owner)
	if err != nil {
		return nil, err
	}
	if err := m.settle(ctx, transfers); err != nil {
		return nil, err
	}
	return &types.MsgInstantiateResponse{Transfers: transfers}, nil
}

func (m msgServer) Bid(ctx context.Context, req *types.MsgBid) (*types.MsgBidResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidRequest.Wrap("nil request")
	}
	if err := req.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := m.escrow(ctx, req.Sender, req.Funds); err != nil {
		return nil, err
	}
	total, transfers, err := m.Keeper.Bid(ctx, req.Sender, m.Deposit(req.Funds))
	if err != nil {
		return nil, err
	}
	if err := m.settle(ctx, transfers); err != nil {
		return nil, err
	}
	return &types.MsgBidResponse{Total: m.coin(total), Transfers: transfers}, nil
}

func (m msgServer) Close(ctx context.Context, req *types.MsgClose) (*types.MsgCloseResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidRequest.Wrap("nil request")
	}
	if err := req.ValidateBasic(); err != nil {
		return nil, err
	}
	winner, transfers, err := m.Keeper.Close(ctx, req.Sender)
	if err != nil {
		return nil, err
	}
	if err := m.settle(ctx, transfers); err != nil {
		return nil, err
	}
	return &types.MsgCloseResponse{Winner: winner, Transfers: transfers}, nil
}

func (m msgServer) Retract(ctx context.Context, req *types.MsgRetract) (*types.MsgRetractResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidRequest.Wrap("nil request")
	}
	if err := req.ValidateBasic(); err != nil {
		return nil, err
	}
	transfers, err := m.Keeper.Retract(ctx, req.Sender, req.Receiver)
	if err != nil {
		return nil, err
	}
	if err := m.settle(ctx, transfers); err != nil {
		return nil, err
	}
	return &types.MsgRetractResponse{Transfers: transfers}, nil
}
