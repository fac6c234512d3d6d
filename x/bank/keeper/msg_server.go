package keeper

import (
	"context"

	"biddingplatform/x/bank/types"
)

type MsgServer interface {
	Mint(ctx context.Context, req *types.MsgMint) (*types.MsgMintResponse, error)
	Send(ctx context.Context, req *types.MsgSend) (*types.MsgSendResponse, error)
}

type msgServer struct {
	Keeper
}

var _ MsgServer = msgServer{}

func NewMsgServerImpl(k Keeper) MsgServer {
	return &msgServer{Keeper: k}
}

func (m msgServer) Mint(ctx context.Context, req *types.MsgMint) (*types.MsgMintResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidRequest.Wrap("nil request")
	}
	if err := req.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := m.MintCoins(ctx, req.To, types.Coins{types.NewCoin(req.Denom, req.Amount)}); err != nil {
		return nil, err
	}
	return &types.MsgMintResponse{}, nil
}

func (m msgServer) Send(ctx context.Context, req *types.MsgSend) (*types.MsgSendResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidRequest.Wrap("nil request")
	}
	if err := req.ValidateBasic(); err != nil {
		return nil, err
	}
	if err := m.SendCoins(ctx, req.From, req.To, types.Coins{types.NewCoin(req.Denom, req.Amount)}); err != nil {
		return nil, err
	}
	return &types.MsgSendResponse{}, nil
}
