package keeper

import (
	"context"
	"errors"

	"cosmossdk.io/collections"

	"biddingplatform/x/bidding/types"
)

type QueryServer interface {
	TotalBid(ctx context.Context, req *types.QueryTotalBidRequest) (*types.QueryTotalBidResponse, error)
	HighestBid(ctx context.Context, req *types.QueryHighestBidRequest) (*types.QueryHighestBidResponse, error)
	Winner(ctx context.Context, req *types.QueryWinnerRequest) (*types.QueryWinnerResponse, error)
	ContractInfo(ctx context.Context, req *types.QueryContractInfoRequest) (*types.QueryContractInfoResponse, error)
}

type queryServer struct {
	Keeper
}

var _ QueryServer = queryServer{}

func NewQueryServerImpl(k Keeper) QueryServer {
	return &queryServer{Keeper: k}
}

func (q queryServer) TotalBid(ctx context.Context, req *types.QueryTotalBidRequest) (*types.QueryTotalBidResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidRequest.Wrap("nil request")
	}
	if err := types.ValidateAddress(req.Address); err != nil {
		return nil, err
	}
	v, err := q.Keeper.TotalBid(ctx, req.Address)
	if err != nil {
		return nil, err
	}
	return &types.QueryTotalBidResponse{Value: v}, nil
}

func (q queryServer) HighestBid(ctx context.Context, req *types.QueryHighestBidRequest) (*types.QueryHighestBidResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidRequest.Wrap("nil request")
	}
	addr, v, err := q.Keeper.HighestBid(ctx)
	if err != nil {
		return nil, err
	}
	return &types.QueryHighestBidResponse{Address: addr, Value: v}, nil
}

func (q queryServer) Winner(ctx context.Context, req *types.QueryWinnerRequest) (*types.QueryWinnerResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidRequest.Wrap("nil request")
	}
	w, err := q.Keeper.Winner(ctx)
	if err != nil {
		return nil, err
	}
	return &types.QueryWinnerResponse{Address: w}, nil
}

func (q queryServer) ContractInfo(ctx context.Context, req *types.QueryContractInfoRequest) (*types.QueryContractInfoResponse, error) {
	if req == nil {
		return nil, types.ErrInvalidRequest.Wrap("nil request")
	}
	info, err := q.Keeper.ContractInfo.Get(ctx)
	if errors.Is(err, collections.ErrNotFound) {
		return nil, types.ErrNotInstantiated
	}
	if err != nil {
		return nil, storageErr(err, "load contract info")
	}
	return &types.QueryContractInfoResponse{ContractInfo: info}, nil
}
