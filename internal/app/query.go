package app

import (
	"context"
	"errors"
	"strings"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"
	abci "github.com/cometbft/cometbft/abci/types"

	banktypes "biddingplatform/x/bank/types"
	biddingtypes "biddingplatform/x/bidding/types"
)

// AccountResponse is returned by /account/<addr>.
type AccountResponse struct {
	Address  string          `json:"address"`
	Balances banktypes.Coins `json:"balances"`
	Nonce    uint64          `json:"nonce"`
	PubKey   []byte          `json:"pubKey,omitempty"`
}

// BalanceResponse is returned by /bank/balance/<addr>/<denom>.
type BalanceResponse struct {
	Address string         `json:"address"`
	Balance banktypes.Coin `json:"balance"`
}

// Query serves reads against the last committed state.
//
// Paths:
//   - /bidding/total_bid/<addr>
//   - /bidding/highest_bid
//   - /bidding/winner
//   - /bidding/contract_info
//   - /bank/balance/<addr>/<denom>
//   - /account/<addr>
func (a *App) Query(_ context.Context, req *abci.QueryRequest) (*abci.QueryResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	// An unbound context reads the committed store.
	ctx := context.Background()
	height, err := a.committedHeight(ctx)
	if err != nil {
		return queryErr(err, 0), nil
	}

	value, err := a.query(ctx, strings.TrimSpace(req.Path))
	if err != nil {
		return queryErr(err, height), nil
	}
	return &abci.QueryResponse{Code: 0, Value: value, Height: height}, nil
}

func (a *App) query(ctx context.Context, path string) ([]byte, error) {
	switch {
	case strings.HasPrefix(path, "/bidding/total_bid/"):
		addr := strings.TrimPrefix(path, "/bidding/total_bid/")
		res, err := a.biddingQueries.TotalBid(ctx, &biddingtypes.QueryTotalBidRequest{Address: addr})
		if err != nil {
			return nil, err
		}
		return mustJSON(res), nil

	case path == "/bidding/highest_bid":
		res, err := a.biddingQueries.HighestBid(ctx, &biddingtypes.QueryHighestBidRequest{})
		if err != nil {
			return nil, err
		}
		return mustJSON(res), nil

	case path == "/bidding/winner":
		res, err := a.biddingQueries.Winner(ctx, &biddingtypes.QueryWinnerRequest{})
		if err != nil {
			return nil, err
		}
		return mustJSON(res), nil

	case path == "/bidding/contract_info":
		res, err := a.biddingQueries.ContractInfo(ctx, &biddingtypes.QueryContractInfoRequest{})
		if err != nil {
			return nil, err
		}
		return mustJSON(res), nil

	case strings.HasPrefix(path, "/bank/balance/"):
		parts := strings.Split(strings.TrimPrefix(path, "/bank/balance/"), "/")
		if len(parts) != 2 {
			return nil, banktypes.ErrInvalidRequest.Wrap("expected /bank/balance/<addr>/<denom>")
		}
		if err := banktypes.ValidateDenom(parts[1]); err != nil {
			return nil, err
		}
		bal, err := a.BankKeeper.GetBalance(ctx, parts[0], parts[1])
		if err != nil {
			return nil, err
		}
		return mustJSON(BalanceResponse{Address: parts[0], Balance: bal}), nil

	case strings.HasPrefix(path, "/account/"):
		addr := strings.TrimPrefix(path, "/account/")
		bals, err := a.BankKeeper.GetAllBalances(ctx, addr)
		if err != nil {
			return nil, err
		}
		res := AccountResponse{Address: addr, Balances: bals}
		if res.Balances == nil {
			res.Balances = banktypes.Coins{}
		}
		nonce, err := a.Nonces.Get(ctx, addr)
		if err != nil && !errors.Is(err, collections.ErrNotFound) {
			return nil, err
		}
		res.Nonce = nonce
		pub, err := a.AccountKeys.Get(ctx, addr)
		if err != nil && !errors.Is(err, collections.ErrNotFound) {
			return nil, err
		}
		res.PubKey = pub
		return mustJSON(res), nil

	default:
		return nil, errorsmod.Wrapf(biddingtypes.ErrInvalidRequest, "unknown query path %q", path)
	}
}

func queryErr(err error, height int64) *abci.QueryResponse {
	codespace, code, logMsg := errorsmod.ABCIInfo(err, false)
	return &abci.QueryResponse{Code: code, Codespace: codespace, Log: logMsg, Height: height}
}
