package keeper

import (
	"context"
	"errors"
	"fmt"

	"cosmossdk.io/collections"
	corestore "cosmossdk.io/collections/corecompat"
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	"cosmossdk.io/math"

	banktypes "biddingplatform/x/bank/types"
	"biddingplatform/x/bidding/types"
)

type Keeper struct {
	denom      string
	bankKeeper types.BankKeeper
	logger     log.Logger

	Schema       collections.Schema
	ContractInfo collections.Item[types.ContractInfo]
	State        collections.Item[types.State]
	Rounds       collections.Map[uint64, types.Round]
	Players      collections.Map[string, types.Player]
	Bids         collections.Map[string, []types.Bid]
}

func NewKeeper(storeService corestore.KVStoreService, bankKeeper types.BankKeeper, denom string, logger log.Logger) Keeper {
	if storeService == nil {
		panic("bidding keeper: store service is nil")
	}
	if bankKeeper == nil {
		panic("bidding keeper: bank keeper is nil")
	}
	if denom == "" {
		denom = types.DefaultDenom
	}
	if err := banktypes.ValidateDenom(denom); err != nil {
		panic(fmt.Sprintf("bidding keeper: %v", err))
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}

	sb := collections.NewSchemaBuilder(storeService)
	k := Keeper{
		denom:        denom,
		bankKeeper:   bankKeeper,
		logger:       logger,
		ContractInfo: collections.NewItem(sb, types.ContractInfoKey, "contract_info", collections.NewJSONValueCodec[types.ContractInfo]()),
		State:        collections.NewItem(sb, types.StateKey, "state", collections.NewJSONValueCodec[types.State]()),
		Rounds:       collections.NewMap(sb, types.RoundsPrefix, "rounds", collections.Uint64Key, collections.NewJSONValueCodec[types.Round]()),
		Players:      collections.NewMap(sb, types.PlayersPrefix, "players", collections.StringKey, collections.NewJSONValueCodec[types.Player]()),
		Bids:         collections.NewMap(sb, types.BidsPrefix, "bids", collections.StringKey, collections.NewJSONValueCodec[[]types.Bid]()),
	}
	schema, err := sb.Build()
	if err != nil {
		panic(fmt.Sprintf("bidding keeper: %v", err))
	}
	k.Schema = schema
	return k
}

func (k Keeper) Logger() log.Logger {
	return k.logger.With("module", "x/"+types.ModuleName)
}

// Denom is the only denomination counted as a deposit.
func (k Keeper) Denom() string { return k.denom }

func (k Keeper) coin(amount math.Uint) types.Coin {
	return banktypes.NewCoin(k.denom, amount)
}

// Deposit returns the attached amount in the tracked denomination; other
// denominations are ignored.
func (k Keeper) Deposit(funds banktypes.Coins) math.Uint {
	return funds.AmountOf(k.denom)
}

func storageErr(err error, what string) error {
	return errorsmod.Wrapf(types.ErrStorage, "%s: %v", what, err)
}

func (k Keeper) loadState(ctx context.Context) (types.State, error) {
	st, err := k.State.Get(ctx)
	if errors.Is(err, collections.ErrNotFound) {
		return types.State{}, types.ErrNotInstantiated
	}
	if err != nil {
		return types.State{}, storageErr(err, "load state")
	}
	return st, nil
}

func roundKey(n math.Uint) (uint64, error) {
	if n.IsNil() || !n.BigInt().IsUint64() {
		return 0, errorsmod.Wrapf(types.ErrStorage, "round number %s out of range", n)
	}
	return n.Uint64(), nil
}

// activeRound loads the global state and the round it points at.
func (k Keeper) activeRound(ctx context.Context) (types.State, uint64, types.Round, error) {
	st, err := k.loadState(ctx)
	if err != nil {
		return types.State{}, 0, types.Round{}, err
	}
	id, err := roundKey(st.RoundNumber)
	if err != nil {
		return types.State{}, 0, types.Round{}, err
	}
	r, err := k.Rounds.Get(ctx, id)
	if err != nil {
		return types.State{}, 0, types.Round{}, storageErr(err, fmt.Sprintf("load round %d", id))
	}
	return st, id, r, nil
}

// bidHistory returns the accepted bids of addr, empty when it never bid.
func (k Keeper) bidHistory(ctx context.Context, addr string) ([]types.Bid, error) {
	bids, err := k.Bids.Get(ctx, addr)
	if errors.Is(err, collections.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr(err, "load bids")
	}
	return bids, nil
}

func (k Keeper) player(ctx context.Context, addr string) (types.Player, bool, error) {
	p, err := k.Players.Get(ctx, addr)
	if errors.Is(err, collections.ErrNotFound) {
		return types.Player{}, false, nil
	}
	if err != nil {
		return types.Player{}, false, storageErr(err, "load player")
	}
	return p, true, nil
}

func (k Keeper) setPlayer(ctx context.Context, addr string, amount math.Uint) error {
	if err := k.Players.Set(ctx, addr, types.Player{RetractableAmount: k.coin(amount)}); err != nil {
		return storageErr(err, "save player")
	}
	return nil
}
