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

	"biddingplatform/x/bank/types"
)

type Keeper struct {
	logger log.Logger

	Schema   collections.Schema
	Balances collections.Map[collections.Pair[string, string], math.Uint]
}

func NewKeeper(storeService corestore.KVStoreService, logger log.Logger) Keeper {
	if storeService == nil {
		panic("bank keeper: store service is nil")
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}
	sb := collections.NewSchemaBuilder(storeService)
	k := Keeper{
		logger: logger,
		Balances: collections.NewMap(
			sb, types.BalancesPrefix, "balances",
			collections.PairKeyCodec(collections.StringKey, collections.StringKey),
			types.UintValue,
		),
	}
	schema, err := sb.Build()
	if err != nil {
		panic(fmt.Sprintf("bank keeper: %v", err))
	}
	k.Schema = schema
	return k
}

func (k Keeper) Logger() log.Logger {
	return k.logger.With("module", "x/"+types.ModuleName)
}

// GetBalance returns the balance of addr in denom, zero when the account holds
// none.
func (k Keeper) GetBalance(ctx context.Context, addr, denom string) (types.Coin, error) {
	amt, err := k.Balances.Get(ctx, collections.Join(addr, denom))
	if errors.Is(err, collections.ErrNotFound) {
		return types.ZeroCoin(denom), nil
	}
	if err != nil {
		return types.Coin{}, err
	}
	return types.NewCoin(denom, amt), nil
}

// GetAllBalances returns every non-zero balance of addr ordered by denom.
func (k Keeper) GetAllBalances(ctx context.Context, addr string) (types.Coins, error) {
	var out types.Coins
	rng := collections.NewPrefixedPairRange[string, string](addr)
	err := k.Balances.Walk(ctx, rng, func(key collections.Pair[string, string], amt math.Uint) (bool, error) {
		out = append(out, types.NewCoin(key.K2(), amt))
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (k Keeper) setBalance(ctx context.Context, addr string, c types.Coin) error {
	key := collections.Join(addr, c.Denom)
	if c.IsZero() {
		return k.Balances.Remove(ctx, key)
	}
	return k.Balances.Set(ctx, key, c.Amount)
}

// MintCoins credits coins to addr out of thin air.
func (k Keeper) MintCoins(ctx context.Context, addr string, coins types.Coins) error {
	if err := coins.Validate(); err != nil {
		return err
	}
	for _, c := range coins.NonZero() {
		bal, err := k.GetBalance(ctx, addr, c.Denom)
		if err != nil {
			return err
		}
		sum, err := types.AddAmounts(bal.Amount, c.Amount)
		if err != nil {
			return errorsmod.Wrapf(err, "mint to %s", addr)
		}
		if err := k.setBalance(ctx, addr, types.NewCoin(c.Denom, sum)); err != nil {
			return err
		}
	}
	return nil
}

// SendCoins moves coins from one account to another. Zero amounts are
// skipped. On insufficient funds nothing is written for the failing denom and
// the error is returned; callers run inside a store branch and drop it.
func (k Keeper) SendCoins(ctx context.Context, from, to string, coins types.Coins) error {
	if err := coins.Validate(); err != nil {
		return err
	}
	for _, c := range coins.NonZero() {
		fromBal, err := k.GetBalance(ctx, from, c.Denom)
		if err != nil {
			return err
		}
		if fromBal.Amount.LT(c.Amount) {
			return errorsmod.Wrapf(types.ErrInsufficientFunds, "%s has %s, needs %s", from, fromBal, c)
		}
		if err := k.setBalance(ctx, from, types.NewCoin(c.Denom, fromBal.Amount.Sub(c.Amount))); err != nil {
			return err
		}
		toBal, err := k.GetBalance(ctx, to, c.Denom)
		if err != nil {
			return err
		}
		sum, err := types.AddAmounts(toBal.Amount, c.Amount)
		if err != nil {
			return errorsmod.Wrapf(err, "credit %s", to)
		}
		if err := k.setBalance(ctx, to, types.NewCoin(c.Denom, sum)); err != nil {
			return err
		}
	}
	return nil
}

func (k Keeper) InitGenesis(ctx context.Context, gs *types.GenesisState) error {
	if err := types.ValidateGenesis(gs); err != nil {
		return err
	}
	for _, b := range gs.Balances {
		if err := k.MintCoins(ctx, b.Address, b.Coins); err != nil {
			return err
		}
	}
	return nil
}

func (k Keeper) ExportGenesis(ctx context.Context) (*types.GenesisState, error) {
	gs := types.DefaultGenesisState()
	err := k.Balances.Walk(ctx, nil, func(key collections.Pair[string, string], amt math.Uint) (bool, error) {
		addr := key.K1()
		if n := len(gs.Balances); n == 0 || gs.Balances[n-1].Address != addr {
			gs.Balances = append(gs.Balances, types.Balance{Address: addr})
		}
		last := &gs.Balances[len(gs.Balances)-1]
		last.Coins = append(last.Coins, types.NewCoin(key.K2(), amt))
		return false, nil
	})
	if err != nil {
		return nil, err
	}
	return gs, nil
}
