package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"cosmossdk.io/collections"
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/log"
	abci "github.com/cometbft/cometbft/abci/types"

	"biddingplatform/internal/codec"
	"biddingplatform/internal/store"
	bankkeeper "biddingplatform/x/bank/keeper"
	banktypes "biddingplatform/x/bank/types"
	biddingkeeper "biddingplatform/x/bidding/keeper"
	biddingtypes "biddingplatform/x/bidding/types"
)

const (
	AppVersion uint64 = 1
	Version           = "v0.1.0"
)

var (
	// HeightKey stores the last committed block height.
	HeightKey = collections.NewPrefix(0x20)

	// NoncesPrefix stores the last accepted tx nonce by signer.
	NoncesPrefix = collections.NewPrefix(0x21)

	// AccountKeysPrefix stores registered Ed25519 public keys by account.
	AccountKeysPrefix = collections.NewPrefix(0x22)
)

type Options struct {
	// Denom is the denomination counted by the auction; empty selects uatom.
	Denom   string
	Logger  log.Logger
	Metrics *Metrics
}

// App is the CometBFT application hosting the auction.
//
// Every tx runs on its own branch of the pending block branch and is folded
// into it only when it succeeds. The block branch reaches the database at
// Commit.
type App struct {
	*abci.BaseApplication

	logger  log.Logger
	metrics *Metrics

	mu       sync.Mutex
	db       *store.Store
	block    *store.Branch
	lastHash []byte

	Height      collections.Item[int64]
	Nonces      collections.Map[string, uint64]
	AccountKeys collections.Map[string, []byte]

	BankKeeper    bankkeeper.Keeper
	BiddingKeeper biddingkeeper.Keeper

	bankMsgs       bankkeeper.MsgServer
	biddingMsgs    biddingkeeper.MsgServer
	biddingQueries biddingkeeper.QueryServer
}

func New(db *store.Store, opts Options) (*App, error) {
	if db == nil {
		return nil, fmt.Errorf("store is nil")
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	metrics := opts.Metrics
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	if opts.Denom != "" {
		if err := banktypes.ValidateDenom(opts.Denom); err != nil {
			return nil, err
		}
	}

	svc := store.NewService(db)
	sb := collections.NewSchemaBuilder(svc)
	a := &App{
		BaseApplication: abci.NewBaseApplication(),
		logger:          logger.With("module", "app"),
		metrics:         metrics,
		db:              db,
		Height:          collections.NewItem(sb, HeightKey, "height", collections.Int64Value),
		Nonces:          collections.NewMap(sb, NoncesPrefix, "nonces", collections.StringKey, collections.Uint64Value),
		AccountKeys:     collections.NewMap(sb, AccountKeysPrefix, "account_keys", collections.StringKey, collections.BytesValue),
	}
	if _, err := sb.Build(); err != nil {
		return nil, err
	}

	a.BankKeeper = bankkeeper.NewKeeper(svc, logger)
	a.BiddingKeeper = biddingkeeper.NewKeeper(svc, a.BankKeeper, opts.Denom, logger)
	a.bankMsgs = bankkeeper.NewMsgServerImpl(a.BankKeeper)
	a.biddingMsgs = biddingkeeper.NewMsgServerImpl(a.BiddingKeeper)
	a.biddingQueries = biddingkeeper.NewQueryServerImpl(a.BiddingKeeper)

	height, err := a.committedHeight(context.Background())
	if err != nil {
		return nil, err
	}
	if height > 0 {
		h, err := store.Hash(db)
		if err != nil {
			return nil, err
		}
		a.lastHash = h
	}
	return a, nil
}

func (a *App) committedHeight(ctx context.Context) (int64, error) {
	h, err := a.Height.Get(ctx)
	if errors.Is(err, collections.ErrNotFound) {
		return 0, nil
	}
	return h, err
}

func (a *App) Info(ctx context.Context, _ *abci.InfoRequest) (*abci.InfoResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	height, err := a.committedHeight(ctx)
	if err != nil {
		return nil, err
	}
	return &abci.InfoResponse{
		Data:             "bidding platform",
		Version:          Version,
		AppVersion:       AppVersion,
		LastBlockHeight:  height,
		LastBlockAppHash: a.lastHash,
	}, nil
}

// CheckTx only performs stateless validation; auth and nonces are checked at
// delivery.
func (a *App) CheckTx(_ context.Context, req *abci.CheckTxRequest) (*abci.CheckTxResponse, error) {
	env, err := codec.DecodeTxEnvelope(req.Tx)
	if err != nil {
		return &abci.CheckTxResponse{Code: 1, Log: err.Error()}, nil
	}
	if err := validateTx(env); err != nil {
		codespace, code, logMsg := errorsmod.ABCIInfo(err, false)
		return &abci.CheckTxResponse{Code: code, Codespace: codespace, Log: logMsg}, nil
	}
	return &abci.CheckTxResponse{Code: 0}, nil
}

func (a *App) InitChain(ctx context.Context, req *abci.InitChainRequest) (*abci.InitChainResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	gs, err := ParseGenesis(req.AppStateBytes)
	if err != nil {
		return nil, err
	}
	a.block = a.db.Branch()
	ctx = store.WithKVStore(ctx, a.block)
	if err := a.BankKeeper.InitGenesis(ctx, gs.Bank); err != nil {
		a.block.Discard()
		a.block = nil
		return nil, fmt.Errorf("init bank genesis: %w", err)
	}
	hash, err := store.Hash(a.block)
	if err != nil {
		return nil, err
	}
	a.logger.Info("genesis applied", "chain_id", req.ChainId, "balances", len(gs.Bank.Balances))
	return &abci.InitChainResponse{AppHash: hash}, nil
}

func (a *App) FinalizeBlock(ctx context.Context, req *abci.FinalizeBlockRequest) (*abci.FinalizeBlockResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.block == nil {
		a.block = a.db.Branch()
	}
	blockCtx := store.WithKVStore(ctx, a.block)
	if err := a.Height.Set(blockCtx, req.Height); err != nil {
		return nil, err
	}

	txResults := make([]*abci.ExecTxResult, 0, len(req.Txs))
	for _, txBytes := range req.Txs {
		txResults = append(txResults, a.deliverTx(ctx, txBytes))
	}

	hash, err := store.Hash(a.block)
	if err != nil {
		return nil, err
	}
	a.lastHash = hash
	a.metrics.BlockHeight.Set(float64(req.Height))

	return &abci.FinalizeBlockResponse{
		TxResults: txResults,
		AppHash:   a.lastHash,
	}, nil
}

func (a *App) Commit(ctx context.Context, _ *abci.CommitRequest) (*abci.CommitResponse, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.block == nil {
		return &abci.CommitResponse{}, nil
	}
	writes := a.block.Dirty()
	if err := a.block.Write(); err != nil {
		// CometBFT halts on a Commit error, which is what we want.
		return nil, fmt.Errorf("commit block: %w", err)
	}
	a.block = nil

	height, err := a.committedHeight(ctx)
	if err != nil {
		return nil, err
	}
	a.logger.Info("committed block", "height", height, "writes", writes, "app_hash", fmt.Sprintf("%X", a.lastHash))
	return &abci.CommitResponse{}, nil
}

// deliverTx runs one tx against the pending block. Signature and nonce checks
// are committed to the block even when the message itself fails, so a failed
// tx cannot be replayed later. A panic fails the tx; its open branch is
// never written.
func (a *App) deliverTx(ctx context.Context, txBytes []byte) (res *abci.ExecTxResult) {
	env, err := codec.DecodeTxEnvelope(txBytes)
	if err != nil {
		a.metrics.Txs.WithLabelValues("unknown", "error").Inc()
		return &abci.ExecTxResult{Code: 1, Log: err.Error()}
	}

	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("tx panicked", "type", env.Type, "panic", r)
			res = a.txResult(env, nil, fmt.Errorf("panic in %s: %v", env.Type, r))
		}
	}()

	ante := a.block.Branch()
	if err := a.authenticate(store.WithKVStore(ctx, ante), env); err != nil {
		ante.Discard()
		return a.txResult(env, nil, err)
	}
	if err := ante.Write(); err != nil {
		return a.txResult(env, nil, err)
	}

	branch := a.block.Branch()
	events, err := a.route(store.WithKVStore(ctx, branch), env)
	if err != nil {
		branch.Discard()
		return a.txResult(env, nil, err)
	}
	if err := branch.Write(); err != nil {
		return a.txResult(env, nil, err)
	}
	return a.txResult(env, events, nil)
}

func (a *App) txResult(env codec.TxEnvelope, events []abci.Event, err error) *abci.ExecTxResult {
	if err != nil {
		codespace, code, logMsg := errorsmod.ABCIInfo(err, false)
		a.metrics.Txs.WithLabelValues(env.Type, resultLabel(code)).Inc()
		if errors.Is(err, biddingtypes.ErrSmallBid) {
			a.metrics.Bids.WithLabelValues("rejected").Inc()
		}
		a.logger.Debug("tx failed", "type", env.Type, "codespace", codespace, "code", code, "err", logMsg)
		return &abci.ExecTxResult{Code: code, Codespace: codespace, Log: logMsg}
	}
	a.metrics.Txs.WithLabelValues(env.Type, "ok").Inc()
	if env.Type == codec.TypeBiddingBid {
		a.metrics.Bids.WithLabelValues("accepted").Inc()
	}
	return &abci.ExecTxResult{Code: 0, Events: events}
}

func newEvent(typ string, attrs map[string]string) abci.Event {
	ev := abci.Event{Type: typ}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		ev.Attributes = append(ev.Attributes, abci.EventAttribute{Key: k, Value: attrs[k], Index: true})
	}
	return ev
}

func transferEvents(from string, transfers []biddingtypes.Transfer) []abci.Event {
	out := make([]abci.Event, 0, len(transfers))
	for _, t := range transfers {
		if t.Amount.IsZero() {
			continue
		}
		out = append(out, newEvent(biddingtypes.EventTypeTransfer, map[string]string{
			biddingtypes.AttributeKeySender:    from,
			biddingtypes.AttributeKeyRecipient: t.ToAddress,
			biddingtypes.AttributeKeyAmount:    t.Amount.String(),
		}))
	}
	return out
}

func mustJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
