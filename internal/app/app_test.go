package app

import (
	"context"
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/json"
	"math/big"
	"strconv"
	"strings"
	"testing"

	abci "github.com/cometbft/cometbft/abci/types"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"

	"biddingplatform/internal/codec"
	"biddingplatform/internal/store"
	banktypes "biddingplatform/x/bank/types"
)

type testChain struct {
	t      *testing.T
	app    *App
	db     *store.Store
	height int64
	nonces map[string]uint64
}

func newTestChain(t *testing.T) *testChain {
	t.Helper()
	db := store.NewMemStore()
	a, err := New(db, Options{})
	require.NoError(t, err)
	return &testChain{t: t, app: a, db: db, nonces: map[string]uint64{}}
}

func testEd25519Key(name string) (ed25519.PublicKey, ed25519.PrivateKey) {
	seed := sha256.Sum256([]byte("biddingplatform-test-key:" + name))
	priv := ed25519.NewKeyFromSeed(seed[:])
	return priv.Public().(ed25519.PublicKey), priv
}

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

// txBytesSigned signs value as signer with the signer's next nonce.
func (c *testChain) txBytesSigned(typ string, value any, signer string) []byte {
	c.t.Helper()
	_, priv := testEd25519Key(signer)
	c.nonces[signer]++
	b, err := codec.NewSignedTx(priv, typ, value, strconv.FormatUint(c.nonces[signer], 10), signer)
	require.NoError(c.t, err)
	return b
}

func (c *testChain) txBytes(typ string, value any) []byte {
	c.t.Helper()
	b, err := codec.NewUnsignedTx(typ, value)
	require.NoError(c.t, err)
	return b
}

// block finalizes and commits one block holding txs.
func (c *testChain) block(txs ...[]byte) []*abci.ExecTxResult {
	c.t.Helper()
	c.height++
	ctx := context.Background()
	res, err := c.app.FinalizeBlock(ctx, &abci.FinalizeBlockRequest{Height: c.height, Txs: txs})
	require.NoError(c.t, err)
	require.Len(c.t, res.TxResults, len(txs))
	_, err = c.app.Commit(ctx, &abci.CommitRequest{})
	require.NoError(c.t, err)
	return res.TxResults
}

func (c *testChain) deliver(tx []byte) *abci.ExecTxResult {
	c.t.Helper()
	return c.block(tx)[0]
}

func mustOk(t *testing.T, res *abci.ExecTxResult) {
	t.Helper()
	require.Equal(t, uint32(0), res.Code, "tx failed: codespace=%s log=%s", res.Codespace, res.Log)
}

func (c *testChain) registerTestAccount(name string) {
	c.t.Helper()
	pub, _ := testEd25519Key(name)
	mustOk(c.t, c.deliver(c.txBytesSigned(codec.TypeAuthRegisterAccount, map[string]any{
		"account": name,
		"pubKey":  []byte(pub),
	}, name)))
}

func (c *testChain) mintTestTokens(to string, amount uint64) {
	c.t.Helper()
	mustOk(c.t, c.deliver(c.txBytes(codec.TypeBankMint, map[string]any{
		"to":     to,
		"denom":  "uatom",
		"amount": strconv.FormatUint(amount, 10),
	})))
}

func (c *testChain) query(path string) *abci.QueryResponse {
	c.t.Helper()
	res, err := c.app.Query(context.Background(), &abci.QueryRequest{Path: path})
	require.NoError(c.t, err)
	return res
}

func (c *testChain) queryOK(path string, out any) {
	c.t.Helper()
	res := c.query(path)
	require.Equal(c.t, uint32(0), res.Code, "query %s failed: %s", path, res.Log)
	require.NoError(c.t, json.Unmarshal(res.Value, out))
}

func (c *testChain) balance(addr string) string {
	c.t.Helper()
	var out BalanceResponse
	c.queryOK("/bank/balance/"+addr+"/uatom", &out)
	return out.Balance.Amount.String()
}

func findEvent(events []abci.Event, typ string) *abci.Event {
	for i := range events {
		if events[i].Type == typ {
			return &events[i]
		}
	}
	return nil
}

func attr(ev *abci.Event, key string) string {
	if ev == nil {
		return ""
	}
	for _, a := range ev.Attributes {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}

func funds(amount uint64) []map[string]string {
	return []map[string]string{{"denom": "uatom", "amount": strconv.FormatUint(amount, 10)}}
}

func TestFullAuctionRound(t *testing.T) {
	c := newTestChain(t)
	for _, name := range []string{"owner", "joe", "stable_joe"} {
		c.registerTestAccount(name)
	}
	c.mintTestTokens("joe", 100)
	c.mintTestTokens("stable_joe", 200)

	mustOk(t, c.deliver(c.txBytesSigned(codec.TypeBiddingInstantiate, map[string]any{"sender": "owner"}, "owner")))

	res := c.deliver(c.txBytesSigned(codec.TypeBiddingBid, map[string]any{"sender": "joe", "funds": funds(100)}, "joe"))
	mustOk(t, res)
	ev := findEvent(res.Events, "bidding")
	require.NotNil(t, ev)
	require.Equal(t, "bid", attr(ev, "method"))
	require.Equal(t, "95uatom", attr(ev, "highest_bid"))
	tr := findEvent(res.Events, "transfer")
	require.Equal(t, "owner", attr(tr, "recipient"))
	require.Equal(t, "5uatom", attr(tr, "amount"))

	var total struct {
		Value struct {
			Denom  string `json:"denom"`
			Amount string `json:"amount"`
		} `json:"value"`
	}
	c.queryOK("/bidding/total_bid/joe", &total)
	require.Equal(t, "95", total.Value.Amount)

	mustOk(t, c.deliver(c.txBytesSigned(codec.TypeBiddingBid, map[string]any{"sender": "stable_joe", "funds": funds(200)}, "stable_joe")))

	var highest struct {
		Address string `json:"address"`
		Value   struct {
			Amount string `json:"amount"`
		} `json:"value"`
	}
	c.queryOK("/bidding/highest_bid", &highest)
	require.Equal(t, "stable_joe", highest.Address)
	require.Equal(t, "190", highest.Value.Amount)

	res = c.deliver(c.txBytesSigned(codec.TypeBiddingClose, map[string]any{"sender": "owner"}, "owner"))
	mustOk(t, res)
	require.Equal(t, "stable_joe", attr(findEvent(res.Events, "bidding"), "winner"))
	require.Equal(t, "205", c.balance("owner"))

	var winner struct {
		Address string `json:"address"`
	}
	c.queryOK("/bidding/winner", &winner)
	require.Equal(t, "stable_joe", winner.Address)

	mustOk(t, c.deliver(c.txBytesSigned(codec.TypeBiddingRetract, map[string]any{"sender": "joe", "receiver": "stable_joe"}, "joe")))
	require.Equal(t, "95", c.balance("stable_joe"))
}

func TestFailedBidLeavesBalancesUnchanged(t *testing.T) {
	c := newTestChain(t)
	c.registerTestAccount("creator")
	c.registerTestAccount("joe")
	c.mintTestTokens("creator", 100)
	c.mintTestTokens("joe", 100)

	mustOk(t, c.deliver(c.txBytesSigned(codec.TypeBiddingInstantiate, map[string]any{"sender": "creator", "funds": funds(100)}, "creator")))

	// net 95 does not beat 100
	res := c.deliver(c.txBytesSigned(codec.TypeBiddingBid, map[string]any{"sender": "joe", "funds": funds(100)}, "joe"))
	require.NotEqual(t, uint32(0), res.Code)
	require.Equal(t, "bidding", res.Codespace)
	require.Equal(t, uint32(2), res.Code)
	require.Contains(t, res.Log, "The bid is too small")

	require.Equal(t, "100", c.balance("joe"))
	require.Equal(t, "0", c.balance("creator"))
	require.Equal(t, "100", c.balance("module:bidding"))

	var total struct {
		Value struct {
			Amount string `json:"amount"`
		} `json:"value"`
	}
	c.queryOK("/bidding/total_bid/joe", &total)
	require.Equal(t, "0", total.Value.Amount)
}

func TestCloseByNonOwnerIsUnauthorized(t *testing.T) {
	c := newTestChain(t)
	c.registerTestAccount("owner")
	c.registerTestAccount("joe")
	mustOk(t, c.deliver(c.txBytesSigned(codec.TypeBiddingInstantiate, map[string]any{"sender": "owner"}, "owner")))

	res := c.deliver(c.txBytesSigned(codec.TypeBiddingClose, map[string]any{"sender": "joe"}, "joe"))
	require.Equal(t, uint32(3), res.Code)
	require.Contains(t, res.Log, "Sender does not have access permissions!")

	res = c.deliver(c.txBytesSigned(codec.TypeBiddingRetract, map[string]any{"sender": "joe"}, "joe"))
	require.Equal(t, uint32(4), res.Code)
	require.Contains(t, res.Log, "Bidding is not closed!")
}

func TestReplayProtection_AccountSigned(t *testing.T) {
	c := newTestChain(t)
	c.registerTestAccount("alice")
	c.mintTestTokens("alice", 100)

	tx := c.txBytesSigned(codec.TypeBankSend, map[string]any{"from": "alice", "to": "bob", "denom": "uatom", "amount": "1"}, "alice")
	mustOk(t, c.deliver(tx))

	res := c.deliver(tx)
	require.NotEqual(t, uint32(0), res.Code)
	require.True(t, strings.Contains(res.Log, "replayed tx.nonce"), "log: %q", res.Log)
	require.Equal(t, "1", c.balance("bob"))
}

func TestFailedTxStillConsumesNonce(t *testing.T) {
	c := newTestChain(t)
	c.registerTestAccount("alice")

	// alice holds nothing, so the send fails after auth.
	tx := c.txBytesSigned(codec.TypeBankSend, map[string]any{"from": "alice", "to": "bob", "denom": "uatom", "amount": "1"}, "alice")
	res := c.deliver(tx)
	require.Equal(t, "bank", res.Codespace)

	c.mintTestTokens("alice", 1)
	res = c.deliver(tx)
	require.Contains(t, res.Log, "replayed tx.nonce")
	require.Equal(t, "1", c.balance("alice"))
}

func TestReplayProtection_RejectsNonNumericNonce(t *testing.T) {
	c := newTestChain(t)

	pub, priv := testEd25519Key("alice")
	b, err := codec.NewSignedTx(priv, codec.TypeAuthRegisterAccount, map[string]any{"account": "alice", "pubKey": []byte(pub)}, "not-a-number", "alice")
	require.NoError(t, err)

	res := c.deliver(b)
	require.NotEqual(t, uint32(0), res.Code)
	require.Contains(t, res.Log, "invalid tx.nonce")
}

func TestSignedTxRequiresRegisteredKey(t *testing.T) {
	c := newTestChain(t)
	c.mintTestTokens("alice", 10)

	res := c.deliver(c.txBytesSigned(codec.TypeBankSend, map[string]any{"from": "alice", "to": "bob", "denom": "uatom", "amount": "1"}, "alice"))
	require.Contains(t, res.Log, "auth/register_account required")

	// A tx signed by someone else's key is rejected.
	c.registerTestAccount("alice")
	_, mallory := testEd25519Key("mallory")
	b, err := codec.NewSignedTx(mallory, codec.TypeBankSend, map[string]any{"from": "alice", "to": "bob", "denom": "uatom", "amount": "1"}, "99", "alice")
	require.NoError(t, err)
	res = c.deliver(b)
	require.Contains(t, res.Log, "invalid signature")
	require.Equal(t, "10", c.balance("alice"))
}

func TestCheckTx(t *testing.T) {
	c := newTestChain(t)
	ctx := context.Background()

	res, err := c.app.CheckTx(ctx, &abci.CheckTxRequest{Tx: []byte("{bad")})
	require.NoError(t, err)
	require.NotEqual(t, uint32(0), res.Code)

	res, err = c.app.CheckTx(ctx, &abci.CheckTxRequest{Tx: c.txBytes(codec.TypeBiddingBid, map[string]any{"sender": "Not Valid"})})
	require.NoError(t, err)
	require.Equal(t, "bidding", res.Codespace)

	res, err = c.app.CheckTx(ctx, &abci.CheckTxRequest{Tx: c.txBytes(codec.TypeBankMint, map[string]any{"to": "alice", "denom": "uatom", "amount": "5"})})
	require.NoError(t, err)
	require.Equal(t, uint32(0), res.Code)
}

func TestQueries_NotInstantiatedAndUnknownPath(t *testing.T) {
	c := newTestChain(t)

	res := c.query("/bidding/winner")
	require.Equal(t, "bidding", res.Codespace)
	require.Equal(t, uint32(9), res.Code)

	res = c.query("/nope")
	require.NotEqual(t, uint32(0), res.Code)

	var acct AccountResponse
	c.queryOK("/account/nobody", &acct)
	require.Empty(t, acct.Balances)
}

func TestInitChainGenesisAndRestart(t *testing.T) {
	db := store.NewMemStore()
	a, err := New(db, Options{})
	require.NoError(t, err)
	ctx := context.Background()

	genesis := []byte(`{"bank":{"balances":[{"address":"alice","coins":[{"denom":"uatom","amount":"42"}]}]}}`)
	initRes, err := a.InitChain(ctx, &abci.InitChainRequest{ChainId: "test", AppStateBytes: genesis})
	require.NoError(t, err)
	require.NotEmpty(t, initRes.AppHash)

	fin, err := a.FinalizeBlock(ctx, &abci.FinalizeBlockRequest{Height: 1})
	require.NoError(t, err)
	_, err = a.Commit(ctx, &abci.CommitRequest{})
	require.NoError(t, err)

	restarted, err := New(db, Options{})
	require.NoError(t, err)
	info, err := restarted.Info(ctx, &abci.InfoRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(1), info.LastBlockHeight)
	require.Equal(t, fin.AppHash, info.LastBlockAppHash)

	bal, err := restarted.BankKeeper.GetBalance(ctx, "alice", "uatom")
	require.NoError(t, err)
	require.Equal(t, "42", bal.Amount.String())
}

func TestUncommittedBlockIsInvisibleToQueries(t *testing.T) {
	c := newTestChain(t)
	ctx := context.Background()

	_, err := c.app.FinalizeBlock(ctx, &abci.FinalizeBlockRequest{
		Height: 1,
		Txs:    [][]byte{c.txBytes(codec.TypeBankMint, map[string]any{"to": "alice", "denom": "uatom", "amount": "7"})},
	})
	require.NoError(t, err)
	require.Equal(t, "0", c.balance("alice"))

	_, err = c.app.Commit(ctx, &abci.CommitRequest{})
	require.NoError(t, err)
	require.Equal(t, "7", c.balance("alice"))
}

func TestMintOverflowFailsTxWithoutHaltingBlock(t *testing.T) {
	c := newTestChain(t)
	full := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1)).String()
	mint := func(amount string) []byte {
		return c.txBytes(codec.TypeBankMint, map[string]any{"to": "joe", "denom": "uatom", "amount": amount})
	}

	results := c.block(mint(full), mint(full), mint("1"))
	mustOk(t, results[0])
	require.Equal(t, "bank", results[1].Codespace)
	require.Equal(t, uint32(3), results[1].Code)
	require.Contains(t, results[1].Log, "amount overflow")
	require.Equal(t, "bank", results[2].Codespace)

	require.Equal(t, full, c.balance("joe"))
}

type panickingBankMsgs struct{}

func (panickingBankMsgs) Mint(context.Context, *banktypes.MsgMint) (*banktypes.MsgMintResponse, error) {
	panic("mint exploded")
}

func (panickingBankMsgs) Send(context.Context, *banktypes.MsgSend) (*banktypes.MsgSendResponse, error) {
	panic("send exploded")
}

func TestDeliverTxPanicFailsOnlyThatTx(t *testing.T) {
	c := newTestChain(t)
	c.registerTestAccount("alice")
	c.app.bankMsgs = panickingBankMsgs{}

	send := c.txBytesSigned(codec.TypeBankSend, map[string]any{"from": "alice", "to": "bob", "denom": "uatom", "amount": "1"}, "alice")
	results := c.block(
		c.txBytes(codec.TypeBankMint, map[string]any{"to": "alice", "denom": "uatom", "amount": "5"}),
		send,
		c.txBytesSigned(codec.TypeBiddingInstantiate, map[string]any{"sender": "alice"}, "alice"),
	)
	require.NotEqual(t, uint32(0), results[0].Code)
	require.Contains(t, results[0].Log, "mint exploded")
	require.NotEqual(t, uint32(0), results[1].Code)
	require.Contains(t, results[1].Log, "send exploded")
	mustOk(t, results[2])

	// The nonce spent by the panicking send stays spent.
	res := c.deliver(send)
	require.Contains(t, res.Log, "replayed tx.nonce")
	require.Equal(t, "0", c.balance("alice"))
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestBidMetricsCountOnlySmallBidRejections(t *testing.T) {
	c := newTestChain(t)
	for _, name := range []string{"owner", "joe"} {
		c.registerTestAccount(name)
	}
	c.mintTestTokens("owner", 100)
	c.mintTestTokens("joe", 300)
	mustOk(t, c.deliver(c.txBytesSigned(codec.TypeBiddingInstantiate, map[string]any{"sender": "owner", "funds": funds(100)}, "owner")))

	rejected := c.app.metrics.Bids.WithLabelValues("rejected")
	accepted := c.app.metrics.Bids.WithLabelValues("accepted")

	// escrow failure: joe does not hold 1000
	res := c.deliver(c.txBytesSigned(codec.TypeBiddingBid, map[string]any{"sender": "joe", "funds": funds(1000)}, "joe"))
	require.Equal(t, "bank", res.Codespace)
	// unregistered signer
	res = c.deliver(c.txBytesSigned(codec.TypeBiddingBid, map[string]any{"sender": "bob", "funds": funds(1)}, "bob"))
	require.NotEqual(t, uint32(0), res.Code)
	require.Zero(t, counterValue(t, rejected))

	res = c.deliver(c.txBytesSigned(codec.TypeBiddingBid, map[string]any{"sender": "joe", "funds": funds(100)}, "joe"))
	require.Equal(t, uint32(2), res.Code)
	require.Equal(t, float64(1), counterValue(t, rejected))

	mustOk(t, c.deliver(c.txBytesSigned(codec.TypeBiddingBid, map[string]any{"sender": "joe", "funds": funds(200)}, "joe")))
	require.Equal(t, float64(1), counterValue(t, accepted))
}
