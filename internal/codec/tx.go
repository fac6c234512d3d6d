package codec

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/json"
	"fmt"
)

// Tx types routed by the application.
const (
	TypeAuthRegisterAccount = "auth/register_account"
	TypeBankMint            = "bank/mint"
	TypeBankSend            = "bank/send"
	TypeBiddingInstantiate  = "bidding/instantiate"
	TypeBiddingBid          = "bidding/bid"
	TypeBiddingClose        = "bidding/close"
	TypeBiddingRetract      = "bidding/retract"
)

// TxEnvelope is the transaction container.
//
// CometBFT transactions are opaque bytes; ours are JSON. Value carries the
// type-specific message. Nonce, Signer and Sig authenticate the tx: Sig is an
// Ed25519 signature over SignBytes(type, value, nonce, signer) and Nonce must
// increase per signer.
type TxEnvelope struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`

	Nonce  string `json:"nonce,omitempty"`
	Signer string `json:"signer,omitempty"`
	Sig    []byte `json:"sig,omitempty"`
}

func DecodeTxEnvelope(txBytes []byte) (TxEnvelope, error) {
	var env TxEnvelope
	if err := json.Unmarshal(txBytes, &env); err != nil {
		return TxEnvelope{}, fmt.Errorf("invalid tx json: %w", err)
	}
	if env.Type == "" {
		return TxEnvelope{}, fmt.Errorf("missing tx.type")
	}
	return env, nil
}

// DecodeValue unmarshals the envelope value into v.
func DecodeValue(env TxEnvelope, v any) error {
	if len(env.Value) == 0 {
		return fmt.Errorf("missing tx.value")
	}
	if err := json.Unmarshal(env.Value, v); err != nil {
		return fmt.Errorf("invalid %s value: %w", env.Type, err)
	}
	return nil
}

const signDomain = "bidding/tx/v1"

// SignBytes returns the message covered by TxEnvelope.Sig:
//
//	DOMAIN || 0x00 || type || 0x00 || nonce || 0x00 || signer || 0x00 || sha256(value)
func SignBytes(typ string, value []byte, nonce string, signer string) []byte {
	sum := sha256.Sum256(value)
	out := make([]byte, 0, len(signDomain)+1+len(typ)+1+len(nonce)+1+len(signer)+1+sha256.Size)
	out = append(out, signDomain...)
	out = append(out, 0)
	out = append(out, typ...)
	out = append(out, 0)
	out = append(out, nonce...)
	out = append(out, 0)
	out = append(out, signer...)
	out = append(out, 0)
	out = append(out, sum[:]...)
	return out
}

// NewSignedTx marshals value into an envelope signed by priv.
func NewSignedTx(priv ed25519.PrivateKey, typ string, value any, nonce string, signer string) ([]byte, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	env := TxEnvelope{
		Type:   typ,
		Value:  raw,
		Nonce:  nonce,
		Signer: signer,
		Sig:    ed25519.Sign(priv, SignBytes(typ, raw, nonce, signer)),
	}
	return json.Marshal(env)
}

// NewUnsignedTx marshals value into an envelope without auth fields.
func NewUnsignedTx(typ string, value any) ([]byte, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return json.Marshal(TxEnvelope{Type: typ, Value: raw})
}

// AuthRegisterAccountTx binds an Ed25519 public key to an account. It must be
// signed by the key being registered.
type AuthRegisterAccountTx struct {
	Account string `json:"account"`
	PubKey  []byte `json:"pubKey"`
}
