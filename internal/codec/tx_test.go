package codec

import (
	"crypto/ed25519"
	"encoding/json"
	"testing"
)

func TestDecodeTxEnvelope_OK(t *testing.T) {
	b, err := json.Marshal(map[string]any{
		"type":  TypeBankMint,
		"value": map[string]any{"to": "alice", "denom": "uatom", "amount": "123"},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	env, err := DecodeTxEnvelope(b)
	if err != nil {
		t.Fatalf("DecodeTxEnvelope: %v", err)
	}
	if env.Type != TypeBankMint {
		t.Fatalf("unexpected type: %q", env.Type)
	}

	var v map[string]any
	if err := DecodeValue(env, &v); err != nil {
		t.Fatalf("DecodeValue: %v", err)
	}
	if v["to"] != "alice" {
		t.Fatalf("unexpected value.to: %#v", v["to"])
	}
}

func TestDecodeTxEnvelope_IgnoresUnknownFields(t *testing.T) {
	b, err := json.Marshal(map[string]any{
		"type":  TypeBankMint,
		"memo":  "hello",
		"value": map[string]any{"to": "alice"},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	if _, err := DecodeTxEnvelope(b); err != nil {
		t.Fatalf("DecodeTxEnvelope: %v", err)
	}
}

func TestDecodeTxEnvelope_MissingType(t *testing.T) {
	b, err := json.Marshal(map[string]any{
		"value": map[string]any{"x": 1},
	})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if _, err := DecodeTxEnvelope(b); err == nil {
		t.Fatalf("expected error")
	}
}

func TestDecodeTxEnvelope_InvalidJSON(t *testing.T) {
	if _, err := DecodeTxEnvelope([]byte("{not json")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestDecodeValue_Missing(t *testing.T) {
	if err := DecodeValue(TxEnvelope{Type: TypeBiddingClose}, &struct{}{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestNewSignedTx_Verifies(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		t.Fatalf("keygen: %v", err)
	}

	b, err := NewSignedTx(priv, TypeBiddingClose, map[string]string{"sender": "owner"}, "1", "owner")
	if err != nil {
		t.Fatalf("NewSignedTx: %v", err)
	}
	env, err := DecodeTxEnvelope(b)
	if err != nil {
		t.Fatalf("DecodeTxEnvelope: %v", err)
	}
	msg := SignBytes(env.Type, env.Value, env.Nonce, env.Signer)
	if !ed25519.Verify(pub, msg, env.Sig) {
		t.Fatalf("signature does not verify")
	}

	// Any field change invalidates the signature.
	if ed25519.Verify(pub, SignBytes(env.Type, env.Value, "2", env.Signer), env.Sig) {
		t.Fatalf("signature verified with a different nonce")
	}
	if ed25519.Verify(pub, SignBytes(TypeBiddingBid, env.Value, env.Nonce, env.Signer), env.Sig) {
		t.Fatalf("signature verified with a different type")
	}
}
