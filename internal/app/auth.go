package app

import (
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"
	"strconv"

	"cosmossdk.io/collections"

	"biddingplatform/internal/codec"
)

func requireSignedEnvelope(env codec.TxEnvelope) error {
	if env.Nonce == "" {
		return fmt.Errorf("missing tx.nonce")
	}
	if env.Signer == "" {
		return fmt.Errorf("missing tx.signer")
	}
	if len(env.Sig) == 0 {
		return fmt.Errorf("missing tx.sig")
	}
	if len(env.Sig) != ed25519.SignatureSize {
		return fmt.Errorf("invalid tx.sig length: got %d want %d", len(env.Sig), ed25519.SignatureSize)
	}
	return nil
}

func requireRegisterAccountAuth(env codec.TxEnvelope, msg codec.AuthRegisterAccountTx) error {
	if msg.Account == "" {
		return fmt.Errorf("missing account")
	}
	if len(msg.PubKey) != ed25519.PublicKeySize {
		return fmt.Errorf("pubKey must be %d bytes", ed25519.PublicKeySize)
	}
	if err := requireSignedEnvelope(env); err != nil {
		return err
	}
	if env.Signer != msg.Account {
		return fmt.Errorf("tx signer mismatch: signer=%q want=%q", env.Signer, msg.Account)
	}
	if !ed25519.Verify(ed25519.PublicKey(msg.PubKey), codec.SignBytes(env.Type, env.Value, env.Nonce, env.Signer), env.Sig) {
		return fmt.Errorf("invalid signature")
	}
	return nil
}

func (a *App) requireAccountAuth(ctx context.Context, env codec.TxEnvelope, account string) error {
	if account == "" {
		return fmt.Errorf("missing account")
	}
	if err := requireSignedEnvelope(env); err != nil {
		return err
	}
	if env.Signer != account {
		return fmt.Errorf("tx signer mismatch: signer=%q want=%q", env.Signer, account)
	}
	pub, err := a.AccountKeys.Get(ctx, account)
	if errors.Is(err, collections.ErrNotFound) {
		return fmt.Errorf("account %q missing pubKey (auth/register_account required)", account)
	}
	if err != nil {
		return err
	}
	if len(pub) != ed25519.PublicKeySize {
		return fmt.Errorf("account %q has a malformed pubKey", account)
	}
	if !ed25519.Verify(ed25519.PublicKey(pub), codec.SignBytes(env.Type, env.Value, env.Nonce, env.Signer), env.Sig) {
		return fmt.Errorf("invalid signature")
	}
	return nil
}

// consumeNonce enforces strictly increasing numeric nonces per signer.
func (a *App) consumeNonce(ctx context.Context, env codec.TxEnvelope) error {
	n, err := strconv.ParseUint(env.Nonce, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid tx.nonce %q", env.Nonce)
	}
	last, err := a.Nonces.Get(ctx, env.Signer)
	if err != nil && !errors.Is(err, collections.ErrNotFound) {
		return err
	}
	if err == nil && n <= last {
		return fmt.Errorf("replayed tx.nonce: got %d, last %d", n, last)
	}
	return a.Nonces.Set(ctx, env.Signer, n)
}
