package cmd

import (
	"bytes"
	"crypto/ed25519"
	"encoding/base64"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"biddingplatform/internal/codec"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--home", t.TempDir()))
	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	require.Contains(t, out, "BiddingPlatform")
}

func TestKeysAddThenSign(t *testing.T) {
	keyFile := filepath.Join(t.TempDir(), "alice.key")

	out, err := execute(t, "keys", "add", keyFile)
	require.NoError(t, err)
	pub, err := base64.StdEncoding.DecodeString(strings.TrimSpace(out))
	require.NoError(t, err)
	require.Len(t, pub, ed25519.PublicKeySize)

	_, err = execute(t, "keys", "add", keyFile)
	require.Error(t, err, "existing key file must not be overwritten")

	out, err = execute(t, "tx", "sign",
		"--key", keyFile,
		"--signer", "alice",
		"--nonce", "1",
		"--type", codec.TypeBiddingClose,
		"--value", `{"sender":"alice"}`,
	)
	require.NoError(t, err)

	env, err := codec.DecodeTxEnvelope([]byte(strings.TrimSpace(out)))
	require.NoError(t, err)
	require.Equal(t, codec.TypeBiddingClose, env.Type)
	require.Equal(t, "alice", env.Signer)
	require.True(t, ed25519.Verify(ed25519.PublicKey(pub), codec.SignBytes(env.Type, env.Value, env.Nonce, env.Signer), env.Sig))
}

func TestTxSign_Unsigned(t *testing.T) {
	out, err := execute(t, "tx", "sign", "--type", codec.TypeBankMint, "--value", `{"to":"alice","denom":"uatom","amount":"10"}`)
	require.NoError(t, err)

	env, err := codec.DecodeTxEnvelope([]byte(strings.TrimSpace(out)))
	require.NoError(t, err)
	require.Empty(t, env.Sig)
	require.JSONEq(t, `{"to":"alice","denom":"uatom","amount":"10"}`, string(env.Value))
}

func TestTxSign_Rejects(t *testing.T) {
	_, err := execute(t, "tx", "sign", "--value", `{}`)
	require.Error(t, err)

	_, err = execute(t, "tx", "sign", "--type", codec.TypeBiddingClose, "--value", `{`)
	require.Error(t, err)

	_, err = execute(t, "tx", "sign", "--type", codec.TypeBiddingClose, "--key", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}
