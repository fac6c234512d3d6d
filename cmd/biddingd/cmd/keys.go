package cmd

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// Key files hold a hex-encoded 32-byte Ed25519 seed.

func KeysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage Ed25519 signing keys",
	}
	cmd.AddCommand(keysAddCmd(), keysShowCmd())
	return cmd
}

func keysAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <key-file>",
		Short: "Generate a key and write its seed to key-file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); err == nil {
				return fmt.Errorf("key file %s already exists", args[0])
			}
			seed := make([]byte, ed25519.SeedSize)
			if _, err := rand.Read(seed); err != nil {
				return err
			}
			if err := os.WriteFile(args[0], []byte(hex.EncodeToString(seed)+"\n"), 0o600); err != nil {
				return err
			}
			priv := ed25519.NewKeyFromSeed(seed)
			return printPubKey(cmd, priv)
		},
	}
}

func keysShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <key-file>",
		Short: "Print the public key of key-file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			priv, err := loadKey(args[0])
			if err != nil {
				return err
			}
			return printPubKey(cmd, priv)
		},
	}
}

// printPubKey prints the key in the base64 form used by auth/register_account.
func printPubKey(cmd *cobra.Command, priv ed25519.PrivateKey) error {
	pub := priv.Public().(ed25519.PublicKey)
	_, err := fmt.Fprintln(cmd.OutOrStdout(), base64.StdEncoding.EncodeToString(pub))
	return err
}

func loadKey(path string) (ed25519.PrivateKey, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	seed, err := hex.DecodeString(strings.TrimSpace(string(raw)))
	if err != nil {
		return nil, fmt.Errorf("decode key file %s: %w", path, err)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("key file %s: expected %d byte seed, got %d", path, ed25519.SeedSize, len(seed))
	}
	return ed25519.NewKeyFromSeed(seed), nil
}
