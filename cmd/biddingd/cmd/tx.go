package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"biddingplatform/internal/codec"
)

func TxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Build transactions offline",
	}
	cmd.AddCommand(txSignCmd())
	return cmd
}

func txSignCmd() *cobra.Command {
	var (
		keyFile string
		typ     string
		value   string
		nonce   string
		signer  string
	)
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Print a tx envelope, signed when --key is given",
		Long: `Print a JSON tx envelope ready for broadcast_tx.

Example:
  biddingd tx sign --key alice.key --signer alice --nonce 2 \
    --type bidding/bid --value '{"sender":"alice","funds":[{"denom":"uatom","amount":"100"}]}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if typ == "" {
				return fmt.Errorf("--type is required")
			}
			if !json.Valid([]byte(value)) {
				return fmt.Errorf("--value is not valid json")
			}
			raw := json.RawMessage(value)

			var (
				txBytes []byte
				err     error
			)
			if keyFile == "" {
				txBytes, err = codec.NewUnsignedTx(typ, raw)
			} else {
				if signer == "" || nonce == "" {
					return fmt.Errorf("--signer and --nonce are required with --key")
				}
				priv, kerr := loadKey(keyFile)
				if kerr != nil {
					return kerr
				}
				txBytes, err = codec.NewSignedTx(priv, typ, raw, nonce, signer)
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(txBytes))
			return err
		},
	}
	cmd.Flags().StringVar(&keyFile, "key", "", "hex seed file of the signing key")
	cmd.Flags().StringVar(&typ, "type", "", "tx type, e.g. bidding/bid")
	cmd.Flags().StringVar(&value, "value", "{}", "tx value as json")
	cmd.Flags().StringVar(&nonce, "nonce", "", "signer nonce, must exceed the last accepted one")
	cmd.Flags().StringVar(&signer, "signer", "", "signing account")
	return cmd
}
