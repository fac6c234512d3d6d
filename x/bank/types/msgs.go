package types

import (
	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
)

// MsgMint credits new coins to an account (devnet faucet).
type MsgMint struct {
	To     string    `json:"to"`
	Denom  string    `json:"denom"`
	Amount math.Uint `json:"amount"`
}

type MsgMintResponse struct{}

// MsgSend moves coins between two user accounts.
type MsgSend struct {
	From   string    `json:"from"`
	To     string    `json:"to"`
	Denom  string    `json:"denom"`
	Amount math.Uint `json:"amount"`
}

type MsgSendResponse struct{}

func (m *MsgMint) ValidateBasic() error {
	if err := ValidateAddress(m.To); err != nil {
		return err
	}
	c := NewCoin(m.Denom, m.Amount)
	if err := c.Validate(); err != nil {
		return err
	}
	if c.IsZero() {
		return errorsmod.Wrap(ErrInvalidCoins, "amount must be > 0")
	}
	return nil
}

func (m *MsgSend) ValidateBasic() error {
	if err := ValidateAddress(m.From); err != nil {
		return err
	}
	if err := ValidateAddress(m.To); err != nil {
		return err
	}
	c := NewCoin(m.Denom, m.Amount)
	if err := c.Validate(); err != nil {
		return err
	}
	if c.IsZero() {
		return errorsmod.Wrap(ErrInvalidCoins, "amount must be > 0")
	}
	return nil
}
