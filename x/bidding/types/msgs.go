package types

import (
	errorsmod "cosmossdk.io/errors"

	banktypes "biddingplatform/x/bank/types"
)

// MsgInstantiate creates the contract. Owner defaults to Sender.
type MsgInstantiate struct {
	Sender string          `json:"sender"`
	Owner  *string         `json:"owner,omitempty"`
	Funds  banktypes.Coins `json:"funds,omitempty"`
}

type MsgInstantiateResponse struct {
	Transfers []Transfer `json:"transfers"`
}

type MsgBid struct {
	Sender string          `json:"sender"`
	Funds  banktypes.Coins `json:"funds,omitempty"`
}

type MsgBidResponse struct {
	Total     Coin       `json:"total"`
	Transfers []Transfer `json:"transfers"`
}

type MsgClose struct {
	Sender string `json:"sender"`
}

type MsgCloseResponse struct {
	Winner    string     `json:"winner"`
	Transfers []Transfer `json:"transfers"`
}

// MsgRetract withdraws the sender's retractable amount to Receiver, or to
// Sender when Receiver is unset.
type MsgRetract struct {
	Sender   string  `json:"sender"`
	Receiver *string `json:"receiver,omitempty"`
}

type MsgRetractResponse struct {
	Transfers []Transfer `json:"transfers"`
}

func validateSender(sender string) error {
	if sender == "" {
		return ErrInvalidRequest.Wrap("missing sender")
	}
	if err := ValidateAddress(sender); err != nil {
		return err
	}
	return nil
}

func (m *MsgInstantiate) ValidateBasic() error {
	if err := validateSender(m.Sender); err != nil {
		return err
	}
	return validateFunds(m.Funds)
}

func (m *MsgBid) ValidateBasic() error {
	if err := validateSender(m.Sender); err != nil {
		return err
	}
	return validateFunds(m.Funds)
}

func (m *MsgClose) ValidateBasic() error {
	return validateSender(m.Sender)
}

func (m *MsgRetract) ValidateBasic() error {
	return validateSender(m.Sender)
}

func validateFunds(funds banktypes.Coins) error {
	if err := funds.Validate(); err != nil {
		return errorsmod.Wrap(ErrInvalidRequest, err.Error())
	}
	return nil
}

// ValidateAddress applies the account name rules of the bank module and
// reports failures under this module's codespace.
func ValidateAddress(addr string) error {
	if err := banktypes.ValidateAddress(addr); err != nil {
		return errorsmod.Wrap(ErrInvalidAddress, err.Error())
	}
	return nil
}
