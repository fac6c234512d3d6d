package app

import (
	"context"
	"fmt"

	abci "github.com/cometbft/cometbft/abci/types"

	"biddingplatform/internal/codec"
	banktypes "biddingplatform/x/bank/types"
	biddingtypes "biddingplatform/x/bidding/types"
)

// signer returns the account that must sign a tx of the given type, or "" for
// tx types that carry no auth.
func signer(env codec.TxEnvelope) (string, error) {
	switch env.Type {
	case codec.TypeBankMint:
		return "", nil
	case codec.TypeAuthRegisterAccount:
		var msg codec.AuthRegisterAccountTx
		if err := codec.DecodeValue(env, &msg); err != nil {
			return "", err
		}
		return msg.Account, nil
	case codec.TypeBankSend:
		var msg banktypes.MsgSend
		if err := codec.DecodeValue(env, &msg); err != nil {
			return "", err
		}
		return msg.From, nil
	case codec.TypeBiddingInstantiate, codec.TypeBiddingBid, codec.TypeBiddingClose, codec.TypeBiddingRetract:
		var msg struct {
			Sender string `json:"sender"`
		}
		if err := codec.DecodeValue(env, &msg); err != nil {
			return "", err
		}
		return msg.Sender, nil
	default:
		return "", fmt.Errorf("unknown tx type: %s", env.Type)
	}
}

// validateTx decodes the value and runs the stateless checks of its message.
func validateTx(env codec.TxEnvelope) error {
	var msg interface{ ValidateBasic() error }
	switch env.Type {
	case codec.TypeAuthRegisterAccount:
		var m codec.AuthRegisterAccountTx
		if err := codec.DecodeValue(env, &m); err != nil {
			return err
		}
		return banktypes.ValidateAddress(m.Account)
	case codec.TypeBankMint:
		msg = &banktypes.MsgMint{}
	case codec.TypeBankSend:
		msg = &banktypes.MsgSend{}
	case codec.TypeBiddingInstantiate:
		msg = &biddingtypes.MsgInstantiate{}
	case codec.TypeBiddingBid:
		msg = &biddingtypes.MsgBid{}
	case codec.TypeBiddingClose:
		msg = &biddingtypes.MsgClose{}
	case codec.TypeBiddingRetract:
		msg = &biddingtypes.MsgRetract{}
	default:
		return fmt.Errorf("unknown tx type: %s", env.Type)
	}
	if err := codec.DecodeValue(env, msg); err != nil {
		return err
	}
	return msg.ValidateBasic()
}

// authenticate verifies the signature of a signed tx type and consumes its
// nonce.
func (a *App) authenticate(ctx context.Context, env codec.TxEnvelope) error {
	account, err := signer(env)
	if err != nil {
		return err
	}
	if account == "" {
		return nil
	}
	if env.Type == codec.TypeAuthRegisterAccount {
		var msg codec.AuthRegisterAccountTx
		if err := codec.DecodeValue(env, &msg); err != nil {
			return err
		}
		if err := requireRegisterAccountAuth(env, msg); err != nil {
			return err
		}
	} else if err := a.requireAccountAuth(ctx, env, account); err != nil {
		return err
	}
	return a.consumeNonce(ctx, env)
}

// route executes an authenticated tx and returns its events.
func (a *App) route(ctx context.Context, env codec.TxEnvelope) ([]abci.Event, error) {
	switch env.Type {
	case codec.TypeAuthRegisterAccount:
		var msg codec.AuthRegisterAccountTx
		if err := codec.DecodeValue(env, &msg); err != nil {
			return nil, err
		}
		if err := banktypes.ValidateAddress(msg.Account); err != nil {
			return nil, err
		}
		exists, err := a.AccountKeys.Has(ctx, msg.Account)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, fmt.Errorf("account %q already registered", msg.Account)
		}
		if err := a.AccountKeys.Set(ctx, msg.Account, msg.PubKey); err != nil {
			return nil, err
		}
		return []abci.Event{newEvent("AccountRegistered", map[string]string{"account": msg.Account})}, nil

	case codec.TypeBankMint:
		var msg banktypes.MsgMint
		if err := codec.DecodeValue(env, &msg); err != nil {
			return nil, err
		}
		if _, err := a.bankMsgs.Mint(ctx, &msg); err != nil {
			return nil, err
		}
		return []abci.Event{newEvent("BankMinted", map[string]string{
			"to":     msg.To,
			"amount": banktypes.NewCoin(msg.Denom, msg.Amount).String(),
		})}, nil

	case codec.TypeBankSend:
		var msg banktypes.MsgSend
		if err := codec.DecodeValue(env, &msg); err != nil {
			return nil, err
		}
		if _, err := a.bankMsgs.Send(ctx, &msg); err != nil {
			return nil, err
		}
		return []abci.Event{newEvent("BankSent", map[string]string{
			"from":   msg.From,
			"to":     msg.To,
			"amount": banktypes.NewCoin(msg.Denom, msg.Amount).String(),
		})}, nil

	case codec.TypeBiddingInstantiate:
		var msg biddingtypes.MsgInstantiate
		if err := codec.DecodeValue(env, &msg); err != nil {
			return nil, err
		}
		res, err := a.biddingMsgs.Instantiate(ctx, &msg)
		if err != nil {
			return nil, err
		}
		return biddingEvents(biddingtypes.MethodInstantiate, msg.Sender, nil, res.Transfers), nil

	case codec.TypeBiddingBid:
		var msg biddingtypes.MsgBid
		if err := codec.DecodeValue(env, &msg); err != nil {
			return nil, err
		}
		res, err := a.biddingMsgs.Bid(ctx, &msg)
		if err != nil {
			return nil, err
		}
		return biddingEvents(biddingtypes.MethodBid, msg.Sender, map[string]string{
			biddingtypes.AttributeKeyHighest: res.Total.String(),
		}, res.Transfers), nil

	case codec.TypeBiddingClose:
		var msg biddingtypes.MsgClose
		if err := codec.DecodeValue(env, &msg); err != nil {
			return nil, err
		}
		res, err := a.biddingMsgs.Close(ctx, &msg)
		if err != nil {
			return nil, err
		}
		return biddingEvents(biddingtypes.MethodClose, msg.Sender, map[string]string{
			biddingtypes.AttributeKeyWinner: res.Winner,
		}, res.Transfers), nil

	case codec.TypeBiddingRetract:
		var msg biddingtypes.MsgRetract
		if err := codec.DecodeValue(env, &msg); err != nil {
			return nil, err
		}
		res, err := a.biddingMsgs.Retract(ctx, &msg)
		if err != nil {
			return nil, err
		}
		return biddingEvents(biddingtypes.MethodRetract, msg.Sender, nil, res.Transfers), nil

	default:
		return nil, fmt.Errorf("unknown tx type: %s", env.Type)
	}
}

func biddingEvents(method, sender string, extra map[string]string, transfers []biddingtypes.Transfer) []abci.Event {
	attrs := map[string]string{
		biddingtypes.AttributeKeyMethod: method,
		biddingtypes.AttributeKeySender: sender,
	}
	for k, v := range extra {
		attrs[k] = v
	}
	events := []abci.Event{newEvent(biddingtypes.EventTypeBidding, attrs)}
	return append(events, transferEvents(biddingtypes.ModuleAccount, transfers)...)
}
