package types

import (
	"fmt"
	"math/big"
	"regexp"
	"strings"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
)

var reDenom = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9/:._-]{2,127}$`)

// maxAmountBits is the widest amount math.Uint can hold.
const maxAmountBits = 256

// AddAmounts returns a+b, or ErrInvalidCoins when the sum does not fit in an
// amount.
func AddAmounts(a, b math.Uint) (math.Uint, error) {
	sum := new(big.Int)
	for _, x := range []math.Uint{a, b} {
		if !x.IsNil() {
			sum.Add(sum, x.BigInt())
		}
	}
	if sum.BitLen() > maxAmountBits {
		return math.Uint{}, errorsmod.Wrapf(ErrInvalidCoins, "amount overflow: %s + %s", a, b)
	}
	return math.NewUintFromBigInt(sum), nil
}

// ValidateDenom checks denom against the usual cosmos denomination format.
func ValidateDenom(denom string) error {
	if !reDenom.MatchString(denom) {
		return errorsmod.Wrapf(ErrInvalidCoins, "invalid denom %q", denom)
	}
	return nil
}

type Coin struct {
	Denom  string    `json:"denom"`
	Amount math.Uint `json:"amount"`
}

func NewCoin(denom string, amount math.Uint) Coin {
	return Coin{Denom: denom, Amount: amount}
}

// ZeroCoin is the empty amount of denom.
func ZeroCoin(denom string) Coin {
	return Coin{Denom: denom, Amount: math.ZeroUint()}
}

func (c Coin) Validate() error {
	if err := ValidateDenom(c.Denom); err != nil {
		return err
	}
	if c.Amount.IsNil() {
		return errorsmod.Wrapf(ErrInvalidCoins, "%s: missing amount", c.Denom)
	}
	if c.Amount.BigInt().Sign() < 0 {
		return errorsmod.Wrapf(ErrInvalidCoins, "%s: negative amount", c.Denom)
	}
	return nil
}

// IsZero reports whether the coin carries no value. A missing amount counts
// as zero.
func (c Coin) IsZero() bool {
	return c.Amount.IsNil() || c.Amount.IsZero()
}

func (c Coin) String() string {
	if c.Amount.IsNil() {
		return "0" + c.Denom
	}
	return c.Amount.String() + c.Denom
}

// Coins is a list of coins with distinct denominations, as attached to a
// single message.
type Coins []Coin

func (cs Coins) Validate() error {
	seen := make(map[string]struct{}, len(cs))
	for _, c := range cs {
		if err := c.Validate(); err != nil {
			return err
		}
		if _, dup := seen[c.Denom]; dup {
			return errorsmod.Wrapf(ErrInvalidCoins, "duplicate denom %s", c.Denom)
		}
		seen[c.Denom] = struct{}{}
	}
	return nil
}

// AmountOf returns the amount attached in denom, zero when absent.
func (cs Coins) AmountOf(denom string) math.Uint {
	for _, c := range cs {
		if c.Denom == denom && !c.Amount.IsNil() {
			return c.Amount
		}
	}
	return math.ZeroUint()
}

// NonZero drops zero-valued entries.
func (cs Coins) NonZero() Coins {
	out := make(Coins, 0, len(cs))
	for _, c := range cs {
		if !c.IsZero() {
			out = append(out, c)
		}
	}
	return out
}

func (cs Coins) String() string {
	parts := make([]string, 0, len(cs))
	for _, c := range cs {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, ",")
}

// ParseCoin parses "<amount><denom>", e.g. "100uatom".
func ParseCoin(s string) (Coin, error) {
	s = strings.TrimSpace(s)
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return Coin{}, errorsmod.Wrapf(ErrInvalidCoins, "invalid coin %q", s)
	}
	amt, err := math.ParseUint(s[:i])
	if err != nil {
		return Coin{}, errorsmod.Wrapf(ErrInvalidCoins, "invalid amount in %q: %v", s, err)
	}
	c := NewCoin(s[i:], amt)
	if err := c.Validate(); err != nil {
		return Coin{}, err
	}
	return c, nil
}

// ParseCoins parses a comma separated list of coins. The empty string yields
// no coins.
func ParseCoins(s string) (Coins, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var out Coins
	for _, part := range strings.Split(s, ",") {
		c, err := ParseCoin(part)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("parse coins: %w", err)
	}
	return out, nil
}
