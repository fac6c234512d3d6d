package types

import (
	"strings"

	errorsmod "cosmossdk.io/errors"
)

const (
	minAddressLen = 3
	maxAddressLen = 90
)

// ValidateAddress checks that addr is a user account name: 3 to 90 characters
// of lowercase letters, digits, '_' or '-'. Module accounts (see
// ModuleAccount) never pass this check.
func ValidateAddress(addr string) error {
	if len(addr) < minAddressLen {
		return errorsmod.Wrapf(ErrInvalidAddress, "%q: too short", addr)
	}
	if len(addr) > maxAddressLen {
		return errorsmod.Wrapf(ErrInvalidAddress, "%q: too long", addr)
	}
	if strings.ToLower(addr) != addr {
		return errorsmod.Wrapf(ErrInvalidAddress, "%q: not normalized", addr)
	}
	for _, r := range addr {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return errorsmod.Wrapf(ErrInvalidAddress, "%q: invalid character %q", addr, r)
		}
	}
	return nil
}

const moduleAccountPrefix = "module:"

// ModuleAccount returns the escrow account owned by module.
func ModuleAccount(module string) string {
	return moduleAccountPrefix + module
}

func IsModuleAccount(addr string) bool {
	return strings.HasPrefix(addr, moduleAccountPrefix) && len(addr) > len(moduleAccountPrefix)
}
