package types

import "fmt"

// Balance is the genesis allocation of one account.
type Balance struct {
	Address string `json:"address"`
	Coins   Coins  `json:"coins"`
}

type GenesisState struct {
	Balances []Balance `json:"balances"`
}

func DefaultGenesisState() *GenesisState {
	return &GenesisState{Balances: nil}
}

func ValidateGenesis(gs *GenesisState) error {
	if gs == nil {
		return fmt.Errorf("genesis state is nil")
	}
	seen := make(map[string]bool, len(gs.Balances))
	for _, b := range gs.Balances {
		if !IsModuleAccount(b.Address) {
			if err := ValidateAddress(b.Address); err != nil {
				return err
			}
		}
		if seen[b.Address] {
			return fmt.Errorf("duplicate balance for %s", b.Address)
		}
		seen[b.Address] = true
		if err := b.Coins.Validate(); err != nil {
			return fmt.Errorf("balance %s: %w", b.Address, err)
		}
	}
	return nil
}
