package app

import (
	"encoding/json"
	"fmt"

	banktypes "biddingplatform/x/bank/types"
)

// GenesisState is the app_state section of the CometBFT genesis file.
type GenesisState struct {
	Bank *banktypes.GenesisState `json:"bank,omitempty"`
}

func DefaultGenesisState() *GenesisState {
	return &GenesisState{Bank: banktypes.DefaultGenesisState()}
}

// ParseGenesis decodes app_state. Empty input yields the default genesis.
func ParseGenesis(bz []byte) (*GenesisState, error) {
	gs := DefaultGenesisState()
	if len(bz) == 0 {
		return gs, nil
	}
	if err := json.Unmarshal(bz, gs); err != nil {
		return nil, fmt.Errorf("invalid app_state json: %w", err)
	}
	if gs.Bank == nil {
		gs.Bank = banktypes.DefaultGenesisState()
	}
	if err := banktypes.ValidateGenesis(gs.Bank); err != nil {
		return nil, fmt.Errorf("invalid bank genesis: %w", err)
	}
	return gs, nil
}
