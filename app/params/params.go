package params

const (
	// AppName is the human-readable name reported by `version` and Info.
	AppName = "BiddingPlatform"

	// BinaryName is the name of the daemon produced by this module.
	BinaryName = "biddingd"

	// BaseDenom is the denomination the auction counts by default.
	BaseDenom = "uatom"

	// DefaultChainID is a suggested chain-id for local devnets.
	DefaultChainID = "bidding-1"

	// EnvPrefix is the environment variable prefix used by the CLI/config system.
	// Example: BIDDINGD_HOME, BIDDINGD_ABCI_ADDR, etc.
	EnvPrefix = "BIDDINGD"

	// DefaultHomeDir is the home directory name created under $HOME.
	DefaultHomeDir = ".biddingd"
)
