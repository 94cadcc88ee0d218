package cli

// Flag constants for poco CLI commands
const (
	// Domain flags
	FlagDomainName        = "domain-name"
	FlagDomainVersion     = "domain-version"
	FlagChainID           = "eip712-chain-id"
	FlagVerifyingContract = "verifying-contract"

	// Order flags
	FlagKind = "kind"
	FlagFile = "file"

	// Id flags
	FlagRequestHash = "request"
	FlagBotFirst    = "bot-first"
	FlagDealID      = "deal"
	FlagIndex       = "index"

	// Result flags
	FlagWorker = "worker"
	FlagTaskID = "task"
	FlagDigest = "digest"

	FlagOutput = "output"
)
