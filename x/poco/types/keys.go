package types

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	// ModuleName defines the module name
	ModuleName = "poco"

	// StoreKey defines the primary module store key
	StoreKey = ModuleName

	// RouterKey defines the module's message routing key
	RouterKey = ModuleName

	// DefaultDenom is the bank denom backing the ledger accounts
	DefaultDenom = "upoco"

	// MaxBatchSize bounds the entries of a single batch message
	MaxBatchSize = 100
)

// KittyAddress is the protocol-owned account collecting scheduler stakes
// seized from failed tasks. Its frozen balance is paid out as a bonus to
// schedulers on successful finalizations.
var KittyAddress = common.BytesToAddress(crypto.Keccak256([]byte("poco/kitty"))[12:])
