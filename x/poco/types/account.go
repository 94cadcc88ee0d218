package types

import (
	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
)

// Account is a ledger balance split into spendable stake and escrowed frozen value.
type Account struct {
	Stake  math.Int `json:"stake"`
	Frozen math.Int `json:"frozen"`
}

// NewAccount returns an empty account.
func NewAccount() Account {
	return Account{Stake: math.ZeroInt(), Frozen: math.ZeroInt()}
}

// Total is stake plus frozen.
func (a Account) Total() math.Int {
	return a.Stake.Add(a.Frozen)
}

// IsEmpty reports whether both balances are zero.
func (a Account) IsEmpty() bool {
	return a.Stake.IsZero() && a.Frozen.IsZero()
}

// GenesisAccount pairs an account with its owner for import/export.
type GenesisAccount struct {
	Address common.Address `json:"address"`
	Account Account        `json:"account"`
}

// WorkerScore is a worker's reputation.
type WorkerScore struct {
	Worker common.Address `json:"worker"`
	Score  uint64         `json:"score"`
}
