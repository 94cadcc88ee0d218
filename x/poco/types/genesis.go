package types

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"
)

// ConsumedRecord is the consumed volume of one order hash.
type ConsumedRecord struct {
	OrderHash common.Hash `json:"order_hash"`
	Consumed  uint64      `json:"consumed"`
}

// PresignRecord is an order hash presigned on-ledger by its signer.
type PresignRecord struct {
	OrderHash common.Hash    `json:"order_hash"`
	Signer    common.Address `json:"signer"`
}

// GenesisState defines the poco module's genesis state.
type GenesisState struct {
	Params           Params            `json:"params"`
	Categories       []Category        `json:"categories"`
	Assets           []Asset           `json:"assets"`
	Accounts         []GenesisAccount  `json:"accounts"`
	Scores           []WorkerScore     `json:"scores"`
	Consumed         []ConsumedRecord  `json:"consumed"`
	Presigned        []PresignRecord   `json:"presigned"`
	Deals            []Deal            `json:"deals"`
	Tasks            []Task            `json:"tasks"`
	Contributions    []Contribution    `json:"contributions"`
	PendingCallbacks []PendingCallback `json:"pending_callbacks"`
}

// DefaultGenesis returns the default genesis state
func DefaultGenesis() *GenesisState {
	return &GenesisState{
		Params:     DefaultParams(),
		Categories: DefaultCategories(),
	}
}

// Validate performs basic genesis state validation
func (gs GenesisState) Validate() error {
	if err := gs.Params.Validate(); err != nil {
		return ErrInvalidGenesis.Wrapf("params: %v", err)
	}

	for i, c := range gs.Categories {
		if c.ID != uint64(i) {
			return ErrInvalidGenesis.Wrapf("category %d out of sequence at position %d", c.ID, i)
		}
		if err := c.Validate(); err != nil {
			return ErrInvalidGenesis.Wrapf("category %d: %v", c.ID, err)
		}
	}

	assets := make(map[common.Address]struct{}, len(gs.Assets))
	for _, a := range gs.Assets {
		if err := a.Validate(); err != nil {
			return ErrInvalidGenesis.Wrapf("asset %s: %v", a.Address.Hex(), err)
		}
		if _, dup := assets[a.Address]; dup {
			return ErrInvalidGenesis.Wrapf("duplicate asset %s", a.Address.Hex())
		}
		assets[a.Address] = struct{}{}
	}

	accounts := make(map[common.Address]struct{}, len(gs.Accounts))
	for _, ga := range gs.Accounts {
		if _, dup := accounts[ga.Address]; dup {
			return ErrInvalidGenesis.Wrapf("duplicate account %s", ga.Address.Hex())
		}
		accounts[ga.Address] = struct{}{}
		if ga.Account.Stake.IsNil() || ga.Account.Frozen.IsNil() ||
			ga.Account.Stake.IsNegative() || ga.Account.Frozen.IsNegative() {
			return ErrInvalidGenesis.Wrapf("account %s has a negative or unset balance", ga.Address.Hex())
		}
	}

	deals := make(map[common.Hash]Deal, len(gs.Deals))
	for _, d := range gs.Deals {
		if _, dup := deals[d.ID]; dup {
			return ErrInvalidGenesis.Wrapf("duplicate deal %s", d.ID.Hex())
		}
		if d.BotSize == 0 {
			return ErrInvalidGenesis.Wrapf("deal %s has an empty window", d.ID.Hex())
		}
		deals[d.ID] = d
	}

	tasks := make(map[common.Hash]struct{}, len(gs.Tasks))
	for _, t := range gs.Tasks {
		d, ok := deals[t.DealID]
		if !ok {
			return ErrInvalidGenesis.Wrapf("task %s references unknown deal %s", t.ID.Hex(), t.DealID.Hex())
		}
		if t.Index < d.BotFirst || t.Index >= d.BotFirst+d.BotSize {
			return ErrInvalidGenesis.Wrapf("task %s index %d outside deal window", t.ID.Hex(), t.Index)
		}
		if TaskID(t.DealID, t.Index) != t.ID {
			return ErrInvalidGenesis.Wrapf("task %s id does not match deal and index", t.ID.Hex())
		}
		tasks[t.ID] = struct{}{}
	}

	for _, c := range gs.Contributions {
		if _, ok := tasks[c.TaskID]; !ok {
			return ErrInvalidGenesis.Wrapf("contribution of %s references unknown task %s", c.Worker.Hex(), c.TaskID.Hex())
		}
	}

	for _, p := range gs.PendingCallbacks {
		if _, ok := tasks[p.TaskID]; !ok {
			return ErrInvalidGenesis.Wrapf("pending callback references unknown task %s", p.TaskID.Hex())
		}
	}

	return nil
}

// MarshalGenesis encodes gs as JSON. Hashes and addresses are written as
// 0x-prefixed hex.
func MarshalGenesis(gs *GenesisState) (json.RawMessage, error) {
	return json.Marshal(gs)
}

// UnmarshalGenesis decodes a JSON genesis state.
func UnmarshalGenesis(bz []byte) (GenesisState, error) {
	var gs GenesisState
	if err := json.Unmarshal(bz, &gs); err != nil {
		return GenesisState{}, ErrInvalidGenesis.Wrap(err.Error())
	}
	return gs, nil
}
