package types

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// Domain is the EIP-712 domain separating order signatures of one
// deployment from every other.
type Domain struct {
	Name              string         `json:"name" yaml:"name"`
	Version           string         `json:"version" yaml:"version"`
	ChainID           uint64         `json:"chain_id" yaml:"chain_id"`
	VerifyingContract common.Address `json:"verifying_contract" yaml:"verifying_contract"`
}

// Validate performs stateless checks on the domain.
func (d Domain) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("domain name cannot be empty")
	}
	if d.Version == "" {
		return fmt.Errorf("domain version cannot be empty")
	}
	return nil
}

func (d Domain) typedDataDomain() apitypes.TypedDataDomain {
	return apitypes.TypedDataDomain{
		Name:              d.Name,
		Version:           d.Version,
		ChainId:           (*math.HexOrDecimal256)(new(big.Int).SetUint64(d.ChainID)),
		VerifyingContract: d.VerifyingContract.Hex(),
	}
}

// Separator returns the EIP-712 domain separator.
func (d Domain) Separator() (common.Hash, error) {
	td := apitypes.TypedData{Types: orderTypes, Domain: d.typedDataDomain()}
	sep, err := td.HashStruct("EIP712Domain", td.Domain.Map())
	if err != nil {
		return common.Hash{}, ErrInvalidOrder.Wrapf("domain separator: %v", err)
	}
	return common.BytesToHash(sep), nil
}
