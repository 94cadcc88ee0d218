package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

func uint256Bytes(v uint64) []byte {
	return common.BigToHash(new(big.Int).SetUint64(v)).Bytes()
}

// DealID derives the deal identifier from the request order hash and the
// first task index of the deal window.
func DealID(requestHash common.Hash, botFirst uint64) common.Hash {
	return crypto.Keccak256Hash(requestHash.Bytes(), uint256Bytes(botFirst))
}

// TaskID derives the task identifier from the deal id and the global task index.
func TaskID(dealID common.Hash, index uint64) common.Hash {
	return crypto.Keccak256Hash(dealID.Bytes(), uint256Bytes(index))
}

// ResultHash is the commitment a worker contributes for a task.
func ResultHash(taskID, digest common.Hash) common.Hash {
	return crypto.Keccak256Hash(taskID.Bytes(), digest.Bytes())
}

// ResultSeal binds a result digest to the worker that computed it.
func ResultSeal(worker common.Address, taskID, digest common.Hash) common.Hash {
	return crypto.Keccak256Hash(worker.Bytes(), taskID.Bytes(), digest.Bytes())
}

// AuthorizationHash is the message a scheduler signs to dispatch worker on
// taskID, optionally bound to an enclave challenge address.
func AuthorizationHash(worker common.Address, taskID common.Hash, enclave common.Address) common.Hash {
	return EthSignedHash(crypto.Keccak256Hash(worker.Bytes(), taskID.Bytes(), enclave.Bytes()))
}

// ContributionHash is the message an enclave signs over a contribution.
func ContributionHash(resultHash, resultSeal common.Hash) common.Hash {
	return EthSignedHash(crypto.Keccak256Hash(resultHash.Bytes(), resultSeal.Bytes()))
}

// AssetAddress derives the address minted for a registered asset.
func AssetAddress(kind AssetKind, owner common.Address, name string) common.Address {
	return common.BytesToAddress(crypto.Keccak256([]byte{byte(kind)}, owner.Bytes(), []byte(name))[12:])
}
