package keeper

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ParamsKey is the key for module parameters
	ParamsKey = []byte{0x01}

	// AccountKeyPrefix is the prefix for ledger accounts
	AccountKeyPrefix = []byte{0x02}

	// ScoreKeyPrefix is the prefix for worker reputation scores
	ScoreKeyPrefix = []byte{0x03}

	// ConsumedKeyPrefix is the prefix for consumed order volume
	ConsumedKeyPrefix = []byte{0x04}

	// PresignedKeyPrefix is the prefix for on-ledger presigned orders
	PresignedKeyPrefix = []byte{0x05}

	// DealKeyPrefix is the prefix for deals
	DealKeyPrefix = []byte{0x06}

	// DealsByRequestPrefix indexes deals by request order hash and bot first
	DealsByRequestPrefix = []byte{0x07}

	// TaskKeyPrefix is the prefix for tasks
	TaskKeyPrefix = []byte{0x08}

	// ContributionKeyPrefix is the prefix for contributions by task and worker
	ContributionKeyPrefix = []byte{0x09}

	// ContributorKeyPrefix orders contributors of a task by arrival
	ContributorKeyPrefix = []byte{0x0A}

	// CategoryKeyPrefix is the prefix for categories
	CategoryKeyPrefix = []byte{0x0B}

	// NextCategoryIDKey is the key for the next category ID counter
	NextCategoryIDKey = []byte{0x0C}

	// AssetKeyPrefix is the prefix for registered assets
	AssetKeyPrefix = []byte{0x0D}

	// TaskExpiryPrefix indexes open tasks by final deadline
	TaskExpiryPrefix = []byte{0x0E}

	// PendingCallbackPrefix is the prefix for undelivered finalize callbacks
	PendingCallbackPrefix = []byte{0x0F}
)

func concat(parts ...[]byte) []byte {
	n := 0
	for _, p := range parts {
		n += len(p)
	}
	out := make([]byte, 0, n)
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// GetAccountKey returns the store key for a ledger account
func GetAccountKey(addr common.Address) []byte {
	return concat(AccountKeyPrefix, addr.Bytes())
}

// GetScoreKey returns the store key for a worker score
func GetScoreKey(worker common.Address) []byte {
	return concat(ScoreKeyPrefix, worker.Bytes())
}

// GetConsumedKey returns the store key for the consumed volume of an order
func GetConsumedKey(orderHash common.Hash) []byte {
	return concat(ConsumedKeyPrefix, orderHash.Bytes())
}

// GetPresignedKey returns the store key for a presigned order
func GetPresignedKey(orderHash common.Hash) []byte {
	return concat(PresignedKeyPrefix, orderHash.Bytes())
}

// GetDealKey returns the store key for a deal
func GetDealKey(dealID common.Hash) []byte {
	return concat(DealKeyPrefix, dealID.Bytes())
}

// GetDealsByRequestKey returns the index key of a deal under its request order
func GetDealsByRequestKey(requestHash common.Hash, botFirst uint64) []byte {
	return concat(DealsByRequestPrefix, requestHash.Bytes(), GetUint64Bytes(botFirst))
}

// GetDealsByRequestPrefix returns the index prefix of all deals of a request order
func GetDealsByRequestPrefix(requestHash common.Hash) []byte {
	return concat(DealsByRequestPrefix, requestHash.Bytes())
}

// GetTaskKey returns the store key for a task
func GetTaskKey(taskID common.Hash) []byte {
	return concat(TaskKeyPrefix, taskID.Bytes())
}

// GetContributionKey returns the store key for a worker's contribution
func GetContributionKey(taskID common.Hash, worker common.Address) []byte {
	return concat(ContributionKeyPrefix, taskID.Bytes(), worker.Bytes())
}

// GetContributorKey returns the ordered index key of a task contributor
func GetContributorKey(taskID common.Hash, seq uint64) []byte {
	return concat(ContributorKeyPrefix, taskID.Bytes(), GetUint64Bytes(seq))
}

// GetContributorPrefix returns the ordered index prefix of a task's contributors
func GetContributorPrefix(taskID common.Hash) []byte {
	return concat(ContributorKeyPrefix, taskID.Bytes())
}

// GetCategoryKey returns the store key for a category
func GetCategoryKey(id uint64) []byte {
	return concat(CategoryKeyPrefix, GetUint64Bytes(id))
}

// GetAssetKey returns the store key for an asset
func GetAssetKey(addr common.Address) []byte {
	return concat(AssetKeyPrefix, addr.Bytes())
}

// GetTaskExpiryKey returns the expiry index key of a task
func GetTaskExpiryKey(finalDeadline uint64, taskID common.Hash) []byte {
	return concat(TaskExpiryPrefix, GetUint64Bytes(finalDeadline), taskID.Bytes())
}

// GetPendingCallbackKey returns the store key for a pending callback
func GetPendingCallbackKey(taskID common.Hash) []byte {
	return concat(PendingCallbackPrefix, taskID.Bytes())
}

// GetUint64Bytes returns the big-endian encoding of id
func GetUint64Bytes(id uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, id)
	return bz
}

// GetUint64FromBytes decodes a big-endian uint64
func GetUint64FromBytes(bz []byte) uint64 {
	return binary.BigEndian.Uint64(bz)
}

// parseTaskExpiryKey splits an expiry index key (prefix excluded).
func parseTaskExpiryKey(key []byte) (uint64, common.Hash) {
	return GetUint64FromBytes(key[:8]), common.BytesToHash(key[8:])
}
