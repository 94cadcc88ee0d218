// Package keeper provides keeper interfaces and helpers shared by modules
// that build on the poco marketplace.
package keeper

import (
	"context"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
)

// PocoKeeperV1 is the read-only view of the poco module other modules may
// depend on instead of the concrete keeper.
type PocoKeeperV1 interface {
	// TaskInfo returns a summary of a task and whether it exists.
	TaskInfo(ctx context.Context, taskID common.Hash) (TaskInfo, bool)

	// WorkerScore returns the reputation of a worker.
	WorkerScore(ctx context.Context, worker common.Address) uint64
}

// PocoKeeperV1Extended adds ledger queries.
type PocoKeeperV1Extended interface {
	PocoKeeperV1

	// AvailableStake returns the unlocked ledger balance of an address.
	AvailableStake(ctx context.Context, addr common.Address) (sdkmath.Int, error)
}

// TaskInfo summarises a task for consumers outside the poco module.
type TaskInfo struct {
	TaskID        common.Hash
	DealID        common.Hash
	Status        string
	Final         bool
	FinalDeadline uint64
	ResultDigest  common.Hash
}
