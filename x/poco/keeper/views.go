package keeper

import (
	"context"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"

	sharedkeeper "github.com/paw-chain/poco/x/shared/keeper"
)

var _ sharedkeeper.PocoKeeperV1Extended = Keeper{}

// TaskInfo returns a summary of a task for other modules.
func (k Keeper) TaskInfo(ctx context.Context, taskID common.Hash) (sharedkeeper.TaskInfo, bool) {
	task, found, err := k.getTask(ctx, taskID)
	if err != nil || !found {
		return sharedkeeper.TaskInfo{}, false
	}
	return sharedkeeper.TaskInfo{
		TaskID:        task.ID,
		DealID:        task.DealID,
		Status:        task.Status.String(),
		Final:         task.Status.IsFinal(),
		FinalDeadline: task.FinalDeadline,
		ResultDigest:  task.ResultDigest,
	}, true
}

// WorkerScore returns the reputation of a worker.
func (k Keeper) WorkerScore(ctx context.Context, worker common.Address) uint64 {
	return k.GetScore(ctx, worker)
}

// AvailableStake returns the unlocked ledger balance of addr.
func (k Keeper) AvailableStake(ctx context.Context, addr common.Address) (sdkmath.Int, error) {
	acc, err := k.GetAccount(ctx, addr)
	if err != nil {
		return sdkmath.Int{}, err
	}
	return acc.Stake, nil
}
