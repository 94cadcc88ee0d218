package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/paw-chain/poco/x/poco/types"
)

// InitializeArray opens one task per (deal, index) pair. Either every task is
// opened or none is.
func (k Keeper) InitializeArray(ctx context.Context, dealIDs []common.Hash, indexes []uint64) ([]common.Hash, error) {
	if err := types.ValidateBatchLength(len(dealIDs), len(indexes)); err != nil {
		return nil, err
	}
	taskIDs := make([]common.Hash, len(dealIDs))
	err := k.atomic(ctx, func(ctx sdk.Context) error {
		for i := range dealIDs {
			taskID, err := k.initialize(ctx, dealIDs[i], indexes[i])
			if err != nil {
				return err
			}
			taskIDs[i] = taskID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	k.metrics.TaskTransitions.WithLabelValues(types.TaskStatusActive.String()).Add(float64(len(taskIDs)))
	return taskIDs, nil
}

// ClaimArray fails every listed task. A single task that cannot be claimed
// reverts the whole batch.
func (k Keeper) ClaimArray(ctx context.Context, taskIDs []common.Hash) error {
	if err := types.ValidateBatchLength(len(taskIDs), len(taskIDs)); err != nil {
		return err
	}
	err := k.atomic(ctx, func(ctx sdk.Context) error {
		for _, taskID := range taskIDs {
			if err := k.claim(ctx, taskID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	for _, taskID := range taskIDs {
		k.afterTaskFailed(ctx, taskID)
	}
	return nil
}

// InitializeAndClaimArray fails the never-initialized slots of expired deals
// in one step.
func (k Keeper) InitializeAndClaimArray(ctx context.Context, dealIDs []common.Hash, indexes []uint64) ([]common.Hash, error) {
	if err := types.ValidateBatchLength(len(dealIDs), len(indexes)); err != nil {
		return nil, err
	}
	taskIDs := make([]common.Hash, len(dealIDs))
	err := k.atomic(ctx, func(ctx sdk.Context) error {
		for i := range dealIDs {
			taskID, err := k.claimSlot(ctx, dealIDs[i], indexes[i])
			if err != nil {
				return err
			}
			taskIDs[i] = taskID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	for _, taskID := range taskIDs {
		k.afterTaskFailed(ctx, taskID)
	}
	return taskIDs, nil
}
