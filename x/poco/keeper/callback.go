package keeper

import (
	"context"

	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/telemetry"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/hashicorp/go-metrics"

	"github.com/paw-chain/poco/x/poco/types"
)

// GetPendingCallback returns the failed callback delivery of a task, if any.
func (k Keeper) GetPendingCallback(ctx context.Context, taskID common.Hash) (types.PendingCallback, bool, error) {
	var pending types.PendingCallback
	found, err := k.get(ctx, GetPendingCallbackKey(taskID), &pending)
	return pending, found, err
}

// SetPendingCallback stores a failed callback delivery.
func (k Keeper) SetPendingCallback(ctx context.Context, pending types.PendingCallback) error {
	return k.set(ctx, GetPendingCallbackKey(pending.TaskID), pending)
}

// IteratePendingCallbacks walks every failed callback delivery.
func (k Keeper) IteratePendingCallbacks(ctx context.Context, cb func(types.PendingCallback) (stop bool, err error)) error {
	iter := storetypes.KVStorePrefixIterator(k.getStore(ctx), PendingCallbackPrefix)
	defer iter.Close()

	for ; iter.Valid(); iter.Next() {
		var pending types.PendingCallback
		if err := k.cdc.Unmarshal(iter.Value(), &pending); err != nil {
			return err
		}
		stop, err := cb(pending)
		if err != nil {
			return err
		}
		if stop {
			break
		}
	}
	return nil
}

// runHooks executes fn on a branch of ctx that is committed only when fn
// neither fails nor panics.
func (k Keeper) runHooks(ctx sdk.Context, handler string, fn func(sdk.Context) error) error {
	cacheCtx, write := ctx.CacheContext()
	if err := SafeExecute(cacheCtx, handler, func() error { return fn(cacheCtx) }); err != nil {
		return err
	}
	write()
	return nil
}

// tryDeliver hands the results of a completed task to the finalize hooks. It
// reports false with no error when no hook is set.
func (k Keeper) tryDeliver(ctx sdk.Context, deal types.Deal, task types.Task) (bool, error) {
	if k.hooks == nil {
		return false, nil
	}
	err := k.runHooks(ctx, "AfterTaskFinalized", func(ctx sdk.Context) error {
		return k.hooks.AfterTaskFinalized(ctx, task.ID, deal.Callback, task.ResultsCallback)
	})
	return err == nil, err
}

// deliverCallback runs after settlement is committed. A failure is recorded
// for RetryCallback and reported, it is never returned.
func (k Keeper) deliverCallback(ctx sdk.Context, deal types.Deal, task types.Task) {
	delivered, err := k.tryDeliver(ctx, deal, task)
	if err == nil {
		if delivered && deal.Callback != (common.Address{}) {
			k.metrics.CallbackDelivered.Inc()
			ctx.EventManager().EmitEvent(sdk.NewEvent(
				types.EventTypeCallbackDelivered,
				sdk.NewAttribute(types.AttributeKeyTaskID, task.ID.Hex()),
				sdk.NewAttribute(types.AttributeKeyCallback, deal.Callback.Hex()),
			))
		}
		return
	}

	k.recordCallbackFailure(ctx, types.PendingCallback{
		TaskID:   task.ID,
		Callback: deal.Callback,
	}, err)
}

func (k Keeper) recordCallbackFailure(ctx sdk.Context, pending types.PendingCallback, cause error) {
	pending.Attempts++
	pending.LastError = cause.Error()
	if err := k.SetPendingCallback(ctx, pending); err != nil {
		k.Logger(ctx).Error("failed to store pending callback", "task_id", pending.TaskID.Hex(), "error", err)
	}

	k.metrics.CallbackFailures.Inc()
	telemetry.IncrCounterWithLabels(
		[]string{types.ModuleName, "callback_failed"},
		1,
		[]metrics.Label{telemetry.NewLabel("callback", pending.Callback.Hex())},
	)
	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeCallbackFailed,
		sdk.NewAttribute(types.AttributeKeyTaskID, pending.TaskID.Hex()),
		sdk.NewAttribute(types.AttributeKeyCallback, pending.Callback.Hex()),
		sdk.NewAttribute(types.AttributeKeyError, cause.Error()),
	))
	k.Logger(ctx).Error("callback delivery failed",
		"task_id", pending.TaskID.Hex(),
		"callback", pending.Callback.Hex(),
		"attempts", pending.Attempts,
		"error", cause,
	)
}

// RetryCallback re-attempts a failed callback delivery. It reports whether
// the delivery succeeded; a new failure is recorded, not returned.
func (k Keeper) RetryCallback(ctx context.Context, taskID common.Hash) (bool, error) {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	pending, found, err := k.GetPendingCallback(ctx, taskID)
	if err != nil {
		return false, err
	}
	if !found {
		return false, types.ErrCallbackNotPending.Wrapf("%s", taskID.Hex())
	}
	task, err := k.GetTask(ctx, taskID)
	if err != nil {
		return false, err
	}
	if task.Status != types.TaskStatusCompleted {
		return false, types.ErrInvalidTaskStatus.Wrapf("task %s is %s", taskID.Hex(), task.Status)
	}
	deal, err := k.GetDeal(ctx, task.DealID)
	if err != nil {
		return false, err
	}

	delivered, err := k.tryDeliver(sdkCtx, deal, task)
	if err != nil {
		k.recordCallbackFailure(sdkCtx, pending, err)
		return false, nil
	}
	if !delivered {
		return false, nil
	}
	k.getStore(ctx).Delete(GetPendingCallbackKey(taskID))
	k.metrics.CallbackDelivered.Inc()
	sdkCtx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeCallbackDelivered,
		sdk.NewAttribute(types.AttributeKeyTaskID, taskID.Hex()),
		sdk.NewAttribute(types.AttributeKeyCallback, deal.Callback.Hex()),
	))
	return true, nil
}

// afterTaskFailed notifies the hooks of a failed task. Errors are logged.
func (k Keeper) afterTaskFailed(ctx context.Context, taskID common.Hash) {
	if k.hooks == nil {
		return
	}
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	err := k.runHooks(sdkCtx, "AfterTaskFailed", func(ctx sdk.Context) error {
		return k.hooks.AfterTaskFailed(ctx, taskID)
	})
	if err != nil {
		k.Logger(ctx).Error("task failure hook", "task_id", taskID.Hex(), "error", err)
	}
}
