package keeper

import (
	"context"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/paw-chain/poco/x/poco/types"
)

// Finalize settles a revealed task and records its results. The deal's
// callback is delivered afterwards; a failed delivery never reverts the
// settlement.
func (k Keeper) Finalize(ctx context.Context, scheduler common.Address, taskID common.Hash, results, resultsCallback []byte) error {
	var (
		task types.Task
		deal types.Deal
	)
	err := k.atomic(ctx, func(ctx sdk.Context) error {
		var err error
		task, deal, err = k.loadForScheduler(ctx, scheduler, taskID)
		if err != nil {
			return err
		}
		return k.finalize(ctx, &task, deal, results, resultsCallback)
	})
	if err != nil {
		return err
	}
	k.metrics.TaskTransitions.WithLabelValues(types.TaskStatusCompleted.String()).Inc()
	k.deliverCallback(sdk.UnwrapSDKContext(ctx), deal, task)
	return nil
}

func (k Keeper) finalize(ctx sdk.Context, task *types.Task, deal types.Deal, results, resultsCallback []byte) error {
	if task.Status != types.TaskStatusRevealing {
		return types.ErrInvalidTaskStatus.Wrapf("task %s is %s", task.ID.Hex(), task.Status)
	}
	t := now(ctx)
	if t >= task.FinalDeadline {
		return types.ErrDeadlineReached.Wrap("final deadline")
	}
	if task.RevealCounter == 0 {
		return types.ErrRevealsPending.Wrap("no contribution has been revealed")
	}
	if task.RevealCounter != task.WinnerCounter && t < task.RevealDeadline {
		return types.ErrRevealsPending.Wrapf("%d of %d winners revealed", task.RevealCounter, task.WinnerCounter)
	}
	if deal.Callback != (common.Address{}) && crypto.Keccak256Hash(resultsCallback) != task.ResultDigest {
		return types.ErrCallbackMismatch.Wrap("results callback does not hash to the result digest")
	}

	if err := k.settle(ctx, deal, *task); err != nil {
		return err
	}

	task.Status = types.TaskStatusCompleted
	task.Results = results
	task.ResultsCallback = resultsCallback
	if err := k.SetTask(ctx, *task); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeTaskFinalize,
		sdk.NewAttribute(types.AttributeKeyTaskID, task.ID.Hex()),
		sdk.NewAttribute(types.AttributeKeyResults, common.Bytes2Hex(results)),
	))
	k.Logger(ctx).Info("task finalized",
		"task_id", task.ID.Hex(),
		"deal_id", deal.ID.Hex(),
		"winners", task.RevealCounter,
	)
	return nil
}

// ContributeAndFinalize completes a trust-1 task in a single step: the worker
// contributes, the consensus is its own result, it reveals and the task is
// settled.
func (k Keeper) ContributeAndFinalize(
	ctx context.Context,
	req ContributionRequest,
	resultDigest common.Hash,
	results, resultsCallback []byte,
) error {
	var (
		task types.Task
		deal types.Deal
	)
	err := k.atomic(ctx, func(ctx sdk.Context) error {
		var err error
		task, err = k.GetTask(ctx, req.TaskID)
		if err != nil {
			return err
		}
		deal, err = k.GetDeal(ctx, task.DealID)
		if err != nil {
			return err
		}
		if deal.Trust != 1 {
			return types.ErrTrustTooHigh.Wrapf("deal trust is %d", deal.Trust)
		}
		if task.ContributorCount != 0 {
			return types.ErrTaskHasContributions.Wrapf("task %s has %d contributions", task.ID.Hex(), task.ContributorCount)
		}

		req.ResultHash = types.ResultHash(task.ID, resultDigest)
		req.ResultSeal = types.ResultSeal(req.Worker, task.ID, resultDigest)
		if err := k.contribute(ctx, &task, deal, req); err != nil {
			return err
		}
		if err := k.consensus(ctx, &task, deal, req.ResultHash); err != nil {
			return err
		}
		if err := k.reveal(ctx, &task, req.Worker, resultDigest); err != nil {
			return err
		}
		return k.finalize(ctx, &task, deal, results, resultsCallback)
	})
	if err != nil {
		return err
	}
	k.metrics.Contributions.Inc()
	k.metrics.Reveals.Inc()
	k.metrics.TaskTransitions.WithLabelValues(types.TaskStatusCompleted.String()).Inc()
	k.deliverCallback(sdk.UnwrapSDKContext(ctx), deal, task)
	return nil
}
