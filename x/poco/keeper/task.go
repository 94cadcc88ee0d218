package keeper

import (
	"context"
	"strconv"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/paw-chain/poco/x/poco/types"
)

// GetTask returns a task by id.
func (k Keeper) GetTask(ctx context.Context, taskID common.Hash) (types.Task, error) {
	task, found, err := k.getTask(ctx, taskID)
	if err != nil {
		return types.Task{}, err
	}
	if !found {
		return types.Task{}, types.ErrTaskNotFound.Wrapf("%s", taskID.Hex())
	}
	return task, nil
}

func (k Keeper) getTask(ctx context.Context, taskID common.Hash) (types.Task, bool, error) {
	var task types.Task
	found, err := k.get(ctx, GetTaskKey(taskID), &task)
	return task, found, err
}

// SetTask stores a task and keeps the expiry index in step with its status.
func (k Keeper) SetTask(ctx context.Context, task types.Task) error {
	if err := k.set(ctx, GetTaskKey(task.ID), task); err != nil {
		return err
	}
	key := GetTaskExpiryKey(task.FinalDeadline, task.ID)
	if task.Status.IsFinal() {
		k.getStore(ctx).Delete(key)
	} else {
		k.getStore(ctx).Set(key, []byte{})
	}
	return nil
}

// IterateTasks walks every task.
func (k Keeper) IterateTasks(ctx context.Context, cb func(types.Task) (stop bool, err error)) error {
	iter := storetypes.KVStorePrefixIterator(k.getStore(ctx), TaskKeyPrefix)
	defer iter.Close()

	for ; iter.Valid(); iter.Next() {
		var task types.Task
		if err := k.cdc.Unmarshal(iter.Value(), &task); err != nil {
			return err
		}
		stop, err := cb(task)
		if err != nil {
			return err
		}
		if stop {
			break
		}
	}
	return nil
}

// deadline returns from + timeRef*ratio.
func deadline(from, timeRef, ratio uint64) (uint64, error) {
	span, err := SafeMulUint64(timeRef, ratio)
	if err != nil {
		return 0, types.ErrOverflow.Wrap(err.Error())
	}
	d, err := SafeAddUint64(from, span)
	if err != nil {
		return 0, types.ErrOverflow.Wrap(err.Error())
	}
	return d, nil
}

// dealExpiry is the time after which no task of the deal may start.
func (k Keeper) dealExpiry(ctx context.Context, deal types.Deal, params types.Params) (uint64, uint64, error) {
	category, err := k.GetCategory(ctx, deal.Category)
	if err != nil {
		return 0, 0, err
	}
	expiry, err := deadline(deal.StartTime, category.WorkClockTimeRef, params.FinalDeadlineRatio)
	return expiry, category.WorkClockTimeRef, err
}

// Initialize opens the task at index of the deal window and returns its id.
func (k Keeper) Initialize(ctx context.Context, dealID common.Hash, index uint64) (common.Hash, error) {
	var taskID common.Hash
	err := k.atomic(ctx, func(ctx sdk.Context) error {
		var err error
		taskID, err = k.initialize(ctx, dealID, index)
		return err
	})
	if err != nil {
		return common.Hash{}, err
	}
	k.metrics.TaskTransitions.WithLabelValues(types.TaskStatusActive.String()).Inc()
	return taskID, nil
}

func (k Keeper) initialize(ctx sdk.Context, dealID common.Hash, index uint64) (common.Hash, error) {
	deal, err := k.GetDeal(ctx, dealID)
	if err != nil {
		return common.Hash{}, err
	}
	if index >= deal.BotSize {
		return common.Hash{}, types.ErrInvalidTaskIndex.Wrapf("index %d, deal size %d", index, deal.BotSize)
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	expiry, timeRef, err := k.dealExpiry(ctx, deal, params)
	if err != nil {
		return common.Hash{}, err
	}
	t := now(ctx)
	if t >= expiry {
		return common.Hash{}, types.ErrDealExpired.Wrapf("deal %s expired at %d", dealID.Hex(), expiry)
	}

	taskID := types.TaskID(dealID, deal.BotFirst+index)
	if _, found, err := k.getTask(ctx, taskID); err != nil {
		return common.Hash{}, err
	} else if found {
		return common.Hash{}, types.ErrTaskAlreadyInitialized.Wrapf("%s", taskID.Hex())
	}

	task := types.Task{
		ID:      taskID,
		DealID:  dealID,
		Index:   deal.BotFirst + index,
		Status:  types.TaskStatusActive,
		TimeRef: timeRef,
	}
	if task.ContributionDeadline, err = deadline(t, timeRef, params.ContributionDeadlineRatio); err != nil {
		return common.Hash{}, err
	}
	if task.FinalDeadline, err = deadline(t, timeRef, params.FinalDeadlineRatio); err != nil {
		return common.Hash{}, err
	}
	if err := k.SetTask(ctx, task); err != nil {
		return common.Hash{}, err
	}

	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeTaskInitialize,
		sdk.NewAttribute(types.AttributeKeyTaskID, taskID.Hex()),
		sdk.NewAttribute(types.AttributeKeyWorkerpool, deal.Workerpool.Pointer.Hex()),
		sdk.NewAttribute(types.AttributeKeyDealID, dealID.Hex()),
	))
	return taskID, nil
}

// loadForScheduler fetches a task and its deal and checks the caller is the
// deal's scheduler.
func (k Keeper) loadForScheduler(ctx context.Context, scheduler common.Address, taskID common.Hash) (types.Task, types.Deal, error) {
	task, err := k.GetTask(ctx, taskID)
	if err != nil {
		return types.Task{}, types.Deal{}, err
	}
	deal, err := k.GetDeal(ctx, task.DealID)
	if err != nil {
		return types.Task{}, types.Deal{}, err
	}
	if deal.Scheduler() != scheduler {
		return types.Task{}, types.Deal{}, types.ErrUnauthorized.Wrapf("%s is not the scheduler of task %s", scheduler.Hex(), taskID.Hex())
	}
	return task, deal, nil
}

// Consensus moves an active task to its reveal phase once the weighted
// contributions reach the deal's trust and at least one contribution
// matches consensusValue.
func (k Keeper) Consensus(ctx context.Context, scheduler common.Address, taskID, consensusValue common.Hash) error {
	err := k.atomic(ctx, func(ctx sdk.Context) error {
		task, deal, err := k.loadForScheduler(ctx, scheduler, taskID)
		if err != nil {
			return err
		}
		return k.consensus(ctx, &task, deal, consensusValue)
	})
	if err != nil {
		return err
	}
	k.metrics.TaskTransitions.WithLabelValues(types.TaskStatusRevealing.String()).Inc()
	return nil
}

func (k Keeper) consensus(ctx sdk.Context, task *types.Task, deal types.Deal, consensusValue common.Hash) error {
	if task.Status != types.TaskStatusActive {
		return types.ErrInvalidTaskStatus.Wrapf("task %s is %s", task.ID.Hex(), task.Status)
	}
	t := now(ctx)
	if t >= task.FinalDeadline {
		return types.ErrDeadlineReached.Wrap("final deadline")
	}

	contributions, err := k.GetContributions(ctx, task.ID)
	if err != nil {
		return err
	}
	var weight, winners uint64
	for _, c := range contributions {
		if c.Status != types.ContributionStatusContributed {
			continue
		}
		weight += c.Weight
		if c.ResultHash == consensusValue {
			winners++
		}
	}
	if weight < deal.Trust {
		return types.ErrQuorumNotReached.Wrapf("weight %d < trust %d", weight, deal.Trust)
	}
	if winners == 0 {
		return types.ErrConsensusMismatch.Wrapf("no contribution matches %s", consensusValue.Hex())
	}

	params, err := k.GetParams(ctx)
	if err != nil {
		return err
	}
	task.RevealDeadline, err = deadline(t, task.TimeRef, params.RevealDeadlineRatio)
	if err != nil {
		return err
	}
	task.Status = types.TaskStatusRevealing
	task.ConsensusValue = consensusValue
	task.WinnerCounter = winners
	if err := k.SetTask(ctx, *task); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeTaskConsensus,
		sdk.NewAttribute(types.AttributeKeyTaskID, task.ID.Hex()),
		sdk.NewAttribute(types.AttributeKeyConsensus, consensusValue.Hex()),
	))
	return nil
}

// Reopen resets a task whose reveal phase ended without any reveal. The
// contributions that matched the asserted consensus are rejected; dissenting
// ones keep their vote for the next round. No prior contributor may
// contribute again.
func (k Keeper) Reopen(ctx context.Context, scheduler common.Address, taskID common.Hash) error {
	err := k.atomic(ctx, func(ctx sdk.Context) error {
		task, _, err := k.loadForScheduler(ctx, scheduler, taskID)
		if err != nil {
			return err
		}
		if task.Status != types.TaskStatusRevealing {
			return types.ErrInvalidTaskStatus.Wrapf("task %s is %s", taskID.Hex(), task.Status)
		}
		t := now(ctx)
		if t < task.RevealDeadline {
			return types.ErrDeadlineNotReached.Wrap("reveal deadline")
		}
		if t >= task.FinalDeadline {
			return types.ErrDeadlineReached.Wrap("final deadline")
		}
		if task.RevealCounter != 0 {
			return types.ErrRevealsPending.Wrapf("%d reveals recorded", task.RevealCounter)
		}

		contributions, err := k.GetContributions(ctx, taskID)
		if err != nil {
			return err
		}
		for _, c := range contributions {
			if c.Status != types.ContributionStatusContributed || c.ResultHash != task.ConsensusValue {
				continue
			}
			c.Status = types.ContributionStatusRejected
			if err := k.setContribution(ctx, c); err != nil {
				return err
			}
		}

		params, err := k.GetParams(ctx)
		if err != nil {
			return err
		}
		if task.ContributionDeadline, err = deadline(t, task.TimeRef, params.ContributionDeadlineRatio); err != nil {
			return err
		}
		if task.RevealDeadline, err = deadline(task.ContributionDeadline, task.TimeRef, params.RevealDeadlineRatio); err != nil {
			return err
		}
		task.ContributionDeadline = min(task.ContributionDeadline, task.FinalDeadline)
		task.RevealDeadline = min(task.RevealDeadline, task.FinalDeadline)
		task.Status = types.TaskStatusActive
		task.ConsensusValue = common.Hash{}
		task.RevealCounter = 0
		task.WinnerCounter = 0
		task.ReopenCount++
		if err := k.SetTask(ctx, task); err != nil {
			return err
		}

		ctx.EventManager().EmitEvent(sdk.NewEvent(
			types.EventTypeTaskReopen,
			sdk.NewAttribute(types.AttributeKeyTaskID, taskID.Hex()),
			sdk.NewAttribute("reopen_count", strconv.FormatUint(task.ReopenCount, 10)),
		))
		return nil
	})
	if err != nil {
		return err
	}
	k.metrics.TaskTransitions.WithLabelValues("REOPENED").Inc()
	return nil
}

// Claim fails a task whose final deadline passed without finalization and
// refunds its escrow. Anyone may call it.
func (k Keeper) Claim(ctx context.Context, taskID common.Hash) error {
	err := k.atomic(ctx, func(ctx sdk.Context) error {
		return k.claim(ctx, taskID)
	})
	if err != nil {
		return err
	}
	k.afterTaskFailed(ctx, taskID)
	return nil
}

func (k Keeper) claim(ctx sdk.Context, taskID common.Hash) error {
	task, err := k.GetTask(ctx, taskID)
	if err != nil {
		return err
	}
	if task.Status.IsFinal() {
		return types.ErrTaskAlreadyFinal.Wrapf("task %s is %s", taskID.Hex(), task.Status)
	}
	if now(ctx) < task.FinalDeadline {
		return types.ErrDeadlineNotReached.Wrap("final deadline")
	}
	deal, err := k.GetDeal(ctx, task.DealID)
	if err != nil {
		return err
	}
	return k.failTask(ctx, deal, &task)
}

// ClaimSlot fails a task slot that was never initialized before its deal
// expired, so the escrow locked for it is released.
func (k Keeper) ClaimSlot(ctx context.Context, dealID common.Hash, index uint64) (common.Hash, error) {
	var taskID common.Hash
	err := k.atomic(ctx, func(ctx sdk.Context) error {
		var err error
		taskID, err = k.claimSlot(ctx, dealID, index)
		return err
	})
	if err != nil {
		return common.Hash{}, err
	}
	k.afterTaskFailed(ctx, taskID)
	return taskID, nil
}

func (k Keeper) claimSlot(ctx sdk.Context, dealID common.Hash, index uint64) (common.Hash, error) {
	deal, err := k.GetDeal(ctx, dealID)
	if err != nil {
		return common.Hash{}, err
	}
	if index >= deal.BotSize {
		return common.Hash{}, types.ErrInvalidTaskIndex.Wrapf("index %d, deal size %d", index, deal.BotSize)
	}
	taskID := types.TaskID(dealID, deal.BotFirst+index)
	if _, found, err := k.getTask(ctx, taskID); err != nil {
		return common.Hash{}, err
	} else if found {
		return common.Hash{}, types.ErrTaskAlreadyInitialized.Wrapf("%s", taskID.Hex())
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return common.Hash{}, err
	}
	expiry, timeRef, err := k.dealExpiry(ctx, deal, params)
	if err != nil {
		return common.Hash{}, err
	}
	if now(ctx) < expiry {
		return common.Hash{}, types.ErrDeadlineNotReached.Wrap("deal expiry")
	}
	task := types.Task{
		ID:            taskID,
		DealID:        dealID,
		Index:         deal.BotFirst + index,
		TimeRef:       timeRef,
		FinalDeadline: expiry,
	}
	return taskID, k.failTask(ctx, deal, &task)
}

// failTask releases the escrow of a task that will never complete: the
// sponsor gets the task price back, the scheduler stake goes to the kitty
// and every contributor recovers its stake.
func (k Keeper) failTask(ctx sdk.Context, deal types.Deal, task *types.Task) error {
	pool := newSettlementPool()

	if err := k.unlock(ctx, deal.Sponsor, deal.TaskPrice()); err != nil {
		return err
	}
	if err := k.seize(ctx, pool, deal.Scheduler(), deal.SchedulerStake, task.ID); err != nil {
		return err
	}
	if err := k.lockFromPool(ctx, pool, types.KittyAddress, deal.SchedulerStake); err != nil {
		return err
	}

	contributions, err := k.GetContributions(ctx, task.ID)
	if err != nil {
		return err
	}
	for _, c := range contributions {
		if err := k.unlock(ctx, c.Worker, deal.WorkerStake); err != nil {
			return err
		}
	}
	if err := pool.settled(); err != nil {
		return err
	}

	task.Status = types.TaskStatusFailed
	if err := k.SetTask(ctx, *task); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeTaskClaimed,
		sdk.NewAttribute(types.AttributeKeyTaskID, task.ID.Hex()),
		sdk.NewAttribute(types.AttributeKeyDealID, deal.ID.Hex()),
	))
	k.metrics.TaskTransitions.WithLabelValues(types.TaskStatusFailed.String()).Inc()
	k.metrics.StakeSeized.Add(amountFloat(deal.SchedulerStake))
	return nil
}
