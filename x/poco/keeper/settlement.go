package keeper

import (
	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/paw-chain/poco/x/poco/types"
)

// settle distributes the escrow of a task that reached consensus.
//
// The sponsor's task price is seized and the app and dataset owners are paid
// their price. The workerpool price plus the stake forfeited by every
// contributor that did not prove the consensus forms the pool the scheduler
// shares with the winners. The scheduler then recovers its stake and draws a
// bonus from the kitty. Every unit seized is paid out again.
func (k Keeper) settle(ctx sdk.Context, deal types.Deal, task types.Task) error {
	params, err := k.GetParams(ctx)
	if err != nil {
		return err
	}
	pool := newSettlementPool()

	if err := k.seize(ctx, pool, deal.Sponsor, deal.TaskPrice(), task.ID); err != nil {
		return err
	}
	if err := k.reward(ctx, pool, deal.App.Owner, deal.App.Price, task.ID); err != nil {
		return err
	}
	if err := k.reward(ctx, pool, deal.Dataset.Owner, deal.Dataset.Price, task.ID); err != nil {
		return err
	}

	contributions, err := k.GetContributions(ctx, task.ID)
	if err != nil {
		return err
	}
	var winners, losers []common.Address
	total := deal.Workerpool.Price
	for _, c := range contributions {
		if c.Status == types.ContributionStatusProved {
			winners = append(winners, c.Worker)
			continue
		}
		if err := k.seize(ctx, pool, c.Worker, deal.WorkerStake, task.ID); err != nil {
			return err
		}
		if total, err = SafeAdd(total, deal.WorkerStake); err != nil {
			return types.ErrOverflow.Wrap(err.Error())
		}
		losers = append(losers, c.Worker)
	}
	if len(winners) == 0 {
		return types.ErrSettlementInconsistency.Wrapf("task %s has no proved contribution", task.ID.Hex())
	}

	schedulerReward, err := SafePercentage(total, deal.SchedulerRewardRatio)
	if err != nil {
		return types.ErrOverflow.Wrap(err.Error())
	}
	workersReward := total.Sub(schedulerReward)
	share := workersReward.QuoRaw(int64(len(winners)))
	dust := workersReward.Sub(share.MulRaw(int64(len(winners))))

	for _, w := range winners {
		if err := k.unlock(ctx, w, deal.WorkerStake); err != nil {
			return err
		}
		if err := k.reward(ctx, pool, w, share, task.ID); err != nil {
			return err
		}
		k.increaseScore(ctx, w)
		ctx.EventManager().EmitEvent(sdk.NewEvent(
			types.EventTypeAccurateContrib,
			sdk.NewAttribute(types.AttributeKeyWorker, w.Hex()),
			sdk.NewAttribute(types.AttributeKeyTaskID, task.ID.Hex()),
		))
	}
	for _, l := range losers {
		k.decreaseScore(ctx, l, params.MinWorkerScore)
		ctx.EventManager().EmitEvent(sdk.NewEvent(
			types.EventTypeFaultyContrib,
			sdk.NewAttribute(types.AttributeKeyWorker, l.Hex()),
			sdk.NewAttribute(types.AttributeKeyTaskID, task.ID.Hex()),
		))
	}

	scheduler := deal.Scheduler()
	if err := k.reward(ctx, pool, scheduler, schedulerReward.Add(dust), task.ID); err != nil {
		return err
	}
	if err := k.unlock(ctx, scheduler, deal.SchedulerStake); err != nil {
		return err
	}
	if err := k.payKittyBonus(ctx, pool, params, scheduler, task.ID); err != nil {
		return err
	}
	if err := pool.settled(); err != nil {
		return err
	}

	k.metrics.StakeSeized.Add(amountFloat(deal.WorkerStake.MulRaw(int64(len(losers)))))
	k.metrics.RewardsPaid.Add(amountFloat(total))
	return nil
}

// kittyBonus is the share of the kitty paid to the scheduler of a completed
// task: KittyRatio percent of the kitty, at least KittyMin, at most all of it.
func kittyBonus(kitty math.Int, params types.Params) (math.Int, error) {
	if !kitty.IsPositive() {
		return math.ZeroInt(), nil
	}
	bonus, err := SafePercentage(kitty, params.KittyRatio)
	if err != nil {
		return math.Int{}, err
	}
	bonus = math.MaxInt(bonus, params.KittyMin)
	return math.MinInt(bonus, kitty), nil
}

func (k Keeper) payKittyBonus(ctx sdk.Context, pool *settlementPool, params types.Params, scheduler common.Address, taskID common.Hash) error {
	kitty, err := k.GetAccount(ctx, types.KittyAddress)
	if err != nil {
		return err
	}
	bonus, err := kittyBonus(kitty.Frozen, params)
	if err != nil {
		return types.ErrOverflow.Wrap(err.Error())
	}
	if err := k.seize(ctx, pool, types.KittyAddress, bonus, taskID); err != nil {
		return err
	}
	if err := k.reward(ctx, pool, scheduler, bonus, taskID); err != nil {
		return err
	}
	k.metrics.KittyBalance.Set(amountFloat(kitty.Frozen.Sub(bonus)))
	return nil
}
