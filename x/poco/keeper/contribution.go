package keeper

import (
	"context"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/paw-chain/poco/x/poco/types"
)

// GetContribution returns the contribution of worker to a task.
func (k Keeper) GetContribution(ctx context.Context, taskID common.Hash, worker common.Address) (types.Contribution, bool, error) {
	var c types.Contribution
	found, err := k.get(ctx, GetContributionKey(taskID, worker), &c)
	return c, found, err
}

func (k Keeper) setContribution(ctx context.Context, c types.Contribution) error {
	return k.set(ctx, GetContributionKey(c.TaskID, c.Worker), c)
}

// Contributors lists the workers of a task in contribution order.
func (k Keeper) Contributors(ctx context.Context, taskID common.Hash) []common.Address {
	iter := storetypes.KVStorePrefixIterator(k.getStore(ctx), GetContributorPrefix(taskID))
	defer iter.Close()

	var workers []common.Address
	for ; iter.Valid(); iter.Next() {
		workers = append(workers, common.BytesToAddress(iter.Value()))
	}
	return workers
}

// GetContributions returns every contribution of a task in contribution order.
func (k Keeper) GetContributions(ctx context.Context, taskID common.Hash) ([]types.Contribution, error) {
	workers := k.Contributors(ctx, taskID)
	contributions := make([]types.Contribution, 0, len(workers))
	for _, w := range workers {
		c, found, err := k.GetContribution(ctx, taskID, w)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, types.ErrContributionNotFound.Wrapf("index lists %s on %s", w.Hex(), taskID.Hex())
		}
		contributions = append(contributions, c)
	}
	return contributions, nil
}

// appendContribution stores a new contribution and indexes its worker.
func (k Keeper) appendContribution(ctx context.Context, task *types.Task, c types.Contribution) error {
	c.Sequence = task.ContributorCount
	if err := k.setContribution(ctx, c); err != nil {
		return err
	}
	k.getStore(ctx).Set(GetContributorKey(task.ID, c.Sequence), c.Worker.Bytes())
	task.ContributorCount++
	return nil
}

// ContributionRequest carries a worker's commitment and the signatures
// backing it.
type ContributionRequest struct {
	Worker            common.Address
	TaskID            common.Hash
	ResultHash        common.Hash
	ResultSeal        common.Hash
	Enclave           common.Address
	EnclaveSign       []byte
	AuthorizationSign []byte
}

// Contribute records a worker's commitment on an active task and locks its
// stake.
func (k Keeper) Contribute(ctx context.Context, req ContributionRequest) error {
	err := k.atomic(ctx, func(ctx sdk.Context) error {
		task, err := k.GetTask(ctx, req.TaskID)
		if err != nil {
			return err
		}
		deal, err := k.GetDeal(ctx, task.DealID)
		if err != nil {
			return err
		}
		if err := k.contribute(ctx, &task, deal, req); err != nil {
			return err
		}
		return k.SetTask(ctx, task)
	})
	if err != nil {
		return err
	}
	k.metrics.Contributions.Inc()
	return nil
}

func (k Keeper) contribute(ctx sdk.Context, task *types.Task, deal types.Deal, req ContributionRequest) error {
	if task.Status != types.TaskStatusActive {
		return types.ErrInvalidTaskStatus.Wrapf("task %s is %s", task.ID.Hex(), task.Status)
	}
	if now(ctx) >= task.ContributionDeadline {
		return types.ErrDeadlineReached.Wrap("contribution deadline")
	}
	existing, found, err := k.GetContribution(ctx, task.ID, req.Worker)
	if err != nil {
		return err
	}
	if found {
		return types.ErrAlreadyContributed.Wrapf("%s is %s on %s", req.Worker.Hex(), existing.Status, task.ID.Hex())
	}
	if req.ResultHash == (common.Hash{}) || req.ResultSeal == (common.Hash{}) {
		return types.ErrInvalidContribution.Wrap("result hash and seal are required")
	}

	authorization := types.AuthorizationHash(req.Worker, task.ID, req.Enclave)
	if !types.VerifySignature(deal.Scheduler(), authorization, req.AuthorizationSign) {
		return types.ErrInvalidSignature.Wrap("worker is not authorized by the scheduler")
	}
	if req.Enclave == (common.Address{}) {
		if types.TagRequiresEnclave(deal.Tag) {
			return types.ErrEnclaveRequired.Wrapf("deal %s requires a TEE", deal.ID.Hex())
		}
	} else if !types.VerifySignature(req.Enclave, types.ContributionHash(req.ResultHash, req.ResultSeal), req.EnclaveSign) {
		return types.ErrInvalidSignature.Wrap("enclave signature")
	}

	if err := k.lock(ctx, req.Worker, deal.WorkerStake); err != nil {
		return err
	}
	params, err := k.GetParams(ctx)
	if err != nil {
		return err
	}
	c := types.Contribution{
		TaskID:     task.ID,
		Worker:     req.Worker,
		Status:     types.ContributionStatusContributed,
		ResultHash: req.ResultHash,
		ResultSeal: req.ResultSeal,
		Enclave:    req.Enclave,
		Weight:     contributionWeight(k.GetScore(ctx, req.Worker), params.ScoreWeightCap),
	}
	if err := k.appendContribution(ctx, task, c); err != nil {
		return err
	}

	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeTaskContribute,
		sdk.NewAttribute(types.AttributeKeyTaskID, task.ID.Hex()),
		sdk.NewAttribute(types.AttributeKeyWorker, req.Worker.Hex()),
		sdk.NewAttribute(types.AttributeKeyResultHash, req.ResultHash.Hex()),
	))
	return nil
}

// Reveal proves a contribution that matches the consensus by disclosing the
// result digest.
func (k Keeper) Reveal(ctx context.Context, worker common.Address, taskID, resultDigest common.Hash) error {
	err := k.atomic(ctx, func(ctx sdk.Context) error {
		task, err := k.GetTask(ctx, taskID)
		if err != nil {
			return err
		}
		if err := k.reveal(ctx, &task, worker, resultDigest); err != nil {
			return err
		}
		return k.SetTask(ctx, task)
	})
	if err != nil {
		return err
	}
	k.metrics.Reveals.Inc()
	return nil
}

func (k Keeper) reveal(ctx sdk.Context, task *types.Task, worker common.Address, resultDigest common.Hash) error {
	if task.Status != types.TaskStatusRevealing {
		return types.ErrInvalidTaskStatus.Wrapf("task %s is %s", task.ID.Hex(), task.Status)
	}
	if now(ctx) >= task.RevealDeadline {
		return types.ErrDeadlineReached.Wrap("reveal deadline")
	}
	c, found, err := k.GetContribution(ctx, task.ID, worker)
	if err != nil {
		return err
	}
	if !found {
		return types.ErrContributionNotFound.Wrapf("%s on %s", worker.Hex(), task.ID.Hex())
	}
	if c.Status != types.ContributionStatusContributed {
		return types.ErrInvalidContribution.Wrapf("contribution is %s", c.Status)
	}
	if c.ResultHash != task.ConsensusValue {
		return types.ErrConsensusMismatch.Wrap("contribution is not part of the consensus")
	}
	if types.ResultHash(task.ID, resultDigest) != c.ResultHash {
		return types.ErrInvalidResult.Wrap("digest does not match the result hash")
	}
	if types.ResultSeal(worker, task.ID, resultDigest) != c.ResultSeal {
		return types.ErrInvalidResult.Wrap("digest does not match the result seal")
	}

	c.Status = types.ContributionStatusProved
	if err := k.setContribution(ctx, c); err != nil {
		return err
	}
	task.RevealCounter++
	task.ResultDigest = resultDigest

	ctx.EventManager().EmitEvent(sdk.NewEvent(
		types.EventTypeTaskReveal,
		sdk.NewAttribute(types.AttributeKeyTaskID, task.ID.Hex()),
		sdk.NewAttribute(types.AttributeKeyWorker, worker.Hex()),
		sdk.NewAttribute(types.AttributeKeyDigest, resultDigest.Hex()),
	))
	return nil
}
