package keeper

import (
	"context"
	"strconv"

	"cosmossdk.io/math"
	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/paw-chain/poco/x/poco/types"
)

// GetDeal returns a deal by id.
func (k Keeper) GetDeal(ctx context.Context, dealID common.Hash) (types.Deal, error) {
	deal, found, err := k.getDeal(ctx, dealID)
	if err != nil {
		return types.Deal{}, err
	}
	if !found {
		return types.Deal{}, types.ErrDealNotFound.Wrapf("%s", dealID.Hex())
	}
	return deal, nil
}

// SetDeal stores a deal and its request index.
func (k Keeper) SetDeal(ctx context.Context, deal types.Deal) error {
	if err := k.set(ctx, GetDealKey(deal.ID), deal); err != nil {
		return err
	}
	k.getStore(ctx).Set(GetDealsByRequestKey(deal.RequestHash, deal.BotFirst), deal.ID.Bytes())
	return nil
}

// GetDealsByRequest returns the deals sharing one request order, ordered by window.
func (k Keeper) GetDealsByRequest(ctx context.Context, requestHash common.Hash) ([]types.Deal, error) {
	iter := storetypes.KVStorePrefixIterator(k.getStore(ctx), GetDealsByRequestPrefix(requestHash))
	defer iter.Close()

	var deals []types.Deal
	for ; iter.Valid(); iter.Next() {
		deal, err := k.GetDeal(ctx, common.BytesToHash(iter.Value()))
		if err != nil {
			return nil, err
		}
		deals = append(deals, deal)
	}
	return deals, nil
}

// IterateDeals walks every deal.
func (k Keeper) IterateDeals(ctx context.Context, cb func(types.Deal) (stop bool, err error)) error {
	iter := storetypes.KVStorePrefixIterator(k.getStore(ctx), DealKeyPrefix)
	defer iter.Close()

	for ; iter.Valid(); iter.Next() {
		var deal types.Deal
		if err := k.cdc.Unmarshal(iter.Value(), &deal); err != nil {
			return err
		}
		stop, err := cb(deal)
		if err != nil {
			return err
		}
		if stop {
			break
		}
	}
	return nil
}

// MatchOrders turns a compatible order tuple into a funded deal. The
// requester pays for it unless sponsored is set, in which case sender does.
func (k Keeper) MatchOrders(
	ctx context.Context,
	sender common.Address,
	app types.AppOrder,
	dataset types.DatasetOrder,
	workerpool types.WorkerpoolOrder,
	request types.RequestOrder,
	sponsored bool,
) (types.Deal, error) {
	var deal types.Deal
	err := k.atomic(ctx, func(ctx sdk.Context) error {
		plan, err := k.ValidateOrders(ctx, app, dataset, workerpool, request)
		if err != nil {
			return err
		}
		params, err := k.GetParams(ctx)
		if err != nil {
			return err
		}

		botFirst := k.GetConsumed(ctx, plan.RequestHash)
		deal = types.Deal{
			ID:          types.DealID(plan.RequestHash, botFirst),
			RequestHash: plan.RequestHash,
			App: types.DealResource{
				Pointer: app.App,
				Owner:   plan.AppOwner,
				Price:   orZero(app.AppPrice),
			},
			Dataset: types.DealResource{
				Pointer: dataset.Dataset,
				Owner:   plan.DatasetOwner,
				Price:   math.ZeroInt(),
			},
			Workerpool: types.DealResource{
				Pointer: workerpool.Workerpool,
				Owner:   plan.WorkerpoolOwner,
				Price:   orZero(workerpool.WorkerpoolPrice),
			},
			Trust:                plan.Trust,
			Category:             plan.Category.ID,
			Tag:                  plan.Tag,
			Requester:            request.Requester,
			Sponsor:              request.Requester,
			Beneficiary:          request.Beneficiary,
			Callback:             request.Callback,
			Params:               request.Params,
			StartTime:            now(ctx),
			BotFirst:             botFirst,
			BotSize:              plan.Volume,
			SchedulerRewardRatio: plan.Policy.SchedulerRewardRatio,
		}
		if plan.HasDataset {
			deal.Dataset.Price = orZero(dataset.DatasetPrice)
		}
		if sponsored {
			deal.Sponsor = sender
		}
		if deal.WorkerStake, err = SafePercentage(deal.Workerpool.Price, plan.Policy.WorkerStakeRatio); err != nil {
			return types.ErrOverflow.Wrap(err.Error())
		}
		if deal.SchedulerStake, err = SafePercentage(deal.Workerpool.Price, params.WorkerpoolStakeRatio); err != nil {
			return types.ErrOverflow.Wrap(err.Error())
		}

		if _, found, err := k.getDeal(ctx, deal.ID); err != nil {
			return err
		} else if found {
			return types.ErrInvalidOrder.Wrapf("deal %s already exists", deal.ID.Hex())
		}

		volume := math.NewIntFromUint64(plan.Volume)
		payment, err := SafeMul(volume, deal.TaskPrice())
		if err != nil {
			return types.ErrOverflow.Wrap(err.Error())
		}
		if err := k.lock(ctx, deal.Sponsor, payment); err != nil {
			return err
		}
		schedulerLock, err := SafeMul(volume, deal.SchedulerStake)
		if err != nil {
			return types.ErrOverflow.Wrap(err.Error())
		}
		if err := k.lock(ctx, deal.Scheduler(), schedulerLock); err != nil {
			return err
		}

		k.setConsumed(ctx, plan.AppHash, k.GetConsumed(ctx, plan.AppHash)+plan.Volume)
		if plan.HasDataset {
			k.setConsumed(ctx, plan.DatasetHash, k.GetConsumed(ctx, plan.DatasetHash)+plan.Volume)
		}
		k.setConsumed(ctx, plan.WorkerpoolHash, k.GetConsumed(ctx, plan.WorkerpoolHash)+plan.Volume)
		k.setConsumed(ctx, plan.RequestHash, botFirst+plan.Volume)

		if err := k.SetDeal(ctx, deal); err != nil {
			return err
		}

		ctx.EventManager().EmitEvents(sdk.Events{
			sdk.NewEvent(
				types.EventTypeOrdersMatched,
				sdk.NewAttribute(types.AttributeKeyDealID, deal.ID.Hex()),
				sdk.NewAttribute(types.AttributeKeyAppHash, plan.AppHash.Hex()),
				sdk.NewAttribute(types.AttributeKeyDatasetHash, plan.DatasetHash.Hex()),
				sdk.NewAttribute(types.AttributeKeyWorkerpoolHash, plan.WorkerpoolHash.Hex()),
				sdk.NewAttribute(types.AttributeKeyRequestHash, plan.RequestHash.Hex()),
				sdk.NewAttribute(types.AttributeKeyVolume, strconv.FormatUint(plan.Volume, 10)),
			),
			sdk.NewEvent(
				types.EventTypeScheduleDeal,
				sdk.NewAttribute(types.AttributeKeyWorkerpool, deal.Workerpool.Pointer.Hex()),
				sdk.NewAttribute(types.AttributeKeyDealID, deal.ID.Hex()),
				sdk.NewAttribute(types.AttributeKeyBotFirst, strconv.FormatUint(deal.BotFirst, 10)),
				sdk.NewAttribute(types.AttributeKeyBotSize, strconv.FormatUint(deal.BotSize, 10)),
			),
		})

		k.Logger(ctx).Info("orders matched",
			"deal_id", deal.ID.Hex(),
			"bot_first", deal.BotFirst,
			"bot_size", deal.BotSize,
		)
		return nil
	})
	if err != nil {
		return types.Deal{}, err
	}

	k.metrics.DealsMatched.Inc()
	k.metrics.VolumeMatched.Add(float64(deal.BotSize))
	return deal, nil
}

func (k Keeper) getDeal(ctx context.Context, dealID common.Hash) (types.Deal, bool, error) {
	var deal types.Deal
	found, err := k.get(ctx, GetDealKey(dealID), &deal)
	return deal, found, err
}
