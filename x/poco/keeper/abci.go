package keeper

import (
	"context"

	storetypes "cosmossdk.io/store/types"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/paw-chain/poco/x/poco/types"
	sharedabci "github.com/paw-chain/poco/x/shared/abci"
)

// EndBlocker claims tasks whose final deadline has passed.
func (k Keeper) EndBlocker(ctx context.Context) error {
	sdkCtx := sdk.UnwrapSDKContext(ctx)
	handler := sharedabci.NewBlockerErrorHandler(sdkCtx, types.ModuleName)

	params, err := k.GetParams(ctx)
	if err != nil {
		handler.HandleError("load_params", sharedabci.SeverityHigh, err)
		return nil
	}

	expired := k.expiredTasks(ctx, now(ctx), params.ExpiryBatchSize)
	for _, taskID := range expired {
		if handler.WrapError("claim_expired_task", sharedabci.SeverityMedium, k.Claim(ctx, taskID)) {
			continue
		}
		k.metrics.TasksExpired.Inc()
	}
	return nil
}

// expiredTasks returns up to limit open tasks whose final deadline is at or
// before t, earliest first.
func (k Keeper) expiredTasks(ctx context.Context, t uint64, limit uint64) []common.Hash {
	store := k.getStore(ctx)
	end := concat(TaskExpiryPrefix, GetUint64Bytes(t+1))
	if t == ^uint64(0) {
		end = storetypes.PrefixEndBytes(TaskExpiryPrefix)
	}
	iter := store.Iterator(TaskExpiryPrefix, end)
	defer iter.Close()

	var ids []common.Hash
	for ; iter.Valid() && uint64(len(ids)) < limit; iter.Next() {
		_, taskID := parseTaskExpiryKey(iter.Key()[len(TaskExpiryPrefix):])
		ids = append(ids, taskID)
	}
	return ids
}
