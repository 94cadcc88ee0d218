package keeper

import (
	"context"

	storetypes "cosmossdk.io/store/types"
	"github.com/ethereum/go-ethereum/common"
)

// GetScore returns the reputation of a worker.
func (k Keeper) GetScore(ctx context.Context, worker common.Address) uint64 {
	bz := k.getStore(ctx).Get(GetScoreKey(worker))
	if bz == nil {
		return 0
	}
	return GetUint64FromBytes(bz)
}

// SetScore stores the reputation of a worker.
func (k Keeper) SetScore(ctx context.Context, worker common.Address, score uint64) {
	if score == 0 {
		k.getStore(ctx).Delete(GetScoreKey(worker))
		return
	}
	k.getStore(ctx).Set(GetScoreKey(worker), GetUint64Bytes(score))
}

// IterateScores walks every non-zero worker score.
func (k Keeper) IterateScores(ctx context.Context, cb func(worker common.Address, score uint64) bool) {
	iter := storetypes.KVStorePrefixIterator(k.getStore(ctx), ScoreKeyPrefix)
	defer iter.Close()

	for ; iter.Valid(); iter.Next() {
		if cb(common.BytesToAddress(iter.Key()[len(ScoreKeyPrefix):]), GetUint64FromBytes(iter.Value())) {
			break
		}
	}
}

func (k Keeper) increaseScore(ctx context.Context, worker common.Address) {
	score := k.GetScore(ctx, worker)
	if score < ^uint64(0) {
		score++
	}
	k.SetScore(ctx, worker, score)
}

// decreaseScore lowers a worker's score by one, never below floor.
func (k Keeper) decreaseScore(ctx context.Context, worker common.Address, floor uint64) {
	score := k.GetScore(ctx, worker)
	if score > floor {
		score--
	}
	k.SetScore(ctx, worker, score)
}

// contributionWeight is 1 plus the worker's score bounded by capWeight.
func contributionWeight(score, capWeight uint64) uint64 {
	return 1 + min(score, capWeight)
}
