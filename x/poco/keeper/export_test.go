package keeper

import (
	"context"
	"time"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"

	"github.com/paw-chain/poco/x/poco/types"
)

// KittyBonusForTest exposes the kitty bonus formula.
func KittyBonusForTest(kitty math.Int, params types.Params) (math.Int, error) {
	return kittyBonus(kitty, params)
}

// ContributionWeightForTest exposes the reputation weighting.
func ContributionWeightForTest(score, capWeight uint64) uint64 {
	return contributionWeight(score, capWeight)
}

// ExpiredTasksForTest exposes the expiry index scan.
func ExpiredTasksForTest(k *Keeper, ctx context.Context, t, limit uint64) []common.Hash {
	return k.expiredTasks(ctx, t, limit)
}

// SetAccountForTest seeds a ledger account directly.
func SetAccountForTest(k *Keeper, ctx context.Context, addr common.Address, acc types.Account) error {
	return k.setAccount(ctx, addr, acc)
}

// DecreaseScoreForTest exposes the loser penalty.
func DecreaseScoreForTest(k *Keeper, ctx context.Context, worker common.Address, floor uint64) {
	k.decreaseScore(ctx, worker, floor)
}

// SetRateLimiterClockForTest replaces the limiter clock and prune cadence.
func SetRateLimiterClockForTest(rl *RateLimiter, now func() time.Time, pruneEvery uint64) {
	rl.now = now
	rl.pruneEvery = pruneEvery
}

// RateLimiterClientsForTest counts the clients holding a bucket.
func RateLimiterClientsForTest(rl *RateLimiter) int {
	n := 0
	rl.limiters.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
