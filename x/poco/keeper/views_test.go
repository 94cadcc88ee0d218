package keeper_test

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	keepertest "github.com/paw-chain/poco/testutil/keeper"
	"github.com/paw-chain/poco/x/poco/types"
	sharedkeeper "github.com/paw-chain/poco/x/shared/keeper"
)

func TestSharedKeeperView(t *testing.T) {
	f := keepertest.NewPocoFixture(t)
	m := newMarket(t, f)
	var view sharedkeeper.PocoKeeperV1Extended = *f.Keeper

	_, found := view.TaskInfo(f.Ctx, common.HexToHash("0x01"))
	require.False(t, found)

	_, taskID := m.task(t, 1)
	w := m.newWorker(t)
	digest := digestOf("view")
	m.contribute(t, w, taskID, digest)
	require.NoError(t, f.Keeper.Consensus(f.Ctx, m.scheduler.Address, taskID, types.ResultHash(taskID, digest)))
	require.NoError(t, f.Keeper.Reveal(f.Ctx, w.Address, taskID, digest))
	require.NoError(t, f.Keeper.Finalize(f.Ctx, m.scheduler.Address, taskID, nil, nil))

	info, found := view.TaskInfo(f.Ctx, taskID)
	require.True(t, found)
	require.True(t, info.Final)
	require.Equal(t, types.TaskStatusCompleted.String(), info.Status)
	require.Equal(t, digest, info.ResultDigest)

	require.Equal(t, uint64(1), view.WorkerScore(f.Ctx, w.Address))
	stake, err := view.AvailableStake(f.Ctx, w.Address)
	require.NoError(t, err)
	require.Equal(t, initialFunds.AddRaw(990).String(), stake.String())
}
