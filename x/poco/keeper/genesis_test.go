package keeper_test

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"

	keepertest "github.com/paw-chain/poco/testutil/keeper"
	"github.com/paw-chain/poco/x/poco/types"
)

func TestGenesisRoundTrip(t *testing.T) {
	f := keepertest.NewPocoFixture(t)
	m := newMarket(t, f)

	// one completed task, one revealing task with a pending loser, one pending callback
	_, done := m.task(t, 1)
	w := m.newWorker(t)
	digest := digestOf("r")
	m.contribute(t, w, done, digest)
	require.NoError(t, f.Keeper.Consensus(f.Ctx, m.scheduler.Address, done, types.ResultHash(done, digest)))
	require.NoError(t, f.Keeper.Reveal(f.Ctx, w.Address, done, digest))
	require.NoError(t, f.Keeper.Finalize(f.Ctx, m.scheduler.Address, done, []byte("out"), nil))

	_, open := m.task(t, 2)
	a, b, c := m.newWorker(t), m.newWorker(t), m.newWorker(t)
	m.contribute(t, c, open, digestOf("z"))
	m.contribute(t, a, open, digest)
	m.contribute(t, b, open, digest)
	require.NoError(t, f.Keeper.Consensus(f.Ctx, m.scheduler.Address, open, types.ResultHash(open, digest)))

	o := m.orders(4, 1)
	m.sign(t, &o)
	_, err := f.Keeper.ManageOrder(f.Ctx, m.requester.Address, o.Request, types.OrderOperationSign)
	require.NoError(t, err)

	require.NoError(t, f.Keeper.SetPendingCallback(f.Ctx, types.PendingCallback{
		TaskID:    done,
		Callback:  callbackAddress,
		Attempts:  3,
		LastError: "reverted",
	}))

	exported, err := f.Keeper.ExportGenesis(f.Ctx)
	require.NoError(t, err)
	require.NoError(t, exported.Validate())
	require.Len(t, exported.Deals, 2)
	require.Len(t, exported.Tasks, 2)
	require.Len(t, exported.Contributions, 4)
	require.Len(t, exported.Presigned, 1)
	require.Len(t, exported.PendingCallbacks, 1)

	bz, err := types.MarshalGenesis(exported)
	require.NoError(t, err)
	decoded, err := types.UnmarshalGenesis(bz)
	require.NoError(t, err)

	imported := keepertest.NewPocoFixtureWithGenesis(t, &decoded)
	reexported, err := imported.Keeper.ExportGenesis(imported.Ctx)
	require.NoError(t, err)
	require.Equal(t, exported, reexported)

	// contributor order survives the import
	contributors := imported.Keeper.Contributors(imported.Ctx, open)
	require.Equal(t, []common.Address{c.Address, a.Address, b.Address}, contributors)

	// the imported task keeps its place in the expiry index
	imported.AdvanceTime(10 * xsTimeRef * time.Second)
	require.NoError(t, imported.Keeper.EndBlocker(imported.Ctx))
	task, err := imported.Keeper.GetTask(imported.Ctx, open)
	require.NoError(t, err)
	require.Equal(t, types.TaskStatusFailed, task.Status)
}

func TestGenesisValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*types.GenesisState)
		wantErr bool
	}{
		{"default", func(*types.GenesisState) {}, false},
		{"invalid params", func(gs *types.GenesisState) { gs.Params.Denom = "" }, true},
		{"category out of order", func(gs *types.GenesisState) { gs.Categories[1].ID = 7 }, true},
		{"category without time reference", func(gs *types.GenesisState) { gs.Categories[0].WorkClockTimeRef = 0 }, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gs := types.DefaultGenesis()
			tc.mutate(gs)
			err := gs.Validate()
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
